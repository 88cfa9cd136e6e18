// Package wire reads and writes the small subset of HTTP/1.x the control
// surface speaks: a start line, headers that are skipped, and a fixed
// response head.
package wire

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// MethodGet is the only method the control surface answers.
const MethodGet = "GET"

// ErrMalformed is returned for a start line with fewer than two tokens.
var ErrMalformed = errors.New("malformed request line")

// RequestLine is the method and target of a start line. The protocol
// version, if present, is ignored.
type RequestLine struct {
	Method string
	Target string
}

// ParseRequestLine splits a start line on whitespace.
func ParseRequestLine(line string) (RequestLine, error) {
	tokens := strings.Fields(line)
	if len(tokens) < 2 {
		return RequestLine{}, fmt.Errorf("%w: %q", ErrMalformed, strings.TrimSpace(line))
	}
	return RequestLine{Method: tokens[0], Target: tokens[1]}, nil
}

// ReadRequestLine reads one line and parses it.
// A line cut short by EOF is still parsed.
func ReadRequestLine(r *bufio.Reader) (RequestLine, error) {
	line, err := r.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return RequestLine{}, err
	}
	return ParseRequestLine(line)
}

// DrainHeaders consumes header lines up to and including the blank line
// that ends them. EOF ends the headers as well. It returns the number of
// header lines skipped.
func DrainHeaders(r *bufio.Reader) (int, error) {
	n := 0
	for {
		line, err := r.ReadString('\n')
		if line == "\r\n" || line == "\n" {
			return n, nil
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return n, nil
			}
			return n, err
		}
		n++
	}
}

// WriteHead writes an HTTP/1.0 200 response head. A negative length omits
// Content-Length.
func WriteHead(w io.Writer, contentType string, length int64) error {
	var b strings.Builder
	b.WriteString("HTTP/1.0 200 OK\r\n")
	if contentType != "" {
		b.WriteString("Content-Type: " + contentType + "\r\n")
	}
	if length >= 0 {
		fmt.Fprintf(&b, "Content-Length: %d\r\n", length)
	}
	b.WriteString("Connection: close\r\n\r\n")
	_, err := io.WriteString(w, b.String())
	return err
}

// SplitResponse separates a response into head and body at the first blank line.
func SplitResponse(raw string) (head, body string, ok bool) {
	return strings.Cut(raw, "\r\n\r\n")
}
