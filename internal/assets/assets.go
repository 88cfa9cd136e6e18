// Package assets streams static files such as stylesheets and icons.
package assets

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"path"

	"github.com/smazurov/blinknode/internal/wire"
)

// ChunkSize is the number of bytes copied per write.
const ChunkSize = 256

// ErrInvalidPath is returned for names that escape the assets root.
var ErrInvalidPath = errors.New("invalid asset path")

// ContentType guesses the content type from the file extension.
func ContentType(name string) string {
	switch ext := path.Ext(name); ext {
	case ".css":
		return "text/css; charset=utf-8"
	case ".ico":
		return "image/x-icon"
	default:
		if ct := mime.TypeByExtension(ext); ct != "" {
			return ct
		}
		return "application/octet-stream"
	}
}

// Stream writes a complete response to w: the HTTP/1.0 200 head with the
// file's content type and length, then the raw bytes of name from fsys.
// Nothing is written when the file cannot be opened. It returns the number
// of body bytes written, head excluded.
func Stream(w io.Writer, fsys fs.FS, name string) (int64, error) {
	if !fs.ValidPath(name) || name == "." {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPath, name)
	}

	f, err := fsys.Open(name)
	if err != nil {
		return 0, fmt.Errorf("open asset: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return 0, fmt.Errorf("stat asset %s: %w", name, err)
	}
	if info.IsDir() {
		return 0, fmt.Errorf("%w: %s is a directory", ErrInvalidPath, name)
	}

	if err := wire.WriteHead(w, ContentType(name), info.Size()); err != nil {
		return 0, fmt.Errorf("write asset head: %w", err)
	}

	n, err := io.CopyBuffer(onlyWriter{w}, onlyReader{f}, make([]byte, ChunkSize))
	if err != nil {
		return n, fmt.Errorf("stream asset %s: %w", name, err)
	}
	return n, nil
}

// onlyWriter and onlyReader hide ReaderFrom and WriterTo so CopyBuffer
// always moves data through the fixed-size buffer.
type onlyWriter struct{ io.Writer }

type onlyReader struct{ io.Reader }
