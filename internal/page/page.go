// Package page renders the status page from an HTML template.
//
// The template carries six placeholders. $SYSTEM_INFO is filled once when
// the template is loaded; the five status placeholders are filled with ON
// or OFF on every render. Only the first occurrence of each is replaced.
package page

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/smazurov/blinknode/internal/led"
	"github.com/smazurov/blinknode/internal/pattern"
	"github.com/smazurov/blinknode/internal/wire"
)

// Template placeholders.
const (
	TokenLED2       = "$LED2_STATUS"
	TokenLED4       = "$LED4_STATUS"
	TokenLED16      = "$LED16_STATUS"
	TokenBlink      = "$BLINK_STATUS"
	TokenRotate     = "$ROTATE_STATUS"
	TokenSystemInfo = "$SYSTEM_INFO"
)

// ContentType is sent with every rendered page.
const ContentType = "text/html; charset=utf-8"

// DefaultTemplate is the template file name inside the assets filesystem.
const DefaultTemplate = "index.html"

// ErrMissingToken is returned when a template lacks a placeholder.
var ErrMissingToken = errors.New("template is missing placeholder")

var channelTokens = [led.Count]string{TokenLED2, TokenLED4, TokenLED16}

// Tokens lists every placeholder a template must contain.
func Tokens() []string {
	return []string{TokenLED2, TokenLED4, TokenLED16, TokenBlink, TokenRotate, TokenSystemInfo}
}

// Renderer fills a loaded template with live status values.
// It is immutable once built.
type Renderer struct {
	name string
	html string
}

// Load reads name from fsys and prepares it for rendering.
func Load(fsys fs.FS, name string, info SystemInfo) (*Renderer, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("read template %s: %w", name, err)
	}
	r, err := Parse(string(data), info)
	if err != nil {
		return nil, fmt.Errorf("template %s: %w", name, err)
	}
	r.name = name
	return r, nil
}

// Loader returns a load function for a file watcher on the template.
// The watched path is ignored; name is read again from fsys.
func Loader(fsys fs.FS, name string, info SystemInfo) func(string) (*Renderer, error) {
	return func(string) (*Renderer, error) {
		return Load(fsys, name, info)
	}
}

// Parse validates raw and substitutes the system information.
func Parse(raw string, info SystemInfo) (*Renderer, error) {
	if missing := MissingTokens(raw); len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingToken, strings.Join(missing, ", "))
	}
	return &Renderer{html: strings.Replace(raw, TokenSystemInfo, info.HTML(), 1)}, nil
}

// MissingTokens returns the placeholders absent from raw.
func MissingTokens(raw string) []string {
	var missing []string
	for _, tok := range Tokens() {
		if !strings.Contains(raw, tok) {
			missing = append(missing, tok)
		}
	}
	return missing
}

// Name returns the file the renderer was loaded from, if any.
func (r *Renderer) Name() string {
	return r.name
}

// Body returns the page for snap.
func (r *Renderer) Body(snap pattern.Snapshot) []byte {
	out := r.html
	for i, tok := range channelTokens {
		out = strings.Replace(out, tok, onOff(snap.Channels[i].Enabled), 1)
	}
	out = strings.Replace(out, TokenBlink, onOff(snap.Blink()), 1)
	out = strings.Replace(out, TokenRotate, onOff(snap.Rotate()), 1)
	return []byte(out)
}

// Render writes the response head and the page for snap to w.
func (r *Renderer) Render(w io.Writer, snap pattern.Snapshot) error {
	body := r.Body(snap)
	var buf bytes.Buffer
	if err := wire.WriteHead(&buf, ContentType, int64(len(body))); err != nil {
		return err
	}
	buf.Write(body)
	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("write page: %w", err)
	}
	return nil
}

func onOff(v bool) string {
	if v {
		return "ON"
	}
	return "OFF"
}
