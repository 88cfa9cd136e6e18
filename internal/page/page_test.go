package page

import (
	"bytes"
	"errors"
	"io/fs"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/smazurov/blinknode/internal/led"
	"github.com/smazurov/blinknode/internal/pattern"
	"github.com/smazurov/blinknode/internal/wire"
)

const testTemplate = `<html><body>
<p>$SYSTEM_INFO</p>
<a href="/TOOGLE_LED2">LED2 $LED2_STATUS</a>
<a href="/TOOGLE_LED4">LED4 $LED4_STATUS</a>
<a href="/TOOGLE_LED16">LED16 $LED16_STATUS</a>
<a href="/BLINK">blink $BLINK_STATUS</a>
<a href="/ROTATE">rotate $ROTATE_STATUS</a>
</body></html>`

var testInfo = SystemInfo{Machine: "esp-board", System: "linux", Release: "6.1.0", Runtime: "go1.24"}

func snapshot(mode pattern.Mode, enabled ...bool) pattern.Snapshot {
	var snap pattern.Snapshot
	snap.Mode = mode
	for i, id := range led.All() {
		snap.Channels[i].ID = id
		if i < len(enabled) {
			snap.Channels[i].Enabled = enabled[i]
		}
	}
	return snap
}

func TestParse_SubstitutesSystemInfoOnce(t *testing.T) {
	r, err := Parse(testTemplate+"$SYSTEM_INFO", testInfo)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	body := string(r.Body(snapshot(pattern.Static)))
	if !strings.Contains(body, "<li>System: linux</li>") {
		t.Errorf("system info missing from body:\n%s", body)
	}
	if strings.Count(body, "$SYSTEM_INFO") != 1 {
		t.Errorf("expected the second $SYSTEM_INFO to remain verbatim")
	}
}

func TestParse_MissingTokens(t *testing.T) {
	raw := strings.Replace(testTemplate, "$ROTATE_STATUS", "", 1)
	raw = strings.Replace(raw, "$SYSTEM_INFO", "", 1)

	_, err := Parse(raw, testInfo)
	if !errors.Is(err, ErrMissingToken) {
		t.Fatalf("error = %v, want ErrMissingToken", err)
	}
	if !strings.Contains(err.Error(), TokenRotate) || !strings.Contains(err.Error(), TokenSystemInfo) {
		t.Errorf("error %q should name both missing tokens", err)
	}
}

func TestMissingTokens(t *testing.T) {
	if got := MissingTokens(testTemplate); len(got) != 0 {
		t.Errorf("MissingTokens() = %v, want none", got)
	}
	if got := MissingTokens(""); len(got) != len(Tokens()) {
		t.Errorf("MissingTokens(\"\") = %v, want all %d", got, len(Tokens()))
	}
}

func TestBody_StatusValues(t *testing.T) {
	r, err := Parse(testTemplate, testInfo)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		snap pattern.Snapshot
		want []string
	}{
		{
			name: "all off",
			snap: snapshot(pattern.Static),
			want: []string{"LED2 OFF", "LED4 OFF", "LED16 OFF", "blink OFF", "rotate OFF"},
		},
		{
			name: "led4 on while blinking",
			snap: snapshot(pattern.Blink, false, true, false),
			want: []string{"LED2 OFF", "LED4 ON", "LED16 OFF", "blink ON", "rotate OFF"},
		},
		{
			name: "all on while rotating",
			snap: snapshot(pattern.Rotate, true, true, true),
			want: []string{"LED2 ON", "LED4 ON", "LED16 ON", "blink OFF", "rotate ON"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := string(r.Body(tt.snap))
			for _, w := range tt.want {
				if !strings.Contains(body, w) {
					t.Errorf("body missing %q", w)
				}
			}
		})
	}
}

func TestBody_FirstOccurrenceOnly(t *testing.T) {
	r, err := Parse(testTemplate+" $BLINK_STATUS", testInfo)
	if err != nil {
		t.Fatal(err)
	}
	body := string(r.Body(snapshot(pattern.Blink)))
	if !strings.HasSuffix(body, " $BLINK_STATUS") {
		t.Errorf("second placeholder should be left as is, body ends %q", body[len(body)-20:])
	}
}

func TestRender_WritesHead(t *testing.T) {
	r, err := Parse(testTemplate, testInfo)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := r.Render(&buf, snapshot(pattern.Static, true)); err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	head, body, ok := wire.SplitResponse(buf.String())
	if !ok {
		t.Fatalf("response has no head: %q", buf.String())
	}
	if !strings.HasPrefix(head, "HTTP/1.0 200 OK") {
		t.Errorf("head = %q", head)
	}
	if !strings.Contains(head, "Content-Type: "+ContentType) {
		t.Errorf("head lacks content type: %q", head)
	}
	if !strings.Contains(body, "LED2 ON") {
		t.Errorf("body lacks LED2 ON")
	}
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestRender_WriteError(t *testing.T) {
	r, err := Parse(testTemplate, testInfo)
	if err != nil {
		t.Fatal(err)
	}
	if err := r.Render(failWriter{}, snapshot(pattern.Static)); err == nil {
		t.Error("expected write error")
	}
}

func TestLoad(t *testing.T) {
	fsys := fstest.MapFS{
		"index.html":  {Data: []byte(testTemplate)},
		"broken.html": {Data: []byte("<html>$LED2_STATUS</html>")},
	}

	r, err := Load(fsys, "index.html", testInfo)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if r.Name() != "index.html" {
		t.Errorf("Name() = %q", r.Name())
	}

	if _, err := Load(fsys, "broken.html", testInfo); !errors.Is(err, ErrMissingToken) {
		t.Errorf("Load(broken) error = %v, want ErrMissingToken", err)
	}
	if _, err := Load(fsys, "missing.html", testInfo); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Load(missing) error = %v, want fs.ErrNotExist", err)
	}
}

func TestSystemInfoHTML_Escapes(t *testing.T) {
	info := SystemInfo{Machine: "<board>", System: "a&b"}
	got := info.HTML()
	if strings.Contains(got, "<board>") || !strings.Contains(got, "&lt;board&gt;") {
		t.Errorf("machine not escaped: %s", got)
	}
	if !strings.Contains(got, "a&amp;b") {
		t.Errorf("system not escaped: %s", got)
	}
}

func TestCurrentSystemInfo(t *testing.T) {
	info := CurrentSystemInfo()
	if info.System == "" || info.Runtime == "" {
		t.Errorf("CurrentSystemInfo() = %+v, want system and runtime set", info)
	}
}
