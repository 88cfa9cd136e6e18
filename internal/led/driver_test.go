package led

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestPolarityTable(t *testing.T) {
	tests := []struct {
		id        ID
		name      string
		activeLow bool
	}{
		{LED2, "led2", true},
		{LED4, "led4", false},
		{LED16, "led16", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.id.String(); got != tt.name {
				t.Errorf("String() = %q, want %q", got, tt.name)
			}
			if got := ActiveLow(tt.id); got != tt.activeLow {
				t.Errorf("ActiveLow() = %v, want %v", got, tt.activeLow)
			}
			if IdleLevel(tt.id) == ActiveLevel(tt.id) {
				t.Error("idle and active levels must differ")
			}
		})
	}
}

func TestMemory_StartsAtBaseline(t *testing.T) {
	m := NewMemory()
	want := [Count]bool{true, false, true}
	if got := m.Levels(); got != want {
		t.Errorf("Levels() = %v, want %v", got, want)
	}
}

func TestMemory_SetLevel(t *testing.T) {
	m := NewMemory()
	if err := m.SetLevel(LED4, true); err != nil {
		t.Fatalf("SetLevel() error: %v", err)
	}
	level, err := m.Level(LED4)
	if err != nil {
		t.Fatalf("Level() error: %v", err)
	}
	if !level {
		t.Error("Level(LED4) = false, want true")
	}
	if m.Writes() != 1 {
		t.Errorf("Writes() = %d, want 1", m.Writes())
	}
}

func TestMemory_InvalidChannel(t *testing.T) {
	m := NewMemory()
	if err := m.SetLevel(ID(7), true); !errors.Is(err, ErrUnknownChannel) {
		t.Errorf("SetLevel(7) error = %v, want ErrUnknownChannel", err)
	}
	if _, err := m.Level(ID(-1)); !errors.Is(err, ErrUnknownChannel) {
		t.Errorf("Level(-1) error = %v, want ErrUnknownChannel", err)
	}
}

func makeSysfsTree(t *testing.T, names [Count]string) string {
	t.Helper()
	root := t.TempDir()
	for _, name := range names {
		dir := filepath.Join(root, name)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(dir, "brightness"), []byte("0\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func TestSysfs_InitialisesBaseline(t *testing.T) {
	names := [Count]string{"a", "b", "c"}
	root := makeSysfsTree(t, names)

	drv, err := newSysfs(root, names)
	if err != nil {
		t.Fatalf("newSysfs() error: %v", err)
	}

	for _, id := range All() {
		level, err := drv.Level(id)
		if err != nil {
			t.Fatalf("Level(%s) error: %v", id, err)
		}
		if level != IdleLevel(id) {
			t.Errorf("Level(%s) = %v, want idle %v", id, level, IdleLevel(id))
		}
	}

	trigger, err := os.ReadFile(filepath.Join(root, "a", "trigger"))
	if err != nil {
		t.Fatalf("trigger not written: %v", err)
	}
	if string(trigger) != "none" {
		t.Errorf("trigger = %q, want none", trigger)
	}
}

func TestSysfs_SetLevel(t *testing.T) {
	names := [Count]string{"a", "b", "c"}
	root := makeSysfsTree(t, names)

	drv, err := newSysfs(root, names)
	if err != nil {
		t.Fatalf("newSysfs() error: %v", err)
	}

	if err := drv.SetLevel(LED4, true); err != nil {
		t.Fatalf("SetLevel() error: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(root, "b", "brightness"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "1" {
		t.Errorf("brightness = %q, want 1", data)
	}
}

func readBrightness(t *testing.T, root, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, name, "brightness"))
	if err != nil {
		t.Fatal(err)
	}
	return strings.TrimSpace(string(data))
}

func TestSysfs_IdleIsDark(t *testing.T) {
	names := [Count]string{"led2", "led4", "led16"}
	root := makeSysfsTree(t, names)
	// start lit so the baseline write is observable
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(root, name, "brightness"), []byte("1\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	if _, err := newSysfs(root, names); err != nil {
		t.Fatalf("newSysfs() error: %v", err)
	}
	for _, name := range names {
		if got := readBrightness(t, root, name); got != "0" {
			t.Errorf("%s brightness = %q at idle, want 0", name, got)
		}
	}
}

func TestSysfs_Polarity(t *testing.T) {
	names := [Count]string{"led2", "led4", "led16"}
	root := makeSysfsTree(t, names)

	drv, err := newSysfs(root, names)
	if err != nil {
		t.Fatalf("newSysfs() error: %v", err)
	}

	tests := []struct {
		ch         ID
		level      bool
		brightness string
	}{
		{LED2, false, "1"},
		{LED2, true, "0"},
		{LED4, true, "1"},
		{LED4, false, "0"},
		{LED16, false, "1"},
		{LED16, true, "0"},
	}
	for _, tt := range tests {
		if err := drv.SetLevel(tt.ch, tt.level); err != nil {
			t.Fatalf("SetLevel(%s, %v) error: %v", tt.ch, tt.level, err)
		}
		if got := readBrightness(t, root, names[tt.ch]); got != tt.brightness {
			t.Errorf("SetLevel(%s, %v): brightness = %q, want %q", tt.ch, tt.level, got, tt.brightness)
		}
		got, err := drv.Level(tt.ch)
		if err != nil {
			t.Fatalf("Level(%s) error: %v", tt.ch, err)
		}
		if got != tt.level {
			t.Errorf("Level(%s) = %v after SetLevel(%v)", tt.ch, got, tt.level)
		}
	}

	// brightness above 1 is still lit
	if err := os.WriteFile(filepath.Join(root, "led2", "brightness"), []byte("255\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if got, _ := drv.Level(LED2); got != ActiveLevel(LED2) {
		t.Errorf("Level(led2) with brightness 255 = %v, want active %v", got, ActiveLevel(LED2))
	}
}

func TestSysfs_MissingLED(t *testing.T) {
	root := t.TempDir()
	if _, err := newSysfs(root, [Count]string{"x", "y", "z"}); err == nil {
		t.Error("newSysfs() with missing LEDs should return error")
	}
}
