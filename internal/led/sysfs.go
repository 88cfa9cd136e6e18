package led

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
)

const sysfsLEDPath = "/sys/class/leds"

// sysfs implements Driver using the Linux LED class interface.
// brightness is the lit state, so levels are mapped through the channel
// polarity: 1 iff the level is the channel's active level.
type sysfs struct {
	root  string
	names [Count]string
}

func newSysfs(root string, names [Count]string) (*sysfs, error) {
	if root == "" {
		root = sysfsLEDPath
	}
	s := &sysfs{root: root, names: names}

	for _, id := range All() {
		ledPath := filepath.Join(root, names[id])
		if _, err := os.Stat(ledPath); err != nil {
			return nil, fmt.Errorf("LED %s not found at %s: %w", id, ledPath, err)
		}
		// Manual control only; a trigger would fight the pattern engine.
		_ = os.WriteFile(filepath.Join(ledPath, "trigger"), []byte("none"), 0o644)
		if err := s.SetLevel(id, IdleLevel(id)); err != nil {
			return nil, err
		}
	}

	return s, nil
}

func (s *sysfs) brightnessPath(ch ID) string {
	return filepath.Join(s.root, s.names[ch], "brightness")
}

func (s *sysfs) SetLevel(ch ID, high bool) error {
	if err := checkID(ch); err != nil {
		return err
	}
	value := "0"
	if high == ActiveLevel(ch) {
		value = "1"
	}
	if err := os.WriteFile(s.brightnessPath(ch), []byte(value), 0o644); err != nil {
		return fmt.Errorf("failed to set LED brightness for %s: %w", ch, err)
	}
	return nil
}

func (s *sysfs) Level(ch ID) (bool, error) {
	if err := checkID(ch); err != nil {
		return false, err
	}
	data, err := os.ReadFile(s.brightnessPath(ch))
	if err != nil {
		return false, fmt.Errorf("failed to read LED brightness for %s: %w", ch, err)
	}
	data = bytes.TrimSpace(data)
	if len(data) > 0 && !bytes.Equal(data, []byte("0")) {
		return ActiveLevel(ch), nil
	}
	return IdleLevel(ch), nil
}

func (s *sysfs) Close() error {
	return nil
}
