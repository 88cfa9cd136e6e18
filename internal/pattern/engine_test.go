package pattern

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/smazurov/blinknode/internal/led"
)

var baseline = [led.Count]bool{true, false, true}

func newTestEngine(t *testing.T) (*Engine, *led.Memory) {
	t.Helper()
	drv := led.NewMemory()
	e, err := New(drv)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return e, drv
}

func mustTick(t *testing.T, e *Engine) {
	t.Helper()
	if err := e.Tick(); err != nil {
		t.Fatalf("Tick() error: %v", err)
	}
}

func TestNew_InitialState(t *testing.T) {
	e, _ := newTestEngine(t)
	snap := e.Snapshot()

	if snap.Mode != Static {
		t.Errorf("Mode = %v, want static", snap.Mode)
	}
	for _, ch := range snap.Channels {
		if ch.Enabled {
			t.Errorf("%s enabled at start", ch.ID)
		}
		if ch.Level != baseline[ch.ID] {
			t.Errorf("%s level = %v, want baseline %v", ch.ID, ch.Level, baseline[ch.ID])
		}
	}
}

func TestToggleEnabled(t *testing.T) {
	e, drv := newTestEngine(t)
	writes := drv.Writes()

	if err := e.ToggleEnabled(led.LED16); err != nil {
		t.Fatalf("ToggleEnabled() error: %v", err)
	}
	if !e.Enabled(led.LED16) {
		t.Error("LED16 not enabled after toggle")
	}
	if e.Enabled(led.LED2) || e.Enabled(led.LED4) {
		t.Error("toggle leaked to other channels")
	}
	if drv.Writes() != writes {
		t.Error("ToggleEnabled must not touch the driver")
	}

	if err := e.ToggleEnabled(led.LED16); err != nil {
		t.Fatalf("ToggleEnabled() error: %v", err)
	}
	if e.Enabled(led.LED16) {
		t.Error("LED16 still enabled after second toggle")
	}
}

func TestToggleEnabled_Unknown(t *testing.T) {
	e, _ := newTestEngine(t)
	if err := e.ToggleEnabled(led.ID(3)); !errors.Is(err, led.ErrUnknownChannel) {
		t.Errorf("ToggleEnabled(3) error = %v, want ErrUnknownChannel", err)
	}
}

func TestPatternsMutuallyExclusive(t *testing.T) {
	e, _ := newTestEngine(t)
	rng := rand.New(rand.NewPCG(1, 2))

	for i := 0; i < 500; i++ {
		var err error
		switch rng.IntN(4) {
		case 0:
			err = e.ToggleBlink()
		case 1:
			err = e.ToggleRotate()
		case 2:
			err = e.ToggleEnabled(led.ID(rng.IntN(led.Count)))
		default:
			err = e.Tick()
		}
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		snap := e.Snapshot()
		if snap.Blink() && snap.Rotate() {
			t.Fatalf("step %d: blink and rotate both active", i)
		}
		if !snap.Rotate() && snap.RotationIndex != 0 {
			t.Fatalf("step %d: rotation index %d outside rotate mode", i, snap.RotationIndex)
		}
	}
}

func TestToggleBlink_StopsRotate(t *testing.T) {
	e, drv := newTestEngine(t)

	if err := e.ToggleRotate(); err != nil {
		t.Fatal(err)
	}
	mustTick(t, e)
	mustTick(t, e)
	if e.Snapshot().RotationIndex != 2 {
		t.Fatalf("RotationIndex = %d, want 2", e.Snapshot().RotationIndex)
	}

	if err := e.ToggleBlink(); err != nil {
		t.Fatal(err)
	}
	snap := e.Snapshot()
	if snap.Mode != Blink {
		t.Errorf("Mode = %v, want blink", snap.Mode)
	}
	if snap.RotationIndex != 0 {
		t.Errorf("RotationIndex = %d, want 0", snap.RotationIndex)
	}
	if drv.Levels() != baseline {
		t.Errorf("levels = %v, want baseline %v", drv.Levels(), baseline)
	}
	for _, ch := range snap.Channels {
		if !ch.Enabled {
			t.Errorf("%s disabled after starting blink", ch.ID)
		}
	}
}

func TestTogglePattern_EnablesEveryChannel(t *testing.T) {
	for _, mode := range []Mode{Blink, Rotate} {
		t.Run(mode.String(), func(t *testing.T) {
			e, drv := newTestEngine(t)
			_ = e.ToggleEnabled(led.LED4)
			// push one channel off baseline so the reset is observable
			_ = drv.SetLevel(led.LED2, false)

			toggle := e.ToggleBlink
			if mode == Rotate {
				toggle = e.ToggleRotate
			}
			if err := toggle(); err != nil {
				t.Fatal(err)
			}

			snap := e.Snapshot()
			for _, ch := range snap.Channels {
				if !ch.Enabled {
					t.Errorf("%s disabled after starting %s", ch.ID, mode)
				}
			}
			if drv.Levels() != baseline {
				t.Errorf("levels = %v, want baseline %v", drv.Levels(), baseline)
			}

			// stopping the pattern keeps the flags
			if err := toggle(); err != nil {
				t.Fatal(err)
			}
			for _, ch := range e.Snapshot().Channels {
				if !ch.Enabled {
					t.Errorf("%s disabled after stopping %s", ch.ID, mode)
				}
			}
		})
	}
}

func TestToggleRotate_StopsBlink(t *testing.T) {
	e, drv := newTestEngine(t)
	_ = e.ToggleEnabled(led.LED4)

	if err := e.ToggleBlink(); err != nil {
		t.Fatal(err)
	}
	mustTick(t, e)

	if err := e.ToggleRotate(); err != nil {
		t.Fatal(err)
	}
	snap := e.Snapshot()
	if snap.Mode != Rotate {
		t.Errorf("Mode = %v, want rotate", snap.Mode)
	}
	if snap.RotationIndex != 0 {
		t.Errorf("RotationIndex = %d, want 0", snap.RotationIndex)
	}
	if drv.Levels() != baseline {
		t.Errorf("levels = %v, want baseline %v", drv.Levels(), baseline)
	}
}

func TestTogglePatternTwice_ReturnsToStatic(t *testing.T) {
	e, _ := newTestEngine(t)
	for _, toggle := range []func() error{e.ToggleBlink, e.ToggleRotate} {
		if err := toggle(); err != nil {
			t.Fatal(err)
		}
		if err := toggle(); err != nil {
			t.Fatal(err)
		}
		if e.Mode() != Static {
			t.Errorf("Mode = %v after double toggle, want static", e.Mode())
		}
	}
}

func TestTickStatic(t *testing.T) {
	tests := []struct {
		name    string
		enabled [led.Count]bool
		want    [led.Count]bool
	}{
		{"none", [led.Count]bool{false, false, false}, [led.Count]bool{true, false, true}},
		{"all", [led.Count]bool{true, true, true}, [led.Count]bool{false, true, false}},
		{"led2", [led.Count]bool{true, false, false}, [led.Count]bool{false, false, true}},
		{"led4", [led.Count]bool{false, true, false}, [led.Count]bool{true, true, true}},
		{"led16", [led.Count]bool{false, false, true}, [led.Count]bool{true, false, false}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, drv := newTestEngine(t)
			for id, on := range tt.enabled {
				if on {
					_ = e.ToggleEnabled(led.ID(id))
				}
			}

			// repeated ticks are a no-op on levels
			for i := 0; i < 3; i++ {
				mustTick(t, e)
				if got := drv.Levels(); got != tt.want {
					t.Fatalf("tick %d: levels = %v, want %v", i, got, tt.want)
				}
			}
		})
	}
}

func TestTickBlink(t *testing.T) {
	e, drv := newTestEngine(t)
	if err := e.ToggleBlink(); err != nil {
		t.Fatal(err)
	}
	_ = e.ToggleEnabled(led.LED16)

	// LED16 is disabled; push it away from idle to check it is forced back.
	if err := drv.SetLevel(led.LED16, false); err != nil {
		t.Fatal(err)
	}

	prev := drv.Levels()
	for i := 0; i < 6; i++ {
		mustTick(t, e)
		got := drv.Levels()
		if got[led.LED2] == prev[led.LED2] {
			t.Errorf("tick %d: LED2 did not alternate", i)
		}
		if got[led.LED4] == prev[led.LED4] {
			t.Errorf("tick %d: LED4 did not alternate", i)
		}
		if got[led.LED16] != led.IdleLevel(led.LED16) {
			t.Errorf("tick %d: disabled LED16 = %v, want idle", i, got[led.LED16])
		}
		prev = got
	}
}

func TestTickBlink_DisabledForcedIdle(t *testing.T) {
	e, drv := newTestEngine(t)
	if err := e.ToggleBlink(); err != nil {
		t.Fatal(err)
	}
	for _, id := range led.All() {
		_ = e.ToggleEnabled(id)
		_ = drv.SetLevel(id, !led.IdleLevel(id))
	}

	mustTick(t, e)
	if drv.Levels() != baseline {
		t.Errorf("levels = %v, want all idle %v", drv.Levels(), baseline)
	}
}

func TestTickRotate(t *testing.T) {
	e, drv := newTestEngine(t)
	if err := e.ToggleRotate(); err != nil {
		t.Fatal(err)
	}

	for round := 0; round < 3; round++ {
		seen := make(map[int]bool)
		for i := 0; i < 3; i++ {
			mustTick(t, e)
			snap := e.Snapshot()
			seen[snap.RotationIndex] = true

			for _, ch := range snap.Channels {
				wantActive := int(ch.ID) == snap.RotationIndex
				if ch.Active() != wantActive {
					t.Errorf("round %d index %d: %s active = %v, want %v",
						round, snap.RotationIndex, ch.ID, ch.Active(), wantActive)
				}
			}
			levels := drv.Levels()
			for _, id := range led.All() {
				if levels[id] != snap.Channels[id].Level {
					t.Errorf("driver and snapshot disagree on %s", id)
				}
			}
		}
		if len(seen) != 3 {
			t.Errorf("round %d: visited %v, want all three indices", round, seen)
		}
	}
}

func TestTickRotate_DisabledNeverPulses(t *testing.T) {
	e, drv := newTestEngine(t)
	if err := e.ToggleRotate(); err != nil {
		t.Fatal(err)
	}
	_ = e.ToggleEnabled(led.LED2)
	_ = e.ToggleEnabled(led.LED16)

	lit := 0
	for i := 0; i < 9; i++ {
		mustTick(t, e)
		levels := drv.Levels()
		if levels[led.LED2] != led.IdleLevel(led.LED2) || levels[led.LED16] != led.IdleLevel(led.LED16) {
			t.Fatalf("tick %d: disabled channel pulsed: %v", i, levels)
		}
		if levels[led.LED4] == led.ActiveLevel(led.LED4) {
			lit++
		}
	}
	if lit != 3 {
		t.Errorf("LED4 lit %d times in 9 ticks, want 3", lit)
	}
}

func TestSnapshot_CountsTicks(t *testing.T) {
	e, _ := newTestEngine(t)
	for i := 0; i < 4; i++ {
		mustTick(t, e)
	}
	if got := e.Snapshot().Ticks; got != 4 {
		t.Errorf("Ticks = %d, want 4", got)
	}
}

type failingDriver struct {
	*led.Memory
	failSet bool
}

var errHardware = errors.New("line gone")

func (f *failingDriver) SetLevel(ch led.ID, high bool) error {
	if f.failSet {
		return errHardware
	}
	return f.Memory.SetLevel(ch, high)
}

func TestTick_PropagatesDriverError(t *testing.T) {
	drv := &failingDriver{Memory: led.NewMemory()}
	e, err := New(drv)
	if err != nil {
		t.Fatal(err)
	}

	drv.failSet = true
	if err := e.Tick(); !errors.Is(err, errHardware) {
		t.Errorf("Tick() error = %v, want wrapped hardware error", err)
	}
	if err := e.ToggleBlink(); !errors.Is(err, errHardware) {
		t.Errorf("ToggleBlink() error = %v, want wrapped hardware error", err)
	}
}

func TestModeString(t *testing.T) {
	want := map[Mode]string{Static: "static", Blink: "blink", Rotate: "rotate"}
	for _, m := range Modes() {
		if m.String() != want[m] {
			t.Errorf("Mode(%d).String() = %q, want %q", int(m), m.String(), want[m])
		}
	}
}
