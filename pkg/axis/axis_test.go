package axis

import (
	"math"
	"testing"

	"smoothmotion/pkg/config"
	"smoothmotion/pkg/errors"
)

func mustConfig(t *testing.T, body string) *config.Config {
	t.Helper()
	cfg, err := config.LoadString(body)
	if err != nil {
		t.Fatalf("LoadString: %v", err)
	}
	return cfg
}

func TestLoadRegistry(t *testing.T) {
	cfg := mustConfig(t, `
[axis x]
max_velocity: 1
max_accel: 2
max_jerk: 10
position_min: -5
position_max: 5

[axis rotary]
max_velocity: 6.28
max_accel: 30
max_jerk: 400
`)
	r, err := LoadRegistry(cfg)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}

	names := r.Names()
	if len(names) != 2 || names[0] != "x" || names[1] != "rotary" {
		t.Errorf("names = %v", names)
	}

	x, err := r.Lookup("x")
	if err != nil {
		t.Fatalf("Lookup(x): %v", err)
	}
	if x.Limits.Velocity != 1 || x.Limits.Accel != 2 || x.Limits.Jerk != 10 {
		t.Errorf("limits = %+v", x.Limits)
	}
	if x.PositionMin != -5 || x.PositionMax != 5 {
		t.Errorf("travel = [%g, %g]", x.PositionMin, x.PositionMax)
	}

	rot, err := r.Lookup("rotary")
	if err != nil {
		t.Fatalf("Lookup(rotary): %v", err)
	}
	if !math.IsInf(rot.PositionMin, -1) || !math.IsInf(rot.PositionMax, 1) {
		t.Errorf("unbounded axis travel = [%g, %g]", rot.PositionMin, rot.PositionMax)
	}
}

func TestLookupUnknown(t *testing.T) {
	cfg := mustConfig(t, "[axis x]\nmax_velocity: 1\nmax_accel: 1\nmax_jerk: 1\n")
	r, err := LoadRegistry(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := r.Lookup("y"); !errors.Is(err, errors.ErrAxisUnknown) {
		t.Errorf("unknown axis error = %v", err)
	}
}

func TestNonPositiveLimitRejected(t *testing.T) {
	cfg := mustConfig(t, "[axis x]\nmax_velocity: 0\nmax_accel: 1\nmax_jerk: 1\n")
	if _, err := LoadRegistry(cfg); !errors.Is(err, errors.ErrConfigValidation) {
		t.Errorf("zero max_velocity accepted: %v", err)
	}
}

func TestMissingLimitRejected(t *testing.T) {
	cfg := mustConfig(t, "[axis x]\nmax_velocity: 1\nmax_accel: 1\n")
	if _, err := LoadRegistry(cfg); !errors.Is(err, errors.ErrConfigOption) {
		t.Errorf("missing max_jerk accepted: %v", err)
	}
}

func TestNoAxesRejected(t *testing.T) {
	cfg := mustConfig(t, "[service]\nlisten: :8137\n")
	if _, err := LoadRegistry(cfg); err == nil {
		t.Error("empty registry accepted")
	}
}

func TestInvertedTravelRejected(t *testing.T) {
	cfg := mustConfig(t, `
[axis x]
max_velocity: 1
max_accel: 1
max_jerk: 1
position_min: 2
position_max: -2
`)
	if _, err := LoadRegistry(cfg); !errors.Is(err, errors.ErrConfigValidation) {
		t.Errorf("inverted travel accepted: %v", err)
	}
}

func TestCheckMove(t *testing.T) {
	a := &Axis{Name: "x", PositionMin: -1, PositionMax: 1}
	if err := a.CheckMove(-0.5, 0.5); err != nil {
		t.Errorf("in-bounds move rejected: %v", err)
	}
	if err := a.CheckMove(0, 2); !errors.Is(err, errors.ErrAxisBounds) {
		t.Errorf("out-of-bounds end accepted: %v", err)
	}
	if err := a.CheckMove(-3, 0); !errors.Is(err, errors.ErrAxisBounds) {
		t.Errorf("out-of-bounds start accepted: %v", err)
	}
}

func TestAxisEvaluate(t *testing.T) {
	cfg := mustConfig(t, "[axis x]\nmax_velocity: 1\nmax_accel: 2\nmax_jerk: 10\n")
	r, err := LoadRegistry(cfg)
	if err != nil {
		t.Fatal(err)
	}
	a, _ := r.Lookup("x")

	p := a.Plan(2, 1) // reverse move, |dist| = 1
	total := p.Duration()
	s := a.Evaluate(total+1, 0, 2, 1)
	if !s.Done {
		t.Error("move not done after its duration")
	}
	if math.Abs(s.Pos-1) > 1e-9 {
		t.Errorf("final position = %g, want 1", s.Pos)
	}
}
