package sim

import (
	"math"
	"testing"
)

func TestStateClone(t *testing.T) {
	s := State{1.0, 2.0, 3.0}
	c := s.Clone()

	c[0] = 99.0
	if s[0] != 1.0 {
		t.Error("clone should not share backing array")
	}
}

func TestStateIsValid(t *testing.T) {
	tests := []struct {
		name  string
		state State
		valid bool
	}{
		{"empty", State{}, true},
		{"finite", State{1.0, -2.5}, true},
		{"nan", State{1.0, math.NaN()}, false},
		{"positive inf", State{math.Inf(1)}, false},
		{"negative inf", State{math.Inf(-1)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.IsValid(); got != tt.valid {
				t.Errorf("IsValid() = %v, want %v", got, tt.valid)
			}
		})
	}
}

func TestStateNorm(t *testing.T) {
	s := State{3.0, 4.0}
	if got := s.Norm(); math.Abs(got-5.0) > 1e-12 {
		t.Errorf("expected norm 5, got %f", got)
	}
}

func TestStateArithmetic(t *testing.T) {
	a := State{1.0, 2.0}
	b := State{0.5, -1.0}

	sum := a.Add(b)
	if sum[0] != 1.5 || sum[1] != 1.0 {
		t.Errorf("unexpected sum: %v", sum)
	}

	diff := a.Sub(b)
	if diff[0] != 0.5 || diff[1] != 3.0 {
		t.Errorf("unexpected diff: %v", diff)
	}

	scaled := a.Scale(2.0)
	if scaled[0] != 2.0 || scaled[1] != 4.0 {
		t.Errorf("unexpected scale: %v", scaled)
	}
}

func TestStepErrorMessage(t *testing.T) {
	err := StepError{Step: 7, Time: 0.07, Message: "diverged"}
	want := "step 7 (t=0.0700): diverged"
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}
}
