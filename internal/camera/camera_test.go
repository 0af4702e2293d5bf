package camera

import (
	"math"
	"testing"
)

func TestNewDefaults(t *testing.T) {
	c := New()
	if c.FOVDegrees != 90 {
		t.Errorf("Expected default FOV 90, got %d", c.FOVDegrees)
	}
	if c.VisibleDistance != 300 {
		t.Errorf("Expected default visible distance 300, got %d", c.VisibleDistance)
	}
	if c.DirectionDegrees != 0 {
		t.Errorf("Expected heading 0, got %f", c.DirectionDegrees)
	}
}

func TestRotateWrap(t *testing.T) {
	tests := []struct {
		start, delta float64
		wrap         bool
		want         float64
	}{
		{start: 350, delta: 20, wrap: true, want: 10},
		{start: 10, delta: -20, wrap: true, want: 350},
		{start: 0, delta: -720, wrap: true, want: 0},
		{start: 350, delta: 20, wrap: false, want: 370},
		{start: 10, delta: -20, wrap: false, want: -10},
	}

	for _, tt := range tests {
		c := New()
		c.DirectionDegrees = tt.start
		c.Rotate(tt.delta, tt.wrap)
		if math.Abs(c.DirectionDegrees-tt.want) > 1e-9 {
			t.Errorf("Rotate(%v, %v) from %v = %v, want %v", tt.delta, tt.wrap, tt.start, c.DirectionDegrees, tt.want)
		}
	}
}

func TestWrapDegreesRange(t *testing.T) {
	for _, deg := range []float64{-1e-15, -360, -359.5, 0, 359.999, 360, 1e6, -1e6} {
		got := WrapDegrees(deg)
		if got < 0 || got >= 360 {
			t.Errorf("WrapDegrees(%v) = %v, expected in [0,360)", deg, got)
		}
	}
}

func TestForward(t *testing.T) {
	c := New()
	f := c.Forward()
	if math.Abs(f.X()) > 1e-9 || math.Abs(f.Y()+1) > 1e-9 {
		t.Errorf("Expected heading 0 to look along -Y, got %v", f)
	}

	c.DirectionDegrees = 90
	f = c.Forward()
	if math.Abs(f.X()-1) > 1e-9 || math.Abs(f.Y()) > 1e-9 {
		t.Errorf("Expected heading 90 to look along +X, got %v", f)
	}
}
