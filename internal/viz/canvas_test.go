package viz

import (
	"strings"
	"testing"
)

var testPixelMap = [4][2]rune{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

func isSet(c *Canvas, x, y int) bool {
	col, row := x/2, y/4
	if col < 0 || row < 0 || col >= c.Width || row >= c.Height {
		return false
	}
	return c.Grid[row][col]&testPixelMap[y%4][x%2] != 0
}

func TestCanvasSet(t *testing.T) {
	c := NewCanvas(10, 10)

	c.Set(0, 0)
	if c.Grid[0][0] != 0x2801 {
		t.Errorf("expected 0x2801, got %x", c.Grid[0][0])
	}

	c.Set(1, 3)
	if !isSet(c, 1, 3) {
		t.Error("sub-pixel (1,3) not set")
	}
	if isSet(c, 1, 2) {
		t.Error("sub-pixel (1,2) should not be set")
	}
}

func TestCanvasSetOutOfRange(t *testing.T) {
	c := NewCanvas(2, 2)

	// None of these may panic or set anything.
	c.Set(-1, 0)
	c.Set(0, -1)
	c.Set(100, 0)
	c.Set(0, 100)

	for _, row := range c.Grid {
		for _, r := range row {
			if r != 0x2800 {
				t.Fatal("out-of-range set modified the grid")
			}
		}
	}
}

func TestCanvasClear(t *testing.T) {
	c := NewCanvas(5, 5)
	c.Set(3, 3)
	c.Clear()

	if c.Grid[0][1] != 0x2800 {
		t.Error("clear did not reset the grid")
	}
}

func TestDrawLine(t *testing.T) {
	c := NewCanvas(10, 10)
	c.DrawLine(0, 0, 10, 10)

	if !isSet(c, 0, 0) {
		t.Error("line start not set")
	}
	if !isSet(c, 10, 10) {
		t.Error("line end not set")
	}
	if !isSet(c, 5, 5) {
		t.Error("diagonal midpoint not set")
	}
}

func TestDrawCircle(t *testing.T) {
	c := NewCanvas(20, 20)
	c.DrawCircle(20, 40, 5)

	// Cardinal points of the outline.
	for _, p := range [][2]int{{25, 40}, {15, 40}, {20, 45}, {20, 35}} {
		if !isSet(c, p[0], p[1]) {
			t.Errorf("outline point (%d,%d) not set", p[0], p[1])
		}
	}
	if isSet(c, 20, 40) {
		t.Error("center should not be set for an outline")
	}
}

func TestDrawCircleZeroRadius(t *testing.T) {
	c := NewCanvas(10, 10)
	c.DrawCircle(5, 5, 0)
	if !isSet(c, 5, 5) {
		t.Error("zero radius should set the center point")
	}
}

func TestFillCircle(t *testing.T) {
	c := NewCanvas(20, 20)
	c.FillCircle(20, 40, 3)

	if !isSet(c, 20, 40) {
		t.Error("center not filled")
	}
	if !isSet(c, 22, 40) {
		t.Error("interior not filled")
	}
	if isSet(c, 26, 40) {
		t.Error("point outside radius filled")
	}
}

func TestDrawArrow(t *testing.T) {
	c := NewCanvas(20, 20)
	c.DrawArrow(10, 40, 0, 10)

	if !isSet(c, 10, 40) {
		t.Error("arrow origin not set")
	}
	if !isSet(c, 20, 40) {
		t.Error("arrow tip not set")
	}
}

func TestCanvasString(t *testing.T) {
	c := NewCanvas(4, 3)
	out := c.String()

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	for i, line := range lines {
		if len([]rune(line)) != 4 {
			t.Errorf("line %d: expected 4 runes, got %d", i, len([]rune(line)))
		}
	}
}
