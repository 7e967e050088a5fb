package tui

import "testing"

func TestPageLayoutUpdate(t *testing.T) {
	cases := []struct {
		name           string
		width          int
		height         int
		viewportWidth  int
		viewportHeight int
	}{
		{name: "narrow", width: 80, height: 24, viewportWidth: 76, viewportHeight: 9},
		{name: "wide", width: 200, height: 40, viewportWidth: 196, viewportHeight: 25},
		{name: "tiny", width: 30, height: 10, viewportWidth: minViewportWidth, viewportHeight: minViewportHeight},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			layout := newPageLayout()
			layout.Update(tc.width, tc.height)
			if layout.viewportWidth != tc.viewportWidth {
				t.Fatalf("viewport width mismatch: got %d want %d", layout.viewportWidth, tc.viewportWidth)
			}
			if layout.viewportHeight != tc.viewportHeight {
				t.Fatalf("viewport height mismatch: got %d want %d", layout.viewportHeight, tc.viewportHeight)
			}
		})
	}
}

func TestCursorStaysVisible(t *testing.T) {
	m := newTestModel(t, nil, nil)
	m.viewport.Height = 4
	for i := 0; i < 10; i++ {
		submitPhrase(t, m, "phrase")
	}
	m.View()
	start := m.entryLines[m.cursor]
	if start < m.viewport.YOffset || start >= m.viewport.YOffset+m.viewport.Height {
		t.Fatalf("cursor line %d outside viewport [%d,%d)", start, m.viewport.YOffset, m.viewport.YOffset+m.viewport.Height)
	}
}
