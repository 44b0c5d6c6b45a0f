package tui

import "testing"

func TestComputeLayout(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		wantColWidth  int
		wantRowLines  int
		wantVisible   int
	}{
		{"roomy", 120, 40, 15, 2, 13},
		{"tall", 120, 80, 15, 4, 13},
		{"short scrolls", 120, 20, 15, 1, 12},
		{"narrow keeps minimum", 30, 40, minColWidth, 2, 13},
		{"too small", 120, 6, 15, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := computeLayout(tt.width, tt.height, 13)
			if l.ColWidth != tt.wantColWidth {
				t.Errorf("ColWidth = %d, want %d", l.ColWidth, tt.wantColWidth)
			}
			if l.RowLines != tt.wantRowLines {
				t.Errorf("RowLines = %d, want %d", l.RowLines, tt.wantRowLines)
			}
			if l.VisibleRows != tt.wantVisible {
				t.Errorf("VisibleRows = %d, want %d", l.VisibleRows, tt.wantVisible)
			}
		})
	}
}

func TestComputeLayoutZeroSize(t *testing.T) {
	l := computeLayout(0, 0, 13)
	if l.VisibleRows != 0 || l.GridH != 0 {
		t.Fatalf("computeLayout(0, 0) = %+v, want empty", l)
	}
}

func TestLayoutHit(t *testing.T) {
	l := computeLayout(120, 40, 13)
	// Day columns start after the left border, time column, and separator;
	// rows start below the top border, header, and header rule.
	x0, y0 := 7, 4
	stride := l.ColWidth + 1

	tests := []struct {
		name    string
		x, y    int
		wantCol int
		wantRow int
		wantOK  bool
	}{
		{"first cell", x0, y0, 0, 0, true},
		{"second line of first cell", x0, y0 + 1, 0, 0, true},
		{"second row", x0 + 3, y0 + l.RowLines, 0, 1, true},
		{"tuesday", x0 + stride, y0, 1, 0, true},
		{"sunday last row", x0 + 6*stride, y0 + 12*l.RowLines, 6, 12, true},
		{"column separator", x0 + l.ColWidth, y0, 0, 0, false},
		{"time column", 2, y0, 0, 0, false},
		{"header", x0, y0 - 1, 0, 0, false},
		{"below grid", x0, y0 + 13*l.RowLines, 0, 0, false},
		{"right border", x0 + 7*stride, y0, 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			col, row, ok := l.Hit(tt.x, tt.y)
			if ok != tt.wantOK {
				t.Fatalf("Hit(%d, %d) ok = %v, want %v", tt.x, tt.y, ok, tt.wantOK)
			}
			if ok && (col != tt.wantCol || row != tt.wantRow) {
				t.Errorf("Hit(%d, %d) = (%d, %d), want (%d, %d)", tt.x, tt.y, col, row, tt.wantCol, tt.wantRow)
			}
		})
	}
}

func TestLayoutHitWithoutRows(t *testing.T) {
	l := computeLayout(120, 6, 13)
	if _, _, ok := l.Hit(7, 4); ok {
		t.Fatal("Hit() ok = true on a layout without rows")
	}
}
