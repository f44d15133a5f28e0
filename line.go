package headlessterm

// Line is a single row of cells together with its wrap state. Buffer keeps
// its grid as parallel []Cell/[]bool slices for the live screen, but reflow
// and scrollback reconstruction operate a row at a time, so those passes
// work against Line values instead of raw slices plus a side flag. Image
// placements are tracked separately by
// ImageManager against absolute buffer coordinates (see image.go's
// ShiftRows/EffectivePosition), not attached to the Line itself.
type Line struct {
	Cells   []Cell
	Wrapped bool
}

// NewLine creates a blank line of the given width.
func NewLine(cols int) *Line {
	cells := make([]Cell, cols)
	for i := range cells {
		cells[i] = NewCell()
	}
	return &Line{Cells: cells}
}

// LineFromCells wraps an existing cell slice without copying it.
func LineFromCells(cells []Cell, wrapped bool) *Line {
	return &Line{Cells: cells, Wrapped: wrapped}
}

// Len returns the column width of the line.
func (l *Line) Len() int {
	return len(l.Cells)
}

// InsertCells shifts cells at and after col right by n, dropping whatever
// falls off the right edge, and fills the opened gap with blank cells.
func (l *Line) InsertCells(col, n int) {
	if col < 0 || col >= len(l.Cells) || n <= 0 {
		return
	}
	for c := len(l.Cells) - 1; c >= col+n; c-- {
		l.Cells[c] = l.Cells[c-n]
		l.Cells[c].MarkDirty()
	}
	for c := col; c < col+n && c < len(l.Cells); c++ {
		l.Cells[c].Reset()
		l.Cells[c].MarkDirty()
	}
}

// DeleteCells removes n cells at col, shifting the remainder left and
// filling the vacated tail with blank cells.
func (l *Line) DeleteCells(col, n int) {
	if col < 0 || col >= len(l.Cells) || n <= 0 {
		return
	}
	for c := col; c < len(l.Cells)-n; c++ {
		l.Cells[c] = l.Cells[c+n]
		l.Cells[c].MarkDirty()
	}
	for c := len(l.Cells) - n; c < len(l.Cells); c++ {
		if c >= 0 {
			l.Cells[c].Reset()
			l.Cells[c].MarkDirty()
		}
	}
}

// EraseRange resets cells in [start, end) to blank.
func (l *Line) EraseRange(start, end int) {
	if start < 0 {
		start = 0
	}
	if end > len(l.Cells) {
		end = len(l.Cells)
	}
	for c := start; c < end; c++ {
		l.Cells[c].Reset()
		l.Cells[c].MarkDirty()
	}
}

// CopyFrom overwrites this line's cells with a copy of src's, truncating or
// blank-padding to this line's width. Wrap state is copied verbatim.
func (l *Line) CopyFrom(src *Line) {
	n := len(l.Cells)
	if len(src.Cells) < n {
		n = len(src.Cells)
	}
	for i := 0; i < n; i++ {
		l.Cells[i] = src.Cells[i]
	}
	for i := n; i < len(l.Cells); i++ {
		l.Cells[i].Reset()
	}
	l.Wrapped = src.Wrapped
}

// Translate renders [start, end) to text. Wide-character spacer cells are
// skipped. When clusterProvider is non-nil it's consulted for each cell to
// append any combining tail scalars the cell's ClusterIndex references;
// pass nil to emit only the base rune per cell. trimRight drops trailing
// blank columns from the result.
func (l *Line) Translate(trimRight bool, start, end int, clusterProvider func(*Cell) string) string {
	if start < 0 {
		start = 0
	}
	if end > len(l.Cells) {
		end = len(l.Cells)
	}
	if start >= end {
		return ""
	}

	if trimRight {
		for end > start {
			c := &l.Cells[end-1]
			if c.Char != ' ' && c.Char != 0 && !c.IsWideSpacer() {
				break
			}
			end--
		}
		if start >= end {
			return ""
		}
	}

	runes := make([]rune, 0, end-start)
	for i := start; i < end; i++ {
		c := &l.Cells[i]
		if c.IsWideSpacer() {
			continue
		}
		if c.Char == 0 {
			runes = append(runes, ' ')
			continue
		}
		runes = append(runes, c.Char)
		if clusterProvider != nil {
			if tail := clusterProvider(c); tail != "" {
				runes = append(runes, []rune(tail)...)
			}
		}
	}
	return string(runes)
}
