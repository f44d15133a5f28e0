package headlessterm

// reflowLogicalLines reconstructs whole logical lines (a run of one or more
// physical rows joined by the wrapped flag) from a flat row list, so they
// can be re-wrapped at a new column width without losing content that
// crossed an old wrap boundary. Rows are oldest-first, matching scrollback
// plus on-screen order.
func reflowLogicalLines(rows []Line) [][]Cell {
	var logical [][]Cell
	var current []Cell

	for i, row := range rows {
		current = append(current, row.Cells...)
		if !row.Wrapped || i == len(rows)-1 {
			logical = append(logical, current)
			current = nil
		}
	}
	if len(current) > 0 {
		logical = append(logical, current)
	}

	return logical
}

// rewrapLogicalLine splits one logical line's cells into physical rows of
// newCols width, trimming trailing blank cells from the logical line first
// (a logical line is conceptually unbounded; only its non-blank content
// plus whatever the cursor sits on must survive a rewrap). minLen keeps at
// least that many cells (used to avoid trimming past the cursor).
func rewrapLogicalLine(cells []Cell, newCols, minLen int) []Line {
	end := len(cells)
	for end > minLen {
		c := cells[end-1]
		if c.Char != ' ' && c.Char != 0 && !c.IsWideSpacer() {
			break
		}
		end--
	}
	cells = cells[:end]

	if len(cells) == 0 {
		return []Line{*NewLine(newCols)}
	}

	var rows []Line
	for start := 0; start < len(cells); start += newCols {
		chunkEnd := start + newCols
		if chunkEnd > len(cells) {
			chunkEnd = len(cells)
		}

		// Never split a wide character across a wrap boundary: if the
		// rune at the would-be split point is the first half of a wide
		// character, pull the whole character onto the next row instead.
		if chunkEnd < len(cells) && chunkEnd > start {
			last := cells[chunkEnd-1]
			if last.IsWide() && chunkEnd < len(cells) {
				chunkEnd--
			}
		}

		row := NewLine(newCols)
		copy(row.Cells, cells[start:chunkEnd])
		row.Wrapped = chunkEnd < len(cells)
		rows = append(rows, *row)
	}

	return rows
}

// getNewLineLengths returns, for a sequence of physical rows marked with
// their wrapped state, the length in cells (oldCols per row) of each
// logical line they form. The result does not depend on newCols. Nothing
// in the package calls it; reflowBuffer computes the cursor's logical
// offset on its own.
func getNewLineLengths(wrapped []bool, oldCols, newCols int) []int {
	lengths := make([]int, 0, len(wrapped))
	run := 0
	for i, w := range wrapped {
		run += oldCols
		if !w || i == len(wrapped)-1 {
			lengths = append(lengths, run)
			run = 0
		}
	}
	return lengths
}

// reflowBuffer rewraps every row of a buffer's live grid to newCols (rows
// already in scrollback are not rewrapped; rows that no longer fit are
// pushed to scrollback at the new width), preserving the logical line a
// given cursor position (cursorRow, cursorCol) belongs to and returning its
// translated coordinates.
func reflowBuffer(b *Buffer, newRows, newCols, cursorRow, cursorCol int) (newCursorRow, newCursorCol int) {
	oldRows := make([]Line, len(b.cells))
	for i := range b.cells {
		oldRows[i] = Line{Cells: b.cells[i], Wrapped: b.wrapped[i]}
	}

	cursorLogicalOffset := 0
	offset := 0
	for i, row := range oldRows {
		if i == cursorRow {
			cursorLogicalOffset = offset + cursorCol
		}
		offset += len(row.Cells)
		if !row.Wrapped {
			offset = 0
		}
	}

	logical := reflowLogicalLines(oldRows)

	var rewrapped []Line
	var cursorPlaced bool
	runningOffset := 0
	for _, line := range logical {
		minLen := 0
		if !cursorPlaced && cursorLogicalOffset >= runningOffset && cursorLogicalOffset <= runningOffset+len(line) {
			minLen = cursorLogicalOffset - runningOffset + 1
		}
		rows := rewrapLogicalLine(line, newCols, minLen)

		if !cursorPlaced {
			localOffset := cursorLogicalOffset - runningOffset
			if localOffset >= 0 && localOffset <= len(line) {
				r := localOffset / newCols
				c := localOffset % newCols
				if r >= len(rows) {
					r = len(rows) - 1
					c = newCols - 1
				}
				newCursorRow = len(rewrapped) + r
				newCursorCol = c
				cursorPlaced = true
			}
		}

		rewrapped = append(rewrapped, rows...)
		runningOffset += len(line)
	}

	// Fit the rewrapped rows into newRows: keep the tail (most recent
	// content), pushing any overflow into scrollback just like a live
	// scroll would.
	if len(rewrapped) > newRows {
		overflow := len(rewrapped) - newRows
		if b.scrollback != nil {
			for i := 0; i < overflow; i++ {
				cells := make([]Cell, newCols)
				copy(cells, rewrapped[i].Cells)
				b.scrollback.Push(cells, rewrapped[i].Wrapped)
			}
			b.yBase += overflow
			b.yDisp = b.yBase
		}
		rewrapped = rewrapped[overflow:]
		newCursorRow -= overflow
		if newCursorRow < 0 {
			newCursorRow = 0
		}
	}

	for len(rewrapped) < newRows {
		rewrapped = append(rewrapped, *NewLine(newCols))
	}

	newCells := make([][]Cell, newRows)
	newWrapped := make([]bool, newRows)
	for i := 0; i < newRows; i++ {
		newCells[i] = rewrapped[i].Cells
		newWrapped[i] = rewrapped[i].Wrapped
	}

	b.cells = newCells
	b.wrapped = newWrapped
	b.rows = newRows
	b.cols = newCols
	b.hasDirty = true

	if newCursorRow < 0 {
		newCursorRow = 0
	}
	if newCursorRow >= newRows {
		newCursorRow = newRows - 1
	}
	if newCursorCol < 0 {
		newCursorCol = 0
	}
	if newCursorCol >= newCols {
		newCursorCol = newCols - 1
	}

	return newCursorRow, newCursorCol
}
