package headlessterm

import "testing"

func makeFilledLine(cols int, ch rune, wrapped bool) Line {
	l := *NewLine(cols)
	for i := range l.Cells {
		l.Cells[i].Char = ch
	}
	l.Wrapped = wrapped
	return l
}

func TestReflowLogicalLinesJoinsWrappedRuns(t *testing.T) {
	rows := []Line{
		makeFilledLine(4, 'a', true),
		makeFilledLine(4, 'b', false),
		makeFilledLine(4, 'c', false),
	}

	logical := reflowLogicalLines(rows)
	if len(logical) != 2 {
		t.Fatalf("expected 2 logical lines, got %d", len(logical))
	}
	if len(logical[0]) != 8 {
		t.Errorf("expected first logical line to span 8 cells (2 wrapped rows), got %d", len(logical[0]))
	}
	if len(logical[1]) != 4 {
		t.Errorf("expected second logical line to span 4 cells, got %d", len(logical[1]))
	}
}

func TestRewrapLogicalLineTrimsTrailingBlanks(t *testing.T) {
	cells := make([]Cell, 10)
	for i := 0; i < 3; i++ {
		cells[i] = NewCell()
		cells[i].Char = 'x'
	}
	for i := 3; i < 10; i++ {
		cells[i] = NewCell()
	}

	rows := rewrapLogicalLine(cells, 5, 0)
	if len(rows) != 1 {
		t.Fatalf("expected trailing blanks trimmed into a single row, got %d rows", len(rows))
	}
}

func TestRewrapLogicalLineWidensToFewerRows(t *testing.T) {
	cells := make([]Cell, 8)
	for i := range cells {
		cells[i] = NewCell()
		cells[i].Char = rune('A' + i)
	}

	narrow := rewrapLogicalLine(cells, 4, 0)
	if len(narrow) != 2 {
		t.Fatalf("expected 2 rows at width 4, got %d", len(narrow))
	}

	wide := rewrapLogicalLine(cells, 8, 0)
	if len(wide) != 1 {
		t.Fatalf("expected 1 row at width 8, got %d", len(wide))
	}
}

func TestReflowBufferPreservesCursorLogicalPosition(t *testing.T) {
	b := NewBufferWithStorage(3, 4, NewMemoryScrollback(100))
	// Two physical rows forming one wrapped logical line "ABCDEFGH".
	for i, ch := range "ABCD" {
		b.cells[0][i].Char = ch
	}
	b.wrapped[0] = true
	for i, ch := range "EFGH" {
		b.cells[1][i].Char = ch
	}

	// Cursor sits on 'G' (row 1, col 2).
	newRow, newCol := reflowBuffer(b, 3, 8, 1, 2)

	content := b.LineContent(newRow)
	if got := []rune(content)[newCol]; got != 'G' {
		t.Errorf("expected cursor to stay on 'G' after reflow, row %d col %d has %q (line %q)", newRow, newCol, got, content)
	}
}
