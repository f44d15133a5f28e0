package headlessterm

// expressionBrackets pairs an opening bracket with its closer; used when a
// double-click / word-select lands directly on one of them so the whole
// balanced span is selected instead of the single bracket character.
var expressionBrackets = map[rune]rune{
	'(': ')',
	'[': ']',
	'{': '}',
}

var expressionClosers = func() map[rune]rune {
	m := make(map[rune]rune, len(expressionBrackets))
	for open, close := range expressionBrackets {
		m[close] = open
	}
	return m
}()

// isWordRune reports whether r is part of a selectable "word": alphanumerics
// plus the handful of punctuation characters a path or identifier commonly
// contains (so selecting inside `foo-bar_baz.go` or `a/b/c` grabs the whole
// token rather than stopping at the first hyphen or dot).
func isWordRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	}
	switch r {
	case '_', '-', '.', '/', '~', ':', '@':
		return true
	}
	return false
}

// SelectWordOrExpression computes the selection a double-click at pos would
// produce against buffer's current screen content. If pos lands on a bracket
// character, the result spans the balanced bracket expression (scanning
// outward on the same logical flow of cells); otherwise it spans the
// contiguous run of word runes touching pos. Out-of-range positions (negative
// row/col, or beyond the grid) are a no-op: the returned Selection has
// Active == false and the caller's existing selection, if any, is untouched.
func SelectWordOrExpression(pos Position, buffer *Buffer) Selection {
	if buffer == nil || !positionInBounds(pos, buffer) {
		return Selection{}
	}

	cell := buffer.Cell(pos.Row, pos.Col)
	if cell == nil {
		return Selection{}
	}

	if _, ok := expressionBrackets[cell.Char]; ok {
		if end, ok := matchBracketForward(buffer, pos, cell.Char); ok {
			return Selection{Start: pos, End: end, Active: true}
		}
		return Selection{Start: pos, End: pos, Active: true}
	}
	if open, ok := expressionClosers[cell.Char]; ok {
		if start, ok := matchBracketBackward(buffer, pos, open); ok {
			return Selection{Start: start, End: pos, Active: true}
		}
		return Selection{Start: pos, End: pos, Active: true}
	}

	if !isWordRune(cell.Char) {
		return Selection{Start: pos, End: pos, Active: true}
	}

	start := pos
	for start.Col > 0 {
		prev := Position{Row: start.Row, Col: start.Col - 1}
		c := buffer.Cell(prev.Row, prev.Col)
		if c == nil || !isWordRune(c.Char) {
			break
		}
		start = prev
	}

	end := pos
	for end.Col < buffer.Cols()-1 {
		next := Position{Row: end.Row, Col: end.Col + 1}
		c := buffer.Cell(next.Row, next.Col)
		if c == nil || !isWordRune(c.Char) {
			break
		}
		end = next
	}

	return Selection{Start: start, End: end, Active: true}
}

func positionInBounds(pos Position, buffer *Buffer) bool {
	if pos.Row < 0 || pos.Col < 0 {
		return false
	}
	if pos.Row >= buffer.Rows() || pos.Col >= buffer.Cols() {
		return false
	}
	return true
}

// matchBracketForward scans forward from an opening bracket for its matching
// closer, tracking nested depth of the same bracket kind so `(a(b)c)` closes
// on the outer paren when start is the outer one.
func matchBracketForward(buffer *Buffer, start Position, open rune) (Position, bool) {
	close := expressionBrackets[open]
	depth := 0
	pos := start
	rows, cols := buffer.Rows(), buffer.Cols()
	for {
		c := buffer.Cell(pos.Row, pos.Col)
		if c != nil {
			switch c.Char {
			case open:
				depth++
			case close:
				depth--
				if depth == 0 {
					return pos, true
				}
			}
		}
		pos.Col++
		if pos.Col >= cols {
			pos.Col = 0
			pos.Row++
		}
		if pos.Row >= rows {
			return Position{}, false
		}
	}
}

// matchBracketBackward is matchBracketForward's mirror, scanning backward
// from a closing bracket for its matching opener.
func matchBracketBackward(buffer *Buffer, start Position, open rune) (Position, bool) {
	close := expressionBrackets[open]
	depth := 0
	pos := start
	for {
		c := buffer.Cell(pos.Row, pos.Col)
		if c != nil {
			switch c.Char {
			case close:
				depth++
			case open:
				depth--
				if depth == 0 {
					return pos, true
				}
			}
		}
		pos.Col--
		if pos.Col < 0 {
			pos.Row--
			if pos.Row < 0 {
				return Position{}, false
			}
			pos.Col = buffer.Cols() - 1
		}
	}
}
