package headlessterm

import (
	"regexp"
	"strings"
)

// SearchOptions controls how Find/FindAll/FindInScrollback interpret and
// match a search term.
type SearchOptions struct {
	// CaseSensitive requires an exact-case match; otherwise matching is
	// case-insensitive.
	CaseSensitive bool
	// WholeWord requires the match to be bounded by non-alphanumeric
	// separators (or buffer edges) on both sides.
	WholeWord bool
	// Regex treats term as a regular expression instead of a literal
	// string. An invalid regex yields no matches rather than an error.
	Regex bool
}

// logicalLine is a run of buffer rows joined across wrap continuations,
// together with the data needed to map a match back to grid positions:
// positions[i] is the (row, col) that produced text[i], and byteOffset[i]
// is where text[i] begins in s (s is the UTF-8 encoding of text, which
// regexp operates on).
type logicalLine struct {
	rows       []int
	text       []rune
	positions  []Position
	s          string
	byteOffset []int
}

func (l *logicalLine) finalize() {
	var sb strings.Builder
	l.byteOffset = make([]int, len(l.text)+1)
	for i, r := range l.text {
		l.byteOffset[i] = sb.Len()
		sb.WriteRune(r)
	}
	l.byteOffset[len(l.text)] = sb.Len()
	l.s = sb.String()
}

// runeIndexForByte maps a byte offset that regexp reported (always aligned
// to a rune boundary) back to the index into text/positions it corresponds
// to, via binary search over the monotonic byteOffset table.
func runeIndexForByte(byteOffset []int, b int) int {
	lo, hi := 0, len(byteOffset)-1
	for lo < hi {
		mid := (lo + hi) / 2
		if byteOffset[mid] < b {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

// rowRunes reads one live-screen row into the parallel (text, source
// column) slices a logicalLine needs, skipping the trailing half of wide
// characters and treating an unset cell as a space, matching Buffer's own
// LineContent convention.
func rowRunes(buffer *Buffer, row int) ([]rune, []int) {
	cols := buffer.Cols()
	runes := make([]rune, 0, cols)
	srcCols := make([]int, 0, cols)
	for col := 0; col < cols; col++ {
		cell := buffer.Cell(row, col)
		if cell == nil || cell.IsWideSpacer() {
			continue
		}
		r := cell.Char
		if r == 0 {
			r = ' '
		}
		runes = append(runes, r)
		srcCols = append(srcCols, col)
	}
	return runes, srcCols
}

// cellSliceRunes is rowRunes' counterpart for a raw scrollback row, which
// ScrollbackProvider hands back as a plain []Cell rather than through
// Buffer.Cell.
func cellSliceRunes(cells []Cell) ([]rune, []int) {
	runes := make([]rune, 0, len(cells))
	srcCols := make([]int, 0, len(cells))
	for col, cell := range cells {
		if cell.IsWideSpacer() {
			continue
		}
		r := cell.Char
		if r == 0 {
			r = ' '
		}
		runes = append(runes, r)
		srcCols = append(srcCols, col)
	}
	return runes, srcCols
}

// buildSearchRegexp compiles pattern under opts into the single regexp the
// scan loop runs. Go's regexp already gives us case-insensitivity ("(?i)")
// and ASCII word boundaries ("\b") for free, so literal and regex search
// share one compilation path; invalid input reports ok=false rather than
// propagating a compile error to the caller.
func buildSearchRegexp(pattern string, opts SearchOptions) (*regexp.Regexp, bool) {
	if pattern == "" {
		return nil, false
	}

	body := pattern
	if !opts.Regex {
		body = regexp.QuoteMeta(pattern)
	}
	if opts.WholeWord {
		body = `\b(?:` + body + `)\b`
	}
	if !opts.CaseSensitive {
		body = `(?i)` + body
	}

	re, err := regexp.Compile(body)
	if err != nil {
		return nil, false
	}
	return re, true
}

// logicalLineForRowLocked returns the logical line containing row,
// reconstructing and caching it if this is the first lookup since the last
// Write/Resize invalidated t.searchCache. Must be called with t.mu held.
func (t *Terminal) logicalLineForRowLocked(row int) *logicalLine {
	if row < 0 || row >= t.rows {
		return nil
	}
	if t.searchCache == nil {
		t.searchCache = make(map[int]*logicalLine)
	}
	if ln, ok := t.searchCache[row]; ok {
		return ln
	}

	start := row
	for start > 0 && t.activeBuffer.IsWrapped(start-1) {
		start--
	}

	line := &logicalLine{}
	r := start
	for {
		runes, cols := rowRunes(t.activeBuffer, r)
		for i, ru := range runes {
			line.text = append(line.text, ru)
			line.positions = append(line.positions, Position{Row: r, Col: cols[i]})
		}
		line.rows = append(line.rows, r)
		wrapped := t.activeBuffer.IsWrapped(r)
		r++
		if !wrapped || r >= t.rows {
			break
		}
	}
	line.finalize()

	for _, lr := range line.rows {
		t.searchCache[lr] = line
	}
	return line
}

// Find returns the first match of pattern at or after (startRow, startCol)
// in the live screen, reconstructing logical lines across wrap
// continuations so a match that straddles a wrap boundary is still found
// and returned as a single multi-row Selection. ok is false if there is no
// match, including when opts.Regex is set and pattern fails to compile.
func (t *Terminal) Find(pattern string, startRow, startCol int, opts SearchOptions) (sel Selection, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	re, valid := buildSearchRegexp(pattern, opts)
	if !valid {
		return Selection{}, false
	}
	if startRow < 0 {
		startRow, startCol = 0, 0
	}

	visited := make(map[int]bool)
	for row := startRow; row < t.rows; row++ {
		if visited[row] {
			continue
		}
		line := t.logicalLineForRowLocked(row)
		if line == nil {
			continue
		}
		for _, r := range line.rows {
			visited[r] = true
		}

		searchFromRune := 0
		if line.rows[0] == startRow {
			for i, pos := range line.positions {
				if pos.Row > startRow || (pos.Row == startRow && pos.Col >= startCol) {
					searchFromRune = i
					break
				}
				searchFromRune = i + 1
			}
		}
		searchFromByte := line.byteOffset[searchFromRune]

		idx := re.FindStringIndex(line.s[searchFromByte:])
		if idx == nil {
			continue
		}
		startRune := runeIndexForByte(line.byteOffset, searchFromByte+idx[0])
		endRune := runeIndexForByte(line.byteOffset, searchFromByte+idx[1])
		if endRune <= startRune {
			continue
		}
		return Selection{Start: line.positions[startRune], End: line.positions[endRune-1], Active: true}, true
	}

	return Selection{}, false
}

// FindAll enumerates every non-overlapping match of pattern in the live
// screen, ordered top-to-bottom, translating each into a Selection that
// spans multiple rows when the match crosses a wrap boundary. limit <= 0
// means unlimited.
func (t *Terminal) FindAll(pattern string, limit int, opts SearchOptions) []Selection {
	t.mu.Lock()
	defer t.mu.Unlock()

	re, valid := buildSearchRegexp(pattern, opts)
	if !valid {
		return nil
	}

	var results []Selection
	visited := make(map[int]bool)
	for row := 0; row < t.rows; row++ {
		if visited[row] {
			continue
		}
		line := t.logicalLineForRowLocked(row)
		if line == nil {
			continue
		}
		for _, r := range line.rows {
			visited[r] = true
		}

		for _, m := range re.FindAllStringIndex(line.s, -1) {
			startRune := runeIndexForByte(line.byteOffset, m[0])
			endRune := runeIndexForByte(line.byteOffset, m[1])
			if endRune <= startRune {
				continue
			}
			results = append(results, Selection{Start: line.positions[startRune], End: line.positions[endRune-1], Active: true})
			if limit > 0 && len(results) >= limit {
				return results
			}
		}
	}

	return results
}

// FindInScrollback searches scrollback plus the live screen as one
// chronological stream (oldest scrollback line first, live screen last),
// reconstructing logical lines across both ScrollbackProvider's wrap flag
// and the live screen's, so a match can straddle the scrollback/screen
// boundary. Matches are reported by their starting Position using the
// negative-row convention: -1 is the newest scrollback line, -2 the one
// before it, and so on; non-negative rows address the live screen directly.
func (t *Terminal) FindInScrollback(pattern string, opts SearchOptions) []Position {
	t.mu.RLock()
	defer t.mu.RUnlock()

	re, valid := buildSearchRegexp(pattern, opts)
	if !valid {
		return nil
	}

	scrollbackLen := t.primaryBuffer.ScrollbackLen()
	total := scrollbackLen + t.rows

	toPosition := func(idx, col int) Position {
		if idx < scrollbackLen {
			return Position{Row: -(scrollbackLen - idx), Col: col}
		}
		return Position{Row: idx - scrollbackLen, Col: col}
	}
	wrappedAt := func(idx int) bool {
		if idx < scrollbackLen {
			return t.primaryBuffer.ScrollbackLineWrapped(idx)
		}
		return t.primaryBuffer.IsWrapped(idx - scrollbackLen)
	}
	runesAt := func(idx int) ([]rune, []int) {
		if idx < scrollbackLen {
			return cellSliceRunes(t.primaryBuffer.ScrollbackLine(idx))
		}
		return rowRunes(t.primaryBuffer, idx-scrollbackLen)
	}

	var matches []Position
	visited := make([]bool, total)
	for start := 0; start < total; start++ {
		if visited[start] {
			continue
		}
		if start > 0 && wrappedAt(start-1) {
			continue // mid-line; its logical line was already built from an earlier start
		}

		line := &logicalLine{}
		idx := start
		for {
			runes, cols := runesAt(idx)
			for i, r := range runes {
				line.text = append(line.text, r)
				line.positions = append(line.positions, toPosition(idx, cols[i]))
			}
			line.rows = append(line.rows, idx)
			visited[idx] = true
			wrapped := wrappedAt(idx)
			idx++
			if !wrapped || idx >= total {
				break
			}
		}
		line.finalize()

		for _, m := range re.FindAllStringIndex(line.s, -1) {
			startRune := runeIndexForByte(line.byteOffset, m[0])
			matches = append(matches, line.positions[startRune])
		}
	}

	return matches
}
