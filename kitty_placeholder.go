package headlessterm

import "strings"

// kittyPlaceholderRune is the base character Kitty's Unicode placeholder
// protocol uses to mark a cell as occupied by image content instead of
// text: U+10EEEE, a codepoint from a Private Use Area plane that real text
// never produces on its own.
const kittyPlaceholderRune = rune(0x10EEEE)

// kittyDiacritics is the fixed alphabet of combining marks Kitty's
// row/column diacritics protocol assigns to indices 0..255, in that order.
// It is a curated pick across many Unicode blocks, not a contiguous range:
// index 30 is U+0483, for instance, immediately followed by U+0484 at 31
// and U+0485..U+0487 at 32..34, jumping blocks entirely at 35 (U+0592,
// Hebrew cantillation).
// Any other ordering decodes a placeholder's row/col to the wrong value.
var kittyDiacritics = []rune{
	0x0305, 0x030D, 0x030E, 0x0310, 0x0312, 0x033D, 0x033E, 0x033F,
	0x0346, 0x034A, 0x034B, 0x034C, 0x0350, 0x0351, 0x0352, 0x0357,
	0x035B, 0x0363, 0x0364, 0x0365, 0x0366, 0x0367, 0x0368, 0x0369,
	0x036A, 0x036B, 0x036C, 0x036D, 0x036E, 0x036F, 0x0483, 0x0484,
	0x0485, 0x0486, 0x0487, 0x0592, 0x0593, 0x0594, 0x0595, 0x0597,
	0x0598, 0x0599, 0x059C, 0x059D, 0x059E, 0x059F, 0x05A0, 0x05A1,
	0x05A8, 0x05A9, 0x05AB, 0x05AC, 0x05AF, 0x05C4, 0x0610, 0x0611,
	0x0612, 0x0613, 0x0614, 0x0615, 0x0616, 0x0617, 0x0657, 0x0658,
	0x0659, 0x065A, 0x065B, 0x065D, 0x065E, 0x06D6, 0x06D7, 0x06D8,
	0x06D9, 0x06DA, 0x06DB, 0x06DC, 0x06DF, 0x06E0, 0x06E1, 0x06E2,
	0x06E4, 0x06E7, 0x06E8, 0x06EB, 0x06EC, 0x0730, 0x0732, 0x0733,
	0x0735, 0x0736, 0x073A, 0x073D, 0x073F, 0x0740, 0x0741, 0x0743,
	0x0745, 0x0747, 0x0749, 0x074A, 0x07EB, 0x07EC, 0x07ED, 0x07EE,
	0x07EF, 0x07F0, 0x07F1, 0x07F3, 0x0816, 0x0817, 0x0818, 0x0819,
	0x081B, 0x081C, 0x081D, 0x081E, 0x081F, 0x0820, 0x0821, 0x0822,
	0x0823, 0x0825, 0x0826, 0x0827, 0x0829, 0x082A, 0x082B, 0x082C,
	0x082D, 0x0951, 0x0953, 0x0954, 0x0F82, 0x0F83, 0x0F86, 0x0F87,
	0x135D, 0x135E, 0x135F, 0x17DD, 0x193A, 0x1A17, 0x1A75, 0x1A76,
	0x1A77, 0x1A78, 0x1A79, 0x1A7A, 0x1A7B, 0x1A7C, 0x1B6B, 0x1B6D,
	0x1B6E, 0x1B6F, 0x1B70, 0x1B71, 0x1B72, 0x1B73, 0x1CD0, 0x1CD1,
	0x1CD2, 0x1CDA, 0x1CDB, 0x1CE0, 0x1DC0, 0x1DC1, 0x1DC3, 0x1DC4,
	0x1DC5, 0x1DC6, 0x1DC7, 0x1DC8, 0x1DC9, 0x1DCB, 0x1DCC, 0x1DD1,
	0x1DD2, 0x1DD3, 0x1DD4, 0x1DD5, 0x1DD6, 0x1DD7, 0x1DD8, 0x1DD9,
	0x1DDA, 0x1DDB, 0x1DDC, 0x1DDD, 0x1DDE, 0x1DDF, 0x1DE0, 0x1DE1,
	0x1DE2, 0x1DE3, 0x1DE4, 0x1DE5, 0x1DE6, 0x1DFE, 0x20D0, 0x20D1,
	0x20D4, 0x20D5, 0x20D6, 0x20D7, 0x20DB, 0x20DC, 0x20E1, 0x20E7,
	0x20E9, 0x20F0, 0x2CEF, 0x2CF0, 0x2CF1, 0x2DE0, 0x2DE1, 0x2DE2,
	0x2DE3, 0x2DE4, 0x2DE5, 0x2DE6, 0x2DE7, 0x2DE8, 0x2DE9, 0x2DEA,
	0x2DEB, 0x2DEC, 0x2DED, 0x2DEE, 0x2DEF, 0x2DF0, 0x2DF1, 0x2DF2,
	0x2DF3, 0x2DF4, 0x2DF5, 0x2DF6, 0x2DF7, 0x2DF8, 0x2DF9, 0x2DFA,
	0x2DFB, 0x2DFC, 0x2DFD, 0x2DFE, 0x2DFF, 0xA66F, 0xA67C, 0xA67D,
	0xA6F0, 0xA6F1, 0xA8E0, 0xA8E1, 0xA8E2, 0xA8E3, 0xA8E4, 0xA8E5,
}

// diacriticIndex is the reverse lookup from a combining-mark scalar back to
// its position in kittyDiacritics, used when decoding a placeholder run.
var diacriticIndex = buildDiacriticIndex()

func buildDiacriticIndex() map[rune]int {
	idx := make(map[rune]int, len(kittyDiacritics))
	for i, r := range kittyDiacritics {
		idx[r] = i
	}
	return idx
}

// KittyPlaceholderCell decodes one placeholder cell's row/col/high-id
// diacritics. HasRow/HasCol/HasHighID report whether that component was
// present in the run at all (the protocol lets row/col be implied by
// position when omitted after the first cell of a run).
type KittyPlaceholderCell struct {
	Row, Col int
	HighID   int // high byte of a >0xFFFFFF image id, 0 if absent
	HasRow   bool
	HasCol   bool
	HasHighID bool
}

// DecodeKittyPlaceholder reads the diacritics following a placeholder base
// character (already consumed by the caller) and returns the row, column,
// and optional high-id byte they encode. Unrecognized diacritics are
// skipped rather than treated as a hard error, since a future protocol
// revision could add marks this table doesn't yet know.
func DecodeKittyPlaceholder(diacritics []rune) KittyPlaceholderCell {
	var cell KittyPlaceholderCell
	var seen int

	for _, r := range diacritics {
		idx, ok := diacriticIndex[r]
		if !ok {
			continue
		}
		switch seen {
		case 0:
			cell.Row, cell.HasRow = idx, true
		case 1:
			cell.Col, cell.HasCol = idx, true
		case 2:
			cell.HighID, cell.HasHighID = idx, true
		}
		seen++
		if seen >= 3 {
			break
		}
	}

	return cell
}

// EncodeKittyPlaceholderCell renders the placeholder base character plus
// row/col (and, for image ids above 24 bits, a high-id) diacritics for one
// grid cell of a placeholder run.
func EncodeKittyPlaceholderCell(row, col int, highID int, includeHighID bool) string {
	var sb strings.Builder
	sb.WriteRune(kittyPlaceholderRune)
	sb.WriteString(diacriticFor(row))
	sb.WriteString(diacriticFor(col))
	if includeHighID {
		sb.WriteString(diacriticFor(highID))
	}
	return sb.String()
}

func diacriticFor(idx int) string {
	if idx < 0 || idx >= len(kittyDiacritics) {
		return ""
	}
	return string(kittyDiacritics[idx])
}

// EncodeKittyPlaceholderGrid renders a full rows x cols placeholder run for
// an image placement, one line per row joined by "\n" (the caller is
// responsible for positioning the cursor at the start of each row; this
// only produces the placeholder text itself). highID is included per cell
// only when the image id needs more than 24 bits to represent.
func EncodeKittyPlaceholderGrid(rows, cols int, highID int) string {
	includeHighID := highID != 0
	lines := make([]string, rows)
	for r := 0; r < rows; r++ {
		var sb strings.Builder
		for c := 0; c < cols; c++ {
			sb.WriteString(EncodeKittyPlaceholderCell(r, c, highID, includeHighID))
		}
		lines[r] = sb.String()
	}
	return strings.Join(lines, "\n")
}

// IsKittyPlaceholderRune reports whether r is the placeholder base
// character, i.e. this cell's "text" is actually an image reference.
func IsKittyPlaceholderRune(r rune) bool {
	return r == kittyPlaceholderRune
}

// kittyPlaceholderRunContinues decides whether the placeholder cell at
// (row, col) with the given placement/image id is a continuation of the
// previous placeholder cell in the same run (same placement, same row,
// column one greater) rather than the start of a new one. Runs never
// span rows implicitly: a row change always starts a new run, matching
// how each screen row is rendered as an independent placeholder line.
func kittyPlaceholderRunContinues(prevPlacementID, placementID uint32, prevRow, row, prevCol, col int) bool {
	return placementID == prevPlacementID && row == prevRow && col == prevCol+1
}

// KittyPlaceholderRun is a maximal horizontal run of placeholder cells in
// one row that all reference the same placement.
type KittyPlaceholderRun struct {
	PlacementID  uint32
	Row          int
	StartCol     int
	Cells        []KittyPlaceholderCell
}

// FindKittyPlaceholderRuns scans one row's cells (as returned by a Buffer)
// and groups consecutive placeholder cells referencing the same placement
// into runs, decoding each cell's diacritics as it goes. cellDiacritics
// supplies the combining-mark tail for a given column (the decoder's
// cluster table, keyed the same way Line.Translate's clusterProvider is).
func FindKittyPlaceholderRuns(row int, cells []Cell, cellDiacritics func(col int) []rune) []KittyPlaceholderRun {
	var runs []KittyPlaceholderRun
	var current *KittyPlaceholderRun

	for col, c := range cells {
		if c.Image == nil || !IsKittyPlaceholderRune(c.Char) {
			current = nil
			continue
		}

		decoded := DecodeKittyPlaceholder(cellDiacritics(col))
		if !decoded.HasRow {
			decoded.Row = row
		}
		if !decoded.HasCol {
			decoded.Col = col
		}

		if current != nil && kittyPlaceholderRunContinues(current.PlacementID, c.Image.PlacementID, current.Row, row, current.StartCol+len(current.Cells)-1, col) {
			current.Cells = append(current.Cells, decoded)
			continue
		}

		runs = append(runs, KittyPlaceholderRun{
			PlacementID: c.Image.PlacementID,
			Row:         row,
			StartCol:    col,
			Cells:       []KittyPlaceholderCell{decoded},
		})
		current = &runs[len(runs)-1]
	}

	return runs
}
