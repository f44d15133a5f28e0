package headlessterm

import (
	utf8codec "github.com/danielgatis/go-utf8"
	"golang.org/x/text/unicode/norm"
)

// clusterTable holds the trailing scalars of every multi-rune grapheme
// cluster produced so far. A Cell's ClusterIndex is a 1-based index into
// this table (0 means "no extra scalars"); index 0 is reserved so the
// zero value of ClusterIndex stays meaningful.
type clusterTable struct {
	entries [][]rune
}

func newClusterTable() *clusterTable {
	return &clusterTable{entries: [][]rune{nil}}
}

// Append records tail scalars for a cluster and returns its index.
func (c *clusterTable) Append(tail []rune) int32 {
	if len(tail) == 0 {
		return 0
	}
	c.entries = append(c.entries, append([]rune(nil), tail...))
	return int32(len(c.entries) - 1)
}

// Tail returns the trailing combining scalars for a cluster index.
func (c *clusterTable) Tail(index int32) []rune {
	if index <= 0 || int(index) >= len(c.entries) {
		return nil
	}
	return c.entries[index]
}

// DecodeUTF8 decodes a byte stream into runes, substituting U+FFFD for any
// ill-formed sequence rather than stopping. Grounded on go-utf8's
// replacement-on-error decoding behavior.
func DecodeUTF8(data []byte) []rune {
	return utf8codec.Decode(data)
}

// isCombiningMark reports whether r is a combining mark (Unicode categories
// Mn, Me, Mc) that should attach to the preceding base rune rather than
// start a new cell. The combining class comes from x/text/unicode/norm's
// property tables; a nonzero CCC, or one of the handful of marks norm
// reports with CCC 0 but that are still spacing/nonspacing combiners, both
// count.
func isCombiningMark(r rune) bool {
	if r == runeZWJ {
		return false
	}
	props := norm.NFC.PropertiesString(string(r))
	if props.CCC() != 0 {
		return true
	}
	return isMarkRange(r)
}

// isMarkRange covers the common combining-mark blocks whose canonical
// combining class is 0 in the NFC tables (e.g. many Mn characters used as
// pure rendering combiners) but that still must attach to a base cell.
func isMarkRange(r rune) bool {
	switch {
	case r >= 0x0300 && r <= 0x036F: // combining diacritical marks
		return true
	case r >= 0x1AB0 && r <= 0x1AFF: // combining diacritical marks extended
		return true
	case r >= 0x1DC0 && r <= 0x1DFF: // combining diacritical marks supplement
		return true
	case r >= 0x20D0 && r <= 0x20FF: // combining diacritical marks for symbols
		return true
	case r >= 0xFE20 && r <= 0xFE2F: // combining half marks
		return true
	default:
		return false
	}
}

const (
	runeZWJ         rune = 0x200D
	runeVS15        rune = 0xFE0E // text presentation selector
	runeVS16        rune = 0xFE0F // emoji presentation selector
	runeRegionalLo  rune = 0x1F1E6
	runeRegionalHi  rune = 0x1F1FF
)

func isRegionalIndicator(r rune) bool {
	return r >= runeRegionalLo && r <= runeRegionalHi
}

func isVariationSelector(r rune) bool {
	return r == runeVS15 || r == runeVS16
}

// grapheme is one user-perceptible character: a base scalar plus any
// combining marks, ZWJ-joined scalars, or variation selectors that attach
// to it, and the column width the whole cluster occupies.
type grapheme struct {
	base  rune
	tail  []rune
	width int
}

// clusterAccumulator folds a rune stream into graphemes: combining marks
// attach to the previous base, ZWJ glues adjacent emoji scalars into one
// cluster, a trailing variation selector retroactively corrects the
// cluster's width, and a regional-indicator pair combines into a single
// flag cluster.
type clusterAccumulator struct {
	pending  *grapheme
	sawZWJ   bool
	lastWasRegional bool
}

// Feed processes one decoded rune and returns a completed grapheme if the
// new rune starts a cluster boundary, or nil if r was absorbed into the
// cluster being accumulated.
func (a *clusterAccumulator) Feed(r rune) *grapheme {
	switch {
	case r == runeZWJ:
		if a.pending != nil {
			a.pending.tail = append(a.pending.tail, r)
			a.sawZWJ = true
		}
		return nil

	case isCombiningMark(r):
		if a.pending != nil {
			a.pending.tail = append(a.pending.tail, r)
		}
		return nil

	case isVariationSelector(r):
		if a.pending != nil {
			a.pending.tail = append(a.pending.tail, r)
			if r == runeVS16 {
				a.pending.width = 2
			} else if r == runeVS15 {
				a.pending.width = 1
			}
		}
		return nil

	case a.sawZWJ:
		// Previous rune ended with a ZWJ: r joins the pending cluster
		// instead of starting a new one (ZWJ emoji sequences).
		a.sawZWJ = false
		if a.pending != nil {
			a.pending.tail = append(a.pending.tail, r)
			if w := runeWidth(r); w > a.pending.width {
				a.pending.width = w
			}
		}
		return nil

	case isRegionalIndicator(r) && a.lastWasRegional:
		// Second half of a flag pair: combine into the pending cluster.
		a.lastWasRegional = false
		if a.pending != nil {
			a.pending.tail = append(a.pending.tail, r)
			a.pending.width = 2
		}
		return nil

	default:
		done := a.pending
		a.pending = &grapheme{base: r, width: runeWidth(r)}
		a.lastWasRegional = isRegionalIndicator(r)
		return done
	}
}

// Flush returns the cluster being accumulated, if any, ending the stream.
func (a *clusterAccumulator) Flush() *grapheme {
	done := a.pending
	a.pending = nil
	return done
}
