package headlessterm

import (
	"fmt"
	"strings"
)

// Kitty keyboard protocol flag bits, in CSI u terms: the low five bits of
// the "progressive enhancement" flag set xterm/kitty query and set via
// CSI ? u / CSI = Ps ; Pm u. go-ansicode's KeyboardMode carries the same
// bitmask; these are the bit values the protocol itself defines rather
// than named library constants, since the encoder below only needs to
// test membership, not the library's own flag-manipulation helpers.
const (
	kittyFlagDisambiguate     = 1 << 0
	kittyFlagReportEvents     = 1 << 1
	kittyFlagReportAlternates = 1 << 2
	kittyFlagReportAllKeys    = 1 << 3
	kittyFlagReportText       = 1 << 4
)

// KittyKeyEventType is the event kind for a kitty-protocol key encoding.
type KittyKeyEventType int

const (
	KittyKeyPress KittyKeyEventType = iota + 1
	KittyKeyRepeat
	KittyKeyRelease
)

// KittyModifiers is the bitset of active modifiers for a key event, using
// the protocol's own bit assignment so EncodeKittyModifiers needs no
// translation table.
type KittyModifiers uint8

const (
	KittyModShift KittyModifiers = 1 << iota
	KittyModAlt
	KittyModCtrl
	KittyModSuper
	KittyModHyper
	KittyModMeta
	KittyModCapsLock
	KittyModNumLock
)

// KittyKeyEvent is the input to the kitty keyboard protocol encoder: a
// single key press/repeat/release plus everything the active flag set
// might need to report it.
type KittyKeyEvent struct {
	Key           int // the unshifted keycode, usually a Unicode codepoint
	Modifiers     KittyModifiers
	EventType     KittyKeyEventType
	Text          string // associated text (reportText)
	ShiftedKey    int    // 0 if none
	BaseLayoutKey int    // 0 if none
	Composing     bool

	ApplicationCursor      bool
	BackspaceSendsControlH bool
}

// plainKeyByte maps a handful of keys that have a fixed single-byte legacy
// encoding when no progressive-enhancement flags are in play (or only
// disambiguate is set and the key isn't itself being disambiguated).
var plainKeyByte = map[int]byte{
	13:  '\r', // Enter
	9:   '\t', // Tab
	127: 0x7f, // Backspace
}

// EncodeKittyKeyEvent turns one key event into the bytes a host should
// receive, given the currently active kitty keyboard protocol flags
// (typically the top of Terminal's keyboard mode stack; 0 if the stack is
// empty, which is the legacy-only behavior).
func EncodeKittyKeyEvent(ev KittyKeyEvent, flags int) []byte {
	if ev.Composing && ev.Modifiers == 0 {
		return nil
	}

	disambiguate := flags&kittyFlagDisambiguate != 0
	reportEvents := flags&kittyFlagReportEvents != 0
	reportAllKeys := flags&kittyFlagReportAllKeys != 0
	reportAlternates := flags&kittyFlagReportAlternates != 0
	reportText := flags&kittyFlagReportText != 0

	if ev.EventType == KittyKeyRelease && !(reportEvents && reportAllKeys) {
		return nil
	}

	if flags == 0 {
		return encodeLegacyKeyEvent(ev)
	}

	if !reportAllKeys && disambiguate {
		if special := encodeDisambiguatedSpecialCase(ev); special != nil {
			return special
		}
		if b, ok := plainKeyByte[ev.Key]; ok && ev.Modifiers == 0 {
			return []byte{b}
		}
		if ev.Text != "" && ev.Modifiers == 0 && !isFunctionalKey(ev.Key) {
			return []byte(ev.Text)
		}
	}

	return encodeCSIuKeyEvent(ev, reportAllKeys, reportAlternates, reportText, disambiguate)
}

// encodeLegacyKeyEvent is what a terminal with no kitty flags pushed does:
// plain UTF-8 for text keys, the classic single-byte controls for
// Enter/Tab/Backspace (honoring BackspaceSendsControlH), nothing for
// release/repeat.
func encodeLegacyKeyEvent(ev KittyKeyEvent) []byte {
	if ev.EventType != KittyKeyPress {
		return nil
	}
	if ev.Key == 127 {
		if ev.BackspaceSendsControlH {
			return []byte{0x08}
		}
		return []byte{0x7f}
	}
	if b, ok := plainKeyByte[ev.Key]; ok {
		return []byte{b}
	}
	if ev.Text != "" {
		return []byte(ev.Text)
	}
	return nil
}

// encodeDisambiguatedSpecialCase covers the Shift+Tab / Shift+Backspace /
// Shift+Enter forms that get distinct CSI u encodings even under plain
// disambiguate (no reportAllKeys).
func encodeDisambiguatedSpecialCase(ev KittyKeyEvent) []byte {
	if ev.EventType != KittyKeyPress || ev.Modifiers != KittyModShift {
		return nil
	}
	switch ev.Key {
	case 9:
		return []byte("\x1b[9;2u")
	case 127:
		return []byte("\x1b[127;2u")
	case 13:
		return []byte("\x1b[13;2u")
	}
	return nil
}

// isFunctionalKey reports whether key is one of the keys that always goes
// through the CSI u functional-key path (arrows, Enter, Tab, Backspace,
// Escape, F-keys, …) rather than ever being emitted as plain text, even
// under bare disambiguate.
func isFunctionalKey(key int) bool {
	switch key {
	case 9, 13, 27, 127:
		return true
	}
	return key >= 0xe000 && key <= 0xf8ff // kitty's private-use functional key range
}

// encodeCSIuKeyEvent builds the general CSI u form:
// CSI unicode-key-code:alternate-key-codes ; modifiers:event-type ; text-as-codepoints u
func encodeCSIuKeyEvent(ev KittyKeyEvent, reportAllKeys, reportAlternates, reportText, disambiguate bool) []byte {
	if !reportAllKeys && !disambiguate && ev.Modifiers == 0 && ev.EventType == KittyKeyPress && !isFunctionalKey(ev.Key) {
		if ev.Text != "" {
			return []byte(ev.Text)
		}
	}

	var sb strings.Builder
	sb.WriteString("\x1b[")
	fmt.Fprintf(&sb, "%d", ev.Key)

	if reportAlternates && (ev.ShiftedKey != 0 || ev.BaseLayoutKey != 0) {
		sb.WriteByte(':')
		if ev.ShiftedKey != 0 {
			fmt.Fprintf(&sb, "%d", ev.ShiftedKey)
		}
		if ev.BaseLayoutKey != 0 {
			sb.WriteByte(':')
			fmt.Fprintf(&sb, "%d", ev.BaseLayoutKey)
		}
	}

	modifierCode := EncodeKittyModifiers(ev.Modifiers)
	needModifierField := modifierCode != 1 || ev.EventType != KittyKeyPress
	if needModifierField {
		sb.WriteByte(';')
		fmt.Fprintf(&sb, "%d", modifierCode)
		if ev.EventType != KittyKeyPress {
			sb.WriteByte(':')
			fmt.Fprintf(&sb, "%d", int(ev.EventType))
		}
	}

	if reportText && ev.Modifiers&KittyModCtrl == 0 && ev.EventType != KittyKeyRelease && ev.Text != "" {
		if !needModifierField {
			sb.WriteString(";1")
		}
		sb.WriteByte(';')
		for i, r := range ev.Text {
			if i > 0 {
				sb.WriteByte(':')
			}
			fmt.Fprintf(&sb, "%d", r)
		}
	}

	sb.WriteByte('u')
	return []byte(sb.String())
}

// EncodeKittyModifiers implements the protocol's `1 + bitor(flags)` rule.
func EncodeKittyModifiers(m KittyModifiers) int {
	return 1 + int(m)
}
