package headlessterm

import "fmt"

// decRqmReply is the DECRQM "Pm" value: whether a mode is set, reset, or not
// recognized at all. xterm also defines "permanently set/reset" (3/4) for
// modes a terminal never allows the host to change; this implementation has
// no such modes, so it only ever reports 0, 1, or 2.
const (
	decRqmNotRecognized = 0
	decRqmSet           = 1
	decRqmReset         = 2
)

// ReportDecPrivateMode answers a DECRQM query (CSI ? Ps $ p) for a DEC
// private mode number with its live state, writing the CSI ? Ps ; Pm $ y
// reply. go-ansicode's Handler interface has no dedicated method for DECRQM,
// so Write recognizes the "$p" CSI form itself (scanRawDispatchSequences)
// ahead of the decoder and calls this directly, mirroring
// ReportProgress/WindowCommand.
func (t *Terminal) ReportDecPrivateMode(ps int) {
	pm := t.decPrivateModeState(ps)
	t.writeResponseString(fmt.Sprintf("\x1b[?%d;%d$y", ps, pm))
}

// ReportAnsiMode answers a DECRQM query (CSI Ps $ p) for a standard ANSI
// mode number (no "?" prefix), writing the CSI Ps ; Pm $ y reply.
func (t *Terminal) ReportAnsiMode(ps int) {
	pm := t.ansiModeState(ps)
	t.writeResponseString(fmt.Sprintf("\x1b[%d;%d$y", ps, pm))
}

// decPrivateModeState resolves a DEC private mode number to its live Pm
// value. Covers DECCKM(1), DECCOLM(3), DECSCNM(5), DECOM(6), DECAWM(7),
// DECNKM(66), DECLRMM(69), and synchronized output(2026).
func (t *Terminal) decPrivateModeState(ps int) int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	switch ps {
	case 1: // DECCKM
		return setOrReset(t.modes&ModeCursorKeys != 0)
	case 3: // DECCOLM
		return setOrReset(t.modes&ModeColumnMode != 0)
	case 5: // DECSCNM
		return setOrReset(t.modes&ModeScreenReverse != 0)
	case 6: // DECOM
		return setOrReset(t.modes&ModeOrigin != 0)
	case 7: // DECAWM
		return setOrReset(t.modes&ModeLineWrap != 0)
	case 66: // DECNKM
		return setOrReset(t.modes&ModeKeypadApplication != 0)
	case 69: // DECLRMM
		_, _, enabled := t.activeBuffer.Margins()
		return setOrReset(enabled)
	case 1049: // alternate screen + save/restore cursor
		return setOrReset(t.modes&ModeSwapScreenAndSetRestoreCursor != 0)
	case 2004: // bracketed paste
		return setOrReset(t.modes&ModeBracketedPaste != 0)
	case 2026: // synchronized output
		return setOrReset(t.modes&ModeSyncOutput != 0)
	default:
		return decRqmNotRecognized
	}
}

// ansiModeState resolves a standard (non-DEC) ANSI mode number to its live
// Pm value. Covers IRM(4), SRM(12), and LNM(20).
func (t *Terminal) ansiModeState(ps int) int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	switch ps {
	case 4: // IRM
		return setOrReset(t.modes&ModeInsert != 0)
	case 12: // SRM
		return setOrReset(t.modes&ModeSendReceive != 0)
	case 20: // LNM
		return setOrReset(t.modes&ModeLineFeedNewLine != 0)
	default:
		return decRqmNotRecognized
	}
}

func setOrReset(set bool) int {
	if set {
		return decRqmSet
	}
	return decRqmReset
}

// SetDecPrivateMode sets or resets a DEC private mode by its numeric code.
// It covers the modes decPrivateModeState reports on plus the ones
// go-ansicode's TerminalMode enum already dispatches (DECCKM, DECOM, DECAWM,
// ...) through SetMode/UnsetMode; this entry point exists for the modes that
// enum has no constant for (DECSCNM, DECLRMM, synchronized output) and for
// embedders driving the terminal from their own CSI "?...h"/"?...l"
// preprocessing rather than go-ansicode's decoder.
func (t *Terminal) SetDecPrivateMode(ps int, set bool) {
	switch ps {
	case 3: // DECCOLM: resize convention is clear screen, reset margins, home cursor
		t.mu.Lock()
		if set {
			t.modes |= ModeColumnMode
		} else {
			t.modes &^= ModeColumnMode
		}
		t.activeBuffer.ClearAll()
		t.scrollTop = 0
		t.scrollBottom = t.rows
		t.cursor.Row = 0
		t.cursor.Col = 0
		t.mu.Unlock()
	case 5: // DECSCNM
		t.mu.Lock()
		if set {
			t.modes |= ModeScreenReverse
		} else {
			t.modes &^= ModeScreenReverse
		}
		t.mu.Unlock()
	case 69: // DECLRMM
		t.mu.Lock()
		left, right, _ := t.activeBuffer.Margins()
		t.activeBuffer.SetMargins(left, right, set)
		if set {
			t.modes |= ModeLeftRightMargin
		} else {
			t.modes &^= ModeLeftRightMargin
		}
		t.mu.Unlock()
	case 2026: // synchronized output
		t.mu.Lock()
		if set {
			t.modes |= ModeSyncOutput
		} else {
			t.modes &^= ModeSyncOutput
		}
		t.mu.Unlock()
	default:
		t.setModeInternalByCode(ps, set)
	}
}

// SetLeftRightMargins implements DECSLRM (CSI Pl ; Pr s), setting the left
// and right margin columns (1-based, inclusive) used by CR/HT/ECH/ICH/DCH
// while DECLRMM is enabled. It is a no-op if DECLRMM has not been turned on.
func (t *Terminal) SetLeftRightMargins(left, right int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.modes&ModeLeftRightMargin == 0 {
		return
	}
	left--
	right--
	t.activeBuffer.SetMargins(left, right, true)
}

// SetAnsiMode sets or resets a standard (non-DEC) ANSI mode by its numeric
// code. Only SRM(12) has no other entry point; IRM/LNM already arrive
// through go-ansicode's TerminalMode dispatch.
func (t *Terminal) SetAnsiMode(ps int, set bool) {
	if ps != 12 {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if set {
		t.modes |= ModeSendReceive
	} else {
		t.modes &^= ModeSendReceive
	}
}

// setModeInternalByCode maps the handful of DEC private mode codes that
// already have an ansicode.TerminalMode equivalent so SetDecPrivateMode
// stays a complete alternate entry point alongside SetMode/UnsetMode.
func (t *Terminal) setModeInternalByCode(ps int, set bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var m TerminalMode
	switch ps {
	case 1:
		m = ModeCursorKeys
	case 6:
		m = ModeOrigin
		if set {
			t.cursor.Row = t.scrollTop
			t.cursor.Col = 0
		}
	case 7:
		m = ModeLineWrap
	case 66:
		m = ModeKeypadApplication
	case 1049:
		m = ModeSwapScreenAndSetRestoreCursor
		if set {
			t.saveCursorPositionLocked()
			t.activeBuffer = t.alternateBuffer
			t.activeBuffer.ClearAll()
			if t.images != nil {
				t.images.Clear()
			}
		} else {
			t.activeBuffer = t.primaryBuffer
			t.restoreCursorPositionLocked()
		}
	case 2004:
		m = ModeBracketedPaste
	default:
		return
	}

	if set {
		t.modes |= m
	} else {
		t.modes &^= m
	}
}
