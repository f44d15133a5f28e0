package headlessterm

import "testing"

func TestEncodeKittyKeyEventLegacyPlainText(t *testing.T) {
	got := EncodeKittyKeyEvent(KittyKeyEvent{Key: 'a', Text: "a", EventType: KittyKeyPress}, 0)
	if string(got) != "a" {
		t.Errorf("expected %q, got %q", "a", got)
	}
}

func TestEncodeKittyKeyEventLegacyEnter(t *testing.T) {
	got := EncodeKittyKeyEvent(KittyKeyEvent{Key: 13, EventType: KittyKeyPress}, 0)
	if string(got) != "\r" {
		t.Errorf("expected CR, got %q", got)
	}
}

func TestEncodeKittyKeyEventLegacyBackspaceControlH(t *testing.T) {
	got := EncodeKittyKeyEvent(KittyKeyEvent{Key: 127, EventType: KittyKeyPress, BackspaceSendsControlH: true}, 0)
	if len(got) != 1 || got[0] != 0x08 {
		t.Errorf("expected control-H, got %v", got)
	}
}

func TestEncodeKittyKeyEventDisambiguateShiftTab(t *testing.T) {
	got := EncodeKittyKeyEvent(KittyKeyEvent{Key: 9, Modifiers: KittyModShift, EventType: KittyKeyPress}, kittyFlagDisambiguate)
	if string(got) != "\x1b[9;2u" {
		t.Errorf("expected shift-tab CSI form, got %q", got)
	}
}

func TestEncodeKittyKeyEventDisambiguateShiftBackspace(t *testing.T) {
	got := EncodeKittyKeyEvent(KittyKeyEvent{Key: 127, Modifiers: KittyModShift, EventType: KittyKeyPress}, kittyFlagDisambiguate)
	if string(got) != "\x1b[127;2u" {
		t.Errorf("expected shift-backspace CSI form, got %q", got)
	}
}

func TestEncodeKittyKeyEventDisambiguatePlainTextPassesThrough(t *testing.T) {
	got := EncodeKittyKeyEvent(KittyKeyEvent{Key: 'a', Text: "a", EventType: KittyKeyPress}, kittyFlagDisambiguate)
	if string(got) != "a" {
		t.Errorf("expected plain 'a', got %q", got)
	}
}

func TestEncodeKittyKeyEventReleaseSuppressedByDefault(t *testing.T) {
	got := EncodeKittyKeyEvent(KittyKeyEvent{Key: 'a', EventType: KittyKeyRelease}, kittyFlagReportEvents)
	if got != nil {
		t.Errorf("expected release suppressed without reportAllKeys, got %q", got)
	}
}

func TestEncodeKittyKeyEventReleaseReportedWithAllKeys(t *testing.T) {
	got := EncodeKittyKeyEvent(KittyKeyEvent{Key: 'a', EventType: KittyKeyRelease}, kittyFlagReportEvents|kittyFlagReportAllKeys)
	if got == nil {
		t.Fatal("expected release to be reported")
	}
}

func TestEncodeKittyKeyEventReportAllKeysFunctional(t *testing.T) {
	got := EncodeKittyKeyEvent(KittyKeyEvent{Key: 13, EventType: KittyKeyPress}, kittyFlagDisambiguate|kittyFlagReportAllKeys)
	if string(got) != "\x1b[13u" {
		t.Errorf("expected unmodified Enter reported under reportAllKeys, got %q", got)
	}
}

func TestEncodeKittyKeyEventReportAlternates(t *testing.T) {
	ev := KittyKeyEvent{
		Key: 'a', ShiftedKey: 'A', BaseLayoutKey: 'a',
		Modifiers: KittyModShift, EventType: KittyKeyPress,
	}
	got := EncodeKittyKeyEvent(ev, kittyFlagDisambiguate|kittyFlagReportAllKeys|kittyFlagReportAlternates)
	want := "\x1b[97:65:97;2u"
	if string(got) != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestEncodeKittyKeyEventReportText(t *testing.T) {
	ev := KittyKeyEvent{Key: 'a', Text: "a", EventType: KittyKeyPress}
	got := EncodeKittyKeyEvent(ev, kittyFlagReportAllKeys|kittyFlagReportText)
	want := "\x1b[97;1;97u"
	if string(got) != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestEncodeKittyKeyEventComposingSuppressedWithoutModifiers(t *testing.T) {
	got := EncodeKittyKeyEvent(KittyKeyEvent{Key: 'a', Composing: true, EventType: KittyKeyPress}, kittyFlagReportAllKeys)
	if got != nil {
		t.Errorf("expected nil for unmodified composing key, got %q", got)
	}
}

func TestEncodeKittyKeyEventComposingWithModifiersNotSuppressed(t *testing.T) {
	ev := KittyKeyEvent{Key: 'a', Composing: true, Modifiers: KittyModCtrl, Text: "a", EventType: KittyKeyPress}
	got := EncodeKittyKeyEvent(ev, kittyFlagReportAllKeys)
	if got == nil {
		t.Error("expected composing+modifiers to still be encoded")
	}
}

func TestEncodeKittyModifiers(t *testing.T) {
	if got := EncodeKittyModifiers(0); got != 1 {
		t.Errorf("expected no modifiers to encode as 1, got %d", got)
	}
	if got := EncodeKittyModifiers(KittyModShift | KittyModCtrl); got != 6 {
		t.Errorf("expected shift+ctrl to encode as 6, got %d", got)
	}
}
