package headlessterm

// ScrolledProvider is notified with the viewport's display offset (yDisp)
// each time the caller pages through history with Terminal.ScrollViewport
// or Terminal.ResetViewport. Scrolling caused by terminal output does not
// notify it.
type ScrolledProvider interface {
	// Scrolled reports the new yDisp value.
	Scrolled(yDisp int)
}

// NoopScrolled ignores viewport-scroll notifications.
type NoopScrolled struct{}

func (NoopScrolled) Scrolled(yDisp int) {}

// ColorChangedProvider is notified when a palette entry or a dynamic color
// (OSC 4, OSC 10/11 set forms) changes.
type ColorChangedProvider interface {
	// ColorChanged reports the palette/dynamic-color index that changed.
	ColorChanged(index int)
}

// NoopColorChanged ignores color-change notifications.
type NoopColorChanged struct{}

func (NoopColorChanged) ColorChanged(index int) {}

// CursorColorProvider is notified when the cursor color changes via OSC 12
// or is restored via OSC 112.
type CursorColorProvider interface {
	// CursorColorChanged reports the new cursor color as "#rrggbb", or an
	// empty string on reset.
	CursorColorChanged(hex string)
}

// NoopCursorColor ignores cursor-color notifications.
type NoopCursorColor struct{}

func (NoopCursorColor) CursorColorChanged(hex string) {}

// ProgressProvider is notified of OSC 9;4 taskbar progress reports.
type ProgressProvider interface {
	// Progress reports state ("none", "normal", "error", "indeterminate",
	// "paused") and a percentage clamped to [0, 100].
	Progress(state string, percent int)
}

// NoopProgress ignores progress reports.
type NoopProgress struct{}

func (NoopProgress) Progress(state string, percent int) {}

// WindowCommandProvider handles CSI t window manipulation commands
// (iconify, resize, report geometry, ...). Implementations that support a
// query form should return the literal bytes to write back to the host;
// others should return nil.
type WindowCommandProvider interface {
	// WindowCommand executes or queries a window command identified by its
	// CSI t parameter list.
	WindowCommand(params []int) []byte
}

// NoopWindowCommand rejects every window command query with no reply.
type NoopWindowCommand struct{}

func (NoopWindowCommand) WindowCommand(params []int) []byte { return nil }

var _ ScrolledProvider = NoopScrolled{}
var _ ColorChangedProvider = NoopColorChanged{}
var _ CursorColorProvider = NoopCursorColor{}
var _ ProgressProvider = NoopProgress{}
var _ WindowCommandProvider = NoopWindowCommand{}
