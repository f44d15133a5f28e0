package headlessterm

import (
	"github.com/danielgatis/go-ansicode"
)

// PromptMark stores information about a shell integration mark (OSC 133).
type PromptMark struct {
	// Type is the mark type (PromptStart, CommandStart, CommandExecuted, CommandFinished).
	Type ansicode.ShellIntegrationMark
	// Row is the absolute row position (including scrollback offset).
	Row int
	// ExitCode is the command exit code (only valid for CommandFinished marks, -1 otherwise).
	ExitCode int
}

// ShellIntegrationProvider handles shell integration events (OSC 133).
type ShellIntegrationProvider interface {
	// OnMark is called when a shell integration mark is received.
	OnMark(mark ansicode.ShellIntegrationMark, exitCode int)
}

// NoopShellIntegration ignores all shell integration events.
type NoopShellIntegration struct{}

func (NoopShellIntegration) OnMark(mark ansicode.ShellIntegrationMark, exitCode int) {}

var _ ShellIntegrationProvider = (*NoopShellIntegration)(nil)

// ShellIntegrationMark processes a shell integration mark (OSC 133).
// go-ansicode's Handler interface names this method directly, so it is the
// one OSC-133 entry point reached automatically by Write/feed; everything
// else in this file exists to give it somewhere to record to.
func (t *Terminal) ShellIntegrationMark(mark ansicode.ShellIntegrationMark, exitCode int) {
	if t.middleware != nil && t.middleware.ShellIntegrationMark != nil {
		t.middleware.ShellIntegrationMark(mark, exitCode, t.shellIntegrationMarkInternal)
		return
	}
	t.shellIntegrationMarkInternal(mark, exitCode)
}

func (t *Terminal) shellIntegrationMarkInternal(mark ansicode.ShellIntegrationMark, exitCode int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	absoluteRow := t.cursor.Row + t.primaryBuffer.ScrollbackLen()
	t.promptMarks = append(t.promptMarks, PromptMark{
		Type:     mark,
		Row:      absoluteRow,
		ExitCode: exitCode,
	})

	if t.shellIntegrationProvider != nil {
		t.shellIntegrationProvider.OnMark(mark, exitCode)
	}
}

// PromptMarks returns all recorded prompt marks, most recent last.
func (t *Terminal) PromptMarks() []PromptMark {
	t.mu.RLock()
	defer t.mu.RUnlock()

	marks := make([]PromptMark, len(t.promptMarks))
	copy(marks, t.promptMarks)
	return marks
}

// SetShellIntegrationProvider sets the shell integration provider at runtime.
func (t *Terminal) SetShellIntegrationProvider(p ShellIntegrationProvider) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.shellIntegrationProvider = p
}

// ShellIntegrationProviderValue returns the current shell integration provider.
func (t *Terminal) ShellIntegrationProviderValue() ShellIntegrationProvider {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.shellIntegrationProvider
}
