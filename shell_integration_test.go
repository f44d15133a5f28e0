package headlessterm

import (
	"testing"

	"github.com/danielgatis/go-ansicode"
)

func TestShellIntegrationMarkTypes(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantType ansicode.ShellIntegrationMark
		wantCode int
	}{
		{"prompt start", "\x1b]133;A\x07", ansicode.PromptStart, -1},
		{"command start", "\x1b]133;B\x07", ansicode.CommandStart, -1},
		{"command executed", "\x1b]133;C\x07", ansicode.CommandExecuted, -1},
		{"command finished no code", "\x1b]133;D\x07", ansicode.CommandFinished, -1},
		{"command finished with code", "\x1b]133;D;127\x07", ansicode.CommandFinished, 127},
		{"ST terminator", "\x1b]133;A\x1b\\", ansicode.PromptStart, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			term := New(WithSize(24, 80))
			term.WriteString(tt.input)

			marks := term.PromptMarks()
			if len(marks) != 1 {
				t.Fatalf("expected 1 mark, got %d", len(marks))
			}
			if marks[0].Type != tt.wantType {
				t.Errorf("expected type %d, got %d", tt.wantType, marks[0].Type)
			}
			if marks[0].ExitCode != tt.wantCode {
				t.Errorf("expected exit code %d, got %d", tt.wantCode, marks[0].ExitCode)
			}
		})
	}
}

func TestShellIntegrationMarkRowTracking(t *testing.T) {
	term := New(WithSize(24, 80))

	term.WriteString("\x1b]133;A\x07") // row 0
	term.WriteString("prompt1\r\n")
	term.WriteString("\x1b]133;A\x07") // row 1
	term.WriteString("prompt2\r\n")
	term.WriteString("\x1b]133;A\x07") // row 2

	marks := term.PromptMarks()
	if len(marks) != 3 {
		t.Fatalf("expected 3 marks, got %d", len(marks))
	}
	for i, mark := range marks {
		if mark.Row != i {
			t.Errorf("mark %d: expected row %d, got %d", i, i, mark.Row)
		}
	}
}

func TestShellIntegrationMarkFullSequence(t *testing.T) {
	term := New(WithSize(24, 80))

	term.WriteString("\x1b]133;A\x07")     // prompt start
	term.WriteString("$ ")
	term.WriteString("\x1b]133;B\x07")     // command start
	term.WriteString("ls -la")
	term.WriteString("\r\n")
	term.WriteString("\x1b]133;C\x07")     // command executed
	term.WriteString("file1\r\nfile2\r\n")
	term.WriteString("\x1b]133;D;0\x07")   // command finished

	marks := term.PromptMarks()
	want := []ansicode.ShellIntegrationMark{
		ansicode.PromptStart,
		ansicode.CommandStart,
		ansicode.CommandExecuted,
		ansicode.CommandFinished,
	}
	if len(marks) != len(want) {
		t.Fatalf("expected %d marks, got %d", len(want), len(marks))
	}
	for i, exp := range want {
		if marks[i].Type != exp {
			t.Errorf("mark %d: expected type %d, got %d", i, exp, marks[i].Type)
		}
	}
	if marks[3].ExitCode != 0 {
		t.Errorf("expected exit code 0, got %d", marks[3].ExitCode)
	}
}

type testShellIntegrationProvider struct {
	marks []ansicode.ShellIntegrationMark
	codes []int
}

func (p *testShellIntegrationProvider) OnMark(mark ansicode.ShellIntegrationMark, exitCode int) {
	p.marks = append(p.marks, mark)
	p.codes = append(p.codes, exitCode)
}

func TestShellIntegrationMarkProvider(t *testing.T) {
	provider := &testShellIntegrationProvider{}
	term := New(WithSize(24, 80), WithShellIntegration(provider))

	term.WriteString("\x1b]133;A\x07")
	term.WriteString("\x1b]133;D;42\x07")

	if len(provider.marks) != 2 {
		t.Fatalf("expected provider to receive 2 marks, got %d", len(provider.marks))
	}
	if provider.marks[0] != ansicode.PromptStart {
		t.Errorf("expected PromptStart, got %d", provider.marks[0])
	}
	if provider.marks[1] != ansicode.CommandFinished {
		t.Errorf("expected CommandFinished, got %d", provider.marks[1])
	}
	if provider.codes[1] != 42 {
		t.Errorf("expected exit code 42, got %d", provider.codes[1])
	}
}

func TestShellIntegrationMarkMiddleware(t *testing.T) {
	var middlewareCalled bool
	var receivedMark ansicode.ShellIntegrationMark
	var receivedExitCode int

	mw := &Middleware{
		ShellIntegrationMark: func(mark ansicode.ShellIntegrationMark, exitCode int, next func(ansicode.ShellIntegrationMark, int)) {
			middlewareCalled = true
			receivedMark = mark
			receivedExitCode = exitCode
			next(mark, exitCode)
		},
	}

	term := New(WithSize(24, 80), WithMiddleware(mw))
	term.WriteString("\x1b]133;D;123\x07")

	if !middlewareCalled {
		t.Error("expected middleware to be called")
	}
	if receivedMark != ansicode.CommandFinished {
		t.Errorf("expected CommandFinished, got %d", receivedMark)
	}
	if receivedExitCode != 123 {
		t.Errorf("expected exit code 123, got %d", receivedExitCode)
	}
	if len(term.PromptMarks()) != 1 {
		t.Errorf("expected mark still recorded, got %d", len(term.PromptMarks()))
	}
}
