package errs

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
)

func TestNewErrorFormatsTemplate(t *testing.T) {
	err := NewError(ErrInvalidCredential, 32, 31)

	if err.Code != ErrInvalidCredential {
		t.Fatalf("expected code %d, got %d", ErrInvalidCredential, err.Code)
	}
	if err.ExitCode != ExitPrecondition {
		t.Fatalf("expected exit code %d, got %d", ExitPrecondition, err.ExitCode)
	}
	if !strings.Contains(err.Message, "want 32 characters, got 31") {
		t.Fatalf("unexpected message %q", err.Message)
	}
}

func TestNewErrorDoesNotMutateTemplate(t *testing.T) {
	_ = NewError(ErrInvalidSteamID, "first")
	err := NewError(ErrInvalidSteamID, "second")

	if strings.Contains(err.Message, "first") {
		t.Fatalf("template leaked previous details: %q", err.Message)
	}
}

func TestNewErrorUnknownCode(t *testing.T) {
	err := NewError(424242)

	if err.Code != ErrUnknown {
		t.Fatalf("expected ErrUnknown, got %d", err.Code)
	}
	if err.ExitCode != ExitUnknown {
		t.Fatalf("expected exit code %d, got %d", ExitUnknown, err.ExitCode)
	}
}

func TestWrapUnwrapsCause(t *testing.T) {
	err := Wrap(ErrTransport, io.ErrUnexpectedEOF, "api.steampowered.com")

	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatal("expected wrapped cause to be reachable through errors.Is")
	}
	if !strings.Contains(err.Error(), "unexpected EOF") {
		t.Fatalf("expected cause in error string, got %q", err.Error())
	}
}

func TestIsAndExitCodeThroughWrapping(t *testing.T) {
	inner := NewError(ErrNoMultiplayerGames)
	outer := fmt.Errorf("run: %w", inner)

	if !Is(outer, ErrNoMultiplayerGames) {
		t.Fatal("expected Is to find code through fmt wrapping")
	}
	if Is(outer, ErrEmptySelection) {
		t.Fatal("expected Is to reject a different code")
	}
	if got := ExitCode(outer); got != ExitPipeline {
		t.Fatalf("expected exit code %d, got %d", ExitPipeline, got)
	}
	if got := ExitCode(errors.New("plain")); got != ExitUnknown {
		t.Fatalf("expected exit code %d for plain error, got %d", ExitUnknown, got)
	}
	if got := ExitCode(nil); got != 0 {
		t.Fatalf("expected exit code 0 for nil, got %d", got)
	}
}

func TestEveryCodeHasExitCode(t *testing.T) {
	for code, tmpl := range errorMap {
		if tmpl.Code != code {
			t.Fatalf("errorMap[%d] has mismatched code %d", code, tmpl.Code)
		}
		if tmpl.ExitCode == 0 {
			t.Fatalf("errorMap[%d] has no exit code", code)
		}
	}
}
