package errors

import (
	"errors"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:  PhaseLink,
				Kind:   KindToolchain,
				Detail: "gcc failed",
				Cause:  errors.New("exit status 1"),
			},
			contains: []string{"[link]", "toolchain", "gcc failed", "caused by", "exit status 1"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseDeserialize,
				Kind:  KindMalformed,
			},
			contains: []string{"[deserialize]", "malformed"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !containsSubstring(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := Deserialize("load failed", cause)

	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the cause")
	}
	if errors.Unwrap(err) != cause {
		t.Error("Unwrap should return the cause")
	}
}

func TestError_Is_PhaseKindMatching(t *testing.T) {
	err := Headless("compile")

	if !errors.Is(err, Headless("validate")) {
		t.Error("headless errors should match regardless of detail")
	}
	if errors.Is(err, Deserialize("", nil)) {
		t.Error("headless error should not match a deserialize error")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("boom")
	err := New(PhaseLink, KindToolchain).
		Detail("linker %q exited with status %d", "gcc", 1).
		Cause(cause).
		Build()

	if err.Phase != PhaseLink || err.Kind != KindToolchain {
		t.Fatalf("unexpected phase/kind: %s/%s", err.Phase, err.Kind)
	}
	if err.Detail != `linker "gcc" exited with status 1` {
		t.Fatalf("unexpected detail: %q", err.Detail)
	}
	if !errors.Is(err, cause) {
		t.Error("cause not attached")
	}
}

func TestDowncastMismatch(t *testing.T) {
	err := DowncastMismatch("map[string]string", "int")
	msg := err.Error()
	for _, s := range []string{"mismatch", "map[string]string", "int"} {
		if !containsSubstring(msg, s) {
			t.Errorf("error message %q does not contain %q", msg, s)
		}
	}
}

func containsSubstring(s, substr string) bool {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
