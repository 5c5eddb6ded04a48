package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidColor, "malformed hex color: %s", "zzz")

	if err.Code != ErrCodeInvalidColor {
		t.Errorf("Code = %s, want %s", err.Code, ErrCodeInvalidColor)
	}
	if err.Message != "malformed hex color: zzz" {
		t.Errorf("Message = %q", err.Message)
	}
	if err.Cause != nil {
		t.Error("Cause should be nil")
	}

	want := "INVALID_COLOR_FORMAT: malformed hex color: zzz"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestWrap(t *testing.T) {
	cause := fmt.Errorf("read failed")
	err := Wrap(ErrCodeFileNotFound, cause, "load catalog %s", "devices/")

	if err.Cause != cause {
		t.Error("Cause not preserved")
	}
	if !stderrors.Is(err, cause) {
		t.Error("errors.Is should find the cause through Unwrap")
	}
}

func TestIs(t *testing.T) {
	err := New(ErrCodeOutOfBounds, "position 43 exceeds rack height 42")

	if !Is(err, ErrCodeOutOfBounds) {
		t.Error("Is should match the error's code")
	}
	if Is(err, ErrCodeInvalidColor) {
		t.Error("Is should not match a different code")
	}
	if Is(fmt.Errorf("plain error"), ErrCodeOutOfBounds) {
		t.Error("Is should not match plain errors")
	}

	// Wrapped in a plain error chain
	wrapped := fmt.Errorf("render: %w", err)
	if !Is(wrapped, ErrCodeOutOfBounds) {
		t.Error("Is should unwrap plain error chains")
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeRackNotFound, "no such rack")); got != ErrCodeRackNotFound {
		t.Errorf("GetCode = %s", got)
	}
	if got := GetCode(fmt.Errorf("plain")); got != "" {
		t.Errorf("GetCode for plain error = %s, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	err := New(ErrCodeInvalidRack, "rack height must be between 1 and 100")
	if got := UserMessage(err); got != "rack height must be between 1 and 100" {
		t.Errorf("UserMessage = %q", got)
	}
	if got := UserMessage(fmt.Errorf("plain error")); got != "plain error" {
		t.Errorf("UserMessage for plain error = %q", got)
	}
}
