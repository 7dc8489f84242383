package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestDomainError(t *testing.T) {
	t.Run("New", func(t *testing.T) {
		err := New(CodeNotFound, "config not found")
		if err.Error() != "[NOT_FOUND] config not found" {
			t.Errorf("expected [NOT_FOUND] config not found, got %s", err.Error())
		}
	})

	t.Run("Newf", func(t *testing.T) {
		err := Newf(CodeNotSupported, "unsupported extension %q", ".rb")
		if err.Error() != `[NOT_SUPPORTED] unsupported extension ".rb"` {
			t.Errorf("unexpected message %s", err.Error())
		}
	})

	t.Run("Wrap", func(t *testing.T) {
		original := errors.New("original error")
		err := Wrap(original, CodeInternal, "internal failure")
		expected := "[INTERNAL_ERROR] internal failure: original error"
		if err.Error() != expected {
			t.Errorf("expected %s, got %s", expected, err.Error())
		}
		if !errors.Is(err, original) {
			t.Error("expected wrapped error to unwrap to original")
		}
	})

	t.Run("IsCode", func(t *testing.T) {
		err := New(CodeValidationError, "invalid severity")
		if !IsCode(err, CodeValidationError) {
			t.Error("expected IsCode to return true for CodeValidationError")
		}
		if IsCode(err, CodeNotFound) {
			t.Error("expected IsCode to return false for CodeNotFound")
		}
	})

	t.Run("IsCodeThroughFmtWrap", func(t *testing.T) {
		err := fmt.Errorf("lint file: %w", New(CodeParseError, "unexpected token"))
		if !IsCode(err, CodeParseError) {
			t.Error("expected IsCode to see through fmt.Errorf wrapping")
		}
		if CodeOf(err) != CodeParseError {
			t.Errorf("expected CodeOf PARSE_ERROR, got %s", CodeOf(err))
		}
	})

	t.Run("AddContext", func(t *testing.T) {
		err := AddContext(New(CodeRuleError, "unknown message id"), CtxRule, "enforce-refs-end-with-ref")
		var de *DomainError
		if !errors.As(err, &de) {
			t.Fatal("expected DomainError")
		}
		if de.Context[CtxRule] != "enforce-refs-end-with-ref" {
			t.Errorf("expected rule context, got %v", de.Context)
		}

		plain := AddContext(errors.New("boom"), CtxPath, "a.ts")
		if CodeOf(plain) != CodeInternal {
			t.Errorf("expected plain errors to become INTERNAL_ERROR, got %s", CodeOf(plain))
		}
	})
}
