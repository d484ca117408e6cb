package domain

import (
	"errors"
	"testing"
)

func TestOrderError(t *testing.T) {
	err := &OrderError{OrderID: "abc", Op: "fill", Err: ErrOverFill}

	t.Run("message", func(t *testing.T) {
		want := "fill rejected [order abc]: fill exceeds pending quantity"
		if err.Error() != want {
			t.Errorf("Error() = %q, want %q", err.Error(), want)
		}
	})

	t.Run("unwraps to sentinel", func(t *testing.T) {
		if !errors.Is(err, ErrOverFill) {
			t.Error("expected error to wrap ErrOverFill")
		}
		if errors.Is(err, ErrUnknownOrder) {
			t.Error("should not match a different sentinel")
		}
	})

	t.Run("is a rejection", func(t *testing.T) {
		if !IsRejection(err) {
			t.Error("IsRejection should return true for an OrderError")
		}
	})
}

func TestQuoteError(t *testing.T) {
	err := &QuoteError{Reason: "crossed book", Err: ErrInvalidQuote}

	want := "quote rejected [crossed book]: invalid quote"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !errors.Is(err, ErrInvalidQuote) {
		t.Error("expected error to wrap ErrInvalidQuote")
	}
	if !IsRejection(err) {
		t.Error("IsRejection should return true for a QuoteError")
	}
}

func TestIsRejection_PlainError(t *testing.T) {
	if IsRejection(errors.New("plain error")) {
		t.Error("IsRejection should return false for a plain error")
	}
	if IsRejection(nil) {
		t.Error("IsRejection should return false for nil")
	}
}
