package dberr

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorMessageAndPosition(t *testing.T) {
	err := At(KindParse, 1, 8, "expected FROM, got %q", "FORM")
	got := err.Error()
	if !strings.HasPrefix(got, "parse error at line 1, column 8: ") {
		t.Fatalf("unexpected message: %q", got)
	}
	if !strings.Contains(got, `"FORM"`) {
		t.Fatalf("message lost detail: %q", got)
	}
}

func TestWrapKeepsSentinel(t *testing.T) {
	err := Wrap(KindExec, "CREATE TABLE", ErrTableExists, "table %q", "users")
	outer := fmt.Errorf("execute: %w", err)

	if !errors.Is(outer, ErrTableExists) {
		t.Fatalf("errors.Is lost sentinel: %v", outer)
	}
	if !Is(outer, KindExec) {
		t.Fatalf("expected KindExec, got %v", outer)
	}
	if Is(outer, KindPlan) {
		t.Fatalf("did not expect KindPlan")
	}
	if want := `exec error: CREATE TABLE: table "users": table already exists`; err.Error() != want {
		t.Fatalf("got %q, want %q", err.Error(), want)
	}
}

func TestKindOfPlainError(t *testing.T) {
	if _, ok := KindOf(errors.New("plain")); ok {
		t.Fatalf("plain error should have no kind")
	}
}
