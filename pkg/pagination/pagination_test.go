package pagination

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNormalizeLimit(t *testing.T) {
	cases := map[int]int{0: DefaultLimit, -3: DefaultLimit, 10: 10, MaxLimit + 50: MaxLimit}
	for in, want := range cases {
		if got := NormalizeLimit(in); got != want {
			t.Fatalf("NormalizeLimit(%d) = %d, want %d", in, got, want)
		}
	}
	if LimitWithBuffer(10) != 11 {
		t.Fatalf("expected buffer of one")
	}
}

func TestCursorRoundTrip(t *testing.T) {
	original := Cursor{CreatedAt: time.Date(2024, 5, 1, 12, 30, 0, 123, time.UTC), ID: uuid.New()}
	parsed, err := ParseCursor(EncodeCursor(original))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !parsed.CreatedAt.Equal(original.CreatedAt) || parsed.ID != original.ID {
		t.Fatalf("cursor mismatch: %+v vs %+v", parsed, original)
	}

	empty, err := ParseCursor("  ")
	if err != nil || empty != nil {
		t.Fatalf("expected nil cursor for blank input, got %+v %v", empty, err)
	}
	if _, err := ParseCursor("%%%"); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestTrim(t *testing.T) {
	now := time.Now().UTC()
	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	cursorOf := func(id uuid.UUID) Cursor { return Cursor{CreatedAt: now, ID: id} }

	page, next := Trim(ids, 2, cursorOf)
	if len(page) != 2 || next == "" {
		t.Fatalf("expected trimmed page with cursor, got %d %q", len(page), next)
	}
	decoded, err := ParseCursor(next)
	if err != nil || decoded.ID != ids[1] {
		t.Fatalf("cursor should point at last returned row: %+v %v", decoded, err)
	}

	page, next = Trim(ids[:2], 2, cursorOf)
	if len(page) != 2 || next != "" {
		t.Fatalf("expected final page without cursor")
	}
}
