package pagination

import (
	"testing"
	"time"
)

func TestCursorRoundTrip(t *testing.T) {
	ts := time.Date(2025, 1, 1, 12, 30, 45, 123456789, time.UTC)
	cursor := EncodeCursor(ts, 42)

	gotTS, gotID, err := DecodeCursor(cursor)
	if err != nil {
		t.Fatalf("DecodeCursor failed: %v", err)
	}
	if !gotTS.Equal(ts) {
		t.Errorf("timestamp = %v, want %v", gotTS, ts)
	}
	if gotID != 42 {
		t.Errorf("id = %d, want 42", gotID)
	}
}

func TestDecodeCursor_Invalid(t *testing.T) {
	for _, cursor := range []string{
		"not-base64!!!",
		"aGVsbG8=",                     // decodes but has no separator
		"MjAyNS0wMS0wMVQwMDowMDowMFo=", // timestamp without id
	} {
		if _, _, err := DecodeCursor(cursor); err == nil {
			t.Errorf("DecodeCursor(%q) succeeded, want error", cursor)
		}
	}
}
