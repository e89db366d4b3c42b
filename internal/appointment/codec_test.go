package appointment

import (
	"strings"
	"testing"
	"time"

	"sinta/internal/calendar"
)

func TestEncode_RoundTrip(t *testing.T) {
	content := Encode("Hello world", "2025-03-14")

	want := "Hello world\n\n" + Marker + " March 14, 2025"
	if content != want {
		t.Fatalf("expected %q, got %q", want, content)
	}

	date, ok := ExtractDate(content)
	if !ok || date != "March 14, 2025" {
		t.Errorf("expected 'March 14, 2025', got %q (ok=%v)", date, ok)
	}
	if got := CleanContent(content); got != "Hello world" {
		t.Errorf("expected 'Hello world', got %q", got)
	}
}

func TestEncode_NoDate(t *testing.T) {
	content := Encode("Hello world", "")
	if content != "Hello world" {
		t.Fatalf("expected 'Hello world', got %q", content)
	}
	if _, ok := ExtractDate(content); ok {
		t.Error("expected no date")
	}
	if got := CleanContent(content); got != "Hello world" {
		t.Errorf("expected 'Hello world', got %q", got)
	}
}

func TestEncode_TrimsBody(t *testing.T) {
	content := Encode("  \n Need a transcript \n\n", "2024-02-29")
	if !strings.HasPrefix(content, "Need a transcript\n\n") {
		t.Errorf("body not trimmed: %q", content)
	}
	if got := CleanContent(content); got != "Need a transcript" {
		t.Errorf("expected trimmed body, got %q", got)
	}
}

func TestEncode_InvalidDateTreatedAsAbsent(t *testing.T) {
	if got := Encode("body", "tomorrow"); got != "body" {
		t.Errorf("expected bare body, got %q", got)
	}
}

func TestEncode_EmptyBody(t *testing.T) {
	content := Encode("", "2025-12-01")
	if date, ok := ExtractDate(content); !ok || date != "December 1, 2025" {
		t.Errorf("expected 'December 1, 2025', got %q (ok=%v)", date, ok)
	}
	if got := CleanContent(content); got != "" {
		t.Errorf("expected empty body, got %q", got)
	}
}

func TestCodecInvariants(t *testing.T) {
	bodies := []string{"", "x", "Hello world", "line one\nline two", "  padded  ", "ends with blank line\n\n"}
	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

	for _, body := range bodies {
		for i := 0; i < 400; i += 37 {
			d := calendar.FromTime(start.AddDate(0, 0, i))
			content := Encode(body, d.String())

			if got := CleanContent(content); got != strings.TrimSpace(body) {
				t.Errorf("clean(encode(%q, %s)): got %q", body, d, got)
			}
			if got, ok := ExtractDate(content); !ok || got != d.Long() {
				t.Errorf("extract(encode(%q, %s)): got %q", body, d, got)
			}
		}
		if _, ok := ExtractDate(Encode(body, "")); ok {
			t.Errorf("extract(encode(%q, absent)) should be absent", body)
		}
	}
}

func TestCleanContent_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"plain body",
		"body\n\n" + Marker + " March 14, 2025",
		"body\n\n" + Marker + " March 14, 2025\n",
		"body\n\n" + Marker + " A\n\n" + Marker + " B",
		Marker + " March 14, 2025",
		"body\n\n" + Marker + " ",
		"body\n\n" + Marker + " March 14, 2025\ntrailing text",
		"\n\n" + Marker + " X",
	}

	for _, in := range inputs {
		once := CleanContent(in)
		if twice := CleanContent(once); twice != once {
			t.Errorf("CleanContent not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestCleanContent_OnlyTrailingSegment(t *testing.T) {
	content := "body\n\n" + Marker + " March 14, 2025\ntrailing text"
	if got := CleanContent(content); got != content {
		t.Errorf("non-trailing marker must stay, got %q", got)
	}
	// The extractor still finds it.
	if date, ok := ExtractDate(content); !ok || date != "March 14, 2025" {
		t.Errorf("expected date, got %q", date)
	}
}

func TestReencode_DoesNotDuplicateMarker(t *testing.T) {
	content := Encode("Passport renewal", "2025-03-14")
	content = Reencode(content, "2025-04-01")
	content = Reencode(content, "2025-04-02")

	if n := strings.Count(content, Marker); n != 1 {
		t.Fatalf("expected exactly one marker, got %d in %q", n, content)
	}
	if date, _ := ExtractDate(content); date != "April 2, 2025" {
		t.Errorf("expected 'April 2, 2025', got %q", date)
	}

	cleared := Reencode(content, "")
	if cleared != "Passport renewal" {
		t.Errorf("expected date removed, got %q", cleared)
	}
}

func TestDecode(t *testing.T) {
	d := Decode(Encode("Transcript request", "2025-03-14"))
	if !d.HasDate || !d.DateValid {
		t.Fatalf("expected a valid date, got %+v", d)
	}
	if d.Body != "Transcript request" {
		t.Errorf("unexpected body %q", d.Body)
	}
	if d.ISODate() != "2025-03-14" {
		t.Errorf("expected 2025-03-14, got %q", d.ISODate())
	}

	odd := Decode("body\n\n" + Marker + " sometime next week")
	if !odd.HasDate || odd.DateValid {
		t.Errorf("expected present but unparseable date, got %+v", odd)
	}
	if odd.DateText != "sometime next week" || odd.ISODate() != "" {
		t.Errorf("unexpected decode %+v", odd)
	}

	none := Decode("just text")
	if none.HasDate || none.Body != "just text" {
		t.Errorf("unexpected decode %+v", none)
	}
}

// A marker that went through a bad charset conversion no longer matches: the
// date reads as absent and the marker line leaks into the body.
func TestDecode_CorruptedMarkerLeaks(t *testing.T) {
	corrupted := "ðŸ“… Appointment Date:"
	content := "Hello world\n\n" + corrupted + " March 14, 2025"

	if _, ok := ExtractDate(content); ok {
		t.Error("corrupted marker must not be recognised")
	}
	if got := CleanContent(content); got != content {
		t.Errorf("expected content untouched, got %q", got)
	}
}

func TestKeepDate(t *testing.T) {
	content := "Enrollment\n\n" + Marker + " sometime next week"

	got := KeepDate(content, "  Enrollment and transcript \n")
	want := "Enrollment and transcript\n\n" + Marker + " sometime next week"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}

	// A body that still carries the line does not end up with two.
	if got := KeepDate(content, content); strings.Count(got, Marker) != 1 {
		t.Errorf("expected one marker, got %q", got)
	}

	if got := KeepDate("no date here", "new body"); got != "new body" {
		t.Errorf("expected body alone, got %q", got)
	}
}
