package ffprobe

import (
	"testing"
)

func TestResultHelpers(t *testing.T) {
	result := Result{
		Streams: []Stream{
			{CodecType: "audio"},
			{CodecType: "audio"},
		},
		Format: Format{
			Duration: "123.45",
			Size:     "1000",
			BitRate:  "32000",
		},
	}
	if result.AudioStreamCount() != 2 {
		t.Fatalf("expected 2 audio streams, got %d", result.AudioStreamCount())
	}
	if result.DurationSeconds() != 123.45 {
		t.Fatalf("unexpected duration: %v", result.DurationSeconds())
	}
	if result.SizeBytes() != 1000 {
		t.Fatalf("unexpected size: %d", result.SizeBytes())
	}
	if result.BitRate() != 32000 {
		t.Fatalf("unexpected bitrate: %d", result.BitRate())
	}
}

func TestResultHelpersHandleInvalidNumbers(t *testing.T) {
	result := Result{
		Format: Format{
			Duration: "bad",
			Size:     "-1",
			BitRate:  "nope",
		},
	}
	if result.DurationSeconds() != 0 {
		t.Fatalf("expected duration 0, got %v", result.DurationSeconds())
	}
	if result.SizeBytes() != 0 {
		t.Fatalf("expected size 0, got %d", result.SizeBytes())
	}
	if result.BitRate() != 0 {
		t.Fatalf("expected bitrate 0, got %d", result.BitRate())
	}
}

func TestParseChaptersAndTags(t *testing.T) {
	payload := []byte(`{
		"format": {
			"filename": "part1.m4b",
			"duration": "3600.500000",
			"tags": {"title": "Part One", "album": "My Book", "track": "1/3", "disc": "2"}
		},
		"chapters": [
			{"id": 0, "time_base": "1/1000", "start_time": "0.000000", "end_time": "1800.250000", "tags": {"title": "Chapter 1"}},
			{"id": 1, "time_base": "1/1000", "start_time": "1800.250000", "end_time": "3600.500000", "tags": {"title": "Chapter 2"}}
		]
	}`)

	result, err := Parse(payload)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if result.Format.Tags.Title != "Part One" {
		t.Fatalf("title = %q", result.Format.Tags.Title)
	}
	if result.Format.Tags.TrackNumber() != 1 {
		t.Fatalf("track = %d, want 1", result.Format.Tags.TrackNumber())
	}
	if result.Format.Tags.DiscNumber() != 2 {
		t.Fatalf("disc = %d, want 2", result.Format.Tags.DiscNumber())
	}
	if len(result.Chapters) != 2 {
		t.Fatalf("chapter count = %d", len(result.Chapters))
	}
	start, end := result.Chapters[1].Span()
	if start != 1800.25 || end != 3600.5 {
		t.Fatalf("span = (%v, %v)", start, end)
	}
	if result.Chapters[0].Tags.Title != "Chapter 1" {
		t.Fatalf("chapter title = %q", result.Chapters[0].Tags.Title)
	}
}

func TestParseRejectsMalformedJSON(t *testing.T) {
	if _, err := Parse([]byte("{not json")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLeadingInt(t *testing.T) {
	cases := map[string]int{
		"3":    3,
		"03":   3,
		"3/12": 3,
		"":     0,
		"abc":  0,
	}
	for input, want := range cases {
		if got := leadingInt(input); got != want {
			t.Errorf("leadingInt(%q) = %d, want %d", input, got, want)
		}
	}
}
