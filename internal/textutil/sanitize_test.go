package textutil

import "testing"

func TestSanitizeFileName(t *testing.T) {
	cases := map[string]string{
		"My Book":            "My Book",
		" padded ":           "padded",
		"Disc 1/Part 2":      "Disc 1-Part 2",
		`He said: "run?"`:    "He said- run",
		"a<b>c|d*e":          "abcd-e",
		"":                   "",
		`C:\Books\audiobook`: "C--Books-audiobook",
	}
	for input, want := range cases {
		if got := SanitizeFileName(input); got != want {
			t.Errorf("SanitizeFileName(%q) = %q, want %q", input, got, want)
		}
	}
}
