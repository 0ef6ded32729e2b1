package sheets

import "testing"

func TestParseRef(t *testing.T) {
	cases := []struct {
		name     string
		raw      string
		expected Ref
	}{
		{"title", "AI Influencer Tracker sheet", Ref{Title: "AI Influencer Tracker sheet"}},
		{"title_trimmed", "  Tracker  ", Ref{Title: "Tracker"}},
		{"edit_url", "https://docs.google.com/spreadsheets/d/1AbC-xyz_9/edit#gid=0", Ref{ID: "1AbC-xyz_9"}},
		{"user_scoped_url", "https://docs.google.com/spreadsheets/u/1/d/abc123/view", Ref{ID: "abc123"}},
		{"id_literal", "id: abc123", Ref{ID: "abc123"}},
		{"other_url_is_title", "https://example.com/sheet", Ref{Title: "https://example.com/sheet"}},
	}

	for _, tc := range cases {
		got := ParseRef(tc.raw)
		if got != tc.expected {
			t.Fatalf("%s: got %+v want %+v", tc.name, got, tc.expected)
		}
	}
}

func TestCSVExportURL(t *testing.T) {
	got := CSVExportURL("abc123", 42)
	want := "https://docs.google.com/spreadsheets/d/abc123/export?format=csv&gid=42"
	if got != want {
		t.Fatalf("got %s want %s", got, want)
	}
}
