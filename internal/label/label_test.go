package label

import "testing"

func TestHeader(t *testing.T) {
	cases := []struct {
		input    string
		expected string
	}{
		{"  Followers ", "Followers"},
		{"Ｆｏｌｌｏｗｅｒｓ", "Followers"},
		{"Platform", "Platform"},
		{"", ""},
		{"  ", ""},
	}

	for _, tc := range cases {
		got := Header(tc.input)
		if got != tc.expected {
			t.Fatalf("Header(%q) = %q, want %q", tc.input, got, tc.expected)
		}
	}
}

func TestValue(t *testing.T) {
	cases := []struct {
		input    string
		expected string
	}{
		{" YouTube ", "YouTube"},
		{"ＴｉｋＴｏｋ", "TikTok"},
		{"", ""},
		{"\t", ""},
	}

	for _, tc := range cases {
		got := Value(tc.input)
		if got != tc.expected {
			t.Fatalf("Value(%q) = %q, want %q", tc.input, got, tc.expected)
		}
	}
}
