package callbacks

import "testing"

func TestParseData(t *testing.T) {
	cases := []struct {
		raw, key, payload string
	}{
		{"main_menu", "main_menu", ""},
		{"\fguess_number", "guess_number", ""},
		{`\fpage|2`, "page", "2"},
		{"\fitem| a|b", "item", " a|b"},
		{"", "", ""},
	}
	for _, tc := range cases {
		key, payload := ParseData(tc.raw)
		if key != tc.key || payload != tc.payload {
			t.Errorf("ParseData(%q) = %q, %q; want %q, %q", tc.raw, key, payload, tc.key, tc.payload)
		}
		if got := Data(key, payload); tc.payload == "" && got != tc.key {
			t.Errorf("Data(%q, %q) = %q", key, payload, got)
		}
	}
}
