package classifier

import "testing"

func TestIsSmallFormattingCommand(t *testing.T) {
	cases := []struct {
		name string
		seg  []string
		want bool
	}{
		{"wc always dropped", []string{"wc", "-l"}, true},
		{"sort always dropped", []string{"sort"}, true},
		{"head without file", []string{"head", "-5"}, true},
		{"head with file", []string{"head", "-5", "a.txt"}, false},
		{"tail with -n file", []string{"tail", "-n", "20", "a.txt"}, false},
		{"sed without file", []string{"sed", "s/a/b/"}, true},
		{"sed n-range-p read form", []string{"sed", "-n", "1,10p", "a.txt"}, false},
		{"sed with script and file", []string{"sed", "-e", "s/a/b/", "a.txt"}, false},
		{"unrelated command", []string{"cargo", "test"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := isSmallFormattingCommand(tc.seg); got != tc.want {
				t.Errorf("isSmallFormattingCommand(%v) = %v, want %v", tc.seg, got, tc.want)
			}
		})
	}
}

func TestShortenPath(t *testing.T) {
	cases := map[string]string{
		"src/internal/session": "session",
		"a/b/src":              "b",
		"node_modules":         "node_modules",
		"build/dist/node_modules": "node_modules",
	}
	for in, want := range cases {
		if got := shortenPath(in); got != want {
			t.Errorf("shortenPath(%q) = %q, want %q", in, got, want)
		}
	}
}
