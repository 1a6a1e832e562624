package codetext

import (
	"strings"
	"testing"
)

func TestParseLine(t *testing.T) {
	testCases := []struct {
		name    string
		line    string
		want    Code
		wantErr bool
	}{
		{"plain", "9029E046 0C0B95F6", Code{0x9029E046, 0x0C0B95F6}, false},
		{"lower case", "beefc0de 00000000", Code{0xBEEFC0DE, 0}, false},
		{"tab separated", "2043AFCC\t2411FFFF", Code{0x2043AFCC, 0x2411FFFF}, false},
		{"one word", "9029E046", Code{}, true},
		{"three words", "9029E046 0C0B95F6 FF", Code{}, true},
		{"short word", "9029E04 0C0B95F6", Code{}, true},
		{"long word", "9029E0467 0C0B95F6", Code{}, true},
		{"not hex", "9029E04G 0C0B95F6", Code{}, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseLine(tc.line)
			if (err != nil) != tc.wantErr {
				t.Fatalf("ParseLine(%q) error = %v, wantErr %v", tc.line, err, tc.wantErr)
			}
			if !tc.wantErr && got != tc.want {
				t.Errorf("ParseLine(%q) = %v, want %v", tc.line, got, tc.want)
			}
		})
	}
}

func TestParseList(t *testing.T) {
	text := `
// Infinite health
9029E046 0C0B95F6

2043AFCC 2411FFFF
`
	codes, err := ParseList(text)
	if err != nil {
		t.Fatalf("ParseList: %v", err)
	}
	want := []Code{{0x9029E046, 0x0C0B95F6}, {0x2043AFCC, 0x2411FFFF}}
	if len(codes) != len(want) {
		t.Fatalf("got %d codes, want %d", len(codes), len(want))
	}
	for i := range want {
		if codes[i] != want[i] {
			t.Errorf("code %d = %v, want %v", i, codes[i], want[i])
		}
	}
}

func TestParseListReportsLineNumber(t *testing.T) {
	_, err := ParseList("9029E046 0C0B95F6\nbogus line here\n")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "line 2") {
		t.Errorf("error %q does not name line 2", err)
	}
}

func TestFormatList(t *testing.T) {
	codes := []Code{{0xBEEFC0DE, 0}, {0x2043AFCC, 0x2411FFFF}}
	got := FormatList(codes)
	want := "BEEFC0DE 00000000\n2043AFCC 2411FFFF\n"
	if got != want {
		t.Errorf("FormatList = %q, want %q", got, want)
	}

	if FormatList(nil) != "" {
		t.Error("FormatList(nil) should be empty")
	}
}

func TestParseFormatRoundTrip(t *testing.T) {
	want := "B4336FA9 4DFEFB79\n973E0B2A A7D4AF10\n"
	codes, err := ParseList(want)
	if err != nil {
		t.Fatalf("ParseList: %v", err)
	}
	if got := FormatList(codes); got != want {
		t.Errorf("round trip = %q, want %q", got, want)
	}
}
