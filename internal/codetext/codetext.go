// Package codetext reads and writes cheat codes in their published text
// form: one code per line, address and value as eight upper-case hex digits
// separated by whitespace. Parsing is tolerant of blank lines and //
// comments; it does no decoding of any kind.
package codetext

import (
	"fmt"
	"strconv"
	"strings"
)

// Code is one physical code line: an address word and a value word.
type Code struct {
	Addr uint32 `json:"addr"`
	Val  uint32 `json:"val"`
}

// String formats the code the way code lists publish it.
func (c Code) String() string {
	return fmt.Sprintf("%08X %08X", c.Addr, c.Val)
}

// ParseLine parses a single "XXXXXXXX YYYYYYYY" line.
func ParseLine(line string) (Code, error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return Code{}, fmt.Errorf("expected two words, got %d", len(fields))
	}

	addr, err := parseWord(fields[0])
	if err != nil {
		return Code{}, fmt.Errorf("address %q: %w", fields[0], err)
	}
	val, err := parseWord(fields[1])
	if err != nil {
		return Code{}, fmt.Errorf("value %q: %w", fields[1], err)
	}
	return Code{Addr: addr, Val: val}, nil
}

// ParseList parses a whole code list. Blank lines and lines starting with //
// are skipped; anything else must parse, and errors carry the 1-based line
// number.
func ParseList(text string) ([]Code, error) {
	var codes []Code
	for i, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "//") {
			continue
		}
		code, err := ParseLine(trimmed)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		codes = append(codes, code)
	}
	return codes, nil
}

// FormatList renders codes one per line, newline-terminated when non-empty.
func FormatList(codes []Code) string {
	if len(codes) == 0 {
		return ""
	}
	var b strings.Builder
	for _, code := range codes {
		b.WriteString(code.String())
		b.WriteByte('\n')
	}
	return b.String()
}

func parseWord(s string) (uint32, error) {
	if len(s) != 8 {
		return 0, fmt.Errorf("want 8 hex digits, got %d", len(s))
	}
	word, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("not hex: %w", err)
	}
	return uint32(word), nil
}
