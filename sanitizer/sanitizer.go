// FILE: lixenwraith/logsink/sanitizer/sanitizer.go
// Package sanitizer cleans strings with rules pairing bitwise filter flags
// with a transform, grouped into named policies.
package sanitizer

import (
	"encoding/hex"
	"runtime"
	"strconv"
	"unicode"
	"unicode/utf8"
)

// Placeholder is the rune written by TransformReplace
const Placeholder = '_'

// Filter flags for character matching
const (
	FilterNonPrintable uint64 = 1 << iota // Matches runes not classified as printable by strconv.IsPrint
	FilterControl                         // Matches control characters (unicode.IsControl)
	FilterPathInvalid                     // Matches runes the host filesystem rejects inside a path
	FilterLineBreak                       // Matches '\r' and '\n'
)

// Transform flags for character transformation
const (
	TransformStrip     uint64 = 1 << iota // Removes the character
	TransformHexEncode                    // Encodes the character's UTF-8 bytes as "<XXYY>"
	TransformReplace                      // Replaces the character with Placeholder
)

// PolicyPreset defines pre-configured sanitization policies
type PolicyPreset string

const (
	PolicyRaw  PolicyPreset = "raw"  // Raw is a no-op (passthrough)
	PolicyPath PolicyPreset = "path" // Policy for directory paths taken from configuration
	PolicyLine PolicyPreset = "line" // Policy for single-line header values
)

// rule represents a single sanitization rule
type rule struct {
	filter    uint64
	transform uint64
}

// policyRules contains pre-configured rules for each policy
var policyRules = map[PolicyPreset][]rule{
	PolicyRaw:  {},
	PolicyPath: {{filter: FilterPathInvalid | FilterControl, transform: TransformReplace}},
	PolicyLine: {{filter: FilterLineBreak, transform: TransformReplace}, {filter: FilterNonPrintable, transform: TransformHexEncode}},
}

// filterCheckers maps individual filter flags to their check functions
var filterCheckers = map[uint64]func(rune) bool{
	FilterNonPrintable: func(r rune) bool { return !strconv.IsPrint(r) },
	FilterControl:      unicode.IsControl,
	FilterPathInvalid:  isPathInvalid,
	FilterLineBreak:    func(r rune) bool { return r == '\r' || r == '\n' },
}

// isPathInvalid reports runes rejected by the host path grammar.
// NUL is invalid everywhere; Windows additionally rejects a fixed set.
func isPathInvalid(r rune) bool {
	if r == 0 || r == utf8.RuneError {
		return true
	}
	if runtime.GOOS == "windows" {
		switch r {
		case '<', '>', '"', '|', '?', '*':
			return true
		}
	}
	return false
}

// Sanitizer provides chainable text sanitization
type Sanitizer struct {
	rules []rule
	buf   []byte
}

// New creates a new Sanitizer instance
func New() *Sanitizer {
	return &Sanitizer{
		rules: []rule{},
		buf:   make([]byte, 0, 256),
	}
}

// Rule adds a custom rule to the sanitizer (appended, earliest rule applies first)
func (s *Sanitizer) Rule(filter uint64, transform uint64) *Sanitizer {
	s.rules = append(s.rules, rule{filter: filter, transform: transform})
	return s
}

// Policy applies a pre-configured policy to the sanitizer (appended)
func (s *Sanitizer) Policy(preset PolicyPreset) *Sanitizer {
	if rules, ok := policyRules[preset]; ok {
		s.rules = append(s.rules, rules...)
	}
	return s
}

// Sanitize applies all configured rules to the input string.
// A Sanitizer reuses its buffer and must not be shared between goroutines.
func (s *Sanitizer) Sanitize(data string) string {
	s.buf = s.buf[:0]

	for _, r := range data {
		matched := false
		// First match wins
		for _, rl := range s.rules {
			if matchesFilter(r, rl.filter) {
				applyTransform(&s.buf, r, rl.transform)
				matched = true
				break
			}
		}
		if !matched {
			s.buf = utf8.AppendRune(s.buf, r)
		}
	}

	return string(s.buf)
}

// Changed reports whether Sanitize would alter data
func (s *Sanitizer) Changed(data string) bool {
	for _, r := range data {
		for _, rl := range s.rules {
			if matchesFilter(r, rl.filter) {
				return true
			}
		}
	}
	return false
}

// matchesFilter checks if a rune matches any filter in the mask
func matchesFilter(r rune, filterMask uint64) bool {
	for flag, checker := range filterCheckers {
		if (filterMask&flag) != 0 && checker(r) {
			return true
		}
	}
	return false
}

// applyTransform applies the specified transform to the buffer
func applyTransform(buf *[]byte, r rune, transformMask uint64) {
	switch {
	case (transformMask & TransformStrip) != 0:
		// Do nothing (strip)

	case (transformMask & TransformReplace) != 0:
		*buf = append(*buf, Placeholder)

	case (transformMask & TransformHexEncode) != 0:
		var runeBytes [utf8.UTFMax]byte
		n := utf8.EncodeRune(runeBytes[:], r)
		*buf = append(*buf, '<')
		*buf = append(*buf, hex.EncodeToString(runeBytes[:n])...)
		*buf = append(*buf, '>')
	}
}
