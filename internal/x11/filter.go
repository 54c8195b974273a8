package x11

import (
	"fmt"
	"strconv"
	"strings"
)

// FilterMode is the polarity of a Filter: include means only listed names
// pass, exclude means listed names are suppressed.
type FilterMode int

const (
	FilterInclude FilterMode = iota
	FilterExclude
)

// Filter is a (mode, set of names) pair. A name matches iff it is in the
// set XOR the mode is exclude, per spec.md §3.
type Filter struct {
	mode  FilterMode
	names map[string]bool
}

// NewFilter returns a Filter that passes everything (exclude mode, empty
// set).
func NewFilter() *Filter {
	return &Filter{mode: FilterExclude, names: make(map[string]bool)}
}

// Matches reports whether name should be emitted under this filter.
func (f *Filter) Matches(name string) bool {
	if f == nil {
		return true
	}
	in := f.names[name]
	return in != (f.mode == FilterExclude)
}

// ParseFilterTokens applies a whitespace-separated token list to an
// existing (requests, events) filter pair and returns the updated pair.
// Per spec.md §6:
//   - "all" clears the target set and inverts its polarity.
//   - a leading "!" on the token inverts the target's polarity.
//   - tokens prefixed "requests=" / "reqs=" / "events=" / "event=" select
//     which filter the remainder of that token modifies; otherwise the
//     requests filter is the default target.
func ParseFilterTokens(reqFilter, eventFilter *Filter, tokens string) (*Filter, *Filter, error) {
	if reqFilter == nil {
		reqFilter = NewFilter()
	}
	if eventFilter == nil {
		eventFilter = NewFilter()
	}

	for _, tok := range strings.Fields(tokens) {
		target := reqFilter
		rest := tok

		switch {
		case strings.HasPrefix(tok, "requests="):
			rest = strings.TrimPrefix(tok, "requests=")
		case strings.HasPrefix(tok, "reqs="):
			rest = strings.TrimPrefix(tok, "reqs=")
		case strings.HasPrefix(tok, "events="):
			target = eventFilter
			rest = strings.TrimPrefix(tok, "events=")
		case strings.HasPrefix(tok, "event="):
			target = eventFilter
			rest = strings.TrimPrefix(tok, "event=")
		}

		if rest == "" {
			continue
		}

		if rest == "all" {
			target.names = make(map[string]bool)
			target.mode = invert(target.mode)
			continue
		}

		if strings.HasPrefix(rest, "!") {
			target.mode = invert(target.mode)
			rest = strings.TrimPrefix(rest, "!")
			if rest == "" {
				continue
			}
		}

		for _, name := range strings.Split(rest, ",") {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			if name == "all" {
				target.names = make(map[string]bool)
				target.mode = invert(target.mode)
				continue
			}
			target.names[name] = true
		}
	}

	return reqFilter, eventFilter, nil
}

func invert(m FilterMode) FilterMode {
	if m == FilterInclude {
		return FilterExclude
	}
	return FilterInclude
}

// ParseSizeLimit parses the size-limit configuration token: a positive
// integer, or one of "unlimited"/"none"/"infinity" (aliased to 0).
func ParseSizeLimit(tok string) (int, error) {
	tok = strings.TrimSpace(strings.ToLower(tok))
	switch tok {
	case "unlimited", "none", "infinity", "":
		return 0, nil
	}
	n, err := parseNum(tok)
	if err != nil {
		return 0, fmt.Errorf("invalid size limit %q: %w", tok, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("invalid size limit %q: must not be negative", tok)
	}
	return n, nil
}

// parseNum parses a decimal or "0x"-prefixed hex integer, rejecting
// everything else outright. spec.md's Design Notes document the
// original's parse_num as having a dead error-reporting branch after an
// early return; this rewrite resolves that open question by rejecting any
// non-decimal, non-hex token explicitly rather than silently accepting it.
func parseNum(s string) (int, error) {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		n, err := strconv.ParseInt(s[2:], 16, 0)
		if err != nil {
			return 0, fmt.Errorf("not a valid hex number: %q", s)
		}
		return int(n), nil
	}
	n, err := strconv.ParseInt(s, 10, 0)
	if err != nil {
		return 0, fmt.Errorf("not a valid decimal number: %q", s)
	}
	return int(n), nil
}
