// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package route

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrInvalidPattern = errors.New("invalid route pattern")

type segmentKind int

const (
	literalSegment segmentKind = iota
	stringSegment
	intSegment
)

type segment struct {
	kind segmentKind
	text string // literal text, or the placeholder name
}

// Pattern is a compiled path template such as /polls/{pk:int}/choices/.
// Matching is anchored on both ends and the trailing slash is significant.
type Pattern struct {
	raw      string
	segments []segment
	trailing bool
}

// ParsePattern compiles a path template. Placeholders are written {name}
// for a string segment or {name:int} for a decimal integer segment.
func ParsePattern(raw string) (*Pattern, error) {
	if !strings.HasPrefix(raw, "/") {
		return nil, fmt.Errorf("%w: %q must start with /", ErrInvalidPattern, raw)
	}

	p := &Pattern{raw: raw}
	if raw == "/" {
		return p, nil
	}

	body := raw[1:]
	if strings.HasSuffix(body, "/") {
		p.trailing = true
		body = body[:len(body)-1]
	}

	seen := make(map[string]bool)
	for _, part := range strings.Split(body, "/") {
		if part == "" {
			return nil, fmt.Errorf("%w: %q has an empty segment", ErrInvalidPattern, raw)
		}

		if !strings.HasPrefix(part, "{") {
			if strings.ContainsAny(part, "{}") {
				return nil, fmt.Errorf("%w: %q has a malformed placeholder", ErrInvalidPattern, raw)
			}
			p.segments = append(p.segments, segment{kind: literalSegment, text: part})
			continue
		}

		if !strings.HasSuffix(part, "}") {
			return nil, fmt.Errorf("%w: %q has an unterminated placeholder", ErrInvalidPattern, raw)
		}

		name, typ, _ := strings.Cut(part[1:len(part)-1], ":")
		if !validParamName(name) {
			return nil, fmt.Errorf("%w: %q has an invalid placeholder name %q", ErrInvalidPattern, raw, name)
		}
		if seen[name] {
			return nil, fmt.Errorf("%w: %q repeats placeholder %q", ErrInvalidPattern, raw, name)
		}
		seen[name] = true

		switch typ {
		case "", "str":
			p.segments = append(p.segments, segment{kind: stringSegment, text: name})
		case "int":
			p.segments = append(p.segments, segment{kind: intSegment, text: name})
		default:
			return nil, fmt.Errorf("%w: %q has unknown placeholder type %q", ErrInvalidPattern, raw, typ)
		}
	}

	return p, nil
}

// String returns the template the pattern was compiled from.
func (p *Pattern) String() string {
	return p.raw
}

// Match reports whether path satisfies the pattern and returns the
// decoded placeholder values.
func (p *Pattern) Match(path string) (Params, bool) {
	if !strings.HasPrefix(path, "/") {
		return Params{}, false
	}
	if len(p.segments) == 0 {
		return Params{}, path == "/"
	}

	body := path[1:]
	if strings.HasSuffix(body, "/") != p.trailing {
		return Params{}, false
	}
	if p.trailing {
		body = body[:len(body)-1]
	}

	parts := strings.Split(body, "/")
	if len(parts) != len(p.segments) {
		return Params{}, false
	}

	var params Params
	for i, seg := range p.segments {
		part := parts[i]
		if part == "" {
			return Params{}, false
		}

		switch seg.kind {
		case literalSegment:
			if part != seg.text {
				return Params{}, false
			}
		case stringSegment:
			params.list = append(params.list, Param{Name: seg.text, Value: part})
		case intSegment:
			if !isDigits(part) {
				return Params{}, false
			}
			n, err := strconv.ParseInt(part, 10, 64)
			if err != nil {
				return Params{}, false
			}
			params.list = append(params.list, Param{Name: seg.text, Value: part, num: n, isInt: true})
		}
	}

	return params, true
}

func validParamName(name string) bool {
	if name == "" {
		return false
	}
	for i, c := range name {
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}
