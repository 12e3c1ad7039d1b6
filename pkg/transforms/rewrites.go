package transforms

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidRewrite = errors.New("invalid rewrite")

// RewriteRule maps source paths matching From onto To. Patterns are
// slash-separated; ":name" matches one segment and ":name*" (last segment
// only) matches zero or more. To may reference any parameter of From.
//
//	{From: "en/:dir/:rest*", To: ":dir/:rest*"}  en/guide/a.md -> guide/a.md
type RewriteRule struct {
	From string
	To   string
}

type segment struct {
	lit   string
	param string
	rest  bool
}

type rewrite struct {
	from []segment
	to   []segment
}

// Rewriter applies an ordered list of rewrite rules; the first match wins.
type Rewriter struct {
	rules []rewrite
}

// CompileRewrites parses rules into a Rewriter.
func CompileRewrites(rules []RewriteRule) (*Rewriter, error) {
	r := &Rewriter{rules: make([]rewrite, 0, len(rules))}

	for i, rule := range rules {
		from, err := parsePattern(rule.From)
		if err != nil {
			return nil, fmt.Errorf("%w: rule %d from %q: %w", ErrInvalidRewrite, i, rule.From, err)
		}
		to, err := parsePattern(rule.To)
		if err != nil {
			return nil, fmt.Errorf("%w: rule %d to %q: %w", ErrInvalidRewrite, i, rule.To, err)
		}

		params := make(map[string]bool)
		for j, seg := range from {
			if seg.param == "" {
				continue
			}
			if params[seg.param] {
				return nil, fmt.Errorf("%w: rule %d: duplicate parameter %q", ErrInvalidRewrite, i, seg.param)
			}
			if seg.rest && j != len(from)-1 {
				return nil, fmt.Errorf("%w: rule %d: %q must be the last segment", ErrInvalidRewrite, i, ":"+seg.param+"*")
			}
			params[seg.param] = true
		}
		for _, seg := range to {
			if seg.param != "" && !params[seg.param] {
				return nil, fmt.Errorf("%w: rule %d: unknown parameter %q", ErrInvalidRewrite, i, seg.param)
			}
		}

		r.rules = append(r.rules, rewrite{from: from, to: to})
	}

	return r, nil
}

func parsePattern(pattern string) ([]segment, error) {
	pattern = strings.Trim(strings.TrimSpace(pattern), "/")
	if pattern == "" {
		return nil, errors.New("empty pattern")
	}

	parts := strings.Split(pattern, "/")
	segs := make([]segment, len(parts))
	for i, part := range parts {
		if part == "" {
			return nil, errors.New("empty segment")
		}

		name, ok := strings.CutPrefix(part, ":")
		if !ok {
			segs[i] = segment{lit: part}
			continue
		}

		name, rest := strings.CutSuffix(name, "*")
		if !validParam(name) {
			return nil, fmt.Errorf("bad parameter name %q", part)
		}
		segs[i] = segment{param: name, rest: rest}
	}
	return segs, nil
}

func validParam(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		if !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return false
		}
	}
	return true
}

// Len returns the number of rules.
func (r *Rewriter) Len() int {
	if r == nil {
		return 0
	}
	return len(r.rules)
}

// Rewrite returns p rewritten by the first matching rule, or p itself.
func (r *Rewriter) Rewrite(p string) string {
	if r == nil {
		return p
	}

	parts := strings.Split(strings.Trim(p, "/"), "/")
	for _, rule := range r.rules {
		captures, ok := match(rule.from, parts)
		if !ok {
			continue
		}
		return expand(rule.to, captures)
	}
	return p
}

func match(pattern []segment, parts []string) (map[string]string, bool) {
	captures := make(map[string]string)

	for i, seg := range pattern {
		if seg.rest {
			captures[seg.param] = strings.Join(parts[i:], "/")
			return captures, true
		}
		if i >= len(parts) || parts[i] == "" {
			return nil, false
		}
		if seg.param != "" {
			captures[seg.param] = parts[i]
		} else if seg.lit != parts[i] {
			return nil, false
		}
	}

	return captures, len(parts) == len(pattern)
}

func expand(pattern []segment, captures map[string]string) string {
	out := make([]string, 0, len(pattern))
	for _, seg := range pattern {
		value := seg.lit
		if seg.param != "" {
			value = captures[seg.param]
		}
		if value != "" {
			out = append(out, value)
		}
	}
	return strings.Join(out, "/")
}
