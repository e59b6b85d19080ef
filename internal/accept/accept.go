// Package accept screens dragged items against an accept pattern.
//
// A pattern is a comma-separated list of rules. Each rule is one of:
//   - a file extension, ".png", matched case-insensitively against the item name
//   - a MIME wildcard, "image/*", matched against the item's top-level type
//   - an exact MIME type, "application/pdf"
//
// An empty pattern accepts everything.
package accept

import (
	"mime"
	"path/filepath"
	"strings"
)

// RuleKind identifies how a rule is matched
type RuleKind int

const (
	RuleExact RuleKind = iota
	RuleWildcard
	RuleExtension
)

func (k RuleKind) String() string {
	switch k {
	case RuleWildcard:
		return "wildcard"
	case RuleExtension:
		return "extension"
	default:
		return "exact"
	}
}

// Rule is a single normalized accept rule
type Rule struct {
	Kind  RuleKind
	Value string // lowercased; ".ext", "type" for wildcards, or "type/subtype"
}

// Item describes one dragged item. During drag-over hosts usually only
// know the Type; Name is filled in once files are realized at drop time.
type Item struct {
	Name string
	Type string
}

// Pattern is the parsed, immutable form of an accept string
type Pattern struct {
	raw   string
	rules []Rule
}

// Parse splits s into rules. Blank rules are ignored, so "image/*,," is the
// same as "image/*".
func Parse(s string) Pattern {
	p := Pattern{raw: s}
	for _, part := range strings.Split(s, ",") {
		v := strings.ToLower(strings.TrimSpace(part))
		if v == "" {
			continue
		}
		switch {
		case strings.HasPrefix(v, "."):
			p.rules = append(p.rules, Rule{Kind: RuleExtension, Value: v})
		case strings.HasSuffix(v, "/*"):
			p.rules = append(p.rules, Rule{Kind: RuleWildcard, Value: strings.TrimSuffix(v, "/*")})
		default:
			p.rules = append(p.rules, Rule{Kind: RuleExact, Value: v})
		}
	}
	return p
}

// String returns the pattern as it was given to Parse
func (p Pattern) String() string {
	return p.raw
}

// Empty reports whether the pattern has no rules and therefore accepts all items
func (p Pattern) Empty() bool {
	return len(p.rules) == 0
}

// Rules returns a copy of the parsed rules
func (p Pattern) Rules() []Rule {
	out := make([]Rule, len(p.rules))
	copy(out, p.rules)
	return out
}

// Accepts reports whether a single item satisfies at least one rule
func (p Pattern) Accepts(item Item) bool {
	if p.Empty() {
		return true
	}
	name := strings.ToLower(item.Name)
	typ := strings.ToLower(item.Type)
	base, _, _ := strings.Cut(typ, "/")

	for _, r := range p.rules {
		switch r.Kind {
		case RuleExtension:
			if strings.HasSuffix(name, r.Value) {
				return true
			}
		case RuleWildcard:
			if typ != "" && base == r.Value {
				return true
			}
		case RuleExact:
			if typ == r.Value {
				return true
			}
		}
	}
	return false
}

// Matches reports whether every item is accepted by p. An empty item list
// matches: some hosts report drag-over descriptors before types are known.
func Matches(items []Item, p Pattern) bool {
	if p.Empty() {
		return true
	}
	for _, it := range items {
		if !p.Accepts(it) {
			return false
		}
	}
	return true
}

// ItemForPath builds an Item from a file path, deriving Type from the
// extension's registered MIME type. Parameters such as charset are dropped.
func ItemForPath(path string) Item {
	name := filepath.Base(path)
	typ := mime.TypeByExtension(filepath.Ext(name))
	if mt, _, err := mime.ParseMediaType(typ); err == nil {
		typ = mt
	}
	return Item{Name: name, Type: typ}
}
