package synth

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Platform is a parsed platform predicate: either a plain target triple
// ("x86_64-pc-windows-msvc") or a cfg expression ("cfg(all(unix, not(target_os = \"macos\")))").
type Platform struct {
	raw  string
	expr Expr // nil for plain target triples
}

// String returns the predicate in its original textual form.
func (p *Platform) String() string { return p.raw }

// IsCfg reports whether the predicate is a cfg expression rather than a
// target triple.
func (p *Platform) IsCfg() bool { return p.expr != nil }

// Expr returns the root of the cfg expression tree, or nil for triples.
func (p *Platform) Expr() Expr { return p.expr }

// MarshalJSON encodes the predicate as its source string.
func (p *Platform) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.raw)
}

// UnmarshalJSON parses the predicate from its source string.
func (p *Platform) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParsePlatform(raw)
	if err != nil {
		return err
	}
	*p = *parsed
	return nil
}

// Expr is one node of a cfg expression tree.
type Expr interface {
	String() string
}

// AllExpr is satisfied when every child is satisfied.
type AllExpr struct{ Exprs []Expr }

// AnyExpr is satisfied when at least one child is satisfied.
type AnyExpr struct{ Exprs []Expr }

// NotExpr negates its single child.
type NotExpr struct{ Expr Expr }

// Pred is a leaf predicate: a bare key ("unix") or a key/value pair
// (`target_os = "linux"`).
type Pred struct {
	Key      string
	Value    string
	HasValue bool
}

func (e *AllExpr) String() string { return "all(" + joinExprs(e.Exprs) + ")" }
func (e *AnyExpr) String() string { return "any(" + joinExprs(e.Exprs) + ")" }
func (e *NotExpr) String() string { return "not(" + e.Expr.String() + ")" }
func (e *Pred) String() string {
	if e.HasValue {
		return fmt.Sprintf("%s = %q", e.Key, e.Value)
	}
	return e.Key
}

func joinExprs(exprs []Expr) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = e.String()
	}
	return strings.Join(parts, ", ")
}

// ParsePlatform parses a dependency's platform predicate.
//
// Accepted forms are the ones registries publish: a target triple, or
// "cfg(EXPR)" where EXPR is built from bare keys, key = "value" pairs, and
// the all(...), any(...), not(...) combinators.
func ParsePlatform(s string) (*Platform, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil, fmt.Errorf("empty platform predicate")
	}

	if inner, ok := strings.CutPrefix(trimmed, "cfg("); ok {
		inner, ok = strings.CutSuffix(inner, ")")
		if !ok {
			return nil, fmt.Errorf("unterminated cfg expression %q", s)
		}
		p := &exprParser{input: inner}
		expr, err := p.parse()
		if err != nil {
			return nil, fmt.Errorf("cfg expression %q: %w", s, err)
		}
		return &Platform{raw: trimmed, expr: expr}, nil
	}

	if err := validateTriple(trimmed); err != nil {
		return nil, err
	}
	return &Platform{raw: trimmed}, nil
}

// validateTriple accepts target triple spellings: dash-separated components of
// letters, digits, underscores and dots, at least two components.
func validateTriple(s string) error {
	parts := strings.Split(s, "-")
	if len(parts) < 2 {
		return fmt.Errorf("invalid target triple %q", s)
	}
	for _, part := range parts {
		if part == "" {
			return fmt.Errorf("invalid target triple %q", s)
		}
		for _, r := range part {
			if !isIdentRune(r) && r != '.' {
				return fmt.Errorf("invalid target triple %q", s)
			}
		}
	}
	return nil
}

func isIdentRune(r rune) bool {
	return r == '_' ||
		(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// exprParser is a recursive-descent parser over a cfg expression body.
type exprParser struct {
	input string
	pos   int
}

// parse parses a complete expression and requires all input to be consumed.
func (p *exprParser) parse() (Expr, error) {
	expr, err := p.expr()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.input) {
		return nil, fmt.Errorf("trailing input at offset %d", p.pos)
	}
	return expr, nil
}

func (p *exprParser) expr() (Expr, error) {
	ident, err := p.ident()
	if err != nil {
		return nil, err
	}

	p.skipSpace()
	switch {
	case p.peek() == '(':
		return p.combinator(ident)
	case p.peek() == '=':
		p.pos++
		p.skipSpace()
		value, err := p.stringLit()
		if err != nil {
			return nil, err
		}
		return &Pred{Key: ident, Value: value, HasValue: true}, nil
	default:
		return &Pred{Key: ident}, nil
	}
}

func (p *exprParser) combinator(name string) (Expr, error) {
	p.pos++ // consume '('
	var children []Expr
	for {
		p.skipSpace()
		if p.peek() == ')' {
			p.pos++
			break
		}
		child, err := p.expr()
		if err != nil {
			return nil, err
		}
		children = append(children, child)

		p.skipSpace()
		switch p.peek() {
		case ',':
			p.pos++
		case ')':
			p.pos++
		default:
			return nil, fmt.Errorf("expected ',' or ')' at offset %d", p.pos)
		}
		if p.input[p.pos-1] == ')' {
			break
		}
	}

	switch name {
	case "all":
		return &AllExpr{Exprs: children}, nil
	case "any":
		return &AnyExpr{Exprs: children}, nil
	case "not":
		if len(children) != 1 {
			return nil, fmt.Errorf("not() takes exactly one argument, got %d", len(children))
		}
		return &NotExpr{Expr: children[0]}, nil
	default:
		return nil, fmt.Errorf("unknown combinator %q", name)
	}
}

func (p *exprParser) ident() (string, error) {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.input) && isIdentRune(rune(p.input[p.pos])) {
		p.pos++
	}
	if p.pos == start {
		return "", fmt.Errorf("expected identifier at offset %d", start)
	}
	return p.input[start:p.pos], nil
}

func (p *exprParser) stringLit() (string, error) {
	if p.peek() != '"' {
		return "", fmt.Errorf("expected string literal at offset %d", p.pos)
	}
	p.pos++
	start := p.pos
	for p.pos < len(p.input) && p.input[p.pos] != '"' {
		p.pos++
	}
	if p.pos == len(p.input) {
		return "", fmt.Errorf("unterminated string literal at offset %d", start)
	}
	value := p.input[start:p.pos]
	p.pos++
	return value, nil
}

func (p *exprParser) skipSpace() {
	for p.pos < len(p.input) && (p.input[p.pos] == ' ' || p.input[p.pos] == '\t') {
		p.pos++
	}
}

// peek returns the next byte or 0 at end of input.
func (p *exprParser) peek() byte {
	if p.pos < len(p.input) {
		return p.input[p.pos]
	}
	return 0
}
