package jsonschema

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strings"

	"github.com/MacroPower/xsd2json/pkg/xsd"
	"github.com/MacroPower/xsd2json/pkg/xsderrors"
)

// applyFacets narrows s, the resolved base of a restriction, with f.
func (r *Resolver) applyFacets(s *Schema, f *xsd.Facets, where string) error {
	if f.IsZero() {
		return nil
	}

	typ := s.Type

	if len(f.Enumeration) > 0 {
		s.Enum = make([]any, 0, len(f.Enumeration))
		for _, v := range f.Enumeration {
			s.Enum = append(s.Enum, typedValue(v, typ))
		}
	}

	if len(f.Patterns) > 0 {
		switch typ {
		case "integer", "number", "boolean", "array":
			r.note(NoteConversion, where, "pattern on %s type dropped", typ)
		default:
			if s.Pattern != "" {
				s.AllOf = append(s.AllOf, &Schema{Pattern: s.Pattern})
			}

			s.Pattern = combinePatterns(f.Patterns)
		}
	}

	if err := r.applyBounds(s, f, where); err != nil {
		return err
	}

	if err := r.applyLengths(s, f, where); err != nil {
		return err
	}

	if err := r.applyDigits(s, f, where); err != nil {
		return err
	}

	// Inherited bounds are merged above; the combined range may still be empty.
	if err := checkRange(s, where); err != nil {
		return err
	}

	if f.WhiteSpace != "" && f.WhiteSpace != "preserve" {
		r.note(NoteConversion, where, "whiteSpace=%q has no JSON Schema equivalent and was dropped", f.WhiteSpace)
	}

	return nil
}

type bound struct {
	value     *big.Rat
	facet     string
	exclusive bool
	lower     bool
}

func (r *Resolver) applyBounds(s *Schema, f *xsd.Facets, where string) error {
	var bounds []bound

	for _, b := range []struct {
		lex       string
		facet     string
		exclusive bool
		lower     bool
	}{
		{f.MinInclusive, "minInclusive", false, true},
		{f.MinExclusive, "minExclusive", true, true},
		{f.MaxInclusive, "maxInclusive", false, false},
		{f.MaxExclusive, "maxExclusive", true, false},
	} {
		if b.lex == "" {
			continue
		}

		if s.Type != "integer" && s.Type != "number" {
			r.note(NoteConversion, where, "%s on non-numeric type dropped", b.facet)
			continue
		}

		v, ok := parseDecimal(b.lex)
		if !ok {
			return &xsderrors.FacetConflictError{
				Type:   where,
				Facets: [2]string{b.facet, "base type"},
				Detail: fmt.Sprintf("%q is not a %s", b.lex, s.Type),
			}
		}

		bounds = append(bounds, bound{value: v, facet: b.facet, exclusive: b.exclusive, lower: b.lower})
	}

	for i, a := range bounds {
		for _, b := range bounds[i+1:] {
			if a.lower == b.lower {
				return &xsderrors.FacetConflictError{
					Type:   where,
					Facets: [2]string{a.facet, b.facet},
					Detail: "both bound the same side",
				}
			}

			lo, hi := a, b
			if !a.lower {
				lo, hi = b, a
			}

			c := lo.value.Cmp(hi.value)
			if c > 0 || (c == 0 && (lo.exclusive || hi.exclusive)) {
				return &xsderrors.FacetConflictError{
					Type:   where,
					Facets: [2]string{lo.facet, hi.facet},
					Detail: fmt.Sprintf("%s leaves no valid values below %s", formatRat(lo.value), formatRat(hi.value)),
				}
			}
		}
	}

	for _, b := range bounds {
		v := formatRat(b.value)

		switch {
		case !b.exclusive && b.lower:
			if next := tighter(s.Minimum, b.value, true); next != s.Minimum {
				s.Minimum = next
				delete(s.Extras, "exclusiveMinimum")
			}
		case !b.exclusive && !b.lower:
			if next := tighter(s.Maximum, b.value, false); next != s.Maximum {
				s.Maximum = next
				delete(s.Extras, "exclusiveMaximum")
			}
		case r.opts.Draft.BooleanExclusiveBounds():
			if b.lower && tighter(s.Minimum, b.value, true) == v {
				s.Minimum = v
				setExtra(s, "exclusiveMinimum", true)
			} else if !b.lower && tighter(s.Maximum, b.value, false) == v {
				s.Maximum = v
				setExtra(s, "exclusiveMaximum", true)
			}
		case b.lower:
			s.ExclusiveMinimum = tighter(s.ExclusiveMinimum, b.value, true)
		default:
			s.ExclusiveMaximum = tighter(s.ExclusiveMaximum, b.value, false)
		}
	}

	return nil
}

func (r *Resolver) applyLengths(s *Schema, f *xsd.Facets, where string) error {
	if f.Length == nil && f.MinLength == nil && f.MaxLength == nil {
		return nil
	}

	if s.Type == "integer" || s.Type == "number" || s.Type == "boolean" {
		r.note(NoteConversion, where, "length facets on %s type dropped", s.Type)
		return nil
	}

	conflict := func(a, b string, x, y int) error {
		return &xsderrors.FacetConflictError{
			Type:   where,
			Facets: [2]string{a, b},
			Detail: fmt.Sprintf("%d > %d", x, y),
		}
	}

	minLen, maxLen := f.MinLength, f.MaxLength

	if f.Length != nil {
		if minLen != nil && *minLen > *f.Length {
			return conflict("minLength", "length", *minLen, *f.Length)
		}

		if maxLen != nil && *f.Length > *maxLen {
			return conflict("length", "maxLength", *f.Length, *maxLen)
		}

		minLen, maxLen = f.Length, f.Length
	}

	if minLen != nil && maxLen != nil && *minLen > *maxLen {
		return conflict("minLength", "maxLength", *minLen, *maxLen)
	}

	lo, hi := &s.MinLength, &s.MaxLength
	if s.Type == "array" {
		lo, hi = &s.MinItems, &s.MaxItems
	}

	tightenCount(lo, minLen, true)
	tightenCount(hi, maxLen, false)

	if *lo != nil && *hi != nil && **lo > **hi {
		return &xsderrors.FacetConflictError{
			Type:   where,
			Facets: [2]string{"minLength", "maxLength"},
			Detail: fmt.Sprintf("%d > %d with inherited lengths", **lo, **hi),
		}
	}

	return nil
}

func (r *Resolver) applyDigits(s *Schema, f *xsd.Facets, where string) error {
	if f.TotalDigits == nil && f.FractionDigits == nil {
		return nil
	}

	if s.Type != "integer" && s.Type != "number" {
		r.note(NoteConversion, where, "digit facets on non-numeric type dropped")
		return nil
	}

	fraction := 0
	if f.FractionDigits != nil && s.Type == "number" {
		fraction = *f.FractionDigits
		s.MultipleOf = formatRat(new(big.Rat).SetFrac(big.NewInt(1), pow10(fraction)))
	}

	if f.TotalDigits == nil {
		return nil
	}

	if *f.TotalDigits < fraction {
		return &xsderrors.FacetConflictError{
			Type:   where,
			Facets: [2]string{"fractionDigits", "totalDigits"},
			Detail: fmt.Sprintf("%d > %d", fraction, *f.TotalDigits),
		}
	}

	// The largest value with totalDigits digits, fraction of them after the
	// point: 10^(total-fraction) - 10^-fraction.
	limit := new(big.Rat).SetInt(pow10(*f.TotalDigits - fraction))
	limit.Sub(limit, new(big.Rat).SetFrac(big.NewInt(1), pow10(fraction)))

	s.Maximum = tighter(s.Maximum, limit, false)
	s.Minimum = tighter(s.Minimum, new(big.Rat).Neg(limit), true)

	r.note(NoteConversion, where, "totalDigits=%d approximated by value bounds", *f.TotalDigits)

	return nil
}

// tighter returns whichever of cur and v is the tighter bound.
func tighter(cur json.Number, v *big.Rat, lower bool) json.Number {
	if cur != "" {
		if c, ok := parseDecimal(cur.String()); ok {
			cmp := v.Cmp(c)
			if (lower && cmp <= 0) || (!lower && cmp >= 0) {
				return cur
			}
		}
	}

	return formatRat(v)
}

// tightenCount sets dst to v unless dst already holds the tighter count.
func tightenCount(dst **uint64, v *int, lower bool) {
	if v == nil {
		return
	}

	n := uint64(*v)
	if cur := *dst; cur != nil && ((lower && *cur >= n) || (!lower && *cur <= n)) {
		return
	}

	*dst = &n
}

// effectiveBound returns the tighter of the inclusive and exclusive bounds on
// one side of s, or false when that side is open.
func effectiveBound(s *Schema, lower bool) (bound, bool) {
	inclusive, exclusive := s.Maximum, s.ExclusiveMaximum
	facet, exclusiveFacet, boolKey := "maxInclusive", "maxExclusive", "exclusiveMaximum"

	if lower {
		inclusive, exclusive = s.Minimum, s.ExclusiveMinimum
		facet, exclusiveFacet, boolKey = "minInclusive", "minExclusive", "exclusiveMinimum"
	}

	var (
		out bound
		ok  bool
	)

	if v, parsed := parseDecimal(inclusive.String()); parsed {
		out = bound{value: v, facet: facet, lower: lower}
		if flag, _ := s.Extras[boolKey].(bool); flag {
			out.facet, out.exclusive = exclusiveFacet, true
		}

		ok = true
	}

	if v, parsed := parseDecimal(exclusive.String()); parsed {
		c := 0
		if ok {
			c = v.Cmp(out.value)
		}

		if !ok || c == 0 || (lower && c > 0) || (!lower && c < 0) {
			out = bound{value: v, facet: exclusiveFacet, exclusive: true, lower: lower}
		}

		ok = true
	}

	return out, ok
}

// checkRange reports bounds that admit no value.
func checkRange(s *Schema, where string) error {
	lo, okLo := effectiveBound(s, true)
	hi, okHi := effectiveBound(s, false)

	if !okLo || !okHi {
		return nil
	}

	c := lo.value.Cmp(hi.value)
	if c < 0 || (c == 0 && !lo.exclusive && !hi.exclusive) {
		return nil
	}

	return &xsderrors.FacetConflictError{
		Type:   where,
		Facets: [2]string{lo.facet, hi.facet},
		Detail: fmt.Sprintf("%s leaves no valid values below %s with inherited bounds", formatRat(lo.value), formatRat(hi.value)),
	}
}

func setExtra(s *Schema, key string, v any) {
	if s.Extras == nil {
		s.Extras = map[string]any{}
	}

	s.Extras[key] = v
}

func pow10(n int) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
}

// parseDecimal parses an XSD decimal, integer, float or double literal. The
// special float values INF, -INF and NaN are rejected.
func parseDecimal(lex string) (*big.Rat, bool) {
	lex = strings.TrimSpace(lex)
	if lex == "" {
		return nil, false
	}

	sign := ""
	if lex[0] == '+' || lex[0] == '-' {
		sign, lex = lex[:1], lex[1:]
	}

	if strings.HasPrefix(lex, ".") {
		lex = "0" + lex
	}

	if mant, exp, ok := strings.Cut(strings.ToLower(lex), "e"); ok {
		mant = strings.TrimSuffix(mant, ".")
		lex = mant + "e" + exp
	} else {
		lex = strings.TrimSuffix(lex, ".")
	}

	v, ok := new(big.Rat).SetString(sign + lex)

	return v, ok
}

// formatRat renders v as a JSON number with no more digits than needed.
func formatRat(v *big.Rat) json.Number {
	if v.IsInt() {
		return json.Number(v.Num().String())
	}

	for prec := 1; prec < 64; prec++ {
		s := v.FloatString(prec)
		if back, ok := new(big.Rat).SetString(s); ok && back.Cmp(v) == 0 {
			return json.Number(s)
		}
	}

	return json.Number(v.FloatString(64))
}

// typedValue converts a lexical value to the JSON value for typ.
func typedValue(lex, typ string) any {
	switch typ {
	case "integer":
		if v, ok := parseDecimal(lex); ok && v.IsInt() {
			return formatRat(v)
		}
	case "number":
		if v, ok := parseDecimal(lex); ok {
			return formatRat(v)
		}
	case "boolean":
		switch strings.TrimSpace(lex) {
		case "true", "1":
			return true
		case "false", "0":
			return false
		}
	}

	return lex
}

// combinePatterns anchors XSD patterns, which always match the whole value,
// and ORs them together as XSD does for patterns given in one derivation step.
func combinePatterns(patterns []string) string {
	if len(patterns) == 1 {
		return "^(?:" + translatePattern(patterns[0]) + ")$"
	}

	parts := make([]string, len(patterns))
	for i, p := range patterns {
		parts[i] = "(?:" + translatePattern(p) + ")"
	}

	return "^(?:" + strings.Join(parts, "|") + ")$"
}

// translatePattern rewrites XSD regular expression syntax to ECMA 262: the
// name-character escapes are expanded and the anchors, literal in XSD, are
// escaped.
func translatePattern(p string) string {
	var (
		b     strings.Builder
		depth int
	)

	escapes := map[byte][2]string{
		'i': {`[_:A-Za-z]`, `_:A-Za-z`},
		'I': {`[^_:A-Za-z]`, ``},
		'c': {`[-._:A-Za-z0-9]`, `\-._:A-Za-z0-9`},
		'C': {`[^-._:A-Za-z0-9]`, ``},
	}

	for i := 0; i < len(p); i++ {
		ch := p[i]

		switch {
		case ch == '\\' && i+1 < len(p):
			next := p[i+1]
			if e, ok := escapes[next]; ok && (depth == 0 || e[1] != "") {
				if depth == 0 {
					b.WriteString(e[0])
				} else {
					b.WriteString(e[1])
				}
			} else {
				b.WriteByte(ch)
				b.WriteByte(next)
			}

			i++
		case ch == '[':
			depth++
			b.WriteByte(ch)
		case ch == ']' && depth > 0:
			depth--
			b.WriteByte(ch)
		case (ch == '^' || ch == '$') && depth == 0:
			b.WriteByte('\\')
			b.WriteByte(ch)
		default:
			b.WriteByte(ch)
		}
	}

	return b.String()
}
