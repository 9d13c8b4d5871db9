// Package attrs implements C2, the GFF3/GTF attribute-column parser: it
// splits the 9th tab-delimited field of a feature line into an ordered
// multimap under a given dialect.Dialect, and can render that multimap
// back into text.
//
// Values are always stored as a []string, even for single-valued keys —
// this removes the duck-typed "sometimes a string, sometimes a list"
// class of bug gffutils.Attributes carries in Python; single-value
// collapse, if a caller wants it, happens only at render/query time.
package attrs

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gffbase/gffbase/internal/dialect"
)

// pair is one key and its ordered value list.
type pair struct {
	key    string
	values []string
}

// Attributes is an ordered multimap: keys keep first-seen insertion
// order, and each key maps to an ordered list of values (possibly
// empty, per spec.md 4.2 point 5).
type Attributes struct {
	pairs []pair
	index map[string]int
}

// New returns an empty Attributes multimap.
func New() *Attributes {
	return &Attributes{index: make(map[string]int)}
}

// Keys returns the keys in insertion order.
func (a *Attributes) Keys() []string {
	keys := make([]string, len(a.pairs))
	for i, p := range a.pairs {
		keys[i] = p.key
	}
	return keys
}

// Get returns the value list for key and whether it was present.
func (a *Attributes) Get(key string) ([]string, bool) {
	i, ok := a.index[key]
	if !ok {
		return nil, false
	}
	return a.pairs[i].values, true
}

// First returns the first value for key, or "" if absent or empty.
func (a *Attributes) First(key string) string {
	vals, ok := a.Get(key)
	if !ok || len(vals) == 0 {
		return ""
	}
	return vals[0]
}

// Has reports whether key is present (regardless of value count).
func (a *Attributes) Has(key string) bool {
	_, ok := a.index[key]
	return ok
}

// Set replaces (or creates) the value list for key, preserving its
// original insertion position if it already existed.
func (a *Attributes) Set(key string, values []string) {
	if i, ok := a.index[key]; ok {
		a.pairs[i].values = values
		return
	}
	a.index[key] = len(a.pairs)
	a.pairs = append(a.pairs, pair{key: key, values: values})
}

// Append adds values to key's existing list (creating it if absent),
// used when Dialect.RepeatedKeys is true and the same key recurs.
func (a *Attributes) Append(key string, values ...string) {
	if i, ok := a.index[key]; ok {
		a.pairs[i].values = append(a.pairs[i].values, values...)
		return
	}
	a.Set(key, values)
}

// Delete removes key entirely.
func (a *Attributes) Delete(key string) {
	i, ok := a.index[key]
	if !ok {
		return
	}
	a.pairs = append(a.pairs[:i], a.pairs[i+1:]...)
	delete(a.index, key)
	for k, idx := range a.index {
		if idx > i {
			a.index[k] = idx - 1
		}
	}
}

// Len returns the number of distinct keys.
func (a *Attributes) Len() int {
	return len(a.pairs)
}

// Clone returns a deep copy.
func (a *Attributes) Clone() *Attributes {
	out := New()
	for _, p := range a.pairs {
		vals := make([]string, len(p.values))
		copy(vals, p.values)
		out.Set(p.key, vals)
	}
	return out
}

// Union merges other into a: for every key in other, values not already
// present in a's list (by exact string match) are appended, preserving
// insertion order of first occurrence with new values appended after —
// this is the ordering guarantee spec.md 5 requires for merged
// attributes.
func (a *Attributes) Union(other *Attributes) {
	for _, p := range other.pairs {
		existing, ok := a.Get(p.key)
		if !ok {
			vals := make([]string, len(p.values))
			copy(vals, p.values)
			a.Set(p.key, vals)
			continue
		}
		seen := make(map[string]bool, len(existing))
		for _, v := range existing {
			seen[v] = true
		}
		merged := existing
		for _, v := range p.values {
			if !seen[v] {
				merged = append(merged, v)
				seen[v] = true
			}
		}
		a.Set(p.key, merged)
	}
}

// InvalidAttributeTokenError is returned by Parse when a token has an
// empty key (e.g. "=value"). Bare keys without a separator are accepted.
type InvalidAttributeTokenError struct {
	Token string
}

func (e *InvalidAttributeTokenError) Error() string {
	return fmt.Sprintf("invalid attribute token: %q", e.Token)
}

// Parse splits the literal 9th column into an ordered multimap under d,
// per spec.md 4.2's five-step algorithm.
func Parse(field string, d dialect.Dialect, policy dialect.EncodingPolicy) (*Attributes, error) {
	out := New()
	if field == "" {
		return out, nil
	}

	s := field
	if d.LeadingSemicolon && strings.HasPrefix(s, ";") {
		s = s[1:]
	}
	if d.TrailingSemicolon && strings.HasSuffix(s, ";") {
		s = s[:len(s)-1]
	}

	sep := d.FieldSeparator
	if sep == "" {
		sep = ";"
	}
	tokens := strings.Split(s, sep)

	kv := d.KeyValSeparator
	if kv == "" {
		if d.Fmt == dialect.GFF3 {
			kv = "="
		} else {
			kv = " "
		}
	}

	for _, tok := range tokens {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		if d.LeadingSemicolon && strings.HasPrefix(tok, ";") {
			tok = strings.TrimPrefix(tok, ";")
			tok = strings.TrimSpace(tok)
		}

		key, val, hasSep := strings.Cut(tok, kv)
		key = strings.TrimSpace(key)
		if key == "" {
			return nil, &InvalidAttributeTokenError{Token: tok}
		}
		if !hasSep {
			// Bare-key form: a key with no separator and no value
			// (spec.md 4.2 point 5, e.g. glimmer's "Complete").
			if !out.Has(key) {
				out.Set(key, []string{})
			}
			continue
		}

		val = strings.TrimSpace(val)
		if d.QuotedValues && len(val) >= 2 && val[0] == '"' && val[len(val)-1] == '"' {
			val = val[1 : len(val)-1]
		}

		var values []string
		if val == "" {
			values = nil
		} else {
			mv := d.MultivalSeparator
			if mv == "" {
				mv = ","
			}
			values = strings.Split(val, mv)
		}

		if policy.PercentEncode {
			for i, v := range values {
				values[i] = percentDecode(v)
			}
		}

		if existing, ok := out.Get(key); ok && d.RepeatedKeys {
			out.Set(key, append(existing, values...))
		} else {
			out.Set(key, values)
		}
	}

	return out, nil
}

// Render reconstructs the attribute-column text for attrs under d and
// policy, following spec.md 4.1's rendering contract.
func Render(a *Attributes, d dialect.Dialect, policy dialect.EncodingPolicy) string {
	if a == nil || a.Len() == 0 {
		return ""
	}

	var items []renderItem
	if d.RepeatedKeys {
		for _, p := range a.pairs {
			if len(p.values) > 1 {
				for _, v := range p.values {
					items = append(items, renderItem{key: p.key, values: []string{v}})
				}
			} else {
				items = append(items, renderItem{key: p.key, values: p.values})
			}
		}
	} else {
		for _, p := range a.pairs {
			items = append(items, renderItem{key: p.key, values: p.values})
		}
	}

	order := d.OrderOfAttributeKeys
	if policy.KeepOrder {
		order = a.Keys()
	}
	if len(order) > 0 {
		pos := make(map[string]int, len(order))
		for i, k := range order {
			pos[k] = i
		}
		stableSortItems(items, pos)
	}

	mv := d.MultivalSeparator
	if mv == "" {
		mv = ","
	}
	kv := d.KeyValSeparator
	if kv == "" {
		kv = "="
	}

	parts := make([]string, 0, len(items))
	for _, it := range items {
		vals := it.values
		if policy.SortAttributeValues && len(vals) > 1 {
			vals = append([]string(nil), vals...)
			sortStrings(vals)
		}

		if policy.PercentEncode {
			encoded := make([]string, len(vals))
			for i, v := range vals {
				encoded[i] = percentEncode(v)
			}
			vals = encoded
		}

		if len(vals) == 0 {
			if d.Fmt == dialect.GTF {
				parts = append(parts, it.key+kv+`""`)
			} else {
				parts = append(parts, it.key)
			}
			continue
		}

		valStr := strings.Join(vals, mv)
		if d.QuotedValues {
			valStr = `"` + valStr + `"`
		}
		parts = append(parts, it.key+kv+valStr)
	}

	sep := d.FieldSeparator
	if sep == "" {
		sep = ";"
	}
	out := strings.Join(parts, sep)
	if d.TrailingSemicolon {
		out += ";"
	}
	return out
}

// renderItem is one rendered key/value-list pair, after the
// repeated-keys expansion step in Render.
type renderItem struct {
	key    string
	values []string
}

func stableSortItems(items []renderItem, pos map[string]int) {
	// insertion sort: stable, and these lists are always short.
	for i := 1; i < len(items); i++ {
		j := i
		for j > 0 && rank(items[j-1].key, pos) > rank(items[j].key, pos) {
			items[j-1], items[j] = items[j], items[j-1]
			j--
		}
	}
}

func rank(key string, pos map[string]int) int {
	if p, ok := pos[key]; ok {
		return p
	}
	return 1 << 30
}

func sortStrings(s []string) {
	for i := 1; i < len(s); i++ {
		j := i
		for j > 0 && s[j-1] > s[j] {
			s[j-1], s[j] = s[j], s[j-1]
			j--
		}
	}
}

// percentEncode re-encodes the GFF3-spec set that must be encoded on
// render: tab, newline, CR, ';', '=', '&', ',', plus control characters.
// Space (0x20) is deliberately excluded — spec.md 9 documents that %20
// is decoded but never re-encoded, a known, deliberate round-trip gap.
func percentEncode(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < 0x20 || c == ';' || c == '=' || c == '&' || c == ',' || c == '\t' || c == '\n' || c == '\r' {
			fmt.Fprintf(&b, "%%%02X", c)
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

func percentDecode(s string) string {
	if !strings.Contains(s, "%") {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && i+2 < len(s) {
			if n, err := strconv.ParseUint(s[i+1:i+3], 16, 8); err == nil {
				b.WriteByte(byte(n))
				i += 2
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
