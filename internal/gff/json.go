package gff

import (
	json "github.com/goccy/go-json"

	"github.com/gffbase/gffbase/internal/attrs"
)

// jsonAttrs is the on-disk shape of Attributes: an ordered list of
// key/value-list pairs, since a plain map would lose insertion order.
type jsonAttrs struct {
	Key    string   `json:"key"`
	Values []string `json:"values"`
}

// MarshalAttributes serializes attrs into the JSON stored in the
// features.attributes column (spec.md 6.2).
func MarshalAttributes(f *Feature) ([]byte, error) {
	if f.Attributes == nil {
		return json.Marshal([]jsonAttrs{})
	}
	pairs := make([]jsonAttrs, 0, f.Attributes.Len())
	for _, k := range f.Attributes.Keys() {
		vals, _ := f.Attributes.Get(k)
		pairs = append(pairs, jsonAttrs{Key: k, Values: vals})
	}
	return json.Marshal(pairs)
}

// UnmarshalAttributes restores an ordered Attributes multimap from its
// JSON encoding.
func UnmarshalAttributes(data []byte) (*attrs.Attributes, error) {
	out := attrs.New()
	if len(data) == 0 {
		return out, nil
	}
	var pairs []jsonAttrs
	if err := json.Unmarshal(data, &pairs); err != nil {
		return nil, err
	}
	for _, p := range pairs {
		out.Set(p.Key, p.Values)
	}
	return out, nil
}

// MarshalExtra serializes the trailing extra fields.
func MarshalExtra(extra []string) ([]byte, error) {
	if extra == nil {
		extra = []string{}
	}
	return json.Marshal(extra)
}

// UnmarshalExtra restores the trailing extra fields.
func UnmarshalExtra(data []byte) ([]string, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var extra []string
	if err := json.Unmarshal(data, &extra); err != nil {
		return nil, err
	}
	return extra, nil
}
