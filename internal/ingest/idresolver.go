package ingest

import (
	"strings"

	"github.com/gffbase/gffbase/internal/gff"
)

// IDSpecKind tags the id_spec variant (spec.md 4.6, and the tagged
// variant called for by spec.md 9's "Callable id_spec and transform").
type IDSpecKind int

const (
	IDSpecNone IDSpecKind = iota
	IDSpecKey
	IDSpecKeyList
	IDSpecFeatureTypeMap
	IDSpecField
	IDSpecCallable
)

// CallableIDFunc computes a candidate id for a Feature-in-progress. It
// returns either a literal key, the sentinel "autoincrement:<base>", or
// "" to mean None (fall through to the default autoincrement).
type CallableIDFunc func(f *gff.Feature) string

// IDSpec is the tagged variant from which the ID Resolver computes a
// primary key.
type IDSpec struct {
	Kind  IDSpecKind
	Key   string            // IDSpecKey
	Keys  []string          // IDSpecKeyList
	Map   map[string]IDSpec // IDSpecFeatureTypeMap
	Field string            // IDSpecField: one of seqid/source/featuretype/start/end/score/strand/frame
	Func  CallableIDFunc    // IDSpecCallable
}

// KeySpec builds a single-key id_spec.
func KeySpec(key string) IDSpec { return IDSpec{Kind: IDSpecKey, Key: key} }

// KeyListSpec builds an ordered-key-list id_spec.
func KeyListSpec(keys ...string) IDSpec { return IDSpec{Kind: IDSpecKeyList, Keys: keys} }

// FeatureTypeMapSpec builds a featuretype -> IDSpec dispatch table.
func FeatureTypeMapSpec(m map[string]IDSpec) IDSpec {
	return IDSpec{Kind: IDSpecFeatureTypeMap, Map: m}
}

// FieldSpec builds a special-field reference, the ":FIELD:" form.
func FieldSpec(field string) IDSpec { return IDSpec{Kind: IDSpecField, Field: field} }

// CallableSpec builds a callable id_spec.
func CallableSpec(fn CallableIDFunc) IDSpec { return IDSpec{Kind: IDSpecCallable, Func: fn} }

const autoincrementSentinelPrefix = "autoincrement:"

// Resolver is C6: the ID Resolver. It holds the autoincrement state
// shared with the Merge Controller's create_unique handling.
type Resolver struct {
	Autoincrement *Autoincrement
}

// NewResolver returns a Resolver backed by a fresh counter set.
func NewResolver() *Resolver {
	return &Resolver{Autoincrement: NewAutoincrement()}
}

// Resolve computes f's primary key under spec, falling back to
// autoincrement when the spec yields None or the autoincrement
// sentinel.
func (r *Resolver) Resolve(f *gff.Feature, spec IDSpec) string {
	candidate, base := r.candidate(f, spec)
	if candidate != "" {
		return candidate
	}
	if base == "" {
		base = f.Featuretype
	}
	_, key := r.Autoincrement.Next(base)
	return key
}

// candidate returns a resolved literal key (possibly ""), and the base
// name to autoincrement under if the key turned out empty or was a
// sentinel.
func (r *Resolver) candidate(f *gff.Feature, spec IDSpec) (key, base string) {
	switch spec.Kind {
	case IDSpecNone:
		return "", f.Featuretype

	case IDSpecKey:
		if v := f.Attributes.First(spec.Key); v != "" {
			return v, ""
		}
		return "", f.Featuretype

	case IDSpecKeyList:
		for _, k := range spec.Keys {
			if v := f.Attributes.First(k); v != "" {
				return v, ""
			}
		}
		return "", f.Featuretype

	case IDSpecFeatureTypeMap:
		sub, ok := spec.Map[f.Featuretype]
		if !ok {
			return "", f.Featuretype
		}
		return r.candidate(f, sub)

	case IDSpecField:
		return specialField(f, spec.Field), ""

	case IDSpecCallable:
		if spec.Func == nil {
			return "", f.Featuretype
		}
		v := spec.Func(f)
		if v == "" {
			return "", f.Featuretype
		}
		if strings.HasPrefix(v, autoincrementSentinelPrefix) {
			return "", strings.TrimPrefix(v, autoincrementSentinelPrefix)
		}
		return v, ""

	default:
		return "", f.Featuretype
	}
}

// specialField reads one of the eight canonical scalar fields by name,
// the ":FIELD:" form of id_spec.
func specialField(f *gff.Feature, field string) string {
	switch field {
	case "seqid":
		return f.Seqid
	case "source":
		return f.Source
	case "featuretype":
		return f.Featuretype
	case "start":
		return f.StartString()
	case "end":
		return f.EndString()
	case "score":
		return f.Score
	case "strand":
		return f.Strand
	case "frame":
		return f.Frame
	default:
		return ""
	}
}
