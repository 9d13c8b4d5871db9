// Package dialect describes the empirical attribute-column formatting
// conventions of a GFF3 or GTF/GFF2 file.
//
// A Dialect is an immutable value: it is either inferred once from the
// first checklines features of a file (see internal/ingest) or supplied
// explicitly by the caller, and from then on travels alongside every
// Feature parsed under it so that rendering can reproduce the original
// line.
package dialect

// Format names the attribute-column convention family.
type Format string

const (
	GFF3 Format = "gff3"
	GTF  Format = "gtf"
)

// Dialect captures how the 9th column of a GFF/GTF line is formatted,
// both for parsing (internal/attrs) and for rendering back to text.
type Dialect struct {
	Fmt Format

	// FieldSeparator joins key/value pairs, e.g. ";" or "; ".
	FieldSeparator string

	// KeyValSeparator joins a key to its value(s), e.g. "=" (GFF3) or
	// " " (GTF).
	KeyValSeparator string

	// MultivalSeparator joins multiple values for one key, typically ",".
	MultivalSeparator string

	LeadingSemicolon  bool
	TrailingSemicolon bool

	// QuotedValues wraps rendered values in double quotes; GTF usually
	// sets this, GFF3 usually doesn't.
	QuotedValues bool

	// RepeatedKeys, when true, means the same key may appear more than
	// once on one line, each occurrence contributing one more value
	// rather than being folded into a single comma-joined list.
	RepeatedKeys bool

	// OrderOfAttributeKeys, when non-empty, fixes the render order for
	// keys it names; keys not listed are rendered in insertion order
	// after all named keys.
	OrderOfAttributeKeys []string
}

// Default returns the GFF3-spec default dialect, matching the literal
// default carried by gffutils.constants.dialect.
func Default() Dialect {
	return Dialect{
		Fmt:                   GFF3,
		FieldSeparator:        ";",
		KeyValSeparator:       "=",
		MultivalSeparator:     ",",
		LeadingSemicolon:      false,
		TrailingSemicolon:     false,
		QuotedValues:          false,
		RepeatedKeys:          false,
		OrderOfAttributeKeys:  []string{"ID", "Name", "gene_id", "transcript_id"},
	}
}

// GTFDefault returns a reasonable default dialect for GTF/GFF2 input,
// used when the caller supplies fmt=gtf explicitly without a full
// inferred dialect.
func GTFDefault() Dialect {
	d := Default()
	d.Fmt = GTF
	d.FieldSeparator = "; "
	d.KeyValSeparator = " "
	d.QuotedValues = true
	d.TrailingSemicolon = true
	return d
}

// Clone returns a value copy; OrderOfAttributeKeys is copied so callers
// can safely mutate the returned Dialect's order without aliasing.
func (d Dialect) Clone() Dialect {
	if d.OrderOfAttributeKeys != nil {
		order := make([]string, len(d.OrderOfAttributeKeys))
		copy(order, d.OrderOfAttributeKeys)
		d.OrderOfAttributeKeys = order
	}
	return d
}
