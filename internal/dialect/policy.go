package dialect

// EncodingPolicy is the explicit, threaded replacement for the
// process-wide toggles gffutils keeps as module-level globals
// (constants.always_return_list, constants.ignore_url_escape_characters).
// Rather than mutable package state, callers construct one of these and
// pass it through internal/attrs and internal/ingest.
type EncodingPolicy struct {
	// PercentEncode, when true (the default), decodes %XX sequences on
	// parse and re-encodes the GFF3-reserved set on render. When false,
	// attribute values are left exactly as read/written.
	PercentEncode bool

	// SortAttributeValues sorts each key's value list before rendering,
	// for deterministic output; mostly useful for tests (spec.md's
	// sort_attribute_values option).
	SortAttributeValues bool

	// KeepOrder preserves each feature's own attribute-key order on
	// render instead of only the database-level Dialect.OrderOfAttributeKeys.
	KeepOrder bool
}

// DefaultPolicy returns the policy gffutils ships with by default:
// percent-encoding round-trips, no forced sort, no per-feature order.
func DefaultPolicy() EncodingPolicy {
	return EncodingPolicy{PercentEncode: true}
}
