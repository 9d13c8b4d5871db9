package ingest

import (
	"errors"
	"sort"
	"strings"

	"github.com/gffbase/gffbase/internal/gff"
)

// MergeStrategy names one of the C7 collision policies (spec.md 4.7).
type MergeStrategy string

const (
	MergeError        MergeStrategy = "error"
	MergeWarning      MergeStrategy = "warning"
	MergeMerge        MergeStrategy = "merge"
	MergeCreateUnique MergeStrategy = "create_unique"
	MergeReplace      MergeStrategy = "replace"
)

// ErrForceMergeCoords is returned when MergeOptions.ForceMergeFields
// names "start" or "end": coordinate identity is load-bearing for the
// merge equality check and can't be waived (a supplemented feature
// grounded on gffutils' _DBCreator force_merge_fields, create.py).
var ErrForceMergeCoords = errors.New("start and end cannot be listed in ForceMergeFields")

// MergeOptions configures the Merge Controller.
type MergeOptions struct {
	// Strategy is the default, used unless PerFeatureType overrides it
	// for f.Featuretype. The Controller applies PerFeatureType whatever
	// the id_spec kind.
	Strategy MergeStrategy

	PerFeatureType map[string]MergeStrategy

	// ForceMergeFields lists non-attribute fields excluded from the
	// equality check under MergeMerge: a mismatch on one of these is
	// tolerated, and the two values are combined into a deduplicated,
	// comma-joined string written back onto the merged feature (e.g.
	// frame "0" and "1" become "0,1"). "start" and "end" are rejected.
	ForceMergeFields []string
}

// MergeAction is what the caller should do with the incoming feature
// after Resolve.
type MergeAction int

const (
	ActionInsert MergeAction = iota
	ActionSkip
	ActionMerged
	ActionReplace
	ActionCreateUnique
)

// Controller is C7, the Merge Controller.
type Controller struct {
	opts          MergeOptions
	autoincrement *Autoincrement
	// duplicates maps an original colliding key to every new key
	// create_unique has minted for it so far, mirroring the persisted
	// duplicates table's (idspecid, newid) rows.
	duplicates map[string][]string
	forceSet   map[string]bool
}

// NewController validates opts and returns a Controller sharing autoinc
// with the ID Resolver (create_unique suffixes and IDSpecNone fallbacks
// draw from the same autoincrements table).
func NewController(opts MergeOptions, autoinc *Autoincrement) (*Controller, error) {
	forceSet := make(map[string]bool, len(opts.ForceMergeFields))
	for _, f := range opts.ForceMergeFields {
		if f == "start" || f == "end" {
			return nil, ErrForceMergeCoords
		}
		forceSet[f] = true
	}
	return &Controller{
		opts:          opts,
		autoincrement: autoinc,
		duplicates:    make(map[string][]string),
		forceSet:      forceSet,
	}, nil
}

// Duplicates returns the accumulated original -> new-id mappings, for
// persistence into the duplicates table.
func (c *Controller) Duplicates() map[string][]string {
	out := make(map[string][]string, len(c.duplicates))
	for k, v := range c.duplicates {
		out[k] = append([]string(nil), v...)
	}
	return out
}

func (c *Controller) strategyFor(featuretype string) MergeStrategy {
	if s, ok := c.opts.PerFeatureType[featuretype]; ok {
		return s
	}
	if c.opts.Strategy == "" {
		return MergeError
	}
	return c.opts.Strategy
}

// Resolve is invoked when incoming's id collides with existing (line is
// incoming's 1-based file order, for error reporting). On ActionMerged
// it also mutates existing in place (attribute union under the
// merged/force-merged rules). On ActionCreateUnique, newID is the
// suffixed key the caller should register incoming under.
func (c *Controller) Resolve(existing, incoming *gff.Feature, line int) (action MergeAction, newID string, err error) {
	switch c.strategyFor(incoming.Featuretype) {
	case MergeError:
		return ActionInsert, "", &gff.DuplicateIDError{Line: line, ID: incoming.ID}

	case MergeWarning:
		return ActionSkip, "", nil

	case MergeReplace:
		return ActionReplace, "", nil

	case MergeCreateUnique:
		_, newID := c.autoincrement.Next(existing.ID)
		c.duplicates[existing.ID] = append(c.duplicates[existing.ID], newID)
		return ActionCreateUnique, newID, nil

	case MergeMerge:
		if reason, mismatched := c.nonAttributeMismatch(existing, incoming); mismatched {
			return ActionInsert, "", &gff.MergeConflictError{
				Line: line, ID: incoming.ID, Field: reason, Reason: "non-attribute fields differ",
			}
		}
		existing.Attributes.Union(incoming.Attributes)
		c.unionForceMergedFields(existing, incoming)
		return ActionMerged, "", nil

	default:
		return ActionInsert, "", &gff.DuplicateIDError{Line: line, ID: incoming.ID}
	}
}

// unionForceMergedFields combines each ForceMergeFields value from
// existing and incoming into a deduplicated, comma-joined string set on
// existing, mirroring create.py's _do_merge final_fields handling.
// Fields whose values already agree are left untouched.
func (c *Controller) unionForceMergedFields(existing, incoming *gff.Feature) {
	for name := range c.forceSet {
		a := forceMergeFieldValue(existing, name)
		b := forceMergeFieldValue(incoming, name)
		if a == b {
			continue
		}
		setForceMergeField(existing, name, joinUnique(a, b))
	}
}

func forceMergeFieldValue(f *gff.Feature, name string) string {
	switch name {
	case "seqid":
		return f.Seqid
	case "source":
		return f.Source
	case "featuretype":
		return f.Featuretype
	case "strand":
		return f.Strand
	case "frame":
		return f.Frame
	default:
		return ""
	}
}

func setForceMergeField(f *gff.Feature, name, value string) {
	switch name {
	case "seqid":
		f.Seqid = value
	case "source":
		f.Source = value
	case "featuretype":
		f.Featuretype = value
	case "strand":
		f.Strand = value
	case "frame":
		f.Frame = value
	}
}

// joinUnique returns a's and b's comma-separated values combined into a
// sorted, deduplicated comma-joined string.
func joinUnique(a, b string) string {
	seen := make(map[string]bool)
	var vals []string
	for _, part := range strings.Split(a+","+b, ",") {
		if part == "" || seen[part] {
			continue
		}
		seen[part] = true
		vals = append(vals, part)
	}
	sort.Strings(vals)
	return strings.Join(vals, ",")
}

// nonAttributeMismatch checks the merge-required field agreement
// (spec.md 4.7), skipping any field named in ForceMergeFields.
func (c *Controller) nonAttributeMismatch(existing, incoming *gff.Feature) (field string, mismatched bool) {
	check := func(name string, a, b string) bool {
		return !c.forceSet[name] && a != b
	}
	if check("seqid", existing.Seqid, incoming.Seqid) {
		return "seqid", true
	}
	if check("source", existing.Source, incoming.Source) {
		return "source", true
	}
	if check("featuretype", existing.Featuretype, incoming.Featuretype) {
		return "featuretype", true
	}
	if !c.forceSet["start"] && existing.StartString() != incoming.StartString() {
		return "start", true
	}
	if !c.forceSet["end"] && existing.EndString() != incoming.EndString() {
		return "end", true
	}
	if check("strand", existing.Strand, incoming.Strand) {
		return "strand", true
	}
	if check("frame", existing.Frame, incoming.Frame) {
		return "frame", true
	}
	return "", false
}
