package ingest

import "strconv"

// DefaultMaxLevel is the default deepest transitive relation level C8
// computes (spec.md 4.8: "k=2..maxlevel (default 3)").
const DefaultMaxLevel = 3

// Edge is one (parent, child, level) relation row.
type Edge struct {
	Parent string
	Child  string
	Level  int
}

// RelationBuilder is C8: it stages GFF3 Parent= edges by the raw
// attribute value (since a parent may appear later in the file than
// its children) and, once every primary key is known, computes
// transitive closure up to MaxLevel.
type RelationBuilder struct {
	MaxLevel int

	// staged holds level-1 edges keyed by parent attribute value. Close
	// uses these values as they are; they are not remapped to keys that
	// create_unique or a transform assigned.
	staged []Edge
	seen   map[[3]string]bool
}

// NewRelationBuilder returns a builder with the default max level.
func NewRelationBuilder() *RelationBuilder {
	return &RelationBuilder{MaxLevel: DefaultMaxLevel, seen: make(map[[3]string]bool)}
}

// AddParents stages one level-1 edge per parent value listed on a
// child's Parent attribute.
func (b *RelationBuilder) AddParents(childID string, parentValues []string) {
	for _, p := range parentValues {
		if p == "" {
			continue
		}
		b.stage(p, childID, 1)
	}
}

// AddEdge stages an arbitrary level-1 edge directly, used by the GTF
// inference builder to record gene->transcript and transcript->exon
// relations it synthesizes.
func (b *RelationBuilder) AddEdge(parent, child string) {
	b.stage(parent, child, 1)
}

// AddEdges stages a batch of level-1 edges, as returned by
// GTFInferenceBuilder.Finalize.
func (b *RelationBuilder) AddEdges(edges []Edge) {
	for _, e := range edges {
		b.stage(e.Parent, e.Child, 1)
	}
}

func (b *RelationBuilder) stage(parent, child string, level int) {
	if parent == child {
		return
	}
	key := [3]string{parent, child, strconv.Itoa(level)}
	if b.seen[key] {
		return
	}
	b.seen[key] = true
	b.staged = append(b.staged, Edge{Parent: parent, Child: child, Level: level})
}

// Close computes level-2..MaxLevel edges by repeated join and returns
// every edge, level-1 and derived. Skips (a,c,_) if any level of a->c
// edge already exists (spec.md 4.8), and never emits a self-edge.
func (b *RelationBuilder) Close() []Edge {
	level1 := make([]Edge, 0, len(b.staged))
	for _, e := range b.staged {
		if e.Level == 1 {
			level1 = append(level1, e)
		}
	}

	childrenOf := make(map[string][]string, len(level1))
	for _, e := range level1 {
		childrenOf[e.Parent] = append(childrenOf[e.Parent], e.Child)
	}

	// hasEdge tracks every (a,c) pair already known at any level, so a
	// deeper join never overwrites a shallower relation.
	hasEdge := make(map[[2]string]bool, len(level1))
	for _, e := range level1 {
		hasEdge[[2]string{e.Parent, e.Child}] = true
	}

	all := append([]Edge(nil), level1...)
	frontier := level1
	for level := 2; level <= b.MaxLevel; level++ {
		var next []Edge
		for _, ab := range frontier {
			for _, c := range childrenOf[ab.Child] {
				if ab.Parent == c {
					continue
				}
				pair := [2]string{ab.Parent, c}
				if hasEdge[pair] {
					continue
				}
				hasEdge[pair] = true
				e := Edge{Parent: ab.Parent, Child: c, Level: level}
				next = append(next, e)
				all = append(all, e)
			}
		}
		if len(next) == 0 {
			break
		}
		frontier = next
	}
	return all
}

