package ingest

import (
	"context"

	"go.uber.org/zap"

	"github.com/gffbase/gffbase/internal/dialect"
	"github.com/gffbase/gffbase/internal/gff"
)

// Input names one of the three shapes C4 unifies (spec.md 4.4): a file
// or URL path, an arbitrary reader, or an already-parsed feature
// stream. Exactly one field should be set.
type Input struct {
	Path     string
	Reader   *Iterator
	Features []*gff.Feature
}

// Pipeline is the ingest surface's engine: it wires C4 through C10 for
// one call to create_db (spec.md 6.3).
type Pipeline struct {
	opts       IngestOptions
	sink       Sink
	logger     *zap.Logger
	resolver   *Resolver
	controller *Controller
	relBuilt   *RelationBuilder
	gtf        *GTFInferenceBuilder

	byID         map[string]*gff.Feature
	maxFileOrder int
}

// NewPipeline returns a Pipeline ready to Run once against sink. It
// fails only if opts.MergeOptions.ForceMergeFields is invalid.
func NewPipeline(opts IngestOptions, sink Sink) (*Pipeline, error) {
	resolver := NewResolver()
	controller, err := NewController(opts.MergeOptions, resolver.Autoincrement)
	if err != nil {
		return nil, err
	}
	return &Pipeline{
		opts:       opts,
		sink:       sink,
		logger:     zap.NewNop(),
		resolver:   resolver,
		controller: controller,
		relBuilt:   NewRelationBuilder(),
		gtf:        NewGTFInferenceBuilder(opts.GTFOptions),
		byID:       make(map[string]*gff.Feature),
	}, nil
}

// SetLogger sets the structured logger used for §7 recoverable
// conditions, which are logged at warning level.
func (p *Pipeline) SetLogger(l *zap.Logger) {
	p.logger = l
}

// Run executes one full ingest from in against p's configuration,
// writing results to the sink and committing on success. On any
// unrecovered error or ctx cancellation, the sink is rolled back.
func (p *Pipeline) Run(ctx context.Context, in Input) error {
	if len(in.Features) > 0 {
		return p.runFeatureStream(ctx, in.Features)
	}

	it := in.Reader
	var err error
	if it == nil {
		it, err = p.openInput(ctx, in.Path)
		if err != nil {
			p.sink.Rollback()
			return err
		}
		defer it.Close()
	}

	d, err := p.resolveDialect(it, in.Path)
	if err != nil {
		p.sink.Rollback()
		return err
	}
	p.sink.SetDialect(d)

	if err := p.consume(ctx, it, d); err != nil {
		p.sink.Rollback()
		return err
	}

	if !p.opts.DeferRelationClose {
		if err := p.CloseRelations(); err != nil {
			p.sink.Rollback()
			return err
		}
	}

	if len(p.byID) == 0 {
		p.sink.Rollback()
		return &gff.EmptyInputError{Source: in.Path}
	}

	if err := p.finalizeAux(); err != nil {
		p.sink.Rollback()
		return err
	}
	return p.sink.Commit()
}

// finalizeAux persists the duplicates and autoincrements tables that
// accumulated over the ingest.
func (p *Pipeline) finalizeAux() error {
	if err := p.sink.WriteDuplicates(p.controller.Duplicates()); err != nil {
		return err
	}
	return p.sink.WriteAutoincrements(p.resolver.Autoincrement.Snapshot())
}

func (p *Pipeline) openInput(ctx context.Context, path string) (*Iterator, error) {
	if isURL(path) {
		return OpenURL(ctx, path)
	}
	return OpenPath(path)
}

func isURL(path string) bool {
	for _, scheme := range []string{"http://", "https://", "ftp://"} {
		if len(path) >= len(scheme) && path[:len(scheme)] == scheme {
			return true
		}
	}
	return false
}

// resolveDialect implements the C5 handoff: peek checklines candidate
// lines and infer, unless an explicit Dialect was supplied. Input with
// no candidate line at all fails with EmptyInputError naming source.
func (p *Pipeline) resolveDialect(it *Iterator, source string) (dialect.Dialect, error) {
	if p.opts.ExplicitDialect != nil {
		return *p.opts.ExplicitDialect, nil
	}
	n := p.opts.Checklines
	if n == 0 {
		n = DefaultChecklines
	}
	if n < 0 {
		n = 0 // "all"
	}
	lines, err := it.Peek(n, isCandidateLine, gff.IsFASTATerminator)
	if err != nil {
		return dialect.Dialect{}, err
	}
	if len(lines) == 0 {
		return dialect.Dialect{}, &gff.EmptyInputError{Source: source}
	}
	return InferDialect(lines)
}

func isCandidateLine(line string) bool {
	return !gff.IsComment(line) && !gff.IsDirective(line)
}

// consume drains it, parsing each candidate line under d (or a
// per-line re-inferred dialect when ForceDialectCheck is set), routing
// every resulting Feature through transform, C6, C7, and staging edges
// for C8/C9.
func (p *Pipeline) consume(ctx context.Context, it *Iterator, d dialect.Dialect) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		line, ok, err := it.Next()
		if err != nil {
			return err
		}
		if !ok {
			break
		}

		if gff.IsFASTATerminator(line.Text) {
			break
		}
		if gff.IsDirective(line.Text) {
			if err := p.sink.WriteDirective(gff.Directive{Text: line.Text[2:]}); err != nil {
				return err
			}
			continue
		}
		if gff.IsComment(line.Text) {
			continue
		}

		lineDialect := d
		if p.opts.ForceDialectCheck {
			if inferred, err := InferDialect([]RawLine{line}); err == nil {
				lineDialect = inferred
			}
		}

		f, err := gff.ParseLine(line.Text, line.Num, lineDialect, p.opts.Policy, p.opts.NormalizeCoordinates)
		if err != nil {
			if p.opts.IgnoreMalformedLines {
				if _, ok := err.(*gff.MalformedLineError); ok {
					p.logger.Warn("skipping malformed line", zap.Int("line", line.Num))
					continue
				}
			}
			return err
		}

		if !p.opts.ForceGFF && lineDialect.Fmt == dialect.GTF {
			p.gtf.Observe(f)
		}

		if err := p.ingestFeature(f, line.Num); err != nil {
			return err
		}
	}
	return nil
}

func (p *Pipeline) runFeatureStream(ctx context.Context, features []*gff.Feature) error {
	if len(features) > 0 {
		p.sink.SetDialect(features[0].Dialect)
	}
	for i, f := range features {
		if err := ctx.Err(); err != nil {
			p.sink.Rollback()
			return err
		}
		if !p.opts.ForceGFF && f.Dialect.Fmt == dialect.GTF {
			p.gtf.Observe(f)
		}
		if err := p.ingestFeature(f, i+1); err != nil {
			p.sink.Rollback()
			return err
		}
	}
	if !p.opts.DeferRelationClose {
		if err := p.CloseRelations(); err != nil {
			p.sink.Rollback()
			return err
		}
	}
	if len(p.byID) == 0 {
		p.sink.Rollback()
		return &gff.EmptyInputError{Source: "feature stream"}
	}
	if err := p.finalizeAux(); err != nil {
		p.sink.Rollback()
		return err
	}
	return p.sink.Commit()
}

// ingestFeature applies transform, then C6/C7, then stages the
// feature's Parent= edges.
func (p *Pipeline) ingestFeature(f *gff.Feature, line int) error {
	if p.opts.Transform != nil {
		f = p.opts.Transform(f)
		if f == nil {
			return nil
		}
	}

	if f.ID == "" {
		spec := p.opts.IDSpec
		if spec.Kind == IDSpecNone && f.Dialect.Fmt != dialect.GTF {
			// With no id_spec given, non-GTF rows are keyed by their ID
			// attribute, falling back to featuretype autoincrement.
			spec = KeySpec("ID")
		}
		f.ID = p.resolver.Resolve(f, spec)
	}

	if existing, collides := p.byID[f.ID]; collides {
		action, newID, err := p.controller.Resolve(existing, f, line)
		if err != nil {
			return err
		}
		switch action {
		case ActionSkip:
			p.logger.Warn("duplicate id, keeping existing row", zap.String("id", f.ID), zap.Int("line", line))
			return nil
		case ActionMerged:
			return p.stageAndWrite(existing)
		case ActionReplace:
			p.byID[f.ID] = f
			return p.stageAndWrite(f)
		case ActionCreateUnique:
			f.ID = newID
			p.byID[f.ID] = f
			return p.stageAndWrite(f)
		}
	}

	p.byID[f.ID] = f
	return p.stageAndWrite(f)
}

func (p *Pipeline) stageAndWrite(f *gff.Feature) error {
	if f.FileOrder > p.maxFileOrder {
		p.maxFileOrder = f.FileOrder
	}
	if parents, ok := f.Attributes.Get("Parent"); ok {
		p.relBuilt.AddParents(f.ID, parents)
	}
	return p.sink.WriteFeature(f)
}

// CloseRelations runs C9 (if applicable) and then C8's transitive
// closure, writing the resulting synthesized features and edges. It is
// called automatically by Run unless DeferRelationClose is set; Run
// commits the sink either way, so a later call writes to a sink that
// has already committed.
func (p *Pipeline) CloseRelations() error {
	if !p.opts.ForceGFF {
		synth, synthEdges := p.gtf.Finalize()
		if p.gtf.OrphanCount() > 0 && len(synth) > 0 {
			p.logger.Warn("component rows with no transcript key were excluded from inference",
				zap.Int("orphans", p.gtf.OrphanCount()))
		}
		for _, f := range synth {
			if _, collides := p.byID[f.ID]; collides {
				p.logger.Warn("inferred feature collides with an explicit row; consider disable_infer_genes/transcripts",
					zap.String("id", f.ID))
			}
			p.maxFileOrder++
			f.FileOrder = p.maxFileOrder
			if err := p.ingestFeature(f, 0); err != nil {
				return err
			}
		}
		p.relBuilt.AddEdges(synthEdges)
	}

	edges := p.relBuilt.Close()
	return p.sink.WriteEdges(edges)
}
