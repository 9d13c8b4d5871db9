package gff

import (
	"bufio"
	"io"
	"sort"
	"strings"

	"github.com/gffbase/gffbase/internal/dialect"
)

// CleanOptions controls pre-normalization behavior for Clean.
type CleanOptions struct {
	// Dialect is used to parse and re-render each feature line. Zero
	// value means dialect.Default().
	Dialect dialect.Dialect
	Policy  dialect.EncodingPolicy

	// AddChr prepends "chr" to seqids that lack it, matching a common
	// UCSC/Ensembl seqid mismatch fixup (gffutils' clean_gff addchr).
	AddChr bool

	// NormalizeCoordinates swaps start/end instead of rejecting the
	// line when start > end.
	NormalizeCoordinates bool

	// FeaturetypesToRemove names featuretypes to drop entirely, the way
	// clean_gff's featuretypes_to_remove argument does. Typically
	// populated from a prior InspectFeatureTypes call.
	FeaturetypesToRemove []string
}

// Clean streams r line by line, sorts nothing, but repairs common
// glitches (bad seqid prefixes, coordinate order) and rewrites each
// record through the parser/renderer round trip so downstream ingest
// sees a canonical line shape. Comments and directives pass through
// unchanged; the FASTA terminator and everything after it is dropped,
// as is any line whose featuretype is in FeaturetypesToRemove. Ported
// from gffutils' clean_gff helper.
func Clean(r io.Reader, w io.Writer, opts CleanOptions) error {
	if opts.Dialect.FieldSeparator == "" {
		opts.Dialect = dialect.Default()
	}
	remove := make(map[string]bool, len(opts.FeaturetypesToRemove))
	for _, ft := range opts.FeaturetypesToRemove {
		remove[ft] = true
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	bw := bufio.NewWriter(w)
	defer bw.Flush()

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()

		if IsFASTATerminator(line) {
			break
		}
		if IsDirective(line) || IsComment(line) {
			if _, err := bw.WriteString(line + "\n"); err != nil {
				return err
			}
			continue
		}

		f, err := ParseLine(line, lineNum, opts.Dialect, opts.Policy, opts.NormalizeCoordinates)
		if err != nil {
			return err
		}
		if remove[f.Featuretype] {
			continue
		}
		if opts.AddChr && !strings.HasPrefix(f.Seqid, "chr") {
			f.Seqid = "chr" + f.Seqid
		}
		if _, err := bw.WriteString(f.String(opts.Policy) + "\n"); err != nil {
			return err
		}
	}
	return scanner.Err()
}

// InspectFeatureTypes scans r and returns the distinct featuretype
// values seen, sorted, without building any relations or writing to a
// store. Useful for deciding ingest options (e.g. which featuretypes
// to exclude from GTF inference) before committing to a full ingest.
func InspectFeatureTypes(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	seen := map[string]struct{}{}
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if IsFASTATerminator(line) {
			break
		}
		if IsDirective(line) || IsComment(line) {
			continue
		}
		fields := strings.SplitN(line, "\t", 4)
		if len(fields) < 3 {
			continue
		}
		seen[fields[2]] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	out := make([]string, 0, len(seen))
	for t := range seen {
		out = append(out, t)
	}
	sort.Strings(out)
	return out, nil
}
