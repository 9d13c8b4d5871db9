package ingest

import (
	"strings"

	"github.com/gffbase/gffbase/internal/dialect"
	"github.com/gffbase/gffbase/internal/gff"
)

// DefaultChecklines is how many candidate lines the Pipeline samples
// for InferDialect when IngestOptions.Checklines is 0; a negative
// Checklines samples all of them.
const DefaultChecklines = 10

// InferDialect is C5: it derives a Dialect by majority vote over the
// attribute column of the given raw feature lines (already filtered to
// exclude comments, directives, and anything past a FASTA terminator).
func InferDialect(lines []RawLine) (dialect.Dialect, error) {
	var gff3Votes, gtfVotes int
	var sampleGFF3, sampleGTF string

	for _, l := range lines {
		fields := strings.Split(l.Text, "\t")
		if len(fields) < 9 {
			continue
		}
		attrCol := fields[8]
		if looksLikeGTF(attrCol) {
			gtfVotes++
			if sampleGTF == "" {
				sampleGTF = attrCol
			}
		} else if looksLikeGFF3(attrCol) {
			gff3Votes++
			if sampleGFF3 == "" {
				sampleGFF3 = attrCol
			}
		}
	}

	if gff3Votes == 0 && gtfVotes == 0 {
		return dialect.Dialect{}, &gff.UnknownDialectFeatureError{
			Detail: "no candidate line yielded a recognizable attribute column",
		}
	}

	// Ties prefer gff3 (spec.md 4.5).
	if gff3Votes >= gtfVotes {
		return refineGFF3(sampleGFF3), nil
	}
	return refineGTF(sampleGTF), nil
}

// looksLikeGFF3 reports whether the attribute column's first token uses
// "=" before any space, e.g. "ID=gene0001".
func looksLikeGFF3(attrCol string) bool {
	tok := firstToken(attrCol)
	eq := strings.Index(tok, "=")
	sp := strings.Index(tok, " ")
	return eq >= 0 && (sp < 0 || eq < sp)
}

// looksLikeGTF reports whether the attribute column's first token uses
// a bare space before a quoted value, e.g. `gene_id "WBGene0001"`.
func looksLikeGTF(attrCol string) bool {
	tok := firstToken(attrCol)
	sp := strings.Index(tok, " ")
	if sp < 0 {
		return false
	}
	rest := strings.TrimSpace(tok[sp+1:])
	return strings.HasPrefix(rest, `"`)
}

func firstToken(attrCol string) string {
	attrCol = strings.TrimPrefix(attrCol, ";")
	if i := strings.IndexByte(attrCol, ';'); i >= 0 {
		return strings.TrimSpace(attrCol[:i])
	}
	return strings.TrimSpace(attrCol)
}

func refineGFF3(sample string) dialect.Dialect {
	d := dialect.Default()
	d.TrailingSemicolon = strings.HasSuffix(strings.TrimSpace(sample), ";")
	return d
}

func refineGTF(sample string) dialect.Dialect {
	d := dialect.GTFDefault()
	trimmed := strings.TrimSpace(sample)
	d.TrailingSemicolon = strings.HasSuffix(trimmed, ";")
	if !strings.Contains(sample, "; ") {
		d.FieldSeparator = ";"
	}
	return d
}
