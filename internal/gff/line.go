package gff

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gffbase/gffbase/internal/attrs"
	"github.com/gffbase/gffbase/internal/dialect"
)

// gffKeyCount is the number of canonical tab-delimited fields before
// "extra" columns start.
const gffKeyCount = 9

// IsFASTATerminator reports whether line is the FlyBase/WormBase
// convention that ends annotation records and begins inline sequence
// data (spec.md 4.3).
func IsFASTATerminator(line string) bool {
	return line == "##FASTA" || strings.HasPrefix(line, ">")
}

// IsDirective reports whether line is a "##"-prefixed header line to be
// preserved verbatim (spec.md 3, Directive).
func IsDirective(line string) bool {
	return strings.HasPrefix(line, "##")
}

// IsComment reports whether line is a "#"-prefixed (but not "##") line,
// or blank, and should be skipped entirely.
func IsComment(line string) bool {
	return (strings.HasPrefix(line, "#") && !strings.HasPrefix(line, "##")) || len(line) == 0
}

// ParseLine splits a single tab-delimited record into a Feature.
// lineNum is 1-based file order, used for error reporting. If d is the
// zero Dialect, the attribute column is parsed under dialect.Default().
func ParseLine(line string, lineNum int, d dialect.Dialect, policy dialect.EncodingPolicy, normalizeCoords bool) (*Feature, error) {
	fields := strings.Split(line, "\t")
	if len(fields) < gffKeyCount {
		return nil, &MalformedLineError{
			Line:   lineNum,
			Reason: "expected at least 9 tab-separated fields, got " + strconv.Itoa(len(fields)),
		}
	}

	if d.FieldSeparator == "" {
		d = dialect.Default()
	}

	start, err := parseCoord(fields[3], lineNum, "start")
	if err != nil {
		return nil, err
	}
	end, err := parseCoord(fields[4], lineNum, "end")
	if err != nil {
		return nil, err
	}

	parsed, err := attrs.Parse(fields[8], d, policy)
	if err != nil {
		if tokErr, ok := err.(*attrs.InvalidAttributeTokenError); ok {
			return nil, &InvalidAttributeTokenError{Line: lineNum, Token: tokErr.Token}
		}
		return nil, err
	}

	f := &Feature{
		Seqid:       fields[0],
		Source:      fields[1],
		Featuretype: fields[2],
		Score:       fields[5],
		Strand:      fields[6],
		Frame:       fields[7],
		Attributes:  parsed,
		Dialect:     d,
		FileOrder:   lineNum - 1,
	}
	if len(fields) > gffKeyCount {
		f.Extra = append([]string(nil), fields[gffKeyCount:]...)
	}

	if err := f.SetCoordinates(start, end, normalizeCoords); err != nil {
		if ce, ok := err.(*CoordinateError); ok {
			ce.Line = lineNum
		}
		return nil, err
	}

	return f, nil
}

// parseCoord parses a coordinate field, accepting an integer string or
// the "." placeholder for a missing coordinate (spec.md 4.3).
func parseCoord(field string, lineNum int, name string) (*int64, error) {
	if field == None {
		return nil, nil
	}
	v, err := strconv.ParseInt(field, 10, 64)
	if err != nil {
		return nil, &CoordinateError{Line: lineNum, Reason: fmt.Sprintf("unparseable %s %q: %v", name, field, err)}
	}
	return &v, nil
}
