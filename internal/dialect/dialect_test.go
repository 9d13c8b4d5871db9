package dialect

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultIsGFF3(t *testing.T) {
	d := Default()
	assert.Equal(t, GFF3, d.Fmt)
	assert.Equal(t, "=", d.KeyValSeparator)
	assert.False(t, d.QuotedValues)
}

func TestGTFDefaultIsQuotedAndTrailing(t *testing.T) {
	d := GTFDefault()
	assert.Equal(t, GTF, d.Fmt)
	assert.True(t, d.QuotedValues)
	assert.True(t, d.TrailingSemicolon)
}

func TestCloneDoesNotAliasOrder(t *testing.T) {
	d := Default()
	clone := d.Clone()
	clone.OrderOfAttributeKeys[0] = "mutated"
	assert.NotEqual(t, d.OrderOfAttributeKeys[0], clone.OrderOfAttributeKeys[0])
}

func TestDefaultPolicyPercentEncodesOnly(t *testing.T) {
	p := DefaultPolicy()
	assert.True(t, p.PercentEncode)
	assert.False(t, p.SortAttributeValues)
	assert.False(t, p.KeepOrder)
}
