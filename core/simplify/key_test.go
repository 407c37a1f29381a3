package simplify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateKey(t *testing.T) {
	assert.ErrorIs(t, ValidateKey(""), ErrKeyMissing)
	assert.ErrorIs(t, ValidateKey("sk-short"), ErrKeyFormat)
	assert.ErrorIs(t, ValidateKey("xx-0123456789abcdefghij"), ErrKeyFormat)
	assert.ErrorIs(t, ValidateKey("sk-01234567890123456"), ErrKeyFormat) // 20 chars
	assert.NoError(t, ValidateKey("sk-012345678901234567"))              // 21 chars
}

func TestMaskKey(t *testing.T) {
	assert.Equal(t, "sk-*************wxyz", MaskKey("sk-abcdefghijklmwxyz"))
	assert.Equal(t, "*****", MaskKey("sk-ab"))
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel(" b1 ")
	require.NoError(t, err)
	assert.Equal(t, "B1", lvl)

	for _, ok := range []string{"A1", "A2", "B1", "B2", "C1", "C2"} {
		_, err := ParseLevel(ok)
		assert.NoError(t, err, ok)
	}
	for _, bad := range []string{"", "D1", "B3", "native"} {
		_, err := ParseLevel(bad)
		assert.Error(t, err, bad)
	}
}
