package interop

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnumMaskHasRequiresAllBits(t *testing.T) {
	m := NewEnumMask(0x3, nil)
	assert.True(t, m.Has(0x1))
	assert.True(t, m.Has(0x3))
	assert.False(t, m.Has(0x4))
}

func TestEnumMaskAnyRequiresOneBit(t *testing.T) {
	m := NewEnumMask(0x2, nil)
	assert.True(t, m.Any(0x6))
	assert.False(t, m.Any(0x1))
}

func TestEnumMaskSetAndClearAreImmutable(t *testing.T) {
	base := NewEnumMask(0x1, nil)
	withBit := base.Set(0x2)
	assert.Equal(t, uint32(0x1), base.Bits(), "Set must not mutate the receiver")
	assert.Equal(t, uint32(0x3), withBit.Bits())

	cleared := withBit.Clear(0x1)
	assert.Equal(t, uint32(0x2), cleared.Bits())
	assert.Equal(t, uint32(0x3), withBit.Bits(), "Clear must not mutate the receiver")
}

func TestEnumMaskNamesUnknownBitRendersHex(t *testing.T) {
	names := map[uint32]string{0x1: "GRAPHICS"}
	m := NewEnumMask(0x1|0x4, names)
	result := m.Names()
	assert.Equal(t, []string{"GRAPHICS", "0x4"}, result)
}

func TestEnumMaskStringJoinsNames(t *testing.T) {
	names := map[uint32]string{0x1: "GRAPHICS", 0x2: "COMPUTE"}
	m := NewEnumMask(0x3, names)
	assert.Equal(t, "GRAPHICS|COMPUTE", m.String())
}
