package texture

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func oneChannelImage(values []byte) ImageData {
	return ImageData{
		Extents: Extents{Width: len(values), Height: 1, Depth: 1},
		Layout:  Layout{Channels: "R", Element: ElementNormalized, Signed: false, BytesPerChannel: 1},
		Data:    values,
	}
}

func TestPixelDecodesLittleEndian(t *testing.T) {
	img := ImageData{
		Extents: Extents{Width: 1, Height: 1, Depth: 1},
		Layout:  Layout{Channels: "R", Element: ElementInteger, Signed: false, BytesPerChannel: 2},
		Data:    []byte{0x34, 0x12},
	}
	v, err := img.Pixel(0, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 0x1234, v)
}

func TestPixelOutOfRangeChannelErrors(t *testing.T) {
	img := oneChannelImage([]byte{255})
	_, err := img.Pixel(0, 0, 1)
	require.Error(t, err)
}

func TestPixelOutOfRangeCoordinateErrors(t *testing.T) {
	img := oneChannelImage([]byte{255})
	_, err := img.Pixel(5, 0, 0)
	require.Error(t, err)
}

func TestNewHeightmapRejectsOutOfRangeChannel(t *testing.T) {
	img := oneChannelImage([]byte{0, 128, 255})
	_, err := NewHeightmap(3, img, 2, 1.0)
	require.Error(t, err, "heightmap with an out-of-range channel index must raise at factory time")
}

func TestHeightmapNormalisesBy8BitRange(t *testing.T) {
	img := oneChannelImage([]byte{0, 128, 255})
	hm, err := NewHeightmap(3, img, 0, 10.0)
	require.NoError(t, err)

	h0, err := hm.Height(0, 0)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, h0, 1e-6)

	h2, err := hm.Height(2, 0)
	require.NoError(t, err)
	assert.InDelta(t, 10.0, h2, 1e-6)

	h1, err := hm.Height(1, 0)
	require.NoError(t, err)
	assert.InDelta(t, 10.0*128.0/255.0, h1, 1e-4)
}
