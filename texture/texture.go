// Package texture loads external image data into the channel-indexed
// ImageData interface the library's upload paths and height-map
// function consume, and decodes JPEG sources with the standard
// image/jpeg package, converting to RGBA with golang.org/x/image/draw
// — new relative to the teacher, which never touches texture loading.
package texture

import (
	"bytes"
	"image"
	"image/jpeg"

	"golang.org/x/image/draw"

	"github.com/andewx/vkforge/vkerr"
)

// ElementType is the channel's scalar interpretation.
type ElementType int

const (
	ElementInteger ElementType = iota
	ElementFloat
	ElementNormalized
)

// Layout describes an ImageData's channel string (e.g. "ABGR"), element
// type, signedness, and per-channel byte width.
type Layout struct {
	Channels          string
	Element           ElementType
	Signed            bool
	BytesPerChannel   int
}

// Extents is an image's (width, height, depth).
type Extents struct {
	Width, Height, Depth int
}

// ImageData is the library's channel-indexed pixel interface: any
// loader that can produce extents, a layout, and a byte buffer
// satisfies it.
type ImageData struct {
	Extents Extents
	Layout  Layout
	Data    []byte
}

func (img ImageData) channelStride() int { return img.Layout.BytesPerChannel }

func (img ImageData) rowStride() int {
	return img.Extents.Width * len(img.Layout.Channels) * img.channelStride()
}

// Pixel little-endian decodes the bytes-per-channel bytes at
// (x + y*width) * channel-stride for channel, returning it as an int.
func (img ImageData) Pixel(x, y, channel int) (int, error) {
	if channel < 0 || channel >= len(img.Layout.Channels) {
		return 0, vkerr.NewInteropError("channel index out of range")
	}
	pixelOffset := y*img.rowStride() + x*len(img.Layout.Channels)*img.channelStride()
	offset := pixelOffset + channel*img.channelStride()
	if offset+img.channelStride() > len(img.Data) {
		return 0, vkerr.NewInteropError("pixel coordinates out of range")
	}
	bytesPerChannel := img.channelStride()
	var value uint64
	for i := 0; i < bytesPerChannel; i++ {
		value |= uint64(img.Data[offset+i]) << (8 * i)
	}
	return int(value), nil
}

// LoadJPEG decodes a JPEG byte stream into an ImageData with the
// requested channel layout ("ABGR" or "RGBA"), one byte per channel.
func LoadJPEG(data []byte, channels string) (ImageData, error) {
	src, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		return ImageData{}, vkerr.NewInteropError("jpeg decode failed: " + err.Error())
	}

	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	rgba := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(rgba, rgba.Bounds(), src, bounds.Min, draw.Src)

	out := make([]byte, width*height*len(channels))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			px := rgba.RGBAAt(x, y)
			base := (y*width + x) * len(channels)
			for i, c := range channels {
				out[base+i] = channelByte(px, c)
			}
		}
	}

	return ImageData{
		Extents: Extents{Width: width, Height: height, Depth: 1},
		Layout:  Layout{Channels: channels, Element: ElementNormalized, Signed: false, BytesPerChannel: 1},
		Data:    out,
	}, nil
}

func channelByte(px image32, c rune) byte {
	switch c {
	case 'R', 'r':
		return px.R
	case 'G', 'g':
		return px.G
	case 'B', 'b':
		return px.B
	case 'A', 'a':
		return px.A
	default:
		return 0
	}
}

type image32 = struct{ R, G, B, A uint8 }

// Heightmap wraps an ImageData as a (col, row) -> float height
// function, reading channel and normalising by scale / (2^(bytes*8) - 1).
type Heightmap struct {
	GridSize int
	Image    ImageData
	Channel  int
	Scale    float32
}

// NewHeightmap validates the channel index against img's layout at
// construction time (spec: "raises at factory time").
func NewHeightmap(gridSize int, img ImageData, channel int, scale float32) (*Heightmap, error) {
	if channel < 0 || channel >= len(img.Layout.Channels) {
		return nil, vkerr.NewInteropError("heightmap channel index out of range")
	}
	return &Heightmap{GridSize: gridSize, Image: img, Channel: channel, Scale: scale}, nil
}

// Height returns the normalised height at (col, row).
func (h *Heightmap) Height(col, row int) (float32, error) {
	raw, err := h.Image.Pixel(col, row, h.Channel)
	if err != nil {
		return 0, err
	}
	maxValue := float64(uint64(1)<<(uint(h.Image.Layout.BytesPerChannel)*8)) - 1
	return h.Scale * float32(float64(raw)/maxValue), nil
}
