package interop

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	vk "github.com/vulkan-go/vulkan"
)

func TestEnumerateFillsFromCountThenData(t *testing.T) {
	source := []uint32{10, 20, 30}
	out, err := Enumerate(func(count *uint32, data []uint32) vk.Result {
		if data == nil {
			*count = uint32(len(source))
			return vk.Success
		}
		copy(data, source)
		return vk.Success
	})
	require.NoError(t, err)
	assert.Equal(t, source, out)
}

func TestEnumerateEmptyReturnsNil(t *testing.T) {
	out, err := Enumerate(func(count *uint32, data []uint32) vk.Result {
		*count = 0
		return vk.Success
	})
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestEnumerateCountStageErrorPropagates(t *testing.T) {
	_, err := Enumerate(func(count *uint32, data []uint32) vk.Result {
		return vk.ErrorOutOfHostMemory
	})
	require.Error(t, err)
}

func TestEnumerateFillStageErrorPropagates(t *testing.T) {
	_, err := Enumerate(func(count *uint32, data []uint32) vk.Result {
		if data == nil {
			*count = 2
			return vk.Success
		}
		return vk.ErrorOutOfHostMemory
	})
	require.Error(t, err)
}

func TestEnumerateTruncatesToReportedCount(t *testing.T) {
	out, err := Enumerate(func(count *uint32, data []uint32) vk.Result {
		if data == nil {
			*count = 3
			return vk.Success
		}
		copy(data, []uint32{1, 2, 3})
		*count = 2 // driver reports fewer on the fill call
		return vk.Success
	})
	require.NoError(t, err)
	assert.Equal(t, []uint32{1, 2}, out)
}
