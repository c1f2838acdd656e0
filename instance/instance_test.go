package instance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtensionSetMissingReportsAbsentRequired(t *testing.T) {
	e := NewExtensionSet(nil, []string{"VK_KHR_surface", "VK_KHR_swapchain"}, []string{"VK_KHR_surface"})
	assert.Equal(t, []string{"VK_KHR_swapchain"}, e.Missing())
}

func TestExtensionSetMissingEmptyWhenAllPresent(t *testing.T) {
	e := NewExtensionSet(nil, []string{"VK_KHR_surface"}, []string{"VK_KHR_surface", "VK_EXT_debug_report"})
	assert.Empty(t, e.Missing())
}

func TestExtensionSetResolveAppendsWantedNotAlreadyRequired(t *testing.T) {
	e := NewExtensionSet([]string{"VK_EXT_debug_report", "VK_KHR_surface"}, []string{"VK_KHR_surface"}, nil)
	assert.Equal(t, []string{"VK_KHR_surface", "VK_EXT_debug_report"}, e.Resolve())
}

func TestExtensionSetResolveDoesNotMutateRequired(t *testing.T) {
	required := []string{"VK_KHR_surface"}
	e := NewExtensionSet([]string{"VK_EXT_debug_report"}, required, nil)
	_ = e.Resolve()
	assert.Equal(t, []string{"VK_KHR_surface"}, required, "Resolve must not mutate the required slice in place")
}

func TestContainsFindsExactMatchOnly(t *testing.T) {
	assert.True(t, contains([]string{"a", "b"}, "b"))
	assert.False(t, contains([]string{"a", "b"}, "c"))
	assert.False(t, contains(nil, "a"))
}
