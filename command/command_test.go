package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	vk "github.com/vulkan-go/vulkan"
)

func TestStateString(t *testing.T) {
	assert.Equal(t, "INITIAL", StateInitial.String())
	assert.Equal(t, "RECORDING", StateRecording.String())
	assert.Equal(t, "EXECUTABLE", StateExecutable.String())
}

func TestBeginRejectsNonInitialState(t *testing.T) {
	b := &Buffer{state: StateRecording}
	err := b.Begin(nil)
	require.Error(t, err)
}

func TestEndRejectsNonRecordingState(t *testing.T) {
	b := &Buffer{state: StateInitial}
	err := b.End()
	require.Error(t, err)
}

func TestResetRejectsRecordingState(t *testing.T) {
	b := &Buffer{state: StateRecording}
	err := b.Reset(0)
	require.Error(t, err)
}

func TestSecondaryBeginRequiresInheritance(t *testing.T) {
	b := &Buffer{state: StateInitial, level: vk.CommandBufferLevelSecondary}
	err := b.Begin(nil)
	require.Error(t, err)
}

func TestRecordRequiresRecordingState(t *testing.T) {
	b := &Buffer{state: StateInitial}
	err := Record(b)
	require.Error(t, err)
}

func TestExecuteSecondariesRejectsNonExecutableSecondary(t *testing.T) {
	primary := &Buffer{state: StateRecording}
	secondary := &Buffer{state: StateInitial}
	err := primary.ExecuteSecondaries(vk.RenderPass(1), []*Buffer{secondary})
	require.Error(t, err)
}

func TestExecuteSecondariesRejectsInheritancePassMismatch(t *testing.T) {
	primary := &Buffer{state: StateRecording}
	secondary := &Buffer{state: StateExecutable, inheritance: &Inheritance{RenderPass: vk.RenderPass(2)}}
	err := primary.ExecuteSecondaries(vk.RenderPass(1), []*Buffer{secondary})
	require.Error(t, err)
}
