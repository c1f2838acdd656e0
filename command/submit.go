package command

import (
	vk "github.com/vulkan-go/vulkan"

	"github.com/andewx/vkforge/vkerr"
)

// Wait pairs a semaphore with the pipeline stage the consuming work
// waits at.
type Wait struct {
	Semaphore vk.Semaphore
	StageMask vk.PipelineStageFlagBits
}

// Work captures one submission into a queue: the ordered command
// buffers (all from the same queue family), its waits, and its signals.
type Work struct {
	Buffers []*Buffer
	Waits   []Wait
	Signals []vk.Semaphore
}

// Submit batch-submits work items in one vkQueueSubmit call, signalling
// fence once every item's work has completed — vkQueueSubmit takes a
// single fence for the whole batch, not one per item. All items must
// target the same queue family; every buffer must be EXECUTABLE.
// pWaitSemaphores and pWaitDstStageMask are built in the same
// iteration order per item, preserving the (semaphore, stage) pairing
// spec §4.6 requires.
func Submit(queue vk.Queue, items []Work, fence vk.Fence) error {
	infos := make([]vk.SubmitInfo, len(items))
	for i, w := range items {
		buffers := make([]vk.CommandBuffer, len(w.Buffers))
		for j, b := range w.Buffers {
			if b.state != StateExecutable {
				return vkerr.NewCommandBufferStateError("submit", StateExecutable.String(), b.state.String())
			}
			buffers[j] = b.handle
		}

		waitSemaphores := make([]vk.Semaphore, len(w.Waits))
		waitStages := make([]vk.PipelineStageFlags, len(w.Waits))
		for j, wait := range w.Waits {
			waitSemaphores[j] = wait.Semaphore
			waitStages[j] = vk.PipelineStageFlags(wait.StageMask)
		}

		infos[i] = vk.SubmitInfo{
			SType:                vk.StructureTypeSubmitInfo,
			WaitSemaphoreCount:   uint32(len(waitSemaphores)),
			PWaitSemaphores:      waitSemaphores,
			PWaitDstStageMask:    waitStages,
			CommandBufferCount:   uint32(len(buffers)),
			PCommandBuffers:      buffers,
			SignalSemaphoreCount: uint32(len(w.Signals)),
			PSignalSemaphores:    w.Signals,
		}
	}

	ret := vk.QueueSubmit(queue, uint32(len(infos)), infos, fence)
	return vkerr.Result("vkQueueSubmit", ret)
}
