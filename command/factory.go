package command

import vk "github.com/vulkan-go/vulkan"

// Command is a closure over a recording buffer, returned by the factory
// functions below. Spec §4.5: "every command is a closure over (library,
// buffer) -> ()" — vkforge needs no library receiver since every factory
// closes over its own parameters instead.
type Command func(cmd vk.CommandBuffer)

// BeginPass returns a Command recording vkCmdBeginRenderPass with
// contents dictated by whether secondary command buffers will record
// inside the pass.
func BeginPass(pass vk.RenderPass, framebuffer vk.Framebuffer, renderArea vk.Rect2D, clearValues []vk.ClearValue, secondary bool) Command {
	contents := vk.SubpassContentsInline
	if secondary {
		contents = vk.SubpassContentsSecondaryCommandBuffers
	}
	return func(cmd vk.CommandBuffer) {
		vk.CmdBeginRenderPass(cmd, &vk.RenderPassBeginInfo{
			SType:           vk.StructureTypeRenderPassBeginInfo,
			RenderPass:      pass,
			Framebuffer:     framebuffer,
			RenderArea:      renderArea,
			ClearValueCount: uint32(len(clearValues)),
			PClearValues:    clearValues,
		}, contents)
	}
}

// EndPass is the shared END-pass command.
func EndPass() Command {
	return func(cmd vk.CommandBuffer) { vk.CmdEndRenderPass(cmd) }
}

// BindPipeline returns a Command recording vkCmdBindPipeline.
func BindPipeline(bindPoint vk.PipelineBindPoint, pipeline vk.Pipeline) Command {
	return func(cmd vk.CommandBuffer) { vk.CmdBindPipeline(cmd, bindPoint, pipeline) }
}

// BindDescriptorSets returns a Command recording vkCmdBindDescriptorSets.
func BindDescriptorSets(bindPoint vk.PipelineBindPoint, layout vk.PipelineLayout, firstSet uint32, sets []vk.DescriptorSet) Command {
	return func(cmd vk.CommandBuffer) {
		vk.CmdBindDescriptorSets(cmd, bindPoint, layout, firstSet, uint32(len(sets)), sets, 0, nil)
	}
}

// BindVertexBuffers returns a Command recording vkCmdBindVertexBuffers.
func BindVertexBuffers(firstBinding uint32, buffers []vk.Buffer, offsets []vk.DeviceSize) Command {
	return func(cmd vk.CommandBuffer) {
		vk.CmdBindVertexBuffers(cmd, firstBinding, uint32(len(buffers)), buffers, offsets)
	}
}

// BindIndexBuffer returns a Command recording vkCmdBindIndexBuffer.
func BindIndexBuffer(buffer vk.Buffer, offset vk.DeviceSize, indexType vk.IndexType) Command {
	return func(cmd vk.CommandBuffer) { vk.CmdBindIndexBuffer(cmd, buffer, offset, indexType) }
}

// Draw returns a Command recording vkCmdDraw.
func Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) Command {
	return func(cmd vk.CommandBuffer) {
		vk.CmdDraw(cmd, vertexCount, instanceCount, firstVertex, firstInstance)
	}
}

// DrawIndexed returns a Command recording vkCmdDrawIndexed.
func DrawIndexed(indexCount, instanceCount, firstIndex uint32, vertexOffset int32, firstInstance uint32) Command {
	return func(cmd vk.CommandBuffer) {
		vk.CmdDrawIndexed(cmd, indexCount, instanceCount, firstIndex, vertexOffset, firstInstance)
	}
}

// PipelineBarrier returns a Command recording vkCmdPipelineBarrier over a
// single image-memory barrier.
func PipelineBarrier(srcStage, dstStage vk.PipelineStageFlagBits, barrier vk.ImageMemoryBarrier) Command {
	return func(cmd vk.CommandBuffer) {
		vk.CmdPipelineBarrier(cmd, vk.PipelineStageFlags(srcStage), vk.PipelineStageFlags(dstStage), 0,
			0, nil, 0, nil, 1, []vk.ImageMemoryBarrier{barrier})
	}
}

// SetViewport returns a Command recording vkCmdSetViewport for a
// dynamic-viewport pipeline.
func SetViewport(viewport vk.Viewport) Command {
	return func(cmd vk.CommandBuffer) { vk.CmdSetViewport(cmd, 0, 1, []vk.Viewport{viewport}) }
}

// SetScissor returns a Command recording vkCmdSetScissor for a
// dynamic-scissor pipeline.
func SetScissor(scissor vk.Rect2D) Command {
	return func(cmd vk.CommandBuffer) { vk.CmdSetScissor(cmd, 0, 1, []vk.Rect2D{scissor}) }
}

// Record runs cmds in order against buf, which must already be
// RECORDING (the caller calls Buffer.Begin first).
func Record(buf *Buffer, cmds ...Command) error {
	if err := buf.require("record", StateRecording); err != nil {
		return err
	}
	for _, c := range cmds {
		c(buf.handle)
	}
	return nil
}
