// Package command owns CommandPool and the CommandBuffer state machine
// (INITIAL -> RECORDING -> EXECUTABLE -> reset), grounded on the
// teacher's pools.go and asche/managers.go and generalized into the
// guarded state machine and command-factory closures spec §4.5/§4.6
// describe. Pools are not safe for concurrent use — one pool per
// recording thread, matching the teacher's CommandBufferManager
// comment.
package command

import (
	vk "github.com/vulkan-go/vulkan"

	"github.com/andewx/vkforge/vkerr"
)

// State is a CommandBuffer's position in its life cycle.
type State int

const (
	StateInitial State = iota
	StateRecording
	StateExecutable
)

func (s State) String() string {
	switch s {
	case StateInitial:
		return "INITIAL"
	case StateRecording:
		return "RECORDING"
	case StateExecutable:
		return "EXECUTABLE"
	default:
		return "UNKNOWN"
	}
}

// Pool owns a vk.CommandPool and the buffers allocated from it. Not
// thread-safe: one Pool per thread recording commands.
type Pool struct {
	device    vk.Device
	handle    vk.CommandPool
	buffers   []*Buffer
	destroyed bool
}

// NewPool creates a command pool against familyIndex with
// RESET_COMMAND_BUFFER_BIT set, so individual buffers may be reset
// without resetting the whole pool.
func NewPool(dev vk.Device, familyIndex uint32) (*Pool, error) {
	var handle vk.CommandPool
	ret := vk.CreateCommandPool(dev, &vk.CommandPoolCreateInfo{
		SType:            vk.StructureTypeCommandPoolCreateInfo,
		QueueFamilyIndex: familyIndex,
		Flags:            vk.CommandPoolCreateFlags(vk.CommandPoolCreateResetCommandBufferBit),
	}, nil, &handle)
	if err := vkerr.Result("vkCreateCommandPool", ret); err != nil {
		return nil, err
	}
	return &Pool{device: dev, handle: handle}, nil
}

// Allocate allocates count buffers of level from the pool.
func (p *Pool) Allocate(count int, level vk.CommandBufferLevel) ([]*Buffer, error) {
	raw := make([]vk.CommandBuffer, count)
	ret := vk.AllocateCommandBuffers(p.device, &vk.CommandBufferAllocateInfo{
		SType:              vk.StructureTypeCommandBufferAllocateInfo,
		CommandPool:        p.handle,
		Level:              level,
		CommandBufferCount: uint32(count),
	}, raw)
	if err := vkerr.Result("vkAllocateCommandBuffers", ret); err != nil {
		return nil, err
	}
	out := make([]*Buffer, count)
	for i, h := range raw {
		buf := &Buffer{pool: p, handle: h, level: level, state: StateInitial}
		out[i] = buf
		p.buffers = append(p.buffers, buf)
	}
	return out, nil
}

// Free frees buffers and removes them from the pool's tracked list.
func (p *Pool) Free(buffers []*Buffer) {
	if len(buffers) == 0 {
		return
	}
	raw := make([]vk.CommandBuffer, len(buffers))
	for i, b := range buffers {
		raw[i] = b.handle
	}
	vk.FreeCommandBuffers(p.device, p.handle, uint32(len(raw)), raw)
	freed := make(map[vk.CommandBuffer]bool, len(raw))
	for _, h := range raw {
		freed[h] = true
	}
	remaining := p.buffers[:0]
	for _, b := range p.buffers {
		if !freed[b.handle] {
			remaining = append(remaining, b)
		}
	}
	p.buffers = remaining
}

// Reset resets the entire pool, returning every buffer allocated from it
// to INITIAL.
func (p *Pool) Reset(flags vk.CommandPoolResetFlagBits) error {
	ret := vk.ResetCommandPool(p.device, p.handle, vk.CommandPoolResetFlags(flags))
	if err := vkerr.Result("vkResetCommandPool", ret); err != nil {
		return err
	}
	for _, b := range p.buffers {
		b.state = StateInitial
	}
	return nil
}

// Destroy destroys the pool; this implicitly destroys every buffer
// allocated from it.
func (p *Pool) Destroy() error {
	if p.destroyed {
		return vkerr.NewResourceDestroyedError("command pool")
	}
	vk.DestroyCommandPool(p.device, p.handle, nil)
	p.buffers = nil
	p.destroyed = true
	return nil
}

// Inheritance is the render-pass/subpass a secondary buffer begins
// inside.
type Inheritance struct {
	RenderPass  vk.RenderPass
	Subpass     uint32
	Framebuffer vk.Framebuffer
}

// Buffer is a single command buffer tracked through the guarded FSM
// INITIAL -> RECORDING -> EXECUTABLE -> (reset) -> INITIAL.
type Buffer struct {
	pool        *Pool
	handle      vk.CommandBuffer
	level       vk.CommandBufferLevel
	state       State
	inheritance *Inheritance
}

// Handle returns the native vk.CommandBuffer handle.
func (b *Buffer) Handle() vk.CommandBuffer { return b.handle }

// State returns the buffer's current FSM state.
func (b *Buffer) State() State { return b.state }

func (b *Buffer) require(op string, want State) error {
	if b.state != want {
		return vkerr.NewCommandBufferStateError(op, want.String(), b.state.String())
	}
	return nil
}

// Begin transitions INITIAL -> RECORDING. For a primary buffer pass nil
// inheritance; a secondary buffer must supply one, and RENDER_PASS_CONTINUE
// is set automatically.
func (b *Buffer) Begin(inheritance *Inheritance) error {
	if err := b.require("begin", StateInitial); err != nil {
		return err
	}

	info := vk.CommandBufferBeginInfo{SType: vk.StructureTypeCommandBufferBeginInfo}
	if b.level == vk.CommandBufferLevelSecondary {
		if inheritance == nil {
			return vkerr.NewInteropError("secondary command buffer requires inheritance info")
		}
		info.Flags = vk.CommandBufferUsageFlags(vk.CommandBufferUsageRenderPassContinueBit)
		info.PInheritanceInfo = &vk.CommandBufferInheritanceInfo{
			SType:       vk.StructureTypeCommandBufferInheritanceInfo,
			RenderPass:  inheritance.RenderPass,
			Subpass:     inheritance.Subpass,
			Framebuffer: inheritance.Framebuffer,
		}
	}

	ret := vk.BeginCommandBuffer(b.handle, &info)
	if err := vkerr.Result("vkBeginCommandBuffer", ret); err != nil {
		return err
	}
	b.inheritance = inheritance
	b.state = StateRecording
	return nil
}

// End transitions RECORDING -> EXECUTABLE.
func (b *Buffer) End() error {
	if err := b.require("end", StateRecording); err != nil {
		return err
	}
	ret := vk.EndCommandBuffer(b.handle)
	if err := vkerr.Result("vkEndCommandBuffer", ret); err != nil {
		return err
	}
	b.state = StateExecutable
	return nil
}

// Reset transitions EXECUTABLE (or INITIAL, a no-op) -> INITIAL.
func (b *Buffer) Reset(flags vk.CommandBufferResetFlagBits) error {
	if b.state == StateRecording {
		return vkerr.NewCommandBufferStateError("reset", StateExecutable.String(), b.state.String())
	}
	ret := vk.ResetCommandBuffer(b.handle, vk.CommandBufferResetFlags(flags))
	if err := vkerr.Result("vkResetCommandBuffer", ret); err != nil {
		return err
	}
	b.state = StateInitial
	b.inheritance = nil
	return nil
}

// ExecuteSecondaries records vkCmdExecuteCommands for secondaries, each
// of which must be EXECUTABLE and whose inheritance render pass must
// match expectedPass.
func (b *Buffer) ExecuteSecondaries(expectedPass vk.RenderPass, secondaries []*Buffer) error {
	if err := b.require("executeCommands", StateRecording); err != nil {
		return err
	}
	raw := make([]vk.CommandBuffer, len(secondaries))
	for i, s := range secondaries {
		if s.state != StateExecutable {
			return vkerr.NewCommandBufferStateError("executeCommands", StateExecutable.String(), s.state.String())
		}
		if s.inheritance == nil || s.inheritance.RenderPass != expectedPass {
			return vkerr.NewInteropError("secondary command buffer inheritance pass mismatch")
		}
		raw[i] = s.handle
	}
	vk.CmdExecuteCommands(b.handle, uint32(len(raw)), raw)
	return nil
}
