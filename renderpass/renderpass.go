// Package renderpass builds render passes, subpasses, and the
// per-swapchain-image framebuffer group, grounded on the teacher's
// renderpass.go attachment/subpass/dependency construction and
// generalized into the identity-based reference/back-patch builder
// spec §4.7 describes.
package renderpass

import (
	vk "github.com/vulkan-go/vulkan"

	"github.com/andewx/vkforge/vkerr"
)

// ExternalSubpass is the sentinel used as a dependency's source or
// destination subpass to express synchronisation with work outside the
// render pass.
const ExternalSubpass = vk.MaxUint32

// Attachment describes one render-pass attachment. Two Attachment
// values are the same attachment if and only if they are the same
// pointer — subpasses reference attachments by object identity, not by
// value equality, matching spec §4.7's "by object identity" wording.
type Attachment struct {
	Format         vk.Format
	Samples        vk.SampleCountFlagBits
	LoadOp         vk.AttachmentLoadOp
	StoreOp        vk.AttachmentStoreOp
	StencilLoadOp  vk.AttachmentLoadOp
	StencilStoreOp vk.AttachmentStoreOp
	InitialLayout  vk.ImageLayout
	FinalLayout    vk.ImageLayout
}

// ColorAttachmentForPresentation returns the spec §4.7 convenience
// attachment: clear-on-load, store-on-end, final layout PRESENT_SRC_KHR.
func ColorAttachmentForPresentation(format vk.Format) *Attachment {
	return &Attachment{
		Format:         format,
		Samples:        vk.SampleCount1Bit,
		LoadOp:         vk.AttachmentLoadOpClear,
		StoreOp:        vk.AttachmentStoreOpStore,
		StencilLoadOp:  vk.AttachmentLoadOpDontCare,
		StencilStoreOp: vk.AttachmentStoreOpDontCare,
		InitialLayout:  vk.ImageLayoutUndefined,
		FinalLayout:    vk.ImageLayoutPresentSrc,
	}
}

func (a *Attachment) native() vk.AttachmentDescription {
	return vk.AttachmentDescription{
		Format:         a.Format,
		Samples:        a.Samples,
		LoadOp:         a.LoadOp,
		StoreOp:        a.StoreOp,
		StencilLoadOp:  a.StencilLoadOp,
		StencilStoreOp: a.StencilStoreOp,
		InitialLayout:  a.InitialLayout,
		FinalLayout:    a.FinalLayout,
	}
}

// Ref pairs an Attachment (by identity) with the layout a subpass reads
// or writes it through.
type Ref struct {
	Attachment *Attachment
	Layout     vk.ImageLayout
}

// Subpass accumulates a graphics subpass's attachment references.
// Indices are unassigned until Builder.Build runs its back-patch pass.
type Subpass struct {
	Color   []Ref
	Depth   *Ref
	Input   []Ref
}

// Dependency mirrors vk.SubpassDependency, with Src/DstSubpass set to
// ExternalSubpass for synchronisation outside the render pass.
type Dependency struct {
	SrcSubpass    uint32
	DstSubpass    uint32
	SrcStageMask  vk.PipelineStageFlagBits
	DstStageMask  vk.PipelineStageFlagBits
	SrcAccessMask vk.AccessFlagBits
	DstAccessMask vk.AccessFlagBits
	ByRegion      bool
}

// Builder assembles a render pass from subpasses and dependencies,
// discovering its attachment list from the subpasses themselves.
type Builder struct {
	Subpasses    []*Subpass
	Dependencies []Dependency
}

// Build enumerates every reference across every subpass, computes the
// distinct attachments in first-seen order, back-patches each
// reference with its resulting index, assigns each subpass a monotonic
// index, and emits the vkCreateRenderPass descriptor.
func (b *Builder) Build(dev vk.Device) (vk.RenderPass, []*Attachment, error) {
	var attachments []*Attachment
	index := make(map[*Attachment]uint32)

	indexOf := func(a *Attachment) uint32 {
		if i, ok := index[a]; ok {
			return i
		}
		i := uint32(len(attachments))
		attachments = append(attachments, a)
		index[a] = i
		return i
	}

	nativeSubpasses := make([]vk.SubpassDescription, len(b.Subpasses))
	for i, s := range b.Subpasses {
		colorRefs := make([]vk.AttachmentReference, len(s.Color))
		for j, r := range s.Color {
			colorRefs[j] = vk.AttachmentReference{Attachment: indexOf(r.Attachment), Layout: r.Layout}
		}
		inputRefs := make([]vk.AttachmentReference, len(s.Input))
		for j, r := range s.Input {
			inputRefs[j] = vk.AttachmentReference{Attachment: indexOf(r.Attachment), Layout: r.Layout}
		}

		desc := vk.SubpassDescription{
			PipelineBindPoint:    vk.PipelineBindPointGraphics,
			ColorAttachmentCount: uint32(len(colorRefs)),
			InputAttachmentCount: uint32(len(inputRefs)),
		}
		if len(colorRefs) > 0 {
			desc.PColorAttachments = colorRefs
		}
		if len(inputRefs) > 0 {
			desc.PInputAttachments = inputRefs
		}
		if s.Depth != nil {
			depthRef := vk.AttachmentReference{Attachment: indexOf(s.Depth.Attachment), Layout: s.Depth.Layout}
			desc.PDepthStencilAttachment = &depthRef
		}
		nativeSubpasses[i] = desc
	}

	nativeAttachments := make([]vk.AttachmentDescription, len(attachments))
	for i, a := range attachments {
		nativeAttachments[i] = a.native()
	}

	nativeDeps := make([]vk.SubpassDependency, len(b.Dependencies))
	for i, d := range b.Dependencies {
		var flags vk.DependencyFlags
		if d.ByRegion {
			flags = vk.DependencyFlags(vk.DependencyByRegionBit)
		}
		nativeDeps[i] = vk.SubpassDependency{
			SrcSubpass:      d.SrcSubpass,
			DstSubpass:      d.DstSubpass,
			SrcStageMask:    vk.PipelineStageFlags(d.SrcStageMask),
			DstStageMask:    vk.PipelineStageFlags(d.DstStageMask),
			SrcAccessMask:   vk.AccessFlags(d.SrcAccessMask),
			DstAccessMask:   vk.AccessFlags(d.DstAccessMask),
			DependencyFlags: flags,
		}
	}

	var handle vk.RenderPass
	ret := vk.CreateRenderPass(dev, &vk.RenderPassCreateInfo{
		SType:           vk.StructureTypeRenderPassCreateInfo,
		AttachmentCount: uint32(len(nativeAttachments)),
		PAttachments:    nativeAttachments,
		SubpassCount:    uint32(len(nativeSubpasses)),
		PSubpasses:      nativeSubpasses,
		DependencyCount: uint32(len(nativeDeps)),
		PDependencies:   nativeDeps,
	}, nil, &handle)
	if err := vkerr.Result("vkCreateRenderPass", ret); err != nil {
		return vk.NullRenderPass, nil, err
	}
	return handle, attachments, nil
}
