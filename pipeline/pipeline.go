// Package pipeline builds graphics pipelines from fixed-function
// sub-builders, grounded on the teacher's pipeline.go PipelineBuilder
// and generalized past its hard-coded triangle shape into the
// spec §4.8 builder list.
package pipeline

import (
	vk "github.com/vulkan-go/vulkan"

	"github.com/andewx/vkforge/mesh"
	"github.com/andewx/vkforge/vkerr"
)

// Primitive is an abstract primitive topology, mapped onto
// vk.PrimitiveTopology by InputAssembly.
type Primitive int

const (
	PrimitivePoint Primitive = iota
	PrimitiveLine
	PrimitiveLineStrip
	PrimitiveTriangle
	PrimitiveTriangleStrip
	PrimitiveTriangleFan
	PrimitivePatch
)

var topologyTable = map[Primitive]vk.PrimitiveTopology{
	PrimitivePoint:         vk.PrimitiveTopologyPointList,
	PrimitiveLine:          vk.PrimitiveTopologyLineList,
	PrimitiveLineStrip:     vk.PrimitiveTopologyLineStrip,
	PrimitiveTriangle:      vk.PrimitiveTopologyTriangleList,
	PrimitiveTriangleStrip: vk.PrimitiveTopologyTriangleStrip,
	PrimitiveTriangleFan:   vk.PrimitiveTopologyTriangleFan,
	PrimitivePatch:         vk.PrimitiveTopologyPatchList,
}

// InputAssembly maps an abstract primitive plus primitive-restart flag
// onto the native create-info.
type InputAssembly struct {
	Topology        Primitive
	PrimitiveRestart bool
}

func (a InputAssembly) native() vk.PipelineInputAssemblyStateCreateInfo {
	restart := vk.False
	if a.PrimitiveRestart {
		restart = vk.True
	}
	return vk.PipelineInputAssemblyStateCreateInfo{
		SType:                  vk.StructureTypePipelineInputAssemblyStateCreateInfo,
		Topology:               topologyTable[a.Topology],
		PrimitiveRestartEnable: restart,
	}
}

// VertexInput is the list of bindings and attributes a pipeline reads
// its vertex data through.
type VertexInput struct {
	Bindings   []vk.VertexInputBindingDescription
	Attributes []vk.VertexInputAttributeDescription
}

// Add derives one binding plus its attributes from a compound vertex
// layout at bindingIndex, appending them to the VertexInput.
func (v *VertexInput) Add(bindingIndex uint32, layout mesh.VertexLayout, rate vk.VertexInputRate) error {
	format, err := layout.Format()
	if err != nil {
		return err
	}
	v.Bindings = append(v.Bindings, vk.VertexInputBindingDescription{
		Binding:   bindingIndex,
		Stride:    uint32(layout.Stride()),
		InputRate: rate,
	})
	offset := uint32(0)
	for i, comp := range layout.Components {
		fmtOfComp := format[i]
		v.Attributes = append(v.Attributes, vk.VertexInputAttributeDescription{
			Binding:  bindingIndex,
			Location: uint32(len(v.Attributes)),
			Format:   fmtOfComp,
			Offset:   offset,
		})
		offset += uint32(comp.Size())
	}
	return nil
}

func (v VertexInput) native() vk.PipelineVertexInputStateCreateInfo {
	info := vk.PipelineVertexInputStateCreateInfo{
		SType:                           vk.StructureTypePipelineVertexInputStateCreateInfo,
		VertexBindingDescriptionCount:   uint32(len(v.Bindings)),
		VertexAttributeDescriptionCount: uint32(len(v.Attributes)),
	}
	if len(v.Bindings) > 0 {
		info.PVertexBindingDescriptions = v.Bindings
	}
	if len(v.Attributes) > 0 {
		info.PVertexAttributeDescriptions = v.Attributes
	}
	return info
}

// Rasterizer mirrors the native rasterization state with spec-documented
// defaults (no depth clamp, fill mode, no cull, clockwise front face,
// line width 1).
type Rasterizer struct {
	CullMode   vk.CullModeFlagBits
	FrontFace  vk.FrontFace
	PolygonMode vk.PolygonMode
	LineWidth  float32
}

// DefaultRasterizer returns the teacher's triangle-demo defaults,
// generalized as the library default.
func DefaultRasterizer() Rasterizer {
	return Rasterizer{CullMode: vk.CullModeNone, FrontFace: vk.FrontFaceClockwise, PolygonMode: vk.PolygonModeFill, LineWidth: 1.0}
}

func (r Rasterizer) native() vk.PipelineRasterizationStateCreateInfo {
	return vk.PipelineRasterizationStateCreateInfo{
		SType:       vk.StructureTypePipelineRasterizationStateCreateInfo,
		PolygonMode: r.PolygonMode,
		CullMode:    vk.CullModeFlags(r.CullMode),
		FrontFace:   r.FrontFace,
		LineWidth:   r.LineWidth,
	}
}

// DepthStencil mirrors the native depth/stencil state.
type DepthStencil struct {
	TestEnable  bool
	WriteEnable bool
	CompareOp   vk.CompareOp
}

func (d DepthStencil) native() vk.PipelineDepthStencilStateCreateInfo {
	return vk.PipelineDepthStencilStateCreateInfo{
		SType:            vk.StructureTypePipelineDepthStencilStateCreateInfo,
		DepthTestEnable:  boolTo(d.TestEnable),
		DepthWriteEnable: boolTo(d.WriteEnable),
		DepthCompareOp:   d.CompareOp,
	}
}

func boolTo(b bool) vk.Bool32 {
	if b {
		return vk.True
	}
	return vk.False
}

// ColorBlend mirrors one color-blend-attachment state; BlendEnable
// false writes the masked channels through unmodified, the teacher's
// default.
type ColorBlend struct {
	BlendEnable bool
	WriteMask   vk.ColorComponentFlagBits
}

// DefaultColorBlend returns the teacher's no-blend, RGBA-write default.
func DefaultColorBlend() ColorBlend {
	return ColorBlend{WriteMask: vk.ColorComponentRBit | vk.ColorComponentGBit | vk.ColorComponentBBit | vk.ColorComponentABit}
}

func (c ColorBlend) native() vk.PipelineColorBlendAttachmentState {
	return vk.PipelineColorBlendAttachmentState{
		BlendEnable:  boolTo(c.BlendEnable),
		ColorWriteMask: vk.ColorComponentFlags(c.WriteMask),
	}
}

// Tesselation is optional; a zero PatchControlPoints omits the
// descriptor entirely.
type Tesselation struct {
	PatchControlPoints uint32
}

// Layout composes ordered descriptor-set layouts and push-constant
// ranges into a vk.PipelineLayout.
type Layout struct {
	SetLayouts      []vk.DescriptorSetLayout
	PushConstants   []vk.PushConstantRange
}

func (l Layout) Build(dev vk.Device) (vk.PipelineLayout, error) {
	var handle vk.PipelineLayout
	info := vk.PipelineLayoutCreateInfo{
		SType:                  vk.StructureTypePipelineLayoutCreateInfo,
		SetLayoutCount:         uint32(len(l.SetLayouts)),
		PushConstantRangeCount: uint32(len(l.PushConstants)),
	}
	if len(l.SetLayouts) > 0 {
		info.PSetLayouts = l.SetLayouts
	}
	if len(l.PushConstants) > 0 {
		info.PPushConstantRanges = l.PushConstants
	}
	ret := vk.CreatePipelineLayout(dev, &info, nil, &handle)
	if err := vkerr.Result("vkCreatePipelineLayout", ret); err != nil {
		return vk.NullPipelineLayout, err
	}
	return handle, nil
}

// Stage is a shader-stage enumeration value.
type Stage int

const (
	StageVertex Stage = iota
	StageFragment
	StageCompute
	StageGeometry
	StageTessControl
	StageTessEval
)

var stageFlagTable = map[Stage]vk.ShaderStageFlagBits{
	StageVertex:      vk.ShaderStageVertexBit,
	StageFragment:    vk.ShaderStageFragmentBit,
	StageCompute:     vk.ShaderStageComputeBit,
	StageGeometry:    vk.ShaderStageGeometryBit,
	StageTessControl: vk.ShaderStageTessellationControlBit,
	StageTessEval:    vk.ShaderStageTessellationEvaluationBit,
}

// Module wraps one shader-stage module: its vk.ShaderModule handle
// (created from SPIR-V by LoadModule), entry point, and stage.
type Module struct {
	Stage      Stage
	Handle     vk.ShaderModule
	EntryPoint string
}

func (m Module) native() vk.PipelineShaderStageCreateInfo {
	entry := m.EntryPoint
	if entry == "" {
		entry = "main"
	}
	return vk.PipelineShaderStageCreateInfo{
		SType:  vk.StructureTypePipelineShaderStageCreateInfo,
		Stage:  stageFlagTable[m.Stage],
		Module: m.Handle,
		PName:  entry + "\x00",
	}
}

// LoadModule creates a vk.ShaderModule from SPIR-V bytecode, grounded on
// the teacher's shader.go.LoadShaderModule ReadFile+sliceUint32+Create
// sequence (here the caller supplies the bytes directly rather than a
// path, since file I/O is out of this package's scope).
func LoadModule(dev vk.Device, code []uint32, stage Stage, entryPoint string) (Module, error) {
	var handle vk.ShaderModule
	ret := vk.CreateShaderModule(dev, &vk.ShaderModuleCreateInfo{
		SType:    vk.StructureTypeShaderModuleCreateInfo,
		CodeSize: uint(len(code) * 4),
		PCode:    code,
	}, nil, &handle)
	if err := vkerr.Result("vkCreateShaderModule", ret); err != nil {
		return Module{}, err
	}
	return Module{Stage: stage, Handle: handle, EntryPoint: entryPoint}, nil
}

// Viewport pairs one viewport with its matching scissor rectangle. Spec
// §4.8 invariant: the viewport and scissor lists must have equal,
// nonzero length.
type Viewport struct {
	Viewports []vk.Viewport
	Scissors  []vk.Rect2D
}

func (v Viewport) native() (vk.PipelineViewportStateCreateInfo, error) {
	if len(v.Viewports) == 0 || len(v.Scissors) == 0 || len(v.Viewports) != len(v.Scissors) {
		return vk.PipelineViewportStateCreateInfo{}, vkerr.NewInteropError("viewport/scissor lists must be equal length and nonzero")
	}
	return vk.PipelineViewportStateCreateInfo{
		SType:         vk.StructureTypePipelineViewportStateCreateInfo,
		ViewportCount: uint32(len(v.Viewports)),
		PViewports:    v.Viewports,
		ScissorCount:  uint32(len(v.Scissors)),
		PScissors:     v.Scissors,
	}, nil
}

// Builder composes the fixed-function sub-builders plus programmable
// stages into one graphics pipeline.
type Builder struct {
	Stages        []Module
	VertexInput   VertexInput
	InputAssembly InputAssembly
	Viewport      Viewport
	Rasterizer    Rasterizer
	Multisample   vk.SampleCountFlagBits
	DepthStencil  *DepthStencil
	ColorBlend    ColorBlend
	Tesselation   *Tesselation
	Layout        vk.PipelineLayout
	RenderPass    vk.RenderPass
	Subpass       uint32
}

// Build assembles and creates the graphics pipeline. VERTEX stage is
// mandatory.
func (b Builder) Build(dev vk.Device) (vk.Pipeline, error) {
	hasVertex := false
	stages := make([]vk.PipelineShaderStageCreateInfo, len(b.Stages))
	for i, s := range b.Stages {
		if s.Stage == StageVertex {
			hasVertex = true
		}
		stages[i] = s.native()
	}
	if !hasVertex {
		return vk.NullPipeline, vkerr.NewInteropError("pipeline requires a VERTEX stage")
	}

	viewportState, err := b.Viewport.native()
	if err != nil {
		return vk.NullPipeline, err
	}

	samples := b.Multisample
	if samples == 0 {
		samples = vk.SampleCount1Bit
	}
	multisample := vk.PipelineMultisampleStateCreateInfo{
		SType:                vk.StructureTypePipelineMultisampleStateCreateInfo,
		RasterizationSamples: samples,
		MinSampleShading:     1.0,
	}

	colorAttachment := b.ColorBlend.native()
	blendState := vk.PipelineColorBlendStateCreateInfo{
		SType:           vk.StructureTypePipelineColorBlendStateCreateInfo,
		LogicOp:         vk.LogicOpCopy,
		AttachmentCount: 1,
		PAttachments:    []vk.PipelineColorBlendAttachmentState{colorAttachment},
	}

	vertexInput := b.VertexInput.native()
	inputAssembly := b.InputAssembly.native()
	rasterizer := b.Rasterizer.native()

	info := vk.GraphicsPipelineCreateInfo{
		SType:               vk.StructureTypeGraphicsPipelineCreateInfo,
		StageCount:          uint32(len(stages)),
		PStages:             stages,
		PVertexInputState:   &vertexInput,
		PInputAssemblyState: &inputAssembly,
		PViewportState:      &viewportState,
		PRasterizationState: &rasterizer,
		PMultisampleState:   &multisample,
		PColorBlendState:    &blendState,
		Layout:              b.Layout,
		RenderPass:          b.RenderPass,
		Subpass:             b.Subpass,
	}
	if b.DepthStencil != nil {
		ds := b.DepthStencil.native()
		info.PDepthStencilState = &ds
	}
	if b.Tesselation != nil && b.Tesselation.PatchControlPoints > 0 {
		info.PTessellationState = &vk.PipelineTessellationStateCreateInfo{
			SType:              vk.StructureTypePipelineTessellationStateCreateInfo,
			PatchControlPoints: b.Tesselation.PatchControlPoints,
		}
	}

	pipelines := []vk.Pipeline{vk.NullPipeline}
	ret := vk.CreateGraphicsPipelines(dev, vk.NullPipelineCache, 1, []vk.GraphicsPipelineCreateInfo{info}, nil, pipelines)
	if err := vkerr.Result("vkCreateGraphicsPipelines", ret); err != nil {
		return vk.NullPipeline, err
	}
	return pipelines[0], nil
}
