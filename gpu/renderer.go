package gpu

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/gekko3d/boxannot/core"
	"github.com/gekko3d/boxannot/geom"
	"github.com/gekko3d/boxannot/hud"
	"github.com/gekko3d/boxannot/shaders"
)

// cameraSlotSize is the stride between per-viewport camera uniforms. It is
// the dynamic offset alignment every adapter supports.
const cameraSlotSize = 256

const cameraUniformSize = 64 // mat4x4<f32>

var clearColor = wgpu.Color{R: 0.08, G: 0.08, B: 0.1, A: 1}

// Logger is the subset of the application logger the renderer reports to.
type Logger interface {
	Debugf(format string, args ...any)
	Errorf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any) {}
func (nopLogger) Errorf(string, ...any) {}

// Renderer draws every viewport of a frame into one window surface. Calls
// between BeginFrame and EndFrame only record CPU-side data.
type Renderer struct {
	instance *wgpu.Instance
	surface  *wgpu.Surface
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue
	config   *wgpu.SurfaceConfiguration

	fillPipeline *wgpu.RenderPipeline
	linePipeline *wgpu.RenderPipeline
	cameraLayout *wgpu.BindGroupLayout

	meshBuffer *wgpu.Buffer
	meshes     [drawKindCount]meshRange

	cameraBuffer    *wgpu.Buffer
	cameraBindGroup *wgpu.BindGroup
	cameraSlots     int

	instanceBuffer *wgpu.Buffer
	instanceCap    uint32

	text *textPass

	batch  FrameBatch
	status string
	log    Logger
}

// NewRenderer opens a device on the surface described by desc. atlas may be
// nil, in which case no text is drawn.
func NewRenderer(desc *wgpu.SurfaceDescriptor, width, height int, atlas *hud.Atlas, log Logger) (*Renderer, error) {
	if log == nil {
		log = nopLogger{}
	}
	r := &Renderer{log: log}
	fail := func(err error) (*Renderer, error) {
		r.Release()
		return nil, err
	}

	r.instance = wgpu.CreateInstance(nil)
	r.surface = r.instance.CreateSurface(desc)

	var err error
	r.adapter, err = r.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: r.surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return fail(fmt.Errorf("request adapter: %w", err))
	}

	r.device, err = r.adapter.RequestDevice(&wgpu.DeviceDescriptor{Label: "Box Annotation Device"})
	if err != nil {
		return fail(fmt.Errorf("request device: %w", err))
	}
	r.queue = r.device.GetQueue()

	caps := r.surface.GetCapabilities(r.adapter)
	if len(caps.Formats) == 0 || len(caps.AlphaModes) == 0 {
		return fail(errors.New("surface reports no formats"))
	}
	r.config = &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      caps.Formats[0],
		Width:       uint32(max(width, 1)),
		Height:      uint32(max(height, 1)),
		PresentMode: wgpu.PresentModeFifo,
		AlphaMode:   caps.AlphaModes[0],
	}
	r.surface.Configure(r.adapter, r.device, r.config)

	if err := r.createShapePipelines(); err != nil {
		return fail(err)
	}
	if err := r.createMeshBuffer(); err != nil {
		return fail(err)
	}
	if atlas != nil {
		r.text, err = newTextPass(r.device, r.queue, r.config.Format, atlas)
		if err != nil {
			return fail(err)
		}
	}

	log.Debugf("renderer ready: %dx%d format %v", r.config.Width, r.config.Height, r.config.Format)
	return r, nil
}

func (r *Renderer) createShapePipelines() error {
	module, err := r.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "ShapeShader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shaders.ShapeWGSL},
	})
	if err != nil {
		return fmt.Errorf("shape shader: %w", err)
	}
	defer module.Release()

	r.cameraLayout, err = r.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "ShapeCameraBGL",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex,
				Buffer: wgpu.BufferBindingLayout{
					Type:             wgpu.BufferBindingTypeUniform,
					MinBindingSize:   cameraUniformSize,
					HasDynamicOffset: true,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("camera layout: %w", err)
	}

	layout, err := r.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		BindGroupLayouts: []*wgpu.BindGroupLayout{r.cameraLayout},
	})
	if err != nil {
		return fmt.Errorf("shape pipeline layout: %w", err)
	}
	defer layout.Release()

	r.fillPipeline, err = r.shapePipeline("ShapeFillPipeline", module, layout, wgpu.PrimitiveTopologyTriangleList)
	if err != nil {
		return fmt.Errorf("fill pipeline: %w", err)
	}
	r.linePipeline, err = r.shapePipeline("ShapeLinePipeline", module, layout, wgpu.PrimitiveTopologyLineList)
	if err != nil {
		return fmt.Errorf("line pipeline: %w", err)
	}
	return nil
}

func (r *Renderer) shapePipeline(label string, module *wgpu.ShaderModule, layout *wgpu.PipelineLayout, topology wgpu.PrimitiveTopology) (*wgpu.RenderPipeline, error) {
	return r.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  label,
		Layout: layout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: "vs_main",
			Buffers: []wgpu.VertexBufferLayout{
				{
					ArrayStride: uint64(unsafe.Sizeof(ShapeVertex{})),
					StepMode:    wgpu.VertexStepModeVertex,
					Attributes: []wgpu.VertexAttribute{
						{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
					},
				},
				{
					ArrayStride: uint64(unsafe.Sizeof(ShapeInstance{})),
					StepMode:    wgpu.VertexStepModeInstance,
					Attributes: []wgpu.VertexAttribute{
						{Format: wgpu.VertexFormatFloat32x4, Offset: 0, ShaderLocation: 2},
						{Format: wgpu.VertexFormatFloat32x4, Offset: 16, ShaderLocation: 3},
						{Format: wgpu.VertexFormatFloat32x4, Offset: 32, ShaderLocation: 4},
						{Format: wgpu.VertexFormatFloat32x4, Offset: 48, ShaderLocation: 5},
						{Format: wgpu.VertexFormatFloat32x4, Offset: 64, ShaderLocation: 6},
					},
				},
			},
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{
					Format:    r.config.Format,
					WriteMask: wgpu.ColorWriteMaskAll,
					Blend: &wgpu.BlendState{
						Color: wgpu.BlendComponent{
							Operation: wgpu.BlendOperationAdd,
							SrcFactor: wgpu.BlendFactorSrcAlpha,
							DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
						},
						Alpha: wgpu.BlendComponent{
							Operation: wgpu.BlendOperationAdd,
							SrcFactor: wgpu.BlendFactorOne,
							DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
						},
					},
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  topology,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
}

func (r *Renderer) createMeshBuffer() error {
	vertices, meshes := unitMeshes()
	r.meshes = meshes

	size := uint64(len(vertices) * int(unsafe.Sizeof(ShapeVertex{})))
	buf, err := r.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "ShapeUnitVertexBuffer",
		Size:  size,
		Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("mesh buffer: %w", err)
	}
	r.meshBuffer = buf
	r.queue.WriteBuffer(buf, 0, unsafe.Slice((*byte)(unsafe.Pointer(&vertices[0])), size))
	return nil
}

// BeginFrame starts collecting viewports and reconfigures the surface when
// the window size changed.
func (r *Renderer) BeginFrame(width, height int) {
	r.batch.Reset()
	if width <= 0 || height <= 0 {
		return
	}
	if uint32(width) != r.config.Width || uint32(height) != r.config.Height {
		r.config.Width = uint32(width)
		r.config.Height = uint32(height)
		r.surface.Configure(r.adapter, r.device, r.config)
		r.log.Debugf("surface resized to %dx%d", width, height)
	}
}

func (r *Renderer) DrawViewport(cam *core.Camera, rect geom.PixelRect, items []core.Renderable) {
	r.batch.Add(cam, rect, items)
}

func (r *Renderer) SetStatus(text string) {
	r.status = text
}

// EndFrame uploads the collected data and submits a single render pass.
func (r *Renderer) EndFrame() error {
	if err := r.uploadCameras(); err != nil {
		return err
	}
	if err := r.uploadInstances(); err != nil {
		return err
	}

	width, height := int(r.config.Width), int(r.config.Height)
	if r.text != nil {
		if err := r.text.update(hud.Overlay(r.text.atlas, r.status, width, height), width, height); err != nil {
			return err
		}
	}

	texture, err := r.surface.GetCurrentTexture()
	if err != nil {
		return fmt.Errorf("get current texture: %w", err)
	}
	defer texture.Release()

	view, err := texture.CreateView(nil)
	if err != nil {
		return fmt.Errorf("create view: %w", err)
	}
	defer view.Release()

	encoder, err := r.device.CreateCommandEncoder(nil)
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	defer encoder.Release()

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: clearColor,
		}},
	})
	r.drawViewports(pass)
	if r.text != nil {
		pass.SetViewport(0, 0, float32(width), float32(height), 0, 1)
		pass.SetScissorRect(0, 0, uint32(width), uint32(height))
		r.text.draw(pass)
	}
	if err := pass.End(); err != nil {
		return fmt.Errorf("end pass: %w", err)
	}
	pass.Release()

	cmd, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("finish encoder: %w", err)
	}
	defer cmd.Release()

	r.queue.Submit(cmd)
	r.surface.Present()
	return nil
}

func (r *Renderer) drawViewports(pass *wgpu.RenderPassEncoder) {
	if r.instanceBuffer == nil || len(r.batch.Instances) == 0 {
		return
	}
	pass.SetVertexBuffer(0, r.meshBuffer, 0, r.meshBuffer.GetSize())
	pass.SetVertexBuffer(1, r.instanceBuffer, 0, r.instanceBuffer.GetSize())

	for i, v := range r.batch.Views {
		rect, ok := clampRect(v.Rect, int(r.config.Width), int(r.config.Height))
		if !ok {
			continue
		}
		pass.SetViewport(float32(rect.X), float32(rect.Y), float32(rect.Width), float32(rect.Height), 0, 1)
		pass.SetScissorRect(uint32(rect.X), uint32(rect.Y), uint32(rect.Width), uint32(rect.Height))
		pass.SetBindGroup(0, r.cameraBindGroup, []uint32{uint32(i * cameraSlotSize)})

		for kind := drawKind(0); kind < drawKindCount; kind++ {
			instances := v.Ranges[kind]
			if instances.Count == 0 {
				continue
			}
			if kind == drawFill {
				pass.SetPipeline(r.fillPipeline)
			} else {
				pass.SetPipeline(r.linePipeline)
			}
			mesh := r.meshes[kind]
			pass.Draw(mesh.Count, instances.Count, mesh.Offset, instances.First)
		}
	}
}

func (r *Renderer) uploadCameras() error {
	views := len(r.batch.Views)
	if views == 0 {
		return nil
	}

	if r.cameraBuffer == nil || r.cameraSlots < views {
		if r.cameraBuffer != nil {
			r.cameraBuffer.Release()
		}
		if r.cameraBindGroup != nil {
			r.cameraBindGroup.Release()
		}
		r.cameraSlots = views + 4
		var err error
		r.cameraBuffer, err = r.device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: "ShapeCameraBuffer",
			Size:  uint64(r.cameraSlots * cameraSlotSize),
			Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			return fmt.Errorf("camera buffer: %w", err)
		}
		r.cameraBindGroup, err = r.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
			Label:  "ShapeCameraBG",
			Layout: r.cameraLayout,
			Entries: []wgpu.BindGroupEntry{
				{Binding: 0, Buffer: r.cameraBuffer, Size: cameraUniformSize},
			},
		})
		if err != nil {
			return fmt.Errorf("camera bind group: %w", err)
		}
	}

	data := make([]byte, views*cameraSlotSize)
	for i, v := range r.batch.Views {
		m := v.ViewProj
		copy(data[i*cameraSlotSize:], unsafe.Slice((*byte)(unsafe.Pointer(&m[0])), cameraUniformSize))
	}
	r.queue.WriteBuffer(r.cameraBuffer, 0, data)
	return nil
}

func (r *Renderer) uploadInstances() error {
	instances := r.batch.Instances
	if len(instances) == 0 {
		return nil
	}

	count := uint32(len(instances))
	sizeBytes := uint64(len(instances) * int(unsafe.Sizeof(ShapeInstance{})))

	if r.instanceBuffer == nil || r.instanceCap < count {
		if r.instanceBuffer != nil {
			r.instanceBuffer.Release()
		}
		r.instanceCap = count + 128
		var err error
		r.instanceBuffer, err = r.device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: "ShapeInstanceBuffer",
			Size:  uint64(r.instanceCap) * uint64(unsafe.Sizeof(ShapeInstance{})),
			Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			return fmt.Errorf("instance buffer: %w", err)
		}
	}

	r.queue.WriteBuffer(r.instanceBuffer, 0, unsafe.Slice((*byte)(unsafe.Pointer(&instances[0])), sizeBytes))
	return nil
}

// Release frees every GPU object owned by the renderer.
func (r *Renderer) Release() {
	if r.text != nil {
		r.text.release()
	}
	for _, b := range []*wgpu.Buffer{r.instanceBuffer, r.cameraBuffer, r.meshBuffer} {
		if b != nil {
			b.Release()
		}
	}
	if r.cameraBindGroup != nil {
		r.cameraBindGroup.Release()
	}
	if r.cameraLayout != nil {
		r.cameraLayout.Release()
	}
	for _, p := range []*wgpu.RenderPipeline{r.fillPipeline, r.linePipeline} {
		if p != nil {
			p.Release()
		}
	}
	if r.device != nil {
		r.device.Release()
	}
	if r.adapter != nil {
		r.adapter.Release()
	}
	if r.surface != nil {
		r.surface.Release()
	}
	if r.instance != nil {
		r.instance.Release()
	}
}
