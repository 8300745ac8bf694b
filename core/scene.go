package core

import (
	"slices"

	"github.com/gekko3d/boxannot/geom"
)

// Scene is the set of renderables drawn each frame.
type Scene interface {
	Add(r Renderable)
	Remove(r Renderable)
	RenderFrame(cam *Camera, rect geom.PixelRect)
}

// FrameRenderer draws one viewport's worth of renderables into the pixel
// rectangle rect of the shared surface.
type FrameRenderer interface {
	DrawViewport(cam *Camera, rect geom.PixelRect, items []Renderable)
}

type bounded interface {
	BoundingRadius() float32
}

// RenderList is an ordered Scene. Insertion order is draw order.
type RenderList struct {
	Objects  []Renderable
	renderer FrameRenderer
}

func NewRenderList(renderer FrameRenderer) *RenderList {
	return &RenderList{renderer: renderer}
}

func (s *RenderList) SetRenderer(renderer FrameRenderer) {
	s.renderer = renderer
}

func (s *RenderList) Add(r Renderable) {
	if r == nil || s.Contains(r) {
		return
	}
	s.Objects = append(s.Objects, r)
}

func (s *RenderList) Remove(r Renderable) {
	s.Objects = slices.DeleteFunc(s.Objects, func(o Renderable) bool { return o == r })
}

func (s *RenderList) Contains(r Renderable) bool {
	return slices.Contains(s.Objects, r)
}

// Visible returns the renderables whose bounds intersect the camera frustum.
// Renderables without bounds are always kept.
func (s *RenderList) Visible(cam *Camera) []Renderable {
	planes := cam.Frustum()
	visible := make([]Renderable, 0, len(s.Objects))
	for _, obj := range s.Objects {
		if b, ok := obj.(bounded); ok {
			if !SphereVisible(planes, obj.Transform().Position, b.BoundingRadius()) {
				continue
			}
		}
		visible = append(visible, obj)
	}
	return visible
}

func (s *RenderList) RenderFrame(cam *Camera, rect geom.PixelRect) {
	if s.renderer == nil || cam == nil {
		return
	}
	s.renderer.DrawViewport(cam, rect, s.Visible(cam))
}
