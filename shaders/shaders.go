package shaders

import (
	_ "embed"
)

//go:embed shape.wgsl
var ShapeWGSL string

//go:embed text.wgsl
var TextWGSL string
