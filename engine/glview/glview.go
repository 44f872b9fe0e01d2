// Package glview draws scene markers as wireframe boxes with plain OpenGL 4.1, using the
// camera's MVP matrix as the only transform uniform.
package glview

import (
	"fmt"
	"strings"

	"github.com/bloxown/bo3-camera/engine/camera"
	"github.com/bloxown/bo3-camera/engine/scene"
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	vertexShaderSource = `
		#version 410
		in vec3 vp;
		uniform mat4 mvp;
		void main() {
			gl_Position = mvp * vec4(vp, 1.0);
		}
	` + "\x00"

	fragmentShaderSource = `
		#version 410
		uniform vec4 colour;
		out vec4 frag_colour;
		void main() {
			frag_colour = colour;
		}
	` + "\x00"
)

var (
	cubeVertices = []float32{
		// bottom (z = -0.5)
		-0.5, -0.5, -0.5,
		0.5, -0.5, -0.5,
		0.5, 0.5, -0.5,
		-0.5, 0.5, -0.5,
		// top (z = 0.5)
		-0.5, -0.5, 0.5,
		0.5, -0.5, 0.5,
		0.5, 0.5, 0.5,
		-0.5, 0.5, 0.5,
	}

	cubeIndices = []uint32{
		0, 1, 1, 2, 2, 3, 3, 0, // bottom
		4, 5, 5, 6, 6, 7, 7, 4, // top
		0, 4, 1, 5, 2, 6, 3, 7, // sides
	}
)

// View owns the GL program and cube buffers. It must be created and used on the
// thread that holds the GL context, after gl.Init.
type View struct {
	program uint32
	vao     uint32
	vbo     uint32
	ebo     uint32

	mvpUniform    int32
	colourUniform int32
}

func New() (*View, error) {
	program, err := newProgram(vertexShaderSource, fragmentShaderSource)
	if err != nil {
		return nil, err
	}
	v := &View{
		program:       program,
		mvpUniform:    gl.GetUniformLocation(program, gl.Str("mvp\x00")),
		colourUniform: gl.GetUniformLocation(program, gl.Str("colour\x00")),
	}

	gl.GenVertexArrays(1, &v.vao)
	gl.BindVertexArray(v.vao)

	gl.GenBuffers(1, &v.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, v.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(cubeVertices)*4, gl.Ptr(cubeVertices), gl.STATIC_DRAW)

	gl.GenBuffers(1, &v.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, v.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(cubeIndices)*4, gl.Ptr(cubeIndices), gl.STATIC_DRAW)

	vertAttrib := uint32(gl.GetAttribLocation(program, gl.Str("vp\x00")))
	gl.EnableVertexAttribArray(vertAttrib)
	gl.VertexAttribPointer(vertAttrib, 3, gl.FLOAT, false, 0, gl.PtrOffset(0))

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.ClearColor(0.1, 0.1, 0.1, 1.0)
	return v, nil
}

// Draw clears the framebuffer and draws every marker of scn through cam.
func (v *View) Draw(cam *camera.Camera3D, scn *scene.Scene, width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	gl.UseProgram(v.program)
	gl.BindVertexArray(v.vao)

	mvp := cam.RefreshMVPMatrix(float32(width), float32(height))
	for _, m := range scn.Markers() {
		model := MarkerModel(m)
		full := mvp.Mul4(model)
		gl.UniformMatrix4fv(v.mvpUniform, 1, false, &full[0])
		gl.Uniform4fv(v.colourUniform, 1, &m.Color[0])
		gl.DrawElements(gl.LINES, int32(len(cubeIndices)), gl.UNSIGNED_INT, gl.PtrOffset(0))
	}
}

// Delete frees the GL objects.
func (v *View) Delete() {
	gl.DeleteBuffers(1, &v.ebo)
	gl.DeleteBuffers(1, &v.vbo)
	gl.DeleteVertexArrays(1, &v.vao)
	gl.DeleteProgram(v.program)
}

// MarkerModel places the unit cube at the marker's position and size.
func MarkerModel(m scene.Marker) mgl32.Mat4 {
	return mgl32.Translate3D(m.Position.X(), m.Position.Y(), m.Position.Z()).
		Mul4(mgl32.Scale3D(m.Size.X(), m.Size.Y(), m.Size.Z()))
}

func newProgram(vertexShaderSource, fragmentShaderSource string) (uint32, error) {
	vertexShader, err := compileShader(vertexShaderSource, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}

	fragmentShader, err := compileShader(fragmentShaderSource, gl.FRAGMENT_SHADER)
	if err != nil {
		return 0, err
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))

		return 0, fmt.Errorf("failed to link program: %v", log)
	}

	gl.DeleteShader(vertexShader)
	gl.DeleteShader(fragmentShader)

	return program, nil
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)

	csources, free := gl.Strs(source)
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))

		return 0, fmt.Errorf("failed to compile shader: %v", log)
	}

	return shader, nil
}
