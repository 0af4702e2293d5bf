// Package gldisplay presents frames in a glfw window through an OpenGL
// texture. All methods must be called from the main, OS-locked thread.
package gldisplay

import (
	"encoding/binary"
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	"voxel-flyer/internal/config"
	"voxel-flyer/internal/input"
	"voxel-flyer/internal/profiling"
	"voxel-flyer/internal/render"
)

type Window struct {
	window *glfw.Window
	keys   *input.KeyMap[glfw.Key]

	buf    *render.PixelBuffer
	upload []byte // buf.Pix in native byte order for UNSIGNED_SHORT_5_6_5

	program uint32
	vao     uint32
	texture uint32
}

// DefaultBindings binds arrows and A/D to rotation, Escape/Q to quit and
// H to the HUD.
func DefaultBindings(km *input.KeyMap[glfw.Key]) {
	km.Bind(glfw.KeyLeft, input.ButtonLeft)
	km.Bind(glfw.KeyA, input.ButtonLeft)
	km.Bind(glfw.KeyRight, input.ButtonRight)
	km.Bind(glfw.KeyD, input.ButtonRight)
	km.Bind(glfw.KeyEscape, input.ButtonQuit)
	km.Bind(glfw.KeyQ, input.ButtonQuit)
	km.Bind(glfw.KeyH, input.ButtonHUD)
}

// Open creates the window and GL resources. glfw.Init must have been called.
func Open(s config.DisplaySettings, im *input.InputManager) (*Window, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)

	window, err := glfw.CreateWindow(s.Width*s.Scale, s.Height*s.Scale, s.Title, nil, nil)
	if err != nil {
		return nil, err
	}
	window.MakeContextCurrent()

	// Initialize OpenGL bindings
	if err := gl.Init(); err != nil {
		window.Destroy()
		return nil, err
	}

	// Disable V-Sync; the app has its own FPS limiter
	glfw.SwapInterval(0)

	w := &Window{
		window: window,
		keys:   input.NewKeyMap[glfw.Key](im),
		buf:    render.NewPixelBuffer(s.Width, s.Height),
		upload: make([]byte, s.Width*s.Height*render.BytesPerPixel),
	}
	DefaultBindings(w.keys)

	if err := w.initGL(); err != nil {
		window.Destroy()
		return nil, err
	}

	window.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		switch action {
		case glfw.Press:
			w.keys.HandleKey(key, true)
		case glfw.Release:
			w.keys.HandleKey(key, false)
		}
	})
	return w, nil
}

func (w *Window) initGL() error {
	program, err := compileProgram(blitVertexShader, blitFragmentShader)
	if err != nil {
		return err
	}
	w.program = program

	// core profile refuses to draw without a bound VAO
	gl.GenVertexArrays(1, &w.vao)

	gl.GenTextures(1, &w.texture)
	gl.BindTexture(gl.TEXTURE_2D, w.texture)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 2)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGB8, int32(w.buf.Width()), int32(w.buf.Height()), 0,
		gl.RGB, gl.UNSIGNED_SHORT_5_6_5, nil)

	gl.UseProgram(w.program)
	gl.Uniform1i(gl.GetUniformLocation(w.program, gl.Str("frame\x00")), 0)

	if e := gl.GetError(); e != gl.NO_ERROR {
		return fmt.Errorf("gl setup error 0x%x", e)
	}
	return nil
}

func (w *Window) Buffer() *render.PixelBuffer { return w.buf }

// Present uploads the frame, draws it scaled to the framebuffer and swaps.
func (w *Window) Present() error {
	func() {
		defer profiling.Track("gl.Upload")()
		for i := 0; i < len(w.buf.Pix); i += 2 {
			v := uint16(w.buf.Pix[i])<<8 | uint16(w.buf.Pix[i+1])
			binary.NativeEndian.PutUint16(w.upload[i:], v)
		}
		gl.BindTexture(gl.TEXTURE_2D, w.texture)
		gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, int32(w.buf.Width()), int32(w.buf.Height()),
			gl.RGB, gl.UNSIGNED_SHORT_5_6_5, gl.Ptr(w.upload))
	}()

	fbw, fbh := w.window.GetFramebufferSize()
	gl.Viewport(0, 0, int32(fbw), int32(fbh))
	gl.ClearColor(0, 0, 0, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT)

	gl.UseProgram(w.program)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, w.texture)
	gl.BindVertexArray(w.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, 3)

	func() { defer profiling.Track("glfw.SwapBuffers")(); w.window.SwapBuffers() }()
	return nil
}

func (w *Window) PollEvents() { glfw.PollEvents() }

func (w *Window) ShouldClose() bool { return w.window.ShouldClose() }

// Close releases GL objects and destroys the window.
func (w *Window) Close() {
	gl.DeleteTextures(1, &w.texture)
	gl.DeleteVertexArrays(1, &w.vao)
	gl.DeleteProgram(w.program)
	w.window.Destroy()
}
