// Package capture records rendered frames to a zstd-compressed stream and
// reads them back.
//
// A capture is a single zstd stream holding one JSON header line followed
// by raw frames, each Width*Height big-endian RGB565 pixels.
package capture

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"

	"voxel-flyer/internal/profiling"
	"voxel-flyer/internal/render"
)

const (
	Magic  = "VXF1"
	Format = "rgb565be"
)

var ErrBadHeader = errors.New("capture: bad header")

type Header struct {
	Magic  string `json:"magic"`
	Format string `json:"format"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Recorder is a render.Sink that appends every presented frame to the
// capture before handing it to the wrapped sink.
type Recorder struct {
	inner  render.Sink
	f      *os.File // nil when writing to a caller-owned io.Writer
	enc    *zstd.Encoder
	w      *bufio.Writer
	frames int
}

// Create opens path for writing and records frames presented to inner.
func Create(path string, inner render.Sink) (*Recorder, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, err
	}
	r, err := NewRecorder(f, inner)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	r.f = f
	return r, nil
}

// NewRecorder writes the capture header to w. The caller keeps ownership
// of w; Close only flushes the compressed stream.
func NewRecorder(w io.Writer, inner render.Sink) (*Recorder, error) {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		return nil, err
	}
	r := &Recorder{inner: inner, enc: enc, w: bufio.NewWriterSize(enc, 128*1024)}

	buf := inner.Buffer()
	hb, _ := json.Marshal(Header{Magic: Magic, Format: Format, Width: buf.Width(), Height: buf.Height()})
	if _, err := r.w.Write(hb); err != nil {
		_ = enc.Close()
		return nil, err
	}
	if err := r.w.WriteByte('\n'); err != nil {
		_ = enc.Close()
		return nil, err
	}
	return r, nil
}

func (r *Recorder) Buffer() *render.PixelBuffer { return r.inner.Buffer() }

func (r *Recorder) Present() error {
	if r.w == nil {
		return errors.New("capture: recorder closed")
	}
	stop := profiling.Track("capture.Write")
	_, err := r.w.Write(r.inner.Buffer().Pix)
	stop()
	if err != nil {
		return fmt.Errorf("write frame %d: %w", r.frames, err)
	}
	r.frames++
	return r.inner.Present()
}

// Frames returns how many frames have been recorded.
func (r *Recorder) Frames() int { return r.frames }

func (r *Recorder) Close() error {
	if r.w == nil {
		return nil
	}
	err := r.w.Flush()
	if cerr := r.enc.Close(); err == nil {
		err = cerr
	}
	if r.f != nil {
		if cerr := r.f.Close(); err == nil {
			err = cerr
		}
		r.f = nil
	}
	r.w = nil
	r.enc = nil
	return err
}

// Reader decodes frames from a capture stream.
type Reader struct {
	dec    *zstd.Decoder
	br     *bufio.Reader
	header Header
}

func NewReader(src io.Reader) (*Reader, error) {
	dec, err := zstd.NewReader(src)
	if err != nil {
		return nil, err
	}
	br := bufio.NewReaderSize(dec, 128*1024)

	line, err := br.ReadBytes('\n')
	if err != nil {
		dec.Close()
		return nil, fmt.Errorf("%w: %v", ErrBadHeader, err)
	}
	var h Header
	if err := json.Unmarshal(line, &h); err != nil {
		dec.Close()
		return nil, fmt.Errorf("%w: %v", ErrBadHeader, err)
	}
	if h.Magic != Magic || h.Format != Format || h.Width <= 0 || h.Height <= 0 {
		dec.Close()
		return nil, fmt.Errorf("%w: %+v", ErrBadHeader, h)
	}
	return &Reader{dec: dec, br: br, header: h}, nil
}

func (r *Reader) Header() Header { return r.header }

// Next fills dst with the next frame. dst must match the header size.
// It returns io.EOF after the last complete frame.
func (r *Reader) Next(dst *render.PixelBuffer) error {
	if dst.Width() != r.header.Width || dst.Height() != r.header.Height {
		return fmt.Errorf("capture: frame is %dx%d, buffer is %dx%d",
			r.header.Width, r.header.Height, dst.Width(), dst.Height())
	}
	_, err := io.ReadFull(r.br, dst.Pix)
	if errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("capture: truncated frame: %w", err)
	}
	return err
}

func (r *Reader) Close() { r.dec.Close() }

// ReadFrames loads every frame of the capture at path.
func ReadFrames(path string) ([]*render.PixelBuffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r, err := NewReader(f)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var frames []*render.PixelBuffer
	h := r.Header()
	for {
		buf := render.NewPixelBuffer(h.Width, h.Height)
		err := r.Next(buf)
		if errors.Is(err, io.EOF) {
			return frames, nil
		}
		if err != nil {
			return frames, err
		}
		frames = append(frames, buf)
	}
}
