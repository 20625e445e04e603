package render

import (
	"errors"
	"io"

	"github.com/soypat/glgl/math/ms3"
)

// RenderAll reads the full contents of a Renderer and returns the slice read.
// It does not return error on io.EOF, like the io.ReadAll implementation.
func RenderAll(r Renderer) ([]ms3.Triangle, error) {
	var err error
	var nt int
	result := make([]ms3.Triangle, 0, 1<<12)
	buf := make([]ms3.Triangle, 1024)
	for err == nil {
		nt, err = r.ReadTriangles(buf)
		result = append(result, buf[:nt]...)
	}
	if errors.Is(err, io.EOF) {
		return result, nil
	}
	return result, err
}

type triangleBuffer struct {
	buf []ms3.Triangle
}

// ReadTriangles drains the buffer.
func (b *triangleBuffer) ReadTriangles(t []ms3.Triangle) (int, error) {
	if len(b.buf) == 0 {
		return 0, io.EOF
	}
	n := copy(t, b.buf)
	b.buf = b.buf[n:]
	if len(b.buf) == 0 {
		return n, io.EOF
	}
	return n, nil
}
