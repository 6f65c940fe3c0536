package device

import (
	"context"
	"io"
	"os"
)

// ReaderSource adapts any reader factory, such as a recorded capture or a pipe.
type ReaderSource struct {
	name string
	open func(ctx context.Context) (io.Reader, error)
}

func NewReaderSource(name string, open func(ctx context.Context) (io.Reader, error)) *ReaderSource {
	return &ReaderSource{name: name, open: open}
}

// NewFileSource replays raw frame bytes from a file.
func NewFileSource(path string) *ReaderSource {
	return NewReaderSource("file:"+path, func(context.Context) (io.Reader, error) {
		return os.Open(path)
	})
}

func (r *ReaderSource) Name() string { return r.name }

func (r *ReaderSource) Open(ctx context.Context) (io.ReadCloser, error) {
	rd, err := r.open(ctx)
	if err != nil {
		return nil, err
	}
	if rc, ok := rd.(io.ReadCloser); ok {
		return rc, nil
	}
	return io.NopCloser(rd), nil
}
