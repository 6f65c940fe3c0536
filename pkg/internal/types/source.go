package types

import (
	"context"
	"io"
)

// Source supplies the raw amplifier byte stream. Open is called once at startup and again
// after every read failure; each call returns a fresh stream.
type Source interface {
	Name() string
	Open(ctx context.Context) (io.ReadCloser, error)
}

// Publisher accepts decoded samples from the acquisition path. Publish must not block.
type Publisher interface {
	Publish(s Sample)
}
