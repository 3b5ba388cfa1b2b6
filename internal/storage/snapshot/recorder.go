package snapshot

import (
	"context"

	"github.com/LeJamon/goPyth/pkg/account"
	"github.com/LeJamon/goPyth/pkg/traverse"
)

// Recorder is a traverse.Loader that forwards every account it loads
// successfully to a channel, typically drained by a goroutine calling
// PutBatch.
type Recorder struct {
	loader traverse.Loader
	out    chan<- Record
}

func NewRecorder(loader traverse.Loader, out chan<- Record) *Recorder {
	return &Recorder{loader: loader, out: out}
}

// Load blocks until the record is accepted or ctx is done.
func (r *Recorder) Load(ctx context.Context, key account.Key) ([]byte, error) {
	data, err := r.loader.Load(ctx, key)
	if err != nil {
		return nil, err
	}

	select {
	case r.out <- Record{Key: key, Data: data}:
		return data, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
