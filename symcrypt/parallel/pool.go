package parallel

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

var (
	ErrLengthMismatch = errors.New("parallel: input not a multiple of the block size")
	ErrShortBuffer    = errors.New("parallel: output smaller than input")
)

// BlockFunc transforms src into dst. It is called with equal-length,
// block-aligned windows of the caller's buffers.
type BlockFunc func(dst, src []byte) error

func workerCount(workers int) int {
	if workers <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return workers
}

// Each calls fn(i) for i in [0, n) on up to workers goroutines. It stops
// scheduling new calls after the first error or when ctx is done, and returns
// that error. Once all n calls have returned nil, Each returns nil even if ctx
// was cancelled afterwards.
func Each(ctx context.Context, n, workers int, fn func(i int) error) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workerCount(workers))

	scheduled := 0
	for ; scheduled < n; scheduled++ {
		if gctx.Err() != nil {
			break
		}
		i := scheduled
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return fn(i)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if scheduled < n {
		return ctx.Err()
	}
	return nil
}

// CryptBlocks applies fn to src in block-aligned chunks and writes the result
// to the matching region of dst. blockSize is the cipher block size; len(src)
// must be a multiple of it. dst and src may be the same slice.
func CryptBlocks(ctx context.Context, fn BlockFunc, blockSize int, dst, src []byte, chunkSize, workers int) error {
	if blockSize <= 0 || len(src)%blockSize != 0 {
		return ErrLengthMismatch
	}
	if len(dst) < len(src) {
		return ErrShortBuffer
	}

	chunks := NewChunker(chunkSize, blockSize).Split(src)
	return Each(ctx, len(chunks), workers, func(i int) error {
		ch := chunks[i]
		if err := fn(dst[ch.Offset:ch.Offset+len(ch.Data)], ch.Data); err != nil {
			return fmt.Errorf("parallel: chunk %d: %w", ch.Index, err)
		}
		return nil
	})
}
