package worker

import (
	"context"
	"sync"
)

// Result pairs one input with its outcome.
type Result[T any, R any] struct {
	Input T
	Value R
	Err   error
}

// Map runs fn over every input with up to workers goroutines and returns the
// results aligned with the input slice. Alignment is what keeps downstream
// diagnostics deterministic regardless of scheduling.
func Map[T any, R any](ctx context.Context, workers int, inputs []T, fn func(ctx context.Context, input T) (R, error)) []Result[T, R] {
	if workers < 1 {
		workers = 1
	}
	if workers > len(inputs) {
		workers = len(inputs)
	}

	results := make([]Result[T, R], len(inputs))
	indexCh := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range indexCh {
				value, err := fn(ctx, inputs[idx])
				results[idx] = Result[T, R]{Input: inputs[idx], Value: value, Err: err}
			}
		}()
	}

	for i := range inputs {
		select {
		case <-ctx.Done():
		case indexCh <- i:
			continue
		}
		break
	}
	close(indexCh)

	wg.Wait()
	return results
}
