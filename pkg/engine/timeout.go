package engine

import (
	"fmt"
	"sync"
	"time"
)

// EvalTimeout is the hard limit for applying one field across all layers.
const EvalTimeout = 5 * time.Second

// applyResult is the internal type used to pass application results
// through channels.
type applyResult struct {
	failures []LayerError
	err      error
}

// waitWithTimeout waits for a result from ch, but returns a timeout error
// if the application exceeds EvalTimeout. It uses a generation counter to
// discard stale results from previous applications.
//
// On timeout, the goroutine may still be running; the generation check
// ensures its result is discarded when it eventually completes.
func waitWithTimeout(
	ch <-chan applyResult,
	gen uint64,
	mu *sync.Mutex,
	currentGen *uint64,
) ([]LayerError, error) {
	timer := time.NewTimer(EvalTimeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		mu.Lock()
		current := *currentGen
		mu.Unlock()

		if gen != current {
			// A newer application was started; discard this result.
			return nil, fmt.Errorf("evaluation superseded by newer request")
		}
		return res.failures, res.err

	case <-timer.C:
		return nil, fmt.Errorf("evaluation timed out after %s", EvalTimeout)
	}
}
