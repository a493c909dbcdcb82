package client

import (
	"context"
	"sync"
)

// Status is the lifecycle of a Fetcher.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "idle"
	}
}

// State is a snapshot of a Fetcher. Data is only meaningful in StatusSuccess
// and Err only in StatusError.
type State[T any] struct {
	Status Status
	Key    string
	Data   T
	Err    error
}

func (s State[T]) Loading() bool { return s.Status == StatusLoading }

// FetchFunc performs one request. It must honour ctx cancellation.
type FetchFunc[T any] func(ctx context.Context) (T, error)

// Fetcher runs at most one request per key and exposes its outcome as State.
// Starting a request for a new key cancels the one in flight, and a response
// from a superseded request never reaches State.
type Fetcher[T any] struct {
	mu       sync.Mutex
	gen      uint64
	cancel   context.CancelFunc
	done     chan struct{}
	state    State[T]
	onChange func(State[T])
}

// NewFetcher returns an idle Fetcher. onChange, if set, is called with every
// new state in order. It runs under the Fetcher's lock and must not call back
// into the Fetcher.
func NewFetcher[T any](onChange func(State[T])) *Fetcher[T] {
	done := make(chan struct{})
	close(done)
	return &Fetcher[T]{done: done, onChange: onChange}
}

func (f *Fetcher[T]) State() State[T] {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Fetch starts fn for key unless key is already the current request. The
// returned channel is closed once that request has returned, whether or not
// it was still current.
func (f *Fetcher[T]) Fetch(ctx context.Context, key string, fn FetchFunc[T]) <-chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state.Status != StatusIdle && f.state.Key == key {
		return f.done
	}
	return f.start(ctx, key, fn)
}

// Reload starts fn for key even if key is current.
func (f *Fetcher[T]) Reload(ctx context.Context, key string, fn FetchFunc[T]) <-chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.start(ctx, key, fn)
}

func (f *Fetcher[T]) start(ctx context.Context, key string, fn FetchFunc[T]) <-chan struct{} {
	reqCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	if f.cancel != nil {
		f.cancel()
	}
	f.gen++
	gen := f.gen
	f.cancel = cancel
	f.done = done
	// Data from the previous key is not carried over.
	f.setState(State[T]{Status: StatusLoading, Key: key})

	go func() {
		data, err := fn(reqCtx)
		f.settle(gen, done, data, err)
	}()
	return done
}

func (f *Fetcher[T]) settle(gen uint64, done chan struct{}, data T, err error) {
	defer close(done)

	f.mu.Lock()
	defer f.mu.Unlock()
	if gen != f.gen {
		return
	}
	f.cancel()
	f.cancel = nil
	if err != nil {
		f.setState(State[T]{Status: StatusError, Key: f.state.Key, Err: err})
	} else {
		f.setState(State[T]{Status: StatusSuccess, Key: f.state.Key, Data: data})
	}
}

// Cancel aborts the request in flight, if any, and returns to idle.
func (f *Fetcher[T]) Cancel() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cancel == nil {
		return
	}
	f.cancel()
	f.cancel = nil
	f.gen++
	f.setState(State[T]{})
}

// setState must be called with f.mu held.
func (f *Fetcher[T]) setState(st State[T]) {
	f.state = st
	if f.onChange != nil {
		f.onChange(st)
	}
}
