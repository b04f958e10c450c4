package lazy

import (
	"fmt"
	"sync"
)

type State int

const (
	Uninitialized State = iota
	Connecting
	Ready
	Failed
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Connecting:
		return "connecting"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	}

	return fmt.Sprintf("state(%d)", int(s))
}

// Policy decides what happens to the value after init returned an error.
type Policy int

const (
	// RetryOnFailure resets the value so the next Get runs init again.
	RetryOnFailure Policy = iota
	// CacheFailure keeps the first error and returns it from every later Get.
	CacheFailure
)

type attempt[T any] struct {
	done  chan struct{}
	value T
	err   error
}

// Value holds a T that is built on first use. Only one init runs at a time and
// every caller that arrives while it runs gets that run's result.
type Value[T any] struct {
	init   func() (T, error)
	policy Policy

	mu      sync.Mutex
	state   State
	value   T
	err     error
	current *attempt[T]
}

func New[T any](init func() (T, error), policy Policy) *Value[T] {
	return &Value[T]{
		init:   init,
		policy: policy,
	}
}

func (v *Value[T]) Get() (T, error) {
	v.mu.Lock()

	switch v.state {
	case Ready:
		value := v.value
		v.mu.Unlock()
		return value, nil
	case Failed:
		if v.policy == CacheFailure {
			err := v.err
			v.mu.Unlock()
			var zero T
			return zero, err
		}
	case Connecting:
		a := v.current
		v.mu.Unlock()
		<-a.done
		return a.value, a.err
	}

	a := &attempt[T]{done: make(chan struct{})}
	v.current = a
	v.state = Connecting
	v.mu.Unlock()

	defer func() {
		if recovered := recover(); recovered != nil {
			a.err = fmt.Errorf("lazy: initialization panicked: %v", recovered)
			v.finish(a)
			panic(recovered)
		}
	}()

	a.value, a.err = v.init()
	v.finish(a)

	return a.value, a.err
}

func (v *Value[T]) finish(a *attempt[T]) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.current = nil
	if a.err != nil {
		v.state = Failed
		v.err = a.err
	} else {
		v.state = Ready
		v.value = a.value
		v.err = nil
	}

	close(a.done)
}

func (v *Value[T]) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.state
}
