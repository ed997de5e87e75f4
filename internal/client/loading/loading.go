// Package loading is the app-wide "something is happening" indicator.
//
// It is a single shared flag, not a counter: a second Start overwrites the
// first caller's message and progress, and any Stop turns the indicator off
// for everyone. Nested or overlapping loading scopes are not supported.
package loading

import (
	"context"
	"slices"
	"sync"
)

// State is a snapshot of the indicator. Progress is in [0,100] and only
// meaningful while Active.
type State struct {
	Active   bool
	Message  string
	Progress int
}

// Orchestrator owns the indicator state. It is safe for concurrent use;
// listeners are called outside the lock, in registration order.
type Orchestrator struct {
	mu        sync.Mutex
	state     State
	listeners map[int]func(State)
	order     []int
	nextID    int
}

func New() *Orchestrator {
	return &Orchestrator{listeners: map[int]func(State){}}
}

// Subscribe registers fn to receive every state change. The returned func
// removes it.
func (o *Orchestrator) Subscribe(fn func(State)) (unsubscribe func()) {
	o.mu.Lock()
	defer o.mu.Unlock()

	id := o.nextID
	o.nextID++
	o.listeners[id] = fn
	o.order = append(o.order, id)

	return func() {
		o.mu.Lock()
		defer o.mu.Unlock()
		delete(o.listeners, id)
		o.order = slices.DeleteFunc(o.order, func(v int) bool { return v == id })
	}
}

func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// update applies fn under the lock and, if it reports a change, notifies
// listeners with the new snapshot.
func (o *Orchestrator) update(fn func(s *State) bool) {
	o.mu.Lock()
	if !fn(&o.state) {
		o.mu.Unlock()
		return
	}
	snapshot := o.state
	fns := make([]func(State), 0, len(o.listeners))
	for _, id := range o.order {
		if l, ok := o.listeners[id]; ok {
			fns = append(fns, l)
		}
	}
	o.mu.Unlock()

	for _, l := range fns {
		l(snapshot)
	}
}

func (o *Orchestrator) Start(message string) {
	o.update(func(s *State) bool {
		*s = State{Active: true, Message: message, Progress: 0}
		return true
	})
}

// UpdateProgress clamps value to [0,100]. It is ignored while inactive.
func (o *Orchestrator) UpdateProgress(value int) {
	value = min(max(value, 0), 100)
	o.update(func(s *State) bool {
		if !s.Active {
			return false
		}
		s.Progress = value
		return true
	})
}

// UpdateMessage replaces the message. It is ignored while inactive.
func (o *Orchestrator) UpdateMessage(message string) {
	o.update(func(s *State) bool {
		if !s.Active {
			return false
		}
		s.Message = message
		return true
	})
}

func (o *Orchestrator) Stop() {
	o.update(func(s *State) bool {
		*s = State{}
		return true
	})
}

// WithLoading starts the indicator, runs action and stops the indicator
// whether action returns an error or panics. action's error is returned as is.
func (o *Orchestrator) WithLoading(ctx context.Context, message string, action func(ctx context.Context) error) error {
	o.Start(message)
	defer o.Stop()
	return action(ctx)
}

// Progress is handed to multi-step actions so they can report granular
// progress on the shared indicator.
type Progress interface {
	UpdateProgress(value int)
	UpdateMessage(message string)
}

type ProgressOptions struct {
	Message string
}

// WithLoadingAndProgress is WithLoading for multi-step actions. On success it
// forces the progress to 100 before stopping.
func (o *Orchestrator) WithLoadingAndProgress(ctx context.Context, opts ProgressOptions, action func(ctx context.Context, p Progress) error) error {
	o.Start(opts.Message)
	defer o.Stop()

	if err := action(ctx, o); err != nil {
		return err
	}
	o.UpdateProgress(100)
	return nil
}
