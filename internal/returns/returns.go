// Package returns interprets what route handlers return.
package returns

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/zjrosen/slotmenu/internal/host"
	"github.com/zjrosen/slotmenu/internal/log"
)

// ErrUnknownReturnType is returned for a result type with no action.
var ErrUnknownReturnType = errors.New("unknown handler return type")

// Target is what built-in actions act on; the session manager implements it.
type Target interface {
	CloseView(ctx context.Context, player host.PlayerID) error
	SendMessage(player host.PlayerID, text string)
	OpenView(ctx context.Context, player host.PlayerID, name string, model any) error
}

// Close closes the player's current view.
type Close struct{}

// Message sends Text to the player.
type Message struct {
	Text string
}

// Redirect opens the view registered under View with Model.
type Redirect struct {
	View  string
	Model any
}

// Call is one handler result to interpret.
type Call struct {
	Context context.Context
	Player  host.PlayerID
	Target  Target
}

// Action handles one result value.
type Action func(call Call, result reflect.Value) error

// Registry maps result types to actions.
type Registry struct {
	mu      sync.RWMutex
	actions map[reflect.Type]Action
}

var errorType = reflect.TypeFor[error]()

// NewRegistry creates a registry with the built-in actions.
func NewRegistry() *Registry {
	r := &Registry{actions: make(map[reflect.Type]Action)}
	r.Register(reflect.TypeFor[Close](), func(call Call, _ reflect.Value) error {
		if call.Target == nil {
			return nil
		}
		return call.Target.CloseView(call.ctx(), call.Player)
	})
	r.Register(reflect.TypeFor[Message](), func(call Call, v reflect.Value) error {
		if call.Target != nil {
			call.Target.SendMessage(call.Player, v.Interface().(Message).Text)
		}
		return nil
	})
	r.Register(reflect.TypeFor[Redirect](), func(call Call, v reflect.Value) error {
		if call.Target == nil {
			return nil
		}
		rd := v.Interface().(Redirect)
		return call.Target.OpenView(call.ctx(), call.Player, rd.View, rd.Model)
	})
	return r
}

func (c Call) ctx() context.Context {
	if c.Context == nil {
		return context.Background()
	}
	return c.Context
}

// Register sets the action for t, replacing any earlier one.
func (r *Registry) Register(t reflect.Type, a Action) {
	r.mu.Lock()
	r.actions[t] = a
	r.mu.Unlock()
	log.Debug(log.CatReturns, "return action registered", "type", t.String())
}

// Check verifies that fn's results can be handled: none, one handled
// type, an error, or a handled type followed by an error.
func (r *Registry) Check(fn reflect.Type) error {
	out := fn.NumOut()
	switch {
	case out == 0:
		return nil
	case out > 2:
		return fmt.Errorf("%w: %d results", ErrUnknownReturnType, out)
	case out == 2 && fn.Out(1) != errorType:
		return fmt.Errorf("%w: second result must be error, got %s", ErrUnknownReturnType, fn.Out(1))
	}
	first := fn.Out(0)
	if out == 1 && first == errorType {
		return nil
	}
	if !r.known(first) {
		return fmt.Errorf("%w: %s", ErrUnknownReturnType, first)
	}
	return nil
}

func (r *Registry) known(t reflect.Type) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.actions[t]
	return ok
}

// Handle interprets the results of one handler call. A non-nil trailing
// error is returned as is, before any action runs.
func (r *Registry) Handle(call Call, results []reflect.Value) error {
	if len(results) == 0 {
		return nil
	}
	last := results[len(results)-1]
	if last.Type() == errorType {
		if !last.IsNil() {
			return last.Interface().(error)
		}
		results = results[:len(results)-1]
	}
	if len(results) == 0 {
		return nil
	}

	res := results[0]
	r.mu.RLock()
	action, ok := r.actions[res.Type()]
	r.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownReturnType, res.Type())
	}
	if err := action(call, res); err != nil {
		return fmt.Errorf("return action %s: %w", res.Type(), err)
	}
	return nil
}
