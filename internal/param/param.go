// Package param resolves handler arguments. A Plan is computed once per
// handler when its route is registered and replayed for every event.
package param

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/zjrosen/slotmenu/internal/host"
	"github.com/zjrosen/slotmenu/internal/log"
	"github.com/zjrosen/slotmenu/internal/view"
)

var (
	// ErrUnresolvedParameter is returned when no rule accepts a parameter.
	ErrUnresolvedParameter = errors.New("unresolved handler parameter")

	// ErrAbsentValue is returned when a rule has nothing to extract for an event.
	ErrAbsentValue = errors.New("parameter value absent")

	// ErrNotFunc is returned when planning something that is not a function.
	ErrNotFunc = errors.New("handler is not a function")
)

// Request is what one dispatch knows: the event, who caused it, the view
// it happened in and the clicked pattern.
type Request struct {
	Context context.Context
	Event   host.Event
	Player  host.PlayerID
	View    *view.View
	Pattern rune
	// Slot is the clicked slot, or -1 when the event has no single slot.
	Slot int
}

// Tag annotates one handler parameter. A nil Tag means untagged.
type Tag interface {
	TagName() string
}

// Rule extracts one kind of parameter.
type Rule struct {
	Name    string
	Accepts func(t reflect.Type, tag Tag) bool
	Extract func(req *Request, t reflect.Type, tag Tag) (reflect.Value, error)
}

// Registry holds the rules consulted, in order, when planning.
type Registry struct {
	rules []Rule
}

// NewRegistry creates a registry with the built-in rules.
func NewRegistry() *Registry {
	return &Registry{rules: defaultRules()}
}

// Use puts rule ahead of every rule registered so far.
func (r *Registry) Use(rule Rule) {
	r.rules = append([]Rule{rule}, r.rules...)
	log.Debug(log.CatParam, "parameter rule registered", "rule", rule.Name)
}

// Rules returns the rule names in consultation order.
func (r *Registry) Rules() []string {
	out := make([]string, len(r.rules))
	for i, rule := range r.rules {
		out[i] = rule.Name
	}
	return out
}

type step struct {
	index int
	typ   reflect.Type
	tag   Tag
	rule  Rule
}

// Plan is the precomputed extraction for one handler signature.
type Plan struct {
	steps []step
}

// Len returns the number of parameters.
func (p *Plan) Len() int { return len(p.steps) }

// RuleNames returns the rule chosen for each parameter.
func (p *Plan) RuleNames() []string {
	out := make([]string, len(p.steps))
	for i, s := range p.steps {
		out[i] = s.rule.Name
	}
	return out
}

// Plan builds the extraction plan for function type fn. tags is
// index-aligned with fn's parameters and may be shorter.
func (r *Registry) Plan(fn reflect.Type, tags []Tag) (*Plan, error) {
	if fn == nil || fn.Kind() != reflect.Func {
		return nil, fmt.Errorf("%w: %v", ErrNotFunc, fn)
	}
	if fn.IsVariadic() {
		return nil, fmt.Errorf("%w: variadic handlers are not supported", ErrUnresolvedParameter)
	}
	if len(tags) > fn.NumIn() {
		return nil, fmt.Errorf("%w: %d tags for %d parameters", ErrUnresolvedParameter, len(tags), fn.NumIn())
	}

	plan := &Plan{steps: make([]step, fn.NumIn())}
	for i := range fn.NumIn() {
		t := fn.In(i)
		var tag Tag
		if i < len(tags) {
			tag = tags[i]
		}
		rule, ok := r.find(t, tag)
		if !ok {
			return nil, &UnresolvedError{Index: i, Type: t, Tag: tag}
		}
		plan.steps[i] = step{index: i, typ: t, tag: tag, rule: rule}
	}
	return plan, nil
}

func (r *Registry) find(t reflect.Type, tag Tag) (Rule, bool) {
	for _, rule := range r.rules {
		if rule.Accepts(t, tag) {
			return rule, true
		}
	}
	return Rule{}, false
}

// Args extracts the arguments for one call.
func (p *Plan) Args(req *Request) ([]reflect.Value, error) {
	args := make([]reflect.Value, len(p.steps))
	for i, s := range p.steps {
		v, err := s.rule.Extract(req, s.typ, s.tag)
		if err != nil {
			return nil, fmt.Errorf("parameter %d (%s, rule %s): %w", s.index, s.typ, s.rule.Name, err)
		}
		if !v.IsValid() || isNil(v) {
			return nil, fmt.Errorf("parameter %d (%s, rule %s): %w", s.index, s.typ, s.rule.Name, ErrAbsentValue)
		}
		args[i] = v
	}
	return args, nil
}

func isNil(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return v.IsNil()
	}
	return false
}

// UnresolvedError names the parameter no rule accepted.
type UnresolvedError struct {
	Index int
	Type  reflect.Type
	Tag   Tag
}

func (e *UnresolvedError) Error() string {
	tag := "none"
	if e.Tag != nil {
		tag = e.Tag.TagName()
	}
	return fmt.Sprintf("%s: parameter %d of type %s (tag %s)", ErrUnresolvedParameter, e.Index, e.Type, tag)
}

func (e *UnresolvedError) Unwrap() error { return ErrUnresolvedParameter }
