package resolver

import (
	"errors"
	"fmt"

	"github.com/tsawler/pdf2md/core"
)

var (
	ErrCycle   = errors.New("circular reference")
	ErrTooDeep = errors.New("object tree too deep")
)

// DefaultMaxDepth bounds nesting during expansion.
const DefaultMaxDepth = 64

// Resolver follows a single indirect reference. Direct objects are
// returned unchanged; missing objects resolve to nil.
type Resolver interface {
	Resolve(obj core.Object) core.Object
}

// Option configures an Expander.
type Option func(*Expander)

// WithMaxDepth sets the nesting limit.
func WithMaxDepth(depth int) Option {
	return func(e *Expander) {
		if depth > 0 {
			e.maxDepth = depth
		}
	}
}

// Expander replaces nested references with their targets.
type Expander struct {
	r        Resolver
	maxDepth int
}

// New returns an Expander backed by r.
func New(r Resolver, opts ...Option) *Expander {
	e := &Expander{r: r, maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Expand returns a copy of obj with every reference replaced. References
// to missing objects become null. The input is never modified and stream
// data is shared, not copied.
func (e *Expander) Expand(obj core.Object) (core.Object, error) {
	w := walk{r: e.r, maxDepth: e.maxDepth, active: map[core.ObjectID]bool{}}
	return w.expand(obj, 0)
}

// ExpandDict expands d. It fails if d itself is not a dictionary after
// resolution.
func (e *Expander) ExpandDict(obj core.Object) (core.Dict, error) {
	out, err := e.Expand(obj)
	if err != nil {
		return nil, err
	}
	d, ok := out.(core.Dict)
	if !ok {
		return nil, fmt.Errorf("expected dictionary, got %s", typeName(out))
	}
	return d, nil
}

// walk holds the state of one Expand call. active contains the
// references on the current path; a reference reached twice along
// different branches is expanded twice.
type walk struct {
	r        Resolver
	maxDepth int
	active   map[core.ObjectID]bool
}

func (w *walk) expand(obj core.Object, depth int) (core.Object, error) {
	if depth > w.maxDepth {
		return nil, fmt.Errorf("%w: more than %d levels", ErrTooDeep, w.maxDepth)
	}

	switch v := obj.(type) {
	case core.IndirectRef:
		id := v.ID()
		if w.active[id] {
			return nil, fmt.Errorf("%w through object %s", ErrCycle, id)
		}
		target := w.r.Resolve(v)
		if target == nil {
			return core.Null{}, nil
		}
		w.active[id] = true
		out, err := w.expand(target, depth+1)
		delete(w.active, id)
		return out, err

	case core.Dict:
		out := make(core.Dict, len(v))
		for key, val := range v {
			x, err := w.expand(val, depth+1)
			if err != nil {
				return nil, fmt.Errorf("/%s: %w", key, err)
			}
			out[key] = x
		}
		return out, nil

	case core.Array:
		out := make(core.Array, len(v))
		for i, val := range v {
			x, err := w.expand(val, depth+1)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			out[i] = x
		}
		return out, nil

	case *core.Stream:
		d, err := w.expand(v.Dict, depth+1)
		if err != nil {
			return nil, err
		}
		return &core.Stream{Dict: d.(core.Dict), Data: v.Data}, nil
	}
	return obj, nil
}

func typeName(obj core.Object) string {
	if obj == nil {
		return "nil"
	}
	return obj.Type().String()
}
