package tracking

import (
	"github.com/kmalinin/dutywatch/pkg/model"
)

// Surface is a target rendering surface (map markers, list rows, a ws
// client). The reconciler drives it through these three primitives only.
type Surface[H any] interface {
	Create(w *model.WebUnit) H
	Update(h H, w *model.WebUnit) H
	Remove(key string, h H)
}

// Ops is the exact set of operations needed to bring a surface in sync.
type Ops struct {
	ToUpsert []*model.WebUnit
	ToRemove []string
}

// Diff computes upsert/remove operations from the currently rendered keys
// and the new visible set. Pure, used by the stateful reconciler below.
func Diff(rendered []string, visible []*model.WebUnit) Ops {
	seen := make(map[string]bool, len(visible))
	ops := Ops{ToUpsert: make([]*model.WebUnit, 0, len(visible))}

	for _, w := range visible {
		if w == nil || w.UID == "" {
			continue
		}

		seen[w.UID] = true
		ops.ToUpsert = append(ops.ToUpsert, w)
	}

	for _, key := range rendered {
		if !seen[key] {
			ops.ToRemove = append(ops.ToRemove, key)
		}
	}

	return ops
}

// Reconciler owns the rendered-set for one surface and keeps it exactly
// equal to the visible set: upsert what is visible, drop what is not.
// Applying the same input twice creates and removes nothing the second
// time, and entries for units gone from the feed never linger.
type Reconciler[H any] struct {
	surface  Surface[H]
	rendered map[string]H
}

func NewReconciler[H any](surface Surface[H]) *Reconciler[H] {
	return &Reconciler[H]{
		surface:  surface,
		rendered: make(map[string]H),
	}
}

func (r *Reconciler[H]) Apply(visible []*model.WebUnit) {
	ops := Diff(r.Keys(), visible)

	for _, w := range ops.ToUpsert {
		if h, ok := r.rendered[w.UID]; ok {
			r.rendered[w.UID] = r.surface.Update(h, w)
		} else {
			r.rendered[w.UID] = r.surface.Create(w)
		}
	}

	for _, key := range ops.ToRemove {
		r.surface.Remove(key, r.rendered[key])
		delete(r.rendered, key)
	}
}

// Upsert renders a single unit without touching the rest of the set.
func (r *Reconciler[H]) Upsert(w *model.WebUnit) {
	if w == nil || w.UID == "" {
		return
	}

	if h, ok := r.rendered[w.UID]; ok {
		r.rendered[w.UID] = r.surface.Update(h, w)
	} else {
		r.rendered[w.UID] = r.surface.Create(w)
	}
}

// Drop removes a single unit if it is rendered.
func (r *Reconciler[H]) Drop(key string) {
	if h, ok := r.rendered[key]; ok {
		r.surface.Remove(key, h)
		delete(r.rendered, key)
	}
}

func (r *Reconciler[H]) Keys() []string {
	keys := make([]string, 0, len(r.rendered))

	for k := range r.rendered {
		keys = append(keys, k)
	}

	return keys
}

func (r *Reconciler[H]) Len() int {
	return len(r.rendered)
}

// Clear drops every rendered entry through the surface.
func (r *Reconciler[H]) Clear() {
	for key, h := range r.rendered {
		r.surface.Remove(key, h)
		delete(r.rendered, key)
	}
}
