package repository

import (
	"sync"

	"github.com/kdudkov/goutils/callback"

	"github.com/kmalinin/dutywatch/pkg/model"
)

var _ UnitsRepository = &UnitsMemoryRepo{}

type UnitsMemoryRepo struct {
	units    sync.Map
	changeCb *callback.Callback[*model.Unit]
	deleteCb *callback.Callback[string]
}

func NewUnitsMemoryRepo() *UnitsMemoryRepo {
	return &UnitsMemoryRepo{
		changeCb: callback.New[*model.Unit](),
		deleteCb: callback.New[string](),
	}
}

func (r *UnitsMemoryRepo) Start() error {
	return nil
}

func (r *UnitsMemoryRepo) Stop() {
	// no-op
}

func (r *UnitsMemoryRepo) ChangeCallback() *callback.Callback[*model.Unit] {
	return r.changeCb
}

func (r *UnitsMemoryRepo) DeleteCallback() *callback.Callback[string] {
	return r.deleteCb
}

func (r *UnitsMemoryRepo) Store(u *model.Unit) {
	if u != nil {
		r.units.Store(u.GetUID(), u)
		r.changeCb.AddMessage(u)
	}
}

func (r *UnitsMemoryRepo) Get(uid string) *model.Unit {
	if v, ok := r.units.Load(uid); ok {
		return v.(*model.Unit)
	}

	return nil
}

// NotifyChange pushes the current state of a unit to subscribers after
// an in-place mutation.
func (r *UnitsMemoryRepo) NotifyChange(uid string) {
	if u := r.Get(uid); u != nil {
		r.changeCb.AddMessage(u)
	}
}

func (r *UnitsMemoryRepo) Remove(uid string) {
	if _, ok := r.units.LoadAndDelete(uid); ok {
		r.deleteCb.AddMessage(uid)
	}
}

func (r *UnitsMemoryRepo) ForEach(f func(u *model.Unit) bool) {
	r.units.Range(func(_, value any) bool {
		return f(value.(*model.Unit))
	})
}

func (r *UnitsMemoryRepo) GetCallsign(uid string) string {
	if u := r.Get(uid); u != nil {
		return u.GetCallsign()
	}

	return ""
}
