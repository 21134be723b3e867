package tracking

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmalinin/dutywatch/pkg/model"
)

// fakeSurface records every primitive call, handle is the unit uid.
type fakeSurface struct {
	created []string
	updated []string
	removed []string
}

func (s *fakeSurface) Create(w *model.WebUnit) string {
	s.created = append(s.created, w.UID)

	return w.UID
}

func (s *fakeSurface) Update(h string, w *model.WebUnit) string {
	s.updated = append(s.updated, w.UID)

	return h
}

func (s *fakeSurface) Remove(key string, _ string) {
	s.removed = append(s.removed, key)
}

func (s *fakeSurface) reset() {
	s.created = nil
	s.updated = nil
	s.removed = nil
}

func web(uids ...string) []*model.WebUnit {
	res := make([]*model.WebUnit, 0, len(uids))

	for _, uid := range uids {
		res = append(res, &model.WebUnit{UID: uid})
	}

	return res
}

func TestDiff(t *testing.T) {
	ops := Diff([]string{"a", "b", "c"}, web("b", "c", "d"))

	require.Len(t, ops.ToUpsert, 3)
	assert.Equal(t, []string{"a"}, ops.ToRemove)
}

func TestDiffSkipsEmptyKeys(t *testing.T) {
	ops := Diff(nil, []*model.WebUnit{nil, {UID: ""}, {UID: "a"}})

	require.Len(t, ops.ToUpsert, 1)
	assert.Equal(t, "a", ops.ToUpsert[0].UID)
}

func TestReconcilerCreateUpdateRemove(t *testing.T) {
	s := &fakeSurface{}
	r := NewReconciler[string](s)

	r.Apply(web("a", "b"))
	assert.ElementsMatch(t, []string{"a", "b"}, s.created)
	assert.Empty(t, s.removed)
	assert.Equal(t, 2, r.Len())

	s.reset()
	r.Apply(web("b", "c"))
	assert.Equal(t, []string{"c"}, s.created)
	assert.Equal(t, []string{"b"}, s.updated)
	assert.Equal(t, []string{"a"}, s.removed)

	keys := r.Keys()
	sort.Strings(keys)
	assert.Equal(t, []string{"b", "c"}, keys)
}

func TestReconcilerIdempotent(t *testing.T) {
	s := &fakeSurface{}
	r := NewReconciler[string](s)

	r.Apply(web("a", "b"))
	s.reset()

	// same input again: updates in place only, nothing created or removed
	r.Apply(web("a", "b"))
	assert.Empty(t, s.created)
	assert.Empty(t, s.removed)
	assert.ElementsMatch(t, []string{"a", "b"}, s.updated)
}

func TestReconcilerNoLeak(t *testing.T) {
	s := &fakeSurface{}
	r := NewReconciler[string](s)

	r.Apply(web("a", "b", "c"))

	s.reset()
	r.Apply(web("b"))
	assert.ElementsMatch(t, []string{"a", "c"}, s.removed)

	// the dropped units never reappear until the feed brings them back
	s.reset()
	r.Apply(web("b"))
	assert.Empty(t, s.created)
	assert.Empty(t, s.removed)

	s.reset()
	r.Apply(web("a", "b"))
	assert.Equal(t, []string{"a"}, s.created)
}

func TestReconcilerUpsertDrop(t *testing.T) {
	s := &fakeSurface{}
	r := NewReconciler[string](s)

	r.Upsert(&model.WebUnit{UID: "a"})
	r.Upsert(&model.WebUnit{UID: "a"})
	r.Upsert(nil)
	assert.Equal(t, []string{"a"}, s.created)
	assert.Equal(t, []string{"a"}, s.updated)

	r.Drop("a")
	r.Drop("a")
	assert.Equal(t, []string{"a"}, s.removed)
	assert.Equal(t, 0, r.Len())

	// a later full snapshot sees the single-entry edits
	s.reset()
	r.Upsert(&model.WebUnit{UID: "b"})
	r.Apply(web("c"))
	assert.Equal(t, []string{"b", "c"}, s.created)
	assert.Equal(t, []string{"b"}, s.removed)
}

func TestReconcilerEmptyInput(t *testing.T) {
	s := &fakeSurface{}
	r := NewReconciler[string](s)

	r.Apply(web("a", "b"))

	s.reset()
	r.Apply(nil)
	assert.ElementsMatch(t, []string{"a", "b"}, s.removed)
	assert.Equal(t, 0, r.Len())
}

func TestReconcilerClear(t *testing.T) {
	s := &fakeSurface{}
	r := NewReconciler[string](s)

	r.Apply(web("a", "b"))
	r.Clear()

	assert.ElementsMatch(t, []string{"a", "b"}, s.removed)
	assert.Equal(t, 0, r.Len())
}
