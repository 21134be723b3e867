package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmalinin/dutywatch/pkg/model"
)

func TestUnitsRepoStoreGet(t *testing.T) {
	r := NewUnitsMemoryRepo()
	require.NoError(t, r.Start())

	defer r.Stop()

	r.Store(model.NewUnit("u1", "alpha-1"))
	r.Store(model.NewUnit("u2", "alpha-2"))
	r.Store(nil)

	require.NotNil(t, r.Get("u1"))
	assert.Nil(t, r.Get("u3"))
	assert.Equal(t, "alpha-2", r.GetCallsign("u2"))
	assert.Empty(t, r.GetCallsign("u3"))

	n := 0
	r.ForEach(func(u *model.Unit) bool {
		n++
		return true
	})
	assert.Equal(t, 2, n)

	r.Remove("u1")
	assert.Nil(t, r.Get("u1"))
}

func TestUnitsRepoCallbacks(t *testing.T) {
	r := NewUnitsMemoryRepo()

	var changed []string

	var deleted []string

	r.ChangeCallback().SubscribeNamed("test", func(u *model.Unit) bool {
		changed = append(changed, u.GetUID())
		return true
	})
	r.DeleteCallback().SubscribeNamed("test", func(uid string) bool {
		deleted = append(deleted, uid)
		return true
	})

	u := model.NewUnit("u1", "alpha-1")
	r.Store(u)

	u.SetTracking(true)
	r.NotifyChange("u1")

	r.Remove("u1")
	// removing twice fires once
	r.Remove("u1")

	assert.Equal(t, []string{"u1", "u1"}, changed)
	assert.Equal(t, []string{"u1"}, deleted)
}
