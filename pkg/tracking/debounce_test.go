package tracking

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fireLog struct {
	mx   sync.Mutex
	keys []string
}

func (f *fireLog) add(key string) {
	f.mx.Lock()
	defer f.mx.Unlock()

	f.keys = append(f.keys, key)
}

func (f *fireLog) get() []string {
	f.mx.Lock()
	defer f.mx.Unlock()

	return append([]string(nil), f.keys...)
}

func TestDebouncerCollapsesBurst(t *testing.T) {
	log := &fireLog{}
	d := NewDebouncer(time.Millisecond*30, log.add)

	defer d.Stop()

	for i := 0; i < 20; i++ {
		d.Trigger("u1")
	}

	time.Sleep(time.Millisecond * 100)

	require.Equal(t, []string{"u1"}, log.get())
}

func TestDebouncerPerKey(t *testing.T) {
	log := &fireLog{}
	d := NewDebouncer(time.Millisecond*10, log.add)

	defer d.Stop()

	d.Trigger("u1")
	d.Trigger("u2")
	d.Trigger("u1")

	time.Sleep(time.Millisecond * 50)

	assert.ElementsMatch(t, []string{"u1", "u2"}, log.get())
}

func TestDebouncerFiresAgainAfterQuiet(t *testing.T) {
	log := &fireLog{}
	d := NewDebouncer(time.Millisecond*10, log.add)

	defer d.Stop()

	d.Trigger("u1")
	time.Sleep(time.Millisecond * 40)
	d.Trigger("u1")
	time.Sleep(time.Millisecond * 40)

	assert.Equal(t, []string{"u1", "u1"}, log.get())
}

func TestDebouncerFlush(t *testing.T) {
	log := &fireLog{}
	d := NewDebouncer(time.Hour, log.add)

	defer d.Stop()

	d.Trigger("u1")
	d.Flush()

	assert.Equal(t, []string{"u1"}, log.get())
}

func TestDebouncerStop(t *testing.T) {
	log := &fireLog{}
	d := NewDebouncer(time.Millisecond*5, log.add)

	d.Trigger("u1")
	d.Stop()
	d.Trigger("u2")

	time.Sleep(time.Millisecond * 30)

	assert.Empty(t, log.get())
}
