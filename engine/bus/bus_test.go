package bus

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBusFIFO(t *testing.T) {
	tx, rx := New()
	require.True(t, tx.Send(Log{Message: "one"}))
	require.True(t, tx.Send(RequestLoad{Slot: 1, Path: "a"}))
	require.True(t, tx.Send(StopAudio{}))

	var kinds []string
	n := rx.Drain(func(c Command) { kinds = append(kinds, c.Kind()) })
	assert.Equal(t, 3, n)
	assert.Equal(t, []string{"Log", "RequestLoad", "StopAudio"}, kinds)

	_, ok := rx.TryRecv()
	assert.False(t, ok)
}

func TestBusManyProducers(t *testing.T) {
	tx, rx := New()
	const producers, each = 8, 200

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < each; i++ {
				tx.Send(SetAnimation{Slot: p, Name: "idle", Loop: i%2 == 0})
			}
		}(p)
	}
	wg.Wait()

	count := map[int]int{}
	rx.Drain(func(c Command) {
		sa, ok := c.(SetAnimation)
		require.True(t, ok)
		count[sa.Slot]++
	})
	for p := 0; p < producers; p++ {
		assert.Equal(t, each, count[p])
	}
}

func TestBusSendAfterClose(t *testing.T) {
	tx, rx := New()
	tx.Send(Log{Message: "pending"})
	rx.Close()

	assert.False(t, tx.Send(Log{Message: "late"}))
	assert.Zero(t, rx.Pending())
}

func TestDrainSeesCommandsSentByHandler(t *testing.T) {
	tx, rx := New()
	tx.Send(RequestLoad{Slot: 0, Path: "x"})

	var seen []string
	rx.Drain(func(c Command) {
		seen = append(seen, c.Kind())
		if _, ok := c.(RequestLoad); ok {
			tx.Send(Log{Message: "Loading slot 0..."})
		}
	})
	assert.Equal(t, []string{"RequestLoad", "Log"}, seen)
}
