package systems

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/aefr/engine/core"
	"github.com/spaghettifunk/aefr/engine/resources"
)

func TestPoolSize(t *testing.T) {
	assert.Equal(t, 6, PoolSize(8, 0))
	assert.Equal(t, 6, PoolSize(8, 2))
	assert.Equal(t, 4, PoolSize(8, 4))
	assert.Equal(t, 1, PoolSize(1, 0))
	assert.Equal(t, 1, PoolSize(2, 0))
	assert.GreaterOrEqual(t, LogicalCores(), 1)
}

func TestNewJobSystemRejectsBadConfig(t *testing.T) {
	_, err := NewJobSystem(0, 1)
	assert.ErrorIs(t, err, ErrNoWorkers)
	_, err = NewJobSystem(1, -1)
	assert.ErrorIs(t, err, ErrNegativeChannelSize)
}

func TestRunIsolatedIsABarrier(t *testing.T) {
	js, err := NewJobSystem(4, 16)
	require.NoError(t, err)
	defer js.Shutdown()

	var sum atomic.Int64
	require.NoError(t, js.RunIsolated(func(s *Scope) {
		s.ParallelFor(100, func(i int) {
			time.Sleep(time.Microsecond)
			sum.Add(int64(i))
		})
	}))
	assert.Equal(t, int64(4950), sum.Load(), "every item finished before RunIsolated returned")
}

func TestParallelForNestedOnSingleWorker(t *testing.T) {
	js, err := NewJobSystem(1, 0)
	require.NoError(t, err)
	defer js.Shutdown()

	var count atomic.Int32
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = js.RunIsolated(func(s *Scope) {
			s.ParallelFor(3, func(int) {
				s.ParallelFor(3, func(int) { count.Add(1) })
			})
		})
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("nested fan-out deadlocked")
	}
	assert.Equal(t, int32(9), count.Load())
}

func TestParallelForStaysOnPool(t *testing.T) {
	js, err := NewJobSystem(2, 8)
	require.NoError(t, err)
	defer js.Shutdown()

	var mu sync.Mutex
	seen := map[int]bool{}
	require.NoError(t, js.RunIsolated(func(s *Scope) {
		assert.Equal(t, 2, s.Workers())
		s.ParallelFor(8, func(i int) {
			mu.Lock()
			seen[i] = true
			mu.Unlock()
		})
	}))
	assert.Len(t, seen, 8)
}

func TestRunIsolatedPropagatesPanic(t *testing.T) {
	js, err := NewJobSystem(2, 4)
	require.NoError(t, err)
	defer js.Shutdown()

	assert.Panics(t, func() {
		_ = js.RunIsolated(func(s *Scope) {
			s.ParallelFor(4, func(i int) {
				if i == 2 {
					panic("boom")
				}
			})
		})
	})

	// the pool is still usable
	ran := false
	require.NoError(t, js.RunIsolated(func(*Scope) { ran = true }))
	assert.True(t, ran)
}

func TestParallelForPanicKeepsOriginalValue(t *testing.T) {
	js, err := NewJobSystem(2, 4)
	require.NoError(t, err)
	defer js.Shutdown()

	errBoom := errors.New("boom")
	assert.PanicsWithValue(t, errBoom, func() {
		_ = js.RunIsolated(func(s *Scope) {
			s.ParallelFor(4, func(i int) {
				if i == 1 {
					panic(errBoom)
				}
			})
		})
	})

	type custom struct{ slot int }
	assert.PanicsWithValue(t, custom{slot: 3}, func() {
		_ = js.RunIsolated(func(s *Scope) {
			s.ParallelFor(1, func(int) { panic(custom{slot: 3}) })
		})
	})
}

func TestRunIsolatedAfterShutdown(t *testing.T) {
	js, err := NewJobSystem(1, 1)
	require.NoError(t, err)
	require.NoError(t, js.Shutdown())
	require.NoError(t, js.Shutdown())
	assert.ErrorIs(t, js.RunIsolated(func(*Scope) {}), core.ErrShuttingDown)
}

func TestTextureRegistry(t *testing.T) {
	ts, err := NewTextureSystem(&TextureSystemConfig{MaxTextureCount: 2}, nil)
	require.NoError(t, err)

	img := &resources.ImageResourceData{Width: 1, Height: 1, Pixels: []uint8{1, 2, 3, 4}}
	a, err := ts.Register("a.png", img)
	require.NoError(t, err)
	b, err := ts.Register("b.png", img)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)

	_, err = ts.Register("c.png", img)
	assert.Error(t, err, "registry is full")

	ta, ok := ts.Get(a)
	require.True(t, ok)
	tb, _ := ts.Get(b)
	assert.NotEqual(t, ta.Name, tb.Name, "names are unique")
	assert.Equal(t, "a.png", ta.Source)

	ts.Release(a)
	ts.Release(a)
	assert.Equal(t, 1, ts.Count())

	c, err := ts.Register("c.png", img)
	require.NoError(t, err)
	assert.Equal(t, a, c, "released handles are reused")

	require.NoError(t, ts.Shutdown())
	assert.Zero(t, ts.Count())
}

func TestTextureRegistryConcurrent(t *testing.T) {
	ts, err := NewTextureSystem(&TextureSystemConfig{MaxTextureCount: 100}, nil)
	require.NoError(t, err)
	img := &resources.ImageResourceData{Width: 1, Height: 1, Pixels: make([]uint8, 4)}

	var wg sync.WaitGroup
	handles := make([]resources.TextureHandle, 32)
	for i := range handles {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			h, err := ts.Register("x.png", img)
			assert.NoError(t, err)
			handles[i] = h
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 32, ts.Count())
}

type fakeTrack struct {
	played, closed bool
}

func (f *fakeTrack) Play()        { f.played = true }
func (f *fakeTrack) Close() error { f.closed = true; return nil }

type fakeAudio struct {
	tracks []*fakeTrack
}

func (f *fakeAudio) Decode(path string, data []byte) (AudioTrack, error) {
	if len(data) == 0 {
		return nil, errors.New("empty")
	}
	tr := &fakeTrack{}
	f.tracks = append(f.tracks, tr)
	return tr, nil
}

func TestAudioReplacesTrack(t *testing.T) {
	backend := &fakeAudio{}
	as := NewAudioSystem(AudioSystemConfig{Enabled: true}, backend)
	require.False(t, as.Silent())

	require.NoError(t, as.Play("a.ogg", []byte{1}))
	require.NoError(t, as.Play("b.ogg", []byte{1}))
	require.Len(t, backend.tracks, 2)
	assert.True(t, backend.tracks[0].closed, "the previous track stops first")
	assert.True(t, backend.tracks[1].played)
	assert.Equal(t, "b.ogg", as.Playing())

	err := as.Play("c.ogg", nil)
	assert.ErrorIs(t, err, ErrAudioDecode)
	assert.Equal(t, "", as.Playing())

	as.Stop()
	assert.Equal(t, "", as.Playing())
}

func TestAudioSilentMode(t *testing.T) {
	as := NewAudioSystem(AudioSystemConfig{Enabled: true}, nil)
	assert.True(t, as.Silent())
	assert.NoError(t, as.Play("a.ogg", []byte{1}))
	assert.Equal(t, "", as.Playing())
	as.Stop()
}
