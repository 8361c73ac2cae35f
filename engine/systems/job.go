package systems

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/shirou/gopsutil/v3/cpu"

	"github.com/spaghettifunk/aefr/engine/core"
)

// MinReservedCores is always left to the render goroutine and the OS.
const MinReservedCores = 2

var ErrNoWorkers = fmt.Errorf("attempting to create worker pool with less than 1 worker")
var ErrNegativeChannelSize = fmt.Errorf("attempting to create worker pool with a negative channel size")

type jobTask func()

/**
 * @brief A fixed pool of compute workers isolated from the rest of the
 * process. Work only ever runs on pool goroutines.
 */
type JobSystem struct {
	numWorkers int
	jobQueue   chan jobTask
	wg         sync.WaitGroup

	// held for reading by every in-flight workload so Shutdown can wait
	mu     sync.RWMutex
	closed bool
}

// LogicalCores reports the logical CPU count, falling back to the Go
// runtime's view when the system query fails.
func LogicalCores() int {
	n, err := cpu.Counts(true)
	if err != nil || n < 1 {
		if err != nil {
			core.LogDebug("cpu count query failed: %s", err)
		}
		return runtime.NumCPU()
	}
	return n
}

// PoolSize leaves max(2, reserved) cores free and never goes below one worker.
func PoolSize(logicalCores, reserved int) int {
	if reserved < MinReservedCores {
		reserved = MinReservedCores
	}
	return max(1, logicalCores-reserved)
}

func NewJobSystem(numWorkers int, channelSize int) (*JobSystem, error) {
	if numWorkers <= 0 {
		return nil, ErrNoWorkers
	}
	if channelSize < 0 {
		return nil, ErrNegativeChannelSize
	}

	jq := make(chan jobTask, channelSize)
	js := &JobSystem{
		numWorkers: numWorkers,
		jobQueue:   jq,
	}

	js.start()

	return js, nil
}

// NewComputePool sizes a JobSystem from the machine's logical cores.
func NewComputePool(reservedCores int) (*JobSystem, error) {
	cores := LogicalCores()
	workers := PoolSize(cores, reservedCores)
	js, err := NewJobSystem(workers, workers*4)
	if err != nil {
		return nil, err
	}
	core.LogInfo("compute pool: %d workers on %d logical cores", workers, cores)
	return js, nil
}

func (js *JobSystem) start() {
	for i := 0; i < js.numWorkers; i++ {
		js.wg.Add(1)
		go func() {
			defer js.wg.Done()
			for job := range js.jobQueue {
				job()
			}
		}()
	}
}

// Workers returns the fixed pool size.
func (js *JobSystem) Workers() int {
	return js.numWorkers
}

/**
 * @brief Shuts the job system down, waiting for in-flight workloads.
 */
func (js *JobSystem) Shutdown() error {
	js.mu.Lock()
	defer js.mu.Unlock()
	if js.closed {
		return nil
	}
	js.closed = true
	close(js.jobQueue)
	js.wg.Wait()
	return nil
}

/**
 * @brief Runs workload on a pool worker and blocks until it returns. A panic
 * inside the workload is re-raised on the caller. Must not be called from
 * inside a workload.
 */
func (js *JobSystem) RunIsolated(workload func(*Scope)) error {
	js.mu.RLock()
	defer js.mu.RUnlock()
	if js.closed {
		return core.ErrShuttingDown
	}

	done := make(chan interface{}, 1)
	js.jobQueue <- func() {
		defer func() {
			done <- recover()
		}()
		workload(&Scope{js: js})
	}
	if p := <-done; p != nil {
		panic(p)
	}
	return nil
}

// Scope gives a workload access to fan-out on the pool it runs on.
type Scope struct {
	js *JobSystem
}

type batch struct {
	next  atomic.Int64
	n     int64
	fn    func(i int)
	wg    sync.WaitGroup
	panic atomic.Pointer[recovered]
}

// recovered holds the first panic value of a batch as raised.
type recovered struct {
	value interface{}
}

func (b *batch) run() {
	for {
		i := b.next.Add(1) - 1
		if i >= b.n {
			return
		}
		b.call(int(i))
	}
}

func (b *batch) call(i int) {
	defer b.wg.Done()
	defer func() {
		if p := recover(); p != nil {
			b.panic.CompareAndSwap(nil, &recovered{value: p})
		}
	}()
	b.fn(i)
}

// ParallelFor calls fn(i) for every i in [0, n) on pool workers and returns
// once all calls finished. The calling worker takes part, so nested use never
// waits on a worker that is itself waiting.
func (s *Scope) ParallelFor(n int, fn func(i int)) {
	if n <= 0 {
		return
	}
	b := &batch{n: int64(n), fn: fn}
	b.wg.Add(n)

	helpers := min(n, s.js.numWorkers) - 1
	for h := 0; h < helpers; h++ {
		select {
		case s.js.jobQueue <- b.run:
		default:
			// queue full, this worker will pick up the slack
		}
	}
	b.run()
	b.wg.Wait()

	if p := b.panic.Load(); p != nil {
		panic(p.value)
	}
}

// Workers returns the size of the pool the scope runs on.
func (s *Scope) Workers() int {
	return s.js.numWorkers
}
