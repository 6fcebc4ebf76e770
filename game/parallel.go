package game

import (
	"runtime"
	"sync"

	"github.com/pthm-cable/hexaco/components"
	"github.com/pthm-cable/hexaco/systems"
)

// defaultParallelThreshold is the minimum number of sensing ants to use
// the worker pool. Below this, single-threaded is faster.
const defaultParallelThreshold = 64

// workChunk is a range of sense targets for one worker.
type workChunk struct {
	start, end int
}

// parallelState holds the worker pool used by the sense phase. Workers
// only read the ScentView copy and write their own result slots.
type parallelState struct {
	targets    []systems.SenseTarget
	results    [][][6]components.Sensed
	view       *systems.ScentView
	numWorkers int
	threshold  int

	// Worker pool channels
	workChan chan workChunk
	doneChan chan struct{}
	stopChan chan struct{}
	wg       sync.WaitGroup
	running  bool
}

func newParallelState(workers, threshold int) *parallelState {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if threshold <= 0 {
		threshold = defaultParallelThreshold
	}
	return &parallelState{
		numWorkers: workers,
		threshold:  threshold,
		targets:    make([]systems.SenseTarget, 0, 256),
	}
}

// startWorkers launches persistent worker goroutines.
func (p *parallelState) startWorkers() {
	if p.running {
		return
	}

	p.workChan = make(chan workChunk, p.numWorkers)
	p.doneChan = make(chan struct{}, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

// stopWorkers signals all workers to exit and waits for them.
func (p *parallelState) stopWorkers() {
	if !p.running {
		return
	}

	close(p.stopChan)
	p.wg.Wait()
	close(p.workChan)
	close(p.doneChan)
	p.running = false
}

// worker processes chunks until stopped.
func (p *parallelState) worker() {
	defer p.wg.Done()
	for {
		select {
		case <-p.stopChan:
			return
		case chunk, ok := <-p.workChan:
			if !ok {
				return
			}
			p.computeChunk(chunk.start, chunk.end)
			p.doneChan <- struct{}{}
		}
	}
}

// computeChunk senses targets [i0, i1) from the view.
func (p *parallelState) computeChunk(i0, i1 int) {
	for i := i0; i < i1; i++ {
		p.results[i] = p.view.SenseNeighbors(p.targets[i].Coord, p.results[i])
	}
}

// senseParallel snapshots the field, senses on the workers and writes
// the readings back in target order.
func (s *Simulation) senseParallel() int {
	p := s.parallel

	// Phase A: collect targets (single-threaded)
	p.targets = s.forager.SenseTargets(p.targets)
	n := len(p.targets)
	if n == 0 {
		return 0
	}
	if n < p.threshold {
		return s.forager.Sense(s.field)
	}

	p.view = s.field.View(p.view)
	for len(p.results) < n {
		p.results = append(p.results, nil)
	}

	// Phase B: compute on the pool
	if !p.running {
		p.startWorkers()
	}
	chunkSize := (n + p.numWorkers - 1) / p.numWorkers
	dispatched := 0
	for w := 0; w < p.numWorkers; w++ {
		start := w * chunkSize
		end := min(start+chunkSize, n)
		if start >= end {
			continue
		}
		p.workChan <- workChunk{start: start, end: end}
		dispatched++
	}
	for i := 0; i < dispatched; i++ {
		<-p.doneChan
	}

	// Phase C: apply (single-threaded). Buffers are swapped, not copied.
	for i, t := range p.targets {
		p.results[i] = s.forager.StoreSensed(t.Entity, p.results[i])
	}
	return n
}
