package main

import (
	"context"
	"sync"

	lsystem "github.com/hananel42/L-system-studio"
)

const (
	sequencerQueueSize = 5
	outQueueSize       = 5
)

// order is one grammar travelling through the pipeline.
type order struct {
	seq int

	grammar lsystem.Grammar
	opts    []lsystem.Option

	result lsystem.Axiom
	tier   uint
	err    error
}

// buildPipeline expands grammars on up to workers goroutines. Orders come out
// in the order they went in. Each grammar owns its registry, so workers share
// nothing but the logger.
func buildPipeline(ctx context.Context, workers int) (in chan<- *order, out <-chan *order) {
	if workers < 1 {
		workers = 1
	}
	sequencerQueue := make(chan *order, sequencerQueueSize)
	orderInQueue := make(chan *order, workers)
	orderOutQueue := make(chan *order, workers)
	outQueue := make(chan *order, outQueueSize)

	go sequence(sequencerQueue, orderInQueue)

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			run(ctx, orderInQueue, orderOutQueue)
		}()
	}
	go func() {
		wg.Wait()
		close(orderOutQueue)
	}()

	go resolve(orderOutQueue, outQueue)

	return sequencerQueue, outQueue
}

func sequence(in <-chan *order, orderInQueue chan<- *order) {
	seq := 0
	for o := range in {
		o.seq = seq
		orderInQueue <- o
		seq++
	}
	close(orderInQueue)
}

func run(ctx context.Context, orderInQueue <-chan *order, orderOutQueue chan<- *order) {
	for o := range orderInQueue {
		ls := o.grammar.System(o.opts...)
		o.err = ls.DerivateUntil(ctx, uint(o.grammar.Iterations))
		o.result = ls.Export()
		o.tier = ls.CurrentTier()
		orderOutQueue <- o
	}
}

// resolve puts finished orders back in sequence. An order that finishes early
// waits in the buffer until its predecessors are out.
func resolve(orderOutQueue <-chan *order, outQueue chan<- *order) {
	next := 0
	buffer := make(map[int]*order)
	for o := range orderOutQueue {
		buffer[o.seq] = o
		for {
			buffered, ok := buffer[next]
			if !ok {
				break
			}
			outQueue <- buffered
			delete(buffer, next)
			next++
		}
	}
	close(outQueue)
}
