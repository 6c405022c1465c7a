package passforge

import (
	"context"
	"sync"
	"sync/atomic"
)

// auditDispatcher decouples engine operations from sink latency. Events
// flow through a buffered queue to a single consumer goroutine; Close
// drains whatever is queued before returning.
type auditDispatcher struct {
	sink     AuditSink
	queue    chan AuditEvent
	stop     chan struct{}
	finished chan struct{}
	blocking bool
	dropped  atomic.Uint64
	stopOnce sync.Once
}

func newAuditDispatcher(cfg AuditConfig, sink AuditSink) *auditDispatcher {
	if !cfg.Enabled {
		return nil
	}
	if sink == nil {
		sink = NoOpSink{}
	}
	buffer := cfg.BufferSize
	if buffer < 1 {
		buffer = 1
	}

	d := &auditDispatcher{
		sink:     sink,
		queue:    make(chan AuditEvent, buffer),
		stop:     make(chan struct{}),
		finished: make(chan struct{}),
		blocking: !cfg.DropIfFull,
	}
	go d.consume()
	return d
}

func (d *auditDispatcher) consume() {
	defer close(d.finished)
	for {
		select {
		case event := <-d.queue:
			d.sink.Emit(context.Background(), event)
		case <-d.stop:
			d.drain()
			return
		}
	}
}

// drain flushes everything queued at shutdown.
func (d *auditDispatcher) drain() {
	for {
		select {
		case event := <-d.queue:
			d.sink.Emit(context.Background(), event)
		default:
			return
		}
	}
}

func (d *auditDispatcher) Emit(ctx context.Context, event AuditEvent) {
	if d == nil {
		return
	}
	select {
	case <-d.stop:
		return
	default:
	}
	if ctx == nil {
		ctx = context.Background()
	}

	if d.blocking {
		select {
		case d.queue <- event:
		case <-ctx.Done():
			d.dropped.Add(1)
		case <-d.stop:
		}
		return
	}

	select {
	case d.queue <- event:
	case <-d.stop:
	default:
		d.dropped.Add(1)
	}
}

// Close stops the consumer after draining the queue. Safe to call more
// than once.
func (d *auditDispatcher) Close() {
	if d == nil {
		return
	}
	d.stopOnce.Do(func() {
		close(d.stop)
	})
	<-d.finished
}

// Dropped reports events shed because the queue was full or the
// caller's context expired first.
func (d *auditDispatcher) Dropped() uint64 {
	if d == nil {
		return 0
	}
	return d.dropped.Load()
}
