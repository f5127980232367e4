package stream

import (
	"errors"
	"io"
	"iter"
	"log/slog"
	"sync"

	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/panics"
)

// AsyncStream acts as a wrapper for any Stream and allows objects to be
// read from it asynchronously.
//
// Most streams are synchronous by their nature, because the underlying
// source needs to be read sequentially, however once parsed it's common
// that items can be processed independently. AsyncStream reads the
// source on its own goroutine and queues each item for the caller, who
// is free to read them at whatever pace suits.
//
// Only one goroutine should read from an AsyncStream.
type AsyncStream[T any] struct {
	stream Stream[T]
	queue  *Queue[T]
	log    *slog.Logger

	wg        conc.WaitGroup
	done      chan struct{}
	closeOnce sync.Once

	lock    sync.RWMutex
	stopped bool
	err     error
}

// NewAsyncStream starts reading from stream and returns straight away,
// before any items have been read.
func NewAsyncStream[T any](stream Stream[T], opt ...Option) *AsyncStream[T] {
	opts := newOptions(opt)
	sd := &AsyncStream[T]{
		stream: stream,
		queue:  NewQueue[T](opts.queueSize),
		log:    opts.log,
		done:   make(chan struct{}),
	}

	sd.wg.Go(sd.run)

	return sd
}

// Generate decodes the concatenated JSON texts read from r into values
// of type T, on a goroutine of its own. Values which cannot be decoded
// are delivered as failed Results and do not end the stream.
func Generate[T any](r io.Reader, opt ...Option) *AsyncStream[Result[T]] {
	return NewAsyncStream[Result[T]](NewDecoder[T](r, opt...), opt...)
}

func (sd *AsyncStream[T]) run() {
	defer close(sd.done)
	defer sd.closeStream()
	defer sd.queue.CloseSend()

	// A panic in the source, eg from a value's UnmarshalJSON, ends the
	// stream like any other error instead of waiting for Wait to raise it.
	var pc panics.Catcher
	pc.Try(sd.produce)
	if r := pc.Recovered(); r != nil {
		sd.log.Error("stream source panicked", "panic", r.Value)
		sd.setErr(r.AsError())
	}
}

func (sd *AsyncStream[T]) produce() {
	for {
		result, err := sd.stream.Next()
		if err != nil {
			sd.finish(err)
			return
		}

		if !sd.queue.Send(result) {
			sd.log.Debug("stream reader has gone away, stopping")
			return
		}
	}
}

func (sd *AsyncStream[T]) setErr(err error) (stopped bool) {
	sd.lock.Lock()
	defer sd.lock.Unlock()

	sd.err = err
	return sd.stopped
}

func (sd *AsyncStream[T]) finish(err error) {
	stopped := sd.setErr(err)

	// Errors caused by Stop() closing the source are expected.
	if stopped {
		return
	}

	switch {
	case errors.Is(err, io.EOF):
		// Stream closed normally.
	case errors.Is(err, io.ErrUnexpectedEOF):
		sd.log.Info("unexpected EOF while reading stream", "error", err)
	default:
		sd.log.Info("unable to read from stream", "error", err)
	}
}

// If the stream we've been given can be closed, we'll call that as part
// of the shutdown.
func (sd *AsyncStream[T]) closeStream() {
	sd.closeOnce.Do(func() {
		if closer, ok := sd.stream.(io.Closer); ok {
			if err := closer.Close(); err != nil {
				sd.log.Debug("unable to close stream", "error", err)
			}
		}
	})
}

// Stop tells the stream that the caller is no longer reading. Queued
// items are discarded, and the producer goroutine exits at its next
// attempt to queue an item. The source is closed so that a producer
// blocked waiting for data is released too.
func (sd *AsyncStream[T]) Stop() {
	sd.lock.Lock()
	if sd.stopped {
		sd.lock.Unlock()
		return
	}
	sd.stopped = true
	sd.lock.Unlock()

	sd.queue.Stop()
	sd.closeStream()
}

func (sd *AsyncStream[T]) Stopped() bool {
	sd.lock.RLock()
	defer sd.lock.RUnlock()

	return sd.stopped
}

// Recv blocks until the next item is available. It returns false once
// the source has ended and every item has been read, or after Stop.
func (sd *AsyncStream[T]) Recv() (T, bool) {
	return sd.queue.Recv()
}

// Next implements Stream, returning io.EOF in place of Recv's false.
func (sd *AsyncStream[T]) Next() (T, error) {
	item, ok := sd.Recv()
	if !ok {
		return item, io.EOF
	}
	return item, nil
}

// All returns an iterator over the remaining items. Breaking out of the
// loop stops the stream.
func (sd *AsyncStream[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for {
			item, ok := sd.Recv()
			if !ok {
				return
			}
			if !yield(item) {
				sd.Stop()
				return
			}
		}
	}
}

// Done is closed once the producer goroutine has exited.
func (sd *AsyncStream[T]) Done() <-chan struct{} {
	return sd.done
}

// Wait blocks until the producer goroutine has exited.
func (sd *AsyncStream[T]) Wait() {
	sd.wg.Wait()
}

// Error returns the error which ended the source, if it has ended. This
// is io.EOF when the source closed normally.
func (sd *AsyncStream[T]) Error() error {
	sd.lock.RLock()
	defer sd.lock.RUnlock()

	return sd.err
}
