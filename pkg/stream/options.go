package stream

import (
	"log/slog"

	json "github.com/goccy/go-json"
)

type Option func(opts *options)

type options struct {
	log       *slog.Logger
	queueSize int
	unmarshal UnmarshalFunc
}

func newOptions(opt []Option) options {
	opts := options{
		log:       slog.Default(),
		unmarshal: json.Unmarshal,
	}
	for _, o := range opt {
		o(&opts)
	}
	return opts
}

// WithLogger sets the logger used to report why a stream ended and
// which values could not be decoded.
func WithLogger(log *slog.Logger) Option {
	return func(opts *options) {
		if log != nil {
			opts.log = log
		}
	}
}

// WithQueueSize bounds the number of decoded results waiting to be read.
// When the queue is full the producer blocks until the consumer catches
// up. Zero, the default, leaves the queue unbounded.
func WithQueueSize(size int) Option {
	return func(opts *options) {
		if size >= 0 {
			opts.queueSize = size
		}
	}
}

// WithUnmarshaler replaces the function used to decode each discovered
// JSON value into the target type.
func WithUnmarshaler(unmarshal UnmarshalFunc) Option {
	return func(opts *options) {
		if unmarshal != nil {
			opts.unmarshal = unmarshal
		}
	}
}
