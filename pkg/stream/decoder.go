package stream

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
)

// ErrDecodeFailed is matched by every error carried in a failed
// [Result] produced by a [Decoder].
var ErrDecodeFailed = errors.New("unable to decode value from stream")

// DecodeError describes a value which was found in the stream but could
// not be decoded into the requested type.
type DecodeError struct {
	// Offset is the position in the stream at which the value started.
	Offset int64
	// Raw holds the bytes of the value.
	Raw []byte
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s at offset %d: %v", ErrDecodeFailed, e.Offset, e.Err)
}

func (e *DecodeError) Unwrap() []error {
	return []error{ErrDecodeFailed, e.Err}
}

// Decoder is a Stream of decode results read from a stream of
// concatenated JSON texts.
//
// Each value found in the stream yields exactly one Result, in stream
// order. A value which cannot be decoded into T yields a Result holding
// a *DecodeError and decoding carries on with the next value; only the
// end of the stream, or a failure to read it, ends the sequence.
type Decoder[T any] struct {
	scanner   *Scanner
	closer    io.Closer
	unmarshal UnmarshalFunc
	log       *slog.Logger
}

// NewDecoder returns a Decoder reading from r. If r is also an
// io.Closer, closing the Decoder closes r.
func NewDecoder[T any](r io.Reader, opt ...Option) *Decoder[T] {
	opts := newOptions(opt)
	closer, _ := r.(io.Closer)

	return &Decoder[T]{
		scanner:   NewScanner(r),
		closer:    closer,
		unmarshal: opts.unmarshal,
		log:       opts.log,
	}
}

// Next blocks until the next value has been read from the stream.
func (d *Decoder[T]) Next() (Result[T], error) {
	raw, err := d.scanner.Next()
	if err != nil {
		return Result[T]{}, err
	}

	var t T
	if err := d.unmarshal(raw, &t); err != nil {
		derr := &DecodeError{
			Offset: d.scanner.Offset(),
			Raw:    raw,
			Err:    err,
		}
		d.log.Debug("unable to decode value from stream", "offset", derr.Offset, "error", err)
		return Result[T]{Err: derr}, nil
	}

	return Result[T]{Value: t}, nil
}

func (d *Decoder[T]) Close() error {
	if d.closer == nil {
		return nil
	}
	return d.closer.Close()
}
