// Package stream implements a set of generic interfaces and classes
// designed to allow streams of atomic objects to be pipelined, much
// like one might do with an [io.Reader].
//
// The main pipeline turns a never-ending byte stream of concatenated
// JSON texts (such as the body of a watch request) into a sequence of
// [Result] values, decoded on a producer goroutine and handed to the
// caller through an [AsyncStream]:
//
//	io.Reader -> Scanner -> Decoder[T] -> AsyncStream[Result[T]]
package stream

// A stream is able to provide a source of atomic data values.
//
// The source of a Stream's data is implementation specific - an example
// may be reading JSON objects from a long running HTTP response.
//
// Next blocks until a value is available. A non-nil error means the
// stream has ended and no further values will be produced.
type Stream[T any] interface {
	Next() (T, error)
}

// Result is the outcome of decoding a single value from a stream:
// either the decoded Value or the Err explaining why it could not be
// decoded. A failed Result does not end the stream it came from.
type Result[T any] struct {
	Value T
	Err   error
}

// Get returns the value and error held by the result.
func (r Result[T]) Get() (T, error) {
	return r.Value, r.Err
}

// UnmarshalFunc decodes a single complete JSON text into v.
type UnmarshalFunc func(data []byte, v any) error
