package stream

import (
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func decodeAll[T any](t *testing.T, r io.Reader, opt ...Option) ([]Result[T], error) {
	t.Helper()

	d := NewDecoder[T](r, opt...)
	var results []Result[T]
	for {
		result, err := d.Next()
		if err != nil {
			return results, err
		}
		results = append(results, result)
	}
}

func TestDecoderConcatenatedValues(t *testing.T) {
	results, err := decodeAll[point](t, strings.NewReader(`{"x":1,"y":2}{"x":3,"y":4}`))
	require.Equal(t, io.EOF, err)

	require.Len(t, results, 2)
	assert.Equal(t, Result[point]{Value: point{X: 1, Y: 2}}, results[0])
	assert.Equal(t, Result[point]{Value: point{X: 3, Y: 4}}, results[1])
}

func TestDecoderChunkingDoesNotMatter(t *testing.T) {
	input := "\n{\"x\":1,\"y\":2}  {\"x\":3,\n\"y\":4}\r\n\t{\"x\":5,\"y\":6}{\"x\":7,\"y\":8}\n"

	whole, err := decodeAll[point](t, strings.NewReader(input))
	require.Equal(t, io.EOF, err)

	chunked, err := decodeAll[point](t, iotest.OneByteReader(strings.NewReader(input)))
	require.Equal(t, io.EOF, err)

	half, err := decodeAll[point](t, iotest.HalfReader(strings.NewReader(input)))
	require.Equal(t, io.EOF, err)

	require.Len(t, whole, 4)
	for i, result := range whole {
		require.NoError(t, result.Err)
		assert.Equal(t, 2*i+1, result.Value.X)
	}
	assert.Equal(t, whole, chunked)
	assert.Equal(t, whole, half)
}

func TestDecoderTypeMismatchDoesNotEndStream(t *testing.T) {
	results, err := decodeAll[point](t, strings.NewReader(`{"x":1,"y":2}{"x":"three","y":4}{"x":5,"y":6}`))
	require.Equal(t, io.EOF, err)

	require.Len(t, results, 3)
	assert.Equal(t, point{X: 1, Y: 2}, results[0].Value)
	assert.Equal(t, point{X: 5, Y: 6}, results[2].Value)

	require.Error(t, results[1].Err)
	assert.ErrorIs(t, results[1].Err, ErrDecodeFailed)

	var derr *DecodeError
	require.True(t, errors.As(results[1].Err, &derr))
	assert.EqualValues(t, 13, derr.Offset)
	assert.Equal(t, `{"x":"three","y":4}`, string(derr.Raw))
}

func TestDecoderResyncsAfterMalformedValue(t *testing.T) {
	results, err := decodeAll[point](t, strings.NewReader(`{"x":1,"y":2}not-json{"x":3,"y":4}`))
	require.Equal(t, io.EOF, err)

	require.Len(t, results, 3)
	assert.Equal(t, point{X: 1, Y: 2}, results[0].Value)
	assert.ErrorIs(t, results[1].Err, ErrDecodeFailed)
	assert.Equal(t, point{X: 3, Y: 4}, results[2].Value)
}

func TestDecoderTrailingGarbage(t *testing.T) {
	// Cut off by the end of the stream, the garbage might be the start
	// of a longer value, so nothing is emitted for it.
	results, err := decodeAll[point](t, strings.NewReader(`{"x":1}not-json`))
	require.Equal(t, io.ErrUnexpectedEOF, err)
	require.Len(t, results, 1)
	assert.Equal(t, point{X: 1}, results[0].Value)

	// Followed by whitespace it has a boundary, so it is reported.
	results, err = decodeAll[point](t, strings.NewReader("{\"x\":1}not-json\n"))
	require.Equal(t, io.EOF, err)
	require.Len(t, results, 2)
	assert.ErrorIs(t, results[1].Err, ErrDecodeFailed)
}

func TestDecoderEndsMidLiteral(t *testing.T) {
	for _, tail := range []string{"tru", "nul", "fals", "1.", "-"} {
		results, err := decodeAll[any](t, strings.NewReader(`{"x":1} `+tail))
		assert.Equal(t, io.ErrUnexpectedEOF, err, tail)
		require.Len(t, results, 1, tail)
		assert.NoError(t, results[0].Err, tail)
	}

	results, err := decodeAll[any](t, strings.NewReader(`{"x":1} null`))
	require.Equal(t, io.EOF, err)
	assert.Len(t, results, 2)
}

func TestDecoderCannotResyncAfterUnclosedValue(t *testing.T) {
	// The second value never closes, so it swallows the rest of the
	// stream and there is no further boundary to recover at.
	results, err := decodeAll[point](t, strings.NewReader(`{"x":1,"y":2}{bad{"x":3,"y":4}`))
	require.Equal(t, io.ErrUnexpectedEOF, err)

	require.Len(t, results, 1)
	assert.Equal(t, point{X: 1, Y: 2}, results[0].Value)
}

func TestDecoderEndsMidValue(t *testing.T) {
	results, err := decodeAll[point](t, strings.NewReader(`{"x":1,"y":2}{"x":3,"y`))
	require.Equal(t, io.ErrUnexpectedEOF, err)

	require.Len(t, results, 1)
	assert.NoError(t, results[0].Err)
}

func TestDecoderDynamic(t *testing.T) {
	results, err := decodeAll[any](t, strings.NewReader(`{"type":"ADDED","object":{"n":[1,"a",null]}} 7`))
	require.Equal(t, io.EOF, err)

	require.Len(t, results, 2)
	assert.Equal(t, map[string]any{
		"type":   "ADDED",
		"object": map[string]any{"n": []any{float64(1), "a", nil}},
	}, results[0].Value)
	assert.Equal(t, float64(7), results[1].Value)
}

func TestDecoderRawMessage(t *testing.T) {
	results, err := decodeAll[json.RawMessage](t, strings.NewReader(`{"a":1} [true]`))
	require.Equal(t, io.EOF, err)

	require.Len(t, results, 2)
	assert.JSONEq(t, `{"a":1}`, string(results[0].Value))
	assert.JSONEq(t, `[true]`, string(results[1].Value))
}

func TestDecoderWithUnmarshaler(t *testing.T) {
	var seen []string
	unmarshal := func(data []byte, v any) error {
		seen = append(seen, string(data))
		return json.Unmarshal(data, v)
	}

	_, err := decodeAll[point](t, strings.NewReader(`{"x":1} {"y":2}`), WithUnmarshaler(unmarshal))
	require.Equal(t, io.EOF, err)
	assert.Equal(t, []string{`{"x":1}`, `{"y":2}`}, seen)
}

type closeRecorder struct {
	io.Reader
	closed bool
}

func (c *closeRecorder) Close() error {
	c.closed = true
	return nil
}

func TestDecoderClose(t *testing.T) {
	src := &closeRecorder{Reader: strings.NewReader("")}
	require.NoError(t, NewDecoder[point](src).Close())
	assert.True(t, src.closed)

	assert.NoError(t, NewDecoder[point](strings.NewReader("")).Close())
}
