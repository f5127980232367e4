package client

import (
	"context"

	"github.com/EmilyShepherd/kubewatch-go/pkg/stream"
)

// Events starts watching resource, a path relative to the cluster's
// address such as "api/v1/pods", and returns a stream of the events it
// reports, each decoded into T.
//
// The request is made before Events returns, so an unreachable server
// is reported straight away. The stream itself is returned as soon as
// the response headers arrive, without waiting for any events. Events
// which cannot be decoded into T are delivered as failed results rather
// than ending the stream. The stream ends when the server closes the
// connection, ctx is cancelled, or the stream is stopped; it is never
// re-established.
func Events[T any](ctx context.Context, c *Cluster, resource string, opts ...stream.Option) (*stream.AsyncStream[stream.Result[T]], error) {
	u, err := c.resolve(resource)
	if err != nil {
		return nil, err
	}

	q := u.Query()
	q.Set("watch", "true")
	u.RawQuery = q.Encode()

	resp, err := c.get(ctx, u)
	if err != nil {
		return nil, err
	}

	c.log.Debug("watch established", "url", u.Redacted(), "status", resp.StatusCode)

	opts = append([]stream.Option{stream.WithLogger(c.log)}, opts...)

	return stream.Generate[T](resp.Body, opts...), nil
}
