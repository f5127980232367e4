package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/EmilyShepherd/kubewatch-go/internal/config"
	"github.com/EmilyShepherd/kubewatch-go/pkg/client"
	"github.com/EmilyShepherd/kubewatch-go/pkg/token"
	"github.com/EmilyShepherd/kubewatch-go/types"
)

// errWatchError is returned when the server ends a watch with an ERROR
// event, eg because the requested resource version has expired.
var errWatchError = errors.New("watch reported an error")

func newWatchCommand(conf *config.Config) (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:   "watch <resource>",
		Short: "Watch a resource collection and print its events",
		Example: "kubewatch watch pods --namespace=default\n" +
			"kubewatch watch deployments --api-version=apps/v1 --output=json\n" +
			"kubewatch watch /api/v1/nodes --reconnect",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd.Context(), conf, args[0], cmd.OutOrStdout())
		},
	}

	if err := conf.BindFlags(cmd.Flags(), config.WatchOptions); err != nil {
		return nil, err
	}

	return cmd, nil
}

// runWatch watches resource until ctx is cancelled or, when reconnection
// is disabled, until the watch ends.
func runWatch(ctx context.Context, conf *config.Config, resource string, out io.Writer) error {
	cluster, err := newCluster(conf)
	if err != nil {
		return err
	}
	defer cluster.Close()

	path := resourcePath(conf, resource)
	printer := newPrinter(conf.Output(), out)

	if !conf.Reconnect() {
		_, err := watchOnce(ctx, cluster, path, printer)
		return err
	}

	b := backoff.NewExponentialBackOff()
	b.MaxInterval = conf.ReconnectMaxInterval()
	if b.InitialInterval > b.MaxInterval {
		b.InitialInterval = b.MaxInterval
	}
	b.Reset()

	for {
		received, err := watchOnce(ctx, cluster, path, printer)
		if ctx.Err() != nil {
			return nil
		}
		if received > 0 {
			b.Reset()
		}

		sleep := b.NextBackOff()
		if sleep == backoff.Stop {
			sleep = b.MaxInterval
		}
		slog.Info("watch ended, reconnecting", "resource", path, "error", err, "after", sleep)

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(sleep):
		}
	}
}

// watchOnce runs a single watch to completion and reports how many
// events it received.
func watchOnce(ctx context.Context, cluster *client.Cluster, path string, p *printer) (int, error) {
	events, err := client.Events[types.Event[json.RawMessage]](ctx, cluster, path)
	if err != nil {
		return 0, err
	}
	defer events.Stop()

	received := 0
	for result := range events.All() {
		received++

		event, err := result.Get()
		if err != nil {
			slog.Warn("skipping event", "error", err)
			continue
		}
		if err := p.print(event); err != nil {
			return received, err
		}
	}

	return received, nil
}

// newCluster builds the cluster connection. The caller closes it to
// stop any token file watcher.
func newCluster(conf *config.Config) (*client.Cluster, error) {
	if conf.InCluster() {
		return client.NewInCluster()
	}

	var opts []client.Option

	if f := conf.CAFile(); f != "" {
		ca, err := os.ReadFile(f)
		if err != nil {
			return nil, fmt.Errorf("failed to read CA file: %w", err)
		}
		opts = append(opts, client.WithCACert(ca))
	}

	var tp *token.FileToken
	if f := conf.TokenFile(); f != "" {
		var err error
		tp, err = token.NewFileToken(f)
		if err != nil {
			return nil, fmt.Errorf("failed to read token file: %w", err)
		}
		opts = append(opts, client.WithTokenProvider(tp))
	}

	cluster, err := client.NewCluster(conf.Host(), opts...)
	if err != nil {
		if tp != nil {
			tp.Close()
		}
		return nil, err
	}

	return cluster, nil
}

// resourcePath returns resource unchanged if it is already a path,
// otherwise the collection path for the configured version and
// namespace.
func resourcePath(conf *config.Config, resource string) string {
	if strings.Contains(resource, "/") {
		return resource
	}

	return client.ResourcePath{
		APIVersion: conf.APIVersion(),
		Namespace:  conf.Namespace(),
		Resource:   resource,
	}.String()
}

type printer struct {
	json bool
	out  io.Writer
}

func newPrinter(format string, out io.Writer) *printer {
	return &printer{json: strings.EqualFold(format, "json"), out: out}
}

func (p *printer) print(event types.Event[json.RawMessage]) error {
	if !event.Type.Valid() {
		slog.Warn("unknown event type", "type", event.Type)
	}

	if event.Type == types.EventTypeError {
		var status metav1.Status
		if err := json.Unmarshal(event.Object, &status); err != nil {
			return fmt.Errorf("%w: %s", errWatchError, event.Object)
		}
		return fmt.Errorf("%w: %s (%d %s)", errWatchError, status.Message, status.Code, status.Reason)
	}

	if p.json {
		_, err := fmt.Fprintf(p.out, "%s\n", event.Object)
		return err
	}

	var obj unstructured.Unstructured
	if err := obj.UnmarshalJSON(event.Object); err != nil {
		slog.Warn("skipping event with unrecognised object", "type", event.Type, "error", err)
		return nil
	}

	name := obj.GetName()
	if ns := obj.GetNamespace(); ns != "" {
		name = ns + "/" + name
	}

	_, err := fmt.Fprintf(p.out, "%-9s %s %s\n", event.Type, obj.GetKind(), name)
	return err
}
