package client

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"

	"github.com/EmilyShepherd/kubewatch-go/pkg/token"
)

const (
	serviceAccountToken  = "/var/run/secrets/kubernetes.io/serviceaccount/token"
	serviceAccountCACert = "/var/run/secrets/kubernetes.io/serviceaccount/ca.crt"
)

// Cluster represents a connection to a Kubernetes API server.
type Cluster struct {
	HttpClient *http.Client

	host      *url.URL
	token     token.TokenProvider
	tlsConfig *tls.Config
	log       *slog.Logger
}

// NewCluster creates a Cluster for the API server at the given address,
// eg http://127.0.0.1:8080. The address must be an absolute URL; no
// connection is made until a request is issued.
func NewCluster(host string, opts ...Option) (*Cluster, error) {
	u, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}
	if !u.IsAbs() || u.Host == "" {
		return nil, fmt.Errorf("%w: %q is not an absolute URL", ErrInvalidURL, host)
	}

	c := &Cluster{
		HttpClient: &http.Client{},
		host:       u,
		log:        slog.Default(),
	}
	for _, o := range opts {
		o(c)
	}
	c.applyTLSConfig()

	return c, nil
}

// NewInCluster creates a Cluster if it is inside Kubernetes.
func NewInCluster(opts ...Option) (*Cluster, error) {
	host, port := os.Getenv("KUBERNETES_SERVICE_HOST"), os.Getenv("KUBERNETES_SERVICE_PORT")
	if len(host) == 0 || len(port) == 0 {
		return nil, fmt.Errorf("unable to load in-cluster configuration, KUBERNETES_SERVICE_HOST and KUBERNETES_SERVICE_PORT must be defined")
	}
	tp, err := token.NewFileToken(serviceAccountToken)
	if err != nil {
		return nil, err
	}
	ca, err := os.ReadFile(serviceAccountCACert)
	if err != nil {
		tp.Close()
		return nil, err
	}

	opts = append([]Option{WithCACert(ca), WithTokenProvider(tp)}, opts...)

	c, err := NewCluster("https://"+net.JoinHostPort(host, port), opts...)
	if err != nil {
		tp.Close()
		return nil, err
	}
	return c, nil
}

// Close releases the resources held by the cluster's token provider,
// such as the file watcher behind an in-cluster token. Streams already
// opened are not affected.
func (c *Cluster) Close() error {
	if closer, ok := c.token.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// Host returns the base address of the API server.
func (c *Cluster) Host() string {
	return c.host.String()
}

// resolve joins path onto the cluster's address.
func (c *Cluster) resolve(path string) (*url.URL, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}
	return c.host.ResolveReference(ref), nil
}

// Get issues a GET request for path, joined to the cluster's address.
//
// Only failures to complete the request are returned as errors; the
// response is returned whatever its status code and the caller is
// responsible for closing its body.
func (c *Cluster) Get(ctx context.Context, path string) (*http.Response, error) {
	u, err := c.resolve(path)
	if err != nil {
		return nil, err
	}
	return c.get(ctx, u)
}

func (c *Cluster) get(ctx context.Context, u *url.URL) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}

	req.Header.Set("Accept", "application/json")
	if c.token != nil {
		if token := c.token.Token(); len(token) > 0 {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.HttpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Warn("unexpected response status", "url", u.Redacted(), "status", resp.StatusCode)
	}

	return resp, nil
}
