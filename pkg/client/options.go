package client

import (
	"crypto/tls"
	"crypto/x509"
	"log/slog"
	"net/http"

	"github.com/EmilyShepherd/kubewatch-go/pkg/token"
)

type Option func(c *Cluster)

// WithHTTPClient replaces the HTTP client used for requests.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Cluster) {
		if httpClient != nil {
			c.HttpClient = httpClient
		}
	}
}

// WithTokenProvider sends the provider's token as a bearer token with
// every request. If the provider is also an io.Closer it is closed by
// Cluster.Close.
func WithTokenProvider(tp token.TokenProvider) Option {
	return func(c *Cluster) {
		c.token = tp
	}
}

// WithCACert trusts the given PEM encoded certificates when talking to
// the API server over TLS. It applies to the cluster's HTTP client
// whichever order the options are given in.
func WithCACert(ca []byte) Option {
	return func(c *Cluster) {
		certPool := x509.NewCertPool()
		certPool.AppendCertsFromPEM(ca)
		c.tlsConfig = &tls.Config{
			MinVersion: tls.VersionTLS12,
			RootCAs:    certPool,
		}
	}
}

func WithLogger(log *slog.Logger) Option {
	return func(c *Cluster) {
		if log != nil {
			c.log = log
		}
	}
}

// applyTLSConfig installs the configured TLS settings on a copy of the
// HTTP client's transport, leaving the caller's client untouched.
func (c *Cluster) applyTLSConfig() {
	if c.tlsConfig == nil {
		return
	}

	var transport *http.Transport
	switch rt := c.HttpClient.Transport.(type) {
	case nil:
		transport = http.DefaultTransport.(*http.Transport).Clone()
	case *http.Transport:
		transport = rt.Clone()
	default:
		c.log.Warn("CA certificate ignored, HTTP client has a custom transport")
		return
	}
	transport.TLSClientConfig = c.tlsConfig

	httpClient := *c.HttpClient
	httpClient.Transport = transport
	c.HttpClient = &httpClient
}
