package client

import (
	"path"
	"strings"
)

// ResourcePath identifies a collection of resources on the API server.
type ResourcePath struct {
	// APIVersion is either a core version such as "v1" or a group and
	// version such as "apps/v1".
	APIVersion string
	// Namespace may be empty for cluster wide collections.
	Namespace string
	Resource  string
}

// String returns the path of the collection relative to the API
// server's root, eg "api/v1/namespaces/default/pods".
func (r ResourcePath) String() string {
	version := r.APIVersion
	if version == "" {
		version = "v1"
	}

	var gvPath string
	if strings.Contains(version, "/") {
		gvPath = path.Join("apis", version)
	} else {
		gvPath = path.Join("api", version)
	}
	var nsPath string
	if r.Namespace != "" {
		nsPath = path.Join("namespaces", r.Namespace)
	}

	return path.Join(gvPath, nsPath, r.Resource)
}
