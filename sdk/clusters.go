package sdk

import (
	"context"

	"github.com/birbparty/clusterapi/sdk/models"
)

// Data keys set by the Clusters endpoint.
const (
	KeyClusters = "clusters"
	KeyCluster  = "cluster"
)

// Clusters reads cluster definitions. It is read-only and records no
// affected clusters.
type Clusters struct {
	endpoint
}

// List returns every cluster matching filter under KeyClusters.
func (c *Clusters) List(ctx context.Context, filter *ListFilter) (*Response, error) {
	return listResources[models.Cluster](ctx, &c.endpoint, "clusters", KeyClusters, filter)
}

// Get returns one cluster under KeyCluster.
func (c *Clusters) Get(ctx context.Context, id int) (*Response, error) {
	return getResource[models.Cluster](ctx, &c.endpoint, buildPath("clusters/{0}", id), KeyCluster)
}
