package worker

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/birbparty/clusterapi/sdk"
	"github.com/birbparty/clusterapi/sdk/models"
)

// ClusterSyncer resolves each due cluster through the cluster API and
// hands it to Apply. A cluster that no longer exists counts as synced.
type ClusterSyncer struct {
	client *sdk.Client
	logger *logrus.Logger

	// Apply acts on the fetched cluster. The default logs it.
	Apply func(ctx context.Context, cluster *models.Cluster, cs ClusterSync) error
}

// NewClusterSyncer creates a syncer using client
func NewClusterSyncer(client *sdk.Client, logger *logrus.Logger) *ClusterSyncer {
	s := &ClusterSyncer{client: client, logger: logger}
	s.Apply = s.logCluster
	return s
}

// Sync implements Syncer
func (s *ClusterSyncer) Sync(ctx context.Context, cs ClusterSync) error {
	cluster, err := sdk.Result[*models.Cluster](s.client.Clusters().Get(ctx, cs.ClusterID))(sdk.KeyCluster)
	if err != nil {
		var apiErr *sdk.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			s.logger.WithField("cluster_id", cs.ClusterID).Warn("Affected cluster no longer exists")
			return nil
		}
		return fmt.Errorf("failed to fetch cluster %d: %w", cs.ClusterID, err)
	}
	return s.Apply(ctx, cluster, cs)
}

func (s *ClusterSyncer) logCluster(_ context.Context, cluster *models.Cluster, cs ClusterSync) error {
	s.logger.WithFields(logrus.Fields{
		"cluster_id": cs.ClusterID,
		"name":       cluster.Name(),
		"groups":     cluster.Groups(),
		"operations": cs.Operations,
		"reports":    cs.Reports,
	}).Info("Cluster sync due")
	return nil
}
