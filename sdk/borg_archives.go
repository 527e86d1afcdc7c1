package sdk

import (
	"context"
	"net/http"

	"github.com/birbparty/clusterapi/sdk/models"
)

// BorgArchives creates Borg backups.
type BorgArchives struct {
	endpoint
}

// CreateDatabase archives a database into a Borg repository. name,
// database_id and borg_repository_id are required. On success the
// response holds KeyTaskCollection and the task's cluster is recorded.
func (b *BorgArchives) CreateDatabase(ctx context.Context, creation *models.BorgArchiveDatabaseCreation, callbackURL string) (*Response, error) {
	fields := []string{"name", "database_id", "borg_repository_id"}
	if err := validateRequired(creation, fields); err != nil {
		return nil, err
	}

	req := mustRequest(http.MethodPost,
		withQuery("borg-archives/database", optionalQuery("callback_url", callbackURL)),
		filterFields(creation.ToMap(), fields))
	resp, err := b.send(ctx, req)
	if err != nil || !resp.IsSuccess() {
		return resp, err
	}
	task, err := decodeOne[models.TaskCollection](resp, KeyTaskCollection)
	if err != nil {
		return nil, err
	}

	var affected AffectedClusters
	affected.AddRef(task.ClusterID())
	return b.finish("borg_archives.create_database", resp.withData(map[string]any{KeyTaskCollection: task}), &affected), nil
}
