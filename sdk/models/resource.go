package models

// resource carries the identity and bookkeeping fields every cluster-scoped
// object shares. The API assigns all of them; callers only set ID and
// ClusterID when addressing an existing object.
type resource struct {
	id        *int
	clusterID *int
	createdAt *string
	updatedAt *string
}

// ID returns the object id, nil before the object was created
func (r *resource) ID() *int { return refCopy(r.id) }

// SetID sets the object id
func (r *resource) SetID(id *int) { r.id = refCopy(id) }

// ClusterID returns the id of the cluster the object lives on
func (r *resource) ClusterID() *int { return refCopy(r.clusterID) }

// SetClusterID sets the cluster id
func (r *resource) SetClusterID(id *int) { r.clusterID = refCopy(id) }

// CreatedAt returns the creation timestamp as sent by the API
func (r *resource) CreatedAt() *string { return refCopy(r.createdAt) }

// SetCreatedAt sets the creation timestamp
func (r *resource) SetCreatedAt(ts *string) { r.createdAt = refCopy(ts) }

// UpdatedAt returns the last update timestamp as sent by the API
func (r *resource) UpdatedAt() *string { return refCopy(r.updatedAt) }

// SetUpdatedAt sets the last update timestamp
func (r *resource) SetUpdatedAt(ts *string) { r.updatedAt = refCopy(ts) }

func (r *resource) read(rd *reader) {
	optional(rd, "id", asInt, plain(r.SetID))
	optional(rd, "cluster_id", asInt, plain(r.SetClusterID))
	optional(rd, "created_at", asString, plain(r.SetCreatedAt))
	optional(rd, "updated_at", asString, plain(r.SetUpdatedAt))
}

func (r *resource) write(out map[string]any) map[string]any {
	out["id"] = val(r.id)
	out["cluster_id"] = val(r.clusterID)
	out["created_at"] = val(r.createdAt)
	out["updated_at"] = val(r.updatedAt)
	return out
}
