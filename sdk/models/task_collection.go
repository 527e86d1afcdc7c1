package models

import (
	"github.com/google/uuid"

	"github.com/birbparty/clusterapi/sdk/validation"
)

// TaskCollection is the handle the API returns for asynchronous work. Its
// UUID can be polled, and the API calls back the optional callback URL given
// to the action that started it.
type TaskCollection struct {
	resource

	uuid            *string
	description     *string
	collectionType  *string
	objectID        *int
	objectModelName *string
	reference       *string
}

func (t *TaskCollection) UUID() string { return deref(t.uuid) }

func (t *TaskCollection) SetUUID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return validation.NewError("uuid", validation.ConstraintPattern, id, "must be a UUID: %v", err)
	}
	t.uuid = &id
	return nil
}

func (t *TaskCollection) Description() *string { return refCopy(t.description) }

func (t *TaskCollection) SetDescription(description *string) { t.description = refCopy(description) }

func (t *TaskCollection) CollectionType() *string { return refCopy(t.collectionType) }

func (t *TaskCollection) SetCollectionType(kind *string) { t.collectionType = refCopy(kind) }

func (t *TaskCollection) ObjectID() *int { return refCopy(t.objectID) }

func (t *TaskCollection) SetObjectID(id *int) { t.objectID = refCopy(id) }

func (t *TaskCollection) ObjectModelName() *string { return refCopy(t.objectModelName) }

func (t *TaskCollection) SetObjectModelName(name *string) { t.objectModelName = refCopy(name) }

func (t *TaskCollection) Reference() *string { return refCopy(t.reference) }

func (t *TaskCollection) SetReference(reference *string) { t.reference = refCopy(reference) }

// FromMap implements Model.
func (t *TaskCollection) FromMap(data map[string]any) error {
	var m TaskCollection
	r := newReader(data)
	required(r, "uuid", asString, m.SetUUID)
	optional(r, "description", asString, plain(m.SetDescription))
	optional(r, "collection_type", asString, plain(m.SetCollectionType))
	optional(r, "object_id", asInt, plain(m.SetObjectID))
	optional(r, "object_model_name", asString, plain(m.SetObjectModelName))
	optional(r, "reference", asString, plain(m.SetReference))
	m.resource.read(r)
	if err := r.done(); err != nil {
		return err
	}
	*t = m
	return nil
}

// ToMap implements Model.
func (t *TaskCollection) ToMap() map[string]any {
	return t.resource.write(map[string]any{
		"uuid":              val(t.uuid),
		"description":       val(t.description),
		"collection_type":   val(t.collectionType),
		"object_id":         val(t.objectID),
		"object_model_name": val(t.objectModelName),
		"reference":         val(t.reference),
	})
}
