package models

import "github.com/birbparty/clusterapi/sdk/validation"

// BorgArchiveDatabaseCreation requests a Borg archive of one database.
type BorgArchiveDatabaseCreation struct {
	name             *string
	databaseID       *int
	borgRepositoryID *int
}

func (b *BorgArchiveDatabaseCreation) Name() string { return deref(b.name) }

func (b *BorgArchiveDatabaseCreation) SetName(name string) error {
	if err := validation.Value("name", name).MaxLength(64).Pattern(patternName).Validate(); err != nil {
		return err
	}
	b.name = &name
	return nil
}

func (b *BorgArchiveDatabaseCreation) DatabaseID() int { return deref(b.databaseID) }

func (b *BorgArchiveDatabaseCreation) SetDatabaseID(id int) { b.databaseID = &id }

func (b *BorgArchiveDatabaseCreation) BorgRepositoryID() int { return deref(b.borgRepositoryID) }

func (b *BorgArchiveDatabaseCreation) SetBorgRepositoryID(id int) { b.borgRepositoryID = &id }

// FromMap implements Model.
func (b *BorgArchiveDatabaseCreation) FromMap(data map[string]any) error {
	var m BorgArchiveDatabaseCreation
	r := newReader(data)
	required(r, "name", asString, m.SetName)
	required(r, "database_id", asInt, plain(m.SetDatabaseID))
	required(r, "borg_repository_id", asInt, plain(m.SetBorgRepositoryID))
	if err := r.done(); err != nil {
		return err
	}
	*b = m
	return nil
}

// ToMap implements Model.
func (b *BorgArchiveDatabaseCreation) ToMap() map[string]any {
	return map[string]any{
		"name":               val(b.name),
		"database_id":        val(b.databaseID),
		"borg_repository_id": val(b.borgRepositoryID),
	}
}
