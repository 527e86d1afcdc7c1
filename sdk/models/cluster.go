package models

import (
	"slices"

	"github.com/birbparty/clusterapi/sdk/validation"
)

// Cluster is a group of nodes hosting customer resources. Clusters are read
// only through this SDK.
type Cluster struct {
	id                         *int
	name                       string
	groups                     []string
	unixUsersHomeDirectory     *string
	databasesDataDirectory     *string
	phpVersions                []string
	customPhpModulesNames      []string
	phpIoncubeEnabled          *bool
	nodejsVersions             []string
	customerID                 *string
	wordpressToolkitEnabled    *bool
	databaseToolkitEnabled     *bool
	malwareToolkitEnabled      *bool
	malwareToolkitScansEnabled *bool
	bubblewrapToolkitEnabled   *bool
	syncToolkitEnabled         *bool
	description                *string
	createdAt                  *string
	updatedAt                  *string
}

func (c *Cluster) ID() *int { return refCopy(c.id) }

func (c *Cluster) SetID(id *int) { c.id = refCopy(id) }

// ClusterID is the cluster's own id.
func (c *Cluster) ClusterID() *int { return c.ID() }

func (c *Cluster) Name() string { return c.name }

func (c *Cluster) SetName(name string) error {
	if err := validation.Value("name", name).MaxLength(64).Pattern(`[a-z0-9-.]+`).Validate(); err != nil {
		return err
	}
	c.name = name
	return nil
}

func (c *Cluster) Groups() []string { return cloneOrEmpty(c.groups) }

func (c *Cluster) SetGroups(groups []string) { c.groups = slices.Clone(groups) }

func (c *Cluster) UnixUsersHomeDirectory() *string { return refCopy(c.unixUsersHomeDirectory) }

func (c *Cluster) SetUnixUsersHomeDirectory(path *string) error {
	if err := validation.Value("unix_users_home_directory", path).Nullable().Path().Validate(); err != nil {
		return err
	}
	c.unixUsersHomeDirectory = refCopy(path)
	return nil
}

func (c *Cluster) DatabasesDataDirectory() *string { return refCopy(c.databasesDataDirectory) }

func (c *Cluster) SetDatabasesDataDirectory(path *string) error {
	if err := validation.Value("databases_data_directory", path).Nullable().Path().Validate(); err != nil {
		return err
	}
	c.databasesDataDirectory = refCopy(path)
	return nil
}

func (c *Cluster) PhpVersions() []string { return cloneOrEmpty(c.phpVersions) }

func (c *Cluster) SetPhpVersions(versions []string) { c.phpVersions = slices.Clone(versions) }

func (c *Cluster) CustomPhpModulesNames() []string { return cloneOrEmpty(c.customPhpModulesNames) }

func (c *Cluster) SetCustomPhpModulesNames(names []string) {
	c.customPhpModulesNames = slices.Clone(names)
}

func (c *Cluster) PhpIoncubeEnabled() *bool { return refCopy(c.phpIoncubeEnabled) }

func (c *Cluster) SetPhpIoncubeEnabled(enabled *bool) { c.phpIoncubeEnabled = refCopy(enabled) }

func (c *Cluster) NodejsVersions() []string { return cloneOrEmpty(c.nodejsVersions) }

func (c *Cluster) SetNodejsVersions(versions []string) error {
	err := validation.Value("nodejs_versions", versions).
		Each().
		Pattern(patternNodejsVersion).
		Validate()
	if err != nil {
		return err
	}
	c.nodejsVersions = slices.Clone(versions)
	return nil
}

func (c *Cluster) CustomerID() *string { return refCopy(c.customerID) }

func (c *Cluster) SetCustomerID(id *string) error {
	err := validation.Value("customer_id", id).
		Nullable().
		MaxLength(6).
		Pattern(`[A-Z0-9]+`).
		Validate()
	if err != nil {
		return err
	}
	c.customerID = refCopy(id)
	return nil
}

func (c *Cluster) WordpressToolkitEnabled() *bool { return refCopy(c.wordpressToolkitEnabled) }

func (c *Cluster) SetWordpressToolkitEnabled(enabled *bool) {
	c.wordpressToolkitEnabled = refCopy(enabled)
}

func (c *Cluster) DatabaseToolkitEnabled() *bool { return refCopy(c.databaseToolkitEnabled) }

func (c *Cluster) SetDatabaseToolkitEnabled(enabled *bool) {
	c.databaseToolkitEnabled = refCopy(enabled)
}

func (c *Cluster) MalwareToolkitEnabled() *bool { return refCopy(c.malwareToolkitEnabled) }

func (c *Cluster) SetMalwareToolkitEnabled(enabled *bool) {
	c.malwareToolkitEnabled = refCopy(enabled)
}

func (c *Cluster) MalwareToolkitScansEnabled() *bool { return refCopy(c.malwareToolkitScansEnabled) }

func (c *Cluster) SetMalwareToolkitScansEnabled(enabled *bool) {
	c.malwareToolkitScansEnabled = refCopy(enabled)
}

func (c *Cluster) BubblewrapToolkitEnabled() *bool { return refCopy(c.bubblewrapToolkitEnabled) }

func (c *Cluster) SetBubblewrapToolkitEnabled(enabled *bool) {
	c.bubblewrapToolkitEnabled = refCopy(enabled)
}

func (c *Cluster) SyncToolkitEnabled() *bool { return refCopy(c.syncToolkitEnabled) }

func (c *Cluster) SetSyncToolkitEnabled(enabled *bool) { c.syncToolkitEnabled = refCopy(enabled) }

func (c *Cluster) Description() *string { return refCopy(c.description) }

func (c *Cluster) SetDescription(description *string) error {
	err := validation.Value("description", description).
		Nullable().
		MaxLength(255).
		Pattern(`[a-zA-Z0-9-_ ]+`).
		Validate()
	if err != nil {
		return err
	}
	c.description = refCopy(description)
	return nil
}

func (c *Cluster) CreatedAt() *string { return refCopy(c.createdAt) }

func (c *Cluster) SetCreatedAt(ts *string) { c.createdAt = refCopy(ts) }

func (c *Cluster) UpdatedAt() *string { return refCopy(c.updatedAt) }

func (c *Cluster) SetUpdatedAt(ts *string) { c.updatedAt = refCopy(ts) }

// FromMap implements Model.
func (c *Cluster) FromMap(data map[string]any) error {
	var m Cluster
	r := newReader(data)
	field(r, "name", "", asString, m.SetName)
	field(r, "groups", []string{}, asStrings, plain(m.SetGroups))
	optional(r, "unix_users_home_directory", asString, m.SetUnixUsersHomeDirectory)
	optional(r, "databases_data_directory", asString, m.SetDatabasesDataDirectory)
	field(r, "php_versions", []string{}, asStrings, plain(m.SetPhpVersions))
	field(r, "custom_php_modules_names", []string{}, asStrings, plain(m.SetCustomPhpModulesNames))
	optional(r, "php_ioncube_enabled", asBool, plain(m.SetPhpIoncubeEnabled))
	field(r, "nodejs_versions", []string{}, asStrings, m.SetNodejsVersions)
	optional(r, "customer_id", asString, m.SetCustomerID)
	optional(r, "wordpress_toolkit_enabled", asBool, plain(m.SetWordpressToolkitEnabled))
	optional(r, "database_toolkit_enabled", asBool, plain(m.SetDatabaseToolkitEnabled))
	optional(r, "malware_toolkit_enabled", asBool, plain(m.SetMalwareToolkitEnabled))
	optional(r, "malware_toolkit_scans_enabled", asBool, plain(m.SetMalwareToolkitScansEnabled))
	optional(r, "bubblewrap_toolkit_enabled", asBool, plain(m.SetBubblewrapToolkitEnabled))
	optional(r, "sync_toolkit_enabled", asBool, plain(m.SetSyncToolkitEnabled))
	optional(r, "description", asString, m.SetDescription)
	optional(r, "id", asInt, plain(m.SetID))
	optional(r, "created_at", asString, plain(m.SetCreatedAt))
	optional(r, "updated_at", asString, plain(m.SetUpdatedAt))
	if err := r.done(); err != nil {
		return err
	}
	*c = m
	return nil
}

// ToMap implements Model.
func (c *Cluster) ToMap() map[string]any {
	return map[string]any{
		"name":                          c.name,
		"groups":                        c.Groups(),
		"unix_users_home_directory":     val(c.unixUsersHomeDirectory),
		"databases_data_directory":      val(c.databasesDataDirectory),
		"php_versions":                  c.PhpVersions(),
		"custom_php_modules_names":      c.CustomPhpModulesNames(),
		"php_ioncube_enabled":           val(c.phpIoncubeEnabled),
		"nodejs_versions":               c.NodejsVersions(),
		"customer_id":                   val(c.customerID),
		"wordpress_toolkit_enabled":     val(c.wordpressToolkitEnabled),
		"database_toolkit_enabled":      val(c.databaseToolkitEnabled),
		"malware_toolkit_enabled":       val(c.malwareToolkitEnabled),
		"malware_toolkit_scans_enabled": val(c.malwareToolkitScansEnabled),
		"bubblewrap_toolkit_enabled":    val(c.bubblewrapToolkitEnabled),
		"sync_toolkit_enabled":          val(c.syncToolkitEnabled),
		"description":                   val(c.description),
		"id":                            val(c.id),
		"created_at":                    val(c.createdAt),
		"updated_at":                    val(c.updatedAt),
	}
}

func cloneOrEmpty(items []string) []string {
	if items == nil {
		return []string{}
	}
	return slices.Clone(items)
}
