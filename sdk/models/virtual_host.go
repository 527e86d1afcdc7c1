package models

import (
	"slices"

	"github.com/birbparty/clusterapi/sdk/validation"
)

// VirtualHost is a web server virtual host.
//
// The AllowOverride fields only exist for Apache: on nginx their getters
// return nil and ToMap leaves the keys out entirely.
type VirtualHost struct {
	resource

	domain                        *string
	serverAliases                 []string
	unixUserID                    *int
	documentRoot                  *string
	publicRoot                    *string
	fpmPoolID                     *int
	passengerAppID                *int
	customConfig                  *string
	serverSoftwareName            *string
	domainRoot                    *string
	allowOverrideDirectives       []string
	allowOverrideOptionDirectives []string
}

func (v *VirtualHost) Domain() string { return deref(v.domain) }

func (v *VirtualHost) SetDomain(domain string) { v.domain = &domain }

func (v *VirtualHost) ServerAliases() []string { return slices.Clone(v.serverAliases) }

// SetServerAliases replaces the aliases. nil means no aliases.
func (v *VirtualHost) SetServerAliases(aliases []string) error {
	if aliases == nil {
		aliases = []string{}
	}
	if err := validation.Value("server_aliases", aliases).Unique().Validate(); err != nil {
		return err
	}
	v.serverAliases = slices.Clone(aliases)
	return nil
}

func (v *VirtualHost) UnixUserID() int { return deref(v.unixUserID) }

func (v *VirtualHost) SetUnixUserID(id int) { v.unixUserID = &id }

func (v *VirtualHost) DocumentRoot() string { return deref(v.documentRoot) }

func (v *VirtualHost) SetDocumentRoot(path string) error {
	if err := validation.Value("document_root", path).Path().Validate(); err != nil {
		return err
	}
	v.documentRoot = &path
	return nil
}

func (v *VirtualHost) PublicRoot() string { return deref(v.publicRoot) }

func (v *VirtualHost) SetPublicRoot(path string) error {
	if err := validation.Value("public_root", path).Path().Validate(); err != nil {
		return err
	}
	v.publicRoot = &path
	return nil
}

func (v *VirtualHost) FpmPoolID() *int { return refCopy(v.fpmPoolID) }

func (v *VirtualHost) SetFpmPoolID(id *int) { v.fpmPoolID = refCopy(id) }

func (v *VirtualHost) PassengerAppID() *int { return refCopy(v.passengerAppID) }

func (v *VirtualHost) SetPassengerAppID(id *int) { v.passengerAppID = refCopy(id) }

func (v *VirtualHost) CustomConfig() *string { return refCopy(v.customConfig) }

func (v *VirtualHost) SetCustomConfig(config *string) error {
	err := validation.Value("custom_config", config).
		Nullable().
		MaxLength(65535).
		Pattern(patternMultiline).
		Validate()
	if err != nil {
		return err
	}
	v.customConfig = refCopy(config)
	return nil
}

func (v *VirtualHost) ServerSoftwareName() string { return deref(v.serverSoftwareName) }

func (v *VirtualHost) SetServerSoftwareName(name string) error {
	err := validation.Value("server_software_name", name).
		ValueIn(ServerSoftwareNames...).
		Validate()
	if err != nil {
		return err
	}
	v.serverSoftwareName = &name
	return nil
}

func (v *VirtualHost) DomainRoot() *string { return refCopy(v.domainRoot) }

func (v *VirtualHost) SetDomainRoot(path *string) error {
	if err := validation.Value("domain_root", path).Nullable().Path().Validate(); err != nil {
		return err
	}
	v.domainRoot = refCopy(path)
	return nil
}

// AllowOverrideDirectives returns nil on nginx and the Apache defaults when
// nothing was set.
func (v *VirtualHost) AllowOverrideDirectives() []string {
	if v.ServerSoftwareName() == ServerSoftwareNginx {
		return nil
	}
	if v.allowOverrideDirectives == nil {
		return slices.Clone(DefaultAllowOverrideDirectives)
	}
	return slices.Clone(v.allowOverrideDirectives)
}

func (v *VirtualHost) SetAllowOverrideDirectives(directives []string) error {
	err := validation.Value("allow_override_directives", directives).
		Nullable().
		ValuesIn(AllowOverrideDirectives...).
		Unique().
		Validate()
	if err != nil {
		return err
	}
	v.allowOverrideDirectives = slices.Clone(directives)
	return nil
}

// AllowOverrideOptionDirectives behaves like AllowOverrideDirectives.
func (v *VirtualHost) AllowOverrideOptionDirectives() []string {
	if v.ServerSoftwareName() == ServerSoftwareNginx {
		return nil
	}
	if v.allowOverrideOptionDirectives == nil {
		return slices.Clone(DefaultAllowOverrideOptionDirectives)
	}
	return slices.Clone(v.allowOverrideOptionDirectives)
}

func (v *VirtualHost) SetAllowOverrideOptionDirectives(directives []string) error {
	err := validation.Value("allow_override_option_directives", directives).
		Nullable().
		ValuesIn(AllowOverrideOptionDirectives...).
		Unique().
		Validate()
	if err != nil {
		return err
	}
	v.allowOverrideOptionDirectives = slices.Clone(directives)
	return nil
}

// FromMap implements Model.
func (v *VirtualHost) FromMap(data map[string]any) error {
	var m VirtualHost
	r := newReader(data)
	required(r, "domain", asString, plain(m.SetDomain))
	field(r, "server_aliases", []string{}, asStrings, m.SetServerAliases)
	required(r, "unix_user_id", asInt, plain(m.SetUnixUserID))
	required(r, "document_root", asString, m.SetDocumentRoot)
	required(r, "public_root", asString, m.SetPublicRoot)
	optional(r, "fpm_pool_id", asInt, plain(m.SetFpmPoolID))
	optional(r, "passenger_app_id", asInt, plain(m.SetPassengerAppID))
	optional(r, "domain_root", asString, m.SetDomainRoot)
	optional(r, "custom_config", asString, m.SetCustomConfig)
	field(r, "allow_override_directives", []string(nil), asStrings, m.SetAllowOverrideDirectives)
	field(r, "allow_override_option_directives", []string(nil), asStrings, m.SetAllowOverrideOptionDirectives)
	required(r, "server_software_name", asString, m.SetServerSoftwareName)
	m.resource.read(r)
	if err := r.done(); err != nil {
		return err
	}
	*v = m
	return nil
}

// ToMap implements Model.
func (v *VirtualHost) ToMap() map[string]any {
	out := map[string]any{
		"domain":               val(v.domain),
		"server_aliases":       v.ServerAliases(),
		"unix_user_id":         val(v.unixUserID),
		"document_root":        val(v.documentRoot),
		"public_root":          val(v.publicRoot),
		"fpm_pool_id":          val(v.fpmPoolID),
		"passenger_app_id":     val(v.passengerAppID),
		"custom_config":        val(v.customConfig),
		"domain_root":          val(v.domainRoot),
		"server_software_name": val(v.serverSoftwareName),
	}
	if v.ServerSoftwareName() != ServerSoftwareNginx {
		out["allow_override_directives"] = v.AllowOverrideDirectives()
		out["allow_override_option_directives"] = v.AllowOverrideOptionDirectives()
	}
	if v.serverAliases == nil {
		out["server_aliases"] = []string{}
	}
	return v.resource.write(out)
}
