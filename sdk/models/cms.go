package models

import (
	"strconv"

	"github.com/birbparty/clusterapi/sdk/validation"
)

// Cms is a content management system installation on a virtual host.
type Cms struct {
	resource

	softwareName      *string
	isManuallyCreated bool
	virtualHostID     *int
}

func (c *Cms) SoftwareName() string { return deref(c.softwareName) }

func (c *Cms) SetSoftwareName(name string) error {
	if err := validation.Value("software_name", name).ValueIn(CmsSoftwareNames...).Validate(); err != nil {
		return err
	}
	c.softwareName = &name
	return nil
}

func (c *Cms) IsManuallyCreated() bool { return c.isManuallyCreated }

func (c *Cms) SetIsManuallyCreated(manual bool) { c.isManuallyCreated = manual }

func (c *Cms) VirtualHostID() *int { return refCopy(c.virtualHostID) }

func (c *Cms) SetVirtualHostID(id int) { c.virtualHostID = &id }

// FromMap implements Model.
func (c *Cms) FromMap(data map[string]any) error {
	var m Cms
	r := newReader(data)
	required(r, "software_name", asString, m.SetSoftwareName)
	field(r, "is_manually_created", false, asBool, plain(m.SetIsManuallyCreated))
	required(r, "virtual_host_id", asInt, plain(m.SetVirtualHostID))
	m.resource.read(r)
	if err := r.done(); err != nil {
		return err
	}
	*c = m
	return nil
}

// ToMap implements Model.
func (c *Cms) ToMap() map[string]any {
	return c.resource.write(map[string]any{
		"software_name":       val(c.softwareName),
		"is_manually_created": c.isManuallyCreated,
		"virtual_host_id":     val(c.virtualHostID),
	})
}

// CmsInstallation holds the parameters of a CMS install action. Every field
// is required by the install endpoint.
type CmsInstallation struct {
	databaseName         *string
	databaseUserName     *string
	databaseUserPassword *string
	databaseHost         *string
	siteTitle            *string
	siteURL              *string
	locale               *string
	version              *string
	adminUsername        *string
	adminPassword        *string
	adminEmailAddress    *string
}

func (c *CmsInstallation) DatabaseName() string { return deref(c.databaseName) }

func (c *CmsInstallation) SetDatabaseName(name string) error {
	return setChecked(&c.databaseName, name, validation.Value("database_name", name).MaxLength(63).Pattern(patternName))
}

func (c *CmsInstallation) DatabaseUserName() string { return deref(c.databaseUserName) }

func (c *CmsInstallation) SetDatabaseUserName(name string) error {
	return setChecked(&c.databaseUserName, name, validation.Value("database_user_name", name).MaxLength(32).Pattern(patternName))
}

func (c *CmsInstallation) DatabaseUserPassword() string { return deref(c.databaseUserPassword) }

func (c *CmsInstallation) SetDatabaseUserPassword(password string) error {
	return setChecked(&c.databaseUserPassword, password,
		validation.Value("database_user_password", password).MaxLength(255).Pattern(patternPrintable))
}

func (c *CmsInstallation) DatabaseHost() string { return deref(c.databaseHost) }

func (c *CmsInstallation) SetDatabaseHost(host string) error {
	return setChecked(&c.databaseHost, host, validation.Value("database_host", host).MaxLength(253).Pattern(`[a-zA-Z0-9-.:]+`))
}

func (c *CmsInstallation) SiteTitle() string { return deref(c.siteTitle) }

func (c *CmsInstallation) SetSiteTitle(title string) error {
	return setChecked(&c.siteTitle, title, validation.Value("site_title", title).MaxLength(253).Pattern(patternPrintable))
}

func (c *CmsInstallation) SiteURL() string { return deref(c.siteURL) }

func (c *CmsInstallation) SetSiteURL(url string) error {
	return setChecked(&c.siteURL, url, validation.Value("site_url", url).MaxLength(2083).Pattern(`https?://[!-~]+`))
}

func (c *CmsInstallation) Locale() string { return deref(c.locale) }

func (c *CmsInstallation) SetLocale(locale string) error {
	return setChecked(&c.locale, locale, validation.Value("locale", locale).MaxLength(15).Pattern(`[a-z]{2,3}(_[A-Z]{2})?`))
}

func (c *CmsInstallation) Version() string { return deref(c.version) }

func (c *CmsInstallation) SetVersion(version string) error {
	return setChecked(&c.version, version, validation.Value("version", version).MaxLength(20).Pattern(`[0-9.]+`))
}

func (c *CmsInstallation) AdminUsername() string { return deref(c.adminUsername) }

func (c *CmsInstallation) SetAdminUsername(name string) error {
	return setChecked(&c.adminUsername, name, validation.Value("admin_username", name).MaxLength(60).Pattern(patternName))
}

func (c *CmsInstallation) AdminPassword() string { return deref(c.adminPassword) }

func (c *CmsInstallation) SetAdminPassword(password string) error {
	return setChecked(&c.adminPassword, password,
		validation.Value("admin_password", password).MaxLength(255).Pattern(patternPrintable))
}

func (c *CmsInstallation) AdminEmailAddress() string { return deref(c.adminEmailAddress) }

func (c *CmsInstallation) SetAdminEmailAddress(email string) error {
	return setChecked(&c.adminEmailAddress, email,
		validation.Value("admin_email_address", email).MaxLength(255).Pattern(`[^@\s]+@[^@\s]+\.[^@\s]+`))
}

// FromMap implements Model.
func (c *CmsInstallation) FromMap(data map[string]any) error {
	var m CmsInstallation
	r := newReader(data)
	maybe(r, "database_name", asString, m.SetDatabaseName)
	maybe(r, "database_user_name", asString, m.SetDatabaseUserName)
	maybe(r, "database_user_password", asString, m.SetDatabaseUserPassword)
	maybe(r, "database_host", asString, m.SetDatabaseHost)
	maybe(r, "site_title", asString, m.SetSiteTitle)
	maybe(r, "site_url", asString, m.SetSiteURL)
	maybe(r, "locale", asString, m.SetLocale)
	maybe(r, "version", asString, m.SetVersion)
	maybe(r, "admin_username", asString, m.SetAdminUsername)
	maybe(r, "admin_password", asString, m.SetAdminPassword)
	maybe(r, "admin_email_address", asString, m.SetAdminEmailAddress)
	if err := r.done(); err != nil {
		return err
	}
	*c = m
	return nil
}

// ToMap implements Model.
func (c *CmsInstallation) ToMap() map[string]any {
	return map[string]any{
		"database_name":          val(c.databaseName),
		"database_user_name":     val(c.databaseUserName),
		"database_user_password": val(c.databaseUserPassword),
		"database_host":          val(c.databaseHost),
		"site_title":             val(c.siteTitle),
		"site_url":               val(c.siteURL),
		"locale":                 val(c.locale),
		"version":                val(c.version),
		"admin_username":         val(c.adminUsername),
		"admin_password":         val(c.adminPassword),
		"admin_email_address":    val(c.adminEmailAddress),
	}
}

// CmsOption is a named CMS setting with an integer value.
type CmsOption struct {
	name  *string
	value *int
}

func (o *CmsOption) Name() string { return deref(o.name) }

func (o *CmsOption) SetName(name string) error {
	if err := validation.Value("name", name).ValueIn(CmsOptionNames...).Validate(); err != nil {
		return err
	}
	o.name = &name
	return nil
}

func (o *CmsOption) Value() int { return deref(o.value) }

// SetValue accepts 0 or 1.
func (o *CmsOption) SetValue(value int) error {
	if err := validation.Value("value", strconv.Itoa(value)).ValueIn("0", "1").Validate(); err != nil {
		verr, _ := validation.AsValidationError(err)
		verr.Value = value
		return verr
	}
	o.value = &value
	return nil
}

// FromMap implements Model.
func (o *CmsOption) FromMap(data map[string]any) error {
	var m CmsOption
	r := newReader(data)
	required(r, "name", asString, m.SetName)
	required(r, "value", asInt, m.SetValue)
	if err := r.done(); err != nil {
		return err
	}
	*o = m
	return nil
}

// ToMap implements Model.
func (o *CmsOption) ToMap() map[string]any {
	return map[string]any{
		"name":  val(o.name),
		"value": val(o.value),
	}
}

// CmsConfigurationConstant is a constant defined in the CMS configuration
// file, such as WP_DEBUG. Its value is any JSON scalar.
type CmsConfigurationConstant struct {
	name  *string
	value any
}

func (c *CmsConfigurationConstant) Name() string { return deref(c.name) }

func (c *CmsConfigurationConstant) SetName(name string) error {
	if err := validation.Value("name", name).MaxLength(60).Pattern(`[a-zA-Z0-9_]+`).Validate(); err != nil {
		return err
	}
	c.name = &name
	return nil
}

func (c *CmsConfigurationConstant) Value() any { return c.value }

func (c *CmsConfigurationConstant) SetValue(value any) error {
	if _, ok := asScalar(value); !ok {
		return validation.NewError("value", validation.ConstraintType, value,
			"must be a string, number or boolean, got %T", value)
	}
	c.value = value
	return nil
}

// FromMap implements Model.
func (c *CmsConfigurationConstant) FromMap(data map[string]any) error {
	var m CmsConfigurationConstant
	r := newReader(data)
	required(r, "name", asString, m.SetName)
	required(r, "value", asScalar, m.SetValue)
	if err := r.done(); err != nil {
		return err
	}
	*c = m
	return nil
}

// ToMap implements Model.
func (c *CmsConfigurationConstant) ToMap() map[string]any {
	return map[string]any{
		"name":  val(c.name),
		"value": c.value,
	}
}

func setChecked(dst **string, v string, chain *validation.Validator) error {
	if err := chain.Validate(); err != nil {
		return err
	}
	*dst = &v
	return nil
}
