package models

import (
	"maps"

	"github.com/birbparty/clusterapi/sdk/validation"
)

// PassengerApp is an application served by Phusion Passenger.
type PassengerApp struct {
	resource

	name                 *string
	unixUserID           *int
	environment          string
	environmentVariables map[string]string
	maxPoolSize          *int
	maxRequests          *int
	poolIdleTime         *int
	port                 *int
	appType              string
	appRoot              *string
	nodejsVersion        *string
	startupFile          *string
	isNamespaced         bool
	cpuLimit             *int
	unitName             *string
}

// NewPassengerApp returns an app with the documented defaults applied.
func NewPassengerApp() *PassengerApp {
	return &PassengerApp{
		environment:          PassengerEnvironmentProduction,
		environmentVariables: map[string]string{},
		appType:              PassengerAppTypeNodeJS,
	}
}

func (p *PassengerApp) Name() string { return deref(p.name) }

func (p *PassengerApp) SetName(name string) error {
	if err := validation.Value("name", name).MaxLength(64).Pattern(patternSlug).Validate(); err != nil {
		return err
	}
	p.name = &name
	return nil
}

func (p *PassengerApp) UnixUserID() int { return deref(p.unixUserID) }

func (p *PassengerApp) SetUnixUserID(id int) { p.unixUserID = &id }

// Environment defaults to Production.
func (p *PassengerApp) Environment() string {
	if p.environment == "" {
		return PassengerEnvironmentProduction
	}
	return p.environment
}

func (p *PassengerApp) SetEnvironment(env string) error {
	if err := validation.Value("environment", env).ValueIn(PassengerEnvironments...).Validate(); err != nil {
		return err
	}
	p.environment = env
	return nil
}

func (p *PassengerApp) EnvironmentVariables() map[string]string {
	if p.environmentVariables == nil {
		return map[string]string{}
	}
	return maps.Clone(p.environmentVariables)
}

func (p *PassengerApp) SetEnvironmentVariables(vars map[string]string) {
	p.environmentVariables = maps.Clone(vars)
}

func (p *PassengerApp) MaxPoolSize() int { return deref(p.maxPoolSize) }

func (p *PassengerApp) SetMaxPoolSize(n int) { p.maxPoolSize = &n }

func (p *PassengerApp) MaxRequests() int { return deref(p.maxRequests) }

func (p *PassengerApp) SetMaxRequests(n int) { p.maxRequests = &n }

func (p *PassengerApp) PoolIdleTime() int { return deref(p.poolIdleTime) }

func (p *PassengerApp) SetPoolIdleTime(seconds int) { p.poolIdleTime = &seconds }

func (p *PassengerApp) Port() int { return deref(p.port) }

func (p *PassengerApp) SetPort(port int) { p.port = &port }

// AppType defaults to NodeJS.
func (p *PassengerApp) AppType() string {
	if p.appType == "" {
		return PassengerAppTypeNodeJS
	}
	return p.appType
}

func (p *PassengerApp) SetAppType(appType string) error {
	if err := validation.Value("app_type", appType).ValueIn(PassengerAppTypes...).Validate(); err != nil {
		return err
	}
	p.appType = appType
	return nil
}

func (p *PassengerApp) AppRoot() string { return deref(p.appRoot) }

func (p *PassengerApp) SetAppRoot(path string) error {
	if err := validation.Value("app_root", path).Path().Validate(); err != nil {
		return err
	}
	p.appRoot = &path
	return nil
}

func (p *PassengerApp) NodejsVersion() *string { return refCopy(p.nodejsVersion) }

func (p *PassengerApp) SetNodejsVersion(version *string) error {
	err := validation.Value("nodejs_version", version).
		Nullable().
		Pattern(patternNodejsVersion).
		Validate()
	if err != nil {
		return err
	}
	p.nodejsVersion = refCopy(version)
	return nil
}

func (p *PassengerApp) StartupFile() *string { return refCopy(p.startupFile) }

func (p *PassengerApp) SetStartupFile(path *string) error {
	err := validation.Value("startup_file", path).
		Nullable().
		Path().
		EndsWith(".js").
		Validate()
	if err != nil {
		return err
	}
	p.startupFile = refCopy(path)
	return nil
}

func (p *PassengerApp) IsNamespaced() bool { return p.isNamespaced }

func (p *PassengerApp) SetIsNamespaced(namespaced bool) { p.isNamespaced = namespaced }

func (p *PassengerApp) CPULimit() *int { return refCopy(p.cpuLimit) }

func (p *PassengerApp) SetCPULimit(limit *int) { p.cpuLimit = refCopy(limit) }

func (p *PassengerApp) UnitName() *string { return refCopy(p.unitName) }

func (p *PassengerApp) SetUnitName(name *string) { p.unitName = refCopy(name) }

// FromMap implements Model.
func (p *PassengerApp) FromMap(data map[string]any) error {
	m := NewPassengerApp()
	r := newReader(data)
	required(r, "name", asString, m.SetName)
	required(r, "unix_user_id", asInt, plain(m.SetUnixUserID))
	field(r, "environment", PassengerEnvironmentProduction, asString, m.SetEnvironment)
	field(r, "environment_variables", map[string]string{}, asStringMap, plain(m.SetEnvironmentVariables))
	required(r, "max_pool_size", asInt, plain(m.SetMaxPoolSize))
	required(r, "max_requests", asInt, plain(m.SetMaxRequests))
	required(r, "pool_idle_time", asInt, plain(m.SetPoolIdleTime))
	required(r, "port", asInt, plain(m.SetPort))
	field(r, "app_type", PassengerAppTypeNodeJS, asString, m.SetAppType)
	optional(r, "nodejs_version", asString, m.SetNodejsVersion)
	optional(r, "startup_file", asString, m.SetStartupFile)
	field(r, "is_namespaced", false, asBool, plain(m.SetIsNamespaced))
	optional(r, "cpu_limit", asInt, plain(m.SetCPULimit))
	required(r, "app_root", asString, m.SetAppRoot)
	optional(r, "unit_name", asString, plain(m.SetUnitName))
	m.resource.read(r)
	if err := r.done(); err != nil {
		return err
	}
	*p = *m
	return nil
}

// ToMap implements Model.
func (p *PassengerApp) ToMap() map[string]any {
	return p.resource.write(map[string]any{
		"name":                  val(p.name),
		"unix_user_id":          val(p.unixUserID),
		"environment":           p.Environment(),
		"environment_variables": p.EnvironmentVariables(),
		"max_pool_size":         val(p.maxPoolSize),
		"max_requests":          val(p.maxRequests),
		"pool_idle_time":        val(p.poolIdleTime),
		"port":                  val(p.port),
		"app_type":              p.AppType(),
		"nodejs_version":        val(p.nodejsVersion),
		"startup_file":          val(p.startupFile),
		"is_namespaced":         p.isNamespaced,
		"cpu_limit":             val(p.cpuLimit),
		"app_root":              val(p.appRoot),
		"unit_name":             val(p.unitName),
	})
}
