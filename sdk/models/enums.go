package models

// Server software a virtual host can run on.
const (
	ServerSoftwareApache = "Apache"
	ServerSoftwareNginx  = "nginx"
)

var ServerSoftwareNames = []string{ServerSoftwareApache, ServerSoftwareNginx}

// Apache AllowOverride directives.
var (
	AllowOverrideDirectives = []string{"AuthConfig", "FileInfo", "Indexes", "Limit", "None"}

	DefaultAllowOverrideDirectives = []string{"AuthConfig", "FileInfo", "Indexes", "Limit"}
)

// Apache AllowOverride Options= directives.
var (
	AllowOverrideOptionDirectives = []string{
		"All", "FollowSymLinks", "Indexes", "MultiViews", "SymLinksIfOwnerMatch", "None",
	}

	DefaultAllowOverrideOptionDirectives = []string{"Indexes", "MultiViews", "None", "SymLinksIfOwnerMatch"}
)

// Passenger application environments.
const (
	PassengerEnvironmentProduction  = "Production"
	PassengerEnvironmentStaging     = "Staging"
	PassengerEnvironmentDevelopment = "Development"
)

var PassengerEnvironments = []string{
	PassengerEnvironmentProduction,
	PassengerEnvironmentStaging,
	PassengerEnvironmentDevelopment,
}

// Passenger application types.
const PassengerAppTypeNodeJS = "NodeJS"

var PassengerAppTypes = []string{PassengerAppTypeNodeJS}

// CMS software.
const (
	CmsSoftwareWordPress = "WordPress"
	CmsSoftwareNextCloud = "NextCloud"
)

var CmsSoftwareNames = []string{CmsSoftwareWordPress, CmsSoftwareNextCloud}

// CMS options that can be updated through the API.
const CmsOptionBlogPublic = "blog_public"

var CmsOptionNames = []string{CmsOptionBlogPublic}

// TimeUnit is the aggregation bucket for usage reports.
type TimeUnit string

const (
	TimeUnitHourly  TimeUnit = "hourly"
	TimeUnitDaily   TimeUnit = "daily"
	TimeUnitWeekly  TimeUnit = "weekly"
	TimeUnitMonthly TimeUnit = "monthly"
)

var TimeUnits = []string{
	string(TimeUnitHourly),
	string(TimeUnitDaily),
	string(TimeUnitWeekly),
	string(TimeUnitMonthly),
}

// Shared field patterns.
const (
	patternNodejsVersion = `[0-9]{1,2}\.[0-9]{1,2}`
	patternPrintable     = `[ -~]+`
	patternMultiline     = `[ -~\n]+`
	patternSlug          = `[a-z0-9-_]+`
	patternName          = `[a-zA-Z0-9-_]+`
)
