package testdata

import (
	"fmt"
	"net/http"
)

// TaskUUID is the task collection UUID returned by the fixtures.
const TaskUUID = "9a6f0b3e-7e5c-4c1e-8f3a-2b1d0c9e8f7a"

const fixtureTimestamp = "2024-03-01T12:00:00Z"

// CmsPayload returns a CMS as the API serves it.
func CmsPayload(id, clusterID int) map[string]interface{} {
	return map[string]interface{}{
		"id":                  id,
		"cluster_id":          clusterID,
		"software_name":       "WordPress",
		"is_manually_created": false,
		"virtual_host_id":     12,
		"created_at":          fixtureTimestamp,
		"updated_at":          fixtureTimestamp,
	}
}

// TaskCollectionPayload returns a task collection handle.
func TaskCollectionPayload(clusterID int) map[string]interface{} {
	return map[string]interface{}{
		"id":                1,
		"cluster_id":        clusterID,
		"uuid":              TaskUUID,
		"description":       "Install CMS",
		"collection_type":   "synchronous",
		"object_id":         5,
		"object_model_name": "CMS",
		"reference":         "ref-1",
		"created_at":        fixtureTimestamp,
		"updated_at":        fixtureTimestamp,
	}
}

// MailAccountPayload returns a mail account. The API never echoes the
// password.
func MailAccountPayload(id, clusterID int) map[string]interface{} {
	return map[string]interface{}{
		"id":             id,
		"cluster_id":     clusterID,
		"local_part":     "info",
		"quota":          1024,
		"mail_domain_id": 3,
		"created_at":     fixtureTimestamp,
		"updated_at":     fixtureTimestamp,
	}
}

// MailAccountUsagePayload returns one usage data point.
func MailAccountUsagePayload(accountID int, usage float64) map[string]interface{} {
	return map[string]interface{}{
		"mail_account_id": accountID,
		"usage":           usage,
		"timestamp":       fixtureTimestamp,
	}
}

// VirtualHostPayload returns an Apache virtual host.
func VirtualHostPayload(id, clusterID int) map[string]interface{} {
	return map[string]interface{}{
		"id":                               id,
		"cluster_id":                       clusterID,
		"domain":                           "example.com",
		"server_aliases":                   []string{"www.example.com"},
		"unix_user_id":                     7,
		"document_root":                    "/home/app/example.com",
		"public_root":                      "/home/app/example.com/htdocs",
		"fpm_pool_id":                      nil,
		"passenger_app_id":                 nil,
		"custom_config":                    nil,
		"domain_root":                      "/home/app/example.com",
		"server_software_name":             "Apache",
		"allow_override_directives":        []string{"AuthConfig", "FileInfo", "Indexes", "Limit"},
		"allow_override_option_directives": []string{"Indexes", "MultiViews", "None", "SymLinksIfOwnerMatch"},
		"created_at":                       fixtureTimestamp,
		"updated_at":                       fixtureTimestamp,
	}
}

// PassengerAppPayload returns a NodeJS Passenger app.
func PassengerAppPayload(id, clusterID int) map[string]interface{} {
	return map[string]interface{}{
		"id":                    id,
		"cluster_id":            clusterID,
		"name":                  "api",
		"unix_user_id":          7,
		"environment":           "Production",
		"environment_variables": map[string]string{"NODE_ENV": "production"},
		"max_pool_size":         10,
		"max_requests":          2000,
		"pool_idle_time":        10,
		"port":                  3000,
		"app_type":              "NodeJS",
		"app_root":              "/home/app/api",
		"nodejs_version":        "18.20",
		"startup_file":          "/home/app/api/app.js",
		"is_namespaced":         false,
		"cpu_limit":             nil,
		"unit_name":             nil,
		"created_at":            fixtureTimestamp,
		"updated_at":            fixtureTimestamp,
	}
}

// DomainRouterPayload returns a domain router pointing at a virtual host.
func DomainRouterPayload(id, clusterID int) map[string]interface{} {
	return map[string]interface{}{
		"id":              id,
		"cluster_id":      clusterID,
		"domain":          "example.com",
		"virtual_host_id": 4,
		"url_redirect_id": nil,
		"force_ssl":       true,
		"node_id":         nil,
		"created_at":      fixtureTimestamp,
		"updated_at":      fixtureTimestamp,
	}
}

// ClusterPayload returns a cluster definition.
func ClusterPayload(id int) map[string]interface{} {
	return map[string]interface{}{
		"id":                        id,
		"name":                      fmt.Sprintf("cluster-%d", id),
		"groups":                    []string{"Web", "Mail"},
		"unix_users_home_directory": "/home",
		"php_versions":              []string{"8.2", "8.3"},
		"custom_php_modules_names":  []string{},
		"nodejs_versions":           []string{"18.20"},
		"customer_id":               "C1",
		"description":               "Primary",
		"created_at":                fixtureTimestamp,
		"updated_at":                fixtureTimestamp,
	}
}

// ErrorScenarios are API failures every endpoint must pass through
// unchanged.
var ErrorScenarios = []struct {
	Name       string
	StatusCode int
	Detail     string
}{
	{Name: "BadRequest", StatusCode: http.StatusBadRequest, Detail: "Invalid request"},
	{Name: "Unauthorized", StatusCode: http.StatusUnauthorized, Detail: "Not authenticated"},
	{Name: "Forbidden", StatusCode: http.StatusForbidden, Detail: "Not allowed"},
	{Name: "NotFound", StatusCode: http.StatusNotFound, Detail: "Object not found"},
	{Name: "Conflict", StatusCode: http.StatusConflict, Detail: "Object already exists"},
	{Name: "InternalServerError", StatusCode: http.StatusInternalServerError, Detail: "Internal server error"},
}
