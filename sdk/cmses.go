package sdk

import (
	"context"
	"net/http"

	"github.com/birbparty/clusterapi/sdk/models"
)

// Data keys set by the Cmses endpoint.
const (
	KeyCmses                    = "cmses"
	KeyCms                      = "cms"
	KeyTaskCollection           = "taskCollection"
	KeyCmsOption                = "cmsOption"
	KeyCmsConfigurationConstant = "cmsConfigurationConstant"
	KeyURL                      = "url"
)

var cmsInstallFields = []string{
	"database_name",
	"database_user_name",
	"database_user_password",
	"database_host",
	"site_title",
	"site_url",
	"locale",
	"version",
	"admin_username",
	"admin_password",
	"admin_email_address",
}

// Cmses manages CMS installations.
type Cmses struct {
	endpoint
}

// List returns every CMS matching filter under KeyCmses.
func (c *Cmses) List(ctx context.Context, filter *ListFilter) (*Response, error) {
	return listResources[models.Cms](ctx, &c.endpoint, "cmses", KeyCmses, filter)
}

// Get returns one CMS under KeyCms.
func (c *Cmses) Get(ctx context.Context, id int) (*Response, error) {
	return getResource[models.Cms](ctx, &c.endpoint, buildPath("cmses/{0}", id), KeyCms)
}

// Create creates a CMS. software_name and virtual_host_id are required.
func (c *Cmses) Create(ctx context.Context, cms *models.Cms) (*Response, error) {
	return writeResource(ctx, &c.endpoint, writeSpec{
		op:       "cmses.create",
		method:   http.MethodPost,
		path:     "cmses",
		key:      KeyCms,
		required: []string{"software_name", "virtual_host_id"},
		allowed:  []string{"software_name", "is_manually_created", "virtual_host_id"},
	}, cms)
}

// Delete deletes a CMS.
func (c *Cmses) Delete(ctx context.Context, id int) (*Response, error) {
	return deleteResource[models.Cms](ctx, &c.endpoint, "cmses.delete", buildPath("cmses/{0}", id), KeyCms)
}

func (c *Cmses) refetch(id int) func(context.Context) (*Response, error) {
	return func(ctx context.Context) (*Response, error) { return c.Get(ctx, id) }
}

// Install installs the CMS software. Every installation field is required.
// callbackURL, when not empty, is called by the API when the task finishes.
// On success the response holds KeyTaskCollection and the re-fetched KeyCms.
func (c *Cmses) Install(ctx context.Context, id int, install *models.CmsInstallation, callbackURL string) (*Response, error) {
	if err := validateRequired(install, cmsInstallFields); err != nil {
		return nil, err
	}
	action := &compoundAction{
		op: "cmses.install",
		request: mustRequest(http.MethodPost,
			withQuery(buildPath("cmses/{0}/install", id), optionalQuery("callback_url", callbackURL)),
			filterFields(install.ToMap(), cmsInstallFields)),
		decode:    decodeInto[models.TaskCollection](KeyTaskCollection),
		refetch:   c.refetch(id),
		parentKey: KeyCms,
	}
	return action.run(ctx, &c.endpoint)
}

// OneTimeLogin returns a single-use admin login URL under KeyURL.
func (c *Cmses) OneTimeLogin(ctx context.Context, id int) (*Response, error) {
	action := &compoundAction{
		op:      "cmses.one_time_login",
		request: mustRequest(http.MethodGet, buildPath("cmses/{0}/one-time-login", id), nil),
		decode: func(resp *Response) (map[string]any, error) {
			obj, _ := resp.Payload().(map[string]any)
			url, ok := obj["url"].(string)
			if !ok {
				return nil, &ResponseError{Op: KeyURL, StatusCode: resp.StatusCode(),
					Err: errMissingKey("url")}
			}
			return map[string]any{KeyURL: url}, nil
		},
	}
	return action.run(ctx, &c.endpoint)
}

// UpdateOption sets a CMS option. On success the response holds
// KeyCmsOption and the re-fetched KeyCms.
func (c *Cmses) UpdateOption(ctx context.Context, id int, option *models.CmsOption) (*Response, error) {
	fields := []string{"name", "value"}
	if err := validateRequired(option, fields); err != nil {
		return nil, err
	}
	action := &compoundAction{
		op: "cmses.update_option",
		request: mustRequest(http.MethodPut,
			buildPath("cmses/{0}/options/{1}", id, option.Name()),
			filterFields(option.ToMap(), fields)),
		decode:    decodeInto[models.CmsOption](KeyCmsOption),
		refetch:   c.refetch(id),
		parentKey: KeyCms,
	}
	return action.run(ctx, &c.endpoint)
}

// UpdateConfigurationConstant sets a constant in the CMS configuration file.
// On success the response holds KeyCmsConfigurationConstant and the
// re-fetched KeyCms.
func (c *Cmses) UpdateConfigurationConstant(ctx context.Context, id int, constant *models.CmsConfigurationConstant) (*Response, error) {
	fields := []string{"name", "value"}
	if err := validateRequired(constant, fields); err != nil {
		return nil, err
	}
	action := &compoundAction{
		op: "cmses.update_configuration_constant",
		request: mustRequest(http.MethodPut,
			buildPath("cmses/{0}/configuration-constants/{1}", id, constant.Name()),
			filterFields(constant.ToMap(), fields)),
		decode:    decodeInto[models.CmsConfigurationConstant](KeyCmsConfigurationConstant),
		refetch:   c.refetch(id),
		parentKey: KeyCms,
	}
	return action.run(ctx, &c.endpoint)
}

// SearchReplace replaces a string in the CMS database. The response holds
// only KeyTaskCollection; no cluster is recorded.
func (c *Cmses) SearchReplace(ctx context.Context, id int, search, replace, callbackURL string) (*Response, error) {
	query := optionalQuery("callback_url", callbackURL)
	query.Set("search_string", search)
	query.Set("replace_string", replace)
	action := &compoundAction{
		op:      "cmses.search_replace",
		request: mustRequest(http.MethodPost, withQuery(buildPath("cmses/{0}/search-replace", id), query), nil),
		decode:  decodeInto[models.TaskCollection](KeyTaskCollection),
	}
	return action.run(ctx, &c.endpoint)
}

// RegenerateSalts regenerates the CMS security salts. On success the
// response holds the re-fetched KeyCms.
func (c *Cmses) RegenerateSalts(ctx context.Context, id int) (*Response, error) {
	action := &compoundAction{
		op:        "cmses.regenerate_salts",
		request:   mustRequest(http.MethodPost, buildPath("cmses/{0}/regenerate-salts", id), nil),
		refetch:   c.refetch(id),
		parentKey: KeyCms,
	}
	return action.run(ctx, &c.endpoint)
}
