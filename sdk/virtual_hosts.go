package sdk

import (
	"context"
	"net/http"

	"github.com/birbparty/clusterapi/sdk/models"
)

// Data keys set by the VirtualHosts endpoint.
const (
	KeyVirtualHosts = "virtualHosts"
	KeyVirtualHost  = "virtualHost"
)

var (
	virtualHostRequired = []string{
		"domain",
		"unix_user_id",
		"document_root",
		"public_root",
		"server_software_name",
	}
	virtualHostAllowed = []string{
		"domain",
		"server_aliases",
		"unix_user_id",
		"document_root",
		"public_root",
		"fpm_pool_id",
		"passenger_app_id",
		"custom_config",
		"domain_root",
		"server_software_name",
		"allow_override_directives",
		"allow_override_option_directives",
	}
)

// VirtualHosts manages web server virtual hosts.
type VirtualHosts struct {
	endpoint
}

// List returns every virtual host matching filter under KeyVirtualHosts.
func (v *VirtualHosts) List(ctx context.Context, filter *ListFilter) (*Response, error) {
	return listResources[models.VirtualHost](ctx, &v.endpoint, "virtual-hosts", KeyVirtualHosts, filter)
}

// Get returns one virtual host under KeyVirtualHost.
func (v *VirtualHosts) Get(ctx context.Context, id int) (*Response, error) {
	return getResource[models.VirtualHost](ctx, &v.endpoint, buildPath("virtual-hosts/{0}", id), KeyVirtualHost)
}

// Create creates a virtual host.
func (v *VirtualHosts) Create(ctx context.Context, host *models.VirtualHost) (*Response, error) {
	return writeResource(ctx, &v.endpoint, writeSpec{
		op:       "virtual_hosts.create",
		method:   http.MethodPost,
		path:     "virtual-hosts",
		key:      KeyVirtualHost,
		required: virtualHostRequired,
		allowed:  virtualHostAllowed,
	}, host)
}

// Update replaces a virtual host. id and cluster_id are required.
func (v *VirtualHosts) Update(ctx context.Context, host *models.VirtualHost) (*Response, error) {
	spec := writeSpec{
		op:       "virtual_hosts.update",
		method:   http.MethodPut,
		key:      KeyVirtualHost,
		required: append([]string{"id", "cluster_id"}, virtualHostRequired...),
		allowed:  append([]string{"id", "cluster_id"}, virtualHostAllowed...),
	}
	if id := host.ID(); id != nil {
		spec.path = buildPath("virtual-hosts/{0}", *id)
	}
	return writeResource(ctx, &v.endpoint, spec, host)
}

// Delete deletes a virtual host.
func (v *VirtualHosts) Delete(ctx context.Context, id int) (*Response, error) {
	return deleteResource[models.VirtualHost](ctx, &v.endpoint, "virtual_hosts.delete",
		buildPath("virtual-hosts/{0}", id), KeyVirtualHost)
}
