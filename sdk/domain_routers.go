package sdk

import (
	"context"
	"net/http"

	"github.com/birbparty/clusterapi/sdk/models"
)

// Data keys set by the DomainRouters endpoint.
const (
	KeyDomainRouters = "domainRouters"
	KeyDomainRouter  = "domainRouter"
)

// DomainRouters manages domain routing. Routers are created and removed by
// the API together with their domains; they can only be updated.
type DomainRouters struct {
	endpoint
}

// List returns every router matching filter under KeyDomainRouters.
func (d *DomainRouters) List(ctx context.Context, filter *ListFilter) (*Response, error) {
	return listResources[models.DomainRouter](ctx, &d.endpoint, "domain-routers", KeyDomainRouters, filter)
}

// Get returns one router under KeyDomainRouter.
func (d *DomainRouters) Get(ctx context.Context, id int) (*Response, error) {
	return getResource[models.DomainRouter](ctx, &d.endpoint, buildPath("domain-routers/{0}", id), KeyDomainRouter)
}

// Update changes where a domain routes to.
func (d *DomainRouters) Update(ctx context.Context, router *models.DomainRouter) (*Response, error) {
	spec := writeSpec{
		op:       "domain_routers.update",
		method:   http.MethodPut,
		key:      KeyDomainRouter,
		required: []string{"domain", "force_ssl", "id", "cluster_id"},
		allowed: []string{
			"domain",
			"virtual_host_id",
			"url_redirect_id",
			"force_ssl",
			"node_id",
			"id",
			"cluster_id",
		},
	}
	if id := router.ID(); id != nil {
		spec.path = buildPath("domain-routers/{0}", *id)
	}
	return writeResource(ctx, &d.endpoint, spec, router)
}
