package sdk

import (
	"context"
	"net/http"

	"github.com/birbparty/clusterapi/sdk/models"
)

// Data keys set by the PassengerApps endpoint.
const (
	KeyPassengerApps = "passengerApps"
	KeyPassengerApp  = "passengerApp"
)

var (
	passengerAppRequired = []string{
		"name",
		"unix_user_id",
		"environment",
		"max_pool_size",
		"max_requests",
		"pool_idle_time",
		"port",
		"app_type",
		"app_root",
	}
	passengerAppAllowed = []string{
		"name",
		"unix_user_id",
		"environment",
		"environment_variables",
		"max_pool_size",
		"max_requests",
		"pool_idle_time",
		"port",
		"app_type",
		"app_root",
		"nodejs_version",
		"startup_file",
		"is_namespaced",
		"cpu_limit",
	}
)

// PassengerApps manages Passenger applications.
type PassengerApps struct {
	endpoint
}

// List returns every app matching filter under KeyPassengerApps.
func (p *PassengerApps) List(ctx context.Context, filter *ListFilter) (*Response, error) {
	return listResources[models.PassengerApp](ctx, &p.endpoint, "passenger-apps", KeyPassengerApps, filter)
}

// Get returns one app under KeyPassengerApp.
func (p *PassengerApps) Get(ctx context.Context, id int) (*Response, error) {
	return getResource[models.PassengerApp](ctx, &p.endpoint, buildPath("passenger-apps/{0}", id), KeyPassengerApp)
}

// Create creates an app. The NodeJS create route is used for NodeJS apps,
// the only type the API offers.
func (p *PassengerApps) Create(ctx context.Context, app *models.PassengerApp) (*Response, error) {
	return writeResource(ctx, &p.endpoint, writeSpec{
		op:       "passenger_apps.create",
		method:   http.MethodPost,
		path:     "passenger-apps/nodejs",
		key:      KeyPassengerApp,
		required: passengerAppRequired,
		allowed:  passengerAppAllowed,
	}, app)
}

// Update replaces an app. id and cluster_id are required.
func (p *PassengerApps) Update(ctx context.Context, app *models.PassengerApp) (*Response, error) {
	spec := writeSpec{
		op:       "passenger_apps.update",
		method:   http.MethodPut,
		key:      KeyPassengerApp,
		required: append([]string{"id", "cluster_id"}, passengerAppRequired...),
		allowed:  append([]string{"id", "cluster_id"}, passengerAppAllowed...),
	}
	if id := app.ID(); id != nil {
		spec.path = buildPath("passenger-apps/{0}", *id)
	}
	return writeResource(ctx, &p.endpoint, spec, app)
}

// Delete deletes an app.
func (p *PassengerApps) Delete(ctx context.Context, id int) (*Response, error) {
	return deleteResource[models.PassengerApp](ctx, &p.endpoint, "passenger_apps.delete",
		buildPath("passenger-apps/{0}", id), KeyPassengerApp)
}
