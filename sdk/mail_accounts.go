package sdk

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/birbparty/clusterapi/sdk/models"
	"github.com/birbparty/clusterapi/sdk/validation"
)

// Data keys set by the MailAccounts endpoint.
const (
	KeyMailAccounts      = "mailAccounts"
	KeyMailAccount       = "mailAccount"
	KeyMailAccountUsages = "mailAccountUsages"
)

// MailAccounts manages mailboxes.
type MailAccounts struct {
	endpoint
}

// List returns every mail account matching filter under KeyMailAccounts.
func (m *MailAccounts) List(ctx context.Context, filter *ListFilter) (*Response, error) {
	return listResources[models.MailAccount](ctx, &m.endpoint, "mail-accounts", KeyMailAccounts, filter)
}

// Get returns one mail account under KeyMailAccount.
func (m *MailAccounts) Get(ctx context.Context, id int) (*Response, error) {
	return getResource[models.MailAccount](ctx, &m.endpoint, buildPath("mail-accounts/{0}", id), KeyMailAccount)
}

// Usages returns the disk usage of a mailbox since from, one data point per
// unit, under KeyMailAccountUsages.
func (m *MailAccounts) Usages(ctx context.Context, id int, from time.Time, unit models.TimeUnit) (*Response, error) {
	if unit == "" {
		unit = models.TimeUnitHourly
	}
	if err := validation.Value("time_unit", string(unit)).ValueIn(models.TimeUnits...).Validate(); err != nil {
		return nil, err
	}
	query := url.Values{}
	query.Set("timestamp", from.Format(time.RFC3339))
	query.Set("time_unit", string(unit))

	resp, err := m.send(ctx, mustRequest(http.MethodGet, withQuery(buildPath("mail-accounts/usages/{0}", id), query), nil))
	if err != nil || !resp.IsSuccess() {
		return resp, err
	}

	// Older API versions answer with a single data point.
	if _, ok := resp.Payload().(map[string]any); ok {
		usage, err := decodeOne[models.MailAccountUsage](resp, KeyMailAccountUsages)
		if err != nil {
			return nil, err
		}
		return resp.withData(map[string]any{KeyMailAccountUsages: []*models.MailAccountUsage{usage}}), nil
	}
	usages, err := decodeMany[models.MailAccountUsage](resp, KeyMailAccountUsages)
	if err != nil {
		return nil, err
	}
	return resp.withData(map[string]any{KeyMailAccountUsages: usages}), nil
}

// Create creates a mail account. local_part, password and mail_domain_id
// are required.
func (m *MailAccounts) Create(ctx context.Context, account *models.MailAccount) (*Response, error) {
	return writeResource(ctx, &m.endpoint, writeSpec{
		op:       "mail_accounts.create",
		method:   http.MethodPost,
		path:     "mail-accounts",
		key:      KeyMailAccount,
		required: []string{"local_part", "password", "mail_domain_id"},
		allowed:  []string{"local_part", "password", "quota", "mail_domain_id"},
	}, account)
}

// Update replaces a mail account. The account must carry its id and
// cluster_id in addition to the create fields.
func (m *MailAccounts) Update(ctx context.Context, account *models.MailAccount) (*Response, error) {
	spec := writeSpec{
		op:       "mail_accounts.update",
		method:   http.MethodPut,
		key:      KeyMailAccount,
		required: []string{"local_part", "password", "mail_domain_id", "id", "cluster_id"},
		allowed:  []string{"local_part", "password", "quota", "mail_domain_id", "id", "cluster_id"},
	}
	if id := account.ID(); id != nil {
		spec.path = buildPath("mail-accounts/{0}", *id)
	}
	return writeResource(ctx, &m.endpoint, spec, account)
}

// Delete deletes a mail account.
func (m *MailAccounts) Delete(ctx context.Context, id int) (*Response, error) {
	return deleteResource[models.MailAccount](ctx, &m.endpoint, "mail_accounts.delete",
		buildPath("mail-accounts/{0}", id), KeyMailAccount)
}
