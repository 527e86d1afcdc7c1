package sdk

import (
	"context"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/birbparty/clusterapi/sdk/models"
	"github.com/birbparty/clusterapi/sdk/testdata"
	"github.com/birbparty/clusterapi/sdk/validation"
)

func newMailAccount(t *testing.T) *models.MailAccount {
	t.Helper()
	account := &models.MailAccount{}
	require.NoError(t, account.SetLocalPart("info"))
	require.NoError(t, account.SetPassword("correct horse"))
	account.SetMailDomainID(3)
	return account
}

func TestMailAccounts_Create(t *testing.T) {
	t.Run("password is required", func(t *testing.T) {
		client, api, _ := newFakeClient(t)
		account := &models.MailAccount{}
		require.NoError(t, account.SetLocalPart("info"))
		account.SetMailDomainID(3)

		_, err := client.MailAccounts().Create(context.Background(), account)
		verr, ok := validation.AsValidationError(err)
		require.True(t, ok)
		assert.Equal(t, "password", verr.Field)
		assert.Empty(t, api.requests())
	})

	t.Run("server-owned fields are not sent", func(t *testing.T) {
		client, api, _ := newFakeClient(t)
		api.on(http.MethodPost, "mail-accounts", http.StatusCreated, testdata.MailAccountPayload(9, 2))

		account := newMailAccount(t)
		account.SetID(lo.ToPtr(1))
		account.SetCreatedAt(lo.ToPtr("2020-01-01T00:00:00Z"))

		resp, err := client.MailAccounts().Create(context.Background(), account)
		require.NoError(t, err)

		body := api.lastCall().Body()
		assert.ElementsMatch(t, []string{"local_part", "password", "quota", "mail_domain_id"}, lo.Keys(body))
		assert.Nil(t, body["quota"])

		created, ok := DataAs[*models.MailAccount](resp, KeyMailAccount)
		require.True(t, ok)
		assert.Equal(t, 9, *created.ID())
		assert.Nil(t, created.Password(), "the API never echoes passwords")
		assert.Equal(t, []int{2}, resp.AffectedClusters())
	})
}

func TestMailAccounts_Update(t *testing.T) {
	t.Run("id and cluster_id are required", func(t *testing.T) {
		client, api, _ := newFakeClient(t)
		account := newMailAccount(t)
		account.SetID(lo.ToPtr(9))

		_, err := client.MailAccounts().Update(context.Background(), account)
		verr, ok := validation.AsValidationError(err)
		require.True(t, ok)
		assert.Equal(t, "cluster_id", verr.Field)
		assert.Empty(t, api.requests())
	})

	t.Run("puts to the object path", func(t *testing.T) {
		client, api, _ := newFakeClient(t)
		api.on(http.MethodPut, "mail-accounts/9", http.StatusOK, testdata.MailAccountPayload(9, 2))

		account := newMailAccount(t)
		account.SetID(lo.ToPtr(9))
		account.SetClusterID(lo.ToPtr(2))

		resp, err := client.MailAccounts().Update(context.Background(), account)
		require.NoError(t, err)
		assert.True(t, resp.IsSuccess())
		assert.Equal(t, []string{"PUT mail-accounts/9"}, api.requests())
		assert.ElementsMatch(t,
			[]string{"local_part", "password", "quota", "mail_domain_id", "id", "cluster_id"},
			lo.Keys(api.lastCall().Body()))
	})
}

func TestMailAccounts_Usages(t *testing.T) {
	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	usagesURL := func(unit string) string {
		return "mail-accounts/usages/9?" + url.Values{
			"timestamp": {"2024-03-01T00:00:00Z"},
			"time_unit": {unit},
		}.Encode()
	}

	t.Run("list payload", func(t *testing.T) {
		client, api, _ := newFakeClient(t)
		api.on(http.MethodGet, usagesURL("daily"), http.StatusOK, []any{
			testdata.MailAccountUsagePayload(9, 1.5),
			testdata.MailAccountUsagePayload(9, 2.25),
		})

		resp, err := client.MailAccounts().Usages(context.Background(), 9, from, models.TimeUnitDaily)
		require.NoError(t, err)
		usages, ok := DataAs[[]*models.MailAccountUsage](resp, KeyMailAccountUsages)
		require.True(t, ok)
		require.Len(t, usages, 2)
		assert.Equal(t, 2.25, usages[1].Usage())
	})

	t.Run("single object payload becomes a list", func(t *testing.T) {
		client, api, _ := newFakeClient(t)
		api.on(http.MethodGet, usagesURL("hourly"), http.StatusOK, testdata.MailAccountUsagePayload(9, 4))

		resp, err := client.MailAccounts().Usages(context.Background(), 9, from, "")
		require.NoError(t, err)
		usages, ok := DataAs[[]*models.MailAccountUsage](resp, KeyMailAccountUsages)
		require.True(t, ok)
		require.Len(t, usages, 1)
		assert.Equal(t, 9, usages[0].MailAccountID())
		assert.Equal(t, "hourly", api.lastCall().Query().Get("time_unit"))
	})

	t.Run("unknown unit is rejected locally", func(t *testing.T) {
		client, api, _ := newFakeClient(t)
		_, err := client.MailAccounts().Usages(context.Background(), 9, from, models.TimeUnit("yearly"))
		assert.True(t, IsValidationError(err))
		assert.Empty(t, api.requests())
	})
}

func TestMailAccounts_ListAndDelete(t *testing.T) {
	client, api, _ := newFakeClient(t)
	api.on(http.MethodGet, "mail-accounts", http.StatusOK, []any{testdata.MailAccountPayload(9, 2)})
	api.on(http.MethodGet, "mail-accounts/9", http.StatusOK, testdata.MailAccountPayload(9, 2))
	api.on(http.MethodDelete, "mail-accounts/9", http.StatusNoContent, nil)

	resp, err := client.MailAccounts().List(context.Background(), nil)
	require.NoError(t, err)
	accounts, ok := DataAs[[]*models.MailAccount](resp, KeyMailAccounts)
	require.True(t, ok)
	require.Len(t, accounts, 1)

	var affected AffectedClusters
	resp, err = client.MailAccounts().Delete(context.Background(), *accounts[0].ID())
	require.NoError(t, err)
	affected.Merge(resp)
	assert.Equal(t, []int{2}, affected.IDs())
}

func TestMailAccounts_DeleteLookupTransportFault(t *testing.T) {
	client, api, _ := newFakeClient(t)
	api.fail(http.MethodGet, "mail-accounts/9", newTransportError("send", context.DeadlineExceeded))
	api.on(http.MethodDelete, "mail-accounts/9", http.StatusNoContent, nil)

	resp, err := client.MailAccounts().Delete(context.Background(), 9)
	require.ErrorIs(t, err, ErrTransport)
	assert.True(t, IsTransportError(err))
	assert.Nil(t, resp)
	assert.Equal(t, []string{"GET mail-accounts/9"}, api.requests())
}
