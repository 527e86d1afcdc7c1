package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/birbparty/clusterapi/internal/mockapi"
	"github.com/birbparty/clusterapi/internal/telemetry"
	"github.com/birbparty/clusterapi/sdk"
)

const token = "cli-secret"

func startMock(t *testing.T) string {
	t.Helper()
	cfg := mockapi.DefaultConfig()
	cfg.APIToken = token
	logger, _ := test.NewNullLogger()

	srv, err := mockapi.NewServer(cfg, logger, telemetry.NewMetrics("cli_test"))
	require.NoError(t, err)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = srv.Serve(ln) }()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	})
	return "http://" + ln.Addr().String() + "/api/v1/"
}

type result struct {
	stdout string
	stderr string
	err    error
}

func (r result) object(t *testing.T) map[string]any {
	t.Helper()
	require.NoError(t, r.err, r.stderr)
	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &out), r.stdout)
	return out
}

func (r result) list(t *testing.T) []map[string]any {
	t.Helper()
	require.NoError(t, r.err, r.stderr)
	var out []map[string]any
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &out), r.stdout)
	return out
}

// clusterctl runs one command against baseURL with output captured
func clusterctl(t *testing.T, baseURL string, args ...string) result {
	t.Helper()
	t.Setenv(EnvConfigFile, filepath.Join(t.TempDir(), "absent.yaml"))
	t.Setenv("LOG_LEVEL", "")

	var out, errOut bytes.Buffer
	a := &app{out: &out, errOut: &errOut}
	if baseURL != "" {
		args = append([]string{"--url", baseURL, "--token", token, "--timeout", "5s"}, args...)
	}
	err := run(context.Background(), a, args)
	return result{stdout: out.String(), stderr: errOut.String(), err: err}
}

func TestCLI_Clusters(t *testing.T) {
	url := startMock(t)

	clusters := clusterctl(t, url, "clusters", "list", "--sort", "id:desc").list(t)
	require.Len(t, clusters, 2)
	assert.EqualValues(t, 2, clusters[0]["id"])
	assert.Equal(t, "apps", clusters[0]["name"])

	clusters = clusterctl(t, url, "clusters", "list", "--filter", "name=default").list(t)
	require.Len(t, clusters, 1)
	assert.EqualValues(t, 1, clusters[0]["id"])

	r := clusterctl(t, url, "clusters", "get", "1", "-o", "yaml")
	require.NoError(t, r.err)
	assert.Contains(t, r.stdout, "name: default\n")

	r = clusterctl(t, url, "clusters", "get", "9")
	var apiErr *sdk.APIError
	require.ErrorAs(t, r.err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
}

func TestCLI_CmsLifecycle(t *testing.T) {
	url := startMock(t)

	r := clusterctl(t, url, "cmses", "create", "--set", "software_name=NextCloud", "--set", "virtual_host_id=2")
	cms := r.object(t)
	assert.EqualValues(t, 2, cms["id"])
	assert.EqualValues(t, 2, cms["cluster_id"])
	assert.Contains(t, r.stderr, "Affected clusters: 2\n")

	cmses := clusterctl(t, url, "cmses", "list", "--filter", "cluster_id=2").list(t)
	require.Len(t, cmses, 1)
	assert.Equal(t, "NextCloud", cmses[0]["software_name"])

	constant := clusterctl(t, url, "cmses", "set-constant", "2", "WP_DEBUG", "true").object(t)
	assert.Equal(t, true, constant["value"])

	option := clusterctl(t, url, "cmses", "set-option", "2", "blog_public", "0").object(t)
	assert.EqualValues(t, 0, option["value"])

	login := clusterctl(t, url, "cmses", "login", "2").object(t)
	assert.Contains(t, login["url"], "https://shop.example.org/")

	salts := clusterctl(t, url, "cmses", "regenerate-salts", "2")
	assert.EqualValues(t, 2, salts.object(t)["id"])
	assert.Contains(t, salts.stderr, "Affected clusters: 2\n")

	task := clusterctl(t, url, "cmses", "search-replace", "2", "--search", "http://", "--replace", "https://").object(t)
	assert.NotEmpty(t, task["uuid"])

	deleted := clusterctl(t, url, "cmses", "delete", "2")
	assert.Equal(t, map[string]any{"id": float64(2), "deleted": true}, deleted.object(t))
	assert.Contains(t, deleted.stderr, "Affected clusters: 2\n")

	r = clusterctl(t, url, "cmses", "get", "2")
	var apiErr *sdk.APIError
	require.ErrorAs(t, r.err, &apiErr)
	assert.Equal(t, "Object not found", apiErr.Detail)
}

func TestCLI_CmsInstallFromFile(t *testing.T) {
	url := startMock(t)

	path := filepath.Join(t.TempDir(), "install.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
database_name: wp_example
database_user_name: wp_example
database_user_password: s3cret pass
database_host: localhost
site_title: Example
site_url: https://example.com
locale: en_US
version: 6.4.3
admin_username: admin
admin_email_address: admin@example.com
`), 0o644))

	r := clusterctl(t, url, "cmses", "install", "1", "-f", path, "--set", "admin_password=admin pass")
	task := r.object(t)
	assert.NotEmpty(t, task["uuid"])
	assert.Contains(t, r.stderr, "Affected clusters: 1\n")

	r = clusterctl(t, url, "cmses", "install", "1", "-f", path)
	assert.ErrorContains(t, r.err, "admin_password")
}

func TestCLI_MailAccounts(t *testing.T) {
	url := startMock(t)

	updated := clusterctl(t, url, "mail-accounts", "update", "1",
		"--set", "quota=2048", "--set", "password=correct horse").object(t)
	assert.EqualValues(t, 2048, updated["quota"])
	assert.Equal(t, "info", updated["local_part"])
	assert.Nil(t, updated["password"])

	r := clusterctl(t, url, "mail-accounts", "update", "1", "--set", "quota=4096")
	assert.ErrorContains(t, r.err, "password")

	usages := clusterctl(t, url, "mail-accounts", "usages", "1", "--since", "2h").list(t)
	require.Len(t, usages, 3)
	assert.EqualValues(t, 1, usages[0]["mail_account_id"])

	r = clusterctl(t, url, "mail-accounts", "usages", "1", "--unit", "yearly")
	assert.ErrorContains(t, r.err, `invalid --unit "yearly"`)
}

func TestCLI_Borg(t *testing.T) {
	url := startMock(t)

	r := clusterctl(t, url, "borg", "archive-database", "--name", "nightly", "--database-id", "3", "--borg-repository-id", "1")
	assert.NotEmpty(t, r.object(t)["uuid"])
	assert.Contains(t, r.stderr, "Affected clusters:")

	r = clusterctl(t, url, "borg", "archive-database", "--name", "nightly")
	assert.Error(t, r.err)
}

func TestCLI_InputErrors(t *testing.T) {
	url := startMock(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"bad id", []string{"cmses", "get", "abc"}, `invalid id "abc"`},
		{"zero id", []string{"cmses", "get", "0"}, `invalid id "0"`},
		{"bad filter", []string{"cmses", "list", "--filter", "cluster_id"}, "expected field=value"},
		{"bad sort order", []string{"cmses", "list", "--sort", "id:sideways"}, "order"},
		{"bad set", []string{"cmses", "create", "--set", "software_name"}, "expected field=value"},
		{"bad output", []string{"clusters", "list", "-o", "xml"}, `unsupported output format "xml"`},
		{"model check", []string{"cmses", "create", "--set", "software_name=Joomla", "--set", "virtual_host_id=1"}, "software_name"},
		{"missing file", []string{"cmses", "create", "-f", "/nonexistent/cms.yaml"}, "failed to read"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := clusterctl(t, url, tt.args...)
			require.Error(t, r.err)
			assert.Contains(t, r.err.Error(), tt.want)
			assert.Empty(t, r.stdout)
		})
	}
}

func TestCLI_WrongToken(t *testing.T) {
	url := startMock(t)

	var out, errOut bytes.Buffer
	t.Setenv(EnvConfigFile, filepath.Join(t.TempDir(), "absent.yaml"))
	err := run(context.Background(), &app{out: &out, errOut: &errOut},
		[]string{"--url", url, "--token", "wrong", "clusters", "list"})

	var apiErr *sdk.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
}

func TestCLI_QueueConfigFromEnv(t *testing.T) {
	url := startMock(t)
	t.Setenv("NATS_BATCH_SIZE", "many")

	r := clusterctl(t, url, "clusters", "list", "--publish")
	require.Error(t, r.err)
	assert.Contains(t, r.err.Error(), "invalid NATS_BATCH_SIZE")

	r = clusterctl(t, url, "reports", "watch")
	require.Error(t, r.err)
	assert.Contains(t, r.err.Error(), "invalid NATS_BATCH_SIZE")
}

func TestCLI_Version(t *testing.T) {
	r := clusterctl(t, "", "version")
	require.NoError(t, r.err)
	assert.Contains(t, r.stdout, "clusterctl dev")
}
