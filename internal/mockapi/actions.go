package mockapi

import (
	"fmt"
	"net/url"
	"slices"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/birbparty/clusterapi/sdk/models"
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

// maxUsagePoints caps the usage series of one request
const maxUsagePoints = 100

var timeUnitStep = map[string]time.Duration{
	string(models.TimeUnitHourly):  time.Hour,
	string(models.TimeUnitDaily):   24 * time.Hour,
	string(models.TimeUnitWeekly):  7 * 24 * time.Hour,
	string(models.TimeUnitMonthly): 30 * 24 * time.Hour,
}

func (h *Handler) cms(c *fiber.Ctx) (Record, error) {
	id, err := c.ParamsInt("id")
	if err != nil {
		return nil, invalid(c, "value is not a valid integer", "type_error.integer", "path", "id")
	}
	rec, ok := h.store.Get(KindCmses, id)
	if !ok {
		return nil, notFound(c)
	}
	return rec, nil
}

// callbackURL returns the validated callback_url query parameter.
func callbackURL(c *fiber.Ctx) (string, bool) {
	raw := c.Query("callback_url")
	if raw == "" {
		return "", true
	}
	u, err := url.ParseRequestURI(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", false
	}
	return raw, true
}

// startTask records a finished task for object and schedules its callback.
func (h *Handler) startTask(c *fiber.Ctx, description string, clusterID, objectID int, modelName, callback string) error {
	task, err := h.store.Insert(KindTaskCollections, Record{
		"uuid":              uuid.NewString(),
		"description":       description,
		"collection_type":   "asynchronous",
		"object_id":         objectID,
		"object_model_name": modelName,
		"reference":         uuid.NewString(),
		"cluster_id":        clusterID,
	})
	if err != nil {
		return err
	}
	if callback != "" {
		h.callbacks.Enqueue(c.UserContext(), callback, task)
	}
	return c.Status(fiber.StatusAccepted).JSON(task)
}

// InstallCms handles POST /cmses/:id/install
func (h *Handler) InstallCms(c *fiber.Ctx) error {
	cms, err := h.cms(c)
	if cms == nil {
		return err
	}
	callback, ok := callbackURL(c)
	if !ok {
		return invalid(c, "invalid or missing URL scheme", "value_error.url", "query", "callback_url")
	}
	body, err := h.body(c)
	if err != nil {
		return invalid(c, err.Error(), "value_error.jsondecode", "body")
	}
	for _, key := range cmsInstallFields {
		if body[key] == nil {
			return missing(c, "body", key)
		}
	}
	if _, err := models.Decode[models.CmsInstallation](body); err != nil {
		return invalidBody(c, err)
	}

	h.store.Touch(KindCmses, cms.ID())
	return h.startTask(c, "Install CMS", cms.ClusterID(), cms.ID(), "CMS", callback)
}

// OneTimeLogin handles GET /cmses/:id/one-time-login
func (h *Handler) OneTimeLogin(c *fiber.Ctx) error {
	cms, err := h.cms(c)
	if cms == nil {
		return err
	}
	domain := "localhost"
	if vh, ok := h.store.Get(KindVirtualHosts, intOf(cms["virtual_host_id"])); ok {
		domain = fmt.Sprint(vh["domain"])
	}
	return c.JSON(fiber.Map{
		"url": fmt.Sprintf("https://%s/wp-login.php?one_time_login=%s", domain, uuid.NewString()),
	})
}

// UpdateCmsOption handles PUT /cmses/:id/options/:name
func (h *Handler) UpdateCmsOption(c *fiber.Ctx) error {
	cms, err := h.cms(c)
	if cms == nil {
		return err
	}
	body, err := h.body(c)
	if err != nil {
		return invalid(c, err.Error(), "value_error.jsondecode", "body")
	}
	option, err := models.Decode[models.CmsOption](body)
	if err != nil {
		return invalidBody(c, err)
	}
	if option.Name() != c.Params("name") {
		return invalid(c, "name does not match the path", "value_error", "body", "name")
	}

	h.store.Touch(KindCmses, cms.ID())
	return c.JSON(option.ToMap())
}

// UpdateCmsConfigurationConstant handles
// PUT /cmses/:id/configuration-constants/:name
func (h *Handler) UpdateCmsConfigurationConstant(c *fiber.Ctx) error {
	cms, err := h.cms(c)
	if cms == nil {
		return err
	}
	body, err := h.body(c)
	if err != nil {
		return invalid(c, err.Error(), "value_error.jsondecode", "body")
	}
	constant, err := models.Decode[models.CmsConfigurationConstant](body)
	if err != nil {
		return invalidBody(c, err)
	}
	if constant.Name() != c.Params("name") {
		return invalid(c, "name does not match the path", "value_error", "body", "name")
	}

	h.store.Touch(KindCmses, cms.ID())
	return c.JSON(constant.ToMap())
}

// SearchReplaceCms handles POST /cmses/:id/search-replace
func (h *Handler) SearchReplaceCms(c *fiber.Ctx) error {
	cms, err := h.cms(c)
	if cms == nil {
		return err
	}
	for _, key := range []string{"search_string", "replace_string"} {
		if c.Query(key) == "" {
			return missing(c, "query", key)
		}
	}
	callback, ok := callbackURL(c)
	if !ok {
		return invalid(c, "invalid or missing URL scheme", "value_error.url", "query", "callback_url")
	}
	return h.startTask(c, "Search and replace in CMS database", cms.ClusterID(), cms.ID(), "CMS", callback)
}

// RegenerateCmsSalts handles POST /cmses/:id/regenerate-salts
func (h *Handler) RegenerateCmsSalts(c *fiber.Ctx) error {
	cms, err := h.cms(c)
	if cms == nil {
		return err
	}
	h.store.Touch(KindCmses, cms.ID())
	return c.SendStatus(fiber.StatusNoContent)
}

// MailAccountUsages handles GET /mail-accounts/usages/:id. The mock
// reports a slowly growing usage, one point per time unit from timestamp
// until now.
func (h *Handler) MailAccountUsages(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return invalid(c, "value is not a valid integer", "type_error.integer", "path", "id")
	}
	if _, ok := h.store.Get(KindMailAccounts, id); !ok {
		return notFound(c)
	}

	raw := c.Query("timestamp")
	if raw == "" {
		return missing(c, "query", "timestamp")
	}
	from, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return invalid(c, "invalid datetime format", "value_error.datetime", "query", "timestamp")
	}
	unit := c.Query("time_unit", string(models.TimeUnitHourly))
	if !slices.Contains(models.TimeUnits, unit) {
		return invalid(c, "unexpected value", "type_error.enum", "query", "time_unit")
	}

	step := timeUnitStep[unit]
	now := h.store.now().UTC()
	usages := []fiber.Map{}
	for ts, i := from.UTC(), 0; !ts.After(now) && i < maxUsagePoints; ts, i = ts.Add(step), i+1 {
		usages = append(usages, fiber.Map{
			"mail_account_id": id,
			"usage":           float64(100 + 10*i),
			"timestamp":       ts.Format(time.RFC3339),
		})
	}
	return c.JSON(usages)
}

// CreateDatabaseArchive handles POST /borg-archives/database
func (h *Handler) CreateDatabaseArchive(c *fiber.Ctx) error {
	callback, ok := callbackURL(c)
	if !ok {
		return invalid(c, "invalid or missing URL scheme", "value_error.url", "query", "callback_url")
	}
	body, err := h.body(c)
	if err != nil {
		return invalid(c, err.Error(), "value_error.jsondecode", "body")
	}
	creation, err := models.Decode[models.BorgArchiveDatabaseCreation](body)
	if err != nil {
		return invalidBody(c, err)
	}
	return h.startTask(c, "Create Borg archive of database", h.cfg.DefaultClusterID,
		creation.DatabaseID(), "BorgArchive", callback)
}
