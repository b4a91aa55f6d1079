package config

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type handler struct {
	cfg *Config
}

// SettingsResponse is the non-secret view of the running configuration that
// the admin dashboard shows.
type SettingsResponse struct {
	Environment           string `json:"environment"`
	Hostname              string `json:"hostname"`
	SessionExpiry         string `json:"session_expiry"`
	PasswordHashAlgorithm string `json:"password_hash_algorithm"`
	PageCacheEnabled      bool   `json:"page_cache_enabled"`
	PageCacheTTL          string `json:"page_cache_ttl"`
	UploadsEnabled        bool   `json:"uploads_enabled"`
	UploadMaxBytes        int64  `json:"upload_max_bytes"`
}

func (h *handler) retrieve(c echo.Context) error {
	resp := SettingsResponse{
		Environment:           h.cfg.Environment,
		Hostname:              h.cfg.Hostname,
		SessionExpiry:         h.cfg.SessionExpiry.String(),
		PasswordHashAlgorithm: h.cfg.PasswordHashAlgorithm,
		PageCacheEnabled:      h.cfg.RedisURL != "",
		PageCacheTTL:          h.cfg.PageCacheTTL.String(),
		UploadsEnabled:        h.cfg.UploadsEnabled(),
		UploadMaxBytes:        h.cfg.UploadMaxBytes,
	}

	return errors.WithStack(c.JSON(http.StatusOK, resp))
}
