package auth

import "github.com/ayokitanulis/ayokitanulis/pkg/models"

// LoginPayload represents the login form.
type LoginPayload struct {
	ID       string `form:"id" json:"id" mod:"trim" validate:"required,max=50"`
	Password string `form:"password" json:"password" validate:"required"`
}

// SetupPayload represents the admin bootstrap form. The admin id is fixed.
type SetupPayload struct {
	Password string `form:"password" json:"password" validate:"required,min=6,max=72"`
}

// StatusResponse represents the auth status response.
type StatusResponse struct {
	NeedsSetup bool `json:"needs_setup"`
}

// MeResponse represents the current identity.
type MeResponse struct {
	*models.Identity
	IsAdmin bool `json:"is_admin"`
}

func buildMeResponse(identity *models.Identity) MeResponse {
	return MeResponse{Identity: identity, IsAdmin: identity.IsAdmin()}
}

// landingPage is where a freshly signed-in identity goes.
func landingPage(identity *models.Identity) string {
	if identity.IsAdmin() {
		return "/admin"
	}
	return "/"
}
