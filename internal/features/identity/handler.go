package identity

import (
	"github.com/gin-gonic/gin"
	"github.com/xyz-asif/strayrescue/internal/config"
	idToken "github.com/xyz-asif/strayrescue/internal/pkg/jwt"
	"github.com/xyz-asif/strayrescue/internal/pkg/response"
	"github.com/xyz-asif/strayrescue/internal/pkg/validator"
)

type Handler struct {
	repo *Repository
	cfg  *config.Config
}

func NewHandler(repo *Repository, cfg *config.Config) *Handler {
	return &Handler{repo: repo, cfg: cfg}
}

// MeResponse describes the current caller
type MeResponse struct {
	Actor           *Actor   `json:"actor"`
	Profile         *Profile `json:"profile,omitempty"`
	CanActOnReports bool     `json:"canActOnReports"`
}

// GetMe godoc
// @Summary Current user
// @Description Returns the resolved actor, its profile and whether it may act on rescue reports
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.APIResponse{data=MeResponse}
// @Failure 401 {object} response.APIResponse
// @Router /auth/me [get]
func (h *Handler) GetMe(c *gin.Context) {
	actor, ok := FromGin(c)
	if !ok {
		response.Unauthorized(c, "Authentication required", "AUTH_REQUIRED")
		return
	}

	profile, err := h.repo.GetByID(c.Request.Context(), actor.ID)
	if err != nil {
		response.DatabaseError(c, "Failed to load profile")
		return
	}

	response.Success(c, MeResponse{
		Actor:           actor,
		Profile:         profile,
		CanActOnReports: CanActOnReports(actor.Role),
	})
}

// IssueDevToken godoc
// @Summary Issue a development token
// @Description Upserts a profile and signs a JWT for it. Only mounted in development.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body DevTokenRequest true "Profile to sign in as"
// @Success 200 {object} response.APIResponse{data=DevTokenResponse}
// @Failure 422 {object} response.APIResponse
// @Router /auth/dev-token [post]
func (h *Handler) IssueDevToken(c *gin.Context) {
	var req DevTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindJSONError(c, err)
		return
	}

	role, err := ParseRole(req.Role)
	if err != nil {
		response.ValidationFailed(c, err.Error())
		return
	}
	if req.Email != "" && !validator.IsValidEmail(req.Email) {
		response.ValidationFailed(c, "Invalid email")
		return
	}

	profile := &Profile{
		ID:          req.UserID,
		Email:       req.Email,
		DisplayName: req.DisplayName,
		Role:        role,
	}
	if err := h.repo.Upsert(c.Request.Context(), profile); err != nil {
		response.DatabaseError(c, "Failed to save profile")
		return
	}

	jwtCfg := idToken.DefaultConfig(h.cfg.JWTSecret)
	if h.cfg.JWTExpireHours > 0 {
		jwtCfg.AccessExpiry = jwtExpiry(h.cfg.JWTExpireHours)
	}
	token, err := idToken.GenerateToken(profile.ID, profile.Email, string(role), jwtCfg)
	if err != nil {
		response.InternalServerError(c, "Failed to sign token", "TOKEN_FAILED")
		return
	}
	expiresAt, err := idToken.GetTokenExpiry(token, h.cfg.JWTSecret)
	if err != nil {
		response.InternalServerError(c, "Failed to sign token", "TOKEN_FAILED")
		return
	}

	response.Success(c, DevTokenResponse{AccessToken: token, ExpiresAt: expiresAt, Profile: profile})
}
