package handler

import (
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/anyulbade/agency-platform/internal/analytics"
	"github.com/anyulbade/agency-platform/internal/auth"
	"github.com/anyulbade/agency-platform/internal/dto"
)

const (
	stateCookie = "analytics_oauth_state"
	actorCookie = "analytics_oauth_actor"
)

type IntegrationHandler struct {
	source       *analytics.SearchConsole
	verifier     *auth.Verifier
	isProduction bool
}

func NewIntegrationHandler(source *analytics.SearchConsole, verifier *auth.Verifier, isProduction bool) *IntegrationHandler {
	return &IntegrationHandler{source: source, verifier: verifier, isProduction: isProduction}
}

func (h *IntegrationHandler) Connect(c *gin.Context) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create oauth state"})
		return
	}
	state := base64.URLEncoding.EncodeToString(b)

	// The provider redirect comes back without our Authorization header.
	actorToken, err := h.verifier.Issue(auth.ActorFromContext(c.Request.Context()), 20*time.Minute)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create oauth state"})
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(stateCookie, state, 20*60, "/", "", h.isProduction, true)
	c.SetCookie(actorCookie, actorToken, 20*60, "/", "", h.isProduction, true)

	c.Redirect(http.StatusTemporaryRedirect, h.source.AuthCodeURL(state))
}

func (h *IntegrationHandler) Callback(c *gin.Context) {
	expected, err := c.Cookie(stateCookie)
	if err != nil || expected == "" || c.Query("state") != expected {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid oauth state"})
		return
	}

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing authorization code"})
		return
	}

	actor := auth.ActorFromContext(c.Request.Context())
	if actor == "" {
		if token, err := c.Cookie(actorCookie); err == nil {
			actor, _ = h.verifier.ActorID("Bearer " + token)
		}
	}
	if actor == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if err := h.source.Exchange(c.Request.Context(), actor, code, c.Query("site_url")); err != nil {
		log.Error().Err(err).Str("actor", actor).Msg("analytics code exchange failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to connect analytics"})
		return
	}

	c.SetCookie(stateCookie, "", -1, "/", "", h.isProduction, true)
	c.SetCookie(actorCookie, "", -1, "/", "", h.isProduction, true)
	log.Info().Str("actor", actor).Msg("analytics integration connected")
	c.JSON(http.StatusOK, dto.IntegrationStatusResponse{Provider: analytics.Provider, Connected: true})
}

func (h *IntegrationHandler) Status(c *gin.Context) {
	connected, err := h.source.IsConnected(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.IntegrationStatusResponse{Provider: analytics.Provider, Connected: connected})
}

func (h *IntegrationHandler) Disconnect(c *gin.Context) {
	if err := h.source.Disconnect(c.Request.Context()); err != nil {
		_ = c.Error(err)
		return
	}
	log.Info().Str("actor", auth.ActorFromContext(c.Request.Context())).Msg("analytics integration disconnected")
	c.JSON(http.StatusOK, dto.IntegrationStatusResponse{Provider: analytics.Provider, Connected: false})
}
