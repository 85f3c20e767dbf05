package mealserver

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Apurer/mealgroup-api/internal/domains/orders/adapters/http/mapper"
	ordertypes "github.com/Apurer/mealgroup-api/internal/domains/orders/application/types"
	"github.com/Apurer/mealgroup-api/internal/domains/orders/ports"
)

// ProfileAPI serves the participant-facing endpoints. Every call is
// authenticated by the participant credential.
type ProfileAPI struct {
	service ports.Service
}

func NewProfileAPI(service ports.Service) ProfileAPI {
	return ProfileAPI{service: service}
}

// Get /v1/profile
// Returns the caller's profile and pending orders
func (api *ProfileAPI) GetProfile(c *gin.Context) {
	profile, err := api.service.GetParticipantProfile(c.Request.Context(), credential(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromProfile(profile))
}

// Post /v1/profile/orders/:orderId/response
// Accepts or declines an invitation
func (api *ProfileAPI) RespondToOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "orderId")
	if !ok {
		return
	}
	var payload mapper.RespondRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	line, err := api.service.RespondToOrder(c.Request.Context(), ordertypes.RespondInput{
		Credential: credential(c),
		OrderID:    id,
		Decision:   payload.Decision,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromRosterLine(line))
}

// credential reads the Authorization header, falling back to the token query
// parameter used by emailed preference links.
func credential(c *gin.Context) string {
	if header := strings.TrimSpace(c.GetHeader("Authorization")); header != "" {
		return header
	}
	return c.Query("token")
}
