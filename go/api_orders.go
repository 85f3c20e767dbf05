package mealserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Apurer/mealgroup-api/internal/domains/orders/adapters/http/mapper"
	"github.com/Apurer/mealgroup-api/internal/domains/orders/ports"
)

// OrderAPI wires organizer-facing HTTP transport to the order service.
type OrderAPI struct {
	service ports.Service
}

// NewOrderAPI creates an OrderAPI backed by the provided service.
func NewOrderAPI(service ports.Service) OrderAPI {
	return OrderAPI{service: service}
}

// Get /v1/orders
// Lists orders, most recently scheduled first
func (api *OrderAPI) ListOrders(c *gin.Context) {
	orders, err := api.service.ListOrders(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromOrders(orders))
}

// Post /v1/orders
// Creates an order open to join
func (api *OrderAPI) CreateOrder(c *gin.Context) {
	var payload mapper.CreateOrderRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	input, err := mapper.ToCreateOrderInput(payload)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	view, err := api.service.CreateOrder(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, mapper.FromOrderView(view))
}

// Get /v1/orders/:orderId
// Returns the organizer view with roster and quantity recommendation
func (api *OrderAPI) GetOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "orderId")
	if !ok {
		return
	}
	view, err := api.service.GetOrderView(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromOrderView(view))
}

// Patch /v1/orders/:orderId
// Applies a partial update; a status key advances the order one step
func (api *OrderAPI) UpdateOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "orderId")
	if !ok {
		return
	}
	body, err := c.GetRawData()
	if err != nil {
		respondBadRequest(c, err)
		return
	}
	input, err := mapper.ToUpdateOrderInput(id, body)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	view, err := api.service.UpdateOrder(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromOrderView(view))
}

// Delete /v1/orders/:orderId
// Deletes an order and its roster
func (api *OrderAPI) DeleteOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "orderId")
	if !ok {
		return
	}
	if err := api.service.DeleteOrder(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Post /v1/orders/:orderId/participants
// Invites a participant by id or email, or every member of a group
func (api *OrderAPI) AddParticipants(c *gin.Context) {
	id, ok := parseIDParam(c, "orderId")
	if !ok {
		return
	}
	var payload mapper.AddParticipantsRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	result, err := api.service.AddParticipants(c.Request.Context(), mapper.ToAddParticipantsInput(id, payload))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromInvitationResult(result))
}

// Post /v1/participants/:participantId/token
// Issues a participant credential for the preferences link
func (api *OrderAPI) IssueParticipantToken(c *gin.Context) {
	id, ok := parseIDParam(c, "participantId")
	if !ok {
		return
	}
	token, err := api.service.IssueParticipantToken(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, mapper.ParticipantToken{ParticipantID: id, Token: token})
}

// Get /v1/service-providers
// Lists the service provider catalog
func (api *OrderAPI) ListServiceProviders(c *gin.Context) {
	providers, err := api.service.ListServiceProviders(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromServiceProviders(providers))
}
