package mealserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
}

// NewRouter returns a new router.
func NewRouter(handleFunctions ApiHandleFunctions) *gin.Engine {
	return NewRouterWithGinEngine(gin.Default(), handleFunctions)
}

// NewRouterWithGinEngine adds the routes to an existing gin engine.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions) *gin.Engine {
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = DefaultHandleFunc
		}
		router.Handle(route.Method, route.Pattern, route.HandlerFunc)
	}
	return router
}

// DefaultHandleFunc answers routes without a handler.
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

// ApiHandleFunctions groups the API handlers.
type ApiHandleFunctions struct {
	OrderAPI   OrderAPI
	ProfileAPI ProfileAPI
}

// Health reports liveness.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func getRoutes(handleFunctions ApiHandleFunctions) []Route {
	return []Route{
		{"Health", http.MethodGet, "/health", Health},
		{"ListServiceProviders", http.MethodGet, "/v1/service-providers", handleFunctions.OrderAPI.ListServiceProviders},
		{"ListOrders", http.MethodGet, "/v1/orders", handleFunctions.OrderAPI.ListOrders},
		{"CreateOrder", http.MethodPost, "/v1/orders", handleFunctions.OrderAPI.CreateOrder},
		{"GetOrder", http.MethodGet, "/v1/orders/:orderId", handleFunctions.OrderAPI.GetOrder},
		{"UpdateOrder", http.MethodPatch, "/v1/orders/:orderId", handleFunctions.OrderAPI.UpdateOrder},
		{"DeleteOrder", http.MethodDelete, "/v1/orders/:orderId", handleFunctions.OrderAPI.DeleteOrder},
		{"AddParticipants", http.MethodPost, "/v1/orders/:orderId/participants", handleFunctions.OrderAPI.AddParticipants},
		{"IssueParticipantToken", http.MethodPost, "/v1/participants/:participantId/token", handleFunctions.OrderAPI.IssueParticipantToken},
		{"GetProfile", http.MethodGet, "/v1/profile", handleFunctions.ProfileAPI.GetProfile},
		{"RespondToOrder", http.MethodPost, "/v1/profile/orders/:orderId/response", handleFunctions.ProfileAPI.RespondToOrder},
	}
}
