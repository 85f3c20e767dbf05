package mealserver

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/oapi-codegen/runtime"

	"github.com/Apurer/mealgroup-api/internal/domains/orders/adapters/http/mapper"
	"github.com/Apurer/mealgroup-api/internal/domains/orders/application"
	apierrors "github.com/Apurer/mealgroup-api/internal/shared/errors"
)

// unauthorizedDetail is the only detail ever returned for credential failures.
const unauthorizedDetail = "participant credential is missing, invalid or expired"

var responder = apierrors.NewChainedResponder("",
	apierrors.KindMapper(application.Kind, map[string]apierrors.KindTemplate{
		"unauthorized":       {Problem: apierrors.ErrUnauthorized, Detail: unauthorizedDetail},
		"not_found":          {Problem: apierrors.ErrNotFound},
		"conflict":           {Problem: apierrors.ErrConflict},
		"invalid_transition": {Problem: apierrors.ErrInvalidTransition},
		"terminal_state":     {Problem: apierrors.ErrTerminalState},
		"invalid_input":      {Problem: apierrors.ErrValidation},
	}),
	mapRequestError,
)

func mapRequestError(err error) (apierrors.ProblemDetail, bool) {
	if errors.Is(err, mapper.ErrMalformedRequest) {
		return apierrors.ErrBadRequest.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

// respondServiceError writes the problem document for a service failure.
func respondServiceError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	responder.RespondError(c, err)
}

func respondBadRequest(c *gin.Context, err error) {
	responder.BadRequest(c, err.Error())
}

// parseIDParam binds a positive integer path parameter.
func parseIDParam(c *gin.Context, name string) (int64, bool) {
	var id int64
	err := runtime.BindStyledParameterWithLocation("simple", false, name, runtime.ParamLocationPath, c.Param(name), &id)
	if err == nil && id <= 0 {
		err = fmt.Errorf("%s must be a positive integer", name)
	}
	if err != nil {
		respondBadRequest(c, fmt.Errorf("invalid %s: %w", name, err))
		return 0, false
	}
	return id, true
}
