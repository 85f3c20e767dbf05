package errors

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errSecret = errors.New("token signature mismatch for key 0xdeadbeef")

func kindOf(err error) string {
	if errors.Is(err, errSecret) {
		return "unauthorized"
	}
	return "internal"
}

func serve(t *testing.T, responder *ChainedResponder, err error) (*httptest.ResponseRecorder, ProblemDetail) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/v1/profile", nil)
	responder.RespondError(c, err)
	var problem ProblemDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	return rec, problem
}

func TestChainedResponder_KindTemplateHidesCause(t *testing.T) {
	responder := NewChainedResponder("", KindMapper(kindOf, map[string]KindTemplate{
		"unauthorized": {Problem: ErrUnauthorized, Detail: "credential rejected"},
	}))

	rec, problem := serve(t, responder, errSecret)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, ContentTypeProblemJSON, rec.Header().Get("Content-Type"))
	assert.Equal(t, "credential rejected", problem.Detail)
	assert.Equal(t, "unauthorized", problem.Extensions["kind"])
	assert.Equal(t, "/v1/profile", problem.Instance)
}

func TestChainedResponder_UnknownErrorsAreOpaque(t *testing.T) {
	responder := NewChainedResponder("https://errors.example.com", KindMapper(kindOf, nil))

	rec, problem := serve(t, responder, errors.New("dial tcp 10.0.0.5:5432: connection refused"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, internalDetail, problem.Detail)
	assert.Equal(t, "https://errors.example.com"+TypeInternal, problem.Type)
}

func TestWithExtension_DoesNotMutateTemplate(t *testing.T) {
	_ = ErrConflict.WithKind("conflict")
	assert.Nil(t, ErrConflict.Extensions)
}
