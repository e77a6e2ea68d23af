package httputil_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/voluntr/volunteer-api/pkg/errors"
	"github.com/voluntr/volunteer-api/pkg/httputil"
)

func respond(t *testing.T, err error) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	httputil.RespondWithError(c, err)
	return w
}

func TestRespondWithErrorMapsAppErrorStatus(t *testing.T) {
	w := respond(t, apperrors.NotFound("application", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRespondWithErrorUnwrapsWrappedAppError(t *testing.T) {
	wrapped := fmt.Errorf("updating status: %w", apperrors.Conflict("opportunity is closed or full", nil))

	w := respond(t, wrapped)
	assert.Equal(t, http.StatusConflict, w.Code)

	var resp httputil.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "opportunity is closed or full", resp.Error.Message)
}

func TestRespondWithErrorHidesUnknownErrors(t *testing.T) {
	w := respond(t, fmt.Errorf("pq: connection refused"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var resp httputil.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "internal server error", resp.Error.Message)
}
