package resputil

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/loopwork/taskboard/pkg/taskctl"
)

func wrapOnRecorder(err error) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/v1/notifications", nil)
	WrapServiceError(c, err)
	return w
}

func TestWrapServiceErrorMapsCategories(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"not found", fmt.Errorf("task 7: %w", taskctl.ErrNotFound), http.StatusNotFound},
		{"forbidden", fmt.Errorf("membership required: %w", taskctl.ErrForbidden), http.StatusForbidden},
		{"invalid input", fmt.Errorf("title must not be empty: %w", taskctl.ErrInvalidInput), http.StatusBadRequest},
		{"conflict", fmt.Errorf("already a member: %w", taskctl.ErrConflict), http.StatusConflict},
		{"internal", fmt.Errorf("update task: %w", taskctl.ErrInternal), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := wrapOnRecorder(tc.err)
			assert.Equal(t, tc.code, w.Code)
		})
	}
}

func TestWrapServiceErrorHidesInternalDetail(t *testing.T) {
	w := wrapOnRecorder(errors.New("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "internal server error")
	assert.NotContains(t, w.Body.String(), "connection refused")
}
