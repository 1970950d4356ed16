package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"tokopos/internal/apperror"
	"tokopos/internal/middleware"
	"tokopos/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockTokenValidator struct {
	mock.Mock
}

func (m *MockTokenValidator) ValidateToken(token string) (models.Principal, error) {
	args := m.Called(token)
	return args.Get(0).(models.Principal), args.Error(1)
}

func newApp(v middleware.TokenValidator) *fiber.App {
	app := fiber.New()
	app.Get("/me", middleware.AuthRequired(v, zap.NewNop()), func(c *fiber.Ctx) error {
		p, ok := middleware.PrincipalFrom(c)
		if !ok {
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		return c.JSON(p)
	})
	return app
}

func get(t *testing.T, app *fiber.App, auth string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestAuthRequiredStoresPrincipal(t *testing.T) {
	v := new(MockTokenValidator)
	v.On("ValidateToken", "good").Return(models.Principal{UserID: "u-1", Username: "kasir"}, nil)

	resp := get(t, newApp(v), "Bearer good")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	v.AssertExpectations(t)
}

func TestAuthRequiredRejects(t *testing.T) {
	v := new(MockTokenValidator)
	v.On("ValidateToken", "bad").Return(models.Principal{}, apperror.Unauthorized("invalid token", errors.New("signature is invalid")))
	app := newApp(v)

	for name, header := range map[string]string{
		"missing header": "",
		"wrong scheme":   "Basic abc",
		"no token":       "Bearer",
		"invalid token":  "Bearer bad",
	} {
		t.Run(name, func(t *testing.T) {
			resp := get(t, app, header)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		})
	}
	v.AssertNumberOfCalls(t, "ValidateToken", 1)
}
