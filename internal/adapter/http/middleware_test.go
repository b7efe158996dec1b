package http

import (
	nethttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBearerAuth(t *testing.T) {
	validToken := "test-token-123"

	tests := []struct {
		name           string
		header         string
		handlerReached bool
		expectedStatus int
	}{
		{
			name:           "Valid Token",
			header:         "Bearer test-token-123",
			handlerReached: true,
			expectedStatus: nethttp.StatusOK,
		},
		{
			name:           "Invalid Token",
			header:         "Bearer wrong-token",
			handlerReached: false,
			expectedStatus: nethttp.StatusUnauthorized,
		},
		{
			name:           "Missing Header",
			header:         "",
			handlerReached: false,
			expectedStatus: nethttp.StatusUnauthorized,
		},
		{
			name:           "Missing Bearer Prefix",
			header:         "test-token-123",
			handlerReached: false,
			expectedStatus: nethttp.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handlerReached := false
			app := fiber.New()
			app.Use(BearerAuth(validToken))
			app.Get("/ping", func(c fiber.Ctx) error {
				handlerReached = true
				return c.SendString("pong")
			})

			req := httptest.NewRequest(nethttp.MethodGet, "/ping", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
			assert.Equal(t, tt.handlerReached, handlerReached, "handler reached status mismatch")
		})
	}
}
