package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticParser map[string]string

func (p staticParser) Parse(token string) (string, error) {
	if email, ok := p[token]; ok {
		return email, nil
	}
	return "", errors.New("bad token")
}

func newAuthApp() *fiber.App {
	app := fiber.New()
	app.Get("/me", VerifyToken(staticParser{"good": "ana@example.com"}), func(c *fiber.Ctx) error {
		return c.SendString(CallerEmail(c))
	})
	return app
}

func TestVerifyTokenStoresEmail(t *testing.T) {
	req := httptest.NewRequest(fiber.MethodGet, "/me", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer good")

	resp, err := newAuthApp().Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "ana@example.com", string(body))
}

func TestVerifyTokenRejects(t *testing.T) {
	for name, header := range map[string]string{
		"missing":     "",
		"not bearer":  "Basic good",
		"empty":       "Bearer ",
		"wrong token": "Bearer forged",
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(fiber.MethodGet, "/me", nil)
			if header != "" {
				req.Header.Set(fiber.HeaderAuthorization, header)
			}

			resp, err := newAuthApp().Test(req)
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

			var body map[string]string
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, "unauthorized access", body["message"])
		})
	}
}

func TestRequestLoggerLevelsByStatus(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	app := fiber.New()
	app.Use(requestid.New())
	app.Use(RequestLogger(&logger))
	app.Get("/ok", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/boom", func(c *fiber.Ctx) error { return errors.New("boom") })

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/ok", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "info", line["level"])
	assert.Equal(t, float64(200), line["status"])
	assert.Equal(t, "/ok", line["path"])
	assert.NotEmpty(t, line["request_id"])

	buf.Reset()
	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "error", line["level"])
	assert.Equal(t, "boom", line["error"])

	buf.Reset()
	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/missing", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "warn", line["level"])
}

func TestRequestContextSetsDeadline(t *testing.T) {
	app := fiber.New()
	app.Use(RequestContext(3 * time.Second))
	app.Get("/", func(c *fiber.Ctx) error {
		deadline, ok := c.UserContext().Deadline()
		if !ok || time.Until(deadline) > 3*time.Second {
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}
