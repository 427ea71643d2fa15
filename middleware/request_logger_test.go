package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	log := logrus.New()
	log.SetOutput(&buf)
	log.SetFormatter(&logrus.JSONFormatter{})

	app := fiber.New()
	app.Use(RequestLogger(log))
	app.Get("/missing", func(c *fiber.Ctx) error {
		assert.Equal(t, "req-42", RequestID(c))
		return c.SendStatus(fiber.StatusNotFound)
	})

	req := httptest.NewRequest(http.MethodGet, "/missing", nil)
	req.Header.Set("X-Request-Id", "req-42")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "req-42", resp.Header.Get("X-Request-Id"))

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warning", entry["level"])
	assert.Equal(t, "req-42", entry["request_id"])
	assert.EqualValues(t, fiber.StatusNotFound, entry["status_code"])
	assert.Equal(t, "/missing", entry["uri"])
}

func TestRequestLogger_GeneratesID(t *testing.T) {
	log := logrus.New()
	log.SetOutput(&bytes.Buffer{})

	app := fiber.New()
	app.Use(RequestLogger(log))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString(RequestID(c)) })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Len(t, resp.Header.Get("X-Request-Id"), 36)
}
