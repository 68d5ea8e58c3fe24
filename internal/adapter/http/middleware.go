package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/lithammer/shortuuid/v4"
)

const requestIDHeader = "X-Request-ID"

// RequestID tags every request with a short id, reusing the caller's
// X-Request-ID when present.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(requestIDHeader)
		if id == "" {
			id = shortuuid.New()
		}
		c.Locals(requestIDHeader, id)
		c.Set(requestIDHeader, id)
		return c.Next()
	}
}

func requestID(c *fiber.Ctx) string {
	id, _ := c.Locals(requestIDHeader).(string)
	return id
}
