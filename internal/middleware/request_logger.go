package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// RequestLogger writes one line per request and puts a request scoped logger
// into the user context, retrievable with zerolog.Ctx.
func RequestLogger(base *zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		l := base.With().
			Str("method", c.Method()).
			Str("path", c.Path()).
			Str("remote_ip", c.IP()).
			Str("user_agent", c.Get(fiber.HeaderUserAgent)).
			Logger()
		if rid := c.GetRespHeader(fiber.HeaderXRequestID); rid != "" {
			l = l.With().Str("request_id", rid).Logger()
		}

		c.SetUserContext(l.WithContext(c.UserContext()))

		start := time.Now()
		chainErr := c.Next()
		if chainErr != nil {
			if err := c.App().Config().ErrorHandler(c, chainErr); err != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}
		dur := time.Since(start)
		status := c.Response().StatusCode()

		switch {
		case status >= fiber.StatusInternalServerError:
			l.Error().Err(chainErr).Int("status", status).Int64("duration_ms", dur.Milliseconds()).Msg("request completed")
		case status >= fiber.StatusBadRequest:
			l.Warn().Err(chainErr).Int("status", status).Int64("duration_ms", dur.Milliseconds()).Msg("request completed")
		default:
			l.Info().Int("status", status).Int64("duration_ms", dur.Milliseconds()).Int("bytes", len(c.Response().Body())).Msg("request completed")
		}
		return nil
	}
}
