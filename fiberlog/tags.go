package fiberlog

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	TagPid      = "pid"
	TagStatus   = "status"
	TagLatency  = "latency"
	TagMethod   = "method"
	TagPath     = "path"
	TagIP       = "ip"
	TagBody     = "body"
	TagResBody  = "res_body"
	RequestID   = "request_id"
	TagUA       = "user_agent"
	TagBytesIn  = "bytes_in"
	TagBytesOut = "bytes_out"
)

// data хранит состояние на время обработки запроса
type data struct {
	pid   int
	start time.Time
	end   time.Time
}

// FuncTag вычисляет значение тега по контексту запроса
type FuncTag func(c *fiber.Ctx, d *data) any

var funcTagMap = map[string]FuncTag{
	TagPid:     func(c *fiber.Ctx, d *data) any { return d.pid },
	TagStatus:  func(c *fiber.Ctx, d *data) any { return c.Response().StatusCode() },
	TagLatency: func(c *fiber.Ctx, d *data) any { return d.end.Sub(d.start).String() },
	TagMethod:  func(c *fiber.Ctx, d *data) any { return c.Method() },
	TagPath:    func(c *fiber.Ctx, d *data) any { return c.Path() },
	TagIP:      func(c *fiber.Ctx, d *data) any { return c.IP() },
	TagBody:    func(c *fiber.Ctx, d *data) any { return string(c.Body()) },
	TagResBody: func(c *fiber.Ctx, d *data) any { return string(c.Response().Body()) },
	RequestID: func(c *fiber.Ctx, d *data) any {
		rid := c.Get(fiber.HeaderXRequestID)
		if rid == "" {
			rid = uuid.NewString()
		}
		return rid
	},
	TagUA:       func(c *fiber.Ctx, d *data) any { return c.Get(fiber.HeaderUserAgent) },
	TagBytesIn:  func(c *fiber.Ctx, d *data) any { return fmt.Sprint(len(c.Body())) },
	TagBytesOut: func(c *fiber.Ctx, d *data) any { return fmt.Sprint(len(c.Response().Body())) },
}

func getFuncTagMap(cfg Config, d *data) map[string]FuncTag {
	result := make(map[string]FuncTag, len(cfg.Tags))
	for _, tag := range cfg.Tags {
		if fn, ok := funcTagMap[tag]; ok {
			result[tag] = fn
		}
	}
	return result
}
