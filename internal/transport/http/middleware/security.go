package middleware

import "github.com/gin-gonic/gin"

// apiHeaders go on every response. The API only ever returns JSON, so the
// content policy allows nothing to load or frame it.
var apiHeaders = [...][2]string{
	{"X-Content-Type-Options", "nosniff"},
	{"X-Frame-Options", "DENY"},
	{"Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'"},
	{"Referrer-Policy", "no-referrer"},
	{"Cache-Control", "no-store"},
}

const hsts = "max-age=63072000; includeSubDomains"

// Security sets hardening headers. HSTS is only announced when the request
// arrived over TLS, directly or through a proxy that says so.
func Security() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		for _, kv := range apiHeaders {
			h.Set(kv[0], kv[1])
		}
		if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
			h.Set("Strict-Transport-Security", hsts)
		}
		c.Next()
	}
}
