package util

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

// ClientIP returns the first address of X-Forwarded-For, then X-Real-IP.
// Without either header it returns "" and the caller decides what to store.
func ClientIP(c *gin.Context) string {
	if fwd := c.GetHeader("X-Forwarded-For"); fwd != "" {
		first := strings.TrimSpace(strings.Split(fwd, ",")[0])
		if net.ParseIP(first) != nil {
			return first
		}
	}
	if realIP := strings.TrimSpace(c.GetHeader("X-Real-IP")); net.ParseIP(realIP) != nil {
		return realIP
	}
	return ""
}
