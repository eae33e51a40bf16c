package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/smallerp/backend/internal/interfaces/http/dto"
)

// SwaggerProtection guards the API documentation routes. Disabled docs
// answer 404; with allowedIPs (plain IPs or CIDRs) other clients get 403.
func SwaggerProtection(enabled bool, allowedIPs []string) gin.HandlerFunc {
	var ips []net.IP
	var nets []*net.IPNet
	for _, entry := range allowedIPs {
		if strings.Contains(entry, "/") {
			if _, network, err := net.ParseCIDR(entry); err == nil {
				nets = append(nets, network)
			}
			continue
		}
		if ip := net.ParseIP(entry); ip != nil {
			ips = append(ips, ip)
		}
	}

	return func(c *gin.Context) {
		if !enabled {
			c.AbortWithStatusJSON(http.StatusNotFound,
				dto.Fail(dto.ErrCodeNotFound, "API documentation is not available", GetRequestID(c)))
			return
		}
		if len(allowedIPs) > 0 && !isIPAllowed(net.ParseIP(c.ClientIP()), ips, nets) {
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.Fail("ERR_FORBIDDEN", "Access to API documentation is restricted", GetRequestID(c)))
			return
		}
		c.Next()
	}
}

func isIPAllowed(ip net.IP, allowedIPs []net.IP, allowedNets []*net.IPNet) bool {
	if ip == nil {
		return false
	}
	for _, allowed := range allowedIPs {
		if allowed.Equal(ip) {
			return true
		}
	}
	for _, network := range allowedNets {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}
