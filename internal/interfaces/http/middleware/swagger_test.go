package middleware

import (
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func serveSwagger(enabled bool, allowed []string, remoteAddr string) int {
	router := gin.New()
	router.GET("/swagger/*any", SwaggerProtection(enabled, allowed), func(c *gin.Context) {
		c.String(http.StatusOK, "docs")
	})

	req := httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil)
	req.RemoteAddr = remoteAddr
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec.Code
}

func TestSwaggerProtection(t *testing.T) {
	tests := []struct {
		name    string
		enabled bool
		allowed []string
		remote  string
		want    int
	}{
		{"disabled", false, nil, "10.0.0.1:1234", http.StatusNotFound},
		{"enabled without restrictions", true, nil, "10.0.0.1:1234", http.StatusOK},
		{"exact ip allowed", true, []string{"10.0.0.1"}, "10.0.0.1:1234", http.StatusOK},
		{"exact ip denied", true, []string{"10.0.0.2"}, "10.0.0.1:1234", http.StatusForbidden},
		{"cidr allowed", true, []string{"192.168.0.0/16"}, "192.168.4.20:80", http.StatusOK},
		{"cidr denied", true, []string{"192.168.0.0/16"}, "172.16.0.1:80", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, serveSwagger(tt.enabled, tt.allowed, tt.remote))
		})
	}
}

func TestIsIPAllowed(t *testing.T) {
	_, network, _ := net.ParseCIDR("10.1.0.0/24")

	assert.False(t, isIPAllowed(nil, nil, nil))
	assert.True(t, isIPAllowed(net.ParseIP("10.1.0.9"), nil, []*net.IPNet{network}))
	assert.False(t, isIPAllowed(net.ParseIP("10.1.1.9"), nil, []*net.IPNet{network}))
	assert.True(t, isIPAllowed(net.ParseIP("::1"), []net.IP{net.ParseIP("::1")}, nil))
}
