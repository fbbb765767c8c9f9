package pkg

import (
	"fmt"
	"net"
	"net/http"
	"strings"
)

// ReadUserIP reads the client IP, preferring the reverse-proxy headers
func ReadUserIP(r *http.Request) (string, error) {
	ipAddr := r.Header.Get("X-Real-Ip")
	if ipAddr == "" {
		ipAddr = r.Header.Get("X-Forwarded-For")
	}
	if ipAddr == "" {
		ipAddr = r.RemoteAddr
	}

	if host, _, err := net.SplitHostPort(ipAddr); err == nil {
		ipAddr = host
	}

	if ip := net.ParseIP(ipAddr); ip == nil {
		return "", fmt.Errorf("ip addr %s is invalid", ipAddr)
	}

	return ipAddr, nil
}

// IPIsLocal reports whether the address comes from local development
func IPIsLocal(ipAddr string) bool {
	return strings.HasPrefix(ipAddr, "127.0.0.1") || ipAddr == "::1"
}
