package ratelimit

import "strings"

// KeyForShareVerify builds the limiter key for password attempts against a
// share token from one client address.
func KeyForShareVerify(token, clientIP string) string {
	token = strings.TrimSpace(token)
	if token == "" {
		return ""
	}
	clientIP = strings.TrimSpace(clientIP)
	if clientIP == "" {
		clientIP = "unknown"
	}
	return "share:" + token + ":ip:" + clientIP
}
