package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func requestWithOrigin(origin string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	return req
}

func TestCheckOrigin_AllowsEmptyOrigin(t *testing.T) {
	check := NewCheckOrigin("https://app.example.com", false)
	assert.True(t, check(requestWithOrigin("")))
}

func TestCheckOrigin_AllowsAppOrigin(t *testing.T) {
	check := NewCheckOrigin("https://app.example.com", false)
	assert.True(t, check(requestWithOrigin("https://app.example.com")))
}

func TestCheckOrigin_RejectsForeignOrigin(t *testing.T) {
	check := NewCheckOrigin("https://app.example.com", false)
	assert.False(t, check(requestWithOrigin("https://evil.example.com")))
}

func TestCheckOrigin_LocalhostOnlyInDevelopment(t *testing.T) {
	dev := NewCheckOrigin("https://app.example.com", true)
	prod := NewCheckOrigin("https://app.example.com", false)

	assert.True(t, dev(requestWithOrigin("http://localhost:5173")))
	assert.True(t, dev(requestWithOrigin("http://127.0.0.1:5173")))
	assert.False(t, prod(requestWithOrigin("http://localhost:5173")))
}

func TestCheckOrigin_IgnoresPathOnAppURL(t *testing.T) {
	check := NewCheckOrigin("https://app.example.com/dashboard", false)
	assert.True(t, check(requestWithOrigin("https://app.example.com")))
}
