package obs

import "testing"

func TestCanonicalPath(t *testing.T) {
	cases := map[string]string{
		"": "/",
		"/metrics":                            "/metrics",
		"/api/products":                       "/api/products",
		"/api/products/search?query=egg":      "/api/products/search",
		"/api/products/consumed/01ABCDEF":     "/api/products/consumed/:id",
		"/api/products/consumed/01ABCDEF/x":   "/api/products/consumed/01ABCDEF/x",
		"/api/auth/login":                     "/api/auth/login",
		"/api/session/refresh-token?extra=1":  "/api/session/refresh-token",
	}
	for input, expected := range cases {
		if got := CanonicalPath(input); got != expected {
			t.Fatalf("CanonicalPath(%q)=%q, want %q", input, got, expected)
		}
	}
}
