package security

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestDetector_ExtractClientIP(t *testing.T) {
	d, err := NewDetector([]string{"10.0.0.5"})
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		remote string
		xff    string
		want   string
	}{
		{"direct client", "203.0.113.9:5555", "", "203.0.113.9"},
		{"untrusted peer ignores header", "203.0.113.9:5555", "1.1.1.1", "203.0.113.9"},
		{"trusted proxy", "10.0.0.5:80", "198.51.100.7, 10.0.0.5", "198.51.100.7"},
		{"loopback proxy", "127.0.0.1:80", "198.51.100.8", "198.51.100.8"},
		{"trusted proxy bad header", "10.0.0.5:80", "garbage", "10.0.0.5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remote
			if tt.xff != "" {
				r.Header.Set("X-Forwarded-For", tt.xff)
			}
			if got := d.ExtractClientIP(r); got != tt.want {
				t.Errorf("ExtractClientIP() = %q, want %q", got, tt.want)
			}
		})
	}

	if _, err := NewDetector([]string{"not-an-ip"}); err == nil {
		t.Error("invalid proxy should fail")
	}
}

func TestDetector_DetectSuspiciousRequest(t *testing.T) {
	d, _ := NewDetector(nil)

	if d.DetectSuspiciousRequest(httptest.NewRequest(http.MethodGet, "/visualizations?department=IT", nil)) {
		t.Error("normal request flagged")
	}
	if !d.DetectSuspiciousRequest(httptest.NewRequest(http.MethodGet, "/.env", nil)) {
		t.Error("probe not flagged")
	}
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("User-Agent", "sqlmap/1.7")
	if !d.DetectSuspiciousRequest(r) {
		t.Error("scanner not flagged")
	}
}

func TestSafeFilename(t *testing.T) {
	cases := map[string]string{
		"hr.csv":                  "hr.csv",
		"../../etc/passwd":        "passwd",
		`C:\Users\me\people.xlsx`: "people.xlsx",
		"":                        "upload",
		"..":                      "upload",
	}
	for in, want := range cases {
		if got := SafeFilename(in); got != want {
			t.Errorf("SafeFilename(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestHeadersMiddleware(t *testing.T) {
	h := NewHeadersMiddleware(DefaultHeadersConfig()).Middleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	csp := rec.Header().Get("Content-Security-Policy")
	if !strings.Contains(csp, "https://cdn.jsdelivr.net") {
		t.Errorf("CSP should allow the chart CDN: %s", csp)
	}
	if rec.Header().Get("X-Frame-Options") != "DENY" {
		t.Error("missing X-Frame-Options")
	}
	if rec.Header().Get("Strict-Transport-Security") != "" {
		t.Error("HSTS must not be sent over plain HTTP")
	}
}
