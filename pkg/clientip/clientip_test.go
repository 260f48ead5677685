package clientip_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/drewkhalil/ActionNotes-sub001/pkg/clientip"
)

func TestResolver_Resolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		opts     []clientip.Option
		headers  map[string]string
		remote   string
		expected string
	}{
		{
			name:     "remote addr fallback",
			remote:   "203.0.113.7:5123",
			expected: "203.0.113.7",
		},
		{
			name:     "remote addr without port",
			remote:   "203.0.113.7",
			expected: "203.0.113.7",
		},
		{
			name:     "cloudflare header first",
			headers:  map[string]string{"CF-Connecting-IP": "198.51.100.1", "X-Forwarded-For": "198.51.100.2"},
			remote:   "10.0.0.1:80",
			expected: "198.51.100.1",
		},
		{
			name:     "first valid forwarded entry",
			headers:  map[string]string{"X-Forwarded-For": "garbage, 198.51.100.9, 10.0.0.2"},
			remote:   "10.0.0.1:80",
			expected: "198.51.100.9",
		},
		{
			name:     "invalid headers fall through",
			headers:  map[string]string{"CF-Connecting-IP": "nope", "X-Real-IP": "::1"},
			remote:   "10.0.0.1:80",
			expected: "::1",
		},
		{
			name:     "untrusted header ignored",
			opts:     []clientip.Option{clientip.WithHeaders()},
			headers:  map[string]string{"X-Forwarded-For": "198.51.100.2"},
			remote:   "10.0.0.1:80",
			expected: "10.0.0.1",
		},
		{
			name:     "custom header",
			opts:     []clientip.Option{clientip.WithHeaders(" do-connecting-ip ")},
			headers:  map[string]string{"DO-Connecting-IP": "2001:db8::1", "X-Forwarded-For": "198.51.100.2"},
			remote:   "10.0.0.1:80",
			expected: "2001:db8::1",
		},
		{
			name:     "nothing valid",
			remote:   "not-an-ip",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			assert.Equal(t, tt.expected, clientip.New(tt.opts...).Resolve(r))
		})
	}
}

func TestResolver_Middleware(t *testing.T) {
	t.Parallel()

	resolver := clientip.New(clientip.WithHeaders("X-Real-IP"))
	var seen string
	h := resolver.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = clientip.GetIP(r)
	}))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-Real-IP", "198.51.100.4")
	r.Header.Set("CF-Connecting-IP", "198.51.100.5")
	h.ServeHTTP(httptest.NewRecorder(), r)

	assert.Equal(t, "198.51.100.4", seen)
}

func TestNewFromConfig(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "10.0.0.1:1"
	r.Header.Set("X-Real-IP", "198.51.100.4")

	assert.Equal(t, "10.0.0.1", clientip.NewFromConfig(clientip.Config{}).Resolve(r))
	assert.Equal(t, "198.51.100.4", clientip.NewFromConfig(clientip.Config{TrustedHeaders: []string{"X-Real-IP"}}).Resolve(r))
}
