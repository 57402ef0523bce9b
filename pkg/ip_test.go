package pkg

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestReadUserIP(t *testing.T) {
	cases := map[string]struct {
		forwardedFor string
		realIP       string
		remoteAddr   string
		expected     string
	}{
		"forwarded for, single": {
			forwardedFor: "83.12.53.65",
			remoteAddr:   "10.0.0.1:1234",
			expected:     "83.12.53.65",
		},
		"forwarded for, chain takes first": {
			forwardedFor: "83.12.53.65, 10.0.0.2, 10.0.0.3",
			realIP:       "10.0.0.9",
			expected:     "83.12.53.65",
		},
		"real ip": {
			realIP:     "111.12.56.65",
			remoteAddr: "10.0.0.1:1234",
			expected:   "111.12.56.65",
		},
		"remote addr host": {
			remoteAddr: "172.20.0.1:60102",
			expected:   "172.20.0.1",
		},
		"remote addr without port": {
			remoteAddr: "172.20.0.1",
			expected:   "172.20.0.1",
		},
		"nothing": {
			expected: UnknownIP,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tc.remoteAddr
			if tc.forwardedFor != "" {
				req.Header.Set("X-Forwarded-For", tc.forwardedFor)
			}
			if tc.realIP != "" {
				req.Header.Set("X-Real-Ip", tc.realIP)
			}
			assert.Equal(t, tc.expected, ReadUserIP(req))
		})
	}
}
