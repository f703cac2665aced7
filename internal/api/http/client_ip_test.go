package http

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientIP(t *testing.T) {
	trusted, err := NewTrustedProxies([]string{"10.0.0.0/8", "192.168.1.10"})
	require.NoError(t, err)

	tests := []struct {
		name       string
		remoteAddr string
		xff        string
		trusted    *TrustedProxies
		want       string
	}{
		{
			name:       "no trusted proxies ignores forwarded header",
			remoteAddr: "198.51.100.10:1234",
			xff:        "203.0.113.5",
			want:       "198.51.100.10",
		},
		{
			name:       "untrusted peer ignores forwarded header",
			remoteAddr: "198.51.100.10:1234",
			xff:        "203.0.113.5",
			trusted:    trusted,
			want:       "198.51.100.10",
		},
		{
			name:       "trusted peer accepts forwarded header",
			remoteAddr: "10.0.0.20:1234",
			xff:        "203.0.113.5",
			trusted:    trusted,
			want:       "203.0.113.5",
		},
		{
			name:       "trusted chain picks first untrusted from right",
			remoteAddr: "192.168.1.10:1234",
			xff:        "198.51.100.7, 203.0.113.5, 10.0.0.10",
			trusted:    trusted,
			want:       "203.0.113.5",
		},
		{
			name:       "all hops trusted returns leftmost",
			remoteAddr: "10.0.0.20:1234",
			xff:        "10.0.0.5, 10.0.0.10",
			trusted:    trusted,
			want:       "10.0.0.5",
		},
		{
			name:       "garbage forwarded header falls back to peer",
			remoteAddr: "10.0.0.20:1234",
			xff:        "not-an-ip",
			trusted:    trusted,
			want:       "10.0.0.20",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/login", nil)
			r.RemoteAddr = tc.remoteAddr
			if tc.xff != "" {
				r.Header.Set("X-Forwarded-For", tc.xff)
			}
			assert.Equal(t, tc.want, ClientIP(r, tc.trusted))
		})
	}
}

func TestNewTrustedProxies(t *testing.T) {
	tp, err := NewTrustedProxies(nil)
	require.NoError(t, err)
	assert.Nil(t, tp)

	_, err = NewTrustedProxies([]string{"10.0.0.0/33"})
	assert.Error(t, err)

	_, err = NewTrustedProxies([]string{"proxy.internal"})
	assert.Error(t, err)
}
