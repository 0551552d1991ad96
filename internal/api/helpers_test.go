package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		want       *string
	}{
		{"ipv4 with port", "192.0.2.7:51234", strPtr("192.0.2.7")},
		{"ipv6 with port", "[2001:db8::1]:51234", strPtr("2001:db8::1")},
		{"bare ipv6", "2001:db8::1", strPtr("2001:db8::1")},
		{"bare ipv4", "192.0.2.7", strPtr("192.0.2.7")},
		{"empty", "", nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := &http.Request{RemoteAddr: tc.remoteAddr}
			got := clientIP(r)
			if tc.want == nil {
				require.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			require.Equal(t, *tc.want, *got)
		})
	}
}

func strPtr(s string) *string { return &s }
