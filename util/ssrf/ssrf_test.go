package ssrf

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsPublicAddr(t *testing.T) {
	assert := assert.New(t)

	fixtures := []struct {
		addr   string
		public bool
	}{
		{"8.8.8.8", true},
		{"151.101.1.69", true},
		{"127.0.0.1", false},
		{"10.1.2.3", false},
		{"172.20.0.1", false},
		{"192.168.1.1", false},
		{"169.254.169.254", false},
		{"100.64.0.1", false},
		{"255.255.255.255", false},
		{"::ffff:127.0.0.1", false},
		{"::ffff:8.8.8.8", true},
		{"2606:4700::1111", true},
		{"::1", false},
		{"fe80::1", false},
		{"fd00::1", false},
	}
	for _, f := range fixtures {
		assert.Equal(f.public, IsPublicAddr(netip.MustParseAddr(f.addr)), f.addr)
	}
}

func TestPublicOnlyControl(t *testing.T) {
	assert := assert.New(t)

	assert.NoError(PublicOnlyControl("tcp4", "8.8.8.8:443", nil))
	assert.NoError(PublicOnlyControl("tcp6", "[2606:4700::1111]:80", nil))
	assert.Error(PublicOnlyControl("tcp4", "8.8.8.8:8080", nil))
	assert.Error(PublicOnlyControl("tcp4", "127.0.0.1:443", nil))
	assert.Error(PublicOnlyControl("udp4", "8.8.8.8:443", nil))
	assert.Error(PublicOnlyControl("tcp4", "not-an-address", nil))
}

func TestPublicOnlyTransport(t *testing.T) {
	assert := assert.New(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	c := http.Client{Transport: PublicOnlyTransport()}
	req, err := http.NewRequestWithContext(context.Background(), "GET", srv.URL, nil)
	assert.NoError(err)
	_, err = c.Do(req)
	assert.Error(err)
}
