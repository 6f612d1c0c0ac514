// Dialer controls which refuse connections to non-public addresses.
//
// Based on https://www.agwa.name/blog/post/preventing_server_side_request_forgery_in_golang (CC0).
package ssrf

import (
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"syscall"
	"time"
)

var reservedIPv4 = []netip.Prefix{
	netip.MustParsePrefix("0.0.0.0/8"),       // Current network
	netip.MustParsePrefix("10.0.0.0/8"),      // Private
	netip.MustParsePrefix("100.64.0.0/10"),   // RFC6598
	netip.MustParsePrefix("127.0.0.0/8"),     // Loopback
	netip.MustParsePrefix("169.254.0.0/16"),  // Link-local
	netip.MustParsePrefix("172.16.0.0/12"),   // Private
	netip.MustParsePrefix("192.0.0.0/24"),    // RFC6890
	netip.MustParsePrefix("192.0.2.0/24"),    // Test, doc, examples
	netip.MustParsePrefix("192.88.99.0/24"),  // IPv6 to IPv4 relay
	netip.MustParsePrefix("192.168.0.0/16"),  // Private
	netip.MustParsePrefix("198.18.0.0/15"),   // Benchmarking tests
	netip.MustParsePrefix("198.51.100.0/24"), // Test, doc, examples
	netip.MustParsePrefix("203.0.113.0/24"),  // Test, doc, examples
	netip.MustParsePrefix("224.0.0.0/4"),     // Multicast
	netip.MustParsePrefix("240.0.0.0/4"),     // Reserved (includes broadcast)
}

// only 2000::/3 is routable on the public internet
var globalUnicastIPv6 = netip.MustParsePrefix("2000::/3")

func IsPublicAddr(addr netip.Addr) bool {
	addr = addr.Unmap()
	if addr.Is4() {
		for _, p := range reservedIPv4 {
			if p.Contains(addr) {
				return false
			}
		}
		return true
	}
	return globalUnicastIPv6.Contains(addr)
}

// Implementation of [net.Dialer] `Control` which rejects non-public addresses, and any port other than 80 or 443.
func PublicOnlyControl(network string, address string, conn syscall.RawConn) error {
	if network != "tcp4" && network != "tcp6" {
		return fmt.Errorf("%s is not a safe network type", network)
	}
	ap, err := netip.ParseAddrPort(address)
	if err != nil {
		return fmt.Errorf("%s is not a valid host/port pair: %w", address, err)
	}
	if !IsPublicAddr(ap.Addr()) {
		return fmt.Errorf("%s is not a public IP address", ap.Addr())
	}
	if ap.Port() != 80 && ap.Port() != 443 {
		return fmt.Errorf("%d is not a safe port number", ap.Port())
	}
	return nil
}

func PublicOnlyDialer() *net.Dialer {
	return &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
		Control:   PublicOnlyControl,
	}
}

// [http.Transport] with [PublicOnlyDialer]; other fields match the standard library defaults.
func PublicOnlyTransport() *http.Transport {
	dialer := PublicOnlyDialer()
	return &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
}
