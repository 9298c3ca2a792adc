package validators

import (
	"net"
	"strings"
)

// IsEmailDomainValid checks that the address's domain resolves, catching
// typos the format validator lets through. Either an MX record or a plain
// A/AAAA record is accepted.
func IsEmailDomainValid(email string) bool {
	_, domain, ok := strings.Cut(email, "@")
	if !ok || domain == "" {
		return false
	}
	// Quoted local parts can carry an @, keep everything after the last one.
	if i := strings.LastIndex(domain, "@"); i >= 0 {
		domain = domain[i+1:]
		if domain == "" {
			return false
		}
	}

	if mx, err := net.LookupMX(domain); err == nil && len(mx) > 0 {
		return true
	}
	ips, err := net.LookupIP(domain)
	return err == nil && len(ips) > 0
}
