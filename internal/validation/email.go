package validation

import (
	"context"
	"errors"
	"net"
	"strings"
)

type resolver interface {
	LookupMX(ctx context.Context, name string) ([]*net.MX, error)
	LookupHost(ctx context.Context, host string) ([]string, error)
}

// DNSEmailVerifier accepts an address whose domain publishes an MX record,
// or failing that resolves to a host (the implicit MX rule).
type DNSEmailVerifier struct {
	resolver resolver
	enabled  bool
}

// NewDNSEmailVerifier uses the system resolver. With enabled false every
// syntactically valid address is accepted.
func NewDNSEmailVerifier(enabled bool) *DNSEmailVerifier {
	return &DNSEmailVerifier{resolver: net.DefaultResolver, enabled: enabled}
}

func (v *DNSEmailVerifier) VerifyEmail(ctx context.Context, address string) (bool, error) {
	if !v.enabled {
		return true, nil
	}

	at := strings.LastIndexByte(address, '@')
	if at < 0 || at == len(address)-1 {
		return false, nil
	}
	domain := address[at+1:]

	mx, err := v.resolver.LookupMX(ctx, domain)
	if err == nil && len(mx) > 0 {
		return true, nil
	}
	if err != nil && !isNotFound(err) {
		return false, scrub(err, domain)
	}

	hosts, err := v.resolver.LookupHost(ctx, domain)
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, scrub(err, domain)
	}
	return len(hosts) > 0, nil
}

func isNotFound(err error) bool {
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr) && dnsErr.IsNotFound
}
