package report

import (
	"context"
	"net"
	"time"

	"github.com/pkg/errors"
)

var ErrCannotResolve = errors.New("cannot resolve")

// Resolver 主机名解析
type Resolver interface {
	Resolve(ctx context.Context, host string) (string, error)
}

type DNSResolver struct {
	resolver *net.Resolver
	timeout  time.Duration
}

func NewDNSResolver(timeout time.Duration) *DNSResolver {
	return &DNSResolver{resolver: net.DefaultResolver, timeout: timeout}
}

// Resolve 返回第一个IPv4地址，没有IPv4时返回第一个地址
func (r *DNSResolver) Resolve(ctx context.Context, host string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	addrs, err := r.resolver.LookupIPAddr(ctx, host)
	if err != nil {
		return "", errors.Wrap(ErrCannotResolve, err.Error())
	}
	if len(addrs) == 0 {
		return "", errors.Wrap(ErrCannotResolve, host)
	}

	for _, a := range addrs {
		if v4 := a.IP.To4(); v4 != nil {
			return v4.String(), nil
		}
	}
	return addrs[0].IP.String(), nil
}
