package discovery

import (
	"context"
	"fmt"
	"net"
	"strconv"

	"github.com/betamos/zeroconf"
)

// ServiceType is the DNS-SD type relays advertise under.
const ServiceType = "_ciphera-relay._tcp"

// Relay is a relay found on the local network.
type Relay struct {
	Name string
	Addr string // host:port
	Port int
}

// BaseURL returns the relay's plain-HTTP base URL.
func (r Relay) BaseURL() string { return "http://" + r.Addr }

// Advertisement is a running mDNS publication of one relay.
type Advertisement struct {
	client *zeroconf.Client
}

// Advertise publishes a relay named name listening on port.
func Advertise(name string, port int) (*Advertisement, error) {
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("discovery: invalid port %d", port)
	}
	self := zeroconf.NewService(zeroconf.NewType(ServiceType), name, uint16(port))
	client, err := zeroconf.New().Publish(self).Open()
	if err != nil {
		return nil, fmt.Errorf("zeroconf: %w", err)
	}
	return &Advertisement{client: client}, nil
}

// Close withdraws the advertisement.
func (a *Advertisement) Close() error {
	if a == nil || a.client == nil {
		return nil
	}
	return a.client.Close()
}

// Browse reports relays as they are seen until ctx is done.
// The same relay may be reported more than once.
func Browse(ctx context.Context, onRelay func(Relay)) error {
	client, err := zeroconf.New().
		Browse(func(e zeroconf.Event) {
			if r, ok := relayFromEvent(e); ok && onRelay != nil {
				onRelay(r)
			}
		}, zeroconf.NewType(ServiceType)).
		Open()
	if err != nil {
		return fmt.Errorf("zeroconf: %w", err)
	}
	<-ctx.Done()
	return client.Close()
}

// relayFromEvent picks an address for e, preferring IPv4.
func relayFromEvent(e zeroconf.Event) (Relay, bool) {
	var v4, v6 string
	for _, a := range e.Addrs {
		if !a.IsValid() {
			continue
		}
		hp := net.JoinHostPort(a.String(), strconv.Itoa(int(e.Port)))
		if a.Is4() && v4 == "" {
			v4 = hp
		} else if v6 == "" {
			v6 = hp
		}
	}
	addr := v4
	if addr == "" {
		addr = v6
	}
	if addr == "" {
		return Relay{}, false
	}
	return Relay{Name: e.Name, Addr: addr, Port: int(e.Port)}, true
}
