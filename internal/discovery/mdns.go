// Package discovery advertises a running driftboard server on the
// LAN via mDNS and reports the address operators would use to reach
// it. Adapted from Sanehaakhtar-MyLocalBoard/internal/net/{mdns.go,ip.go};
// entirely optional (--advertise), off by default.
package discovery

import (
	"fmt"
	"os"

	"github.com/hashicorp/mdns"
)

const serviceType = "_driftboard._tcp"

// Advertise registers an mDNS service for this server's HTTP port.
// Callers keep the returned server alive for the process lifetime and
// call Shutdown on exit.
func Advertise(port int) (*mdns.Server, error) {
	host, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("discovery: get hostname: %w", err)
	}

	service, err := mdns.NewMDNSService(
		host,
		serviceType,
		"",
		"",
		port,
		nil,
		[]string{"driftboard"},
	)
	if err != nil {
		return nil, fmt.Errorf("discovery: create mdns service: %w", err)
	}

	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return nil, fmt.Errorf("discovery: start mdns server: %w", err)
	}
	return server, nil
}
