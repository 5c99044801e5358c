// internal/netcheck/netcheck.go
package netcheck

import "net"

// Connectivity reports whether the host has a usable network link.
type Connectivity interface {
	Connected() bool
}

// Interfaces checks that an interface is up and holds a global unicast
// address. Name selects one interface; empty means any non-loopback one.
type Interfaces struct {
	Name string
}

func (c Interfaces) Connected() bool {
	ifs, err := net.Interfaces()
	if err != nil {
		return false
	}

	for _, ifc := range ifs {
		if c.Name != "" && ifc.Name != c.Name {
			continue
		}
		if ifc.Flags&net.FlagUp == 0 || ifc.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, err := ifc.Addrs()
		if err != nil {
			continue
		}
		for _, a := range addrs {
			if ipn, ok := a.(*net.IPNet); ok && ipn.IP.IsGlobalUnicast() {
				return true
			}
		}
	}
	return false
}

// Static is a fixed Connectivity.
type Static bool

func (s Static) Connected() bool { return bool(s) }
