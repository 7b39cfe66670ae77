package util

import (
	"net"
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrInterfaceDown = errors.New("interface is down")
	ErrNoAddress     = errors.New("interface has no addresses")
)

// SourceAddr picks the address ping should bind to on ifaceName, matching the family of the
// target. Global addresses are preferred over link-local ones.
func SourceAddr(ifaceName string, ipv6 bool) (addr string, err error) {
	iface, err := net.InterfaceByName(ifaceName)
	if err != nil {
		return
	}
	if !IsUp(iface) {
		err = errors.Wrap(ErrInterfaceDown, ifaceName)
		return
	}
	addrs, err := iface.Addrs()
	if err != nil {
		return
	}

	return pickAddr(addrs, ipv6, ifaceName)
}

func pickAddr(addrs []net.Addr, ipv6 bool, ifaceName string) (addr string, err error) {
	var linkLocal string
	for _, a := range addrs {
		ip, _, perr := net.ParseCIDR(a.String())
		if perr != nil {
			continue
		}
		if ipv6 != IsIPv6(ip.String()) {
			continue
		}
		if ip.IsLinkLocalUnicast() {
			if linkLocal == "" {
				linkLocal = ip.String()
			}
			continue
		}
		return ip.String(), nil
	}
	if linkLocal != "" {
		return linkLocal, nil
	}

	err = errors.Wrap(ErrNoAddress, ifaceName)
	return
}

// IsIPv6 reports whether address looks like an IPv6 literal.
func IsIPv6(address string) bool {
	return strings.Count(address, ":") >= 2
}

func IsUp(nif *net.Interface) bool { return nif.Flags&net.FlagUp != 0 }
