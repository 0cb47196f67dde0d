package socket

import (
	"fmt"
	"net"

	"golang.org/x/sys/unix"
)

// Family returns the address family matching x.
func Family(x *net.UDPAddr) int {
	if x.IP != nil && x.IP.To4() == nil {
		return unix.AF_INET6
	}
	return unix.AF_INET
}

// Addr converts x to a Sockaddr of the family reported by Family.
func Addr(x *net.UDPAddr) unix.Sockaddr {
	if Family(x) == unix.AF_INET6 {
		res := &unix.SockaddrInet6{
			Port: x.Port,
		}
		copy(res.Addr[:], x.IP.To16())
		return res
	}
	res := &unix.SockaddrInet4{
		Port: x.Port,
	}
	copy(res.Addr[:], x.IP.To4())
	return res
}

// Open creates a UDP socket of the family matching x.
func Open(x *net.UDPAddr) (int, error) {
	fd, err := unix.Socket(Family(x), unix.SOCK_DGRAM, 0)
	if err != nil {
		return -1, fmt.Errorf("socket: %w", err)
	}
	return fd, nil
}

// AddrToString renders sa in host:port form. It is also the key identifying a relay source.
func AddrToString(sa unix.Sockaddr) string {
	switch v := sa.(type) {
	case *unix.SockaddrInet4:
		ip := net.IP(v.Addr[:])
		return fmt.Sprintf("%s:%d", ip, v.Port)
	case *unix.SockaddrInet6:
		ip := net.IP(v.Addr[:])
		return fmt.Sprintf("[%s]:%d", ip, v.Port)
	case *unix.SockaddrUnix:
		return v.Name
	default:
		panic(fmt.Errorf("unsupported address type %T", v))
	}
}
