package httpserver

import (
	"log/slog"
	"net"
	"strconv"
	"time"
)

// probeAddr is only used to select the outbound interface; no packet is sent.
const probeAddr = "8.8.8.8:80"

const loopback = "127.0.0.1"

// AdvertisedHost returns the address clients on the local network should use.
// A concrete host is returned as is. For the wildcard "0.0.0.0" (or an empty
// host) the address of the default outbound interface is used, falling back
// to 127.0.0.1 when there is none.
func AdvertisedHost(host string) string {
	if host != "" && host != "0.0.0.0" && host != "::" {
		return host
	}

	conn, err := net.DialTimeout("udp", probeAddr, time.Second)
	if err != nil {
		return loopback
	}
	defer conn.Close()

	if addr, ok := conn.LocalAddr().(*net.UDPAddr); ok && addr.IP != nil && !addr.IP.IsUnspecified() {
		return addr.IP.String()
	}
	return loopback
}

// AnnounceHook returns a start hook logging "Server is running on http://host:port"
// with the advertised form of host and the bound port.
func AnnounceHook(host string) func(*slog.Logger, net.Addr) {
	return func(log *slog.Logger, addr net.Addr) {
		port := ""
		if tcp, ok := addr.(*net.TCPAddr); ok {
			port = strconv.Itoa(tcp.Port)
		} else if _, p, err := net.SplitHostPort(addr.String()); err == nil {
			port = p
		}
		url := "http://" + net.JoinHostPort(AdvertisedHost(host), port)
		log.Info("Server is running on "+url, slog.String("url", url))
	}
}
