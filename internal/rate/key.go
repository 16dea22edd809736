package rate

import (
	"net"
	"strings"
)

// BucketAddr normaliza una dirección de cliente a su clave de rate limiting.
// IPv4 se usa tal cual; IPv6 se bucketiza por prefijo /64 para que un mismo
// cliente no pueda rotar direcciones dentro de su prefijo asignado.
func BucketAddr(addr string) string {
	host := addr
	if h, _, err := net.SplitHostPort(addr); err == nil {
		host = h
	}
	ip := net.ParseIP(strings.TrimSpace(host))
	if ip == nil {
		return host
	}
	if v4 := ip.To4(); v4 != nil {
		return v4.String()
	}
	masked := ip.Mask(net.CIDRMask(64, 128))
	return masked.String() + "/64"
}
