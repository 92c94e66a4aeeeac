package nft

import "strings"

const (
	ContentScheme  = "ipfs://"
	DefaultGateway = "https://ipfs.io/ipfs/"
)

func IsContentAddress(s string) bool {
	return strings.HasPrefix(s, ContentScheme)
}

// GatewayURL rewrites the first content scheme occurrence to the gateway
// prefix, strings without the scheme are returned unchanged.
func GatewayURL(addr, gateway string) string {
	if gateway == "" {
		gateway = DefaultGateway
	}
	return strings.Replace(addr, ContentScheme, gateway, 1)
}
