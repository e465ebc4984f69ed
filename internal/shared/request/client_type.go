package request

import "strings"

type ClientType string

const (
	ClientWeb    ClientType = "web"
	ClientMobile ClientType = "mobile"
	ClientAPI    ClientType = "api"
)

var mobileAgents = []string{"okhttp", "dart", "cfnetwork", "android", "iphone"}

// ResolveClientType prefers the explicit X-Client-Type header and falls back
// to sniffing the user agent.
func ResolveClientType(header, userAgent string) ClientType {
	switch ClientType(strings.ToLower(strings.TrimSpace(header))) {
	case ClientWeb:
		return ClientWeb
	case ClientMobile:
		return ClientMobile
	case ClientAPI:
		return ClientAPI
	}

	ua := strings.ToLower(userAgent)
	for _, m := range mobileAgents {
		if strings.Contains(ua, m) {
			return ClientMobile
		}
	}
	if strings.Contains(ua, "mozilla") {
		return ClientWeb
	}
	return ClientAPI
}

// IsWebClient reports whether tokens should travel as cookies.
func IsWebClient(t ClientType) bool {
	return t == ClientWeb
}
