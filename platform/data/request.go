package data

import (
	"net"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/robbyt/go-logiclet/platform/constants"
)

// RequestAttributes is the root of a request's variable chain. It answers the
// reserved $-prefixed names from the inbound request and exposes the request
// parameters by plain name. Nothing is stored through it.
type RequestAttributes struct {
	ClientIP     string
	ClientIPReal string
	SN           string
	Order        string
	Host         string
	Method       string
	Query        string
	URI          string
	Path         string

	// Params holds the first value of every query parameter.
	Params map[string]string
}

// NewRequestAttributes captures the attributes of r. The global serial number is
// taken from the GlobalSerial header when the caller supplied one, otherwise a
// new one is generated.
func NewRequestAttributes(r *http.Request) *RequestAttributes {
	attrs := &RequestAttributes{Params: make(map[string]string)}
	if r == nil {
		attrs.SN = uuid.NewString()
		return attrs
	}

	attrs.ClientIP = remoteHost(r.RemoteAddr)
	attrs.ClientIPReal = realClientIP(r, attrs.ClientIP)
	attrs.SN = r.Header.Get(constants.HeaderSerial)
	if attrs.SN == "" {
		attrs.SN = uuid.NewString()
	}
	attrs.Order = r.Header.Get(constants.HeaderSerialOrder)
	attrs.Host = r.Host
	attrs.Method = r.Method

	if r.URL != nil {
		attrs.Query = r.URL.RawQuery
		attrs.URI = r.URL.RequestURI()
		attrs.Path = r.URL.Path
		for k, v := range r.URL.Query() {
			if len(v) > 0 {
				attrs.Params[k] = v[0]
			}
		}
	}

	return attrs
}

// Get implements Getter.
func (a *RequestAttributes) Get(name string) (string, bool) {
	if a == nil {
		return "", false
	}

	if strings.HasPrefix(name, constants.Sigil) {
		switch name {
		case constants.ClientIP:
			return a.ClientIP, true
		case constants.ClientIPReal:
			return a.ClientIPReal, true
		case constants.SN:
			return a.SN, true
		case constants.Order:
			return a.Order, true
		case constants.Host:
			return a.Host, true
		case constants.Method:
			return a.Method, true
		case constants.Query:
			return a.Query, true
		case constants.URI:
			return a.URI, true
		case constants.Path:
			return a.Path, true
		}
		return "", false
	}

	v, ok := a.Params[name]
	return v, ok
}

func remoteHost(addr string) string {
	if addr == "" {
		return ""
	}
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return host
}

func realClientIP(r *http.Request, fallback string) string {
	if fwd := r.Header.Get(constants.HeaderForwarded); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if ip := strings.TrimSpace(r.Header.Get(constants.HeaderRealIP)); ip != "" {
		return ip
	}
	return fallback
}
