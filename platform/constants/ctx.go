// Description: This file contains the reserved variable names, correlation headers and
// result codes shared by the context store, the servant dispatcher and remote calls.
package constants

// Reserved variable names. They are answered by the request root of a variable
// chain and are never stored physically.
const (
	Sigil = "$" // prefix shared by every reserved name

	ClientIP     = "$clientIp"     // client ip as seen by the transport
	ClientIPReal = "$clientIpReal" // client ip after proxy headers are honored
	SN           = "$sn"           // global serial number of the originating request
	Order        = "$order"        // call order of the originating request within its serial
	Host         = "$host"         // host the request was addressed to
	Method       = "$method"       // request method
	Query        = "$query"        // raw query string
	URI          = "$uri"          // full request uri
	Path         = "$path"         // request path
)

// CallOrder is the per-request counter used to number outbound calls.
const CallOrder = "$callOrder"

// Correlation headers attached to outbound calls.
const (
	HeaderSerial      = "GlobalSerial"
	HeaderSerialOrder = "GlobalSerialOrder"
	HeaderForwarded   = "X-Forwarded-For"
	HeaderRealIP      = "X-Real-IP"
)

// Result codes.
const (
	CodeOK          = "core.ok"
	CodeFatal       = "core.fatalerror"
	CodeTimeout     = "core.timeout"
	CodeRemoteError = "core.remote_error"
	CodeNotFound    = "core.service_not_found"
	CodeBadRequest  = "core.bad_request"
)
