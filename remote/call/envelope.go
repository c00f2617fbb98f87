package call

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/robbyt/go-logiclet/platform/constants"
)

// Envelope frames a request or its reply on message oriented transports,
// where replies are matched to requests by ID.
type Envelope struct {
	ID      string   `json:"id"`
	ReplyTo string   `json:"replyTo,omitempty"`
	Request *Request `json:"request,omitempty"`
	Result  *Result  `json:"result,omitempty"`
}

// Respond runs h for req on the receiving side and always produces a result
// to send back. Handler errors and panics become failed results.
func Respond(ctx context.Context, h Handler, req *Request) (res *Result) {
	defer func() {
		if r := recover(); r != nil {
			res = Failed(constants.CodeFatal, fmt.Sprint(r))
		}
		if res.Host == "" {
			res.Host = localHost
		}
		if req != nil && res.SN == "" {
			res.SN = req.SN
		}
		if req != nil && res.Order == "" {
			res.Order = req.Order
		}
	}()

	if h == nil || req == nil {
		return Failed(constants.CodeFatal, "no handler")
	}
	res, err := h.Invoke(ctx, req)
	if err == nil && res != nil {
		return res
	}
	var re *RemoteError
	switch {
	case errors.As(err, &re):
		return Failed(re.Code, re.Reason)
	case err != nil:
		return Failed(constants.CodeFatal, err.Error())
	default:
		return Failed(constants.CodeFatal, ErrBadResponse.Error())
	}
}

var localHost = func() string {
	h, err := os.Hostname()
	if err != nil {
		return "localhost"
	}
	return h
}()
