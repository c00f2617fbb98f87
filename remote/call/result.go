package call

import (
	"fmt"
	"time"

	"github.com/robbyt/go-logiclet/platform/constants"
)

// Result is the envelope returned by every invocation.
type Result struct {
	Code     string         `json:"code"`
	Reason   string         `json:"reason,omitempty"`
	Host     string         `json:"host,omitempty"`
	SN       string         `json:"sn,omitempty"`
	Order    string         `json:"order,omitempty"`
	Payload  map[string]any `json:"data,omitempty"`
	Duration time.Duration  `json:"-"`
}

// OK creates a successful result carrying payload.
func OK(payload map[string]any) *Result {
	return &Result{Code: constants.CodeOK, Reason: "It is successful", Payload: payload}
}

// Failed creates a failed result.
func Failed(code, reason string) *Result {
	return &Result{Code: code, Reason: reason}
}

// OK reports whether the remote side completed successfully.
func (r *Result) OK() bool {
	return r != nil && r.Code == constants.CodeOK
}

// Err converts a failed result into a *RemoteError, or nil when it succeeded.
func (r *Result) Err() error {
	if r.OK() {
		return nil
	}
	if r == nil {
		return &RemoteError{Code: constants.CodeRemoteError, Reason: "no result"}
	}
	return &RemoteError{Code: r.Code, Reason: r.Reason}
}

func (r *Result) String() string {
	return fmt.Sprintf("call.Result{Code: %s, Reason: %s, SN: %s, Order: %s}", r.Code, r.Reason, r.SN, r.Order)
}

// RemoteError is a classified failure reported by the remote side.
type RemoteError struct {
	Code   string
	Reason string
}

func (e *RemoteError) Error() string {
	return e.Code + ": " + e.Reason
}
