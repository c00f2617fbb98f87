package call

import (
	"strconv"

	"github.com/google/uuid"

	"github.com/robbyt/go-logiclet/platform/constants"
	"github.com/robbyt/go-logiclet/platform/data"
)

// NewSerial generates a global serial number for a request that arrived
// without one.
func NewSerial() string {
	return uuid.NewString()
}

// ChildOrder returns the order of the n-th call made while serving a request
// whose own order is parent: "1.2" and 3 give "1.2.3", "" and 3 give "3".
func ChildOrder(parent string, n int) string {
	if parent == "" {
		return strconv.Itoa(n)
	}
	return parent + "." + strconv.Itoa(n)
}

// NextOrder advances the per-request call counter and returns the order for
// the next outbound call. The counter lives in the root scope of vars, so
// calls made from discarded child scopes still count.
func NextOrder(vars *data.Store) string {
	if vars == nil {
		return ""
	}
	root := vars.Root()
	n, err := strconv.Atoi(root.GetOr(constants.CallOrder, "0"))
	if err != nil {
		n = 0
	}
	n++
	root.Set(constants.CallOrder, strconv.Itoa(n))
	return ChildOrder(vars.GetOr(constants.Order, ""), n)
}
