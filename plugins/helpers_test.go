package plugins

import (
	"github.com/robbyt/go-logiclet/internal/helpers"
	"github.com/robbyt/go-logiclet/platform/script"
)

func testEnv() *script.Env {
	return &script.Env{Handler: helpers.NopHandler()}
}
