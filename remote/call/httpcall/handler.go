package httpcall

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/robbyt/go-logiclet/internal/helpers"
	"github.com/robbyt/go-logiclet/platform/constants"
	"github.com/robbyt/go-logiclet/platform/props"
	"github.com/robbyt/go-logiclet/remote/call"
)

// NewHandler serves calls made by this package. The URL path selects the
// target, the JSON body carries the parameters. The reply is always a JSON
// call.Result; handler failures are reported inside it.
func NewHandler(logHandler slog.Handler, h call.Handler) http.Handler {
	_, logger := helpers.SetupLogger(logHandler, "httpcall", "Handler")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))

		req := &call.Request{
			Path:   r.URL.Path,
			Params: make(call.Parameters),
			SN:     r.Header.Get(constants.HeaderSerial),
			Order:  r.Header.Get(constants.HeaderSerialOrder),
		}
		for k, v := range r.URL.Query() {
			if len(v) > 0 {
				req.Params[k] = v[0]
			}
		}
		if r.Body != nil && r.ContentLength != 0 {
			if err := decodeParams(r.Body, req.Params); err != nil {
				logger.Warn("bad request body", "path", req.Path, "error", err)
				writeResult(w, logger, call.Failed(constants.CodeBadRequest, "bad request body: "+err.Error()))
				return
			}
		}

		writeResult(w, logger, call.Respond(ctx, h, req))
	})
}

// decodeParams merges a JSON object body into params. Scalar values are
// stringified; numbers keep their literal text.
func decodeParams(body io.Reader, params call.Parameters) error {
	raw, err := io.ReadAll(io.LimitReader(body, maxBodySize))
	if err != nil || len(bytes.TrimSpace(raw)) == 0 {
		return err
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return err
	}
	for k, v := range obj {
		if n, ok := v.(json.Number); ok {
			v = n.String()
		}
		s, err := props.Scalar(v)
		if err != nil {
			return fmt.Errorf("parameter %q: %w", k, err)
		}
		params[k] = s
	}
	return nil
}

func writeResult(w http.ResponseWriter, logger *slog.Logger, res *call.Result) {
	w.Header().Set("Content-Type", "application/json")
	if res.SN != "" {
		w.Header().Set(constants.HeaderSerial, res.SN)
	}
	if err := json.NewEncoder(w).Encode(res); err != nil {
		logger.Error("failed to write result", "error", err)
	}
}
