package servant

import (
	"github.com/robbyt/go-logiclet/bizlog"
)

// ReportServant writes the injected business logger's summary into the
// response document under the logger's HandlerType.
type ReportServant struct {
	Abstract
	logger bizlog.Logger
}

// NewReportServant creates a report servant for l.
func NewReportServant(l bizlog.Logger) *ReportServant {
	return &ReportServant{logger: l}
}

func (r *ReportServant) Name() string {
	return "bizlog.report"
}

func (r *ReportServant) ActionProcess(ctx *Context) error {
	if r.logger == nil {
		return NewException(CodeNoLogger, "business logger is not configured")
	}
	sink := make(map[string]any)
	r.logger.Report(sink)
	ctx.Doc.Set(r.logger.HandlerType(), sink)
	return nil
}

// CodeNoLogger is reported when no business logger was injected.
const CodeNoLogger = "core.bizlog_not_configured"
