package probe

import (
	"context"
	"time"

	"LazyPanda/internal/model"
	"LazyPanda/internal/parser"
	"LazyPanda/internal/runner"
	"LazyPanda/internal/utils"
)

const traceOutputLimit = 1000

type Tracer struct {
	runner  runner.Runner
	tool    *Tool
	pattern parser.TracePatterns
	timeout time.Duration
	logger  *utils.Logger
}

// NewTracer 在构造时选定路由跟踪工具，之后不再检查
func NewTracer(r runner.Runner, d Dialect, timeout time.Duration) *Tracer {
	t := &Tracer{
		runner:  r,
		pattern: d.TracePatterns,
		timeout: timeout,
		logger:  utils.NewLogger("traceroute"),
	}
	for i := range d.TraceTools {
		if _, ok := r.LookPath(d.TraceTools[i].Name); ok {
			t.tool = &d.TraceTools[i]
			break
		}
	}
	return t
}

// ToolName 返回选中的工具名，没有可用工具时为空
func (t *Tracer) ToolName() string {
	if t.tool == nil {
		return ""
	}
	return t.tool.Name
}

func (t *Tracer) Trace(ctx context.Context, target string) model.TraceResult {
	result := model.TraceResult{
		ProbeResult: model.ProbeResult{Kind: model.ProbeTraceroute},
		TraceStats:  model.TraceStats{Hops: []model.Hop{}},
	}

	if t.tool == nil {
		result.Fail(model.ErrToolUnavailable, "no traceroute tool found")
		t.logger.Warn("未找到路由跟踪工具")
		return result
	}

	res, err := t.runner.Run(ctx, t.timeout, t.tool.Name, t.tool.Args(target)...)

	result.Elapsed = roundSeconds(res.Elapsed)
	result.Output = parser.Truncate(res.Output, traceOutputLimit)
	result.TraceStats = parser.ParseTrace(res.Output, t.pattern)
	result.Tool = t.tool.Name

	// 成功与否只取决于进程退出码，与解析结果无关
	applyOutcome(&result.ProbeResult, res, err)
	t.logger.Debug("traceroute %s: %d 跳", target, result.HopCount)
	return result
}
