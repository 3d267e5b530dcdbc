package probe

import (
	"context"
	"fmt"
	"math"
	"time"

	"LazyPanda/internal/model"
	"LazyPanda/internal/parser"
	"LazyPanda/internal/runner"
	"LazyPanda/internal/utils"
)

const pingOutputLimit = 500

type Pinger struct {
	runner  runner.Runner
	dialect Dialect
	timeout time.Duration
	logger  *utils.Logger
}

func NewPinger(r runner.Runner, d Dialect, timeout time.Duration) *Pinger {
	return &Pinger{
		runner:  r,
		dialect: d,
		timeout: timeout,
		logger:  utils.NewLogger("ping"),
	}
}

// Ping 执行连通性检查，所有失败都记录在结果中
func (p *Pinger) Ping(ctx context.Context, target string) model.PingResult {
	result := model.PingResult{
		ProbeResult: model.ProbeResult{Kind: model.ProbePing},
		PingStats:   model.EmptyPingStats(),
	}

	tool := p.dialect.Ping
	res, err := p.runner.Run(ctx, p.timeout, tool.Name, tool.Args(target)...)

	result.Elapsed = roundSeconds(res.Elapsed)
	result.Output = parser.Truncate(res.Output, pingOutputLimit)
	result.PingStats = parser.ParsePing(res.Output, p.dialect.PingPatterns)

	applyOutcome(&result.ProbeResult, res, err)
	if !result.Succeeded {
		p.logger.Debug("ping %s 失败: %s", target, result.Error)
	}
	return result
}

// applyOutcome 根据运行结果设置成功标志与错误
func applyOutcome(pr *model.ProbeResult, res runner.Result, err error) {
	switch {
	case err != nil:
		pr.Fail(runner.Classify(err), err.Error())
	case res.ExitCode != 0:
		pr.Fail(model.ErrProcessNonZeroExit, fmt.Sprintf("exit status %d", res.ExitCode))
	default:
		pr.Succeeded = true
	}
}

func roundSeconds(d time.Duration) float64 {
	return math.Round(d.Seconds()*100) / 100
}
