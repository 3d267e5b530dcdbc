package probe

import (
	"context"
	"time"

	"LazyPanda/internal/model"
	"LazyPanda/internal/parser"
	"LazyPanda/internal/runner"
	"LazyPanda/internal/utils"
)

const (
	scanOutputLimit = 1000
	nmapTool        = "nmap"
)

// DirectScanner 直连扫描的回退实现
type DirectScanner interface {
	Scan(ctx context.Context, target string, ports []int) []model.PortFinding
}

// PortScan 两级策略：优先 nmap，不存在时对固定端口列表直连探测
type PortScan struct {
	runner   runner.Runner
	fallback DirectScanner
	ports    []int
	timeout  time.Duration
	useNmap  bool
	logger   *utils.Logger
}

func NewPortScan(r runner.Runner, fallback DirectScanner, ports []int, timeout time.Duration) *PortScan {
	_, hasNmap := r.LookPath(nmapTool)
	return &PortScan{
		runner:   r,
		fallback: fallback,
		ports:    ports,
		timeout:  timeout,
		useNmap:  hasNmap,
		logger:   utils.NewLogger("portscan"),
	}
}

func (s *PortScan) Method() string {
	if s.useNmap {
		return "nmap"
	}
	return "socket"
}

func (s *PortScan) Scan(ctx context.Context, target string) model.ScanResult {
	if s.useNmap {
		return s.scanWithNmap(ctx, target)
	}
	return s.scanDirect(ctx, target)
}

func (s *PortScan) scanWithNmap(ctx context.Context, target string) model.ScanResult {
	result := model.ScanResult{
		ProbeResult: model.ProbeResult{Kind: model.ProbeScan},
		ScanStats:   model.ScanStats{Method: "nmap", OpenPorts: []model.PortFinding{}},
	}

	res, err := s.runner.Run(ctx, s.timeout, nmapTool, "-T4", "-F", target)

	result.Elapsed = roundSeconds(res.Elapsed)
	result.Output = parser.Truncate(res.Output, scanOutputLimit)
	result.OpenPorts = parser.ParseNmap(res.Output, parser.NmapPatterns)
	result.PortCount = len(result.OpenPorts)

	applyOutcome(&result.ProbeResult, res, err)
	s.logger.Debug("nmap %s: %d 个开放端口", target, result.PortCount)
	return result
}

func (s *PortScan) scanDirect(ctx context.Context, target string) model.ScanResult {
	start := time.Now()
	open := s.fallback.Scan(ctx, target, s.ports)
	if open == nil {
		open = []model.PortFinding{}
	}

	s.logger.Debug("直连扫描 %s: %d/%d 个开放端口", target, len(open), len(s.ports))
	return model.ScanResult{
		ProbeResult: model.ProbeResult{
			Kind:      model.ProbeScan,
			Succeeded: true,
			Elapsed:   roundSeconds(time.Since(start)),
		},
		ScanStats: model.ScanStats{
			Method:       "socket",
			OpenPorts:    open,
			PortCount:    len(open),
			PortsScanned: len(s.ports),
		},
	}
}
