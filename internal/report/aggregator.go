package report

import (
	"context"
	"time"

	"LazyPanda/internal/model"
	"LazyPanda/internal/utils"
)

type Step string

const (
	StepPing    Step = "ping"
	StepTrace   Step = "traceroute"
	StepScan    Step = "scan"
	StepResolve Step = "resolve"
	StepLocate  Step = "location"
	StepSystem  Step = "system"
)

const cannotResolve = "cannot resolve"

type Pinger interface {
	Ping(ctx context.Context, target string) model.PingResult
}

type Tracer interface {
	Trace(ctx context.Context, target string) model.TraceResult
}

type Scanner interface {
	Scan(ctx context.Context, target string) model.ScanResult
}

type Locator interface {
	Locate(ctx context.Context, ip string) model.LocationResult
}

// Observer 每一步开始和结束时收到通知，只读报告
type Observer interface {
	StepStarted(step Step, r *model.Report)
	StepFinished(step Step, r *model.Report)
}

// Probes 聚合器依赖的协作者
type Probes struct {
	Pinger   Pinger
	Tracer   Tracer
	Scanner  Scanner
	Locator  Locator
	Resolver Resolver
	System   func() model.SystemFacts
	Now      func() time.Time
}

// Aggregator 管理一次运行的报告生命周期，步骤顺序固定，单步失败不影响后续步骤
type Aggregator struct {
	probes   Probes
	observer Observer
	logger   *utils.Logger
}

func NewAggregator(p Probes) *Aggregator {
	if p.System == nil {
		p.System = GatherSystemFacts
	}
	if p.Now == nil {
		p.Now = time.Now
	}
	return &Aggregator{
		probes: p,
		logger: utils.NewLogger("aggregator"),
	}
}

func (a *Aggregator) SetObserver(o Observer) {
	a.observer = o
}

// Run 依次执行 连通性 → 路由跟踪 → 端口扫描 → (条件)地理定位 → 本机信息
func (a *Aggregator) Run(ctx context.Context, target model.Target) *model.Report {
	r := model.NewReport(target, a.probes.Now())
	a.logger.Info("开始诊断 %s (%s)", target.Raw, target.Kind)

	a.step(StepPing, r, func() {
		r.Ping = a.probes.Pinger.Ping(ctx, target.Raw)
	})
	a.step(StepTrace, r, func() {
		r.Traceroute = a.probes.Tracer.Trace(ctx, target.Raw)
	})
	a.step(StepScan, r, func() {
		r.Scan = a.probes.Scanner.Scan(ctx, target.Raw)
	})

	ip, ok := a.locationIP(ctx, target, r)
	if ok {
		a.step(StepLocate, r, func() {
			loc := a.probes.Locator.Locate(ctx, ip)
			if !target.IsIP() {
				loc.ResolvedFrom = target.Raw
			}
			r.Location = loc
		})
	}

	a.step(StepSystem, r, func() {
		r.System = a.probes.System()
	})

	a.logger.Info("诊断完成 %s", target.Raw)
	return r
}

// locationIP IP字面量直接使用；主机名先解析，失败时记录错误并跳过定位
func (a *Aggregator) locationIP(ctx context.Context, target model.Target, r *model.Report) (string, bool) {
	if target.IsIP() {
		return target.Raw, true
	}

	var ip string
	var err error
	a.step(StepResolve, r, func() {
		ip, err = a.probes.Resolver.Resolve(ctx, target.Raw)
		if err != nil {
			a.logger.Warn("无法解析 %s: %v", target.Raw, err)
			r.Location = model.LocationResult{
				Error:     cannotResolve,
				ErrorKind: model.ErrResolutionFailure,
				Attempts:  []model.ProviderAttempt{},
			}
			return
		}
		r.Location.IP = ip
		r.Location.ResolvedFrom = target.Raw
	})
	return ip, err == nil
}

func (a *Aggregator) step(s Step, r *model.Report, fn func()) {
	if a.observer != nil {
		a.observer.StepStarted(s, r)
	}
	start := time.Now()
	fn()
	a.logger.Debug("步骤 %s 完成, 耗时 %s", s, time.Since(start).Round(time.Millisecond))
	if a.observer != nil {
		a.observer.StepFinished(s, r)
	}
}
