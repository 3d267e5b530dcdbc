package probe

import (
	"context"
	"reflect"
	"testing"
	"time"

	"LazyPanda/internal/model"
	"LazyPanda/internal/runner"

	"github.com/pkg/errors"
)

type call struct {
	name string
	args []string
}

type fakeRunner struct {
	tools  map[string]bool
	result runner.Result
	err    error
	calls  []call
}

func (f *fakeRunner) Run(ctx context.Context, timeout time.Duration, name string, args ...string) (runner.Result, error) {
	f.calls = append(f.calls, call{name: name, args: args})
	return f.result, f.err
}

func (f *fakeRunner) LookPath(name string) (string, bool) {
	return "/usr/bin/" + name, f.tools[name]
}

type fakeDirect struct {
	found  []model.PortFinding
	called bool
}

func (f *fakeDirect) Scan(ctx context.Context, target string, ports []int) []model.PortFinding {
	f.called = true
	return f.found
}

func TestDialectFor(t *testing.T) {
	win := DialectFor("windows")
	if got := win.Ping.Args("8.8.8.8"); !reflect.DeepEqual(got, []string{"-n", "4", "8.8.8.8"}) {
		t.Errorf("windows ping 参数错误: %v", got)
	}
	if win.TraceTools[0].Name != "tracert" || win.TracePatterns.Name != "windows" {
		t.Errorf("windows 路由跟踪方言错误: %+v", win.TraceTools)
	}

	linux := DialectFor("linux")
	if got := linux.Ping.Args("8.8.8.8"); !reflect.DeepEqual(got, []string{"-c", "4", "8.8.8.8"}) {
		t.Errorf("linux ping 参数错误: %v", got)
	}

	other := DialectFor("plan9")
	if other.Name != "posix" || other.TracePatterns.Name != "posix" {
		t.Errorf("未知平台应回退到 posix, 实际 %s", other.Name)
	}
}

func TestPingSuccess(t *testing.T) {
	fr := &fakeRunner{result: runner.Result{
		Output:  "4 packets transmitted, 4 received, 0% packet loss\nrtt min/avg/max/mdev = 1.1/2.2/3.3/0.4 ms\n",
		Elapsed: 3126 * time.Millisecond,
	}}

	res := NewPinger(fr, DialectFor("linux"), time.Second).Ping(context.Background(), "8.8.8.8")

	if !res.Succeeded || res.Error != "" {
		t.Fatalf("期望成功, 实际 %+v", res.ProbeResult)
	}
	if res.RTTAvg != "2.2" {
		t.Errorf("RTTAvg = %s", res.RTTAvg)
	}
	if res.Elapsed != 3.13 {
		t.Errorf("耗时应保留两位小数, 实际 %v", res.Elapsed)
	}
	if fr.calls[0].name != "ping" || fr.calls[0].args[0] != "-c" {
		t.Errorf("调用参数错误: %+v", fr.calls[0])
	}
}

func TestPingNonZeroExitStillParses(t *testing.T) {
	fr := &fakeRunner{result: runner.Result{
		Output:   "4 packets transmitted, 0 received, 100% packet loss\n",
		ExitCode: 1,
	}}

	res := NewPinger(fr, DialectFor("linux"), time.Second).Ping(context.Background(), "10.255.255.1")

	if res.Succeeded {
		t.Error("非零退出码应标记失败")
	}
	if res.ErrorKind != model.ErrProcessNonZeroExit {
		t.Errorf("ErrorKind = %s", res.ErrorKind)
	}
	if res.PacketLoss == model.NotAvailable {
		t.Error("失败时仍应解析输出")
	}
	if res.RTTAvg != model.NotAvailable {
		t.Errorf("缺失延迟应为 N/A, 实际 %s", res.RTTAvg)
	}
}

func TestPingTimeout(t *testing.T) {
	fr := &fakeRunner{err: errors.Wrap(runner.ErrTimeout, "ping")}

	res := NewPinger(fr, DialectFor("linux"), time.Second).Ping(context.Background(), "8.8.8.8")

	if res.Succeeded || res.ErrorKind != model.ErrProcessTimeout {
		t.Errorf("期望超时失败, 实际 %+v", res.ProbeResult)
	}
	if res.PingStats != model.EmptyPingStats() {
		t.Errorf("失败时解析字段应为默认值, 实际 %+v", res.PingStats)
	}
}

func TestPingOutputIsBounded(t *testing.T) {
	long := make([]byte, 2000)
	for i := range long {
		long[i] = 'x'
	}
	fr := &fakeRunner{result: runner.Result{Output: string(long)}}

	res := NewPinger(fr, DialectFor("linux"), time.Second).Ping(context.Background(), "8.8.8.8")
	if len(res.Output) != pingOutputLimit {
		t.Errorf("输出长度应限制为 %d, 实际 %d", pingOutputLimit, len(res.Output))
	}
}

func TestTracerSelectsFirstAvailableTool(t *testing.T) {
	fr := &fakeRunner{tools: map[string]bool{"tracepath": true}}
	tr := NewTracer(fr, DialectFor("linux"), time.Second)

	if tr.ToolName() != "tracepath" {
		t.Fatalf("应选择 tracepath, 实际 %q", tr.ToolName())
	}

	fr.tools["traceroute"] = true
	tr.Trace(context.Background(), "8.8.8.8")
	if fr.calls[0].name != "tracepath" {
		t.Errorf("工具只在构造时选择一次, 实际调用 %s", fr.calls[0].name)
	}
}

func TestTracerNoTool(t *testing.T) {
	fr := &fakeRunner{tools: map[string]bool{}}
	res := NewTracer(fr, DialectFor("linux"), time.Second).Trace(context.Background(), "8.8.8.8")

	if res.Succeeded || res.ErrorKind != model.ErrToolUnavailable {
		t.Errorf("期望工具不可用, 实际 %+v", res.ProbeResult)
	}
	if res.Hops == nil || res.HopCount != 0 {
		t.Errorf("跳列表应为空且非nil, 实际 %+v", res.TraceStats)
	}
	if len(fr.calls) != 0 {
		t.Error("没有工具时不应执行命令")
	}
}

func TestTraceEmptyOutputKeepsExitStatus(t *testing.T) {
	fr := &fakeRunner{tools: map[string]bool{"traceroute": true}, result: runner.Result{Output: ""}}
	res := NewTracer(fr, DialectFor("linux"), time.Second).Trace(context.Background(), "8.8.8.8")

	if !res.Succeeded {
		t.Error("退出码为0时应成功，与解析结果无关")
	}
	if res.HopCount != 0 || len(res.Hops) != 0 {
		t.Errorf("空输出应没有跳, 实际 %+v", res.TraceStats)
	}

	fr.result.ExitCode = 1
	res = NewTracer(fr, DialectFor("linux"), time.Second).Trace(context.Background(), "8.8.8.8")
	if res.Succeeded {
		t.Error("退出码非0时应失败")
	}
}

func TestTraceParsesHops(t *testing.T) {
	fr := &fakeRunner{
		tools:  map[string]bool{"traceroute": true},
		result: runner.Result{Output: " 1  192.168.1.1  0.5 ms\n 2  10.0.0.1  4.1 ms\n"},
	}
	res := NewTracer(fr, DialectFor("linux"), time.Second).Trace(context.Background(), "8.8.8.8")

	if res.HopCount != 2 || res.Tool != "traceroute" {
		t.Errorf("解析结果错误: %+v", res.TraceStats)
	}
	if !reflect.DeepEqual(fr.calls[0].args, []string{"-n", "-m", "15", "8.8.8.8"}) {
		t.Errorf("traceroute 参数错误: %v", fr.calls[0].args)
	}
}

func TestPortScanPrefersNmap(t *testing.T) {
	fr := &fakeRunner{
		tools:  map[string]bool{"nmap": true},
		result: runner.Result{Output: "22/tcp open ssh\n443/tcp open https\n"},
	}
	direct := &fakeDirect{}

	s := NewPortScan(fr, direct, model.CommonPortsList(), time.Second)
	res := s.Scan(context.Background(), "scanme.nmap.org")

	if direct.called {
		t.Error("有 nmap 时不应直连扫描")
	}
	if s.Method() != "nmap" || res.Method != "nmap" {
		t.Errorf("Method = %s", res.Method)
	}
	if res.PortCount != 2 || res.OpenPorts[1].Service != "https" {
		t.Errorf("nmap 结果解析错误: %+v", res.OpenPorts)
	}
	if !reflect.DeepEqual(fr.calls[0].args, []string{"-T4", "-F", "scanme.nmap.org"}) {
		t.Errorf("nmap 参数错误: %v", fr.calls[0].args)
	}
}

func TestPortScanFallback(t *testing.T) {
	fr := &fakeRunner{tools: map[string]bool{}}
	direct := &fakeDirect{}

	res := NewPortScan(fr, direct, model.CommonPortsList(), time.Second).Scan(context.Background(), "10.0.0.1")

	if !direct.called {
		t.Fatal("没有 nmap 时应直连扫描")
	}
	if !res.Succeeded || res.Method != "socket" {
		t.Errorf("直连扫描结果错误: %+v", res)
	}
	if res.OpenPorts == nil || len(res.OpenPorts) != 0 {
		t.Errorf("没有开放端口时应为空列表, 实际 %#v", res.OpenPorts)
	}
	if res.PortsScanned != len(model.CommonPortsList()) {
		t.Errorf("PortsScanned = %d", res.PortsScanned)
	}
}

func TestPortScanNmapTimeout(t *testing.T) {
	fr := &fakeRunner{tools: map[string]bool{"nmap": true}, err: errors.Wrap(runner.ErrTimeout, "nmap")}

	res := NewPortScan(fr, &fakeDirect{}, nil, time.Second).Scan(context.Background(), "10.0.0.1")
	if res.Succeeded || res.ErrorKind != model.ErrProcessTimeout {
		t.Errorf("期望超时失败, 实际 %+v", res.ProbeResult)
	}
	if res.OpenPorts == nil {
		t.Error("失败时 open_ports 也应为空列表")
	}
}

func TestCheckDependencies(t *testing.T) {
	fr := &fakeRunner{tools: map[string]bool{"ping": true, "tracepath": true}}
	deps := CheckDependencies(fr, DialectFor("linux"))

	if len(deps) != 3 {
		t.Fatalf("期望3项依赖, 实际 %d", len(deps))
	}
	if !deps[1].Found || deps[1].Name != "traceroute/tracepath" {
		t.Errorf("路由跟踪检查错误: %+v", deps[1])
	}
	if deps[2].Found || !deps[2].Optional {
		t.Errorf("nmap 应为可选且缺失: %+v", deps[2])
	}
	if missing := MissingRequired(deps); len(missing) != 0 {
		t.Errorf("不应缺少必需工具: %v", missing)
	}

	missing := MissingRequired(CheckDependencies(&fakeRunner{}, DialectFor("linux")))
	if !reflect.DeepEqual(missing, []string{"ping", "traceroute/tracepath"}) {
		t.Errorf("MissingRequired = %v", missing)
	}
}
