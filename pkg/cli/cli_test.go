package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"LazyPanda/internal/model"
	"LazyPanda/internal/probe"
	"LazyPanda/internal/report"
	"LazyPanda/internal/store"

	"github.com/fatih/color"
)

func newReport(t *testing.T, raw string) *model.Report {
	t.Helper()
	target, err := model.ParseTarget(raw)
	if err != nil {
		t.Fatalf("解析目标失败: %v", err)
	}
	return model.NewReport(target, time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC))
}

func joined(lines []Line) string {
	var texts []string
	for _, l := range lines {
		texts = append(texts, l.Text)
	}
	return strings.Join(texts, "\n")
}

func TestRenderSummaryEmptyReport(t *testing.T) {
	out := joined(RenderSummary(newReport(t, "example.com")))

	for _, want := range []string{
		"🎯 Target: example.com",
		"📡 PING: ✗ Failed",
		"🛣️  TRACEROUTE: ⚠️ No data",
		"🔍 PORT SCAN: ⚠️ No open ports",
		"Hostname: N/A",
		"✅ Lazy Panda completed all tasks!",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("摘要缺少 %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "LOCATION") || strings.Contains(out, "Full report") || strings.Contains(out, "RTT:") {
		t.Errorf("空报告不应显示定位、RTT或报告路径:\n%s", out)
	}
}

func TestRenderSummaryFullReport(t *testing.T) {
	r := newReport(t, "8.8.8.8")
	r.Ping.Succeeded = true
	r.Ping.RTTMin, r.Ping.RTTAvg, r.Ping.RTTMax = "1.0", "2.0", "3.0"
	r.Traceroute.HopCount = 12
	for _, p := range []int{21, 22, 25, 53, 80, 443, 8080} {
		r.Scan.OpenPorts = append(r.Scan.OpenPorts, model.PortFinding{Port: p, Service: model.ServiceName(p)})
	}
	r.Location.Record = &model.LocationRecord{City: "Mountain View", Country: "United States", ISP: "Google LLC"}
	r.PersistedPath = "panda_reports/8_8_8_8_20240309_140507.json"

	out := joined(RenderSummary(r))
	for _, want := range []string{
		"📡 PING: ✓ Success",
		"RTT: 2.0 avg, 1.0 min, 3.0 max",
		"Hops: 12",
		"🔍 PORT SCAN: ✓ 7 open ports",
		"21(ftp), 22(ssh), 25(smtp), 53(domain), 80(http)",
		"... and 2 more",
		"📍 LOCATION: Mountain View, United States",
		"ISP: Google LLC",
		"📁 Full report: panda_reports/8_8_8_8_20240309_140507.json",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("摘要缺少 %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "443(") {
		t.Error("摘要最多显示5个端口")
	}
}

func TestRenderStepFinished(t *testing.T) {
	r := newReport(t, "example.com")
	r.Ping.Fail(model.ErrProcessTimeout, "timed out")
	r.Traceroute.Fail(model.ErrToolUnavailable, "no traceroute tool found")
	r.Location = model.LocationResult{Error: "cannot resolve", ErrorKind: model.ErrResolutionFailure}

	tests := []struct {
		step report.Step
		want string
	}{
		{report.StepPing, "❌ Ping timeout"},
		{report.StepTrace, "Traceroute not available: no traceroute tool found"},
		{report.StepScan, "🔒 No open ports found on common ports"},
		{report.StepResolve, "Cannot resolve example.com"},
		{report.StepLocate, "Could not locate IP address"},
	}

	for _, tt := range tests {
		out := joined(RenderStepFinished(tt.step, r))
		if !strings.Contains(out, tt.want) {
			t.Errorf("步骤 %s: 期望包含 %q, 实际得到:\n%s", tt.step, tt.want, out)
		}
	}

	if lines := RenderStepFinished(report.StepSystem, r); lines != nil {
		t.Errorf("本机信息步骤不应输出, 实际得到 %v", lines)
	}
}

func TestRenderTraceHops(t *testing.T) {
	r := newReport(t, "8.8.8.8")
	r.Traceroute.Succeeded = true
	r.Traceroute.HopCount = 8
	for i := 1; i <= 8; i++ {
		r.Traceroute.Hops = append(r.Traceroute.Hops, model.Hop{Index: i, Descriptor: "10.0.0.1  1.234 ms"})
	}

	out := joined(RenderStepFinished(report.StepTrace, r))
	if !strings.Contains(out, "Traceroute completed (8 hops)") || !strings.Contains(out, "... and 3 more hops") {
		t.Errorf("路由跟踪输出错误:\n%s", out)
	}
	if strings.Contains(out, "6. ") {
		t.Error("最多显示5跳")
	}
}

func TestRenderDependencies(t *testing.T) {
	deps := []probe.Dependency{
		{Name: "ping", Found: true},
		{Name: "traceroute/tracepath", Found: false},
		{Name: "nmap", Found: false, Optional: true, Note: "using socket fallback"},
	}

	out := joined(RenderDependencies(deps, "sudo apt-get install"))
	for _, want := range []string{
		"✅ ping",
		"traceroute/tracepath not found",
		"nmap not found (using socket fallback)",
		"sudo apt-get install traceroute/tracepath",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("依赖输出缺少 %q:\n%s", want, out)
		}
	}
}

func TestPromptReadTarget(t *testing.T) {
	color.NoColor = true
	var out bytes.Buffer
	printer := NewPrinter(&out)

	target, err := NewPrompt(strings.NewReader("  8.8.8.8 \n"), printer).ReadTarget()
	if err != nil || target != "8.8.8.8" {
		t.Errorf("期望 8.8.8.8, 实际得到 %q (%v)", target, err)
	}
	if !strings.Contains(out.String(), "Enter target (IP or domain): ") {
		t.Error("期望输出提示")
	}

	if _, err := NewPrompt(strings.NewReader("\n"), printer).ReadTarget(); err != ErrNoTarget {
		t.Errorf("期望 ErrNoTarget, 实际得到 %v", err)
	}
	if _, err := NewPrompt(strings.NewReader(""), printer).ReadTarget(); err != ErrNoTarget {
		t.Errorf("空输入期望 ErrNoTarget, 实际得到 %v", err)
	}
}

func TestPrinterObserver(t *testing.T) {
	color.NoColor = true
	var out bytes.Buffer
	p := NewPrinter(&out)
	r := newReport(t, "8.8.8.8")

	p.StepStarted(report.StepPing, r)
	p.StepFinished(report.StepPing, r)

	got := out.String()
	if !strings.Contains(got, "📡 Pinging 8.8.8.8...") || !strings.Contains(got, "❌ Ping failed") {
		t.Errorf("进度输出错误:\n%s", got)
	}
}

func TestRenderHistory(t *testing.T) {
	now := time.Date(2024, 3, 9, 16, 0, 0, 0, time.UTC)
	runs := []store.RunSummary{
		{ID: 2, Target: "8.8.8.8", StartedAt: now.Add(-2 * time.Hour), PingOK: true, RTTAvg: "12.3",
			HopCount: 9, OpenPorts: 2, ScanMethod: "nmap", City: "Mountain View", Country: "United States"},
		{ID: 1, Target: "example.com", StartedAt: now.Add(-3 * 24 * time.Hour), RTTAvg: "N/A", ScanMethod: "socket"},
	}

	out := joined(RenderHistory(runs, now))
	for _, want := range []string{"2 hours ago", "3 days ago", "Mountain View, United States", "2 (nmap)"} {
		if !strings.Contains(out, want) {
			t.Errorf("历史输出缺少 %q:\n%s", want, out)
		}
	}

	if out := joined(RenderHistory(nil, now)); !strings.Contains(out, "No runs recorded yet") {
		t.Errorf("空历史输出错误: %s", out)
	}
}
