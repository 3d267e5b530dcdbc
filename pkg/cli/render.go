package cli

import (
	"fmt"
	"strings"

	"LazyPanda/internal/model"
	"LazyPanda/internal/probe"
	"LazyPanda/internal/report"
)

// Level 决定一行的显示颜色
type Level int

const (
	LevelPlain Level = iota
	LevelRule
	LevelTitle
	LevelLabel
	LevelOK
	LevelWarn
	LevelFail
)

// Line 一行输出
type Line struct {
	Text  string
	Level Level
}

const (
	summaryPorts = 5
	summaryHops  = 5
	snippetLen   = 50
)

var rule = strings.Repeat("=", 60)

func line(level Level, format string, args ...interface{}) Line {
	return Line{Text: fmt.Sprintf(format, args...), Level: level}
}

func blank() Line {
	return Line{}
}

// snippet 截取前 n 个字符
func snippet(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		return string(r[:n])
	}
	return s
}

// Banner 启动横幅
func Banner() []Line {
	border := strings.Repeat("═", 66)
	return []Line{
		line(LevelOK, "╔%s╗", border),
		line(LevelTitle, "║%-66s║", "                      🐼 LAZY PANDA"),
		line(LevelTitle, "║%-66s║", "              One Command - Everything Automated"),
		line(LevelOK, "╠%s╣", border),
		line(LevelLabel, "║%-66s║", "  • Ping Test     • Traceroute    • Port Scan"),
		line(LevelLabel, "║%-66s║", "  • IP Location   • OS Detection  • Service Detection"),
		line(LevelOK, "╚%s╝", border),
		blank(),
	}
}

// Intro 交互模式下的提示说明
func Intro() []Line {
	return []Line{
		line(LevelOK, "🐼 LAZY PANDA - One command does everything!"),
		line(LevelLabel, "Just give me an IP or domain, I'll do the rest:"),
		line(LevelPlain, "  • Ping test"),
		line(LevelPlain, "  • Traceroute"),
		line(LevelPlain, "  • Port scan"),
		line(LevelPlain, "  • IP location"),
		blank(),
	}
}

// RenderDependencies 依赖检查结果，缺失必需工具时附上安装提示
func RenderDependencies(deps []probe.Dependency, installHint string) []Line {
	lines := []Line{line(LevelLabel, "🔧 Checking dependencies...")}
	for _, dep := range deps {
		switch {
		case dep.Found && dep.Note != "":
			lines = append(lines, line(LevelOK, "  ✅ %s (%s)", dep.Name, dep.Note))
		case dep.Found:
			lines = append(lines, line(LevelOK, "  ✅ %s", dep.Name))
		case dep.Note != "":
			lines = append(lines, line(LevelWarn, "  ⚠️  %s not found (%s)", dep.Name, dep.Note))
		default:
			lines = append(lines, line(LevelWarn, "  ⚠️  %s not found", dep.Name))
		}
	}

	missing := probe.MissingRequired(deps)
	if len(missing) > 0 && installHint != "" {
		lines = append(lines,
			blank(),
			line(LevelWarn, "⚠️  Some tools are missing. Install with:"),
			line(LevelPlain, "  %s %s", installHint, strings.Join(missing, " ")),
		)
	}
	return append(lines, blank())
}

// RenderHeader 运行开始时的目标信息
func RenderHeader(r *model.Report) []Line {
	return []Line{
		blank(),
		line(LevelWarn, "🎯 Target: %s", r.Target),
		line(LevelWarn, "⏰ Time: %s", r.Timestamp),
		line(LevelRule, rule),
		blank(),
	}
}

// RenderStepStarted 步骤开始的进度行
func RenderStepStarted(step report.Step, r *model.Report) []Line {
	switch step {
	case report.StepPing:
		return []Line{line(LevelLabel, "📡 Pinging %s...", r.Target)}
	case report.StepTrace:
		return []Line{line(LevelLabel, "🛣️  Tracing route to %s...", r.Target)}
	case report.StepScan:
		return []Line{line(LevelLabel, "🔍 Scanning common ports on %s...", r.Target)}
	case report.StepLocate:
		ip := r.Location.IP
		if ip == "" {
			ip = r.Target
		}
		return []Line{line(LevelOK, "📍 Locating IP %s...", ip)}
	}
	return nil
}

// RenderStepFinished 步骤结束后的结果行，只读取报告中已有的字段
func RenderStepFinished(step report.Step, r *model.Report) []Line {
	var lines []Line
	switch step {
	case report.StepPing:
		lines = renderPing(r.Ping)
	case report.StepTrace:
		lines = renderTrace(r.Traceroute)
	case report.StepScan:
		lines = renderScan(r.Scan)
	case report.StepResolve:
		if r.Location.ErrorKind == model.ErrResolutionFailure {
			return []Line{line(LevelWarn, "⚠️ Cannot resolve %s - location skipped", r.Target), blank()}
		}
		return []Line{line(LevelOK, "🌐 Domain resolved to: %s", r.Location.IP)}
	case report.StepLocate:
		lines = renderLocation(r.Location)
	default:
		return nil
	}
	return append(lines, blank())
}

func renderPing(p model.PingResult) []Line {
	if p.Succeeded {
		lines := []Line{
			line(LevelOK, "  ✅ Ping successful"),
			line(LevelPlain, "  📊 Packet Loss: %s", p.PacketLoss),
		}
		if p.RTTAvg != model.NotAvailable {
			lines = append(lines, line(LevelPlain, "  ⏱️  RTT: %s avg", p.RTTAvg))
		}
		return lines
	}

	switch p.ErrorKind {
	case model.ErrProcessTimeout:
		return []Line{line(LevelFail, "  ❌ Ping timeout")}
	case model.ErrToolUnavailable:
		return []Line{line(LevelFail, "  ❌ Ping error: %s", snippet(p.Error, snippetLen))}
	}
	return []Line{line(LevelFail, "  ❌ Ping failed")}
}

func renderTrace(t model.TraceResult) []Line {
	if t.HopCount > 0 {
		lines := []Line{line(LevelOK, "  ✅ Traceroute completed (%d hops)", t.HopCount)}
		for i, hop := range t.Hops {
			if i >= summaryHops {
				break
			}
			lines = append(lines, line(LevelPlain, "    %d. %s", hop.Index, snippet(hop.Descriptor, snippetLen)))
		}
		if t.HopCount > summaryHops {
			lines = append(lines, line(LevelPlain, "    ... and %d more hops", t.HopCount-summaryHops))
		}
		return lines
	}

	switch t.ErrorKind {
	case model.ErrProcessTimeout:
		return []Line{line(LevelFail, "  ❌ Traceroute timeout")}
	case model.ErrToolUnavailable:
		return []Line{line(LevelWarn, "  ⚠️  Traceroute not available: %s", snippet(t.Error, snippetLen))}
	}
	return []Line{line(LevelWarn, "  ⚠️  No route information")}
}

func renderScan(s model.ScanResult) []Line {
	if len(s.OpenPorts) > 0 {
		lines := []Line{line(LevelOK, "  🔓 Open ports found: %d", len(s.OpenPorts))}
		for _, p := range s.OpenPorts {
			lines = append(lines, line(LevelPlain, "    Port %d: %s", p.Port, serviceOf(p)))
		}
		return lines
	}

	switch {
	case s.ErrorKind == model.ErrProcessTimeout:
		return []Line{line(LevelFail, "  ❌ Port scan timeout")}
	case s.Error != "":
		return []Line{line(LevelWarn, "  ⚠️  Port scan error: %s", snippet(s.Error, snippetLen))}
	}
	return []Line{line(LevelWarn, "  🔒 No open ports found on common ports")}
}

func renderLocation(l model.LocationResult) []Line {
	if !l.Found() {
		lines := []Line{line(LevelWarn, "  ⚠️  Could not locate IP address")}
		for _, a := range l.Attempts {
			lines = append(lines, line(LevelPlain, "    %s: %s", a.Provider, snippet(a.Error, snippetLen)))
		}
		return lines
	}

	rec := l.Record
	lines := []Line{
		line(LevelOK, "  🌍 Location found:"),
		line(LevelPlain, "    Country: %s", orNA(rec.Country)),
		line(LevelPlain, "    Region:  %s", orNA(rec.Region)),
		line(LevelPlain, "    City:    %s", orNA(rec.City)),
		line(LevelPlain, "    ISP:     %s", orNA(rec.ISP)),
	}
	if rec.Latitude != nil && rec.Longitude != nil {
		lines = append(lines, line(LevelPlain, "    Lat/Lon: %v, %v", *rec.Latitude, *rec.Longitude))
	}
	if l.Provider != "" {
		lines = append(lines, line(LevelPlain, "    Source:  %s", l.Provider))
	}
	return lines
}

// RenderSummary 报告的控制台摘要，任何成功/失败组合都能渲染
func RenderSummary(r *model.Report) []Line {
	lines := []Line{
		line(LevelRule, rule),
		line(LevelTitle, "📋 LAZY PANDA SUMMARY"),
		line(LevelRule, rule),
		blank(),
		line(LevelWarn, "🎯 Target: %s", r.Target),
		line(LevelWarn, "⏰ Time: %s", r.Timestamp),
		blank(),
	}

	if r.Ping.Succeeded {
		lines = append(lines, line(LevelOK, "📡 PING: ✓ Success"))
	} else {
		lines = append(lines, line(LevelFail, "📡 PING: ✗ Failed"))
	}
	if r.Ping.RTTAvg != model.NotAvailable && r.Ping.RTTAvg != "" {
		lines = append(lines, line(LevelPlain, "   RTT: %s avg, %s min, %s max", r.Ping.RTTAvg, r.Ping.RTTMin, r.Ping.RTTMax))
	}
	lines = append(lines, blank())

	if r.Traceroute.HopCount > 0 {
		lines = append(lines,
			line(LevelOK, "🛣️  TRACEROUTE: ✓ Completed"),
			line(LevelPlain, "   Hops: %d", r.Traceroute.HopCount),
		)
	} else {
		lines = append(lines, line(LevelWarn, "🛣️  TRACEROUTE: ⚠️ No data"))
	}
	lines = append(lines, blank())

	open := r.Scan.OpenPorts
	if len(open) > 0 {
		lines = append(lines, line(LevelOK, "🔍 PORT SCAN: ✓ %d open ports", len(open)))
		var shown []string
		for i, p := range open {
			if i >= summaryPorts {
				break
			}
			shown = append(shown, fmt.Sprintf("%d(%s)", p.Port, serviceOf(p)))
		}
		lines = append(lines, line(LevelPlain, "   %s", strings.Join(shown, ", ")))
		if len(open) > summaryPorts {
			lines = append(lines, line(LevelPlain, "   ... and %d more", len(open)-summaryPorts))
		}
	} else {
		lines = append(lines, line(LevelWarn, "🔍 PORT SCAN: ⚠️ No open ports"))
	}

	if r.Location.Found() {
		rec := r.Location.Record
		lines = append(lines,
			blank(),
			line(LevelOK, "📍 LOCATION: %s, %s", orNA(rec.City), orNA(rec.Country)),
			line(LevelPlain, "   ISP: %s", orNA(rec.ISP)),
		)
	}

	lines = append(lines,
		blank(),
		line(LevelLabel, "💻 LOCAL SYSTEM:"),
		line(LevelPlain, "   Hostname: %s", orNA(r.System.Hostname)),
		line(LevelPlain, "   Local IP: %s", orNA(r.System.LocalIP)),
	)

	if r.PersistedPath != "" {
		lines = append(lines, blank(), line(LevelOK, "📁 Full report: %s", r.PersistedPath))
	}

	return append(lines,
		blank(),
		line(LevelRule, rule),
		line(LevelOK, "✅ Lazy Panda completed all tasks!"),
		line(LevelRule, rule),
		blank(),
	)
}

func serviceOf(p model.PortFinding) string {
	if p.Service == "" {
		return "unknown"
	}
	return p.Service
}

func orNA(s string) string {
	if s == "" {
		return model.NotAvailable
	}
	return s
}
