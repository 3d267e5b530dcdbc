package parser

import (
	"strings"

	"LazyPanda/internal/model"
)

// TracePatterns 路由跟踪的行过滤规则。这是启发式匹配，不是严格语法：
// POSIX 规则只识别 1-4 号跳的标记，跳数 >=10 或非英文输出可能漏配或误配。
type TracePatterns struct {
	Name     string
	Match    func(line string) bool
	Describe func(line string) (string, bool)
}

var WindowsTracePatterns = TracePatterns{
	Name: "windows",
	Match: func(line string) bool {
		return strings.Contains(line, "ms") && len(line) > 10
	},
	Describe: func(line string) (string, bool) {
		return strings.TrimSpace(line), true
	},
}

var PosixTracePatterns = TracePatterns{
	Name: "posix",
	Match: func(line string) bool {
		return containsAny(line, []string{" 1 ", " 2 ", " 3 ", " 4 "})
	},
	Describe: func(line string) (string, bool) {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return "", false
		}
		return fields[0] + ": " + strings.Join(fields[1:], " "), true
	},
}

// ParseTrace 按发现顺序提取跳，列表截断为 MaxDisplayHops，HopCount 保留完整数量
func ParseTrace(output string, p TracePatterns) model.TraceStats {
	var all []string
	for _, line := range splitLines(output) {
		if !p.Match(line) {
			continue
		}
		if desc, ok := p.Describe(line); ok {
			all = append(all, desc)
		}
	}

	stats := model.TraceStats{
		Hops:     []model.Hop{},
		HopCount: len(all),
	}
	for i, desc := range all {
		if i >= model.MaxDisplayHops {
			break
		}
		stats.Hops = append(stats.Hops, model.Hop{Index: i + 1, Descriptor: desc})
	}
	return stats
}
