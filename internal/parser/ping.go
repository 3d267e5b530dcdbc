package parser

import (
	"strings"

	"LazyPanda/internal/model"
)

// PingPatterns 连通性输出中的丢包与延迟标记（小写匹配）
type PingPatterns struct {
	LossMarkers []string
	RTTMarkers  []string
}

var DefaultPingPatterns = PingPatterns{
	LossMarkers: []string{"loss"},
	RTTMarkers:  []string{"rtt", "round-trip"},
}

// ParsePing 逐行匹配标记，保留最后一次命中的值；未命中的字段为 N/A
func ParsePing(output string, p PingPatterns) model.PingStats {
	stats := model.EmptyPingStats()

	for _, line := range splitLines(output) {
		lower := strings.ToLower(line)

		if containsAny(lower, p.LossMarkers) {
			stats.PacketLoss = strings.TrimSpace(line)
		}

		if containsAny(lower, p.RTTMarkers) {
			min, avg, max, ok := rttTriple(line)
			if ok {
				stats.RTTMin, stats.RTTAvg, stats.RTTMax = min, avg, max
			}
		}
	}

	return stats
}

// rttTriple 解析 "... = a/b/c[/d] ms" 形式
func rttTriple(line string) (string, string, string, bool) {
	idx := strings.Index(line, "=")
	if idx < 0 {
		return "", "", "", false
	}

	parts := strings.Split(strings.TrimSpace(line[idx+1:]), "/")
	if len(parts) < 3 {
		return "", "", "", false
	}

	values := make([]string, 3)
	for i := range values {
		fields := strings.Fields(parts[i])
		if len(fields) == 0 {
			return "", "", "", false
		}
		values[i] = fields[0]
	}
	return values[0], values[1], values[2], true
}
