package parser

import (
	"strconv"
	"strings"

	"LazyPanda/internal/model"
)

// ScanPatterns nmap 普通输出的端口行标记
type ScanPatterns struct {
	ProtoDelimiter string
	OpenMarker     string
}

var NmapPatterns = ScanPatterns{
	ProtoDelimiter: "/tcp",
	OpenMarker:     "open",
}

// ParseNmap 提取 "22/tcp open ssh" 形式的开放端口，格式错误的行单独跳过；按端口号去重
func ParseNmap(output string, p ScanPatterns) []model.PortFinding {
	findings := []model.PortFinding{}
	seen := make(map[int]bool)

	for _, line := range splitLines(output) {
		if !strings.Contains(line, p.ProtoDelimiter) || !strings.Contains(line, p.OpenMarker) {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}

		portField, _, _ := strings.Cut(fields[0], "/")
		port, err := strconv.Atoi(portField)
		if err != nil || port < 1 || port > 65535 {
			continue
		}
		if seen[port] {
			continue
		}
		seen[port] = true

		service := "unknown"
		if len(fields) >= 3 {
			service = fields[2]
		}

		findings = append(findings, model.PortFinding{
			Port:    port,
			Service: service,
			Source:  model.SourceToolAssisted,
		})
	}

	return findings
}
