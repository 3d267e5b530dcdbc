package probe

import (
	"strings"

	"LazyPanda/internal/runner"
)

// Dependency 外部工具检查结果
type Dependency struct {
	Name     string
	Found    bool
	Optional bool
	Note     string
}

// CheckDependencies 检查 ping、路由跟踪工具和可选的 nmap
func CheckDependencies(r runner.Runner, d Dialect) []Dependency {
	_, hasPing := r.LookPath(d.Ping.Name)

	var traceNames []string
	hasTrace := false
	for _, tool := range d.TraceTools {
		traceNames = append(traceNames, tool.Name)
		if _, ok := r.LookPath(tool.Name); ok {
			hasTrace = true
		}
	}

	_, hasNmap := r.LookPath(nmapTool)

	deps := []Dependency{
		{Name: d.Ping.Name, Found: hasPing},
		{Name: strings.Join(traceNames, "/"), Found: hasTrace},
		{Name: nmapTool, Found: hasNmap, Optional: true, Note: "faster scanning"},
	}
	if !hasNmap {
		deps[2].Note = "using socket fallback"
	}
	return deps
}

// MissingRequired 返回缺失的必需工具名
func MissingRequired(deps []Dependency) []string {
	var missing []string
	for _, dep := range deps {
		if !dep.Found && !dep.Optional {
			missing = append(missing, dep.Name)
		}
	}
	return missing
}
