package probe

import (
	"runtime"

	"LazyPanda/internal/parser"
)

// Tool 一个外部命令及其参数模板
type Tool struct {
	Name string
	Args func(target string) []string
}

// Dialect 宿主平台的命令方言
type Dialect struct {
	Name          string
	Ping          Tool
	PingPatterns  parser.PingPatterns
	TraceTools    []Tool // 按优先级排列
	TracePatterns parser.TracePatterns
	InstallHint   string
}

var posixPing = Tool{
	Name: "ping",
	Args: func(target string) []string { return []string{"-c", "4", target} },
}

var posixTraceTools = []Tool{
	{
		Name: "traceroute",
		Args: func(target string) []string { return []string{"-n", "-m", "15", target} },
	},
	{
		Name: "tracepath",
		Args: func(target string) []string { return []string{"-m", "15", target} },
	},
}

var dialects = map[string]Dialect{
	"windows": {
		Name: "windows",
		Ping: Tool{
			Name: "ping",
			Args: func(target string) []string { return []string{"-n", "4", target} },
		},
		PingPatterns: parser.DefaultPingPatterns,
		TraceTools: []Tool{{
			Name: "tracert",
			Args: func(target string) []string { return []string{"-d", "-h", "15", target} },
		}},
		TracePatterns: parser.WindowsTracePatterns,
	},
	"linux": {
		Name:          "linux",
		Ping:          posixPing,
		PingPatterns:  parser.DefaultPingPatterns,
		TraceTools:    posixTraceTools,
		TracePatterns: parser.PosixTracePatterns,
		InstallHint:   "sudo apt-get install",
	},
	"darwin": {
		Name:          "darwin",
		Ping:          posixPing,
		PingPatterns:  parser.DefaultPingPatterns,
		TraceTools:    posixTraceTools,
		TracePatterns: parser.PosixTracePatterns,
		InstallHint:   "brew install",
	},
}

var posixDialect = Dialect{
	Name:          "posix",
	Ping:          posixPing,
	PingPatterns:  parser.DefaultPingPatterns,
	TraceTools:    posixTraceTools,
	TracePatterns: parser.PosixTracePatterns,
}

// DialectFor 按平台标识查表，未知平台使用 POSIX 方言
func DialectFor(goos string) Dialect {
	if d, ok := dialects[goos]; ok {
		return d
	}
	return posixDialect
}

func HostDialect() Dialect {
	return DialectFor(runtime.GOOS)
}
