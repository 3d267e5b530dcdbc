package report

import (
	"net"
	"os"
	"runtime"
	"time"

	"LazyPanda/internal/model"
)

const fallbackLocalIP = "127.0.0.1"

var osNames = map[string]string{
	"linux":   "Linux",
	"darwin":  "Darwin",
	"windows": "Windows",
	"freebsd": "FreeBSD",
	"openbsd": "OpenBSD",
	"netbsd":  "NetBSD",
}

// GatherSystemFacts 收集本机信息，只调用一次
func GatherSystemFacts() model.SystemFacts {
	facts := model.SystemFacts{
		OS:        osName(runtime.GOOS),
		OSVersion: osRelease(),
		GoVersion: runtime.Version(),
		LocalIP:   localIP(),
	}

	hostname, err := os.Hostname()
	if err != nil {
		facts.Error = err.Error()
	}
	facts.Hostname = hostname
	return facts
}

func osName(goos string) string {
	if name, ok := osNames[goos]; ok {
		return name
	}
	return goos
}

// localIP 通过UDP"连接"获取出站地址，不发送数据
func localIP() string {
	conn, err := net.DialTimeout("udp", "8.8.8.8:80", 500*time.Millisecond)
	if err != nil {
		return fallbackLocalIP
	}
	defer conn.Close()

	if addr, ok := conn.LocalAddr().(*net.UDPAddr); ok {
		return addr.IP.String()
	}
	return fallbackLocalIP
}
