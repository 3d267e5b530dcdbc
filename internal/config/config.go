package config

import (
	"os"
	"path/filepath"
	"time"
)

// Config 运行参数，只能通过环境变量覆盖
type Config struct {
	ReportDir   string
	HistoryDB   string
	GeoIPCityDB string
	GeoIPASNDB  string

	PingTimeout    time.Duration
	TraceTimeout   time.Duration
	ScanTimeout    time.Duration
	ConnectTimeout time.Duration
	HTTPTimeout    time.Duration
	ResolveTimeout time.Duration
}

func Default() Config {
	return Config{
		ReportDir:      "panda_reports",
		HistoryDB:      filepath.Join("panda_reports", "history.db"),
		PingTimeout:    30 * time.Second,
		TraceTimeout:   45 * time.Second,
		ScanTimeout:    60 * time.Second,
		ConnectTimeout: 500 * time.Millisecond,
		HTTPTimeout:    5 * time.Second,
		ResolveTimeout: 5 * time.Second,
	}
}

// FromEnv 在默认值上应用环境变量
func FromEnv() Config {
	return apply(Default(), os.Getenv)
}

func apply(c Config, getenv func(string) string) Config {
	if v := getenv("PANDA_REPORT_DIR"); v != "" {
		c.ReportDir = v
		c.HistoryDB = filepath.Join(v, "history.db")
	}
	if v := getenv("PANDA_HISTORY_DB"); v != "" {
		c.HistoryDB = v
	}
	if v := getenv("PANDA_GEOIP_DB"); v != "" {
		c.GeoIPCityDB = v
	}
	if v := getenv("PANDA_GEOIP_ASN_DB"); v != "" {
		c.GeoIPASNDB = v
	}
	return c
}
