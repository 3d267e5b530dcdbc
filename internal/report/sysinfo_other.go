//go:build !linux && !darwin && !freebsd && !netbsd && !openbsd && !windows

package report

func osRelease() string { return "" }
