//go:build linux || darwin || freebsd || netbsd || openbsd

package report

import "golang.org/x/sys/unix"

func osRelease() string {
	var u unix.Utsname
	if err := unix.Uname(&u); err != nil {
		return ""
	}
	return unix.ByteSliceToString(u.Release[:])
}
