package model

import (
	"errors"
	"net/netip"
	"strings"
)

type TargetKind string

const (
	TargetIP       TargetKind = "ip"
	TargetHostname TargetKind = "hostname"
)

var ErrEmptyTarget = errors.New("no target provided")

// Target 分类后的目标，创建后不再修改
type Target struct {
	Raw  string
	Kind TargetKind
}

// ParseTarget 判断目标是IP字面量还是主机名
func ParseTarget(raw string) (Target, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Target{}, ErrEmptyTarget
	}
	if _, err := netip.ParseAddr(raw); err == nil {
		return Target{Raw: raw, Kind: TargetIP}, nil
	}
	return Target{Raw: raw, Kind: TargetHostname}, nil
}

func (t Target) IsIP() bool {
	return t.Kind == TargetIP
}

func (t Target) String() string {
	return t.Raw
}
