package scanner

import (
	"context"
	"net"
	"sort"
	"strconv"
	"strings"
	"time"

	"LazyPanda/internal/model"
	"LazyPanda/internal/utils"
)

// PortScanner 直连TCP扫描器，顺序探测，每个端口独立超时
type PortScanner struct {
	timeout time.Duration
	logger  *utils.Logger
}

func NewPortScanner(timeout time.Duration) *PortScanner {
	return &PortScanner{
		timeout: timeout,
		logger:  utils.NewLogger("scanner"),
	}
}

// Scan 按端口升序探测，单个连接失败不影响后续端口
func (ps *PortScanner) Scan(ctx context.Context, target string, ports []int) []model.PortFinding {
	findings := []model.PortFinding{}

	for _, port := range removeDuplicatesAndSort(ports) {
		if ctx.Err() != nil {
			break
		}
		if !ps.ScanPort(ctx, target, port) {
			continue
		}
		findings = append(findings, model.PortFinding{
			Port:    port,
			Service: model.ServiceName(port),
			Source:  model.SourceDirectConnect,
		})
	}

	return findings
}

// ScanPort 尝试建立TCP连接，连接成功即关闭
func (ps *PortScanner) ScanPort(ctx context.Context, target string, port int) bool {
	address := net.JoinHostPort(target, strconv.Itoa(port))

	dialer := &net.Dialer{Timeout: ps.timeout}
	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		ps.logger.Debug("端口 %d %s: %v", port, dialState(err), err)
		return false
	}
	conn.Close()

	ps.logger.Debug("端口 %d 开放", port)
	return true
}

// dialState 根据错误类型判断端口状态，仅用于日志
func dialState(err error) string {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "timeout"):
		return "filtered"
	case strings.Contains(msg, "refused"):
		return "closed"
	case strings.Contains(msg, "network is unreachable"),
		strings.Contains(msg, "no route to host"):
		return "unreachable"
	default:
		return "closed"
	}
}

func removeDuplicatesAndSort(ports []int) []int {
	seen := make(map[int]bool)
	unique := make([]int, 0, len(ports))
	for _, port := range ports {
		if port < 1 || port > 65535 || seen[port] {
			continue
		}
		seen[port] = true
		unique = append(unique, port)
	}
	sort.Ints(unique)
	return unique
}
