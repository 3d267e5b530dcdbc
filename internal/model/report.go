package model

import "time"

// NotAvailable 表示输出中没有对应标记
const NotAvailable = "N/A"

// MaxDisplayHops 报告中保留的最大跳数，完整跳数另存于 HopCount
const MaxDisplayHops = 10

// TimestampLayout 报告时间格式
const TimestampLayout = "2006-01-02 15:04:05"

type ProbeKind string

const (
	ProbePing       ProbeKind = "ping"
	ProbeTraceroute ProbeKind = "traceroute"
	ProbeScan       ProbeKind = "scan"
	ProbeLocation   ProbeKind = "location"
)

// ProbeResult 每个探测的公共结果
type ProbeResult struct {
	Kind      ProbeKind `json:"kind"`
	Succeeded bool      `json:"success"`
	Output    string    `json:"output"`
	Error     string    `json:"error,omitempty"`
	ErrorKind ErrorKind `json:"error_kind,omitempty"`
	Elapsed   float64   `json:"time"` // 秒
}

// Fail 记录失败原因
func (p *ProbeResult) Fail(kind ErrorKind, reason string) {
	p.Succeeded = false
	p.ErrorKind = kind
	p.Error = reason
}

// PingStats 连通性解析字段
type PingStats struct {
	PacketLoss string `json:"packet_loss"`
	RTTMin     string `json:"rtt_min"`
	RTTAvg     string `json:"rtt_avg"`
	RTTMax     string `json:"rtt_max"`
}

func EmptyPingStats() PingStats {
	return PingStats{
		PacketLoss: NotAvailable,
		RTTMin:     NotAvailable,
		RTTAvg:     NotAvailable,
		RTTMax:     NotAvailable,
	}
}

type PingResult struct {
	ProbeResult
	PingStats
}

// Hop 路由跟踪的一跳，Index 为发现顺序（从1开始）
type Hop struct {
	Index      int    `json:"index"`
	Descriptor string `json:"descriptor"`
}

type TraceStats struct {
	Tool     string `json:"tool,omitempty"`
	Hops     []Hop  `json:"hops"`
	HopCount int    `json:"hop_count"`
}

type TraceResult struct {
	ProbeResult
	TraceStats
}

type PortSource string

const (
	SourceToolAssisted  PortSource = "tool-assisted"
	SourceDirectConnect PortSource = "direct-connect"
)

// PortFinding 开放端口
type PortFinding struct {
	Port    int        `json:"port"`
	Service string     `json:"service"`
	Source  PortSource `json:"source"`
}

type ScanStats struct {
	Method       string        `json:"method"` // nmap, socket
	OpenPorts    []PortFinding `json:"open_ports"`
	PortCount    int           `json:"port_count"`
	PortsScanned int           `json:"ports_scanned,omitempty"`
}

type ScanResult struct {
	ProbeResult
	ScanStats
}

// LocationRecord 归一化后的地理位置，字段均可为空
type LocationRecord struct {
	Country   string   `json:"country,omitempty"`
	Region    string   `json:"region,omitempty"`
	City      string   `json:"city,omitempty"`
	ISP       string   `json:"isp,omitempty"`
	Org       string   `json:"org,omitempty"`
	Latitude  *float64 `json:"lat,omitempty"`
	Longitude *float64 `json:"lon,omitempty"`
	Timezone  string   `json:"timezone,omitempty"`
}

// ProviderAttempt 一次失败的提供方查询
type ProviderAttempt struct {
	Provider  string    `json:"provider"`
	Error     string    `json:"error"`
	ErrorKind ErrorKind `json:"error_kind"`
}

// LocationResult 地理位置步骤的结果：要么有 Record，要么有 Error
type LocationResult struct {
	Attempted    bool              `json:"attempted"`
	IP           string            `json:"ip,omitempty"`
	ResolvedFrom string            `json:"resolved_from,omitempty"`
	Provider     string            `json:"provider,omitempty"`
	Record       *LocationRecord   `json:"record,omitempty"`
	Error        string            `json:"error,omitempty"`
	ErrorKind    ErrorKind         `json:"error_kind,omitempty"`
	Attempts     []ProviderAttempt `json:"attempts"`
}

func (l LocationResult) Found() bool {
	return l.Record != nil && l.Error == ""
}

// SystemFacts 本机信息
type SystemFacts struct {
	Hostname  string `json:"hostname"`
	OS        string `json:"os"`
	OSVersion string `json:"os_release"`
	GoVersion string `json:"go_version"`
	LocalIP   string `json:"local_ip"`
	Error     string `json:"error,omitempty"`
}

// Report 一次运行的聚合根
type Report struct {
	Target        string         `json:"target"`
	TargetKind    TargetKind     `json:"target_kind"`
	Timestamp     string         `json:"timestamp"`
	StartedAt     time.Time      `json:"-"`
	Ping          PingResult     `json:"ping"`
	Traceroute    TraceResult    `json:"traceroute"`
	Scan          ScanResult     `json:"scan"`
	Location      LocationResult `json:"location"`
	System        SystemFacts    `json:"system"`
	PersistedPath string         `json:"report_file,omitempty"`
}

// NewReport 创建所有字段都已初始化的报告，未运行的探测也有默认值
func NewReport(target Target, now time.Time) *Report {
	return &Report{
		Target:     target.Raw,
		TargetKind: target.Kind,
		Timestamp:  now.Format(TimestampLayout),
		StartedAt:  now,
		Ping: PingResult{
			ProbeResult: ProbeResult{Kind: ProbePing},
			PingStats:   EmptyPingStats(),
		},
		Traceroute: TraceResult{
			ProbeResult: ProbeResult{Kind: ProbeTraceroute},
			TraceStats:  TraceStats{Hops: []Hop{}},
		},
		Scan: ScanResult{
			ProbeResult: ProbeResult{Kind: ProbeScan},
			ScanStats:   ScanStats{OpenPorts: []PortFinding{}},
		},
		Location: LocationResult{Attempts: []ProviderAttempt{}},
	}
}
