package model

// CommonPorts 直连扫描使用的常见端口及服务名，按端口升序扫描
var CommonPorts = map[int]string{
	21:   "ftp",
	22:   "ssh",
	23:   "telnet",
	25:   "smtp",
	53:   "domain",
	80:   "http",
	110:  "pop3",
	135:  "epmap",
	139:  "netbios-ssn",
	143:  "imap2",
	443:  "https",
	445:  "microsoft-ds",
	993:  "imaps",
	995:  "pop3s",
	1723: "pptp",
	3306: "mysql",
	3389: "ms-wbt-server",
	5432: "postgresql",
	5900: "vnc",
	6379: "redis",
	8080: "http-alt",
	8443: "https-alt",
}

// CommonPortsList 返回升序的常见端口列表
func CommonPortsList() []int {
	return []int{
		21, 22, 23, 25, 53, 80, 110, 135, 139, 143, 443, 445,
		993, 995, 1723, 3306, 3389, 5432, 5900, 6379, 8080, 8443,
	}
}

// ServiceName 查询端口对应的服务名
func ServiceName(port int) string {
	if name, ok := CommonPorts[port]; ok {
		return name
	}
	return "unknown"
}
