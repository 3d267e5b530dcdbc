package model

// ErrorKind 探测失败分类
type ErrorKind string

const (
	ErrToolUnavailable         ErrorKind = "tool_unavailable"
	ErrProcessTimeout          ErrorKind = "process_timeout"
	ErrProcessNonZeroExit      ErrorKind = "process_nonzero_exit"
	ErrParseMiss               ErrorKind = "parse_miss"
	ErrProviderUnreachable     ErrorKind = "provider_unreachable"
	ErrProviderInvalidResponse ErrorKind = "provider_invalid_response"
	ErrResolutionFailure       ErrorKind = "resolution_failure"
	ErrPersistenceFailure      ErrorKind = "persistence_failure"
)
