package runner

import (
	"bytes"
	"context"
	"os/exec"
	"time"

	"LazyPanda/internal/model"
	"LazyPanda/internal/utils"

	"github.com/pkg/errors"
)

var (
	ErrToolUnavailable = errors.New("tool not available")
	ErrTimeout         = errors.New("timeout")
)

// Result 外部命令的执行结果，非零退出码不视为错误
type Result struct {
	Output   string
	ExitCode int
	Elapsed  time.Duration
}

// Runner 外部进程协作者
type Runner interface {
	Run(ctx context.Context, timeout time.Duration, name string, args ...string) (Result, error)
	LookPath(name string) (string, bool)
}

type Exec struct {
	logger *utils.Logger
}

func NewExec() *Exec {
	return &Exec{logger: utils.NewLogger("runner")}
}

func (e *Exec) LookPath(name string) (string, bool) {
	path, err := exec.LookPath(name)
	return path, err == nil
}

// Run 执行命令并合并 stdout/stderr；超时后进程会被杀死并回收
func (e *Exec) Run(ctx context.Context, timeout time.Duration, name string, args ...string) (Result, error) {
	if _, ok := e.LookPath(name); !ok {
		return Result{ExitCode: -1}, errors.Wrap(ErrToolUnavailable, name)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var buf bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &buf
	cmd.Stderr = &buf
	cmd.WaitDelay = 2 * time.Second

	e.logger.Debug("执行: %s %v (超时 %s)", name, args, timeout)

	start := time.Now()
	err := cmd.Run()
	res := Result{
		Output:  buf.String(),
		Elapsed: time.Since(start),
	}

	if ctx.Err() == context.DeadlineExceeded {
		res.ExitCode = -1
		return res, errors.Wrapf(ErrTimeout, "%s after %s", name, timeout)
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			return res, nil
		}
		res.ExitCode = -1
		return res, errors.Wrapf(err, "run %s", name)
	}

	return res, nil
}

// Classify 将运行错误映射为报告中的错误类型
func Classify(err error) model.ErrorKind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrToolUnavailable):
		return model.ErrToolUnavailable
	case errors.Is(err, ErrTimeout):
		return model.ErrProcessTimeout
	default:
		return model.ErrProcessNonZeroExit
	}
}
