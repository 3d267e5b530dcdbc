package cli

import (
	"bufio"
	"io"
	"strings"

	"github.com/pkg/errors"
)

var ErrNoTarget = errors.New("no target provided")

// Prompt 未给出目标时从标准输入读取
type Prompt struct {
	in      *bufio.Reader
	printer *Printer
}

func NewPrompt(in io.Reader, printer *Printer) *Prompt {
	return &Prompt{in: bufio.NewReader(in), printer: printer}
}

// ReadTarget 打印说明并读取一行，空输入返回 ErrNoTarget
func (p *Prompt) ReadTarget() (string, error) {
	p.printer.Print(Intro())
	p.printer.colors[LevelWarn].Fprint(p.printer.out, "Enter target (IP or domain): ")

	text, err := p.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", errors.Wrap(err, "failed to read target")
	}

	target := strings.TrimSpace(text)
	if target == "" {
		return "", ErrNoTarget
	}
	return target, nil
}
