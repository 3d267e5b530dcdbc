package cli

import (
	"fmt"
	"io"

	"LazyPanda/internal/model"
	"LazyPanda/internal/report"

	"github.com/fatih/color"
)

// Printer 按级别着色输出，同时作为聚合器的进度观察者
type Printer struct {
	out    io.Writer
	colors map[Level]*color.Color
}

func NewPrinter(out io.Writer) *Printer {
	return &Printer{
		out: out,
		colors: map[Level]*color.Color{
			LevelRule:  color.New(color.FgCyan),
			LevelTitle: color.New(color.FgWhite, color.Bold),
			LevelLabel: color.New(color.FgCyan),
			LevelOK:    color.New(color.FgGreen),
			LevelWarn:  color.New(color.FgYellow),
			LevelFail:  color.New(color.FgRed),
		},
	}
}

// Print 逐行输出
func (p *Printer) Print(lines []Line) {
	for _, l := range lines {
		if c, ok := p.colors[l.Level]; ok && l.Text != "" {
			c.Fprintln(p.out, l.Text)
			continue
		}
		fmt.Fprintln(p.out, l.Text)
	}
}

func (p *Printer) Error(format string, args ...interface{}) {
	p.Print([]Line{line(LevelFail, "❌ "+format, args...)})
}

func (p *Printer) Warn(format string, args ...interface{}) {
	p.Print([]Line{line(LevelWarn, "⚠️  "+format, args...)})
}

// SignOff Ctrl+C 退出时的告别语
func (p *Printer) SignOff() {
	p.Print([]Line{blank(), blank(), line(LevelWarn, "👋 Lazy Panda signing off. Stay lazy!")})
}

func (p *Printer) StepStarted(step report.Step, r *model.Report) {
	p.Print(RenderStepStarted(step, r))
}

func (p *Printer) StepFinished(step report.Step, r *model.Report) {
	p.Print(RenderStepFinished(step, r))
}
