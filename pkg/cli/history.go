package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"LazyPanda/internal/store"

	"github.com/dustin/go-humanize"
)

// RenderHistory 历史运行列表
func RenderHistory(runs []store.RunSummary, now time.Time) []Line {
	if len(runs) == 0 {
		return []Line{line(LevelWarn, "No runs recorded yet")}
	}

	var builder strings.Builder
	w := tabwriter.NewWriter(&builder, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tTARGET\tWHEN\tPING\tRTT\tHOPS\tPORTS\tLOCATION")

	for _, run := range runs {
		ping := "✗"
		if run.PingOK {
			ping = "✓"
		}
		location := "-"
		if run.City != "" || run.Country != "" {
			location = strings.Trim(run.City+", "+run.Country, ", ")
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%d\t%d (%s)\t%s\n",
			run.ID,
			run.Target,
			humanize.RelTime(run.StartedAt, now, "ago", "from now"),
			ping,
			run.RTTAvg,
			run.HopCount,
			run.OpenPorts, run.ScanMethod,
			location,
		)
	}
	w.Flush()

	lines := []Line{line(LevelTitle, "📜 Recent runs"), line(LevelRule, rule)}
	for _, text := range strings.Split(strings.TrimRight(builder.String(), "\n"), "\n") {
		lines = append(lines, line(LevelPlain, "%s", text))
	}
	return lines
}
