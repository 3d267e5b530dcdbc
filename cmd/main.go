package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"LazyPanda/internal/config"
	"LazyPanda/internal/geo"
	"LazyPanda/internal/model"
	"LazyPanda/internal/probe"
	"LazyPanda/internal/report"
	"LazyPanda/internal/runner"
	"LazyPanda/internal/scanner"
	"LazyPanda/internal/store"
	"LazyPanda/internal/utils"
	"LazyPanda/pkg/cli"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

const historyLimit = 20

func main() {
	printer := cli.NewPrinter(os.Stdout)

	// Ctrl+C 直接退出，不等待正在运行的探测
	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-interrupts
		printer.SignOff()
		os.Exit(130)
	}()

	if err := rootCommand(printer).ExecuteContext(context.Background()); err != nil {
		printer.Error("Error: %v", err)
		os.Exit(1)
	}
}

func rootCommand(printer *cli.Printer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "panda [target]",
		Short: "One command network diagnostics: ping, traceroute, port scan and IP location",
		Example: `
		$ panda 8.8.8.8
		$ panda example.com
		$ panda history
		`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiagnostics(cmd.Context(), config.FromEnv(), printer, args)
		},
	}

	cmd.AddCommand(historyCommand(printer))
	return cmd
}

func historyCommand(printer *cli.Printer) *cobra.Command {
	return &cobra.Command{
		Use:   "history [target]",
		Short: "List recent diagnostic runs",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.FromEnv()
			h, err := store.OpenHistory(cfg.HistoryDB)
			if err != nil {
				return err
			}
			defer h.Close()

			target := ""
			if len(args) > 0 {
				target = args[0]
			}
			runs, err := h.Recent(target, historyLimit)
			if err != nil {
				return err
			}
			printer.Print(cli.RenderHistory(runs, time.Now()))
			return nil
		},
	}
}

func runDiagnostics(ctx context.Context, cfg config.Config, printer *cli.Printer, args []string) error {
	logger := utils.NewLogger("main")

	dialect := probe.HostDialect()
	exec := runner.NewExec()

	printer.Print(cli.Banner())
	printer.Print(cli.RenderDependencies(probe.CheckDependencies(exec, dialect), dialect.InstallHint))

	raw := ""
	if len(args) > 0 {
		raw = args[0]
	} else {
		var err error
		raw, err = cli.NewPrompt(os.Stdin, printer).ReadTarget()
		if errors.Is(err, cli.ErrNoTarget) {
			printer.Error("No target provided. Exiting.")
			return nil
		}
		if err != nil {
			return err
		}
	}

	target, err := model.ParseTarget(raw)
	if err != nil {
		return err
	}

	started := time.Now()
	aggregator := report.NewAggregator(report.Probes{
		Pinger:   probe.NewPinger(exec, dialect, cfg.PingTimeout),
		Tracer:   probe.NewTracer(exec, dialect, cfg.TraceTimeout),
		Scanner:  probe.NewPortScan(exec, scanner.NewPortScanner(cfg.ConnectTimeout), model.CommonPortsList(), cfg.ScanTimeout),
		Locator:  geo.NewReconciler(cfg.HTTPTimeout, locationProviders(cfg)...),
		Resolver: report.NewDNSResolver(cfg.ResolveTimeout),
		Now:      func() time.Time { return started },
	})
	aggregator.SetObserver(printer)

	logger.Info("启动 Lazy Panda, 目标 %s", target)
	printer.Print(cli.RenderHeader(model.NewReport(target, started)))
	r := aggregator.Run(ctx, target)

	history, err := store.OpenHistory(cfg.HistoryDB)
	if err != nil {
		logger.Warn("无法打开历史库: %v", err)
	} else {
		defer history.Close()
	}

	if err := store.NewPersister(cfg.ReportDir, history).Persist(r); err != nil {
		logger.Error("保存报告失败: %v", err)
		printer.Warn("Could not save report: %v", err)
	} else {
		printer.Print([]cli.Line{{Text: "💾 Report saved: " + r.PersistedPath, Level: cli.LevelOK}, {}})
	}

	printer.Print(cli.RenderSummary(r))
	return nil
}

// locationProviders HTTP 提供方按固定顺序，找到本地 GeoLite2 数据库时追加离线数据源
func locationProviders(cfg config.Config) []geo.Provider {
	providers := geo.DefaultProviders(geo.NewHTTPClient(cfg.HTTPTimeout))

	cityPaths := append([]string{cfg.GeoIPCityDB}, geo.DefaultCityPaths...)
	city, ok := geo.FindDatabase(cityPaths)
	if !ok {
		return providers
	}
	asn, _ := geo.FindDatabase(append([]string{cfg.GeoIPASNDB}, geo.DefaultASNPaths...))
	return append(providers, geo.NewMaxMindProvider(city, asn))
}
