package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"logistics-dashboard/internal/api"
	"logistics-dashboard/internal/config"
	"logistics-dashboard/internal/dashboard"
	"logistics-dashboard/internal/eventbus"
	"logistics-dashboard/internal/export"
	"logistics-dashboard/internal/fleet"
	"logistics-dashboard/internal/format"
	"logistics-dashboard/internal/generator"
	"logistics-dashboard/internal/logger"
	"logistics-dashboard/internal/metrics"
	"logistics-dashboard/internal/models"
	"logistics-dashboard/internal/parser"
	"logistics-dashboard/internal/tracking"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "logistics-dashboard",
		Short: "Logistics Dashboard - simulated delivery operations console",
		Long: `A service and CLI for a simulated logistics operations dashboard.
Serves analytics, route optimization, live tracking, fleet management and
predictive panels over a REST API, with synthetic data refreshed on timers.`,
		SilenceUsage: true,
	}

	// Add commands
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(generateCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(vehicleCmd())
	rootCmd.AddCommand(simulateCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// serveCmd runs the dashboard and its REST API until interrupted
func serveCmd() *cobra.Command {
	var (
		port       int
		configPath string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the dashboard API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			// .env is optional
			_ = godotenv.Load()

			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("config error: %w", err)
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
				if err := cfg.Server.Validate(); err != nil {
					return fmt.Errorf("config error: %w", err)
				}
			}
			logger.SetLevel(cfg.Logging.Level)
			log := logger.New("serve")

			var (
				sink     metrics.Sink = metrics.NopSink{}
				gatherer prometheus.Gatherer
			)
			if cfg.Metrics.Enabled {
				reg := prometheus.NewRegistry()
				reg.MustRegister(
					collectors.NewGoCollector(),
					collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
				)
				prom, err := metrics.NewPromSink(reg)
				if err != nil {
					return fmt.Errorf("metrics error: %w", err)
				}
				sink, gatherer = prom, reg
			}

			bus := eventbus.New(32)
			dash := dashboard.New(dashboard.Options{
				Simulation: cfg.Simulation,
				NewLogger:  logger.New,
				Sink:       sink,
				Bus:        bus,
			})
			server := api.NewServer(dash, bus, api.Options{
				Logger:         logger.New("api"),
				Gatherer:       gatherer,
				AllowedOrigins: cfg.Server.AllowedOrigins,
			})
			httpServer := &http.Server{
				Addr:         cfg.Server.Addr(),
				Handler:      server.Handler(),
				ReadTimeout:  cfg.Server.ReadTimeout,
				WriteTimeout: cfg.Server.WriteTimeout,
				IdleTimeout:  cfg.Server.IdleTimeout,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			g, gctx := errgroup.WithContext(ctx)
			dash.Start(gctx)

			fmt.Printf("🚚 Logistics Dashboard API Server\n")
			fmt.Printf("   Listening on http://localhost%s\n", httpServer.Addr)
			fmt.Printf("   Seed: %d, fleet size: %d, metrics: %t\n\n", cfg.Simulation.Seed, cfg.Simulation.FleetSize, cfg.Metrics.Enabled)

			g.Go(func() error {
				if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})
			g.Go(func() error {
				<-gctx.Done()
				log.Infof("shutting down")
				dash.Close()
				bus.Close()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
				defer cancel()
				return httpServer.Shutdown(shutdownCtx)
			})
			return g.Wait()
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 8080, "Server port (overrides config)")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to a YAML or JSON config file")
	return cmd
}

// generateCmd prints a seeded synthetic dataset
func generateCmd() *cobra.Command {
	var (
		seed   int64
		days   int
		size   int
		output string
	)

	cmd := &cobra.Command{
		Use:       "generate <analytics|fleet|tracking|routes>",
		Short:     "Print a generated dataset as JSON",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"analytics", "fleet", "tracking", "routes"},
		RunE: func(cmd *cobra.Command, args []string) error {
			gen := generator.New(seed)
			now := time.Now()

			var data any
			switch args[0] {
			case "analytics":
				if days < 1 {
					return fmt.Errorf("--days must be positive, got %d", days)
				}
				perf := gen.Performance(days, now)
				data = struct {
					Performance []models.PerformanceDataPoint `json:"performance"`
					Regions     []models.RegionStat           `json:"regions"`
					KPIs        models.KPISummary             `json:"kpis"`
				}{perf, gen.Regions(), gen.KPIs(perf)}
			case "fleet":
				vehicles := gen.Fleet(size, now)
				data = struct {
					Vehicles    []models.Vehicle           `json:"vehicles"`
					Maintenance []models.MaintenanceRecord `json:"maintenance"`
				}{vehicles, gen.Maintenance(vehicles, now)}
			case "tracking":
				board := tracking.NewBoard(gen, config.Default().Simulation.RecentCap)
				board.Seed(now)
				data = struct {
					Deliveries []models.ActiveDelivery   `json:"deliveries"`
					Recent     []models.RecentDelivery   `json:"recent"`
					Weather    []models.WeatherCondition `json:"weather"`
				}{board.Active, board.Recent, board.Weather}
			case "routes":
				data = struct {
					DeliveryPoints    []models.DeliveryPoint    `json:"deliveryPoints"`
					TrafficConditions []models.TrafficCondition `json:"trafficConditions"`
				}{gen.DeliveryPoints(), gen.Traffic()}
			default:
				return fmt.Errorf("unknown dataset %q: want analytics, fleet, tracking or routes", args[0])
			}

			var w io.Writer = os.Stdout
			if output != "" {
				file, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("error creating output file: %w", err)
				}
				defer file.Close()
				w = file
			}
			if err := export.WriteJSON(w, data); err != nil {
				return fmt.Errorf("error writing dataset: %w", err)
			}
			if output != "" {
				fmt.Printf("✓ %s dataset written to %s\n", args[0], output)
			}
			return nil
		},
	}

	cmd.Flags().Int64Var(&seed, "seed", 0, "Random seed (0 uses the clock)")
	cmd.Flags().IntVarP(&days, "days", "d", 7, "Days of analytics history")
	cmd.Flags().IntVarP(&size, "size", "n", 15, "Number of fleet vehicles")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the dataset to a file instead of stdout")
	return cmd
}

// exportCmd writes a panel export the way the dashboard download does
func exportCmd() *cobra.Command {
	var (
		seed      int64
		dir       string
		outFormat string
		rangeFlag string
	)

	cmd := &cobra.Command{
		Use:       "export <analytics|routes>",
		Short:     "Write a dated export file",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"analytics", "routes"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if outFormat != "json" && outFormat != "csv" {
				return fmt.Errorf("unsupported format %q: want json or csv", outFormat)
			}
			tr, hasRange, err := parser.ParseTimeRange(rangeFlag)
			if err != nil {
				return err
			}

			dash := dashboard.New(dashboard.Options{Simulation: config.SimulationConfig{Seed: seed}})
			defer dash.Close()

			var (
				prefix string
				report any
				csvFn  func(io.Writer) error
				stamp  time.Time
			)
			switch args[0] {
			case "analytics":
				var r export.AnalyticsReport
				dash.With(dashboard.TabAnalytics, func() {
					if hasRange {
						dash.Analytics().SetTimeRange(tr)
					}
					r = dash.Analytics().Export()
				})
				prefix, report, stamp = export.AnalyticsPrefix, r, r.Timestamp
				csvFn = func(w io.Writer) error { return export.WritePerformanceCSV(w, r.Performance) }
			case "routes":
				var r export.RouteReport
				dash.With(dashboard.TabOptimization, func() {
					r = dash.Routes().Export()
				})
				prefix, report, stamp = export.RoutesPrefix, r, r.Timestamp
				csvFn = func(w io.Writer) error { return export.WriteStopsCSV(w, r.DeliveryPoints) }
			default:
				return fmt.Errorf("unknown export %q: want analytics or routes", args[0])
			}

			var path string
			if outFormat == "json" {
				path, err = export.WriteFile(dir, prefix, stamp, report)
			} else {
				path, err = writeCSV(dir, prefix, stamp, csvFn)
			}
			if err != nil {
				return err
			}
			fmt.Printf("✓ Exported %s to %s\n", args[0], path)
			return nil
		},
	}

	cmd.Flags().Int64Var(&seed, "seed", 0, "Random seed (0 uses the clock)")
	cmd.Flags().StringVar(&dir, "dir", ".", "Output directory")
	cmd.Flags().StringVarP(&outFormat, "format", "f", "json", "Output format (json, csv)")
	cmd.Flags().StringVarP(&rangeFlag, "range", "r", "", "Analytics time range (7d, 30d, 90d)")
	return cmd
}

func writeCSV(dir, prefix string, stamp time.Time, write func(io.Writer) error) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	name := strings.TrimSuffix(export.Filename(prefix, stamp), ".json") + ".csv"
	path := filepath.Join(dir, name)
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create export file: %w", err)
	}
	if err := write(file); err != nil {
		file.Close()
		return "", fmt.Errorf("write export: %w", err)
	}
	return path, file.Close()
}

// vehicleCmd inspects a generated fleet
func vehicleCmd() *cobra.Command {
	var (
		seed int64
		size int
	)

	cmd := &cobra.Command{
		Use:   "vehicle",
		Short: "Fleet inspection commands",
	}
	cmd.PersistentFlags().Int64Var(&seed, "seed", 0, "Random seed (0 uses the clock)")
	cmd.PersistentFlags().IntVarP(&size, "size", "n", 15, "Number of fleet vehicles")

	// List subcommand
	var status, search string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List the fleet roster",
		RunE: func(cmd *cobra.Command, args []string) error {
			choice, err := parser.ParseVehicleStatusFilter(status)
			if err != nil {
				return err
			}
			f := fleet.Filter{Search: search, Status: choice}
			vehicles := f.Apply(generator.New(seed).Fleet(size, time.Now()))

			if len(vehicles) == 0 {
				fmt.Println("No vehicles match the filter.")
				return nil
			}

			fmt.Printf("%-8s %-6s %-18s %-16s %-15s %7s %7s %9s\n",
				"ID", "Type", "Model", "Driver", "Status", "Fuel", "Batt", "Mileage")
			fmt.Println(strings.Repeat("-", 93))
			for _, v := range vehicles {
				fmt.Printf("%-8s %-6s %-18s %-16s %-15s %7s %7s %9s\n",
					v.ID, v.Type, v.Model, v.Driver, v.Status,
					format.Percent(v.FuelLevel, 0), format.Percent(v.BatteryLevel, 0), format.Number(v.Mileage))
			}
			fmt.Printf("\n%d of %d vehicles\n", len(vehicles), size)
			return nil
		},
	}
	listCmd.Flags().StringVarP(&status, "status", "s", "all", "Filter by status (Active, Maintenance, Idle, Out of Service)")
	listCmd.Flags().StringVarP(&search, "search", "q", "", "Match id, driver or model")

	// Show subcommand
	showCmd := &cobra.Command{
		Use:   "show [vehicle_id]",
		Short: "Show one vehicle with its latest maintenance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			now := time.Now()
			gen := generator.New(seed)
			vehicles := gen.Fleet(size, now)
			maintenance := gen.Maintenance(vehicles, now)

			for _, v := range vehicles {
				if v.ID != args[0] {
					continue
				}
				fmt.Printf("📋 %s - %s %s\n", v.ID, v.Type, v.Model)
				fmt.Println("==========================================")
				fmt.Printf("  Driver:            %s\n", v.Driver)
				fmt.Printf("  Status:            %s\n", v.Status)
				fmt.Printf("  Location:          %s\n", v.Location)
				fmt.Printf("  Fuel / Battery:    %s / %s\n", format.Percent(v.FuelLevel, 1), format.Percent(v.BatteryLevel, 1))
				fmt.Printf("  Temperature:       %s\n", format.Temperature(v.Temperature))
				fmt.Printf("  Efficiency:        %s\n", format.Percent(v.Efficiency, 1))
				fmt.Printf("  Deliveries today:  %d\n", v.DeliveriesToday)
				fmt.Printf("  Next maintenance:  %s\n", v.NextMaintenance)
				for _, m := range maintenance {
					if m.VehicleID == v.ID {
						fmt.Printf("  Last service:      %s on %s (%s)\n", m.Type, m.Date, m.Status)
					}
				}
				return nil
			}
			return fmt.Errorf("vehicle %s not found in a fleet of %d", args[0], size)
		},
	}

	cmd.AddCommand(listCmd, showCmd)
	return cmd
}

// simulateCmd steps the tracking lifecycle without timers
func simulateCmd() *cobra.Command {
	var (
		seed  int64
		ticks int
		step  time.Duration
		asOf  string
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run the live tracking simulation headless",
		RunE: func(cmd *cobra.Command, args []string) error {
			now := time.Now()
			if asOf != "" {
				t, err := parser.ParseTimestamp(asOf)
				if err != nil {
					return err
				}
				now = t
			}

			board := tracking.NewBoard(generator.New(seed), config.Default().Simulation.RecentCap)
			board.Seed(now)
			fmt.Printf("Starting with %d active deliveries at %s\n", len(board.Active), format.Kitchen(now))

			completed := 0
			for i := 1; i <= ticks && len(board.Active) > 0; i++ {
				now = now.Add(step)
				done := board.Advance(now)
				board.CheckAlerts(now)
				completed += len(done)

				ids := make([]string, len(done))
				for j, d := range done {
					ids[j] = d.ID
				}
				line := fmt.Sprintf("tick %3d  active=%d  alerts=%d", i, len(board.Active), len(board.Alerts))
				if len(ids) > 0 {
					line += "  completed=" + strings.Join(ids, ",")
				}
				fmt.Println(line)
			}

			stats := tracking.Summarize(board.Active, board.Recent)
			fmt.Printf("\n✓ %d deliveries completed, %d still active\n", completed, len(board.Active))
			fmt.Printf("  Recent success rate: %s, avg rating %.1f\n", format.Percent(stats.SuccessRate, 1), stats.AvgRating)
			for _, a := range board.Alerts {
				fmt.Printf("  ⚠ %s\n", a)
			}
			return nil
		},
	}

	cmd.Flags().Int64Var(&seed, "seed", 0, "Random seed (0 uses the clock)")
	cmd.Flags().IntVarP(&ticks, "ticks", "t", 20, "Number of progress ticks")
	cmd.Flags().DurationVar(&step, "step", 5*time.Second, "Simulated time per tick")
	cmd.Flags().StringVar(&asOf, "as-of", "", "Simulation start time (RFC3339, date or unix seconds)")
	return cmd
}
