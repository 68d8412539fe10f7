// Command marigraph runs the terminal volatility-surface dashboard: it
// loads a template describing columns and their wiring, supervises the
// worker subprocesses it names, and optionally exposes Prometheus
// metrics and a one-shot PNG snapshot for headless use.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/pborman/getopt/v2"

	"github.com/marigraph/marigraph/internal/analytics"
	"github.com/marigraph/marigraph/internal/config"
	"github.com/marigraph/marigraph/internal/grid"
	"github.com/marigraph/marigraph/internal/metrics"
	"github.com/marigraph/marigraph/internal/render"
	"github.com/marigraph/marigraph/internal/router"
	"github.com/marigraph/marigraph/internal/surface"
)

// version is the CLI's reported version string for --version.
const version = "0.1.0"

type opts struct {
	template    string
	headless    bool
	showVersion bool
	metrics     bool
	metricsPort uint32
	snapshot    string
}

func parseAsBool(fallback bool, value string) bool {
	v, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return v
}

func parseAsUint32(fallback uint32, value string) uint32 {
	if len(value) == 0 {
		return fallback
	}
	out, err := strconv.ParseUint(value, 10, 32)
	if err != nil {
		panic(err)
	}
	return uint32(out)
}

func parseAsString(fallback, value string) string {
	if len(value) == 0 {
		return fallback
	}
	return value
}

func parseopts() opts {
	help := getopt.BoolLong("help", 0, "print this help text")

	o := opts{
		template:    parseAsString("", os.Getenv("MARIGRAPH_TEMPLATE")),
		headless:    parseAsBool(false, os.Getenv("MARIGRAPH_HEADLESS")),
		metrics:     parseAsBool(false, os.Getenv("MARIGRAPH_METRICS")),
		metricsPort: parseAsUint32(9090, os.Getenv("MARIGRAPH_METRICS_PORT")),
		snapshot:    parseAsString("", os.Getenv("MARIGRAPH_SNAPSHOT")),
	}

	getopt.FlagLong(&o.template, "template", 0,
		"Path to a JSON or YAML dashboard template (see §6 schema).\n"+
			"Can also be set by environment variable 'MARIGRAPH_TEMPLATE'", "path")
	getopt.FlagLong(&o.headless, "headless", 0,
		"Run without a terminal display: supervise workers and, if --snapshot\n"+
			"is set, write one rendered frame to disk, then exit.\n"+
			"Can also be set by environment variable 'MARIGRAPH_HEADLESS'")
	getopt.FlagLong(&o.showVersion, "version", 0, "print the version and exit")
	getopt.FlagLong(&o.metrics, "metrics", 0,
		"Expose Prometheus metrics on --metrics-port.\n"+
			"Can also be set by environment variable 'MARIGRAPH_METRICS'")
	getopt.FlagLong(&o.metricsPort, "metrics-port", 0,
		"Port to host the /metrics endpoint on. Defaults to 9090.\n"+
			"Can also be set by environment variable 'MARIGRAPH_METRICS_PORT'", "int")
	getopt.FlagLong(&o.snapshot, "snapshot", 0,
		"Write a PNG snapshot of one rendered frame to this path.\n"+
			"Without --template, exit right after writing it; with --template,\n"+
			"exit after it only if --headless is also set.\n"+
			"Can also be set by environment variable 'MARIGRAPH_SNAPSHOT'", "path")

	getopt.Parse()
	if *help {
		getopt.Usage()
		os.Exit(0)
	}
	return o
}

func newLogger(headless bool) *slog.Logger {
	if headless {
		return slog.New(slog.NewJSONHandler(os.Stderr, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}

func descriptorsFromTemplate(tpl *config.Template) []router.Descriptor {
	descriptors := make([]router.Descriptor, 0, len(tpl.Columns))
	for _, col := range tpl.Columns {
		command, _ := col.Options["command"].(string)
		if command == "" {
			continue
		}
		var args []string
		if raw, ok := col.Options["args"].([]any); ok {
			for _, a := range raw {
				if s, ok := a.(string); ok {
					args = append(args, s)
				}
			}
		}
		descriptors = append(descriptors, router.Descriptor{
			ID: col.ID, Kind: col.Type, Command: command, Args: args, Options: col.Options,
		})
	}
	return descriptors
}

// demoForward is the at-the-money forward price the demo surface's
// strike axis is built around; CheckVertical needs an actual price to
// recover log-moneyness k = ln(K/F) from the strike axis.
const demoForward = 100.0

// demoSurface builds a sample volatility surface from a calibrated SVI
// smile, for --snapshot use when no live worker has produced one yet.
// X is the expiry (T) axis and Y is the strike (K) axis, matching the
// convention analytics.CheckAllArbitrage and the term-structure/smile
// functions assume. Per-cell evaluations are routed through cache so a
// redraw against the same generation doesn't re-run the SVI evaluation
// for every cell.
func demoSurface(cache *analytics.Cache, generation uint64) *surface.Surface {
	samples := []analytics.SmileSample{
		{K: -0.3, IV: 0.32, Weight: 1, T: 0.25},
		{K: -0.15, IV: 0.26, Weight: 1, T: 0.25},
		{K: 0, IV: 0.21, Weight: 1, T: 0.25},
		{K: 0.15, IV: 0.23, Weight: 1, T: 0.25},
		{K: 0.3, IV: 0.29, Weight: 1, T: 0.25},
	}
	result, err := analytics.Calibrate(samples, analytics.DefaultCalibrateOptions(samples))
	if err != nil {
		result.Params = analytics.SVIParams{A: 0.04, B: 0.1, Rho: -0.3, M: 0, Sigma: 0.2}
	}

	tenors := grid.Linspace(0.1, 2.0, 16)
	logMoneyness := grid.Linspace(-0.5, 0.5, 24)
	strikes := grid.NewVec(len(logMoneyness))
	for i, k := range logMoneyness {
		strikes[i] = demoForward * math.Exp(k)
	}

	z := grid.NewVec(len(tenors) * len(strikes))
	for xi, t := range tenors {
		for yi, k := range logMoneyness {
			z[xi*len(strikes)+yi] = cache.CachedImpliedVol(generation, result.Params, k, t)
		}
	}
	return surface.New(tenors, strikes, z, "tenor", "strike", "implied vol")
}

// writeSnapshot renders one frame of the demo surface to a PNG at path,
// logging term-structure/smile diagnostics and arbitrage-opportunity
// and static-arbitrage-violation findings along the way.
func writeSnapshot(path string, log *slog.Logger, cache *analytics.Cache, metricsSink *metrics.Metrics) error {
	const generation = 1
	s := demoSurface(cache, generation)

	curve := analytics.TermStructureAt(s, s.Ny/2)
	log.Info("marigraph: term structure",
		"strike_index", s.Ny/2, "contango", curve.Contango, "backwardation", curve.Backwardation,
		"flatness", curve.Flatness, "inflections", len(curve.InflectionIndex))

	smile := analytics.SmileAt(s, s.Nx/2, 0, s.Ny/2, s.Ny-1)
	log.Info("marigraph: smile",
		"expiry_index", s.Nx/2, "skew", smile.SkewDirection.String(),
		"butterfly_spread", smile.ButterflySpread, "inflections", len(smile.InflectionIndex))

	opportunities := analytics.DetectOpportunities(s)
	log.Info("marigraph: arbitrage opportunities", "count", len(opportunities))

	report := analytics.CheckAllArbitrage(s, demoForward)
	if metricsSink != nil {
		metricsSink.ArbitrageViolations.WithLabelValues(analytics.Calendar.String()).Add(float64(report.CalendarCount))
		metricsSink.ArbitrageViolations.WithLabelValues(analytics.Butterfly.String()).Add(float64(report.ButterflyCount))
		metricsSink.ArbitrageViolations.WithLabelValues(analytics.Vertical.String()).Add(float64(report.VerticalCount))
	}
	if len(report.Violations) > 0 {
		log.Warn("marigraph: static arbitrage violations",
			"calendar", report.CalendarCount, "butterfly", report.ButterflyCount, "vertical", report.VerticalCount)
	}

	proj := render.NewProjection(0, 0)
	frame := render.BuildFrame(s, proj)
	frame = render.ScaleToBuffer(frame, proj, 120, 48)

	rz := render.NewRasterizer(120, 48)
	buf := rz.Render(frame)
	if metricsSink != nil {
		metricsSink.FramesRasterized.Inc()
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("marigraph: creating snapshot file: %w", err)
	}
	defer f.Close()
	return render.WriteSnapshot(f, buf)
}

func run() int {
	o := parseopts()

	if o.showVersion {
		fmt.Println("marigraph", version)
		return 0
	}

	log := newLogger(o.headless)

	cache, err := analytics.NewCache()
	if err != nil {
		fmt.Fprintln(os.Stderr, "marigraph:", err)
		return 1
	}
	defer cache.Close()

	var metricsSink *metrics.Metrics
	if o.metrics {
		metricsSink = metrics.New()
		srv := &http.Server{Addr: fmt.Sprintf(":%d", o.metricsPort), Handler: metricsSink.Handler()}
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Warn("marigraph: metrics server stopped", "error", err)
			}
		}()
	}

	if o.template == "" {
		if o.snapshot != "" {
			if err := writeSnapshot(o.snapshot, log, cache, metricsSink); err != nil {
				fmt.Fprintln(os.Stderr, "marigraph:", err)
				return 1
			}
			return 0
		}
		fmt.Fprintln(os.Stderr, "marigraph: --template is required unless --version or --snapshot is given")
		return 1
	}

	tpl, err := config.Load(o.template)
	if err != nil {
		fmt.Fprintln(os.Stderr, "marigraph:", err)
		return 1
	}

	var metricsAdapter interface {
		ObserveWorkerReady(string, time.Duration)
		IncDispatched(string)
	}
	if metricsSink != nil {
		metricsAdapter = metricsSink
	}

	sup, err := router.New(log, tpl, metricsAdapter)
	if err != nil {
		fmt.Fprintln(os.Stderr, "marigraph:", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	descriptors := descriptorsFromTemplate(tpl)
	if len(descriptors) > 0 {
		if err := sup.Start(ctx, descriptors); err != nil {
			fmt.Fprintln(os.Stderr, "marigraph:", err)
			return 1
		}
		log.Info("marigraph: all workers ready", "count", len(descriptors))
	}

	if o.snapshot != "" {
		if err := writeSnapshot(o.snapshot, log, cache, metricsSink); err != nil {
			log.Error("marigraph: snapshot failed", "error", err)
		}
	}

	if !o.headless {
		<-ctx.Done()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sup.Shutdown(shutdownCtx); err != nil {
		log.Warn("marigraph: shutdown cleanup failed", "error", err)
	}
	return 0
}

func main() {
	os.Exit(run())
}
