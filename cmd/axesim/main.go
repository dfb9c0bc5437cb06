package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	gplot "gonum.org/v1/plot"

	"github.com/san-kum/axesim/internal/analysis"
	"github.com/san-kum/axesim/internal/config"
	"github.com/san-kum/axesim/internal/dynamo"
	"github.com/san-kum/axesim/internal/experiment"
	"github.com/san-kum/axesim/internal/export"
	"github.com/san-kum/axesim/internal/logging"
	"github.com/san-kum/axesim/internal/optim"
	"github.com/san-kum/axesim/internal/physics"
	"github.com/san-kum/axesim/internal/plot"
	"github.com/san-kum/axesim/internal/viz"
)

var (
	logLevel string
	logger   = logging.Discard()

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff9f43"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true)
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "axesim",
		Short:        "thrown axe simulation lab",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("log-level") {
				logger = logging.NewFromEnv()
				return nil
			}
			level, err := logging.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			logger = logging.New(os.Stderr, level)
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error); overrides "+logging.EnvLevel)

	rootCmd.AddCommand(
		newRunCmd(),
		newPlotCmd(),
		newAnimateCmd(),
		newExportCmd(),
		newCompareCmd(),
		newPhaseCmd(),
		newTuneCmd(),
		newPresetsCmd(),
		newParamsCmd(),
	)
	return rootCmd
}

// simulate builds the experiment for cfg and runs it. A failed run still
// returns its partial result.
func simulate(ctx context.Context, cfg *config.Config, observers ...dynamo.Observer) (*experiment.Experiment, *dynamo.Result, error) {
	exp := experiment.New(cfg, logger.WithRun(""))
	if err := exp.Setup(experiment.NewRegistry()); err != nil {
		return nil, nil, err
	}
	for _, o := range observers {
		exp.GetSimulator().AddObserver(o)
	}
	result, err := exp.Run(ctx)
	return exp, result, err
}

func newRunCmd() *cobra.Command {
	var opts simOptions
	var graph bool
	var trace int

	cmd := &cobra.Command{
		Use:   "run",
		Short: "run a throw and print a summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.resolve(cmd)
			if err != nil {
				return err
			}

			var observers []dynamo.Observer
			if trace > 0 {
				observers = append(observers, experiment.NewTrace(logging.New(cmd.ErrOrStderr(), slog.LevelInfo), trace))
			}

			start := time.Now()
			exp, result, err := simulate(cmd.Context(), cfg, observers...)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printSummary(out, cfg, exp.Axe(), result, time.Since(start))
			if graph {
				if g, err := plot.ASCIIPath(result, 60, 10); err == nil {
					fmt.Fprintf(out, "\n%s\n", g)
				}
			}
			return nil
		},
	}
	opts.bind(cmd)
	cmd.Flags().BoolVar(&graph, "graph", true, "draw the flight path in the terminal")
	cmd.Flags().IntVar(&trace, "trace", 0, "log every Nth sample to stderr (0 disables)")
	return cmd
}

func printSummary(w io.Writer, cfg *config.Config, axe *physics.Axe, result *dynamo.Result, elapsed time.Duration) {
	d := result.Diagnostics
	final, tEnd := result.Final()

	fmt.Fprintln(w, titleStyle.Render("axe throw"))
	fmt.Fprintf(w, "%s %s (%v)\n", labelStyle.Render("status:"), d.Message, elapsed.Round(time.Microsecond))
	fmt.Fprintf(w, "%s %s, dt=%g, adaptive=%v\n", labelStyle.Render("integrator:"), cfg.Integrator, cfg.Dt, cfg.Adaptive)
	fmt.Fprintf(w, "%s %d samples, %d evaluations, %d accepted, %d rejected\n",
		labelStyle.Render("steps:"), len(result.States), d.Evaluations, d.StepsAccepted, d.StepsRejected)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "\nfinal state at t=%.4f s\n", tEnd)
	for i, label := range physics.StateLabels {
		fmt.Fprintf(tw, "  %s\t%+.6f\t%s\n", label, final[i], physics.StateUnits[i])
	}

	fmt.Fprintln(tw, "\nmetrics:")
	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(tw, "  %s\t%.6f\n", name, result.Metrics[name])
	}
	tw.Flush()

	if len(d.Events) > 0 {
		fmt.Fprintln(w, "\nevents:")
		for _, ev := range d.Events {
			fmt.Fprintf(w, "  %-8s t=%.4f  x=%.3f  y=%.3f\n", ev.Name, ev.Time, ev.State[physics.X], ev.State[physics.Y])
		}
	}

	fmt.Fprintln(w)
	predicted, perr := analysis.PredictImpactTime(dynamo.State(cfg.GetInitState()), axe.Gravity, cfg.GroundY)
	imp, err := analysis.FindImpact(result, cfg.GroundY)
	switch {
	case err == nil:
		landing := "butt first"
		if imp.BladeFirst {
			landing = "blade first"
		}
		fmt.Fprintf(w, "%s t=%.4f s at x=%.3f m, angle %.3f rad, %.2f revolutions, %s\n",
			labelStyle.Render("impact:"), imp.Time, imp.State[physics.X], imp.Angle, imp.Revolutions, landing)
	case perr == nil:
		fmt.Fprintf(w, "%s no ground contact within %.2f s (predicted at %.4f s)\n",
			warnStyle.Render("impact:"), tEnd, predicted)
	default:
		fmt.Fprintf(w, "%s never reaches the ground\n", warnStyle.Render("impact:"))
	}
}

func newPlotCmd() *cobra.Command {
	var opts simOptions
	var (
		outFile       string
		component     string
		every         int
		width, height float64
		dpi           int
		ascii         bool
	)

	cmd := &cobra.Command{
		Use:   "plot",
		Short: "plot a throw as PNG (or in the terminal)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.resolve(cmd)
			if err != nil {
				return err
			}
			exp, result, err := simulate(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			idx := -1
			if component != "" {
				if idx, err = physics.StateIndex(component); err != nil {
					return err
				}
			}

			if ascii {
				var g string
				if idx < 0 {
					g, err = plot.ASCIIPath(result, 80, 15)
				} else {
					g, err = plot.ASCII(result, idx, 80, 15)
				}
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), g)
				return nil
			}

			var p *gplot.Plot
			if idx < 0 {
				p, err = plot.Trajectory(result, exp.Axe(), cfg.GroundY, every)
			} else {
				p, err = plot.Series(result, idx)
			}
			if err != nil {
				return err
			}
			if err := plot.SavePNG(p, width, height, dpi, outFile); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", outFile)
			return nil
		},
	}
	opts.bind(cmd)
	cmd.Flags().StringVarP(&outFile, "out", "o", "trajectory.png", "output PNG file")
	cmd.Flags().StringVar(&component, "var", "", "plot one state component against time (x, y, theta, vx, vy, omega)")
	cmd.Flags().IntVar(&every, "every", 0, "draw the axe every N samples (0 picks about ten poses)")
	cmd.Flags().Float64Var(&width, "width", 8, "figure width (in)")
	cmd.Flags().Float64Var(&height, "height", 5, "figure height (in)")
	cmd.Flags().IntVar(&dpi, "dpi", plot.DefaultDPI, "resolution")
	cmd.Flags().BoolVar(&ascii, "ascii", false, "draw in the terminal instead of writing a PNG")
	return cmd
}

func newAnimateCmd() *cobra.Command {
	var opts simOptions
	var fps int

	cmd := &cobra.Command{
		Use:   "animate",
		Short: "replay a throw in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.resolve(cmd)
			if err != nil {
				return err
			}
			exp, result, err := simulate(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			return viz.Run(result, exp.Axe(), cfg.GroundY, fps)
		},
	}
	opts.bind(cmd)
	cmd.Flags().IntVar(&fps, "fps", 30, "frame rate")
	return cmd
}

func newExportCmd() *cobra.Command {
	var opts simOptions
	var format, outFile string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "write the trajectory as CSV or JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.resolve(cmd)
			if err != nil {
				return err
			}
			_, result, err := simulate(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			var write func(io.Writer) error
			switch strings.ToLower(format) {
			case "csv":
				write = func(w io.Writer) error { return export.WriteCSV(w, result) }
			case "json":
				meta := export.Meta{
					Integrator: cfg.Integrator,
					Dt:         cfg.Dt,
					Duration:   cfg.Duration,
					Adaptive:   cfg.Adaptive,
				}
				write = func(w io.Writer) error { return export.WriteJSON(w, meta, result) }
			default:
				return fmt.Errorf("unknown format: %s (want csv or json)", format)
			}

			if outFile == "" || outFile == "-" {
				return write(cmd.OutOrStdout())
			}
			return writeFile(outFile, write)
		},
	}
	opts.bind(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", "csv", "csv or json")
	cmd.Flags().StringVarP(&outFile, "out", "o", "-", "output file, - for stdout")
	return cmd
}

// writeFile creates path, runs write on it and reports the first of the
// write and close errors.
func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func newCompareCmd() *cobra.Command {
	var opts simOptions

	cmd := &cobra.Command{
		Use:   "compare [integrator...]",
		Short: "compare integrators against the closed-form flight",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.resolve(cmd)
			if err != nil {
				return err
			}
			if len(args) == 0 {
				args = experiment.NewRegistry().ListIntegrators()
			}
			return compareIntegrators(cmd.Context(), cmd.OutOrStdout(), cfg, args)
		},
	}
	opts.bind(cmd)
	return cmd
}

func compareIntegrators(ctx context.Context, w io.Writer, cfg *config.Config, names []string) error {
	fmt.Fprintf(w, "comparing integrators (dt=%.4f, duration=%.2fs)\n\n", cfg.Dt, cfg.Duration)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "INTEGRATOR\tMAX_ERROR\tENERGY_DRIFT\tEVALS\tTIME")

	x0 := dynamo.State(cfg.GetInitState())
	for _, name := range names {
		run := *cfg
		run.Integrator = name

		start := time.Now()
		exp, result, err := simulate(ctx, &run)
		elapsed := time.Since(start)
		if err != nil {
			fmt.Fprintf(tw, "%s\terror: %v\t\t\t\n", name, err)
			continue
		}

		maxErr := 0.0
		for i, s := range result.States {
			exact := exp.Axe().Exact(x0, result.Times[i])
			maxErr = math.Max(maxErr, s.Sub(exact).Norm())
		}

		fmt.Fprintf(tw, "%s\t%.3e\t%.3e\t%d\t%v\n",
			name, maxErr, result.EnergyDrift, result.Diagnostics.Evaluations, elapsed.Round(time.Microsecond))
	}
	return tw.Flush()
}

func newPhaseCmd() *cobra.Command {
	var opts simOptions
	var xAxis, yAxis, section string

	cmd := &cobra.Command{
		Use:   "phase",
		Short: "phase space plot of two state components",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.resolve(cmd)
			if err != nil {
				return err
			}
			xi, err := physics.StateIndex(xAxis)
			if err != nil {
				return err
			}
			yi, err := physics.StateIndex(yAxis)
			if err != nil {
				return err
			}

			crossIdx, level := -1, 0.0
			if section != "" {
				if crossIdx, level, err = parseSection(section); err != nil {
					return err
				}
			}

			_, result, err := simulate(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if crossIdx < 0 {
				portrait := analysis.NewPhasePortrait(result, xi, yi)
				fmt.Fprintf(out, "%s vs %s\n%s", yAxis, xAxis, portrait.ToASCII(70, 20))
				return nil
			}

			sec := analysis.NewSection(result, crossIdx, level, xi, yi)
			fmt.Fprintf(out, "%s vs %s where %s\n", yAxis, xAxis, section)
			for i, p := range sec.Points {
				fmt.Fprintf(out, "  t=%.4f  %s=%.4f  %s=%.4f\n", sec.Times[i], xAxis, p.X, yAxis, p.Y)
			}
			fmt.Fprintln(out, sec.ToASCII(70, 20))
			return nil
		},
	}
	opts.bind(cmd)
	cmd.Flags().StringVar(&xAxis, "x-axis", "y", "state component on the horizontal axis")
	cmd.Flags().StringVar(&yAxis, "y-axis", "vy", "state component on the vertical axis")
	cmd.Flags().StringVar(&section, "section", "", "only plot where a component crosses a level, e.g. theta=0")
	return cmd
}

// parseSection reads "component=level".
func parseSection(arg string) (int, float64, error) {
	name, value, ok := strings.Cut(arg, "=")
	if !ok {
		return 0, 0, fmt.Errorf("bad section %q: want component=level", arg)
	}
	idx, err := physics.StateIndex(name)
	if err != nil {
		return 0, 0, err
	}
	level, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("bad section %q: %w", arg, err)
	}
	return idx, level, nil
}

func newTuneCmd() *cobra.Command {
	var opts simOptions
	var ranges []string
	var targetAngle float64

	cmd := &cobra.Command{
		Use:   "tune",
		Short: "grid search release values for a landing angle",
		Long: "Searches the grid given by --range (name=lo:hi:n, repeatable) for the throw\n" +
			"whose angle at ground contact is closest to --angle.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.resolve(cmd)
			if err != nil {
				return err
			}
			cfg.StopAtGround = true

			var names []string
			var grids [][]float64
			for _, r := range ranges {
				name, vals, err := optim.ParseRange(r)
				if err != nil {
					return err
				}
				names = append(names, name)
				grids = append(grids, vals)
			}

			g := optim.NewGridSearch(names, grids)
			best, score, err := g.Search(cmd.Context(), cfg, optim.ImpactAngle(cfg.GroundY, targetAngle), logger)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, titleStyle.Render("best throw"))
			for _, name := range names {
				fmt.Fprintf(out, "  %s = %g\n", name, best[name])
			}
			fmt.Fprintf(out, "%s %.4f rad from target\n", labelStyle.Render("angle error:"), score)
			return nil
		},
	}
	opts.bind(cmd)
	cmd.Flags().StringArrayVar(&ranges, "range", []string{"omega=-12:-2:21"}, "parameter grid name=lo:hi:n")
	cmd.Flags().Float64Var(&targetAngle, "angle", -math.Pi/2, "landing angle to aim for (rad)")
	return cmd
}

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "list the built-in throws",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tINTEGRATOR\tDURATION\tGROUND\tINITIAL STATE")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(tw, "%s\t%s\t%.2fs\t%v\t%v\n", name, p.Integrator, p.Duration, p.StopAtGround, p.GetInitState())
			}
			return tw.Flush()
		},
	}
}

func newParamsCmd() *cobra.Command {
	var opts simOptions
	var saveFile string

	cmd := &cobra.Command{
		Use:   "params",
		Short: "show the resolved parameters and initial state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.resolve(cmd)
			if err != nil {
				return err
			}

			axe := physics.NewAxe()
			params := cfg.GetAxeParams()
			names := make([]string, 0, len(params))
			for name, v := range params {
				if err := axe.SetParam(name, v); err != nil {
					return err
				}
				names = append(names, name)
			}
			sort.Strings(names)

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "parameters:")
			for _, name := range names {
				fmt.Fprintf(tw, "  %s\t%g\n", name, params[name])
			}
			fmt.Fprintf(tw, "  inertia\t%g\n", axe.Inertia())
			fmt.Fprintln(tw, "initial state:")
			x0 := cfg.GetInitState()
			for i, label := range physics.StateLabels {
				fmt.Fprintf(tw, "  %s\t%g\t%s\n", label, x0[i], physics.StateUnits[i])
			}
			fmt.Fprintf(tw, "  energy\t%g\tJ\n", axe.Energy(x0))
			if err := tw.Flush(); err != nil {
				return err
			}

			if saveFile != "" {
				if err := config.Save(saveFile, cfg); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", saveFile)
			}
			return nil
		},
	}
	opts.bind(cmd)
	cmd.Flags().StringVar(&saveFile, "save", "", "write the resolved config as YAML for --config")
	return cmd
}
