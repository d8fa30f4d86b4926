// Package main provides the archgen binary entry point.
// Archgen is a multi-agent floor-plan generation service that drafts,
// validates, and iteratively refines residential layouts against
// municipal byelaws and Vastu placement rules.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	// Register LLM providers via init()
	_ "github.com/SAQLAINAP/Architectural-AI-Gemini/llm/providers"

	"github.com/spf13/cobra"

	"github.com/SAQLAINAP/Architectural-AI-Gemini/config"
	"github.com/SAQLAINAP/Architectural-AI-Gemini/geometry"
	"github.com/SAQLAINAP/Architectural-AI-Gemini/jobs"
	"github.com/SAQLAINAP/Architectural-AI-Gemini/llm"
	"github.com/SAQLAINAP/Architectural-AI-Gemini/model"
	"github.com/SAQLAINAP/Architectural-AI-Gemini/orchestrator"
	"github.com/SAQLAINAP/Architectural-AI-Gemini/plan"
	"github.com/SAQLAINAP/Architectural-AI-Gemini/regulation"
	"github.com/SAQLAINAP/Architectural-AI-Gemini/server"
	"github.com/SAQLAINAP/Architectural-AI-Gemini/vastu"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "archgen"
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		configPath string
		addr       string
		logLevel   string
	)

	cmd := &cobra.Command{
		Use:   "archgen",
		Short: "Multi-agent floor-plan generation service",
		Long: `Archgen generates residential floor plans with a pipeline of
LLM-backed agents and deterministic validators.

It provides:
- Layout drafting, critique, and iterative refinement
- Municipal byelaw and Vastu compliance validation
- Cost estimation and furniture placement
- An HTTP API with live progress streaming`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(configPath, addr, logLevel)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Config file path (YAML)")
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides config)")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	})

	validateCmd := &cobra.Command{
		Use:   "validate <plan.json>",
		Short: "Run the offline compliance validators over a saved plan",
		Long: `Validate reads a JSON file of the form {"config": {...}, "rooms": [...]}
and runs the regulatory and Vastu validators without calling any model.
The exit code is non-zero when a critical violation is found.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return validate(args[0])
		},
	}
	cmd.AddCommand(validateCmd)

	return cmd
}

func serve(configPath, addr, logLevel string) error {
	printBanner()

	// Load configuration before logging: the file may set nothing, but
	// a broken file should fail loudly.
	cfg, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Environment wins over files. A missing GEMINI_API_KEY stops the
	// process here rather than failing every generation later.
	env, err := config.LoadEnv()
	if err != nil {
		return err
	}
	if addr == "" {
		addr = env.Addr
	}
	if addr == "" {
		addr = cfg.Server.Addr
	}
	if logLevel == "" {
		logLevel = env.LogLevel
	}

	logger := newLogger(logLevel)
	slog.SetDefault(logger)

	registry := model.NewDefaultRegistry()
	if cfg.Routing.File != "" {
		data, err := os.ReadFile(cfg.Routing.File)
		if err != nil {
			return fmt.Errorf("read routing file: %w", err)
		}
		if err := registry.ApplyRouting(data); err != nil {
			return fmt.Errorf("apply routing file: %w", err)
		}
		logger.Info("Loaded routing table", "path", cfg.Routing.File)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if cfg.Routing.File != "" && cfg.Routing.Watch {
		watcher, err := config.NewRoutingWatcher(cfg.Routing.File, registry.ApplyRouting,
			config.WithWatcherLogger(logger))
		if err != nil {
			return fmt.Errorf("create routing watcher: %w", err)
		}
		if err := watcher.Start(ctx); err != nil {
			return fmt.Errorf("start routing watcher: %w", err)
		}
		defer watcher.Stop()
	}

	client := llm.NewClient(registry, llm.WithLogger(logger))

	srv := server.New(client, registry,
		server.WithLogger(logger),
		server.WithConcurrencyLimits(cfg.Server.MaxConcurrentPerUser, cfg.Server.MaxConcurrentGlobal),
		server.WithStore(jobs.NewStore(
			jobs.WithMaxSessions(cfg.Jobs.MaxSessions),
			jobs.WithTTL(cfg.Jobs.TTL),
		)),
		server.WithOrchestratorOptions(
			orchestrator.WithMaxIterations(cfg.Pipeline.MaxIterations),
			orchestrator.WithThreshold(cfg.Pipeline.ScoreThreshold),
		),
	)

	logger.Info("Archgen ready", "version", Version, "addr", addr)
	return srv.ListenAndServe(ctx, addr)
}

// validatePlanFile is the on-disk shape consumed by the validate
// subcommand.
type validatePlanFile struct {
	Config plan.ProjectConfig `json:"config"`
	Rooms  []plan.Room        `json:"rooms"`
}

type validateOutput struct {
	Regulatory plan.ValidationResult `json:"regulatory"`
	Cultural   plan.ValidationResult `json:"cultural"`
}

func validate(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read plan file: %w", err)
	}

	var file validatePlanFile
	if err := json.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse plan file: %w", err)
	}
	if err := file.Config.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if len(file.Rooms) == 0 {
		return fmt.Errorf("plan file has no rooms")
	}

	profile, _ := regulation.ProfileFor(file.Config.Authority)
	rooms := geometry.Enrich(file.Rooms, file.Config.PlotWidth, file.Config.PlotDepth)

	out := validateOutput{
		Regulatory: regulation.Validate(regulation.Input{
			Rooms:      rooms,
			PlotWidth:  file.Config.PlotWidth,
			PlotDepth:  file.Config.PlotDepth,
			Profile:    profile,
			Setbacks:   profile.DefaultSetbacks,
			FloorCount: file.Config.FloorCount(),
		}),
		Cultural: vastu.Validate(rooms, file.Config.PlotWidth, file.Config.PlotDepth,
			file.Config.Strictness.Coefficient()),
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(out); err != nil {
		return err
	}

	for _, v := range append(out.Regulatory.Violations, out.Cultural.Violations...) {
		if v.Severity == plan.SeverityCritical {
			return fmt.Errorf("plan has critical violations")
		}
	}
	return nil
}

func loadConfig(configPath string) (*config.Config, error) {
	if configPath != "" {
		cfg, err := config.LoadFromFile(configPath)
		if err != nil {
			return nil, err
		}
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	return config.NewLoader(slog.Default()).Load()
}

func newLogger(logLevel string) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func printBanner() {
	fmt.Println("╔═══════════════════════════════════════════════╗")
	fmt.Println("║             Archgen v" + Version + "                    ║")
	fmt.Println("║      Floor-Plan Generation Service            ║")
	fmt.Println("╚═══════════════════════════════════════════════╝")
}
