package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/cv-agent/internal/config"
	"github.com/jonathan/cv-agent/internal/db"
	"github.com/jonathan/cv-agent/internal/extraction"
	"github.com/jonathan/cv-agent/internal/facts"
	"github.com/jonathan/cv-agent/internal/generation"
	"github.com/jonathan/cv-agent/internal/llm"
	"github.com/jonathan/cv-agent/internal/observability"
	"github.com/jonathan/cv-agent/internal/output"
	"github.com/jonathan/cv-agent/internal/pipeline"
	"github.com/jonathan/cv-agent/internal/rag"
	"github.com/jonathan/cv-agent/internal/rendering"
	"github.com/jonathan/cv-agent/internal/retrieval"
	"github.com/jonathan/cv-agent/internal/translation"
)

var generateCommand = &cobra.Command{
	Use:   "generate <user> <job-url> [job-url...]",
	Short: "Generate a tailored CV and cover letter for one or more job URLs",
	Long: `Runs the full generation pipeline for each job URL: extraction -> context retrieval -> CV and cover letter generation -> honesty check -> PDF rendering -> output assembly.

Configuration can be loaded from a JSON file using --config. Command-line arguments override config file values.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runGenerateCmd,
}

var (
	genConfigPath  string
	genOutputDir   string
	genTopK        int
	genAPIKey      string
	genUseBrowser  bool
	genNoLLM       bool
	genVerbose     bool
	genDatabaseURL string
	genLogFile     string
)

func init() {
	// Config file flag (processed first)
	generateCommand.Flags().StringVar(&genConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")

	generateCommand.Flags().StringVarP(&genOutputDir, "output", "o", "", "Root directory for generated application bundles")
	generateCommand.Flags().IntVar(&genTopK, "top-k", 0, "Number of context items to retrieve per job")
	generateCommand.Flags().BoolVar(&genUseBrowser, "use-browser", false, "Use headless browser for SPA job pages (requires Chrome)")
	generateCommand.Flags().BoolVar(&genNoLLM, "no-llm", false, "Skip LLM calls and use deterministic generation only")
	generateCommand.Flags().BoolVarP(&genVerbose, "verbose", "v", false, "Print detailed debug information")
	generateCommand.Flags().StringVar(&genLogFile, "log-file", "", "Append JSON logs to this file in addition to stderr")

	// API key can be passed as a flag, or read from env var GEMINI_API_KEY
	generateCommand.Flags().StringVar(&genAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")

	// Database URL for run persistence
	generateCommand.Flags().StringVar(&genDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")

	rootCmd.AddCommand(generateCommand)
}

func runGenerateCmd(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	user, urls := args[0], args[1:]

	cfg, err := loadConfig(cmd, genConfigPath)
	if err != nil {
		return err
	}
	cfg.User = user

	logger, closeLog := config.SetupLogger(cfg.LogFile, cfg.Verbose)
	defer func() { _ = closeLog() }()

	paths := cfg.Paths(cfg.User)
	store := facts.NewStore(paths, logger)

	// LLM client is optional; without one the pipeline runs in deterministic
	// mode (selector extraction, template-based documents).
	var client llm.Client
	if cfg.LLMEnabled() && cfg.APIKey != "" {
		client, err = llm.NewClient(ctx, nil, cfg.APIKey)
		if err != nil {
			return fmt.Errorf("failed to create LLM client: %w", err)
		}
		defer func() { _ = client.Close() }()
	} else {
		logger.Warn("no LLM configured, running in deterministic mode")
	}

	// Similarity index is optional; retrieval degrades to a fact store scan.
	var embedder rag.Embedder
	index, idxErr := rag.LoadIndex(paths.IndexFile)
	if idxErr != nil {
		logger.Warn("no usable similarity index, retrieval will scan the fact store", "error", idxErr)
		index = nil
	} else {
		embedder, err = rag.NewEmbedder(cfg)
		if err != nil {
			logger.Warn("embedder unavailable, retrieval will scan the fact store", "error", err)
			embedder = nil
		}
	}

	var database *db.DB
	if cfg.DatabaseURL != "" {
		database, err = db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer database.Close()
		if err := database.Migrate(ctx); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	p := &pipeline.Pipeline{
		Extractor: extraction.New(client, logger, extraction.Options{
			UseLLM:     cfg.LLMEnabled(),
			UseBrowser: cfg.UseBrowser,
		}),
		Translator: translation.New(client, logger),
		Retriever:  retrieval.New(embedder, index, store, cfg.TopK, logger),
		CVGen:      generation.NewCVGenerator(client, logger),
		LetterGen:  generation.NewLetterGenerator(client, logger),
		Renderer:   rendering.NewPDFRenderer(),
		Assembler:  output.NewAssembler(cfg.OutputDir, logger),
		Facts:      store,
		CVPolicy:   generation.PolicyDrop,
		DB:         database,
		Printer:    observability.NewPrinter(os.Stdout),
		Logger:     logger,
	}

	states, runErr := p.RunAll(ctx, urls)

	// Partial success is visible but not a failure: a run that produced an
	// output directory exits zero even when stages degraded.
	failed := 0
	for _, state := range states {
		if state == nil {
			failed++
			continue
		}
		for _, stageErr := range state.Errors {
			fmt.Fprintf(os.Stderr, "%s: [%s] %s\n", state.URL, stageErr.Stage, stageErr.Message)
		}
		if state.OutputDir != "" {
			fmt.Printf("%s -> %s (%s)\n", state.URL, state.OutputDir, state.Status)
		} else {
			failed++
		}
	}
	if runErr != nil {
		return runErr
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d runs produced no output", failed, len(urls))
	}
	return nil
}

// loadConfig builds the effective configuration: file values, then CLI
// overrides, then defaults and environment fallbacks.
func loadConfig(cmd *cobra.Command, path string) (*config.Config, error) {
	var cfg config.Config
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loaded
	}

	// Only override if the flag was explicitly set
	if cmd.Flags().Changed("output") {
		cfg.OutputDir = genOutputDir
	}
	if cmd.Flags().Changed("top-k") {
		cfg.TopK = genTopK
	}
	if cmd.Flags().Changed("api-key") {
		cfg.APIKey = genAPIKey
	}
	if cmd.Flags().Changed("use-browser") {
		cfg.UseBrowser = genUseBrowser
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = genVerbose
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = genDatabaseURL
	}
	if cmd.Flags().Changed("log-file") {
		cfg.LogFile = genLogFile
	}

	merged := cfg.MergeWithDefaults(config.Default())
	if genNoLLM {
		merged.SetUseLLM(false)
	}
	merged.FromEnv()

	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}
