package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/cv-agent/internal/config"
	"github.com/jonathan/cv-agent/internal/facts"
	"github.com/jonathan/cv-agent/internal/rag"
)

var setupRAGCommand = &cobra.Command{
	Use:   "setup-rag <user>",
	Short: "Initialize the user's fact store and build the similarity index",
	Long: `Creates the per-user directory layout (starter personal_info.json and cv_template.yaml only if absent), then chunks and embeds the fact store (personal info, career data, code samples) and persists the similarity index used by the generate command for context retrieval.

Re-run after changing any fact store file; existing files are never overwritten.`,
	Args: cobra.ExactArgs(1),
	RunE: runSetupRAGCmd,
}

var (
	ragConfigPath   string
	ragPersonalInfo string
	ragCareerData   string
	ragCodeSamples  string
	ragProvider     string
	ragModel        string
	ragChunkSize    int
	ragOverlap      int
	ragVerbose      bool
)

func init() {
	setupRAGCommand.Flags().StringVar(&ragConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	setupRAGCommand.Flags().StringVar(&ragPersonalInfo, "personal-info", "", "Path to the personal info file (overrides the per-user default)")
	setupRAGCommand.Flags().StringVar(&ragCareerData, "career-data", "", "Directory of career data documents (overrides the per-user default)")
	setupRAGCommand.Flags().StringVar(&ragCodeSamples, "code-samples", "", "Directory of code samples (overrides the per-user default)")
	setupRAGCommand.Flags().StringVar(&ragProvider, "provider", "", "Embedding provider: openai or ollama")
	setupRAGCommand.Flags().StringVar(&ragModel, "model", "", "Embedding model name")
	setupRAGCommand.Flags().IntVar(&ragChunkSize, "chunk-size", 0, "Chunk size in characters")
	setupRAGCommand.Flags().IntVar(&ragOverlap, "chunk-overlap", 0, "Chunk overlap in characters")
	setupRAGCommand.Flags().BoolVarP(&ragVerbose, "verbose", "v", false, "Print detailed debug information")

	rootCmd.AddCommand(setupRAGCommand)
}

func runSetupRAGCmd(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	user := args[0]

	var cfg config.Config
	if ragConfigPath != "" {
		loaded, err := config.Load(ragConfigPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loaded
	}
	if cmd.Flags().Changed("provider") {
		cfg.EmbedProvider = ragProvider
	}
	if cmd.Flags().Changed("model") {
		cfg.EmbedModel = ragModel
	}
	if cmd.Flags().Changed("chunk-size") {
		cfg.ChunkSize = ragChunkSize
	}
	if cmd.Flags().Changed("chunk-overlap") {
		cfg.ChunkOverlap = ragOverlap
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = ragVerbose
	}
	merged := cfg.MergeWithDefaults(config.Default())
	merged.FromEnv()
	if err := merged.Validate(); err != nil {
		return err
	}

	merged.User = user

	logger, closeLog := config.SetupLogger(merged.LogFile, merged.Verbose)
	defer func() { _ = closeLog() }()

	paths := merged.Paths(user)
	if ragPersonalInfo != "" {
		paths.PersonalInfo = ragPersonalInfo
	}
	if ragCareerData != "" {
		paths.CareerData = ragCareerData
	}
	if ragCodeSamples != "" {
		paths.CodeSamples = ragCodeSamples
	}
	if err := facts.Scaffold(paths); err != nil {
		return fmt.Errorf("failed to scaffold user directory: %w", err)
	}
	store := facts.NewStore(paths, logger)

	embedder, err := rag.NewEmbedder(&merged)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}

	chunker := rag.NewChunker(merged.ChunkSize, merged.ChunkOverlap)
	builder := rag.NewBuilder(embedder, chunker, merged.EmbedProvider, merged.EmbedModel, logger)

	index, err := builder.Build(ctx, store)
	if err != nil {
		return fmt.Errorf("failed to build index: %w", err)
	}
	if err := index.Save(paths.IndexFile); err != nil {
		return fmt.Errorf("failed to save index: %w", err)
	}

	fmt.Printf("Indexed %d chunks to %s\n", len(index.Entries), paths.IndexFile)
	return nil
}
