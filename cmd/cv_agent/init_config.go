package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/cv-agent/internal/config"
)

const defaultConfigFile = "config.json"

var initConfigCommand = &cobra.Command{
	Use:   "init-config [output_file]",
	Short: "Write a default configuration file",
	Long:  "Writes the default configuration as JSON to the given file (default config.json). Refuses to overwrite an existing file.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runInitConfigCmd,
}

func init() {
	rootCmd.AddCommand(initConfigCommand)
}

func runInitConfigCmd(_ *cobra.Command, args []string) error {
	path := defaultConfigFile
	if len(args) > 0 {
		path = args[0]
	}

	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists, not overwriting", path)
	}

	cfg := config.Default()
	if err := cfg.Save(path); err != nil {
		return err
	}

	fmt.Printf("Wrote default configuration to %s\n", path)
	fmt.Println("Next steps:")
	fmt.Println("  1. Run: cv_agent setup-rag <user> to scaffold and index the fact store")
	fmt.Println("  2. Run: cv_agent generate <user> <job-url> to produce an application bundle")
	return nil
}
