package cmd

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/gophertribe/devtool/test"
	"github.com/spf13/cobra"

	"github.com/mklimuk/leds/scene"
)

func TestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "test",
		Short: "Run tests",
		RunE: func(cmd *cobra.Command, args []string) error {
			err := test.Test()
			if err != nil {
				return fmt.Errorf("failed to run tests: %w", err)
			}
			return nil
		},
	}
	return cmd
}

func LintCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lint",
		Short: "Run linting",
		RunE: func(cmd *cobra.Command, args []string) error {
			err := test.Lint()
			if err != nil {
				return fmt.Errorf("failed to run linting: %w", err)
			}
			return nil
		},
	}
	return cmd
}

func IntegrationTestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "integration-test",
		Short: "Run integration testing",
		RunE: func(cmd *cobra.Command, args []string) error {
			err := test.Integ()
			if err != nil {
				return fmt.Errorf("failed to run integration testing: %w", err)
			}
			return nil
		},
	}
	return cmd
}

func ScenesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scenes",
		Short: "Validate the scene files shipped in scenes/",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cmd.Flags().GetString("dir")
			if err != nil {
				return fmt.Errorf("could not get dir flag: %w", err)
			}
			files, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
			if err != nil {
				return fmt.Errorf("could not list scenes: %w", err)
			}
			var failed int
			for _, f := range files {
				_, err := scene.LoadFile(f)
				if err != nil {
					slog.Error("invalid scene", "file", f, "error", err)
					failed++
					continue
				}
				slog.Info("scene ok", "file", f)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d scenes invalid", failed, len(files))
			}
			return nil
		},
	}
	cmd.Flags().String("dir", "scenes", "directory holding scene files")
	return cmd
}
