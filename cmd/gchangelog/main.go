package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/alimgiray/gchangelog/internal/app"
	"github.com/alimgiray/gchangelog/internal/models"
	"github.com/alimgiray/gchangelog/pkg/config"
	"github.com/alimgiray/gchangelog/pkg/logger"
	"github.com/spf13/cobra"
)

func main() {
	// Load configuration
	if err := config.Load(); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger.InitWith(config.AppConfig.Log.Level, config.AppConfig.Log.Format, os.Stderr)

	if err := newRootCmd(config.AppConfig).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(cfg *config.Config) *cobra.Command {
	var (
		order  string
		strict bool
		output string
	)

	cmd := &cobra.Command{
		Use:   "gchangelog <repo_directory> <repo_owner> [repo_name]",
		Short: "Generate a tag-grouped changelog from git history and GitHub pull requests",
		Long: `gchangelog walks the history of a local git repository and prints a Markdown
changelog grouped by tag. Merge commits are resolved to their GitHub pull request
and the pull request's commits are listed beneath it.

  repo_directory  the directory where the local repository resides
  repo_owner      the GitHub owner name
  repo_name       optional repository name, defaults to the name of repo_directory

GITHUB_PERSONAL_ACCESS_TOKEN must be set.`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := app.Options{
				RepoPath: args[0],
				Owner:    args[1],
				Order:    order,
				Strict:   strict,
				Output:   cmd.OutOrStdout(),
			}
			if len(args) == 3 {
				opts.RepoName = args[2]
			}

			// A failed run must leave an existing output file untouched
			var buf bytes.Buffer
			if output != "" {
				opts.Output = &buf
			}

			if err := app.Run(context.Background(), cfg, opts); err != nil {
				var setupErr *models.SetupError
				if !errors.As(err, &setupErr) {
					cmd.SilenceUsage = true
				}
				return err
			}

			if output != "" {
				if err := os.WriteFile(output, buf.Bytes(), 0o644); err != nil {
					cmd.SilenceUsage = true
					return fmt.Errorf("failed to write %s: %w", output, err)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&order, "order", cfg.Changelog.Order, "history traversal order: topological or time")
	cmd.Flags().BoolVar(&strict, "strict", cfg.Changelog.Strict, "fail when pull request commits appear out of the order GitHub reports")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the changelog to a file instead of standard output")

	return cmd
}
