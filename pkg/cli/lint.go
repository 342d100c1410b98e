package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/getmockd/surveyd/pkg/cli/internal/output"
	"github.com/getmockd/surveyd/pkg/config"
	"github.com/getmockd/surveyd/pkg/template"
)

var lintStrict bool

// lintResult is the lint report for one file.
type lintResult struct {
	File   string           `json:"file"`
	Issues []template.Issue `json:"issues"`
}

var lintCmd = &cobra.Command{
	Use:   "lint [TEMPLATE...]",
	Short: "Check templates for constructs the engine will not interpret",
	Long: `Check templates for unknown directives, unclosed or stray blocks,
blocks nested inside a block of the same kind, and markers that are not
dotted paths. Each problem is printed as file:line:col: severity: message.

Errors fail the command. Warnings fail it only with --strict.
With no arguments the render.templates patterns from surveyd.yaml are used.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		files, base, err := lintTargets(args)
		if err != nil {
			return err
		}
		results, err := lintFiles(files)
		if err != nil {
			return err
		}
		return reportLint(cmd.OutOrStdout(), base, results, lintStrict)
	},
}

func lintTargets(args []string) ([]string, string, error) {
	cfg, baseDir, err := loadProject()
	if err != nil {
		return nil, "", err
	}
	patterns, base := args, ""
	if len(patterns) == 0 {
		patterns, base = cfg.Render.Templates, baseDir
	} else if base, err = os.Getwd(); err != nil {
		return nil, "", fmt.Errorf("getting current directory: %w", err)
	}
	if len(patterns) == 0 {
		return nil, "", fmt.Errorf("%w: pass template paths or set render.templates", ErrNoTemplates)
	}

	files, err := config.ExpandTemplates(patterns, base)
	if err != nil {
		return nil, "", err
	}
	if len(files) == 0 {
		return nil, "", fmt.Errorf("%w: no files match %v", ErrNoTemplates, patterns)
	}
	return files, base, nil
}

func lintFiles(files []string) ([]lintResult, error) {
	results := make([]lintResult, 0, len(files))
	for _, path := range files {
		src, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading template: %w", err)
		}
		issues := template.Lint(string(src))
		if issues == nil {
			issues = []template.Issue{}
		}
		results = append(results, lintResult{File: path, Issues: issues})
	}
	return results, nil
}

func reportLint(w io.Writer, base string, results []lintResult, strict bool) error {
	errs, warnings := 0, 0
	for i, r := range results {
		for _, issue := range r.Issues {
			if issue.Severity == template.SeverityError {
				errs++
			} else {
				warnings++
			}
		}
		results[i].File = displayRel(base, r.File)
	}

	if jsonOutput {
		if err := output.JSON(w, results); err != nil {
			return err
		}
	} else {
		for _, r := range results {
			for _, issue := range r.Issues {
				fmt.Fprintf(w, "%s:%s\n", r.File, issue)
			}
		}
	}

	if errs > 0 || (strict && warnings > 0) {
		return fmt.Errorf("%w: %d error(s), %d warning(s)", ErrLintFailed, errs, warnings)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(lintCmd)

	lintCmd.Flags().BoolVar(&lintStrict, "strict", false, "Treat warnings as failures")
}
