package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/getmockd/surveyd/pkg/cli/internal/output"
	"github.com/getmockd/surveyd/pkg/config"
	"github.com/getmockd/surveyd/pkg/datafile"
	"github.com/getmockd/surveyd/pkg/template"
)

// renderFlags holds the flag values for the render command.
type renderFlags struct {
	data    string
	sel     string
	out     string
	nesting string
	strict  bool
}

var renderFlagVals renderFlags

// renderOptions is the fully resolved input of a render run.
type renderOptions struct {
	Templates []string
	BaseDir   string
	DataPath  string
	Selector  string
	OutDir    string
	Nesting   template.Nesting
	Strict    bool
}

// renderedFile is one template's output.
type renderedFile struct {
	Template   string   `json:"template"`
	Output     string   `json:"output,omitempty"`
	Unresolved []string `json:"unresolved,omitempty"`
	content    string
}

var renderCmd = &cobra.Command{
	Use:   "render [TEMPLATE...]",
	Short: "Render templates against a data file",
	Long: `Render one or more templates against a JSON or YAML data file.

Templates may be literal paths or doublestar globs such as "pages/**/*.tmpl".
With no arguments the render.templates patterns from surveyd.yaml are used.
A single template without --out is written to stdout; otherwise each output
mirrors the template's path under --out with a trailing .tmpl removed.

References that resolve to nothing render as empty text and are logged as
warnings. With --strict they fail the command and nothing is written.`,
	Example: `  # Render to stdout
  surveyd render page.html.tmpl --data survey.yaml

  # Render a tree of templates into site/
  surveyd render "pages/**/*.tmpl" --data survey.json --out site

  # Render one entry of a list as the root context
  surveyd render card.tmpl --data surveys.json --select '$.surveys[0]'

  # Nested blocks of the same kind
  surveyd render report.tmpl --data results.yaml --nesting balanced`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := resolveRenderOptions(cmd, args)
		if err != nil {
			return err
		}
		files, err := renderAll(opts)
		if err != nil {
			return err
		}
		return writeRendered(cmd.OutOrStdout(), opts, files)
	},
}

// resolveRenderOptions merges flags over surveyd.yaml render settings.
func resolveRenderOptions(cmd *cobra.Command, args []string) (*renderOptions, error) {
	cfg, baseDir, err := loadProject()
	if err != nil {
		return nil, err
	}
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting current directory: %w", err)
	}

	patterns, patternBase := args, cwd
	if len(patterns) == 0 {
		patterns, patternBase = cfg.Render.Templates, baseDir
	}
	if len(patterns) == 0 {
		return nil, fmt.Errorf("%w: pass template paths or set render.templates", ErrNoTemplates)
	}
	templates, err := config.ExpandTemplates(patterns, patternBase)
	if err != nil {
		return nil, err
	}
	if len(templates) == 0 {
		return nil, fmt.Errorf("%w: no files match %v", ErrNoTemplates, patterns)
	}

	opts := &renderOptions{
		Templates: templates,
		BaseDir:   patternBase,
		DataPath:  config.ResolvePath(baseDir, cfg.Render.Data),
		Selector:  cfg.Render.Select,
		OutDir:    config.ResolvePath(baseDir, cfg.Render.OutDir),
		Strict:    renderFlagVals.strict,
	}
	if cmd.Flags().Changed("data") {
		opts.DataPath = renderFlagVals.data
	}
	if cmd.Flags().Changed("select") {
		opts.Selector = renderFlagVals.sel
	}
	if cmd.Flags().Changed("out") {
		opts.OutDir = renderFlagVals.out
	}

	nesting := cfg.Render.Nesting
	if cmd.Flags().Changed("nesting") {
		nesting = renderFlagVals.nesting
	}
	if opts.Nesting, err = template.ParseNesting(nesting); err != nil {
		return nil, err
	}

	if opts.Selector != "" && opts.DataPath == "" {
		return nil, ErrSelectWithoutData
	}
	if opts.OutDir == "" && len(opts.Templates) > 1 {
		return nil, fmt.Errorf("%w (%d templates matched)", ErrOutRequired, len(opts.Templates))
	}
	return opts, nil
}

// renderAll renders every template. In strict mode any unresolved
// reference fails the run before anything is written.
func renderAll(opts *renderOptions) ([]renderedFile, error) {
	log := componentLogger("render")

	ctx := template.Map(nil)
	if opts.DataPath != "" {
		v, err := datafile.LoadSelect(opts.DataPath, opts.Selector)
		if err != nil {
			return nil, err
		}
		ctx = v
	}

	engine := template.New(template.WithNesting(opts.Nesting))
	files := make([]renderedFile, 0, len(opts.Templates))
	unresolved := 0

	for _, path := range opts.Templates {
		src, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading template: %w", err)
		}
		report, err := engine.RenderReport(string(src), ctx)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		for _, ref := range report.Unresolved {
			log.Warn("unresolved reference", "template", path, "path", ref)
		}
		unresolved += len(report.Unresolved)

		rf := renderedFile{Template: path, Unresolved: report.Unresolved, content: report.Output}
		if opts.OutDir != "" {
			rf.Output = config.OutputPath(path, opts.BaseDir, opts.OutDir)
		}
		files = append(files, rf)
		log.Debug("rendered template", "template", path, "bytes", len(report.Output), "nesting", opts.Nesting)
	}

	if opts.Strict && unresolved > 0 {
		return nil, fmt.Errorf("%w: %d reference(s) across %d template(s)", ErrUnresolved, unresolved, len(files))
	}
	return files, nil
}

func writeRendered(w io.Writer, opts *renderOptions, files []renderedFile) error {
	if opts.OutDir == "" {
		_, err := io.WriteString(w, files[0].content)
		return err
	}

	for _, f := range files {
		if err := os.MkdirAll(filepath.Dir(f.Output), 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
		if err := os.WriteFile(f.Output, []byte(f.content), 0o644); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
	}

	if jsonOutput {
		return output.JSON(w, files)
	}
	tw := output.Table(w)
	fmt.Fprintln(tw, "TEMPLATE\tOUTPUT\tUNRESOLVED")
	for _, f := range files {
		fmt.Fprintf(tw, "%s\t%s\t%d\n", displayRel(opts.BaseDir, f.Template), f.Output, len(f.Unresolved))
	}
	return tw.Flush()
}

// displayRel shortens path relative to base when possible.
func displayRel(base, path string) string {
	if rel, err := filepath.Rel(base, path); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return path
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringVarP(&renderFlagVals.data, "data", "d", "", "JSON or YAML data file (default: render.data)")
	renderCmd.Flags().StringVar(&renderFlagVals.sel, "select", "", "JSONPath selecting the render context inside the data file (default: render.select)")
	renderCmd.Flags().StringVarP(&renderFlagVals.out, "out", "o", "", "Output directory (default: render.outDir, or stdout for one template)")
	renderCmd.Flags().StringVar(&renderFlagVals.nesting, "nesting", "", "Nesting mode: shallow or balanced (default: render.nesting)")
	renderCmd.Flags().BoolVar(&renderFlagVals.strict, "strict", false, "Fail when a reference resolves to nothing")
}
