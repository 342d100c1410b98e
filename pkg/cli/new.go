package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// surveyDoc is the on-disk survey file. It doubles as a render data file:
// templates reach the fields as survey.title and survey.questions.
type surveyDoc struct {
	Survey surveyDocBody `yaml:"survey"`
}

type surveyDocBody struct {
	Title     string   `yaml:"title"`
	Questions []string `yaml:"questions"`
}

// newFlags holds the flag values for the new command.
type newFlags struct {
	title     string
	questions []string
	force     bool
}

var newFlagVals newFlags

var newCmd = &cobra.Command{
	Use:   "new FILE",
	Short: "Write a new survey file",
	Long: `Write a YAML survey file usable as render data and as a serve --seed.

Without --title or --question an interactive form asks for both. The title
defaults to the file name in title case.`,
	Example: `  surveyd new team-pulse.yaml --question "How was your week?" --question "Anything blocking you?"`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		title := newFlagVals.title
		questions := newFlagVals.questions

		if !cmd.Flags().Changed("title") && !cmd.Flags().Changed("question") {
			var err error
			title, questions, err = promptSurvey(defaultTitle(path))
			if err != nil {
				return err
			}
		}
		if strings.TrimSpace(title) == "" {
			title = defaultTitle(path)
		}

		doc, err := buildSurveyDoc(title, questions)
		if err != nil {
			return err
		}
		if err := writeSurveyDoc(path, doc, newFlagVals.force); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created %s (%d questions)\n", path, len(doc.Survey.Questions))
		return nil
	},
}

// defaultTitle turns "team-pulse.yaml" into "Team Pulse".
func defaultTitle(path string) string {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	name = strings.NewReplacer("-", " ", "_", " ", ".", " ").Replace(name)
	return cases.Title(language.English).String(strings.Join(strings.Fields(name), " "))
}

func promptSurvey(placeholder string) (string, []string, error) {
	var title, questionText string

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Survey title").
				Placeholder(placeholder).
				Value(&title),
			huh.NewText().
				Title("Questions (one per line)").
				Value(&questionText).
				Validate(func(s string) error {
					if len(splitLines(s)) == 0 {
						return errors.New("at least one question is required")
					}
					return nil
				}),
		),
	)
	if err := form.Run(); err != nil {
		return "", nil, err
	}
	return title, splitLines(questionText), nil
}

func splitLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

func buildSurveyDoc(title string, questions []string) (*surveyDoc, error) {
	var kept []string
	for _, q := range questions {
		if q = strings.TrimSpace(q); q != "" {
			kept = append(kept, q)
		}
	}
	if len(kept) == 0 {
		return nil, ErrNoQuestions
	}
	return &surveyDoc{Survey: surveyDocBody{Title: strings.TrimSpace(title), Questions: kept}}, nil
}

func writeSurveyDoc(path string, doc *surveyDoc, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s: %w", path, ErrFileExists)
		}
	}
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding survey: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing survey: %w", err)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(newCmd)

	newCmd.Flags().StringVarP(&newFlagVals.title, "title", "t", "", "Survey title (default: from file name)")
	newCmd.Flags().StringArrayVarP(&newFlagVals.questions, "question", "q", nil, "Question text (repeatable)")
	newCmd.Flags().BoolVarP(&newFlagVals.force, "force", "f", false, "Overwrite an existing file")
}
