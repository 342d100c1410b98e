package cli

import "errors"

// Common CLI errors
var (
	ErrUnresolved        = errors.New("unresolved template references")
	ErrLintFailed        = errors.New("lint found problems")
	ErrNoTemplates       = errors.New("no templates to process")
	ErrOutRequired       = errors.New("rendering more than one template requires --out")
	ErrSelectWithoutData = errors.New("--select requires a data file")
	ErrNoQuestions       = errors.New("a survey needs at least one question")
	ErrFileExists        = errors.New("file already exists (use --force to overwrite)")
	ErrInvalidSeed       = errors.New("invalid seed file")
)
