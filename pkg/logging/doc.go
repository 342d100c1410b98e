// Package logging builds the slog loggers shared by the CLI, the HTTP API
// and the renderer.
//
// Components take a *slog.Logger and fall back to Nop when given none:
//
//	logger := logging.FromStrings("debug", "json", os.Stderr)
//	logging.Component(logger, "render").Warn("unresolved reference", "path", ref)
//
// The template engine itself never logs; callers report what
// template.Engine.RenderReport returns.
package logging
