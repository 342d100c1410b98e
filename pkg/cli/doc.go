// Package cli provides the command-line interface for surveyd.
//
// Commands:
//   - render: Render templates against a JSON or YAML data file
//   - lint: Report template constructs the engine will not interpret
//   - serve: Run the survey HTTP API and pages
//   - new: Write a survey data file, interactively when no flags are given
//   - guide: Show embedded documentation topics
//   - version: Show surveyd version
//
// Persistent flags select the log level and format and an explicit project
// config file. Without --config, surveyd.yaml is discovered in the working
// directory or taken from SURVEYD_CONFIG.
package cli
