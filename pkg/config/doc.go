// Package config loads and validates surveyd project configuration.
//
// Configuration lives in surveyd.yaml (or surveyd.yml) in the working
// directory, or at the path named by SURVEYD_CONFIG. Values may reference
// the environment with ${VAR} or ${VAR:-default}; references are expanded
// before the YAML is parsed.
//
//	version: "1"
//	server:
//	  addr: ":3000"
//	  readTimeout: 30s
//	log:
//	  level: info
//	  format: text
//	render:
//	  templates: ["templates/**/*.tmpl"]
//	  data: data/survey.yaml
//	  outDir: out
//	  nesting: shallow
package config
