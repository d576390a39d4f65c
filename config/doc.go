// Package config holds the settings of a bwenv run.
//
// Settings are layered: built-in defaults, then the optional YAML file
// (.bwenv.yaml), then environment variables, then command-line flags that
// were explicitly set. Secrets are only ever read from the environment or
// prompted for; they are never loaded from or saved to the YAML file.
//
// Example .bwenv.yaml:
//
//	project: myapp
//	environments: [dev, staging, prod]
//	example: .env.example
//	grouping: folder
//	login:
//	  mode: email
//	  email: dev@example.com
package config
