// Package configs provides embedded configuration templates for tasteline.
//
// Templates are embedded at build time with //go:embed so they ship in
// every distribution, source builds included. 'tasteline config init'
// writes the project template; the user template documents the
// machine-level settings under ~/.config/tasteline/.
//
// Configuration hierarchy (see internal/config Load):
//  1. Hardcoded defaults
//  2. User config (~/.config/tasteline/config.yaml)
//  3. Project config (.tasteline.yaml)
//  4. TASTELINE_* environment variables
package configs

import _ "embed"

// UserConfigTemplate is the machine-specific settings template
// (embedding provider, Ollama host, log level).
//
//go:embed user-config.example.yaml
var UserConfigTemplate string

// ProjectConfigTemplate is the project settings template (paths,
// search tuning, server address).
//
//go:embed project-config.example.yaml
var ProjectConfigTemplate string
