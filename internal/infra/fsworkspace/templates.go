package fsworkspace

import "embed"

// Template files are rendered with [[ ]] delimiters so {{NAME}} placeholders
// pass through untouched.
//
//go:embed templates
var templatesFS embed.FS
