// Package claude wraps the Anthropic Messages API for the three
// language-understanding duties of the pipeline: structured contact parsing,
// business-card vision extraction, and dossier synthesis. Parsing is the one
// required capability; the others share its credential.
package claude
