// Package config loads, normalizes, and validates the rolodex TOML
// configuration. Every provider credential can also arrive via environment
// variable so scheduled runs (cron, CI) work without a config file on disk.
// Optional capabilities (voice transcription, enrichment, research) are
// toggled simply by the presence of their credential.
package config
