// Package contact defines the domain types that flow through the capture
// pipeline and the single merge function that arbitrates between text-parsed,
// vision-extracted, and enrichment-provided field values.
package contact
