// Package services holds cross-cutting helpers shared by the provider
// clients: the sentinel error taxonomy with stage/operation wrapping, and
// context annotation for message identifiers and correlation IDs.
package services
