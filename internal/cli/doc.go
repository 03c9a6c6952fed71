// Package cli defines the Cobra command tree for the bulkren CLI. Each file
// in this package registers one top-level command (start, apply, watch, etc.)
// with the root command. Commands delegate the rename workflow to the session
// package and only handle argument resolution, output, and user interaction.
package cli
