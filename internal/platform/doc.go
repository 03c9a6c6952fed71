// Package platform provides the filesystem primitives the rename workflow
// relies on: creating parent directories on demand, renaming entries,
// detecting empty directories, atomic file replacement, and permission
// management. On Windows, permission changes are no-ops.
package platform
