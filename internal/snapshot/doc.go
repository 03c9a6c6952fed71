// Package snapshot enumerates a directory tree into the two ordered lists a
// rename session is built from: regular files in depth-first walk order and
// directories ordered deepest-first. All paths are relative to the root.
package snapshot
