// Package session ties the snapshot, manifest, and rename packages into the
// bulk-rename workflow.
//
// A Session remembers the snapshot a manifest was generated from. Sessions
// live in a Store keyed by the manifest's absolute path: MemoryStore for a
// long-running watcher, FileStore so that separate CLI invocations share
// state. The Manager exposes the workflow's triggers:
//
//   - Start snapshots a directory, writes its manifest, and registers a session.
//   - Apply parses a saved manifest, renames folders then files, and starts a
//     fresh session for the new tree.
//   - Forget evicts the session of a deleted manifest.
package session
