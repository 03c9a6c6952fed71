// Package manifest renders and parses the human-editable rename manifest.
// The document has a comment header, a "Files:" section and a "Folders:"
// section, one relative path per line. Parsing is purely positional: line
// N of a section pairs with entry N of the snapshot the manifest was
// generated from.
package manifest
