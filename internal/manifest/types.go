package manifest

import "errors"

// Section markers.
const (
	FilesMarker   = "Files:"
	FoldersMarker = "Folders:"
)

// ErrFormat is returned when a manifest lacks the Folders: marker.
var ErrFormat = errors.New("invalid manifest format: 'Folders:' section not found")

// Document is the content of a manifest.
type Document struct {
	// RootName is the base name of the session root, shown in the header.
	// Parse leaves it empty.
	RootName string
	Files    []string
	Folders  []string
}
