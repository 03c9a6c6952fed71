package manifest

import (
	"fmt"
	"os"
	"strings"
)

// Parse extracts the file and folder lists from manifest text.
//
// The text is split on the first "Folders:" marker; everything after it is
// the folder block. The file block is whatever follows "Files:" before that
// marker, and is empty if "Files:" is missing. Lines are trimmed and blank
// lines dropped. Header comments are never inside either block as long as
// the markers are in place, so they need no special handling.
func Parse(text string) (*Document, error) {
	before, folderBlock, found := strings.Cut(text, FoldersMarker)
	if !found {
		return nil, ErrFormat
	}

	var fileBlock string
	if _, after, ok := strings.Cut(before, FilesMarker); ok {
		fileBlock = after
	}

	return &Document{
		Files:   splitLines(fileBlock),
		Folders: splitLines(folderBlock),
	}, nil
}

// ParseFile reads and parses the manifest at path.
func ParseFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}

	doc, err := Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	return doc, nil
}

// splitLines returns the non-blank, trimmed lines of block.
func splitLines(block string) []string {
	lines := []string{}
	for _, line := range strings.Split(block, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return lines
}
