package manifest

import (
	"fmt"
	"os"
	"strings"
)

const headerFormat = `// Bulk Rename for: %s
// IMPORTANT: Do not change the number of lines or the order of sections.
// Edit the paths below and save the file to apply changes.
`

// Render produces the manifest text for doc.
func Render(doc *Document) string {
	var b strings.Builder

	fmt.Fprintf(&b, headerFormat, doc.RootName)
	b.WriteString("\n")

	b.WriteString(FilesMarker + "\n")
	for _, f := range doc.Files {
		b.WriteString(f + "\n")
	}
	b.WriteString("\n")

	b.WriteString(FoldersMarker + "\n")
	for _, f := range doc.Folders {
		b.WriteString(f + "\n")
	}

	return b.String()
}

// Write renders doc and writes it to path.
func Write(path string, doc *Document) error {
	if err := os.WriteFile(path, []byte(Render(doc)), 0644); err != nil {
		return fmt.Errorf("writing manifest %s: %w", path, err)
	}
	return nil
}
