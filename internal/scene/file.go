package scene

import (
	"fmt"
	"os"
)

// WriteFile exports a document to a local JSON file.
func WriteFile(path string, doc *Document) error {
	data, err := doc.Encode()
	if err != nil {
		return fmt.Errorf("encode scene: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write scene file: %w", err)
	}
	return nil
}

// ReadFile imports a document from a local JSON file. The document is
// validated; on failure the caller's state is untouched.
func ReadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene file: %w", err)
	}
	return ParseDocument(data)
}
