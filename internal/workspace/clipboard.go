package workspace

import (
	"os"
	"path/filepath"
)

// Clipboard receives copied text.
type Clipboard interface {
	WriteText(text string) error
}

// FileClipboard writes copied text to a file, replacing its contents.
type FileClipboard struct {
	Path string
}

// WriteText implements Clipboard.
func (c FileClipboard) WriteText(text string) error {
	if dir := filepath.Dir(c.Path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(c.Path, []byte(text+"\n"), 0o644)
}

// CopyJSON puts the indented payload on the clipboard and returns it.
// Copy is best effort: clipboard errors are dropped.
func (s *Store) CopyJSON(cb Clipboard) string {
	text, err := s.PayloadJSON()
	if err != nil {
		return ""
	}
	if cb != nil {
		_ = cb.WriteText(text)
	}
	return text
}
