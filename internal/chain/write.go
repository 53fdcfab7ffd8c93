package chain

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// WriteIndexFile serializes index records back to disk, one line per
// target with a trailing newline, byte-identical to what ParseIndex accepts.
func WriteIndexFile(records []IndexRecord, path string) error {
	lines := make([]string, len(records))
	for i, r := range records {
		lines[i] = r.String()
	}
	return writeLines(lines, path)
}

// WriteChainFile serializes the chains for one target back to disk.
func WriteChainFile(chains []ChainRecord, path string) error {
	lines := make([]string, len(chains))
	for i, c := range chains {
		lines[i] = c.String()
	}
	return writeLines(lines, path)
}

// Export writes the whole store to dir as an index file plus per-target
// chain files. Loading the exported directory yields an identical store.
func (s *Store) Export(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}

	records := make([]IndexRecord, 0, len(s.index))
	s.AscendRange(1, MaxTarget, func(rec IndexRecord) bool {
		records = append(records, rec)
		return true
	})

	if err := WriteIndexFile(records, filepath.Join(dir, IndexFileName)); err != nil {
		return err
	}
	for _, rec := range records {
		if err := WriteChainFile(s.chains[rec.N], filepath.Join(dir, ChainFileName(rec.N))); err != nil {
			return err
		}
	}
	return nil
}

func writeLines(lines []string, path string) error {
	content := strings.Join(lines, "\n")
	if len(lines) > 0 {
		content += "\n"
	}

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
