package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// WriteCSV renders pairs as a two-column CSV with a header row. Nil
// answers render as empty cells.
func WriteCSV(w io.Writer, pairs []Pair) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"Prompts", "Answers"}); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, pair := range pairs {
		answer := ""
		if pair.Answer != nil {
			answer = *pair.Answer
		}
		if err := cw.Write([]string{pair.Prompt, answer}); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// DirectorySink deposits result files into a local directory.
type DirectorySink struct {
	dir    string
	logger *slog.Logger
}

// NewDirectorySink creates a sink writing into dir, creating it if
// needed.
func NewDirectorySink(dir string, logger *slog.Logger) (*DirectorySink, error) {
	if dir == "" {
		return nil, fmt.Errorf("export directory cannot be empty")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create export directory: %w", err)
	}

	return &DirectorySink{
		dir:    dir,
		logger: logger.With("component", "directory_sink"),
	}, nil
}

// Deposit writes the pairs as a CSV file under the suggested name.
func (s *DirectorySink) Deposit(ctx context.Context, name string, pairs []Pair) error {
	path := filepath.Join(s.dir, filepath.Base(name))

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}

	if err := WriteCSV(f, pairs); err != nil {
		_ = f.Close()
		return err
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("close export file: %w", err)
	}

	s.logger.Info("deposited run results", "path", path, "row_count", len(pairs))
	return nil
}
