package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"trendcli/internal/config"
	apperrors "trendcli/internal/errors"
	"trendcli/pkg/contracts/domain"
)

// CSVWriter provides CSV export functionality
type CSVWriter struct {
	logger *slog.Logger
}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter(logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{logger: logger.With(slog.String("component", "csv_writer"))}
}

// WriteCSV creates (or truncates) filePath, creating missing parent
// directories, and writes the header followed by the records. Lines end
// with LF and no byte order mark is written, so equal input gives
// byte-identical files.
func (w *CSVWriter) WriteCSV(filePath string, headers []string, records [][]string) error {
	w.logger.Info("Writing CSV file",
		slog.String("file_path", filePath),
		slog.Int("record_count", len(records)))

	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, config.DirPerm); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to create directory %s", dir), err)
	}

	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, config.FilePerm)
	if err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to open %s", filePath), err)
	}

	writer := csv.NewWriter(file)
	if len(headers) > 0 {
		if err := writer.Write(headers); err != nil {
			file.Close()
			return apperrors.NewStorageError("failed to write headers", err)
		}
	}
	for i, record := range records {
		if err := writer.Write(record); err != nil {
			file.Close()
			return apperrors.NewStorageError(fmt.Sprintf("failed to write record %d", i), err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		file.Close()
		return apperrors.NewStorageError("failed to flush CSV", err)
	}
	if err := file.Close(); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to close %s", filePath), err)
	}
	return nil
}

// WriteTable writes the trend table with its two-column header
func (w *CSVWriter) WriteTable(filePath string, table *domain.OutputTable) error {
	return w.WriteCSV(filePath, table.Headers(), table.Records())
}
