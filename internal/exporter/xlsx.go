package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"trendcli/internal/config"
	apperrors "trendcli/internal/errors"
	"trendcli/pkg/contracts/domain"
)

// TrendsSheet is the worksheet holding the trend table
const TrendsSheet = "Trends"

// XLSXWriter writes the trend table as an Excel workbook
type XLSXWriter struct {
	logger *slog.Logger
}

// NewXLSXWriter creates a new workbook writer
func NewXLSXWriter(logger *slog.Logger) *XLSXWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &XLSXWriter{logger: logger.With(slog.String("component", "xlsx_writer"))}
}

// WriteTable saves table to filePath. Years stay text so labels such as
// "0201" survive; totals are numeric cells.
func (w *XLSXWriter) WriteTable(filePath string, table *domain.OutputTable) error {
	w.logger.Info("Writing XLSX file",
		slog.String("file_path", filePath),
		slog.Int("record_count", table.Len()))

	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, config.DirPerm); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to create directory %s", dir), err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), TrendsSheet); err != nil {
		return apperrors.NewStorageError("failed to name worksheet", err)
	}

	header := []interface{}{table.Header[0], table.Header[1]}
	if err := f.SetSheetRow(TrendsSheet, "A1", &header); err != nil {
		return apperrors.NewStorageError("failed to write header row", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return apperrors.NewStorageError("failed to create header style", err)
	}
	if err := f.SetCellStyle(TrendsSheet, "A1", "B1", bold); err != nil {
		return apperrors.NewStorageError("failed to style header row", err)
	}

	for i, row := range table.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return apperrors.NewStorageError("failed to address row", err)
		}
		values := []interface{}{row.Year, row.Total}
		if err := f.SetSheetRow(TrendsSheet, cell, &values); err != nil {
			return apperrors.NewStorageError(fmt.Sprintf("failed to write row for %s", row.Year), err)
		}
	}

	if err := f.SaveAs(filePath); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to save %s", filePath), err)
	}
	return nil
}
