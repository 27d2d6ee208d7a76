package files

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	apperrors "trendcli/internal/errors"
	"trendcli/pkg/contracts/domain"
)

// Discovery provides year directory and category file discovery
type Discovery struct {
	logger *slog.Logger
}

// NewDiscovery creates a new file discovery instance
func NewDiscovery(logger *slog.Logger) *Discovery {
	if logger == nil {
		logger = slog.Default()
	}
	return &Discovery{logger: logger.With(slog.String("component", "discovery"))}
}

// IsYearLabel reports whether name is a non-empty string of ASCII digits
func IsYearLabel(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		if name[i] < '0' || name[i] > '9' {
			return false
		}
	}
	return true
}

// ListYearDirectories returns the year directories directly under root in
// ascending numeric order. Symlinks are followed when deciding whether an
// entry is a directory.
func (d *Discovery) ListYearDirectories(root string) ([]domain.YearDirectory, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("data root %s", root), err)
		}
		return nil, apperrors.NewStorageError(fmt.Sprintf("failed to read directory %s", root), err)
	}

	var years []domain.YearDirectory
	for _, entry := range entries {
		name := entry.Name()
		if !IsYearLabel(name) {
			continue
		}
		path := filepath.Join(root, name)
		if !isDir(entry, path) {
			continue
		}

		year := domain.YearDirectory{Label: name, Path: path}
		if n, err := strconv.Atoi(name); err == nil {
			year.Year = n
		} else {
			year.Overflow = true
		}
		years = append(years, year)
	}

	SortYears(years)

	d.logger.Debug("Year directories found",
		slog.String("root", root),
		slog.Int("count", len(years)))
	return years, nil
}

// SortYears orders years by numeric value. Labels with the same value
// ("0201", "201") are ordered by label; labels too large for an int come last.
func SortYears(years []domain.YearDirectory) {
	sort.SliceStable(years, func(i, j int) bool {
		a, b := years[i], years[j]
		if a.Overflow != b.Overflow {
			return !a.Overflow
		}
		if a.Overflow {
			ta, tb := strings.TrimLeft(a.Label, "0"), strings.TrimLeft(b.Label, "0")
			if len(ta) != len(tb) {
				return len(ta) < len(tb)
			}
			if ta != tb {
				return ta < tb
			}
			return a.Label < b.Label
		}
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		return a.Label < b.Label
	})
}

// MatchesCategory reports whether a file name belongs to the dataset: its
// lowercase form ends with the extension and, with '_' and '-' read as
// spaces, contains the marker.
func MatchesCategory(name string, ds domain.Dataset) bool {
	lower := strings.ToLower(name)
	if !strings.HasSuffix(lower, strings.ToLower(ds.Extension)) {
		return false
	}
	normalized := strings.NewReplacer("_", " ", "-", " ").Replace(lower)
	return strings.Contains(normalized, strings.ToLower(ds.Marker))
}

// LocateCategoryFile finds the category file inside a year directory. The
// boolean is false when no file qualifies; the error is reserved for I/O
// failures. When several files qualify the first by name is used and the
// others are listed in CategoryFile.Ignored.
func (d *Discovery) LocateCategoryFile(year domain.YearDirectory, ds domain.Dataset) (domain.CategoryFile, bool, error) {
	entries, err := os.ReadDir(year.Path)
	if err != nil {
		return domain.CategoryFile{}, false, apperrors.NewStorageError(
			fmt.Sprintf("failed to read year directory %s", year.Path), err)
	}

	var found domain.CategoryFile
	ok := false
	for _, entry := range entries {
		name := entry.Name()
		if !MatchesCategory(name, ds) {
			continue
		}
		path := filepath.Join(year.Path, name)
		if isDir(entry, path) {
			continue
		}
		if !ok {
			found = domain.CategoryFile{Year: year, Name: name, Path: path}
			ok = true
			continue
		}
		found.Ignored = append(found.Ignored, name)
	}

	if ok && len(found.Ignored) > 0 {
		d.logger.Warn("Multiple category files found, using the first",
			slog.String("year", year.Label),
			slog.String("selected", found.Name),
			slog.Any("ignored", found.Ignored))
	}
	return found, ok, nil
}

func isDir(entry fs.DirEntry, path string) bool {
	if entry.Type()&fs.ModeSymlink != 0 {
		info, err := os.Stat(path)
		return err == nil && info.IsDir()
	}
	return entry.IsDir()
}
