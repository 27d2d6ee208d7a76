package dataprocessing

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	apperrors "trendcli/internal/errors"
	"trendcli/pkg/contracts/domain"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ErrTotalOverflow is returned when a yearly total does not fit in an int64.
var ErrTotalOverflow = errors.New("yearly total overflows int64")

// ParseIntLenient parses a base-10 integer the way the source data is
// expected to spell counts. Surrounding whitespace is ignored, one leading
// '+' or '-' is allowed, leading zeros are allowed and single underscores
// may separate digits. Anything else (empty text, decimals, thousands
// separators, words) or a value outside int64 reports false.
func ParseIntLenient(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	sign := ""
	if s[0] == '+' || s[0] == '-' {
		if s[0] == '-' {
			sign = "-"
		}
		s = s[1:]
	}
	if s == "" {
		return 0, false
	}

	var digits strings.Builder
	digits.Grow(len(s) + 1)
	digits.WriteString(sign)
	prevDigit := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
			digits.WriteByte(c)
			prevDigit = true
		case c == '_' && prevDigit && i+1 < len(s):
			prevDigit = false
		default:
			return 0, false
		}
	}
	if !prevDigit {
		return 0, false
	}

	n, err := strconv.ParseInt(digits.String(), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// SumCategoryFile opens path and sums it with SumRecords.
func SumCategoryFile(path string) (domain.YearlyTotal, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.YearlyTotal{}, apperrors.NewStorageError(fmt.Sprintf("failed to open %s", path), err)
	}
	defer f.Close()

	total, err := SumRecords(f)
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			appErr.WithContext("file", path)
		}
		return domain.YearlyTotal{}, err
	}
	return total, nil
}

// SumRecords reads CSV with a header row and adds up every data cell that
// ParseIntLenient accepts. Cells beyond the header width have no column and
// are counted as skipped. Rows may be ragged, stray quotes inside a field
// are kept as text and blank lines are ignored.
func SumRecords(r io.Reader) (domain.YearlyTotal, error) {
	reader := csv.NewReader(skipBOM(r))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var result domain.YearlyTotal

	header, err := reader.Read()
	if err == io.EOF {
		return result, nil
	}
	if err != nil {
		return result, apperrors.NewParsingError("failed to read header row", err)
	}
	width := len(header)

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return result, apperrors.NewParsingError(fmt.Sprintf("failed to read row %d", result.Rows+1), err)
		}
		result.Rows++

		for i, cell := range record {
			if i >= width {
				result.Skipped++
				continue
			}
			n, ok := ParseIntLenient(cell)
			if !ok {
				result.Skipped++
				continue
			}
			if (n > 0 && result.Total > math.MaxInt64-n) || (n < 0 && result.Total < math.MinInt64-n) {
				return result, apperrors.NewParsingError(fmt.Sprintf("row %d", result.Rows), ErrTotalOverflow)
			}
			result.Total += n
			result.Cells++
		}
	}
	return result, nil
}

// skipBOM drops a leading UTF-8 byte order mark
func skipBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if prefix, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(prefix, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}
	return br
}
