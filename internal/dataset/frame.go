package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Prepared data file names, as written by the upstream notebooks.
const (
	DailyRidesFile    = "DB_line_chart_data.csv"
	StartStationsFile = "DB_bar_chart_start.csv"
	EndStationsFile   = "DB_bar_chart_end.csv"
	PaymentsFile      = "DB_pie_payment.csv"
	DurationsFile     = "DB_hist_duration.csv"
)

// FileError ties a load failure to the prepared file it came from.
type FileError struct {
	File string
	Err  error
}

func (err *FileError) Error() string {
	return fmt.Sprintf("%s: %v", err.File, err.Err)
}

func (err *FileError) Unwrap() error {
	return err.Err
}

var ErrMissingColumn = errors.New("missing column")

// readFrame loads a CSV as string columns unless types says otherwise.
// Unnamed pandas index columns come back as "X0" and are simply ignored.
// A file holding only a header is an empty frame with those columns.
func readFrame(path string, types map[string]series.Type, required ...string) (dataframe.DataFrame, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return dataframe.DataFrame{}, err
	}

	options := []dataframe.LoadOption{
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	}
	if len(types) > 0 {
		options = append(options, dataframe.WithTypes(types))
	}

	frame := dataframe.ReadCSV(bytes.NewReader(data), options...)
	if frame.Err != nil {
		header, ok := headerOnly(data)
		if !ok {
			return dataframe.DataFrame{}, fmt.Errorf("parse csv: %w", frame.Err)
		}
		frame = emptyFrame(header, types)
	}

	names := frame.Names()
	for _, column := range required {
		if !slices.Contains(names, column) {
			return dataframe.DataFrame{}, fmt.Errorf("%w %q", ErrMissingColumn, column)
		}
	}
	return frame, nil
}

// headerOnly reports the header of a CSV that has no data rows.
func headerOnly(data []byte) ([]string, bool) {
	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil || len(records) != 1 {
		return nil, false
	}
	return records[0], true
}

func emptyFrame(header []string, types map[string]series.Type) dataframe.DataFrame {
	columns := make([]series.Series, len(header))
	for i, name := range header {
		if name == "" {
			name = fmt.Sprintf("X%d", i)
		}
		columnType, ok := types[name]
		if !ok {
			columnType = series.String
		}
		columns[i] = series.New([]string{}, columnType, name)
	}
	return dataframe.New(columns...)
}

// firstColumn returns the first candidate column present in the frame.
func firstColumn(frame dataframe.DataFrame, candidates ...string) (string, error) {
	names := frame.Names()
	for _, candidate := range candidates {
		if slices.Contains(names, candidate) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w: one of %s", ErrMissingColumn, strings.Join(candidates, ", "))
}

// parseCount accepts "12" as well as the "12.0" pandas writes for float columns.
func parseCount(value string) (int64, error) {
	value = strings.TrimSpace(value)
	if n, err := strconv.ParseInt(value, 10, 64); err == nil {
		return n, nil
	} else if errors.Is(err, strconv.ErrRange) {
		return 0, fmt.Errorf("%q is out of range", value)
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, fmt.Errorf("%q is not a whole number", value)
	}
	// float64 holds -2^63 exactly but not 2^63-1
	if f >= 1<<63 || f < -(1<<63) {
		return 0, fmt.Errorf("%q is out of range", value)
	}
	return int64(f), nil
}

func filePath(dir, name string) string {
	return filepath.Join(dir, name)
}
