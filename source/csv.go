package source

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/arloliu/fieldset/errs"
	"github.com/arloliu/fieldset/field"
	"github.com/arloliu/fieldset/internal/options"
	"github.com/arloliu/fieldset/timeconv"
	"github.com/arloliu/fieldset/value"
)

// Reserved CSV and Parquet column names.
const (
	ColumnTime  = "time"
	ColumnDate  = "date"
	ColumnStart = "tstart"
	ColumnStop  = "tstop"
)

// ReadCSV loads a header-row CSV table into a Memory source.
//
// The time axis comes from a "time" column (seconds since timeconv.Epoch), a
// "date" column (calendar form), or a "tstart"/"tstop" pair for interval
// data; time cells may hold either form. Every other column becomes a field:
// numeric when every non-empty cell parses as a number, text otherwise.
// Empty cells are masked out. Rows must be in time order.
func ReadCSV(r io.Reader, opts ...Option) (*Memory, error) {
	cfg, err := options.Build(defaultConfig(), opts...)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(r)
	reader.Comma = cfg.comma
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	for i := range header {
		header[i] = field.Normalize(header[i])
	}

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV rows: %w", err)
	}

	columns := make([][]string, len(header))
	for i := range columns {
		columns[i] = make([]string, len(rows))
		for j, row := range rows {
			columns[i][j] = strings.TrimSpace(row[i])
		}
	}

	timeline, timeCols, err := csvTimeline(header, columns)
	if err != nil {
		return nil, err
	}

	mem := newMemory(cfg)
	for i, name := range header {
		if _, skip := timeCols[name]; skip {
			continue
		}

		c, err := csvColumn(columns[i], timeline)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", name, err)
		}
		if err := mem.Add(name, c); err != nil {
			return nil, err
		}
	}
	cfg.logger.Debugf("read %d CSV columns with %d rows", mem.Len(), len(rows))

	return mem, nil
}

func csvTimeline(header []string, columns [][]string) (value.Timeline, map[string]struct{}, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[name] = i
	}

	parse := func(name string) ([]float64, error) {
		cells := columns[index[name]]
		out := make([]float64, len(cells))
		for j, cell := range cells {
			t, err := timeconv.ParseSeconds(cell)
			if err != nil {
				return nil, fmt.Errorf("row %d, column %q: %w", j+1, name, err)
			}
			out[j] = t
		}

		return out, nil
	}

	reserved := map[string]struct{}{ColumnTime: {}, ColumnDate: {}, ColumnStart: {}, ColumnStop: {}}

	_, hasStart := index[ColumnStart]
	_, hasStop := index[ColumnStop]
	if hasStart && hasStop {
		starts, err := parse(ColumnStart)
		if err != nil {
			return value.Timeline{}, nil, err
		}
		stops, err := parse(ColumnStop)
		if err != nil {
			return value.Timeline{}, nil, err
		}

		return value.Intervals(starts, stops), reserved, nil
	}

	for _, name := range []string{ColumnTime, ColumnDate} {
		if _, ok := index[name]; ok {
			times, err := parse(name)
			if err != nil {
				return value.Timeline{}, nil, err
			}

			return value.Points(times), reserved, nil
		}
	}

	return value.Timeline{}, nil, errs.ErrNoTimeColumn
}

func csvColumn(cells []string, timeline value.Timeline) (*value.Container, error) {
	mask := make([]bool, len(cells))
	nums := make([]float64, len(cells))
	numeric := true

	for i, cell := range cells {
		if cell == "" {
			nums[i] = math.NaN()
			continue
		}
		mask[i] = true

		if !numeric {
			continue
		}
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			numeric = false
			continue
		}
		nums[i] = v
	}

	if numeric {
		return value.NewNumeric(nums, timeline, mask, "")
	}

	return value.NewText(cells, timeline, mask)
}
