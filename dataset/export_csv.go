package dataset

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/arloliu/fieldset/compress"
	"github.com/arloliu/fieldset/format"
	"github.com/arloliu/fieldset/internal/pool"
)

func writeCSV(w io.Writer, tbl *table, compression format.CompressionType) error {
	buf := pool.GetExportBuffer()
	defer pool.PutExportBuffer(buf)

	cw := csv.NewWriter(buf)

	record := make([]string, 0, len(tbl.ids)+4)
	record = append(record, ColumnTime, ColumnDate)
	if tbl.isInterval() {
		record = append(record, ColumnStart, ColumnStop)
	}
	for _, id := range tbl.ids {
		record = append(record, id.Column())
	}
	if err := cw.Write(record); err != nil {
		return err
	}

	masks := make([][]bool, len(tbl.fields))
	for i, c := range tbl.fields {
		masks[i] = c.Mask()
	}

	for row := range tbl.rows() {
		record = record[:0]
		record = append(record, formatTime(tbl.times[row]), tbl.dates[row])
		if tbl.isInterval() {
			record = append(record, formatTime(tbl.times[row]), formatTime(tbl.stops[row]))
		}
		for i, c := range tbl.fields {
			if !masks[i][row] {
				record = append(record, "")
				continue
			}
			record = append(record, c.FormatValue(row))
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}

	codec, err := compress.GetCodec(compression)
	if err != nil {
		return err
	}
	payload, err := codec.Compress(buf.Bytes())
	if err != nil {
		return err
	}

	_, err = w.Write(payload)

	return err
}

func formatTime(sec float64) string {
	return strconv.FormatFloat(sec, 'f', -1, 64)
}
