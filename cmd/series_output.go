package cmd

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	sim "github.com/episim/episim/sim"
)

// WriteSeriesCSV writes the count trajectories as CSV: one row per event,
// columns time,S,I and, for SIR results, R.
func WriteSeriesCSV(w io.Writer, res *sim.Result) error {
	cw := csv.NewWriter(w)

	header := []string{"time", "S", "I"}
	if res.R != nil {
		header = append(header, "R")
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write series header: %w", err)
	}

	row := make([]string, 0, 4)
	for k := 0; k < res.Len(); k++ {
		row = row[:0]
		row = append(row,
			strconv.FormatFloat(res.Times[k], 'g', -1, 64),
			strconv.Itoa(res.S[k]),
			strconv.Itoa(res.I[k]))
		if res.R != nil {
			row = append(row, strconv.Itoa(res.R[k]))
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write series row %d: %w", k, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteSeriesCSVFile writes the count trajectories to a file, creating or
// truncating it.
func WriteSeriesCSVFile(path string, res *sim.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create series output: %w", err)
	}
	if err := WriteSeriesCSV(f, res); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
