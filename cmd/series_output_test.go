package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sim "github.com/episim/episim/sim"
)

func TestWriteSeriesCSV_SIRColumns(t *testing.T) {
	// GIVEN an SIR result
	res := &sim.Result{
		Times: []float64{0, 0.5},
		S:     []int{2, 1},
		I:     []int{1, 2},
		R:     []int{0, 0},
	}

	// WHEN written as CSV
	var buf bytes.Buffer
	require.NoError(t, WriteSeriesCSV(&buf, res))

	// THEN the header and rows carry all four columns
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "time,S,I,R", lines[0])
	assert.Equal(t, "0,2,1,0", lines[1])
	assert.Equal(t, "0.5,1,2,0", lines[2])
}

func TestWriteSeriesCSV_SISOmitsR(t *testing.T) {
	// GIVEN an SIS result (nil R)
	res := &sim.Result{Times: []float64{0}, S: []int{1}, I: []int{1}}

	// WHEN written as CSV THEN the R column is absent
	var buf bytes.Buffer
	require.NoError(t, WriteSeriesCSV(&buf, res))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "time,S,I", lines[0])
	assert.Equal(t, "0,1,1", lines[1])
}

func TestWriteSeriesCSVFile_WritesToDisk(t *testing.T) {
	res := &sim.Result{Times: []float64{0}, S: []int{0}, I: []int{1}}
	path := filepath.Join(t.TempDir(), "series.csv")

	require.NoError(t, WriteSeriesCSVFile(path, res))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "time,S,I"))
}
