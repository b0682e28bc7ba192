package main

import (
	"bytes"
	"testing"

	"github.com/storepulse/storepulse/internal/export"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTablePath(t *testing.T) {
	tests := []struct {
		out    string
		format export.Format
		want   string
	}{
		{out: "report.csv", format: export.FormatCSV, want: "report_day_of_week.csv"},
		{out: "out/report", format: export.FormatParquet, want: "out/report_day_of_week.parquet"},
		{out: "a.b/report.json", format: export.FormatJSON, want: "a.b/report_day_of_week.json"},
	}

	for _, tt := range tests {
		t.Run(tt.out, func(t *testing.T) {
			assert.Equal(t, tt.want, tablePath(tt.out, "day_of_week", tt.format))
		})
	}
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printJSON(&buf, map[string]int{"today_index": 3}))
	assert.JSONEq(t, `{"today_index": 3}`, buf.String())
}

func TestRootCmd_Subcommands(t *testing.T) {
	cmd := newRootCmd()

	names := make([]string, 0, len(cmd.Commands()))
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.ElementsMatch(t, []string{"serve", "projection", "recommendations", "optimal-products", "trend"}, names)

	projection, _, err := cmd.Find([]string{"projection"})
	require.NoError(t, err)
	for _, flag := range []string{"days", "user", "format", "out"} {
		assert.NotNil(t, projection.Flags().Lookup(flag), flag)
	}
}

func TestRootCmd_RejectsUnknownFormat(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"trend", "--format", "xlsx"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported export format")
}
