package export

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/shopspring/decimal"
	"github.com/storepulse/storepulse/internal/domain/basket"
	"github.com/storepulse/storepulse/internal/domain/timeseries"
	ierr "github.com/storepulse/storepulse/internal/errors"
	"github.com/storepulse/storepulse/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePoints() ([]timeseries.Point, []timeseries.Point) {
	day := func(d int) time.Time { return time.Date(2024, time.May, d, 0, 0, 0, 0, time.UTC) }
	actual := []timeseries.Point{
		{Period: "2024-05-01", PeriodStart: day(1), PeriodEnd: day(2), Value: decimal.NewFromInt(100)},
		{Period: "2024-05-02", PeriodStart: day(2), PeriodEnd: day(3), Value: decimal.NewFromFloat(120.5)},
	}
	projected := []timeseries.Point{
		{Period: "2024-05-03", PeriodStart: day(3), PeriodEnd: day(4), Value: decimal.NewFromInt(130), IsProjected: true},
	}
	return actual, projected
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(" CSV ")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)
	assert.Equal(t, "csv", f.Extension())

	_, err = ParseFormat("xlsx")
	require.Error(t, err)
	assert.True(t, ierr.IsValidation(err))
}

func TestPointRows(t *testing.T) {
	rows := PointRows(samplePoints())
	require.Len(t, rows, 3)
	assert.Equal(t, "2024-05-01", rows[0].Period)
	assert.Equal(t, "2024-05-01T00:00:00Z", rows[0].PeriodStart)
	assert.InDelta(t, 120.5, rows[1].Value, 1e-9)
	assert.False(t, rows[1].Projected)
	assert.True(t, rows[2].Projected)
}

func TestWrite_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatJSON, PointRows(samplePoints())))

	var decoded []PointRow
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, PointRows(samplePoints()), decoded)
}

func TestWrite_JSONNilRowsIsEmptyArray(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write[BundleRow](&buf, FormatJSON, nil))
	assert.Equal(t, "[]", strings.TrimSpace(buf.String()))
}

func TestWrite_CSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatCSV, PointRows(samplePoints())))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "period,period_start,period_end,value,projected", lines[0])
	assert.True(t, strings.HasPrefix(lines[3], "2024-05-03,"))
	assert.True(t, strings.HasSuffix(lines[3], ",true"))
}

func TestWrite_Parquet(t *testing.T) {
	bundles := []*basket.Bundle{
		nil,
		{
			ID:   "bundle_prod_a_prod_b",
			Name: "A + B",
			Products: []basket.BundleProduct{
				{ID: "prod_a", Name: "A", Price: decimal.NewFromInt(10)},
				{ID: "prod_b", Name: "B", Price: decimal.NewFromInt(20)},
			},
			BundlePrice:     decimal.NewFromInt(27),
			IndividualPrice: decimal.NewFromInt(30),
			DiscountPercent: decimal.NewFromInt(10),
			Tier:            types.ConfidenceTierHigh,
			Support:         0.5,
			Confidence:      1,
			Lift:            2,
			Frequency:       5,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatParquet, BundleRows(bundles)))

	rows, err := parquet.Read[BundleRow](bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "prod_a|prod_b", rows[0].ProductIDs)
	assert.Equal(t, "high", rows[0].Tier)
	assert.InDelta(t, 27, rows[0].BundlePrice, 1e-9)
	assert.Equal(t, int64(5), rows[0].Frequency)
}

func TestWriteFile(t *testing.T) {
	items := []*basket.OptimalProduct{
		{ProductID: "prod_a", ProductName: "A", Price: decimal.NewFromInt(10), Score: 3},
		nil,
		{ProductID: "prod_b", ProductName: "B", Price: decimal.NewFromInt(20), Score: 2},
	}
	path := filepath.Join(t.TempDir(), "optimal.csv")

	require.NoError(t, WriteFile(path, FormatCSV, OptimalProductRows(items)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[1], "1,prod_a,"))
	assert.True(t, strings.HasPrefix(lines[2], "2,prod_b,"))
}

func TestWriteFile_MissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "out.json")
	err := WriteFile(path, FormatJSON, DayOfWeekRows(nil))
	require.Error(t, err)
	assert.True(t, ierr.Is(err, ierr.ErrSystem))
}
