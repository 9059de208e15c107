package views

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modernize-client/client"
	"modernize-client/service/analysis"
)

func testResult() *client.ModernizationResult {
	return &client.ModernizationResult{
		FileInfo: client.FileInfo{RowsProcessed: 2, ColumnsProcessed: 2},
		ModernizedTable: []client.TableRow{
			{"customer_number": "001234", "balance": 25000.5},
			{"customer_number": "002345", "balance": nil},
		},
		Mapping: client.ColumnMapping{
			{Original: "CUSTNO", Modern: "customer_number"},
			{Original: "BALANCE", Modern: "balance"},
		},
		DataQuality: client.DataQuality{
			QualityScore:     88.0,
			TotalRows:        2,
			MissingValues:    map[string]int{"customer_number": 0, "balance": 1},
			MemoryUsageBytes: 1024,
		},
		ColumnStatistics: map[string]client.ColumnStatistic{
			"customer_number": {Name: "customer_number", Dtype: "int64", UniqueCount: 2, NullPercentage: 0},
			"balance":         {Name: "balance", Dtype: "float64", UniqueCount: 1, NullPercentage: 50},
		},
		Recommendations: []client.Recommendation{
			{Type: client.RecommendationWarning, Title: "High Missing Data", Message: "balance缺失过半", Action: "考虑填补策略"},
			{Type: client.RecommendationSuccess, Title: "Potential Primary Keys", Message: "customer_number"},
		},
		ProcessingTime: 1.5,
	}
}

func TestSummary(t *testing.T) {
	view := analysis.Aggregate(testResult())
	card := Summary(view)

	assert.Equal(t, 2, card.Rows)
	assert.Equal(t, 2, card.Columns)
	assert.Equal(t, 88.0, card.QualityScore)
	assert.Equal(t, "warning", card.Band)
	assert.Equal(t, 1, card.TotalMissing)
	assert.Equal(t, "1.00 KB", card.MemoryUsage)
	assert.Equal(t, "1.50 秒", card.ProcessingTime)
}

func TestQualityDistribution(t *testing.T) {
	view := analysis.Aggregate(testResult())
	entries := QualityDistribution(view)

	require.Len(t, entries, 3)
	assert.Equal(t, "excellent", entries[0].Label)
	assert.Equal(t, 1, entries[0].Count)
	assert.Equal(t, 50.0, entries[0].Percent)
	assert.Equal(t, "poor", entries[2].Label)
	assert.Equal(t, 1, entries[2].Count)
}

func TestTypeDistribution(t *testing.T) {
	view := analysis.Aggregate(testResult())
	entries := TypeDistribution(view)

	require.Len(t, entries, 4)
	assert.Equal(t, "integer", entries[0].Label)
	assert.Equal(t, 1, entries[0].Count)
	assert.Equal(t, "float", entries[1].Label)
	assert.Equal(t, 1, entries[1].Count)
	assert.Equal(t, "datetime", entries[2].Label)
	assert.Equal(t, 0, entries[2].Count)
}

func TestRecommendations(t *testing.T) {
	view := analysis.Aggregate(testResult())
	items := Recommendations(view)

	require.Len(t, items, 2)
	assert.Equal(t, "warning", items[0].Severity)
	assert.Equal(t, "High Missing Data", items[0].Title)
	assert.Equal(t, "考虑填补策略", items[0].Action)
	assert.Equal(t, "success", items[1].Severity)
}

func TestColumnTable(t *testing.T) {
	view := analysis.Aggregate(testResult())
	rows := ColumnTable(view)

	require.Len(t, rows, 2)
	assert.Equal(t, "customer_number", rows[0].Name)
	assert.Equal(t, "2", rows[0].UniqueCount)
	assert.Equal(t, "0.00%", rows[0].NullPercentage)
	assert.Equal(t, "excellent", rows[0].Tier)
	assert.Equal(t, "50.00%", rows[1].NullPercentage)
	assert.Equal(t, "poor", rows[1].Tier)
}

func TestPreview(t *testing.T) {
	result := testResult()
	table := Preview(result, 0)

	assert.Equal(t, []string{"customer_number", "balance"}, table.Headers)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, []string{"001234", "25000.5"}, table.Rows[0])
	// 缺失值渲染为空字符串
	assert.Equal(t, []string{"002345", ""}, table.Rows[1])

	limited := Preview(result, 1)
	assert.Len(t, limited.Rows, 1)
}

func TestViewsNilSafety(t *testing.T) {
	assert.Equal(t, SummaryCard{}, Summary(nil))
	assert.Nil(t, QualityDistribution(nil))
	assert.Nil(t, TypeDistribution(nil))
	assert.Nil(t, Recommendations(nil))
	assert.Nil(t, ColumnTable(nil))
	assert.Equal(t, PreviewTable{}, Preview(nil, 5))
}
