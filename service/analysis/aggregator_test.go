package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modernize-client/client"
)

func TestTierFor(t *testing.T) {
	tests := []struct {
		name string
		pct  float64
		want QualityTier
	}{
		{"0归为excellent", 0, TierExcellent},
		{"4.999归为excellent", 4.999, TierExcellent},
		{"恰好5归为good", 5.0, TierGood},
		{"19.999归为good", 19.999, TierGood},
		{"恰好20归为poor", 20.0, TierPoor},
		{"100归为poor", 100, TierPoor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TierFor(tt.pct))
		})
	}
}

func TestBandFor(t *testing.T) {
	tests := []struct {
		name  string
		score float64
		want  ScoreBand
	}{
		{"90为success", 90, BandSuccess},
		{"89.99为warning", 89.99, BandWarning},
		{"70为warning", 70, BandWarning},
		{"69.99为error", 69.99, BandError},
		{"100为success", 100, BandSuccess},
		{"0为error", 0, BandError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BandFor(tt.score))
		})
	}
}

func TestBucketFor(t *testing.T) {
	tests := []struct {
		name  string
		dtype string
		want  TypeBucket
	}{
		{"int64归为integer", "int64", BucketInteger},
		{"float64归为float", "float64", BucketFloat},
		{"datetime64归为datetime", "datetime64[ns]", BucketDateTime},
		{"object归为string", "object", BucketString},
		{"大小写不敏感", "Int32", BucketInteger},
		// 固定优先级：同时含int与datetime时首个命中的int生效，这是约定的简化
		{"混合dtype按优先级归为integer", "datetime_interval", BucketInteger},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BucketFor(tt.dtype))
		})
	}
}

func sampleResult() *client.ModernizationResult {
	return &client.ModernizationResult{
		FileInfo: client.FileInfo{
			Filename:         "custmst.csv",
			RowsProcessed:    3,
			ColumnsProcessed: 4,
		},
		Mapping: client.ColumnMapping{
			{Original: "CUSTNO", Modern: "customer_number"},
			{Original: "CUSTNAME", Modern: "customer_name"},
			{Original: "HIREDATE", Modern: "hire_date"},
			{Original: "BALANCE", Modern: "balance"},
		},
		DataQuality: client.DataQuality{
			QualityScore:     95.5,
			TotalRows:        3,
			MissingValues:    map[string]int{"customer_number": 0, "customer_name": 1, "hire_date": 2, "balance": 4},
			MemoryUsageBytes: 2048,
		},
		ColumnStatistics: map[string]client.ColumnStatistic{
			"customer_number": {Name: "customer_number", Dtype: "int64", UniqueCount: 3, NullPercentage: 0},
			"customer_name":   {Name: "customer_name", Dtype: "object", UniqueCount: 3, NullPercentage: 5.0},
			"hire_date":       {Name: "hire_date", Dtype: "datetime64[ns]", UniqueCount: 2, NullPercentage: 19.5},
			"balance":         {Name: "balance", Dtype: "float64", UniqueCount: 3, NullPercentage: 33.3},
		},
		Recommendations: []client.Recommendation{
			{Type: client.RecommendationSuccess, Title: "Excellent Data Quality", Message: "ok"},
		},
		ProcessingTime: 0.42,
	}
}

func TestAggregate(t *testing.T) {
	result := sampleResult()
	view := Aggregate(result)
	require.NotNil(t, view)

	assert.Equal(t, 3, view.RowsProcessed)
	assert.Equal(t, 4, view.ColumnsProcessed)
	assert.Equal(t, 95.5, view.QualityScore)
	assert.Equal(t, BandSuccess, view.Band)
	assert.Equal(t, "2.00 KB", view.MemoryUsageHuman)
	assert.Equal(t, 0.42, view.ProcessingTime)

	// 缺失值合计必须等于逐列重新累加的结果
	wantMissing := 0
	for _, count := range result.DataQuality.MissingValues {
		wantMissing += count
	}
	assert.Equal(t, wantMissing, view.TotalMissing)
	assert.Equal(t, 7, view.TotalMissing)

	// 列顺序跟随映射的现代化列名顺序
	var names []string
	for _, col := range view.Columns {
		names = append(names, col.Name)
	}
	assert.Equal(t, []string{"customer_number", "customer_name", "hire_date", "balance"}, names)

	// 档位与类型分布
	assert.Equal(t, map[QualityTier]int{TierExcellent: 1, TierGood: 2, TierPoor: 1}, view.TierDistribution)
	assert.Equal(t, map[TypeBucket]int{
		BucketInteger: 1, BucketString: 1, BucketDateTime: 1, BucketFloat: 1,
	}, view.TypeDistribution)

	// 列级缺失数来自质量指标
	assert.Equal(t, 4, view.Columns[3].MissingCount)
}

func TestAggregateDoesNotMutateInput(t *testing.T) {
	result := sampleResult()
	before := len(result.ColumnStatistics)
	missingBefore := result.DataQuality.MissingValues["balance"]

	_ = Aggregate(result)
	_ = Aggregate(result)

	assert.Equal(t, before, len(result.ColumnStatistics))
	assert.Equal(t, missingBefore, result.DataQuality.MissingValues["balance"])
}

func TestAggregateDeterministic(t *testing.T) {
	result := sampleResult()
	a := Aggregate(result)
	b := Aggregate(result)
	assert.Equal(t, a, b, "同一结果的两次聚合应完全一致")
}

func TestAggregateNil(t *testing.T) {
	assert.Nil(t, Aggregate(nil))
}

func TestHumanBytes(t *testing.T) {
	tests := []struct {
		name string
		n    int64
		want string
	}{
		{"字节", 512, "512 B"},
		{"KB", 2048, "2.00 KB"},
		{"MB", 3 << 20, "3.00 MB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, humanBytes(tt.n))
		})
	}
}
