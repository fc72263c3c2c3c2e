package dto

// DashboardSummary aggregates the student collection.
type DashboardSummary struct {
	Total      int          `json:"total"`
	Active     int          `json:"active"`
	Inactive   int          `json:"inactive"`
	Male       int          `json:"male"`
	Female     int          `json:"female"`
	AverageAge int          `json:"averageAge"`
	AgeBuckets []ChartPoint `json:"ageBuckets"`
	ByGender   []ChartPoint `json:"byGender"`
	ByStatus   []ChartPoint `json:"byStatus"`
}

// ChartPoint is one labelled value of a chart series.
type ChartPoint struct {
	Label string `json:"label"`
	Value int    `json:"value"`
}

// ExportFilter selects the students included in an export.
type ExportFilter struct {
	From   string `form:"from"`
	To     string `form:"to"`
	Status string `form:"status"`
	Format string `form:"format"`
}

// ExportFile is a rendered download.
type ExportFile struct {
	Filename    string
	ContentType string
	Payload     []byte
}
