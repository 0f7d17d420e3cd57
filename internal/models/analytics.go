package models

// PerformanceDataPoint is one day of delivery performance
type PerformanceDataPoint struct {
	Date       string `json:"date"`
	Deliveries int    `json:"deliveries"`
	OnTime     int    `json:"onTime"`
	Revenue    int    `json:"revenue"`
	FuelCost   int    `json:"fuelCost"`
	Efficiency int    `json:"efficiency"`
}

// RegionStat aggregates deliveries for a sales region
type RegionStat struct {
	Region     string `json:"region"`
	Deliveries int    `json:"deliveries"`
	Revenue    int    `json:"revenue"`
	Efficiency int    `json:"efficiency"`
	Color      string `json:"color"`
}

// KPISummary holds the headline numbers shown above the analytics charts
type KPISummary struct {
	TotalDeliveries      int     `json:"totalDeliveries"`
	OnTimeRate           float64 `json:"onTimeRate"`
	AvgDeliveryTime      int     `json:"avgDeliveryTime"` // minutes
	TotalRevenue         int     `json:"totalRevenue"`
	FuelSavings          int     `json:"fuelSavings"`
	CustomerSatisfaction int     `json:"customerSatisfaction"` // percentage
}

// SeriesPoint is a single labelled value in a chart series
type SeriesPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}
