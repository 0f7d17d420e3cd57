package models

// Prediction is a single forecast card on the predictive panel
type Prediction struct {
	Metric     string `json:"metric"`
	Prediction string `json:"prediction"`
	Confidence int    `json:"confidence"`
	Trend      Trend  `json:"trend"`
	Impact     string `json:"impact"`
}

// DayForecast is the predicted load for one weekday
type DayForecast struct {
	Day        string `json:"day"`
	Packages   int    `json:"packages"`
	Difficulty Level  `json:"difficulty"`
	Efficiency int    `json:"efficiency"`
}

// Suggestion is a recommended operational change
type Suggestion struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Impact      Level  `json:"impact"`
	Savings     string `json:"savings"`
}

// TodayMetric is a headline number on the delivery metrics panel
type TodayMetric struct {
	Label  string `json:"label"`
	Value  string `json:"value"`
	Change string `json:"change"`
}

// AreaPerformance summarises deliveries in one district
type AreaPerformance struct {
	Area       string `json:"area"`
	Deliveries int    `json:"deliveries"`
	OnTime     int    `json:"onTime"`
	AvgTime    string `json:"avgTime"`
	Difficulty Level  `json:"difficulty"`
}

// DriverPerformance ranks one driver
type DriverPerformance struct {
	Name       string  `json:"name"`
	Deliveries int     `json:"deliveries"`
	OnTime     int     `json:"onTime"`
	Rating     float64 `json:"rating"`
	Efficiency int     `json:"efficiency"`
}

// WeeklyTrend is one week of historical performance
type WeeklyTrend struct {
	Week         string  `json:"week"`
	Deliveries   int     `json:"deliveries"`
	OnTime       float64 `json:"onTime"`
	Satisfaction float64 `json:"satisfaction"`
}
