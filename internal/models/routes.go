package models

// DeliveryPoint is a stop on the planned route
type DeliveryPoint struct {
	ID            int      `json:"id"`
	Address       string   `json:"address"`
	Packages      int      `json:"packages"`
	Priority      Priority `json:"priority"`
	EstimatedTime string   `json:"estimatedTime"`
	CustomerName  string   `json:"customerName"`
	PhoneNumber   string   `json:"phoneNumber"`
	IsCompleted   bool     `json:"isCompleted"`
}

// TrafficCondition is the congestion reported for an area
type TrafficCondition struct {
	Area      string       `json:"area"`
	Condition TrafficLevel `json:"condition"`
	Color     string       `json:"color"`
	Delay     int          `json:"delay"` // minutes
}

// RouteSavings estimates what the current route saves
type RouteSavings struct {
	Time int `json:"time"` // minutes
	Fuel int `json:"fuel"` // gallons
	Cost int `json:"cost"` // dollars
}
