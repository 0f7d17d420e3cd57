package models

import "time"

// ActiveDelivery is a delivery run currently on the road
type ActiveDelivery struct {
	ID                  string         `json:"id"`
	Driver              string         `json:"driver"`
	Vehicle             string         `json:"vehicle"`
	Phone               string         `json:"phone"`
	CurrentLocation     string         `json:"currentLocation"`
	NextStop            string         `json:"nextStop"`
	Progress            int            `json:"progress"` // 0-100
	PackagesDelivered   int            `json:"packagesDelivered"`
	TotalPackages       int            `json:"totalPackages"`
	EstimatedCompletion string         `json:"estimatedCompletion"`
	Status              DeliveryStatus `json:"status"`
	Speed               float64        `json:"speed"` // mph
	LastUpdate          time.Time      `json:"lastUpdate"`
	BatteryLevel        float64        `json:"batteryLevel"`
	Temperature         float64        `json:"temperature"`
	CustomerNotes       string         `json:"customerNotes"`
}

// RecentDelivery is a finished delivery shown in the activity feed
type RecentDelivery struct {
	ID           string  `json:"id"`
	Address      string  `json:"address"`
	Customer     string  `json:"customer"`
	Time         string  `json:"time"`
	Status       Outcome `json:"status"`
	Driver       string  `json:"driver"`
	Rating       int     `json:"rating"`
	DeliveryTime int     `json:"deliveryTime"` // minutes
	SignatureURL string  `json:"signatureUrl,omitempty"`
}

// WeatherCondition is the current weather reported for an area
type WeatherCondition struct {
	Area        string `json:"area"`
	Condition   Sky    `json:"condition"`
	Temperature int    `json:"temperature"`
	Impact      Level  `json:"impact"`
}
