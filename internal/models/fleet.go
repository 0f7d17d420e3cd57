package models

// Vehicle represents a fleet vehicle and its live readings
type Vehicle struct {
	ID              string        `json:"id"`
	Type            string        `json:"type"`
	Model           string        `json:"model"`
	Driver          string        `json:"driver"`
	Status          VehicleStatus `json:"status"`
	Location        string        `json:"location"`
	Mileage         int           `json:"mileage"`
	FuelLevel       float64       `json:"fuelLevel"`    // percentage
	BatteryLevel    float64       `json:"batteryLevel"` // percentage
	Temperature     float64       `json:"temperature"`  // Fahrenheit
	LastMaintenance string        `json:"lastMaintenance"`
	NextMaintenance string        `json:"nextMaintenance"`
	Efficiency      float64       `json:"efficiency"`
	DeliveriesToday int           `json:"deliveriesToday"`
	HoursActive     float64       `json:"hoursActive"`
}

// MaintenanceRecord is the latest service entry for a vehicle
type MaintenanceRecord struct {
	VehicleID   string            `json:"vehicleId"`
	Type        string            `json:"type"`
	Date        string            `json:"date"`
	Cost        int               `json:"cost"`
	Description string            `json:"description"`
	Status      MaintenanceStatus `json:"status"`
}

// StatusCount is one slice of the fleet status chart
type StatusCount struct {
	Name  VehicleStatus `json:"name"`
	Value int           `json:"value"`
	Color string        `json:"color"`
}

// VehicleEfficiency is one bar of the fleet efficiency chart
type VehicleEfficiency struct {
	Name       string  `json:"name"`
	Efficiency float64 `json:"efficiency"`
	Deliveries int     `json:"deliveries"`
}
