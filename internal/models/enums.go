package models

import (
	"fmt"
	"time"
)

// VehicleStatus is the operational state of a fleet vehicle
type VehicleStatus string

const (
	VehicleActive       VehicleStatus = "Active"
	VehicleMaintenance  VehicleStatus = "Maintenance"
	VehicleIdle         VehicleStatus = "Idle"
	VehicleOutOfService VehicleStatus = "Out of Service"
)

// VehicleStatuses lists every vehicle status in display order
var VehicleStatuses = []VehicleStatus{VehicleActive, VehicleMaintenance, VehicleIdle, VehicleOutOfService}

// Valid reports whether s is a known vehicle status
func (s VehicleStatus) Valid() bool { return contains(VehicleStatuses, s) }

// Color returns the chart color used for the status
func (s VehicleStatus) Color() string {
	switch s {
	case VehicleActive:
		return "#22c55e"
	case VehicleMaintenance:
		return "#eab308"
	case VehicleIdle:
		return "#3b82f6"
	case VehicleOutOfService:
		return "#ef4444"
	default:
		return "#6b7280"
	}
}

// ParseVehicleStatus converts a display string into a VehicleStatus
func ParseVehicleStatus(s string) (VehicleStatus, error) {
	return parseEnum(VehicleStatuses, s, "vehicle status")
}

// DeliveryStatus is the state of an in-progress delivery run
type DeliveryStatus string

const (
	DeliveryEnRoute    DeliveryStatus = "En Route"
	DeliveryLoading    DeliveryStatus = "Loading"
	DeliveryDelivering DeliveryStatus = "Delivering"
	DeliveryDelayed    DeliveryStatus = "Delayed"
	DeliveryBreak      DeliveryStatus = "Break"
)

// DeliveryStatuses lists every active delivery status
var DeliveryStatuses = []DeliveryStatus{DeliveryEnRoute, DeliveryLoading, DeliveryDelivering, DeliveryDelayed, DeliveryBreak}

// Valid reports whether s is a known delivery status
func (s DeliveryStatus) Valid() bool { return contains(DeliveryStatuses, s) }

// ParseDeliveryStatus converts a display string into a DeliveryStatus
func ParseDeliveryStatus(s string) (DeliveryStatus, error) {
	return parseEnum(DeliveryStatuses, s, "delivery status")
}

// Outcome is the final result of a finished delivery
type Outcome string

const (
	OutcomeDelivered Outcome = "Delivered"
	OutcomeFailed    Outcome = "Failed"
	OutcomeReturned  Outcome = "Returned"
)

// Outcomes lists every delivery outcome
var Outcomes = []Outcome{OutcomeDelivered, OutcomeFailed, OutcomeReturned}

// Valid reports whether o is a known outcome
func (o Outcome) Valid() bool { return contains(Outcomes, o) }

// ParseOutcome converts a display string into an Outcome
func ParseOutcome(s string) (Outcome, error) {
	return parseEnum(Outcomes, s, "outcome")
}

// Priority ranks route stops
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// Priorities lists every priority, highest first
var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

// Valid reports whether p is a known priority
func (p Priority) Valid() bool { return contains(Priorities, p) }

// Weight returns the sort weight of the priority (High=3, Medium=2, Low=1)
func (p Priority) Weight() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// ParsePriority converts a display string into a Priority
func ParsePriority(s string) (Priority, error) {
	return parseEnum(Priorities, s, "priority")
}

// TrafficLevel describes congestion in an area
type TrafficLevel string

const (
	TrafficHeavy    TrafficLevel = "Heavy"
	TrafficModerate TrafficLevel = "Moderate"
	TrafficLight    TrafficLevel = "Light"
)

// TrafficLevels lists every traffic level, worst first
var TrafficLevels = []TrafficLevel{TrafficHeavy, TrafficModerate, TrafficLight}

// Color returns the badge color for the level
func (t TrafficLevel) Color() string {
	switch t {
	case TrafficHeavy:
		return "bg-red-500"
	case TrafficModerate:
		return "bg-yellow-500"
	default:
		return "bg-green-500"
	}
}

// Sky is the weather condition reported for an area
type Sky string

const (
	SkySunny  Sky = "Sunny"
	SkyRainy  Sky = "Rainy"
	SkyCloudy Sky = "Cloudy"
	SkyStorm  Sky = "Storm"
)

// Skies lists every weather condition
var Skies = []Sky{SkySunny, SkyRainy, SkyCloudy, SkyStorm}

// Level is a four step impact or difficulty scale
type Level string

const (
	LevelNone   Level = "None"
	LevelLow    Level = "Low"
	LevelMedium Level = "Medium"
	LevelHigh   Level = "High"
)

// Levels lists every level from lowest to highest
var Levels = []Level{LevelNone, LevelLow, LevelMedium, LevelHigh}

// Badge returns the badge variant used to render the level
func (l Level) Badge() string {
	switch l {
	case LevelHigh:
		return "destructive"
	case LevelMedium:
		return "default"
	default:
		return "secondary"
	}
}

// MaintenanceStatus is the state of a maintenance record
type MaintenanceStatus string

const (
	MaintenanceCompleted MaintenanceStatus = "Completed"
	MaintenanceScheduled MaintenanceStatus = "Scheduled"
	MaintenanceOverdue   MaintenanceStatus = "Overdue"
)

// MaintenanceStatuses lists every maintenance status
var MaintenanceStatuses = []MaintenanceStatus{MaintenanceCompleted, MaintenanceScheduled, MaintenanceOverdue}

// Trend is the direction of a predicted metric
type Trend string

const (
	TrendUp     Trend = "up"
	TrendStable Trend = "stable"
	TrendDown   Trend = "down"
)

// TimeRange selects how many days of analytics history are generated
type TimeRange string

const (
	Range7Days  TimeRange = "7d"
	Range30Days TimeRange = "30d"
	Range90Days TimeRange = "90d"
)

// TimeRanges lists every supported analytics window
var TimeRanges = []TimeRange{Range7Days, Range30Days, Range90Days}

// Days returns the number of days covered by the range
func (r TimeRange) Days() int {
	switch r {
	case Range30Days:
		return 30
	case Range90Days:
		return 90
	default:
		return 7
	}
}

// ParseTimeRange converts "7d", "30d" or "90d" into a TimeRange
func ParseTimeRange(s string) (TimeRange, error) {
	return parseEnum(TimeRanges, s, "time range")
}

// RefreshInterval is a tracking refresh period offered by the dashboard
type RefreshInterval time.Duration

const (
	Refresh3s  = RefreshInterval(3 * time.Second)
	Refresh5s  = RefreshInterval(5 * time.Second)
	Refresh10s = RefreshInterval(10 * time.Second)
	Refresh30s = RefreshInterval(30 * time.Second)
)

// RefreshIntervals lists the selectable refresh periods
var RefreshIntervals = []RefreshInterval{Refresh3s, Refresh5s, Refresh10s, Refresh30s}

// Valid reports whether r is one of the selectable periods
func (r RefreshInterval) Valid() bool { return contains(RefreshIntervals, r) }

// Duration returns the interval as a time.Duration
func (r RefreshInterval) Duration() time.Duration { return time.Duration(r) }

// Seconds returns the interval in whole seconds
func (r RefreshInterval) Seconds() int { return int(time.Duration(r) / time.Second) }

// ParseRefreshSeconds converts a number of seconds into a RefreshInterval
func ParseRefreshSeconds(sec int) (RefreshInterval, error) {
	r := RefreshInterval(time.Duration(sec) * time.Second)
	if !r.Valid() {
		return 0, fmt.Errorf("unsupported refresh interval: %ds", sec)
	}
	return r, nil
}

// SortKey orders the route stop list
type SortKey string

const (
	SortByTime     SortKey = "time"
	SortByPriority SortKey = "priority"
	SortByPackages SortKey = "packages"
)

// SortKeys lists every route sort key
var SortKeys = []SortKey{SortByTime, SortByPriority, SortByPackages}

// ParseSortKey converts a query value into a SortKey
func ParseSortKey(s string) (SortKey, error) {
	return parseEnum(SortKeys, s, "sort key")
}

// Choice is a filter selection: either every value or exactly one
type Choice[T comparable] struct {
	value T
	set   bool
}

// Any returns the "all" selection
func Any[T comparable]() Choice[T] { return Choice[T]{} }

// Only returns a selection matching v exactly
func Only[T comparable](v T) Choice[T] { return Choice[T]{value: v, set: true} }

// All reports whether the selection is the "all" sentinel
func (c Choice[T]) All() bool { return !c.set }

// Value returns the selected value and whether one is set
func (c Choice[T]) Value() (T, bool) { return c.value, c.set }

// Matches reports whether v passes the selection
func (c Choice[T]) Matches(v T) bool { return !c.set || c.value == v }

// String renders the selection, using "all" for the sentinel
func (c Choice[T]) String() string {
	if !c.set {
		return "all"
	}
	return fmt.Sprint(c.value)
}

func contains[T comparable](values []T, v T) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}

func parseEnum[T ~string](values []T, s, what string) (T, error) {
	for _, v := range values {
		if string(v) == s {
			return v, nil
		}
	}
	var zero T
	return zero, fmt.Errorf("unknown %s: %q", what, s)
}
