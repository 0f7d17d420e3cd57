// Package parser turns query strings, flags and request bodies into the
// dashboard's typed values.
package parser

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/url"
	"strconv"
	"strings"
	"time"

	"logistics-dashboard/internal/format"
	"logistics-dashboard/internal/models"
)

// AllValue selects every value in a filter.
const AllValue = "all"

// Request is a body the Parser can fill from JSON or form input.
type Request interface {
	fromForm(url.Values) error
}

// Parser decodes request bodies of one format
type Parser struct {
	format string
}

// NewParser creates a new parser with the specified format ("json" or "form")
func NewParser(format string) *Parser {
	return &Parser{format: format}
}

// ForContentType picks the parser matching a Content-Type header. Anything
// that is not a form is treated as JSON.
func ForContentType(contentType string) *Parser {
	mediaType, _, _ := mime.ParseMediaType(contentType)
	if mediaType == "application/x-www-form-urlencoded" {
		return NewParser("form")
	}
	return NewParser("json")
}

// Decode reads r into v.
func (p *Parser) Decode(r io.Reader, v Request) error {
	switch strings.ToLower(p.format) {
	case "json":
		return p.decodeJSON(r, v)
	case "form":
		return p.decodeForm(r, v)
	default:
		return fmt.Errorf("unsupported format: %s", p.format)
	}
}

func (p *Parser) decodeJSON(r io.Reader, v Request) error {
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		if err == io.EOF {
			return fmt.Errorf("empty request body")
		}
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

func (p *Parser) decodeForm(r io.Reader, v Request) error {
	body, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read body: %w", err)
	}
	values, err := url.ParseQuery(string(body))
	if err != nil {
		return fmt.Errorf("invalid form body: %w", err)
	}
	return v.fromForm(values)
}

// StopRequest adds a delivery stop to the route.
type StopRequest struct {
	Address string `json:"address"`
}

func (s *StopRequest) fromForm(v url.Values) error {
	s.Address = v.Get("address")
	return nil
}

// PriorityRequest reprioritises open stops in bulk.
type PriorityRequest struct {
	Priority models.Priority `json:"priority"`
}

func (s *PriorityRequest) fromForm(v url.Values) error {
	s.Priority = models.Priority(v.Get("priority"))
	return nil
}

// TrackingSettings changes the live tracking refresh. Nil fields are left
// unchanged.
type TrackingSettings struct {
	AutoRefresh     *bool `json:"autoRefresh,omitempty"`
	RefreshInterval *int  `json:"refreshInterval,omitempty"` // seconds
}

func (s *TrackingSettings) fromForm(v url.Values) error {
	var err error
	if s.AutoRefresh, err = formBool(v, "autoRefresh"); err != nil {
		return err
	}
	if raw := v.Get("refreshInterval"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("refreshInterval: %w", err)
		}
		s.RefreshInterval = &n
	}
	return nil
}

// RouteSettings toggles the background route tasks. Nil fields are left
// unchanged.
type RouteSettings struct {
	AutoOptimize    *bool `json:"autoOptimize,omitempty"`
	RealTimeUpdates *bool `json:"realTimeUpdates,omitempty"`
}

func (s *RouteSettings) fromForm(v url.Values) error {
	var err error
	if s.AutoOptimize, err = formBool(v, "autoOptimize"); err != nil {
		return err
	}
	s.RealTimeUpdates, err = formBool(v, "realTimeUpdates")
	return err
}

func formBool(v url.Values, key string) (*bool, error) {
	raw := v.Get(key)
	if raw == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return &b, nil
}

// ParseChoice parses a filter value. Empty input and "all" select every
// value; anything else must be accepted by parse.
func ParseChoice[T comparable](raw string, parse func(string) (T, error)) (models.Choice[T], error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, AllValue) {
		return models.Any[T](), nil
	}
	v, err := parse(raw)
	if err != nil {
		return models.Any[T](), err
	}
	return models.Only(v), nil
}

// ParseVehicleStatusFilter parses the fleet status filter.
func ParseVehicleStatusFilter(raw string) (models.Choice[models.VehicleStatus], error) {
	return ParseChoice(raw, models.ParseVehicleStatus)
}

// ParseDeliveryStatusFilter parses the tracking status filter.
func ParseDeliveryStatusFilter(raw string) (models.Choice[models.DeliveryStatus], error) {
	return ParseChoice(raw, models.ParseDeliveryStatus)
}

// ParsePriorityFilter parses the route priority filter.
func ParsePriorityFilter(raw string) (models.Choice[models.Priority], error) {
	return ParseChoice(raw, models.ParsePriority)
}

// ParseSortKey parses the route sort order, defaulting to time.
func ParseSortKey(raw string) (models.SortKey, error) {
	if raw == "" {
		return models.SortByTime, nil
	}
	return models.ParseSortKey(strings.ToLower(raw))
}

// ParseTimeRange parses an analytics window. ok is false when raw is empty.
func ParseTimeRange(raw string) (r models.TimeRange, ok bool, err error) {
	if raw == "" {
		return "", false, nil
	}
	r, err = models.ParseTimeRange(strings.ToLower(raw))
	return r, err == nil, err
}

// ParseStopID parses a numeric route stop id.
func ParseStopID(raw string) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid stop id: %q", raw)
	}
	return id, nil
}

// ParseTimestamp tries multiple timestamp formats
func ParseTimestamp(s string) (time.Time, error) {
	formats := []string{
		time.RFC3339,
		time.RFC3339Nano,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"01/02/2006 15:04:05",
		format.DateLayout,
		"2006-01-02",
	}

	for _, layout := range formats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}

	// Unix seconds
	if ts, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(ts, 0), nil
	}

	return time.Time{}, fmt.Errorf("unable to parse timestamp: %s", s)
}

// ValidateTrackingSettings validates a tracking settings change
func ValidateTrackingSettings(s *TrackingSettings) []string {
	var errors []string

	if s.AutoRefresh == nil && s.RefreshInterval == nil {
		errors = append(errors, "autoRefresh or refreshInterval is required")
	}
	if s.RefreshInterval != nil {
		if _, err := models.ParseRefreshSeconds(*s.RefreshInterval); err != nil {
			errors = append(errors, "refreshInterval must be one of 3, 5, 10 or 30")
		}
	}

	return errors
}

// ValidateRouteSettings validates a route settings change
func ValidateRouteSettings(s *RouteSettings) []string {
	if s.AutoOptimize == nil && s.RealTimeUpdates == nil {
		return []string{"autoOptimize or realTimeUpdates is required"}
	}
	return nil
}

// ValidatePriorityRequest validates a bulk priority change
func ValidatePriorityRequest(s *PriorityRequest) []string {
	if !s.Priority.Valid() {
		return []string{fmt.Sprintf("priority must be High, Medium or Low, got %q", s.Priority)}
	}
	return nil
}
