// Package format renders dashboard values as display strings.
package format

import (
	"fmt"
	"math"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DateLayout is the short date layout used throughout the dashboard.
const DateLayout = "01/02/2006"

// ExportDateLayout is the date layout embedded in export filenames.
const ExportDateLayout = "2006-01-02"

func printer() *message.Printer {
	return message.NewPrinter(language.English)
}

// Number renders n with thousands separators, e.g. 12,345.
func Number(n int) string {
	return printer().Sprintf("%d", n)
}

// Currency renders a dollar amount rounded to whole dollars, e.g. $12,345.
func Currency(v float64) string {
	if v < 0 {
		return "-" + Currency(-v)
	}
	return "$" + Number(int(math.Round(v)))
}

// Percent renders v with the given number of decimals and a percent sign.
func Percent(v float64, decimals int) string {
	return fmt.Sprintf("%.*f%%", decimals, v)
}

// Temperature renders a Fahrenheit reading with one decimal.
func Temperature(f float64) string {
	return fmt.Sprintf("%.1f°F", f)
}

// Date renders t as a short calendar date.
func Date(t time.Time) string {
	return t.Format(DateLayout)
}

// Kitchen renders the time of day of t, e.g. 3:04 PM.
func Kitchen(t time.Time) string {
	return t.Format("3:04 PM")
}

// Clock renders a 24h hour and minute as a 12h time of day.
func Clock(hour, minute int) string {
	period := "AM"
	if hour >= 12 {
		period = "PM"
	}
	display := hour
	if hour > 12 {
		display = hour - 12
	}
	return fmt.Sprintf("%d:%02d %s", display, minute, period)
}

// PerformanceColor grades value against threshold: at or above is green,
// within five points is yellow, anything lower is red.
func PerformanceColor(value, threshold float64) string {
	switch {
	case value >= threshold:
		return "text-green-600"
	case value >= threshold-5:
		return "text-yellow-600"
	default:
		return "text-red-600"
	}
}

// Growth returns the percentage change from prev to cur with one decimal,
// prefixed with a sign.
func Growth(prev, cur float64) string {
	if prev == 0 {
		return ""
	}
	return fmt.Sprintf("%+.1f%%", (cur-prev)/prev*100)
}
