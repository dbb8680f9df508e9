package lookup

import (
	"fmt"
	"strconv"
	"strings"
)

// Render produces the widget's text representation: the input line always,
// the error line iff a failure is set, the result block iff a report is set.
// Pure function of the view; safe to call from anywhere.
func Render(v View) string {
	var b strings.Builder
	fmt.Fprintf(&b, "City: %s\n", v.City)

	if v.ErrorMessage != "" {
		fmt.Fprintf(&b, "  %s\n", v.ErrorMessage)
	}
	if v.Result != nil {
		fmt.Fprintf(&b, "  %s\n", v.Result.City)
		fmt.Fprintf(&b, "  %s°C\n", FormatTemperature(v.Result.TemperatureC))
		fmt.Fprintf(&b, "  %s\n", v.Result.Description)
	}
	return b.String()
}

// FormatTemperature renders a Celsius value without a trailing ".0" for
// whole degrees: 15 -> "15", 15.5 -> "15.5".
func FormatTemperature(t float64) string {
	return strconv.FormatFloat(t, 'f', -1, 64)
}
