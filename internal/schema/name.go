package schema

import "strings"

// CallName derives the client-facing invocation name from a declared
// snake_case capability name: segments after the first are capitalized and
// joined, so "weather_forecast" becomes "weatherForecast". Single-segment
// names map to themselves.
func CallName(declared string) string {
	segments := strings.Split(declared, "_")
	if len(segments) == 1 {
		return declared
	}

	var b strings.Builder
	b.WriteString(segments[0])
	for _, segment := range segments[1:] {
		if segment == "" {
			continue
		}
		b.WriteString(strings.ToUpper(segment[:1]))
		b.WriteString(segment[1:])
	}
	return b.String()
}
