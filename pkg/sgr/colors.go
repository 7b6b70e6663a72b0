package sgr

// ansiColors maps the 16 standard SGR color codes to the hex values emitted
// in the output document. The table must stay byte-for-byte stable: the hex
// strings participate in cached records, so changing an entry silently
// invalidates nothing and mixes old and new colors.
var ansiColors = map[int]string{
	30: "#000000", // Black
	31: "#cd3131", // Red
	32: "#0dbc79", // Green
	33: "#e5e510", // Yellow
	34: "#2472c8", // Blue
	35: "#bc3fbc", // Magenta
	36: "#11a8cd", // Cyan
	37: "#e5e5e5", // White
	90: "#666666", // Bright Black (Gray)
	91: "#f14c4c", // Bright Red
	92: "#23d18b", // Bright Green
	93: "#f5f543", // Bright Yellow
	94: "#3b8eea", // Bright Blue
	95: "#d670d6", // Bright Magenta
	96: "#29b8db", // Bright Cyan
	97: "#e5e5e5", // Bright White
}

// Color returns the hex color for a standard foreground code (30-37, 90-97).
// Background codes are looked up by the caller at code-10.
func Color(code int) (string, bool) {
	c, ok := ansiColors[code]
	return c, ok
}
