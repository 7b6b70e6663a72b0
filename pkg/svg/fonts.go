package svg

// fontRatios holds per-family character width ratios, scaled by 100
// (60 means a glyph is 0.60 of the font size wide). Families not listed
// fall back to defaultRatio.
var fontRatios = map[string]int64{
	"Consolas":        60,
	"Monaco":          60,
	"Courier New":     60,
	"Inconsolata":     60,
	"JetBrains Mono":  55,
	"Source Code Pro": 55,
	"Fira Code":       58,
	"Roboto Mono":     60,
	"Ubuntu Mono":     50,
	"Menlo":           60,
}

const defaultRatio = 60

// googleFonts maps families to CSS import URLs so the output document keeps
// its intended face on machines without the font installed.
var googleFonts = map[string]string{
	"Inconsolata":     "https://fonts.googleapis.com/css2?family=Inconsolata:wght@400;700&display=swap",
	"JetBrains Mono":  "https://fonts.googleapis.com/css2?family=JetBrains+Mono:wght@400;700&display=swap",
	"Source Code Pro": "https://fonts.googleapis.com/css2?family=Source+Code+Pro:wght@400;700&display=swap",
	"Fira Code":       "https://fonts.googleapis.com/css2?family=Fira+Code:wght@400;700&display=swap",
	"Roboto Mono":     "https://fonts.googleapis.com/css2?family=Roboto+Mono:wght@400;700&display=swap",
}

// Ratio returns the scaled width ratio for a font family.
func Ratio(family string) int64 {
	if r, ok := fontRatios[family]; ok {
		return r
	}
	return defaultRatio
}

// FontURL returns the Google Fonts import URL for a family, if one is known.
func FontURL(family string) (string, bool) {
	url, ok := googleFonts[family]
	return url, ok
}
