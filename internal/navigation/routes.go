package navigation

import "github.com/angristan/camp-tui/internal/models"

// Known map locations in normalized coordinates
var (
	Basecamp    = models.MapPoint{ID: "A1", Name: "Basecamp A1", X: 0.60, Y: 0.66}
	ForestRidge = models.MapPoint{ID: "S1", Name: "Forest Ridge", X: 0.53, Y: 0.26}
	NorthGate   = models.MapPoint{ID: "S2", Name: "North Gate", X: 0.10, Y: 0.22}
	EastDunes   = models.MapPoint{ID: "S3", Name: "East Dunes", X: 0.72, Y: 0.54}
)

var destinations = []models.MapPoint{ForestRidge, NorthGate, EastDunes}

type routeKey struct {
	dest string
	pref models.Preference
}

func pt(x, y float64) models.Point { return models.Point{X: x, Y: y} }

// Every route starts at Basecamp and ends at its destination.
var routes = map[routeKey][]models.Point{
	{"S1", models.PreferenceRecommended}: {
		pt(0.60, 0.66), pt(0.58, 0.62), pt(0.55, 0.58), pt(0.51, 0.52), pt(0.49, 0.47),
		pt(0.50, 0.40), pt(0.52, 0.34), pt(0.53, 0.29), pt(0.53, 0.26),
	},
	{"S1", models.PreferenceBalanced}: {
		pt(0.60, 0.66), pt(0.56, 0.62), pt(0.52, 0.58), pt(0.48, 0.56), pt(0.47, 0.50),
		pt(0.48, 0.44), pt(0.50, 0.38), pt(0.52, 0.31), pt(0.53, 0.26),
	},
	{"S1", models.PreferenceFastest}: {
		pt(0.60, 0.66), pt(0.63, 0.66), pt(0.69, 0.63), pt(0.73, 0.60), pt(0.76, 0.56),
		pt(0.72, 0.52), pt(0.66, 0.46), pt(0.60, 0.40), pt(0.56, 0.33), pt(0.53, 0.26),
	},

	{"S2", models.PreferenceRecommended}: {
		pt(0.60, 0.66), pt(0.50, 0.60), pt(0.40, 0.52), pt(0.28, 0.40), pt(0.18, 0.30), pt(0.10, 0.22),
	},
	{"S2", models.PreferenceBalanced}: {
		pt(0.60, 0.66), pt(0.54, 0.56), pt(0.46, 0.48), pt(0.34, 0.38), pt(0.22, 0.30), pt(0.10, 0.22),
	},
	{"S2", models.PreferenceFastest}: {
		pt(0.60, 0.66), pt(0.48, 0.60), pt(0.32, 0.48), pt(0.18, 0.34), pt(0.10, 0.22),
	},

	{"S3", models.PreferenceRecommended}: {
		pt(0.60, 0.66), pt(0.63, 0.62), pt(0.66, 0.58), pt(0.69, 0.56), pt(0.72, 0.54),
	},
	{"S3", models.PreferenceBalanced}: {
		pt(0.60, 0.66), pt(0.62, 0.60), pt(0.66, 0.56), pt(0.70, 0.54), pt(0.72, 0.54),
	},
	{"S3", models.PreferenceFastest}: {
		pt(0.60, 0.66), pt(0.66, 0.60), pt(0.70, 0.56), pt(0.72, 0.54),
	},
}
