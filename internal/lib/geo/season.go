package geo

import (
	"time"

	"golang.org/x/text/language"
)

// Season is a meteorological season label
type Season int

const (
	Spring Season = iota
	Summer
	Autumn
	Winter
)

// Seasons lists every season in calendar order starting with spring
var Seasons = []Season{Spring, Summer, Autumn, Winter}

// MeteorologicalNorth maps month-1 to its Northern-hemisphere meteorological
// season: Mar-May spring, Jun-Aug summer, Sep-Nov autumn, Dec-Feb winter.
var MeteorologicalNorth = [12]Season{
	Winter, Winter,
	Spring, Spring, Spring,
	Summer, Summer, Summer,
	Autumn, Autumn, Autumn,
	Winter,
}

// SeasonOf returns the season of the given date's calendar month
func SeasonOf(t time.Time) Season {
	return SeasonOfMonth(t.Month())
}

// SeasonOfMonth returns the season for a calendar month. Out-of-range values
// wrap modulo 12, so 13 is January and 0 is December.
func SeasonOfMonth(m time.Month) Season {
	return MeteorologicalNorth[((int(m)-1)%12+12)%12]
}

var seasonNames = map[Season]string{
	Spring: "Spring",
	Summer: "Summer",
	Autumn: "Autumn",
	Winter: "Winter",
}

func (s Season) String() string {
	if name, ok := seasonNames[s]; ok {
		return name
	}
	return "Unknown"
}

// MarshalText renders the season by its English name
func (s Season) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

var (
	labelTags    = []language.Tag{language.English, language.French}
	labelMatcher = language.NewMatcher(labelTags)
	seasonLabels = [][4]string{
		{"Spring", "Summer", "Autumn", "Winter"},
		{"Printemps", "Été", "Automne", "Hiver"},
	}
)

// Label returns a human-facing season name in the closest supported language.
// English is used when nothing matches.
func (s Season) Label(tag language.Tag) string {
	if s < Spring || s > Winter {
		return s.String()
	}
	_, idx, _ := labelMatcher.Match(tag)
	return seasonLabels[idx][s]
}
