package geo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func TestSeasonOf(t *testing.T) {
	expected := map[time.Month]Season{
		time.January:   Winter,
		time.February:  Winter,
		time.March:     Spring,
		time.April:     Spring,
		time.May:       Spring,
		time.June:      Summer,
		time.July:      Summer,
		time.August:    Summer,
		time.September: Autumn,
		time.October:   Autumn,
		time.November:  Autumn,
		time.December:  Winter,
	}

	for month, season := range expected {
		date := time.Date(2021, month, 15, 12, 0, 0, 0, time.UTC)
		assert.Equal(t, season, SeasonOf(date), "month %s", month)
	}
}

func TestSeasonOf_Cyclical(t *testing.T) {
	dec := time.Date(2020, time.December, 31, 23, 59, 0, 0, time.UTC)
	jan := dec.Add(2 * time.Minute)
	assert.Equal(t, Winter, SeasonOf(dec))
	assert.Equal(t, Winter, SeasonOf(jan))
}

func TestSeasonOfMonth_OutOfRange(t *testing.T) {
	assert.Equal(t, Winter, SeasonOfMonth(0))
	assert.Equal(t, Winter, SeasonOfMonth(13))
	assert.Equal(t, Spring, SeasonOfMonth(16))
	assert.Equal(t, Winter, SeasonOfMonth(-11))
	assert.Equal(t, Autumn, SeasonOfMonth(-14))
	assert.Equal(t, Summer, SeasonOfMonth(-100))
}

func TestSeasonLabel(t *testing.T) {
	assert.Equal(t, "Winter", Winter.Label(language.English))
	assert.Equal(t, "Hiver", Winter.Label(language.French))
	assert.Equal(t, "Printemps", Spring.Label(language.MustParse("fr-CA")))
	assert.Equal(t, "Autumn", Autumn.Label(language.Japanese))
	assert.Equal(t, "Summer", Summer.String())
	assert.Equal(t, "Unknown", Season(42).String())
}
