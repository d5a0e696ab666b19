package migration

import (
	"math"
	"slices"
	"time"

	"github.com/dpup/migration.ersn.net/server/internal/lib/geo"
	"github.com/dpup/migration.ersn.net/server/internal/lib/segment"
	"github.com/dpup/migration.ersn.net/server/internal/lib/track"
)

// MonthlyDistanceSummary sums, for every individual and year-month period with
// at least two fixes, the non-outlier step distances between consecutive fixes
// inside the period. The per-individual totals are then aggregated per period
// into mean, min and max. Periods where no individual travelled are omitted,
// so callers needing a dense axis must fill gaps themselves. Results are
// ordered by period.
func (e *Engine) MonthlyDistanceSummary(fixes []track.Fix) ([]MonthlyDistanceSummary, error) {
	analyzed, err := analyze(fixes)
	if err != nil {
		return nil, err
	}

	totals := make(map[Period][]float64)
	for _, traj := range analyzed {
		for period, km := range e.periodTotals(traj) {
			totals[period] = append(totals[period], km)
		}
	}

	summaries := make([]MonthlyDistanceSummary, 0, len(totals))
	for period, values := range totals {
		summary := MonthlyDistanceSummary{
			Period:      period,
			MinKm:       math.Inf(1),
			MaxKm:       math.Inf(-1),
			Individuals: len(values),
		}
		var sum float64
		for _, v := range values {
			sum += v
			summary.MinKm = math.Min(summary.MinKm, v)
			summary.MaxKm = math.Max(summary.MaxKm, v)
		}
		summary.MeanKm = sum / float64(len(values))
		summaries = append(summaries, summary)
	}

	slices.SortFunc(summaries, func(a, b MonthlyDistanceSummary) int {
		switch {
		case a.Period.Before(b.Period):
			return -1
		case b.Period.Before(a.Period):
			return 1
		}
		return 0
	})
	return summaries, nil
}

// periodTotals returns the distance travelled by one individual in each
// period with a positive total
func (e *Engine) periodTotals(traj analyzedTrajectory) map[Period]float64 {
	totals := make(map[Period]float64)
	for _, step := range traj.steps {
		period := PeriodOf(step.From.Timestamp)
		if PeriodOf(step.To.Timestamp) != period {
			continue
		}
		if step.Outlier(e.policy) {
			continue
		}
		totals[period] += step.DistanceKm
	}
	for period, km := range totals {
		if km <= 0 {
			delete(totals, period)
		}
	}
	return totals
}

// MonthlySpeedProfile aggregates movement by month of year, pooling every
// year. For each individual and month, fixes falling in that month are taken
// in time order and the timed, non-outlier steps between them give a mean
// speed and a distance total. Months are then averaged (speed) and summed
// (distance) across individuals. Months without any such step are omitted.
func (e *Engine) MonthlySpeedProfile(fixes []track.Fix) ([]MonthlySpeed, error) {
	trajectories := track.GroupByIndividual(fixes)

	profile := []MonthlySpeed{}
	for month := time.January; month <= time.December; month++ {
		entry := MonthlySpeed{Month: month}
		var speedSum float64

		for _, traj := range trajectories {
			var inMonth []track.Fix
			for _, f := range traj.Fixes {
				if f.Timestamp.UTC().Month() == month {
					inMonth = append(inMonth, f)
				}
			}

			steps, err := segment.Steps(inMonth)
			if err != nil {
				return nil, err
			}

			var total, distance float64
			var count int
			for _, step := range steps {
				if step.Outlier(e.policy) || !step.Timed() {
					continue
				}
				total += step.SpeedKmh
				distance += step.DistanceKm
				count++
			}
			if count == 0 {
				continue
			}

			speedSum += total / float64(count)
			entry.TotalDistanceKm += distance
			entry.Individuals++
		}

		if entry.Individuals == 0 {
			continue
		}
		entry.MeanSpeedKmh = speedSum / float64(entry.Individuals)
		profile = append(profile, entry)
	}
	return profile, nil
}

// SeasonalBreakdown counts fixes per meteorological season, always listing all
// four seasons
func SeasonalBreakdown(fixes []track.Fix) []SeasonCount {
	counts := make(map[geo.Season]int, len(geo.Seasons))
	for _, f := range fixes {
		counts[geo.SeasonOf(f.Timestamp.UTC())]++
	}

	breakdown := make([]SeasonCount, 0, len(geo.Seasons))
	for _, season := range geo.Seasons {
		breakdown = append(breakdown, SeasonCount{Season: season, Fixes: counts[season]})
	}
	return breakdown
}
