// Package migration computes migration statistics over cleaned telemetry.
//
// Every entry point takes a dataset of fixes (one or many individuals, any
// order), groups it per individual, sorts each trajectory by time, and derives
// steps with the segment package. Fixes with out-of-range coordinates are
// dropped first, so empty or fully-invalid input yields zero values.
package migration

import (
	"math"

	"github.com/dpup/migration.ersn.net/server/internal/lib/geo"
	"github.com/dpup/migration.ersn.net/server/internal/lib/segment"
	"github.com/dpup/migration.ersn.net/server/internal/lib/track"
)

// Engine computes statistics under a fixed step policy
type Engine struct {
	policy segment.Policy
}

// NewEngine creates an engine applying the given policy
func NewEngine(policy segment.Policy) *Engine {
	return &Engine{policy: policy}
}

// Policy returns the step policy used by the engine
func (e *Engine) Policy() segment.Policy {
	return e.policy
}

// analyzedTrajectory pairs a sorted trajectory with its steps
type analyzedTrajectory struct {
	track.Trajectory
	steps []segment.Step
}

// validFixes drops fixes whose coordinates lie outside the WGS84 range
func validFixes(fixes []track.Fix) []track.Fix {
	valid := make([]track.Fix, 0, len(fixes))
	for _, f := range fixes {
		if geo.IsValid(f.Point()) {
			valid = append(valid, f)
		}
	}
	return valid
}

func analyze(fixes []track.Fix) ([]analyzedTrajectory, error) {
	trajectories := track.GroupByIndividual(validFixes(fixes))
	analyzed := make([]analyzedTrajectory, 0, len(trajectories))
	for _, traj := range trajectories {
		steps, err := segment.Steps(traj.Fixes)
		if err != nil {
			return nil, err
		}
		analyzed = append(analyzed, analyzedTrajectory{Trajectory: traj, steps: steps})
	}
	return analyzed, nil
}

// Stats computes all aggregate statistics of a dataset
func (e *Engine) Stats(fixes []track.Fix) (MigrationStats, error) {
	analyzed, err := analyze(fixes)
	if err != nil {
		return MigrationStats{}, err
	}

	distance, duration := e.activeDistanceAndDuration(analyzed)
	amplitude, err := maxAmplitude(fixes)
	if err != nil {
		return MigrationStats{}, err
	}

	return MigrationStats{
		AvgActiveDistanceKm:   distance,
		AvgActiveDurationDays: duration,
		AvgSpeedKmh:           e.averageSpeed(analyzed),
		MaxAmplitudeKm:        amplitude,
	}, nil
}

// ActiveDistanceAndDuration returns the mean distance (km) and mean duration
// (whole days) of active-migration periods. A period is the set of active
// steps of one individual ending in the same calendar year. Its distance sums
// the non-outlier steps only, while its duration spans the earliest to the
// latest step end of every member. Periods with zero distance or zero whole
// days are ignored. Both means are truncated; (0, 0) means no period
// qualified.
func (e *Engine) ActiveDistanceAndDuration(fixes []track.Fix) (int, int, error) {
	analyzed, err := analyze(fixes)
	if err != nil {
		return 0, 0, err
	}
	distance, duration := e.activeDistanceAndDuration(analyzed)
	return distance, duration, nil
}

type activeKey struct {
	individual string
	year       int
}

type activePeriod struct {
	distanceKm float64
	first      int64
	last       int64
}

func (e *Engine) activeDistanceAndDuration(analyzed []analyzedTrajectory) (int, int) {
	periods := make(map[activeKey]*activePeriod)
	var order []activeKey

	for _, traj := range analyzed {
		for _, step := range traj.steps {
			if !step.Active(e.policy) {
				continue
			}
			end := step.To.Timestamp.UTC()
			key := activeKey{individual: traj.IndividualID, year: end.Year()}
			p, ok := periods[key]
			if !ok {
				p = &activePeriod{first: end.Unix(), last: end.Unix()}
				periods[key] = p
				order = append(order, key)
			}
			if !step.Outlier(e.policy) {
				p.distanceKm += step.DistanceKm
			}
			p.first = min(p.first, end.Unix())
			p.last = max(p.last, end.Unix())
		}
	}

	var totalDistance float64
	var totalDays, count int
	for _, key := range order {
		p := periods[key]
		days := int((p.last - p.first) / secondsPerDay)
		if p.distanceKm <= 0 || days <= 0 {
			continue
		}
		totalDistance += p.distanceKm
		totalDays += days
		count++
	}

	if count == 0 {
		return 0, 0
	}
	return int(totalDistance / float64(count)), totalDays / count
}

const secondsPerDay = 24 * 60 * 60

// AverageSpeed returns the truncated mean speed of active, non-outlier steps,
// or 0 when there are none
func (e *Engine) AverageSpeed(fixes []track.Fix) (int, error) {
	analyzed, err := analyze(fixes)
	if err != nil {
		return 0, err
	}
	return e.averageSpeed(analyzed), nil
}

func (e *Engine) averageSpeed(analyzed []analyzedTrajectory) int {
	var total float64
	var count int
	for _, traj := range analyzed {
		for _, step := range traj.steps {
			if step.Outlier(e.policy) || !step.Active(e.policy) {
				continue
			}
			total += step.SpeedKmh
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return int(total / float64(count))
}

// MeanSpeed returns the mean speed of all timed, non-outlier steps regardless
// of the active-migration threshold
func (e *Engine) MeanSpeed(fixes []track.Fix) (float64, error) {
	analyzed, err := analyze(fixes)
	if err != nil {
		return 0, err
	}

	var total float64
	var count int
	for _, traj := range analyzed {
		for _, step := range traj.steps {
			if step.Outlier(e.policy) || !step.Timed() {
				continue
			}
			total += step.SpeedKmh
			count++
		}
	}
	if count == 0 {
		return 0, nil
	}
	return total / float64(count), nil
}

// TotalDistance sums the distance of every non-outlier step of every
// individual. No speed threshold applies.
func (e *Engine) TotalDistance(fixes []track.Fix) (float64, error) {
	analyzed, err := analyze(fixes)
	if err != nil {
		return 0, err
	}

	var total float64
	for _, traj := range analyzed {
		for _, step := range traj.steps {
			if !step.Outlier(e.policy) {
				total += step.DistanceKm
			}
		}
	}
	return total, nil
}

// MaxAmplitude returns the largest great-circle distance (truncated km) among
// the fixes with minimum and maximum latitude and longitude. Ties go to the
// earliest fix in input order. Fixes with invalid coordinates are ignored.
func (e *Engine) MaxAmplitude(fixes []track.Fix) (int, error) {
	return maxAmplitude(fixes)
}

func maxAmplitude(fixes []track.Fix) (int, error) {
	fixes = validFixes(fixes)
	if len(fixes) < 2 {
		return 0, nil
	}

	minLat, maxLat, minLon, maxLon := 0, 0, 0, 0
	for i, f := range fixes {
		if f.Latitude < fixes[minLat].Latitude {
			minLat = i
		}
		if f.Latitude > fixes[maxLat].Latitude {
			maxLat = i
		}
		if f.Longitude < fixes[minLon].Longitude {
			minLon = i
		}
		if f.Longitude > fixes[maxLon].Longitude {
			maxLon = i
		}
	}

	extremes := []geo.Point{
		fixes[minLat].Point(),
		fixes[maxLat].Point(),
		fixes[minLon].Point(),
		fixes[maxLon].Point(),
	}

	best := 0.0
	for i := 0; i < len(extremes); i++ {
		for j := i + 1; j < len(extremes); j++ {
			d, err := geo.PointToPoint(extremes[i], extremes[j])
			if err != nil {
				return 0, err
			}
			best = math.Max(best, d)
		}
	}
	return int(best), nil
}
