// Package segment derives steps between temporally consecutive fixes of a
// trajectory and applies the outlier and active-migration policies.
package segment

import (
	"fmt"

	"github.com/dpup/migration.ersn.net/server/internal/lib/geo"
	"github.com/dpup/migration.ersn.net/server/internal/lib/track"
)

const (
	// MaxStepDistanceKm is the longest step counted in any distance or speed
	// aggregate. Longer steps are treated as GPS glitches and skipped.
	MaxStepDistanceKm = 300.0

	// ActiveSpeedKmh is the minimum step speed classified as active migration
	ActiveSpeedKmh = 20.0
)

// Policy holds the thresholds applied to steps. The two thresholds are applied
// independently; callers choose which ones a computation uses.
type Policy struct {
	MaxStepDistanceKm float64 `json:"max_step_distance_km"`
	ActiveSpeedKmh    float64 `json:"active_speed_kmh"`
}

// DefaultPolicy returns the canonical 300 km / 20 km/h policy
func DefaultPolicy() Policy {
	return Policy{
		MaxStepDistanceKm: MaxStepDistanceKm,
		ActiveSpeedKmh:    ActiveSpeedKmh,
	}
}

// Step is the interval between two temporally adjacent fixes
type Step struct {
	From         track.Fix `json:"from"`
	To           track.Fix `json:"to"`
	DistanceKm   float64   `json:"distance_km"`
	ElapsedHours float64   `json:"elapsed_hours"`
	SpeedKmh     float64   `json:"speed_kmh"`
}

// Timed reports whether the step spans a positive amount of time. Untimed
// steps have a speed of 0.
func (s Step) Timed() bool {
	return s.ElapsedHours > 0
}

// Outlier reports whether the step is longer than the policy allows
func (s Step) Outlier(p Policy) bool {
	return s.DistanceKm > p.MaxStepDistanceKm
}

// Active reports whether the step moves at active-migration speed
func (s Step) Active(p Policy) bool {
	return s.Timed() && s.SpeedKmh >= p.ActiveSpeedKmh
}

// Steps returns the steps between consecutive fixes of a trajectory already
// sorted by timestamp. A trajectory with fewer than two fixes has no steps.
func Steps(fixes []track.Fix) ([]Step, error) {
	if len(fixes) < 2 {
		return []Step{}, nil
	}

	steps := make([]Step, 0, len(fixes)-1)
	for i := 1; i < len(fixes); i++ {
		step, err := NewStep(fixes[i-1], fixes[i])
		if err != nil {
			return nil, fmt.Errorf("step %d of %s: %w", i, fixes[i].IndividualID, err)
		}
		steps = append(steps, step)
	}
	return steps, nil
}

// NewStep computes distance, elapsed time and speed between two fixes
func NewStep(from, to track.Fix) (Step, error) {
	distance, err := geo.PointToPoint(from.Point(), to.Point())
	if err != nil {
		return Step{}, err
	}

	elapsed := to.Timestamp.Sub(from.Timestamp).Hours()
	speed := 0.0
	if elapsed > 0 {
		speed = distance / elapsed
	}

	return Step{
		From:         from,
		To:           to,
		DistanceKm:   distance,
		ElapsedHours: elapsed,
		SpeedKmh:     speed,
	}, nil
}

// Speeds returns one speed per fix: 0 for the first fix, then the speed of the
// step arriving at each following fix. An empty trajectory has no speeds.
func Speeds(fixes []track.Fix) ([]float64, error) {
	if len(fixes) == 0 {
		return []float64{}, nil
	}
	steps, err := Steps(fixes)
	if err != nil {
		return nil, err
	}

	speeds := make([]float64, 0, len(fixes))
	speeds = append(speeds, 0)
	for _, s := range steps {
		speeds = append(speeds, s.SpeedKmh)
	}
	return speeds, nil
}
