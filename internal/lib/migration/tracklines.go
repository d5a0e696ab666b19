package migration

import (
	"github.com/dpup/migration.ersn.net/server/internal/lib/geo"
	"github.com/dpup/migration.ersn.net/server/internal/lib/track"
)

// TrackLines splits each individual's path into continuous lines, breaking at
// outlier steps. A break starts a new line at the far fix of the jump, so no
// line contains a step longer than the policy allows.
func (e *Engine) TrackLines(fixes []track.Fix) ([]TrackLine, error) {
	analyzed, err := analyze(fixes)
	if err != nil {
		return nil, err
	}

	lines := make([]TrackLine, 0, len(analyzed))
	for _, traj := range analyzed {
		if len(traj.Fixes) == 0 {
			continue
		}

		current := []track.Fix{traj.Fixes[0]}
		for _, step := range traj.steps {
			if step.Outlier(e.policy) {
				lines = append(lines, newTrackLine(traj.IndividualID, current))
				current = []track.Fix{step.To}
				continue
			}
			current = append(current, step.To)
		}
		lines = append(lines, newTrackLine(traj.IndividualID, current))
	}
	return lines, nil
}

func newTrackLine(individual string, fixes []track.Fix) TrackLine {
	points := make([]geo.Point, len(fixes))
	for i, f := range fixes {
		points[i] = f.Point()
	}
	return TrackLine{
		IndividualID: individual,
		Start:        fixes[0].Timestamp,
		End:          fixes[len(fixes)-1].Timestamp,
		Points:       points,
		Polyline:     geo.EncodePolyline(points),
	}
}
