package services

import (
	"context"
	"fmt"
	"io"

	"github.com/twpayne/go-kml"

	"github.com/dpup/migration.ersn.net/server/internal/dataset"
	"github.com/dpup/migration.ersn.net/server/internal/lib/migration"
	"github.com/dpup/migration.ersn.net/server/internal/lib/track"
)

// ExportKML writes the track lines of a species as a KML document with one
// folder per individual
func (s *MigrationService) ExportKML(ctx context.Context, speciesID string, w io.Writer) error {
	species, lines, err := s.trackLines(ctx, speciesID)
	if err != nil {
		return err
	}

	if err := BuildKML(species, lines).WriteIndent(w, "", "  "); err != nil {
		return fmt.Errorf("failed to write KML for %s: %w", speciesID, err)
	}
	return nil
}

// BuildKML renders track lines as a KML document. Lines are expected grouped
// by individual, as returned by the engine.
func BuildKML(species dataset.Species, lines []migration.TrackLine) *kml.CompoundElement {
	doc := kml.Document(
		kml.Name(species.Name),
		kml.Description(species.ScientificName),
	)

	var folder *kml.CompoundElement
	current, n := "", 0
	for _, line := range lines {
		if folder == nil || line.IndividualID != current {
			current, n = line.IndividualID, 0
			folder = kml.Folder(kml.Name(current))
			doc.Add(folder)
		}
		n++
		folder.Add(trackPlacemark(n, line))
	}

	return kml.KML(doc)
}

func trackPlacemark(seq int, line migration.TrackLine) *kml.CompoundElement {
	coords := make([]kml.Coordinate, len(line.Points))
	for i, p := range line.Points {
		coords[i] = kml.Coordinate{Lon: p.Longitude, Lat: p.Latitude}
	}

	name := fmt.Sprintf("%s #%d", line.IndividualID, seq)
	timeSpan := kml.TimeSpan(kml.Begin(line.Start), kml.End(line.End))
	description := kml.Description(fmt.Sprintf("%s to %s",
		track.FormatTimestamp(line.Start), track.FormatTimestamp(line.End)))

	// A single fix cannot form a LineString
	if len(coords) == 1 {
		return kml.Placemark(kml.Name(name), description, timeSpan, kml.Point(kml.Coordinates(coords...)))
	}

	return kml.Placemark(
		kml.Name(name),
		description,
		timeSpan,
		kml.LineString(
			kml.Tessellate(true),
			kml.Coordinates(coords...),
		),
	)
}
