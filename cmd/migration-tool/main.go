package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"golang.org/x/text/language"

	"github.com/dpup/migration.ersn.net/server/internal/dataset"
	"github.com/dpup/migration.ersn.net/server/internal/lib/geo"
	"github.com/dpup/migration.ersn.net/server/internal/lib/migration"
	"github.com/dpup/migration.ersn.net/server/internal/lib/segment"
	"github.com/dpup/migration.ersn.net/server/internal/lib/track"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "point-distance":
		handlePointDistance()
	case "season":
		handleSeason()
	case "decode-polyline":
		handleDecodePolyline()
	case "stats":
		handleStats()
	case "monthly":
		handleMonthly()
	case "help":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func handlePointDistance() {
	fs := flag.NewFlagSet("point-distance", flag.ExitOnError)
	lat1 := fs.Float64("lat1", 0, "Latitude of first point")
	lng1 := fs.Float64("lng1", 0, "Longitude of first point")
	lat2 := fs.Float64("lat2", 0, "Latitude of second point")
	lng2 := fs.Float64("lng2", 0, "Longitude of second point")

	_ = fs.Parse(os.Args[2:])

	if *lat1 == 0 && *lng1 == 0 && *lat2 == 0 && *lng2 == 0 {
		fmt.Println("Example usage:")
		fmt.Println("  migration-tool point-distance --lat1 52.52 --lng1 13.40 --lat2 -33.92 --lng2 18.42")
		fmt.Println("  (Berlin to Cape Town, a white stork flyway)")
		os.Exit(1)
	}

	distance, err := geo.Distance(*lat1, *lng1, *lat2, *lng2)
	if err != nil {
		log.Fatalf("Error calculating distance: %v", err)
	}

	fmt.Printf("Distance between points:\n")
	fmt.Printf("  Point 1: (%.6f, %.6f)\n", *lat1, *lng1)
	fmt.Printf("  Point 2: (%.6f, %.6f)\n", *lat2, *lng2)
	fmt.Printf("  Distance: %.2f km (%.2f miles)\n", distance, distance*0.621371)
}

func handleSeason() {
	fs := flag.NewFlagSet("season", flag.ExitOnError)
	date := fs.String("date", "", "Timestamp to classify")
	lang := fs.String("lang", "en", "Language of the season label")

	_ = fs.Parse(os.Args[2:])

	if *date == "" {
		fmt.Println("Example usage:")
		fmt.Println("  migration-tool season --date 2021-03-21")
		fmt.Println("  migration-tool season --date \"2021-12-01 08:00:00\" --lang fr")
		os.Exit(1)
	}

	ts, err := track.ParseTimestamp(*date)
	if err != nil {
		log.Fatalf("Error parsing date: %v", err)
	}
	tag, err := language.Parse(*lang)
	if err != nil {
		log.Fatalf("Error parsing language: %v", err)
	}

	season := geo.SeasonOf(ts)
	fmt.Printf("Season of %s: %s (%s)\n", track.FormatTimestamp(ts), season, season.Label(tag))
}

func handleDecodePolyline() {
	fs := flag.NewFlagSet("decode-polyline", flag.ExitOnError)
	polylineStr := fs.String("polyline", "", "Encoded polyline string to decode")
	verbose := fs.Bool("verbose", false, "Show all decoded points")

	_ = fs.Parse(os.Args[2:])

	if *polylineStr == "" {
		fmt.Println("Example usage:")
		fmt.Println("  migration-tool decode-polyline --polyline \"_p~iF~ps|U_ulLnnqC_mqNvxq`@\"")
		fmt.Println("  migration-tool decode-polyline --polyline \"encoded_string\" --verbose")
		os.Exit(1)
	}

	points, err := geo.DecodePolyline(*polylineStr)
	if err != nil {
		log.Fatalf("Error decoding polyline: %v", err)
	}

	fmt.Printf("Polyline decoded successfully:\n")
	fmt.Printf("  Input: %s\n", *polylineStr)
	fmt.Printf("  Points: %d\n", len(points))
	fmt.Printf("  Start: (%.6f, %.6f)\n", points[0].Latitude, points[0].Longitude)
	if len(points) > 1 {
		fmt.Printf("  End: (%.6f, %.6f)\n", points[len(points)-1].Latitude, points[len(points)-1].Longitude)
	}

	if *verbose {
		fmt.Printf("  All points:\n")
		for i, point := range points {
			fmt.Printf("    %d: (%.6f, %.6f)\n", i+1, point.Latitude, point.Longitude)
		}
	}
}

// datasetFlags registers the flags shared by commands that read a dataset
func datasetFlags(fs *flag.FlagSet) (file *string, maxStep, activeSpeed *float64) {
	policy := segment.DefaultPolicy()
	file = fs.String("file", "", "Cleaned or raw CSV dataset")
	maxStep = fs.Float64("max-step-km", policy.MaxStepDistanceKm, "Steps longer than this are GPS outliers")
	activeSpeed = fs.Float64("active-speed", policy.ActiveSpeedKmh, "Minimum speed of active migration in km/h")
	return file, maxStep, activeSpeed
}

func loadFixes(path string) []track.Fix {
	f, err := os.Open(path)
	if err != nil {
		log.Fatalf("Error opening dataset: %v", err)
	}
	defer f.Close()

	table, err := dataset.ReadTable(f)
	if err != nil {
		log.Fatalf("Error reading dataset: %v", err)
	}

	result := track.Clean(table)
	if dropped := result.Report.Dropped(); dropped > 0 {
		fmt.Printf("Dropped %d of %d rows while cleaning\n", dropped, result.Report.InputRows)
	}
	return result.Fixes
}

func handleStats() {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	file, maxStep, activeSpeed := datasetFlags(fs)

	_ = fs.Parse(os.Args[2:])

	if *file == "" {
		fmt.Println("Example usage:")
		fmt.Println("  migration-tool stats --file data/cleaned/storks_cleaned.csv")
		os.Exit(1)
	}

	fixes := loadFixes(*file)
	engine := migration.NewEngine(segment.Policy{MaxStepDistanceKm: *maxStep, ActiveSpeedKmh: *activeSpeed})

	stats, err := engine.Stats(fixes)
	if err != nil {
		log.Fatalf("Error computing statistics: %v", err)
	}
	total, err := engine.TotalDistance(fixes)
	if err != nil {
		log.Fatalf("Error computing total distance: %v", err)
	}

	fmt.Printf("Migration statistics:\n")
	fmt.Printf("  Fixes: %d\n", len(fixes))
	fmt.Printf("  Individuals: %d\n", len(track.Individuals(fixes)))
	fmt.Printf("  Avg active distance: %d km\n", stats.AvgActiveDistanceKm)
	fmt.Printf("  Avg active duration: %d days\n", stats.AvgActiveDurationDays)
	fmt.Printf("  Avg speed: %d km/h\n", stats.AvgSpeedKmh)
	fmt.Printf("  Max amplitude: %d km\n", stats.MaxAmplitudeKm)
	fmt.Printf("  Total distance: %.1f km\n", total)

	fmt.Printf("  Fixes by season:\n")
	for _, count := range migration.SeasonalBreakdown(fixes) {
		fmt.Printf("    %-7s %d\n", count.Season, count.Fixes)
	}
}

func handleMonthly() {
	fs := flag.NewFlagSet("monthly", flag.ExitOnError)
	file, maxStep, activeSpeed := datasetFlags(fs)

	_ = fs.Parse(os.Args[2:])

	if *file == "" {
		fmt.Println("Example usage:")
		fmt.Println("  migration-tool monthly --file data/cleaned/storks_cleaned.csv")
		os.Exit(1)
	}

	fixes := loadFixes(*file)
	engine := migration.NewEngine(segment.Policy{MaxStepDistanceKm: *maxStep, ActiveSpeedKmh: *activeSpeed})

	summary, err := engine.MonthlyDistanceSummary(fixes)
	if err != nil {
		log.Fatalf("Error computing monthly summary: %v", err)
	}
	if len(summary) == 0 {
		fmt.Println("No month has two or more fixes of one individual")
		return
	}

	fmt.Printf("%-8s %10s %10s %10s %12s\n", "Period", "Mean km", "Min km", "Max km", "Individuals")
	fmt.Println(strings.Repeat("-", 54))
	for _, m := range summary {
		fmt.Printf("%-8s %10.1f %10.1f %10.1f %12d\n", m.Period, m.MeanKm, m.MinKm, m.MaxKm, m.Individuals)
	}

	speeds, err := engine.MonthlySpeedProfile(fixes)
	if err != nil {
		log.Fatalf("Error computing speed profile: %v", err)
	}
	fmt.Printf("\nSpeed by month of year:\n")
	for _, s := range speeds {
		fmt.Printf("  %-9s %6.1f km/h over %.1f km (%d individuals)\n",
			s.Month, s.MeanSpeedKmh, s.TotalDistanceKm, s.Individuals)
	}
}

func printUsage() {
	fmt.Printf(`migration-tool - Migration analytics utility

USAGE:
    migration-tool <command> [options]

COMMANDS:
    point-distance      Calculate great-circle distance between two points
    season              Classify a date into a meteorological season
    decode-polyline     Decode a track line polyline string to coordinates
    stats               Compute migration statistics of a dataset
    monthly             Show monthly distance and speed summaries of a dataset
    help                Show this help message

EXAMPLES:
    # Berlin to Cape Town
    migration-tool point-distance --lat1 52.52 --lng1 13.40 --lat2 -33.92 --lng2 18.42

    # Season label in French
    migration-tool season --date 2021-12-01 --lang fr

    # Statistics with a stricter outlier cap
    migration-tool stats --file data/cleaned/storks_cleaned.csv --max-step-km 200

    # Monthly summary
    migration-tool monthly --file data/cleaned/storks_cleaned.csv

For more information, visit: https://github.com/dpup/migration.ersn.net
`)
}
