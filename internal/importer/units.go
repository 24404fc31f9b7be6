package importer

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"alcyxob/workout-tracker/internal/domain"
)

const (
	// PoundsToKilograms converts weight_lbs to kilograms.
	PoundsToKilograms = 0.45359237
	// MilesToMeters converts distance_miles to meters.
	MilesToMeters = 1609.34
	// MaxPlausibleMiles is the restore-path threshold above which a distance is
	// taken to have been entered in meters already.
	MaxPlausibleMiles = 20.0
	// DateTimeLayout is the export's "D Mon YYYY, HH:MM" timestamp format.
	DateTimeLayout = "2 Jan 2006, 15:04"
)

// Round2 rounds to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// PoundsToKg converts and rounds a weight to storage precision.
func PoundsToKg(lbs float64) float64 {
	return Round2(lbs * PoundsToKilograms)
}

// ParseTimestamp parses an export timestamp in loc.
func ParseTimestamp(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	return time.ParseInLocation(DateTimeLayout, strings.TrimSpace(s), loc)
}

func parseOptionalFloat(field, s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, fmt.Errorf("invalid %s %q", field, s)
	}
	return &v, nil
}

// parseOptionalInt accepts integral values written either as "10" or "10.0".
func parseOptionalInt(field, s string) (*int, error) {
	if s == "" {
		return nil, nil
	}
	if v, err := strconv.Atoi(s); err == nil {
		return &v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || f != math.Trunc(f) {
		return nil, fmt.Errorf("invalid %s %q", field, s)
	}
	v := int(f)
	return &v, nil
}

// Set is one parsed set, already converted to storage units.
type Set struct {
	Line            int
	SetNumber       int
	Reps            *int
	WeightKg        *float64
	DistanceM       *float64
	DurationSeconds *int
	Notes           *string
}

// ToDomain builds the set row for a stored workout exercise.
func (s Set) ToDomain(workoutExerciseID int64) *domain.WorkoutSet {
	return &domain.WorkoutSet{
		WorkoutExerciseID: workoutExerciseID,
		SetNumber:         s.SetNumber,
		Reps:              s.Reps,
		WeightKg:          s.WeightKg,
		DistanceM:         s.DistanceM,
		DurationSeconds:   s.DurationSeconds,
		Notes:             s.Notes,
	}
}

// ParseOptions tunes set parsing for the two import paths.
type ParseOptions struct {
	// LargeDistanceIsMeters keeps distances above MaxPlausibleMiles as meters.
	LargeDistanceIsMeters bool
}

// ParseSet converts one row into a Set.
//
// Sled movements are logged with the sled load in the distance column; when
// the title mentions a sled, weight is empty and distance is set, the distance
// value is read as pounds and the distance cleared. Distances that do not fit
// the distance_m column are dropped and a warning is appended to the notes.
func ParseSet(row Row, opts ParseOptions) (Set, error) {
	set := Set{Line: row.Line, SetNumber: 1}

	if row.SetIndex != "" {
		idx, err := strconv.Atoi(row.SetIndex)
		if err != nil || idx < 0 {
			return Set{}, fmt.Errorf("invalid set_index %q", row.SetIndex)
		}
		set.SetNumber = idx + 1
	}

	weightField, distanceField := row.WeightLbs, row.DistanceMiles
	if domain.IsSled(row.ExerciseTitle) && weightField == "" && distanceField != "" {
		weightField, distanceField = distanceField, ""
	}

	lbs, err := parseOptionalFloat(ColWeightLbs, weightField)
	if err != nil {
		return Set{}, err
	}
	if lbs != nil {
		kg := PoundsToKg(*lbs)
		set.WeightKg = &kg
	}

	if set.Reps, err = parseOptionalInt(ColReps, row.Reps); err != nil {
		return Set{}, err
	}
	if set.DurationSeconds, err = parseOptionalInt(ColDurationSeconds, row.DurationSeconds); err != nil {
		return Set{}, err
	}

	notes := row.ExerciseNotes
	miles, err := parseOptionalFloat(ColDistanceMiles, distanceField)
	if err != nil {
		return Set{}, err
	}
	if miles != nil {
		meters := Round2(*miles * MilesToMeters)
		if opts.LargeDistanceIsMeters && *miles > MaxPlausibleMiles {
			meters = Round2(*miles)
		}
		if meters > domain.MaxDistanceMeters {
			notes = appendNote(notes, fmt.Sprintf(
				"[import] distance %.2f m exceeds the storable maximum of %.2f m and was removed", meters, domain.MaxDistanceMeters))
		} else {
			set.DistanceM = &meters
		}
	}

	if notes != "" {
		set.Notes = &notes
	}
	return set, nil
}

func appendNote(notes, warning string) string {
	if notes == "" {
		return warning
	}
	return notes + " " + warning
}
