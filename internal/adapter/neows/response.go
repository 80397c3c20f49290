package neows

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/couchcryptid/neo-impact-service/internal/domain"
)

// NeoWs feed response types.

type feedResponse struct {
	ElementCount     int                          `json:"element_count"`
	NearEarthObjects map[string][]nearEarthObject `json:"near_earth_objects"`
}

type nearEarthObject struct {
	ID                string            `json:"id"`
	Name              string            `json:"name"`
	Hazardous         bool              `json:"is_potentially_hazardous_asteroid"`
	EstimatedDiameter estimatedDiameter `json:"estimated_diameter"`
	CloseApproachData []closeApproach   `json:"close_approach_data"`
}

type estimatedDiameter struct {
	Meters *diameterRange `json:"meters"`
}

type diameterRange struct {
	Min *float64 `json:"estimated_diameter_min"`
	Max *float64 `json:"estimated_diameter_max"`
}

type closeApproach struct {
	RelativeVelocity struct {
		KilometersPerSecond string `json:"kilometers_per_second"`
	} `json:"relative_velocity"`
	MissDistance struct {
		Kilometers string `json:"kilometers"`
	} `json:"miss_distance"`
}

// records flattens the date-keyed grouping into one slice, dates ascending
// and upstream order within a date. Any incomplete object fails the whole feed.
func (r feedResponse) records() ([]domain.AsteroidRecord, error) {
	if r.NearEarthObjects == nil {
		return nil, fmt.Errorf("%w: missing near_earth_objects", ErrMalformedFeed)
	}

	dates := make([]string, 0, len(r.NearEarthObjects))
	total := 0
	for date, objs := range r.NearEarthObjects {
		dates = append(dates, date)
		total += len(objs)
	}
	slices.Sort(dates)

	out := make([]domain.AsteroidRecord, 0, total)
	for _, date := range dates {
		for _, obj := range r.NearEarthObjects[date] {
			rec, err := obj.toRecord(date)
			if err != nil {
				return nil, err
			}
			out = append(out, rec)
		}
	}
	return out, nil
}

func (o nearEarthObject) toRecord(date string) (domain.AsteroidRecord, error) {
	if o.ID == "" {
		return domain.AsteroidRecord{}, fmt.Errorf("%w: object on %s has no id", ErrMalformedFeed, date)
	}
	m := o.EstimatedDiameter.Meters
	if m == nil || m.Min == nil || m.Max == nil {
		return domain.AsteroidRecord{}, fmt.Errorf("%w: object %s has no diameter estimate in meters", ErrMalformedFeed, o.ID)
	}
	if len(o.CloseApproachData) == 0 {
		return domain.AsteroidRecord{}, fmt.Errorf("%w: object %s has no close approach data", ErrMalformedFeed, o.ID)
	}

	if !validMeasure(*m.Min) || !validMeasure(*m.Max) {
		return domain.AsteroidRecord{}, fmt.Errorf("%w: object %s has an invalid diameter estimate", ErrMalformedFeed, o.ID)
	}

	approach := o.CloseApproachData[0]
	velocity, err := parseDecimal(approach.RelativeVelocity.KilometersPerSecond)
	if err != nil {
		return domain.AsteroidRecord{}, fmt.Errorf("%w: object %s relative velocity: %v", ErrMalformedFeed, o.ID, err)
	}
	miss, err := parseDecimal(approach.MissDistance.Kilometers)
	if err != nil {
		return domain.AsteroidRecord{}, fmt.Errorf("%w: object %s miss distance: %v", ErrMalformedFeed, o.ID, err)
	}

	return domain.AsteroidRecord{
		ID:                o.ID,
		Name:              o.Name,
		DiameterM:         domain.AverageDiameter(*m.Min, *m.Max),
		VelocityKmS:       velocity,
		MissDistanceKm:    miss,
		CloseApproachDate: date,
		Hazardous:         o.Hazardous,
	}, nil
}

// parseDecimal parses the feed's string-encoded numbers, e.g. "12.3456789".
// Only finite, non-negative values are accepted.
func parseDecimal(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("empty value")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if !validMeasure(v) {
		return 0, fmt.Errorf("%q is not a finite non-negative number", s)
	}
	return v, nil
}

func validMeasure(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}
