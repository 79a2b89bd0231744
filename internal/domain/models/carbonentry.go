// internal/domain/models/carbonentry.go
package models

import (
	"errors"
	"time"

	"github.com/dalemusser/ecotrack/internal/app/system/inputval"
)

// ErrFutureDate is returned for entries dated after the current UTC day.
var ErrFutureDate = errors.New("cannot track carbon footprint for future dates")

// CarbonEntry is one day's footprint contribution. Entries are append-only.
type CarbonEntry struct {
	Date              time.Time `bson:"date" json:"date"`
	Transportation    float64   `bson:"transportation" json:"transportation" validate:"gte=0"`
	EnergyConsumption float64   `bson:"energy_consumption" json:"energyConsumption" validate:"gte=0"`
	WasteDisposal     float64   `bson:"waste_disposal" json:"wasteDisposal" validate:"gte=0"`
	TotalFootprint    float64   `bson:"total_footprint" json:"totalFootprint" validate:"gte=0"`
}

// NewCarbonEntry builds an entry dated to the UTC day of date, with the total
// computed from the three components. now is the reference for the
// future-date check.
func NewCarbonEntry(date time.Time, transportation, energy, waste float64, now time.Time) (CarbonEntry, error) {
	day := DayUTC(date)
	if day.After(DayUTC(now)) {
		return CarbonEntry{}, ErrFutureDate
	}
	e := CarbonEntry{
		Date:              day,
		Transportation:    transportation,
		EnergyConsumption: energy,
		WasteDisposal:     waste,
		TotalFootprint:    transportation + energy + waste,
	}
	if err := inputval.Struct(e); err != nil {
		return CarbonEntry{}, err
	}
	return e, nil
}

// DayUTC truncates t to midnight of its UTC calendar day.
func DayUTC(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
