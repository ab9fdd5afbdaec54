package types

// Event is one disaster record as stored in the events collection.
// Impact metrics and coordinates are pointers because the source dataset
// leaves them empty for many historical rows. Aggregations coerce nil to 0;
// forecasting drops nil rows entirely (see forecast package).
type Event struct {
	DisNo     string `firestore:"disNo" json:"dis_no"`
	Category  string `firestore:"category" json:"category"`
	Subtype   string `firestore:"subtype,omitempty" json:"subtype,omitempty"`
	EventName string `firestore:"eventName,omitempty" json:"event_name,omitempty"`

	Country   string `firestore:"country" json:"country"`
	Region    string `firestore:"region,omitempty" json:"region,omitempty"`
	Subregion string `firestore:"subregion,omitempty" json:"subregion,omitempty"`
	// Location is the free-text location hierarchy, comma separated
	// (e.g. "Rio de Janeiro city, Rio de Janeiro province").
	Location string `firestore:"location,omitempty" json:"location,omitempty"`

	Latitude  *float64 `firestore:"latitude,omitempty" json:"latitude,omitempty"`
	Longitude *float64 `firestore:"longitude,omitempty" json:"longitude,omitempty"`

	StartYear  int `firestore:"startYear" json:"start_year"`
	StartMonth int `firestore:"startMonth,omitempty" json:"start_month,omitempty"`
	StartDay   int `firestore:"startDay,omitempty" json:"start_day,omitempty"`

	Deaths              *int64   `firestore:"deaths,omitempty" json:"deaths,omitempty"`
	Injured             *int64   `firestore:"injured,omitempty" json:"injured,omitempty"`
	Affected            *int64   `firestore:"affected,omitempty" json:"affected,omitempty"`
	Homeless            *int64   `firestore:"homeless,omitempty" json:"homeless,omitempty"`
	DamageUSD           *float64 `firestore:"damageUsd,omitempty" json:"damage_usd,omitempty"`
	InsuredDamageUSD    *float64 `firestore:"insuredDamageUsd,omitempty" json:"insured_damage_usd,omitempty"`
	ReconstructionUSD   *float64 `firestore:"reconstructionUsd,omitempty" json:"reconstruction_usd,omitempty"`
}

// HasCoordinates reports whether the event carries its own lat/long pair.
func (e *Event) HasCoordinates() bool {
	return e.Latitude != nil && e.Longitude != nil
}

// DeathsOrZero returns the death toll with nil coerced to 0.
func (e *Event) DeathsOrZero() int64 {
	if e.Deaths == nil {
		return 0
	}
	return *e.Deaths
}

// AffectedOrZero returns the affected count with nil coerced to 0.
func (e *Event) AffectedOrZero() int64 {
	if e.Affected == nil {
		return 0
	}
	return *e.Affected
}

// DamageOrZero returns the total damage in USD with nil coerced to 0.
func (e *Event) DamageOrZero() float64 {
	if e.DamageUSD == nil {
		return 0
	}
	return *e.DamageUSD
}
