package f1

import (
	"strconv"
	"time"
)

// Response is the envelope every Ergast-compatible endpoint wraps its
// payload in. Exactly one of the *Table fields is populated depending on
// the endpoint that was queried.
type Response struct {
	MRData MRData `json:"MRData"`
}

// MRData carries paging metadata plus the payload tables.
type MRData struct {
	Series string `json:"series"`
	URL    string `json:"url"`
	Limit  string `json:"limit"`
	Offset string `json:"offset"`
	Total  string `json:"total"`

	StandingsTable *StandingsTable `json:"StandingsTable,omitempty"`
	RaceTable      *RaceTable      `json:"RaceTable,omitempty"`
}

// StandingsTable holds championship standings for a season.
type StandingsTable struct {
	Season         string          `json:"season"`
	StandingsLists []StandingsList `json:"StandingsLists"`
}

// StandingsList is one snapshot of the championship after a given round.
type StandingsList struct {
	Season               string                `json:"season"`
	Round                string                `json:"round"`
	DriverStandings      []DriverStanding      `json:"DriverStandings,omitempty"`
	ConstructorStandings []ConstructorStanding `json:"ConstructorStandings,omitempty"`
}

// DriverStanding is a single driver's row in the championship table.
// Numeric fields arrive as JSON strings; use the parse helpers.
type DriverStanding struct {
	Position     string        `json:"position"`
	PositionText string        `json:"positionText"`
	Points       string        `json:"points"`
	Wins         string        `json:"wins"`
	Driver       Driver        `json:"Driver"`
	Constructors []Constructor `json:"Constructors"`
}

// PositionValue returns Position as an int, 0 when unparseable.
func (s DriverStanding) PositionValue() int { return atoi(s.Position) }

// PointsValue returns Points as a float64, 0 when unparseable.
func (s DriverStanding) PointsValue() float64 { return atof(s.Points) }

// WinsValue returns Wins as an int, 0 when unparseable.
func (s DriverStanding) WinsValue() int { return atoi(s.Wins) }

// ConstructorStanding is a single constructor's row in the championship table.
type ConstructorStanding struct {
	Position     string      `json:"position"`
	PositionText string      `json:"positionText"`
	Points       string      `json:"points"`
	Wins         string      `json:"wins"`
	Constructor  Constructor `json:"Constructor"`
}

// PositionValue returns Position as an int, 0 when unparseable.
func (s ConstructorStanding) PositionValue() int { return atoi(s.Position) }

// PointsValue returns Points as a float64, 0 when unparseable.
func (s ConstructorStanding) PointsValue() float64 { return atof(s.Points) }

// WinsValue returns Wins as an int, 0 when unparseable.
func (s ConstructorStanding) WinsValue() int { return atoi(s.Wins) }

// Driver identifies a driver.
type Driver struct {
	DriverID        string `json:"driverId"`
	PermanentNumber string `json:"permanentNumber,omitempty"`
	Code            string `json:"code,omitempty"`
	URL             string `json:"url,omitempty"`
	GivenName       string `json:"givenName"`
	FamilyName      string `json:"familyName"`
	DateOfBirth     string `json:"dateOfBirth,omitempty"`
	Nationality     string `json:"nationality,omitempty"`
}

// FullName returns "GivenName FamilyName".
func (d Driver) FullName() string { return d.GivenName + " " + d.FamilyName }

// Constructor identifies a constructor (team).
type Constructor struct {
	ConstructorID string `json:"constructorId"`
	URL           string `json:"url,omitempty"`
	Name          string `json:"name"`
	Nationality   string `json:"nationality,omitempty"`
}

// RaceTable holds the races of a season (schedule or results).
type RaceTable struct {
	Season string `json:"season"`
	Round  string `json:"round,omitempty"`
	Races  []Race `json:"Races"`
}

// Race is one grand prix: schedule entry, optionally with results.
type Race struct {
	Season   string   `json:"season"`
	Round    string   `json:"round"`
	URL      string   `json:"url,omitempty"`
	RaceName string   `json:"raceName"`
	Circuit  Circuit  `json:"Circuit"`
	Date     string   `json:"date"`
	Time     string   `json:"time,omitempty"`
	Results  []Result `json:"Results,omitempty"`
}

// RoundValue returns Round as an int, 0 when unparseable.
func (r Race) RoundValue() int { return atoi(r.Round) }

// Start combines Date and Time into a UTC timestamp. The zero time is
// returned when the race has no parseable date.
func (r Race) Start() time.Time {
	if r.Date == "" {
		return time.Time{}
	}
	if r.Time != "" {
		if t, err := time.Parse("2006-01-02 15:04:05Z", r.Date+" "+r.Time); err == nil {
			return t
		}
	}
	t, err := time.Parse("2006-01-02", r.Date)
	if err != nil {
		return time.Time{}
	}
	return t
}

// NextRace returns the first race in races whose start is after now, or
// nil when none remain. Races without a parseable date are skipped.
func NextRace(races []Race, now time.Time) *Race {
	for i := range races {
		if start := races[i].Start(); !start.IsZero() && start.After(now) {
			return &races[i]
		}
	}
	return nil
}

// Circuit identifies a circuit and its location.
type Circuit struct {
	CircuitID   string   `json:"circuitId"`
	URL         string   `json:"url,omitempty"`
	CircuitName string   `json:"circuitName"`
	Location    Location `json:"Location"`
}

// Location is a circuit's geographic position.
type Location struct {
	Lat      string `json:"lat,omitempty"`
	Long     string `json:"long,omitempty"`
	Locality string `json:"locality,omitempty"`
	Country  string `json:"country,omitempty"`
}

// Result is a single classified finisher in a race.
type Result struct {
	Number       string      `json:"number"`
	Position     string      `json:"position"`
	PositionText string      `json:"positionText"`
	Points       string      `json:"points"`
	Driver       Driver      `json:"Driver"`
	Constructor  Constructor `json:"Constructor"`
	Grid         string      `json:"grid,omitempty"`
	Laps         string      `json:"laps,omitempty"`
	Status       string      `json:"status,omitempty"`
}

// PositionValue returns Position as an int, 0 when unparseable.
func (r Result) PositionValue() int { return atoi(r.Position) }

// PointsValue returns Points as a float64, 0 when unparseable.
func (r Result) PointsValue() float64 { return atof(r.Points) }

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func atof(s string) float64 {
	f, _ := strconv.ParseFloat(s, 64)
	return f
}
