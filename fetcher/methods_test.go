package fetcher_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driveahead/apexgo/internal/testutil"
)

func TestDriverStandings_ParsesTable(t *testing.T) {
	server := testutil.NewMockServer(t)
	server.On("/2026/driverStandings.json", func(w http.ResponseWriter, r *http.Request) {
		testutil.ReplyRaw(w, testutil.DriverStandingsJSON)
	})

	client := testutil.NewTestClient(t, server.URL)

	standings, err := client.DriverStandings(context.Background(), "2026")
	require.NoError(t, err)
	require.Len(t, standings, 2)

	leader := standings[0]
	assert.Equal(t, 1, leader.PositionValue())
	assert.Equal(t, "George Russell", leader.Driver.FullName())
	assert.Equal(t, 331.0, leader.PointsValue())
	assert.Equal(t, 7, leader.WinsValue())
	require.Len(t, leader.Constructors, 1)
	assert.Equal(t, "Mercedes", leader.Constructors[0].Name)

	assert.Equal(t, "max_verstappen", standings[1].Driver.DriverID)
}

func TestDriverStandings_EmptySeasonReturnsNil(t *testing.T) {
	server := testutil.NewMockServer(t)

	client := testutil.NewTestClient(t, server.URL)

	standings, err := client.DriverStandings(context.Background(), "2099")
	require.NoError(t, err)
	assert.Nil(t, standings)
}

func TestConstructorStandings_ParsesTable(t *testing.T) {
	server := testutil.NewMockServer(t)
	server.On("/current/constructorStandings.json", func(w http.ResponseWriter, r *http.Request) {
		testutil.ReplyRaw(w, testutil.ConstructorStandingsJSON)
	})

	client := testutil.NewTestClient(t, server.URL)

	standings, err := client.ConstructorStandings(context.Background(), "current")
	require.NoError(t, err)
	require.NotEmpty(t, standings)
	assert.Equal(t, "Mercedes", standings[0].Constructor.Name)
	assert.Equal(t, 512.0, standings[0].PointsValue())
}

func TestSchedule_ParsesCalendar(t *testing.T) {
	server := testutil.NewMockServer(t)
	server.On("/2026.json", func(w http.ResponseWriter, r *http.Request) {
		testutil.ReplyRaw(w, testutil.ScheduleJSON)
	})

	client := testutil.NewTestClient(t, server.URL)

	races, err := client.Schedule(context.Background(), "2026")
	require.NoError(t, err)
	require.Len(t, races, 2)
	assert.Equal(t, 1, races[0].RoundValue())
	assert.Equal(t, "Bahrain Grand Prix", races[0].RaceName)
	assert.False(t, races[0].Start().IsZero())
}

func TestNextRace_PicksFirstFutureRace(t *testing.T) {
	server := testutil.NewMockServer(t)
	server.On("/current.json", func(w http.ResponseWriter, r *http.Request) {
		testutil.ReplyRaw(w, testutil.ScheduleJSON)
	})

	client := testutil.NewTestClient(t, server.URL)

	race, err := client.NextRace(context.Background())
	require.NoError(t, err)
	require.NotNil(t, race)
	assert.Equal(t, "Saudi Arabian Grand Prix", race.RaceName)
}

func TestNextRace_SeasonOverReturnsNil(t *testing.T) {
	server := testutil.NewMockServer(t)

	client := testutil.NewTestClient(t, server.URL)

	race, err := client.NextRace(context.Background())
	require.NoError(t, err)
	assert.Nil(t, race)
}

func TestRaceResults_ParsesClassification(t *testing.T) {
	server := testutil.NewMockServer(t)
	server.On("/2026/18/results.json", func(w http.ResponseWriter, r *http.Request) {
		testutil.ReplyRaw(w, testutil.RaceResultsJSON)
	})

	client := testutil.NewTestClient(t, server.URL)

	race, err := client.RaceResults(context.Background(), "2026", "18")
	require.NoError(t, err)
	require.NotNil(t, race)
	assert.Equal(t, "Singapore Grand Prix", race.RaceName)
	require.NotEmpty(t, race.Results)
	assert.Equal(t, 1, race.Results[0].PositionValue())
	assert.Equal(t, "George Russell", race.Results[0].Driver.FullName())
}

func TestRaceResults_MissingRoundReturnsNil(t *testing.T) {
	server := testutil.NewMockServer(t)

	client := testutil.NewTestClient(t, server.URL)

	race, err := client.RaceResults(context.Background(), "2026", "99")
	require.NoError(t, err)
	assert.Nil(t, race)
}
