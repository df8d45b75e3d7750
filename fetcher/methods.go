package fetcher

import (
	"context"
	"fmt"
	"time"

	"github.com/driveahead/apexgo/f1"
)

// Typed endpoint wrappers over the Ergast-compatible API. Seasons are
// passed as strings ("2026" or "current") because that is how the upstream
// addresses them.

// getJSON fetches base URL + path and decodes the MRData envelope.
func (c *Client) getJSON(ctx context.Context, path string, out *f1.Response) error {
	resp, err := c.Get(ctx, c.config.BaseURL+"/"+path+".json", nil)
	if err != nil {
		return err
	}
	if err := resp.JSON(out); err != nil {
		return fmt.Errorf("apexgo: %s: failed to parse response: %w", path, err)
	}
	return nil
}

// DriverStandings returns the driver championship table for a season.
func (c *Client) DriverStandings(ctx context.Context, season string) ([]f1.DriverStanding, error) {
	var resp f1.Response
	if err := c.getJSON(ctx, season+"/driverStandings", &resp); err != nil {
		return nil, err
	}
	table := resp.MRData.StandingsTable
	if table == nil || len(table.StandingsLists) == 0 {
		return nil, nil
	}
	return table.StandingsLists[0].DriverStandings, nil
}

// ConstructorStandings returns the constructor championship table for a
// season.
func (c *Client) ConstructorStandings(ctx context.Context, season string) ([]f1.ConstructorStanding, error) {
	var resp f1.Response
	if err := c.getJSON(ctx, season+"/constructorStandings", &resp); err != nil {
		return nil, err
	}
	table := resp.MRData.StandingsTable
	if table == nil || len(table.StandingsLists) == 0 {
		return nil, nil
	}
	return table.StandingsLists[0].ConstructorStandings, nil
}

// Schedule returns the race calendar for a season.
func (c *Client) Schedule(ctx context.Context, season string) ([]f1.Race, error) {
	var resp f1.Response
	if err := c.getJSON(ctx, season, &resp); err != nil {
		return nil, err
	}
	if resp.MRData.RaceTable == nil {
		return nil, nil
	}
	return resp.MRData.RaceTable.Races, nil
}

// NextRace returns the first race of the current season's calendar that
// has not started yet, or nil when the season is over.
func (c *Client) NextRace(ctx context.Context) (*f1.Race, error) {
	races, err := c.Schedule(ctx, "current")
	if err != nil {
		return nil, err
	}
	return f1.NextRace(races, time.Now()), nil
}

// RaceResults returns the classified results for one round of a season.
func (c *Client) RaceResults(ctx context.Context, season, round string) (*f1.Race, error) {
	var resp f1.Response
	if err := c.getJSON(ctx, season+"/"+round+"/results", &resp); err != nil {
		return nil, err
	}
	table := resp.MRData.RaceTable
	if table == nil || len(table.Races) == 0 {
		return nil, nil
	}
	return &table.Races[0], nil
}
