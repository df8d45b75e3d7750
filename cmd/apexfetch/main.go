package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/driveahead/apexgo"
	"github.com/driveahead/apexgo/f1"
	"github.com/driveahead/apexgo/fetcher"
)

var (
	season    = flag.String("season", "current", "Season to query (year or \"current\")")
	round     = flag.String("round", "", "Round number for the results command")
	cachePath = flag.String("cache", "apexfetch.db", "Path to the cache database (empty for in-memory)")
	showStats = flag.Bool("stats", false, "Print request and cache stats after the command")
	asJSON    = flag.Bool("json", false, "Print raw JSON instead of a table")
)

func main() {
	flag.Parse()

	logLevel := slog.LevelWarn
	if os.Getenv("APEXFETCH_LOG_LEVEL") == "debug" {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	command := flag.Arg(0)
	if command == "" {
		usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := apexgo.DefaultConfig()
	fetcherCfg, err := fetcher.LoadConfig()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg.Fetcher = *fetcherCfg
	cfg.Cache.Path = *cachePath

	client, err := apexgo.New(ctx, cfg, apexgo.WithLogger(logger))
	if err != nil {
		logger.Error("failed to create client", "error", err)
		os.Exit(1)
	}
	defer client.Close()

	if err := run(ctx, client, command); err != nil {
		logger.Error("command failed", "command", command, "error", err)
		os.Exit(1)
	}

	if *showStats {
		printStats(ctx, client)
	}
}

func run(ctx context.Context, client *apexgo.Client, command string) error {
	switch command {
	case "drivers":
		standings, err := client.DriverStandings(ctx, *season)
		if err != nil {
			return err
		}
		return printDriverStandings(standings)
	case "constructors":
		standings, err := client.ConstructorStandings(ctx, *season)
		if err != nil {
			return err
		}
		return printConstructorStandings(standings)
	case "schedule":
		races, err := client.Schedule(ctx, *season)
		if err != nil {
			return err
		}
		return printSchedule(races)
	case "next":
		race, err := client.NextRace(ctx)
		if err != nil {
			return err
		}
		if race == nil {
			fmt.Println("no more races this season")
			return nil
		}
		return printRace(race)
	case "results":
		if *round == "" {
			return fmt.Errorf("the results command requires -round")
		}
		race, err := client.RaceResults(ctx, *season, *round)
		if err != nil {
			return err
		}
		if race == nil {
			fmt.Println("no results for that round yet")
			return nil
		}
		return printResults(race)
	case "warm":
		return client.Warm(ctx, *season)
	default:
		usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: apexfetch [flags] <command>")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "commands:")
	fmt.Fprintln(os.Stderr, "  drivers       driver championship standings")
	fmt.Fprintln(os.Stderr, "  constructors  constructor championship standings")
	fmt.Fprintln(os.Stderr, "  schedule      race calendar for a season")
	fmt.Fprintln(os.Stderr, "  next          next race on the current calendar")
	fmt.Fprintln(os.Stderr, "  results       classified results for one round (-round)")
	fmt.Fprintln(os.Stderr, "  warm          pre-populate the cache for a season")
	fmt.Fprintln(os.Stderr, "")
	flag.PrintDefaults()
}

func printDriverStandings(standings []f1.DriverStanding) error {
	if *asJSON {
		return printJSON(standings)
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "POS\tDRIVER\tCONSTRUCTOR\tPOINTS\tWINS")
	for _, s := range standings {
		team := ""
		if len(s.Constructors) > 0 {
			team = s.Constructors[0].Name
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", s.Position, s.Driver.FullName(), team, s.Points, s.Wins)
	}
	return w.Flush()
}

func printConstructorStandings(standings []f1.ConstructorStanding) error {
	if *asJSON {
		return printJSON(standings)
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "POS\tCONSTRUCTOR\tPOINTS\tWINS")
	for _, s := range standings {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.Position, s.Constructor.Name, s.Points, s.Wins)
	}
	return w.Flush()
}

func printSchedule(races []f1.Race) error {
	if *asJSON {
		return printJSON(races)
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ROUND\tRACE\tCIRCUIT\tDATE")
	for _, r := range races {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.Round, r.RaceName, r.Circuit.CircuitName, r.Date)
	}
	return w.Flush()
}

func printRace(race *f1.Race) error {
	if *asJSON {
		return printJSON(race)
	}
	fmt.Printf("Round %s: %s\n", race.Round, race.RaceName)
	fmt.Printf("Circuit: %s, %s, %s\n", race.Circuit.CircuitName, race.Circuit.Location.Locality, race.Circuit.Location.Country)
	fmt.Printf("Date: %s %s\n", race.Date, race.Time)
	return nil
}

func printResults(race *f1.Race) error {
	if *asJSON {
		return printJSON(race)
	}
	fmt.Printf("%s (round %s)\n\n", race.RaceName, race.Round)
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "POS\tDRIVER\tCONSTRUCTOR\tPOINTS\tSTATUS")
	for _, r := range race.Results {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", r.Position, r.Driver.FullName(), r.Constructor.Name, r.Points, r.Status)
	}
	return w.Flush()
}

func printStats(ctx context.Context, client *apexgo.Client) {
	stats := client.Stats(ctx)
	data, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return
	}
	fmt.Fprintln(os.Stderr, string(data))
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
