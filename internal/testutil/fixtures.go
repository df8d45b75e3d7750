package testutil

// Canned upstream payloads in the Ergast wire format. Numeric fields are
// JSON strings, exactly as the real API serves them.

// DriverStandingsJSON is a two-driver championship table.
const DriverStandingsJSON = `{
  "MRData": {
    "series": "f1",
    "limit": "30",
    "offset": "0",
    "total": "2",
    "StandingsTable": {
      "season": "2026",
      "StandingsLists": [
        {
          "season": "2026",
          "round": "18",
          "DriverStandings": [
            {
              "position": "1",
              "positionText": "1",
              "points": "331",
              "wins": "7",
              "Driver": {
                "driverId": "russell",
                "permanentNumber": "63",
                "code": "RUS",
                "givenName": "George",
                "familyName": "Russell",
                "nationality": "British"
              },
              "Constructors": [
                {
                  "constructorId": "mercedes",
                  "name": "Mercedes",
                  "nationality": "German"
                }
              ]
            },
            {
              "position": "2",
              "positionText": "2",
              "points": "294",
              "wins": "5",
              "Driver": {
                "driverId": "max_verstappen",
                "permanentNumber": "33",
                "code": "VER",
                "givenName": "Max",
                "familyName": "Verstappen",
                "nationality": "Dutch"
              },
              "Constructors": [
                {
                  "constructorId": "red_bull",
                  "name": "Red Bull",
                  "nationality": "Austrian"
                }
              ]
            }
          ]
        }
      ]
    }
  }
}`

// ConstructorStandingsJSON is a one-constructor championship table.
const ConstructorStandingsJSON = `{
  "MRData": {
    "series": "f1",
    "limit": "30",
    "offset": "0",
    "total": "1",
    "StandingsTable": {
      "season": "2026",
      "StandingsLists": [
        {
          "season": "2026",
          "round": "18",
          "ConstructorStandings": [
            {
              "position": "1",
              "positionText": "1",
              "points": "512",
              "wins": "11",
              "Constructor": {
                "constructorId": "mercedes",
                "name": "Mercedes",
                "nationality": "German"
              }
            }
          ]
        }
      ]
    }
  }
}`

// ScheduleJSON is a two-race season calendar. The second race is far in
// the future so NextRace tests have a stable target.
const ScheduleJSON = `{
  "MRData": {
    "series": "f1",
    "limit": "30",
    "offset": "0",
    "total": "2",
    "RaceTable": {
      "season": "2026",
      "Races": [
        {
          "season": "2026",
          "round": "1",
          "raceName": "Bahrain Grand Prix",
          "Circuit": {
            "circuitId": "bahrain",
            "circuitName": "Bahrain International Circuit",
            "Location": {
              "locality": "Sakhir",
              "country": "Bahrain"
            }
          },
          "date": "2026-03-08",
          "time": "15:00:00Z"
        },
        {
          "season": "2026",
          "round": "2",
          "raceName": "Saudi Arabian Grand Prix",
          "Circuit": {
            "circuitId": "jeddah",
            "circuitName": "Jeddah Corniche Circuit",
            "Location": {
              "locality": "Jeddah",
              "country": "Saudi Arabia"
            }
          },
          "date": "2099-03-15",
          "time": "17:00:00Z"
        }
      ]
    }
  }
}`

// RaceResultsJSON is a single race with one classified finisher.
const RaceResultsJSON = `{
  "MRData": {
    "series": "f1",
    "limit": "30",
    "offset": "0",
    "total": "1",
    "RaceTable": {
      "season": "2026",
      "round": "18",
      "Races": [
        {
          "season": "2026",
          "round": "18",
          "raceName": "Singapore Grand Prix",
          "Circuit": {
            "circuitId": "marina_bay",
            "circuitName": "Marina Bay Street Circuit",
            "Location": {
              "locality": "Marina Bay",
              "country": "Singapore"
            }
          },
          "date": "2026-10-04",
          "time": "12:00:00Z",
          "Results": [
            {
              "number": "63",
              "position": "1",
              "positionText": "1",
              "points": "25",
              "grid": "2",
              "laps": "62",
              "status": "Finished",
              "Driver": {
                "driverId": "russell",
                "code": "RUS",
                "givenName": "George",
                "familyName": "Russell"
              },
              "Constructor": {
                "constructorId": "mercedes",
                "name": "Mercedes"
              }
            }
          ]
        }
      ]
    }
  }
}`
