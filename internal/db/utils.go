package db

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/paperstats/models"
	dbpkg "github.com/dtnitsch/paperstats/pkg/db"
)

// GetRunIDOrLatest returns the run ID from args, or the latest run if not provided
func GetRunIDOrLatest(c *cli.Context, database *dbpkg.DB) (int64, error) {
	if c.NArg() == 0 {
		runs, err := database.ListRuns(1)
		if err != nil {
			return 0, fmt.Errorf("failed to get latest run: %w", err)
		}
		if len(runs) == 0 {
			return 0, fmt.Errorf("no runs found. Run 'paperstats analyze <dir>' first")
		}
		return runs[0].RunID, nil
	}

	var runID int64
	_, err := fmt.Sscanf(c.Args().First(), "%d", &runID)
	if err != nil {
		return 0, fmt.Errorf("invalid run ID: %s", c.Args().First())
	}
	return runID, nil
}

// openDatabase opens the registry named by --db. Without it the default
// database of the working directory is used, matching analyze's default
// output directory.
func openDatabase(c *cli.Context) (*dbpkg.DB, error) {
	path := c.String("db")
	if path == "" {
		path = models.DefaultDBName
	}
	database, err := dbpkg.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return database, nil
}
