package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"kinfash-api/api/pkg/indexer"
	"kinfash-api/api/pkg/util"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	os.Exit(run())
}

// run returns the exit code so the deferred disconnect always happens.
func run() int {
	var (
		action      = flag.String("action", "create", "Action: create, drop, list, stats, migrate, status")
		uri         = flag.String("uri", "", "MongoDB URI (defaults to env DATABASE_URL)")
		dbName      = flag.String("db", "", "Database name (defaults to env DATABASE_NAME)")
		collection  = flag.String("collection", "", "Collection name (for list/stats)")
		timeout     = flag.Duration("timeout", 60*time.Second, "Operation timeout")
		continueErr = flag.Bool("continue-on-error", true, "Continue on error")
		skipExists  = flag.Bool("skip-if-exists", true, "Skip existing indexes")
		jsonOutput  = flag.Bool("json", false, "Output in JSON format")
	)
	flag.Parse()

	if code := checkArgs(*action, *collection); code != 0 {
		return code
	}

	cfg, err := util.LoadConfig()
	if err != nil {
		util.LogError("Failed to load config", err)
		return 1
	}
	util.InitLogger(cfg.LogLevel, "console", os.Stderr)

	mongoURI := *uri
	if mongoURI == "" {
		mongoURI = cfg.DatabaseURL
	}
	if mongoURI == "" {
		mongoURI = "mongodb://localhost:27017"
	}
	database := *dbName
	if database == "" {
		database = cfg.DatabaseName
	}

	connectCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		util.LogError("Failed to connect to MongoDB", err)
		return 1
	}
	defer func() {
		util.LogError("Failed to disconnect", client.Disconnect(context.Background()))
	}()
	if err = client.Ping(connectCtx, nil); err != nil {
		util.LogError("Failed to ping MongoDB", err)
		return 1
	}

	db := client.Database(database)
	manager := indexer.NewManager(db, &indexer.Options{
		Timeout:         *timeout,
		ContinueOnError: *continueErr,
		SkipIfExists:    *skipExists,
	}).LoadFromDefinitions(indexer.KinfashIndexes())

	ctx := context.Background()

	switch *action {
	case "create":
		result, err := manager.Create(ctx)
		if *jsonOutput {
			return outputJSON(map[string]any{"success": err == nil, "result": result, "error": errorString(err)})
		}
		util.LogError("Index creation completed with errors", err)
		fmt.Printf("Indexes in %s: %d ok, %d failed (%v)\n", database, result.SuccessCount, result.FailedCount, result.Duration)
		for _, f := range result.Failures {
			fmt.Printf("  - %s.%s: %v\n", f.Collection, f.IndexName, f.Error)
		}
		if err != nil {
			return 1
		}

	case "drop":
		err := manager.Drop(ctx, flag.Args()...)
		if *jsonOutput {
			return outputJSON(map[string]any{"success": err == nil, "error": errorString(err)})
		}
		if err != nil {
			util.LogError("Failed to drop indexes", err)
			return 1
		}
		fmt.Println("Indexes dropped successfully")

	case "list":
		indexes, err := manager.List(ctx, *collection)
		if err != nil {
			util.LogError("Failed to list indexes", err)
			return 1
		}
		if *jsonOutput {
			return outputJSON(indexes)
		}
		fmt.Printf("Indexes for collection %s:\n", *collection)
		for _, idx := range indexes {
			fmt.Printf("  - %v %v\n", idx["name"], idx["key"])
		}

	case "stats":
		var stats map[string][]indexer.IndexStats
		if *collection == "" {
			stats, err = manager.StatsAll(ctx)
		} else {
			var one []indexer.IndexStats
			one, err = manager.Stats(ctx, *collection)
			stats = map[string][]indexer.IndexStats{*collection: one}
		}
		if err != nil {
			util.LogError("Failed to get stats", err)
			return 1
		}
		if *jsonOutput {
			return outputJSON(stats)
		}
		for coll, collStats := range stats {
			fmt.Printf("=== %s ===\n", coll)
			for _, stat := range collStats {
				fmt.Printf("  %s: %d accesses since %v\n", stat.Name, stat.Accesses, stat.Since)
			}
		}

	case "migrate":
		mm := indexer.NewMigrationManager(db).AddMigration(indexer.KinfashMigrations()...)
		migrateCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
		defer cancel()
		if err := mm.Run(migrateCtx); err != nil {
			util.LogError("Migration failed", err)
			return 1
		}
		fmt.Println("Migrations applied")

	case "status":
		statuses, err := indexer.NewMigrationManager(db).Status(ctx)
		if err != nil {
			util.LogError("Failed to read migration status", err)
			return 1
		}
		if *jsonOutput {
			return outputJSON(statuses)
		}
		for _, s := range statuses {
			fmt.Printf("  %s applied %v success=%t\n", s.Version, s.AppliedAt, s.Success)
		}

	}

	return 0
}

var actions = []string{"create", "drop", "list", "stats", "migrate", "status"}

// checkArgs rejects bad flags before any connection is made.
func checkArgs(action, collection string) int {
	if !slices.Contains(actions, action) {
		fmt.Fprintf(os.Stderr, "Unknown action: %s\nAvailable actions: %s\n", action, strings.Join(actions, ", "))
		return 2
	}
	if action == "list" && collection == "" {
		fmt.Fprintln(os.Stderr, "Collection name required for list action (-collection flag)")
		return 2
	}
	return 0
}

func outputJSON(data any) int {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		util.LogError("Failed to encode JSON", err)
		return 1
	}
	return 0
}

func errorString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
