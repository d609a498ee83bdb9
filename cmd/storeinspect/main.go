// Command storeinspect dumps the contents of a FluentView local store.
// Useful when debugging day-rollover and cache-staleness issues.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fluentview/fluentview-client/internal/store"
)

func main() {
	dbPath := os.Getenv("FLUENTVIEW_DB_PATH")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			log.Fatalf("Cannot determine home directory: %v", err)
		}
		dbPath = filepath.Join(home, "FluentView", "data", "db")
	}

	st, err := store.OpenReadOnly(dbPath, slog.New(slog.DiscardHandler))
	if err != nil {
		log.Fatalf("Failed to open store at %s: %v", dbPath, err)
	}
	defer st.Close()

	ctx := context.Background()

	fmt.Printf("=== Store Inspection (%s) ===\n\n", dbPath)

	keys, err := st.Keys(ctx)
	if err != nil {
		log.Fatalf("Failed to list keys: %v", err)
	}
	if len(keys) == 0 {
		fmt.Println("Store is empty.")
		return
	}

	data, err := st.GetProgressData(ctx)
	if err != nil {
		log.Fatalf("Failed to read progress data: %v", err)
	}
	fmt.Println("Progress:")
	fmt.Printf("  date:      %s\n", data.DateString)
	fmt.Printf("  watched:   %d/%d minutes\n", data.CurrentMinutes, data.GoalMinutes)
	fmt.Printf("  goal met:  %t\n", data.GoalReached)

	if _, err := st.GetToken(ctx); err == nil {
		fmt.Println("  token:     present")
	} else {
		fmt.Println("  token:     absent")
	}
	fmt.Println()

	fmt.Println("Catalog caches:")
	if env, err := st.GetVideoCache(ctx); err == nil {
		fmt.Printf("  videos:  %d entries, fetched %s\n",
			len(env.Payload), time.UnixMilli(env.FetchedAt).Format(time.RFC3339))
	} else {
		fmt.Println("  videos:  absent")
	}
	if env, err := st.GetSeriesCache(ctx); err == nil {
		fmt.Printf("  series:  %d entries, fetched %s\n",
			len(env.Payload), time.UnixMilli(env.FetchedAt).Format(time.RFC3339))
	} else {
		fmt.Println("  series:  absent")
	}
	fmt.Println()

	fmt.Printf("%d keys total: %v\n", len(keys), keys)
}
