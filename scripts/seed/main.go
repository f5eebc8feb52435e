// Seed adds sample todos for one user through the configured store.
// Run from project root: go run ./scripts/seed --user seed-user --count 100
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"todo-app/internal/app"
	"todo-app/internal/config"
	"todo-app/internal/models"
	"todo-app/internal/service"

	"github.com/spf13/pflag"
)

func main() {
	userID := pflag.String("user", "seed-user", "owner of the seeded todos")
	count := pflag.Int("count", 100, "number of todos to create")
	pflag.Parse()

	_ = config.LoadEnvFile(".env")
	ctx := context.Background()
	a, err := app.Build(ctx, config.Load())
	if err != nil {
		fmt.Fprintln(os.Stderr, "Startup failed:", err)
		os.Exit(1)
	}

	start := time.Now()
	err = seed(ctx, a.Service, *userID, *count, os.Stdout)
	// Close flushes the async event writer, so it runs before any exit.
	if cerr := a.Close(); cerr != nil {
		fmt.Fprintln(os.Stderr, "\nClose failed:", cerr)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "\n"+err.Error())
		os.Exit(1)
	}
	fmt.Printf("\nDone: %d todos for %s in %v\n", *count, *userID, time.Since(start))
}

// seed creates count todos for userID and marks every third one completed.
func seed(ctx context.Context, svc *service.Service, userID string, count int, progress io.Writer) error {
	done := true
	for i := 1; i <= count; i++ {
		todo, err := svc.Create(ctx, userID, fmt.Sprintf("Todo %d", i))
		if err != nil {
			return fmt.Errorf("create failed: %w", err)
		}
		if i%3 == 0 {
			if _, err := svc.Update(ctx, userID, todo.TodoID, models.TodoPatch{Completed: &done}); err != nil {
				return fmt.Errorf("update failed: %w", err)
			}
		}
		fmt.Fprintf(progress, "\rInserted %d / %d", i, count)
	}
	return nil
}
