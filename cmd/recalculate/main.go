// recalculate reruns the interim cost and project GM calculations for the
// previous calendar month against already-uploaded monthly sheets. Useful
// after correcting additional costs or the exchange rate without
// re-uploading workbooks.
//
// Usage (from backend directory):
//
//	DB_USER=... DB_PASSWORD=... DB_HOST=... DB_PORT=... DB_NAME=... \
//	go run ./cmd/recalculate
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mmdatafocus/gmcalc_backend/config"
	"github.com/mmdatafocus/gmcalc_backend/workflow"
)

func main() {
	ctx := context.Background()
	config.ConnectDatabaseWithRetry()
	if config.GetDB() == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil). Set DB_* env vars.")
		os.Exit(1)
	}

	clock := workflow.SystemClock

	costResult, err := workflow.RunInterimCostCalculation(ctx, clock)
	if err != nil {
		fmt.Fprintf(os.Stderr, "interim cost calculation failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("interim cost: inserted=%d dropped=%d\n", costResult.Inserted, costResult.Dropped)

	gmResult, err := workflow.RunInterimProjectGMCalculation(ctx, clock)
	if err != nil {
		fmt.Fprintf(os.Stderr, "interim project GM calculation failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("interim project gm: inserted=%d dropped=%d\n", gmResult.Inserted, gmResult.Dropped)
}
