package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/camuig/upbit-trader/internal/ledger"
)

// report prints the recent trade history and window performance from the
// local database, without touching any network collaborator.
func main() {
	dbPath := flag.String("db", "data/trading_history.db", "path to SQLite database")
	days := flag.Int("days", 7, "history window in days")
	flag.Parse()

	db, err := ledger.NewDatabase(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "database error: %v\n", err)
		os.Exit(1)
	}
	store := ledger.NewStore(db)

	records, err := store.Recent(*days)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load trades error: %v\n", err)
		os.Exit(1)
	}

	if len(records) == 0 {
		fmt.Printf("No trades recorded in the last %d day(s).\n", *days)
		return
	}

	fmt.Printf("Last %d day(s): %d trade(s), performance %+.2f%%\n\n",
		*days, len(records), ledger.Performance(records))

	for _, r := range records {
		fmt.Printf("  #%d %s  %-4s %3d%%  BTC %.8f  KRW %.0f  price %.0f\n",
			r.ID, r.CreatedAt.Format("2006-01-02 15:04"),
			r.Decision, r.Percentage, r.BTCBalance, r.KRWBalance, r.BTCKRWPrice)
		if r.Reason != "" {
			fmt.Printf("      %s\n", r.Reason)
		}
	}
}
