// Large Warehouse Dataset Generator
//
// This tool fills a data directory with a large, consistent warehouse for
// performance testing and profiling. Every record goes through the ledger,
// so the result passes `warehouse doctor check`.
//
// Usage:
//
//	go run main.go --dir ./data
//	go run main.go --dir ./data --operations 200000 --backend sqlite
package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/alecthomas/kong"
	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/warehouse/ledger"
	"github.com/robinvdvleuten/warehouse/loader"
	"github.com/robinvdvleuten/warehouse/store"
)

var (
	items = []string{
		"Widgets", "Gears", "Bolts", "Nuts", "Washers", "Springs",
		"Bearings", "Pulleys", "Hinges", "Brackets", "Rivets", "Valves",
		"Gaskets", "Couplings", "Sprockets", "Fuses",
	}

	destinations = []string{
		"Berlin", "Paris", "Madrid", "Rome", "Vienna", "Prague",
		"Warsaw", "Lisbon", "Dublin", "Oslo", "Helsinki", "Athens",
	}

	cli struct {
		Dir        string `help:"Data directory to write." default:"." type:"path"`
		Backend    string `help:"Storage backend (${enum})." enum:"text,sqlite" default:"text"`
		Operations int    `help:"Number of operations to attempt." default:"50000"`
		Seed       int64  `help:"Random seed." default:"1"`
	}
)

func main() {
	ctx := kong.Parse(&cli, kong.Description("Generate a large warehouse dataset."))

	gw, err := openGateway()
	ctx.FatalIfErrorf(err)
	defer gw.Close()

	rng := rand.New(rand.NewSource(cli.Seed))
	start := time.Date(2020, 1, 1, 9, 0, 0, 0, time.Local)
	now := start
	clock := func() time.Time {
		now = now.Add(time.Duration(30+rng.Intn(600)) * time.Second)
		return now
	}

	w := ledger.New(ledger.WithClock(clock))
	counts, err := generate(context.Background(), w, rng, cli.Operations)
	ctx.FatalIfErrorf(err)

	err = loader.New(gw).Save(context.Background(), w)
	ctx.FatalIfErrorf(err)

	report := w.Report()
	fmt.Fprintf(os.Stderr, "Generated %d purchases, %d sales, %d shipments (%d rejected)\n",
		counts.purchases, counts.sales, counts.shipments, counts.rejected)
	fmt.Fprintf(os.Stderr, "Net balance %s, stock value %s, %s to %s\n",
		report.NetBalance().StringFixed(2), report.InventoryValue().StringFixed(2),
		start.Format(ledger.TimeLayout), now.Format(ledger.TimeLayout))
}

func openGateway() (store.Gateway, error) {
	if cli.Backend == "sqlite" {
		if err := os.MkdirAll(cli.Dir, 0o755); err != nil {
			return nil, err
		}
		return store.NewSQLite(filepath.Join(cli.Dir, "warehouse.db"))
	}
	return store.NewText(cli.Dir)
}

type counts struct {
	purchases, sales, shipments, rejected int
}

// generate mixes operations roughly 40% purchases, 30% sales and 30%
// shipments. Sales and shipments of stock that is not there are rejected by
// the ledger and counted.
func generate(ctx context.Context, w *ledger.Warehouse, rng *rand.Rand, n int) (counts, error) {
	var c counts
	for i := 0; i < n; i++ {
		name := items[rng.Intn(len(items))]
		quantity := decimal.NewFromInt(int64(1 + rng.Intn(120)))

		var err error
		switch rng.Intn(10) {
		case 0, 1, 2, 3:
			price := decimal.New(int64(50+rng.Intn(5000)), -2)
			_, err = w.Purchase(ctx, name, quantity, price)
			if err == nil {
				c.purchases++
			}
		case 4, 5, 6:
			price := decimal.NullDecimal{}
			if rng.Intn(2) == 0 {
				price = decimal.NewNullDecimal(decimal.New(int64(100+rng.Intn(8000)), -2))
			}
			_, err = w.Sale(ctx, name, quantity, price)
			if err == nil {
				c.sales++
			}
		default:
			_, err = w.Ship(ctx, name, quantity, destinations[rng.Intn(len(destinations))])
			if err == nil {
				c.shipments++
			}
		}

		switch {
		case err == nil:
		case errors.Is(err, ledger.ErrItemNotFound), errors.Is(err, ledger.ErrInsufficientQuantity):
			c.rejected++
		default:
			return c, err
		}
	}
	return c, nil
}
