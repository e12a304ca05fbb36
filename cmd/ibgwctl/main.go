// Command ibgwctl is a small operational probe for a running TWS or IB
// Gateway instance: it connects, prints the negotiated session details,
// streams an account summary snapshot, and exits.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	_ "go.uber.org/automaxprocs"

	"github.com/ibkr-go/ibapi"
)

func main() {
	host := flag.String("host", "127.0.0.1", "gateway host")
	port := flag.Int("port", 4002, "gateway port (4001 live, 4002 paper)")
	clientID := flag.Int("client-id", 100, "API client id")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	level := zerolog.WarnLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := ibapi.Connect(ctx,
		ibapi.WithHost(*host),
		ibapi.WithPort(*port),
		ibapi.WithClientID(int32(*clientID)),
		ibapi.WithLogger(log),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("connect failed")
	}
	defer client.Close()

	fmt.Printf("server version: %d\n", client.ServerVersion())
	fmt.Printf("managed accounts: %s\n", client.ManagedAccounts())

	sub, _, err := client.ReqAccountSummary(ctx, "All", []string{"NetLiquidation", "TotalCashValue", "BuyingPower"})
	if err != nil {
		log.Fatal().Err(err).Msg("account summary request failed")
	}

	for {
		item, ok := sub.NextTimeout(10 * time.Second)
		if !ok {
			break
		}
		if item.Err != nil {
			log.Error().Err(item.Err).Msg("account summary stream failed")
			break
		}
		if item.Fields == nil {
			break // end of stream
		}
		row, err := ibapi.DecodeAccountSummaryRow(item.Fields)
		if err != nil {
			log.Error().Err(err).Msg("bad account summary row")
			continue
		}
		fmt.Printf("%-12s %-16s %12s %s\n", row.Account, row.Tag, row.Value, row.Currency)
	}
}
