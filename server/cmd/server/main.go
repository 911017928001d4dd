package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/imdvls/Pixelknight/server/core"
	"github.com/imdvls/Pixelknight/shared/netconfig"
)

func main() {
	port := flag.Uint("port", 7373, "Server port")
	tickPeriod := flag.Duration("tick", netconfig.TickPeriod, "Server tick period")
	timeout := flag.Duration("timeout", netconfig.InactivityTimeout, "Evict players silent for this long")
	mapPath := flag.String("map", "", "Tiled .tmx map to load (empty = generate the default world)")
	seed := flag.Int64("seed", netconfig.DefaultWorldSeed, "World generator and enemy direction seed")
	queue := flag.Int("queue", 64, "Outbound frames buffered per client")
	flag.Parse()

	level, err := core.LoadLevel(*mapPath, *seed)
	if err != nil {
		log.Fatalf("Failed to load level: %v", err)
	}

	server := core.NewServer(level, core.Options{
		TickPeriod: *tickPeriod,
		Timeout:    *timeout,
		QueueSize:  *queue,
		Seed:       *seed,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("Starting Pixelknight server on port %d (tick: %s, timeout: %s, seed: %d)",
		*port, *tickPeriod, *timeout, *seed)
	if err := server.ListenAndServe(ctx, fmt.Sprintf(":%d", *port)); err != nil {
		log.Fatalf("Server error: %v", err)
	}
	log.Println("Server stopped")
}
