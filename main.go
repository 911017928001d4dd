package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/imdvls/Pixelknight/config"
	"github.com/imdvls/Pixelknight/network"
	"github.com/imdvls/Pixelknight/scenes"
	"github.com/imdvls/Pixelknight/shared/gamemath"
	"github.com/imdvls/Pixelknight/systems"
)

const appName = "pixelknight"

func main() {
	server := flag.String("server", "localhost:7373", "Server address (host:port or ws:// URL)")
	duration := flag.Duration("duration", 0, "Stop after this long (0 = until interrupted)")
	fps := flag.Int("fps", 60, "Client frames per second")
	seed := flag.Int64("bot-seed", 42, "Seed for the bot's random choices")
	difficulty := flag.String("bot", "normal", "Bot difficulty: easy, normal or hard")
	offline := flag.Bool("offline", true, "Play the local world while the server is unreachable")
	report := flag.Duration("report", 5*time.Second, "Log a status line this often")
	flag.Parse()

	level, err := config.ParseBotDifficulty(*difficulty)
	if err != nil {
		log.Fatalf("Invalid -bot: %v", err)
	}

	store, err := systems.OpenProfileStore(appName)
	if err != nil {
		log.Printf("Warning: Could not initialize persistence: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if *duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *duration)
		defer cancel()
	}

	client := network.NewClient(*server)
	go client.Run(ctx)

	scene := scenes.NewNetworkedScene(client, scenes.SceneOptions{
		Server:  *server,
		Store:   store,
		Offline: *offline,
	})
	bot := systems.NewBot(*seed, level)

	log.Printf("Pixelknight client for %s (%d fps, %s bot)", *server, *fps, level)
	run(ctx, scene, bot, time.Second/time.Duration(*fps), *report)

	client.Disconnect()
	scene.Close()
	log.Printf("Final score %d, best %d", scene.Profile.Score, scene.Profile.Best)
}

// run steps the scene at a fixed frame rate until ctx is done.
func run(ctx context.Context, scene *scenes.NetworkedScene, bot *systems.Bot, frame, report time.Duration) {
	ticker := time.NewTicker(frame)
	defer ticker.Stop()
	lastReport := time.Now()
	dt := frame.Seconds()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		view := scene.View()
		keys := bot.Update(sight(view), dt)
		scene.Update(keys, dt)

		if time.Since(lastReport) >= report {
			lastReport = time.Now()
			logView(scene.View(), bot)
		}
	}
}

func sight(v scenes.View) systems.BotSight {
	var s systems.BotSight
	if v.Local == nil {
		return s
	}
	s.Self = v.Local.Box
	s.Grid = v.Grid
	for _, e := range v.Enemies {
		if !e.Defeated {
			s.Enemies = append(s.Enemies, e.Box)
		}
	}
	for _, c := range v.Collectibles {
		s.Collectibles = append(s.Collectibles, c.Box)
	}
	return s
}

func logView(v scenes.View, bot *systems.Bot) {
	var pos gamemath.Rect
	if v.Local != nil {
		pos = v.Local.Box
	}
	log.Printf("[%s] tick %d at (%.0f, %.0f) %s, score %d, lives %d, %d others",
		v.Mode, v.Tick, pos.X, pos.Y, bot.State, v.Profile.Score, v.Profile.Lives, len(v.Remote))
}
