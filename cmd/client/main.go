// Command client is the windowed Pixelknight client: ebiten drives the
// update and draw loop at display refresh, keys come from the keyboard.
package main

import (
	"context"
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/imdvls/Pixelknight/network"
	"github.com/imdvls/Pixelknight/scenes"
	"github.com/imdvls/Pixelknight/systems"
)

const appName = "pixelknight"

func main() {
	server := flag.String("server", "localhost:7373", "Server address (host:port or ws:// URL)")
	offline := flag.Bool("offline", true, "Play the local world while the server is unreachable")
	scale := flag.Int("scale", 3, "Window scale factor")
	flag.Parse()

	store, err := systems.OpenProfileStore(appName)
	if err != nil {
		log.Printf("Warning: Could not initialize persistence: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := network.NewClient(*server)
	go client.Run(ctx)

	scene := scenes.NewNetworkedScene(client, scenes.SceneOptions{
		Server:  *server,
		Store:   store,
		Offline: *offline,
	})

	ebiten.SetWindowSize(screenWidth*max(*scale, 1), screenHeight*max(*scale, 1))
	ebiten.SetWindowTitle("Pixelknight")

	if err := ebiten.RunGame(NewGame(scene)); err != nil {
		log.Printf("Game loop ended: %v", err)
	}

	client.Disconnect()
	scene.Close()
	log.Printf("Final score %d, best %d", scene.Profile.Score, scene.Profile.Best)
}
