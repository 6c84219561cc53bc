package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/fx"

	"github.com/voyagen/tvguide/internal/app"
	"github.com/voyagen/tvguide/internal/config"
)

func main() {
	configPath := flag.String("config", "", "Optional config file path (YAML); else use env DATABASE_URL")
	flag.Parse()

	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.LoadFromFile(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	fx.New(app.CreateApp(cfg)).Run()
}
