package main

import (
	"context"
	"flag"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/H4M5TER/steaminfo/internal/config"
	"github.com/H4M5TER/steaminfo/internal/discord"
	"github.com/H4M5TER/steaminfo/internal/locale"
	mcpsrv "github.com/H4M5TER/steaminfo/internal/mcp"
	"github.com/H4M5TER/steaminfo/internal/plugin"
	"github.com/H4M5TER/steaminfo/internal/render"
	"github.com/H4M5TER/steaminfo/internal/steam"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	mcpMode := flag.Bool("mcp", false, "serve MCP tools over stdio instead of connecting to Discord")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Stdio transport owns stdout, so logs have to go elsewhere in MCP mode.
	if *mcpMode {
		if cfg.Bot.LogFile != "" {
			f, err := os.OpenFile(cfg.Bot.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				log.SetOutput(io.Discard)
			} else {
				defer f.Close()
				log.SetOutput(f)
			}
		} else {
			log.SetOutput(io.Discard)
		}
	}

	store := steam.NewClient(cfg.Steam)
	loc := locale.New(cfg.Bot.Language)
	text := render.NewTextRenderer(store, loc)

	var shooter render.Screenshotter
	if cfg.Browser.IsConfigured() {
		ps := render.NewPageShooter(cfg.Browser, cfg.Steam.StoreURL)
		if err := ps.Start(ctx); err != nil {
			log.Printf("browser start failed, screenshot mode disabled: %v", err)
		} else {
			shooter = ps
			defer func() {
				if err := ps.Close(); err != nil {
					log.Printf("browser shutdown: %v", err)
				}
			}()
		}
	}

	defaultMode, err := render.ParseMode(cfg.Render.Mode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	dispatcher := render.NewDispatcher(text, shooter, defaultMode)
	p := plugin.New(store, dispatcher, loc, cfg.Render.IsFuzzy(), cfg.Bot.Command)

	if *mcpMode {
		srv := mcpsrv.NewServer(store, dispatcher)
		log.Printf("serving MCP tools over stdio")
		if err := srv.Start(ctx); err != nil && ctx.Err() == nil {
			log.Fatalf("mcp server: %v", err)
		}
		return
	}

	bot, err := discord.New(cfg.Bot, p)
	if err != nil {
		log.Fatalf("discord: %v", err)
	}
	if err := bot.Start(ctx); err != nil {
		log.Fatalf("discord: %v", err)
	}

	<-ctx.Done()
	log.Printf("shutting down")
}
