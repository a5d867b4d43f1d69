package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"claimflow-rag/internal/assistant"
	"claimflow-rag/internal/config"
	"claimflow-rag/internal/helper"
	"claimflow-rag/internal/server"
	"claimflow-rag/internal/watcher"
)

func main() {
	configPath := flag.String("config", config.DefaultConfigPath, "Path to the config file")
	build := flag.Bool("build", false, "Rebuild the knowledge store from the knowledge directory")
	dryRun := flag.Bool("dry-run", false, "Print the chunks of the knowledge directory without embedding or storing them")
	export := flag.Bool("export", false, "Export the collection to an encrypted snapshot (chromem backend)")
	query := flag.String("query", "", "Question to be answered")
	chat := flag.Bool("chat", false, "Start an interactive chat session")
	serve := flag.Bool("serve", false, "Start the HTTP server")
	watch := flag.Bool("watch", false, "Rebuild the knowledge store when the knowledge directory changes")
	language := flag.String("language", "", "Answer from one language segment of multilingual passages, e.g. hindi")
	speech := flag.Bool("speech", false, "Render answers for text to speech")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading config")
	}
	helper.SetupLogger(cfg.Log.Level, cfg.Log.Format)
	log.Debug().Str("config", *configPath).Msg("Loaded config")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *dryRun {
		if err := planKnowledgeBase(cfg); err != nil {
			log.Fatal().Err(err).Msg("Error chunking knowledge base")
		}
		return
	}

	if !*build && !*export && *query == "" && !*chat && !*serve && !*watch {
		flag.Usage()
		os.Exit(2)
	}

	svc, err := newApp(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing")
	}
	defer svc.Close()

	if *build {
		if _, err := svc.Build(ctx); err != nil {
			log.Fatal().Err(err).Msg("Error building knowledge store")
		}
	}
	if *export {
		if err := svc.Export(ctx); err != nil {
			log.Fatal().Err(err).Msg("Error exporting knowledge store")
		}
	}

	opts := answerOptions(*language, *speech)
	if *query != "" {
		printAnswer(svc.Respond(ctx, *query, opts))
	}
	if *chat {
		runChat(ctx, svc, os.Stdin, os.Stdout, opts)
		return
	}

	if *watch {
		w := watcher.NewWatcher(cfg.RAG.KnowledgeDir, cfg.RAG.Extensions, func() {
			if _, err := svc.Build(ctx); err != nil {
				log.Error().Err(err).Msg("Rebuild failed, keeping previous knowledge store")
			}
		})
		if err := w.Start(ctx); err != nil {
			log.Fatal().Err(err).Msg("Error starting watcher")
		}
		defer w.Stop()
	}

	if *serve {
		srv := server.NewServer(svc, svc, &cfg.Server, server.WithRetrievalDefaults(cfg.RAG.TopK, *cfg.RAG.MinSimilarity))
		go func() {
			if err := srv.Start(); err != nil {
				log.Error().Err(err).Msg("Server stopped")
				stop()
			}
		}()
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Stop(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Error shutting down server")
		}
		return
	}

	if *watch {
		<-ctx.Done()
	}
}

func printAnswer(resp assistant.Response) {
	log.Info().
		Str("request_id", resp.RequestID).
		Str("state", string(resp.State)).
		Str("intent", string(resp.Intent.Label)).
		Str("category", resp.IntentInfo.Category).
		Str("model", resp.Model).
		Int("attempts", resp.Attempts).
		Msg("Assistant: ~~~~~~~~~~~~~~~~~~~~~~~~~>>>>>")
	fmt.Printf("%s\n\n", resp.Text)
}
