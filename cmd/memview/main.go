package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"memview-backend/application/events"
	"memview-backend/application/ports"
	"memview-backend/application/services"
	"memview-backend/domain/core/entities"
	domainservices "memview-backend/domain/services"
	"memview-backend/infrastructure/client"
	"memview-backend/infrastructure/config"
	"memview-backend/infrastructure/notify"
	"memview-backend/infrastructure/renderer"
	"memview-backend/infrastructure/tracing"
	"memview-backend/interfaces/http/rest"
	"memview-backend/interfaces/http/rest/handlers"
	"memview-backend/pkg/observability"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Environment)
	defer logger.Sync()

	if err := run(cfg, *configPath, logger); err != nil {
		logger.Fatal("service exited", zap.Error(err))
	}
}

func newLogger(env config.Environment) *zap.Logger {
	var logger *zap.Logger
	var err error
	if env == config.Production {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(err)
	}
	return logger
}

func run(cfg *config.Config, configPath string, logger *zap.Logger) error {
	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracing("memview-backend", string(cfg.Environment), cfg.Tracing.Endpoint)
		if err != nil {
			return fmt.Errorf("initializing tracing: %w", err)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			tp.Shutdown(ctx)
		}()
	}

	collector := observability.NewCollector("memview")
	backend := client.New(cfg.Backend.BaseURL, cfg.Backend.Timeout, logger)
	notifier := notify.NewBufferedNotifier(logger, 50)
	headless := renderer.NewHeadless()

	composer := services.NewViewComposer(services.ViewComposerDeps{
		Reader:    backend,
		Generator: backend,
		Renderer:  headless,
		Notifier:  notifier,
		Logger:    logger,
	})
	if mode, err := domainservices.ParseSizingMode(cfg.View.SizingMode); err == nil {
		composer.SetSizingMode(mode)
	}

	engine := services.NewHighlightEngine(
		backend,
		backend,
		domainservices.NewSubstringMatcher(),
		notifier,
		composer.SetHighlight,
		logger,
		collector,
		services.HighlightEngineConfig{
			MinSimilarity: cfg.Search.MinSimilarity,
			Limit:         cfg.Search.Limit,
			AccessType:    "search",
		},
	)

	menu := buildContextMenu(composer, engine, backend, notifier, logger)

	registry := events.NewHandlerRegistry(logger)
	listener := events.NewRefetchListener(composer, logger)
	if err := registry.Register([]string{
		events.EventMemoryAdded,
		events.EventMemoryDeleted,
		events.EventGraphGenerated,
	}, listener); err != nil {
		return fmt.Errorf("registering event listeners: %w", err)
	}

	watcher, err := config.NewWatcher(configPath, cfg, logger)
	if err != nil {
		return fmt.Errorf("starting config watcher: %w", err)
	}
	defer watcher.Stop()
	watcher.OnReload(func(updated *config.Config) {
		if mode, err := domainservices.ParseSizingMode(updated.View.SizingMode); err == nil {
			composer.SetSizingMode(mode)
		}
	})

	// Initial snapshot load; the service still starts on failure, the view
	// just renders its explicit empty state until a refresh succeeds
	{
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Backend.Timeout)
		if err := composer.Refresh(ctx, true); err != nil {
			logger.Warn("initial graph fetch failed", zap.Error(err))
		}
		cancel()
	}

	router := rest.NewRouter(rest.Handlers{
		View:   handlers.NewViewHandler(composer, engine, menu, headless, notifier, logger),
		Search: handlers.NewSearchHandler(composer, engine, logger),
		Menu:   handlers.NewMenuHandler(composer, menu, logger),
		Graph:  handlers.NewGraphHandler(composer, registry, collector, logger),
	}, collector, logger)

	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", server.Addr))
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		logger.Info("shutting down", zap.String("signal", sig.String()))
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(ctx)
	}
}

// buildContextMenu registers the built-in action set. Platform-specific
// actions (view-on-platform, generate-reply, summarize-comments) belong to
// the agent panels and are intentionally not registered here, so dispatching
// them produces the standard unknown-action warning.
func buildContextMenu(
	composer *services.ViewComposer,
	engine *services.HighlightEngine,
	writer ports.MemoryWriter,
	notifier ports.Notifier,
	logger *zap.Logger,
) *services.ContextMenu {
	menu := services.NewContextMenu(notifier, logger)

	menu.Register(services.ActionSummarize, func(_ context.Context, node entities.MemoryNode) error {
		notifier.Info(summarizeContent(node.Content))
		return nil
	})
	menu.Register(services.ActionFindSimilar, func(ctx context.Context, node entities.MemoryNode) error {
		_, err := engine.Submit(ctx, node.Content, composer.Nodes())
		return err
	})
	menu.Register(services.ActionCopyContent, func(_ context.Context, node entities.MemoryNode) error {
		notifier.Info(node.Content)
		return nil
	})
	menu.Register(services.ActionCopyID, func(_ context.Context, node entities.MemoryNode) error {
		notifier.Info(node.ID)
		return nil
	})
	menu.RegisterDestructive(services.ActionDelete, func(ctx context.Context, node entities.MemoryNode) error {
		if err := writer.DeleteMemoryNode(ctx, node.ID); err != nil {
			return err
		}
		return composer.Refresh(ctx, false)
	})

	return menu
}

// summarizeContent produces a short extractive summary of a node: the first
// sentence, capped on a rune boundary
func summarizeContent(content string) string {
	const maxSummaryRunes = 240

	text := strings.Join(strings.Fields(content), " ")
	if idx := strings.Index(text, ". "); idx > 0 {
		text = text[:idx+1]
	}
	if runes := []rune(text); len(runes) > maxSummaryRunes {
		text = strings.TrimSpace(string(runes[:maxSummaryRunes])) + "…"
	}
	return text
}
