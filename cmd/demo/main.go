package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"veldt/internal/demo"
	"veldt/pkg/ecs"
	"veldt/pkg/observability"
)

func main() {
	cfg, err := ecs.WorldConfigFromEnv()
	if err != nil {
		log.Fatal(err)
	}
	world := ecs.NewWorld(cfg)
	defer world.Close()

	var reporter observability.ErrorReporter
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		sentryReporter, err := observability.NewSentryReporter(dsn,
			observability.WithEnvironment("demo"),
		)
		if err != nil {
			log.Fatal(err)
		}
		defer sentryReporter.Flush(2 * time.Second)
		reporter = sentryReporter
	} else {
		reporter = observability.NewConsoleReporter(true)
	}
	observability.SetErrorReporter(reporter)
	world.Systems.AddErrorSink(observability.SystemSink(reporter))

	if cfg.EnableMetrics {
		go func() {
			if err := http.ListenAndServe(":2112", promhttp.Handler()); err != nil {
				log.Print(err)
			}
		}()
	}

	game, err := demo.NewGame(world)
	if err != nil {
		log.Fatal(err)
	}
	if err := game.Run(); err != nil {
		log.Fatal(err)
	}
}
