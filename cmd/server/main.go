package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/etlabapp/gateway/etlab"
	"github.com/etlabapp/gateway/internal/config"
	"github.com/etlabapp/gateway/server"
	"github.com/etlabapp/gateway/sessions"
	"github.com/etlabapp/gateway/token"
)

func main() {
	for {
		if err := run(); err != nil {
			log.Fatalf("Error running server: %s\n", err)
			time.Sleep(1 * time.Second)
		} else {
			break
		}
	}
	log.Printf("Server stopped\n")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic: %v\n", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	_ = godotenv.Load()

	c := config.New()
	logger := newLogger(c.GetEnv())
	displayAppname(c.GetAppName())

	repo := sessions.NewInMemoryRepo()
	codec := token.NewCodec(c.GetTokenSecret(), c.GetTokenExpiry())
	upstream := etlab.NewClient(c.GetUpstreamBaseURL(), repo, c.GetUpstreamTimeout(), logger)

	sweepDone := make(chan struct{})
	go sweepSessions(repo, c.GetSweepInterval(), c.GetMaxSessionIdle(), logger, sweepDone)

	httpServer := &http.Server{Addr: c.GetPort(), Handler: server.New(c, codec, repo, upstream, logger)}
	go listenAndServe(httpServer, logger)
	waitForStopSignal()
	close(sweepDone)
	returnError = shutdown(httpServer)
	return returnError
}

func newLogger(env string) zerolog.Logger {
	if env == "DEV" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}

// sweepSessions periodically drops sessions that have been idle longer
// than maxIdle, so abandoned credentials do not stay in memory forever.
func sweepSessions(repo sessions.Repo, interval, maxIdle time.Duration, logger zerolog.Logger, done <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			removed := repo.SweepExpired(maxIdle)
			if len(removed) > 0 {
				logger.Info().Int("removed", len(removed)).Msg("swept idle sessions")
			}
		}
	}
}

func listenAndServe(server *http.Server, logger zerolog.Logger) error {
	logger.Info().Str("addr", server.Addr).Msg("server listening")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
