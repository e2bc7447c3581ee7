package main

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	clientconfig "github.com/liquid-icx/licx-client/cmd/licx-client/config"
	"github.com/liquid-icx/licx-client/internal/actions"
	"github.com/liquid-icx/licx-client/internal/bridge"
	"github.com/liquid-icx/licx-client/internal/constants"
	clienthttp "github.com/liquid-icx/licx-client/internal/http"
	"github.com/liquid-icx/licx-client/internal/icon"
	"github.com/liquid-icx/licx-client/internal/notice"
	"github.com/liquid-icx/licx-client/internal/pairing"
	"github.com/liquid-icx/licx-client/internal/relay"
	"github.com/liquid-icx/licx-client/internal/securefile"
	"github.com/liquid-icx/licx-client/internal/session"
	"github.com/quantumauth-io/quantum-go-utils/log"
)

var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

func main() {
	log.Info(constants.AppName,
		"version", Version,
		"commit", Commit,
		"build_date", BuildDate,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := clientconfig.Load()
	if err != nil {
		log.Fatal("failed to parse config", "error", err)
	}
	if !cfg.ClientSettings.Dev {
		gin.SetMode(gin.ReleaseMode)
	}
	log.Info("network", "name", cfg.Network.Name, "endpoint", cfg.Network.Endpoint,
		"nid", cfg.Network.NID, "score", cfg.Network.LicxScore)

	chain, err := icon.NewClient(cfg.Network.Endpoint)
	if err != nil {
		log.Error("failed to init ICON client", "error", err)
		return
	}

	bus := relay.NewBus()
	state := session.New(cfg.ClientSettings.Dev)
	board := notice.NewBoard(constants.NoticeHistory)

	b, err := bridge.New(bridge.Config{
		NID:            cfg.Network.NID,
		Score:          cfg.Network.LicxScore,
		RequestTimeout: cfg.Bridge.RequestTimeout,
	}, chain, bus, state, board)
	if err != nil {
		log.Error("failed to init bridge", "error", err)
		return
	}
	defer b.Close()
	b.EnsureListenerAttached()

	handlers := actions.New(actions.Config{
		TransferStepLimit: cfg.Bridge.TransferStepLimit,
		JoinStepLimit:     cfg.Bridge.JoinStepLimit,
	}, b, state, board)

	pairs := pairing.NewRegistry(constants.PairCodeTTL)
	if path, err := securefile.StatePath(constants.AppName, constants.PairingFile); err != nil {
		log.Warn("pairing tokens will not persist", "error", err)
	} else if err = pairs.Persist(path); err != nil {
		log.Warn("pairing tokens will not persist", "path", path, "error", err)
	}
	pairID, code, err := pairs.Open()
	if err != nil {
		log.Error("failed to open pairing", "error", err)
		return
	}

	handler, err := clienthttp.NewServer(clienthttp.Deps{
		Bridge:         b,
		Actions:        handlers,
		Relay:          bus,
		Session:        state,
		Notices:        board,
		Pairing:        pairs,
		AllowedOrigins: cfg.ClientSettings.AllowedOrigins,
	})
	if err != nil {
		log.Error("failed to init HTTP server", "error", err)
		return
	}

	addr := net.JoinHostPort(cfg.ClientSettings.LocalHost, cfg.ClientSettings.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err = server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", "error", err)
		}
	}()
	log.Info("listening", "addr", addr)
	log.Info("pair the extension", "pair_id", pairID, "code", code, "expires_in", constants.PairCodeTTL)

	<-ctx.Done()
	log.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err = server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown failed", "error", err)
	} else {
		log.Info("HTTP server gracefully stopped")
	}
}
