package main

import (
	"context"
	"flag"
	"math/rand"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/BastardoSenpai/BootlegXCom/internal/agent"
	"github.com/BastardoSenpai/BootlegXCom/internal/config"
	"github.com/BastardoSenpai/BootlegXCom/internal/domain"
	"github.com/BastardoSenpai/BootlegXCom/internal/engine"
	"github.com/BastardoSenpai/BootlegXCom/internal/infrastructure/storage"
	"github.com/BastardoSenpai/BootlegXCom/internal/network"
	"github.com/BastardoSenpai/BootlegXCom/internal/server"
	"github.com/BastardoSenpai/BootlegXCom/internal/telemetry"
	"github.com/BastardoSenpai/BootlegXCom/internal/version"
	"github.com/BastardoSenpai/BootlegXCom/pkg/battlefield"
	"github.com/BastardoSenpai/BootlegXCom/pkg/logger"

	"github.com/sirupsen/logrus"
)

func init() {
	logger.Init()
}

func main() {
	// 1. Флаги
	var (
		configDir string
		seed      int64
		restore   string
		autopilot bool
	)
	flag.StringVar(&configDir, "config", ".", "Directory with tactics.{json,yaml,toml}")
	flag.Int64Var(&seed, "seed", 0, "Master seed (0 - from config or random)")
	flag.StringVar(&restore, "restore", "", "Resume from snapshot: \"latest\", a stored snapshot ID or a .bxsn file")
	flag.BoolVar(&autopilot, "autopilot", false, "Let the AI play the player squad (spectator mode)")
	flag.Parse()

	// 2. Конфиг
	cfg, err := config.Load(configDir)
	if err != nil {
		logger.Log.Fatal("Failed to load config: ", err)
	}
	if err := logger.Configure(logger.Options{Level: cfg.Log.Level, Format: cfg.Log.Format}); err != nil {
		logger.Log.Fatal("Bad log settings: ", err)
	}

	build := version.Current()
	logger.Log.WithFields(build.Fields()).Info("Starting tactics server " + build.String())
	if seed != 0 {
		cfg.Seed = seed
	}

	// 3. Хранилище снимков
	store, err := storage.Open(cfg.Storage.Driver, cfg.Storage.DSN)
	if err != nil {
		logger.Log.Fatal("Failed to open storage: ", err)
	}
	defer store.Close()

	// 4. Подписчики событий боя
	hub := network.NewBroadcaster()
	sinks := domain.EventSinks{hub}
	var metrics *telemetry.Metrics
	if cfg.Telemetry.Enabled {
		metrics, err = telemetry.New(telemetry.Meter(cfg.Telemetry.ServiceName))
		if err != nil {
			logger.Log.Fatal("Failed to create metrics: ", err)
		}
		sinks = append(sinks, metrics)
	}

	// 5. Бой: новый или из снимка
	var battle *engine.Battle
	if restore != "" {
		battle, err = restoreBattle(cfg, store, restore, sinks)
	} else {
		battle, err = newBattle(cfg, sinks)
	}
	if err != nil {
		logger.Log.Fatal("Failed to set up battle: ", err)
	}

	session := engine.NewSession(battle)
	srv := server.New(session, hub, store, cfg.Server.Port)

	ctx, cancel := context.WithCancel(context.Background())
	sessionDone := make(chan error, 1)
	go func() { sessionDone <- session.Run(ctx) }()

	if autopilot {
		logger.Log.Info("🤖 Mode: Autopilot")
		go agent.NewBot("autopilot", session, hub).Run(ctx)
	}

	go func() {
		if err := srv.Run(); err != nil {
			logger.Log.Fatal("Server start error: ", err)
		}
	}()

	// Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	logger.Log.Info("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.WithError(err).Warn("HTTP shutdown failed")
	}

	if cfg.Storage.SaveOnShutdown {
		if snap, err := session.Snapshot(shutdownCtx); err != nil {
			logger.Log.WithError(err).Error("Failed to take shutdown snapshot")
		} else if _, err := store.Save(shutdownCtx, "shutdown", snap); err != nil {
			logger.Log.WithError(err).Error("Failed to save shutdown snapshot")
		}
	}

	cancel()
	<-sessionDone

	if metrics != nil {
		t := metrics.Totals()
		logger.Log.WithFields(logrus.Fields{
			"attacks": t.Attacks,
			"hits":    t.Hits,
			"crits":   t.Crits,
			"rounds":  t.Rounds,
			"kills":   t.Kills,
		}).Info("Battle totals")
	}

	logger.Log.Info("Done.")
}

func newBattle(cfg config.Config, sink domain.EventSink) (*engine.Battle, error) {
	mt, err := cfg.MissionType()
	if err != nil {
		return nil, err
	}
	ec := cfg.Engine()

	builder := battlefield.NewSkirmish(rand.New(rand.NewSource(ec.Seed))).
		WithMission(mt, cfg.Mission.TurnBudget).
		WithRequiredKills(cfg.Mission.RequiredKills).
		WithDifficulty(ec.Difficulty)
	if cfg.Mission.Layout == "generated" {
		builder = builder.WithGeneratedLayout(cfg.Mission.Width, cfg.Mission.Height)
	}

	skirmish, err := builder.Build()
	if err != nil {
		return nil, err
	}

	logger.Log.WithFields(logrus.Fields{
		"seed":       ec.Seed,
		"mission":    mt.String(),
		"difficulty": ec.Difficulty.String(),
		"layout":     cfg.Mission.Layout,
	}).Info("🎲 New battle")

	battle, err := engine.NewBattle(ec, skirmish.Grid, skirmish.Units, skirmish.Setup, sink)
	if err != nil {
		return nil, err
	}
	if err := battle.PlaceObjects(skirmish.Objects...); err != nil {
		return nil, err
	}
	return battle, nil
}

// restoreBattle: "latest" - последний снимок в базе, число - ID снимка, иначе путь к файлу
func restoreBattle(cfg config.Config, store *storage.Store, ref string, sink domain.EventSink) (*engine.Battle, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var (
		snap engine.BattleSnapshot
		err  error
	)
	if ref == "latest" {
		snap, err = store.Latest(ctx, "")
	} else if id, convErr := strconv.ParseUint(ref, 10, 64); convErr == nil {
		snap, err = store.Load(ctx, uint(id))
	} else {
		snap, err = storage.ImportFile(ref)
	}
	if err != nil {
		return nil, err
	}

	logger.Log.WithFields(logrus.Fields{
		"source": ref,
		"round":  snap.Round,
	}).Info("💿 Restoring battle")

	return engine.RestoreBattle(cfg.Engine(), snap, sink)
}
