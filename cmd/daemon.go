package cmd

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/afero"
	"github.com/urfave/cli"

	"github.com/flexreminder/flexd/cmd/common"
	"github.com/flexreminder/flexd/internal/api"
	"github.com/flexreminder/flexd/internal/config"
	"github.com/flexreminder/flexd/internal/gateway"
	"github.com/flexreminder/flexd/internal/lifecycle"
	"github.com/flexreminder/flexd/internal/scheduler"
	"github.com/flexreminder/flexd/internal/server"
	"github.com/flexreminder/flexd/internal/syncer"
	"github.com/flexreminder/flexd/pkg/credman"
	"github.com/flexreminder/flexd/pkg/flexlib"
	"github.com/flexreminder/flexd/pkg/logger"
)

const (
	recordsFileName  = "reminders.gob"
	recordsDBName    = "reminders.db"
	vaultFileName    = "vault.gob"
	connectivityWait = 10 * time.Second
)

func daemon(ctx *cli.Context) error {
	l := logger.NewStandardLogger(log.Default())

	cfg, err := config.Load(configPath)
	if err != nil {
		common.PrintRuntimeErr(ctx, "daemon", "load_config", err)
		return nil
	}
	if err := cfg.Validate(); err != nil {
		common.PrintRuntimeErr(ctx, "daemon", "validate_config", err)
		return nil
	}

	configDir, err := flexlib.ConfigDir()
	if err != nil {
		common.PrintRuntimeErr(ctx, "daemon", "config_dir", err)
		return nil
	}
	if err := writePidFile(configDir); err != nil {
		common.PrintRuntimeErr(ctx, "daemon", "pid_file", err)
		return nil
	}
	defer removePidFile(configDir)

	credential := resolveCredential(cfg, configDir, l)
	if credential == "" {
		l.Warning("no api credential configured, remote calls will be rejected")
	}

	storage, closeStorage, err := openStorage(cfg, configDir)
	if err != nil {
		common.PrintRuntimeErr(ctx, "daemon", "open_storage", err)
		return nil
	}
	defer closeStorage()

	store, err := flexlib.InitStore(storage, l)
	if err != nil {
		common.PrintRuntimeErr(ctx, "daemon", "init_store", err)
		return nil
	}

	gw := gateway.New(&http.Client{
		Timeout: time.Duration(cfg.API.RequestTimeoutSecs) * time.Second,
	}, gateway.Config{
		BaseURL:    cfg.API.BaseURL,
		Credential: credential,
		Timezone:   cfg.TimezoneName(),
		Retry:      cfg.RetryConfig(),
	}, l)

	runCtx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// The controller fires into the api layer, which is built last; the
	// indirection breaks the construction cycle.
	var s *api.Api
	ctrl := lifecycle.New(store, nil, gw, l, func(rec *flexlib.Record) {
		if s != nil {
			s.HandleFired(rec)
		}
	})
	sched := scheduler.New(runCtx, ctrl.HandleFire)
	ctrl.BindScheduler(sched)
	engine := syncer.New(store, gw, sched, l)
	s = api.NewApi(l, store, sched, ctrl, engine, gw, currentBuildArgs.Version, cfg.Sync.Auto, api.Notifications{
		Enabled: cfg.Notifications.Enabled,
		Sound:   cfg.Notifications.Sound,
	})

	serv := server.NewServer(l, &server.RPCConfig{
		Secret:    cfg.RPC.Secret,
		ListenAll: cfg.RPC.ListenAll,
		Version:   currentBuildArgs.Version,
	}, s, cfg.RPC.Port)
	s.RegisterHandlers(serv)

	probeCtx, probeCancel := context.WithTimeout(runCtx, connectivityWait)
	if err := gw.CheckConnectivity(probeCtx); err != nil {
		l.Warning("remote API unreachable, starting offline: %v", err)
	} else {
		l.Info("remote API reachable")
	}
	probeCancel()

	// Re-arm timers for every reminder that survived the restart.
	// Overdue ones fire immediately instead of being lost.
	sched.ScheduleAll(store.GetAll())

	if cfg.Sync.Auto {
		go func() { _ = engine.SyncNow(runCtx) }()
		engine.StartPeriodic(cfg.SyncInterval())
		defer engine.StopPeriodic()
	}

	l.Info("flexd %s listening", currentBuildArgs.Version)
	return serv.Start(runCtx)
}

// resolveCredential prefers the plaintext config value and falls back to
// the encrypted vault.
func resolveCredential(cfg *config.Config, configDir string, l logger.Logger) string {
	if cfg.API.Credential != "" {
		return cfg.API.Credential
	}
	key, err := credman.ResolveKey(configDir)
	if err != nil {
		l.Warning("vault key unavailable: %v", err)
		return ""
	}
	cm, err := credman.NewManager(filepath.Join(configDir, vaultFileName), key)
	if err != nil {
		l.Warning("open credential vault: %v", err)
		return ""
	}
	defer cm.Close()
	cred, err := cm.GetCredential(credman.APIToken)
	if err != nil {
		return ""
	}
	return cred.Value
}

func openStorage(cfg *config.Config, configDir string) (flexlib.Storage, func(), error) {
	if cfg.Storage.Backend == config.BackendSQLite {
		path := cfg.Storage.Path
		if path == "" {
			path = filepath.Join(configDir, recordsDBName)
		}
		db, err := flexlib.NewSQLiteStorage(path)
		if err != nil {
			return nil, nil, err
		}
		return db, func() { _ = db.Close() }, nil
	}
	path := cfg.Storage.Path
	if path == "" {
		path = filepath.Join(configDir, recordsFileName)
	}
	return flexlib.NewFileStorage(afero.NewOsFs(), path), func() {}, nil
}
