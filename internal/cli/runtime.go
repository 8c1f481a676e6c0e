package cli

import (
	"go.uber.org/zap"

	"purgeall/internal/audit"
	"purgeall/internal/detect"
	"purgeall/internal/invoker"
	"purgeall/internal/registry"
	"purgeall/internal/safety"
	"purgeall/internal/store"
)

// runtime bundles the collaborators a command needs, constructed once
// per process from the detected configuration.
type runtime struct {
	confPath string
	cfg      *safety.Config
	policy   *safety.Policy
	db       *store.DB
	registry *registry.Registry
	audit    *audit.Recorder
	invoker  *invoker.Invoker
	logger   *zap.Logger
}

// configPath resolves the config file and loads any sibling .env so
// later environment reads see it.
func configPath() string {
	p := detect.Config(flagConfig)
	detect.LoadDotenv(p)
	return p
}

// setup detects and loads configuration, opens the datastore and audit
// log, and wires the invoker.
func setup(productionOverride bool) (*runtime, error) {
	confPath := configPath()

	logger := newLogger()

	cfg, err := safety.Load(confPath, safety.LoadOptions{
		ProductionOverride: productionOverride,
		Logger:             logger,
	})
	if err != nil {
		return nil, err
	}

	db, err := store.Open(cfg.Database)
	if err != nil {
		return nil, err
	}

	rec := audit.NewRecorder(cfg.AuditLog, cfg.AuditDeletions, logger)
	policy := safety.NewPolicy(cfg)

	return &runtime{
		confPath: confPath,
		cfg:      cfg,
		policy:   policy,
		db:       db,
		registry: registry.New(db),
		audit:    rec,
		invoker:  invoker.New(policy, db, rec, logger),
		logger:   logger,
	}, nil
}

func (rt *runtime) close() {
	rt.audit.Close()
	rt.db.Close()
	rt.logger.Sync()
}

func newLogger() *zap.Logger {
	if flagVerbose {
		logger, err := zap.NewDevelopment()
		if err == nil {
			return logger
		}
		return zap.NewNop()
	}
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
