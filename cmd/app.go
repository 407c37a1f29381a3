package cmd

import (
	"fmt"
	"net/http"

	"github.com/gaurav-prasanna/pagesimplify/core/config"
	"github.com/gaurav-prasanna/pagesimplify/core/simplify"
	"github.com/gaurav-prasanna/pagesimplify/core/store"
	"go.uber.org/zap"
)

// app bundles what every command needs: configuration, logger and store.
type app struct {
	cfg    config.Config
	logger *zap.Logger
	store  *store.FileStore
}

func setup() (*app, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}
	logger, err := cfg.Log.NewLogger(flagVerbose)
	if err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}
	st, err := store.Open(flagState)
	if err != nil {
		return nil, fmt.Errorf("opening state: %w", err)
	}
	logger.Debug("loaded configuration",
		zap.String("model", cfg.Provider.Model),
		zap.String("state", st.Path()))
	return &app{cfg: cfg, logger: logger, store: st}, nil
}

// client builds the simplification client from the stored credential.
// An empty key is allowed; every request then fails as an auth error.
func (a *app) client(key string) *simplify.Client {
	pc := a.cfg.Provider
	pc.APIKey = key
	return simplify.New(pc, &http.Client{Timeout: pc.Timeout})
}

func (a *app) close() {
	_ = a.logger.Sync()
}
