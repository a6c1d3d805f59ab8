package cli

import (
	"errors"
	"fmt"
	"log"

	"school-attendance-api/internal/config"
	"school-attendance-api/internal/database"
	"school-attendance-api/internal/kiosk"
	"school-attendance-api/internal/localstore"
	"school-attendance-api/internal/remote"
)

// openService builds the same kiosk service the server runs, over the
// configured local store. The returned func closes every database opened.
func openService(opts *RootOptions) (*kiosk.Service, func(), error) {
	cfg, err := config.Load(opts.EnvFile)
	if err != nil {
		return nil, nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, nil, err
	}

	local, err := localstore.OpenFile(cfg.LocalStorePath, cfg.LocalStoreQuota)
	if err != nil {
		return nil, nil, fmt.Errorf("open local store: %w", err)
	}
	closers := []func() error{local.Close}
	cleanup := func() {
		for _, c := range closers {
			if err := c(); err != nil {
				log.Printf("close: %v", err)
			}
		}
	}

	var rs remote.Store
	switch cfg.Mode {
	case config.ModeKiosk:
		rs = remote.NewHTTPStore(cfg.RemoteURL, cfg.RemoteToken, cfg.RemoteTimeout)
	case config.ModeCentral:
		db, err := database.OpenCentral(cfg.DatabasePath)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		closers = append(closers, sqlDB.Close)
		rs = remote.NewGormStore(db)
	default:
		cleanup()
		return nil, nil, errors.New("unsupported mode " + cfg.Mode)
	}

	svc, err := kiosk.New(kiosk.Options{
		Remote:       rs,
		Storage:      local,
		Location:     loc,
		SyncInterval: cfg.SyncInterval,
		QueueRetain:  cfg.QueueRetain,
	})
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return svc, cleanup, nil
}
