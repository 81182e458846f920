package app

import (
	"fmt"
	"path/filepath"
	"sync/atomic"

	"github.com/cygnusnet/cygnusd/app/protocol/connection"
	"github.com/cygnusnet/cygnusd/infrastructure/config"
	"github.com/cygnusnet/cygnusd/infrastructure/db/ldb"
	"github.com/cygnusnet/cygnusd/infrastructure/logger"
	"github.com/cygnusnet/cygnusd/infrastructure/network/addressmanager"
	"github.com/cygnusnet/cygnusd/infrastructure/network/netadapter"
	"github.com/cygnusnet/cygnusd/util/panics"
)

// ComponentManager is a wrapper for all the cygnusd services
type ComponentManager struct {
	cfg            *config.Config
	database       *ldb.LevelDB
	addressManager *addressmanager.AddressManager
	netAdapter     *netadapter.NetAdapter

	started, shutdown int32
}

// Start launches all the cygnusd services.
func (a *ComponentManager) Start() {
	// Already started?
	if atomic.AddInt32(&a.started, 1) != 1 {
		return
	}

	log.Trace("Starting cygnusd")
	defer logger.LogAndMeasureExecutionTime(log, "ComponentManager.Start")()

	err := a.netAdapter.Start()
	if err != nil {
		panics.Exit(log, fmt.Sprintf("Error starting the net adapter: %+v", err))
	}
}

// Stop gracefully shuts down all the cygnusd services.
func (a *ComponentManager) Stop() {
	// Make sure this only happens once.
	if atomic.AddInt32(&a.shutdown, 1) != 1 {
		log.Infof("Cygnusd is already in the process of shutting down")
		return
	}

	log.Warnf("Cygnusd shutting down")

	err := a.netAdapter.Stop()
	if err != nil {
		log.Errorf("Error stopping the net adapter: %+v", err)
	}

	err = a.database.Close()
	if err != nil {
		log.Errorf("Error closing the database: %+v", err)
	}
}

// NewComponentManager returns a new ComponentManager instance.
// Use Start() to begin all services within this ComponentManager
func NewComponentManager(cfg *config.Config) (*ComponentManager, error) {
	database, err := ldb.NewLevelDB(filepath.Join(cfg.DataDir, "peers"))
	if err != nil {
		return nil, err
	}

	addressManager, err := addressmanager.New(database)
	if err != nil {
		closeErr := database.Close()
		if closeErr != nil {
			log.Errorf("Error closing the database: %+v", closeErr)
		}
		return nil, err
	}

	decoder := connection.NewDefaultDecoder(addressManager)
	netAdapter := netadapter.New(cfg, addressManager, zeroHeightSource{}, decoder)

	return &ComponentManager{
		cfg:            cfg,
		database:       database,
		addressManager: addressManager,
		netAdapter:     netAdapter,
	}, nil
}

// zeroHeightSource advertises a zero chain height in outgoing version
// messages. This node does not track a local chain.
type zeroHeightSource struct{}

func (zeroHeightSource) SelectedTipHeight() int32 {
	return 0
}
