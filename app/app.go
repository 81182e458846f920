package app

import (
	"fmt"
	"os"

	"github.com/cygnusnet/cygnusd/infrastructure/config"
	"github.com/cygnusnet/cygnusd/infrastructure/logger"
	"github.com/cygnusnet/cygnusd/infrastructure/os/signal"
	"github.com/cygnusnet/cygnusd/util/panics"
	"github.com/cygnusnet/cygnusd/version"
)

// StartApp starts the cygnusd app, and blocks until it finishes running
func StartApp() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	defer panics.HandlePanic(log, "MAIN", nil)

	err = logger.InitLog(cfg.LogFile(), cfg.ErrLogFile())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logger: %+v", err)
		return err
	}
	log.Infof("Version %s", version.Version())
	log.Infof("Network: %s", cfg.NetParams().Name)

	// Get a channel that will be closed when a shutdown signal has been
	// triggered either from an OS signal such as SIGINT (Ctrl+C) or from
	// another subsystem.
	interrupt := signal.InterruptListener()

	componentManager, err := NewComponentManager(cfg)
	if err != nil {
		log.Errorf("Error creating the component manager: %+v", err)
		return err
	}

	defer func() {
		log.Infof("Gracefully shutting down cygnusd...")
		componentManager.Stop()
		log.Infof("Cygnusd shutdown complete")
	}()

	componentManager.Start()

	// Wait until the interrupt signal is received from an OS signal or
	// shutdown is requested through one of the subsystems.
	<-interrupt
	return nil
}
