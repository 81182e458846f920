package addressmanager

import (
	"github.com/cygnusnet/cygnusd/infrastructure/logger"
)

var log = logger.RegisterSubSystem("AMGR")
