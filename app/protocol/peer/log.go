package peer

import (
	"github.com/cygnusnet/cygnusd/infrastructure/logger"
)

var log = logger.RegisterSubSystem("PEER")
