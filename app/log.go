package app

import (
	"github.com/cygnusnet/cygnusd/infrastructure/logger"
)

var log = logger.RegisterSubSystem("CYGD")
