package ldb

import (
	"github.com/cygnusnet/cygnusd/infrastructure/logger"
)

var log = logger.RegisterSubSystem("LVDB")
