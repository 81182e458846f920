package netadapter

import (
	"github.com/cygnusnet/cygnusd/infrastructure/logger"
	"github.com/cygnusnet/cygnusd/util/panics"
)

var log = logger.RegisterSubSystem("NTAR")
var spawn = panics.GoroutineWrapperFunc(log)
