package connection

import (
	"github.com/cygnusnet/cygnusd/infrastructure/logger"
	"github.com/cygnusnet/cygnusd/util/panics"
)

var log = logger.RegisterSubSystem("CONN")
var spawn = panics.GoroutineWrapperFunc(log)
