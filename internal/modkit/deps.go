package modkit

import (
	"postcraft/internal/modkit/repokit"
	"postcraft/internal/platform/config"
	"postcraft/internal/platform/logger"
	"postcraft/internal/platform/store"
)

// Deps is what every module is built from; PG and CH are nil when the backend is off
type Deps struct {
	Log logger.Logger
	Cfg config.Conf
	PG  repokit.TxRunner
	CH  store.Clickhouse
}
