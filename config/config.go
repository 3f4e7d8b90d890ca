package config

import (
	"time"

	"github.com/datastax/data-views/log"
)

type Config interface {
	DefaultPageSize() int
	MaxPageSize() int
	DataUpdateInterval() time.Duration
	ViewExpireInterval() time.Duration
	Naming() NamingConventionFn
	Logger() log.Logger
}
