package config

import (
	"time"

	"github.com/gridkit/olympic-data-apis/log"
)

type Config interface {
	ServerDelay() time.Duration
	Naming() NamingConventionFn
	SupportedOperations() EditOperations
	Logger() log.Logger
}
