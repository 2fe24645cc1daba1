package redis

import "time"

type Config struct {
	ConnectionURL     string        `env:"REDIS_URL,required"`                         // redis://:password@localhost:6379/0
	RetryAttempts     int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`        // attempts before Connect gives up
	RetryInterval     time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"2s"`       // pause between attempts
	ConnectTimeout    time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"30s"`     // overall budget for Connect
	LockTTL           time.Duration `env:"REDIS_LOCK_TTL" envDefault:"30s"`            // lifetime of a subscription lock
	LockRetryInterval time.Duration `env:"REDIS_LOCK_RETRY_INTERVAL" envDefault:"50ms"` // polling interval while waiting for a lock
}
