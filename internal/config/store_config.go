package config

import (
	"path/filepath"
)

const (
	StoreBackendMemory = "memory"
	StoreBackendSQLite = "sqlite"
	StoreBackendRedis  = "redis"
)

type StoreConfig interface {
	GetStoreBackend() string
	GetStoreScope() string
	GetSQLitePath() string
	GetRedisAddr() string
	GetRedisPassword() string
	GetRedisDB() int
}

type Store struct{}

var _ StoreConfig = Store{}

func (Store) GetStoreBackend() string {
	return GetEnv("STORE_BACKEND", StoreBackendSQLite)
}

// GetStoreScope namespaces the persisted entries, the equivalent of a browser origin.
func (Store) GetStoreScope() string {
	return GetEnv("STORE_SCOPE", "library-console")
}

func (Store) GetSQLitePath() string {
	return GetEnv("SQLITE_PATH", filepath.Join(EnvVars{}.GetDataFolder(), "session.db"))
}

func (Store) GetRedisAddr() string {
	return GetEnv("REDIS_ADDR", "localhost:6379")
}

func (Store) GetRedisPassword() string {
	return GetEnv("REDIS_PASSWORD", "")
}

func (Store) GetRedisDB() int {
	return GetEnvInt("REDIS_DB", 0)
}
