package config

type Config interface {
	EnvConfig
	SessionConfig
	StoreConfig
	AuthConfig
}

type EnvConfig interface {
	GetAppName() string
	GetDataFolder() string
	GetEnv() string
	GetLogLevel() string
}

type mainConfig struct {
	EnvVars
	Session
	Store
	Auth
}

func New() Config {
	return mainConfig{}
}
