package config

type Config struct {
	Server ServerConfig
	SQL    SQLConfig
	Import ImportConfig
}

type Secrets struct {
	SQL SqlSecrets

	// Alternative to the SQL struct, designed to be used with a heroku-style
	// environment variable.
	DatabaseURL string `env:"DATABASE_URL"`
}

type ServerConfig struct {
	// Listen address, for example ":8080".
	Listen string
	// Minutes an import session may sit idle before the janitor drops it.
	SessionIdleMinutes int
	// Cron expression for the session janitor.
	PruneSchedule string
}

type SQLConfig struct {
	Database string
}

// ImportConfig drives the CLI import runner: where each canonical
// transaction field lives in the file, and which user and account the rows
// belong to.
type ImportConfig struct {
	// Columns maps canonical fields (date, description, category, amount,
	// type) to source column names. Unmapped fields take their defaults.
	Columns map[string]string
	UserID  string
	// Account id to assign the whole batch to; empty leaves resolution to
	// the store's default-account logic.
	Account string
}

type SqlSecrets struct {
	SqlHost     string `json:"sqlHost" env:"SQL_HOST"`
	SqlUsername string `json:"sqlUsername" env:"SQL_USERNAME"`
	SqlPassword string `json:"sqlPassword" env:"SQL_PASSWORD"`
}

func (c *Config) applyDefaults() {
	if c.Server.Listen == "" {
		c.Server.Listen = ":8080"
	}

	if c.Server.SessionIdleMinutes <= 0 {
		c.Server.SessionIdleMinutes = 30
	}

	if c.Server.PruneSchedule == "" {
		c.Server.PruneSchedule = "@every 10m"
	}

	if c.SQL.Database == "" {
		c.SQL.Database = "ledgerline"
	}
}
