// Package config loads service configuration from the environment.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/alphikemal/web-GIS-tryon/internal/model"
)

type Config struct {
	Addr          string
	LogLevel      string
	LogConsole    bool
	DatabaseURL   string
	SRID          int
	CORSOrigins   []string
	StatsCacheTTL time.Duration

	Blocks    model.Layer
	Buildings model.Layer
}

// FromEnv reads configuration. A .env file in the working directory is
// loaded first when present.
func FromEnv() Config {
	_ = godotenv.Load()

	srid := getint("GIS_SRID", 4326)

	return Config{
		Addr:          getenv("ADDR", ":8080"),
		LogLevel:      getenv("LOG_LEVEL", "info"),
		LogConsole:    getbool("LOG_CONSOLE", false),
		DatabaseURL:   getenv("DATABASE_URL", buildDSNFromEnv()),
		SRID:          srid,
		CORSOrigins:   splitList(getenv("CORS_ORIGINS", "*")),
		StatsCacheTTL: getduration("STATS_CACHE_TTL", 30*time.Second),
		Blocks: model.Layer{
			Name:        "blocks",
			Table:       getenv("BLOCKS_TABLE", "blocks"),
			GeomColumn:  getenv("BLOCKS_GEOM_COLUMN", "geom"),
			LabelColumn: getenv("BLOCKS_LABEL_COLUMN", "name"),
			SRID:        srid,
		},
		Buildings: model.Layer{
			Name:        "buildings",
			Table:       getenv("BUILDINGS_TABLE", "buildings"),
			GeomColumn:  getenv("BUILDINGS_GEOM_COLUMN", "geom"),
			LabelColumn: getenv("BUILDINGS_LABEL_COLUMN", "name"),
			SRID:        srid,
		},
	}
}

// assembles a postgres URL from the conventional PG_* pieces
func buildDSNFromEnv() string {
	host := getenv("PG_HOST", "localhost")
	port := getenv("PG_PORT", "5432")
	user := getenv("PG_USER", "postgres")
	pass := os.Getenv("PG_PASSWORD")
	db := getenv("PG_DB", "gis")
	ssl := getenv("PG_SSLMODE", "disable")

	dsn := "postgres://" + user
	if pass != "" {
		dsn += ":" + pass
	}
	dsn += "@" + host + ":" + port + "/" + db + "?sslmode=" + ssl
	return dsn
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getint(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v := os.Getenv(k); v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "t", "true", "y", "yes":
			return true
		case "0", "f", "false", "n", "no":
			return false
		}
	}
	return def
}

func getduration(k string, def time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
