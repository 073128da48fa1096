// Package geo resolves visitor IP addresses to ISO country codes using an
// optional on-disk GeoLite2 database. Everything here degrades to empty
// results when the database is absent; country enrichment is never required
// for ingestion to succeed.
package geo

import (
	"log/slog"
	"net"
	"os"
	"sync"

	"github.com/oschwald/geoip2-golang"
	"github.com/pariz/gountries"

	"portfolio/internal/config"
)

var (
	geoDB  *geoip2.Reader
	loaded bool
	mu     sync.RWMutex
	logger *slog.Logger

	countryQuery = gountries.New()
)

// InitLogger sets the logger for the geo package.
func InitLogger(l *slog.Logger) {
	logger = l
}

func openDB() *geoip2.Reader {
	cfg := config.GetConfig()
	if cfg.GeoDBPath == "" {
		if logger != nil {
			logger.Debug("GeoLite2 database path not configured, country enrichment disabled")
		}
		return nil
	}

	if _, err := os.Stat(cfg.GeoDBPath); os.IsNotExist(err) {
		if logger != nil {
			logger.Info("GeoLite2 database not found, country enrichment disabled",
				slog.String("path", cfg.GeoDBPath))
		}
		return nil
	} else if err != nil {
		if logger != nil {
			logger.Warn("Error checking GeoLite2 database file",
				slog.String("path", cfg.GeoDBPath),
				slog.Any("error", err))
		}
		return nil
	}

	db, err := geoip2.Open(cfg.GeoDBPath)
	if err != nil {
		if logger != nil {
			logger.Error("Failed to open GeoLite2 database",
				slog.String("path", cfg.GeoDBPath),
				slog.Any("error", err))
		}
		return nil
	}

	if logger != nil {
		logger.Info("GeoLite2 database initialized",
			slog.String("path", cfg.GeoDBPath))
	}
	return db
}

func getDB() *geoip2.Reader {
	mu.RLock()
	if loaded {
		db := geoDB
		mu.RUnlock()
		return db
	}
	mu.RUnlock()

	mu.Lock()
	defer mu.Unlock()
	if !loaded {
		geoDB = openDB()
		loaded = true
	}
	return geoDB
}

// Reload reopens the database from disk. Called by the maintenance job after
// a fresh database file lands. A Reload also counts as the initial load so a
// later lookup does not open a second reader over this one.
func Reload() {
	mu.Lock()
	defer mu.Unlock()

	if geoDB != nil {
		geoDB.Close()
	}
	geoDB = openDB()
	loaded = true

	if geoDB != nil && logger != nil {
		logger.Info("GeoLite2 database reloaded")
	}
}

// CountryFromIP resolves an IP string to an ISO 3166-1 alpha-2 code.
// Returns "" when the database is unavailable or the IP does not resolve.
func CountryFromIP(ipAddress string) string {
	db := getDB()
	if db == nil {
		return ""
	}

	ip := net.ParseIP(ipAddress)
	if ip == nil {
		return ""
	}

	record, err := db.Country(ip)
	if err != nil {
		return ""
	}
	return record.Country.IsoCode
}

// CountryName maps an ISO code to its display name, falling back to the
// code itself when the lookup fails.
func CountryName(isoCode string) string {
	if isoCode == "" {
		return ""
	}
	country, err := countryQuery.FindCountryByAlpha(isoCode)
	if err != nil {
		return isoCode
	}
	return country.Name.Common
}
