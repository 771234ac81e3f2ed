package enrich

import (
	"net"
	"sync"

	"github.com/oschwald/geoip2-golang"
	"go.uber.org/zap"
)

// GeoIPAnnotator resolves IP addresses to country names from a local MaxMind
// country database. The lookup cache lives only for the run.
type GeoIPAnnotator struct {
	db      *geoip2.Reader
	logger  *zap.Logger
	cache   map[string]string
	cacheMu sync.RWMutex
	enabled bool
}

// NewGeoIPAnnotator opens the country database at dbPath. An empty path
// disables enrichment without error; an unreadable database is only logged,
// the report still runs without countries.
func NewGeoIPAnnotator(dbPath string, logger *zap.Logger) *GeoIPAnnotator {
	a := &GeoIPAnnotator{
		logger: logger,
		cache:  make(map[string]string),
	}

	if dbPath == "" {
		return a
	}

	db, err := geoip2.Open(dbPath)
	if err != nil {
		logger.Warn("GeoIP country database not available",
			zap.String("path", dbPath),
			zap.Error(err),
		)
		return a
	}

	a.db = db
	a.enabled = true
	logger.Info("Loaded GeoIP country database", zap.String("path", dbPath))
	return a
}

// Enabled reports whether lookups will return anything.
func (a *GeoIPAnnotator) Enabled() bool {
	return a.enabled
}

// Country returns the English country name for ip, or "" when enrichment is
// disabled or the address cannot be resolved.
func (a *GeoIPAnnotator) Country(ip string) string {
	if !a.enabled || ip == "" {
		return ""
	}

	a.cacheMu.RLock()
	cached, ok := a.cache[ip]
	a.cacheMu.RUnlock()
	if ok {
		return cached
	}

	country := a.lookup(ip)
	a.cacheMu.Lock()
	a.cache[ip] = country
	a.cacheMu.Unlock()
	return country
}

func (a *GeoIPAnnotator) lookup(ip string) string {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return ""
	}

	record, err := a.db.Country(parsed)
	if err != nil {
		a.logger.Debug("GeoIP lookup failed", zap.String("ip", ip), zap.Error(err))
		return ""
	}
	return record.Country.Names["en"]
}

// Close releases the underlying database.
func (a *GeoIPAnnotator) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}
