// Package databasetest builds throwaway SQLite range stores for tests.
package databasetest

import (
	"net/netip"
	"path/filepath"
	"testing"

	"geolookup/internal/database"
	"geolookup/internal/domain"
	"geolookup/internal/ipkey"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewSQLiteFile creates an empty range store under t.TempDir and returns its
// path together with a writable handle for seeding. The handle is closed on
// cleanup.
func NewSQLiteFile(t testing.TB) (string, *gorm.DB) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "geoip.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: logger.Discard})
	if err != nil {
		t.Fatalf("open fixture database: %v", err)
	}

	if err := db.AutoMigrate(database.RangeModels()...); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	return path, db
}

// Insert creates every record or fails the test.
func Insert(t testing.TB, db *gorm.DB, records ...any) {
	t.Helper()
	for _, record := range records {
		if err := db.Create(record).Error; err != nil {
			t.Fatalf("insert %T: %v", record, err)
		}
	}
}

// Span is the key range covered by a CIDR as stored in the block tables.
type Span struct {
	Network      string
	PrefixLength int64
	IPVersion    int64
	Start        int64
	End          int64
}

func MustSpan(t testing.TB, cidr string) Span {
	t.Helper()

	prefix, err := netip.ParsePrefix(cidr)
	if err != nil {
		t.Fatalf("parse prefix %q: %v", cidr, err)
	}
	prefix = prefix.Masked()

	start, err := ipkey.FromAddr(prefix.Addr())
	if err != nil {
		t.Fatalf("encode prefix %q: %v", cidr, err)
	}

	width := 32
	if start.Version == ipkey.V6 {
		width = 64
	}
	hostBits := width - prefix.Bits()
	end := start.Value
	if hostBits > 0 {
		end = start.Value | int64(uint64(1)<<uint(hostBits)-1)
	}

	return Span{
		Network:      prefix.String(),
		PrefixLength: int64(prefix.Bits()),
		IPVersion:    int64(start.Version),
		Start:        start.Value,
		End:          end,
	}
}

func ASNBlock(t testing.TB, cidr string, number *int64, org *string) *domain.ASNBlock {
	t.Helper()
	span := MustSpan(t, cidr)
	return &domain.ASNBlock{
		Network:                      span.Network,
		PrefixLength:                 span.PrefixLength,
		IPVersion:                    span.IPVersion,
		NetworkStart:                 span.Start,
		NetworkEnd:                   span.End,
		AutonomousSystemNumber:       number,
		AutonomousSystemOrganization: org,
	}
}

func CountryBlock(t testing.TB, cidr string, geonameID int64) *domain.CountryBlock {
	t.Helper()
	span := MustSpan(t, cidr)
	return &domain.CountryBlock{
		Network:                    span.Network,
		PrefixLength:               span.PrefixLength,
		IPVersion:                  span.IPVersion,
		NetworkStart:               span.Start,
		NetworkEnd:                 span.End,
		GeonameID:                  Ptr(geonameID),
		RegisteredCountryGeonameID: Ptr(geonameID),
		IsAnonymousProxy:           Ptr(int64(0)),
		IsSatelliteProvider:        Ptr(int64(0)),
		IsAnycast:                  Ptr(int64(0)),
	}
}

func CityBlock(t testing.TB, cidr string, geonameID int64) *domain.CityBlock {
	t.Helper()
	span := MustSpan(t, cidr)
	return &domain.CityBlock{
		Network:                    span.Network,
		PrefixLength:               span.PrefixLength,
		IPVersion:                  span.IPVersion,
		NetworkStart:               span.Start,
		NetworkEnd:                 span.End,
		GeonameID:                  Ptr(geonameID),
		RegisteredCountryGeonameID: Ptr(geonameID),
		IsAnonymousProxy:           Ptr(int64(0)),
		IsSatelliteProvider:        Ptr(int64(0)),
		IsAnycast:                  Ptr(int64(0)),
		PostalCode:                 Ptr("94043"),
		Latitude:                   Ptr(37.4223),
		Longitude:                  Ptr(-122.085),
		AccuracyRadius:             Ptr(int64(1000)),
	}
}

func Ptr[T any](v T) *T {
	return &v
}
