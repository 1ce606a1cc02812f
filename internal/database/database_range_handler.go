package database

import (
	"context"
	"fmt"

	"geolookup/internal/domain"
	"geolookup/internal/ipkey"

	"gorm.io/gorm"
)

const (
	blockColumns = `b.network, b.prefix_length, b.ip_version`

	geoBlockColumns = blockColumns + `,
		b.geoname_id, b.registered_country_geoname_id, b.represented_country_geoname_id,
		b.is_anonymous_proxy, b.is_satellite_provider, b.is_anycast`

	countryColumns = geoBlockColumns + `,
		l.continent_code, l.continent_name, l.country_iso_code, l.country_name,
		l.is_in_european_union`

	cityColumns = geoBlockColumns + `,
		b.postal_code, b.latitude, b.longitude, b.accuracy_radius,
		l.continent_code, l.continent_name, l.country_iso_code, l.country_name,
		l.subdivision_1_iso_code, l.subdivision_1_name,
		l.subdivision_2_iso_code, l.subdivision_2_name,
		l.city_name, l.metro_code, l.time_zone, l.is_in_european_union`

	asnColumns = blockColumns + `, b.autonomous_system_number, b.autonomous_system_organization`

	// Most specific range first; the start/end keys only break ties between
	// equally specific ranges so the pick is stable.
	longestPrefixOrder = "b.prefix_length DESC, b.network_start ASC, b.network_end ASC"
)

func (s *Session) FindASN(ctx context.Context, key ipkey.Key) (*domain.ASNMatch, error) {
	var rows []domain.ASNMatch
	err := s.containing(ctx, "asn_blocks", key).
		Select(asnColumns).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("database: find asn: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (s *Session) FindCity(ctx context.Context, key ipkey.Key, locale string) (*domain.CityMatch, error) {
	var rows []domain.CityMatch
	err := s.containing(ctx, "city_blocks", key).
		Select(cityColumns).
		Joins("LEFT JOIN city_locations l ON l.geoname_id = b.geoname_id AND l.locale_code = ?", locale).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("database: find city: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (s *Session) FindCountry(ctx context.Context, key ipkey.Key, locale string) (*domain.CountryMatch, error) {
	var rows []domain.CountryMatch
	err := s.containing(ctx, "country_blocks", key).
		Select(countryColumns).
		Joins("LEFT JOIN country_locations l ON l.geoname_id = b.geoname_id AND l.locale_code = ?", locale).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("database: find country: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// containing selects the single most specific block of table whose range
// holds key.
func (s *Session) containing(ctx context.Context, table string, key ipkey.Key) *gorm.DB {
	return s.db.WithContext(ctx).
		Table(table+" AS b").
		Where("b.ip_version = ? AND b.network_start <= ? AND b.network_end >= ?", key.Version, key.Value, key.Value).
		Order(longestPrefixOrder).
		Limit(1)
}
