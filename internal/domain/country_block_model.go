package domain

// CountryBlock is one row of country_blocks.
type CountryBlock struct {
	Network      string `gorm:"column:network;not null"`
	PrefixLength int64  `gorm:"column:prefix_length;not null"`
	IPVersion    int64  `gorm:"column:ip_version;not null;index:idx_country_blocks_range,priority:1"`
	NetworkStart int64  `gorm:"column:network_start;not null;index:idx_country_blocks_range,priority:2"`
	NetworkEnd   int64  `gorm:"column:network_end;not null;index:idx_country_blocks_range,priority:3"`

	GeonameID                   *int64 `gorm:"column:geoname_id;index"`
	RegisteredCountryGeonameID  *int64 `gorm:"column:registered_country_geoname_id"`
	RepresentedCountryGeonameID *int64 `gorm:"column:represented_country_geoname_id"`
	IsAnonymousProxy            *int64 `gorm:"column:is_anonymous_proxy"`
	IsSatelliteProvider         *int64 `gorm:"column:is_satellite_provider"`
	IsAnycast                   *int64 `gorm:"column:is_anycast"`
}

func (CountryBlock) TableName() string {
	return "country_blocks"
}

// CountryLocation holds the localized names for a country geoname.
type CountryLocation struct {
	GeonameID  int64  `gorm:"column:geoname_id;primaryKey;autoIncrement:false"`
	LocaleCode string `gorm:"column:locale_code;primaryKey;size:16"`

	ContinentCode     *string `gorm:"column:continent_code"`
	ContinentName     *string `gorm:"column:continent_name"`
	CountryISOCode    *string `gorm:"column:country_iso_code"`
	CountryName       *string `gorm:"column:country_name"`
	IsInEuropeanUnion *int64  `gorm:"column:is_in_european_union"`
}

func (CountryLocation) TableName() string {
	return "country_locations"
}

// CountryMatch is a country_blocks row joined with its locale names. The name
// fields are nil when no row exists for the requested locale.
type CountryMatch struct {
	Network      string `gorm:"column:network"`
	PrefixLength int64  `gorm:"column:prefix_length"`
	IPVersion    int64  `gorm:"column:ip_version"`

	GeonameID                   *int64 `gorm:"column:geoname_id"`
	RegisteredCountryGeonameID  *int64 `gorm:"column:registered_country_geoname_id"`
	RepresentedCountryGeonameID *int64 `gorm:"column:represented_country_geoname_id"`
	IsAnonymousProxy            *int64 `gorm:"column:is_anonymous_proxy"`
	IsSatelliteProvider         *int64 `gorm:"column:is_satellite_provider"`
	IsAnycast                   *int64 `gorm:"column:is_anycast"`

	ContinentCode     *string `gorm:"column:continent_code"`
	ContinentName     *string `gorm:"column:continent_name"`
	CountryISOCode    *string `gorm:"column:country_iso_code"`
	CountryName       *string `gorm:"column:country_name"`
	IsInEuropeanUnion *int64  `gorm:"column:is_in_european_union"`
}
