package domain

// CityBlock is one row of city_blocks. It extends the country block columns
// with postal and coordinate data.
type CityBlock struct {
	Network      string `gorm:"column:network;not null"`
	PrefixLength int64  `gorm:"column:prefix_length;not null"`
	IPVersion    int64  `gorm:"column:ip_version;not null;index:idx_city_blocks_range,priority:1"`
	NetworkStart int64  `gorm:"column:network_start;not null;index:idx_city_blocks_range,priority:2"`
	NetworkEnd   int64  `gorm:"column:network_end;not null;index:idx_city_blocks_range,priority:3"`

	GeonameID                   *int64 `gorm:"column:geoname_id;index"`
	RegisteredCountryGeonameID  *int64 `gorm:"column:registered_country_geoname_id"`
	RepresentedCountryGeonameID *int64 `gorm:"column:represented_country_geoname_id"`
	IsAnonymousProxy            *int64 `gorm:"column:is_anonymous_proxy"`
	IsSatelliteProvider         *int64 `gorm:"column:is_satellite_provider"`
	IsAnycast                   *int64 `gorm:"column:is_anycast"`

	PostalCode     *string  `gorm:"column:postal_code"`
	Latitude       *float64 `gorm:"column:latitude"`
	Longitude      *float64 `gorm:"column:longitude"`
	AccuracyRadius *int64   `gorm:"column:accuracy_radius"`
}

func (CityBlock) TableName() string {
	return "city_blocks"
}

type CityLocation struct {
	GeonameID  int64  `gorm:"column:geoname_id;primaryKey;autoIncrement:false"`
	LocaleCode string `gorm:"column:locale_code;primaryKey;size:16"`

	ContinentCode       *string `gorm:"column:continent_code"`
	ContinentName       *string `gorm:"column:continent_name"`
	CountryISOCode      *string `gorm:"column:country_iso_code"`
	CountryName         *string `gorm:"column:country_name"`
	Subdivision1ISOCode *string `gorm:"column:subdivision_1_iso_code"`
	Subdivision1Name    *string `gorm:"column:subdivision_1_name"`
	Subdivision2ISOCode *string `gorm:"column:subdivision_2_iso_code"`
	Subdivision2Name    *string `gorm:"column:subdivision_2_name"`
	CityName            *string `gorm:"column:city_name"`
	MetroCode           *string `gorm:"column:metro_code"`
	TimeZone            *string `gorm:"column:time_zone"`
	IsInEuropeanUnion   *int64  `gorm:"column:is_in_european_union"`
}

func (CityLocation) TableName() string {
	return "city_locations"
}

// CityMatch is a city_blocks row joined with its locale names.
type CityMatch struct {
	Network      string `gorm:"column:network"`
	PrefixLength int64  `gorm:"column:prefix_length"`
	IPVersion    int64  `gorm:"column:ip_version"`

	GeonameID                   *int64 `gorm:"column:geoname_id"`
	RegisteredCountryGeonameID  *int64 `gorm:"column:registered_country_geoname_id"`
	RepresentedCountryGeonameID *int64 `gorm:"column:represented_country_geoname_id"`
	IsAnonymousProxy            *int64 `gorm:"column:is_anonymous_proxy"`
	IsSatelliteProvider         *int64 `gorm:"column:is_satellite_provider"`
	IsAnycast                   *int64 `gorm:"column:is_anycast"`

	PostalCode     *string  `gorm:"column:postal_code"`
	Latitude       *float64 `gorm:"column:latitude"`
	Longitude      *float64 `gorm:"column:longitude"`
	AccuracyRadius *int64   `gorm:"column:accuracy_radius"`

	ContinentCode       *string `gorm:"column:continent_code"`
	ContinentName       *string `gorm:"column:continent_name"`
	CountryISOCode      *string `gorm:"column:country_iso_code"`
	CountryName         *string `gorm:"column:country_name"`
	Subdivision1ISOCode *string `gorm:"column:subdivision_1_iso_code"`
	Subdivision1Name    *string `gorm:"column:subdivision_1_name"`
	Subdivision2ISOCode *string `gorm:"column:subdivision_2_iso_code"`
	Subdivision2Name    *string `gorm:"column:subdivision_2_name"`
	CityName            *string `gorm:"column:city_name"`
	MetroCode           *string `gorm:"column:metro_code"`
	TimeZone            *string `gorm:"column:time_zone"`
	IsInEuropeanUnion   *int64  `gorm:"column:is_in_european_union"`
}
