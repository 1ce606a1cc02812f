package dto

import (
	"geolookup/internal/domain"
	"geolookup/internal/lookup"
)

// AttributionMessage is sent with every successful lookup.
const AttributionMessage = "If you are using this solution, please reference the main project at https://whattimeis.in. This helps us keep the project actively maintained with new blocks and updates."

type LookupResponse struct {
	Status    int      `json:"status"`
	IP        string   `json:"ip"`
	IPVersion int      `json:"ip_version"`
	Location  Location `json:"location"`
	ASN       *ASN     `json:"asn"`
	Message   string   `json:"message"`
}

type Network struct {
	CIDR         string `json:"cidr"`
	PrefixLength int64  `json:"prefix_length"`
	IPVersion    int64  `json:"ip_version"`
}

type Location struct {
	Source                      string      `json:"source"`
	Network                     Network     `json:"network"`
	Geo                         Geo         `json:"geo"`
	Coordinates                 Coordinates `json:"coordinates"`
	PostalCode                  *string     `json:"postal_code"`
	Traits                      Traits      `json:"traits"`
	GeonameID                   *int64      `json:"geoname_id"`
	RegisteredCountryGeonameID  *int64      `json:"registered_country_geoname_id"`
	RepresentedCountryGeonameID *int64      `json:"represented_country_geoname_id"`
}

type Geo struct {
	Continent    Continent   `json:"continent"`
	Country      Country     `json:"country"`
	Subdivision1 Subdivision `json:"subdivision_1"`
	Subdivision2 Subdivision `json:"subdivision_2"`
	City         City        `json:"city"`
	TimeZone     *string     `json:"time_zone"`
}

type Continent struct {
	Code *string `json:"code"`
	Name *string `json:"name"`
}

type Country struct {
	ISOCode           *string `json:"iso_code"`
	Name              *string `json:"name"`
	FlagEmoji         *string `json:"flag_emoji"`
	IsInEuropeanUnion *int64  `json:"is_in_european_union"`
}

type Subdivision struct {
	ISOCode *string `json:"iso_code"`
	Name    *string `json:"name"`
}

type City struct {
	Name      *string `json:"name"`
	MetroCode *string `json:"metro_code"`
}

type Coordinates struct {
	Latitude       *float64 `json:"latitude"`
	Longitude      *float64 `json:"longitude"`
	AccuracyRadius *int64   `json:"accuracy_radius"`
}

type Traits struct {
	IsAnonymousProxy    *int64 `json:"is_anonymous_proxy"`
	IsSatelliteProvider *int64 `json:"is_satellite_provider"`
	IsAnycast           *int64 `json:"is_anycast"`
}

type ASN struct {
	Network      Network `json:"network"`
	Number       *int64  `json:"number"`
	Organization *string `json:"organization"`
}

func NewLookupResponse(res *lookup.Resolution) LookupResponse {
	resp := LookupResponse{
		Status:    200,
		IP:        res.IP,
		IPVersion: res.Key.Version,
		ASN:       NewASN(res.ASN),
		Message:   AttributionMessage,
	}

	switch {
	case res.City != nil:
		resp.Location = NewCityLocation(res.City)
	case res.Country != nil:
		resp.Location = NewCountryLocation(res.Country)
	}

	return resp
}

func NewCityLocation(row *domain.CityMatch) Location {
	return Location{
		Source:  string(lookup.SourceCity),
		Network: Network{CIDR: row.Network, PrefixLength: row.PrefixLength, IPVersion: row.IPVersion},
		Geo: Geo{
			Continent: Continent{Code: row.ContinentCode, Name: row.ContinentName},
			Country: Country{
				ISOCode:           row.CountryISOCode,
				Name:              row.CountryName,
				FlagEmoji:         FlagEmoji(row.CountryISOCode),
				IsInEuropeanUnion: row.IsInEuropeanUnion,
			},
			Subdivision1: Subdivision{ISOCode: row.Subdivision1ISOCode, Name: row.Subdivision1Name},
			Subdivision2: Subdivision{ISOCode: row.Subdivision2ISOCode, Name: row.Subdivision2Name},
			City:         City{Name: row.CityName, MetroCode: row.MetroCode},
			TimeZone:     row.TimeZone,
		},
		Coordinates: Coordinates{
			Latitude:       row.Latitude,
			Longitude:      row.Longitude,
			AccuracyRadius: row.AccuracyRadius,
		},
		PostalCode: row.PostalCode,
		Traits: Traits{
			IsAnonymousProxy:    row.IsAnonymousProxy,
			IsSatelliteProvider: row.IsSatelliteProvider,
			IsAnycast:           row.IsAnycast,
		},
		GeonameID:                   row.GeonameID,
		RegisteredCountryGeonameID:  row.RegisteredCountryGeonameID,
		RepresentedCountryGeonameID: row.RepresentedCountryGeonameID,
	}
}

// NewCountryLocation leaves every city-level field nil.
func NewCountryLocation(row *domain.CountryMatch) Location {
	return Location{
		Source:  string(lookup.SourceCountry),
		Network: Network{CIDR: row.Network, PrefixLength: row.PrefixLength, IPVersion: row.IPVersion},
		Geo: Geo{
			Continent: Continent{Code: row.ContinentCode, Name: row.ContinentName},
			Country: Country{
				ISOCode:           row.CountryISOCode,
				Name:              row.CountryName,
				FlagEmoji:         FlagEmoji(row.CountryISOCode),
				IsInEuropeanUnion: row.IsInEuropeanUnion,
			},
		},
		Traits: Traits{
			IsAnonymousProxy:    row.IsAnonymousProxy,
			IsSatelliteProvider: row.IsSatelliteProvider,
			IsAnycast:           row.IsAnycast,
		},
		GeonameID:                   row.GeonameID,
		RegisteredCountryGeonameID:  row.RegisteredCountryGeonameID,
		RepresentedCountryGeonameID: row.RepresentedCountryGeonameID,
	}
}

func NewASN(row *domain.ASNMatch) *ASN {
	if row == nil {
		return nil
	}
	return &ASN{
		Network:      Network{CIDR: row.Network, PrefixLength: row.PrefixLength, IPVersion: row.IPVersion},
		Number:       row.AutonomousSystemNumber,
		Organization: row.AutonomousSystemOrganization,
	}
}
