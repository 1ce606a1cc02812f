package lookup

import (
	"context"
	"errors"
	"fmt"

	"geolookup/internal/database"
	"geolookup/internal/domain"
	"geolookup/internal/ipkey"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

type Source string

const (
	SourceCity    Source = "city"
	SourceCountry Source = "country"
)

// ErrNotFound means neither geo dataset covers the address. An ASN match on
// its own does not count as a resolution.
var ErrNotFound = errors.New("lookup: ip not found in ranges")

// Resolution is a successful lookup. Exactly one of City and Country is set,
// matching Source. ASN is nil when the address has no ASN block.
type Resolution struct {
	IP      string
	Key     ipkey.Key
	Source  Source
	City    *domain.CityMatch
	Country *domain.CountryMatch
	ASN     *domain.ASNMatch
}

type Resolver struct {
	store  *database.Store
	locale string
}

func NewResolver(store *database.Store, locale string) *Resolver {
	if locale == "" {
		locale = "en"
	}
	return &Resolver{store: store, locale: locale}
}

func (r *Resolver) Locale() string {
	return r.locale
}

// geoResult is the outcome of the geo branch: a city match, or failing that a
// country match, or neither.
type geoResult struct {
	city    *domain.CityMatch
	country *domain.CountryMatch
}

func (r *Resolver) Resolve(ctx context.Context, ip string) (*Resolution, error) {
	key, err := ipkey.Encode(ip)
	if err != nil {
		return nil, err
	}

	session, err := r.store.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := session.Close(); err != nil {
			log.Warn("close range store session", "error", err)
		}
	}()

	var (
		asn *domain.ASNMatch
		geo geoResult
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		match, err := session.FindASN(gctx, key)
		asn = match
		return err
	})
	g.Go(func() error {
		result, err := r.resolveGeo(gctx, session, key)
		geo = result
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("lookup: %s: %w", ip, err)
	}

	return merge(ip, key, geo, asn)
}

// resolveGeo prefers the city dataset and falls back to the country dataset
// only on a city miss.
func (r *Resolver) resolveGeo(ctx context.Context, session *database.Session, key ipkey.Key) (geoResult, error) {
	city, err := session.FindCity(ctx, key, r.locale)
	if err != nil {
		return geoResult{}, err
	}
	if city != nil {
		return geoResult{city: city}, nil
	}

	country, err := session.FindCountry(ctx, key, r.locale)
	if err != nil {
		return geoResult{}, err
	}
	return geoResult{country: country}, nil
}

func merge(ip string, key ipkey.Key, geo geoResult, asn *domain.ASNMatch) (*Resolution, error) {
	switch {
	case geo.city != nil:
		return &Resolution{IP: ip, Key: key, Source: SourceCity, City: geo.city, ASN: asn}, nil
	case geo.country != nil:
		return &Resolution{IP: ip, Key: key, Source: SourceCountry, Country: geo.country, ASN: asn}, nil
	default:
		return nil, ErrNotFound
	}
}
