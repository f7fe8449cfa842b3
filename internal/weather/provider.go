package weather

import "context"

// Provider abstracts the source of citypage XML documents.
type Provider interface {
	Name() string
	FetchCitypage(ctx context.Context, city CityRecord) ([]byte, error)
}
