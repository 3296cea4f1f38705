package places

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/dogli-api/internal/domain"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	placesapi "google.golang.org/api/places/v1"
)

const (
	dogParkQuery  = "dog park"
	maxPages      = 3
	pageSize      = 20
	placeResource = "places/"
)

var detailFields = []googleapi.Field{"id", "displayName", "formattedAddress", "location"}

var searchFields = []googleapi.Field{
	"places.id", "places.displayName", "places.formattedAddress", "places.location", "nextPageToken",
}

// Client looks up parks in the Google Places API (New).
type Client struct {
	svc *placesapi.Service
}

// NewClient authenticates with an API key. Extra options are appended and
// may override the endpoint or HTTP client.
func NewClient(ctx context.Context, apiKey string, opts ...option.ClientOption) (*Client, error) {
	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	svc, err := placesapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create places service: %w", err)
	}
	return &Client{svc: svc}, nil
}

// Details returns an unsaved park built from the place's details.
// Unknown or malformed place IDs yield ErrNotFound.
func (c *Client) Details(ctx context.Context, placeID string) (*domain.Park, error) {
	p, err := c.svc.Places.Get(placeResource + placeID).Fields(detailFields...).Context(ctx).Do()
	if err != nil {
		var gerr *googleapi.Error
		if errors.As(err, &gerr) && (gerr.Code == http.StatusNotFound || gerr.Code == http.StatusBadRequest) {
			return nil, fmt.Errorf("place %s not found: %w", placeID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("places get: %w", err)
	}
	park := toPark(p)
	if park.PlaceID == "" {
		park.PlaceID = placeID
	}
	return park, nil
}

// SearchDogParks returns dog parks around (lat, lon), following up to three
// result pages.
func (c *Client) SearchDogParks(ctx context.Context, lat, lon, radiusMeters float64) ([]domain.Park, error) {
	req := &placesapi.GoogleMapsPlacesV1SearchTextRequest{
		TextQuery: dogParkQuery,
		PageSize:  pageSize,
		LocationBias: &placesapi.GoogleMapsPlacesV1SearchTextRequestLocationBias{
			Circle: &placesapi.GoogleMapsPlacesV1Circle{
				Center: &placesapi.GoogleTypeLatLng{Latitude: lat, Longitude: lon},
				Radius: radiusMeters,
			},
		},
	}

	var parks []domain.Park
	for page := 0; page < maxPages; page++ {
		resp, err := c.svc.Places.SearchText(req).Fields(searchFields...).Context(ctx).Do()
		if err != nil {
			return nil, fmt.Errorf("places search: %w", err)
		}
		for _, p := range resp.Places {
			if p == nil || p.Id == "" {
				continue
			}
			parks = append(parks, *toPark(p))
		}
		if resp.NextPageToken == "" {
			break
		}
		req.PageToken = resp.NextPageToken
	}
	return parks, nil
}

func toPark(p *placesapi.GoogleMapsPlacesV1Place) *domain.Park {
	park := &domain.Park{
		PlaceID: p.Id,
		Address: p.FormattedAddress,
	}
	if p.DisplayName != nil {
		park.Name = p.DisplayName.Text
	}
	if p.Location != nil {
		park.Latitude = p.Location.Latitude
		park.Longitude = p.Location.Longitude
	}
	return park
}
