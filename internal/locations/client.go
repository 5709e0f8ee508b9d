package locations

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DefaultBaseURL is the Mapillary Graph API endpoint.
const DefaultBaseURL = "https://graph.mapillary.com"

// Image is one entry from an image search response.
type Image struct {
	ID string `json:"id"`
}

// Geometry is a GeoJSON point as returned by the Graph API.
type Geometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"` // [lng, lat]
}

// ImageDetail is the per-image lookup response.
type ImageDetail struct {
	ID               string    `json:"id"`
	IsPano           bool      `json:"is_pano"`
	Geometry         *Geometry `json:"geometry"`
	ComputedGeometry *Geometry `json:"computed_geometry"`
}

// BestGeometry returns the captured geometry, falling back to the
// computed one when the capture lacks coordinates.
func (d *ImageDetail) BestGeometry() *Geometry {
	if d.Geometry != nil && len(d.Geometry.Coordinates) >= 2 {
		return d.Geometry
	}
	if d.ComputedGeometry != nil && len(d.ComputedGeometry.Coordinates) >= 2 {
		return d.ComputedGeometry
	}
	return nil
}

// TokenResponse is the OAuth exchange response passed through to clients.
type TokenResponse = json.RawMessage

// ClientConfig holds configuration for the Mapillary API client
type ClientConfig struct {
	// HTTPClient is the client used for requests, defaulted when nil
	HTTPClient *http.Client

	// BaseURL overrides the Graph API endpoint, used in tests
	BaseURL string

	// AccessToken is the server's own API token
	AccessToken string

	// ClientID and ClientSecret drive the OAuth code exchange
	ClientID     string
	ClientSecret string

	// RedirectURI is the registered OAuth callback
	RedirectURI string
}

// Client is a thin Mapillary Graph API client. The round location
// provider and the REST passthrough routes both sit on top of it.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	accessToken  string
	clientID     string
	clientSecret string
	redirectURI  string
}

// NewClient creates a new Mapillary API client
func NewClient(cfg *ClientConfig) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{
		httpClient:   httpClient,
		baseURL:      strings.TrimRight(baseURL, "/"),
		accessToken:  cfg.AccessToken,
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		redirectURI:  cfg.RedirectURI,
	}, nil
}

// SearchImagesParams are the query options for SearchImages.
type SearchImagesParams struct {
	// BBox is "minLng,minLat,maxLng,maxLat"
	BBox string

	// Pano restricts results to panorama images
	Pano bool

	// Limit caps the number of results
	Limit int

	// AccessToken overrides the server token for user-token requests
	AccessToken string
}

// SearchImages queries images within a bounding box.
func (c *Client) SearchImages(ctx context.Context, params *SearchImagesParams) ([]Image, error) {
	if params == nil || params.BBox == "" {
		return nil, errors.New("params and bbox cannot be empty")
	}

	q := url.Values{}
	q.Set("access_token", c.token(params.AccessToken))
	q.Set("bbox", params.BBox)
	if params.Pano {
		q.Set("is_pano", "true")
	}
	limit := params.Limit
	if limit <= 0 {
		limit = 1
	}
	q.Set("limit", strconv.Itoa(limit))

	var resp struct {
		Data []Image `json:"data"`
	}
	if err := c.getJSON(ctx, c.baseURL+"/images?"+q.Encode(), params.AccessToken, &resp); err != nil {
		return nil, fmt.Errorf("failed to search images: %w", err)
	}

	return resp.Data, nil
}

// GetImageDetail looks up one image's geometry and panorama flag.
func (c *Client) GetImageDetail(ctx context.Context, imageID, accessToken string) (*ImageDetail, error) {
	if imageID == "" {
		return nil, errors.New("image ID cannot be empty")
	}

	q := url.Values{}
	q.Set("access_token", c.token(accessToken))
	q.Set("fields", "id,is_pano,geometry,computed_geometry")

	var detail ImageDetail
	if err := c.getJSON(ctx, c.baseURL+"/"+url.PathEscape(imageID)+"?"+q.Encode(), accessToken, &detail); err != nil {
		return nil, fmt.Errorf("failed to get image %s: %w", imageID, err)
	}

	return &detail, nil
}

// ExchangeToken swaps an OAuth authorization code for an access token.
// The raw response body is returned so the REST layer can pass it
// through to the browser unchanged.
func (c *Client) ExchangeToken(ctx context.Context, code string) (TokenResponse, error) {
	if code == "" {
		return nil, errors.New("authorization code cannot be empty")
	}

	body, err := json.Marshal(map[string]string{
		"grant_type":   "authorization_code",
		"client_id":    c.clientID,
		"code":         code,
		"redirect_uri": c.redirectURI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal token request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/token", strings.NewReader(string(body)))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "OAuth "+c.clientSecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token exchange request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read token response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("token exchange failed with status %d: %s", resp.StatusCode, string(raw))
	}

	return TokenResponse(raw), nil
}

func (c *Client) token(override string) string {
	if override != "" {
		return override
	}
	return c.accessToken
}

func (c *Client) getJSON(ctx context.Context, rawURL, accessToken string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "OAuth "+c.token(accessToken))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
