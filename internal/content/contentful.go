package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/j-xsen/Bolt-MuseumOfJaxsen/internal/domain"
	"github.com/j-xsen/Bolt-MuseumOfJaxsen/pkg/circuitbreaker"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const artContentType = "art"

var (
	ErrFetchFailed   = errors.New("failed to fetch art pieces from the exhibition")
	ErrPieceNotFound = errors.New("art piece not found")
)

type ClientConfig struct {
	BaseURL     string
	SpaceID     string
	Environment string
	AccessToken string
	Timeout     time.Duration
}

// Client reads art entries from the Contentful Content Delivery API.
type Client struct {
	httpClient *http.Client
	cfg        ClientConfig
	breaker    *circuitbreaker.Breaker[*entriesResponse]
	log        *slog.Logger
}

func NewClient(cfg ClientConfig, log *slog.Logger) *Client {
	if cfg.Environment == "" {
		cfg.Environment = "master"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Client{
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		cfg:     cfg,
		breaker: circuitbreaker.New[*entriesResponse](circuitbreaker.DefaultSettings("contentful"), log),
		log:     log,
	}
}

// FetchArtPieces returns every valid art entry, newest first.
func (c *Client) FetchArtPieces(ctx context.Context) ([]domain.ArtPiece, error) {
	q := url.Values{}
	q.Set("content_type", artContentType)
	q.Set("order", "-fields.date")
	q.Set("include", "1")
	q.Set("limit", "1000")

	resp, err := c.getEntries(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	return c.toPieces(ctx, resp), nil
}

func (c *Client) FetchArtPieceByID(ctx context.Context, id string) (*domain.ArtPiece, error) {
	q := url.Values{}
	q.Set("content_type", artContentType)
	q.Set("sys.id", id)
	q.Set("include", "1")

	resp, err := c.getEntries(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	pieces := c.toPieces(ctx, resp)
	if len(pieces) == 0 {
		return nil, ErrPieceNotFound
	}
	return &pieces[0], nil
}

func (c *Client) toPieces(ctx context.Context, resp *entriesResponse) []domain.ArtPiece {
	assets := resp.assetURLs()
	pieces := make([]domain.ArtPiece, 0, len(resp.Items))
	for _, item := range resp.Items {
		e, err := parseEntry(item, assets)
		if err != nil {
			c.log.WarnContext(ctx, "skipping invalid art entry",
				slog.String("entry_id", item.Sys.ID),
				slog.String("error", err.Error()))
			continue
		}
		pieces = append(pieces, ToArtPiece(e))
	}
	return pieces
}

func (c *Client) getEntries(ctx context.Context, q url.Values) (*entriesResponse, error) {
	endpoint := fmt.Sprintf("%s/spaces/%s/environments/%s/entries?%s",
		c.cfg.BaseURL, url.PathEscape(c.cfg.SpaceID), url.PathEscape(c.cfg.Environment), q.Encode())

	return c.breaker.Execute(func() (*entriesResponse, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+c.cfg.AccessToken)
		req.Header.Set("Accept", "application/json")

		res, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("contentful request: %w", err)
		}
		defer res.Body.Close()

		body, err := io.ReadAll(io.LimitReader(res.Body, 8<<20))
		if err != nil {
			return nil, fmt.Errorf("read contentful response: %w", err)
		}
		if res.StatusCode != http.StatusOK {
			var apiErr apiError
			_ = json.Unmarshal(body, &apiErr)
			return nil, fmt.Errorf("contentful returned %d %s: %s", res.StatusCode, apiErr.Sys.ID, apiErr.Message)
		}

		var out entriesResponse
		if err := json.Unmarshal(body, &out); err != nil {
			return nil, fmt.Errorf("decode contentful response: %w", err)
		}
		return &out, nil
	})
}

type sys struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	LinkType string `json:"linkType,omitempty"`
}

type link struct {
	Sys sys `json:"sys"`
}

type entryFields struct {
	Title  string  `json:"title"`
	Date   string  `json:"date"`
	Media  string  `json:"media"`
	LowRez *link   `json:"lowRez"`
	HiRez  *link   `json:"hiRez"`
	Ratio  float64 `json:"ratio"`
}

type entry struct {
	Sys    sys         `json:"sys"`
	Fields entryFields `json:"fields"`
}

type asset struct {
	Sys    sys `json:"sys"`
	Fields struct {
		File struct {
			URL string `json:"url"`
		} `json:"file"`
	} `json:"fields"`
}

type entriesResponse struct {
	Total    int     `json:"total"`
	Items    []entry `json:"items"`
	Includes struct {
		Asset []asset `json:"Asset"`
	} `json:"includes"`
}

func (r *entriesResponse) assetURLs() map[string]string {
	out := make(map[string]string, len(r.Includes.Asset))
	for _, a := range r.Includes.Asset {
		if a.Fields.File.URL != "" {
			out[a.Sys.ID] = a.Fields.File.URL
		}
	}
	return out
}

type apiError struct {
	Sys     sys    `json:"sys"`
	Message string `json:"message"`
}
