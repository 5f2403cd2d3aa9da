package donation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/j-xsen/Bolt-MuseumOfJaxsen/internal/domain"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const createDonationPath = "/functions/v1/create-donation"

// Creator starts a hosted checkout for a donation.
type Creator interface {
	CreateDonation(ctx context.Context, req domain.DonationRequest) (*domain.CheckoutSession, error)
}

type ClientConfig struct {
	BaseURL      string
	AnonKey      string
	ContactEmail string
	Timeout      time.Duration
}

// Client calls the create-donation backend function.
type Client struct {
	cfg        ClientConfig
	httpClient *http.Client
}

func NewClient(cfg ClientConfig) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

type createDonationRequest struct {
	Amount     json.Number `json:"amount"`
	Email      string      `json:"email,omitempty"`
	ArtistName string      `json:"artistName"`
	ArtTitle   string      `json:"artTitle"`
}

type createDonationResponse struct {
	URL       string `json:"url"`
	SessionID string `json:"session_id"`
}

type backendError struct {
	Error string `json:"error"`
}

func (c *Client) CreateDonation(ctx context.Context, req domain.DonationRequest) (*domain.CheckoutSession, error) {
	if err := req.Validate(); err != nil {
		return nil, validationError(fmt.Errorf("%w: %w", ErrInvalidAmount, err))
	}
	if c.cfg.BaseURL == "" || c.cfg.AnonKey == "" {
		return nil, &Error{
			Kind:    KindConfiguration,
			Message: fmt.Sprintf(msgNotConfigured, c.cfg.ContactEmail),
			Err:     ErrNotConfigured,
		}
	}

	payload, err := json.Marshal(createDonationRequest{
		Amount:     json.Number(req.Amount.String()),
		Email:      req.Email,
		ArtistName: req.ArtistName,
		ArtTitle:   req.ArtTitle,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal donation request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+createDonationPath, bytes.NewReader(payload))
	if err != nil {
		return nil, &Error{Kind: KindConfiguration, Message: fmt.Sprintf(msgNotConfigured, c.cfg.ContactEmail),
			Err: fmt.Errorf("%w: %w", ErrNotConfigured, err)}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.AnonKey)

	res, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &Error{Kind: KindConnectivity, Message: msgConnectivity,
			Err: fmt.Errorf("%w: %w", ErrConnectivity, err)}
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return nil, &Error{Kind: KindConnectivity, Message: msgConnectivity,
			Err: fmt.Errorf("%w: read response: %w", ErrConnectivity, err)}
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		var be backendError
		_ = json.Unmarshal(body, &be)
		return nil, &Error{
			Kind:    KindUpstream,
			Status:  res.StatusCode,
			Message: upstreamMessage(res.StatusCode, be.Error),
			Err:     fmt.Errorf("%w: status %d", ErrUpstream, res.StatusCode),
		}
	}

	var out createDonationResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, &Error{Kind: KindUpstream, Status: res.StatusCode, Message: msgUnavailable,
			Err: fmt.Errorf("%w: decode response: %w", ErrUpstream, err)}
	}
	if out.URL == "" {
		return nil, &Error{Kind: KindUpstream, Status: res.StatusCode, Message: msgMissingRedirect,
			Err: fmt.Errorf("%w: empty checkout url", ErrUpstream)}
	}

	return &domain.CheckoutSession{ID: out.SessionID, URL: out.URL}, nil
}
