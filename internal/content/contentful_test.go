package content

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/j-xsen/Bolt-MuseumOfJaxsen/pkg/circuitbreaker"
	"github.com/j-xsen/Bolt-MuseumOfJaxsen/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const entriesFixture = `{
  "total": 3,
  "items": [
    {"sys": {"id": "e1", "type": "Entry"}, "fields": {
      "title": "Blue Hour", "date": "2024-03-15", "media": "Oil",
      "lowRez": {"sys": {"id": "a1", "type": "Link", "linkType": "Asset"}},
      "hiRez": {"sys": {"id": "a2", "type": "Link", "linkType": "Asset"}},
      "ratio": 0.75}},
    {"sys": {"id": "e2", "type": "Entry"}, "fields": {
      "title": "No Images", "date": "2023-01-01", "ratio": 1}},
    {"sys": {"id": "e3", "type": "Entry"}, "fields": {
      "title": "Red Shift", "date": "2022-06-01T00:00+00:00",
      "lowRez": {"sys": {"id": "a1", "type": "Link", "linkType": "Asset"}},
      "hiRez": {"sys": {"id": "a2", "type": "Link", "linkType": "Asset"}},
      "ratio": 1.5}}
  ],
  "includes": {"Asset": [
    {"sys": {"id": "a1", "type": "Asset"}, "fields": {"file": {"url": "//images.ctfassets.net/low.jpg"}}},
    {"sys": {"id": "a2", "type": "Asset"}, "fields": {"file": {"url": "//images.ctfassets.net/hi.jpg"}}}
  ]}
}`

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(ClientConfig{
		BaseURL:     srv.URL,
		SpaceID:     "space1",
		AccessToken: "token",
	}, logger.Discard())
}

func TestFetchArtPieces(t *testing.T) {
	var gotPath string
	var gotQuery map[string][]string
	var gotAuth string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(entriesFixture))
	})

	pieces, err := c.FetchArtPieces(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "/spaces/space1/environments/master/entries", gotPath)
	assert.Equal(t, []string{"art"}, gotQuery["content_type"])
	assert.Equal(t, []string{"-fields.date"}, gotQuery["order"])
	assert.Equal(t, "Bearer token", gotAuth)

	// The entry without images is skipped; CMS order is kept.
	require.Len(t, pieces, 2)
	assert.Equal(t, "Blue Hour", pieces[0].Title)
	assert.Equal(t, "Oil", pieces[0].Medium)
	assert.Equal(t, "https://images.ctfassets.net/low.jpg", pieces[0].ImageURL)
	assert.Equal(t, "red-shift", pieces[1].Slug)
	assert.Equal(t, "June", pieces[1].Month)
	assert.Equal(t, `24" x 16"`, pieces[1].Dimensions)
}

func TestFetchArtPieces_UpstreamError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"sys":{"type":"Error","id":"AccessTokenInvalid"},"message":"The access token you sent could not be found or is invalid."}`))
	})

	_, err := c.FetchArtPieces(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFetchFailed)
	assert.Contains(t, err.Error(), "AccessTokenInvalid")
}

func TestFetchArtPieces_BreakerOpens(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	for i := 0; i < 5; i++ {
		_, err := c.FetchArtPieces(context.Background())
		require.ErrorIs(t, err, ErrFetchFailed)
	}

	_, err := c.FetchArtPieces(context.Background())
	assert.ErrorIs(t, err, ErrFetchFailed)
	assert.ErrorIs(t, err, circuitbreaker.ErrOpen)
	assert.Equal(t, int32(5), calls.Load())
}

func TestFetchArtPieceByID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("sys.id") == "e1" {
			_, _ = w.Write([]byte(entriesFixture))
			return
		}
		_, _ = w.Write([]byte(`{"total":0,"items":[]}`))
	})

	p, err := c.FetchArtPieceByID(context.Background(), "e1")
	require.NoError(t, err)
	assert.Equal(t, "e1", p.ID)

	_, err = c.FetchArtPieceByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrPieceNotFound)
}
