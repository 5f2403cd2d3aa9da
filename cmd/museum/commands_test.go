package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDonateCmd_PrintsCheckoutURL(t *testing.T) {
	var got map[string]any
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/functions/v1/create-donation", r.URL.Path)
		assert.Equal(t, "Bearer anon", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"url":"https://checkout.example/cs_1","session_id":"cs_1"}`))
	}))
	defer backend.Close()

	t.Setenv("BACKEND_URL", backend.URL)
	t.Setenv("BACKEND_ANON_KEY", "anon")

	var out bytes.Buffer
	cmd := donateCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"--amount", "$15", "--artist", "Jaxsen", "--title", "Dusk"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "https://checkout.example/cs_1")
	assert.Equal(t, "Jaxsen", got["artistName"])
	assert.EqualValues(t, 15, got["amount"])
}

func TestDonateCmd_UnconfiguredOffersContact(t *testing.T) {
	t.Setenv("BACKEND_URL", "")
	t.Setenv("BACKEND_ANON_KEY", "")
	t.Setenv("CONTACT_EMAIL", "museum@example.com")

	var out bytes.Buffer
	cmd := donateCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"--amount", "5", "--artist", "Jaxsen", "--title", "Dusk"})

	require.Error(t, cmd.Execute())
	assert.Contains(t, out.String(), "Payment system is not configured")
	assert.Contains(t, out.String(), "mailto:museum@example.com?subject=Donation%20Inquiry")
}

func TestDonateCmd_InvalidAmount(t *testing.T) {
	var out bytes.Buffer
	cmd := donateCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"--amount", "0.50"})

	require.Error(t, cmd.Execute())
	assert.Contains(t, out.String(), "Please enter a valid donation amount of at least $1")
	assert.NotContains(t, out.String(), "mailto:")
}

func TestFormatCents(t *testing.T) {
	assert.Equal(t, "25.00", formatCents(2500))
	assert.Equal(t, "0.05", formatCents(5))
	assert.Equal(t, "1234.56", formatCents(123456))
}
