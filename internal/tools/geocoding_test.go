package tools

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const photonLisbon = `{"features":[{"geometry":{"coordinates":[-9.1393,38.7223]},"properties":{"name":"Lisboa"}}]}`

const nominatimLisbon = `[{"lat":"38.7223","lon":"-9.1393","display_name":"Lisboa, Portugal"}]`

func TestGeocoder_PrimarySuccess(t *testing.T) {
	photon := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(photonLisbon))
	}))
	defer photon.Close()

	nominatimCalls := 0
	nominatim := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nominatimCalls++
		w.Write([]byte(nominatimLisbon))
	}))
	defer nominatim.Close()

	geo := NewGeocoder(photon.URL, nominatim.URL, nil, 0)
	coords, ok := geo.Resolve(context.Background(), "Lisbon")

	require.True(t, ok)
	// Photon отдает [lon, lat] - проверяем, что порядок не перепутан.
	assert.InDelta(t, 38.7223, coords.Lat, 1e-6)
	assert.InDelta(t, -9.1393, coords.Lon, 1e-6)
	assert.Equal(t, "Lisboa", coords.DisplayName)
	assert.Zero(t, nominatimCalls, "резервный провайдер не должен вызываться при успехе первичного")
}

func TestGeocoder_FallbackInvokedOnceOnEmptyPrimary(t *testing.T) {
	photon := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"features":[]}`))
	}))
	defer photon.Close()

	nominatimCalls := 0
	nominatim := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nominatimCalls++
		assert.Contains(t, r.Header.Get("User-Agent"), "travel-planner")
		w.Write([]byte(nominatimLisbon))
	}))
	defer nominatim.Close()

	geo := NewGeocoder(photon.URL, nominatim.URL, nil, 0)
	coords, ok := geo.Resolve(context.Background(), "Lisbon")

	require.True(t, ok)
	assert.InDelta(t, 38.7223, coords.Lat, 1e-6)
	assert.Equal(t, "Lisboa, Portugal", coords.DisplayName)
	assert.Equal(t, 1, nominatimCalls)
}

func TestGeocoder_FallbackOnPrimaryServerError(t *testing.T) {
	photon := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer photon.Close()

	nominatim := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(nominatimLisbon))
	}))
	defer nominatim.Close()

	geo := NewGeocoder(photon.URL, nominatim.URL, nil, 0)
	_, ok := geo.Resolve(context.Background(), "Lisbon")
	assert.True(t, ok)
}

func TestGeocoder_BothProvidersFail(t *testing.T) {
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))
	defer failing.Close()

	geo := NewGeocoder(failing.URL, failing.URL, nil, 0)
	coords, ok := geo.Resolve(context.Background(), "Atlantis")

	assert.False(t, ok)
	assert.Nil(t, coords)
}

func TestGeocoder_MalformedPrimaryResponse(t *testing.T) {
	photon := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{not json`))
	}))
	defer photon.Close()

	nominatim := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(nominatimLisbon))
	}))
	defer nominatim.Close()

	geo := NewGeocoder(photon.URL, nominatim.URL, nil, 0)
	_, ok := geo.Resolve(context.Background(), "Lisbon")
	assert.True(t, ok)
}
