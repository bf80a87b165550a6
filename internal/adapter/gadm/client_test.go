package gadm

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casamapa/price-map-service/internal/domain"
	"github.com/casamapa/price-map-service/internal/observability"
)

const stateCollection = `{
	"type": "FeatureCollection",
	"features": [
		{"type": "Feature", "properties": {"GID_1": "PRT.12_1", "NAME_1": "Lisboa"}},
		{"type": "Feature", "properties": {"GID_1": "PRT.16_1", "NAME_1": "Porto"}},
		{"type": "Feature", "properties": {"GID_1": "PRT.12_1", "NAME_1": "Lisboa"}},
		{"type": "Feature", "properties": {"GID_1": "PRT.9_1", "NAME_1": "Faro"}}
	]
}`

func newTestClient(base string) *Client {
	return NewClient(base, "PRT", 5*time.Second, slog.Default(), observability.NewMetricsForTesting())
}

func TestClient_RegionNames_HTTP(t *testing.T) {
	t.Run("extracts deduplicated names in feature order", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/gadm41_PRT_1.json", r.URL.Path)
			_, _ = w.Write([]byte(stateCollection))
		}))
		defer srv.Close()

		names, err := newTestClient(srv.URL).RegionNames(context.Background(), domain.LevelState)
		require.NoError(t, err)
		assert.Equal(t, []string{"Lisboa", "Porto", "Faro"}, names)
	})

	t.Run("level selects the file and property", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/gadm41_PRT_2.json", r.URL.Path)
			_, _ = w.Write([]byte(`{"features":[{"properties":{"NAME_1":"Lisboa","NAME_2":"Cascais"}}]}`))
		}))
		defer srv.Close()

		names, err := newTestClient(srv.URL).RegionNames(context.Background(), domain.LevelCity)
		require.NoError(t, err)
		assert.Equal(t, []string{"Cascais"}, names)
	})

	t.Run("server error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "nope", http.StatusInternalServerError)
		}))
		defer srv.Close()

		_, err := newTestClient(srv.URL).RegionNames(context.Background(), domain.LevelState)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "status 500")
	})

	t.Run("collection without the level property", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"features":[{"properties":{"NAME_1":"Lisboa"}}]}`))
		}))
		defer srv.Close()

		_, err := newTestClient(srv.URL).RegionNames(context.Background(), domain.LevelNeighborhood)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "NAME_3")
	})

	t.Run("invalid level", func(t *testing.T) {
		_, err := newTestClient("http://unused").RegionNames(context.Background(), domain.Level(0))
		require.Error(t, err)
	})
}

func TestClient_RegionNames_LocalDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "gadm41_PRT_1.json"), []byte(stateCollection), 0o600))

	names, err := newTestClient(dir).RegionNames(context.Background(), domain.LevelState)
	require.NoError(t, err)
	assert.Equal(t, []string{"Lisboa", "Porto", "Faro"}, names)

	_, err = newTestClient(dir).RegionNames(context.Background(), domain.LevelCity)
	require.Error(t, err, "missing file")
}
