package landmask

import (
	"archive/zip"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

// buildLandZip builds an in-memory zip containing placeholder shapefile
// members.
func buildLandZip(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, name := range []string{"ne_110m_land.shp", "ne_110m_land.shx", "ne_110m_land.dbf"} {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte("stub"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestFetchDownloadsAndExtracts(t *testing.T) {
	payload := buildLandZip(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/zip")
		_, _ = w.Write(payload)
	}))
	defer srv.Close()

	dataDir := t.TempDir()
	err := Fetch(context.Background(), srv.Client(), srv.URL, dataDir, rate.NewLimiter(rate.Inf, 1))
	require.NoError(t, err)

	shp := filepath.Join(dataDir, "ne_110m_land", "ne_110m_land.shp")
	_, err = os.Stat(shp)
	assert.NoError(t, err)
}

func TestFetchRetriesTransientStatus(t *testing.T) {
	payload := buildLandZip(t)
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write(payload)
	}))
	defer srv.Close()

	err := Fetch(context.Background(), srv.Client(), srv.URL, t.TempDir(), rate.NewLimiter(rate.Inf, 1))
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestFetchPermanentFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	err := Fetch(context.Background(), srv.Client(), srv.URL, t.TempDir(), rate.NewLimiter(rate.Inf, 1))
	assert.Error(t, err)
}

func TestFetchBadArchive(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not a zip"))
	}))
	defer srv.Close()

	err := Fetch(context.Background(), srv.Client(), srv.URL, t.TempDir(), rate.NewLimiter(rate.Inf, 1))
	assert.Error(t, err)
}
