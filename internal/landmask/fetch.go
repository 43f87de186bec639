package landmask

import (
	"archive/zip"
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/seqgeo/argplace/internal/resilience"
)

// DefaultDownloadURL points at the Natural Earth 1:110m land archive.
const DefaultDownloadURL = "https://naciscdn.org/naturalearth/110m/physical/ne_110m_land.zip"

// Fetch downloads the Natural Earth land archive and extracts it into
// dataDir/ne_110m_land. Downloads are rate limited and retried on transient
// failures. A nil limiter or client selects defaults.
func Fetch(ctx context.Context, client *http.Client, url, dataDir string, limiter *rate.Limiter) error {
	if client == nil {
		client = http.DefaultClient
	}
	if url == "" {
		url = DefaultDownloadURL
	}
	if limiter == nil {
		limiter = rate.NewLimiter(2, 1)
	}

	log := zap.L().With(zap.String("component", "landmask.fetch"))

	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return eris.Wrap(err, "landmask: create data dir")
	}

	tmp, err := os.MkdirTemp("", "landmask-*")
	if err != nil {
		return eris.Wrap(err, "landmask: create temp dir")
	}
	defer func() { _ = os.RemoveAll(tmp) }()

	zipPath := filepath.Join(tmp, "land.zip")
	log.Info("downloading land dataset", zap.String("url", url))

	cfg := resilience.DefaultRetryConfig()
	cfg.OnRetry = resilience.RetryLogger("landmask", "download")
	err = resilience.Do(ctx, cfg, func(ctx context.Context) error {
		if err := limiter.Wait(ctx); err != nil {
			return err
		}
		return downloadFile(ctx, client, url, zipPath)
	})
	if err != nil {
		return eris.Wrap(err, "landmask: download land archive")
	}

	extractDir := filepath.Join(dataDir, "ne_110m_land")
	if err := os.MkdirAll(extractDir, 0o755); err != nil {
		return eris.Wrap(err, "landmask: create extract dir")
	}
	if err := extractZIP(zipPath, extractDir); err != nil {
		return eris.Wrap(err, "landmask: extract land archive")
	}

	shpPath, err := findFileByExt(extractDir, ".shp")
	if err != nil {
		return eris.Wrap(err, "landmask: no shapefile in archive")
	}

	log.Info("land dataset ready", zap.String("shapefile", shpPath))
	return nil
}

// downloadFile downloads a URL to a local file.
func downloadFile(ctx context.Context, client *http.Client, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return eris.Wrap(err, "build request")
	}

	resp, err := client.Do(req)
	if err != nil {
		return eris.Wrap(err, "download")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		if resilience.IsTransientHTTPStatus(resp.StatusCode) {
			return resilience.NewTransientError(
				eris.Errorf("download returned status %d", resp.StatusCode), resp.StatusCode)
		}
		return eris.Errorf("download returned status %d", resp.StatusCode)
	}

	f, err := os.Create(dest)
	if err != nil {
		return eris.Wrap(err, "create file")
	}
	defer f.Close() //nolint:errcheck

	if _, err := io.Copy(f, resp.Body); err != nil {
		return eris.Wrap(err, "write file")
	}

	return nil
}

// extractZIP extracts a ZIP archive flat into the destination directory.
func extractZIP(zipPath, destDir string) error {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return eris.Wrap(err, "open zip")
	}
	defer r.Close() //nolint:errcheck

	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		destPath := filepath.Join(destDir, filepath.Base(f.Name))

		rc, err := f.Open()
		if err != nil {
			return eris.Wrapf(err, "open zip entry %s", f.Name)
		}

		outFile, err := os.Create(destPath)
		if err != nil {
			_ = rc.Close()
			return eris.Wrapf(err, "create %s", destPath)
		}

		if _, err := io.Copy(outFile, rc); err != nil {
			_ = outFile.Close()
			_ = rc.Close()
			return eris.Wrapf(err, "extract %s", f.Name)
		}
		_ = outFile.Close()
		_ = rc.Close()
	}

	return nil
}

// findFileByExt finds the first file with the given extension in a directory.
func findFileByExt(dir, ext string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", eris.Wrap(err, "read directory")
	}
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(strings.ToLower(e.Name()), ext) {
			return filepath.Join(dir, e.Name()), nil
		}
	}
	return "", eris.Errorf("no %s file found in %s", ext, dir)
}
