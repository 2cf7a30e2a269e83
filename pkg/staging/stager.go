// =============================================================================
// OpenHoldings - Download Staging
// =============================================================================
//
// This module retrieves holdings documents from issuer websites and stages
// them as local files while a provider decodes them. It handles:
//   - Unique staged file names (holdings-<ticker>-<uuid>.<ext>)
//   - Request pacing across downloads (token bucket)
//   - A browser-like User-Agent, since several issuers reject bare clients
//   - Removal of the staged file on every exit path
//   - Sweeping files left behind by interrupted runs
//
// =============================================================================

package staging

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// DefaultUserAgent is sent with every download.
const DefaultUserAgent = "Mozilla/5.0"

// filePrefix starts every staged file name.
const filePrefix = "holdings-"

// =============================================================================
// STAGER
// =============================================================================

// Options configure a Stager.
type Options struct {
	// Dir receives staged files. Default: the OS temp directory.
	Dir string

	// UserAgent is sent with each request. Default: DefaultUserAgent.
	UserAgent string

	// Timeout bounds one download. Default: 30s.
	Timeout time.Duration

	// RequestsPerSecond paces downloads. Zero or less disables pacing.
	RequestsPerSecond float64
}

// Stager downloads holdings documents into a staging directory.
type Stager struct {
	dir       string
	userAgent string
	client    *http.Client
	limiter   *rate.Limiter
	log       *logrus.Entry
}

// New creates a Stager.
func New(opts Options, log *logrus.Entry) *Stager {
	if opts.Dir == "" {
		opts.Dir = os.TempDir()
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
	}

	return &Stager{
		dir:       opts.Dir,
		userAgent: opts.UserAgent,
		client:    &http.Client{Timeout: opts.Timeout},
		limiter:   limiter,
		log:       log,
	}
}

// Dir returns the staging directory.
func (s *Stager) Dir() string { return s.dir }

// Stage downloads url into a new staged file, passes the open file to fn and
// removes the file afterwards, whether the download, fn or the cleanup
// itself fails.
//
// PARAMETERS:
//   - url: The document to download.
//   - ext: The staged file extension ("csv", "xlsx", "json").
//   - ticker: The fund ticker, used in the staged file name.
//   - fn: Reads the staged document.
//
// RETURNS:
//   - The first error from downloading, fn, or removing the file.
func (s *Stager) Stage(ctx context.Context, url, ext, ticker string, fn func(io.Reader) error) (err error) {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create staging directory %s: %w", s.dir, err)
	}

	path := filepath.Join(s.dir, FileName(ticker, ext))
	log := s.log.WithFields(logrus.Fields{"url": url, "file": filepath.Base(path)})

	defer func() {
		rmErr := os.Remove(path)
		if rmErr != nil && !os.IsNotExist(rmErr) {
			log.WithError(rmErr).Warn("failed to remove staged file")
			if err == nil {
				err = fmt.Errorf("failed to remove staged file: %w", rmErr)
			}
		}
	}()

	start := time.Now()
	size, err := s.download(ctx, url, path)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"bytes":       size,
		"duration_ms": time.Since(start).Milliseconds(),
	}).Debug("staged holdings document")

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open staged file: %w", err)
	}
	defer f.Close()

	return fn(f)
}

// download writes the response body of url to path.
func (s *Stager) download(ctx context.Context, url, path string) (int64, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return 0, fmt.Errorf("download of %s not started: %w", url, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("invalid download request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to download %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, &HTTPError{URL: url, StatusCode: resp.StatusCode}
	}

	out, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("failed to create staged file: %w", err)
	}
	size, err := io.Copy(out, resp.Body)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return 0, fmt.Errorf("failed to write staged file: %w", err)
	}
	return size, nil
}

// HTTPError reports a download answered with a non-2xx status.
type HTTPError struct {
	URL        string
	StatusCode int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("download of %s failed: %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

// =============================================================================
// FILE NAMING AND SWEEPING
// =============================================================================

// FileName returns a unique staged file name for a ticker. Path separators
// in the ticker ("BRK/B") are replaced so the file stays in the staging
// directory.
//
// EXAMPLE:
//   FileName("IVV", "json") -> "holdings-IVV-1b4e28ba-2fa1-11d2-883f-0016d3cca427.json"
func FileName(ticker, ext string) string {
	safe := strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == filepath.Separator {
			return '_'
		}
		return r
	}, ticker)
	return fmt.Sprintf("%s%s-%s.%s", filePrefix, safe, uuid.New().String(), strings.TrimPrefix(ext, "."))
}

// Sweep removes staged files older than maxAge, left behind when a previous
// run was killed mid-download.
//
// RETURNS:
//   - The number of files removed.
//   - An error if the staging directory cannot be scanned.
func (s *Stager) Sweep(maxAge time.Duration) (int, error) {
	files, err := filepath.Glob(filepath.Join(s.dir, filePrefix+"*"))
	if err != nil {
		return 0, fmt.Errorf("failed to scan staging directory: %w", err)
	}

	removed := 0
	cutoff := time.Now().Add(-maxAge)
	for _, file := range files {
		info, err := os.Stat(file)
		if err != nil || info.IsDir() || info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(file); err != nil {
			s.log.WithError(err).WithField("file", file).Warn("failed to sweep staged file")
			continue
		}
		removed++
	}
	return removed, nil
}
