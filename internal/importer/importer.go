// Package importer loads the hotel catalog from a seed file and keeps it in sync with an
// upstream JSON feed.
package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"hotel-booking-backend/config"
	"hotel-booking-backend/internal/store"
)

// Service imports catalog snapshots into the store.
type Service struct {
	cfg    *config.ImporterConfig
	store  store.CatalogStore
	client   *http.Client
	log      *logrus.Logger
	onChange func()
}

type Option func(*Service)

func WithLogger(log *logrus.Logger) Option {
	return func(s *Service) { s.log = log }
}

// WithOnChange registers fn to run after every successful catalog import.
func WithOnChange(fn func()) Option {
	return func(s *Service) { s.onChange = fn }
}

// WithHTTPClient replaces the client used for the feed.
func WithHTTPClient(client *http.Client) Option {
	return func(s *Service) { s.client = client }
}

// NewService creates an importer. A malformed proxy URL is logged and ignored.
func NewService(cfg *config.ImporterConfig, st store.CatalogStore, opts ...Option) *Service {
	s := &Service{cfg: cfg, store: st, log: logrus.StandardLogger()}
	for _, opt := range opts {
		opt(s)
	}
	if s.client == nil {
		var transport http.RoundTripper = &http.Transport{}
		if cfg.HTTPProxy != "" {
			proxyURL, err := url.Parse(cfg.HTTPProxy)
			if err != nil {
				s.log.Warnf("Invalid proxy URL %q: %v. Importer will not use a proxy.", cfg.HTTPProxy, err)
			} else {
				transport = &http.Transport{Proxy: http.ProxyURL(proxyURL)}
			}
		}
		s.client = &http.Client{Transport: transport, Timeout: 30 * time.Second}
	}
	return s
}

// LoadSeedFile reads a YAML catalog snapshot.
func LoadSeedFile(path string) (store.CatalogFeed, error) {
	var feed store.CatalogFeed
	f, err := os.Open(path)
	if err != nil {
		return feed, fmt.Errorf("failed to open seed file: %w", err)
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(&feed); err != nil && err != io.EOF {
		return feed, fmt.Errorf("failed to decode seed file %q: %w", path, err)
	}
	return feed, nil
}

// ImportSeed applies the configured seed file.
func (s *Service) ImportSeed(ctx context.Context) error {
	feed, err := LoadSeedFile(s.cfg.SeedFile)
	if err != nil {
		return err
	}
	s.log.WithFields(logrus.Fields{
		"file":   s.cfg.SeedFile,
		"hotels": len(feed.Hotels),
		"kinds":  len(feed.Kinds),
		"rooms":  len(feed.Rooms),
	}).Info("Importing catalog seed")
	if err := s.store.UpsertCatalog(ctx, feed); err != nil {
		return err
	}
	s.changed()
	return nil
}

// SyncOnce fetches the feed and applies it.
func (s *Service) SyncOnce(ctx context.Context) error {
	feed, err := s.fetchFeed(ctx)
	if err != nil {
		return err
	}
	if err := s.store.UpsertCatalog(ctx, *feed); err != nil {
		return fmt.Errorf("failed to apply catalog feed: %w", err)
	}
	s.changed()
	s.log.WithField("rooms", len(feed.Rooms)).Info("Catalog sync finished")
	return nil
}

func (s *Service) changed() {
	if s.onChange != nil {
		s.onChange()
	}
}

// Run imports the seed file once and then polls the feed until ctx is cancelled.
func (s *Service) Run(ctx context.Context) {
	if !s.cfg.Enabled {
		s.log.Info("Catalog importer is disabled. Not starting.")
		return
	}

	if s.cfg.SeedFile != "" {
		if err := s.ImportSeed(ctx); err != nil {
			s.log.WithError(err).Error("Catalog seed import failed")
		}
	}
	if s.cfg.FeedURL == "" {
		return
	}

	s.log.Info("Starting catalog feed poller...")
	if err := s.SyncOnce(ctx); err != nil {
		s.log.WithError(err).Error("Catalog sync failed")
	}

	timer := time.NewTimer(s.cfg.Interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("Catalog feed poller shutting down.")
			return
		case <-timer.C:
			if err := s.SyncOnce(ctx); err != nil {
				s.log.WithError(err).Error("Catalog sync failed")
			}
			timer.Reset(s.cfg.Interval)
		}
	}
}

func (s *Service) fetchFeed(ctx context.Context) (*store.CatalogFeed, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.FeedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	for key, value := range s.cfg.Headers {
		req.Header.Set(key, value)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("received non-200 status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var feedResp FeedResponse
	if err := json.Unmarshal(body, &feedResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal feed response: %w", err)
	}
	if feedResp.Code != 0 {
		return nil, fmt.Errorf("feed returned non-zero application code %d: %s", feedResp.Code, feedResp.Message)
	}
	return &feedResp.Data, nil
}
