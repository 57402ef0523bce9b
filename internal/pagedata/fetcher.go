// Package pagedata assembles the data behind the public pages from the public
// API, going through the response cache so repeated page loads skip the network.
package pagedata

import (
	"context"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/shoileazeez/portfolio/internal/cache"
	"github.com/shoileazeez/portfolio/internal/experience"
	"github.com/shoileazeez/portfolio/internal/personalinfo"
	"github.com/shoileazeez/portfolio/internal/telemetry/metrics"
	"github.com/shoileazeez/portfolio/internal/telemetry/tracing"
)

const (
	personalInfoPath = "/api/personal-info"
	experiencePath   = "/api/experience"
)

// Defaults are used for site metadata while the API is unreachable or has no profile yet.
var Defaults = personalinfo.PersonalInfo{
	Name:   "Shoile Abdulazeez",
	Title:  "Full-Stack Developer and AI Enthusiast",
	Bio:    "Portfolio of Shoile Abdulazeez, Full-Stack Developer and AI Enthusiast specializing in machine learning, web development, and intelligent applications.",
	Avatar: "https://avatars.githubusercontent.com/u/170754445?s=400&u=f38310f962ed1a442e43496faaa144419df0e09a&v=4",
}

type About struct {
	PersonalInfo *personalinfo.PersonalInfo `json:"personal_info"`
	Experience   []*experience.Experience   `json:"experience"`
}

type OpenGraph struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Images      []string `json:"images"`
	Type        string   `json:"type"`
}

type Icons struct {
	Icon     string `json:"icon"`
	Shortcut string `json:"shortcut"`
	Apple    string `json:"apple"`
}

type Metadata struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	OpenGraph   OpenGraph `json:"open_graph"`
	Icons       Icons     `json:"icons"`
}

type Fetcher struct {
	client  *cache.Client
	baseURL string
	ttl     time.Duration
}

// NewFetcher reads from the public API at baseURL. Every fetch result is counted when metricsManager is set.
func NewFetcher(client *cache.Client, baseURL string, ttl time.Duration, metricsManager *metrics.Manager) *Fetcher {
	if metricsManager != nil {
		client.OnFetch = func(result cache.FetchResult) {
			metricsManager.CounterPageCacheFetches.WithLabelValues(string(result)).Inc()
		}
	}
	return &Fetcher{
		client:  client,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		ttl:     ttl,
	}
}

func (f *Fetcher) url(path string) string {
	return f.baseURL + path
}

// About loads the profile and the experience list concurrently.
// PersonalInfo is nil while no profile is stored.
func (f *Fetcher) About(ctx context.Context) (*About, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "pagedata.about")
	defer span.End()

	var info personalinfo.PersonalInfo
	var entries []*experience.Experience

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		info, err = cache.Fetch[personalinfo.PersonalInfo](gCtx, f.client, f.url(personalInfoPath), nil, f.ttl)
		if err != nil {
			return fmt.Errorf("personal info: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		entries, err = cache.Fetch[[]*experience.Experience](gCtx, f.client, f.url(experiencePath), nil, f.ttl)
		if err != nil {
			return fmt.Errorf("experience: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}

	about := &About{Experience: entries}
	if about.Experience == nil {
		about.Experience = []*experience.Experience{}
	}
	if info.ID != 0 {
		about.PersonalInfo = &info
	}
	return about, nil
}

// SiteMetadata never fails: missing profile fields are filled from Defaults.
func (f *Fetcher) SiteMetadata(ctx context.Context) Metadata {
	ctx, span := tracing.GlobalTracer.Start(ctx, "pagedata.siteMetadata")
	defer span.End()

	info, err := cache.Fetch[personalinfo.PersonalInfo](ctx, f.client, f.url(personalInfoPath), nil, f.ttl)
	if err != nil {
		tracing.RecordError(span, err)
		log.Warnf("personal info not available, using fallback metadata: %s", err)
		info = Defaults
	}
	return buildMetadata(withDefaults(info))
}

func (f *Fetcher) ClearCache() cache.Stats {
	stats := f.client.Cache().Stats()
	f.client.Cache().Clear()
	return stats
}

func (f *Fetcher) CacheStats() cache.Stats {
	return f.client.Cache().Stats()
}

func withDefaults(info personalinfo.PersonalInfo) personalinfo.PersonalInfo {
	if info.Name == "" {
		info.Name = Defaults.Name
	}
	if info.Title == "" {
		info.Title = Defaults.Title
	}
	if info.Bio == "" {
		info.Bio = Defaults.Bio
	}
	if info.Avatar == "" {
		info.Avatar = Defaults.Avatar
	}
	return info
}

func buildMetadata(info personalinfo.PersonalInfo) Metadata {
	title := info.Name + " - " + info.Title
	return Metadata{
		Title:       title,
		Description: info.Bio,
		OpenGraph: OpenGraph{
			Title:       title,
			Description: info.Bio,
			Images:      []string{info.Avatar},
			Type:        "website",
		},
		Icons: Icons{
			Icon:     info.Avatar,
			Shortcut: info.Avatar,
			Apple:    info.Avatar,
		},
	}
}
