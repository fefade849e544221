package commands

import (
	"fmt"
	"time"
	"xwordclues/internal/batch"
	"xwordclues/internal/components/telemetry"
	"xwordclues/internal/scrapers/xwordinfo"
	"xwordclues/internal/tables"
	"xwordclues/lib/restyutil"
)

const envPrefix = "XWORDCLUES"

type Config struct {
	BaseUrl     string              `json:"base_url" validate:"required,url"`
	Endpoints   xwordinfo.Endpoints `json:"endpoints"`
	UserAgent   string              `json:"user_agent"`
	LoginMarker string              `json:"login_marker"`
	// RequestsPerSecond caps requests sent to the site, 0 means no cap.
	RequestsPerSecond       float64 `json:"requests_per_second" validate:"gte=0"`
	DisableCloudflareBypass bool    `json:"disable_cloudflare_bypass"`
	TimeoutSeconds          int     `json:"timeout_seconds" validate:"gte=0"`

	// PaceScale multiplies the one second delay between worklist items.
	PaceScale float64 `json:"pace_scale" validate:"gte=0"`
	// Answers is how many answers each flashcard lists.
	Answers int `json:"answers" validate:"gte=1"`
	// Similarity drops clues this similar to an earlier clue of the same
	// word, 0 only drops exact repeats.
	Similarity float64 `json:"similarity" validate:"gte=0,lte=1"`
	MinRows    int     `json:"min_rows" validate:"gte=0"`

	// StateDb is where resumable runs keep track of finished items,
	// defaults to the output path with a .state.db suffix.
	StateDb string `json:"state_db"`
	// DumpDir receives a copy of every http exchange when set.
	DumpDir string `json:"dump_dir"`
	Verbose bool   `json:"verbose"`
}

func DefaultConfig() Config {
	return Config{
		BaseUrl:           xwordinfo.DefaultBaseUrl,
		Endpoints:         xwordinfo.DefaultEndpoints(),
		UserAgent:         xwordinfo.DefaultUserAgent,
		LoginMarker:       xwordinfo.DefaultLoginMarker,
		RequestsPerSecond: 2,
		TimeoutSeconds:    30,
		PaceScale:         1,
		Answers:           batch.DefaultAnswers,
		MinRows:           tables.DefaultMinRows,
	}
}

func (c Config) sessionOptions() (xwordinfo.Options, error) {
	opts := xwordinfo.Options{
		BaseUrl:           c.BaseUrl,
		Endpoints:         c.Endpoints,
		UserAgent:         c.UserAgent,
		LoginMarker:       c.LoginMarker,
		RequestsPerSecond: c.RequestsPerSecond,
		CloudflareBypass:  !c.DisableCloudflareBypass,
		Timeout:           time.Duration(c.TimeoutSeconds) * time.Second,
	}
	if c.DumpDir != "" {
		output, err := restyutil.NewFilesystemOutput(c.DumpDir)
		if err != nil {
			return opts, err
		}
		opts.Output = output
	}
	return opts, nil
}

func (c Config) newManager(tel telemetry.API) (*xwordinfo.Manager, error) {
	opts, err := c.sessionOptions()
	if err != nil {
		return nil, err
	}
	manager, err := xwordinfo.NewManager(opts, tel)
	if err != nil {
		return nil, fmt.Errorf("create session manager: %w", err)
	}
	return manager, nil
}

func (c Config) datedClueLocator() tables.HeaderLocator {
	locator := tables.NewDatedClueLocator()
	locator.MinRows = c.MinRows
	return locator
}

func (c Config) aggregateClueLocator() tables.HeaderLocator {
	locator := tables.NewAggregateClueLocator()
	locator.MinRows = c.MinRows
	return locator
}
