package catalyst

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tata1mg/catalyst-go/internal/config"
	"github.com/tata1mg/catalyst-go/pkg/manifest"
)

// Config configures an App.
type Config struct {
	// Manifest is the build manifest source. Required.
	Manifest manifest.Source

	// Category is the categorized (essential/dynamic) asset source. Required.
	Category manifest.Source

	// DevMode refetches build outputs on every render and enables hot
	// reload support.
	DevMode bool

	// AssetPrefix is prepended to emitted asset URLs (e.g. a CDN origin).
	AssetPrefix string

	// Static configures static file serving; an empty Dir disables it.
	Static StaticConfig

	// PromiseCapacity bounds the shared data-fetch cache. Zero uses the
	// default.
	PromiseCapacity int

	// FetchTimeout bounds a single boundary data fetch. Zero uses the
	// default.
	FetchTimeout time.Duration

	// Logger defaults to slog.Default().
	Logger *slog.Logger

	// Metrics registers render and cache collectors when set; nil disables
	// collection.
	Metrics prometheus.Registerer

	// Middleware is applied to every request, outermost first.
	Middleware []func(http.Handler) http.Handler
}

// StaticConfig configures static file serving.
type StaticConfig struct {
	// Dir is the directory containing static files.
	Dir string

	// Prefix is the URL prefix static files are served under
	// (default: "/static/").
	Prefix string
}

// ConfigFromFile builds a Config from a catalyst.json file, resolving
// manifest sources to local files or S3 objects as configured.
func ConfigFromFile(ctx context.Context, path string) (Config, *config.Config, error) {
	fileCfg, err := config.LoadFile(path)
	if err != nil {
		return Config{}, nil, err
	}
	if err := fileCfg.Validate(); err != nil {
		return Config{}, nil, err
	}

	cfg := Config{
		AssetPrefix:     fileCfg.Server.AssetPrefix,
		PromiseCapacity: fileCfg.Cache.PromiseCapacity,
		FetchTimeout:    fileCfg.FetchTimeout(),
		Static: StaticConfig{
			Dir:    fileCfg.PublicPath(),
			Prefix: fileCfg.Static.Prefix,
		},
	}

	if fileCfg.UsesS3() {
		opts := []func(*awsconfig.LoadOptions) error{}
		if fileCfg.Assets.S3.Region != "" {
			opts = append(opts, awsconfig.WithRegion(fileCfg.Assets.S3.Region))
		}
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
		if err != nil {
			return Config{}, nil, err
		}
		client := s3.NewFromConfig(awsCfg)
		cfg.Manifest = manifest.NewS3Source(client, fileCfg.Assets.S3.Bucket, fileCfg.Assets.S3.ManifestKey)
		cfg.Category = manifest.NewS3Source(client, fileCfg.Assets.S3.Bucket, fileCfg.Assets.S3.CategoryKey)
	} else {
		cfg.Manifest = manifest.NewFileSource(fileCfg.ManifestPath())
		cfg.Category = manifest.NewFileSource(fileCfg.CategoryPath())
	}

	return cfg, fileCfg, nil
}
