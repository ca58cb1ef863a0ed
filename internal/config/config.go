package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/vertextoedge/isic-fetch/internal/domain"
	"github.com/vertextoedge/isic-fetch/internal/domain/vo"
)

// EnvPrefix is the prefix for environment variable overrides, e.g. ISIC_FETCH_DATA_ROOT_DIR
const EnvPrefix = "ISIC_FETCH"

// Config represents the entire application configuration
type Config struct {
	Data      DataConfig      `mapstructure:"data"`
	Resources ResourcesConfig `mapstructure:"resources"`
	Fetch     FetchConfig     `mapstructure:"fetch"`
	Extract   ExtractConfig   `mapstructure:"extract"`
	Verify    VerifyConfig    `mapstructure:"verify"`
	Progress  ProgressConfig  `mapstructure:"progress"`
	History   HistoryConfig   `mapstructure:"history"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// DataConfig describes the local dataset layout
type DataConfig struct {
	RootDir    string `mapstructure:"root_dir"`
	ImageDir   string `mapstructure:"image_dir"`   // relative to root_dir
	ContentExt string `mapstructure:"content_ext"` // extension of extracted content files
}

// ResourceConfig describes one remote file
type ResourceConfig struct {
	URL          string `mapstructure:"url"`
	File         string `mapstructure:"file"` // relative to root_dir
	ExpectedSize string `mapstructure:"expected_size"`
}

// ResourcesConfig holds the three manifest entries
type ResourcesConfig struct {
	Images      ResourceConfig `mapstructure:"images"`
	GroundTruth ResourceConfig `mapstructure:"ground_truth"`
	Metadata    ResourceConfig `mapstructure:"metadata"`
}

// FetchConfig contains download settings
type FetchConfig struct {
	ConnectTimeout        string `mapstructure:"connect_timeout"`
	ResponseHeaderTimeout string `mapstructure:"response_header_timeout"`
	ChunkSize             int    `mapstructure:"chunk_size"`
}

// ExtractConfig contains extraction settings
type ExtractConfig struct {
	SkipThreshold int `mapstructure:"skip_threshold"`
}

// VerifyConfig contains readiness settings
type VerifyConfig struct {
	ReadyThreshold int `mapstructure:"ready_threshold"`
	ExpectedCount  int `mapstructure:"expected_count"`
}

// ProgressConfig contains terminal progress settings
type ProgressConfig struct {
	Enabled         bool   `mapstructure:"enabled"`
	RefreshInterval string `mapstructure:"refresh_interval"`
}

// HistoryConfig contains run history settings
type HistoryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"` // empty means <root_dir>/.isic-fetch-history.db
	MaxAge  string `mapstructure:"max_age"` // finished runs older than this are pruned; "0" keeps all
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

const (
	defaultBaseURL     = "https://isic-archive.s3.amazonaws.com/challenges/2019/"
	defaultHistoryFile = ".isic-fetch-history.db"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("data.root_dir", "../../data/isic_2019")
	v.SetDefault("data.image_dir", "ISIC_2019_Training_Input")
	v.SetDefault("data.content_ext", ".jpg")

	v.SetDefault("resources.images.url", defaultBaseURL+"ISIC_2019_Training_Input.zip")
	v.SetDefault("resources.images.file", "ISIC_2019_Training_Input.zip")
	v.SetDefault("resources.images.expected_size", "9.1 GB")
	v.SetDefault("resources.ground_truth.url", defaultBaseURL+"ISIC_2019_Training_GroundTruth.csv")
	v.SetDefault("resources.ground_truth.file", "ISIC_2019_Training_GroundTruth.csv")
	v.SetDefault("resources.ground_truth.expected_size", "1 MB")
	v.SetDefault("resources.metadata.url", defaultBaseURL+"ISIC_2019_Training_Metadata.csv")
	v.SetDefault("resources.metadata.file", "ISIC_2019_Training_Metadata.csv")
	v.SetDefault("resources.metadata.expected_size", "1 MB")

	v.SetDefault("fetch.connect_timeout", "30s")
	v.SetDefault("fetch.response_header_timeout", "30s")
	v.SetDefault("fetch.chunk_size", 8192)

	v.SetDefault("extract.skip_threshold", 20000)

	v.SetDefault("verify.ready_threshold", 25000)
	v.SetDefault("verify.expected_count", 25331)

	v.SetDefault("progress.enabled", true)
	v.SetDefault("progress.refresh_interval", "200ms")

	v.SetDefault("history.enabled", true)
	v.SetDefault("history.path", "")
	v.SetDefault("history.max_age", "2160h") // 90 days

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// Load loads configuration from the specified YAML file.
// An empty path loads defaults and environment overrides only.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")

		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Data.RootDir == "" {
		return fmt.Errorf("data.root_dir is required")
	}
	if c.Data.ImageDir == "" {
		return fmt.Errorf("data.image_dir is required")
	}
	if !strings.HasPrefix(c.Data.ContentExt, ".") {
		return fmt.Errorf("data.content_ext must start with a dot: %q", c.Data.ContentExt)
	}

	resources := map[string]ResourceConfig{
		domain.ResourceImages:      c.Resources.Images,
		domain.ResourceGroundTruth: c.Resources.GroundTruth,
		domain.ResourceMetadata:    c.Resources.Metadata,
	}
	for id, r := range resources {
		if r.URL == "" {
			return fmt.Errorf("resources.%s.url is required", id)
		}
		if r.File == "" {
			return fmt.Errorf("resources.%s.file is required", id)
		}
		if r.ExpectedSize != "" {
			if _, err := vo.ParseFileSize(r.ExpectedSize); err != nil {
				return fmt.Errorf("invalid resources.%s.expected_size: %w", id, err)
			}
		}
	}

	if _, err := time.ParseDuration(c.Fetch.ConnectTimeout); err != nil {
		return fmt.Errorf("invalid fetch.connect_timeout: %w", err)
	}
	if _, err := time.ParseDuration(c.Fetch.ResponseHeaderTimeout); err != nil {
		return fmt.Errorf("invalid fetch.response_header_timeout: %w", err)
	}
	if c.Fetch.ChunkSize <= 0 {
		return fmt.Errorf("fetch.chunk_size must be positive")
	}

	if c.Extract.SkipThreshold <= 0 {
		return fmt.Errorf("extract.skip_threshold must be positive")
	}
	if c.Verify.ReadyThreshold <= 0 {
		return fmt.Errorf("verify.ready_threshold must be positive")
	}
	if c.Verify.ExpectedCount < c.Verify.ReadyThreshold {
		return fmt.Errorf("verify.expected_count (%d) must not be below verify.ready_threshold (%d)",
			c.Verify.ExpectedCount, c.Verify.ReadyThreshold)
	}

	if _, err := time.ParseDuration(c.Progress.RefreshInterval); err != nil {
		return fmt.Errorf("invalid progress.refresh_interval: %w", err)
	}

	if d, err := time.ParseDuration(c.History.MaxAge); err != nil {
		return fmt.Errorf("invalid history.max_age: %w", err)
	} else if d < 0 {
		return fmt.Errorf("history.max_age cannot be negative")
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		// Valid levels
	default:
		return fmt.Errorf("invalid logging.level: %s", c.Logging.Level)
	}

	switch c.Logging.Format {
	case "json", "text":
		// Valid formats
	default:
		return fmt.Errorf("invalid logging.format: %s", c.Logging.Format)
	}

	return nil
}

// Manifest builds the immutable resource table, in fetch order
func (c *Config) Manifest() (*domain.Manifest, error) {
	return domain.NewManifest(
		c.resource(domain.ResourceGroundTruth, c.Resources.GroundTruth),
		c.resource(domain.ResourceMetadata, c.Resources.Metadata),
		c.resource(domain.ResourceImages, c.Resources.Images),
	)
}

func (c *Config) resource(id string, r ResourceConfig) domain.ResourceDescriptor {
	return domain.ResourceDescriptor{
		ID:           id,
		URL:          r.URL,
		Dest:         filepath.Join(c.Data.RootDir, r.File),
		ExpectedSize: r.ExpectedSize,
	}
}

// ImageDirPath returns the extraction target directory
func (c *Config) ImageDirPath() string {
	return filepath.Join(c.Data.RootDir, c.Data.ImageDir)
}

// HistoryPath returns the run history database path
func (c *Config) HistoryPath() string {
	if c.History.Path != "" {
		return c.History.Path
	}
	return filepath.Join(c.Data.RootDir, defaultHistoryFile)
}

// GetConnectTimeout returns the dial timeout as time.Duration
func (c *FetchConfig) GetConnectTimeout() time.Duration {
	d, _ := time.ParseDuration(c.ConnectTimeout)
	if d == 0 {
		return 30 * time.Second
	}
	return d
}

// GetResponseHeaderTimeout returns the response header timeout as time.Duration
func (c *FetchConfig) GetResponseHeaderTimeout() time.Duration {
	d, _ := time.ParseDuration(c.ResponseHeaderTimeout)
	if d == 0 {
		return 30 * time.Second
	}
	return d
}

// GetRefreshInterval returns the progress redraw interval as time.Duration
func (c *ProgressConfig) GetRefreshInterval() time.Duration {
	d, _ := time.ParseDuration(c.RefreshInterval)
	if d == 0 {
		return 200 * time.Millisecond
	}
	return d
}

// GetMaxAge returns the run history retention as time.Duration
func (c *HistoryConfig) GetMaxAge() time.Duration {
	d, _ := time.ParseDuration(c.MaxAge)
	return d
}
