// Package config is used to configure the application settings.
package config

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage providers understood by the service.
const (
	ProviderAzure = "azure"
	ProviderS3    = "s3"
)

// Config - application configuration structure.
//
// A Config is built once by Load and must be treated as read-only afterwards.
type Config struct {
	// Addr: address on which the server will run (e.g., "localhost:5000").
	Addr string `json:"server_address"`
	// Provider: blob storage backend, "azure" or "s3".
	Provider string `json:"storage_provider"`

	// Account: storage account name.
	Account string `json:"account"`
	// StorageKey: shared access key of the storage account.
	StorageKey string `json:"storage_key"`
	// ConnectionString: storage account connection string.
	ConnectionString string `json:"connection_string"`
	// Container: container holding the model files.
	Container string `json:"container"`

	// BlobPrefix: prefix prepended to "<model>/<version>/<file>".
	BlobPrefix string `json:"blob_name"`
	// PerformanceFile: file name served by the performance endpoint.
	PerformanceFile string `json:"performance_file_name"`
	// ScoringFile: file name served by the score endpoint.
	ScoringFile string `json:"scoring_file_name"`

	// S3Bucket, S3Region, S3Endpoint, S3AccessKeyID, S3SecretKey configure the s3 provider.
	S3Bucket      string `json:"s3_bucket"`
	S3Region      string `json:"aws_region"`
	S3Endpoint    string `json:"s3_endpoint"`
	S3AccessKeyID string `json:"aws_access_key_id"`
	S3SecretKey   string `json:"aws_secret_access_key"`

	// LogLevel: zap level name.
	LogLevel string `json:"log_level"`
	// LogFile: optional path of a rotated log file.
	LogFile string `json:"log_file"`

	// ConfigPath: path to configuration file.
	ConfigPath string `json:"-"`
	// SASExpiry: lifetime of a signed URL.
	SASExpiry time.Duration `json:"-"`
	// IssueTimeout: bound on signed URL generation.
	IssueTimeout time.Duration `json:"-"`
	// DownloadTimeout: bound on fetching a file.
	DownloadTimeout time.Duration `json:"-"`
	// Timeout: request processing timeout in seconds.
	Timeout int `json:"-"`
}

var cfgDefault = Config{
	Addr:            "localhost:5000",
	Provider:        ProviderAzure,
	LogLevel:        "info",
	SASExpiry:       time.Hour,
	IssueTimeout:    10 * time.Second,
	DownloadTimeout: 30 * time.Second,
	Timeout:         60,
}

// NewConfig creates and returns a new instance of the Config structure with predefined values.
func NewConfig() *Config {
	c := cfgDefault
	return &c
}

// ErrReadConfig - error reading json config.
var ErrReadConfig = errors.New("reading json config")

// ErrParseConfig - error parsing json config.
var ErrParseConfig = errors.New("parse json config")

// ErrMissingSetting - a required setting is empty.
var ErrMissingSetting = errors.New("missing required setting")

// Load builds the configuration from defaults, an optional .env file,
// environment variables, an optional json file and command-line flags,
// in that order of precedence (last wins), then validates it.
func Load(args []string) (*Config, error) {
	_ = godotenv.Load()

	c := NewConfig()
	if err := Init(c, args); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Init fills c from the environment, a json file and the command-line args.
func Init(c *Config, args []string) error {
	if err := readEnv(c); err != nil {
		return err
	}

	var flagCfg Config
	fs := flag.NewFlagSet("modelreports", flag.ContinueOnError)
	fs.StringVar(&flagCfg.Addr, "a", "", "HTTP-server startup address")
	fs.StringVar(&flagCfg.Provider, "p", "", "storage provider (azure or s3)")
	fs.StringVar(&flagCfg.LogLevel, "l", "", "log level")
	fs.StringVar(&flagCfg.LogFile, "log-file", "", "path to a rotated log file")
	fs.StringVar(&flagCfg.ConfigPath, "c", "", "path to config file (json)")
	fs.DurationVar(&flagCfg.SASExpiry, "sas-expiry", 0, "lifetime of signed URLs")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if flagCfg.ConfigPath != "" {
		file, err := os.ReadFile(flagCfg.ConfigPath)
		if err != nil {
			return ErrReadConfig
		}
		if err := json.Unmarshal(file, c); err != nil {
			return ErrParseConfig
		}
		c.ConfigPath = flagCfg.ConfigPath
	}

	// override
	if flagCfg.Addr != "" {
		c.Addr = flagCfg.Addr
	}
	if flagCfg.Provider != "" {
		c.Provider = flagCfg.Provider
	}
	if flagCfg.LogLevel != "" {
		c.LogLevel = flagCfg.LogLevel
	}
	if flagCfg.LogFile != "" {
		c.LogFile = flagCfg.LogFile
	}
	if flagCfg.SASExpiry > 0 {
		c.SASExpiry = flagCfg.SASExpiry
	}

	return nil
}

func readEnv(c *Config) error {
	strs := map[string]*string{
		"SERVER_ADDRESS":        &c.Addr,
		"STORAGE_PROVIDER":      &c.Provider,
		"ACCOUNT":               &c.Account,
		"STORAGE_KEY":           &c.StorageKey,
		"CONNECTION_STRING":     &c.ConnectionString,
		"CONTAINER":             &c.Container,
		"BLOB_NAME":             &c.BlobPrefix,
		"PERFORMANCE_FILE_NAME": &c.PerformanceFile,
		"SCORING_FILE_NAME":     &c.ScoringFile,
		"S3_BUCKET":             &c.S3Bucket,
		"AWS_REGION":            &c.S3Region,
		"S3_ENDPOINT":           &c.S3Endpoint,
		"AWS_ACCESS_KEY_ID":     &c.S3AccessKeyID,
		"AWS_SECRET_ACCESS_KEY": &c.S3SecretKey,
		"LOG_LEVEL":             &c.LogLevel,
		"LOG_FILE":              &c.LogFile,
	}
	for name, dst := range strs {
		if val, exist := os.LookupEnv(name); exist {
			*dst = val
		}
	}

	durations := map[string]*time.Duration{
		"SAS_EXPIRY":       &c.SASExpiry,
		"ISSUE_TIMEOUT":    &c.IssueTimeout,
		"DOWNLOAD_TIMEOUT": &c.DownloadTimeout,
	}
	for name, dst := range durations {
		val, exist := os.LookupEnv(name)
		if !exist {
			continue
		}
		d, err := time.ParseDuration(val)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		*dst = d
	}

	if val, exist := os.LookupEnv("REQUEST_TIMEOUT"); exist {
		n, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("REQUEST_TIMEOUT: %w", err)
		}
		c.Timeout = n
	}

	return nil
}

// Validate reports the first required setting that is empty for the selected provider.
func (c *Config) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"BLOB_NAME", c.BlobPrefix},
		{"PERFORMANCE_FILE_NAME", c.PerformanceFile},
		{"SCORING_FILE_NAME", c.ScoringFile},
	}

	switch strings.ToLower(c.Provider) {
	case ProviderAzure:
		required = append(required, []struct {
			name  string
			value string
		}{
			{"ACCOUNT", c.Account},
			{"STORAGE_KEY", c.StorageKey},
			{"CONTAINER", c.Container},
			{"CONNECTION_STRING", c.ConnectionString},
		}...)
	case ProviderS3:
		required = append(required, []struct {
			name  string
			value string
		}{
			{"S3_BUCKET", c.S3Bucket},
			{"AWS_REGION", c.S3Region},
		}...)
	default:
		return fmt.Errorf("unknown storage provider %q", c.Provider)
	}

	for _, r := range required {
		if r.value == "" {
			return fmt.Errorf("%w: %s", ErrMissingSetting, r.name)
		}
	}

	if c.SASExpiry <= 0 {
		return fmt.Errorf("SAS_EXPIRY must be positive, got %s", c.SASExpiry)
	}
	if c.IssueTimeout <= 0 {
		return fmt.Errorf("ISSUE_TIMEOUT must be positive, got %s", c.IssueTimeout)
	}
	if c.DownloadTimeout <= 0 {
		return fmt.Errorf("DOWNLOAD_TIMEOUT must be positive, got %s", c.DownloadTimeout)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive, got %d", c.Timeout)
	}

	return nil
}
