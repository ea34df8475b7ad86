package authclient

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/viant/afs"
	"github.com/viant/authclient/client/auth/transport"
	"gopkg.in/yaml.v3"
)

const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"

	defaultTimeoutSeconds = 30
	defaultLogLevel       = "info"
)

// Options defines options for configuring a Client.
type Options struct {
	BaseURL               string       `yaml:"baseURL" json:"baseURL,omitempty" short:"u" long:"url" description:"api base url, e.g. http://localhost:8000/api/" env:"AUTHCLIENT_URL"`
	TimeoutSeconds        int          `yaml:"timeoutSeconds,omitempty" json:"timeoutSeconds,omitempty" long:"timeout" description:"request timeout in seconds"`
	RefreshTimeoutSeconds int          `yaml:"refreshTimeoutSeconds,omitempty" json:"refreshTimeoutSeconds,omitempty" long:"refresh-timeout" description:"token refresh timeout in seconds"`
	Store                 StoreOptions `yaml:"store,omitempty" json:"store,omitempty" group:"store" namespace:"store"`
	LogLevel              string       `yaml:"logLevel,omitempty" json:"logLevel,omitempty" short:"l" long:"log-level" description:"log level" choice:"debug" choice:"info" choice:"warn" choice:"error"`

	Logger *zerolog.Logger `yaml:"-" json:"-" no-flag:"true"`
	// OnSessionExpired is notified once per irrecoverable refresh failure.
	OnSessionExpired transport.SessionExpiredFunc `yaml:"-" json:"-" no-flag:"true"`
}

// StoreOptions selects the credential store backend.
type StoreOptions struct {
	Type      string `yaml:"type,omitempty" json:"type,omitempty" long:"type" description:"credential store type" choice:"memory" choice:"file" choice:"redis"`
	URL       string `yaml:"url,omitempty" json:"url,omitempty" long:"url" description:"file store location"`
	RedisAddr string `yaml:"redisAddr,omitempty" json:"redisAddr,omitempty" long:"redis" description:"redis address host:port"`
	Prefix    string `yaml:"prefix,omitempty" json:"prefix,omitempty" long:"prefix" description:"redis key prefix"`
}

func (o *Options) Init() {
	if o.TimeoutSeconds <= 0 {
		o.TimeoutSeconds = defaultTimeoutSeconds
	}
	if o.RefreshTimeoutSeconds <= 0 {
		o.RefreshTimeoutSeconds = int(transport.DefaultRefreshTimeout / time.Second)
	}
	if o.Store.Type == "" {
		o.Store.Type = StoreMemory
		if o.Store.URL != "" {
			o.Store.Type = StoreFile
		}
	}
	if o.LogLevel == "" {
		o.LogLevel = defaultLogLevel
	}
}

func (o *Options) Validate() error {
	if o.BaseURL == "" {
		return fmt.Errorf("base URL was empty")
	}
	switch o.Store.Type {
	case StoreMemory:
	case StoreFile:
		if o.Store.URL == "" {
			return fmt.Errorf("file store URL was empty")
		}
	case StoreRedis:
		if o.Store.RedisAddr == "" {
			return fmt.Errorf("redis store address was empty")
		}
	default:
		return fmt.Errorf("unsupported store type: %v", o.Store.Type)
	}
	return nil
}

// Merge fills empty fields of o from other.
func (o *Options) Merge(other *Options) {
	if other == nil {
		return
	}
	if o.BaseURL == "" {
		o.BaseURL = other.BaseURL
	}
	if o.TimeoutSeconds == 0 {
		o.TimeoutSeconds = other.TimeoutSeconds
	}
	if o.RefreshTimeoutSeconds == 0 {
		o.RefreshTimeoutSeconds = other.RefreshTimeoutSeconds
	}
	if o.Store.Type == "" {
		o.Store.Type = other.Store.Type
	}
	if o.Store.URL == "" {
		o.Store.URL = other.Store.URL
	}
	if o.Store.RedisAddr == "" {
		o.Store.RedisAddr = other.Store.RedisAddr
	}
	if o.Store.Prefix == "" {
		o.Store.Prefix = other.Store.Prefix
	}
	if o.LogLevel == "" {
		o.LogLevel = other.LogLevel
	}
}

// LoadOptions reads YAML options from URL (local path or any afs supported location).
func LoadOptions(ctx context.Context, URL string) (*Options, error) {
	fs := afs.New()
	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to load options %v: %w", URL, err)
	}
	ret := &Options{}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err = decoder.Decode(ret); err != nil {
		return nil, fmt.Errorf("failed to decode options %v: %w", URL, err)
	}
	return ret, nil
}
