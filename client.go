package authclient

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/viant/authclient/client/auth/api"
	"github.com/viant/authclient/client/auth/session"
	"github.com/viant/authclient/client/auth/store"
	"github.com/viant/authclient/client/auth/transport"
	"github.com/viant/authclient/client/bookmarks"
	"golang.org/x/oauth2"
)

// Client bundles the session-aware services sharing one credential store.
type Client struct {
	Store     store.Store
	Transport *transport.RoundTripper
	Auth      *api.Service
	Bookmarks *bookmarks.Service
	Logger    zerolog.Logger

	closers []func() error
}

// New creates a Client configured via options; extra transport options are
// applied after the ones derived from options.
func New(ctx context.Context, options *Options, transportOptions ...transport.Option) (*Client, error) {
	if options == nil {
		options = &Options{}
	}
	options.Init()
	if err := options.Validate(); err != nil {
		return nil, err
	}
	logger, err := options.logger()
	if err != nil {
		return nil, err
	}
	ret := &Client{Logger: logger}
	if ret.Store, err = ret.newStore(ctx, &options.Store); err != nil {
		return nil, err
	}
	opts := []transport.Option{
		transport.WithStore(ret.Store),
		transport.WithRefreshTimeout(time.Duration(options.RefreshTimeoutSeconds) * time.Second),
	}
	if options.OnSessionExpired != nil {
		opts = append(opts, transport.WithSessionExpired(options.OnSessionExpired))
	}
	opts = append(opts, transportOptions...)
	if ret.Auth, err = api.New(options.BaseURL,
		api.WithTimeout(time.Duration(options.TimeoutSeconds)*time.Second),
		api.WithLogger(logger),
		api.WithTransportOptions(opts...),
	); err != nil {
		_ = ret.Close()
		return nil, err
	}
	ret.Transport = ret.Auth.Transport()
	ret.Bookmarks = bookmarks.New(ret.Auth)
	return ret, nil
}

// HTTPClient returns a client sending authenticated requests.
func (c *Client) HTTPClient() *http.Client {
	return c.Auth.Client()
}

// TokenSource exposes the stored access token to oauth2 consumers; it never refreshes.
func (c *Client) TokenSource(ctx context.Context) oauth2.TokenSource {
	return store.TokenSource(ctx, c.Store)
}

// Session inspects the stored session.
func (c *Client) Session(ctx context.Context) (*session.Info, error) {
	return session.Inspect(ctx, c.Store)
}

// Close releases store connections.
func (c *Client) Close() error {
	var err error
	for _, closer := range c.closers {
		if e := closer(); e != nil && err == nil {
			err = e
		}
	}
	c.closers = nil
	return err
}

func (c *Client) newStore(ctx context.Context, options *StoreOptions) (store.Store, error) {
	switch options.Type {
	case StoreFile:
		return store.NewFileStore(options.URL), nil
	case StoreRedis:
		client := redis.NewClient(&redis.Options{Addr: options.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("failed to connect redis %v: %w", options.RedisAddr, err)
		}
		c.closers = append(c.closers, client.Close)
		return store.NewRedisStore(client, options.Prefix), nil
	default:
		return store.NewMemoryStore(), nil
	}
}

func (o *Options) logger() (zerolog.Logger, error) {
	if o.Logger != nil {
		return *o.Logger, nil
	}
	level, err := zerolog.ParseLevel(o.LogLevel)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level %v: %w", o.LogLevel, err)
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).Level(level).With().Timestamp().Logger(), nil
}
