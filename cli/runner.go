package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/jessevdk/go-flags"
	"github.com/samber/oops"
	"github.com/viant/authclient"
	"github.com/viant/authclient/client/auth/api"
	"github.com/viant/authclient/client/auth/store"
	"github.com/viant/authclient/client/auth/transport"
)

// DefaultSessionFile keeps the session between invocations when no store is configured.
const DefaultSessionFile = ".authclient/session.json"

func Run(args []string) error {
	return run(context.Background(), args, os.Stdout)
}

func run(ctx context.Context, args []string, w io.Writer) error {
	options := &Options{}
	parser := flags.NewParser(options, flags.HelpFlag|flags.PassDoubleDash)
	if _, err := parser.ParseArgs(args); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			_, _ = fmt.Fprintln(w, flagsErr.Message)
			return nil
		}
		return oops.In("cli").Wrapf(err, "invalid arguments")
	}
	if err := options.load(ctx); err != nil {
		return err
	}
	client, err := authclient.New(ctx, &options.Options)
	if err != nil {
		return oops.In("cli").Wrapf(err, "failed to create client")
	}
	defer client.Close()

	command := parser.Active
	if command == nil {
		return oops.In("cli").Errorf("no command given")
	}
	if err = execute(ctx, client, options, command, w); err != nil {
		return oops.In("cli").With("command", command.Name).Wrapf(err, "%v failed", command.Name)
	}
	return nil
}

func (o *Options) load(ctx context.Context) error {
	if o.Config != "" {
		loaded, err := authclient.LoadOptions(ctx, o.Config)
		if err != nil {
			return oops.In("cli").Wrapf(err, "failed to load configuration")
		}
		o.Options.Merge(loaded)
	}
	if o.Store.Type == "" && o.Store.URL == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return oops.In("cli").Wrapf(err, "failed to locate session file")
		}
		o.Store.URL = filepath.Join(home, DefaultSessionFile)
	}
	return nil
}

func execute(ctx context.Context, client *authclient.Client, options *Options, command *flags.Command, w io.Writer) error {
	switch command.Name {
	case "login":
		if _, err := client.Auth.Login(ctx, &api.Credentials{Email: options.Login.Email, Password: options.Login.Password}); err != nil {
			return err
		}
		return status(ctx, client, w)
	case "register":
		cmd := options.Register
		user, err := client.Auth.Register(ctx, &api.Registration{
			Name:            cmd.Name,
			Email:           cmd.Email,
			Username:        cmd.Username,
			Password:        cmd.Password,
			ConfirmPassword: confirmation(cmd.Password, cmd.Confirm),
		})
		if err != nil {
			return err
		}
		return write(w, user)
	case "forgot":
		if err := client.Auth.ForgotPassword(ctx, options.Forgot.Email); err != nil {
			return err
		}
		_, err := fmt.Fprintln(w, "password reset requested")
		return err
	case "reset":
		cmd := options.Reset
		if err := client.Auth.ResetPassword(ctx, &api.PasswordReset{
			ResetID:         cmd.ID,
			ResetToken:      cmd.Token,
			NewPassword:     cmd.Password,
			ConfirmPassword: confirmation(cmd.Password, cmd.Confirm),
		}); err != nil {
			return err
		}
		_, err := fmt.Fprintln(w, "password reset")
		return err
	case "logout":
		return client.Auth.Logout(ctx)
	case "status":
		return status(ctx, client, w)
	case "refresh":
		if err := refresh(ctx, client); err != nil {
			return err
		}
		return status(ctx, client, w)
	case "token":
		token, err := client.TokenSource(ctx).Token()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, token.AccessToken)
		return err
	case "bookmarks":
		return runBookmarks(ctx, client, options, command.Active, w)
	case "request":
		return request(ctx, client, &options.Request, w)
	}
	return fmt.Errorf("unsupported command: %v", command.Name)
}

func status(ctx context.Context, client *authclient.Client, w io.Writer) error {
	info, err := client.Session(ctx)
	if err != nil {
		return err
	}
	return write(w, info)
}

// refresh renews the session outside request dispatch; a refresh token the
// server does not rotate is kept.
func refresh(ctx context.Context, client *authclient.Client) error {
	current, err := store.LoadTokenPair(ctx, client.Store)
	if err != nil {
		return err
	}
	if current.Refresh == "" {
		return errors.New("no refresh token stored, login first")
	}
	pair, err := client.Auth.Refresh(ctx, current.Refresh)
	if err != nil {
		if logoutErr := client.Auth.Logout(ctx); logoutErr != nil {
			err = errors.Join(err, logoutErr)
		}
		return &transport.SessionExpiredError{Err: err}
	}
	if pair.Refresh == "" {
		pair.Refresh = current.Refresh
	}
	return client.Transport.Authenticate(ctx, pair)
}

func runBookmarks(ctx context.Context, client *authclient.Client, options *Options, command *flags.Command, w io.Writer) error {
	if command == nil {
		return errors.New("bookmarks command required")
	}
	switch command.Name {
	case "list":
		list, err := client.Bookmarks.List(ctx)
		if err != nil {
			return err
		}
		return write(w, list)
	case "search":
		list, err := client.Bookmarks.Search(ctx, options.Bookmarks.Search.Args.Query)
		if err != nil {
			return err
		}
		return write(w, list)
	}
	return fmt.Errorf("unsupported bookmarks command: %v", command.Name)
}

func request(ctx context.Context, client *authclient.Client, cmd *Request, w io.Writer) error {
	var body interface{}
	if cmd.Data != "" {
		raw := json.RawMessage(cmd.Data)
		if !json.Valid(raw) {
			return errors.New("request data is not valid json")
		}
		body = raw
	}
	var response json.RawMessage
	if err := client.Auth.Do(ctx, methodOf(cmd.Method), cmd.Args.URI, body, &response); err != nil {
		return err
	}
	if len(response) == 0 {
		return nil
	}
	return write(w, response)
}

func methodOf(method string) string {
	if method == "" {
		return http.MethodGet
	}
	return strings.ToUpper(method)
}

func write(w io.Writer, value interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}
