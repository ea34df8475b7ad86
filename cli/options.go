package cli

import "github.com/viant/authclient"

type Options struct {
	Config string `short:"c" long:"config" description:"yaml options location"`
	authclient.Options

	Login     Login     `command:"login" description:"exchange credentials for a session"`
	Register  Register  `command:"register" description:"create an account"`
	Forgot    Forgot    `command:"forgot" description:"request a password reset email"`
	Reset     Reset     `command:"reset" description:"set a new password with a reset id and token"`
	Logout    Logout    `command:"logout" description:"purge the stored session"`
	Status    Status    `command:"status" description:"show the stored session"`
	Refresh   Refresh   `command:"refresh" description:"renew the access token now"`
	Token     Token     `command:"token" description:"print the stored access token"`
	Bookmarks Bookmarks `command:"bookmarks" description:"manage bookmarks"`
	Request   Request   `command:"request" description:"send an authenticated request"`
}

type Login struct {
	Email    string `short:"e" long:"email" description:"email or username" required:"true"`
	Password string `short:"p" long:"password" description:"password" env:"AUTHCLIENT_PASSWORD" required:"true"`
}

type Register struct {
	Name     string `short:"n" long:"name" description:"display name"`
	Email    string `short:"e" long:"email" description:"email" required:"true"`
	Username string `long:"username" description:"username"`
	Password string `short:"p" long:"password" description:"password" env:"AUTHCLIENT_PASSWORD" required:"true"`
	Confirm  string `long:"confirm" description:"password confirmation, defaults to password"`
}

type Forgot struct {
	Email string `short:"e" long:"email" description:"account email" required:"true"`
}

type Reset struct {
	ID       string `long:"uid" description:"reset id" required:"true"`
	Token    string `long:"token" description:"reset token" required:"true"`
	Password string `short:"p" long:"password" description:"new password" env:"AUTHCLIENT_PASSWORD" required:"true"`
	Confirm  string `long:"confirm" description:"password confirmation, defaults to password"`
}

type Logout struct{}

type Status struct{}

type Refresh struct{}

type Token struct{}

type Bookmarks struct {
	List   BookmarkList   `command:"list" description:"list bookmarks"`
	Search BookmarkSearch `command:"search" description:"search bookmarks by title, description or url"`
}

type BookmarkList struct{}

type BookmarkSearch struct {
	Args struct {
		Query string `positional-arg-name:"query" required:"yes"`
	} `positional-args:"yes"`
}

type Request struct {
	Method string `short:"X" long:"method" description:"http method" default:"GET"`
	Data   string `short:"d" long:"data" description:"json request body"`
	Args   struct {
		URI string `positional-arg-name:"uri" description:"path relative to the base url" required:"yes"`
	} `positional-args:"yes"`
}

func confirmation(password, confirm string) string {
	if confirm == "" {
		return password
	}
	return confirm
}
