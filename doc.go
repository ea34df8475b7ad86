// Package authclient wires a session-aware HTTP client.
//
// A Client bundles a credential store, the authenticating round tripper that
// attaches the stored access token and coordinates a single token refresh
// when concurrent requests hit an expired session, the auth API facade and
// the bookmarks client. Options can be loaded from YAML with LoadOptions.
//
//	options, _ := authclient.LoadOptions(ctx, "config.yaml")
//	client, _ := authclient.New(ctx, options)
//	_, err := client.Auth.Login(ctx, &api.Credentials{Email: email, Password: password})
//	list, err := client.Bookmarks.List(ctx)
package authclient
