// Package transport implements the http.RoundTripper that dispatches
// authenticated requests for a client session.
//
// Every outgoing request carries the stored access token as a bearer
// credential. When a server rejects a request with `401 Unauthorized` the
// RoundTripper coordinates a single token refresh shared by all concurrent
// callers, stores the new credentials and replays each rejected request once.
// When the refresh itself fails the stored credentials are purged, every
// waiting request is rejected and the session-expired callback fires.
package transport
