// Package api is a thin client of the remote authentication service.
//
// Service exposes the register, login, token-refresh, forgot-password and
// reset-password exchanges. Requests go through the transport.RoundTripper,
// which owns token attachment and expiry recovery; Service itself never
// retries. Non-2xx responses are returned as *Error preserving the server's
// structured payload.
package api
