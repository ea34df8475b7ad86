// Package mock provides an in-memory remote API that facilitates testing of the
// client-side session flow.
//
// Service implements the account endpoints (register, login, rotating token
// refresh, forgot and reset password) and the bookmark resource routes under
// the /api/ prefix. Access and refresh tokens are RS256 JWTs; tests can force
// every issued access token to expire with ExpireAccessTokens and observe how
// many refresh calls reached the server with RefreshCalls.
package mock
