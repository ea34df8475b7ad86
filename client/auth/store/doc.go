// Package store defines the credential store holding the current access and
// refresh tokens of a client session.
//
// It ships with an in-memory implementation for CLI and unit-test scenarios,
// a file backed one persisted through viant/afs and a redis backed one for
// clients sharing a session across processes.
package store
