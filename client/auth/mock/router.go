package mock

import (
	"net/http"
)

// Prefix is the path every route is served under.
const Prefix = "/api/"

// Handler returns the routes of s.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/register/{$}", s.register)
	mux.HandleFunc("POST /api/auth/login/{$}", s.override(s.LoginHandler, s.login))
	mux.HandleFunc("POST /api/auth/token-refresh/{$}", s.countRefresh(s.override(s.RefreshHandler, s.refresh)))
	mux.HandleFunc("POST /api/auth/forgot-password/{$}", s.forgotPassword)
	mux.HandleFunc("POST /api/auth/reset-password/{$}", s.resetPassword)

	mux.HandleFunc("GET /api/bookmarks/{$}", s.authorized(s.listBookmarks))
	mux.HandleFunc("POST /api/bookmarks/{$}", s.authorized(s.createBookmark))
	mux.HandleFunc("GET /api/bookmarks/search/{$}", s.authorized(s.searchBookmarks))
	mux.HandleFunc("GET /api/bookmarks/{id}/{$}", s.authorized(s.getBookmark))
	mux.HandleFunc("PUT /api/bookmarks/{id}/{$}", s.authorized(s.updateBookmark))
	mux.HandleFunc("PATCH /api/bookmarks/{id}/{$}", s.authorized(s.updateBookmark))
	mux.HandleFunc("DELETE /api/bookmarks/{id}/{$}", s.authorized(s.deleteBookmark))
	return mux
}

var _ http.Handler = (*Service)(nil)

func (s *Service) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.once.Do(func() {
		s.handler = s.Handler()
	})
	s.handler.ServeHTTP(w, r)
}

func (s *Service) override(custom, fallback http.HandlerFunc) http.HandlerFunc {
	if custom != nil {
		return custom
	}
	return fallback
}

func (s *Service) countRefresh(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.refreshCalls.Add(1)
		next(w, r)
	}
}
