package mock

import (
	"context"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"
)

type userKey struct{}

// Tag labels a bookmark.
type Tag struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Bookmark is a stored bookmark as served by the bookmark routes.
type Bookmark struct {
	ID          int       `json:"id"`
	URL         string    `json:"url"`
	Title       string    `json:"title,omitempty"`
	Description string    `json:"description,omitempty"`
	User        int       `json:"user"`
	Tags        []Tag     `json:"tags"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type bookmarkInput struct {
	URL         *string  `json:"url"`
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	TagNames    []string `json:"tag_names"`
}

// authorized rejects requests without a valid access token
func (s *Service) authorized(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			writeDetail(w, http.StatusUnauthorized, "Authentication credentials were not provided.", "not_authenticated")
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			writeDetail(w, http.StatusUnauthorized, "Authorization header must contain two space-delimited values", "bad_authorization_header")
			return
		}
		claims, err := s.verify(parts[1], accessTokenType)
		if err != nil {
			writeDetail(w, http.StatusUnauthorized, "Given token not valid for any token type", tokenNotValid)
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), userKey{}, claims.UserID)))
	}
}

func userID(r *http.Request) int {
	id, _ := r.Context().Value(userKey{}).(int)
	return id
}

func (s *Service) owned(r *http.Request, match func(*Bookmark) bool) []*Bookmark {
	owner := userID(r)
	var ret []*Bookmark
	s.bookmarks.Range(func(_ int, bookmark *Bookmark) bool {
		if bookmark.User == owner && (match == nil || match(bookmark)) {
			ret = append(ret, bookmark)
		}
		return true
	})
	sort.Slice(ret, func(i, j int) bool { return ret[i].ID < ret[j].ID })
	if ret == nil {
		ret = []*Bookmark{}
	}
	return ret
}

func (s *Service) lookupBookmark(w http.ResponseWriter, r *http.Request) (*Bookmark, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err == nil {
		if bookmark, ok := s.bookmarks.Get(id); ok && bookmark.User == userID(r) {
			return bookmark, true
		}
	}
	writeDetail(w, http.StatusNotFound, "No Bookmark matches the given query.", "")
	return nil, false
}

func (s *Service) listBookmarks(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.owned(r, nil))
}

func (s *Service) searchBookmarks(w http.ResponseWriter, r *http.Request) {
	query := strings.ToLower(r.URL.Query().Get("q"))
	if query == "" {
		writeDetail(w, http.StatusBadRequest, "No search query provided.", "")
		return
	}
	writeJSON(w, http.StatusOK, s.owned(r, func(bookmark *Bookmark) bool {
		return strings.Contains(strings.ToLower(bookmark.Title), query) ||
			strings.Contains(strings.ToLower(bookmark.Description), query) ||
			strings.Contains(strings.ToLower(bookmark.URL), query)
	}))
}

func (s *Service) getBookmark(w http.ResponseWriter, r *http.Request) {
	if bookmark, ok := s.lookupBookmark(w, r); ok {
		writeJSON(w, http.StatusOK, bookmark)
	}
}

func (s *Service) createBookmark(w http.ResponseWriter, r *http.Request) {
	input := &bookmarkInput{}
	if !decode(w, r, input) {
		return
	}
	if input.URL == nil || *input.URL == "" {
		writeJSON(w, http.StatusBadRequest, fieldErrors{"url": {"This field is required."}})
		return
	}
	now := time.Now().UTC()
	bookmark := &Bookmark{
		ID:        int(s.bookmarkSeq.Add(1)),
		User:      userID(r),
		CreatedAt: now,
		UpdatedAt: now,
		Tags:      []Tag{},
	}
	s.apply(bookmark, input)
	s.bookmarks.Put(bookmark.ID, bookmark)
	writeJSON(w, http.StatusCreated, bookmark)
}

func (s *Service) updateBookmark(w http.ResponseWriter, r *http.Request) {
	current, ok := s.lookupBookmark(w, r)
	if !ok {
		return
	}
	input := &bookmarkInput{}
	if !decode(w, r, input) {
		return
	}
	if r.Method == http.MethodPut && (input.URL == nil || *input.URL == "") {
		writeJSON(w, http.StatusBadRequest, fieldErrors{"url": {"This field is required."}})
		return
	}
	updated := *current
	updated.Tags = append([]Tag{}, current.Tags...)
	updated.UpdatedAt = time.Now().UTC()
	s.apply(&updated, input)
	s.bookmarks.Put(updated.ID, &updated)
	writeJSON(w, http.StatusOK, &updated)
}

func (s *Service) deleteBookmark(w http.ResponseWriter, r *http.Request) {
	if bookmark, ok := s.lookupBookmark(w, r); ok {
		s.bookmarks.Delete(bookmark.ID)
		w.WriteHeader(http.StatusNoContent)
	}
}

// apply copies the provided fields; tag names replace existing tags when present.
func (s *Service) apply(bookmark *Bookmark, input *bookmarkInput) {
	if input.URL != nil {
		bookmark.URL = *input.URL
	}
	if input.Title != nil {
		bookmark.Title = *input.Title
	}
	if input.Description != nil {
		bookmark.Description = *input.Description
	}
	if input.TagNames == nil {
		return
	}
	bookmark.Tags = []Tag{}
	for _, name := range input.TagNames {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		bookmark.Tags = append(bookmark.Tags, s.tag(name))
	}
}

// tag returns the tag named name, creating it on first use.
func (s *Service) tag(name string) Tag {
	if existing, ok := s.tags.Get(name); ok {
		return existing
	}
	candidate := Tag{ID: int(s.tagSeq.Add(1)), Name: name}
	if s.tags.PutIfAbsent(name, candidate) {
		return candidate
	}
	existing, _ := s.tags.Get(name)
	return existing
}
