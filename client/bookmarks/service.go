// Package bookmarks is a client for the bookmark resource routes. Every call
// goes through the authenticating transport, so an expired access token is
// refreshed transparently.
package bookmarks

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

const URI = "bookmarks/"

// ErrEmptyQuery is returned by Search for a blank query; no request is sent.
var ErrEmptyQuery = errors.New("no search query provided")

// Doer sends a JSON request relative to the API base URL.
type Doer interface {
	Do(ctx context.Context, method, uri string, request, response interface{}) error
}

type Service struct {
	doer Doer
}

func New(doer Doer) *Service {
	return &Service{doer: doer}
}

// List returns the bookmarks of the authenticated user.
func (s *Service) List(ctx context.Context) ([]*Bookmark, error) {
	var ret []*Bookmark
	if err := s.doer.Do(ctx, http.MethodGet, URI, nil, &ret); err != nil {
		return nil, fmt.Errorf("failed to list bookmarks: %w", err)
	}
	return ret, nil
}

func (s *Service) Get(ctx context.Context, id int) (*Bookmark, error) {
	ret := &Bookmark{}
	if err := s.doer.Do(ctx, http.MethodGet, itemURI(id), nil, ret); err != nil {
		return nil, fmt.Errorf("failed to get bookmark %v: %w", id, err)
	}
	return ret, nil
}

func (s *Service) Create(ctx context.Context, bookmark *Bookmark) (*Bookmark, error) {
	ret := &Bookmark{}
	if err := s.doer.Do(ctx, http.MethodPost, URI, bookmark, ret); err != nil {
		return nil, fmt.Errorf("failed to create bookmark: %w", err)
	}
	return ret, nil
}

// Update replaces bookmark id; TagNames, when set, replace its tags.
func (s *Service) Update(ctx context.Context, id int, bookmark *Bookmark) (*Bookmark, error) {
	ret := &Bookmark{}
	if err := s.doer.Do(ctx, http.MethodPut, itemURI(id), bookmark, ret); err != nil {
		return nil, fmt.Errorf("failed to update bookmark %v: %w", id, err)
	}
	return ret, nil
}

func (s *Service) Delete(ctx context.Context, id int) error {
	if err := s.doer.Do(ctx, http.MethodDelete, itemURI(id), nil, nil); err != nil {
		return fmt.Errorf("failed to delete bookmark %v: %w", id, err)
	}
	return nil
}

// Search matches query against title, description and URL.
func (s *Service) Search(ctx context.Context, query string) ([]*Bookmark, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	var ret []*Bookmark
	uri := URI + "search/?" + url.Values{"q": {query}}.Encode()
	if err := s.doer.Do(ctx, http.MethodGet, uri, nil, &ret); err != nil {
		return nil, fmt.Errorf("failed to search bookmarks: %w", err)
	}
	return ret, nil
}

func itemURI(id int) string {
	return fmt.Sprintf("%v%d/", URI, id)
}
