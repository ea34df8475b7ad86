package bookmarks

import "time"

// Tag labels a bookmark; names are stored lower case.
type Tag struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Bookmark is a saved link owned by the authenticated user.
type Bookmark struct {
	ID           int       `json:"id,omitempty"`
	URL          string    `json:"url"`
	Title        string    `json:"title,omitempty"`
	Description  string    `json:"description,omitempty"`
	User         int       `json:"user,omitempty"`
	Tags         []Tag     `json:"tags,omitempty"`
	TagNames     []string  `json:"tag_names,omitempty"`
	Source       string    `json:"source,omitempty"`
	SourceID     string    `json:"source_id,omitempty"`
	ContentType  string    `json:"content_type,omitempty"`
	PreviewImage string    `json:"preview_image,omitempty"`
	Favicon      string    `json:"favicon,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TagList returns tag names in server order.
func (b *Bookmark) TagList() []string {
	ret := make([]string, 0, len(b.Tags))
	for _, tag := range b.Tags {
		ret = append(ret, tag.Name)
	}
	return ret
}
