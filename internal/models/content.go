package models

import "time"

// ContentStatus is the workflow state of a content item. Any authorized
// writer may move between statuses in any order.
type ContentStatus string

const (
	StatusDraft     ContentStatus = "draft"
	StatusPublished ContentStatus = "published"
	StatusArchived  ContentStatus = "archived"
)

// IsValid reports whether the status is one of the known workflow states
func (s ContentStatus) IsValid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusArchived:
		return true
	}
	return false
}

// ContentVisibility controls exposure to non-privileged viewers,
// independent of publication status.
type ContentVisibility string

const (
	VisibilityPublic     ContentVisibility = "public"
	VisibilityRegistered ContentVisibility = "registered"
	VisibilityPrivate    ContentVisibility = "private"
)

// IsValid reports whether the visibility is one of the known values
func (v ContentVisibility) IsValid() bool {
	switch v {
	case VisibilityPublic, VisibilityRegistered, VisibilityPrivate:
		return true
	}
	return false
}

// Content represents a content item. AuthorID is set once at creation and
// never reassigned.
type Content struct {
	ID         int               `json:"id"`
	Title      string            `json:"title"`
	Excerpt    string            `json:"excerpt,omitempty"`
	Body       string            `json:"body,omitempty"`
	AuthorID   int               `json:"authorId"`
	AuthorName string            `json:"authorName,omitempty"`
	Status     ContentStatus     `json:"status"`
	Category   string            `json:"category,omitempty"`
	Tags       []string          `json:"tags"`
	Visibility ContentVisibility `json:"visibility"`
	Views      int               `json:"views"`
	CreatedAt  time.Time         `json:"createdAt"`
	UpdatedAt  time.Time         `json:"updatedAt"`
}

// ContentListItem represents a content row in list responses
type ContentListItem struct {
	ID         int               `json:"id"`
	Title      string            `json:"title"`
	Excerpt    string            `json:"excerpt,omitempty"`
	AuthorID   int               `json:"authorId"`
	AuthorName string            `json:"authorName,omitempty"`
	Status     ContentStatus     `json:"status"`
	Category   string            `json:"category,omitempty"`
	Visibility ContentVisibility `json:"visibility"`
	Views      int               `json:"views"`
	UpdatedAt  time.Time         `json:"updatedAt"`
}

// CreateContentRequest represents a content creation request.
// The author is always the creating actor; there is no author field.
type CreateContentRequest struct {
	Title      string   `json:"title"`
	Excerpt    string   `json:"excerpt"`
	Body       string   `json:"body"`
	Status     string   `json:"status"`
	Category   string   `json:"category"`
	Tags       []string `json:"tags"`
	Visibility string   `json:"visibility"`
}

// UpdateContentRequest represents a content update request
type UpdateContentRequest struct {
	Title      string   `json:"title"`
	Excerpt    string   `json:"excerpt"`
	Body       string   `json:"body"`
	Status     string   `json:"status"`
	Category   string   `json:"category"`
	Tags       []string `json:"tags"`
	Visibility string   `json:"visibility"`
}

// ContentFilter holds the optional list filters
type ContentFilter struct {
	Category string
	Status   string
	Search   string
	Page     int
	Count    int
}

// StatsResponse aggregates dashboard statistics for admins
type StatsResponse struct {
	TotalUsers     int               `json:"totalUsers"`
	TotalContent   int               `json:"totalContent"`
	PublishedCount int               `json:"publishedCount"`
	DraftCount     int               `json:"draftCount"`
	ArchivedCount  int               `json:"archivedCount"`
	RecentContent  []ContentListItem `json:"recentContent"`
	TopContent     []ContentListItem `json:"topContent"`
}
