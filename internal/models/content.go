package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Bucket is the unit of content stored at one content path leaf:
// the list of modules uploaded under a (year, semester, branch,
// subject, contentType) combination.
type Bucket struct {
	Modules []Module `json:"modules"`
}

// EmptyBucket returns the default bucket for a path that has never
// been written. A missing path is valid and means "no content yet".
func EmptyBucket() *Bucket {
	return &Bucket{Modules: []Module{}}
}

// FindModule returns a pointer into Modules for the module with the
// given id, or nil if no module has it.
func (b *Bucket) FindModule(id string) *Module {
	for i := range b.Modules {
		if b.Modules[i].ID == id {
			return &b.Modules[i]
		}
	}
	return nil
}

// Module is a named group of topics inside a bucket.
type Module struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Topics []Topic `json:"topics"`
}

// HasTopic reports whether the module already contains a topic with
// the given id.
func (m *Module) HasTopic(id string) bool {
	for i := range m.Topics {
		if m.Topics[i].ID == id {
			return true
		}
	}
	return false
}

// Topic is a single content item: a lecture video, a notes PDF or a
// question set, addressed by the owning bucket's coordinates plus the
// module id.
type Topic struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	VideoURL string `json:"videoUrl,omitempty"`
	PDFURL   string `json:"pdfUrl,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

// StoredBucket is a bucket row as persisted: the decoded content plus
// the addressing and versioning columns.
type StoredBucket struct {
	PathKey     string    `json:"pathKey" db:"path_key"`
	Year        string    `json:"year" db:"year"`
	Semester    string    `json:"semester" db:"semester"`
	Branch      string    `json:"branch" db:"branch"`
	Subject     string    `json:"subject" db:"subject"`
	ContentType string    `json:"contentType" db:"content_type"`
	Bucket      *Bucket   `json:"content" db:"-"`
	Version     int64     `json:"version" db:"version"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// DecodeBucket parses the JSON content column into a Bucket.
func DecodeBucket(raw []byte) (*Bucket, error) {
	if len(raw) == 0 {
		return EmptyBucket(), nil
	}
	var b Bucket
	if err := json.Unmarshal(raw, &b); err != nil {
		return nil, fmt.Errorf("decode bucket content: %w", err)
	}
	if b.Modules == nil {
		b.Modules = []Module{}
	}
	return &b, nil
}

// EncodeBucket serializes a Bucket for the JSON content column.
func EncodeBucket(b *Bucket) ([]byte, error) {
	if b == nil {
		b = EmptyBucket()
	}
	raw, err := json.Marshal(b)
	if err != nil {
		return nil, fmt.Errorf("encode bucket content: %w", err)
	}
	return raw, nil
}
