// Package contentpath encodes and decodes the composite key that
// addresses one content bucket: (year, semester, branch, subject,
// contentType) joined into a single dotted storage key.
package contentpath

import (
	"fmt"
	"regexp"
	"strings"
)

// Separator joins path segments in the encoded key. No segment may
// contain it.
const Separator = "."

// semesterPrefix disambiguates the numeric semester segment from
// other numeric segments when a key is read back.
const semesterPrefix = "sem-"

var segmentRegex = regexp.MustCompile(`^[a-zA-Z0-9-]+$`)

// ErrInvalidSegment reports a path segment that is empty, contains
// the separator, or falls outside the allowed charset.
type ErrInvalidSegment struct {
	Field string
	Value string
}

func (e *ErrInvalidSegment) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid path segment %q: must not be empty", e.Field)
	}
	return fmt.Sprintf("invalid path segment %q: %q must be alphanumeric or hyphen", e.Field, e.Value)
}

// ContentPath addresses exactly one content bucket.
type ContentPath struct {
	Year        string `json:"year"`
	Semester    string `json:"semester"`
	Branch      string `json:"branch"`
	Subject     string `json:"subject"`
	ContentType string `json:"contentType"`
}

// segments returns the path fields in key order, paired with the
// field names used in error messages.
func (p ContentPath) segments() [][2]string {
	return [][2]string{
		{"year", p.Year},
		{"semester", p.Semester},
		{"branch", p.Branch},
		{"subject", p.Subject},
		{"contentType", p.ContentType},
	}
}

// Validate checks every segment against the bounded charset.
func (p ContentPath) Validate() error {
	for _, seg := range p.segments() {
		if !segmentRegex.MatchString(seg[1]) {
			return &ErrInvalidSegment{Field: seg[0], Value: seg[1]}
		}
	}
	return nil
}

// Encode joins the path into its canonical dotted key. The semester
// segment is stored with a "sem-" prefix. Encode fails if any
// segment is empty or would collide with the separator.
func Encode(p ContentPath) (string, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}
	parts := []string{
		p.Year,
		semesterPrefix + p.Semester,
		p.Branch,
		p.Subject,
		p.ContentType,
	}
	return strings.Join(parts, Separator), nil
}

// Decode is the exact inverse of Encode: for every valid path,
// Decode(Encode(p)) == p.
func Decode(key string) (ContentPath, error) {
	parts := strings.Split(key, Separator)
	if len(parts) != 5 {
		return ContentPath{}, fmt.Errorf("malformed content key %q: expected 5 segments, got %d", key, len(parts))
	}
	if !strings.HasPrefix(parts[1], semesterPrefix) {
		return ContentPath{}, fmt.Errorf("malformed content key %q: semester segment missing %q prefix", key, semesterPrefix)
	}
	p := ContentPath{
		Year:        parts[0],
		Semester:    strings.TrimPrefix(parts[1], semesterPrefix),
		Branch:      parts[2],
		Subject:     parts[3],
		ContentType: parts[4],
	}
	if err := p.Validate(); err != nil {
		return ContentPath{}, err
	}
	return p, nil
}
