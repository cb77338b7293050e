package db

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// DefaultJobPostingCacheTTL is how long before an imported posting is fetched again.
const DefaultJobPostingCacheTTL = 24 * time.Hour

// JobPosting is an imported job posting and the setup fields extracted from it.
type JobPosting struct {
	URL            string     `json:"url"`
	Platform       string     `json:"platform"`
	JobTitle       string     `json:"job_title"`
	Company        string     `json:"company"`
	Experience     string     `json:"experience"`
	Description    string     `json:"description"`
	ContentHash    string     `json:"content_hash"`
	FetchedAt      time.Time  `json:"fetched_at"`
	ExpiresAt      *time.Time `json:"expires_at,omitempty"`
	LastAccessedAt *time.Time `json:"last_accessed_at,omitempty"`
}

// JobPostingInput is the data stored by UpsertJobPosting.
type JobPostingInput struct {
	URL         string
	Platform    string
	JobTitle    string
	Company     string
	Experience  string
	Description string
	TTL         time.Duration
}

// IsFresh returns true if the posting has not expired.
func (p *JobPosting) IsFresh() bool {
	return p.ExpiresAt != nil && time.Now().Before(*p.ExpiresAt)
}

// IsExpired returns true if the posting has expired or has no expiry.
func (p *JobPosting) IsExpired() bool {
	return !p.IsFresh()
}

// HashJobContent returns the SHA-256 hex digest of posting text.
func HashJobContent(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
