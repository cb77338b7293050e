package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// GetJobPostingByURL returns the imported posting for url, or nil if there is none.
func (db *DB) GetJobPostingByURL(ctx context.Context, url string) (*JobPosting, error) {
	var p JobPosting
	err := db.pool.QueryRow(ctx,
		`SELECT url, platform, job_title, company, experience, description,
		        content_hash, fetched_at, expires_at, last_accessed_at
		 FROM job_postings WHERE url = $1`,
		url,
	).Scan(&p.URL, &p.Platform, &p.JobTitle, &p.Company, &p.Experience, &p.Description,
		&p.ContentHash, &p.FetchedAt, &p.ExpiresAt, &p.LastAccessedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job posting: %w", err)
	}
	return &p, nil
}

// GetFreshJobPosting returns the posting for url only if it has not expired.
func (db *DB) GetFreshJobPosting(ctx context.Context, url string) (*JobPosting, error) {
	posting, err := db.GetJobPostingByURL(ctx, url)
	if err != nil || posting == nil {
		return nil, err
	}
	if posting.IsExpired() {
		return nil, nil
	}

	_, _ = db.pool.Exec(ctx,
		"UPDATE job_postings SET last_accessed_at = NOW() WHERE url = $1", url)
	return posting, nil
}

// UpsertJobPosting stores an imported posting, replacing any previous import of the URL.
func (db *DB) UpsertJobPosting(ctx context.Context, input *JobPostingInput) (*JobPosting, error) {
	ttl := input.TTL
	if ttl <= 0 {
		ttl = DefaultJobPostingCacheTTL
	}
	expiresAt := time.Now().Add(ttl)

	p := JobPosting{
		URL:         input.URL,
		Platform:    input.Platform,
		JobTitle:    input.JobTitle,
		Company:     input.Company,
		Experience:  input.Experience,
		Description: input.Description,
		ContentHash: HashJobContent(input.Description),
		ExpiresAt:   &expiresAt,
	}
	err := db.pool.QueryRow(ctx,
		`INSERT INTO job_postings (url, platform, job_title, company, experience, description,
		                           content_hash, expires_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (url) DO UPDATE SET
		     platform = EXCLUDED.platform,
		     job_title = EXCLUDED.job_title,
		     company = EXCLUDED.company,
		     experience = EXCLUDED.experience,
		     description = EXCLUDED.description,
		     content_hash = EXCLUDED.content_hash,
		     fetched_at = NOW(),
		     expires_at = EXCLUDED.expires_at
		 RETURNING fetched_at`,
		p.URL, p.Platform, p.JobTitle, p.Company, p.Experience, p.Description,
		p.ContentHash, p.ExpiresAt,
	).Scan(&p.FetchedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert job posting: %w", err)
	}
	return &p, nil
}

// DeleteExpiredJobPostings removes postings past their expiry and returns how many were removed.
func (db *DB) DeleteExpiredJobPostings(ctx context.Context) (int64, error) {
	tag, err := db.pool.Exec(ctx, `DELETE FROM job_postings WHERE expires_at < NOW()`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired job postings: %w", err)
	}
	return tag.RowsAffected(), nil
}
