package db

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestJobPosting_Freshness(t *testing.T) {
	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)

	tests := []struct {
		name      string
		expiresAt *time.Time
		fresh     bool
	}{
		{"nil expires_at", nil, false},
		{"expired", &past, false},
		{"not expired", &future, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &JobPosting{ExpiresAt: tt.expiresAt}
			assert.Equal(t, tt.fresh, p.IsFresh())
			assert.Equal(t, !tt.fresh, p.IsExpired())
		})
	}
}

func TestHashJobContent(t *testing.T) {
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", HashJobContent(""))
	assert.Equal(t, "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824", HashJobContent("hello"))
}
