package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURL_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, DefaultUserAgent, r.UserAgent())
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><body><h1>Backend Engineer</h1></body></html>"))
	}))
	defer server.Close()

	result, err := URL(context.Background(), server.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, server.URL, result.URL)
	assert.Contains(t, result.HTML, "<h1>Backend Engineer</h1>")
	assert.Equal(t, http.StatusOK, result.StatusCode)
}

func TestURL_InvalidURL(t *testing.T) {
	for _, raw := range []string{"not-a-valid-url", "ftp://example.com/job", "https://"} {
		_, err := URL(context.Background(), raw, nil)
		var fetchErr *Error
		require.ErrorAs(t, err, &fetchErr, raw)
		assert.Contains(t, err.Error(), "invalid URL")
	}
}

func TestURL_HTTPError(t *testing.T) {
	tests := []struct {
		status    int
		retryable bool
	}{
		{http.StatusNotFound, false},
		{http.StatusTooManyRequests, true},
		{http.StatusBadGateway, true},
	}
	for _, tt := range tests {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(tt.status)
		}))

		result, err := URL(context.Background(), server.URL, nil)
		server.Close()

		require.Error(t, err)
		require.NotNil(t, result)
		assert.Equal(t, tt.status, result.StatusCode)
		var fetchErr *Error
		require.ErrorAs(t, err, &fetchErr)
		assert.Equal(t, tt.retryable, fetchErr.Retryable)
	}
}

func TestExtractMainText(t *testing.T) {
	html := `
	<html>
		<body>
			<nav>Navigation</nav>
			<div class="job-description">
				<h1>Senior Backend Engineer</h1>
				<p>Build   the   payments platform.</p>
				<form>Apply now</form>
			</div>
			<footer>Footer</footer>
		</body>
	</html>`

	text, err := ExtractMainText(html, JobPostingSelectors(), "form")
	require.NoError(t, err)
	assert.Equal(t, "Senior Backend Engineer\nBuild the payments platform.", text)
}

func TestExtractMainText_FallsBackToBody(t *testing.T) {
	text, err := ExtractMainText(`<html><body><p>Only body</p></body></html>`, []string{".missing"})
	require.NoError(t, err)
	assert.Equal(t, "Only body", text)
}

func TestPageTitle(t *testing.T) {
	assert.Equal(t, "Staff SRE", PageTitle(`<html><head><meta property="og:title" content="Staff SRE"><title>Jobs</title></head></html>`))
	assert.Equal(t, "Jobs", PageTitle(`<html><head><title> Jobs </title></head></html>`))
	assert.Empty(t, PageTitle(`<html></html>`))
}
