package fetch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/interview-simulator/internal/db"
	"github.com/jonathan/interview-simulator/internal/llm"
	"github.com/jonathan/interview-simulator/internal/types"
)

// Cache stores imported postings. *db.DB implements it.
type Cache interface {
	GetFreshJobPosting(ctx context.Context, url string) (*db.JobPosting, error)
	UpsertJobPosting(ctx context.Context, input *db.JobPostingInput) (*db.JobPosting, error)
}

// Extractor turns posting text into setup fields.
type Extractor func(ctx context.Context, text string) (*llm.JobPosting, error)

// LLMExtractor returns an Extractor backed by client.
func LLMExtractor(client llm.Client) Extractor {
	return func(ctx context.Context, text string) (*llm.JobPosting, error) {
		return llm.ExtractJobPosting(ctx, client, text)
	}
}

// Posting is an imported job posting.
type Posting struct {
	URL         string   `json:"url"`
	Platform    Platform `json:"platform"`
	JobTitle    string   `json:"jobTitle"`
	Company     string   `json:"company"`
	Experience  string   `json:"experience,omitempty"`
	Description string   `json:"jobDescription"`
	FromCache   bool     `json:"fromCache"`
	Rendered    bool     `json:"rendered"`
}

// SetupRequest prefills the setup form. Experience is kept only when it maps
// to a known level.
func (p *Posting) SetupRequest() types.SetupRequest {
	return types.SetupRequest{
		JobTitle:       p.JobTitle,
		Company:        p.Company,
		Experience:     string(MatchExperience(p.Experience)),
		JobDescription: p.Description,
	}
}

// MatchExperience maps free text such as "Senior" or "5+ years" to a level.
// It returns "" when nothing matches.
func MatchExperience(text string) types.ExperienceLevel {
	t := strings.ToLower(text)
	switch {
	case t == "":
		return ""
	case strings.Contains(t, "lead") || strings.Contains(t, "principal") ||
		strings.Contains(t, "director") || strings.Contains(t, "head of") || strings.Contains(t, "manager"):
		return types.ExperienceLeadership
	case strings.Contains(t, "senior") || strings.Contains(t, "staff"):
		return types.ExperienceSenior
	case strings.Contains(t, "entry") || strings.Contains(t, "junior") ||
		strings.Contains(t, "intern") || strings.Contains(t, "graduate"):
		return types.ExperienceEntry
	case strings.Contains(t, "mid"):
		return types.ExperienceMid
	default:
		return ""
	}
}

// Importer fetches a posting page, extracts its text and, when an extractor
// is configured, the setup fields.
type Importer struct {
	cache     Cache
	renderer  Renderer
	extractor Extractor
	options   *Options
	cacheTTL  time.Duration
	log       *zap.Logger
}

// ImporterConfig configures an Importer. Every field is optional.
type ImporterConfig struct {
	Cache     Cache
	Renderer  Renderer
	Extractor Extractor
	Options   *Options
	CacheTTL  time.Duration
}

// NewImporter creates an Importer.
func NewImporter(config ImporterConfig, log *zap.Logger) *Importer {
	if config.Options == nil {
		config.Options = DefaultOptions()
	}
	if config.CacheTTL <= 0 {
		config.CacheTTL = db.DefaultJobPostingCacheTTL
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Importer{
		cache:     config.Cache,
		renderer:  config.Renderer,
		extractor: config.Extractor,
		options:   config.Options,
		cacheTTL:  config.CacheTTL,
		log:       log,
	}
}

// Import returns the posting at urlStr, from the cache when a fresh copy exists.
func (im *Importer) Import(ctx context.Context, urlStr string) (*Posting, error) {
	urlStr = strings.TrimSpace(urlStr)
	if err := ValidateURL(urlStr); err != nil {
		return nil, err
	}
	platform := DetectPlatform(urlStr)

	if im.cache != nil {
		cached, err := im.cache.GetFreshJobPosting(ctx, urlStr)
		if err != nil {
			im.log.Warn("job posting cache lookup failed", zap.Error(err))
		} else if cached != nil {
			return &Posting{
				URL:         cached.URL,
				Platform:    Platform(cached.Platform),
				JobTitle:    cached.JobTitle,
				Company:     cached.Company,
				Experience:  cached.Experience,
				Description: cached.Description,
				FromCache:   true,
			}, nil
		}
	}

	posting, err := im.fetch(ctx, urlStr, platform)
	if err != nil {
		return nil, err
	}

	if im.cache != nil {
		_, err := im.cache.UpsertJobPosting(ctx, &db.JobPostingInput{
			URL:         posting.URL,
			Platform:    string(posting.Platform),
			JobTitle:    posting.JobTitle,
			Company:     posting.Company,
			Experience:  posting.Experience,
			Description: posting.Description,
			TTL:         im.cacheTTL,
		})
		if err != nil {
			im.log.Warn("failed to cache job posting", zap.Error(err))
		}
	}
	return posting, nil
}

func (im *Importer) fetch(ctx context.Context, urlStr string, platform Platform) (*Posting, error) {
	content := PlatformContentSelectors(platform)
	noise := PlatformNoiseSelectors(platform)

	result, err := URL(ctx, urlStr, im.options)
	if err != nil {
		return nil, err
	}
	html := result.HTML
	text, err := ExtractMainText(html, content, noise...)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "failed to extract text", Cause: err}
	}

	rendered := false
	if ShouldUseBrowser(text) && im.renderer != nil {
		im.log.Info("page looks client-rendered, using headless browser",
			zap.String("url", urlStr), zap.Int("text_length", len(text)))
		if page, err := im.renderer.Render(ctx, urlStr); err != nil {
			im.log.Warn("browser rendering failed, keeping plain fetch", zap.Error(err))
		} else if renderedText, err := ExtractMainText(page, content, noise...); err == nil && len(renderedText) > len(text) {
			html, text, rendered = page, renderedText, true
		}
	}
	if strings.TrimSpace(text) == "" {
		return nil, &Error{URL: urlStr, Message: "no posting text found"}
	}

	posting := &Posting{
		URL:         urlStr,
		Platform:    platform,
		JobTitle:    PageTitle(html),
		Description: text,
		Rendered:    rendered,
	}

	if im.extractor != nil {
		fields, err := im.extractor(ctx, text)
		if err != nil {
			im.log.Warn("job posting extraction failed, using page text", zap.Error(err))
		} else {
			posting.JobTitle = firstNonEmpty(fields.JobTitle, posting.JobTitle)
			posting.Company = fields.Company
			posting.Experience = fields.Experience
			posting.Description = firstNonEmpty(fields.JobDescription, posting.Description)
		}
	}

	im.log.Info("job posting imported",
		zap.String("url", urlStr),
		zap.String("platform", string(platform)),
		zap.Bool("rendered", rendered))
	return posting, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// String describes the posting for CLI output.
func (p *Posting) String() string {
	return fmt.Sprintf("%s at %s (%s)", p.JobTitle, p.Company, p.Platform)
}
