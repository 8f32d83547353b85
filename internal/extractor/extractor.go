package extractor

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
	"wiki-quiz/internal/domain"
	"wiki-quiz/internal/logger"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

const (
	fetchTimeout = 10 * time.Second

	// Wikipedia rejects requests with default automated-client identifiers,
	// so the fetcher presents a browser identity.
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

	// Body text is capped to stay within model token limits.
	maxBodyChars     = 8000
	truncationMarker = "..."

	// Extraction fails when the reduced text falls below this length.
	minBodyChars = 100

	// Individual fragments at or below this length are stray captions,
	// labels, and the like; they are dropped.
	minFragmentChars = 20
)

// noiseClassPattern matches the class names of Wikipedia boilerplate:
// reference lists, navigation boxes, infoboxes, edit-section links,
// hatnotes, thumbnails and galleries.
var noiseClassPattern = regexp.MustCompile(`reference|navbox|infobox|mw-editsection|hatnote|thumb|thumbinner|gallery`)

var whitespacePattern = regexp.MustCompile(`\s+`)

// WikipediaExtractor implements domain.ArticleExtractor by fetching a page
// and reducing it to clean narrative text plus a title.
type WikipediaExtractor struct {
	client *http.Client
}

// NewWikipediaExtractor creates a new WikipediaExtractor. A nil client gets
// a default one with a bounded timeout.
func NewWikipediaExtractor(client *http.Client) *WikipediaExtractor {
	if client == nil {
		client = &http.Client{Timeout: fetchTimeout}
	}
	return &WikipediaExtractor{client: client}
}

// Extract implements domain.ArticleExtractor
func (e *WikipediaExtractor) Extract(ctx context.Context, url string) (*domain.ExtractedDocument, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, domain.NewFetchError(url, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, domain.NewFetchError(url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, domain.NewFetchError(url, fmt.Errorf("unexpected status code %d", resp.StatusCode))
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, domain.NewError(domain.ErrExtractionFailed, "Failed to parse HTML document", err)
	}

	title := strings.TrimSpace(doc.Find("h1.firstHeading").First().Text())
	if title == "" {
		title = "Unknown Title"
	}

	content := doc.Find("#mw-content-text")
	if content.Length() == 0 {
		return nil, domain.NewExtractionError("Could not find main content area")
	}

	// Remove citation markers and tables before collecting text; they hold
	// structured data, not narrative prose.
	content.Find("sup").Remove()
	content.Find("table").Remove()

	// Remove boilerplate elements by class.
	content.Find("div, span").Each(func(_ int, s *goquery.Selection) {
		if class, ok := s.Attr("class"); ok && noiseClassPattern.MatchString(class) {
			s.Remove()
		}
	})

	content.Find("script, style, nav, aside").Remove()

	// Collect visible text from headings and paragraphs in document order.
	var parts []string
	content.Find("h1, h2, h3, h4, h5, h6, p").Each(func(_ int, s *goquery.Selection) {
		text := whitespacePattern.ReplaceAllString(strings.TrimSpace(s.Text()), " ")
		if utf8.RuneCountInString(text) > minFragmentChars {
			parts = append(parts, text)
		}
	})

	bodyText := strings.Join(parts, "\n\n")

	if runes := []rune(bodyText); len(runes) > maxBodyChars {
		bodyText = string(runes[:maxBodyChars]) + truncationMarker
	}

	// Length limits count characters, not bytes, so multibyte text is
	// measured the same as ASCII.
	if utf8.RuneCountInString(bodyText) < minBodyChars {
		return nil, domain.NewExtractionError("Extracted content is too short or empty")
	}

	logger.Get().Debug("Extracted article",
		zap.String("url", url),
		zap.String("title", title),
		zap.Int("body_chars", utf8.RuneCountInString(bodyText)),
	)

	return &domain.ExtractedDocument{
		Title:    title,
		BodyText: bodyText,
	}, nil
}

// Static assertion to ensure WikipediaExtractor implements ArticleExtractor
var _ domain.ArticleExtractor = (*WikipediaExtractor)(nil)
