// Package fetch provides URL fetching, page text extraction and a local document cache.
// This package centralizes HTTP fetching logic used by ingestion and the inflation client.
package fetch

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// DefaultUserAgent is the user agent string for HTTP requests.
const DefaultUserAgent = "Mozilla/5.0 (compatible; MonotributoHistorico/1.0)"

// Result holds the raw and processed content from a URL fetch.
type Result struct {
	URL         string
	Body        []byte
	HTML        string // Body decoded to UTF-8
	ContentType string
	StatusCode  int
}

// Error represents an error during URL fetching.
type Error struct {
	URL     string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Options configures the fetch behavior.
type Options struct {
	Timeout   time.Duration
	UserAgent string
	Headers   map[string]string
	// InsecureSkipVerify disables certificate validation. The AFIP hosts serve
	// certificate chains that fail verification on many systems.
	InsecureSkipVerify bool
}

// DefaultOptions returns the defaults used for the AFIP sources.
func DefaultOptions() *Options {
	return &Options{
		Timeout:            DefaultTimeout,
		UserAgent:          DefaultUserAgent,
		InsecureSkipVerify: true,
	}
}

// NewClient builds the HTTP client for the given options.
func NewClient(opts *Options) *http.Client {
	if opts == nil {
		opts = DefaultOptions()
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if opts.InsecureSkipVerify {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // source hosts have broken chains
	}
	return &http.Client{
		Timeout:   opts.Timeout,
		Transport: transport,
	}
}

// URL retrieves the content at a URL. A non-2xx status is returned as an error together
// with the partial result.
func URL(ctx context.Context, urlStr string, opts *Options) (*Result, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	// Validate URL
	parsedURL, err := url.Parse(urlStr)
	if err != nil || parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, &Error{
			URL:     urlStr,
			Message: "invalid URL",
			Cause:   err,
		}
	}

	client := NewClient(opts)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, &Error{
			URL:     urlStr,
			Message: "failed to create request",
			Cause:   err,
		}
	}

	req.Header.Set("User-Agent", opts.UserAgent)
	for key, value := range opts.Headers {
		req.Header.Set(key, value)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, &Error{
			URL:     urlStr,
			Message: "HTTP request failed",
			Cause:   err,
		}
	}
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{
			URL:     urlStr,
			Message: "failed to read response body",
			Cause:   err,
		}
	}

	contentType := resp.Header.Get("Content-Type")
	result := &Result{
		URL:         urlStr,
		Body:        bodyBytes,
		ContentType: contentType,
		StatusCode:  resp.StatusCode,
	}
	if DetectKind(urlStr, contentType) == KindPage {
		result.HTML = DecodeBody(bodyBytes)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return result, &Error{
			URL:     urlStr,
			Message: fmt.Sprintf("HTTP status %d", resp.StatusCode),
		}
	}

	return result, nil
}

// DecodeBody returns body as UTF-8 text. Bodies that are not valid UTF-8 are treated as
// Windows-1252, the encoding legacy Spanish-language pages are usually served in.
func DecodeBody(body []byte) string {
	if utf8.Valid(body) {
		return string(body)
	}
	decoded, _, err := transform.Bytes(charmap.Windows1252.NewDecoder(), body)
	if err != nil {
		return string(bytes.ToValidUTF8(body, []byte("�")))
	}
	return string(decoded)
}

// ExtractMainText parses HTML and returns the visible body text with script, style and
// navigation noise removed.
func ExtractMainText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("nav, footer, script, style, noscript, .cookie-banner, .popup").Remove()

	return cleanWhitespace(doc.Find("body").Text()), nil
}

// cleanWhitespace trims every line and drops the empty ones.
func cleanWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	var cleaned []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}
