// SPDX-License-Identifier: MPL-2.0

package selfupdate

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultOwner and DefaultRepo name the repository publishing pwdgen releases.
	DefaultOwner = "ideatopia"
	DefaultRepo  = "password-generator"

	defaultAPI = "https://api.github.com"
	apiVersion = "2022-11-28"

	releasesPerPage = 30
	maxReleasePages = 3

	// maxMetadataBytes bounds JSON responses and checksum manifests.
	maxMetadataBytes = 10 << 20

	mediaJSON   = "application/vnd.github+json"
	mediaBinary = "application/octet-stream"
)

// ErrReleaseNotFound is returned when no release matches a tag, or the
// repository has no stable release at all.
var ErrReleaseNotFound = errors.New("release not found")

type (
	// Client reads the releases of one GitHub repository.
	Client struct {
		httpClient *http.Client
		api        string
		owner      string
		repo       string
		token      string
		userAgent  string
	}

	// ClientOption configures a Client.
	ClientOption func(*Client)

	// RateLimitError reports an exhausted GitHub API quota.
	RateLimitError struct {
		Limit   int
		ResetAt time.Time
	}

	// StatusError reports a response status other than 200 OK.
	StatusError struct {
		URL  string
		Code int
	}
)

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("GitHub API rate limit of %d requests exceeded, resets at %s",
		e.Limit, e.ResetAt.UTC().Format("15:04 UTC"))
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: %d %s", e.URL, e.Code, http.StatusText(e.Code))
}

// WithHTTPClient replaces http.DefaultClient.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// WithBaseURL points the client at another API root, such as a test server.
func WithBaseURL(api string) ClientOption {
	return func(c *Client) { c.api = strings.TrimSuffix(api, "/") }
}

// WithToken authenticates API requests. The token is only sent to the API host.
func WithToken(token string) ClientOption {
	return func(c *Client) { c.token = token }
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) { c.userAgent = ua }
}

// WithRepo selects the repository. Empty values keep the defaults.
func WithRepo(owner, repo string) ClientOption {
	return func(c *Client) {
		c.owner = cmp.Or(owner, c.owner)
		c.repo = cmp.Or(repo, c.repo)
	}
}

// NewClient returns a client for ideatopia/password-generator on api.github.com.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: http.DefaultClient,
		api:        defaultAPI,
		owner:      DefaultOwner,
		repo:       DefaultRepo,
		userAgent:  "pwdgen",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Repo returns the "owner/name" slug.
func (c *Client) Repo() string { return c.owner + "/" + c.repo }

// ListReleases returns the stable releases, newest first. At most
// maxReleasePages pages are read.
func (c *Client) ListReleases(ctx context.Context) ([]Release, error) {
	next := fmt.Sprintf("%s/repos/%s/releases?per_page=%d", c.api, c.Repo(), releasesPerPage)

	var stable []Release
	for page := 0; next != "" && page < maxReleasePages; page++ {
		var batch []Release
		link, err := c.getJSON(ctx, next, &batch)
		if err != nil {
			return nil, fmt.Errorf("listing releases of %s: %w", c.Repo(), err)
		}
		for _, r := range batch {
			if r.Stable() {
				stable = append(stable, r)
			}
		}
		next = nextPage(link)
	}

	newestFirst(stable)
	return stable, nil
}

// GetReleaseByTag returns the release tagged tag, or ErrReleaseNotFound.
func (c *Client) GetReleaseByTag(ctx context.Context, tag string) (*Release, error) {
	var r Release
	u := fmt.Sprintf("%s/repos/%s/releases/tags/%s", c.api, c.Repo(), url.PathEscape(tag))
	if _, err := c.getJSON(ctx, u, &r); err != nil {
		var se *StatusError
		if errors.As(err, &se) && se.Code == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %s in %s", ErrReleaseNotFound, tag, c.Repo())
		}
		return nil, fmt.Errorf("fetching release %s: %w", tag, err)
	}
	return &r, nil
}

// DownloadAsset streams the file at rawURL. The caller closes the body.
func (c *Client) DownloadAsset(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	resp, err := c.get(ctx, rawURL, mediaBinary)
	if err != nil {
		return nil, fmt.Errorf("downloading %s: %w", redact(rawURL), err)
	}
	return resp.Body, nil
}

// getJSON decodes the body at rawURL into v and returns the Link header.
func (c *Client) getJSON(ctx context.Context, rawURL string, v any) (string, error) {
	resp, err := c.get(ctx, rawURL, mediaJSON)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxMetadataBytes)).Decode(v); err != nil {
		return "", fmt.Errorf("decoding %s: %w", redact(rawURL), err)
	}
	return resp.Header.Get("Link"), nil
}

// get issues a GET and turns anything but 200 OK into an error.
func (c *Client) get(ctx context.Context, rawURL, accept string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", accept)
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-GitHub-Api-Version", apiVersion)
	if c.token != "" && c.trusts(req.URL) {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting %s: %w", redact(rawURL), err)
	}
	if resp.StatusCode == http.StatusOK {
		return resp, nil
	}
	_ = resp.Body.Close()

	if limited := rateLimit(resp); limited != nil {
		return nil, limited
	}
	return nil, &StatusError{URL: redact(rawURL), Code: resp.StatusCode}
}

// trusts reports whether u targets the API host, the only host given the token.
func (c *Client) trusts(u *url.URL) bool {
	api, err := url.Parse(c.api)
	return err == nil && strings.EqualFold(api.Host, u.Host)
}

// rateLimit returns a *RateLimitError when a refused response carries an
// exhausted quota, and nil otherwise. Missing companion headers read as zero.
func rateLimit(resp *http.Response) error {
	if resp.StatusCode != http.StatusForbidden && resp.StatusCode != http.StatusTooManyRequests {
		return nil
	}
	if resp.Header.Get("X-RateLimit-Remaining") != "0" {
		return nil
	}
	limit, _ := strconv.Atoi(resp.Header.Get("X-RateLimit-Limit"))
	reset, _ := strconv.ParseInt(resp.Header.Get("X-RateLimit-Reset"), 10, 64)
	return &RateLimitError{Limit: limit, ResetAt: time.Unix(reset, 0)}
}

// nextPage returns the rel="next" target of a Link header, or "".
func nextPage(link string) string {
	for entry := range strings.SplitSeq(link, ",") {
		target, params, ok := strings.Cut(entry, ";")
		if !ok || !strings.Contains(params, `rel="next"`) {
			continue
		}
		target = strings.TrimSpace(target)
		return strings.TrimSuffix(strings.TrimPrefix(target, "<"), ">")
	}
	return ""
}

// redact drops credentials, query and fragment from rawURL for error messages.
func redact(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "<invalid url>"
	}
	return (&url.URL{Scheme: u.Scheme, Host: u.Host, Path: u.Path}).String()
}
