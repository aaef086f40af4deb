package marketplace

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spagettikod/vsixinstaller/cli"
	"github.com/spagettikod/vsixinstaller/vscode"
	"github.com/spf13/afero"
)

const (
	DefaultQueryURL  = "https://marketplace.visualstudio.com/_apis/public/gallery/extensionquery"
	DefaultItemURL   = "https://marketplace.visualstudio.com/items"
	DefaultUserAgent = "vsixinstaller"
	DefaultTimeout   = 60 * time.Second

	acceptAPIVersion = "application/json;api-version=3.0-preview.1"
	queryDumpFile    = "query.json"
	responseDumpFile = "response.json"
)

var (
	ErrNetwork           = errors.New("marketplace request failed")
	ErrExtraction        = errors.New("could not find package URL in Marketplace response")
	ErrFile              = errors.New("could not write package file")
	ErrExtensionNotFound = errors.New("extension could not be found at Marketplace")
	ErrUnknownSource     = errors.New("unknown metadata source")
)

// Source selects where extension metadata is read from.
type Source string

const (
	SourceQuery Source = "query"
	SourcePage  Source = "page"
)

func ParseSource(s string) (Source, error) {
	switch Source(s) {
	case SourceQuery, SourcePage:
		return Source(s), nil
	}
	return "", fmt.Errorf("%w: %s, valid values are: query, page", ErrUnknownSource, s)
}

// Client talks to the Marketplace. Files, the downloaded package and debug
// dumps, are written to fs.
type Client struct {
	QueryURL  string
	ItemURL   string
	UserAgent string
	// Debug dumps the query and raw response to the working directory.
	Debug bool
	// Progress returns the progress tracker used while downloading, total
	// is -1 when the size is not known.
	Progress func(total int64) cli.ByteProgresser

	fs      afero.Fs
	hc      *http.Client
	timeout time.Duration
}

// NewClient returns a client where timeout bounds each metadata request.
// Package downloads only have to start responding within timeout, the body
// may take as long as it takes.
func NewClient(fs afero.Fs, timeout time.Duration) *Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.ResponseHeaderTimeout = timeout
	return &Client{
		QueryURL:  DefaultQueryURL,
		ItemURL:   DefaultItemURL,
		UserAgent: DefaultUserAgent,
		fs:        fs,
		hc:        &http.Client{Transport: transport},
		timeout:   timeout,
	}
}

// Fetch returns the raw metadata for uid from the given source.
func (c *Client) Fetch(ctx context.Context, src Source, uid vscode.UniqueID) ([]byte, error) {
	switch src {
	case SourceQuery:
		return c.Query(ctx, uid)
	case SourcePage:
		return c.ItemPage(ctx, uid)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownSource, src)
}

// Query posts an extension query for uid and returns the response body.
func (c *Client) Query(ctx context.Context, uid vscode.UniqueID) ([]byte, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	q := NewQuery(uid)
	body := q.ToJSON()
	c.dump(queryDumpFile, body)

	log.Debug().Strs("criteria", q.CriteriaValues(FilterTypeExtensionName)).Str("url", c.QueryURL).Msg("querying Marketplace")
	req, err := c.newRequest(ctx, http.MethodPost, c.QueryURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Add("Content-Type", "application/json")
	req.Header.Add("Accept", acceptAPIVersion)

	b, err := c.do(req)
	if err != nil {
		return nil, err
	}
	c.dump(responseDumpFile, b)
	return b, nil
}

// ItemPage fetches the Marketplace web page of uid.
func (c *Client) ItemPage(ctx context.Context, uid vscode.UniqueID) ([]byte, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	u, err := url.Parse(c.ItemURL)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid item URL %s: %w", ErrNetwork, c.ItemURL, err)
	}
	v := u.Query()
	v.Set("itemName", uid.String())
	v.Set("ssr", "false")
	u.RawQuery = v.Encode()

	log.Debug().Str("url", u.String()).Msg("fetching Marketplace item page")
	req, err := c.newRequest(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	b, err := c.do(req)
	if err != nil {
		return nil, err
	}
	c.dump(responseDumpFile, b)
	return b, nil
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}

func (c *Client) newRequest(ctx context.Context, method, u string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	return req, nil
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	defer resp.Body.Close()
	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %w", ErrNetwork, err)
	}
	return b, nil
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: %s returned HTTP %v", ErrNetwork, resp.Request.URL.Host, resp.StatusCode)
	}
	return nil
}

func (c *Client) dump(name string, b []byte) {
	if !c.Debug {
		return
	}
	if err := afero.WriteFile(c.fs, name, b, 0644); err != nil {
		log.Warn().Err(err).Str("file", name).Msg("could not write debug dump")
	}
}

func (c *Client) progress(total int64) cli.ByteProgresser {
	if c.Progress == nil {
		return cli.NoopProgresser{}
	}
	return c.Progress(total)
}
