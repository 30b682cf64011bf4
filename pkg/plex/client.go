package plex

import (
	"context"
	"crypto/tls"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// ErrDeletionNotAllowed is returned when the server rejects a media
// retraction because "Allow media deletion" is disabled in its settings.
var ErrDeletionNotAllowed = errors.New("'Allow media deletion' is not enabled in Plex settings")

// XML payload models (subset of the Plex media container schema)
type mediaContainer struct {
	XMLName   xml.Name    `xml:"MediaContainer"`
	Size      int         `xml:"size,attr"`
	Directory []Directory `xml:"Directory"`
	Video     []Video     `xml:"Video"`
}

// Directory is a library section entry.
type Directory struct {
	Key   string `xml:"key,attr"`
	Type  string `xml:"type,attr"` // "movie", "show"
	Title string `xml:"title,attr"`
}

// Video is a movie or episode item carrying one or more media versions.
type Video struct {
	RatingKey        string  `xml:"ratingKey,attr"`
	Key              string  `xml:"key,attr"`
	Type             string  `xml:"type,attr"` // "movie", "episode"
	Title            string  `xml:"title,attr"`
	Year             int     `xml:"year,attr"`
	GrandparentTitle string  `xml:"grandparentTitle,attr"` // show title (episodes)
	ParentIndex      int     `xml:"parentIndex,attr"`      // season number
	Index            int     `xml:"index,attr"`            // episode number
	Media            []Media `xml:"Media"`
}

// Media is one version of a video item.
type Media struct {
	ID              string `xml:"id,attr"`
	VideoCodec      string `xml:"videoCodec,attr"`
	VideoResolution string `xml:"videoResolution,attr"`
	Size            int64  `xml:"size,attr"`
	Part            []Part `xml:"Part"`
}

// Part is one physical file backing a media version.
type Part struct {
	ID   string `xml:"id,attr"`
	File string `xml:"file,attr"`
	Size int64  `xml:"size,attr"`
}

// ClientOptions configure the connection to the Plex server.
type ClientOptions struct {
	BaseURL     string
	Token       string
	Timeout     time.Duration
	InsecureTLS bool
	Verbose     bool
}

// Client talks to one Plex server.
type Client struct {
	base    *url.URL
	token   string
	http    *http.Client
	verbose bool
}

// NewClient creates a client for the given server options.
func NewClient(o ClientOptions) (*Client, error) {
	u, err := url.Parse(o.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if o.Timeout <= 0 {
		o.Timeout = 30 * time.Second
	}
	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   o.Timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSClientConfig:       &tls.Config{InsecureSkipVerify: o.InsecureTLS}, //nolint:gosec
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	return &Client{
		base:  u,
		token: o.Token,
		http: &http.Client{
			Transport: tr,
			Timeout:   o.Timeout,
		},
		verbose: o.Verbose,
	}, nil
}

func (c *Client) buildURL(path string, q url.Values) string {
	u := *c.base
	u.Path = strings.TrimRight(c.base.Path, "/") + path
	if q == nil {
		q = url.Values{}
	}
	q.Set("X-Plex-Token", c.token)
	u.RawQuery = q.Encode()
	return u.String()
}

func (c *Client) do(ctx context.Context, method, rawURL string) (*http.Response, error) {
	if c.verbose {
		fmt.Fprintln(os.Stderr, method, rawURL)
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/xml")
	req.Header.Set("X-Plex-Product", "plexdedupe")
	req.Header.Set("X-Plex-Version", "1.0")
	req.Header.Set("X-Plex-Client-Identifier", "plexdedupe-"+shortHost())
	return c.http.Do(req)
}

func (c *Client) getXML(ctx context.Context, rawURL string) (*mediaContainer, error) {
	resp, err := c.do(ctx, http.MethodGet, rawURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 8<<10))
		return nil, fmt.Errorf("plex http %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
	var mc mediaContainer
	if err := xml.NewDecoder(resp.Body).Decode(&mc); err != nil {
		return nil, fmt.Errorf("decode xml: %w", err)
	}
	return &mc, nil
}

func shortHost() string {
	h, _ := os.Hostname()
	if len(h) > 20 {
		return h[:20]
	}
	return h
}

// Sections lists movie sections, plus show sections when includeShows is set.
func (c *Client) Sections(ctx context.Context, includeShows bool) ([]Directory, error) {
	u := c.buildURL("/library/sections", nil)
	mc, err := c.getXML(ctx, u)
	if err != nil {
		return nil, err
	}
	var out []Directory
	for _, d := range mc.Directory {
		if d.Type == "movie" || (includeShows && d.Type == "show") {
			out = append(out, d)
		}
	}
	return out, nil
}

// DuplicateMovies returns movie items in the section that carry more than one
// media version.
func (c *Client) DuplicateMovies(ctx context.Context, sectionKey string) ([]Video, error) {
	q := url.Values{}
	q.Set("duplicate", "1")
	u := c.buildURL("/library/sections/"+sectionKey+"/all", q)
	return c.duplicateVideos(ctx, u)
}

// DuplicateEpisodes returns episode items in the section that carry more than
// one media version. type=4 selects episodes across all shows in the section.
func (c *Client) DuplicateEpisodes(ctx context.Context, sectionKey string) ([]Video, error) {
	q := url.Values{}
	q.Set("duplicate", "1")
	q.Set("type", "4")
	u := c.buildURL("/library/sections/"+sectionKey+"/all", q)
	return c.duplicateVideos(ctx, u)
}

func (c *Client) duplicateVideos(ctx context.Context, rawURL string) ([]Video, error) {
	mc, err := c.getXML(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	var vids []Video
	for _, v := range mc.Video {
		if len(v.Media) > 1 {
			vids = append(vids, v)
		}
	}
	return vids, nil
}

// DeleteMedia retracts one media version from the item identified by
// ratingKey. A 403 means the server has media deletion disabled.
func (c *Client) DeleteMedia(ctx context.Context, ratingKey, mediaID string) error {
	u := c.buildURL("/library/metadata/"+ratingKey+"/media/"+mediaID, nil)
	resp, err := c.do(ctx, http.MethodDelete, u)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusForbidden {
		_, _ = io.Copy(io.Discard, resp.Body)
		return ErrDeletionNotAllowed
	}
	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 8<<10))
		return fmt.Errorf("plex http %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
