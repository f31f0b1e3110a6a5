package quantalys

import (
	"context"
	"errors"
	"fmt"
	"net/http/cookiejar"
	"net/url"
	"time"

	"fundagg-backend/lib/restyutil"
	"fundagg-backend/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
)

const DefaultBaseUrl = "https://www.quantalys.com"

var ErrUnexpectedStatus = errors.New("unexpected response status")

// Client is one browsing session against the site: its own connection
// pool and cookie jar. sessions are not meant to be shared.
type Client struct {
	BaseUrl *url.URL
	http    *resty.Client
}

type ClientOptions struct {
	BaseUrl   string
	UserAgent string
	// zero means no timeout
	Timeout          time.Duration
	CloudflareBypass bool
	// when set, request/response pairs are dumped here while debug
	// logging is enabled
	DumpOutput restyutil.InstrumentOutput
	DumpPrefix string
}

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"

func NewClient(ctx context.Context, opts ClientOptions) (*Client, error) {
	if opts.BaseUrl == "" {
		opts.BaseUrl = DefaultBaseUrl
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}
	baseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, err
	}

	client := resty.New()
	client.SetBaseURL(opts.BaseUrl)
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	if opts.CloudflareBypass {
		client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	}

	client.SetHeader("user-agent", opts.UserAgent)
	client.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(baseUrl.Hostname()))
	client.SetTimeout(opts.Timeout)
	client.SetRetryCount(0)

	telemetry.InstrumentResty(client, "fundagg.lib.scrapers.quantalys/http")
	restyutil.InstrumentClient(client, opts.DumpPrefix, opts.DumpOutput)

	return &Client{
		BaseUrl: baseUrl,
		http:    client,
	}, nil
}

// Close releases the idle connections held by this session.
func (c *Client) Close() error {
	c.http.GetClient().CloseIdleConnections()
	return nil
}

func checkResponse(res *resty.Response) error {
	if res.IsError() {
		return fmt.Errorf("%w: %s %s", ErrUnexpectedStatus, res.Status(), res.Request.URL)
	}
	return nil
}
