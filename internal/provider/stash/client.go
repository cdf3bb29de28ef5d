package stash

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/oauth2"

	"github.com/johanforsgren/stashreview/internal/domain"
	"github.com/johanforsgren/stashreview/internal/provider/common"
)

const (
	apiPrefix       = "/rest/api/1.0"
	userAgentPrefix = "stashreview/"
)

// Client talks to the Bitbucket Server REST API. It holds immutable
// configuration only and is safe for concurrent use.
type Client struct {
	baseURL     string
	credentials domain.Credentials
	userAgent   string
	httpClient  *http.Client
}

var _ domain.ReviewClient = (*Client)(nil)

func NewClient(cfg Config) (*Client, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var transport http.RoundTripper = common.NewLoggingTransport(cfg.Transport)
	if tok, ok := cfg.Credentials.(domain.TokenAuth); ok {
		transport = &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: tok.Token}),
			Base:   transport,
		}
	}

	return &Client{
		baseURL:     cfg.BaseURL,
		credentials: cfg.Credentials,
		userAgent:   userAgentPrefix + cfg.ClientVersion,
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
		},
	}, nil
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) Login() string {
	return domain.LoginOf(c.credentials)
}

type rawResponse struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

func (r *rawResponse) contentType() string {
	return r.Header.Get("Content-Type")
}

// execute performs one HTTP exchange. Redirects are followed by the
// underlying http.Client; non-2xx statuses are returned, not raised.
func (c *Client) execute(ctx context.Context, method, path string, query url.Values, body interface{}) (*rawResponse, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, &common.ClientError{Kind: common.KindRequest, Err: err}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, &common.ClientError{Kind: common.KindRequest, Err: err}
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if basic, ok := c.credentials.(domain.BasicAuth); ok {
		req.SetBasicAuth(basic.Login, basic.Password)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, newTransportError(method, target, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, newTransportError(method, target, err)
	}

	return &rawResponse{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       data,
	}, nil
}

func newTransportError(method, target string, err error) *common.TransportError {
	kind := common.TransportConnection
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		kind = common.TransportTimeout
	}
	return &common.TransportError{Kind: kind, Method: method, URL: target, Err: err}
}

// call runs execute and decode for one façade operation, folding transport
// failures into a ClientError.
func (c *Client) call(ctx context.Context, op, method, path string, query url.Values, body interface{}, expected []int, out interface{}) error {
	resp, err := c.execute(ctx, method, path, query, body)
	if err != nil {
		var te *common.TransportError
		if errors.As(err, &te) {
			return &common.ClientError{Kind: common.KindTransport, Operation: op, Err: te}
		}
		var ce *common.ClientError
		if errors.As(err, &ce) && ce.Operation == "" {
			ce.Operation = op
		}
		return err
	}
	return decode(op, resp, expected, out)
}

func apiPath(segments ...string) string {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	return apiPrefix + "/" + strings.Join(escaped, "/")
}
