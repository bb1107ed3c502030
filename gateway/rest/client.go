package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/zlnvch/reviewclient/gateway"
	"github.com/zlnvch/reviewclient/models"
	"golang.org/x/time/rate"
)

const (
	defaultTimeout  = 15 * time.Second
	maxResponseSize = 4 << 20
)

// Client talks JSON over HTTP to the review platform API. Authentication is
// the caller's concern: pass an *http.Client that already attaches it (see
// auth.NewHTTPClient).
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient builds a client for baseURL. A nil httpClient gets a plain
// client with a default timeout; a nil limiter disables throttling.
func NewClient(baseURL string, httpClient *http.Client, limiter *rate.Limiter) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		limiter:    limiter,
	}
}

type listResponse[T models.Entity] struct {
	Items []T              `json:"items"`
	Meta  *models.PageMeta `json:"meta"`
}

func (r listResponse[T]) result() gateway.FetchResult[T] {
	items := r.Items
	if items == nil {
		items = []T{}
	}
	return gateway.FetchResult[T]{Items: items, Meta: r.Meta}
}

func pageQuery(page models.PageRequest) url.Values {
	page = page.Normalize()
	q := url.Values{}
	q.Set("page", strconv.Itoa(page.Page))
	q.Set("size", strconv.Itoa(page.Size))
	return q
}

func id(v int64) string {
	return strconv.FormatInt(v, 10)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return gateway.TransportError(err)
		}
	}

	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return &gateway.Error{Kind: gateway.KindInvalidInput, Message: err.Error(), Err: err}
		}
		reqBody = bytes.NewReader(b)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return gateway.TransportError(err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if reqId, err := uuid.NewV7(); err == nil {
		req.Header.Set("X-Request-Id", reqId.String())
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return gateway.TransportError(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return gateway.TransportError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return gateway.RejectedError(resp.StatusCode, respBody)
	}

	if out == nil {
		return nil
	}
	if len(bytes.TrimSpace(respBody)) == 0 {
		return gateway.DecodeError(fmt.Errorf("empty body for %s %s", method, path))
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return gateway.DecodeError(err)
	}
	return nil
}
