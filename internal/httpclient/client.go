package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"premiere/internal/apperr"
	"premiere/internal/util"

	"github.com/go-resty/resty/v2"
)

var NilLogger = log.New(io.Discard, "", 0)

const (
	HeaderContentType = "Content-Type"
	ContentTypeJSON   = "application/json"
)

// Response is what came back from a request that reached the server.
// Non-2xx statuses are not errors; callers inspect Status.
type Response struct {
	Status int
	Body   []byte
}

func (r Response) IsEmpty() bool {
	return len(strings.TrimSpace(string(r.Body))) == 0
}

type Client struct {
	resty  *resty.Client
	logger *log.Logger
}

// New builds a client whose every request is bounded by timeout.
func New(timeout time.Duration, appLogger *log.Logger) *Client {
	if appLogger == nil {
		appLogger = log.Default()
	}
	c := &Client{logger: appLogger}
	c.resty = resty.New().
		SetTimeout(timeout).
		SetRetryCount(0).
		OnError(func(req *resty.Request, err error) {
			c.logger.Printf("  %s Request Error. URL: %s, Method: %s | Error: %v",
				util.RedBold("[HTTP ERR]"), redactQuery(req.URL), req.Method, err)
		})
	return c
}

func (c *Client) SetLogger(logger *log.Logger) {
	if logger == nil {
		c.logger = NilLogger
	} else {
		c.logger = logger
	}
}

// Request issues method against url. A body is sent as JSON when headers
// declare a JSON content type, and form-encoded otherwise. Failures to reach
// the server wrap apperr.ErrTransport; an unencodable body wraps
// apperr.ErrEncode.
func (c *Client) Request(ctx context.Context, method, url string, body any, headers map[string]string) (Response, error) {
	req := c.resty.R().SetContext(ctx).SetHeaders(headers)

	if body != nil {
		if isJSON(headers) {
			payload, err := json.Marshal(body)
			if err != nil {
				return Response{}, fmt.Errorf("%w: %s %s: %w", apperr.ErrEncode, method, redactQuery(url), err)
			}
			req.SetBody(payload)
		} else {
			form, err := formValues(body)
			if err != nil {
				return Response{}, fmt.Errorf("%w: %s %s: %w", apperr.ErrEncode, method, redactQuery(url), err)
			}
			req.SetFormData(form)
		}
	}

	resp, err := req.Execute(method, url)
	if err != nil {
		return Response{}, fmt.Errorf("%w: %s %s: %w", apperr.ErrTransport, method, redactQuery(url), err)
	}
	return Response{Status: resp.StatusCode(), Body: resp.Body()}, nil
}

func (c *Client) Get(ctx context.Context, url string, headers map[string]string) (Response, error) {
	return c.Request(ctx, resty.MethodGet, url, nil, headers)
}

func (c *Client) Post(ctx context.Context, url string, body any, headers map[string]string) (Response, error) {
	return c.Request(ctx, resty.MethodPost, url, body, headers)
}

func isJSON(headers map[string]string) bool {
	for k, v := range headers {
		if strings.EqualFold(k, HeaderContentType) {
			return strings.HasPrefix(strings.ToLower(strings.TrimSpace(v)), ContentTypeJSON)
		}
	}
	return false
}

func formValues(body any) (map[string]string, error) {
	switch v := body.(type) {
	case map[string]string:
		return v, nil
	case map[string]any:
		form := make(map[string]string, len(v))
		for k, val := range v {
			form[k] = fmt.Sprint(val)
		}
		return form, nil
	default:
		return nil, fmt.Errorf("form body must be a map, got %T", body)
	}
}

// redactQuery drops the query string so api keys stay out of logs.
func redactQuery(url string) string {
	if i := strings.IndexByte(url, '?'); i >= 0 {
		return url[:i] + "?..."
	}
	return url
}
