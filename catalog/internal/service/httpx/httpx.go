package httpx

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/Astemirdum/livraria/catalog/internal/errs"
	"github.com/Astemirdum/livraria/catalog/internal/model"
	"github.com/Astemirdum/livraria/pkg/circuit_breaker"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Client is the plumbing shared by the catalog API services.
type Client struct {
	log     *zap.Logger
	client  *http.Client
	baseURL string
	cb      circuit_breaker.CircuitBreaker
}

func New(log *zap.Logger, client *http.Client, baseURL string, cb circuit_breaker.CircuitBreaker) *Client {
	return &Client{
		log:     log,
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		cb:      cb,
	}
}

func (c *Client) CB() circuit_breaker.CircuitBreaker {
	return c.cb
}

func (c *Client) URL(path string) string {
	return c.baseURL + path
}

// Do sends in as JSON (when non-nil), decodes a successful body into out
// (when non-nil) and returns the HTTP status. expect lists the accepted
// statuses; empty means any 2xx. Any other status yields *errs.APIError.
func (c *Client) Do(ctx context.Context, method, url string, in, out any, expect ...int) (int, error) {
	var (
		status int
		opErr  error
	)
	err := c.cb.Call(func() error {
		status, opErr = c.do(ctx, method, url, in, out, expect)
		// only transport failures count against the breaker
		if errors.Is(opErr, errs.ErrTransport) {
			return opErr
		}
		return nil
	})
	if errors.Is(err, circuit_breaker.ErrOpenCB) {
		return http.StatusServiceUnavailable, errs.Transport(err, method+" "+url)
	}
	return status, opErr
}

func (c *Client) do(ctx context.Context, method, url string, in, out any, expect []int) (int, error) {
	op := method + " " + url

	body := io.Reader(http.NoBody)
	if in != nil {
		b := bytes.NewBuffer(nil)
		if err := json.NewEncoder(b).Encode(in); err != nil {
			return http.StatusBadRequest, errors.Wrap(err, "encode request")
		}
		body = b
	}
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return http.StatusBadRequest, errors.Wrap(err, "new request")
	}
	if in != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSONCharsetUTF8)
	}
	req.Header.Set(echo.HeaderAccept, echo.MIMEApplicationJSON)
	reqID := uuid.NewString()
	req.Header.Set(echo.HeaderXRequestID, reqID)

	resp, err := c.client.Do(req)
	if err != nil {
		return http.StatusServiceUnavailable, errs.Transport(err, op)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, errs.Transport(err, op)
	}
	c.log.Debug("api call",
		zap.String("op", op),
		zap.Int("status", resp.StatusCode),
		zap.String("request_id", reqID))

	if !accepted(resp.StatusCode, expect) {
		apiErr := &errs.APIError{Status: resp.StatusCode}
		var er model.ErrorResponse
		if json.Unmarshal(data, &er) == nil {
			apiErr.Message = er.Message
		}
		return resp.StatusCode, apiErr
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return resp.StatusCode, errs.Transport(err, op)
		}
	}
	return resp.StatusCode, nil
}

func accepted(status int, expect []int) bool {
	if len(expect) == 0 {
		return status >= 200 && status < 300
	}
	for _, s := range expect {
		if s == status {
			return true
		}
	}
	return false
}
