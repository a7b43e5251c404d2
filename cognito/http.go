package cognito

import (
	"context"
	"fmt"
	"time"

	"github.com/valyala/fasthttp"
)

// HTTPClient là client fasthttp dùng chung cho mọi lời gọi tới Cognito.
type HTTPClient struct {
	client  *fasthttp.Client
	timeout time.Duration
}

func NewHTTPClient(timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPClient{
		client: &fasthttp.Client{
			Name:         "go-todo",
			ReadTimeout:  timeout,
			WriteTimeout: timeout,
		},
		timeout: timeout,
	}
}

type request struct {
	method  string
	url     string
	headers map[string]string
	body    []byte
}

type response struct {
	status int
	body   []byte
}

func (h *HTTPClient) do(ctx context.Context, r request) (*response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	deadline := time.Now().Add(h.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(r.url)
	req.Header.SetMethod(r.method)
	for k, v := range r.headers {
		req.Header.Set(k, v)
	}
	if r.body != nil {
		req.SetBody(r.body)
	}

	if err := h.client.DoDeadline(req, resp, deadline); err != nil {
		return nil, fmt.Errorf("%s %s: %w", r.method, r.url, err)
	}

	return &response{
		status: resp.StatusCode(),
		body:   append([]byte(nil), resp.Body()...),
	}, nil
}

func (r *response) ok() bool {
	return r.status >= 200 && r.status < 300
}

// snippet cắt body lỗi cho gọn khi đưa vào log.
func (r *response) snippet() string {
	const max = 256
	if len(r.body) > max {
		return string(r.body[:max]) + "..."
	}
	return string(r.body)
}
