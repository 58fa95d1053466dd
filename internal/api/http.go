package api

import (
	"context"
	"net"
	"time"

	"github.com/MirrorChyan/fetch-paper/internal/config"
	"github.com/segmentio/ksuid"
	"github.com/valyala/fasthttp"
)

const HeaderRequestID = "X-Request-Id"

// StreamThreshold is the largest body read into memory by Do. Bigger bodies,
// and chunked ones that outgrow it, are handed over as a stream with only
// this much buffered.
const StreamThreshold = 64 * 1024

// NewHTTPClient builds the fasthttp client shared by the resolution chain and
// the artifact fetcher. JSON documents are drained through Body(); artifacts
// are read chunk by chunk from BodyStream().
func NewHTTPClient(conf *config.Config) *fasthttp.Client {
	var (
		timeout = conf.API.DialTimeout
	)
	return &fasthttp.Client{
		Name:                conf.API.UserAgent,
		StreamResponseBody:  true,
		MaxResponseBodySize: StreamThreshold,
		Dial: func(addr string) (net.Conn, error) {
			if timeout <= 0 {
				return fasthttp.Dial(addr)
			}
			return fasthttp.DialTimeout(addr, timeout)
		},
	}
}

// Requester issues GET requests with the configured redirect limit. A
// deadline on ctx becomes the request timeout of every hop.
type Requester struct {
	client       *fasthttp.Client
	maxRedirects int
}

func NewRequester(client *fasthttp.Client, conf *config.Config) *Requester {
	return &Requester{
		client:       client,
		maxRedirects: conf.API.MaxRedirects,
	}
}

// Prepare fills a GET request for uri and returns its request id.
func (r *Requester) Prepare(req *fasthttp.Request, uri string) string {
	id := ksuid.New().String()
	req.SetRequestURI(uri)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set(HeaderRequestID, id)
	return id
}

func (r *Requester) Do(ctx context.Context, req *fasthttp.Request, resp *fasthttp.Response) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if deadline, ok := ctx.Deadline(); ok {
		timeout := time.Until(deadline)
		if timeout <= 0 {
			return context.DeadlineExceeded
		}
		req.SetTimeout(timeout)
	}
	if r.maxRedirects > 0 {
		return r.client.DoRedirects(req, resp, r.maxRedirects)
	}
	return r.client.Do(req, resp)
}
