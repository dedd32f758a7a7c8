package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/cenkalti/backoff"
)

// maxRetries bounds the attempts made against an unavailable node.
const maxRetries = 5

// client talks to the public api of a node. Reads are retried with an
// exponential backoff on connection failures and server errors. Writes are
// only retried when the node could not be dialed.
type client struct {
	url     string
	http    *http.Client
	backoff func() backoff.BackOff
}

func newClient(url string) *client {
	return &client{
		url:  url,
		http: &http.Client{Timeout: 2 * time.Minute},
		backoff: func() backoff.BackOff {
			return backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxRetries)
		},
	}
}

// apiError is the error document returned by the node.
type apiError struct {
	Status int               `json:"-"`
	Err    string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func (ae *apiError) Error() string {
	if len(ae.Fields) == 0 {
		return fmt.Sprintf("node responded %d: %s", ae.Status, ae.Err)
	}
	return fmt.Sprintf("node responded %d: %s: %v", ae.Status, ae.Err, ae.Fields)
}

func (c *client) get(path string, out any) error {
	return c.do(http.MethodGet, path, nil, out)
}

func (c *client) post(path string, body any, out any) error {
	return c.do(http.MethodPost, path, body, out)
}

func (c *client) do(method string, path string, body any, out any) error {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
	}

	// A client error is final so it is captured here and the operation
	// reports success to stop the retries.
	var final error

	operation := func() error {
		req, err := http.NewRequest(method, c.url+path, bytes.NewReader(payload))
		if err != nil {
			final = err
			return nil
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			if method == http.MethodGet || isDialError(err) {
				return err
			}
			final = err
			return nil
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}

		if resp.StatusCode >= http.StatusBadRequest {
			ae := apiError{Status: resp.StatusCode}
			if err := json.Unmarshal(data, &ae); err != nil {
				ae.Err = http.StatusText(resp.StatusCode)
			}

			if resp.StatusCode >= http.StatusInternalServerError && method == http.MethodGet {
				return &ae
			}

			final = &ae
			return nil
		}

		if out != nil {
			if err := json.Unmarshal(data, out); err != nil {
				final = fmt.Errorf("decoding response: %w", err)
			}
		}

		return nil
	}

	if err := backoff.Retry(operation, c.backoff()); err != nil {
		return err
	}

	return final
}

// isDialError reports whether the request failed before reaching the node.
func isDialError(err error) bool {
	var opErr *net.OpError
	return errors.As(err, &opErr) && opErr.Op == "dial"
}
