package client

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"time"
)

type HttpError struct {
	StatusCode int
	Body       []byte
	Url        string
}

func (e *HttpError) Error() string {
	return fmt.Sprintf("Request [%s] failed with error code: %d", e.Url, e.StatusCode)
}

type HttpClientInterface interface {
	Request(method string, url string, message []byte, headers map[string]string) ([]byte, error)
}

type HttpClient struct {
}

func (h *HttpClient) Request(method string, url string, message []byte, headers map[string]string) ([]byte, error) {
	var body io.Reader
	if message != nil {
		body = bytes.NewReader(message)
	}

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	for name, value := range headers {
		req.Header.Set(name, value)
	}

	client := &http.Client{
		Timeout: 20 * time.Second,
	}

	res, err := client.Do(req)

	if err != nil {
		return nil, err
	}

	responseBody, err := io.ReadAll(res.Body)
	defer res.Body.Close()

	if err != nil {
		return nil, err
	}

	if res.StatusCode >= 400 {
		return nil, &HttpError{
			StatusCode: res.StatusCode,
			Body:       responseBody,
			Url:        url,
		}
	}

	return responseBody, nil
}
