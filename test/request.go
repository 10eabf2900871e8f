package test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/foyers/ledger/internal/config"
	"github.com/foyers/ledger/internal/router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Request runs a request against a router built from the configuration in
// the environment and returns the recorded response. Strings and byte
// buffers are sent as they are, every other body is encoded as JSON.
func Request(t *testing.T, method, reqURL string, body any, headers ...map[string]string) httptest.ResponseRecorder {
	cfg, err := config.Load("")
	require.Nil(t, err, "Configuration could not be loaded")
	require.NotEmpty(t, cfg.APIURL, "environment variable API_URL must be set")

	r, teardown, err := router.Config(cfg)
	require.Nil(t, err, "Router could not be initialized")
	defer teardown()

	router.AttachRoutes(r.Group("/"), cfg)

	req, err := http.NewRequest(method, reqURL, requestBody(t, body))
	require.Nil(t, err, "Request could not be created")

	for _, headerMap := range headers {
		for header, value := range headerMap {
			req.Header.Set(header, value)
		}
	}

	recorder := httptest.NewRecorder()
	r.ServeHTTP(recorder, req)

	return *recorder
}

func requestBody(t *testing.T, body any) io.Reader {
	switch b := body.(type) {
	case nil:
		return http.NoBody
	case string:
		return strings.NewReader(b)
	case *bytes.Buffer:
		return b
	}

	encoded, err := json.Marshal(body)
	require.Nil(t, err, "Request body could not be encoded")
	return bytes.NewReader(encoded)
}

// DecodeResponse decodes an HTTP response into a target struct.
func DecodeResponse(t *testing.T, r *httptest.ResponseRecorder, target any) {
	err := json.Unmarshal(r.Body.Bytes(), &target)
	if err != nil {
		assert.FailNow(t, "Parsing error", "Unable to parse response from server %q into %v, '%v', Request ID: %s", r.Body, reflect.TypeOf(target), err, r.Result().Header.Get("x-request-id"))
	}
}

// AssertHTTPStatus verifies that the HTTP response status is correct
func AssertHTTPStatus(t *testing.T, r *httptest.ResponseRecorder, expectedStatus ...int) {
	require.Contains(t, expectedStatus, r.Code, "HTTP status is wrong. Request ID: '%s' Response body: %s", r.Result().Header.Get("x-request-id"), r.Body.String())
}
