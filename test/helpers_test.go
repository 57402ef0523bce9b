//go:build integration_test || all_tests

package test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/stretchr/testify/require"
)

type apiResponse struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

func (r apiResponse) decode(out any) error {
	return json.Unmarshal(r.Body, out)
}

func (s *IntegrationTestSuite) do(ctx context.Context, client *http.Client, method, path string, body any) apiResponse {
	t := s.T()

	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, serverEndpoint+path, reqBody)
	require.NoError(t, err)
	req.Header.Set("User-Agent", "test-agent")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return apiResponse{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       respBody,
	}
}

// adminClient returns a client whose cookie jar holds a fresh admin session.
func (s *IntegrationTestSuite) adminClient(ctx context.Context) *http.Client {
	client := s.newHttpClient()
	resp := s.do(ctx, client, http.MethodPost, "/api/admin/auth/login", map[string]string{
		"email":    testAdminEmail,
		"password": testAdminPassword,
	})
	require.Equal(s.T(), http.StatusOK, resp.StatusCode, string(resp.Body))
	return client
}
