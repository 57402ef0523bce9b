//go:build integration_test || all_tests

package test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) TestLogin() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cases := map[string]struct {
		email              string
		password           string
		expectedStatusCode int
		expectedBody       string
	}{
		"good creds": {
			email:              testAdminEmail,
			password:           testAdminPassword,
			expectedStatusCode: http.StatusOK,
			expectedBody:       `{"message":"Login successful"}`,
		},
		"bad password": {
			email:              testAdminEmail,
			password:           "bad-password",
			expectedStatusCode: http.StatusUnauthorized,
			expectedBody:       `{"error":"Invalid credentials"}`,
		},
		"unknown email": {
			email:              "nobody@example.com",
			password:           testAdminPassword,
			expectedStatusCode: http.StatusUnauthorized,
			expectedBody:       `{"error":"Invalid credentials"}`,
		},
		"missing password": {
			email:              testAdminEmail,
			expectedStatusCode: http.StatusBadRequest,
			expectedBody:       `{"error":"Email and password are required"}`,
		},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			client := s.newHttpClient()
			resp := s.do(ctx, client, http.MethodPost, "/api/admin/auth/login", map[string]string{
				"email":    tc.email,
				"password": tc.password,
			})
			require.Equal(t, tc.expectedStatusCode, resp.StatusCode)
			assert.JSONEq(t, tc.expectedBody, string(resp.Body))
		})
	}
}

func (s *IntegrationTestSuite) TestSessionLifecycle() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := s.adminClient(ctx)

	resp := s.do(ctx, client, http.MethodGet, "/api/admin/auth/verify", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var verifyResp struct {
		Authenticated bool `json:"authenticated"`
		User          struct {
			UserID int    `json:"userId"`
			Email  string `json:"email"`
		} `json:"user"`
	}
	require.NoError(t, resp.decode(&verifyResp))
	assert.True(t, verifyResp.Authenticated)
	assert.Equal(t, testAdminEmail, verifyResp.User.Email)
	assert.Positive(t, verifyResp.User.UserID)

	resp = s.do(ctx, client, http.MethodPost, "/api/admin/auth/logout", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = s.do(ctx, client, http.MethodGet, "/api/admin/auth/verify", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
