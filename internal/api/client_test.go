// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/login", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		assert.Empty(t, r.Header.Get("Authorization"), "login must not carry a bearer token")

		var req LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "alice", req.Username)

		json.NewEncoder(w).Encode(LoginResponse{UserID: "u1", AccessToken: "tok"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	resp, err := client.Login(context.Background(), "alice", "secret")
	require.NoError(t, err)
	assert.Equal(t, "u1", resp.UserID)
	assert.Equal(t, "tok", resp.AccessToken)
}

func TestLoginRejectedSurfacesServerDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"Invalid username or password"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.Login(context.Background(), "alice", "wrong")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAuthFailed)
	assert.Equal(t, "Invalid username or password", UserMessage(err, "fallback"))
}

func TestAuthedCallsFailFastWithoutToken(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.ListHistories(context.Background())
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	assert.False(t, called, "no request should leave the client without a token")
}

func TestListHistoriesSendsBearerToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "/chat/histories", r.URL.Path)
		w.Write([]byte(`[{"id":"c1","title":"sales","created_at":"2026-08-27T10:00:00Z"}]`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL).WithToken("tok")
	summaries, err := client.ListHistories(context.Background())
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, "c1", summaries[0].ID)
	assert.Equal(t, "sales", summaries[0].Title)
}

func TestGetHistoryDecodesRecords(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/history/c1", r.URL.Path)
		w.Write([]byte(`{
			"chat_id": "c1",
			"chat_title": "sales",
			"messages": [{
				"id": "rec1",
				"user": "totals?",
				"agent": {"response": "Here.", "data": {"result": [{"region": "west", "total": 12}]}},
				"timestamp": "2026-08-27T10:00:00Z",
				"feedback": "positive"
			}]
		}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL).WithToken("tok")
	history, err := client.GetHistory(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, "c1", history.ChatID)
	require.Len(t, history.Messages, 1)
	rec := history.Messages[0]
	assert.Equal(t, "rec1", rec.ID)
	assert.Equal(t, "totals?", rec.User)
	assert.Equal(t, "Here.", rec.Agent.Response)
	assert.Equal(t, "positive", rec.Feedback)
	require.Len(t, rec.Agent.Data.Result, 1)
	assert.Equal(t, "west", rec.Agent.Data.Result[0]["region"])
}

func TestSendQueryNullsChatIDForNewConversation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]json.RawMessage
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.JSONEq(t, "null", string(body["chat_id"]))
		w.Write([]byte(`{"chat_id":"c-new"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL).WithToken("tok")
	resp, err := client.SendQuery(context.Background(), "first question", "")
	require.NoError(t, err)
	assert.Equal(t, "c-new", resp.ChatID)
}

func TestSendQueryCarriesExistingChatID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req QueryRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.NotNil(t, req.ChatID)
		assert.Equal(t, "c1", *req.ChatID)
		w.Write([]byte(`{"chat_id":"c1"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL).WithToken("tok")
	resp, err := client.SendQuery(context.Background(), "follow up", "c1")
	require.NoError(t, err)
	assert.Equal(t, "c1", resp.ChatID)
}

func TestDeleteHistoryAcceptsEmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/chat/history/c1", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := NewClient(srv.URL).WithToken("tok")
	assert.NoError(t, client.DeleteHistory(context.Background(), "c1"))
}

func TestSendFeedbackPostsRating(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req FeedbackRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "rec1", req.MessageID)
		assert.Equal(t, "negative", req.Feedback)
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL).WithToken("tok")
	assert.NoError(t, client.SendFeedback(context.Background(), "rec1", "negative"))
}

func TestServerErrorBecomesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"detail":"query engine unavailable"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL).WithToken("tok")
	_, err := client.SendQuery(context.Background(), "q", "c1")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.Equal(t, "query engine unavailable", apiErr.Message)
	assert.Equal(t, "query engine unavailable", UserMessage(err, "fallback"))
}

func TestUserMessageFallsBackForTransportErrors(t *testing.T) {
	client := NewClient("http://127.0.0.1:1").WithToken("tok")
	_, err := client.ListHistories(context.Background())
	require.Error(t, err)
	assert.Equal(t, "fallback", UserMessage(err, "fallback"))
}

func TestContextCancellationAbandonsRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	client := NewClient(srv.URL).WithToken("tok")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := client.ListHistories(ctx)
	assert.Error(t, err)
}
