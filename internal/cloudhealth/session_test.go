package cloudhealth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

func decodeRequest(t *testing.T, r *http.Request) graphQLRequest {
	t.Helper()
	var req graphQLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		t.Fatalf("decode request: %v", err)
	}
	return req
}

// loginHandler answers the login mutation and delegates everything else.
func loginHandler(t *testing.T, token string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := decodeRequest(t, r)
		if strings.Contains(req.Query, "loginAPI") {
			json.NewEncoder(w).Encode(map[string]any{
				"data": map[string]any{
					"loginAPI": map[string]any{"accessToken": token},
				},
			})
			return
		}
		if next == nil {
			t.Fatalf("unexpected operation: %s", req.Query)
		}
		next(w, r)
	}
}

func TestLogin_Success(t *testing.T) {
	srv := httptest.NewServer(loginHandler(t, "tok-123", nil))
	defer srv.Close()

	s, err := Login(context.Background(), srv.URL, "key")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if s.token != "tok-123" {
		t.Errorf("token = %q, want tok-123", s.token)
	}
}

func TestLogin_InvalidKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := Login(context.Background(), srv.URL, "bad-key")
	if !errors.Is(err, ErrAuth) {
		t.Fatalf("err = %v, want ErrAuth", err)
	}
}

func TestLogin_EmptyToken(t *testing.T) {
	srv := httptest.NewServer(loginHandler(t, "", nil))
	defer srv.Close()

	_, err := Login(context.Background(), srv.URL, "key")
	if !errors.Is(err, ErrAuth) {
		t.Fatalf("err = %v, want ErrAuth", err)
	}
}

func TestLogin_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := Login(context.Background(), srv.URL, "key")
	if !errors.Is(err, ErrTransport) {
		t.Fatalf("err = %v, want ErrTransport", err)
	}
}

func TestLogin_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // reject all connections

	_, err := Login(context.Background(), srv.URL, "key")
	if !errors.Is(err, ErrTransport) {
		t.Fatalf("err = %v, want ErrTransport", err)
	}
}

func TestExecute_GraphQLErrorPayload(t *testing.T) {
	srv := httptest.NewServer(loginHandler(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"errors": []map[string]any{{"message": "report not found"}},
		})
	}))
	defer srv.Close()

	s, err := Login(context.Background(), srv.URL, "key")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	_, err = s.ListDatasets(context.Background())
	if !errors.Is(err, ErrAPI) {
		t.Fatalf("err = %v, want ErrAPI", err)
	}
	if !strings.Contains(err.Error(), "report not found") {
		t.Errorf("error message %q does not carry the server reason", err)
	}
}

func TestExecute_Timeout(t *testing.T) {
	srv := httptest.NewServer(loginHandler(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{"data":{}}`))
	}))
	defer srv.Close()

	s, err := Login(context.Background(), srv.URL, "key", WithTimeout(50*time.Millisecond))
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	_, err = s.ListDatasets(context.Background())
	if !errors.Is(err, ErrTransport) {
		t.Fatalf("err = %v, want ErrTransport", err)
	}
}

func TestExecute_SendsBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(loginHandler(t, "tok-9", func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"data":{"dataSources":[]}}`))
	}))
	defer srv.Close()

	s, err := Login(context.Background(), srv.URL, "key")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if _, err := s.ListDatasets(context.Background()); err != nil {
		t.Fatalf("ListDatasets returned error: %v", err)
	}
	if gotAuth != "Bearer tok-9" {
		t.Errorf("Authorization = %q, want Bearer tok-9", gotAuth)
	}
}
