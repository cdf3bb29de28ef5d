package stash

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/johanforsgren/stashreview/internal/domain"
)

const (
	testTimeout  = 300 * time.Millisecond
	errorTimeout = testTimeout + 500*time.Millisecond

	sonarAuthor = `"author": {"id":1, "name":"SonarQube", "slug":"sonarqube", "email":"sq@email.com"}`

	errorBody = `{
    "errors": [
        {
            "context": null,
            "message": "A detailed error message.",
            "exceptionName": "seriousException"
        }
    ]
}`

	jsonUser = `{"name":"SonarQube", "email":"sq@email.com", "id":1, "slug":"sonarqube"}`

	baseDiffReport = `{
  "diffs": [
    {
      "source": {"toString": "stash-plugin/Test.java"},
      "destination": {"toString": "stash-plugin/Test.java"},
      "hunks": [
        {
          "segments": [
            {"type": "CONTEXT", "lines": [{"source": 10, "destination": 10, "line": "a", "commentIds": [12345]}]},
            {"type": "REMOVED", "lines": [{"source": 11, "destination": 11, "line": "b"}]},
            {"type": "ADDED", "lines": [{"source": 11, "destination": 11, "line": "c", "commentIds": [54321]}]},
            {"type": "CONTEXT", "lines": [{"source": 12, "destination": 12, "line": "d"}]}
          ]
        }
      ],
      "lineComments": [
        {"id": 12345, "version": 0, "text": "Comment 1", ` + sonarAuthor + `,
         "tasks": [{"id": 1, "text": "fix it", "state": "OPEN", "permittedOperations": {"deletable": true}}]},
        {"id": 54321, "version": 1, "text": "Comment 2", ` + sonarAuthor + `}
      ]
    }
  ]
}`

	diffReportWithMalformedTasks = `{
  "diffs": [
    {
      "source": {"toString": "stash-plugin/Test.java"},
      "destination": {"toString": "stash-plugin/Test.java"},
      "hunks": [
        {"segments": [{"type": "CONTEXT", "lines": [{"source": 10, "destination": 10, "line": "a", "commentIds": [12345]}]}]}
      ],
      "lineComments": [
        {"id": 12345, "version": 0, "text": "Comment 1", ` + sonarAuthor + `,
         "tasks": [{"text": "task without id or state"}]}
      ]
    }
  ]
}`
)

var (
	testRef  = domain.PullRequestRef{Project: "Project", Repository: "Repository", PullRequestID: 1}
	testUser = domain.User{ID: 1, Name: "userName", Slug: "userSlug", Email: "email"}
)

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func writeError(w http.ResponseWriter, status int) {
	writeJSON(w, status, errorBody)
}

// slowHandler answers after errorTimeout unless the client gives up first.
func slowHandler(status int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
			return
		case <-time.After(errorTimeout):
		}
		writeJSON(w, status, "{}")
	}
}

func newTestServer(t *testing.T, handler http.Handler) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func newTestClient(t *testing.T, server *httptest.Server, creds domain.Credentials) *Client {
	t.Helper()
	client, err := NewClient(Config{
		BaseURL:       server.URL,
		Credentials:   creds,
		Timeout:       testTimeout,
		ClientVersion: "dummyVersion",
	})
	require.NoError(t, err)
	return client
}

func defaultCreds() domain.Credentials {
	return domain.BasicAuth{Login: "login@email.com", Password: "password"}
}
