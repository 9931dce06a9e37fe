package crawl

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleRobots = `# comment
User-agent: storypipe
Disallow: /private

User-agent: *
Disallow: /history-of-success
Allow: /history-of-success/public
`

func robotsServer(status int, body string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/robots.txt" {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
}

func TestRobotsAllowed_Rules(t *testing.T) {
	srv := robotsServer(http.StatusOK, sampleRobots)
	defer srv.Close()
	ctx := context.Background()

	tests := []struct {
		name  string
		path  string
		agent string
		want  bool
	}{
		{"wildcard disallow", "/history-of-success/a", "Mozilla/5.0", false},
		{"longer allow wins", "/history-of-success/public/a", "Mozilla/5.0", true},
		{"unlisted path", "/news", "Mozilla/5.0", true},
		{"named group replaces wildcard", "/history-of-success/a", "storypipe/1.0", true},
		{"named group disallow", "/private/x", "storypipe/1.0", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := RobotsAllowed(ctx, newFetcher(), srv.URL+tt.path, tt.agent)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
		})
	}
}

func TestRobotsAllowed_StatusHandling(t *testing.T) {
	ctx := context.Background()

	forbidden := robotsServer(http.StatusForbidden, "")
	defer forbidden.Close()
	ok, err := RobotsAllowed(ctx, newFetcher(), forbidden.URL+"/a", "x")
	require.NoError(t, err)
	assert.False(t, ok)

	missing := robotsServer(http.StatusNotFound, "")
	defer missing.Close()
	ok, err = RobotsAllowed(ctx, newFetcher(), missing.URL+"/a", "x")
	require.NoError(t, err)
	assert.True(t, ok)

	broken := robotsServer(http.StatusInternalServerError, "")
	defer broken.Close()
	ok, err = RobotsAllowed(ctx, newFetcher(), broken.URL+"/a", "x")
	require.Error(t, err)
	assert.False(t, ok)
}

func TestParseRobots_GroupsShareRules(t *testing.T) {
	groups := parseRobots("User-agent: a\nUser-agent: b\nDisallow: /x\n")
	require.Len(t, groups, 1)
	assert.Equal(t, []string{"a", "b"}, groups[0].agents)
	assert.False(t, robotsAllows(groups, "b", "/x/y"))
	assert.True(t, robotsAllows(groups, "c", "/x/y"))
}
