package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/go-github/v57/github"
)

// FakePullRequest is a pull request served by FakeGitHub
type FakePullRequest struct {
	Number int
	Title  string
	Login  string
}

// FakeCommit is a commit served by FakeGitHub
type FakeCommit struct {
	SHA     string
	Message string
	Login   string
}

// FakeGitHub emulates the three GitHub REST endpoints the changelog relies on.
type FakeGitHub struct {
	Server *httptest.Server

	mu sync.Mutex
	// PullsByCommit lists pull requests associated with a commit sha
	PullsByCommit map[string][]FakePullRequest
	// PullCommits lists a pull request's commits oldest first, as GitHub does
	PullCommits map[int][]FakeCommit
	// CommitAuthors maps a commit sha to the login of its GitHub account
	CommitAuthors map[string]string
	// FailStatus makes any request whose path matches return the given status
	FailStatus map[string]int

	calls map[string]int
}

// NewFakeGitHub starts the fake API server; it is closed when the test ends
func NewFakeGitHub(t testing.TB) *FakeGitHub {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := &FakeGitHub{
		PullsByCommit: make(map[string][]FakePullRequest),
		PullCommits:   make(map[int][]FakeCommit),
		CommitAuthors: make(map[string]string),
		FailStatus:    make(map[string]int),
		calls:         make(map[string]int),
	}

	router := gin.New()
	router.Use(f.record)
	router.GET("/repos/:owner/:repo/commits/:sha/pulls", f.listPullsWithCommit)
	router.GET("/repos/:owner/:repo/commits/:sha", f.getCommit)
	router.GET("/repos/:owner/:repo/pulls/:number/commits", f.listPullCommits)

	f.Server = httptest.NewServer(router)
	t.Cleanup(f.Server.Close)
	return f
}

// URL returns the API base URL with the trailing slash go-github expects
func (f *FakeGitHub) URL() string {
	return f.Server.URL + "/"
}

// Client returns a go-github client pointed at the fake server
func (f *FakeGitHub) Client() *github.Client {
	client := github.NewClient(f.Server.Client())
	base, _ := url.Parse(f.URL())
	client.BaseURL = base
	return client
}

// Calls returns how many requests hit the given path
func (f *FakeGitHub) Calls(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[path]
}

func (f *FakeGitHub) record(c *gin.Context) {
	f.mu.Lock()
	f.calls[c.Request.URL.Path]++
	status, fail := f.FailStatus[c.Request.URL.Path]
	f.mu.Unlock()

	if fail {
		c.AbortWithStatusJSON(status, gin.H{"message": http.StatusText(status)})
		return
	}
	c.Next()
}

func (f *FakeGitHub) listPullsWithCommit(c *gin.Context) {
	f.mu.Lock()
	pulls := f.PullsByCommit[c.Param("sha")]
	f.mu.Unlock()

	body := make([]gin.H, 0, len(pulls))
	for _, pr := range pulls {
		body = append(body, f.pullJSON(c, pr))
	}
	c.JSON(http.StatusOK, body)
}

func (f *FakeGitHub) listPullCommits(c *gin.Context) {
	number, err := strconv.Atoi(c.Param("number"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Not Found"})
		return
	}

	f.mu.Lock()
	commits := f.PullCommits[number]
	f.mu.Unlock()

	// Only the first page is served; a Link header announces the rest
	if perPage, _ := strconv.Atoi(c.Query("per_page")); perPage > 0 && len(commits) > perPage {
		next := *c.Request.URL
		query := next.Query()
		query.Set("page", "2")
		next.RawQuery = query.Encode()
		c.Header("Link", fmt.Sprintf(`<%s%s>; rel="next"`, f.Server.URL, next.RequestURI()))
		commits = commits[:perPage]
	}

	body := make([]gin.H, 0, len(commits))
	for _, commit := range commits {
		body = append(body, commitJSON(commit))
	}
	c.JSON(http.StatusOK, body)
}

func (f *FakeGitHub) getCommit(c *gin.Context) {
	sha := c.Param("sha")

	f.mu.Lock()
	login, ok := f.CommitAuthors[sha]
	f.mu.Unlock()

	if !ok {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "No commit found for SHA: " + sha})
		return
	}
	c.JSON(http.StatusOK, commitJSON(FakeCommit{SHA: sha, Message: "remote " + sha, Login: login}))
}

func (f *FakeGitHub) pullJSON(c *gin.Context, pr FakePullRequest) gin.H {
	body := gin.H{
		"number":   pr.Number,
		"title":    pr.Title,
		"html_url": fmt.Sprintf("https://github.com/%s/%s/pull/%d", c.Param("owner"), c.Param("repo"), pr.Number),
	}
	if pr.Login != "" {
		body["user"] = userJSON(pr.Login)
	}
	return body
}

func commitJSON(commit FakeCommit) gin.H {
	body := gin.H{
		"sha":    commit.SHA,
		"commit": gin.H{"message": commit.Message},
	}
	if commit.Login != "" {
		body["author"] = userJSON(commit.Login)
	}
	return body
}

func userJSON(login string) gin.H {
	return gin.H{
		"login":    login,
		"html_url": "https://github.com/" + login,
	}
}
