package search_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/teamonehq/teamone/internal/app/features/search"
	"github.com/teamonehq/teamone/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*search.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	handler := search.NewHandler(db, zap.NewNop())
	fixtures := testutil.NewFixtures(t, db)
	return handler, fixtures
}

type searchResponse struct {
	Count   int `json:"count"`
	Results []struct {
		ID         string `json:"id"`
		ThreadID   string `json:"thread_id"`
		SenderName string `json:"sender_name"`
		Content    string `json:"content"`
	} `json:"results"`
}

func doSearch(t *testing.T, handler *search.Handler, target string, user testutil.TestUser) (*httptest.ResponseRecorder, searchResponse) {
	t.Helper()

	req := testutil.NewAuthenticatedRequest("GET", target, user)
	rec := httptest.NewRecorder()
	handler.Serve(rec, req)

	var resp searchResponse
	if rec.Code == http.StatusOK {
		testutil.DecodeJSON(t, rec, &resp)
	}
	return rec, resp
}

func TestServe_RequiresQuery(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fixtures.CreateMember(ctx, "Alice", "alice@example.com")

	rec, _ := doSearch(t, handler, "/search", testutil.UserFor(alice))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestServe_LiteralMatch(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fixtures.CreateMember(ctx, "Alice", "alice@example.com")
	ws := fixtures.CreateWorkspace(ctx, "Engineering", alice.ID)
	th := fixtures.CreateThread(ctx, ws.ID, "General", true, alice.ID)
	fixtures.CreateMessage(ctx, th.ID, alice.ID, "hello world")
	fixtures.CreateMessage(ctx, th.ID, alice.ID, "goodbye world")

	rec, resp := doSearch(t, handler, "/search?q=hello", testutil.UserFor(alice))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}
	if resp.Count != 1 {
		t.Fatalf("expected 1 hit, got %d", resp.Count)
	}
	if resp.Results[0].Content != "hello world" {
		t.Errorf("hit: got %q, want %q", resp.Results[0].Content, "hello world")
	}
	if resp.Results[0].SenderName != "Alice" {
		t.Errorf("sender name: got %q, want %q", resp.Results[0].SenderName, "Alice")
	}
}

func TestServe_MetacharactersAreLiteralWithoutRegexFlag(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fixtures.CreateMember(ctx, "Alice", "alice@example.com")
	ws := fixtures.CreateWorkspace(ctx, "Engineering", alice.ID)
	th := fixtures.CreateThread(ctx, ws.ID, "General", true, alice.ID)
	fixtures.CreateMessage(ctx, th.ID, alice.ID, "hello world")
	fixtures.CreateMessage(ctx, th.ID, alice.ID, "literally h.*o here")

	// Escaped: matches only the literal "h.*o".
	_, resp := doSearch(t, handler, "/search?q=h.%2Ao", testutil.UserFor(alice))
	if resp.Count != 1 || resp.Results[0].Content != "literally h.*o here" {
		t.Errorf("literal search: expected only the literal hit, got %+v", resp.Results)
	}

	// As a pattern: matches "hello world" too.
	_, resp = doSearch(t, handler, "/search?q=h.%2Ao&regex=true", testutil.UserFor(alice))
	if resp.Count != 2 {
		t.Errorf("regex search: expected 2 hits, got %d", resp.Count)
	}
}

func TestServe_InvalidRegexRejected(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fixtures.CreateMember(ctx, "Alice", "alice@example.com")

	rec, _ := doSearch(t, handler, "/search?q=%5Bunclosed&regex=true", testutil.UserFor(alice))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestServe_VisibilityPerSearcher(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fixtures.CreateMember(ctx, "Alice", "alice@example.com")
	bob := fixtures.CreateMember(ctx, "Bob", "bob@example.com")
	outsider := fixtures.CreateMember(ctx, "Eve", "eve@example.com")
	ws := fixtures.CreateWorkspace(ctx, "Engineering", alice.ID, bob.ID)

	public := fixtures.CreateThread(ctx, ws.ID, "Public", true, alice.ID)
	private := fixtures.CreateThread(ctx, ws.ID, "Private", false, alice.ID, alice.ID)
	fixtures.CreateMessage(ctx, public.ID, alice.ID, "deploy done")
	fixtures.CreateMessage(ctx, private.ID, alice.ID, "deploy secret")

	// Alice sees both; Bob only the public hit; Eve nothing.
	_, resp := doSearch(t, handler, "/search?q=deploy", testutil.UserFor(alice))
	if resp.Count != 2 {
		t.Errorf("alice: expected 2 hits, got %d", resp.Count)
	}
	_, resp = doSearch(t, handler, "/search?q=deploy", testutil.UserFor(bob))
	if resp.Count != 1 || resp.Results[0].Content != "deploy done" {
		t.Errorf("bob: expected only the public hit, got %+v", resp.Results)
	}
	_, resp = doSearch(t, handler, "/search?q=deploy", testutil.UserFor(outsider))
	if resp.Count != 0 {
		t.Errorf("outsider: expected 0 hits, got %d", resp.Count)
	}
	_, resp = doSearch(t, handler, "/search?q=deploy", testutil.AdminUser())
	if resp.Count != 2 {
		t.Errorf("admin: expected 2 hits, got %d", resp.Count)
	}
}

func TestServe_DeletedThreadSkipped(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fixtures.CreateMember(ctx, "Alice", "alice@example.com")
	ws := fixtures.CreateWorkspace(ctx, "Engineering", alice.ID)
	th := fixtures.CreateThread(ctx, ws.ID, "General", true, alice.ID)
	fixtures.CreateMessage(ctx, th.ID, alice.ID, "orphan message")

	if _, err := fixtures.DB().Collection("threads").DeleteOne(ctx, bson.M{"_id": th.ID}); err != nil {
		t.Fatalf("DeleteOne failed: %v", err)
	}

	rec, resp := doSearch(t, handler, "/search?q=orphan", testutil.UserFor(alice))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if resp.Count != 0 {
		t.Errorf("expected 0 hits for orphaned message, got %d", resp.Count)
	}
}

func TestServe_LanguageFilter(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fixtures.CreateMember(ctx, "Alice", "alice@example.com")
	ws := fixtures.CreateWorkspace(ctx, "Engineering", alice.ID)
	th := fixtures.CreateThread(ctx, ws.ID, "Snippets", true, alice.ID)
	fixtures.CreateCodeMessage(ctx, th.ID, alice.ID, "print('hi')", "python")
	fixtures.CreateCodeMessage(ctx, th.ID, alice.ID, "fmt.Println(\"hi\")", "go")

	_, resp := doSearch(t, handler, "/search?q=print&language=python", testutil.UserFor(alice))
	if resp.Count != 1 {
		t.Fatalf("expected 1 hit, got %d", resp.Count)
	}
}

func TestServe_WorkspaceNarrowing(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fixtures.CreateMember(ctx, "Alice", "alice@example.com")
	bob := fixtures.CreateMember(ctx, "Bob", "bob@example.com")
	ws1 := fixtures.CreateWorkspace(ctx, "Engineering", alice.ID)
	ws2 := fixtures.CreateWorkspace(ctx, "Design", alice.ID)
	th1 := fixtures.CreateThread(ctx, ws1.ID, "General", true, alice.ID)
	th2 := fixtures.CreateThread(ctx, ws2.ID, "General", true, alice.ID)
	personal := fixtures.CreatePersonalThread(ctx, alice.ID, bob.ID)
	fixtures.CreateMessage(ctx, th1.ID, alice.ID, "shipit eng")
	fixtures.CreateMessage(ctx, th2.ID, alice.ID, "shipit design")
	fixtures.CreateMessage(ctx, personal.ID, alice.ID, "shipit dm")

	_, resp := doSearch(t, handler, "/search?q=shipit&workspace_id="+ws1.ID.Hex(), testutil.UserFor(alice))
	if resp.Count != 1 || resp.Results[0].Content != "shipit eng" {
		t.Errorf("expected only the ws1 hit, got %+v", resp.Results)
	}

	_, resp = doSearch(t, handler, "/search?q=shipit", testutil.UserFor(alice))
	if resp.Count != 3 {
		t.Errorf("unfiltered: expected 3 hits, got %d", resp.Count)
	}
}
