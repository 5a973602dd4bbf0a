package threads_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/teamonehq/teamone/internal/app/features/threads"
	"github.com/teamonehq/teamone/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*threads.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	handler := threads.NewHandler(db, zap.NewNop())
	fixtures := testutil.NewFixtures(t, db)
	return handler, fixtures
}

type threadResponse struct {
	ID          string   `json:"id"`
	WorkspaceID string   `json:"workspace_id"`
	Type        string   `json:"type"`
	Title       string   `json:"title"`
	IsPublic    bool     `json:"is_public"`
	Members     []string `json:"members"`
}

func TestHandleCreate_PersonalThreadIsIdempotent(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fixtures.CreateMember(ctx, "Alice", "alice@example.com")
	bob := fixtures.CreateMember(ctx, "Bob", "bob@example.com")

	body := map[string]string{"type": "personal", "partner_id": bob.ID.Hex()}
	req := testutil.NewJSONRequest(t, "POST", "/threads", body, testutil.UserFor(alice))
	rec := httptest.NewRecorder()
	handler.HandleCreate(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("first create: expected status %d, got %d: %s", http.StatusCreated, rec.Code, rec.Body.String())
	}
	var first threadResponse
	testutil.DecodeJSON(t, rec, &first)
	if first.Title != "Chat with Bob" {
		t.Errorf("title: got %q, want %q", first.Title, "Chat with Bob")
	}

	// Creating again, from either side, returns the same conversation.
	body = map[string]string{"type": "personal", "partner_id": alice.ID.Hex()}
	req = testutil.NewJSONRequest(t, "POST", "/threads", body, testutil.UserFor(bob))
	rec = httptest.NewRecorder()
	handler.HandleCreate(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("second create: expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}
	var second threadResponse
	testutil.DecodeJSON(t, rec, &second)
	if first.ID != second.ID {
		t.Errorf("expected the same thread, got %s and %s", first.ID, second.ID)
	}
}

func TestHandleCreate_PersonalWithSelfRejected(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fixtures.CreateMember(ctx, "Alice", "alice@example.com")

	body := map[string]string{"type": "personal", "partner_id": alice.ID.Hex()}
	req := testutil.NewJSONRequest(t, "POST", "/threads", body, testutil.UserFor(alice))
	rec := httptest.NewRecorder()
	handler.HandleCreate(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestHandleCreate_WorkspaceThreadNeedsMembership(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fixtures.CreateMember(ctx, "Alice", "alice@example.com")
	outsider := fixtures.CreateMember(ctx, "Eve", "eve@example.com")
	ws := fixtures.CreateWorkspace(ctx, "Engineering", alice.ID)

	body := map[string]any{"type": "workspace", "workspace_id": ws.ID.Hex(), "title": "Standup"}
	req := testutil.NewJSONRequest(t, "POST", "/threads", body, testutil.UserFor(outsider))
	rec := httptest.NewRecorder()
	handler.HandleCreate(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("outsider create: expected status %d, got %d", http.StatusForbidden, rec.Code)
	}

	req = testutil.NewJSONRequest(t, "POST", "/threads", body, testutil.UserFor(alice))
	rec = httptest.NewRecorder()
	handler.HandleCreate(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("member create: expected status %d, got %d: %s", http.StatusCreated, rec.Code, rec.Body.String())
	}
	var resp threadResponse
	testutil.DecodeJSON(t, rec, &resp)
	if !resp.IsPublic {
		t.Error("threads default to public")
	}
}

func TestHandleCreate_PrivateThreadMembersMustBelong(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fixtures.CreateMember(ctx, "Alice", "alice@example.com")
	outsider := fixtures.CreateMember(ctx, "Eve", "eve@example.com")
	ws := fixtures.CreateWorkspace(ctx, "Engineering", alice.ID)

	isPublic := false
	body := map[string]any{
		"type":         "workspace",
		"workspace_id": ws.ID.Hex(),
		"title":        "Secret",
		"is_public":    isPublic,
		"members":      []string{outsider.ID.Hex()},
	}
	req := testutil.NewJSONRequest(t, "POST", "/threads", body, testutil.UserFor(alice))
	rec := httptest.NewRecorder()
	handler.HandleCreate(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestServeList_VisibilityPerCaller(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fixtures.CreateMember(ctx, "Alice", "alice@example.com")
	bob := fixtures.CreateMember(ctx, "Bob", "bob@example.com")
	outsider := fixtures.CreateMember(ctx, "Eve", "eve@example.com")
	ws := fixtures.CreateWorkspace(ctx, "Engineering", alice.ID, bob.ID)

	fixtures.CreateThread(ctx, ws.ID, "Public", true, alice.ID)
	fixtures.CreateThread(ctx, ws.ID, "Alice Private", false, alice.ID, alice.ID)
	fixtures.CreateThread(ctx, ws.ID, "Pair Private", false, alice.ID, alice.ID, bob.ID)

	list := func(user testutil.TestUser) []threadResponse {
		t.Helper()
		req := testutil.NewAuthenticatedRequest("GET", "/threads?workspace_id="+ws.ID.Hex(), user)
		rec := httptest.NewRecorder()
		handler.ServeList(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("list: expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
		}
		var resp []threadResponse
		testutil.DecodeJSON(t, rec, &resp)
		return resp
	}

	if got := list(testutil.UserFor(alice)); len(got) != 3 {
		t.Errorf("alice: expected 3 threads, got %d", len(got))
	}
	if got := list(testutil.UserFor(bob)); len(got) != 2 {
		t.Errorf("bob: expected 2 threads (public + pair), got %d", len(got))
	}
	if got := list(testutil.AdminUser()); len(got) != 3 {
		t.Errorf("admin: expected 3 threads, got %d", len(got))
	}

	// A non-member of the workspace sees nothing, public or not.
	req := testutil.NewAuthenticatedRequest("GET", "/threads?workspace_id="+ws.ID.Hex(), testutil.UserFor(outsider))
	rec := httptest.NewRecorder()
	handler.ServeList(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("outsider list: expected status %d, got %d", http.StatusForbidden, rec.Code)
	}
}

func TestServeGet_OutsiderForbiddenOnPublicThread(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fixtures.CreateMember(ctx, "Alice", "alice@example.com")
	outsider := fixtures.CreateMember(ctx, "Eve", "eve@example.com")
	ws := fixtures.CreateWorkspace(ctx, "Engineering", alice.ID)
	th := fixtures.CreateThread(ctx, ws.ID, "Public", true, alice.ID)

	req := testutil.NewAuthenticatedRequest("GET", "/threads/"+th.ID.Hex(), testutil.UserFor(outsider))
	req = testutil.WithChiURLParam(req, "id", th.ID.Hex())
	rec := httptest.NewRecorder()
	handler.ServeGet(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected status %d, got %d", http.StatusForbidden, rec.Code)
	}
}

func TestServeGet_OrphanedWorkspaceIsNotFound(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fixtures.CreateMember(ctx, "Alice", "alice@example.com")
	ws := fixtures.CreateWorkspace(ctx, "Engineering", alice.ID)
	th := fixtures.CreateThread(ctx, ws.ID, "Public", true, alice.ID)

	if _, err := fixtures.DB().Collection("workspaces").DeleteOne(ctx, bson.M{"_id": ws.ID}); err != nil {
		t.Fatalf("DeleteOne failed: %v", err)
	}

	req := testutil.NewAuthenticatedRequest("GET", "/threads/"+th.ID.Hex(), testutil.UserFor(alice))
	req = testutil.WithChiURLParam(req, "id", th.ID.Hex())
	rec := httptest.NewRecorder()
	handler.ServeGet(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, rec.Code)
	}
}

func TestHandleUpdate_OnlyCreatorOrAdmin(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fixtures.CreateMember(ctx, "Alice", "alice@example.com")
	bob := fixtures.CreateMember(ctx, "Bob", "bob@example.com")
	ws := fixtures.CreateWorkspace(ctx, "Engineering", alice.ID, bob.ID)
	th := fixtures.CreateThread(ctx, ws.ID, "Standup", true, alice.ID)

	pinned := true
	body := map[string]any{"pinned": pinned}

	req := testutil.NewJSONRequest(t, "PATCH", "/threads/"+th.ID.Hex(), body, testutil.UserFor(bob))
	req = testutil.WithChiURLParam(req, "id", th.ID.Hex())
	rec := httptest.NewRecorder()
	handler.HandleUpdate(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("non-creator update: expected status %d, got %d", http.StatusForbidden, rec.Code)
	}

	req = testutil.NewJSONRequest(t, "PATCH", "/threads/"+th.ID.Hex(), body, testutil.UserFor(alice))
	req = testutil.WithChiURLParam(req, "id", th.ID.Hex())
	rec = httptest.NewRecorder()
	handler.HandleUpdate(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("creator update: expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	var resp struct {
		Pinned bool   `json:"pinned"`
		Title  string `json:"title"`
	}
	testutil.DecodeJSON(t, rec, &resp)
	if !resp.Pinned {
		t.Error("pinned was not set")
	}
	if resp.Title != "Standup" {
		t.Errorf("omitted title changed: got %q", resp.Title)
	}
}

func TestHandleUpdate_MembersOnlyOnPrivateThreads(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fixtures.CreateMember(ctx, "Alice", "alice@example.com")
	bob := fixtures.CreateMember(ctx, "Bob", "bob@example.com")
	ws := fixtures.CreateWorkspace(ctx, "Engineering", alice.ID, bob.ID)
	public := fixtures.CreateThread(ctx, ws.ID, "Public", true, alice.ID)

	body := map[string]any{"members": []string{bob.ID.Hex()}}
	req := testutil.NewJSONRequest(t, "PATCH", "/threads/"+public.ID.Hex(), body, testutil.UserFor(alice))
	req = testutil.WithChiURLParam(req, "id", public.ID.Hex())
	rec := httptest.NewRecorder()
	handler.HandleUpdate(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("public thread member set: expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}

	private := fixtures.CreateThread(ctx, ws.ID, "Private", false, alice.ID, alice.ID)
	req = testutil.NewJSONRequest(t, "PATCH", "/threads/"+private.ID.Hex(), body, testutil.UserFor(alice))
	req = testutil.WithChiURLParam(req, "id", private.ID.Hex())
	rec = httptest.NewRecorder()
	handler.HandleUpdate(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("private thread member set: expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	var resp threadResponse
	testutil.DecodeJSON(t, rec, &resp)
	if len(resp.Members) != 2 {
		t.Errorf("expected creator + bob in member set, got %v", resp.Members)
	}
}
