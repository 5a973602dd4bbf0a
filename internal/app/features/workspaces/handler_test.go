package workspaces_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/teamonehq/teamone/internal/app/features/workspaces"
	"github.com/teamonehq/teamone/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*workspaces.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	handler := workspaces.NewHandler(db, zap.NewNop())
	fixtures := testutil.NewFixtures(t, db)
	return handler, fixtures
}

func TestHandleCreate_CreatorBecomesMember(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fixtures.CreateAdmin(ctx, "Alice", "alice@example.com")

	body := map[string]string{"name": "Engineering", "description": "All things eng"}
	req := testutil.NewJSONRequest(t, "POST", "/workspaces", body, testutil.UserFor(alice))
	rec := httptest.NewRecorder()
	handler.HandleCreate(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, rec.Code, rec.Body.String())
	}

	var resp struct {
		Members []string `json:"members"`
	}
	testutil.DecodeJSON(t, rec, &resp)
	if len(resp.Members) != 1 || resp.Members[0] != alice.ID.Hex() {
		t.Errorf("members: got %v, want creator only", resp.Members)
	}
}

func TestHandleCreate_MemberForbidden(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	bob := fixtures.CreateMember(ctx, "Bob", "bob@example.com")

	body := map[string]string{"name": "Engineering"}
	req := testutil.NewJSONRequest(t, "POST", "/workspaces", body, testutil.UserFor(bob))
	rec := httptest.NewRecorder()
	handler.HandleCreate(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected status %d, got %d", http.StatusForbidden, rec.Code)
	}
}

func TestHandleCreate_RequiresName(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fixtures.CreateAdmin(ctx, "Alice", "alice@example.com")

	req := testutil.NewJSONRequest(t, "POST", "/workspaces", map[string]string{"name": "   "}, testutil.UserFor(alice))
	rec := httptest.NewRecorder()
	handler.HandleCreate(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestServeList_MemberSeesOnlyTheirs(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fixtures.CreateMember(ctx, "Alice", "alice@example.com")
	bob := fixtures.CreateMember(ctx, "Bob", "bob@example.com")
	fixtures.CreateWorkspace(ctx, "Alice Space", alice.ID)
	fixtures.CreateWorkspace(ctx, "Bob Space", bob.ID)

	req := testutil.NewAuthenticatedRequest("GET", "/workspaces", testutil.UserFor(alice))
	rec := httptest.NewRecorder()
	handler.ServeList(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	var resp []struct {
		Name string `json:"name"`
	}
	testutil.DecodeJSON(t, rec, &resp)
	if len(resp) != 1 || resp[0].Name != "Alice Space" {
		t.Errorf("expected only Alice Space, got %v", resp)
	}
}

func TestServeList_AdminSeesAll(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fixtures.CreateMember(ctx, "Alice", "alice@example.com")
	bob := fixtures.CreateMember(ctx, "Bob", "bob@example.com")
	fixtures.CreateWorkspace(ctx, "Alice Space", alice.ID)
	fixtures.CreateWorkspace(ctx, "Bob Space", bob.ID)

	req := testutil.NewAuthenticatedRequest("GET", "/workspaces", testutil.AdminUser())
	rec := httptest.NewRecorder()
	handler.ServeList(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	var resp []struct {
		Name string `json:"name"`
	}
	testutil.DecodeJSON(t, rec, &resp)
	if len(resp) != 2 {
		t.Errorf("expected 2 workspaces, got %d", len(resp))
	}
}

func TestServeGet_ExpandsMembers(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fixtures.CreateMember(ctx, "Alice", "alice@example.com")
	bob := fixtures.CreateMember(ctx, "Bob", "bob@example.com")
	ws := fixtures.CreateWorkspace(ctx, "Engineering", alice.ID, bob.ID)

	req := testutil.NewAuthenticatedRequest("GET", "/workspaces/"+ws.ID.Hex(), testutil.UserFor(alice))
	req = testutil.WithChiURLParam(req, "id", ws.ID.Hex())
	rec := httptest.NewRecorder()
	handler.ServeGet(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	var resp struct {
		MemberDetails []struct {
			Name string `json:"name"`
		} `json:"member_details"`
	}
	testutil.DecodeJSON(t, rec, &resp)
	if len(resp.MemberDetails) != 2 {
		t.Errorf("expected 2 member details, got %d", len(resp.MemberDetails))
	}
}

func TestServeGet_NonMemberForbidden(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fixtures.CreateMember(ctx, "Alice", "alice@example.com")
	outsider := fixtures.CreateMember(ctx, "Eve", "eve@example.com")
	ws := fixtures.CreateWorkspace(ctx, "Engineering", alice.ID)

	req := testutil.NewAuthenticatedRequest("GET", "/workspaces/"+ws.ID.Hex(), testutil.UserFor(outsider))
	req = testutil.WithChiURLParam(req, "id", ws.ID.Hex())
	rec := httptest.NewRecorder()
	handler.ServeGet(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected status %d, got %d", http.StatusForbidden, rec.Code)
	}
}

func TestHandleAddMember(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fixtures.CreateAdmin(ctx, "Alice", "alice@example.com")
	bob := fixtures.CreateMember(ctx, "Bob", "bob@example.com")
	ws := fixtures.CreateWorkspace(ctx, "Engineering", alice.ID)

	body := map[string]string{"user_id": bob.ID.Hex()}
	req := testutil.NewJSONRequest(t, "POST", "/workspaces/"+ws.ID.Hex()+"/members", body, testutil.UserFor(alice))
	req = testutil.WithChiURLParam(req, "id", ws.ID.Hex())
	rec := httptest.NewRecorder()
	handler.HandleAddMember(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	// A second add of the same user is rejected.
	req = testutil.NewJSONRequest(t, "POST", "/workspaces/"+ws.ID.Hex()+"/members", body, testutil.UserFor(alice))
	req = testutil.WithChiURLParam(req, "id", ws.ID.Hex())
	rec = httptest.NewRecorder()
	handler.HandleAddMember(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status %d on duplicate add, got %d", http.StatusBadRequest, rec.Code)
	}

	count, err := fixtures.DB().Collection("workspaces").CountDocuments(ctx, bson.M{"members": bob.ID})
	if err != nil {
		t.Fatalf("CountDocuments failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected bob in exactly 1 workspace, got %d", count)
	}
}

func TestHandleAddMember_PendingUserRejected(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fixtures.CreateAdmin(ctx, "Alice", "alice@example.com")
	pending := fixtures.CreatePendingUser(ctx, "Bob", "bob@example.com")
	ws := fixtures.CreateWorkspace(ctx, "Engineering", alice.ID)

	body := map[string]string{"user_id": pending.ID.Hex()}
	req := testutil.NewJSONRequest(t, "POST", "/workspaces/"+ws.ID.Hex()+"/members", body, testutil.UserFor(alice))
	req = testutil.WithChiURLParam(req, "id", ws.ID.Hex())
	rec := httptest.NewRecorder()
	handler.HandleAddMember(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestHandleAddMember_MemberForbidden(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fixtures.CreateMember(ctx, "Alice", "alice@example.com")
	bob := fixtures.CreateMember(ctx, "Bob", "bob@example.com")
	ws := fixtures.CreateWorkspace(ctx, "Engineering", alice.ID)

	body := map[string]string{"user_id": bob.ID.Hex()}
	req := testutil.NewJSONRequest(t, "POST", "/workspaces/"+ws.ID.Hex()+"/members", body, testutil.UserFor(alice))
	req = testutil.WithChiURLParam(req, "id", ws.ID.Hex())
	rec := httptest.NewRecorder()
	handler.HandleAddMember(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected status %d, got %d", http.StatusForbidden, rec.Code)
	}
}

func TestHandleUpdate_OnlyCreatorOrAdmin(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fixtures.CreateMember(ctx, "Alice", "alice@example.com")
	bob := fixtures.CreateMember(ctx, "Bob", "bob@example.com")
	ws := fixtures.CreateWorkspace(ctx, "Engineering", alice.ID, bob.ID)

	months := 6
	body := map[string]any{"retention_months": months}

	// A plain member cannot update.
	req := testutil.NewJSONRequest(t, "PATCH", "/workspaces/"+ws.ID.Hex(), body, testutil.UserFor(bob))
	req = testutil.WithChiURLParam(req, "id", ws.ID.Hex())
	rec := httptest.NewRecorder()
	handler.HandleUpdate(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("member update: expected status %d, got %d", http.StatusForbidden, rec.Code)
	}

	// The creator can.
	req = testutil.NewJSONRequest(t, "PATCH", "/workspaces/"+ws.ID.Hex(), body, testutil.UserFor(alice))
	req = testutil.WithChiURLParam(req, "id", ws.ID.Hex())
	rec = httptest.NewRecorder()
	handler.HandleUpdate(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("creator update: expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	var resp struct {
		RetentionMonths int `json:"retention_months"`
	}
	testutil.DecodeJSON(t, rec, &resp)
	if resp.RetentionMonths != months {
		t.Errorf("retention_months: got %d, want %d", resp.RetentionMonths, months)
	}
}
