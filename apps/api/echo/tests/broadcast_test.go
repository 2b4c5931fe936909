package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/darasa-app/darasa/core/broadcast"
	"github.com/darasa-app/darasa/core/user"
	testutil "github.com/darasa-app/darasa/tests"
)

func Test_broadcastApi(t *testing.T) {
	admin := testutil.CreateUser(t, usrRepo, "Admin", "bc.admin@test.cd", "", user.RoleAdmin, false)
	member := testutil.CreateUser(t, usrRepo, "Member", "bc.member@test.cd", "", user.RoleUser, false)

	adminToken := getToken(t, admin)
	activePath := "/v1/broadcasts/active"
	body := func(title, content string) []byte {
		return marchallObj(t, broadcast.NewBroadcast{Title: title, Content: content})
	}

	notFound := marchallObj(t, httpErr{Error: "broadcast not found"})

	getActive := func(t *testing.T) (*json.Decoder, int) {
		req, rec := newRequest(http.MethodGet, activePath)
		app.ServeHTTP(rec, req)
		return json.NewDecoder(rec.Body), rec.Code
	}

	t.Run("no active broadcast", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, activePath)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound, wantData: notFound}, rec)
	})

	t.Run("publish requires auth", func(t *testing.T) {
		req, rec := newRequest(http.MethodPut, activePath, body("t", "c"))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)}, rec)
	})

	t.Run("publish requires admin", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPut, activePath, getToken(t, member), body("t", "c"))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		}, rec)
	})

	t.Run("payload is validated", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPut, activePath, adminToken, []byte("{}"))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"title": "this field is required", "content": "this field is required"}),
		}, rec)
	})

	var published broadcast.Broadcast

	t.Run("publish", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPut, activePath, adminToken, body("Exam week", "Good luck!"))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %d, want %d; body %s", rec.Code, http.StatusOK, rec.Body.String())
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &published); err != nil {
			t.Fatalf("unmarshaling response: %v", err)
		}
		if !published.IsActive || published.Title != "Exam week" || published.AuthorID != admin.ID {
			t.Errorf("broadcast = %+v", published)
		}

		dec, code := getActive(t)
		if code != http.StatusOK {
			t.Fatalf("GET active code = %d, want %d", code, http.StatusOK)
		}
		var active broadcast.Broadcast
		if err := dec.Decode(&active); err != nil {
			t.Fatalf("decoding response: %v", err)
		}
		if active.ID != published.ID {
			t.Errorf("active ID = %s, want %s", active.ID, published.ID)
		}
	})

	t.Run("republish updates in place", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPut, activePath, adminToken, body("Snow day", "School closed."))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %d, want %d; body %s", rec.Code, http.StatusOK, rec.Body.String())
		}
		var updated broadcast.Broadcast
		if err := json.Unmarshal(rec.Body.Bytes(), &updated); err != nil {
			t.Fatalf("unmarshaling response: %v", err)
		}
		if updated.ID != published.ID {
			t.Errorf("broadcast ID = %s, want %s (update in place)", updated.ID, published.ID)
		}

		// the home view cache must have been refreshed, not left stale
		dec, code := getActive(t)
		if code != http.StatusOK {
			t.Fatalf("GET active code = %d, want %d", code, http.StatusOK)
		}
		var active broadcast.Broadcast
		if err := dec.Decode(&active); err != nil {
			t.Fatalf("decoding response: %v", err)
		}
		if active.Title != "Snow day" {
			t.Errorf("active title = %q, want %q", active.Title, "Snow day")
		}
	})

	t.Run("take down", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, activePath, adminToken)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("code = %d, want %d; body %s", rec.Code, http.StatusNoContent, rec.Body.String())
		}

		req, rec = newRequest(http.MethodGet, activePath)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound, wantData: notFound}, rec)
	})
}
