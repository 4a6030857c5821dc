package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/groupdir/groupdir/internal/models"
	"github.com/groupdir/groupdir/internal/service"
	"gorm.io/gorm"
)

func setupAPITest(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:api_%d?mode=memory&cache=shared", time.Now().UnixNano())
	conn, errOpen := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if errOpen != nil {
		t.Fatalf("open db: %v", errOpen)
	}
	if errMigrate := conn.AutoMigrate(&models.Permission{}, &models.Group{}, &models.User{}); errMigrate != nil {
		t.Fatalf("migrate db: %v", errMigrate)
	}

	engine := gin.New()
	RegisterRoutes(engine, service.NewLocal(conn))
	return engine, conn
}

func doRequest(t *testing.T, engine *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func createGroup(t *testing.T, conn *gorm.DB, name string) uint64 {
	t.Helper()
	group := models.Group{Name: name}
	if errCreate := conn.Create(&group).Error; errCreate != nil {
		t.Fatalf("create group: %v", errCreate)
	}
	return group.ID
}

func TestListUsersEmptyReturnsEmptyArray(t *testing.T) {
	engine, _ := setupAPITest(t)

	rec := doRequest(t, engine, http.MethodGet, "/api/userapi", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var users []service.User
	if errDecode := json.Unmarshal(rec.Body.Bytes(), &users); errDecode != nil {
		t.Fatalf("decode body: %v", errDecode)
	}
	if len(users) != 0 {
		t.Fatalf("users = %v, want empty", users)
	}
}

func TestCreateGetUpdateDeleteUserFlow(t *testing.T) {
	engine, conn := setupAPITest(t)

	adminID := createGroup(t, conn, "Admin")
	managerID := createGroup(t, conn, "Manager")

	rec := doRequest(t, engine, http.MethodPost, "/api/userapi",
		fmt.Sprintf(`{"userName":"Alice","groupIds":[%d,%d]}`, adminID, managerID))
	if rec.Code != http.StatusOK {
		t.Fatalf("create status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var createResp struct {
		ID uint64 `json:"id"`
	}
	if errDecode := json.Unmarshal(rec.Body.Bytes(), &createResp); errDecode != nil {
		t.Fatalf("decode create body: %v", errDecode)
	}
	if createResp.ID == 0 {
		t.Fatalf("expected server-assigned id in create response")
	}

	rec = doRequest(t, engine, http.MethodGet, fmt.Sprintf("/api/userapi/%d", createResp.ID), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d, want 200", rec.Code)
	}
	var user service.User
	if errDecode := json.Unmarshal(rec.Body.Bytes(), &user); errDecode != nil {
		t.Fatalf("decode user: %v", errDecode)
	}
	if user.UserName != "Alice" || len(user.Groups) != 2 {
		t.Fatalf("user = %+v, want Alice with 2 groups", user)
	}

	rec = doRequest(t, engine, http.MethodPut, fmt.Sprintf("/api/userapi/%d", createResp.ID),
		fmt.Sprintf(`{"id":%d,"userName":"Alice2","groups":[{"id":%d}]}`, createResp.ID, managerID))
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var updated service.User
	if errDecode := json.Unmarshal(rec.Body.Bytes(), &updated); errDecode != nil {
		t.Fatalf("decode updated user: %v", errDecode)
	}
	if updated.UserName != "Alice2" {
		t.Fatalf("updated name = %q, want Alice2", updated.UserName)
	}
	if len(updated.Groups) != 1 || updated.Groups[0].ID != managerID {
		t.Fatalf("updated groups = %v, want only group %d", updated.Groups, managerID)
	}

	rec = doRequest(t, engine, http.MethodDelete, fmt.Sprintf("/api/userapi/%d", createResp.ID), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d, want 200", rec.Code)
	}

	rec = doRequest(t, engine, http.MethodGet, fmt.Sprintf("/api/userapi/%d", createResp.ID), "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete status = %d, want 404", rec.Code)
	}
}

func TestGetUserUnknownIDReturns404(t *testing.T) {
	engine, _ := setupAPITest(t)

	rec := doRequest(t, engine, http.MethodGet, "/api/userapi/999", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestUpdateUserUnknownIDReturns404(t *testing.T) {
	engine, _ := setupAPITest(t)

	rec := doRequest(t, engine, http.MethodPut, "/api/userapi/999",
		`{"id":999,"userName":"Ghost","groups":[]}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestDeleteUserUnknownIDReturns404(t *testing.T) {
	engine, _ := setupAPITest(t)

	rec := doRequest(t, engine, http.MethodDelete, "/api/userapi/999", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestCreateUserRejectsMissingName(t *testing.T) {
	engine, _ := setupAPITest(t)

	rec := doRequest(t, engine, http.MethodPost, "/api/userapi", `{"userName":"","groupIds":[]}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestUserCountEndpoint(t *testing.T) {
	engine, _ := setupAPITest(t)

	doRequest(t, engine, http.MethodPost, "/api/userapi", `{"userName":"u1","groupIds":[]}`)
	doRequest(t, engine, http.MethodPost, "/api/userapi", `{"userName":"u2","groupIds":[]}`)

	rec := doRequest(t, engine, http.MethodGet, "/api/userapi/count", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != "2" {
		t.Fatalf("count body = %q, want bare integer 2", got)
	}
}

func TestGroupEndpoints(t *testing.T) {
	engine, conn := setupAPITest(t)

	adminID := createGroup(t, conn, "Admin")
	createGroup(t, conn, "Guest")

	rec := doRequest(t, engine, http.MethodGet, "/api/groupapi", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d, want 200", rec.Code)
	}
	var groups []service.Group
	if errDecode := json.Unmarshal(rec.Body.Bytes(), &groups); errDecode != nil {
		t.Fatalf("decode groups: %v", errDecode)
	}
	if len(groups) != 2 {
		t.Fatalf("groups = %d, want 2", len(groups))
	}

	rec = doRequest(t, engine, http.MethodGet, fmt.Sprintf("/api/groupapi/%d", adminID), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d, want 200", rec.Code)
	}

	rec = doRequest(t, engine, http.MethodGet, "/api/groupapi/999", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown group status = %d, want 404", rec.Code)
	}

	doRequest(t, engine, http.MethodPost, "/api/userapi",
		fmt.Sprintf(`{"userName":"member","groupIds":[%d]}`, adminID))

	rec = doRequest(t, engine, http.MethodGet, fmt.Sprintf("/api/groupapi/%d/usercount", adminID), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("usercount status = %d, want 200", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != "1" {
		t.Fatalf("usercount body = %q, want 1", got)
	}

	rec = doRequest(t, engine, http.MethodGet, "/api/groupapi/999/usercount", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown group usercount status = %d, want 404", rec.Code)
	}
}
