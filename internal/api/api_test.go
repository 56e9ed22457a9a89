package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/campus-content-api/internal/api"
	"github.com/campus-content-api/internal/config"
	"github.com/campus-content-api/internal/mocks"
	"github.com/campus-content-api/internal/models"
	"github.com/campus-content-api/internal/repository"
	"github.com/campus-content-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/rs/zerolog"
)

const testSecret = "test-secret"

func setupTestRouter() (*gin.Engine, *mocks.MockCommentRepository, *mocks.MockContentRepository) {
	gin.SetMode(gin.TestMode)

	contentRepo := mocks.NewMockContentRepository()
	commentRepo := mocks.NewMockCommentRepository()
	accountRepo := mocks.NewMockAccountRepository()

	repos := &repository.Repositories{
		Content: contentRepo,
		Comment: commentRepo,
		Account: accountRepo,
	}
	services := service.NewServices(repos, zerolog.Nop())

	cfg := &config.Config{
		Server: config.ServerConfig{Port: "8080"},
		Auth:   config.AuthConfig{JWTSecret: testSecret},
	}

	router := api.NewRouter(services, cfg, zerolog.Nop())
	return router, commentRepo, contentRepo
}

func signToken(t *testing.T, role string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":  "admin-1",
		"role": role,
		"exp":  time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}
	return "Bearer " + token
}

func doJSON(router *gin.Engine, method, path string, body interface{}, auth string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	router, _, _ := setupTestRouter()

	w := doJSON(router, "GET", "/health", nil, "")
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)

	if response["status"] != "healthy" {
		t.Errorf("Expected status 'healthy', got %v", response["status"])
	}
	if response["service"] != "campus-content-api" {
		t.Errorf("Expected service name, got %v", response["service"])
	}
}

func TestGetContent_DefaultOnMissing(t *testing.T) {
	router, _, _ := setupTestRouter()

	w := doJSON(router, "GET", "/v1/content?year=2024&semester=2&branch=cse&subject=dbms&contentType=notes", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var response struct {
		Content models.Bucket `json:"content"`
		Version int64         `json:"version"`
	}
	json.Unmarshal(w.Body.Bytes(), &response)

	if response.Content.Modules == nil {
		t.Error("Expected empty modules list, got null")
	}
	if len(response.Content.Modules) != 0 {
		t.Errorf("Expected no modules, got %d", len(response.Content.Modules))
	}
}

func TestUpsertAndGetContent(t *testing.T) {
	router, _, _ := setupTestRouter()

	body := map[string]interface{}{
		"year": "2024", "semester": "2", "branch": "cse",
		"subject": "dbms", "contentType": "video-lecs",
		"content": map[string]interface{}{
			"modules": []map[string]interface{}{
				{"id": "mod-1", "name": "Module 1", "topics": []map[string]interface{}{
					{"id": "t1", "title": "ER diagrams", "videoUrl": "https://cdn.example.com/v/1"},
				}},
			},
		},
	}
	w := doJSON(router, "POST", "/v1/content", body, "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(router, "GET", "/v1/content?year=2024&semester=2&branch=cse&subject=dbms&contentType=video-lecs", nil, "")
	var response struct {
		Content models.Bucket `json:"content"`
	}
	json.Unmarshal(w.Body.Bytes(), &response)

	if len(response.Content.Modules) != 1 {
		t.Fatalf("Expected 1 module, got %d", len(response.Content.Modules))
	}
	if response.Content.Modules[0].Topics[0].Title != "ER diagrams" {
		t.Errorf("Unexpected topic: %+v", response.Content.Modules[0].Topics)
	}
}

func TestUpsertContent_InvalidSegment(t *testing.T) {
	router, _, _ := setupTestRouter()

	body := map[string]interface{}{
		"year": "2024", "semester": "2", "branch": "cse",
		"subject": "db.ms", "contentType": "notes",
	}
	w := doJSON(router, "POST", "/v1/content", body, "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}

func TestDeleteContent(t *testing.T) {
	router, _, contentRepo := setupTestRouter()

	body := map[string]interface{}{
		"year": "2024", "semester": "2", "branch": "cse",
		"subject": "dbms", "contentType": "notes",
	}
	if w := doJSON(router, "POST", "/v1/content", body, ""); w.Code != http.StatusOK {
		t.Fatalf("Setup write failed: %d", w.Code)
	}
	if len(contentRepo.Buckets) != 1 {
		t.Fatalf("Expected 1 bucket after write, got %d", len(contentRepo.Buckets))
	}

	if w := doJSON(router, "DELETE", "/v1/content", body, ""); w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if len(contentRepo.Buckets) != 0 {
		t.Errorf("Expected bucket removed, got %d", len(contentRepo.Buckets))
	}
}

func TestCreateComment(t *testing.T) {
	router, _, _ := setupTestRouter()

	body := map[string]interface{}{
		"author": "Asha", "content": "Great lecture",
		"subject": "dbms", "module": "mod-1", "type": "video-lecs",
		"contentId": "t1", "userId": "u-asha",
	}
	w := doJSON(router, "POST", "/v1/comments", body, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	var created models.Comment
	json.Unmarshal(w.Body.Bytes(), &created)

	if created.Status != models.StatusPending {
		t.Errorf("Expected pending status, got %q", created.Status)
	}
	if created.ID == "" {
		t.Error("Expected server-assigned id")
	}
}

func TestCreateComment_MissingFields(t *testing.T) {
	router, _, _ := setupTestRouter()

	body := map[string]interface{}{"author": "Asha"}
	w := doJSON(router, "POST", "/v1/comments", body, "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", w.Code)
	}

	var response struct {
		Details []map[string]interface{} `json:"details"`
	}
	json.Unmarshal(w.Body.Bytes(), &response)
	if len(response.Details) != 4 {
		t.Errorf("Expected 4 field errors, got %d", len(response.Details))
	}
}

func createTestComment(t *testing.T, router *gin.Engine) models.Comment {
	t.Helper()
	body := map[string]interface{}{
		"author": "Asha", "content": "Great lecture",
		"subject": "dbms", "module": "mod-1", "type": "video-lecs",
		"contentId": "t1", "userId": "u-asha",
	}
	w := doJSON(router, "POST", "/v1/comments", body, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("Comment setup failed: %d: %s", w.Code, w.Body.String())
	}
	var created models.Comment
	json.Unmarshal(w.Body.Bytes(), &created)
	return created
}

func TestPatchComment_VoteToggle(t *testing.T) {
	router, _, _ := setupTestRouter()
	created := createTestComment(t, router)

	body := map[string]interface{}{
		"commentId": created.ID, "action": "like", "userId": "u1",
	}
	w := doJSON(router, "PATCH", "/v1/comments", body, "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var result models.VoteResult
	json.Unmarshal(w.Body.Bytes(), &result)
	if result.Likes != 1 || result.Dislikes != 0 {
		t.Errorf("Expected likes=1 dislikes=0, got %+v", result)
	}

	// Same vote again removes it.
	w = doJSON(router, "PATCH", "/v1/comments", body, "")
	json.Unmarshal(w.Body.Bytes(), &result)
	if result.Likes != 0 {
		t.Errorf("Expected repeated like removed, got %+v", result)
	}
}

func TestPatchComment_VoteUnknownComment(t *testing.T) {
	router, _, _ := setupTestRouter()

	body := map[string]interface{}{
		"commentId": "missing", "action": "like", "userId": "u1",
	}
	w := doJSON(router, "PATCH", "/v1/comments", body, "")
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

func TestPatchComment_Reply(t *testing.T) {
	router, _, _ := setupTestRouter()
	created := createTestComment(t, router)

	body := map[string]interface{}{
		"commentId": created.ID, "action": "reply",
		"replyData": map[string]interface{}{"author": "Ravi", "content": "Agreed", "userId": "u-ravi"},
	}
	w := doJSON(router, "PATCH", "/v1/comments", body, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	var reply models.Comment
	json.Unmarshal(w.Body.Bytes(), &reply)
	if reply.ParentID != created.ID {
		t.Errorf("Expected parent %s, got %s", created.ID, reply.ParentID)
	}
	if reply.Status != models.StatusPending {
		t.Errorf("Expected pending reply, got %q", reply.Status)
	}
}

func TestPatchComment_UnknownAction(t *testing.T) {
	router, _, _ := setupTestRouter()
	created := createTestComment(t, router)

	body := map[string]interface{}{"commentId": created.ID, "action": "boost", "userId": "u1"}
	w := doJSON(router, "PATCH", "/v1/comments", body, "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}

func TestListComments_DefaultApproved(t *testing.T) {
	router, commentRepo, _ := setupTestRouter()
	created := createTestComment(t, router)

	url := "/v1/comments?type=video-lecs&subject=dbms&module=mod-1&contentId=t1"

	// Fresh comment is pending, so the default listing hides it.
	w := doJSON(router, "GET", url, nil, "")
	var response struct {
		Comments []models.Comment `json:"comments"`
	}
	json.Unmarshal(w.Body.Bytes(), &response)
	if len(response.Comments) != 0 {
		t.Errorf("Expected pending comment hidden by default, got %d", len(response.Comments))
	}

	commentRepo.UpdateStatus(context.Background(), created.ID, models.StatusApproved)

	w = doJSON(router, "GET", url, nil, "")
	json.Unmarshal(w.Body.Bytes(), &response)
	if len(response.Comments) != 1 {
		t.Errorf("Expected approved comment visible, got %d", len(response.Comments))
	}

	w = doJSON(router, "GET", url+"&status=all", nil, "")
	json.Unmarshal(w.Body.Bytes(), &response)
	if len(response.Comments) != 1 {
		t.Errorf("Expected status=all to list the comment, got %d", len(response.Comments))
	}
}

func TestAdminRoutes_RequireToken(t *testing.T) {
	router, _, _ := setupTestRouter()

	w := doJSON(router, "GET", "/v1/admin/dashboard", nil, "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401 without token, got %d", w.Code)
	}

	w = doJSON(router, "GET", "/v1/admin/dashboard", nil, "Bearer not-a-token")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401 with bad token, got %d", w.Code)
	}

	w = doJSON(router, "GET", "/v1/admin/dashboard", nil, signToken(t, "learner"))
	if w.Code != http.StatusForbidden {
		t.Errorf("Expected status 403 for non-admin role, got %d", w.Code)
	}
}

func TestModerateComment(t *testing.T) {
	router, _, _ := setupTestRouter()
	created := createTestComment(t, router)
	admin := signToken(t, "admin")

	body := map[string]interface{}{"commentId": created.ID, "action": "flag"}
	w := doJSON(router, "PATCH", "/v1/admin/comments", body, admin)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	if response["status"] != "flagged" {
		t.Errorf("Expected flagged, got %v", response["status"])
	}

	// flagged is not terminal
	body["action"] = "approve"
	w = doJSON(router, "PATCH", "/v1/admin/comments", body, admin)
	json.Unmarshal(w.Body.Bytes(), &response)
	if response["status"] != "approved" {
		t.Errorf("Expected approved, got %v", response["status"])
	}
}

func TestModerateComment_UnknownAction(t *testing.T) {
	router, _, _ := setupTestRouter()
	created := createTestComment(t, router)

	body := map[string]interface{}{"commentId": created.ID, "action": "nuke"}
	w := doJSON(router, "PATCH", "/v1/admin/comments", body, signToken(t, "admin"))
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}

func TestAdminDeleteComment(t *testing.T) {
	router, commentRepo, _ := setupTestRouter()
	created := createTestComment(t, router)

	// Add a reply so the subtree delete is visible.
	replyBody := map[string]interface{}{
		"commentId": created.ID, "action": "reply",
		"replyData": map[string]interface{}{"author": "Ravi", "content": "Agreed"},
	}
	if w := doJSON(router, "PATCH", "/v1/comments", replyBody, ""); w.Code != http.StatusCreated {
		t.Fatalf("Reply setup failed: %d", w.Code)
	}

	body := map[string]interface{}{"commentId": created.ID}
	w := doJSON(router, "DELETE", "/v1/admin/comments", body, signToken(t, "admin"))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	if response["deleted"].(float64) != 2 {
		t.Errorf("Expected 2 deleted, got %v", response["deleted"])
	}

	count, _ := commentRepo.Count(context.Background())
	if count != 0 {
		t.Errorf("Expected repository emptied, got %d comments", count)
	}
}

func TestDashboard(t *testing.T) {
	router, commentRepo, _ := setupTestRouter()

	now := time.Now()
	commentRepo.Insert(context.Background(), &models.Comment{
		ID: "c1", Author: "Asha", Content: "x",
		Subject: "dbms", Module: "mod-1", ContentID: "t1", ContentType: "video-lecs",
		Status: models.StatusPending, PostedAt: now.Format(models.PostedAtLayout),
	})
	commentRepo.Insert(context.Background(), &models.Comment{
		ID: "c2", Author: "Ravi", Content: "y",
		Subject: "dbms", Module: "mod-1", ContentID: "t1", ContentType: "video-lecs",
		Status: models.StatusFlagged, PostedAt: now.AddDate(0, 0, -3).Format(models.PostedAtLayout),
	})

	w := doJSON(router, "GET", "/v1/admin/dashboard", nil, signToken(t, "admin"))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var stats models.DashboardStats
	json.Unmarshal(w.Body.Bytes(), &stats)

	if stats.Comments.Total != 2 {
		t.Errorf("Expected total=2, got %d", stats.Comments.Total)
	}
	if stats.Comments.Pending != 1 {
		t.Errorf("Expected pending=1, got %d", stats.Comments.Pending)
	}
	if stats.Comments.Flagged != 1 {
		t.Errorf("Expected flagged=1, got %d", stats.Comments.Flagged)
	}
	if stats.Comments.Today != 1 {
		t.Errorf("Expected today=1, got %d", stats.Comments.Today)
	}
}
