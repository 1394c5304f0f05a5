package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/SscSPs/site_workflow_app/internal/core/domain"
	"github.com/SscSPs/site_workflow_app/internal/core/services"
	"github.com/SscSPs/site_workflow_app/internal/handlers"
	"github.com/SscSPs/site_workflow_app/internal/platform/config"
	"github.com/SscSPs/site_workflow_app/internal/repositories/memory"
	"github.com/SscSPs/site_workflow_app/internal/utils"
	"github.com/SscSPs/site_workflow_app/internal/utils/proofs"
)

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, domain.NotificationEvent) {}

type HandlerTestSuite struct {
	suite.Suite
	router    *gin.Engine
	store     *memory.Store
	jwtSecret string

	admin, architect, siteEngineer, vendor domain.User
	project                                domain.Project
	reviewTask, todoTask                   domain.Task
}

func (suite *HandlerTestSuite) generateTestToken(userID string) string {
	token, err := utils.GenerateJWT(userID, suite.jwtSecret, time.Hour, "")
	suite.Require().NoError(err)
	return token
}

func (suite *HandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	ctx := context.Background()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"
	suite.store = memory.NewStore()

	newUser := func(role domain.Role, name string) domain.User {
		u := domain.User{UserID: uuid.NewString(), Name: name, Email: name + "@example.com", Role: role}
		suite.Require().NoError(suite.store.SaveUser(ctx, u))
		return u
	}
	suite.admin = newUser(domain.RoleAdmin, "ada")
	suite.architect = newUser(domain.RoleArchitect, "arun")
	suite.siteEngineer = newUser(domain.RoleSiteEngineer, "sam")
	suite.vendor = newUser(domain.RoleVendor, "vik")

	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	audit := domain.NewAuditFields(suite.admin.UserID, start)
	suite.project = domain.Project{
		ProjectID: uuid.NewString(), Name: "Kitchen remodel", ArchitectID: suite.architect.UserID,
		ContractValue: decimal.NewFromInt(200000), AuditFields: audit,
	}
	suite.Require().NoError(suite.store.SaveProject(ctx, suite.project))

	weight := decimal.NewFromInt(50)
	suite.reviewTask = domain.Task{
		TaskID: uuid.NewString(), ProjectID: suite.project.ProjectID, Title: "Tiling",
		Status: domain.TaskReview, AssignedTo: suite.siteEngineer.UserID,
		Value: decimal.NewFromInt(100000), WeightPct: &weight, StartDate: &start, AuditFields: audit,
	}
	suite.todoTask = domain.Task{
		TaskID: uuid.NewString(), ProjectID: suite.project.ProjectID, Title: "Plumbing",
		Status: domain.TaskTodo, AssignedTo: suite.siteEngineer.UserID,
		Value: decimal.NewFromInt(50000), WeightPct: &weight, StartDate: &start, AuditFields: audit,
	}
	suite.Require().NoError(suite.store.SaveTask(ctx, suite.reviewTask))
	suite.Require().NoError(suite.store.SaveTask(ctx, suite.todoTask))

	repos := memory.NewRepositoryProvider(suite.store)
	cfg := &config.Config{
		JWTSecret:     suite.jwtSecret,
		StoreTimeout:  time.Second,
		EnableDBCheck: true,
	}
	router, err := handlers.NewRouter(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)), handlers.Dependencies{
		Services: services.NewServiceContainer(repos, nopPublisher{}),
		Users:    repos.UserRepo,
		Health:   repos.Health,
	})
	suite.Require().NoError(err)
	suite.router = router
}

func (suite *HandlerTestSuite) do(method, path string, actor *domain.User, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, path, reader)
	suite.Require().NoError(err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if actor != nil {
		req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(actor.UserID))
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *HandlerTestSuite) decode(w *httptest.ResponseRecorder, into any) {
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), into), w.Body.String())
}

func photos(n int) []map[string]any {
	out := make([]map[string]any, n)
	for i := range out {
		out[i] = map[string]any{
			"type":      "photo",
			"url":       fmt.Sprintf("https://media.example.com/p/%d.jpg", i),
			"gps":       map[string]any{"latitude": 12.97, "longitude": 77.59},
			"timestamp": "2024-03-10T09:15:00Z",
		}
	}
	return out
}

// --- Test Cases ---

func (suite *HandlerTestSuite) TestAuth() {
	w := suite.do(http.MethodGet, "/api/v1/projects/"+suite.project.ProjectID, nil, nil)
	suite.Equal(http.StatusUnauthorized, w.Code)

	stranger := domain.User{UserID: uuid.NewString()}
	w = suite.do(http.MethodGet, "/api/v1/projects/"+suite.project.ProjectID, &stranger, nil)
	suite.Equal(http.StatusUnauthorized, w.Code)

	w = suite.do(http.MethodGet, "/api/v1/projects/"+suite.project.ProjectID, &suite.architect, nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.NotEmpty(w.Header().Get("X-Request-ID"))
	var body map[string]any
	suite.decode(w, &body)
	suite.Equal(suite.project.ProjectID, body["projectID"])
}

func (suite *HandlerTestSuite) TestSubmitTask() {
	path := "/api/v1/tasks/" + suite.todoTask.TaskID + "/submit"

	w := suite.do(http.MethodPost, path, &suite.siteEngineer, map[string]any{"proofs": photos(2)})
	suite.Equal(http.StatusBadRequest, w.Code)
	var verr struct {
		Error   string   `json:"error"`
		Details []string `json:"details"`
	}
	suite.decode(w, &verr)
	suite.Contains(verr.Details, proofs.CountRuleMessage)

	w = suite.do(http.MethodPost, path, &suite.siteEngineer, map[string]any{"proofs": photos(3)})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var task map[string]any
	suite.decode(w, &task)
	suite.Equal(string(domain.TaskReview), task["status"])

	w = suite.do(http.MethodPost, path, &suite.siteEngineer, map[string]any{"proofs": photos(3)})
	suite.Equal(http.StatusConflict, w.Code)
	var conflict map[string]any
	suite.decode(w, &conflict)
	suite.Equal(string(domain.TaskReview), conflict["status"])
}

func (suite *HandlerTestSuite) TestApproveTask() {
	path := "/api/v1/tasks/" + suite.reviewTask.TaskID + "/approve"

	w := suite.do(http.MethodPost, path, &suite.vendor, nil)
	suite.Equal(http.StatusForbidden, w.Code)
	var denied map[string]any
	suite.decode(w, &denied)
	suite.Equal(string(domain.DecisionRoleDenied), denied["code"])

	w = suite.do(http.MethodPost, path, &suite.admin, nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var approval struct {
		Task              map[string]any   `json:"task"`
		LedgerEntries     []map[string]any `json:"ledgerEntries"`
		SettlementPending bool             `json:"settlementPending"`
	}
	suite.decode(w, &approval)
	suite.Equal(string(domain.TaskDone), approval.Task["status"])
	suite.False(approval.SettlementPending)
	suite.Len(approval.LedgerEntries, 3)

	w = suite.do(http.MethodPost, path, &suite.admin, nil)
	suite.Equal(http.StatusConflict, w.Code)

	w = suite.do(http.MethodGet, "/api/v1/projects/"+suite.project.ProjectID+"/ledger?limit=2", &suite.architect, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var page struct {
		Entries   []map[string]any `json:"entries"`
		NextToken *string          `json:"nextToken"`
	}
	suite.decode(w, &page)
	suite.Len(page.Entries, 2)
	suite.NotNil(page.NextToken)
}

func (suite *HandlerTestSuite) TestRejectTask_BlankReason() {
	w := suite.do(http.MethodPost, "/api/v1/tasks/"+suite.reviewTask.TaskID+"/reject", &suite.architect, map[string]any{"reason": "   "})
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(w.Body.String(), services.RejectionReasonRequired)
}

func (suite *HandlerTestSuite) TestGetTask_HidesExistence() {
	w := suite.do(http.MethodGet, "/api/v1/tasks/"+uuid.NewString(), &suite.admin, nil)
	suite.Equal(http.StatusNotFound, w.Code)

	w = suite.do(http.MethodGet, "/api/v1/tasks/not-a-uuid", &suite.architect, nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *HandlerTestSuite) TestCheckAccess() {
	w := suite.do(http.MethodGet, "/api/v1/access/task/"+suite.reviewTask.TaskID, &suite.siteEngineer, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var decision map[string]any
	suite.decode(w, &decision)
	suite.Equal(true, decision["allowed"])
	suite.Equal("task", decision["kind"])

	w = suite.do(http.MethodGet, "/api/v1/access/project/"+suite.project.ProjectID, &suite.vendor, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.decode(w, &decision)
	suite.Equal(false, decision["allowed"])

	w = suite.do(http.MethodGet, "/api/v1/access/invoice/"+uuid.NewString(), &suite.admin, nil)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestReconcile_AdminOnly() {
	w := suite.do(http.MethodPost, "/api/v1/admin/settlements/reconcile", &suite.architect, nil)
	suite.Equal(http.StatusForbidden, w.Code)

	w = suite.do(http.MethodPost, "/api/v1/admin/settlements/reconcile?limit=10", &suite.admin, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var summary map[string]any
	suite.decode(w, &summary)
	suite.EqualValues(0, summary["scanned"])
}

func (suite *HandlerTestSuite) TestPreviewSettlement() {
	w := suite.do(http.MethodPost, "/api/v1/settlements/preview", &suite.architect, map[string]any{
		"grossAmount":    "100000",
		"progress":       "50",
		"previousPaid":   "20000",
		"projectTotal":   "200000",
		"penaltyPercent": "5",
	})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var breakdown domain.PayoutBreakdown
	suite.decode(w, &breakdown)
	suite.True(breakdown.FinalPayable.Equal(decimal.NewFromInt(77520)), breakdown.FinalPayable.String())
}

func (suite *HandlerTestSuite) TestOperationalRoutes() {
	w := suite.do(http.MethodGet, "/health", nil, nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("OK", w.Body.String())

	w = suite.do(http.MethodGet, "/metrics", nil, nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), "site_workflow_http_requests_total")
}

// --- Run Test Suite ---

func TestHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}
