package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/mtsuda/groupware-api/internal/database"
	"github.com/mtsuda/groupware-api/internal/models"
	"github.com/mtsuda/groupware-api/internal/repository"
	"github.com/mtsuda/groupware-api/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// TaskHandlerTestSuite defines the test suite for TaskHandler
type TaskHandlerTestSuite struct {
	suite.Suite
	db      *gorm.DB
	handler *TaskHandler
}

// SetupTest runs before each test
func (suite *TaskHandlerTestSuite) SetupTest() {
	var err error

	// Create in-memory SQLite database
	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	// Run migrations
	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Task{},
		&models.Report{},
		&models.Stamp{},
	)
	suite.Require().NoError(err)

	// Set the test DB as the default database
	database.SetDB(suite.db)

	userRepo := repository.NewUserRepository(suite.db)
	taskRepo := repository.NewTaskRepository(suite.db)
	taskService := services.NewTaskService(taskRepo, userRepo)
	authService := services.NewAuthService(userRepo)
	suite.handler = NewTaskHandler(taskService, authService)

	// Set Gin to test mode
	gin.SetMode(gin.TestMode)
}

// TearDownTest runs after each test
func (suite *TaskHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

// Helper function to create test data
func (suite *TaskHandlerTestSuite) createTestUser(email string, role models.UserRole) *models.User {
	user := &models.User{
		Name:  "Test User",
		Email: email,
		Role:  role,
	}
	suite.db.Create(user)
	return user
}

func (suite *TaskHandlerTestSuite) createTestTask(title string, managerID, assignerID uint64, deadline time.Time) *models.Task {
	task := &models.Task{
		Title:       title,
		Description: "Test Description",
		Deadline:    deadline,
		Status:      models.TaskStatusOpen,
		ManagerID:   managerID,
		AssignerID:  assignerID,
	}
	suite.db.Create(task)
	return task
}

// Helper function to create authenticated context
func (suite *TaskHandlerTestSuite) createAuthContext(method, url string, body []byte, userID uint64) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Set("user_id", userID)

	return c, w
}

// TestListMyTasks_OrderedByDeadline tests that own tasks come back deadline ascending
func (suite *TaskHandlerTestSuite) TestListMyTasks_OrderedByDeadline() {
	manager := suite.createTestUser("manager@example.com", models.RoleAdmin)
	assignee := suite.createTestUser("assignee@example.com", models.RoleMember)

	later := time.Now().Add(72 * time.Hour)
	sooner := time.Now().Add(24 * time.Hour)
	suite.createTestTask("Later Task", manager.ID, assignee.ID, later)
	suite.createTestTask("Sooner Task", manager.ID, assignee.ID, sooner)
	// Someone else's task must not appear
	suite.createTestTask("Other Task", manager.ID, manager.ID, sooner)

	c, w := suite.createAuthContext("GET", "/api/my-tasks", nil, assignee.ID)

	suite.handler.ListMyTasks(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response []map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), response, 2)
	assert.Equal(suite.T(), "Sooner Task", response[0]["title"])
	assert.Equal(suite.T(), "Later Task", response[1]["title"])
}

// TestListMyTasks_Unauthorized tests listing without authentication
func (suite *TaskHandlerTestSuite) TestListMyTasks_Unauthorized() {
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/my-tasks", nil)
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	suite.handler.ListMyTasks(c)

	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}

// TestUpdateMyTaskProgress_Success tests a progress update with its report
func (suite *TaskHandlerTestSuite) TestUpdateMyTaskProgress_Success() {
	manager := suite.createTestUser("manager@example.com", models.RoleAdmin)
	assignee := suite.createTestUser("assignee@example.com", models.RoleMember)
	task := suite.createTestTask("Task", manager.ID, assignee.ID, time.Now().Add(24*time.Hour))

	requestBody := map[string]interface{}{
		"taskId":      task.ID,
		"newProgress": 50,
		"comment":     "halfway",
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("PATCH", "/api/my-tasks", body, assignee.ID)

	suite.handler.UpdateMyTaskProgress(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response models.Task
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 50, response.Progress)

	// Exactly one report, carrying the prior progress
	var reports []models.Report
	suite.db.Where("task_id = ?", task.ID).Find(&reports)
	assert.Len(suite.T(), reports, 1)
	assert.Equal(suite.T(), 0, reports[0].PreProgress)
	assert.Equal(suite.T(), 50, reports[0].Progress)
	assert.Equal(suite.T(), "halfway", reports[0].Comment)
}

// TestUpdateMyTaskProgress_ChainsPreProgress tests that consecutive updates
// record the stored progress immediately before each call
func (suite *TaskHandlerTestSuite) TestUpdateMyTaskProgress_ChainsPreProgress() {
	manager := suite.createTestUser("manager@example.com", models.RoleAdmin)
	assignee := suite.createTestUser("assignee@example.com", models.RoleMember)
	task := suite.createTestTask("Task", manager.ID, assignee.ID, time.Now().Add(24*time.Hour))

	for _, step := range []struct {
		progress int
		comment  string
	}{
		{50, "halfway"},
		{100, "done"},
	} {
		requestBody := map[string]interface{}{
			"taskId":      task.ID,
			"newProgress": step.progress,
			"comment":     step.comment,
		}
		body, _ := json.Marshal(requestBody)

		c, w := suite.createAuthContext("PATCH", "/api/my-tasks", body, assignee.ID)
		suite.handler.UpdateMyTaskProgress(c)
		assert.Equal(suite.T(), http.StatusOK, w.Code)
	}

	var reports []models.Report
	suite.db.Where("task_id = ?", task.ID).Order("id ASC").Find(&reports)
	suite.Require().Len(reports, 2)
	assert.Equal(suite.T(), 0, reports[0].PreProgress)
	assert.Equal(suite.T(), 50, reports[0].Progress)
	assert.Equal(suite.T(), 50, reports[1].PreProgress)
	assert.Equal(suite.T(), 100, reports[1].Progress)

	var updated models.Task
	suite.db.First(&updated, task.ID)
	assert.Equal(suite.T(), 100, updated.Progress)
}

// TestUpdateMyTaskProgress_NotAssigner tests that only the assigner can update
func (suite *TaskHandlerTestSuite) TestUpdateMyTaskProgress_NotAssigner() {
	manager := suite.createTestUser("manager@example.com", models.RoleAdmin)
	assignee := suite.createTestUser("assignee@example.com", models.RoleMember)
	intruder := suite.createTestUser("intruder@example.com", models.RoleMember)
	task := suite.createTestTask("Task", manager.ID, assignee.ID, time.Now().Add(24*time.Hour))

	requestBody := map[string]interface{}{
		"taskId":      task.ID,
		"newProgress": 80,
		"comment":     "not mine",
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("PATCH", "/api/my-tasks", body, intruder.ID)

	suite.handler.UpdateMyTaskProgress(c)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)

	// Stored progress unchanged, no report written
	var stored models.Task
	suite.db.First(&stored, task.ID)
	assert.Equal(suite.T(), 0, stored.Progress)

	var count int64
	suite.db.Model(&models.Report{}).Where("task_id = ?", task.ID).Count(&count)
	assert.Equal(suite.T(), int64(0), count)
}

// TestUpdateMyTaskProgress_OutOfRange tests progress bounds validation
func (suite *TaskHandlerTestSuite) TestUpdateMyTaskProgress_OutOfRange() {
	manager := suite.createTestUser("manager@example.com", models.RoleAdmin)
	assignee := suite.createTestUser("assignee@example.com", models.RoleMember)
	task := suite.createTestTask("Task", manager.ID, assignee.ID, time.Now().Add(24*time.Hour))

	for _, progress := range []int{-1, 101} {
		requestBody := map[string]interface{}{
			"taskId":      task.ID,
			"newProgress": progress,
			"comment":     "oops",
		}
		body, _ := json.Marshal(requestBody)

		c, w := suite.createAuthContext("PATCH", "/api/my-tasks", body, assignee.ID)
		suite.handler.UpdateMyTaskProgress(c)
		assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
	}

	var stored models.Task
	suite.db.First(&stored, task.ID)
	assert.Equal(suite.T(), 0, stored.Progress)
}

// TestUpdateMyTaskProgress_MissingComment tests that the comment is required
func (suite *TaskHandlerTestSuite) TestUpdateMyTaskProgress_MissingComment() {
	manager := suite.createTestUser("manager@example.com", models.RoleAdmin)
	assignee := suite.createTestUser("assignee@example.com", models.RoleMember)
	task := suite.createTestTask("Task", manager.ID, assignee.ID, time.Now().Add(24*time.Hour))

	requestBody := map[string]interface{}{
		"taskId":      task.ID,
		"newProgress": 30,
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("PATCH", "/api/my-tasks", body, assignee.ID)

	suite.handler.UpdateMyTaskProgress(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestUpdateMyTaskProgress_TaskNotFound tests updating a missing task
func (suite *TaskHandlerTestSuite) TestUpdateMyTaskProgress_TaskNotFound() {
	assignee := suite.createTestUser("assignee@example.com", models.RoleMember)

	requestBody := map[string]interface{}{
		"taskId":      9999,
		"newProgress": 10,
		"comment":     "ghost",
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("PATCH", "/api/my-tasks", body, assignee.ID)

	suite.handler.UpdateMyTaskProgress(c)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

// TestPostTasks_AddSuccess tests task creation by a manager
func (suite *TaskHandlerTestSuite) TestPostTasks_AddSuccess() {
	manager := suite.createTestUser("manager@example.com", models.RoleAdmin)
	assignee := suite.createTestUser("assignee@example.com", models.RoleMember)

	requestBody := map[string]interface{}{
		"action":      "add",
		"title":       "New Task",
		"description": "Quarterly report",
		"deadline":    "2026-09-30",
		"assigner_id": assignee.ID,
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("POST", "/api/tasks", body, manager.ID)

	suite.handler.PostTasks(c)

	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var stored models.Task
	err := suite.db.Where("title = ?", "New Task").First(&stored).Error
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 0, stored.Progress)
	assert.Equal(suite.T(), models.TaskStatusOpen, stored.Status)
	assert.Equal(suite.T(), manager.ID, stored.ManagerID)
	assert.Equal(suite.T(), assignee.ID, stored.AssignerID)
}

// TestPostTasks_AddMemberForbidden tests that members cannot create tasks
func (suite *TaskHandlerTestSuite) TestPostTasks_AddMemberForbidden() {
	member := suite.createTestUser("member@example.com", models.RoleMember)

	requestBody := map[string]interface{}{
		"action":      "add",
		"title":       "New Task",
		"description": "Quarterly report",
		"deadline":    "2026-09-30",
		"assigner_id": member.ID,
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("POST", "/api/tasks", body, member.ID)

	suite.handler.PostTasks(c)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

// TestPostTasks_AddMissingFields tests validation of required fields
func (suite *TaskHandlerTestSuite) TestPostTasks_AddMissingFields() {
	manager := suite.createTestUser("manager@example.com", models.RoleAdmin)
	assignee := suite.createTestUser("assignee@example.com", models.RoleMember)

	// Missing description
	requestBody := map[string]interface{}{
		"action":      "add",
		"title":       "New Task",
		"deadline":    "2026-09-30",
		"assigner_id": assignee.ID,
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("POST", "/api/tasks", body, manager.ID)

	suite.handler.PostTasks(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestPostTasks_AddAssignerMissing tests creation against an unknown assigner
func (suite *TaskHandlerTestSuite) TestPostTasks_AddAssignerMissing() {
	manager := suite.createTestUser("manager@example.com", models.RoleAdmin)

	requestBody := map[string]interface{}{
		"action":      "add",
		"title":       "New Task",
		"description": "Quarterly report",
		"deadline":    "2026-09-30",
		"assigner_id": 12345,
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("POST", "/api/tasks", body, manager.ID)

	suite.handler.PostTasks(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestPostTasks_BulkUpdateSuccess tests the bulk progress correction path
func (suite *TaskHandlerTestSuite) TestPostTasks_BulkUpdateSuccess() {
	manager := suite.createTestUser("manager@example.com", models.RoleAdmin)
	assignee := suite.createTestUser("assignee@example.com", models.RoleMember)
	task1 := suite.createTestTask("Task 1", manager.ID, assignee.ID, time.Now().Add(24*time.Hour))
	task2 := suite.createTestTask("Task 2", manager.ID, assignee.ID, time.Now().Add(48*time.Hour))

	requestBody := map[string]interface{}{
		"action": "updateProgress",
		"updates": []map[string]interface{}{
			{"id": task1.ID, "progress": 40},
			{"id": task2.ID, "progress": 70},
		},
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("POST", "/api/tasks", body, manager.ID)

	suite.handler.PostTasks(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var stored1, stored2 models.Task
	suite.db.First(&stored1, task1.ID)
	suite.db.First(&stored2, task2.ID)
	assert.Equal(suite.T(), 40, stored1.Progress)
	assert.Equal(suite.T(), 70, stored2.Progress)
}

// TestPostTasks_BulkUpdateMemberForbidden tests that the correction path is
// closed to non-admins, even for tasks assigned to someone else
func (suite *TaskHandlerTestSuite) TestPostTasks_BulkUpdateMemberForbidden() {
	manager := suite.createTestUser("manager@example.com", models.RoleAdmin)
	assignee := suite.createTestUser("assignee@example.com", models.RoleMember)
	intruder := suite.createTestUser("intruder@example.com", models.RoleMember)
	task := suite.createTestTask("Task 1", manager.ID, assignee.ID, time.Now().Add(24*time.Hour))

	requestBody := map[string]interface{}{
		"action": "updateProgress",
		"updates": []map[string]interface{}{
			{"id": task.ID, "progress": 99},
		},
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("POST", "/api/tasks", body, intruder.ID)

	suite.handler.PostTasks(c)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)

	// The task is untouched and no report appeared
	var stored models.Task
	suite.db.First(&stored, task.ID)
	assert.Equal(suite.T(), 0, stored.Progress)

	var reportCount int64
	suite.db.Model(&models.Report{}).Count(&reportCount)
	assert.Equal(suite.T(), int64(0), reportCount)
}

// TestPostTasks_BulkUpdatePartialFailure tests that the first failure stops
// the run but keeps already-applied updates
func (suite *TaskHandlerTestSuite) TestPostTasks_BulkUpdatePartialFailure() {
	manager := suite.createTestUser("manager@example.com", models.RoleAdmin)
	assignee := suite.createTestUser("assignee@example.com", models.RoleMember)
	task1 := suite.createTestTask("Task 1", manager.ID, assignee.ID, time.Now().Add(24*time.Hour))
	task2 := suite.createTestTask("Task 2", manager.ID, assignee.ID, time.Now().Add(48*time.Hour))

	requestBody := map[string]interface{}{
		"action": "updateProgress",
		"updates": []map[string]interface{}{
			{"id": task1.ID, "progress": 40},
			{"id": 9999, "progress": 50},
			{"id": task2.ID, "progress": 70},
		},
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("POST", "/api/tasks", body, manager.ID)

	suite.handler.PostTasks(c)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)

	// The first update sticks, the one after the failure is never applied
	var stored1, stored2 models.Task
	suite.db.First(&stored1, task1.ID)
	suite.db.First(&stored2, task2.ID)
	assert.Equal(suite.T(), 40, stored1.Progress)
	assert.Equal(suite.T(), 0, stored2.Progress)
}

// TestPostTasks_BulkUpdateEmpty tests the empty bulk update
func (suite *TaskHandlerTestSuite) TestPostTasks_BulkUpdateEmpty() {
	manager := suite.createTestUser("manager@example.com", models.RoleAdmin)

	requestBody := map[string]interface{}{
		"action":  "updateProgress",
		"updates": []map[string]interface{}{},
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("POST", "/api/tasks", body, manager.ID)

	suite.handler.PostTasks(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestPostTasks_InvalidAction tests an unknown action value
func (suite *TaskHandlerTestSuite) TestPostTasks_InvalidAction() {
	manager := suite.createTestUser("manager@example.com", models.RoleAdmin)

	requestBody := map[string]interface{}{
		"action": "explode",
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("POST", "/api/tasks", body, manager.ID)

	suite.handler.PostTasks(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestListTasks_FilterByAssigner tests the assigner filter on the task list
func (suite *TaskHandlerTestSuite) TestListTasks_FilterByAssigner() {
	manager := suite.createTestUser("manager@example.com", models.RoleAdmin)
	assignee := suite.createTestUser("assignee@example.com", models.RoleMember)
	suite.createTestTask("Mine", manager.ID, assignee.ID, time.Now().Add(24*time.Hour))
	suite.createTestTask("Theirs", manager.ID, manager.ID, time.Now().Add(24*time.Hour))

	c, w := suite.createAuthContext("GET", "/api/tasks", nil, manager.ID)
	c.Request.URL.RawQuery = "assigner_id=" + jsonNumber(assignee.ID)

	suite.handler.ListTasks(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	tasks := response["tasks"].([]interface{})
	suite.Require().Len(tasks, 1)
	first := tasks[0].(map[string]interface{})
	assert.Equal(suite.T(), "Mine", first["title"])
}

func jsonNumber(v uint64) string {
	b, _ := json.Marshal(v)
	return string(b)
}

// TestSuite runs the test suite
func TestTaskHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TaskHandlerTestSuite))
}
