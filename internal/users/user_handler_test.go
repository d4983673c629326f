package users

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"labhouse/pkg/apperrors"
	"labhouse/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) PersistUser(req models.CreateUserRequest, hashedPassword []byte) error {
	args := m.Called(req, hashedPassword)
	return args.Error(0)
}

func (m *MockUserRepository) GetUser(id int) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetUsers() ([]models.User, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserRepository) UpdateUser(id int, changes map[string]interface{}) error {
	args := m.Called(id, changes)
	return args.Error(0)
}

func (m *MockUserRepository) DeleteUser(id int) error {
	args := m.Called(id)
	return args.Error(0)
}

func setupTestContext() (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("userID", float64(1))
	c.Set("role", "admin")
	return c, w
}

func TestRegisterUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockRepo := new(MockUserRepository)
	handler := NewHandler(mockRepo, zap.NewNop())

	tests := []struct {
		name           string
		payload        models.CreateUserRequest
		setupMock      func()
		expectedStatus int
	}{
		{
			name: "successful registration",
			payload: models.CreateUserRequest{
				Username: "jkowalski",
				Password: "password123",
				Fullname: "Jan Kowalski",
				Role:     "student",
			},
			setupMock: func() {
				mockRepo.On("PersistUser", mock.Anything, mock.Anything).Return(nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "unknown role",
			payload: models.CreateUserRequest{
				Username: "jkowalski",
				Password: "password123",
				Fullname: "Jan Kowalski",
				Role:     "superuser",
			},
			setupMock:      func() {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "password too short",
			payload: models.CreateUserRequest{
				Username: "jkowalski",
				Password: "123",
				Fullname: "Jan Kowalski",
				Role:     "student",
			},
			setupMock:      func() {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "username taken",
			payload: models.CreateUserRequest{
				Username: "jkowalski",
				Password: "password123",
				Fullname: "Jan Kowalski",
				Role:     "student",
			},
			setupMock: func() {
				mockRepo.On("PersistUser", mock.Anything, mock.Anything).
					Return(apperrors.WrapDBError("Username is already taken", "23505"))
			},
			expectedStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo.ExpectedCalls = nil
			tt.setupMock()
			c, w := setupTestContext()

			body, _ := json.Marshal(tt.payload)
			c.Request = httptest.NewRequest("POST", "/users", bytes.NewBuffer(body))

			handler.RegisterUser(c)

			assert.Equal(t, tt.expectedStatus, w.Code)
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestGetUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockRepo := new(MockUserRepository)
	handler := NewHandler(mockRepo, zap.NewNop())

	tests := []struct {
		name           string
		userID         string
		actorID        float64
		actorRole      string
		setupMock      func()
		expectedStatus int
	}{
		{
			name:      "staff reads any profile",
			userID:    "2",
			actorID:   1,
			actorRole: "aslab",
			setupMock: func() {
				mockRepo.On("GetUser", 2).Return(&models.User{ID: 2, Username: "jkowalski"}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:      "student reads own profile",
			userID:    "1",
			actorID:   1,
			actorRole: "student",
			setupMock: func() {
				mockRepo.On("GetUser", 1).Return(&models.User{ID: 1, Username: "self"}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "student blocked from other profile",
			userID:         "2",
			actorID:        1,
			actorRole:      "student",
			setupMock:      func() {},
			expectedStatus: http.StatusForbidden,
		},
		{
			name:      "user not found",
			userID:    "999",
			actorID:   1,
			actorRole: "admin",
			setupMock: func() {
				mockRepo.On("GetUser", 999).Return(nil, &apperrors.NotFoundError{Resource: "user", ID: 999})
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo.ExpectedCalls = nil
			tt.setupMock()
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Set("userID", tt.actorID)
			c.Set("role", tt.actorRole)

			c.Request = httptest.NewRequest("GET", "/users/"+tt.userID, nil)
			c.Params = []gin.Param{{Key: "id", Value: tt.userID}}

			handler.GetUser(c)

			assert.Equal(t, tt.expectedStatus, w.Code)
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestGetUserList(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockRepo := new(MockUserRepository)
	handler := NewHandler(mockRepo, zap.NewNop())

	tests := []struct {
		name           string
		setupMock      func()
		expectedStatus int
	}{
		{
			name: "successful list retrieval",
			setupMock: func() {
				mockRepo.On("GetUsers").Return([]models.User{
					{ID: 1, Username: "user1"},
					{ID: 2, Username: "user2"},
				}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "repository error",
			setupMock: func() {
				mockRepo.On("GetUsers").Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo.ExpectedCalls = nil
			tt.setupMock()
			c, w := setupTestContext()
			c.Request = httptest.NewRequest("GET", "/users", nil)

			handler.GetUserList(c)

			assert.Equal(t, tt.expectedStatus, w.Code)
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestUpdateUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockRepo := new(MockUserRepository)
	handler := NewHandler(mockRepo, zap.NewNop())

	tests := []struct {
		name           string
		userID         string
		payload        models.UserChanges
		setupMock      func()
		expectedStatus int
	}{
		{
			name:   "successful role change",
			userID: "1",
			payload: models.UserChanges{
				Fullname: stringPtr("Updated Name"),
				Role:     stringPtr("aslab"),
			},
			setupMock: func() {
				mockRepo.On("UpdateUser", 1, mock.MatchedBy(func(changes map[string]interface{}) bool {
					return changes["role"] == "aslab" && changes["fullname"] == "Updated Name"
				})).Return(nil)
				mockRepo.On("GetUser", 1).Return(&models.User{ID: 1, Username: "jkowalski", Role: "aslab"}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "password update is hashed",
			userID: "1",
			payload: models.UserChanges{
				Password: stringPtr("newPassword123"),
			},
			setupMock: func() {
				mockRepo.On("UpdateUser", 1, mock.MatchedBy(func(changes map[string]interface{}) bool {
					hash, ok := changes["password_hash"].(string)
					return ok && hash != "newPassword123"
				})).Return(nil)
				mockRepo.On("GetUser", 1).Return(&models.User{ID: 1, Username: "jkowalski"}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "password too short",
			userID: "1",
			payload: models.UserChanges{
				Password: stringPtr("123"),
			},
			setupMock:      func() {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:   "unknown role rejected",
			userID: "1",
			payload: models.UserChanges{
				Role: stringPtr("superuser"),
			},
			setupMock:      func() {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:   "user not found",
			userID: "999",
			payload: models.UserChanges{
				Fullname: stringPtr("Updated Name"),
			},
			setupMock: func() {
				mockRepo.On("UpdateUser", 999, mock.Anything).
					Return(&apperrors.NotFoundError{Resource: "user", ID: 999})
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo.ExpectedCalls = nil
			tt.setupMock()
			c, w := setupTestContext()

			body, _ := json.Marshal(tt.payload)
			c.Request = httptest.NewRequest("PATCH", "/users/"+tt.userID, bytes.NewBuffer(body))
			c.Params = []gin.Param{{Key: "id", Value: tt.userID}}

			handler.UpdateUser(c)

			assert.Equal(t, tt.expectedStatus, w.Code)
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestDeleteUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockRepo := new(MockUserRepository)
	handler := NewHandler(mockRepo, zap.NewNop())

	tests := []struct {
		name           string
		userID         string
		setupMock      func()
		expectedStatus int
	}{
		{
			name:   "successful deletion",
			userID: "1",
			setupMock: func() {
				mockRepo.On("DeleteUser", 1).Return(nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "invalid user ID",
			userID:         "invalid",
			setupMock:      func() {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:   "user not found",
			userID: "999",
			setupMock: func() {
				mockRepo.On("DeleteUser", 999).Return(&apperrors.NotFoundError{Resource: "user", ID: 999})
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:   "user still referenced",
			userID: "1",
			setupMock: func() {
				mockRepo.On("DeleteUser", 1).
					Return(apperrors.WrapDBError("user has borrowing records", "23503"))
			},
			expectedStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo.ExpectedCalls = nil
			tt.setupMock()
			c, w := setupTestContext()

			c.Request = httptest.NewRequest("DELETE", "/users/"+tt.userID, nil)
			c.Params = []gin.Param{{Key: "id", Value: tt.userID}}

			handler.DeleteUser(c)

			assert.Equal(t, tt.expectedStatus, w.Code)
			mockRepo.AssertExpectations(t)
		})
	}
}

func stringPtr(s string) *string {
	return &s
}
