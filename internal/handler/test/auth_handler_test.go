package test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"tagfeed/internal/apperror"
	"tagfeed/internal/models"
	"tagfeed/internal/service"
)

func TestSignupHandler(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		body           string
		mockSetup      func(*MockAuthService)
		expectedStatus int
		expectedMsg    string
		expectedFields []string
	}{
		{
			name:   "Successful signup",
			method: http.MethodPost,
			body:   `{"name":"Ann","email":"Ann@X.com","password":"abc123"}`,
			mockSetup: func(m *MockAuthService) {
				m.On("Register", mock.Anything, service.RegisterInput{Name: "Ann", Email: "Ann@X.com", Password: "abc123"}).
					Return(&service.AuthResult{
						Token: "token",
						User:  models.UserSummary{UserID: "user-1", Name: "Ann", Email: "ann@x.com"},
					}, nil)
			},
			expectedStatus: http.StatusCreated,
			expectedMsg:    "User registered successfully",
		},
		{
			name:   "Validation failure",
			method: http.MethodPost,
			body:   `{"name":"","email":"bad","password":"abc"}`,
			mockSetup: func(m *MockAuthService) {
				m.On("Register", mock.Anything, mock.Anything).
					Return(nil, apperror.Validation("Validation failed",
						apperror.FieldError{Field: "name", Message: "name is required"},
						apperror.FieldError{Field: "email", Message: "email must be a valid email address"},
					))
			},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "Validation failed",
			expectedFields: []string{"name", "email"},
		},
		{
			name:   "Email taken",
			method: http.MethodPost,
			body:   `{"name":"Ann","email":"ann@x.com","password":"abc123"}`,
			mockSetup: func(m *MockAuthService) {
				m.On("Register", mock.Anything, mock.Anything).Return(nil, apperror.Conflict("Email is already registered"))
			},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "Email is already registered",
		},
		{
			name:           "Malformed JSON",
			method:         http.MethodPost,
			body:           `{"name":`,
			mockSetup:      func(m *MockAuthService) {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "Invalid JSON body",
		},
		{
			name:           "Unknown field",
			method:         http.MethodPost,
			body:           `{"name":"Ann","email":"ann@x.com","password":"abc123","role":"admin"}`,
			mockSetup:      func(m *MockAuthService) {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "Invalid JSON body",
		},
		{
			name:           "Trailing data",
			method:         http.MethodPost,
			body:           `{"name":"Ann","email":"ann@x.com","password":"abc123"}{"name":"Bob"}`,
			mockSetup:      func(m *MockAuthService) {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "Invalid JSON body",
		},
		{
			name:           "Wrong method",
			method:         http.MethodGet,
			mockSetup:      func(m *MockAuthService) {},
			expectedStatus: http.StatusMethodNotAllowed,
			expectedMsg:    "Method not allowed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newTestDeps()
			tt.mockSetup(d.auth)

			req := httptest.NewRequest(tt.method, "/api/signup", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rr := httptest.NewRecorder()

			d.router().ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

			env := decodeEnvelope(t, rr)
			assert.Equal(t, tt.expectedStatus < 300, env.Success)
			assert.Equal(t, tt.expectedMsg, env.Message)

			var fields []string
			for _, f := range env.Errors {
				fields = append(fields, f.Field)
			}
			assert.Equal(t, tt.expectedFields, fields)

			d.auth.AssertExpectations(t)
		})
	}
}

func TestSignupHandler_ResponseShape(t *testing.T) {
	d := newTestDeps()
	d.auth.On("Register", mock.Anything, mock.Anything).Return(&service.AuthResult{
		Token: "token",
		User:  models.UserSummary{UserID: "user-1", Name: "Ann", Email: "ann@x.com"},
	}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/signup", bytes.NewBufferString(`{"name":"Ann","email":"Ann@X.com","password":"abc123"}`))
	rr := httptest.NewRecorder()
	d.router().ServeHTTP(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)

	var data struct {
		Token string `json:"token"`
		User  struct {
			ID       string  `json:"id"`
			Email    string  `json:"email"`
			Password *string `json:"password"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rr).Data, &data))
	assert.Equal(t, "token", data.Token)
	assert.Equal(t, "ann@x.com", data.User.Email)
	assert.Nil(t, data.User.Password)
	assert.NotContains(t, rr.Body.String(), "password")
}

func TestLoginHandler(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		body           string
		mockSetup      func(*MockAuthService)
		expectedStatus int
		expectedMsg    string
	}{
		{
			name:   "Successful login",
			method: http.MethodPost,
			body:   `{"email":"ann@x.com","password":"abc123"}`,
			mockSetup: func(m *MockAuthService) {
				m.On("Login", mock.Anything, service.LoginInput{Email: "ann@x.com", Password: "abc123"}).
					Return(&service.AuthResult{Token: "token", User: models.UserSummary{UserID: "user-1"}}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedMsg:    "Login successful",
		},
		{
			name:   "Invalid credentials",
			method: http.MethodPost,
			body:   `{"email":"ann@x.com","password":"wrong1"}`,
			mockSetup: func(m *MockAuthService) {
				m.On("Login", mock.Anything, mock.Anything).Return(nil, apperror.Authentication("Invalid email or password"))
			},
			expectedStatus: http.StatusUnauthorized,
			expectedMsg:    "Invalid email or password",
		},
		{
			name:   "Unexpected failure",
			method: http.MethodPost,
			body:   `{"email":"ann@x.com","password":"abc123"}`,
			mockSetup: func(m *MockAuthService) {
				m.On("Login", mock.Anything, mock.Anything).Return(nil, apperror.Internal(errors.New("db gone")))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedMsg:    "db gone",
		},
		{
			name:           "Wrong method",
			method:         http.MethodPut,
			mockSetup:      func(m *MockAuthService) {},
			expectedStatus: http.StatusMethodNotAllowed,
			expectedMsg:    "Method not allowed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newTestDeps()
			tt.mockSetup(d.auth)

			req := httptest.NewRequest(tt.method, "/api/login", bytes.NewBufferString(tt.body))
			rr := httptest.NewRecorder()

			d.router().ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			assert.Equal(t, tt.expectedMsg, decodeEnvelope(t, rr).Message)
			d.auth.AssertExpectations(t)
		})
	}
}

func TestLoginHandler_HidesInternalDetailInProduction(t *testing.T) {
	d := newTestDeps()
	d.cfg.Env = "production"
	d.auth.On("Login", mock.Anything, mock.Anything).Return(nil, apperror.Internal(errors.New("db gone")))

	req := httptest.NewRequest(http.MethodPost, "/api/login", bytes.NewBufferString(`{"email":"ann@x.com","password":"abc123"}`))
	rr := httptest.NewRecorder()
	d.router().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "Internal server error", decodeEnvelope(t, rr).Message)
	assert.NotContains(t, rr.Body.String(), "db gone")
}
