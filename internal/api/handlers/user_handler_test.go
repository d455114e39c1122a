package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/edushare/edushare-backend/internal/api/response"
	"github.com/edushare/edushare-backend/internal/models"
	"github.com/edushare/edushare-backend/internal/repository"
	"github.com/edushare/edushare-backend/tests/mocks"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// UserHandlerTestSuite is the test suite for UserHandler
type UserHandlerTestSuite struct {
	suite.Suite
	echo         *echo.Echo
	handler      *UserHandler
	mockUserRepo *mocks.MockUserRepository
}

// SetupTest runs before each test
func (s *UserHandlerTestSuite) SetupTest() {
	s.echo = echo.New()
	s.mockUserRepo = new(mocks.MockUserRepository)
	s.handler = NewUserHandler(s.mockUserRepo)
}

// TearDownTest runs after each test
func (s *UserHandlerTestSuite) TearDownTest() {
	s.mockUserRepo.AssertExpectations(s.T())
}

// TestUserHandlerTestSuite runs the test suite
func TestUserHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(UserHandlerTestSuite))
}

// Helper function to create a test context
func (s *UserHandlerTestSuite) createContext(method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := s.echo.NewContext(req, rec)
	return c, rec
}

// TestCreate_Success tests registering a user
func (s *UserHandlerTestSuite) TestCreate_Success() {
	// Arrange
	body := `{"email":"alice@example.com","full_name":"Alice Wong"}`
	c, rec := s.createContext(http.MethodPost, "/api/users", body)

	s.mockUserRepo.On("Create", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
		return u.Email == "alice@example.com" && u.FullName == "Alice Wong"
	})).Return(nil)

	// Act
	err := s.handler.Create(c)

	// Assert
	s.NoError(err)
	s.Equal(http.StatusCreated, rec.Code)
}

// TestCreate_Duplicate tests registering an existing email
func (s *UserHandlerTestSuite) TestCreate_Duplicate() {
	// Arrange
	body := `{"email":"alice@example.com","full_name":"Alice Wong"}`
	c, rec := s.createContext(http.MethodPost, "/api/users", body)

	s.mockUserRepo.On("Create", mock.Anything, mock.Anything).Return(repository.ErrDuplicateEntry)

	// Act
	err := s.handler.Create(c)

	// Assert
	s.NoError(err)
	s.Equal(http.StatusConflict, rec.Code)
}

// TestCreate_InvalidEmail tests registering with a malformed email
func (s *UserHandlerTestSuite) TestCreate_InvalidEmail() {
	// Arrange
	body := `{"email":"not-an-email"}`
	c, rec := s.createContext(http.MethodPost, "/api/users", body)

	// Act
	err := s.handler.Create(c)

	// Assert
	s.NoError(err)
	s.Equal(http.StatusBadRequest, rec.Code)
}

// TestGet_Success tests fetching a user by email
func (s *UserHandlerTestSuite) TestGet_Success() {
	// Arrange
	user := &models.User{Email: "alice@example.com", FullName: "Alice Wong"}
	c, rec := s.createContext(http.MethodGet, "/api/users/alice@example.com", "")
	c.SetParamNames("email")
	c.SetParamValues("alice@example.com")

	s.mockUserRepo.On("GetByEmail", mock.Anything, "alice@example.com").Return(user, nil)

	// Act
	err := s.handler.Get(c)

	// Assert
	s.NoError(err)
	s.Equal(http.StatusOK, rec.Code)
}

// TestGet_NotFound tests fetching a non-existent user
func (s *UserHandlerTestSuite) TestGet_NotFound() {
	// Arrange
	c, rec := s.createContext(http.MethodGet, "/api/users/ghost@example.com", "")
	c.SetParamNames("email")
	c.SetParamValues("ghost@example.com")

	s.mockUserRepo.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, repository.ErrNotFound)

	// Act
	err := s.handler.Get(c)

	// Assert
	s.NoError(err)
	s.Equal(http.StatusNotFound, rec.Code)
}

// TestList_Success tests the paginated member list
func (s *UserHandlerTestSuite) TestList_Success() {
	// Arrange
	users := []models.User{
		{Email: "alice@example.com"},
		{Email: "bob@example.com"},
	}
	c, rec := s.createContext(http.MethodGet, "/api/users?limit=10&offset=0", "")

	s.mockUserRepo.On("List", mock.Anything, 10, 0).Return(users, int64(2), nil)

	// Act
	err := s.handler.List(c)

	// Assert
	s.NoError(err)
	s.Equal(http.StatusOK, rec.Code)

	var resp response.PaginatedResponse
	json.Unmarshal(rec.Body.Bytes(), &resp)
	s.True(resp.Success)
	s.Equal(int64(2), resp.Meta.Total)
}

// TestList_InternalError tests the member list when the repository fails
func (s *UserHandlerTestSuite) TestList_InternalError() {
	// Arrange
	c, rec := s.createContext(http.MethodGet, "/api/users", "")

	s.mockUserRepo.On("List", mock.Anything, 20, 0).Return(nil, int64(0), errors.New("database error"))

	// Act
	err := s.handler.List(c)

	// Assert
	s.NoError(err)
	s.Equal(http.StatusInternalServerError, rec.Code)
}

// TestUpdateProfile_Success tests updating profile fields
func (s *UserHandlerTestSuite) TestUpdateProfile_Success() {
	// Arrange
	body := `{"full_name":"Alice W.","location":"Tampines"}`
	c, rec := s.createContext(http.MethodPatch, "/api/users/alice@example.com", body)
	c.SetParamNames("email")
	c.SetParamValues("alice@example.com")

	updated := &models.User{Email: "alice@example.com", FullName: "Alice W.", Location: "Tampines"}
	s.mockUserRepo.On("UpdateProfile", mock.Anything, "alice@example.com", mock.MatchedBy(func(u *models.User) bool {
		return u.FullName == "Alice W." && u.Location == "Tampines"
	})).Return(nil)
	s.mockUserRepo.On("GetByEmail", mock.Anything, "alice@example.com").Return(updated, nil)

	// Act
	err := s.handler.UpdateProfile(c)

	// Assert
	s.NoError(err)
	s.Equal(http.StatusOK, rec.Code)
}

// TestUpdateProfile_NotFound tests updating a non-existent user
func (s *UserHandlerTestSuite) TestUpdateProfile_NotFound() {
	// Arrange
	body := `{"full_name":"Ghost"}`
	c, rec := s.createContext(http.MethodPatch, "/api/users/ghost@example.com", body)
	c.SetParamNames("email")
	c.SetParamValues("ghost@example.com")

	s.mockUserRepo.On("UpdateProfile", mock.Anything, "ghost@example.com", mock.Anything).Return(repository.ErrNotFound)

	// Act
	err := s.handler.UpdateProfile(c)

	// Assert
	s.NoError(err)
	s.Equal(http.StatusNotFound, rec.Code)
}
