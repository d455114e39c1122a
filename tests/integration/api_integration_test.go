//go:build integration

package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/edushare/edushare-backend/internal/api/handlers"
	"github.com/edushare/edushare-backend/internal/conversation"
	"github.com/edushare/edushare-backend/internal/models"
	"github.com/edushare/edushare-backend/internal/repository"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// APIIntegrationTestSuite tests API handlers with a real database
type APIIntegrationTestSuite struct {
	suite.Suite
	container           testcontainers.Container
	db                  *gorm.DB
	echo                *echo.Echo
	messageHandler      *handlers.MessageHandler
	conversationHandler *handlers.ConversationHandler
	userHandler         *handlers.UserHandler
	itemHandler         *handlers.ItemHandler
	messageRepo         repository.MessageRepository
	userRepo            repository.UserRepository
	itemRepo            repository.ItemRepository
}

// SetupSuite starts PostgreSQL container and initializes API handlers
func (s *APIIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	// Start PostgreSQL container
	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "edushare_api_test",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(s.T(), err)
	s.container = container

	// Get connection details
	host, err := container.Host(ctx)
	require.NoError(s.T(), err)

	port, err := container.MappedPort(ctx, "5432")
	require.NoError(s.T(), err)

	dsn := fmt.Sprintf("host=%s port=%s user=test password=test dbname=edushare_api_test sslmode=disable",
		host, port.Port())

	// Connect to database
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(s.T(), err)
	s.db = db

	// Run migrations
	err = db.AutoMigrate(&models.User{}, &models.Item{}, &models.Message{})
	require.NoError(s.T(), err)

	// Initialize repositories
	s.messageRepo = repository.NewMessageRepository(db)
	s.userRepo = repository.NewUserRepository(db)
	s.itemRepo = repository.NewItemRepository(db)

	// Initialize handlers
	s.messageHandler = handlers.NewMessageHandler(s.messageRepo, s.userRepo, nil, true)
	s.conversationHandler = handlers.NewConversationHandler(s.messageRepo, s.userRepo)
	s.userHandler = handlers.NewUserHandler(s.userRepo)
	s.itemHandler = handlers.NewItemHandler(s.itemRepo)

	// Setup Echo
	s.echo = echo.New()
}

// TearDownSuite stops the PostgreSQL container
func (s *APIIntegrationTestSuite) TearDownSuite() {
	if s.container != nil {
		s.container.Terminate(context.Background())
	}
}

// SetupTest cleans up data before each test
func (s *APIIntegrationTestSuite) SetupTest() {
	s.db.Exec("TRUNCATE TABLE messages, items, users RESTART IDENTITY CASCADE")
}

// TestAPIIntegrationTestSuite runs the test suite
func TestAPIIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(APIIntegrationTestSuite))
}

func (s *APIIntegrationTestSuite) request(method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := s.echo.NewContext(req, rec)
	return c, rec
}

func (s *APIIntegrationTestSuite) sendMessage(sender, receiver, body string) {
	payload := fmt.Sprintf(`{"sender_email":%q,"receiver_email":%q,"body":%q}`, sender, receiver, body)
	c, rec := s.request(http.MethodPost, "/api/messages", payload)
	require.NoError(s.T(), s.messageHandler.Create(c))
	require.Equal(s.T(), http.StatusCreated, rec.Code)
}

// TestMessageFlow_CreateAndAggregate sends messages and checks the
// derived conversation list for both participants
func (s *APIIntegrationTestSuite) TestMessageFlow_CreateAndAggregate() {
	s.sendMessage("bob@example.com", "alice@example.com", "Interested in the calculator.")
	s.sendMessage("alice@example.com", "bob@example.com", "It is yours if you want it.")
	s.sendMessage("carol@example.com", "alice@example.com", "Any chance the atlas is left?")

	// Alice sees two conversations, most recent first
	c, rec := s.request(http.MethodGet, "/api/conversations?viewer=alice@example.com", "")
	require.NoError(s.T(), s.conversationHandler.List(c))
	require.Equal(s.T(), http.StatusOK, rec.Code)

	var envelope struct {
		Data handlers.ConversationListResponse `json:"data"`
	}
	require.NoError(s.T(), json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.Len(s.T(), envelope.Data.Conversations, 2)
	s.Equal("carol@example.com", envelope.Data.Conversations[0].CounterpartEmail)
	s.Equal("bob@example.com", envelope.Data.Conversations[1].CounterpartEmail)
	s.Equal(int64(2), envelope.Data.TotalUnread)

	// Bob sees one conversation with one unread
	c, rec = s.request(http.MethodGet, "/api/conversations?viewer=bob@example.com", "")
	require.NoError(s.T(), s.conversationHandler.List(c))

	envelope.Data = handlers.ConversationListResponse{}
	require.NoError(s.T(), json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.Len(s.T(), envelope.Data.Conversations, 1)
	s.Equal(1, envelope.Data.Conversations[0].UnreadCount)
}

// TestMessageFlow_AutoCreatesUsers verifies participant provisioning
func (s *APIIntegrationTestSuite) TestMessageFlow_AutoCreatesUsers() {
	s.sendMessage("new@example.com", "other@example.com", "Hello")

	user, err := s.userRepo.GetByEmail(context.Background(), "new@example.com")
	require.NoError(s.T(), err)
	s.Equal("new@example.com", user.Email)

	user, err = s.userRepo.GetByEmail(context.Background(), "other@example.com")
	require.NoError(s.T(), err)
	s.Equal("other@example.com", user.Email)
}

// TestThreadOpen_MarksRead verifies opening a thread clears unread state
func (s *APIIntegrationTestSuite) TestThreadOpen_MarksRead() {
	s.sendMessage("bob@example.com", "alice@example.com", "First")
	s.sendMessage("bob@example.com", "alice@example.com", "Second")

	key := conversation.Key("alice@example.com", "bob@example.com")
	c, rec := s.request(http.MethodGet, "/api/conversations/"+key+"/messages?viewer=alice@example.com", "")
	c.SetParamNames("id")
	c.SetParamValues(key)
	require.NoError(s.T(), s.conversationHandler.Messages(c))
	require.Equal(s.T(), http.StatusOK, rec.Code)

	var envelope struct {
		Data handlers.ThreadResponse `json:"data"`
	}
	require.NoError(s.T(), json.Unmarshal(rec.Body.Bytes(), &envelope))
	s.Equal(int64(2), envelope.Data.MarkedRead)
	require.Len(s.T(), envelope.Data.Messages, 2)
	s.True(envelope.Data.Messages[0].Read)
	s.True(envelope.Data.Messages[1].Read)

	// Unread count drops to zero
	count, err := s.messageRepo.CountUnread(context.Background(), "alice@example.com")
	require.NoError(s.T(), err)
	s.Equal(int64(0), count)

	// Opening again marks nothing further
	c, rec = s.request(http.MethodGet, "/api/conversations/"+key+"/messages?viewer=alice@example.com", "")
	c.SetParamNames("id")
	c.SetParamValues(key)
	require.NoError(s.T(), s.conversationHandler.Messages(c))

	envelope.Data = handlers.ThreadResponse{}
	require.NoError(s.T(), json.Unmarshal(rec.Body.Bytes(), &envelope))
	s.Equal(int64(0), envelope.Data.MarkedRead)
}

// TestConversationSearch filters by counterpart name and message body
func (s *APIIntegrationTestSuite) TestConversationSearch() {
	require.NoError(s.T(), s.userRepo.Create(context.Background(), &models.User{
		Email:    "carol@example.com",
		FullName: "Carol Lim",
	}))

	s.sendMessage("bob@example.com", "alice@example.com", "Interested in the calculator.")
	s.sendMessage("carol@example.com", "alice@example.com", "Any chance the atlas is left?")

	// Match on display name
	c, rec := s.request(http.MethodGet, "/api/conversations?viewer=alice@example.com&q=carol+lim", "")
	require.NoError(s.T(), s.conversationHandler.List(c))

	var envelope struct {
		Data handlers.ConversationListResponse `json:"data"`
	}
	require.NoError(s.T(), json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.Len(s.T(), envelope.Data.Conversations, 1)
	s.Equal("carol@example.com", envelope.Data.Conversations[0].CounterpartEmail)

	// Match on last message body
	c, rec = s.request(http.MethodGet, "/api/conversations?viewer=alice@example.com&q=calculator", "")
	require.NoError(s.T(), s.conversationHandler.List(c))

	envelope.Data = handlers.ConversationListResponse{}
	require.NoError(s.T(), json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.Len(s.T(), envelope.Data.Conversations, 1)
	s.Equal("bob@example.com", envelope.Data.Conversations[0].CounterpartEmail)
}

// TestMessageFlag flags and unflags a message
func (s *APIIntegrationTestSuite) TestMessageFlag() {
	s.sendMessage("bob@example.com", "alice@example.com", "Suspicious offer")

	c, rec := s.request(http.MethodPatch, "/api/messages/1/flag", "{}")
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(s.T(), s.messageHandler.Flag(c))
	require.Equal(s.T(), http.StatusOK, rec.Code)

	msg, err := s.messageRepo.GetByID(context.Background(), 1)
	require.NoError(s.T(), err)
	s.True(msg.Flagged)

	c, _ = s.request(http.MethodPatch, "/api/messages/1/flag", `{"flagged":false}`)
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(s.T(), s.messageHandler.Flag(c))

	msg, err = s.messageRepo.GetByID(context.Background(), 1)
	require.NoError(s.T(), err)
	s.False(msg.Flagged)
}

// TestUserLifecycle registers, fetches and updates a user
func (s *APIIntegrationTestSuite) TestUserLifecycle() {
	c, rec := s.request(http.MethodPost, "/api/users", `{"email":"alice@example.com","full_name":"Alice Wong"}`)
	require.NoError(s.T(), s.userHandler.Create(c))
	require.Equal(s.T(), http.StatusCreated, rec.Code)

	// Duplicate registration conflicts
	c, rec = s.request(http.MethodPost, "/api/users", `{"email":"alice@example.com","full_name":"Alice Wong"}`)
	require.NoError(s.T(), s.userHandler.Create(c))
	require.Equal(s.T(), http.StatusConflict, rec.Code)

	// Profile update persists
	c, rec = s.request(http.MethodPatch, "/api/users/alice@example.com", `{"full_name":"Alice W.","location":"Tampines"}`)
	c.SetParamNames("email")
	c.SetParamValues("alice@example.com")
	require.NoError(s.T(), s.userHandler.UpdateProfile(c))
	require.Equal(s.T(), http.StatusOK, rec.Code)

	user, err := s.userRepo.GetByEmail(context.Background(), "alice@example.com")
	require.NoError(s.T(), err)
	s.Equal("Alice W.", user.FullName)
	s.Equal("Tampines", user.Location)
}

// TestItemLifecycle lists, transitions and deletes an item
func (s *APIIntegrationTestSuite) TestItemLifecycle() {
	c, rec := s.request(http.MethodPost, "/api/items", `{"name":"Geometry set","category":"supplies","created_by":"alice@example.com"}`)
	require.NoError(s.T(), s.itemHandler.Create(c))
	require.Equal(s.T(), http.StatusCreated, rec.Code)

	var created struct {
		Data models.Item `json:"data"`
	}
	require.NoError(s.T(), json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotEmpty(s.T(), created.Data.ID)
	s.Equal(models.ItemStatusAvailable, created.Data.Status)

	// Reserve it
	c, rec = s.request(http.MethodPatch, "/api/items/"+created.Data.ID+"/status", `{"status":"reserved"}`)
	c.SetParamNames("id")
	c.SetParamValues(created.Data.ID)
	require.NoError(s.T(), s.itemHandler.UpdateStatus(c))
	require.Equal(s.T(), http.StatusOK, rec.Code)

	item, err := s.itemRepo.GetByID(context.Background(), created.Data.ID)
	require.NoError(s.T(), err)
	s.Equal(models.ItemStatusReserved, item.Status)

	// Delete it
	c, rec = s.request(http.MethodDelete, "/api/items/"+created.Data.ID, "")
	c.SetParamNames("id")
	c.SetParamValues(created.Data.ID)
	require.NoError(s.T(), s.itemHandler.Delete(c))
	require.Equal(s.T(), http.StatusNoContent, rec.Code)

	_, err = s.itemRepo.GetByID(context.Background(), created.Data.ID)
	s.ErrorIs(err, repository.ErrNotFound)
}
