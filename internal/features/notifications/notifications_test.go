package notifications

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xyz-asif/strayrescue/internal/features/identity"
	"github.com/xyz-asif/strayrescue/internal/store"
)

func newTestRepo(gw store.Gateway) *Repository {
	repo := NewRepository(gw)
	tick := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	repo.now = func() time.Time {
		tick = tick.Add(time.Minute)
		return tick
	}
	return repo
}

func TestDispatcher_NotifyCreatesOneUnreadRecord(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(store.NewMemoryGateway())
	d := NewDispatcher(repo)

	require.NoError(t, d.Notify(ctx, "cit-1", TypeStatusChange, "Report accepted", "Pickup on 2025-06-01 at 09:00"))

	list, total, err := repo.ListByUser(ctx, "cit-1", false, 1, 20)
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	assert.Equal(t, TypeStatusChange, list[0].Type)
	assert.False(t, list[0].IsRead)
	assert.Contains(t, list[0].Message, "2025-06-01")

	assert.Error(t, d.Notify(ctx, "", TypeGeneric, "x", "y"))
}

func TestDispatcher_LongTextIsCutOnCharacterBoundary(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(store.NewMemoryGateway())
	d := NewDispatcher(repo)

	title := strings.Repeat("猫", 130)
	message := "Recogida confirmada " + strings.Repeat("ñé🐶", 400)
	require.NoError(t, d.Notify(ctx, "cit-1", TypeStatusChange, title, message))

	list, _, err := repo.ListByUser(ctx, "cit-1", false, 1, 20)
	require.NoError(t, err)
	require.Len(t, list, 1)

	got := list[0]
	assert.True(t, utf8.ValidString(got.Title))
	assert.True(t, utf8.ValidString(got.Message))
	assert.Equal(t, 120, utf8.RuneCountInString(got.Title))
	assert.Equal(t, 1000, utf8.RuneCountInString(got.Message))
	assert.True(t, strings.HasSuffix(got.Title, "猫..."))
	assert.True(t, strings.HasPrefix(got.Message, "Recogida confirmada ñé🐶"))

	short := strings.Repeat("é", 120)
	assert.Equal(t, short, truncate(short, 120))
}

func TestDispatcher_StoreFailureIsReturned(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d := NewDispatcher(newTestRepo(store.NewMemoryGateway()))
	err := d.Notify(ctx, "cit-1", TypeAlert, "t", "m")
	require.Error(t, err)
	assert.Equal(t, store.KindConnection, store.KindOf(err))
}

func TestRepository_PagingAndUnread(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(store.NewMemoryGateway())
	d := NewDispatcher(repo)
	for _, title := range []string{"first", "second", "third"} {
		require.NoError(t, d.Notify(ctx, "cit-1", TypeGeneric, title, ""))
	}
	require.NoError(t, d.Notify(ctx, "cit-2", TypeGeneric, "other", ""))

	page, total, err := repo.ListByUser(ctx, "cit-1", false, 1, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, page, 2)
	assert.Equal(t, "third", page[0].Title)
	assert.Equal(t, "second", page[1].Title)

	require.NoError(t, repo.MarkAsRead(ctx, page[0].ID))
	unread, err := repo.CountUnread(ctx, "cit-1")
	require.NoError(t, err)
	assert.EqualValues(t, 2, unread)

	marked, err := repo.MarkAllAsRead(ctx, "cit-1")
	require.NoError(t, err)
	assert.EqualValues(t, 2, marked)

	unread, err = repo.CountUnread(ctx, "cit-2")
	require.NoError(t, err)
	assert.EqualValues(t, 1, unread)
}

func newInboxRouter(t *testing.T, userID string) (*gin.Engine, *Repository) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	gw := store.NewMemoryGateway()
	repo := newTestRepo(gw)

	r := gin.New()
	auth := func(c *gin.Context) {
		identity.SetOnGin(c, &identity.Actor{ID: userID, Role: identity.RoleCitizen})
		c.Next()
	}
	RegisterRoutes(r.Group("/api/v1"), gw, auth)
	return r, repo
}

func do(r *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestHandler_OwnershipIsEnforced(t *testing.T) {
	r, repo := newInboxRouter(t, "cit-1")
	ctx := context.Background()

	mine := &Notification{UserID: "cit-1", Type: TypeSuccess, Title: "Thanks"}
	theirs := &Notification{UserID: "cit-2", Type: TypeSuccess, Title: "Hidden"}
	require.NoError(t, repo.Create(ctx, mine))
	require.NoError(t, repo.Create(ctx, theirs))

	assert.Equal(t, http.StatusForbidden, do(r, http.MethodPatch, "/api/v1/notifications/"+theirs.ID+"/read").Code)
	assert.Equal(t, http.StatusForbidden, do(r, http.MethodDelete, "/api/v1/notifications/"+theirs.ID).Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodPatch, "/api/v1/notifications/nope/read").Code)

	assert.Equal(t, http.StatusOK, do(r, http.MethodPatch, "/api/v1/notifications/"+mine.ID+"/read").Code)

	w := do(r, http.MethodGet, "/api/v1/notifications/unread-count")
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Data UnreadCountResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.EqualValues(t, 0, body.Data.UnreadCount)

	assert.Equal(t, http.StatusOK, do(r, http.MethodDelete, "/api/v1/notifications/"+mine.ID).Code)
	_, err := repo.GetByID(ctx, mine.ID)
	assert.True(t, store.IsNotFound(err))
}

func TestHandler_ListNotifications(t *testing.T) {
	r, repo := newInboxRouter(t, "cit-1")
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, &Notification{UserID: "cit-1", Type: TypeGeneric, Title: "a"}))
	require.NoError(t, repo.Create(ctx, &Notification{UserID: "cit-1", Type: TypeGeneric, Title: "b"}))

	w := do(r, http.MethodGet, "/api/v1/notifications?limit=1")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data struct {
			Items      []Notification `json:"items"`
			Pagination struct {
				Total   int64 `json:"total"`
				HasNext bool  `json:"hasNext"`
			} `json:"pagination"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Data.Items, 1)
	assert.Equal(t, "b", body.Data.Items[0].Title)
	assert.EqualValues(t, 2, body.Data.Pagination.Total)
	assert.True(t, body.Data.Pagination.HasNext)
}
