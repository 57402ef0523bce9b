package personalinfo

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/steinfletcher/apitest"
	jsonpath "github.com/steinfletcher/apitest-jsonpath"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/shoileazeez/portfolio/internal/auth"
	"github.com/shoileazeez/portfolio/internal/middleware"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var _ infoRepo = (*repoMock)(nil)

type repoMock struct {
	mutex   sync.Mutex
	info    *PersonalInfo
	upserts int
	failing bool
}

func (r *repoMock) Get(context.Context) (*PersonalInfo, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if r.failing {
		return nil, errors.New("db down")
	}
	if r.info == nil {
		return nil, ErrNotFound
	}
	return r.info, nil
}

func (r *repoMock) Upsert(_ context.Context, info *PersonalInfo) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.upserts++
	info.ID = 1
	if r.info != nil {
		info.CreatedAt = r.info.CreatedAt
	} else {
		info.CreatedAt = time.Now()
	}
	info.UpdatedAt = time.Now()
	r.info = info
	return nil
}

func newTestRouter(t *testing.T, repo *repoMock) (*mux.Router, string) {
	t.Helper()
	tokens := auth.NewTokenService("personal-info-test-secret")
	token, err := tokens.Issue(1, "admin@example.com")
	require.NoError(t, err)

	r := mux.NewRouter()
	NewHandler(repo).SetupRoutes(r, middleware.RequireAdmin(auth.NewGate(tokens)))
	return r, token
}

func TestHandler_getEmpty(t *testing.T) {
	r, _ := newTestRouter(t, &repoMock{})

	apitest.New().
		Handler(r).
		Get("/api/personal-info").
		Expect(t).
		Status(http.StatusOK).
		Body(`{}`).
		End()
}

func TestHandler_upsert(t *testing.T) {
	repo := &repoMock{}
	r, token := newTestRouter(t, repo)

	apitest.New().
		Handler(r).
		Put("/api/personal-info").
		JSON(`{"name":"Intruder"}`).
		Expect(t).
		Status(http.StatusUnauthorized).
		End()
	assert.Zero(t, repo.upserts)

	for _, name := range []string{"Shoile", "Shoile Abdulazeez"} {
		apitest.New().
			Handler(r).
			Put("/api/personal-info").
			Cookie(auth.CookieName, token).
			JSON(`{"name":"` + name + `","title":"Full-Stack Developer","github":"https://github.com/shoileazeez"}`).
			Expect(t).
			Status(http.StatusOK).
			Assert(jsonpath.Equal("$.id", float64(1))).
			Assert(jsonpath.Equal("$.name", name)).
			End()
	}
	assert.Equal(t, 2, repo.upserts)

	apitest.New().
		Handler(r).
		Get("/api/personal-info").
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal("$.name", "Shoile Abdulazeez")).
		Assert(jsonpath.Equal("$.title", "Full-Stack Developer")).
		End()

	apitest.New().
		Handler(r).
		Put("/api/personal-info").
		Cookie(auth.CookieName, token).
		Body(`nope`).
		Expect(t).
		Status(http.StatusBadRequest).
		End()
}

func TestHandler_getError(t *testing.T) {
	r, _ := newTestRouter(t, &repoMock{failing: true})

	apitest.New().
		Handler(r).
		Get("/api/personal-info").
		Expect(t).
		Status(http.StatusInternalServerError).
		Body(`{"error":"Internal server error"}`).
		End()
}
