package session

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/starford/paprika/internal/apperr"
	"github.com/starford/paprika/internal/paprikatest"
	"github.com/starford/paprika/pkg/paprika"
)

func newTestService(t *testing.T, creds Credentials) (*Service, *paprikatest.Server) {
	t.Helper()
	srv := paprikatest.New(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := paprika.NewClient(srv.URL(), paprika.WithLogger(logger))
	return NewService(client, creds, logger, 2), srv
}

func validCreds() Credentials {
	return Credentials{Email: paprikatest.DefaultEmail, Password: paprikatest.DefaultPassword}
}

func TestToken_LogsInOnce(t *testing.T) {
	svc, srv := newTestService(t, validCreds())
	ctx := context.Background()

	first, err := svc.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, paprikatest.DefaultToken, first)

	second, err := svc.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, srv.Requests())
}

func TestToken_ConcurrentCallersShareOneLogin(t *testing.T) {
	svc, srv := newTestService(t, validCreds())

	tokens := make([]string, 8)
	var g errgroup.Group
	for i := range tokens {
		g.Go(func() error {
			tok, err := svc.Token(context.Background())
			tokens[i] = tok
			return err
		})
	}
	require.NoError(t, g.Wait())

	for _, tok := range tokens {
		assert.Equal(t, paprikatest.DefaultToken, tok)
	}
	assert.Equal(t, 1, srv.Requests())
}

func TestLogin_ForcesFreshToken(t *testing.T) {
	svc, srv := newTestService(t, validCreds())
	ctx := context.Background()

	_, err := svc.Token(ctx)
	require.NoError(t, err)

	srv.SetCredentials(paprikatest.DefaultEmail, paprikatest.DefaultPassword, "rotated")
	token, err := svc.Login(ctx)
	require.NoError(t, err)
	assert.Equal(t, "rotated", token)

	cached, err := svc.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "rotated", cached)
}

func TestToken_MissingCredentials(t *testing.T) {
	svc, srv := newTestService(t, Credentials{Email: paprikatest.DefaultEmail})

	_, err := svc.Token(context.Background())
	assert.ErrorIs(t, err, apperr.ErrMissingCredentials)
	assert.Zero(t, srv.Requests())
}

func TestToken_WrongPassword(t *testing.T) {
	svc, _ := newTestService(t, Credentials{Email: paprikatest.DefaultEmail, Password: "nope"})

	_, err := svc.Token(context.Background())
	assert.ErrorIs(t, err, paprika.ErrTransport)

	_, err = svc.Recipes(context.Background())
	assert.ErrorIs(t, err, paprika.ErrTransport, "failed logins are not cached")
}

func TestUploadThenFetch(t *testing.T) {
	svc, _ := newTestService(t, validCreds())
	ctx := context.Background()

	r := &paprika.Recipe{Name: "Birria tacos", Categories: []string{"Mexican"}}
	require.NoError(t, svc.Upload(ctx, r))
	require.NotEmpty(t, r.UID)

	entries, err := svc.Recipes(ctx)
	require.NoError(t, err)
	assert.Equal(t, []paprika.RecipeEntry{r.Entry()}, entries)

	got, err := svc.Recipe(ctx, r.UID)
	require.NoError(t, err)
	assert.Equal(t, *r, *got)
}

func TestCategories(t *testing.T) {
	svc, srv := newTestService(t, validCreds())
	srv.SetCategories(`[{"uid":"c1","order_flag":0,"name":"Dinner","parent_uid":null}]`)

	cats, err := svc.Categories(context.Background())
	require.NoError(t, err)
	require.Len(t, cats, 1)
	assert.Equal(t, "Dinner", cats[0].Name)
}

func TestFetchAll_KeepsOrder(t *testing.T) {
	svc, srv := newTestService(t, validCreds())
	var uids []string
	for i := range 7 {
		uid := fmt.Sprintf("uid-%d", i)
		require.True(t, srv.PutRecipe(fmt.Sprintf(`{"uid":%q,"name":"Recipe %d"}`, uid, i)))
		uids = append(uids, uid)
	}

	recipes, err := svc.FetchAll(context.Background(), uids)
	require.NoError(t, err)
	require.Len(t, recipes, len(uids))
	for i, r := range recipes {
		assert.Equal(t, uids[i], r.UID)
		assert.Equal(t, fmt.Sprintf("Recipe %d", i), r.Name)
	}
}

func TestFetchAll_Empty(t *testing.T) {
	svc, srv := newTestService(t, validCreds())

	recipes, err := svc.FetchAll(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, recipes)
	assert.Zero(t, srv.Requests())
}

func TestFetchAll_FailureStopsAll(t *testing.T) {
	svc, srv := newTestService(t, validCreds())
	require.True(t, srv.PutRecipe(`{"uid":"a","name":"A"}`))

	_, err := svc.FetchAll(context.Background(), []string{"a", "missing"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing")

	var te *paprika.TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, http.StatusNotFound, te.StatusCode)
}

func TestPull(t *testing.T) {
	svc, srv := newTestService(t, validCreds())
	require.True(t, srv.PutRecipe(`{"uid":"same","name":"Same","hash":"h1"}`))
	require.True(t, srv.PutRecipe(`{"uid":"edited","name":"Edited","hash":"h2-new"}`))
	require.True(t, srv.PutRecipe(`{"uid":"new","name":"New","hash":"h3"}`))

	res, err := svc.Pull(context.Background(), map[string]string{
		"same":   "h1",
		"edited": "h2-old",
		"gone":   "h4",
	})
	require.NoError(t, err)

	require.Len(t, res.Changed, 2)
	assert.Equal(t, "edited", res.Changed[0].UID)
	assert.Equal(t, "new", res.Changed[1].UID)
	assert.Equal(t, []string{"gone"}, res.Removed)
}
