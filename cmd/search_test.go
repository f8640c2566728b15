package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadgen-cli/internal/config"
	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/internal/store"
)

func testEnv(t *testing.T) *pipelineEnv {
	t.Helper()
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, st.Migrate(context.Background()))
	t.Cleanup(func() { st.Close() })
	return &pipelineEnv{Store: st}
}

func TestDropKnown(t *testing.T) {
	env := testEnv(t)
	ctx := context.Background()

	require.NoError(t, env.Store.SaveLead(ctx, &model.Lead{ID: "known-1", Status: model.StatusOperational}))

	leads := []*model.Lead{
		{ID: "known-1"},
		{ID: "new-1"},
	}
	kept, err := dropKnown(ctx, env, leads)
	require.NoError(t, err)
	require.Len(t, kept, 1)
	assert.Equal(t, "new-1", kept[0].ID)
}

func TestDropWithoutEmails(t *testing.T) {
	cfg = &config.Config{Crawl: config.CrawlConfig{TimeoutSecs: 2}}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><a href="mailto:jane@acme.example">mail</a></body></html>`))
	}))
	defer srv.Close()

	leads := []*model.Lead{
		{ID: "with-email", WebsiteURI: srv.URL},
		{ID: "no-website"},
	}
	kept, dropped := dropWithoutEmails(context.Background(), leads)
	require.Len(t, kept, 1)
	assert.Equal(t, 1, dropped)
	assert.Equal(t, "with-email", kept[0].ID)
	assert.Equal(t, []string{"jane@acme.example"}, kept[0].Emails)
}
