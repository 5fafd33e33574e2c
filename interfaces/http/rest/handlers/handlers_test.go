package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"workspace-backend/application/services"
	"workspace-backend/domain/core/aggregates"
	"workspace-backend/domain/core/entities"
	"workspace-backend/infrastructure/messaging/eventbridge"
	"workspace-backend/infrastructure/persistence/memory"
	"workspace-backend/pkg/auth"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// testRouter mounts the API routes over an in-memory store with a stubbed
// authenticated user, mirroring the production route tree without the JWT
// middleware.
func testRouter(t *testing.T) http.Handler {
	t.Helper()
	logger := zap.NewNop()
	sync := services.NewSyncManager(memory.NewAppDataStore(), nil, logger, time.Hour)
	eventPub := eventbridge.NopPublisher{}

	router := chi.NewRouter()
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := auth.SetUserInContext(r.Context(), &auth.UserContext{UserID: "test-user"})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	})

	appDataHandler := NewAppDataHandler(sync, logger)
	router.Get("/appdata", appDataHandler.GetAppData)
	router.Get("/appdata/sync", appDataHandler.GetSyncStatus)

	workspaceHandler := NewWorkspaceHandler(sync, eventPub, logger)
	journeyHandler := NewJourneyHandler(sync, logger)
	router.Route("/workspaces", func(r chi.Router) {
		r.Get("/", workspaceHandler.ListWorkspaces)
		r.Post("/", workspaceHandler.CreateWorkspace)
		r.Delete("/{workspaceID}", workspaceHandler.DeleteWorkspace)
		r.Route("/{workspaceID}/journey", func(r chi.Router) {
			r.Get("/", journeyHandler.GetForest)
			r.Post("/nodes", journeyHandler.CreateNode)
			r.Patch("/nodes/{nodeID}", journeyHandler.UpdateNode)
			r.Delete("/nodes/{nodeID}", journeyHandler.DeleteNode)
		})
	})

	pageHandler := NewPageHandler(sync, eventPub, logger)
	databaseHandler := NewDatabaseHandler(sync, eventPub, logger)
	router.Route("/pages", func(r chi.Router) {
		r.Get("/", pageHandler.ListPages)
		r.Post("/", pageHandler.CreatePage)
		r.Get("/{pageID}", pageHandler.GetPage)
		r.Delete("/{pageID}", pageHandler.DeletePage)
		r.Route("/{pageID}/blocks", func(r chi.Router) {
			r.Post("/", pageHandler.InsertBlock)
			r.Patch("/{blockID}", pageHandler.UpdateBlock)
			r.Route("/{blockID}/database", func(r chi.Router) {
				r.Get("/", databaseHandler.GetDatabase)
				r.Post("/fields", databaseHandler.AddField)
				r.Post("/rows", databaseHandler.AddRow)
			})
		})
	})
	return router
}

func doJSON(t *testing.T, router http.Handler, method, path string, body interface{}) (*httptest.ResponseRecorder, json.RawMessage) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return rec, envelope.Data
}

func TestGetAppDataInitializesDefault(t *testing.T) {
	router := testRouter(t)

	rec, raw := doJSON(t, router, http.MethodGet, "/appdata", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var data aggregates.UserAppData
	require.NoError(t, json.Unmarshal(raw, &data))
	require.Len(t, data.Workspaces, 1)
	assert.Equal(t, aggregates.DefaultWorkspaceName, data.Workspaces[0].Name)
}

func TestWorkspaceAndJourneyFlow(t *testing.T) {
	router := testRouter(t)

	rec, raw := doJSON(t, router, http.MethodPost, "/workspaces", map[string]string{"name": "Planning"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var ws entities.Workspace
	require.NoError(t, json.Unmarshal(raw, &ws))
	assert.Equal(t, "Planning", ws.Name)

	// a top-level stage, then a child under it
	rec, raw = doJSON(t, router, http.MethodPost, "/workspaces/"+ws.ID+"/journey/nodes",
		map[string]string{"label": "Research"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var stage entities.TreeNode
	require.NoError(t, json.Unmarshal(raw, &stage))

	rec, _ = doJSON(t, router, http.MethodPost, "/workspaces/"+ws.ID+"/journey/nodes",
		map[string]string{"label": "Read papers", "parentId": stage.ID})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, raw = doJSON(t, router, http.MethodGet, "/workspaces/"+ws.ID+"/journey", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var forest []entities.TreeNode
	require.NoError(t, json.Unmarshal(raw, &forest))
	require.Len(t, forest, 1)
	require.Len(t, forest[0].Children, 1)
	assert.Equal(t, "Read papers", forest[0].Children[0].Label)

	// removing the stage drops the whole subtree
	rec, _ = doJSON(t, router, http.MethodDelete, "/workspaces/"+ws.ID+"/journey/nodes/"+stage.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	_, raw = doJSON(t, router, http.MethodGet, "/workspaces/"+ws.ID+"/journey", nil)
	forest = nil
	require.NoError(t, json.Unmarshal(raw, &forest))
	assert.Empty(t, forest)
}

func TestJourneyNodeInUnknownWorkspace(t *testing.T) {
	router := testRouter(t)
	rec, _ := doJSON(t, router, http.MethodPost, "/workspaces/missing/journey/nodes",
		map[string]string{"label": "Orphan"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPageBlockAndDatabaseFlow(t *testing.T) {
	router := testRouter(t)

	rec, raw := doJSON(t, router, http.MethodPost, "/pages", map[string]string{"title": "Roadmap"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var page entities.Page
	require.NoError(t, json.Unmarshal(raw, &page))
	require.Len(t, page.Blocks, 1)

	// insert a database block after the initial text block
	rec, raw = doJSON(t, router, http.MethodPost, "/pages/"+page.ID+"/blocks",
		map[string]string{"afterBlockId": page.Blocks[0].ID, "type": "database"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(raw, &page))
	require.Len(t, page.Blocks, 2)
	dbBlock := page.Blocks[1]
	require.NotNil(t, dbBlock.DatabaseData)

	dbPath := "/pages/" + page.ID + "/blocks/" + dbBlock.ID + "/database"
	rec, _ = doJSON(t, router, http.MethodPost, dbPath+"/fields",
		map[string]string{"name": "Status", "type": "status"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, raw = doJSON(t, router, http.MethodPost, dbPath+"/rows", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var schema entities.DatabaseSchema
	require.NoError(t, json.Unmarshal(raw, &schema))
	assert.Len(t, schema.Fields, 2)
	assert.Len(t, schema.Rows, 1)

	// the schema persists on the block
	rec, raw = doJSON(t, router, http.MethodGet, dbPath+"/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(raw, &schema))
	assert.Len(t, schema.Rows, 1)
}

func TestDatabaseRoutesRejectNonDatabaseBlock(t *testing.T) {
	router := testRouter(t)

	_, raw := doJSON(t, router, http.MethodPost, "/pages", map[string]string{"title": "Plain"})
	var page entities.Page
	require.NoError(t, json.Unmarshal(raw, &page))

	rec, _ := doJSON(t, router, http.MethodPost,
		"/pages/"+page.ID+"/blocks/"+page.Blocks[0].ID+"/database/rows", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
