package api

import (
	"context"
	"encoding/csv"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meokisama/toolkit-engine-sub005/internal/database/models"
	"github.com/meokisama/toolkit-engine-sub005/internal/services/controller"
	"github.com/meokisama/toolkit-engine-sub005/internal/services/dali"
	"github.com/meokisama/toolkit-engine-sub005/internal/services/export"
	importservice "github.com/meokisama/toolkit-engine-sub005/internal/services/import"
	"github.com/meokisama/toolkit-engine-sub005/internal/services/progress"
	"github.com/meokisama/toolkit-engine-sub005/internal/services/send"
	"github.com/meokisama/toolkit-engine-sub005/internal/services/testutil"
	"github.com/meokisama/toolkit-engine-sub005/internal/services/transfer"
)

// fakeClient captures the controller calls the handlers make; anything else
// panics.
type fakeClient struct {
	controller.Client

	triggeredKnx []int
}

func (f *fakeClient) TriggerKnx(ctx context.Context, unit controller.Unit, address int) error {
	f.triggeredKnx = append(f.triggeredKnx, address)
	return nil
}

func (f *fakeClient) GetCurtainConfig(ctx context.Context, unit controller.Unit, curtainIndex *int) ([]controller.CurtainInfo, error) {
	return nil, nil
}

func (f *fakeClient) GetAllScenesInformation(ctx context.Context, unit controller.Unit) ([]controller.SceneInfo, error) {
	return nil, nil
}

func (f *fakeClient) GetAllSchedulesInformation(ctx context.Context, unit controller.Unit) ([]controller.ScheduleInfo, error) {
	return nil, nil
}

func (f *fakeClient) GetKnxConfig(ctx context.Context, unit controller.Unit, knxAddress *int) ([]controller.KnxInfo, error) {
	return nil, nil
}

func (f *fakeClient) GetAllMultiScenesInformation(ctx context.Context, unit controller.Unit) ([]controller.MultiSceneInfo, error) {
	return nil, nil
}

func (f *fakeClient) GetAllSequencesInformation(ctx context.Context, unit controller.Unit) ([]controller.SequenceInfo, error) {
	return nil, nil
}

func newTestServer(t *testing.T) (*Server, *fakeClient, *testutil.TestDB, string, func()) {
	t.Helper()

	tdb, cleanup := testutil.SetupTestDB(t)
	project := testutil.CreateTestProject(t, tdb)
	client := &fakeClient{}

	transfers := transfer.NewService(
		client,
		tdb.LightingRepo, tdb.AirconRepo, tdb.CurtainRepo, tdb.KnxRepo,
		tdb.SceneRepo, tdb.ScheduleRepo, tdb.MultiSceneRepo, tdb.SequenceRepo,
		0,
	)
	sender := send.NewService(
		client,
		tdb.LightingRepo, tdb.CurtainRepo, tdb.KnxRepo,
		tdb.SceneRepo, tdb.ScheduleRepo, tdb.MultiSceneRepo, tdb.SequenceRepo,
	)
	daliService := dali.NewService(client, tdb.DaliRepo, dali.NewFileScanCache(t.TempDir()), 0)
	exporter := export.NewService(
		tdb.ProjectRepo, tdb.UnitRepo, tdb.LightingRepo, tdb.AirconRepo,
		tdb.DmxRepo, tdb.CurtainRepo, tdb.KnxRepo, tdb.SceneRepo,
		tdb.ScheduleRepo, tdb.MultiSceneRepo, tdb.SequenceRepo,
	)
	importer := importservice.NewService(tdb.DB)

	server := NewServer(client, transfers, sender, daliService, exporter, importer, progress.New())
	return server, client, tdb, project.ID, cleanup
}

func doRequest(t *testing.T, server *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	server.Routes().ServeHTTP(rec, req)
	return rec
}

func TestHandleKnxTrigger(t *testing.T) {
	server, client, _, projectID, cleanup := newTestServer(t)
	defer cleanup()

	path := "/api/projects/" + projectID + "/knx/trigger"

	rec := doRequest(t, server, http.MethodPost, path, `{"ip":"10.0.0.1","address":100}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, client.triggeredKnx, 1)
	assert.Equal(t, 100, client.triggeredKnx[0])

	// Out-of-range addresses are rejected before any controller call.
	for _, body := range []string{
		`{"ip":"10.0.0.1","address":512}`,
		`{"ip":"10.0.0.1","address":-1}`,
	} {
		rec := doRequest(t, server, http.MethodPost, path, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
	assert.Len(t, client.triggeredKnx, 1)
}

func TestHandleTransfer_RequiresUnitIP(t *testing.T) {
	server, _, _, projectID, cleanup := newTestServer(t)
	defer cleanup()

	path := "/api/projects/" + projectID + "/transfer"

	rec := doRequest(t, server, http.MethodPost, path, `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, server, http.MethodPost, path, `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// A reachable unit with nothing configured transfers an empty summary.
	rec = doRequest(t, server, http.MethodPost, path, `{"ip":"10.0.0.1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total":0`)
}

func TestHandleSend_Validation(t *testing.T) {
	server, _, _, projectID, cleanup := newTestServer(t)
	defer cleanup()

	path := "/api/projects/" + projectID + "/send"

	rec := doRequest(t, server, http.MethodPost, path, `{"units":[],"configTypes":["scene"]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, server, http.MethodPost, path, `{"units":[{"ip":""}],"configTypes":["scene"]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, server, http.MethodPost, path, `{"units":[{"ip":"10.0.0.1"}],"configTypes":["scene"]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"results"`)
}

func TestHandleDaliDeleteAddresses_BadList(t *testing.T) {
	server, _, _, projectID, cleanup := newTestServer(t)
	defer cleanup()

	path := "/api/projects/" + projectID + "/dali/delete-addresses"

	for _, body := range []string{
		`{"ip":"10.0.0.1","mode":"list","addresses":"64"}`,
		`{"ip":"10.0.0.1","mode":"list","addresses":"abc"}`,
		`{"ip":"10.0.0.1","mode":"list","addresses":"20-15"}`,
	} {
		rec := doRequest(t, server, http.MethodPost, path, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
}

func TestHandleExport(t *testing.T) {
	server, _, _, projectID, cleanup := newTestServer(t)
	defer cleanup()

	rec := doRequest(t, server, http.MethodGet, "/api/projects/"+projectID+"/export", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"version":"1.0"`)

	rec = doRequest(t, server, http.MethodGet, "/api/projects/nonexistent/export", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleImport(t *testing.T) {
	server, _, tdb, _, cleanup := newTestServer(t)
	defer cleanup()

	rec := doRequest(t, server, http.MethodPost, "/api/projects/any/import", `{"items":{}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	body := `{
		"version": "1.0",
		"project": {"name": "Imported"},
		"items": {
			"lighting": [{"refId": "L1", "name": "Group 1", "address": "1", "objectType": "lighting"}]
		}
	}`
	rec = doRequest(t, server, http.MethodPost, "/api/projects/any/import", body)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"projectId"`)

	projects, err := tdb.ProjectRepo.FindAll(context.Background())
	require.NoError(t, err)

	found := false
	for _, project := range projects {
		if project.Name == "Imported" {
			found = true
		}
	}
	assert.True(t, found, "imported project should exist")
}

func TestHandleExportCSV(t *testing.T) {
	server, _, tdb, projectID, cleanup := newTestServer(t)
	defer cleanup()
	ctx := context.Background()

	item := models.Lighting{ProjectID: projectID, Name: "Group 1", Address: "1", ObjectType: "lighting"}
	require.NoError(t, tdb.LightingRepo.Create(ctx, &item))

	rec := doRequest(t, server, http.MethodGet, "/api/projects/"+projectID+"/export/csv?category=lighting", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "lighting.csv")

	records, err := csv.NewReader(rec.Body).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Group 1", records[1][0])

	rec = doRequest(t, server, http.MethodGet, "/api/projects/"+projectID+"/export/csv?category=furniture", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
