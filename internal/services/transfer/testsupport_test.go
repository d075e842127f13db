package transfer

import (
	"context"
	"errors"
	"testing"

	"github.com/meokisama/toolkit-engine-sub005/internal/services/controller"
	"github.com/meokisama/toolkit-engine-sub005/internal/services/testutil"
)

// fakeClient overrides the calls a test cares about; anything else panics.
type fakeClient struct {
	controller.Client

	curtains    []controller.CurtainInfo
	curtainsErr error

	scenes      []controller.SceneInfo
	sceneDetail map[int]*controller.SceneDetail

	schedules   []controller.ScheduleInfo
	knxConfigs  []controller.KnxInfo
	multiScenes []controller.MultiSceneInfo
	sequences   []controller.SequenceInfo
}

func (f *fakeClient) GetCurtainConfig(ctx context.Context, unit controller.Unit, curtainIndex *int) ([]controller.CurtainInfo, error) {
	return f.curtains, f.curtainsErr
}

func (f *fakeClient) GetAllScenesInformation(ctx context.Context, unit controller.Unit) ([]controller.SceneInfo, error) {
	return f.scenes, nil
}

func (f *fakeClient) GetSceneInformation(ctx context.Context, unit controller.Unit, sceneIndex int) (*controller.SceneDetail, error) {
	detail, ok := f.sceneDetail[sceneIndex]
	if !ok {
		return nil, errors.New("scene detail unavailable")
	}
	return detail, nil
}

func (f *fakeClient) GetAllSchedulesInformation(ctx context.Context, unit controller.Unit) ([]controller.ScheduleInfo, error) {
	return f.schedules, nil
}

func (f *fakeClient) GetKnxConfig(ctx context.Context, unit controller.Unit, knxAddress *int) ([]controller.KnxInfo, error) {
	return f.knxConfigs, nil
}

func (f *fakeClient) GetAllMultiScenesInformation(ctx context.Context, unit controller.Unit) ([]controller.MultiSceneInfo, error) {
	return f.multiScenes, nil
}

func (f *fakeClient) GetAllSequencesInformation(ctx context.Context, unit controller.Unit) ([]controller.SequenceInfo, error) {
	return f.sequences, nil
}

// newTestService wires a transfer service over an in-memory database with
// pacing disabled.
func newTestService(t *testing.T, client controller.Client) (*Service, *testutil.TestDB, string, func()) {
	t.Helper()

	tdb, cleanup := testutil.SetupTestDB(t)
	project := testutil.CreateTestProject(t, tdb)

	service := NewService(
		client,
		tdb.LightingRepo, tdb.AirconRepo, tdb.CurtainRepo, tdb.KnxRepo,
		tdb.SceneRepo, tdb.ScheduleRepo, tdb.MultiSceneRepo, tdb.SequenceRepo,
		0,
	)
	return service, tdb, project.ID, cleanup
}
