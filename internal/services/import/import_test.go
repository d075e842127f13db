package importservice

import (
	"bytes"
	"context"
	"strconv"
	"strings"
	"testing"

	"github.com/meokisama/toolkit-engine-sub005/internal/database/models"
	"github.com/meokisama/toolkit-engine-sub005/internal/services/export"
	"github.com/meokisama/toolkit-engine-sub005/internal/services/testutil"
)

func strPtr(s string) *string { return &s }

func TestImportProject_RemapsReferences(t *testing.T) {
	tdb, cleanup := testutil.SetupTestDB(t)
	defer cleanup()
	ctx := context.Background()
	service := NewService(tdb.DB)

	exported := &export.ExportedProject{
		Version: "1.0",
		Project: &export.ExportProjectInfo{Name: testutil.UniqueProjectName("import")},
		Items: export.ExportedItems{
			Lighting: []export.ExportedItem{
				{RefID: "L1", Name: "Group 10", Address: "10", ObjectType: "lighting"},
			},
			Curtains: []export.ExportedCurtain{
				{
					RefID: "C1", Name: "Curtain 5", Address: "5", ObjectType: "curtain",
					CurtainType:    "HOLD",
					OpenGroupRefID: strPtr("L1"), CloseGroupRefID: strPtr("L1"),
					StopGroupRefID: strPtr("L9"),
				},
			},
			Scenes: []export.ExportedScene{
				{
					RefID: "S1", Name: "Evening", Address: "5",
					Items: []export.ExportedSceneItem{
						{ItemType: "lighting", ItemRefID: strPtr("L1"), ItemAddress: "10", ItemValue: 255, ObjectType: "lighting"},
					},
				},
			},
			Schedules: []export.ExportedSchedule{
				{Name: "Night", Time: "22:00", Days: []string{"monday"}, Enabled: true, SceneRefIDs: []string{"S1", "S9"}},
			},
			MultiScenes: []export.ExportedMultiScene{
				{RefID: "M1", Name: "Zone A", Address: "30", SceneRefIDs: []string{"S1"}},
			},
			Sequences: []export.ExportedSequence{
				{Name: "Sweep", Address: "40", MultiSceneRefIDs: []string{"M1"}},
			},
		},
	}

	projectID, stats, err := service.ImportProject(ctx, exported)
	if err != nil {
		t.Fatalf("ImportProject() error: %v", err)
	}
	if projectID == "" {
		t.Fatal("Expected a new project ID")
	}
	if stats.LightingCreated != 1 || stats.CurtainsCreated != 1 || stats.ScenesCreated != 1 ||
		stats.SchedulesCreated != 1 || stats.MultiScenesCreated != 1 || stats.SequencesCreated != 1 {
		t.Errorf("Unexpected stats: %+v", stats)
	}

	lighting, err := tdb.LightingRepo.FindByProjectID(ctx, projectID)
	if err != nil || len(lighting) != 1 {
		t.Fatalf("Expected 1 lighting row, got %d (%v)", len(lighting), err)
	}
	if lighting[0].ID == "L1" {
		t.Error("Imported rows must get fresh IDs")
	}

	curtains, err := tdb.CurtainRepo.FindByProjectID(ctx, projectID)
	if err != nil || len(curtains) != 1 {
		t.Fatalf("Expected 1 curtain row, got %d (%v)", len(curtains), err)
	}
	curtain := curtains[0]
	if curtain.OpenGroupID == nil || *curtain.OpenGroupID != lighting[0].ID {
		t.Errorf("Open group should remap to the imported lighting row, got %v", curtain.OpenGroupID)
	}
	if curtain.StopGroupID != nil {
		t.Errorf("Dangling stop group ref should degrade to null, got %v", curtain.StopGroupID)
	}

	scenes, err := tdb.SceneRepo.FindByProjectID(ctx, projectID)
	if err != nil || len(scenes) != 1 {
		t.Fatalf("Expected 1 scene, got %d (%v)", len(scenes), err)
	}
	items, _ := tdb.SceneRepo.GetItems(ctx, scenes[0].ID)
	if len(items) != 1 || items[0].ItemID == nil || *items[0].ItemID != lighting[0].ID {
		t.Errorf("Scene item should remap to the imported lighting row, got %v", items)
	}

	schedules, err := tdb.ScheduleRepo.FindByProjectID(ctx, projectID)
	if err != nil || len(schedules) != 1 {
		t.Fatalf("Expected 1 schedule, got %d (%v)", len(schedules), err)
	}
	links, _ := tdb.ScheduleRepo.GetScenes(ctx, schedules[0].ID)
	if len(links) != 1 || links[0].SceneID != scenes[0].ID {
		t.Errorf("Schedule should link the imported scene, got %v", links)
	}

	sequences, err := tdb.SequenceRepo.FindByProjectID(ctx, projectID)
	if err != nil || len(sequences) != 1 {
		t.Fatalf("Expected 1 sequence, got %d (%v)", len(sequences), err)
	}
	seqLinks, _ := tdb.SequenceRepo.GetMultiScenes(ctx, sequences[0].ID)
	if len(seqLinks) != 1 {
		t.Errorf("Sequence should link the imported multi-scene, got %v", seqLinks)
	}

	// Dangling refs surface as warnings: curtain stop group and schedule S9.
	if len(stats.Warnings) != 2 {
		t.Errorf("Expected 2 warnings, got %v", stats.Warnings)
	}
}

func TestImportProject_RequiresName(t *testing.T) {
	tdb, cleanup := testutil.SetupTestDB(t)
	defer cleanup()
	service := NewService(tdb.DB)

	_, _, err := service.ImportProject(context.Background(), &export.ExportedProject{})
	if err == nil {
		t.Error("Expected error for missing project name")
	}
}

func TestImportScenesCSV_RoundTrip(t *testing.T) {
	tdb, cleanup := testutil.SetupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	source := testutil.CreateTestProject(t, tdb)
	target := testutil.CreateTestProject(t, tdb)

	exporter := export.NewService(
		tdb.ProjectRepo, tdb.UnitRepo, tdb.LightingRepo, tdb.AirconRepo,
		tdb.DmxRepo, tdb.CurtainRepo, tdb.KnxRepo, tdb.SceneRepo,
		tdb.ScheduleRepo, tdb.MultiSceneRepo, tdb.SequenceRepo,
	)
	importer := NewService(tdb.DB)

	// A scene long enough to split into three CSV blocks, plus a small one.
	var bigItems []models.SceneItem
	for i := 0; i < 130; i++ {
		address := strconv.Itoa(i + 1)
		lighting := models.Lighting{ProjectID: source.ID, Name: "Group " + address, Address: address, ObjectType: "lighting"}
		if err := tdb.LightingRepo.Create(ctx, &lighting); err != nil {
			t.Fatalf("Create() error: %v", err)
		}
		bigItems = append(bigItems, models.SceneItem{
			ItemType: "lighting", ItemID: &lighting.ID, ItemAddress: address,
			ItemValue: 255, ObjectType: "lighting",
		})
	}
	big := models.Scene{ProjectID: source.ID, Name: "Big", Address: "1"}
	if err := tdb.SceneRepo.CreateWithItems(ctx, &big, bigItems); err != nil {
		t.Fatalf("CreateWithItems() error: %v", err)
	}
	small := models.Scene{ProjectID: source.ID, Name: "Small", Address: "2"}
	smallItems := []models.SceneItem{
		{ItemType: "curtain", ItemAddress: "5", ItemValue: 1, ObjectType: "curtain"},
	}
	if err := tdb.SceneRepo.CreateWithItems(ctx, &small, smallItems); err != nil {
		t.Fatalf("CreateWithItems() error: %v", err)
	}

	var buf bytes.Buffer
	if err := exporter.WriteScenesCSV(ctx, &buf, source.ID); err != nil {
		t.Fatalf("WriteScenesCSV() error: %v", err)
	}

	stats, err := importer.ImportScenesCSV(ctx, target.ID, &buf)
	if err != nil {
		t.Fatalf("ImportScenesCSV() error: %v", err)
	}

	// Part blocks merge back: same scene count and item totals as the source.
	if stats.ScenesCreated != 2 {
		t.Fatalf("Expected 2 scenes after merge, got %d", stats.ScenesCreated)
	}
	if stats.SceneItemsCreated != 131 {
		t.Fatalf("Expected 131 items, got %d", stats.SceneItemsCreated)
	}

	scenes, err := tdb.SceneRepo.FindByProjectID(ctx, target.ID)
	if err != nil {
		t.Fatalf("FindByProjectID() error: %v", err)
	}
	byName := make(map[string]string)
	for _, scene := range scenes {
		if strings.Contains(scene.Name, "(Part") {
			t.Errorf("Part suffix leaked into scene name %q", scene.Name)
		}
		byName[scene.Name] = scene.ID
	}
	if len(byName) != 2 {
		t.Fatalf("Expected scenes Big and Small, got %v", byName)
	}

	bigItems2, err := tdb.SceneRepo.GetItems(ctx, byName["Big"])
	if err != nil {
		t.Fatalf("GetItems() error: %v", err)
	}
	if len(bigItems2) != 130 {
		t.Errorf("Expected 130 items in Big, got %d", len(bigItems2))
	}
	for _, item := range bigItems2 {
		if item.ItemValue != 255 {
			t.Errorf("Item value should survive the percent round trip, got %d", item.ItemValue)
			break
		}
	}

	smallItems2, err := tdb.SceneRepo.GetItems(ctx, byName["Small"])
	if err != nil {
		t.Fatalf("GetItems() error: %v", err)
	}
	if len(smallItems2) != 1 || smallItems2[0].ItemValue != 1 {
		t.Errorf("Curtain item should decode back to Open, got %v", smallItems2)
	}

	// Addresses existed only in the source project, so items import unlinked.
	for _, item := range bigItems2 {
		if item.ItemID != nil {
			t.Error("Items should not link across projects")
			break
		}
	}
}

func TestImportScenesCSV_RejectsOrphanRows(t *testing.T) {
	tdb, cleanup := testutil.SetupTestDB(t)
	defer cleanup()
	project := testutil.CreateTestProject(t, tdb)
	service := NewService(tdb.DB)

	csvContent := "SCENE NAME,ITEM NAME,TYPE,ADDRESS,VALUE\n,Group 1,lighting,1,100%\n"
	if _, err := service.ImportScenesCSV(context.Background(), project.ID, strings.NewReader(csvContent)); err == nil {
		t.Error("Expected error for item row before any scene name")
	}
}
