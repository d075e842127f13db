// Package testutil provides shared test utilities for integration tests.
package testutil

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/lucsky/cuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/meokisama/toolkit-engine-sub005/internal/database/models"
	"github.com/meokisama/toolkit-engine-sub005/internal/database/repositories"
)

// TestDB holds the test database and repositories.
type TestDB struct {
	DB             *gorm.DB
	ProjectRepo    *repositories.ProjectRepository
	UnitRepo       *repositories.UnitRepository
	LightingRepo   *repositories.LightingRepository
	AirconRepo     *repositories.AirconRepository
	DmxRepo        *repositories.DmxRepository
	CurtainRepo    *repositories.CurtainRepository
	KnxRepo        *repositories.KnxRepository
	SceneRepo      *repositories.SceneRepository
	ScheduleRepo   *repositories.ScheduleRepository
	MultiSceneRepo *repositories.MultiSceneRepository
	SequenceRepo   *repositories.SequenceRepository
	DaliRepo       *repositories.DaliRepository
}

// SetupTestDB creates an in-memory SQLite database for testing.
// It returns a TestDB with all repositories initialized and a cleanup function.
func SetupTestDB(t *testing.T) (*TestDB, func()) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}

	// Every pooled connection to :memory: would get its own database, so
	// keep the pool at one connection.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to access underlying database: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		t.Fatalf("Failed to migrate database: %v", err)
	}

	testDB := &TestDB{
		DB:             db,
		ProjectRepo:    repositories.NewProjectRepository(db),
		UnitRepo:       repositories.NewUnitRepository(db),
		LightingRepo:   repositories.NewLightingRepository(db),
		AirconRepo:     repositories.NewAirconRepository(db),
		DmxRepo:        repositories.NewDmxRepository(db),
		CurtainRepo:    repositories.NewCurtainRepository(db),
		KnxRepo:        repositories.NewKnxRepository(db),
		SceneRepo:      repositories.NewSceneRepository(db),
		ScheduleRepo:   repositories.NewScheduleRepository(db),
		MultiSceneRepo: repositories.NewMultiSceneRepository(db),
		SequenceRepo:   repositories.NewSequenceRepository(db),
		DaliRepo:       repositories.NewDaliRepository(db),
	}

	cleanup := func() {
		_ = sqlDB.Close()
	}

	return testDB, cleanup
}

// CreateTestProject inserts a project row for a test to hang entities off.
func CreateTestProject(t *testing.T, tdb *TestDB) *models.Project {
	t.Helper()

	project := &models.Project{Name: UniqueProjectName("test")}
	if err := tdb.ProjectRepo.Create(context.Background(), project); err != nil {
		t.Fatalf("Failed to create test project: %v", err)
	}
	return project
}

// UniqueProjectName generates a unique project name for testing.
// This ensures tests don't conflict with each other.
func UniqueProjectName(prefix string) string {
	return prefix + "-" + cuid.New()[:8]
}
