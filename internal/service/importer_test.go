package service

import (
	"ProjectDesk/internal/apperr"
	"ProjectDesk/internal/model"
	"ProjectDesk/internal/repo"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const planJSON = `{
  "projectName": "Progetto Alfa",
  "t0": "2024-01-01",
  "phases": [
    {"name": "A", "startDate": "T0", "endDate": "T0+2 settimane",
     "deliverables": [{"type": "document", "title": "D1", "dueDate": "T0+1mese"}]}
  ],
  "workPackages": [
    {"name": "WP1", "phaseName": "A", "endDate": "2024-03-15",
     "deliverables": [{"type": "code", "title": "Firmware"}]},
    {"name": "WP2", "phaseName": "Z"}
  ]
}`

const planYAML = `
projectName: Progetto Alfa
t0: 2024-01-01
phases:
  - name: A
    startDate: T0
    deliverables:
      - type: document
        title: D1
        dueDate: T0+1mese
workPackages:
  - name: WP1
    phaseName: A
`

func TestDecodeImport(t *testing.T) {
	doc, err := DecodeImport("plan.json", "application/json", []byte(planJSON))
	require.NoError(t, err)
	require.Len(t, doc.Phases, 1)
	require.Len(t, doc.WorkPackages, 2)
	assert.Equal(t, "WP1", doc.WorkPackages[0].Name)
	assert.Equal(t, "A", *doc.WorkPackages[0].PhaseName)

	doc, err = DecodeImport("plan.yml", "", []byte(planYAML))
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01", *doc.T0)
	require.Len(t, doc.Phases, 1)
	assert.Equal(t, "T0+1mese", *doc.Phases[0].Deliverables[0].DueDate)
	assert.Equal(t, "WP1", doc.WorkPackages[0].Name)

	doc, err = DecodeImport("upload", "application/x-yaml", []byte(planYAML))
	require.NoError(t, err)
	assert.Len(t, doc.Phases, 1)

	_, err = DecodeImport("plan.json", "", []byte(`{"phases": [`))
	assert.True(t, apperr.IsCode(err, apperr.CodeValidation))
}

func TestBuildImportPlan(t *testing.T) {
	doc, err := DecodeImport("plan.json", "", []byte(planJSON))
	require.NoError(t, err)

	plan, err := BuildImportPlan(doc, nil)
	require.NoError(t, err)
	require.NotNil(t, plan.T0)
	assert.Equal(t, day("2024-01-01"), *plan.T0)
	assert.Equal(t, "Progetto Alfa", *plan.ProjectName)

	a := plan.Phases[0]
	assert.Equal(t, day("2024-01-01"), *a.Dates.Start)
	assert.Equal(t, day("2024-01-15"), *a.Dates.End)
	assert.Equal(t, "T0+2 settimane", *a.Dates.EndRelative)
	assert.Equal(t, day("2024-02-01"), *a.Deliverables[0].Due)
	assert.Equal(t, "T0+1mese", *a.Deliverables[0].DueRelative)

	wp := plan.WorkPackages[0]
	assert.Equal(t, day("2024-03-15"), *wp.Dates.End)
	assert.Nil(t, wp.Dates.EndRelative)
	assert.Equal(t, model.DeliverableCode, wp.Deliverables[0].Type)
}

func TestBuildImportPlan_FallsBackToProjectT0(t *testing.T) {
	doc := &ImportDocument{
		T0:     strPtr("not a day"),
		Phases: []ImportItem{{Name: "A", EndDate: strPtr("T0+1anno")}},
	}
	projectT0 := day("2024-02-29")
	plan, err := BuildImportPlan(doc, &projectT0)
	require.NoError(t, err)
	assert.Nil(t, plan.T0)
	assert.Equal(t, day("2025-02-28"), *plan.Phases[0].Dates.End)
}

func TestBuildImportPlan_Rejects(t *testing.T) {
	tests := []struct {
		name string
		doc  ImportDocument
	}{
		{"blank phase name", ImportDocument{Phases: []ImportItem{{Name: " "}}}},
		{"bad deliverable type", ImportDocument{Phases: []ImportItem{{Name: "A", Deliverables: []ImportDeliverable{{Type: "video", Title: "x"}}}}}},
		{"blank deliverable title", ImportDocument{WorkPackages: []ImportWorkPackage{{ImportItem: ImportItem{Name: "W", Deliverables: []ImportDeliverable{{Type: "code"}}}}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildImportPlan(&tt.doc, nil)
			assert.True(t, apperr.IsCode(err, apperr.CodeValidation))
		})
	}
}

func TestImportService_Import(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	p := e.project(t, "P")

	counts, err := e.importSvc.Import(ctx, p.ID, "plan.json", "application/json", []byte(planJSON))
	require.NoError(t, err)
	assert.Equal(t, repo.ImportCounts{Phases: 1, WorkPackages: 2, Deliverables: 2}, counts)

	got, err := e.projectSvc.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Progetto Alfa", got.Name)
	assert.Equal(t, "2024-01-01", fmtDay(got.T0Date))

	phases, err := e.planSvc.ListPhases(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, phases, 1)
	require.Len(t, phases[0].Deliverables, 1)
	assert.Equal(t, "2024-02-01", fmtDay(phases[0].Deliverables[0].DueDate))

	// смена T0 пересчитывает относительные даты
	_, err = e.summarySvc.SetT0(ctx, p.ID, T0Input{T0Date: model.Of("2024-03-01")})
	require.NoError(t, err)
	phases, err = e.planSvc.ListPhases(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "2024-04-01", fmtDay(phases[0].Deliverables[0].DueDate))
	assert.Equal(t, "2024-03-15", fmtDay(phases[0].EndDate))
}

func TestImportService_NothingWrittenOnError(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	p := e.project(t, "P")

	_, err := e.importSvc.Import(ctx, p.ID, "plan.json", "", []byte(`{"phases":[{"name":"A"},{"name":""}]}`))
	assert.True(t, apperr.IsCode(err, apperr.CodeValidation))
	phases, err := e.planSvc.ListPhases(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, phases)

	_, err = e.importSvc.Import(ctx, p.ID, "plan.json", "", nil)
	assert.Equal(t, "Nessun file caricato", messageOf(err))

	_, err = e.importSvc.Import(ctx, "missing", "plan.json", "", []byte(planJSON))
	assert.True(t, apperr.IsCode(err, apperr.CodeNotFound))
}
