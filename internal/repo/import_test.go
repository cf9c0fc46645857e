package repo

import (
	"ProjectDesk/internal/model"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestApplyImport_CreatesPlan(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()
	p := r.project(t, "P")

	plan := ImportPlan{
		ProjectName: strPtr("Renamed"),
		T0:          dayPtr("2024-01-01"),
		Phases: []ImportPhase{{
			Name: "A",
			Deliverables: []ImportDeliverable{
				{Type: model.DeliverableDocument, Title: "D1", Due: dayPtr("2024-02-01"), DueRelative: strPtr("T0+1mese")},
				{Type: model.DeliverableCode, Title: "D2"},
			},
		}},
		WorkPackages: []ImportWorkPackage{
			{Name: "WP1", PhaseName: strPtr("A"), Deliverables: []ImportDeliverable{{Type: model.DeliverableReport, Title: "R"}}},
			{Name: "WP2", PhaseName: strPtr("missing")},
		},
	}
	counts, err := r.plan.ApplyImport(ctx, p.ID, plan)
	require.NoError(t, err)
	assert.Equal(t, ImportCounts{Phases: 1, WorkPackages: 2, Deliverables: 3}, counts)

	got, err := r.projects.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
	assert.Equal(t, "2024-01-01", fmtDay(got.T0Date))

	phases, err := r.plan.ListPhases(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, phases, 1)
	assert.Equal(t, 0, phases[0].SortOrder)
	require.Len(t, phases[0].Deliverables, 2)
	d1 := phases[0].Deliverables[0]
	assert.Equal(t, "D1", d1.Title)
	assert.Equal(t, 0, d1.SortOrder)
	assert.Equal(t, "2024-02-01", fmtDay(d1.DueDate))
	assert.Equal(t, "T0+1mese", *d1.DueDateRelative)
	assert.Equal(t, 1, phases[0].Deliverables[1].SortOrder)

	wps, err := r.plan.ListWorkPackages(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, wps, 2)
	require.NotNil(t, wps[0].PhaseID)
	assert.Equal(t, phases[0].ID, *wps[0].PhaseID)
	assert.Nil(t, wps[1].PhaseID)

	// смена T0 после импорта пересчитывает D1
	_, err = r.projects.SetT0(ctx, p.ID, dayPtr("2024-03-01"))
	require.NoError(t, err)
	d, err := r.plan.GetDeliverable(ctx, p.ID, d1.ID)
	require.NoError(t, err)
	assert.Equal(t, "2024-04-01", fmtDay(d.DueDate))
}

func TestApplyImport_UpsertsByName(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()
	p := r.project(t, "P")
	old, err := r.plan.CreatePhase(ctx, &model.ProjectPhase{ProjectID: p.ID, Name: "Old"})
	require.NoError(t, err)
	b, err := r.plan.CreatePhase(ctx, &model.ProjectPhase{ProjectID: p.ID, Name: "B"})
	require.NoError(t, err)
	_, err = r.plan.CreateDeliverable(ctx, &model.ProjectDeliverable{ProjectID: p.ID, PhaseID: &b.ID, Type: model.DeliverableDocument, Title: "existing"})
	require.NoError(t, err)

	plan := ImportPlan{Phases: []ImportPhase{
		{Name: "A"},
		{Name: "B", Dates: ImportDates{Start: dayPtr("2024-05-01")}, Deliverables: []ImportDeliverable{{Type: model.DeliverableCode, Title: "new"}}},
	}}
	_, err = r.plan.ApplyImport(ctx, p.ID, plan)
	require.NoError(t, err)

	phases, err := r.plan.ListPhases(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, phases, 3)
	assert.Equal(t, []string{"A", "B", "Old"}, []string{phases[0].Name, phases[1].Name, phases[2].Name})
	assert.Equal(t, b.ID, phases[1].ID)
	assert.Equal(t, old.ID, phases[2].ID)
	assert.Equal(t, "2024-05-01", fmtDay(phases[1].StartDate))
	assert.Equal(t, []int{0, 1, 2}, positionsOf(t, r.db, "project_phases", "sort_order", "project_id", p.ID))

	// результаты добавляются после существующих
	require.Len(t, phases[1].Deliverables, 2)
	assert.Equal(t, "existing", phases[1].Deliverables[0].Title)
	assert.Equal(t, "new", phases[1].Deliverables[1].Title)
	assert.Equal(t, 1, phases[1].Deliverables[1].SortOrder)

	// повторный импорт не плодит фазы, но дублирует результаты
	_, err = r.plan.ApplyImport(ctx, p.ID, plan)
	require.NoError(t, err)
	assert.EqualValues(t, 3, countRows(t, r.db, &model.ProjectPhase{}, "project_id = ?", p.ID))
	assert.EqualValues(t, 3, countRows(t, r.db, &model.ProjectDeliverable{}, "phase_id = ?", b.ID))
}

func TestApplyImport_UnknownProject(t *testing.T) {
	r := newRepos(t)
	_, err := r.plan.ApplyImport(context.Background(), "missing", ImportPlan{Phases: []ImportPhase{{Name: "A"}}})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.Zero(t, countRows(t, r.db, &model.ProjectPhase{}, "1 = 1"))
}
