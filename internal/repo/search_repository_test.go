package repo

import (
	"ProjectDesk/internal/model"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLikePattern(t *testing.T) {
	assert.Equal(t, "%abc%", likePattern("ABC"))
	assert.Equal(t, "%50!%!_off!!%", likePattern("50%_off!"))
}

func TestSearchRepository_Search(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()
	p := r.project(t, "P")
	other := r.project(t, "Other")

	byTitle := r.task(t, p.ID, p.Columns[0].ID, "Schema Elettrico")
	byComment := r.task(t, p.ID, p.Columns[1].ID, "plain")
	_, err := r.tasks.AddComment(ctx, p.ID, byComment.ID, "vedi schema allegato")
	require.NoError(t, err)
	byFile := r.task(t, p.ID, p.Columns[0].ID, "file")
	_, err = r.tasks.AddAttachment(ctx, p.ID, byFile.ID, "SCHEMA.png", "uploads/s.png")
	require.NoError(t, err)
	r.task(t, p.ID, p.Columns[0].ID, "unrelated")
	foreign := r.task(t, other.ID, other.Columns[0].ID, "schema estero")

	e, err := r.diary.Create(ctx, &model.DiaryEntry{ProjectID: p.ID, Date: dateOf("2024-01-10"), Content: strPtr("Rivisto lo schema")})
	require.NoError(t, err)
	_, err = r.diary.Create(ctx, &model.DiaryEntry{ProjectID: p.ID, Date: dateOf("2024-01-11")})
	require.NoError(t, err)

	res, err := r.search.Search(ctx, "schema", "", 50)
	require.NoError(t, err)
	ids := make([]string, 0, len(res.Tasks))
	for _, task := range res.Tasks {
		ids = append(ids, task.ID)
		require.NotNil(t, task.Project)
		require.NotNil(t, task.Column)
	}
	assert.ElementsMatch(t, []string{byTitle.ID, byComment.ID, byFile.ID, foreign.ID}, ids)
	require.Len(t, res.Diary, 1)
	assert.Equal(t, e.ID, res.Diary[0].ID)
	assert.Equal(t, "P", res.Diary[0].Project.Name)

	scoped, err := r.search.Search(ctx, "SCHEMA", p.ID, 50)
	require.NoError(t, err)
	assert.Len(t, scoped.Tasks, 3)

	limited, err := r.search.Search(ctx, "schema", "", 2)
	require.NoError(t, err)
	assert.Len(t, limited.Tasks, 2)
}

func TestSearchRepository_EscapesWildcards(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()
	p := r.project(t, "P")
	r.task(t, p.ID, p.Columns[0].ID, "sconto 50% su tutto")
	r.task(t, p.ID, p.Columns[0].ID, "50 euro")

	res, err := r.search.Search(ctx, "50%", "", 50)
	require.NoError(t, err)
	require.Len(t, res.Tasks, 1)
	assert.Equal(t, "sconto 50% su tutto", res.Tasks[0].Title)

	res, err = r.search.Search(ctx, "_", "", 50)
	require.NoError(t, err)
	assert.Empty(t, res.Tasks)
	assert.NotNil(t, res.Diary)
}

func TestSummaryRepository_Load(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()
	p := r.project(t, "P")
	ph, err := r.plan.CreatePhase(ctx, &model.ProjectPhase{ProjectID: p.ID, Name: "F"})
	require.NoError(t, err)
	d, err := r.plan.CreateDeliverable(ctx, &model.ProjectDeliverable{ProjectID: p.ID, PhaseID: &ph.ID, Type: model.DeliverableDocument, Title: "D"})
	require.NoError(t, err)
	task, err := r.plan.ConvertToTask(ctx, p.ID, d.ID)
	require.NoError(t, err)
	r.task(t, p.ID, p.Columns[1].ID, "other")
	_, err = r.diary.Create(ctx, &model.DiaryEntry{ProjectID: p.ID, Date: dateOf("2024-01-10")})
	require.NoError(t, err)
	for _, date := range []string{"2023-12-31", "2024-01-10", "2024-02-01"} {
		_, err := r.events.Create(ctx, &model.ProjectEvent{ProjectID: p.ID, Date: dateOf(date), Type: model.EventCall, Name: date})
		require.NoError(t, err)
	}

	data, err := r.summary.Load(ctx, p.ID, day("2024-01-10"), 30)
	require.NoError(t, err)
	assert.Equal(t, "P", data.Project.Name)
	require.Len(t, data.Columns, 3)
	assert.EqualValues(t, 1, *data.Columns[0].Count.Tasks)
	require.Len(t, data.Phases, 1)
	require.Len(t, data.Phases[0].Deliverables, 1)
	assert.Len(t, data.Tasks, 2)
	assert.Len(t, data.FutureEvents, 2)
	assert.EqualValues(t, 1, data.DiaryCount)

	var converted *model.Task
	for i := range data.Tasks {
		if data.Tasks[i].ID == task.ID {
			converted = &data.Tasks[i]
		}
	}
	require.NotNil(t, converted)
	require.NotNil(t, converted.Deliverable)
	assert.Equal(t, d.ID, converted.Deliverable.ID)
	require.NotNil(t, converted.Column)
	assert.Equal(t, "Da fare", converted.Column.Name)

	_, err = r.summary.Load(ctx, "missing", time.Now(), 30)
	assert.Error(t, err)
}
