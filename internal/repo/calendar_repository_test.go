package repo

import (
	"ProjectDesk/internal/model"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func days(ts []time.Time) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.Format(time.DateOnly)
	}
	return out
}

func TestDiaryRepository_DaysAndByDate(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()
	p := r.project(t, "P")
	for _, d := range []string{"2024-02-10", "2024-02-10", "2024-02-29", "2024-03-01", "2024-01-31"} {
		_, err := r.diary.Create(ctx, &model.DiaryEntry{ProjectID: p.ID, Date: dateOf(d), Content: strPtr("note " + d)})
		require.NoError(t, err)
	}

	got, err := r.diary.Days(ctx, p.ID, day("2024-02-01"), day("2024-02-29"))
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-02-10", "2024-02-29"}, days(got))

	entries, err := r.diary.ByDate(ctx, p.ID, day("2024-02-10"))
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	all, err := r.diary.List(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, all, 5)
	assert.Equal(t, "2024-03-01", time.Time(all[0].Date).Format(time.DateOnly))
}

func TestDiaryRepository_ImagesAndComments(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()
	p := r.project(t, "P")
	other := r.project(t, "Other")
	e, err := r.diary.Create(ctx, &model.DiaryEntry{ProjectID: p.ID, Date: dateOf("2024-02-10")})
	require.NoError(t, err)

	img, err := r.diary.AddImage(ctx, p.ID, e.ID, "foto.png", "uploads/f.png")
	require.NoError(t, err)
	_, err = r.diary.AddComment(ctx, p.ID, e.ID, "bello")
	require.NoError(t, err)
	_, err = r.diary.AddComment(ctx, other.ID, e.ID, "x")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	got, err := r.diary.Update(ctx, p.ID, e.ID, map[string]any{"content": "testo"})
	require.NoError(t, err)
	assert.Equal(t, "testo", *got.Content)
	assert.Len(t, got.Images, 1)
	assert.Len(t, got.Comments, 1)

	_, err = r.diary.RemoveImage(ctx, other.ID, e.ID, img.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	path, err := r.diary.RemoveImage(ctx, p.ID, e.ID, img.ID)
	require.NoError(t, err)
	assert.Equal(t, "uploads/f.png", path)

	_, err = r.diary.AddImage(ctx, p.ID, e.ID, "b.png", "uploads/b.png")
	require.NoError(t, err)
	paths, err := r.diary.Delete(ctx, p.ID, e.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"uploads/b.png"}, paths)
	assert.Zero(t, countRows(t, r.db, &model.DiaryComment{}, "diary_entry_id = ?", e.ID))
}

func TestEventRepository_OrderingAndFuture(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()
	p := r.project(t, "P")
	mk := func(date string, at *string, name string) {
		_, err := r.events.Create(ctx, &model.ProjectEvent{ProjectID: p.ID, Date: dateOf(date), Time: at, Type: model.EventMeeting, Name: name})
		require.NoError(t, err)
	}
	mk("2024-01-10", strPtr("15:00"), "afternoon")
	mk("2024-01-10", strPtr("09:30"), "morning")
	mk("2024-01-10", nil, "all day")
	mk("2024-01-05", nil, "past")
	mk("2024-02-01", nil, "later")

	future, err := r.events.Future(ctx, p.ID, day("2024-01-10"), 15)
	require.NoError(t, err)
	names := make([]string, 0, len(future))
	for _, e := range future {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"all day", "morning", "afternoon", "later"}, names)

	limited, err := r.events.Future(ctx, p.ID, day("2024-01-01"), 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	got, err := r.events.Days(ctx, p.ID, day("2024-01-01"), day("2024-01-31"))
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-01-05", "2024-01-10"}, days(got))

	byDate, err := r.events.ByDate(ctx, p.ID, day("2024-01-10"))
	require.NoError(t, err)
	assert.Len(t, byDate, 3)

	upd, err := r.events.Update(ctx, p.ID, byDate[0].ID, map[string]any{"event_time": "08:00", "notes": "n"})
	require.NoError(t, err)
	assert.Equal(t, "08:00", *upd.Time)

	require.NoError(t, r.events.Delete(ctx, p.ID, upd.ID))
	assert.ErrorIs(t, r.events.Delete(ctx, p.ID, upd.ID), gorm.ErrRecordNotFound)
}

func TestSectionRepository_SectionsAndLinks(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()
	p := r.project(t, "P")

	a, err := r.sections.Create(ctx, p.ID, "Repo", strPtr("repo"))
	require.NoError(t, err)
	b, err := r.sections.Create(ctx, p.ID, "Altro", nil)
	require.NoError(t, err)
	assert.Equal(t, 0, a.Order)
	assert.Equal(t, 1, b.Order)

	l1, err := r.sections.CreateLink(ctx, p.ID, a.ID, "github", strPtr("https://github.com"))
	require.NoError(t, err)
	l2, err := r.sections.CreateLink(ctx, p.ID, a.ID, "ci", nil)
	require.NoError(t, err)
	l3, err := r.sections.CreateLink(ctx, p.ID, a.ID, "wiki", nil)
	require.NoError(t, err)
	assert.Equal(t, 2, l3.Order)

	links, err := r.sections.ReorderLinks(ctx, p.ID, a.ID, []string{l3.ID, l1.ID, l2.ID})
	require.NoError(t, err)
	require.Len(t, links, 3)
	assert.Equal(t, l3.ID, links[0].ID)

	require.NoError(t, r.sections.DeleteLink(ctx, p.ID, a.ID, l3.ID))
	assert.Equal(t, []int{0, 1}, positionsOf(t, r.db, "project_links", "position", "section_id", a.ID))

	_, err = r.sections.CreateLink(ctx, p.ID, "missing", "x", nil)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	sections, err := r.sections.Reorder(ctx, p.ID, []string{b.ID, a.ID})
	require.NoError(t, err)
	assert.Equal(t, b.ID, sections[0].ID)

	require.NoError(t, r.sections.Delete(ctx, p.ID, b.ID))
	list, err := r.sections.List(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 0, list[0].Order)
	assert.Len(t, list[0].Links, 2)
}
