package service

import (
	"ProjectDesk/internal/apperr"
	"ProjectDesk/internal/model"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiaryService_Calendar(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	p := e.project(t, "P")

	for _, d := range []string{"2024-05-03", "2024-05-03", "2024-05-20", "2024-06-01"} {
		_, err := e.diarySvc.Create(ctx, p.ID, DiaryInput{Date: d, Content: strPtr("nota")})
		require.NoError(t, err)
	}

	days, err := e.diarySvc.CalendarDays(ctx, p.ID, 2024, 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-05-03", "2024-05-20"}, days.Dates)

	_, err = e.diarySvc.CalendarDays(ctx, p.ID, 2024, 13)
	assert.True(t, apperr.IsCode(err, apperr.CodeValidation))

	entries, err := e.diarySvc.ByDate(ctx, p.ID, "2024-05-03")
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	_, err = e.diarySvc.ByDate(ctx, p.ID, "03/05/2024")
	assert.Equal(t, "Parametro date richiesto (YYYY-MM-DD)", messageOf(err))

	upd, err := e.diarySvc.Update(ctx, p.ID, entries[0].ID, DiaryPatch{Content: model.Null[string]()})
	require.NoError(t, err)
	assert.Nil(t, upd.Content)
	assert.Equal(t, "2024-05-03", time.Time(upd.Date).Format(time.DateOnly))
}

func TestEventService(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	p := e.project(t, "P")
	e.eventSvc.Now = func() time.Time { return time.Date(2024, 5, 10, 18, 0, 0, 0, time.Local) }

	_, err := e.eventSvc.Create(ctx, p.ID, EventInput{Date: "2024-05-10", Time: strPtr("25:00"), Type: model.EventCall, Name: "x"})
	assert.True(t, apperr.IsCode(err, apperr.CodeValidation))
	_, err = e.eventSvc.Create(ctx, p.ID, EventInput{Date: "2024-05-10", Type: "party", Name: "x"})
	assert.True(t, apperr.IsCode(err, apperr.CodeValidation))

	ev, err := e.eventSvc.Create(ctx, p.ID, EventInput{Date: "2024-05-12", Time: strPtr("9:05"), Type: model.EventMeeting, Name: "Riunione"})
	require.NoError(t, err)
	require.NotNil(t, ev.Time)
	assert.Equal(t, "09:05", *ev.Time)
	_, err = e.eventSvc.Create(ctx, p.ID, EventInput{Date: "2024-05-10", Type: model.EventCall, Name: "Oggi"})
	require.NoError(t, err)
	_, err = e.eventSvc.Create(ctx, p.ID, EventInput{Date: "2024-05-09", Type: model.EventOther, Name: "Ieri"})
	require.NoError(t, err)

	future, err := e.eventSvc.Future(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, future, 2)
	assert.Equal(t, "Oggi", future[0].Name)
	assert.Equal(t, "Riunione", future[1].Name)

	ev, err = e.eventSvc.Update(ctx, p.ID, ev.ID, EventPatch{Time: model.Null[string]()})
	require.NoError(t, err)
	assert.Nil(t, ev.Time)

	require.NoError(t, e.eventSvc.Delete(ctx, p.ID, ev.ID))
	assert.Equal(t, msgEventNotFound, messageOf(e.eventSvc.Delete(ctx, p.ID, ev.ID)))
}

func TestConfigService_SectionsAndLinks(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	p := e.project(t, "P")

	s1, err := e.configSvc.CreateSection(ctx, p.ID, SectionInput{Name: "Repo", TypeSlug: strPtr("repo")})
	require.NoError(t, err)
	s2, err := e.configSvc.CreateSection(ctx, p.ID, SectionInput{Name: "Varie", TypeSlug: strPtr("other")})
	require.NoError(t, err)
	assert.Nil(t, s2.TypeSlug)
	assert.Equal(t, 1, s2.Order)

	_, err = e.configSvc.CreateLink(ctx, p.ID, s1.ID, LinkInput{Label: "git", URL: strPtr("not a url")})
	assert.True(t, apperr.IsCode(err, apperr.CodeValidation))
	_, err = e.configSvc.CreateLink(ctx, p.ID, "missing", LinkInput{Label: "git"})
	assert.Equal(t, msgSectionNotFound, messageOf(err))

	l1, err := e.configSvc.CreateLink(ctx, p.ID, s1.ID, LinkInput{Label: "git", URL: strPtr("https://example.org/repo")})
	require.NoError(t, err)
	l2, err := e.configSvc.CreateLink(ctx, p.ID, s1.ID, LinkInput{Label: "ci"})
	require.NoError(t, err)

	links, err := e.configSvc.ReorderLinks(ctx, p.ID, s1.ID, ReorderLinksInput{LinkIDs: []string{l2.ID, l1.ID}})
	require.NoError(t, err)
	require.Len(t, links, 2)
	assert.Equal(t, l2.ID, links[0].ID)

	sections, err := e.configSvc.ReorderSections(ctx, p.ID, ReorderSectionsInput{SectionIDs: []string{s2.ID, s1.ID}})
	require.NoError(t, err)
	assert.Equal(t, s2.ID, sections[0].ID)

	err = e.configSvc.DeleteLink(ctx, p.ID, s2.ID, l1.ID)
	assert.Equal(t, msgLinkNotFound, messageOf(err), "ссылка из чужой секции")
	require.NoError(t, e.configSvc.DeleteLink(ctx, p.ID, s1.ID, l1.ID))
}
