package service

import (
	"ProjectDesk/internal/apperr"
	"ProjectDesk/internal/model"
	"ProjectDesk/internal/repo"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func dueOn(s string) *datatypes.Date {
	d := datatypes.Date(day(s))
	return &d
}

func TestSummarize_Classification(t *testing.T) {
	todo := &model.BoardColumn{ID: "c1", Name: "Da fare"}
	done := &model.BoardColumn{ID: "c3", Name: "Completato"}
	n1, n2 := int64(4), int64(2)
	data := &repo.SummaryData{
		Project: model.Project{ID: "p1", Name: "P"},
		Columns: []model.BoardColumn{
			{ID: "c1", Name: "Da fare", Count: &model.Count{Tasks: &n1}},
			{ID: "c3", Name: "Completato", Count: &model.Count{Tasks: &n2}},
		},
		Tasks: []model.Task{
			{ID: "late", ColumnID: "c1", Column: todo, DueDate: dueOn("2024-05-09")},
			{ID: "late-done", ColumnID: "c3", Column: done, DueDate: dueOn("2024-05-01")},
			{ID: "today", ColumnID: "c1", Column: todo, DueDate: dueOn("2024-05-10")},
			{ID: "edge", ColumnID: "c1", Column: todo, DueDate: dueOn("2024-08-09")},
			{ID: "far", ColumnID: "c1", Column: todo, DueDate: dueOn("2024-08-10")},
			{ID: "from-deliverable", ColumnID: "c3", Column: done, Deliverable: &model.ProjectDeliverable{ID: "d1"}},
		},
		DiaryCount: 7,
	}

	s := Summarize(data, day("2024-05-10"))

	ids := func(ts []SummaryTask) []string {
		out := make([]string, 0, len(ts))
		for _, t := range ts {
			out = append(out, t.ID)
		}
		return out
	}
	assert.Equal(t, []string{"late"}, ids(s.Overdue))
	assert.Equal(t, []string{"today", "edge"}, ids(s.Upcoming))
	assert.Equal(t, []string{"from-deliverable"}, ids(s.Completed))
	require.NotNil(t, s.Completed[0].DeliverableID)
	assert.Equal(t, "d1", *s.Completed[0].DeliverableID)

	assert.Equal(t, 6, s.Analytics.TotalTasks)
	assert.Equal(t, 1, s.Analytics.OverdueCount)
	assert.Equal(t, 2, s.Analytics.UpcomingCount)
	assert.Equal(t, 1, s.Analytics.CompletedCount)
	assert.Equal(t, int64(7), s.Analytics.TotalDiaryEntries)
	assert.Equal(t, []ColumnCount{{ID: "c1", Name: "Da fare", Count: 4}, {ID: "c3", Name: "Completato", Count: 2}}, s.Analytics.ByColumn)
	assert.NotNil(t, s.FutureEvents)
	assert.NotNil(t, s.Phases)
}

func TestSummarize_UpcomingCappedButCounted(t *testing.T) {
	col := &model.BoardColumn{ID: "c1", Name: "In corso"}
	data := &repo.SummaryData{Project: model.Project{ID: "p1"}}
	for i := 0; i < 25; i++ {
		data.Tasks = append(data.Tasks, model.Task{ID: string(rune('a' + i)), Column: col, DueDate: dueOn("2024-06-01")})
	}
	s := Summarize(data, day("2024-05-10"))
	assert.Len(t, s.Upcoming, upcomingLimit)
	assert.Equal(t, 25, s.Analytics.UpcomingCount)
}

func TestSummaryService_Get(t *testing.T) {
	sr := new(mockSummaryRepo)
	svc := NewSummaryService(new(mockProjectRepo), sr, nil, zap.NewNop().Sugar())
	svc.Now = func() time.Time { return time.Date(2024, 5, 10, 15, 30, 0, 0, time.Local) }

	sr.On("Load", mock.Anything, "p1", day("2024-05-10"), summaryEventsLimit).
		Return(&repo.SummaryData{Project: model.Project{ID: "p1", Name: "P"}}, nil).Once()
	got, err := svc.Get(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "P", got.Project.Name)

	sr.On("Load", mock.Anything, "nope", mock.Anything, mock.Anything).Return(nil, gorm.ErrRecordNotFound).Once()
	_, err = svc.Get(context.Background(), "nope")
	assert.True(t, apperr.IsCode(err, apperr.CodeNotFound))
	sr.AssertExpectations(t)
}

func TestSummaryService_SetT0(t *testing.T) {
	pr := new(mockProjectRepo)
	svc := NewSummaryService(pr, new(mockSummaryRepo), nil, zap.NewNop().Sugar())
	ctx := context.Background()

	t0 := day("2024-03-01")
	pr.On("SetT0", mock.Anything, "p1", &t0).Return(&model.Project{ID: "p1"}, nil).Once()
	_, err := svc.SetT0(ctx, "p1", T0Input{T0Date: model.Of("2024-03-01")})
	require.NoError(t, err)

	pr.On("SetT0", mock.Anything, "p1", (*time.Time)(nil)).Return(&model.Project{ID: "p1"}, nil).Once()
	_, err = svc.SetT0(ctx, "p1", T0Input{T0Date: model.Null[string]()})
	require.NoError(t, err)

	_, err = svc.SetT0(ctx, "p1", T0Input{})
	assert.True(t, apperr.IsCode(err, apperr.CodeValidation))
	_, err = svc.SetT0(ctx, "p1", T0Input{T0Date: model.Of("01/03/2024")})
	assert.True(t, apperr.IsCode(err, apperr.CodeValidation))

	pr.AssertExpectations(t)
}
