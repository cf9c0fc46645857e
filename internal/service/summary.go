package service

import (
	"ProjectDesk/internal/apperr"
	"ProjectDesk/internal/model"
	"ProjectDesk/internal/reldate"
	"ProjectDesk/internal/repo"
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
)

const (
	upcomingLimit      = 20
	upcomingMonths     = 3
	summaryEventsLimit = 30
)

// SummaryService — сводка проекта, T0 и сброс структуры плана.
type SummaryService struct {
	projects repo.ProjectRepository
	summary  repo.SummaryRepository
	plan     repo.PlanRepository
	logger   *zap.SugaredLogger

	// Now — источник "сегодня"; подменяется в тестах.
	Now func() time.Time
}

func NewSummaryService(projects repo.ProjectRepository, summary repo.SummaryRepository, plan repo.PlanRepository, logger *zap.SugaredLogger) *SummaryService {
	return &SummaryService{projects: projects, summary: summary, plan: plan, logger: logger, Now: time.Now}
}

type Summary struct {
	Project      SummaryProject       `json:"project"`
	Analytics    Analytics            `json:"analytics"`
	Overdue      []SummaryTask        `json:"overdue"`
	Upcoming     []SummaryTask        `json:"upcoming"`
	Completed    []SummaryTask        `json:"completed"`
	FutureEvents []model.ProjectEvent `json:"futureEvents"`
	Phases       []model.ProjectPhase `json:"phases"`
	WorkPackages []model.WorkPackage  `json:"workPackages"`
}

type SummaryProject struct {
	ID     string          `json:"id"`
	Name   string          `json:"name"`
	T0Date *datatypes.Date `json:"t0Date"`
}

type Analytics struct {
	TotalTasks        int           `json:"totalTasks"`
	ByColumn          []ColumnCount `json:"byColumn"`
	OverdueCount      int           `json:"overdueCount"`
	UpcomingCount     int           `json:"upcomingCount"`
	CompletedCount    int           `json:"completedCount"`
	TotalDiaryEntries int64         `json:"totalDiaryEntries"`
}

type ColumnCount struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

// SummaryTask — задача в списках сводки.
type SummaryTask struct {
	ID            string              `json:"id"`
	Title         string              `json:"title"`
	DueDate       *datatypes.Date     `json:"dueDate"`
	ColumnID      string              `json:"columnId"`
	Column        *model.BoardColumn  `json:"column"`
	Phase         *model.ProjectPhase `json:"phase"`
	WorkPackage   *model.WorkPackage  `json:"workPackage"`
	DeliverableID *string             `json:"deliverableId"`
}

type T0Input struct {
	T0Date model.Nullable[string] `json:"t0Date" validate:"omitempty,day"`
}

// Get собирает сводку относительно сегодняшнего дня.
func (s *SummaryService) Get(ctx context.Context, projectID string) (*Summary, error) {
	today := reldate.Today(s.Now())
	data, err := s.summary.Load(ctx, projectID, today, summaryEventsLimit)
	if err != nil {
		return nil, notFound(err, msgProjectNotFound)
	}
	out := Summarize(data, today)
	return &out, nil
}

// Summarize классифицирует задачи: просроченные, ближайшие (до трёх месяцев вперёд)
// и завершённые, пришедшие из результатов плана.
func Summarize(data *repo.SummaryData, today time.Time) Summary {
	horizon := reldate.AddMonths(today, upcomingMonths)
	out := Summary{
		Project: SummaryProject{ID: data.Project.ID, Name: data.Project.Name, T0Date: data.Project.T0Date},
		Analytics: Analytics{
			TotalTasks:        len(data.Tasks),
			ByColumn:          make([]ColumnCount, 0, len(data.Columns)),
			TotalDiaryEntries: data.DiaryCount,
		},
		Overdue:      []SummaryTask{},
		Upcoming:     []SummaryTask{},
		Completed:    []SummaryTask{},
		FutureEvents: nonNil(data.FutureEvents),
		Phases:       nonNil(data.Phases),
		WorkPackages: nonNil(data.WorkPackages),
	}
	for _, c := range data.Columns {
		var n int64
		if c.Count != nil && c.Count.Tasks != nil {
			n = *c.Count.Tasks
		}
		out.Analytics.ByColumn = append(out.Analytics.ByColumn, ColumnCount{ID: c.ID, Name: c.Name, Count: n})
	}

	for i := range data.Tasks {
		t := &data.Tasks[i]
		done := isCompletedColumn(t.Column)
		if t.DueDate != nil {
			due := time.Time(*t.DueDate)
			switch {
			case due.Before(today):
				if !done {
					out.Overdue = append(out.Overdue, summaryTask(t))
				}
			case due.Before(horizon):
				out.Analytics.UpcomingCount++
				if len(out.Upcoming) < upcomingLimit {
					out.Upcoming = append(out.Upcoming, summaryTask(t))
				}
			}
		}
		if done && t.Deliverable != nil {
			out.Completed = append(out.Completed, summaryTask(t))
		}
	}
	out.Analytics.OverdueCount = len(out.Overdue)
	out.Analytics.CompletedCount = len(out.Completed)
	return out
}

func isCompletedColumn(c *model.BoardColumn) bool {
	return c != nil && strings.EqualFold(strings.TrimSpace(c.Name), model.CompletedColumn)
}

func summaryTask(t *model.Task) SummaryTask {
	st := SummaryTask{
		ID:          t.ID,
		Title:       t.Title,
		DueDate:     t.DueDate,
		ColumnID:    t.ColumnID,
		Column:      t.Column,
		Phase:       t.Phase,
		WorkPackage: t.WorkPackage,
	}
	if t.Deliverable != nil {
		st.DeliverableID = &t.Deliverable.ID
	}
	return st
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// SetT0 сохраняет T0 и пересчитывает относительные даты плана; null очищает T0.
func (s *SummaryService) SetT0(ctx context.Context, projectID string, in T0Input) (*model.Project, error) {
	if !in.T0Date.Set {
		return nil, apperr.Validation("t0Date: campo obbligatorio (YYYY-MM-DD o null)")
	}
	t0, err := parseDay("t0Date", in.T0Date.Ptr())
	if err != nil {
		return nil, err
	}
	p, err := s.projects.SetT0(ctx, projectID, t0)
	if err != nil {
		return nil, notFound(err, msgProjectNotFound)
	}
	s.logger.Infow("t0 updated", "project_id", projectID, "t0", in.T0Date.Ptr())
	return p, nil
}

// ResetStructure удаляет фазы, пакеты работ и результаты; задачи остаются без привязки.
func (s *SummaryService) ResetStructure(ctx context.Context, projectID string) error {
	if err := s.plan.ResetStructure(ctx, projectID); err != nil {
		return notFound(err, msgProjectNotFound)
	}
	s.logger.Infow("plan structure reset", "project_id", projectID)
	return nil
}
