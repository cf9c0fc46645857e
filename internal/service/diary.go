package service

import (
	"ProjectDesk/internal/apperr"
	"ProjectDesk/internal/blob"
	"ProjectDesk/internal/model"
	"ProjectDesk/internal/reldate"
	"ProjectDesk/internal/repo"
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// DiaryService — дневник проекта: записи по дням, изображения и комментарии.
type DiaryService struct {
	projects repo.ProjectRepository
	diary    repo.DiaryRepository
	blobs    blob.Store
	logger   *zap.SugaredLogger
}

func NewDiaryService(projects repo.ProjectRepository, diary repo.DiaryRepository, blobs blob.Store, logger *zap.SugaredLogger) *DiaryService {
	return &DiaryService{projects: projects, diary: diary, blobs: blobs, logger: logger}
}

type DiaryInput struct {
	Date    string  `json:"date" validate:"required,day"`
	Content *string `json:"content" validate:"omitempty,max=50000"`
}

type DiaryPatch struct {
	Date    *string                `json:"date" validate:"omitempty,day"`
	Content model.Nullable[string] `json:"content" validate:"omitempty,max=50000"`
}

// CalendarDays — ответ календаря: дни месяца, в которых что-то есть.
type CalendarDays struct {
	Dates []string `json:"dates"`
}

func (s *DiaryService) List(ctx context.Context, projectID string) ([]model.DiaryEntry, error) {
	if err := projectExists(ctx, s.projects, projectID); err != nil {
		return nil, err
	}
	return s.diary.List(ctx, projectID)
}

func (s *DiaryService) CalendarDays(ctx context.Context, projectID string, year, month int) (*CalendarDays, error) {
	if err := projectExists(ctx, s.projects, projectID); err != nil {
		return nil, err
	}
	return calendarDays(year, month, func(from, to time.Time) ([]time.Time, error) {
		return s.diary.Days(ctx, projectID, from, to)
	})
}

// calendarDays — общий обход месяца для дневника и событий.
func calendarDays(year, month int, days func(from, to time.Time) ([]time.Time, error)) (*CalendarDays, error) {
	from, to, err := reldate.MonthRange(year, month)
	if err != nil {
		return nil, apperr.Validation("Parametri year e month non validi")
	}
	list, err := days(from, to)
	if err != nil {
		return nil, err
	}
	out := &CalendarDays{Dates: make([]string, 0, len(list))}
	for _, d := range list {
		out.Dates = append(out.Dates, reldate.FormatDay(d))
	}
	return out, nil
}

// requiredDay разбирает обязательный параметр date.
func requiredDay(v string) (time.Time, error) {
	d, err := reldate.ParseDay(v)
	if err != nil {
		return time.Time{}, apperr.Validation("Parametro date richiesto (YYYY-MM-DD)")
	}
	return d, nil
}

func (s *DiaryService) ByDate(ctx context.Context, projectID, date string) ([]model.DiaryEntry, error) {
	day, err := requiredDay(date)
	if err != nil {
		return nil, err
	}
	if err := projectExists(ctx, s.projects, projectID); err != nil {
		return nil, err
	}
	return s.diary.ByDate(ctx, projectID, day)
}

func (s *DiaryService) Get(ctx context.Context, projectID, id string) (*model.DiaryEntry, error) {
	e, err := s.diary.Get(ctx, projectID, id)
	if err != nil {
		return nil, notFound(err, msgEntryNotFound)
	}
	return e, nil
}

func (s *DiaryService) Create(ctx context.Context, projectID string, in DiaryInput) (*model.DiaryEntry, error) {
	day, err := parseDay("date", &in.Date)
	if err != nil {
		return nil, err
	}
	if day == nil {
		return nil, apperr.Validation("date: campo obbligatorio")
	}
	if err := projectExists(ctx, s.projects, projectID); err != nil {
		return nil, err
	}
	return s.diary.Create(ctx, &model.DiaryEntry{
		ProjectID: projectID,
		Date:      datatypes.Date(*day),
		Content:   in.Content,
	})
}

func (s *DiaryService) Update(ctx context.Context, projectID, id string, in DiaryPatch) (*model.DiaryEntry, error) {
	fields := map[string]any{}
	if in.Date != nil {
		day, err := parseDay("date", in.Date)
		if err != nil {
			return nil, err
		}
		if day == nil {
			return nil, apperr.Validation("date: campo obbligatorio")
		}
		fields["date"] = datatypes.Date(*day)
	}
	if in.Content.Set {
		fields["content"] = in.Content.Ptr()
	}
	e, err := s.diary.Update(ctx, projectID, id, fields)
	if err != nil {
		return nil, notFound(err, msgEntryNotFound)
	}
	return e, nil
}

func (s *DiaryService) Delete(ctx context.Context, projectID, id string) error {
	paths, err := s.diary.Delete(ctx, projectID, id)
	if err != nil {
		return notFound(err, msgEntryNotFound)
	}
	removeFiles(ctx, s.blobs, s.logger, paths)
	return nil
}

func (s *DiaryService) AddImage(ctx context.Context, projectID, entryID string, u Upload) (*model.DiaryImage, error) {
	if _, err := s.diary.Get(ctx, projectID, entryID); err != nil {
		return nil, notFound(err, msgEntryNotFound)
	}
	path, err := storeImage(ctx, s.blobs, u)
	if err != nil {
		return nil, err
	}
	img, err := s.diary.AddImage(ctx, projectID, entryID, displayName(u.Filename), path)
	if err != nil {
		dropStored(ctx, s.blobs, s.logger, path)
		return nil, notFound(err, msgEntryNotFound)
	}
	return img, nil
}

func (s *DiaryService) RemoveImage(ctx context.Context, projectID, entryID, imageID string) error {
	path, err := s.diary.RemoveImage(ctx, projectID, entryID, imageID)
	if err != nil {
		return notFound(err, msgImageNotFound)
	}
	removeFiles(ctx, s.blobs, s.logger, []string{path})
	return nil
}

func (s *DiaryService) AddComment(ctx context.Context, projectID, entryID string, in CommentInput) (*model.DiaryComment, error) {
	content, err := required("content", in.Content)
	if err != nil {
		return nil, err
	}
	c, err := s.diary.AddComment(ctx, projectID, entryID, content)
	if err != nil {
		return nil, notFound(err, msgEntryNotFound)
	}
	return c, nil
}
