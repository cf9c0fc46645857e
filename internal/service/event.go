package service

import (
	"ProjectDesk/internal/apperr"
	"ProjectDesk/internal/model"
	"ProjectDesk/internal/reldate"
	"ProjectDesk/internal/repo"
	"context"
	"regexp"
	"strings"
	"time"

	"gorm.io/datatypes"
)

const futureEventsLimit = 15

// TimeRe — время события HH:MM (24 часа, час может быть одной цифрой).
var TimeRe = regexp.MustCompile(`^([01]?\d|2[0-3]):[0-5]\d$`)

type EventService struct {
	projects repo.ProjectRepository
	events   repo.EventRepository

	Now func() time.Time
}

func NewEventService(projects repo.ProjectRepository, events repo.EventRepository) *EventService {
	return &EventService{projects: projects, events: events, Now: time.Now}
}

type EventInput struct {
	Date  string          `json:"date" validate:"required,day"`
	Time  *string         `json:"time" validate:"omitempty,hhmm"`
	Type  model.EventType `json:"type" validate:"required,oneof=call meeting other"`
	Name  string          `json:"name" validate:"required,notblank,max=300"`
	Notes *string         `json:"notes" validate:"omitempty,max=2000"`
}

type EventPatch struct {
	Date  *string                `json:"date" validate:"omitempty,day"`
	Time  model.Nullable[string] `json:"time" validate:"omitempty,hhmm"`
	Type  *model.EventType       `json:"type" validate:"omitempty,oneof=call meeting other"`
	Name  *string                `json:"name" validate:"omitempty,notblank,max=300"`
	Notes model.Nullable[string] `json:"notes" validate:"omitempty,max=2000"`
}

func (s *EventService) List(ctx context.Context, projectID string) ([]model.ProjectEvent, error) {
	if err := projectExists(ctx, s.projects, projectID); err != nil {
		return nil, err
	}
	return s.events.List(ctx, projectID)
}

func (s *EventService) CalendarDays(ctx context.Context, projectID string, year, month int) (*CalendarDays, error) {
	if err := projectExists(ctx, s.projects, projectID); err != nil {
		return nil, err
	}
	return calendarDays(year, month, func(from, to time.Time) ([]time.Time, error) {
		return s.events.Days(ctx, projectID, from, to)
	})
}

// Future — ближайшие события начиная с сегодняшнего дня.
func (s *EventService) Future(ctx context.Context, projectID string) ([]model.ProjectEvent, error) {
	if err := projectExists(ctx, s.projects, projectID); err != nil {
		return nil, err
	}
	return s.events.Future(ctx, projectID, reldate.Today(s.Now()), futureEventsLimit)
}

func (s *EventService) ByDate(ctx context.Context, projectID, date string) ([]model.ProjectEvent, error) {
	day, err := requiredDay(date)
	if err != nil {
		return nil, err
	}
	if err := projectExists(ctx, s.projects, projectID); err != nil {
		return nil, err
	}
	return s.events.ByDate(ctx, projectID, day)
}

func (s *EventService) Get(ctx context.Context, projectID, id string) (*model.ProjectEvent, error) {
	e, err := s.events.Get(ctx, projectID, id)
	if err != nil {
		return nil, notFound(err, msgEventNotFound)
	}
	return e, nil
}

func (s *EventService) Create(ctx context.Context, projectID string, in EventInput) (*model.ProjectEvent, error) {
	day, err := requiredDay(in.Date)
	if err != nil {
		return nil, err
	}
	tm, err := eventTime(in.Time)
	if err != nil {
		return nil, err
	}
	if !validEventType(in.Type) {
		return nil, apperr.Validation("type: valori ammessi call, meeting, other")
	}
	name, err := required("name", in.Name)
	if err != nil {
		return nil, err
	}
	if err := projectExists(ctx, s.projects, projectID); err != nil {
		return nil, err
	}
	return s.events.Create(ctx, &model.ProjectEvent{
		ProjectID: projectID,
		Date:      datatypes.Date(day),
		Time:      tm,
		Type:      in.Type,
		Name:      name,
		Notes:     in.Notes,
	})
}

func (s *EventService) Update(ctx context.Context, projectID, id string, in EventPatch) (*model.ProjectEvent, error) {
	fields := map[string]any{}
	if in.Date != nil {
		day, err := requiredDay(*in.Date)
		if err != nil {
			return nil, err
		}
		fields["date"] = datatypes.Date(day)
	}
	if in.Time.Set {
		tm, err := eventTime(in.Time.Ptr())
		if err != nil {
			return nil, err
		}
		fields["event_time"] = tm
	}
	if in.Type != nil {
		if !validEventType(*in.Type) {
			return nil, apperr.Validation("type: valori ammessi call, meeting, other")
		}
		fields["type"] = *in.Type
	}
	if in.Name != nil {
		name, err := required("name", *in.Name)
		if err != nil {
			return nil, err
		}
		fields["name"] = name
	}
	if in.Notes.Set {
		fields["notes"] = in.Notes.Ptr()
	}
	e, err := s.events.Update(ctx, projectID, id, fields)
	if err != nil {
		return nil, notFound(err, msgEventNotFound)
	}
	return e, nil
}

func (s *EventService) Delete(ctx context.Context, projectID, id string) error {
	return notFound(s.events.Delete(ctx, projectID, id), msgEventNotFound)
}

// eventTime проверяет HH:MM и дополняет час до двух цифр ("9:05" -> "09:05"),
// чтобы строковая сортировка совпадала с хронологической.
func eventTime(v *string) (*string, error) {
	if v == nil || strings.TrimSpace(*v) == "" {
		return nil, nil
	}
	t := strings.TrimSpace(*v)
	if !TimeRe.MatchString(t) {
		return nil, apperr.Validation("time: formato HH:MM")
	}
	if len(t) == 4 {
		t = "0" + t
	}
	return &t, nil
}

func validEventType(t model.EventType) bool {
	switch t {
	case model.EventCall, model.EventMeeting, model.EventOther:
		return true
	}
	return false
}
