package service

import (
	"ProjectDesk/internal/apperr"
	"ProjectDesk/internal/model"
	"ProjectDesk/internal/repo"
	"context"
	"net/url"
	"unicode/utf8"
)

// ConfigService — секции конфигурации проекта и ссылки в них.
type ConfigService struct {
	projects repo.ProjectRepository
	sections repo.SectionRepository
}

func NewConfigService(projects repo.ProjectRepository, sections repo.SectionRepository) *ConfigService {
	return &ConfigService{projects: projects, sections: sections}
}

type SectionInput struct {
	Name     string  `json:"name" validate:"required,notblank,max=120"`
	TypeSlug *string `json:"typeSlug" validate:"omitempty,oneof=links repo docs other"`
}

type SectionPatch struct {
	Name     *string                `json:"name" validate:"omitempty,notblank,max=120"`
	TypeSlug model.Nullable[string] `json:"typeSlug" validate:"omitempty,oneof=links repo docs other"`
}

type ReorderSectionsInput struct {
	SectionIDs []string `json:"sectionIds" validate:"required,dive,required"`
}

type LinkInput struct {
	Label string  `json:"label" validate:"required,notblank,max=200"`
	URL   *string `json:"url" validate:"omitempty,url"`
}

type LinkPatch struct {
	Label *string                `json:"label" validate:"omitempty,notblank,max=200"`
	URL   model.Nullable[string] `json:"url" validate:"omitempty,url"`
}

type ReorderLinksInput struct {
	LinkIDs []string `json:"linkIds" validate:"required,dive,required"`
}

// SectionTypes — статический список типов секций.
func (s *ConfigService) SectionTypes() []model.SectionType {
	return model.SectionTypes
}

func (s *ConfigService) List(ctx context.Context, projectID string) ([]model.ProjectConfigSection, error) {
	if err := projectExists(ctx, s.projects, projectID); err != nil {
		return nil, err
	}
	return s.sections.List(ctx, projectID)
}

func (s *ConfigService) CreateSection(ctx context.Context, projectID string, in SectionInput) (*model.ProjectConfigSection, error) {
	name, err := boundedText("name", in.Name, 120)
	if err != nil {
		return nil, err
	}
	if err := projectExists(ctx, s.projects, projectID); err != nil {
		return nil, err
	}
	return s.sections.Create(ctx, projectID, name, sectionType(in.TypeSlug))
}

func (s *ConfigService) UpdateSection(ctx context.Context, projectID, id string, in SectionPatch) (*model.ProjectConfigSection, error) {
	fields := map[string]any{}
	if in.Name != nil {
		name, err := boundedText("name", *in.Name, 120)
		if err != nil {
			return nil, err
		}
		fields["name"] = name
	}
	if in.TypeSlug.Set {
		fields["type_slug"] = sectionType(in.TypeSlug.Ptr())
	}
	sec, err := s.sections.Update(ctx, projectID, id, fields)
	if err != nil {
		return nil, notFound(err, msgSectionNotFound)
	}
	return sec, nil
}

func (s *ConfigService) DeleteSection(ctx context.Context, projectID, id string) error {
	return notFound(s.sections.Delete(ctx, projectID, id), msgSectionNotFound)
}

func (s *ConfigService) ReorderSections(ctx context.Context, projectID string, in ReorderSectionsInput) ([]model.ProjectConfigSection, error) {
	if err := projectExists(ctx, s.projects, projectID); err != nil {
		return nil, err
	}
	return s.sections.Reorder(ctx, projectID, in.SectionIDs)
}

func (s *ConfigService) CreateLink(ctx context.Context, projectID, sectionID string, in LinkInput) (*model.ProjectLink, error) {
	label, err := boundedText("label", in.Label, 200)
	if err != nil {
		return nil, err
	}
	u, err := linkURL(in.URL)
	if err != nil {
		return nil, err
	}
	l, err := s.sections.CreateLink(ctx, projectID, sectionID, label, u)
	if err != nil {
		return nil, notFound(err, msgSectionNotFound)
	}
	return l, nil
}

func (s *ConfigService) UpdateLink(ctx context.Context, projectID, sectionID, id string, in LinkPatch) (*model.ProjectLink, error) {
	fields := map[string]any{}
	if in.Label != nil {
		label, err := boundedText("label", *in.Label, 200)
		if err != nil {
			return nil, err
		}
		fields["label"] = label
	}
	if in.URL.Set {
		u, err := linkURL(in.URL.Ptr())
		if err != nil {
			return nil, err
		}
		fields["url"] = u
	}
	if err := s.sectionExists(ctx, projectID, sectionID); err != nil {
		return nil, err
	}
	l, err := s.sections.UpdateLink(ctx, projectID, sectionID, id, fields)
	if err != nil {
		return nil, notFound(err, msgLinkNotFound)
	}
	return l, nil
}

func (s *ConfigService) DeleteLink(ctx context.Context, projectID, sectionID, id string) error {
	if err := s.sectionExists(ctx, projectID, sectionID); err != nil {
		return err
	}
	return notFound(s.sections.DeleteLink(ctx, projectID, sectionID, id), msgLinkNotFound)
}

func (s *ConfigService) ReorderLinks(ctx context.Context, projectID, sectionID string, in ReorderLinksInput) ([]model.ProjectLink, error) {
	links, err := s.sections.ReorderLinks(ctx, projectID, sectionID, in.LinkIDs)
	if err != nil {
		return nil, notFound(err, msgSectionNotFound)
	}
	return links, nil
}

func (s *ConfigService) sectionExists(ctx context.Context, projectID, id string) error {
	_, err := s.sections.Get(ctx, projectID, id)
	return notFound(err, msgSectionNotFound)
}

// boundedText обрезает пробелы и проверяет длину в символах.
func boundedText(field, v string, max int) (string, error) {
	t, err := required(field, v)
	if err != nil {
		return "", err
	}
	if utf8.RuneCountInString(t) > max {
		return "", apperr.Validation("%s: massimo %d caratteri", field, max)
	}
	return t, nil
}

// sectionType — "other" и пустое значение хранятся как NULL.
func sectionType(v *string) *string {
	t := optionalText(v)
	if t == nil || *t == model.SectionTypeOther {
		return nil
	}
	return t
}

// linkURL — "" означает отсутствие ссылки, иначе нужен абсолютный URL.
func linkURL(v *string) (*string, error) {
	t := optionalText(v)
	if t == nil {
		return nil, nil
	}
	u, err := url.Parse(*t)
	if err != nil || u.Scheme == "" || (u.Host == "" && u.Opaque == "") {
		return nil, apperr.Validation("url: URL non valido")
	}
	return t, nil
}
