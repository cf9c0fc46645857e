package service

import (
	"ProjectDesk/internal/apperr"
	"ProjectDesk/internal/model"
	"ProjectDesk/internal/reldate"
	"ProjectDesk/internal/repo"
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// ImportDocument — файл импорта плана (JSON или YAML).
type ImportDocument struct {
	ProjectName  *string             `json:"projectName" yaml:"projectName"`
	T0           *string             `json:"t0" yaml:"t0"`
	Phases       []ImportItem        `json:"phases" yaml:"phases"`
	WorkPackages []ImportWorkPackage `json:"workPackages" yaml:"workPackages"`
}

type ImportItem struct {
	Name         string              `json:"name" yaml:"name"`
	StartDate    *string             `json:"startDate" yaml:"startDate"`
	EndDate      *string             `json:"endDate" yaml:"endDate"`
	Deliverables []ImportDeliverable `json:"deliverables" yaml:"deliverables"`
}

type ImportWorkPackage struct {
	ImportItem `yaml:",inline"`
	PhaseName  *string `json:"phaseName" yaml:"phaseName"`
}

type ImportDeliverable struct {
	Type        string  `json:"type" yaml:"type"`
	Title       string  `json:"title" yaml:"title"`
	Description *string `json:"description" yaml:"description"`
	DueDate     *string `json:"dueDate" yaml:"dueDate"`
}

// ImportService разбирает документ, проверяет его целиком и передаёт
// репозиторию уже разрешённый план для записи одной транзакцией.
type ImportService struct {
	projects repo.ProjectRepository
	plan     repo.PlanRepository
	logger   *zap.SugaredLogger
}

func NewImportService(projects repo.ProjectRepository, plan repo.PlanRepository, logger *zap.SugaredLogger) *ImportService {
	return &ImportService{projects: projects, plan: plan, logger: logger}
}

// Import применяет файл плана к проекту и возвращает число обработанных элементов.
func (s *ImportService) Import(ctx context.Context, projectID, filename, contentType string, data []byte) (repo.ImportCounts, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return repo.ImportCounts{}, apperr.Validation("Nessun file caricato")
	}
	doc, err := DecodeImport(filename, contentType, data)
	if err != nil {
		return repo.ImportCounts{}, err
	}
	p, err := s.projects.Get(ctx, projectID)
	if err != nil {
		return repo.ImportCounts{}, notFound(err, msgProjectNotFound)
	}
	plan, err := BuildImportPlan(doc, t0Of(p))
	if err != nil {
		return repo.ImportCounts{}, err
	}
	counts, err := s.plan.ApplyImport(ctx, projectID, plan)
	if err != nil {
		return repo.ImportCounts{}, notFound(err, msgProjectNotFound)
	}
	s.logger.Infow("plan imported",
		"project_id", projectID,
		"phases", counts.Phases,
		"work_packages", counts.WorkPackages,
		"deliverables", counts.Deliverables,
	)
	return counts, nil
}

// isYAML — выбор формата по расширению файла или типу содержимого.
func isYAML(filename, contentType string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		return true
	}
	ct := strings.ToLower(contentType)
	return strings.Contains(ct, "yaml")
}

// DecodeImport читает документ; ошибка разбора — ошибка валидации.
func DecodeImport(filename, contentType string, data []byte) (*ImportDocument, error) {
	var doc ImportDocument
	if isYAML(filename, contentType) {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, apperr.Validation("File YAML non valido: %v", err)
		}
		return &doc, nil
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, apperr.Validation("File JSON non valido: %v", err)
	}
	return &doc, nil
}

// BuildImportPlan проверяет документ и разрешает даты относительно T0 документа
// (если это корректный день) или T0 проекта.
func BuildImportPlan(doc *ImportDocument, projectT0 *time.Time) (repo.ImportPlan, error) {
	var plan repo.ImportPlan
	if doc.ProjectName != nil {
		if name := strings.TrimSpace(*doc.ProjectName); name != "" {
			plan.ProjectName = &name
		}
	}
	t0 := projectT0
	if doc.T0 != nil {
		if d, err := reldate.ParseDay(strings.TrimSpace(*doc.T0)); err == nil {
			plan.T0 = &d
			t0 = &d
		}
	}

	for i, in := range doc.Phases {
		name, err := boundedText(itemField("phases", i, "name"), in.Name, 200)
		if err != nil {
			return repo.ImportPlan{}, err
		}
		ds, err := importDeliverables(itemField("phases", i, "deliverables"), in.Deliverables, t0)
		if err != nil {
			return repo.ImportPlan{}, err
		}
		plan.Phases = append(plan.Phases, repo.ImportPhase{
			Name:         name,
			Dates:        importDates(in.StartDate, in.EndDate, t0),
			Deliverables: ds,
		})
	}
	for i, in := range doc.WorkPackages {
		name, err := boundedText(itemField("workPackages", i, "name"), in.Name, 200)
		if err != nil {
			return repo.ImportPlan{}, err
		}
		ds, err := importDeliverables(itemField("workPackages", i, "deliverables"), in.Deliverables, t0)
		if err != nil {
			return repo.ImportPlan{}, err
		}
		var phaseName *string
		if in.PhaseName != nil {
			n := strings.TrimSpace(*in.PhaseName)
			phaseName = &n
		}
		plan.WorkPackages = append(plan.WorkPackages, repo.ImportWorkPackage{
			Name:         name,
			PhaseName:    phaseName,
			Dates:        importDates(in.StartDate, in.EndDate, t0),
			Deliverables: ds,
		})
	}
	return plan, nil
}

func itemField(list string, i int, field string) string {
	return list + "[" + strconv.Itoa(i) + "]." + field
}

// importDates: нераспознанное значение даёт пустую дату, как и отсутствующее.
func importDates(start, end *string, t0 *time.Time) repo.ImportDates {
	var d repo.ImportDates
	if start != nil {
		r := reldate.ParseDateOrRelative(*start, t0)
		d.Start, d.StartRelative = r.Date, r.Relative
	}
	if end != nil {
		r := reldate.ParseDateOrRelative(*end, t0)
		d.End, d.EndRelative = r.Date, r.Relative
	}
	return d
}

func importDeliverables(field string, in []ImportDeliverable, t0 *time.Time) ([]repo.ImportDeliverable, error) {
	out := make([]repo.ImportDeliverable, 0, len(in))
	for j, d := range in {
		prefix := field + "[" + strconv.Itoa(j) + "]"
		typ := model.DeliverableType(strings.TrimSpace(d.Type))
		if !typ.Valid() {
			return nil, apperr.Validation("%s.type: tipo di deliverable non valido (%q)", prefix, d.Type)
		}
		title, err := boundedText(prefix+".title", d.Title, 500)
		if err != nil {
			return nil, err
		}
		item := repo.ImportDeliverable{
			Type:        typ,
			Title:       title,
			Description: optionalText(d.Description),
		}
		if d.DueDate != nil {
			r := reldate.ParseDateOrRelative(*d.DueDate, t0)
			item.Due, item.DueRelative = r.Date, r.Relative
		}
		out = append(out, item)
	}
	return out, nil
}
