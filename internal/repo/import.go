package repo

import (
	"ProjectDesk/internal/model"
	"ProjectDesk/internal/ordering"
	"context"
	"errors"
	"slices"
	"time"

	"gorm.io/gorm"
)

// ImportDates — уже разрешённые даты элемента плана и исходные относительные выражения.
type ImportDates struct {
	Start         *time.Time
	End           *time.Time
	StartRelative *string
	EndRelative   *string
}

type ImportDeliverable struct {
	Type        model.DeliverableType
	Title       string
	Description *string
	Due         *time.Time
	DueRelative *string
}

type ImportPhase struct {
	Name         string
	Dates        ImportDates
	Deliverables []ImportDeliverable
}

type ImportWorkPackage struct {
	Name         string
	PhaseName    *string
	Dates        ImportDates
	Deliverables []ImportDeliverable
}

// ImportPlan — проверенный документ импорта. Даты разрешены сервисом
// относительно того же T0, что записывается в проект.
type ImportPlan struct {
	ProjectName  *string
	T0           *time.Time
	Phases       []ImportPhase
	WorkPackages []ImportWorkPackage
}

type ImportCounts struct {
	Phases       int `json:"phases"`
	WorkPackages int `json:"workPackages"`
	Deliverables int `json:"deliverables"`
}

func (r *planRepo) ApplyImport(ctx context.Context, projectID string, plan ImportPlan) (ImportCounts, error) {
	var counts ImportCounts
	phases, wps := phaseScope(projectID), workPackageScope(projectID)
	defer r.locks.LockMany(phases.Key(), wps.Key())()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").First(&model.Project{}, "id = ?", projectID).Error; err != nil {
			return err
		}
		if plan.ProjectName != nil {
			if err := tx.Model(&model.Project{}).Where("id = ?", projectID).Update("name", *plan.ProjectName).Error; err != nil {
				return err
			}
		}
		if plan.T0 != nil {
			if err := tx.Model(&model.Project{}).Where("id = ?", projectID).Update("t0_date", dateValue(plan.T0)).Error; err != nil {
				return err
			}
			if err := recomputeRelative(tx, projectID, plan.T0); err != nil {
				return err
			}
		}

		// фазы
		before, err := ordering.IDs(tx, phases)
		if err != nil {
			return err
		}
		phaseIDs := make([]string, 0, len(plan.Phases))
		byName := make(map[string]string, len(plan.Phases))
		for i, in := range plan.Phases {
			id, err := upsertPhase(tx, projectID, i, in)
			if err != nil {
				return err
			}
			phaseIDs = append(phaseIDs, id)
			if _, ok := byName[in.Name]; !ok {
				byName[in.Name] = id
			}
			n, err := createDeliverables(tx, projectID, &id, nil, in.Deliverables)
			if err != nil {
				return err
			}
			counts.Deliverables += n
		}
		if err := ordering.Reorder(tx, phases, importedFirst(phaseIDs, before)); err != nil {
			return err
		}
		counts.Phases = len(plan.Phases)

		// пакеты работ
		before, err = ordering.IDs(tx, wps)
		if err != nil {
			return err
		}
		wpIDs := make([]string, 0, len(plan.WorkPackages))
		for i, in := range plan.WorkPackages {
			phaseID, err := phaseByName(tx, projectID, byName, in.PhaseName)
			if err != nil {
				return err
			}
			id, err := upsertWorkPackage(tx, projectID, phaseID, i, in)
			if err != nil {
				return err
			}
			wpIDs = append(wpIDs, id)
			n, err := createDeliverables(tx, projectID, nil, &id, in.Deliverables)
			if err != nil {
				return err
			}
			counts.Deliverables += n
		}
		if err := ordering.Reorder(tx, wps, importedFirst(wpIDs, before)); err != nil {
			return err
		}
		counts.WorkPackages = len(plan.WorkPackages)
		return nil
	})
	if err != nil {
		return ImportCounts{}, err
	}
	return counts, nil
}

// upsertPhase обновляет первую фазу с таким именем или создаёт новую.
func upsertPhase(tx *gorm.DB, projectID string, index int, in ImportPhase) (string, error) {
	var existing model.ProjectPhase
	err := tx.Where("project_id = ? AND name = ?", projectID, in.Name).
		Order("sort_order ASC").Order("id ASC").
		First(&existing).Error
	switch {
	case err == nil:
		err = tx.Model(&model.ProjectPhase{}).Where("id = ?", existing.ID).Updates(dateFields(in.Dates)).Error
		return existing.ID, err
	case errors.Is(err, gorm.ErrRecordNotFound):
		p := &model.ProjectPhase{
			ProjectID:         projectID,
			Name:              in.Name,
			SortOrder:         index,
			StartDate:         datePtr(in.Dates.Start),
			EndDate:           datePtr(in.Dates.End),
			StartDateRelative: in.Dates.StartRelative,
			EndDateRelative:   in.Dates.EndRelative,
		}
		if err := tx.Create(p).Error; err != nil {
			return "", err
		}
		return p.ID, nil
	default:
		return "", err
	}
}

func upsertWorkPackage(tx *gorm.DB, projectID string, phaseID *string, index int, in ImportWorkPackage) (string, error) {
	var existing model.WorkPackage
	err := tx.Where("project_id = ? AND name = ?", projectID, in.Name).
		Order("sort_order ASC").Order("id ASC").
		First(&existing).Error
	switch {
	case err == nil:
		fields := dateFields(in.Dates)
		fields["phase_id"] = phaseID
		err = tx.Model(&model.WorkPackage{}).Where("id = ?", existing.ID).Updates(fields).Error
		return existing.ID, err
	case errors.Is(err, gorm.ErrRecordNotFound):
		w := &model.WorkPackage{
			ProjectID:         projectID,
			PhaseID:           phaseID,
			Name:              in.Name,
			SortOrder:         index,
			StartDate:         datePtr(in.Dates.Start),
			EndDate:           datePtr(in.Dates.End),
			StartDateRelative: in.Dates.StartRelative,
			EndDateRelative:   in.Dates.EndRelative,
		}
		if err := tx.Create(w).Error; err != nil {
			return "", err
		}
		return w.ID, nil
	default:
		return "", err
	}
}

// phaseByName ищет фазу сначала среди импортированных, затем среди уже существующих.
// Неизвестное имя даёт nil: пакет работ остаётся без фазы.
func phaseByName(tx *gorm.DB, projectID string, imported map[string]string, name *string) (*string, error) {
	if name == nil {
		return nil, nil
	}
	if id, ok := imported[*name]; ok {
		return &id, nil
	}
	var ids []string
	err := tx.Model(&model.ProjectPhase{}).
		Where("project_id = ? AND name = ?", projectID, *name).
		Order("sort_order ASC").Limit(1).
		Pluck("id", &ids).Error
	if err != nil || len(ids) == 0 {
		return nil, err
	}
	return &ids[0], nil
}

// createDeliverables добавляет результаты в конец списка родителя.
func createDeliverables(tx *gorm.DB, projectID string, phaseID, workPackageID *string, in []ImportDeliverable) (int, error) {
	if len(in) == 0 {
		return 0, nil
	}
	existing, err := ordering.Count(tx, deliverableScope(phaseID, workPackageID))
	if err != nil {
		return 0, err
	}
	rows := make([]model.ProjectDeliverable, len(in))
	for i, d := range in {
		rows[i] = model.ProjectDeliverable{
			ProjectID:       projectID,
			PhaseID:         phaseID,
			WorkPackageID:   workPackageID,
			Type:            d.Type,
			Title:           d.Title,
			Description:     d.Description,
			DueDate:         datePtr(d.Due),
			DueDateRelative: d.DueRelative,
			SortOrder:       existing + i,
		}
	}
	if err := tx.Create(&rows).Error; err != nil {
		return 0, err
	}
	return len(rows), nil
}

func dateFields(d ImportDates) map[string]any {
	return map[string]any{
		"start_date":          dateValue(d.Start),
		"end_date":            dateValue(d.End),
		"start_date_relative": d.StartRelative,
		"end_date_relative":   d.EndRelative,
	}
}

// importedFirst — импортированные id в порядке документа, затем остальные в прежнем порядке.
func importedFirst(imported, before []string) []string {
	out := slices.Clone(imported)
	for _, id := range before {
		if !slices.Contains(imported, id) {
			out = append(out, id)
		}
	}
	return out
}
