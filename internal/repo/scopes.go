package repo

import "ProjectDesk/internal/ordering"

// Таблицы моделей (именование gorm по умолчанию).
const (
	tableColumns      = "board_columns"
	tableTasks        = "tasks"
	tableSections     = "project_config_sections"
	tableLinks        = "project_links"
	tablePhases       = "project_phases"
	tableWorkPackages = "work_packages"
	tableDeliverables = "project_deliverables"
)

func columnScope(projectID string) ordering.Scope {
	return ordering.Scope{Table: tableColumns, Column: "position", Conds: map[string]any{"project_id": projectID}}
}

func taskScope(columnID string) ordering.Scope {
	return ordering.Scope{Table: tableTasks, Column: "position", Conds: map[string]any{"column_id": columnID}}
}

func sectionScope(projectID string) ordering.Scope {
	return ordering.Scope{Table: tableSections, Column: "position", Conds: map[string]any{"project_id": projectID}}
}

func linkScope(sectionID string) ordering.Scope {
	return ordering.Scope{Table: tableLinks, Column: "position", Conds: map[string]any{"section_id": sectionID}}
}

func phaseScope(projectID string) ordering.Scope {
	return ordering.Scope{Table: tablePhases, Column: "sort_order", Conds: map[string]any{"project_id": projectID}}
}

func workPackageScope(projectID string) ordering.Scope {
	return ordering.Scope{Table: tableWorkPackages, Column: "sort_order", Conds: map[string]any{"project_id": projectID}}
}

// deliverableScope — результаты одного родителя: фазы либо пакета работ.
func deliverableScope(phaseID, workPackageID *string) ordering.Scope {
	if workPackageID != nil {
		return ordering.Scope{Table: tableDeliverables, Column: "sort_order", Conds: map[string]any{"work_package_id": *workPackageID}}
	}
	var phase any
	if phaseID != nil {
		phase = *phaseID
	}
	return ordering.Scope{Table: tableDeliverables, Column: "sort_order", Conds: map[string]any{"phase_id": phase, "work_package_id": nil}}
}
