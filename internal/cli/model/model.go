// Package model — представления ответов API, которые выводит pdcli.
package model

// Project — проект в списке.
type Project struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	T0Date    *string `json:"t0Date"`
	CreatedAt string  `json:"createdAt"`
	Count     *struct {
		Tasks        *int64 `json:"tasks"`
		DiaryEntries *int64 `json:"diaryEntries"`
	} `json:"_count"`
}

// ImportResult — итог импорта плана.
type ImportResult struct {
	OK     bool `json:"ok"`
	Counts struct {
		Phases       int `json:"phases"`
		WorkPackages int `json:"workPackages"`
		Deliverables int `json:"deliverables"`
	} `json:"counts"`
}

type Summary struct {
	Project struct {
		ID     string  `json:"id"`
		Name   string  `json:"name"`
		T0Date *string `json:"t0Date"`
	} `json:"project"`
	Analytics struct {
		TotalTasks int `json:"totalTasks"`
		ByColumn   []struct {
			Name  string `json:"name"`
			Count int64  `json:"count"`
		} `json:"byColumn"`
		OverdueCount      int   `json:"overdueCount"`
		UpcomingCount     int   `json:"upcomingCount"`
		CompletedCount    int   `json:"completedCount"`
		TotalDiaryEntries int64 `json:"totalDiaryEntries"`
	} `json:"analytics"`
	Overdue      []SummaryTask `json:"overdue"`
	Upcoming     []SummaryTask `json:"upcoming"`
	Phases       []PlanItem    `json:"phases"`
	WorkPackages []PlanItem    `json:"workPackages"`
}

type SummaryTask struct {
	ID      string  `json:"id"`
	Title   string  `json:"title"`
	DueDate *string `json:"dueDate"`
}

// PlanItem — фаза или пакет работ.
type PlanItem struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	StartDate *string `json:"startDate"`
	EndDate   *string `json:"endDate"`
}

type SearchResult struct {
	Tasks []SearchTask  `json:"tasks"`
	Diary []SearchDiary `json:"diary"`
}

type SearchTask struct {
	ID        string `json:"id"`
	ProjectID string `json:"projectId"`
	Title     string `json:"title"`
}

type SearchDiary struct {
	ID        string  `json:"id"`
	ProjectID string  `json:"projectId"`
	Date      string  `json:"date"`
	Content   *string `json:"content"`
}
