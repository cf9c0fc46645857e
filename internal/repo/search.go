package repo

import (
	"ProjectDesk/internal/model"
	"context"
	"strings"

	"gorm.io/gorm"
)

// SearchResult — найденные задачи и записи дневника.
type SearchResult struct {
	Tasks []model.Task       `json:"tasks"`
	Diary []model.DiaryEntry `json:"diary"`
}

type SearchRepository interface {
	// Search ищет подстроку без учёта регистра; projectID == "" означает все проекты.
	Search(ctx context.Context, query, projectID string, limit int) (*SearchResult, error)
}

type searchRepo struct {
	db *gorm.DB
}

func NewSearchRepository(db *gorm.DB) SearchRepository {
	return &searchRepo{db: db}
}

// likePattern экранирует % и _ и оборачивает запрос для LIKE ... ESCAPE '!'.
// Обратная косая черта не подходит: MySQL считает её экранированием в литерале.
func likePattern(q string) string {
	r := strings.NewReplacer(`!`, `!!`, `%`, `!%`, `_`, `!_`)
	return "%" + r.Replace(strings.ToLower(q)) + "%"
}

func (r *searchRepo) Search(ctx context.Context, query, projectID string, limit int) (*SearchResult, error) {
	db := r.db.WithContext(ctx)
	p := likePattern(query)
	out := &SearchResult{Tasks: []model.Task{}, Diary: []model.DiaryEntry{}}

	tq := db.
		Preload("Project").
		Preload("Column").
		Preload("Comments", func(q *gorm.DB) *gorm.DB { return q.Order("created_at ASC") }).
		Preload("Attachments").
		Where(`LOWER(title) LIKE ? ESCAPE '!'`+
			` OR LOWER(COALESCE(description, '')) LIKE ? ESCAPE '!'`+
			` OR EXISTS (SELECT 1 FROM task_comments c WHERE c.task_id = tasks.id AND LOWER(c.content) LIKE ? ESCAPE '!')`+
			` OR EXISTS (SELECT 1 FROM task_attachments a WHERE a.task_id = tasks.id AND LOWER(a.filename) LIKE ? ESCAPE '!')`,
			p, p, p, p)
	if projectID != "" {
		tq = tq.Where("project_id = ?", projectID)
	}
	if err := tq.Order("created_at DESC").Limit(limit).Find(&out.Tasks).Error; err != nil {
		return nil, err
	}

	dq := db.
		Preload("Project").
		Preload("Images").
		Preload("Comments", func(q *gorm.DB) *gorm.DB { return q.Order("created_at ASC") }).
		Where(`LOWER(COALESCE(content, '')) LIKE ? ESCAPE '!'`+
			` OR EXISTS (SELECT 1 FROM diary_comments c WHERE c.diary_entry_id = diary_entries.id AND LOWER(c.content) LIKE ? ESCAPE '!')`+
			` OR EXISTS (SELECT 1 FROM diary_images i WHERE i.diary_entry_id = diary_entries.id AND LOWER(i.filename) LIKE ? ESCAPE '!')`,
			p, p, p)
	if projectID != "" {
		dq = dq.Where("project_id = ?", projectID)
	}
	if err := dq.Order("date DESC").Order("created_at DESC").Limit(limit).Find(&out.Diary).Error; err != nil {
		return nil, err
	}
	return out, nil
}
