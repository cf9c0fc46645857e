package handlers

import (
	"ProjectDesk/internal/blob"
	"ProjectDesk/internal/config"
	"ProjectDesk/internal/middleware"
	"ProjectDesk/internal/service"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

type Handler struct {
	Router chi.Router
}

// Services — сервисы, которые обслуживает HTTP-слой.
type Services struct {
	Projects *service.ProjectService
	Board    *service.BoardService
	Tasks    *service.TaskService
	Diary    *service.DiaryService
	Events   *service.EventService
	Config   *service.ConfigService
	Plan     *service.PlanService
	Import   *service.ImportService
	Summary  *service.SummaryService
	Search   *service.SearchService
}

// NewHandler разводящий для хендлеров
func NewHandler(svc Services, blobs blob.Store, logger *zap.SugaredLogger, cfg *config.Config) *Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.WithRecovery)
	r.Use(middleware.WithGzip)
	r.Use(middleware.WithLogging)

	base := &api{Logger: logger, Config: cfg, validate: newValidator()}

	projectHandler := &ProjectHandler{api: base, Projects: svc.Projects}
	boardHandler := &BoardHandler{api: base, Board: svc.Board}
	taskHandler := &TaskHandler{api: base, Tasks: svc.Tasks}
	diaryHandler := &DiaryHandler{api: base, Diary: svc.Diary}
	eventHandler := &EventHandler{api: base, Events: svc.Events}
	configHandler := &ConfigHandler{api: base, Sections: svc.Config}
	planHandler := &PlanHandler{api: base, Plan: svc.Plan}
	summaryHandler := &SummaryHandler{api: base, Summary: svc.Summary, Importer: svc.Import}
	searchHandler := &SearchHandler{api: base, Searcher: svc.Search}
	fileHandler := &FileHandler{api: base, Blobs: blobs}

	r.Get("/api/health", Health)
	r.Get("/"+blob.PublicPrefix+"/{name}", fileHandler.Serve)
	r.Get("/api/search", searchHandler.Search)

	r.Route("/api/projects", func(r chi.Router) {
		r.Get("/", projectHandler.List)
		r.Post("/", projectHandler.Create)

		r.Route("/{projectId}", func(r chi.Router) {
			r.Get("/", projectHandler.Get)
			r.Patch("/", projectHandler.Rename)
			r.Delete("/", projectHandler.Delete)

			// Board
			r.Get("/board", boardHandler.List)
			r.Post("/board", boardHandler.Create)
			r.Post("/board/reorder", boardHandler.Reorder)
			r.Patch("/board/{columnId}", boardHandler.Rename)
			r.Delete("/board/{columnId}", boardHandler.Delete)

			// Tasks
			r.Route("/tasks", func(r chi.Router) {
				r.Get("/", taskHandler.List)
				r.Post("/", taskHandler.Create)
				r.Get("/nearest-due", taskHandler.NearestDue)
				r.Get("/{taskId}", taskHandler.Get)
				r.Patch("/{taskId}", taskHandler.Update)
				r.Delete("/{taskId}", taskHandler.Delete)
				r.Post("/{taskId}/move", taskHandler.Move)
				r.Post("/{taskId}/comments", taskHandler.AddComment)
				r.Post("/{taskId}/attachments", taskHandler.AddAttachment)
				r.Delete("/{taskId}/attachments/{attachmentId}", taskHandler.RemoveAttachment)
			})

			// Diary
			r.Route("/diary", func(r chi.Router) {
				r.Get("/", diaryHandler.List)
				r.Post("/", diaryHandler.Create)
				r.Get("/calendar-days", diaryHandler.CalendarDays)
				r.Get("/by-date", diaryHandler.ByDate)
				r.Get("/{entryId}", diaryHandler.Get)
				r.Patch("/{entryId}", diaryHandler.Update)
				r.Delete("/{entryId}", diaryHandler.Delete)
				r.Post("/{entryId}/images", diaryHandler.AddImage)
				r.Delete("/{entryId}/images/{imageId}", diaryHandler.RemoveImage)
				r.Post("/{entryId}/comments", diaryHandler.AddComment)
			})

			// Events
			r.Route("/events", func(r chi.Router) {
				r.Get("/", eventHandler.List)
				r.Post("/", eventHandler.Create)
				r.Get("/calendar-days", eventHandler.CalendarDays)
				r.Get("/future", eventHandler.Future)
				r.Get("/by-date", eventHandler.ByDate)
				r.Get("/{eventId}", eventHandler.Get)
				r.Patch("/{eventId}", eventHandler.Update)
				r.Delete("/{eventId}", eventHandler.Delete)
			})

			// Config sections and links
			r.Get("/section-types", configHandler.SectionTypes)
			r.Route("/sections", func(r chi.Router) {
				r.Get("/", configHandler.List)
				r.Post("/", configHandler.CreateSection)
				r.Post("/reorder", configHandler.ReorderSections)
				r.Patch("/{sectionId}", configHandler.UpdateSection)
				r.Delete("/{sectionId}", configHandler.DeleteSection)
				r.Post("/{sectionId}/links", configHandler.CreateLink)
				r.Post("/{sectionId}/links/reorder", configHandler.ReorderLinks)
				r.Patch("/{sectionId}/links/{linkId}", configHandler.UpdateLink)
				r.Delete("/{sectionId}/links/{linkId}", configHandler.DeleteLink)
			})

			// Plan
			r.Route("/phases", func(r chi.Router) {
				r.Get("/", planHandler.ListPhases)
				r.Post("/", planHandler.CreatePhase)
				r.Post("/reorder", planHandler.ReorderPhases)
				r.Patch("/{phaseId}", planHandler.UpdatePhase)
				r.Delete("/{phaseId}", planHandler.DeletePhase)
			})
			r.Route("/work-packages", func(r chi.Router) {
				r.Get("/", planHandler.ListWorkPackages)
				r.Post("/", planHandler.CreateWorkPackage)
				r.Post("/reorder", planHandler.ReorderWorkPackages)
				r.Patch("/{workPackageId}", planHandler.UpdateWorkPackage)
				r.Delete("/{workPackageId}", planHandler.DeleteWorkPackage)
			})
			r.Route("/deliverables", func(r chi.Router) {
				r.Post("/", planHandler.CreateDeliverable)
				r.Patch("/{deliverableId}", planHandler.UpdateDeliverable)
				r.Delete("/{deliverableId}", planHandler.DeleteDeliverable)
				r.Post("/{deliverableId}/convert-to-task", planHandler.ConvertToTask)
			})

			// Summary
			r.Route("/summary", func(r chi.Router) {
				r.Get("/", summaryHandler.Get)
				r.Post("/import", summaryHandler.Import)
				r.Post("/import-from-json", summaryHandler.Import)
				r.Patch("/t0", summaryHandler.SetT0)
				r.Post("/reset-structure", summaryHandler.ResetStructure)
			})
		})
	})

	return &Handler{Router: r}
}
