package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/arnold/taskboard-api/internal/handlers"
	"github.com/arnold/taskboard-api/internal/middleware"
)

func Setup(app *fiber.App, h *handlers.Handler, secret string) {
	app.Get("/health", h.Health)

	api := app.Group("/api", middleware.Protected(secret))

	api.Get("/me", h.GetMe)
	api.Get("/users/:id", h.GetUserProfile)

	projects := api.Group("/projects")
	projects.Get("/", h.GetProjects)
	projects.Post("/", h.CreateProject)
	projects.Get("/:id", h.GetProject)
	projects.Put("/:id", h.UpdateProject)
	projects.Put("/:id/archive", h.ArchiveProject)
	projects.Delete("/:id", h.DeleteProject)
	projects.Get("/:id/activity", h.GetProjectActivity)

	// Members & invites
	projects.Get("/:id/members", h.GetMembers)
	projects.Post("/:id/members", h.AddMember)
	projects.Put("/:id/members/:userId", h.UpdateMember)
	projects.Delete("/:id/members/:userId", h.RemoveMember)
	projects.Post("/:id/leave", h.LeaveProject)
	projects.Post("/:id/invites", h.CreateInvite)
	api.Post("/invites/:code/join", h.JoinProject)

	projects.Get("/:id/boards", h.GetBoards)
	projects.Post("/:id/boards", h.CreateBoard)
	projects.Put("/:id/boards/order", h.ReorderBoards)

	boards := api.Group("/boards")
	boards.Get("/:id", h.GetBoard)
	boards.Put("/:id", h.UpdateBoard)
	boards.Put("/:id/position", h.UpdateBoardPosition)
	boards.Put("/:id/archive", h.ArchiveBoard)
	boards.Delete("/:id", h.DeleteBoard)
	boards.Get("/:id/columns", h.GetColumns)
	boards.Post("/:id/columns", h.CreateColumn)
	boards.Put("/:id/columns/order", h.ReorderColumns)

	columns := api.Group("/columns")
	columns.Get("/:id", h.GetColumn)
	columns.Put("/:id", h.UpdateColumn)
	columns.Put("/:id/position", h.UpdateColumnPosition)
	columns.Put("/:id/archive", h.ArchiveColumn)
	columns.Delete("/:id", h.DeleteColumn)
	columns.Get("/:id/tasks", h.GetTasks)
	columns.Post("/:id/tasks", h.CreateTask)
	columns.Put("/:id/tasks/order", h.ReorderTasks)

	tasks := api.Group("/tasks")
	tasks.Get("/:id", h.GetTask)
	tasks.Put("/:id", h.UpdateTask)
	tasks.Put("/:id/position", h.UpdateTaskPosition)
	tasks.Put("/:id/move", h.MoveTask)
	tasks.Put("/:id/archive", h.ArchiveTask)
	tasks.Delete("/:id", h.DeleteTask)
}
