package http

import (
	"github.com/gin-gonic/gin"
)

// NewRouter creates and configures the HTTP router with all endpoints.
// Uses RouterConfig to receive all dependencies, improving testability
// and reducing parameter count.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(RequestIDMiddleware())

	// Apply security headers to all responses
	router.Use(SecurityHeadersMiddleware())

	if cfg.RateLimiter != nil {
		router.Use(cfg.RateLimiter.Middleware())
	}

	// Create controllers with appropriate interfaces
	health := NewHealthController(cfg.Database, cfg.TaskStatus, cfg.Version)
	authors := NewAuthorsController(cfg.Authors, cfg.AuditRecorder)
	books := NewBooksController(cfg.Books, cfg.Loans, cfg.AuditRecorder)
	students := NewStudentsController(cfg.Students, cfg.Loans, cfg.AuditRecorder)
	loans := NewLoansController(cfg.Loans, cfg.AuditRecorder)
	fines := NewFinesController(cfg.Fines, cfg.AuditRecorder)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", health.Ping)

	router.GET("/authors", authors.List)
	router.GET("/authors/:id", authors.Get)
	router.POST("/authors", authors.Create)
	router.PUT("/authors/:id", authors.Update)
	router.GET("/authors/:id/books", authors.ListBooks)

	router.GET("/books", books.List)
	router.GET("/books/:isbn", books.Get)
	router.POST("/books", books.Create)
	router.PUT("/books/:isbn", books.Update)
	router.DELETE("/books/:isbn", books.Delete)
	router.POST("/books/:isbn/authors/:authorId", books.AttachAuthor)
	router.GET("/books/:isbn/authors", books.ListAuthors)
	router.DELETE("/books/:isbn/authors/:authorId", books.DetachAuthor)
	router.GET("/books/:isbn/loans", books.ListLoans)

	router.GET("/students", students.List)
	router.GET("/students/:id", students.Get)
	router.POST("/students", students.Create)
	router.PUT("/students/:id", students.Update)
	router.PUT("/students/:id/deactivate", students.Deactivate)
	router.GET("/students/:id/loans", students.ListLoans)

	router.GET("/loans", loans.List)
	router.GET("/loans/:id", loans.Get)
	router.POST("/loans", loans.Create)
	router.PUT("/loans/:id/return", loans.Return)

	router.GET("/fines", fines.List)
	router.GET("/fines/:id", fines.Get)
	router.GET("/fines/loan/:loanId", fines.GetForLoan)
	router.POST("/fines", fines.Create)

	if cfg.AuditReader != nil {
		auditController := NewAuditController(cfg.AuditReader)
		router.GET("/audit", auditController.GetAuditEvents)
	}

	// Task queue endpoints (only if task client is configured)
	if cfg.TaskClient != nil {
		tasksController := NewTasksController(cfg.TaskClient, cfg.AuditRetentionDays)
		router.GET("/tasks/types", tasksController.ListTaskTypes)
		router.GET("/tasks/:id", tasksController.GetTaskStatus)
		router.POST("/tasks/:type/run", tasksController.RunTask)
	}

	return router
}
