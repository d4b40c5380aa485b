package http

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/library/internal/entities"
)

type StudentsController struct {
	store StudentStore
	loans LoanStore
	audit changeLog
}

func NewStudentsController(store StudentStore, loans LoanStore, recorder ChangeRecorder) *StudentsController {
	return &StudentsController{store: store, loans: loans, audit: changeLog{recorder: recorder}}
}

// List handles GET /students
// Only active students are listed.
func (sc *StudentsController) List(c *gin.Context) {
	students, err := sc.store.ListActive(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "list students")
		return
	}
	c.JSON(http.StatusOK, students)
}

// Get handles GET /students/:id
func (sc *StudentsController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	student, err := sc.store.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "get student")
		return
	}
	c.JSON(http.StatusOK, student)
}

// Create handles POST /students
func (sc *StudentsController) Create(c *gin.Context) {
	var req entities.Student
	if !bindJSON(c, &req) {
		return
	}

	student, err := sc.store.Create(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err, "create student")
		return
	}

	sc.audit.record(requestOrigin(c), entities.AuditEventCreate, "student", strconv.FormatUint(uint64(student.ID), 10),
		fmt.Sprintf("Registered student %d", student.ID))
	respondCreated(c, student)
}

// Update handles PUT /students/:id
func (sc *StudentsController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var patch entities.StudentPatch
	if !bindJSON(c, &patch) {
		return
	}

	student, err := sc.store.Update(c.Request.Context(), id, patch)
	if err != nil {
		respondServiceError(c, err, "update student")
		return
	}

	sc.audit.record(requestOrigin(c), entities.AuditEventUpdate, "student", strconv.FormatUint(uint64(id), 10),
		fmt.Sprintf("Updated student %d (active=%t)", id, student.IsActive()))
	c.JSON(http.StatusOK, student)
}

// Deactivate handles PUT /students/:id/deactivate
func (sc *StudentsController) Deactivate(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	student, err := sc.store.Deactivate(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "deactivate student")
		return
	}

	sc.audit.record(requestOrigin(c), entities.AuditEventUpdate, "student", strconv.FormatUint(uint64(id), 10),
		fmt.Sprintf("Deactivated student %d", id))
	c.JSON(http.StatusOK, student)
}

// ListLoans handles GET /students/:id/loans
func (sc *StudentsController) ListLoans(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	loans, err := sc.loans.ListForStudent(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "list student loans")
		return
	}
	c.JSON(http.StatusOK, loans)
}
