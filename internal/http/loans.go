package http

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/library/internal/entities"
)

type LoansController struct {
	store LoanStore
	audit changeLog
}

func NewLoansController(store LoanStore, recorder ChangeRecorder) *LoansController {
	return &LoansController{store: store, audit: changeLog{recorder: recorder}}
}

// ReturnRequest is the body of PUT /loans/:id/return.
type ReturnRequest struct {
	ReturnDate *entities.Date `json:"return_date"`
}

// List handles GET /loans
func (lc *LoansController) List(c *gin.Context) {
	loans, err := lc.store.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "list loans")
		return
	}
	c.JSON(http.StatusOK, loans)
}

// Get handles GET /loans/:id
func (lc *LoansController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	loan, err := lc.store.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "get loan")
		return
	}
	c.JSON(http.StatusOK, loan)
}

// Create handles POST /loans
func (lc *LoansController) Create(c *gin.Context) {
	var req entities.Loan
	if !bindJSON(c, &req) {
		return
	}

	loan, err := lc.store.Create(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err, "create loan")
		return
	}

	lc.audit.record(requestOrigin(c), entities.AuditEventCreate, "loan", strconv.FormatUint(uint64(loan.ID), 10),
		fmt.Sprintf("Lent book %s to student %d", loan.BookISBN, loan.StudentID))
	respondCreated(c, loan)
}

// Return handles PUT /loans/:id/return
func (lc *LoansController) Return(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req ReturnRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.ReturnDate == nil {
		respondBadRequest(c, "return_date is required")
		return
	}

	loan, err := lc.store.RegisterReturn(c.Request.Context(), id, *req.ReturnDate)
	if err != nil {
		respondServiceError(c, err, "register return")
		return
	}

	lc.audit.record(requestOrigin(c), entities.AuditEventReturn, "loan", strconv.FormatUint(uint64(id), 10),
		fmt.Sprintf("Returned loan %d on %s", id, req.ReturnDate))
	c.JSON(http.StatusOK, loan)
}
