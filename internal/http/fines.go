package http

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/library/internal/entities"
)

type FinesController struct {
	store FineStore
	audit changeLog
}

func NewFinesController(store FineStore, recorder ChangeRecorder) *FinesController {
	return &FinesController{store: store, audit: changeLog{recorder: recorder}}
}

// List handles GET /fines
func (fc *FinesController) List(c *gin.Context) {
	fines, err := fc.store.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "list fines")
		return
	}
	c.JSON(http.StatusOK, fines)
}

// Get handles GET /fines/:id
func (fc *FinesController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	fine, err := fc.store.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "get fine")
		return
	}
	c.JSON(http.StatusOK, fine)
}

// GetForLoan handles GET /fines/loan/:loanId
func (fc *FinesController) GetForLoan(c *gin.Context) {
	loanID, ok := parseIDParam(c, "loanId")
	if !ok {
		return
	}

	fine, err := fc.store.GetForLoan(c.Request.Context(), loanID)
	if err != nil {
		respondServiceError(c, err, "get loan fine")
		return
	}
	c.JSON(http.StatusOK, fine)
}

// Create handles POST /fines
func (fc *FinesController) Create(c *gin.Context) {
	var req entities.Fine
	if !bindJSON(c, &req) {
		return
	}

	fine, err := fc.store.Create(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err, "create fine")
		return
	}

	fc.audit.record(requestOrigin(c), entities.AuditEventCreate, "fine", strconv.FormatUint(uint64(fine.ID), 10),
		fmt.Sprintf("Fined loan %d: %.2f", fine.LoanID, fine.Amount))
	respondCreated(c, fine)
}
