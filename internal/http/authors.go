package http

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/library/internal/entities"
)

type AuthorsController struct {
	store AuthorStore
	audit changeLog
}

func NewAuthorsController(store AuthorStore, recorder ChangeRecorder) *AuthorsController {
	return &AuthorsController{store: store, audit: changeLog{recorder: recorder}}
}

// List handles GET /authors
func (ac *AuthorsController) List(c *gin.Context) {
	authors, err := ac.store.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "list authors")
		return
	}
	c.JSON(http.StatusOK, authors)
}

// Get handles GET /authors/:id
func (ac *AuthorsController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	author, err := ac.store.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "get author")
		return
	}
	c.JSON(http.StatusOK, author)
}

// Create handles POST /authors
func (ac *AuthorsController) Create(c *gin.Context) {
	var req entities.Author
	if !bindJSON(c, &req) {
		return
	}

	author, err := ac.store.Create(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err, "create author")
		return
	}

	ac.audit.record(requestOrigin(c), entities.AuditEventCreate, "author", strconv.FormatUint(uint64(author.ID), 10),
		fmt.Sprintf("Created author %q", author.Name))
	respondCreated(c, author)
}

// Update handles PUT /authors/:id
func (ac *AuthorsController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var patch entities.AuthorPatch
	if !bindJSON(c, &patch) {
		return
	}

	author, err := ac.store.Update(c.Request.Context(), id, patch)
	if err != nil {
		respondServiceError(c, err, "update author")
		return
	}

	ac.audit.record(requestOrigin(c), entities.AuditEventUpdate, "author", strconv.FormatUint(uint64(id), 10),
		fmt.Sprintf("Updated author %q", author.Name))
	c.JSON(http.StatusOK, author)
}

// ListBooks handles GET /authors/:id/books
func (ac *AuthorsController) ListBooks(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	books, err := ac.store.ListBooks(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "list author books")
		return
	}
	c.JSON(http.StatusOK, books)
}
