package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/library/internal/entities"
)

type BooksController struct {
	store BookStore
	loans LoanStore
	audit changeLog
}

func NewBooksController(store BookStore, loans LoanStore, recorder ChangeRecorder) *BooksController {
	return &BooksController{store: store, loans: loans, audit: changeLog{recorder: recorder}}
}

// List handles GET /books
func (bc *BooksController) List(c *gin.Context) {
	books, err := bc.store.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "list books")
		return
	}
	c.JSON(http.StatusOK, books)
}

// Get handles GET /books/:isbn
func (bc *BooksController) Get(c *gin.Context) {
	book, err := bc.store.Get(c.Request.Context(), c.Param("isbn"))
	if err != nil {
		respondServiceError(c, err, "get book")
		return
	}
	c.JSON(http.StatusOK, book)
}

// Create handles POST /books
func (bc *BooksController) Create(c *gin.Context) {
	var req entities.Book
	if !bindJSON(c, &req) {
		return
	}

	book, err := bc.store.Create(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err, "create book")
		return
	}

	bc.audit.record(requestOrigin(c), entities.AuditEventCreate, "book", book.ISBN,
		fmt.Sprintf("Created book %s", book.ISBN))
	respondCreated(c, book)
}

// Update handles PUT /books/:isbn
func (bc *BooksController) Update(c *gin.Context) {
	isbn := c.Param("isbn")

	var patch entities.BookPatch
	if !bindJSON(c, &patch) {
		return
	}

	book, err := bc.store.Update(c.Request.Context(), isbn, patch)
	if err != nil {
		respondServiceError(c, err, "update book")
		return
	}

	bc.audit.record(requestOrigin(c), entities.AuditEventUpdate, "book", isbn,
		fmt.Sprintf("Updated book %s", isbn))
	c.JSON(http.StatusOK, book)
}

// Delete handles DELETE /books/:isbn
func (bc *BooksController) Delete(c *gin.Context) {
	isbn := c.Param("isbn")

	if err := bc.store.Delete(c.Request.Context(), isbn); err != nil {
		respondServiceError(c, err, "delete book")
		return
	}

	bc.audit.record(requestOrigin(c), entities.AuditEventDelete, "book", isbn,
		fmt.Sprintf("Deleted book %s", isbn))
	c.Status(http.StatusNoContent)
}

// AttachAuthor handles POST /books/:isbn/authors/:authorId
func (bc *BooksController) AttachAuthor(c *gin.Context) {
	isbn := c.Param("isbn")
	authorID, ok := parseIDParam(c, "authorId")
	if !ok {
		return
	}

	if err := bc.store.AttachAuthor(c.Request.Context(), isbn, authorID); err != nil {
		respondServiceError(c, err, "attach author")
		return
	}

	bc.audit.record(requestOrigin(c), entities.AuditEventAssociate, "book", isbn,
		fmt.Sprintf("Assigned author %d to book %s", authorID, isbn))
	respondCreated(c, gin.H{"isbn": isbn, "author_id": authorID})
}

// ListAuthors handles GET /books/:isbn/authors
func (bc *BooksController) ListAuthors(c *gin.Context) {
	authors, err := bc.store.ListAuthors(c.Request.Context(), c.Param("isbn"))
	if err != nil {
		respondServiceError(c, err, "list book authors")
		return
	}
	c.JSON(http.StatusOK, authors)
}

// DetachAuthor handles DELETE /books/:isbn/authors/:authorId
func (bc *BooksController) DetachAuthor(c *gin.Context) {
	isbn := c.Param("isbn")
	authorID, ok := parseIDParam(c, "authorId")
	if !ok {
		return
	}

	if err := bc.store.DetachAuthor(c.Request.Context(), isbn, authorID); err != nil {
		respondServiceError(c, err, "detach author")
		return
	}

	bc.audit.record(requestOrigin(c), entities.AuditEventAssociate, "book", isbn,
		fmt.Sprintf("Removed author %d from book %s", authorID, isbn))
	c.Status(http.StatusNoContent)
}

// ListLoans handles GET /books/:isbn/loans
func (bc *BooksController) ListLoans(c *gin.Context) {
	loans, err := bc.loans.ListForBook(c.Request.Context(), c.Param("isbn"))
	if err != nil {
		respondServiceError(c, err, "list book loans")
		return
	}
	c.JSON(http.StatusOK, loans)
}
