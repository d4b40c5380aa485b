package entities

// Constraint names as generated by the schema migration. They are matched
// against structured constraint errors to tell which side of a relation failed.
const (
	ConstraintBookAuthorsBook   = "fk_book_authors_book"
	ConstraintBookAuthorsAuthor = "fk_book_authors_author"
	ConstraintLoansStudent      = "fk_loans_student"
	ConstraintLoansBook         = "fk_loans_book"
	ConstraintFinesLoan         = "fk_fines_loan"
	ConstraintFinesLoanUnique   = "idx_fines_loan_id"
)

type Author struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Name      string `gorm:"size:100;not null" json:"name" validate:"required,person_name"`
	BirthYear *int   `json:"birth_year" validate:"omitempty,min=0,max=2025"`
}

func (Author) TableName() string {
	return "authors"
}

type Book struct {
	ISBN            string  `gorm:"primaryKey;size:20" json:"isbn" validate:"required,max=20"`
	Title           *string `gorm:"size:255" json:"title"`
	PublicationYear *int    `json:"publication_year" validate:"omitempty,min=1400,max=2025"`
}

func (Book) TableName() string {
	return "books"
}

// BookAuthor links a book to one of its authors. The pair is the primary key,
// so an author can be attached to a given book only once.
type BookAuthor struct {
	BookISBN string  `gorm:"column:isbn;primaryKey;size:20"`
	AuthorID uint    `gorm:"primaryKey;autoIncrement:false"`
	Book     *Book   `gorm:"foreignKey:BookISBN;references:ISBN"`
	Author   *Author `gorm:"foreignKey:AuthorID"`
}

func (BookAuthor) TableName() string {
	return "book_authors"
}

type Student struct {
	ID     uint    `gorm:"primaryKey" json:"id"`
	Name   *string `gorm:"size:100" json:"name" validate:"omitempty,person_name"`
	Email  *string `gorm:"size:255" json:"email" validate:"omitempty,library_email"`
	Age    *int    `json:"age" validate:"omitempty,min=14"`
	Active *bool   `gorm:"not null;default:true" json:"active"`
}

func (Student) TableName() string {
	return "students"
}

// IsActive treats an unset flag as active, matching the column default.
func (s Student) IsActive() bool {
	return s.Active == nil || *s.Active
}

// Loan is open while ReturnDate is nil. StudentName and Title are filled
// from joins on read and never written.
type Loan struct {
	ID          uint     `gorm:"primaryKey" json:"id"`
	StudentID   uint     `gorm:"not null;index" json:"student_id" validate:"required"`
	BookISBN    string   `gorm:"column:isbn;size:20;not null;index" json:"isbn" validate:"required,max=20"`
	LoanDate    *Date    `gorm:"type:date;not null" json:"loan_date"`
	ReturnDate  *Date    `gorm:"type:date" json:"return_date"`
	StudentName *string  `gorm:"->;-:migration" json:"student_name"`
	Title       *string  `gorm:"->;-:migration" json:"title"`
	Student     *Student `gorm:"foreignKey:StudentID" json:"-"`
	Book        *Book    `gorm:"foreignKey:BookISBN;references:ISBN" json:"-"`
}

func (Loan) TableName() string {
	return "loans"
}

func (l Loan) IsOpen() bool {
	return l.ReturnDate == nil
}

type Fine struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	LoanID      uint    `gorm:"not null;uniqueIndex" json:"loan_id" validate:"required"`
	Amount      float64 `gorm:"not null" json:"amount" validate:"gt=0"`
	FineDate    *Date   `gorm:"type:date;not null" json:"fine_date"`
	StudentName *string `gorm:"->;-:migration" json:"student_name"`
	Title       *string `gorm:"->;-:migration" json:"title"`
	Loan        *Loan   `gorm:"foreignKey:LoanID" json:"-"`
}

func (Fine) TableName() string {
	return "fines"
}
