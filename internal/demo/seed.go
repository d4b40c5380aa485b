// Package demo fills an empty library with sample records.
package demo

import (
	"context"
	"fmt"

	"github.com/mrlokans/library/internal/entities"
	"github.com/mrlokans/library/internal/services"
)

// Services are the entity services the seeder writes through, so that every
// sample record passes the same validation as API traffic.
type Services struct {
	Authors  *services.AuthorService
	Books    *services.BookService
	Students *services.StudentService
	Loans    *services.LoanService
	Fines    *services.FineService
}

// Summary counts the records created by Seed.
type Summary struct {
	Authors  int
	Books    int
	Students int
	Loans    int
	Fines    int
}

type sampleBook struct {
	ISBN    string
	Title   string
	Year    int
	Authors []string
}

var sampleAuthors = []struct {
	Name      string
	BirthYear int
}{
	{"Jorge Luis Borges", 1899},
	{"Adolfo Bioy Casares", 1914},
	{"Gabriel García Márquez", 1927},
	{"Julio Cortázar", 1914},
	{"Isabel Allende", 1942},
}

var sampleBooks = []sampleBook{
	{"978-0-8021-3030-0", "Ficciones", 1944, []string{"Jorge Luis Borges"}},
	{"978-0-8112-0012-7", "El Aleph", 1949, []string{"Jorge Luis Borges"}},
	{"978-0-06-088328-7", "Cien años de soledad", 1967, []string{"Gabriel García Márquez"}},
	{"978-0-394-75284-7", "Rayuela", 1963, []string{"Julio Cortázar"}},
	{"978-1-5011-1727-8", "La casa de los espíritus", 1982, []string{"Isabel Allende"}},
	{"978-0-14-118280-0", "Seis problemas para don Isidro Parodi", 1942, []string{"Jorge Luis Borges", "Adolfo Bioy Casares"}},
}

var sampleStudents = []struct {
	Name  string
	Email string
	Age   int
}{
	{"Ana Martínez", "ana.martinez@example.edu", 19},
	{"Luis Fernández", "luis.fernandez@example.edu", 22},
	{"Sofía O'Brien", "sofia.obrien@example.edu", 17},
}

// Seed creates sample authors, books, students, loans and one fine.
// It expects an empty database and stops at the first failure.
func Seed(ctx context.Context, s Services) (Summary, error) {
	var summary Summary

	authorIDs := make(map[string]uint, len(sampleAuthors))
	for _, a := range sampleAuthors {
		birthYear := a.BirthYear
		author, err := s.Authors.Create(ctx, entities.Author{Name: a.Name, BirthYear: &birthYear})
		if err != nil {
			return summary, fmt.Errorf("create author %s: %w", a.Name, err)
		}
		authorIDs[a.Name] = author.ID
		summary.Authors++
	}

	for _, b := range sampleBooks {
		title, year := b.Title, b.Year
		if _, err := s.Books.Create(ctx, entities.Book{ISBN: b.ISBN, Title: &title, PublicationYear: &year}); err != nil {
			return summary, fmt.Errorf("create book %s: %w", b.ISBN, err)
		}
		summary.Books++

		for _, name := range b.Authors {
			if err := s.Books.AttachAuthor(ctx, b.ISBN, authorIDs[name]); err != nil {
				return summary, fmt.Errorf("assign %s to %s: %w", name, b.ISBN, err)
			}
		}
	}

	studentIDs := make([]uint, 0, len(sampleStudents))
	for _, st := range sampleStudents {
		name, email, age := st.Name, st.Email, st.Age
		student, err := s.Students.Create(ctx, entities.Student{Name: &name, Email: &email, Age: &age})
		if err != nil {
			return summary, fmt.Errorf("create student %s: %w", st.Name, err)
		}
		studentIDs = append(studentIDs, student.ID)
		summary.Students++
	}

	lend := func(studentID uint, isbn string) (*entities.Loan, error) {
		loan, err := s.Loans.Create(ctx, entities.Loan{StudentID: studentID, BookISBN: isbn})
		if err != nil {
			return nil, fmt.Errorf("lend %s to student %d: %w", isbn, studentID, err)
		}
		summary.Loans++
		return loan, nil
	}

	late, err := lend(studentIDs[0], sampleBooks[0].ISBN)
	if err != nil {
		return summary, err
	}
	if _, err := lend(studentIDs[0], sampleBooks[2].ISBN); err != nil {
		return summary, err
	}
	if _, err := lend(studentIDs[1], sampleBooks[3].ISBN); err != nil {
		return summary, err
	}

	if _, err := s.Loans.RegisterReturn(ctx, late.ID, entities.Today()); err != nil {
		return summary, fmt.Errorf("return loan %d: %w", late.ID, err)
	}
	if _, err := s.Fines.Create(ctx, entities.Fine{LoanID: late.ID, Amount: 3.5}); err != nil {
		return summary, fmt.Errorf("fine loan %d: %w", late.ID, err)
	}
	summary.Fines++

	return summary, nil
}
