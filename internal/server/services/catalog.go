package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/knowledgehub/internal/common"
	"github.com/dmitrijs2005/knowledgehub/internal/server/models"
	"github.com/dmitrijs2005/knowledgehub/internal/server/repositories/repomanager"
)

// UnknownFileType labels notes whose file type has no name.
const UnknownFileType = "Unknown"

type ClassView struct {
	*models.Class
	Slug string `json:"slug"`
}

type SubjectView struct {
	*models.Subject
	Slug string `json:"slug"`
}

// ClassPage is a class with its subjects.
type ClassPage struct {
	Class    ClassView     `json:"class"`
	Subjects []SubjectView `json:"subjects"`
}

// NoteGroup holds the notes of one file type, in display order.
type NoteGroup struct {
	FileType string         `json:"file_type"`
	Notes    []*models.Note `json:"notes"`
}

// SubjectPage is a subject with its notes grouped by file type.
type SubjectPage struct {
	Class   ClassView   `json:"class"`
	Subject SubjectView `json:"subject"`
	Groups  []NoteGroup `json:"grouped_notes"`
}

// CatalogService serves the public, read-only view of the content hub.
type CatalogService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewCatalogService(db *sql.DB, m repomanager.RepositoryManager) *CatalogService {
	return &CatalogService{db: db, repomanager: m}
}

// Classes lists every class ordered by name.
func (s *CatalogService) Classes(ctx context.Context) ([]ClassView, error) {
	classes, err := s.repomanager.Classes(s.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing classes: %w", err)
	}

	out := make([]ClassView, 0, len(classes))
	for _, c := range classes {
		out = append(out, ClassView{Class: c, Slug: Slug(c.Name)})
	}
	return out, nil
}

// ClassBySlug resolves slug against the class names. The first class whose
// slug matches wins.
func (s *CatalogService) ClassBySlug(ctx context.Context, slug string) (*ClassView, error) {
	classes, err := s.Classes(ctx)
	if err != nil {
		return nil, err
	}
	for i := range classes {
		if classes[i].Slug == slug {
			return &classes[i], nil
		}
	}
	return nil, common.ErrorNotFound
}

// SubjectsByClass lists the subjects of classID ordered by name.
func (s *CatalogService) SubjectsByClass(ctx context.Context, classID int64) ([]*models.Subject, error) {
	subjects, err := s.repomanager.Subjects(s.db).ListByClass(ctx, classID)
	if err != nil {
		return nil, fmt.Errorf("error listing subjects: %w", err)
	}
	return subjects, nil
}

// ClassPage returns the class named by classSlug and its subjects.
func (s *CatalogService) ClassPage(ctx context.Context, classSlug string) (*ClassPage, error) {
	class, err := s.ClassBySlug(ctx, classSlug)
	if err != nil {
		return nil, err
	}

	subjects, err := s.subjectViews(ctx, class.ID)
	if err != nil {
		return nil, err
	}
	return &ClassPage{Class: *class, Subjects: subjects}, nil
}

// SubjectPage returns the notes of one subject grouped by file type.
// A missing class or subject yields common.ErrorNotFound.
func (s *CatalogService) SubjectPage(ctx context.Context, classSlug, subjectSlug string) (*SubjectPage, error) {
	class, err := s.ClassBySlug(ctx, classSlug)
	if err != nil {
		return nil, err
	}

	subjects, err := s.subjectViews(ctx, class.ID)
	if err != nil {
		return nil, err
	}

	var subject *SubjectView
	for i := range subjects {
		if subjects[i].Slug == subjectSlug {
			subject = &subjects[i]
			break
		}
	}
	if subject == nil {
		return nil, common.ErrorNotFound
	}

	notes, err := s.repomanager.Notes(s.db).ListBySubject(ctx, subject.ID)
	if err != nil {
		return nil, fmt.Errorf("error listing notes: %w", err)
	}

	return &SubjectPage{Class: *class, Subject: *subject, Groups: groupByFileType(notes)}, nil
}

func (s *CatalogService) subjectViews(ctx context.Context, classID int64) ([]SubjectView, error) {
	subjects, err := s.SubjectsByClass(ctx, classID)
	if err != nil {
		return nil, err
	}
	out := make([]SubjectView, 0, len(subjects))
	for _, sub := range subjects {
		out = append(out, SubjectView{Subject: sub, Slug: Slug(sub.Name)})
	}
	return out, nil
}

// groupByFileType keeps the first-seen order of file types.
func groupByFileType(notes []*models.Note) []NoteGroup {
	groups := []NoteGroup{}
	index := map[string]int{}
	for _, n := range notes {
		name := n.FileTypeName
		if name == "" {
			name = UnknownFileType
		}
		i, ok := index[name]
		if !ok {
			i = len(groups)
			index[name] = i
			groups = append(groups, NoteGroup{FileType: name})
		}
		groups[i].Notes = append(groups[i].Notes, n)
	}
	return groups
}
