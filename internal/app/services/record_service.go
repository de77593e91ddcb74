package services

import (
	"context"

	"github.com/yigit/schoolportal/internal/app/models"
)

// RecordService loads saved student records for the read-only views.
type RecordService struct {
	backend RecordBackend
}

func NewRecordService(backend RecordBackend) *RecordService {
	return &RecordService{backend: backend}
}

// MyRecord returns the record of the signed-in student.
func (s *RecordService) MyRecord(ctx context.Context, session *models.Session) (models.Document, error) {
	return s.backend.GetMyStudent(ctx, authOf(session))
}

// Student returns one student's record.
func (s *RecordService) Student(ctx context.Context, session *models.Session, id string) (models.Document, error) {
	return s.backend.GetStudent(ctx, authOf(session), id)
}
