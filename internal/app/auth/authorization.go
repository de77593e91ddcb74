package auth

import (
	"github.com/yigit/schoolportal/internal/app/models"
	"github.com/yigit/schoolportal/internal/pkg/apperrors"
)

// Landing pages per role.
const (
	StudentHome = "/me"
	StaffHome   = "/students/new"
)

// reportSenders mirrors the roles the backend accepts on send-report.
var reportSenders = map[string]bool{
	models.RoleAdmin:     true,
	models.RoleTeacher:   true,
	models.RoleTherapist: true,
}

// IsStudent reports whether the session belongs to a student account.
func IsStudent(s *models.Session) bool {
	return s != nil && s.Role == models.RoleStudent
}

// Landing returns where a freshly signed-in user is sent. Accounts whose
// role the token does not reveal are treated as staff.
func Landing(s *models.Session) string {
	if IsStudent(s) {
		return StudentHome
	}
	return StaffHome
}

// CanSendReports reports whether the session may send report notifications.
// An unknown role is allowed through and left to the backend.
func CanSendReports(s *models.Session) bool {
	if s == nil {
		return false
	}
	if s.Role == "" {
		return true
	}
	return reportSenders[s.Role]
}

// ValidateReportSender fails before any request is made when the session
// cannot send reports.
func ValidateReportSender(s *models.Session) error {
	if !CanSendReports(s) {
		return apperrors.NewCustomError(apperrors.ErrPermissionDenied, "Only staff can send reports.")
	}
	return nil
}

// ValidateStaff fails for student accounts, which have no editing screens.
func ValidateStaff(s *models.Session) error {
	if s == nil {
		return apperrors.ErrUnauthenticated
	}
	if IsStudent(s) {
		return apperrors.NewCustomError(apperrors.ErrPermissionDenied, "This page is for staff only.")
	}
	return nil
}
