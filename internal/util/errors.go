package util

import "errors"

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrEmailRegistered     = errors.New("email already registered")
	ErrPermissionDenied    = errors.New("permission denied")
	ErrFranchiseNotFound   = errors.New("franchise not found")
	ErrCourseNotFound      = errors.New("course not found")
	ErrCourseNotPublished  = errors.New("course not published")
	ErrSectionNotFound     = errors.New("section not found")
	ErrItemNotFound        = errors.New("section item not found")
	ErrQuizNotFound        = errors.New("quiz not found")
	ErrQuestionNotFound    = errors.New("question not found")
	ErrAssignmentNotFound  = errors.New("assignment not found")
	ErrSubmissionNotFound  = errors.New("submission not found")
	ErrEnrollmentNotFound  = errors.New("enrollment not found")
	ErrAlreadyEnrolled     = errors.New("already enrolled in this course")
	ErrMaxAttemptsReached  = errors.New("max attempts reached")
	ErrAlreadyGraded       = errors.New("submission already graded")
	ErrTicketNotFound      = errors.New("ticket not found")
	ErrTicketClosed        = errors.New("ticket is closed")
	ErrOrderNotFound       = errors.New("order not found")
	ErrCertificateNotFound = errors.New("certificate not found")
)
