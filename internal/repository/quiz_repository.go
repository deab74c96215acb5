package repository

import (
	"lms_backend/internal/model"

	"gorm.io/gorm"
)

type QuizRepository struct {
	DB *gorm.DB
}

func NewQuizRepository(db *gorm.DB) *QuizRepository {
	return &QuizRepository{DB: db}
}

func (r *QuizRepository) Create(quiz *model.Quiz) error {
	return r.DB.Create(quiz).Error
}

func (r *QuizRepository) FindByID(id uint) (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.DB.First(&quiz, id).Error
	return &quiz, err
}

func (r *QuizRepository) Update(quiz *model.Quiz) error {
	return r.DB.Save(quiz).Error
}

func (r *QuizRepository) Delete(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("quiz_id = ?", id).Delete(&model.QuizQuestion{}).Error; err != nil {
			return err
		}
		if err := tx.Where("quiz_id = ?", id).Delete(&model.QuizSubmission{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Quiz{}, id).Error
	})
}

func (r *QuizRepository) ListByCourse(courseID uint) ([]model.Quiz, error) {
	var quizzes []model.Quiz
	err := r.DB.Where("course_id = ?", courseID).Order("created_at asc").Find(&quizzes).Error
	return quizzes, err
}

func (r *QuizRepository) CreateQuestion(question *model.QuizQuestion) error {
	return r.DB.Create(question).Error
}

func (r *QuizRepository) FindQuestionByID(id uint) (*model.QuizQuestion, error) {
	var q model.QuizQuestion
	err := r.DB.First(&q, id).Error
	return &q, err
}

func (r *QuizRepository) UpdateQuestion(question *model.QuizQuestion) error {
	return r.DB.Save(question).Error
}

func (r *QuizRepository) DeleteQuestion(id uint) error {
	return r.DB.Delete(&model.QuizQuestion{}, id).Error
}

func (r *QuizRepository) ListQuestions(quizID uint) ([]model.QuizQuestion, error) {
	var qs []model.QuizQuestion
	err := r.DB.Where("quiz_id = ?", quizID).Order("`order` asc, created_at asc").Find(&qs).Error
	return qs, err
}

// ReorderQuestions rewrites question positions atomically.
func (r *QuizRepository) ReorderQuestions(quizID uint, orderedIDs []uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		for pos, id := range orderedIDs {
			res := tx.Model(&model.QuizQuestion{}).
				Where("id = ? AND quiz_id = ?", id, quizID).
				Update("order", pos)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
		}
		return nil
	})
}

func (r *QuizRepository) CountSubmissions(quizID, studentID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.QuizSubmission{}).
		Where("quiz_id = ? AND student_id = ?", quizID, studentID).
		Count(&count).Error
	return count, err
}

func (r *QuizRepository) CreateSubmission(submission *model.QuizSubmission) error {
	return r.DB.Create(submission).Error
}

func (r *QuizRepository) FindSubmissionByID(id uint) (*model.QuizSubmission, error) {
	var s model.QuizSubmission
	err := r.DB.First(&s, id).Error
	return &s, err
}

func (r *QuizRepository) UpdateSubmission(submission *model.QuizSubmission) error {
	return r.DB.Save(submission).Error
}

func (r *QuizRepository) ListSubmissionsByStudent(quizID, studentID uint) ([]model.QuizSubmission, error) {
	var submissions []model.QuizSubmission
	err := r.DB.Where("quiz_id = ? AND student_id = ?", quizID, studentID).
		Order("submitted_at desc").Find(&submissions).Error
	return submissions, err
}

func (r *QuizRepository) ListSubmissions(quizID uint, status string, page, limit int) ([]model.QuizSubmission, int64, error) {
	query := r.DB.Model(&model.QuizSubmission{}).Where("quiz_id = ?", quizID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var submissions []model.QuizSubmission
	offset := (page - 1) * limit
	err := query.Preload("Student").
		Order("submitted_at desc").Offset(offset).Limit(limit).Find(&submissions).Error
	return submissions, total, err
}
