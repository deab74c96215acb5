package repository

import (
	"lms_backend/internal/model"

	"gorm.io/gorm"
)

type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

func (r *CourseRepository) Create(course *model.Course) error {
	return r.DB.Create(course).Error
}

func (r *CourseRepository) FindByID(id uint) (*model.Course, error) {
	var course model.Course
	err := r.DB.First(&course, id).Error
	return &course, err
}

func (r *CourseRepository) Update(course *model.Course) error {
	return r.DB.Save(course).Error
}

func (r *CourseRepository) Delete(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var sectionIDs []uint
		if err := tx.Model(&model.CourseSection{}).Where("course_id = ?", id).Pluck("id", &sectionIDs).Error; err != nil {
			return err
		}
		if len(sectionIDs) > 0 {
			if err := tx.Where("section_id IN ?", sectionIDs).Delete(&model.SectionItem{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("course_id = ?", id).Delete(&model.CourseSection{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Course{}, id).Error
	})
}

func (r *CourseRepository) List(franchiseID *uint, publishedOnly bool, page, limit int) ([]model.Course, int64, error) {
	query := r.DB.Model(&model.Course{})
	if franchiseID != nil {
		query = query.Where("franchise_id = ?", *franchiseID)
	}
	if publishedOnly {
		query = query.Where("is_published = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var courses []model.Course
	offset := (page - 1) * limit
	err := query.Order("created_at desc").Offset(offset).Limit(limit).Find(&courses).Error
	return courses, total, err
}

func (r *CourseRepository) CreateSection(section *model.CourseSection) error {
	return r.DB.Create(section).Error
}

func (r *CourseRepository) FindSectionByID(id uint) (*model.CourseSection, error) {
	var section model.CourseSection
	err := r.DB.First(&section, id).Error
	return &section, err
}

func (r *CourseRepository) UpdateSection(section *model.CourseSection) error {
	return r.DB.Save(section).Error
}

func (r *CourseRepository) DeleteSection(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("section_id = ?", id).Delete(&model.SectionItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.CourseSection{}, id).Error
	})
}

func (r *CourseRepository) ListSections(courseID uint) ([]model.CourseSection, error) {
	var sections []model.CourseSection
	err := r.DB.Where("course_id = ?", courseID).Order("`order` asc, created_at asc").Find(&sections).Error
	return sections, err
}

func (r *CourseRepository) CreateItem(item *model.SectionItem) error {
	return r.DB.Create(item).Error
}

func (r *CourseRepository) FindItemByID(id uint) (*model.SectionItem, error) {
	var item model.SectionItem
	err := r.DB.First(&item, id).Error
	return &item, err
}

func (r *CourseRepository) UpdateItem(item *model.SectionItem) error {
	return r.DB.Save(item).Error
}

func (r *CourseRepository) DeleteItem(id uint) error {
	return r.DB.Delete(&model.SectionItem{}, id).Error
}

func (r *CourseRepository) ListItems(sectionID uint) ([]model.SectionItem, error) {
	var items []model.SectionItem
	err := r.DB.Where("section_id = ?", sectionID).Order("`order` asc, created_at asc").Find(&items).Error
	return items, err
}

func (r *CourseRepository) ListCourseItems(courseID uint) ([]model.SectionItem, error) {
	var items []model.SectionItem
	err := r.DB.Where("course_id = ?", courseID).Order("`order` asc, created_at asc").Find(&items).Error
	return items, err
}

// ReorderItems applies the full new ordering in one transaction; a partial
// reorder is never observable.
func (r *CourseRepository) ReorderItems(sectionID uint, orderedIDs []uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		for pos, id := range orderedIDs {
			res := tx.Model(&model.SectionItem{}).
				Where("id = ? AND section_id = ?", id, sectionID).
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

// CountMandatoryItems returns the denominator of the course progress formula.
func (r *CourseRepository) CountMandatoryItems(courseID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.SectionItem{}).
		Where("course_id = ? AND is_mandatory = ?", courseID, true).
		Count(&count).Error
	return count, err
}
