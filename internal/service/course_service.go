package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"
	"lms_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	catalogCacheKey = "course:catalog:%d:%d:%v"
	catalogCacheTTL = 5 * time.Minute
)

type CourseService struct {
	Repo  *repository.CourseRepository
	Redis *redis.Client
}

func NewCourseService(repo *repository.CourseRepository, rdb *redis.Client) *CourseService {
	return &CourseService{Repo: repo, Redis: rdb}
}

type CourseRequest struct {
	Title               *string  `json:"title"`
	Description         *string  `json:"description"`
	Price               *float64 `json:"price"`
	Currency            *string  `json:"currency"`
	ThumbnailURL        *string  `json:"thumbnailUrl"`
	CertificatesEnabled *bool    `json:"certificatesEnabled"`
	DripEnabled         *bool    `json:"dripEnabled"`
}

func applyCourseRequest(course *model.Course, req CourseRequest) {
	if req.Title != nil {
		course.Title = *req.Title
	}
	if req.Description != nil {
		course.Description = *req.Description
	}
	if req.Price != nil {
		course.Price = *req.Price
	}
	if req.Currency != nil {
		course.Currency = *req.Currency
	}
	if req.ThumbnailURL != nil {
		course.ThumbnailURL = *req.ThumbnailURL
	}
	if req.CertificatesEnabled != nil {
		course.CertificatesEnabled = *req.CertificatesEnabled
	}
	if req.DripEnabled != nil {
		course.DripEnabled = *req.DripEnabled
	}
}

func (s *CourseService) Create(instructorID uint, franchiseID *uint, req CourseRequest) (*model.Course, error) {
	if req.Title == nil || *req.Title == "" {
		return nil, errors.New("course title is required")
	}
	course := &model.Course{
		InstructorID: instructorID,
		FranchiseID:  franchiseID,
	}
	applyCourseRequest(course, req)
	if err := s.Repo.Create(course); err != nil {
		return nil, err
	}
	s.invalidateCatalog()
	return course, nil
}

func (s *CourseService) Get(id uint) (*model.Course, error) {
	course, err := s.Repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	return course, nil
}

func (s *CourseService) Update(id uint, req CourseRequest) (*model.Course, error) {
	course, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	applyCourseRequest(course, req)
	if err := s.Repo.Update(course); err != nil {
		return nil, err
	}
	s.invalidateCatalog()
	return course, nil
}

func (s *CourseService) Delete(id uint) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	if err := s.Repo.Delete(id); err != nil {
		return err
	}
	s.invalidateCatalog()
	return nil
}

// Publish makes the course visible in the student catalog. Publishing an
// already-published course only refreshes nothing; PublishedAt is set once.
func (s *CourseService) Publish(id uint) (*model.Course, error) {
	course, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if course.IsPublished {
		return course, nil
	}
	now := time.Now()
	course.IsPublished = true
	course.PublishedAt = &now
	if err := s.Repo.Update(course); err != nil {
		return nil, err
	}
	s.invalidateCatalog()
	return course, nil
}

func (s *CourseService) Unpublish(id uint) (*model.Course, error) {
	course, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	course.IsPublished = false
	if err := s.Repo.Update(course); err != nil {
		return nil, err
	}
	s.invalidateCatalog()
	return course, nil
}

type catalogPage struct {
	Courses []model.Course `json:"courses"`
	Total   int64          `json:"total"`
}

// Catalog lists published courses, cached in Redis per page and franchise.
func (s *CourseService) Catalog(franchiseID *uint, page, limit int) ([]model.Course, int64, error) {
	ctx := context.Background()
	key := fmt.Sprintf(catalogCacheKey, page, limit, franchiseID)

	if s.Redis != nil {
		if raw, err := s.Redis.Get(ctx, key).Result(); err == nil {
			var cached catalogPage
			if json.Unmarshal([]byte(raw), &cached) == nil {
				return cached.Courses, cached.Total, nil
			}
		}
	}

	courses, total, err := s.Repo.List(franchiseID, true, page, limit)
	if err != nil {
		return nil, 0, err
	}

	if s.Redis != nil {
		if raw, err := json.Marshal(catalogPage{Courses: courses, Total: total}); err == nil {
			if err := s.Redis.Set(ctx, key, raw, catalogCacheTTL).Err(); err != nil {
				logger.Log.Warn("failed to cache course catalog", zap.Error(err))
			}
		}
	}
	return courses, total, nil
}

func (s *CourseService) List(franchiseID *uint, page, limit int) ([]model.Course, int64, error) {
	return s.Repo.List(franchiseID, false, page, limit)
}

func (s *CourseService) invalidateCatalog() {
	if s.Redis == nil {
		return
	}
	ctx := context.Background()
	iter := s.Redis.Scan(ctx, 0, "course:catalog:*", 100).Iterator()
	for iter.Next(ctx) {
		s.Redis.Del(ctx, iter.Val())
	}
	if err := iter.Err(); err != nil {
		logger.Log.Warn("failed to invalidate course catalog cache", zap.Error(err))
	}
}

type SectionRequest struct {
	Title string `json:"title" binding:"required"`
	Order int    `json:"order"`
}

func (s *CourseService) CreateSection(courseID uint, req SectionRequest) (*model.CourseSection, error) {
	if _, err := s.Get(courseID); err != nil {
		return nil, err
	}
	section := &model.CourseSection{CourseID: courseID, Title: req.Title, Order: req.Order}
	if err := s.Repo.CreateSection(section); err != nil {
		return nil, err
	}
	return section, nil
}

func (s *CourseService) UpdateSection(id uint, req SectionRequest) (*model.CourseSection, error) {
	section, err := s.Repo.FindSectionByID(id)
	if err != nil {
		return nil, util.ErrSectionNotFound
	}
	section.Title = req.Title
	section.Order = req.Order
	if err := s.Repo.UpdateSection(section); err != nil {
		return nil, err
	}
	return section, nil
}

func (s *CourseService) DeleteSection(id uint) error {
	if _, err := s.Repo.FindSectionByID(id); err != nil {
		return util.ErrSectionNotFound
	}
	return s.Repo.DeleteSection(id)
}

func (s *CourseService) ListSections(courseID uint) ([]model.CourseSection, error) {
	if _, err := s.Get(courseID); err != nil {
		return nil, err
	}
	return s.Repo.ListSections(courseID)
}

type SectionItemRequest struct {
	Title       string                `json:"title" binding:"required"`
	ItemType    model.SectionItemType `json:"itemType" binding:"required"`
	ContentURL  string                `json:"contentUrl"`
	RefID       uint                  `json:"refId"`
	IsMandatory *bool                 `json:"isMandatory"`
	Order       int                   `json:"order"`
}

func (s *CourseService) CreateItem(sectionID uint, req SectionItemRequest) (*model.SectionItem, error) {
	section, err := s.Repo.FindSectionByID(sectionID)
	if err != nil {
		return nil, util.ErrSectionNotFound
	}
	switch req.ItemType {
	case model.ItemLecture, model.ItemQuiz, model.ItemAssignment:
	default:
		return nil, fmt.Errorf("unknown item type %q", req.ItemType)
	}
	item := &model.SectionItem{
		SectionID:   sectionID,
		CourseID:    section.CourseID,
		Title:       req.Title,
		ItemType:    req.ItemType,
		ContentURL:  req.ContentURL,
		RefID:       req.RefID,
		IsMandatory: true,
		Order:       req.Order,
	}
	if req.IsMandatory != nil {
		item.IsMandatory = *req.IsMandatory
	}
	if err := s.Repo.CreateItem(item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *CourseService) UpdateItem(id uint, req SectionItemRequest) (*model.SectionItem, error) {
	item, err := s.Repo.FindItemByID(id)
	if err != nil {
		return nil, util.ErrItemNotFound
	}
	item.Title = req.Title
	item.ContentURL = req.ContentURL
	item.Order = req.Order
	if req.IsMandatory != nil {
		item.IsMandatory = *req.IsMandatory
	}
	if err := s.Repo.UpdateItem(item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *CourseService) DeleteItem(id uint) error {
	if _, err := s.Repo.FindItemByID(id); err != nil {
		return util.ErrItemNotFound
	}
	return s.Repo.DeleteItem(id)
}

func (s *CourseService) ListItems(sectionID uint) ([]model.SectionItem, error) {
	if _, err := s.Repo.FindSectionByID(sectionID); err != nil {
		return nil, util.ErrSectionNotFound
	}
	return s.Repo.ListItems(sectionID)
}

func (s *CourseService) ReorderItems(sectionID uint, orderedIDs []uint) error {
	if _, err := s.Repo.FindSectionByID(sectionID); err != nil {
		return util.ErrSectionNotFound
	}
	if err := s.Repo.ReorderItems(sectionID, orderedIDs); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrItemNotFound
		}
		return err
	}
	return nil
}
