package model

import "time"

// swagger:model Course
type Course struct {
	BaseModel
	Title               string     `gorm:"size:255;not null" json:"title"`
	Description         string     `gorm:"type:text" json:"description"`
	FranchiseID         *uint      `gorm:"index;type:bigint unsigned" json:"franchiseId,omitempty"`
	InstructorID        uint       `gorm:"index;type:bigint unsigned" json:"instructorId"`
	Instructor          *User      `gorm:"foreignKey:InstructorID" json:"instructor,omitempty"`
	Price               float64    `gorm:"default:0" json:"price"`
	Currency            string     `gorm:"size:10;default:'USD'" json:"currency"`
	ThumbnailURL        string     `gorm:"size:255" json:"thumbnailUrl"`
	IsPublished         bool       `gorm:"default:false" json:"isPublished"`
	PublishedAt         *time.Time `json:"publishedAt,omitempty"`
	CertificatesEnabled bool       `gorm:"default:false" json:"certificatesEnabled"`
	// Drip release is a configuration flag only; no scheduling engine behind it.
	DripEnabled bool `gorm:"default:false" json:"dripEnabled"`
}

func (Course) TableName() string {
	return "courses"
}

// swagger:model CourseSection
type CourseSection struct {
	BaseModel
	CourseID uint   `gorm:"index;type:bigint unsigned" json:"courseId"`
	Title    string `gorm:"size:255;not null" json:"title"`
	Order    int    `gorm:"default:0" json:"order"`
}

func (CourseSection) TableName() string {
	return "course_sections"
}

type SectionItemType string

const (
	ItemLecture    SectionItemType = "lecture"
	ItemQuiz       SectionItemType = "quiz"
	ItemAssignment SectionItemType = "assignment"
)

// SectionItem is one unit of course content. Items flagged mandatory count
// toward the enrollment progress percentage.
// swagger:model SectionItem
type SectionItem struct {
	BaseModel
	SectionID   uint            `gorm:"index;type:bigint unsigned" json:"sectionId"`
	CourseID    uint            `gorm:"index;type:bigint unsigned" json:"courseId"`
	Title       string          `gorm:"size:255;not null" json:"title"`
	ItemType    SectionItemType `gorm:"size:20;not null" json:"itemType"`
	ContentURL  string          `gorm:"size:255" json:"contentUrl"`
	RefID       uint            `gorm:"default:0" json:"refId"` // quiz or assignment id for non-lecture items
	IsMandatory bool            `gorm:"default:true" json:"isMandatory"`
	Order       int             `gorm:"default:0" json:"order"`
}

func (SectionItem) TableName() string {
	return "section_items"
}
