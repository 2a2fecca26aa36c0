package attendance

import (
	"errors"
	"fmt"
	"time"

	"github.com/kollydap/workcheck/internal/models"

	"gorm.io/gorm"
)

// Store is the persistence layer for attendance records. It only filters and
// orders rows; the check-in/check-out rules live in Engine.
type Store struct {
	DB *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{DB: db}
}

// ListOptions narrows a listing. Start/End bound check_in inclusively at both
// ends when set. Limit <= 0 falls back to 100 like the reference API.
type ListOptions struct {
	UserID *uint
	Start  *time.Time
	End    *time.Time
	Skip   int
	Limit  int
}

// ByID loads one record. Returns ErrNotFound when the id does not resolve.
func (s *Store) ByID(id uint) (*models.Attendance, error) {
	var rec models.Attendance
	if err := s.DB.First(&rec, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load attendance %d: %w", id, err)
	}
	return &rec, nil
}

func (s *Store) Create(rec *models.Attendance) error {
	if err := s.DB.Create(rec).Error; err != nil {
		return fmt.Errorf("create attendance: %w", err)
	}
	return nil
}

func (s *Store) Save(rec *models.Attendance) error {
	if err := s.DB.Save(rec).Error; err != nil {
		return fmt.Errorf("save attendance %d: %w", rec.ID, err)
	}
	return nil
}

// LatestInDay returns the user's most recent record whose check_in falls in
// the local calendar day containing ref, or nil when there is none.
func (s *Store) LatestInDay(userID uint, ref time.Time) (*models.Attendance, error) {
	dayStart := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, ref.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	var rec models.Attendance
	err := s.DB.
		Where("user_id = ? AND check_in >= ? AND check_in < ?", userID, dayStart, dayEnd).
		Order("check_in DESC").
		First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("load current status for user %d: %w", userID, err)
	}
	return &rec, nil
}

// List returns records ordered by check_in descending.
func (s *Store) List(opts ListOptions) ([]models.Attendance, error) {
	if opts.Limit <= 0 {
		opts.Limit = 100
	}
	if opts.Skip < 0 {
		opts.Skip = 0
	}

	q := s.DB.Model(&models.Attendance{})
	if opts.UserID != nil {
		q = q.Where("user_id = ?", *opts.UserID)
	}
	if opts.Start != nil {
		q = q.Where("check_in >= ?", *opts.Start)
	}
	if opts.End != nil {
		q = q.Where("check_in <= ?", *opts.End)
	}

	var records []models.Attendance
	if err := q.
		Order("check_in DESC").
		Offset(opts.Skip).
		Limit(opts.Limit).
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	return records, nil
}
