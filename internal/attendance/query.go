package attendance

import (
	"time"

	"github.com/kollydap/workcheck/internal/models"
)

// Query serves the reporting endpoints and the administrative create/update
// paths. Administrative writes bypass the Engine state machine on purpose.
type Query struct {
	store *Store
}

func NewQuery(store *Store) *Query {
	return &Query{store: store}
}

// CreateInput is the administrative create payload: an explicit CheckIn is
// accepted verbatim, no open-session precondition applies.
type CreateInput struct {
	UserID         uint
	CheckIn        time.Time
	CheckOut       *time.Time
	Latitude       *float64
	Longitude      *float64
	CheckInMethod  string
	CheckOutMethod string
	Notes          string
}

// List returns all records, check_in descending.
func (q *Query) List(skip, limit int) ([]models.Attendance, error) {
	return q.store.List(ListOptions{Skip: skip, Limit: limit})
}

// ListByUser returns one user's records, check_in descending.
func (q *Query) ListByUser(userID uint, skip, limit int) ([]models.Attendance, error) {
	return q.store.List(ListOptions{UserID: &userID, Skip: skip, Limit: limit})
}

// ListByDateRange returns records with check_in in [start, end], both ends
// inclusive, optionally narrowed to one user.
func (q *Query) ListByDateRange(start, end time.Time, userID *uint, skip, limit int) ([]models.Attendance, error) {
	return q.store.List(ListOptions{
		UserID: userID,
		Start:  &start,
		End:    &end,
		Skip:   skip,
		Limit:  limit,
	})
}

func (q *Query) GetByID(id uint) (*models.Attendance, error) {
	return q.store.ByID(id)
}

// Create inserts an administrative record.
func (q *Query) Create(in CreateInput) (*models.Attendance, error) {
	rec := &models.Attendance{
		UserID:         in.UserID,
		CheckIn:        in.CheckIn,
		CheckOut:       in.CheckOut,
		Latitude:       in.Latitude,
		Longitude:      in.Longitude,
		CheckInMethod:  in.CheckInMethod,
		CheckOutMethod: in.CheckOutMethod,
		Notes:          in.Notes,
	}
	if err := q.store.Create(rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Update applies a sparse field map to rec: only keys present in fields are
// touched, an explicit null clears the field, unknown keys are ignored.
func (q *Query) Update(rec *models.Attendance, fields map[string]interface{}) (*models.Attendance, error) {
	for name, value := range fields {
		switch name {
		case "check_in":
			if t, ok := parseTimeValue(value); ok && t != nil {
				rec.CheckIn = *t
			}
		case "check_out":
			if t, ok := parseTimeValue(value); ok {
				rec.CheckOut = t
			}
		case "latitude":
			if f, ok := parseFloatValue(value); ok {
				rec.Latitude = f
			}
		case "longitude":
			if f, ok := parseFloatValue(value); ok {
				rec.Longitude = f
			}
		case "check_in_method":
			if s, ok := parseStringValue(value); ok {
				rec.CheckInMethod = s
			}
		case "check_out_method":
			if s, ok := parseStringValue(value); ok {
				rec.CheckOutMethod = s
			}
		case "notes":
			if s, ok := parseStringValue(value); ok {
				rec.Notes = s
			}
		}
	}

	if err := q.store.Save(rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// timeLayouts mirrors the formats the API accepts for timestamps.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseTimeValue(v interface{}) (*time.Time, bool) {
	switch t := v.(type) {
	case nil:
		return nil, true
	case time.Time:
		return &t, true
	case *time.Time:
		return t, true
	case string:
		for _, layout := range timeLayouts {
			if parsed, err := time.ParseInLocation(layout, t, time.Local); err == nil {
				return &parsed, true
			}
		}
	}
	return nil, false
}

func parseFloatValue(v interface{}) (*float64, bool) {
	switch f := v.(type) {
	case nil:
		return nil, true
	case float64:
		return &f, true
	case int:
		fv := float64(f)
		return &fv, true
	}
	return nil, false
}

func parseStringValue(v interface{}) (string, bool) {
	switch s := v.(type) {
	case nil:
		return "", true
	case string:
		return s, true
	}
	return "", false
}
