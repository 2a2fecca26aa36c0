package attendance

import (
	"sync"
	"time"

	"github.com/kollydap/workcheck/internal/geo"
	"github.com/kollydap/workcheck/internal/models"
)

// SiteGate restricts check-in/out to coordinates within RadiusMeters of the
// site. A nil gate means distance is never enforced.
type SiteGate struct {
	Latitude     float64
	Longitude    float64
	RadiusMeters float64
}

// Engine derives a user's open/closed state from stored records and enforces
// the check-in/check-out transition rules. Status is always computed from the
// most recent record of the local calendar day, never from a separate flag.
//
// CheckIn and CheckOut for one user serialize on a per-user mutex so that two
// concurrent check-ins cannot both observe "no open session" and insert twice.
type Engine struct {
	store *Store
	gate  *SiteGate

	mu    sync.Mutex
	locks map[uint]*sync.Mutex

	now func() time.Time // 可在测试里替换
}

func NewEngine(store *Store, gate *SiteGate) *Engine {
	return &Engine{
		store: store,
		gate:  gate,
		locks: make(map[uint]*sync.Mutex),
		now:   time.Now,
	}
}

func (e *Engine) userLock(userID uint) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	l, ok := e.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		e.locks[userID] = l
	}
	return l
}

// checkGate rejects coordinates outside the configured site radius. Missing
// coordinates pass: location evidence is optional.
func (e *Engine) checkGate(lat, lon *float64) error {
	if e.gate == nil || lat == nil || lon == nil {
		return nil
	}
	if !geo.IsWithinRadius(*lat, *lon, e.gate.Latitude, e.gate.Longitude, e.gate.RadiusMeters) {
		return ErrOutsideRadius
	}
	return nil
}

// CurrentStatus returns the user's most recent record for today, or nil when
// no record exists. A record with CheckOut == nil is an open session.
func (e *Engine) CurrentStatus(userID uint) (*models.Attendance, error) {
	return e.store.LatestInDay(userID, e.now())
}

// CheckIn opens a new session. It fails with ErrAlreadyCheckedIn while
// today's latest record is still open; once that record is closed a new
// cycle may start the same day.
func (e *Engine) CheckIn(userID uint, lat, lon *float64, method, notes string) (*models.Attendance, error) {
	l := e.userLock(userID)
	l.Lock()
	defer l.Unlock()

	status, err := e.CurrentStatus(userID)
	if err != nil {
		return nil, err
	}
	if status != nil && status.CheckOut == nil {
		return nil, ErrAlreadyCheckedIn
	}

	if err := e.checkGate(lat, lon); err != nil {
		return nil, err
	}

	rec := &models.Attendance{
		UserID:        userID,
		CheckIn:       e.now(),
		Latitude:      lat,
		Longitude:     lon,
		CheckInMethod: method,
		Notes:         notes,
	}
	if err := e.store.Create(rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// CheckOut closes the open session. Coordinates overwrite the stored ones
// only when supplied; notes append to existing notes with a check-out marker.
func (e *Engine) CheckOut(userID uint, lat, lon *float64, method, notes string) (*models.Attendance, error) {
	l := e.userLock(userID)
	l.Lock()
	defer l.Unlock()

	status, err := e.CurrentStatus(userID)
	if err != nil {
		return nil, err
	}
	if status == nil || status.CheckOut != nil {
		return nil, ErrNotCheckedIn
	}

	if err := e.checkGate(lat, lon); err != nil {
		return nil, err
	}

	rec, err := e.store.ByID(status.ID)
	if err != nil {
		return nil, err
	}

	now := e.now()
	rec.CheckOut = &now
	rec.CheckOutMethod = method
	if lat != nil {
		rec.Latitude = lat
	}
	if lon != nil {
		rec.Longitude = lon
	}
	if notes != "" {
		if rec.Notes == "" {
			rec.Notes = notes
		} else {
			rec.Notes = rec.Notes + "\n\nCheck-out: " + notes
		}
	}

	if err := e.store.Save(rec); err != nil {
		return nil, err
	}
	return rec, nil
}
