package appointment

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
)

// MemoryRepository хранилище записей в памяти (database.driver = "memory").
// Проверка уникальности слота и вставка выполняются под одной блокировкой,
// что дает ту же гарантию, что и частичный уникальный индекс в PostgreSQL.
type MemoryRepository struct {
	mu     sync.RWMutex
	nextID int64
	items  map[int64]*domain.Appointment
	now    func() time.Time
}

// NewMemoryRepository создает пустое хранилище
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		items: make(map[int64]*domain.Appointment),
		now:   time.Now,
	}
}

func (r *MemoryRepository) Create(_ context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := clone(appt)
	stored.AppointmentDate = domain.DateOnly(stored.AppointmentDate)

	if stored.Status.OccupiesSlot() && r.slotTakenLocked(stored, 0) {
		return nil, ErrSlotTaken
	}

	r.nextID++
	now := r.now().UTC()
	stored.ID = r.nextID
	stored.CreatedAt = now
	stored.UpdatedAt = now
	r.items[stored.ID] = stored

	return clone(stored), nil
}

func (r *MemoryRepository) GetByID(_ context.Context, id int64) (*domain.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	appt, ok := r.items[id]
	if !ok {
		return nil, ErrAppointmentNotFound
	}
	return clone(appt), nil
}

// GetByIDForUpdate в памяти блокировки строк нет: запись сериализуется менеджером транзакций
func (r *MemoryRepository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Appointment, error) {
	return r.GetByID(ctx, id)
}

func (r *MemoryRepository) ListActiveByConsultant(_ context.Context, consultantID int64, from, to time.Time) ([]*domain.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	from, to = domain.DateOnly(from), domain.DateOnly(to)

	result := make([]*domain.Appointment, 0)
	for _, appt := range r.items {
		if appt.ConsultantID != consultantID || appt.Status == domain.StatusCancelled {
			continue
		}
		if appt.AppointmentDate.Before(from) || appt.AppointmentDate.After(to) {
			continue
		}
		result = append(result, clone(appt))
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].AppointmentDate.Equal(result[j].AppointmentDate) {
			return result[i].AppointmentDate.Before(result[j].AppointmentDate)
		}
		return result[i].Slot < result[j].Slot
	})

	return result, nil
}

func (r *MemoryRepository) List(_ context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := r.matchLocked(filter)

	// тот же порядок, что и в PostgreSQL: appointment_date DESC, slot DESC, id DESC
	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if !a.AppointmentDate.Equal(b.AppointmentDate) {
			return a.AppointmentDate.After(b.AppointmentDate)
		}
		if a.Slot != b.Slot {
			return a.Slot > b.Slot
		}
		return a.ID > b.ID
	})

	if filter.Offset > 0 {
		if filter.Offset >= len(matched) {
			return []*domain.Appointment{}, nil
		}
		matched = matched[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(matched) {
		matched = matched[:filter.Limit]
	}

	result := make([]*domain.Appointment, len(matched))
	for i, appt := range matched {
		result[i] = clone(appt)
	}
	return result, nil
}

func (r *MemoryRepository) Count(_ context.Context, filter domain.AppointmentsFilter) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.matchLocked(filter)), nil
}

func (r *MemoryRepository) Replace(_ context.Context, appt *domain.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.items[appt.ID]
	if !ok {
		return ErrAppointmentNotFound
	}

	stored := clone(appt)
	stored.AppointmentDate = domain.DateOnly(stored.AppointmentDate)
	if stored.Status.OccupiesSlot() && r.slotTakenLocked(stored, stored.ID) {
		return ErrSlotTaken
	}

	stored.CreatedAt = current.CreatedAt
	stored.UpdatedAt = r.now().UTC()
	r.items[stored.ID] = stored

	appt.UpdatedAt = stored.UpdatedAt
	return nil
}

// slotTakenLocked ищет другую неотмененную запись на тот же (консультант, дата, слот)
func (r *MemoryRepository) slotTakenLocked(appt *domain.Appointment, exceptID int64) bool {
	for id, other := range r.items {
		if id == exceptID || !other.Status.OccupiesSlot() {
			continue
		}
		if other.ConsultantID == appt.ConsultantID &&
			other.Slot == appt.Slot &&
			other.AppointmentDate.Equal(appt.AppointmentDate) {
			return true
		}
	}
	return false
}

func (r *MemoryRepository) matchLocked(filter domain.AppointmentsFilter) []*domain.Appointment {
	matched := make([]*domain.Appointment, 0)
	for _, appt := range r.items {
		if filter.CustomerID != nil && appt.CustomerID != *filter.CustomerID {
			continue
		}
		if filter.ConsultantID != nil && appt.ConsultantID != *filter.ConsultantID {
			continue
		}
		if !filter.MatchesStatus(appt.Status) {
			continue
		}
		matched = append(matched, appt)
	}
	return matched
}

func clone(appt *domain.Appointment) *domain.Appointment {
	c := *appt
	if appt.MeetingLink != nil {
		link := *appt.MeetingLink
		c.MeetingLink = &link
	}
	return &c
}
