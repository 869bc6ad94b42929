package appointment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	"github.com/m04kA/SMC-ConsultationService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ConsultationService/pkg/psqlbuilder"
)

const (
	tableAppointments = "appointments"

	// pgUniqueViolation код ошибки PostgreSQL unique_violation
	pgUniqueViolation = "23505"
)

var appointmentColumns = []string{
	"id",
	"customer_id",
	"consultant_id",
	"service_id",
	"appointment_date",
	"slot",
	"status",
	"notes",
	"meeting_link",
	"created_at",
	"updated_at",
}

// Repository репозиторий записей на консультации (PostgreSQL)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новую запись.
// Нарушение частичного уникального индекса (consultant_id, appointment_date, slot)
// возвращается как ErrSlotTaken.
func (r *Repository) Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(tableAppointments).
		Columns(
			"customer_id",
			"consultant_id",
			"service_id",
			"appointment_date",
			"slot",
			"status",
			"notes",
			"meeting_link",
		).
		Values(
			appt.CustomerID,
			appt.ConsultantID,
			appt.ServiceID,
			domain.DateOnly(appt.AppointmentDate),
			int(appt.Slot),
			int(appt.Status),
			appt.Notes,
			appt.MeetingLink,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&appt.ID, &appt.CreatedAt, &appt.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrSlotTaken
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return appt, nil
}

// GetByID получает запись по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	return r.getByID(ctx, id, false)
}

// GetByIDForUpdate получает запись по ID и блокирует строку до конца транзакции.
// Вне транзакции работает как GetByID.
func (r *Repository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Appointment, error) {
	return r.getByID(ctx, id, dbmetrics.IsInTransaction(ctx))
}

func (r *Repository) getByID(ctx context.Context, id int64, lock bool) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(appointmentColumns...).
		From(tableAppointments).
		Where(squirrel.Eq{"id": id})
	if lock {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	appt, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan appointment: %v", ErrScanRow, err)
	}

	return appt, nil
}

// ListActiveByConsultant возвращает неотмененные записи консультанта в диапазоне дат (включительно).
// Внутри транзакции для одной даты строки блокируются (FOR UPDATE), чтобы проверка слота
// и вставка шли по актуальному состоянию.
func (r *Repository) ListActiveByConsultant(ctx context.Context, consultantID int64, from, to time.Time) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	from, to = domain.DateOnly(from), domain.DateOnly(to)

	builder := psqlbuilder.Select(appointmentColumns...).
		From(tableAppointments).
		Where(squirrel.Eq{"consultant_id": consultantID}).
		Where(squirrel.NotEq{"status": int(domain.StatusCancelled)}).
		Where(squirrel.GtOrEq{"appointment_date": from}).
		Where(squirrel.LtOrEq{"appointment_date": to}).
		OrderBy("appointment_date ASC", "slot ASC")

	if dbmetrics.IsInTransaction(ctx) && from.Equal(to) {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveByConsultant - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveByConsultant - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanAppointments(rows)
}

// List возвращает страницу записей по фильтру
// Сортировка: сначала более поздние даты
func (r *Repository) List(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := applyFilter(psqlbuilder.Select(appointmentColumns...).From(tableAppointments), filter).
		OrderBy("appointment_date DESC", "slot DESC", "id DESC")

	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		builder = builder.Offset(uint64(filter.Offset))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanAppointments(rows)
}

// Count возвращает количество записей по фильтру (Limit/Offset игнорируются)
func (r *Repository) Count(ctx context.Context, filter domain.AppointmentsFilter) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := applyFilter(psqlbuilder.Select("COUNT(*)").From(tableAppointments), filter).ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: Count - build select query: %v", ErrBuildQuery, err)
	}

	var total int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("%w: Count - scan count: %v", ErrScanRow, err)
	}

	return total, nil
}

// Replace перезаписывает запись целиком (все изменяемые поля).
// Вызывающий обязан сначала прочитать актуальную запись и изменить её в памяти.
func (r *Repository) Replace(ctx context.Context, appt *domain.Appointment) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableAppointments).
		Set("customer_id", appt.CustomerID).
		Set("consultant_id", appt.ConsultantID).
		Set("service_id", appt.ServiceID).
		Set("appointment_date", domain.DateOnly(appt.AppointmentDate)).
		Set("slot", int(appt.Slot)).
		Set("status", int(appt.Status)).
		Set("notes", appt.Notes).
		Set("meeting_link", appt.MeetingLink).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": appt.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Replace - build update query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&appt.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrAppointmentNotFound
	}
	if err != nil {
		if isUniqueViolation(err) {
			return ErrSlotTaken
		}
		return fmt.Errorf("%w: Replace - execute update: %v", ErrExecQuery, err)
	}

	return nil
}

func applyFilter(builder squirrel.SelectBuilder, filter domain.AppointmentsFilter) squirrel.SelectBuilder {
	if filter.CustomerID != nil {
		builder = builder.Where(squirrel.Eq{"customer_id": *filter.CustomerID})
	}
	if filter.ConsultantID != nil {
		builder = builder.Where(squirrel.Eq{"consultant_id": *filter.ConsultantID})
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]int, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = int(s)
		}
		builder = builder.Where(squirrel.Eq{"status": statuses})
	}
	return builder
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAppointment(row rowScanner) (*domain.Appointment, error) {
	var (
		appt        domain.Appointment
		slot        int
		status      int
		meetingLink sql.NullString
	)

	err := row.Scan(
		&appt.ID,
		&appt.CustomerID,
		&appt.ConsultantID,
		&appt.ServiceID,
		&appt.AppointmentDate,
		&slot,
		&status,
		&appt.Notes,
		&meetingLink,
		&appt.CreatedAt,
		&appt.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	appt.AppointmentDate = domain.DateOnly(appt.AppointmentDate)
	appt.Slot = domain.TimeSlot(slot)
	appt.Status = domain.AppointmentStatus(status)
	if meetingLink.Valid {
		appt.MeetingLink = &meetingLink.String
	}

	return &appt, nil
}

func scanAppointments(rows *sql.Rows) ([]*domain.Appointment, error) {
	appointments := make([]*domain.Appointment, 0)

	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanAppointments - scan row: %v", ErrScanRow, err)
		}
		appointments = append(appointments, appt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanAppointments - rows error: %v", ErrScanRow, err)
	}

	return appointments, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == pgUniqueViolation
}
