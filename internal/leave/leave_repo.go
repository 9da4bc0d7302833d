package leave

import (
	"context"
	"database/sql"
	"time"

	"go-hrms/internal/shared/scope"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Decision is the single transition of a request out of pending.
type Decision struct {
	Status          string
	ApprovedBy      uuid.UUID
	ApprovedOn      time.Time
	RejectionReason *string
}

// StatRow is one status/type bucket of the yearly statistics.
type StatRow struct {
	Status string
	Type   string
	Count  int64
	Days   int64
}

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, l *LeaveRequest) error
	FindByID(ctx context.Context, id string) (*LeaveRequest, error)
	List(ctx context.Context, q ListQuery) ([]LeaveRequest, int64, error)
	HasOverlappingPeriod(ctx context.Context, employeeID string, startDate, endDate time.Time) (bool, error)
	ApplyDecision(ctx context.Context, id string, d Decision) (int64, error)
	DeletePending(ctx context.Context, id, employeeID string) (int64, error)
	SumApprovedDaysByType(ctx context.Context, employeeID string, from, to time.Time) (map[string]int, error)
	Stats(ctx context.Context, from, to time.Time) ([]StatRow, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// WithTx returns a repository whose statements run on tx.
func (r *repository) WithTx(tx *sql.Tx) Repository {
	db := r.db.Session(&gorm.Session{Context: context.Background(), SkipDefaultTransaction: true})
	db.Statement.ConnPool = tx
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, l *LeaveRequest) error {
	return r.db.WithContext(ctx).Omit("Employee").Create(l).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*LeaveRequest, error) {
	var l LeaveRequest
	err := r.db.WithContext(ctx).First(&l, "id = ?", id).Error
	return &l, err
}

func (r *repository) List(ctx context.Context, q ListQuery) ([]LeaveRequest, int64, error) {
	db := r.db.WithContext(ctx).Model(&LeaveRequest{})
	if q.EmployeeID != "" {
		db = db.Where("employee_id = ?", q.EmployeeID)
	}
	if q.Status != "" {
		db = db.Where("status = ?", q.Status)
	}
	if q.Type != "" {
		db = db.Where("type = ?", q.Type)
	}
	db = db.Session(&gorm.Session{})

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var leaves []LeaveRequest
	err := db.Preload("Employee").
		Scopes(scope.Newest("start_date"), scope.Paginate(q.Page, q.Limit)).
		Find(&leaves).Error
	return leaves, total, err
}

// HasOverlappingPeriod reports whether a pending or approved request of the employee intersects [startDate, endDate].
func (r *repository) HasOverlappingPeriod(ctx context.Context, employeeID string, startDate, endDate time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&LeaveRequest{}).
		Where("employee_id = ?", employeeID).
		Where("status IN ?", []string{StatusPending, StatusApproved}).
		Where("NOT (end_date < ? OR start_date > ?)", startDate, endDate).
		Count(&count).Error
	return count > 0, err
}

// ApplyDecision only touches a request that is still pending. Zero rows affected means someone decided first.
func (r *repository) ApplyDecision(ctx context.Context, id string, d Decision) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&LeaveRequest{}).
		Where("id = ? AND status = ?", id, StatusPending).
		Updates(map[string]interface{}{
			"status":           d.Status,
			"approved_by":      d.ApprovedBy,
			"approved_on":      d.ApprovedOn,
			"rejection_reason": d.RejectionReason,
		})
	return res.RowsAffected, res.Error
}

func (r *repository) DeletePending(ctx context.Context, id, employeeID string) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND employee_id = ? AND status = ?", id, employeeID, StatusPending).
		Delete(&LeaveRequest{})
	return res.RowsAffected, res.Error
}

func (r *repository) SumApprovedDaysByType(ctx context.Context, employeeID string, from, to time.Time) (map[string]int, error) {
	var rows []struct {
		Type string
		Days int
	}
	err := r.db.WithContext(ctx).
		Model(&LeaveRequest{}).
		Select("type, COALESCE(SUM(days), 0) AS days").
		Where("employee_id = ? AND status = ?", employeeID, StatusApproved).
		Where("start_date BETWEEN ? AND ?", from, to).
		Group("type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	used := make(map[string]int, len(rows))
	for _, row := range rows {
		used[row.Type] = row.Days
	}
	return used, nil
}

func (r *repository) Stats(ctx context.Context, from, to time.Time) ([]StatRow, error) {
	var rows []StatRow
	err := r.db.WithContext(ctx).
		Model(&LeaveRequest{}).
		Select("status, type, COUNT(*) AS count, COALESCE(SUM(days), 0) AS days").
		Where("start_date BETWEEN ? AND ?", from, to).
		Group("status, type").
		Scan(&rows).Error
	return rows, err
}
