package leave

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"go-hrms/internal/employee"
	leaveerrors "go-hrms/internal/leave/errors"
	"go-hrms/internal/notification"
	"go-hrms/internal/shared/apperror"
	"go-hrms/internal/shared/clock"
	"go-hrms/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Authorizer answers the approval capability check for a role.
type Authorizer interface {
	CanApproveLeave(role string) bool
}

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Apply(ctx context.Context, userID string, req ApplyLeaveRequest) (LeaveResponse, error)
	MyLeaves(ctx context.Context, userID string, q ListQuery) ([]LeaveResponse, int64, error)
	All(ctx context.Context, q ListQuery) ([]LeaveResponse, int64, error)
	Balance(ctx context.Context, userID string) (BalanceResponse, error)
	Cancel(ctx context.Context, userID, id string) error
	Decide(ctx context.Context, actorID, actorRole, id string, req DecideLeaveRequest) (LeaveResponse, error)
	Stats(ctx context.Context) (StatsResponse, error)
}

type service struct {
	db         *sql.DB
	repo       Repository
	directory  employee.Service
	dispatcher notification.Dispatcher
	authorizer Authorizer
	balance    *BalanceCalculator
	clock      clock.Clock
	logger     *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	directory employee.Service,
	dispatcher notification.Dispatcher,
	authorizer Authorizer,
	policy AllocationPolicy,
	clk clock.Clock,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	if clk == nil {
		clk = clock.NewSystem()
	}
	if dispatcher == nil {
		dispatcher = notification.NewNoopDispatcher(l)
	}
	return &service{
		db:         db,
		repo:       repo,
		directory:  directory,
		dispatcher: dispatcher,
		authorizer: authorizer,
		balance:    NewBalanceCalculator(repo, policy, clk),
		clock:      clk,
		logger:     l,
	}
}

func (s *service) Apply(ctx context.Context, userID string, req ApplyLeaveRequest) (LeaveResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	log.Debug("apply leave requested",
		zap.String("user_id", userID),
		zap.String("type", req.Type),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
	)

	startDate, endDate, err := validateApplyRequest(req)
	if err != nil {
		log.Warn("apply leave validation failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	emp, err := s.directory.ResolveByUserID(ctx, userID)
	if err != nil {
		return LeaveResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("apply leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	overlap, err := qtx.HasOverlappingPeriod(ctx, emp.ID.String(), startDate, endDate)
	if err != nil {
		log.Error("apply leave overlap check failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if overlap {
		log.Warn("apply leave overlap detected",
			zap.String("employee_id", emp.ID.String()),
			zap.String("start_date", req.StartDate),
			zap.String("end_date", req.EndDate),
		)
		return LeaveResponse{}, leaveerrors.ErrLeaveOverlap
	}

	documents := req.Documents
	if documents == nil {
		documents = []string{}
	}
	now := s.clock.Now()
	l := &LeaveRequest{
		ID:         uuid.New(),
		EmployeeID: emp.ID,
		Type:       req.Type,
		StartDate:  startDate,
		EndDate:    endDate,
		Days:       inclusiveDays(startDate, endDate),
		Reason:     strings.TrimSpace(req.Reason),
		Documents:  datatypes.JSONSlice[string](documents),
		Status:     StatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := qtx.Create(ctx, l); err != nil {
		log.Error("apply leave persist failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		log.Error("apply leave commit failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	log.Info("apply leave success",
		zap.String("leave_id", l.ID.String()),
		zap.String("employee_id", emp.ID.String()),
		zap.Int("days", l.Days),
	)

	s.notifyApprovers(ctx, emp, l)

	l.Employee = &LeaveEmployee{ID: emp.ID, FullName: emp.FullName, Department: emp.Department}
	return mapToResponse(*l), nil
}

func (s *service) MyLeaves(ctx context.Context, userID string, q ListQuery) ([]LeaveResponse, int64, error) {
	if err := validateListQuery(q); err != nil {
		return nil, 0, err
	}

	emp, err := s.directory.ResolveByUserID(ctx, userID)
	if err != nil {
		return nil, 0, err
	}

	q.EmployeeID = emp.ID.String()
	leaves, total, err := s.repo.List(ctx, q)
	if err != nil {
		s.logger.Error("list my leaves failed", zap.String("employee_id", q.EmployeeID), zap.Error(err))
		return nil, 0, err
	}
	return mapToListResponse(leaves), total, nil
}

func (s *service) All(ctx context.Context, q ListQuery) ([]LeaveResponse, int64, error) {
	if err := validateListQuery(q); err != nil {
		return nil, 0, err
	}
	if q.EmployeeID != "" {
		if _, err := uuid.Parse(q.EmployeeID); err != nil {
			return nil, 0, leaveerrors.ErrInvalidEmployeeID
		}
	}

	leaves, total, err := s.repo.List(ctx, q)
	if err != nil {
		s.logger.Error("list all leaves failed", zap.Error(err))
		return nil, 0, err
	}
	return mapToListResponse(leaves), total, nil
}

func (s *service) Balance(ctx context.Context, userID string) (BalanceResponse, error) {
	emp, err := s.directory.ResolveByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	balance, err := s.balance.Calculate(ctx, emp.ID.String())
	if err != nil {
		s.logger.Error("calculate leave balance failed", zap.String("employee_id", emp.ID.String()), zap.Error(err))
		return nil, err
	}
	return balance, nil
}

func (s *service) Cancel(ctx context.Context, userID, id string) error {
	log := contextutil.GetLogger(ctx, s.logger)
	log.Debug("cancel leave requested", zap.String("leave_id", id), zap.String("user_id", userID))

	if _, err := uuid.Parse(id); err != nil {
		return leaveerrors.ErrInvalidLeaveID
	}

	emp, err := s.directory.ResolveByUserID(ctx, userID)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("cancel leave begin tx failed", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := qtx.FindByID(ctx, id)
	if err != nil {
		return mapRepositoryError(err)
	}
	if l.EmployeeID != emp.ID {
		log.Warn("cancel leave not owned",
			zap.String("leave_id", id),
			zap.String("employee_id", emp.ID.String()),
		)
		return leaveerrors.ErrLeaveNotOwned
	}
	if l.Status != StatusPending {
		return leaveerrors.ErrLeaveNotPending
	}

	affected, err := qtx.DeletePending(ctx, id, emp.ID.String())
	if err != nil {
		log.Error("cancel leave delete failed", zap.String("leave_id", id), zap.Error(err))
		return err
	}
	if affected == 0 {
		log.Warn("cancel leave lost race with decision", zap.String("leave_id", id))
		return leaveerrors.ErrLeaveNotPending
	}

	if err := tx.Commit(); err != nil {
		log.Error("cancel leave commit failed", zap.String("leave_id", id), zap.Error(err))
		return err
	}
	log.Info("cancel leave success", zap.String("leave_id", id))
	return nil
}

func (s *service) Decide(ctx context.Context, actorID, actorRole, id string, req DecideLeaveRequest) (LeaveResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	log.Debug("decide leave requested",
		zap.String("leave_id", id),
		zap.String("actor_id", actorID),
		zap.String("target_status", req.Status),
	)

	if s.authorizer == nil || !s.authorizer.CanApproveLeave(actorRole) {
		return LeaveResponse{}, apperror.ErrForbidden
	}
	if req.Status != StatusApproved && req.Status != StatusRejected {
		return LeaveResponse{}, leaveerrors.ErrInvalidDecision
	}
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidActorID
	}
	if _, err := uuid.Parse(id); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("decide leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := qtx.FindByID(ctx, id)
	if err != nil {
		return LeaveResponse{}, mapRepositoryError(err)
	}
	if l.Status != StatusPending {
		log.Warn("decide leave already processed",
			zap.String("leave_id", id),
			zap.String("status", l.Status),
		)
		return LeaveResponse{}, leaveerrors.ErrLeaveAlreadyProcessed
	}

	decision := Decision{
		Status:     req.Status,
		ApprovedBy: actorUUID,
		ApprovedOn: s.clock.Now(),
	}
	if req.Status == StatusRejected && req.RejectionReason != nil {
		if reason := strings.TrimSpace(*req.RejectionReason); reason != "" {
			decision.RejectionReason = &reason
		}
	}

	affected, err := qtx.ApplyDecision(ctx, id, decision)
	if err != nil {
		log.Error("decide leave persist failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}
	if affected == 0 {
		log.Warn("decide leave lost race", zap.String("leave_id", id))
		return LeaveResponse{}, leaveerrors.ErrLeaveAlreadyProcessed
	}

	if err := tx.Commit(); err != nil {
		log.Error("decide leave commit failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}

	l.Status = decision.Status
	l.ApprovedBy = &decision.ApprovedBy
	l.ApprovedOn = &decision.ApprovedOn
	l.RejectionReason = decision.RejectionReason
	l.UpdatedAt = decision.ApprovedOn
	log.Info("decide leave success",
		zap.String("leave_id", id),
		zap.String("status", l.Status),
		zap.String("actor_id", actorID),
	)

	s.notifyApplicant(ctx, l)

	return mapToResponse(*l), nil
}

func (s *service) Stats(ctx context.Context) (StatsResponse, error) {
	now := s.clock.Now()
	from, to := yearRange(now)

	rows, err := s.repo.Stats(ctx, from, to)
	if err != nil {
		s.logger.Error("leave stats failed", zap.Error(err))
		return StatsResponse{}, err
	}

	resp := StatsResponse{
		Year:     now.Year(),
		ByStatus: make(map[string]int64, len(Statuses)),
		ByType:   make(map[string]int64, len(Types)),
	}
	for _, st := range Statuses {
		resp.ByStatus[st] = 0
	}
	for _, t := range Types {
		resp.ByType[t] = 0
	}
	for _, row := range rows {
		resp.Total += row.Count
		resp.TotalDays += row.Days
		resp.ByStatus[row.Status] += row.Count
		resp.ByType[row.Type] += row.Count
		if row.Status == StatusApproved {
			resp.ApprovedDays += row.Days
		}
	}
	return resp, nil
}

// notifyApprovers runs after commit. Failures are logged and never undo the application.
func (s *service) notifyApprovers(ctx context.Context, emp *employee.Employee, l *LeaveRequest) {
	recipients, err := s.directory.ApproverUserIDs(ctx)
	if err != nil {
		s.logger.Error("apply leave load approvers failed", zap.String("leave_id", l.ID.String()), zap.Error(err))
		return
	}

	body := fmt.Sprintf("%s applied for %s leave from %s to %s (%d days)",
		emp.FullName, l.Type, l.StartDate.Format(dateLayout), l.EndDate.Format(dateLayout), l.Days)

	msgs := make([]notification.Message, 0, len(recipients))
	for _, recipient := range recipients {
		if recipient == emp.UserID.String() {
			continue
		}
		msgs = append(msgs, notification.Message{
			RecipientID: recipient,
			Type:        notification.TypeLeaveApplied,
			Title:       "New leave application",
			Body:        body,
			ReferenceID: l.ID.String(),
		})
	}
	if len(msgs) == 0 {
		return
	}

	if err := s.dispatcher.Dispatch(ctx, msgs...); err != nil {
		s.logger.Error("apply leave notification failed",
			zap.String("leave_id", l.ID.String()),
			zap.Int("recipients", len(msgs)),
			zap.Error(err),
		)
	}
}

// notifyApplicant runs after commit. Failures are logged and never undo the decision.
func (s *service) notifyApplicant(ctx context.Context, l *LeaveRequest) {
	emp, err := s.directory.FindByID(ctx, l.EmployeeID.String())
	if err != nil {
		s.logger.Error("decide leave load applicant failed", zap.String("leave_id", l.ID.String()), zap.Error(err))
		return
	}

	period := fmt.Sprintf("%s to %s", l.StartDate.Format(dateLayout), l.EndDate.Format(dateLayout))
	msg := notification.Message{
		RecipientID: emp.UserID.String(),
		ReferenceID: l.ID.String(),
	}
	if l.Status == StatusApproved {
		msg.Type = notification.TypeLeaveApproved
		msg.Title = "Leave approved"
		msg.Body = fmt.Sprintf("Your %s leave from %s has been approved", l.Type, period)
	} else {
		msg.Type = notification.TypeLeaveRejected
		msg.Title = "Leave rejected"
		msg.Body = fmt.Sprintf("Your %s leave from %s has been rejected", l.Type, period)
		if l.RejectionReason != nil {
			msg.Body += ": " + *l.RejectionReason
		}
	}

	if err := s.dispatcher.Dispatch(ctx, msg); err != nil {
		s.logger.Error("decide leave notification failed", zap.String("leave_id", l.ID.String()), zap.Error(err))
	}
}

func validateApplyRequest(req ApplyLeaveRequest) (time.Time, time.Time, error) {
	if !isKnownType(req.Type) {
		return time.Time{}, time.Time{}, leaveerrors.ErrInvalidLeaveType
	}
	if strings.TrimSpace(req.Reason) == "" {
		return time.Time{}, time.Time{}, leaveerrors.ErrReasonRequired
	}
	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if startDate.After(endDate) {
		return time.Time{}, time.Time{}, leaveerrors.ErrInvalidDateRange
	}
	return startDate, endDate, nil
}

func validateListQuery(q ListQuery) error {
	if q.Status != "" && !isKnownStatus(q.Status) {
		return leaveerrors.ErrInvalidStatus
	}
	if q.Type != "" && !isKnownType(q.Type) {
		return leaveerrors.ErrInvalidLeaveType
	}
	return nil
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse(dateLayout, v)
	if err != nil {
		return time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	return t, nil
}

func mapRepositoryError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return leaveerrors.ErrLeaveNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "22P02" {
		return leaveerrors.ErrInvalidLeaveID
	}
	return err
}
