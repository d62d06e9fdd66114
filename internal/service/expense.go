package service

import (
	"context"
	"errors"
	"math"
	"strconv"
	"time"

	"github.com/Skotchmaster/expense_tracker/internal/logging"
	"github.com/Skotchmaster/expense_tracker/internal/models"
	"github.com/Skotchmaster/expense_tracker/internal/mykafka"
	"github.com/Skotchmaster/expense_tracker/internal/repo"
	"github.com/Skotchmaster/expense_tracker/internal/transport"
)

var expenseCategories = map[string]struct{}{
	"food":      {},
	"travel":    {},
	"utilities": {},
	"misc":      {},
}

const maxTitleLength = 50

type ExpenseService struct {
	Repo     *repo.GormRepo
	Producer *mykafka.Producer
}

// ListFilters are the caller-supplied query filters. OwnerID is honored for
// admins only; non-admin queries are always scoped to the caller.
type ListFilters struct {
	StartDate *time.Time
	EndDate   *time.Time
	Category  *string
	OwnerID   *uint
}

func (s *ExpenseService) List(ctx context.Context, identity Identity, f ListFilters) ([]models.Expense, error) {
	return s.Repo.ListExpenses(ctx, s.scoped(identity, f))
}

func (s *ExpenseService) Summarize(ctx context.Context, identity Identity, f ListFilters) ([]transport.CategorySummary, error) {
	// Category and owner filters do not apply to summaries, only dates.
	f.Category = nil
	f.OwnerID = nil
	return s.Repo.SummarizeByCategory(ctx, s.scoped(identity, f))
}

func (s *ExpenseService) scoped(identity Identity, f ListFilters) repo.ExpenseFilter {
	out := repo.ExpenseFilter{
		StartDate: f.StartDate,
		EndDate:   f.EndDate,
		Category:  f.Category,
	}
	if identity.IsAdmin() {
		out.OwnerID = f.OwnerID
	} else {
		ownerID := identity.UserID
		out.OwnerID = &ownerID
	}
	return out
}

func (s *ExpenseService) Create(ctx context.Context, identity Identity, req transport.ExpenseRequest) (*models.Expense, error) {
	l := logging.FromContext(ctx).With("svc", "expense.create", "user_id", identity.UserID)

	date, err := validateExpense(req)
	if err != nil {
		return nil, err
	}

	// Owner always comes from the authenticated caller, never the payload.
	expense := models.Expense{
		Title:    req.Title,
		Amount:   req.Amount,
		Category: req.Category,
		Date:     date,
		Notes:    req.Notes,
		UserID:   identity.UserID,
	}
	if err := s.Repo.CreateExpense(ctx, &expense); err != nil {
		l.Error("expense_create_error", "error", err)
		return nil, err
	}

	s.publish(ctx, "expense_created", &expense)
	return &expense, nil
}

func (s *ExpenseService) Get(ctx context.Context, identity Identity, id uint) (*models.Expense, error) {
	return s.load(ctx, identity, id)
}

func (s *ExpenseService) Update(ctx context.Context, identity Identity, id uint, req transport.ExpenseRequest) (*models.Expense, error) {
	l := logging.FromContext(ctx).With("svc", "expense.update", "user_id", identity.UserID)

	expense, err := s.load(ctx, identity, id)
	if err != nil {
		return nil, err
	}

	date, err := validateExpense(req)
	if err != nil {
		return nil, err
	}

	expense.Title = req.Title
	expense.Amount = req.Amount
	expense.Category = req.Category
	expense.Date = date
	expense.Notes = req.Notes

	if err := s.Repo.SaveExpense(ctx, expense); err != nil {
		l.Error("expense_update_error", "error", err)
		return nil, err
	}

	s.publish(ctx, "expense_updated", expense)
	return expense, nil
}

func (s *ExpenseService) Delete(ctx context.Context, identity Identity, id uint) error {
	l := logging.FromContext(ctx).With("svc", "expense.delete", "user_id", identity.UserID)

	expense, err := s.load(ctx, identity, id)
	if err != nil {
		return err
	}

	if err := s.Repo.DeleteExpense(ctx, expense.ID); err != nil {
		l.Error("expense_delete_error", "error", err)
		return err
	}

	s.publish(ctx, "expense_deleted", expense)
	return nil
}

// load fetches an expense and applies the owner-or-admin check. The record is
// looked up first, so a mismatched owner gets an explicit permission error
// rather than a masked not-found.
func (s *ExpenseService) load(ctx context.Context, identity Identity, id uint) (*models.Expense, error) {
	expense, err := s.Repo.GetExpense(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrExpenseNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !CanAccess(identity, expense.UserID) {
		return nil, ErrPermissionDenied
	}
	return expense, nil
}

func validateExpense(req transport.ExpenseRequest) (time.Time, error) {
	fe := NewFieldErrors()

	if req.Title == "" {
		fe.Add("title", "This field is required.")
	} else if len(req.Title) > maxTitleLength {
		fe.Add("title", "Ensure this field has no more than 50 characters.")
	}

	if req.Amount <= 0 {
		fe.Add("amount", "Amount must be greater than zero.")
	} else if math.Abs(req.Amount*100-math.Round(req.Amount*100)) > 1e-9 {
		fe.Add("amount", "Ensure that there are no more than 2 decimal places.")
	}

	if _, ok := expenseCategories[req.Category]; !ok {
		fe.Add("category", "\""+req.Category+"\" is not a valid choice.")
	}

	var date time.Time
	if req.Date == "" {
		fe.Add("date", "This field is required.")
	} else {
		var err error
		date, err = time.Parse(transport.DateLayout, req.Date)
		if err != nil {
			fe.Add("date", "Date has wrong format. Use YYYY-MM-DD.")
		}
	}

	if !fe.Empty() {
		return time.Time{}, fe
	}
	return date, nil
}

func (s *ExpenseService) publish(ctx context.Context, eventType string, e *models.Expense) {
	event := map[string]interface{}{
		"type":      eventType,
		"expenseID": e.ID,
		"userID":    e.UserID,
		"category":  e.Category,
		"amount":    e.Amount,
	}
	if err := s.Producer.PublishEvent(ctx, mykafka.ExpenseEventsTopic, strconv.FormatUint(uint64(e.ID), 10), event); err != nil {
		logging.FromContext(ctx).Warn("event_publish_failed", "topic", mykafka.ExpenseEventsTopic, "error", err)
	}
}
