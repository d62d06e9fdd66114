package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Skotchmaster/expense_tracker/internal/models"
	"github.com/Skotchmaster/expense_tracker/internal/transport"
)

var ErrExpenseNotFound = errors.New("expense not found")

func (r *GormRepo) CreateExpense(ctx context.Context, e *models.Expense) error {
	return r.DB.WithContext(ctx).Create(e).Error
}

func (r *GormRepo) GetExpense(ctx context.Context, id uint) (*models.Expense, error) {
	var expense models.Expense
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&expense).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrExpenseNotFound
		}
		return nil, err
	}
	return &expense, nil
}

func (r *GormRepo) SaveExpense(ctx context.Context, e *models.Expense) error {
	return r.DB.WithContext(ctx).Save(e).Error
}

func (r *GormRepo) DeleteExpense(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.Expense{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrExpenseNotFound
	}
	return nil
}

func (r *GormRepo) ListExpenses(ctx context.Context, f ExpenseFilter) ([]models.Expense, error) {
	var items []models.Expense
	if err := r.filtered(ctx, f).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) SummarizeByCategory(ctx context.Context, f ExpenseFilter) ([]transport.CategorySummary, error) {
	var rows []transport.CategorySummary
	if err := r.filtered(ctx, f).
		Select("category, SUM(amount) AS total_amount").
		Group("category").
		Order("category ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *GormRepo) filtered(ctx context.Context, f ExpenseFilter) *gorm.DB {
	q := r.DB.WithContext(ctx).Model(&models.Expense{})
	if f.OwnerID != nil {
		q = q.Where("user_id = ?", *f.OwnerID)
	}
	if f.StartDate != nil {
		q = q.Where("date >= ?", *f.StartDate)
	}
	if f.EndDate != nil {
		q = q.Where("date <= ?", *f.EndDate)
	}
	if f.Category != nil {
		q = q.Where("category = ?", *f.Category)
	}
	return q
}
