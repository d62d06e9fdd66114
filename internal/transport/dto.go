package transport

import (
	"github.com/Skotchmaster/expense_tracker/internal/models"
)

const DateLayout = "2006-01-02"

type RegisterRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type ExpenseRequest struct {
	Title    string  `json:"title"`
	Amount   float64 `json:"amount"`
	Category string  `json:"category"`
	Date     string  `json:"date"`
	Notes    string  `json:"notes"`
}

type ExpenseResponse struct {
	ID        uint    `json:"id"`
	Title     string  `json:"title"`
	Amount    float64 `json:"amount"`
	Category  string  `json:"category"`
	Date      string  `json:"date"`
	Notes     string  `json:"notes,omitempty"`
	User      uint    `json:"user"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}

func NewExpenseResponse(e *models.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:        e.ID,
		Title:     e.Title,
		Amount:    e.Amount,
		Category:  e.Category,
		Date:      e.Date.Format(DateLayout),
		Notes:     e.Notes,
		User:      e.UserID,
		CreatedAt: e.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt: e.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

func NewExpenseListResponse(items []models.Expense) []ExpenseResponse {
	out := make([]ExpenseResponse, 0, len(items))
	for i := range items {
		out = append(out, NewExpenseResponse(&items[i]))
	}
	return out
}

type CategorySummary struct {
	Category    string  `json:"category"`
	TotalAmount float64 `json:"total_amount"`
}

type UserInfo struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	IsStaff  bool   `json:"is_staff"`
}

type UserListItem struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}
