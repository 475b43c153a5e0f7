// Package finance provides the typed per-entity stores the UI works with:
// incomes, expenses and investments, persisted as encrypted records through
// the secure storage facade. JSON field names follow the application's data
// format.
package finance

import (
	"time"

	"github.com/shopspring/decimal"
)

// Income is money coming in, possibly on a recurring schedule.
type Income struct {
	ID         string          `json:"id"`
	Descricao  string          `json:"descricao"`
	Valor      decimal.Decimal `json:"valor"`
	Moeda      string          `json:"moeda"`
	Data       time.Time       `json:"data"`
	Recorrente bool            `json:"recorrente"`
}

func (i Income) Key() string { return i.ID }

func (i Income) RecurrentValue() (decimal.Decimal, bool) {
	return i.Valor, i.Recorrente
}

// Expense is money going out. Pago marks it as settled.
type Expense struct {
	ID         string          `json:"id"`
	Descricao  string          `json:"descricao"`
	Valor      decimal.Decimal `json:"valor"`
	Moeda      string          `json:"moeda"`
	Data       time.Time       `json:"data"`
	Recorrente bool            `json:"recorrente"`
	Pago       bool            `json:"pago"`
}

func (e Expense) Key() string { return e.ID }

func (e Expense) RecurrentValue() (decimal.Decimal, bool) {
	return e.Valor, e.Recorrente
}

// Investment is an amount parked somewhere, with an expected yield in
// percent per year.
type Investment struct {
	ID         string          `json:"id"`
	Descricao  string          `json:"descricao"`
	Tipo       string          `json:"tipo,omitempty"`
	Valor      decimal.Decimal `json:"valor"`
	Moeda      string          `json:"moeda"`
	Data       time.Time       `json:"data"`
	Rendimento decimal.Decimal `json:"rendimento,omitempty"`
}

func (v Investment) Key() string { return v.ID }
