package ledger

import (
	"sort"

	"github.com/amirtrade/tradeoffice-bot/internal/domain/persons"
	"github.com/shopspring/decimal"
)

// Balance is a signed per-currency total for one person.
type Balance map[Currency]decimal.Decimal

func NewBalance() Balance {
	b := make(Balance, len(AllCurrencies))
	for _, c := range AllCurrencies {
		b[c] = decimal.Zero
	}
	return b
}

func (b Balance) IsZero() bool {
	for _, v := range b {
		if !v.IsZero() {
			return false
		}
	}
	return true
}

// Balances folds the transaction list into per-person balances. Every person
// appears in the result, all currencies zero-filled. Transactions referencing
// a person id that is not in the list, or missing a required id, are skipped
// without error. The fold is pure and order-independent.
func Balances(people []persons.Person, txs []Transaction) map[int64]Balance {
	out := make(map[int64]Balance, len(people))
	for _, p := range people {
		out[p.ID] = NewBalance()
	}

	for _, tx := range txs {
		switch tx.Type {
		case TxPaymentIn:
			if b, ok := lookup(out, tx.EntityID); ok {
				b[tx.Currency] = b[tx.Currency].Add(tx.Amount)
			}
		case TxPaymentOut:
			if b, ok := lookup(out, tx.EntityID); ok {
				b[tx.Currency] = b[tx.Currency].Sub(tx.Amount)
			}
		case TxInternalTransfer:
			// Each side applies independently; a dangling side is dropped.
			if b, ok := lookup(out, tx.FromEntityID); ok {
				b[tx.Currency] = b[tx.Currency].Sub(tx.Amount)
			}
			if b, ok := lookup(out, tx.ToEntityID); ok {
				b[tx.Currency] = b[tx.Currency].Add(tx.Amount)
			}
		case TxConversion:
			if tx.ToCurrency == nil {
				continue
			}
			b, ok := lookup(out, tx.EntityID)
			if !ok {
				continue
			}
			rate := decimal.NewFromInt(1)
			if tx.Rate != nil && !tx.Rate.IsZero() {
				rate = *tx.Rate
			}
			b[tx.Currency] = b[tx.Currency].Sub(tx.Amount)
			b[*tx.ToCurrency] = b[*tx.ToCurrency].Add(tx.Amount.Mul(rate))
		}
	}
	return out
}

func lookup(m map[int64]Balance, id *int64) (Balance, bool) {
	if id == nil {
		return nil, false
	}
	b, ok := m[*id]
	return b, ok
}

// Totals sums pure in/out payments per currency across all persons, the
// headline numbers on the dashboard. Conversions and transfers cancel out and
// are not counted.
func Totals(txs []Transaction) Balance {
	t := NewBalance()
	for _, tx := range txs {
		switch tx.Type {
		case TxPaymentIn:
			t[tx.Currency] = t[tx.Currency].Add(tx.Amount)
		case TxPaymentOut:
			t[tx.Currency] = t[tx.Currency].Sub(tx.Amount)
		}
	}
	return t
}

// PersonBalance is one row of the balances table.
type PersonBalance struct {
	PersonID   int64
	PersonName string
	Balance    Balance
}

// BalanceRows pairs every person with its folded balance, in person list
// order. Display concern, not part of the fold contract.
func BalanceRows(people []persons.Person, balances map[int64]Balance) []PersonBalance {
	rows := make([]PersonBalance, 0, len(people))
	for _, p := range people {
		b := balances[p.ID]
		if b == nil {
			b = NewBalance()
		}
		rows = append(rows, PersonBalance{PersonID: p.ID, PersonName: p.Name, Balance: b})
	}
	return rows
}

// SortZeroLast moves all-zero rows to the end, keeping relative order
// otherwise, and truncates to limit when limit > 0.
func SortZeroLast(rows []PersonBalance, limit int) []PersonBalance {
	sorted := make([]PersonBalance, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		return !sorted[i].Balance.IsZero() && sorted[j].Balance.IsZero()
	})
	if limit > 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}
