package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// Currency is the closed set of currencies the ledger operates in.
type Currency string

const (
	USD Currency = "USD"
	CNY Currency = "CNY"
	IRT Currency = "IRT"
)

// AllCurrencies in display order.
var AllCurrencies = []Currency{USD, CNY, IRT}

func (c Currency) Valid() bool {
	return c == USD || c == CNY || c == IRT
}

type TxType string

const (
	TxPaymentIn        TxType = "PaymentIn"
	TxPaymentOut       TxType = "PaymentOut"
	TxConversion       TxType = "Conversion"
	TxInternalTransfer TxType = "InternalTransfer"
)

// Transaction is a single ledger fact. Which of the optional ids are set
// depends on the type:
//
//	PaymentIn/PaymentOut: EntityID
//	InternalTransfer:     FromEntityID, ToEntityID
//	Conversion:           EntityID, ToCurrency (Rate defaults to 1)
//
// Ids are not constrained to existing persons; a transaction whose reference
// dangles simply contributes nothing to the balances.
type Transaction struct {
	ID           string
	Date         time.Time
	Type         TxType
	Amount       decimal.Decimal
	Currency     Currency
	Description  string
	EntityID     *int64
	FromEntityID *int64
	ToEntityID   *int64
	Rate         *decimal.Decimal
	ToCurrency   *Currency
	CategoryID   *string
	CreatedAt    time.Time
}

// ExpenseCategory groups partner expense transactions via the category_id
// column on transactions. Renaming touches only this row.
type ExpenseCategory struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// CategorySummary is an expense category with its cumulative spend.
type CategorySummary struct {
	Category   ExpenseCategory
	TotalSpent decimal.Decimal
	Expenses   int64
}
