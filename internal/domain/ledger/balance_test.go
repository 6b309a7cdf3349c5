package ledger

import (
	"math/rand"
	"testing"

	"github.com/amirtrade/tradeoffice-bot/internal/domain/persons"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func people(ids ...int64) []persons.Person {
	out := make([]persons.Person, 0, len(ids))
	for _, id := range ids {
		out = append(out, persons.Person{ID: id, Name: "p"})
	}
	return out
}

func TestBalancesPaymentIn(t *testing.T) {
	b := Balances(people(1), []Transaction{
		{Type: TxPaymentIn, EntityID: ptr(int64(1)), Currency: USD, Amount: dec("100")},
	})
	require.Contains(t, b, int64(1))
	assert.True(t, b[1][USD].Equal(dec("100")))
	assert.True(t, b[1][CNY].IsZero())
	assert.True(t, b[1][IRT].IsZero())
}

func TestBalancesPaymentOut(t *testing.T) {
	b := Balances(people(1), []Transaction{
		{Type: TxPaymentIn, EntityID: ptr(int64(1)), Currency: USD, Amount: dec("100")},
		{Type: TxPaymentOut, EntityID: ptr(int64(1)), Currency: USD, Amount: dec("30")},
	})
	assert.True(t, b[1][USD].Equal(dec("70")))
}

func TestBalancesConversion(t *testing.T) {
	b := Balances(people(1), []Transaction{
		{Type: TxConversion, EntityID: ptr(int64(1)), Currency: USD, Amount: dec("10"),
			ToCurrency: ptr(CNY), Rate: ptr(dec("7"))},
	})
	assert.True(t, b[1][USD].Equal(dec("-10")))
	assert.True(t, b[1][CNY].Equal(dec("70")))
	assert.True(t, b[1][IRT].IsZero())
}

func TestBalancesConversionDefaultRate(t *testing.T) {
	// Absent and zero rates both mean 1.
	for _, rate := range []*decimal.Decimal{nil, ptr(decimal.Zero)} {
		b := Balances(people(1), []Transaction{
			{Type: TxConversion, EntityID: ptr(int64(1)), Currency: USD, Amount: dec("10"),
				ToCurrency: ptr(IRT), Rate: rate},
		})
		assert.True(t, b[1][USD].Equal(dec("-10")))
		assert.True(t, b[1][IRT].Equal(dec("10")))
	}
}

func TestBalancesInternalTransferZeroSum(t *testing.T) {
	b := Balances(people(1, 2), []Transaction{
		{Type: TxPaymentIn, EntityID: ptr(int64(1)), Currency: USD, Amount: dec("200")},
		{Type: TxInternalTransfer, FromEntityID: ptr(int64(1)), ToEntityID: ptr(int64(2)),
			Currency: USD, Amount: dec("50")},
	})
	assert.True(t, b[1][USD].Equal(dec("150")))
	assert.True(t, b[2][USD].Equal(dec("50")))

	sum := b[1][USD].Add(b[2][USD])
	assert.True(t, sum.Equal(dec("200")), "transfer must not change the USD total")
}

func TestBalancesEveryPersonPresent(t *testing.T) {
	b := Balances(people(1, 2, 3), nil)
	require.Len(t, b, 3)
	for _, id := range []int64{1, 2, 3} {
		require.Contains(t, b, id)
		for _, c := range AllCurrencies {
			assert.True(t, b[id][c].IsZero())
		}
	}
}

func TestBalancesDanglingRefsSkipped(t *testing.T) {
	b := Balances(people(1), []Transaction{
		{Type: TxPaymentIn, EntityID: ptr(int64(99)), Currency: USD, Amount: dec("100")},
		{Type: TxConversion, EntityID: ptr(int64(99)), Currency: USD, Amount: dec("5"), ToCurrency: ptr(CNY)},
		// One dangling side of a transfer still applies the other side.
		{Type: TxInternalTransfer, FromEntityID: ptr(int64(99)), ToEntityID: ptr(int64(1)),
			Currency: CNY, Amount: dec("40")},
	})
	assert.True(t, b[1][USD].IsZero())
	assert.True(t, b[1][CNY].Equal(dec("40")))
}

func TestBalancesMalformedSkipped(t *testing.T) {
	b := Balances(people(1), []Transaction{
		{Type: TxPaymentIn, Currency: USD, Amount: dec("100")},                          // no entity
		{Type: TxConversion, EntityID: ptr(int64(1)), Currency: USD, Amount: dec("10")}, // no target currency
		{Type: TxInternalTransfer, Currency: USD, Amount: dec("10")},                    // no sides
	})
	for _, c := range AllCurrencies {
		assert.True(t, b[1][c].IsZero())
	}
}

func TestBalancesOrderIndependent(t *testing.T) {
	txs := []Transaction{
		{Type: TxPaymentIn, EntityID: ptr(int64(1)), Currency: USD, Amount: dec("100")},
		{Type: TxPaymentOut, EntityID: ptr(int64(1)), Currency: USD, Amount: dec("30")},
		{Type: TxInternalTransfer, FromEntityID: ptr(int64(1)), ToEntityID: ptr(int64(2)), Currency: USD, Amount: dec("20")},
		{Type: TxConversion, EntityID: ptr(int64(2)), Currency: USD, Amount: dec("10"), ToCurrency: ptr(CNY), Rate: ptr(dec("7.2"))},
		{Type: TxPaymentIn, EntityID: ptr(int64(2)), Currency: IRT, Amount: dec("5000000")},
	}
	want := Balances(people(1, 2), txs)

	rng := rand.New(rand.NewSource(1))
	for range 10 {
		shuffled := make([]Transaction, len(txs))
		copy(shuffled, txs)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

		got := Balances(people(1, 2), shuffled)
		for id, wb := range want {
			for _, c := range AllCurrencies {
				assert.True(t, got[id][c].Equal(wb[c]), "person %d %s", id, c)
			}
		}
	}
}

func TestBalancesIdempotent(t *testing.T) {
	ps := people(1, 2)
	txs := []Transaction{
		{Type: TxPaymentIn, EntityID: ptr(int64(1)), Currency: CNY, Amount: dec("33.33")},
	}
	a := Balances(ps, txs)
	b := Balances(ps, txs)
	for id := range a {
		for _, c := range AllCurrencies {
			assert.True(t, a[id][c].Equal(b[id][c]))
		}
	}
}

func TestTotals(t *testing.T) {
	got := Totals([]Transaction{
		{Type: TxPaymentIn, EntityID: ptr(int64(1)), Currency: USD, Amount: dec("100")},
		{Type: TxPaymentOut, EntityID: ptr(int64(2)), Currency: USD, Amount: dec("40")},
		{Type: TxPaymentIn, EntityID: ptr(int64(1)), Currency: CNY, Amount: dec("7")},
		// Conversions and transfers do not move the totals.
		{Type: TxConversion, EntityID: ptr(int64(1)), Currency: USD, Amount: dec("10"), ToCurrency: ptr(CNY)},
		{Type: TxInternalTransfer, FromEntityID: ptr(int64(1)), ToEntityID: ptr(int64(2)), Currency: USD, Amount: dec("5")},
	})
	assert.True(t, got[USD].Equal(dec("60")))
	assert.True(t, got[CNY].Equal(dec("7")))
	assert.True(t, got[IRT].IsZero())
}

func TestSortZeroLast(t *testing.T) {
	ps := []persons.Person{{ID: 1, Name: "zero"}, {ID: 2, Name: "rich"}, {ID: 3, Name: "also zero"}}
	balances := Balances(ps, []Transaction{
		{Type: TxPaymentIn, EntityID: ptr(int64(2)), Currency: USD, Amount: dec("1")},
	})
	rows := SortZeroLast(BalanceRows(ps, balances), 0)
	require.Len(t, rows, 3)
	assert.Equal(t, "rich", rows[0].PersonName)
	assert.Equal(t, "zero", rows[1].PersonName)
	assert.Equal(t, "also zero", rows[2].PersonName)

	limited := SortZeroLast(BalanceRows(ps, balances), 2)
	require.Len(t, limited, 2)
	assert.Equal(t, "rich", limited[0].PersonName)
}
