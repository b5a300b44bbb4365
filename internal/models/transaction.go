package models

// TransactionType is fixed for slip uploads: every recognized slip records
// money leaving the account.
type TransactionType string

const TransactionTypeExpense TransactionType = "expense"

// SlipFields holds the values parsed out of one slip's OCR text. Amount and
// Fee default to 0 when absent or unreadable; the string fields are empty
// when the text carries no valid value.
type SlipFields struct {
	Bank   string
	Amount float64
	Fee    float64
	Date   string // ISO date, e.g. 2024-03-04
	Time   string // ISO time with microseconds, e.g. 18:23:00.000000
	Memo   string
}

// Transaction is the assembled output record for one surviving slip image.
// Amount folds the transfer fee into the total spend. CategoryID is -1 when
// no category was assigned.
type Transaction struct {
	Metadata   string          `json:"meta_data"`
	Bank       string          `json:"bank,omitempty"`
	Type       TransactionType `json:"type"`
	Amount     float64         `json:"amount"`
	CategoryID int             `json:"category_id"`
	Date       string          `json:"date,omitempty"`
	Time       string          `json:"time,omitempty"`
	Memo       string          `json:"memo,omitempty"`
}
