package dto

type TransactionResponse struct {
	Metadata   string  `json:"meta_data"`
	Bank       string  `json:"bank,omitempty"`
	Type       string  `json:"type"`
	Amount     float64 `json:"amount"`
	CategoryID int     `json:"category_id"`
	Date       string  `json:"date,omitempty"`
	Time       string  `json:"time,omitempty"`
	Memo       string  `json:"memo,omitempty"`
}

type ExtractSlipsResponse struct {
	Count        int                   `json:"count"`
	Transactions []TransactionResponse `json:"transactions"`
}
