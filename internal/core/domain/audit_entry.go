package domain

// AuditTimeLayout is the fixed-width, zero-padded timestamp format used in the
// audit mirror. Lexicographic comparison of two formatted values matches their
// chronological order, which the date-range queries rely on.
const AuditTimeLayout = "2006-01-02T15:04:05"

// AuditEntry is the flattened, string-oriented projection of a committed
// transaction held in the audit mirror. It is owned entirely by the mirror and
// never read back by the transfer engine.
type AuditEntry struct {
	TransactionID     string `xml:"transactionId" json:"transactionID"`
	FromAccountNumber string `xml:"fromAccountNumber,omitempty" json:"fromAccountNumber,omitempty"`
	ToAccountNumber   string `xml:"toAccountNumber,omitempty" json:"toAccountNumber,omitempty"`
	Amount            string `xml:"amount" json:"amount"`
	TransactionType   string `xml:"transactionType" json:"transactionType"`
	Status            string `xml:"status" json:"status"`
	Description       string `xml:"description" json:"description"`
	TransactionDate   string `xml:"transactionDate" json:"transactionDate"` // AuditTimeLayout
	ReferenceNumber   string `xml:"referenceNumber,omitempty" json:"referenceNumber,omitempty"`
}

// Touches reports whether the entry involves the given account number on
// either side.
func (e AuditEntry) Touches(accountNumber string) bool {
	return e.FromAccountNumber == accountNumber || e.ToAccountNumber == accountNumber
}
