package dto

import "github.com/corebank/ledger_engine/internal/core/domain"

// AuditEntryResponse defines the data returned for a mirrored audit record.
// Fields are the flattened strings as they appear in the audit log.
type AuditEntryResponse struct {
	TransactionID     string `json:"transactionID"`
	FromAccountNumber string `json:"fromAccountNumber,omitempty"`
	ToAccountNumber   string `json:"toAccountNumber,omitempty"`
	Amount            string `json:"amount"`
	TransactionType   string `json:"transactionType"`
	Status            string `json:"status"`
	Description       string `json:"description"`
	TransactionDate   string `json:"transactionDate"`
	ReferenceNumber   string `json:"referenceNumber"`
}

// ToAuditEntryResponse converts a domain.AuditEntry to its response DTO.
func ToAuditEntryResponse(entry domain.AuditEntry) AuditEntryResponse {
	return AuditEntryResponse{
		TransactionID:     entry.TransactionID,
		FromAccountNumber: entry.FromAccountNumber,
		ToAccountNumber:   entry.ToAccountNumber,
		Amount:            entry.Amount,
		TransactionType:   entry.TransactionType,
		Status:            entry.Status,
		Description:       entry.Description,
		TransactionDate:   entry.TransactionDate,
		ReferenceNumber:   entry.ReferenceNumber,
	}
}

// ToListAuditEntryResponse converts a slice of audit entries to response DTOs.
func ToListAuditEntryResponse(entries []domain.AuditEntry) []AuditEntryResponse {
	res := make([]AuditEntryResponse, len(entries))
	for i, entry := range entries {
		res[i] = ToAuditEntryResponse(entry)
	}
	return res
}

// ListAuditEntriesResponse wraps the list of audit entries.
type ListAuditEntriesResponse struct {
	Entries []AuditEntryResponse `json:"entries"`
}

// AuditDateRangeParams defines string date bounds in the audit log's own
// timestamp layout.
type AuditDateRangeParams struct {
	From string `form:"from" binding:"required"`
	To   string `form:"to" binding:"required"`
}
