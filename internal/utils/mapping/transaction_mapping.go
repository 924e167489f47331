package mapping

import (
	"database/sql"

	"github.com/corebank/ledger_engine/internal/core/domain"
	"github.com/corebank/ledger_engine/internal/models"
)

// ToModelTransaction converts a domain transaction to its database representation.
func ToModelTransaction(txn domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID:         txn.TransactionID,
		FromAccountNumber:     nullStringPtr(txn.FromAccountNumber),
		ToAccountNumber:       nullStringPtr(txn.ToAccountNumber),
		ExternalAccountNumber: nullStringPtr(txn.ExternalAccountNumber),
		Amount:                txn.Amount,
		TransactionType:       string(txn.TransactionType),
		Status:                string(txn.Status),
		Description:           txn.Description,
		TransactionDate:       txn.TransactionDate,
		ReferenceNumber:       txn.ReferenceNumber,
		Remarks:               nullString(txn.Remarks),
	}
}

// ToDomainTransaction converts a database transaction row to its domain representation.
func ToDomainTransaction(model models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionID:         model.TransactionID,
		FromAccountNumber:     ptrFromNullString(model.FromAccountNumber),
		ToAccountNumber:       ptrFromNullString(model.ToAccountNumber),
		ExternalAccountNumber: ptrFromNullString(model.ExternalAccountNumber),
		Amount:                model.Amount,
		TransactionType:       domain.TransactionType(model.TransactionType),
		Status:                domain.TransactionStatus(model.Status),
		Description:           model.Description,
		TransactionDate:       model.TransactionDate,
		ReferenceNumber:       model.ReferenceNumber,
		Remarks:               model.Remarks.String,
	}
}

func nullStringPtr(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func ptrFromNullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
