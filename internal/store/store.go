// Package store is the persistence collaborator: it round-trips transaction
// groups and account types through sqlite and serves transaction lookups for
// funding resolution.
package store

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/botica-dev/botica/internal/id"
	"github.com/botica-dev/botica/internal/model"
)

// Store wraps the database handle.
type Store struct {
	db  *gorm.DB
	log *zap.Logger
}

// transactionRecord is the persisted shape of a TransactionGroup. FundingPath
// is derived on read and deliberately not stored.
type transactionRecord struct {
	ID                   string `gorm:"primaryKey"`
	Reference            string `gorm:"index"`
	Description          string
	TransactionDate      time.Time
	OrganizationID       string   `gorm:"index"`
	Status               string   `gorm:"index;not null"`
	LinkedTransactionIDs []string `gorm:"serializer:json"`
	SourceTransactionID  string
	FundingType          string
	Entries              []entryRecord `gorm:"foreignKey:TransactionID;constraint:OnDelete:CASCADE"`
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

func (transactionRecord) TableName() string { return "transactions" }

// entryRecord is one persisted entry row. Amounts are stored as strings to
// avoid float conversion in sqlite.
type entryRecord struct {
	ID                  uint   `gorm:"primaryKey"`
	TransactionID       string `gorm:"index;not null"`
	Sequence            int    `gorm:"not null"`
	AccountID           string `gorm:"not null"`
	Debit               string `gorm:"type:varchar(32);not null"`
	Credit              string `gorm:"type:varchar(32);not null"`
	Description         string
	SourceTransactionID string
}

func (entryRecord) TableName() string { return "transaction_entries" }

// accountTypeRecord is one persisted account type definition.
type accountTypeRecord struct {
	Code           string `gorm:"primaryKey"`
	OrganizationID string `gorm:"primaryKey"`
	Name           string
	Label          string
	NormalBalance  string
	CodePrefix     string
	IsSystem       bool
	IsActive       bool
	SortOrder      int
}

func (accountTypeRecord) TableName() string { return "account_types" }

// Open opens (or creates) the sqlite database at path and migrates the schema.
// A nil logger disables logging.
func Open(path string, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening database %s: %w", path, err)
	}
	if err := db.AutoMigrate(&transactionRecord{}, &entryRecord{}, &accountTypeRecord{}); err != nil {
		return nil, fmt.Errorf("migrating schema: %w", err)
	}
	return &Store{db: db, log: log}, nil
}

// SaveTransaction upserts a transaction group and replaces its entries.
func (s *Store) SaveTransaction(group *model.TransactionGroup) error {
	rec := toRecord(group)
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("transaction_id = ?", group.ID).Delete(&entryRecord{}).Error; err != nil {
			return fmt.Errorf("clearing entries for %s: %w", group.ID, err)
		}
		if err := tx.Save(&rec).Error; err != nil {
			return fmt.Errorf("saving transaction %s: %w", group.ID, err)
		}
		return nil
	})
}

// GetTransaction fetches a transaction group by id. A missing id is a valid
// outcome and returns (nil, nil), which funding resolution relies on.
func (s *Store) GetTransaction(txnID string) (*model.TransactionGroup, error) {
	var rec transactionRecord
	err := s.db.Preload("Entries", func(db *gorm.DB) *gorm.DB {
		return db.Order("sequence ASC")
	}).First(&rec, "id = ?", txnID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetching transaction %s: %w", txnID, err)
	}
	return fromRecord(rec)
}

// GetByReference fetches a transaction group by its human-readable reference.
// Returns (nil, nil) when no transaction carries the reference.
func (s *Store) GetByReference(ref string) (*model.TransactionGroup, error) {
	var rec transactionRecord
	err := s.db.Preload("Entries", func(db *gorm.DB) *gorm.DB {
		return db.Order("sequence ASC")
	}).First(&rec, "reference = ?", ref).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetching transaction by reference %s: %w", ref, err)
	}
	return fromRecord(rec)
}

// ListByStatus returns all transactions in the given state, newest first.
func (s *Store) ListByStatus(status model.Status) ([]model.TransactionGroup, error) {
	var recs []transactionRecord
	err := s.db.Preload("Entries", func(db *gorm.DB) *gorm.DB {
		return db.Order("sequence ASC")
	}).Where("status = ?", string(status)).Order("transaction_date DESC").Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("listing %s transactions: %w", status, err)
	}

	groups := make([]model.TransactionGroup, 0, len(recs))
	for _, rec := range recs {
		g, err := fromRecord(rec)
		if err != nil {
			return nil, err
		}
		groups = append(groups, *g)
	}
	return groups, nil
}

// NextReferenceSeq returns the next free reference sequence for a month.
func (s *Store) NextReferenceSeq(year, month int) (int, error) {
	prefix := fmt.Sprintf("TXN-%04d-%02d-", year, month)
	var refs []string
	if err := s.db.Model(&transactionRecord{}).
		Where("reference LIKE ?", prefix+"%").
		Pluck("reference", &refs).Error; err != nil {
		return 0, fmt.Errorf("scanning references: %w", err)
	}

	maxSeq := 0
	for _, ref := range refs {
		_, _, seq, err := id.ParseReference(ref)
		if err != nil {
			continue
		}
		if seq > maxSeq {
			maxSeq = seq
		}
	}
	return maxSeq + 1, nil
}

// SeedSystemTypes inserts the system account types if absent. Idempotent.
func (s *Store) SeedSystemTypes(types []model.AccountType) error {
	for _, t := range types {
		rec := accountTypeRecord{
			Code:           t.Code,
			OrganizationID: t.OrganizationID,
			Name:           t.Name,
			Label:          t.Label,
			NormalBalance:  string(t.NormalBalance),
			CodePrefix:     t.CodePrefix,
			IsSystem:       t.IsSystem,
			IsActive:       t.IsActive,
			SortOrder:      t.SortOrder,
		}
		err := s.db.Where(accountTypeRecord{Code: t.Code, OrganizationID: t.OrganizationID}).
			FirstOrCreate(&rec).Error
		if err != nil {
			return fmt.Errorf("seeding account type %s: %w", t.Code, err)
		}
	}
	return nil
}

// AccountTypes returns all persisted account types in sort order.
func (s *Store) AccountTypes() ([]model.AccountType, error) {
	var recs []accountTypeRecord
	if err := s.db.Order("sort_order ASC, code ASC").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("listing account types: %w", err)
	}
	types := make([]model.AccountType, 0, len(recs))
	for _, rec := range recs {
		types = append(types, model.AccountType{
			Code:           rec.Code,
			Name:           rec.Name,
			Label:          rec.Label,
			NormalBalance:  model.NormalBalance(rec.NormalBalance),
			CodePrefix:     rec.CodePrefix,
			IsSystem:       rec.IsSystem,
			IsActive:       rec.IsActive,
			SortOrder:      rec.SortOrder,
			OrganizationID: rec.OrganizationID,
		})
	}
	return types, nil
}

func toRecord(group *model.TransactionGroup) transactionRecord {
	rec := transactionRecord{
		ID:                   group.ID,
		Reference:            group.Reference,
		Description:          group.Description,
		TransactionDate:      group.TransactionDate,
		OrganizationID:       group.OrganizationID,
		Status:               string(group.Status),
		LinkedTransactionIDs: group.LinkedTransactionIDs,
		SourceTransactionID:  group.SourceTransactionID,
		FundingType:          string(group.FundingType),
		CreatedAt:            group.CreatedAt,
		UpdatedAt:            group.UpdatedAt,
	}
	for _, e := range group.Entries {
		rec.Entries = append(rec.Entries, entryRecord{
			TransactionID:       group.ID,
			Sequence:            e.Sequence,
			AccountID:           e.AccountID,
			Debit:               e.Debit.String(),
			Credit:              e.Credit.String(),
			Description:         e.Description,
			SourceTransactionID: e.SourceTransactionID,
		})
	}
	return rec
}

func fromRecord(rec transactionRecord) (*model.TransactionGroup, error) {
	group := &model.TransactionGroup{
		ID:                   rec.ID,
		Reference:            rec.Reference,
		Description:          rec.Description,
		TransactionDate:      rec.TransactionDate,
		OrganizationID:       rec.OrganizationID,
		Status:               model.Status(rec.Status),
		LinkedTransactionIDs: rec.LinkedTransactionIDs,
		SourceTransactionID:  rec.SourceTransactionID,
		FundingType:          model.FundingType(rec.FundingType),
		CreatedAt:            rec.CreatedAt,
		UpdatedAt:            rec.UpdatedAt,
	}
	for _, e := range rec.Entries {
		debit, err := decimal.NewFromString(e.Debit)
		if err != nil {
			return nil, fmt.Errorf("transaction %s entry %d: parsing debit %q: %w", rec.ID, e.Sequence, e.Debit, err)
		}
		credit, err := decimal.NewFromString(e.Credit)
		if err != nil {
			return nil, fmt.Errorf("transaction %s entry %d: parsing credit %q: %w", rec.ID, e.Sequence, e.Credit, err)
		}
		group.Entries = append(group.Entries, model.Entry{
			Sequence:            e.Sequence,
			AccountID:           e.AccountID,
			Debit:               debit,
			Credit:              credit,
			Description:         e.Description,
			SourceTransactionID: e.SourceTransactionID,
		})
	}
	return group, nil
}
