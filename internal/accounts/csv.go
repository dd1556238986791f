package accounts

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/botica-dev/botica/internal/model"
)

const (
	numFields = 7
	colID     = 0
	colCode   = 1
	colName   = 2
	colType   = 3
	colNormal = 4
	colActive = 5
	colOrgID  = 6
)

// ReadAccounts reads chart-of-accounts.csv.
func ReadAccounts(r io.Reader) ([]model.AccountOption, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading accounts CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	var accounts []model.AccountOption
	for i, rec := range records[1:] {
		acct, err := UnmarshalAccount(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		accounts = append(accounts, acct)
	}
	return accounts, nil
}

// WriteAccounts writes chart-of-accounts.csv.
func WriteAccounts(w io.Writer, accounts []model.AccountOption) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"account_id", "code", "name", "account_type", "normal_balance", "active", "organization_id"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, acct := range accounts {
		if err := cw.Write(MarshalAccount(acct)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// MarshalAccount converts an AccountOption to a CSV row.
func MarshalAccount(acct model.AccountOption) []string {
	row := make([]string, numFields)
	row[colID] = acct.ID
	row[colCode] = acct.Code
	row[colName] = acct.Name
	row[colType] = acct.AccountType
	row[colNormal] = string(acct.NormalBalance)
	row[colActive] = strconv.FormatBool(acct.IsActive)
	row[colOrgID] = acct.OrganizationID
	return row
}

// UnmarshalAccount converts a CSV row to an AccountOption.
func UnmarshalAccount(record []string) (model.AccountOption, error) {
	if len(record) != numFields {
		return model.AccountOption{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	active, err := strconv.ParseBool(record[colActive])
	if err != nil {
		return model.AccountOption{}, fmt.Errorf("parsing active flag %q: %w", record[colActive], err)
	}

	switch nb := model.NormalBalance(record[colNormal]); nb {
	case model.NormalDebit, model.NormalCredit:
	default:
		return model.AccountOption{}, fmt.Errorf("unknown normal balance %q", record[colNormal])
	}

	return model.AccountOption{
		ID:             record[colID],
		Code:           record[colCode],
		Name:           record[colName],
		AccountType:    record[colType],
		NormalBalance:  model.NormalBalance(record[colNormal]),
		IsActive:       active,
		OrganizationID: record[colOrgID],
	}, nil
}
