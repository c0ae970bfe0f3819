package invoicescope

import (
	"database/sql"
	"database/sql/driver"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/ever-co/invoicing/internal/domain/invoice"
	"github.com/ever-co/invoicing/tests/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type row struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey"`
	FromUserID *uuid.UUID `gorm:"type:uuid"`
	Status     string
}

func (row) TableName() string {
	return "invoices"
}

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	m := testutil.NewMockDB(t)
	return m.DB, m.Mock, m.SqlDB
}

func emptyRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "from_user_id", "status"})
}

func TestApply(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name  string
		scope invoice.Scope
		query string
		args  []driver.Value
	}{
		{
			name:  "unrestricted adds nothing",
			scope: invoice.Scope{Unrestricted: true},
			query: `SELECT \* FROM "invoices"$`,
		},
		{
			name:  "empty scope matches nothing",
			scope: invoice.Scope{},
			query: `SELECT \* FROM "invoices" WHERE 1 = 0$`,
		},
		{
			name:  "own invoices only",
			scope: invoice.Scope{FromUserIDs: []uuid.UUID{userID}},
			query: `SELECT \* FROM "invoices" WHERE from_user_id IN \(\$1\)$`,
			args:  []driver.Value{userID.String()},
		},
		{
			name:  "organization authored only uses IS NULL",
			scope: invoice.Scope{IncludeOrganizationAuthored: true},
			query: `SELECT \* FROM "invoices" WHERE from_user_id IS NULL$`,
		},
		{
			name:  "own and organization authored",
			scope: invoice.Scope{FromUserIDs: []uuid.UUID{userID}, IncludeOrganizationAuthored: true},
			query: `SELECT \* FROM "invoices" WHERE \(from_user_id IN \(\$1\) OR from_user_id IS NULL\)$`,
			args:  []driver.Value{userID.String()},
		},
		{
			name:  "status restriction comes first",
			scope: invoice.Scope{FromUserIDs: []uuid.UUID{userID}, Statuses: invoice.EditableStatuses()},
			query: `SELECT \* FROM "invoices" WHERE status IN \(\$1,\$2\) AND from_user_id IN \(\$3\)$`,
			args:  []driver.Value{"DRAFT", "SENT", userID.String()},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, mockDB := setupMockDB(t)
			defer mockDB.Close()

			exp := mock.ExpectQuery(tt.query)
			if len(tt.args) > 0 {
				exp = exp.WithArgs(tt.args...)
			}
			exp.WillReturnRows(emptyRows())

			var rows []row
			require.NoError(t, db.Scopes(Scope(tt.scope)).Find(&rows).Error)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
