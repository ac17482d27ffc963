package loader

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fincast/fincast/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleOFX = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20240315120000[0:GMT]
<LANGUAGE>ENG
</SONRS>
</SIGNONMSGSRSV1>
<BANKMSGSRSV1>
<STMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<STMTRS>
<CURDEF>USD
<BANKACCTFROM>
<BANKID>123456789
<ACCTID>1234567890
<ACCTTYPE>CHECKING
</BANKACCTFROM>
<BANKTRANLIST>
<DTSTART>20240101120000[0:GMT]
<DTEND>20240131120000[0:GMT]
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240115120000[0:GMT]
<TRNAMT>-25.50
<FITID>2024011501
<NAME>STARBUCKS STORE #1234
</STMTTRN>
<STMTTRN>
<TRNTYPE>INT
<DTPOSTED>20240120120000[0:GMT]
<TRNAMT>1.25
<FITID>2024012001
<NAME>INTEREST PAYMENT
</STMTTRN>
<STMTTRN>
<TRNTYPE>ATM
<DTPOSTED>20240125120000[0:GMT]
<TRNAMT>-60.00
<FITID>2024012501
<NAME>ATM WITHDRAWAL
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>1000.00
<DTASOF>20240131120000[0:GMT]
</LEDGERBAL>
</STMTRS>
</STMTTRNRS>
</BANKMSGSRSV1>
</OFX>`

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestParseOFX(t *testing.T) {
	txns, err := parseOFX(context.Background(), strings.NewReader(sampleOFX))
	require.NoError(t, err)
	require.Len(t, txns, 3)

	assert.Equal(t, -25.50, txns[0].Amount)
	assert.Equal(t, "STARBUCKS STORE #1234", txns[0].Description)
	assert.Equal(t, "Uncategorized", txns[0].Category)

	// Transaction type hints map to category labels.
	assert.Equal(t, "Interest", txns[1].Category)
	assert.Equal(t, 1.25, txns[1].Amount)
	assert.Equal(t, "Cash & ATM", txns[2].Category)

	for _, txn := range txns {
		assert.NotEmpty(t, txn.ID)
		assert.Equal(t, 0, txn.Date.Hour(), "dates must be normalized to midnight")
	}
}

func TestLoad(t *testing.T) {
	csvContent := `date,Category,Transaction Amount,Description
2024-01-15,Salary,2500.00,Paycheck
2024-01-16,Groceries,-84.27,Weekly shop
`

	t.Run("loads a CSV file with a report", func(t *testing.T) {
		path := writeTempFile(t, "data.csv", csvContent)

		txns, reports, err := Load(context.Background(), []string{path})
		require.NoError(t, err)
		require.Len(t, txns, 2)
		require.Len(t, reports, 1)
		assert.Equal(t, 2, reports[0].Parsed)
		assert.Empty(t, reports[0].Skipped)
	})

	t.Run("dedupes identical transactions across files", func(t *testing.T) {
		first := writeTempFile(t, "jan.csv", csvContent)
		second := writeTempFile(t, "jan-copy.csv", csvContent)

		txns, reports, err := Load(context.Background(), []string{first, second})
		require.NoError(t, err)
		assert.Len(t, txns, 2)
		require.Len(t, reports, 2)
		assert.Equal(t, 2, reports[1].Parsed)
	})

	t.Run("mixes CSV and OFX input", func(t *testing.T) {
		csvPath := writeTempFile(t, "data.csv", csvContent)
		ofxPath := writeTempFile(t, "statement.ofx", sampleOFX)

		txns, _, err := Load(context.Background(), []string{csvPath, ofxPath})
		require.NoError(t, err)
		assert.Len(t, txns, 5)
	})

	t.Run("unsupported extension is an error", func(t *testing.T) {
		path := writeTempFile(t, "data.xlsx", "nope")

		_, _, err := Load(context.Background(), []string{path})
		assert.ErrorIs(t, err, common.ErrUnsupportedFile)
	})

	t.Run("no files is an error", func(t *testing.T) {
		_, _, err := Load(context.Background(), nil)
		assert.ErrorIs(t, err, common.ErrNoTransactions)
	})

	t.Run("missing file is an error", func(t *testing.T) {
		_, _, err := Load(context.Background(), []string{"/nonexistent/data.csv"})
		assert.Error(t, err)
	})

	t.Run("canceled context stops the load", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		path := writeTempFile(t, "data.csv", csvContent)
		_, _, err := Load(ctx, []string{path})
		assert.ErrorIs(t, err, context.Canceled)
	})
}
