package loader

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/aclindsa/ofxgo"
	"github.com/fincast/fincast/internal/common"
	"github.com/fincast/fincast/internal/model"
)

var (
	severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	tagFixRegex   = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// preprocessOFX fixes common formatting issues in OFX files before
// handing them to ofxgo: leading blank lines, mixed-case SEVERITY
// values, and SGML tags missing their closing bracket.
func preprocessOFX(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)
	content = tagFixRegex.ReplaceAllString(content, "$1>")
	return content
}

// parseOFX reads an OFX/QFX statement and converts every bank and
// credit-card transaction. The statement's sign convention matches
// ours: debits are negative.
func parseOFX(ctx context.Context, r io.Reader) ([]model.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading OFX file: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(preprocessOFX(string(content))))
	if err != nil {
		return nil, fmt.Errorf("parsing OFX file: %w", err)
	}

	var txns []model.Transaction

	for _, msg := range resp.Bank {
		stmt, ok := msg.(*ofxgo.StatementResponse)
		if !ok || stmt.BankTranList == nil {
			continue
		}
		for _, ofxTx := range stmt.BankTranList.Transactions {
			txns = append(txns, convertOFXTransaction(ofxTx))
		}
	}

	for _, msg := range resp.CreditCard {
		stmt, ok := msg.(*ofxgo.CCStatementResponse)
		if !ok || stmt.BankTranList == nil {
			continue
		}
		for _, ofxTx := range stmt.BankTranList.Transactions {
			txns = append(txns, convertOFXTransaction(ofxTx))
		}
	}

	common.LogInfo("parsed OFX statement", common.Fields{"transactions": len(txns)})

	return txns, nil
}

func convertOFXTransaction(ofxTx ofxgo.Transaction) model.Transaction {
	amount, _ := ofxTx.TrnAmt.Float64()

	txn := model.Transaction{
		Date:        model.Day(ofxTx.DtPosted.Time),
		Description: extractOFXDescription(ofxTx),
		Category:    categoryFromTrnType(fmt.Sprintf("%v", ofxTx.TrnType), amount),
		Amount:      amount,
	}
	txn.ID = txn.GenerateID()

	return txn
}

// categoryFromTrnType maps an OFX transaction type to a category label;
// statements carry no categories of their own.
func categoryFromTrnType(trnType string, amount float64) string {
	switch trnType {
	case "INT", "DIV":
		return "Interest"
	case "FEE", "SRVCHG":
		return "Bank Fees"
	case "ATM", "CASH":
		return "Cash & ATM"
	case "CHECK":
		return "Checks"
	case "XFER":
		return "Transfers"
	}
	if amount >= 0 {
		return "Income"
	}
	return "Uncategorized"
}

// extractOFXDescription picks the cleanest available description:
// payee name, then NAME, then MEMO when NAME is generic.
func extractOFXDescription(tx ofxgo.Transaction) string {
	if tx.Payee != nil && tx.Payee.Name != "" {
		return string(tx.Payee.Name)
	}

	name := strings.TrimSpace(string(tx.Name))
	if tx.Memo != "" && isGenericDescription(name) {
		name = strings.TrimSpace(string(tx.Memo))
	}

	return name
}

func isGenericDescription(name string) bool {
	switch strings.ToUpper(name) {
	case "DEBIT", "CREDIT", "PURCHASE", "PAYMENT", "POS TRANSACTION", "CARD PURCHASE":
		return true
	}
	return false
}
