package timesheet

import (
	"fmt"
	"io"
	"strings"
	"time"

	apierrors "payrollcli/internal/errors"
	"payrollcli/pkg/contracts/domain"
)

const (
	payPeriodSeparator = " To "
	payPeriodLayout    = "1/2/2006"
)

// ExtractPayPeriod reads the pay period from an export. The input is read with
// no preamble skipped so the first line is the header; the period is the cell
// at column 1 of the first data row, formatted "MM/DD/YYYY To MM/DD/YYYY".
//
// Ordering and same-year checks are left to the caller.
func ExtractPayPeriod(r io.Reader) (domain.PayPeriod, error) {
	t, err := ReadTable(r, 0)
	if err != nil {
		return domain.PayPeriod{}, err
	}

	if len(t.Rows) == 0 || len(t.Columns) < 2 {
		return domain.PayPeriod{}, apierrors.NewParseError(apierrors.KindPayPeriod,
			"pay period cell not found", nil)
	}

	row := t.Rows[0]
	cell := row.Cells[1]
	if !cell.Valid {
		return domain.PayPeriod{}, payPeriodError(row.Line, "pay period cell is empty", nil)
	}

	startText, endText, ok := strings.Cut(cell.Text, payPeriodSeparator)
	if !ok {
		return domain.PayPeriod{}, payPeriodError(row.Line,
			fmt.Sprintf("pay period %q has no %q separator", cell.Text, strings.TrimSpace(payPeriodSeparator)), nil)
	}

	start, err := time.Parse(payPeriodLayout, strings.TrimSpace(startText))
	if err != nil {
		return domain.PayPeriod{}, payPeriodError(row.Line,
			fmt.Sprintf("invalid pay period start %q", startText), err)
	}
	end, err := time.Parse(payPeriodLayout, strings.TrimSpace(endText))
	if err != nil {
		return domain.PayPeriod{}, payPeriodError(row.Line,
			fmt.Sprintf("invalid pay period end %q", endText), err)
	}

	return domain.PayPeriod{Start: start, End: end}, nil
}

func payPeriodError(line int, message string, cause error) error {
	return apierrors.NewParseError(apierrors.KindPayPeriod, message, cause).WithLine(line)
}
