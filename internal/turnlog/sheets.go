package turnlog

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"google.golang.org/api/sheets/v4"

	"github.com/crtlab/crt-chat/backend/internal/model/turn"
)

// sheetsLog appends rows to a Google Sheets worksheet, the store the study
// exports transcripts from. values.Append with INSERT_ROWS never overwrites
// existing rows, so concurrent appends are safe.
type sheetsLog struct {
	svc        *sheets.Service
	sheetID    string
	sheetRange string
}

// Append implements Log. The position is the spreadsheet row number when the
// API reports it.
func (l *sheetsLog) Append(ctx context.Context, rec turn.Record) (int64, error) {
	cols := rec.Columns()
	cells := make([]interface{}, len(cols))
	for i, c := range cols {
		cells[i] = c
	}

	body := &sheets.ValueRange{Values: [][]interface{}{cells}}
	call := func() (*sheets.AppendValuesResponse, error) {
		return l.svc.Spreadsheets.Values.
			Append(l.sheetID, l.sheetRange, body).
			ValueInputOption("RAW").
			InsertDataOption("INSERT_ROWS").
			Context(ctx).
			Do()
	}

	resp, err := call()
	if err != nil && ctx.Err() == nil {
		// One immediate retry; the Sheets API drops connections routinely.
		resp, err = call()
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}

	if resp.Updates != nil {
		return rowFromRange(resp.Updates.UpdatedRange), nil
	}
	return 0, nil
}

// Close implements Log.
func (l *sheetsLog) Close() error {
	return nil
}

// rowFromRange extracts the starting row number from an A1-style range like
// "conversations!A42:J42". Returns 0 when the range is not parseable.
func rowFromRange(a1 string) int64 {
	if i := strings.IndexByte(a1, '!'); i >= 0 {
		a1 = a1[i+1:]
	}
	if i := strings.IndexByte(a1, ':'); i >= 0 {
		a1 = a1[:i]
	}
	digits := strings.TrimLeftFunc(a1, func(r rune) bool {
		return r < '0' || r > '9'
	})
	row, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0
	}
	return row
}
