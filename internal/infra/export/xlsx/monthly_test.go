package xlsx

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"courtly/internal/app/dto"
)

func TestMonthlyReportWritesRowsAndTotal(t *testing.T) {
	data, err := MonthlyReport(dto.MonthlyReport{
		Collection: "bookings",
		Months: []dto.MonthlyCount{
			{Year: 2024, Month: 1, Count: 3},
			{Year: 2024, Month: 2, Count: 4},
		},
	})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(monthlySheet)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"Year", "Month", "Name", "Count"}, rows[0])
	assert.Equal(t, []string{"2024", "1", "January", "3"}, rows[1])
	assert.Equal(t, []string{"", "", "Total", "7"}, rows[3])
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "monthly-users.xlsx", Filename("users"))
}
