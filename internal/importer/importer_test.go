package importer

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"guard-analytics/internal/entities"
	apperrors "guard-analytics/pkg/errors"
)

const activityCSV = "\xEF\xBB\xBFService Number,Full Name,Date/Time,Time Accuracy,Location Accuracy,Alert,Post Name\n" +
	"G1,Ali Khan,2024-05-01 08:15:00,On Time,12.5 m,,Gate A\n" +
	"G2,,2024-05-01 09:40,Delayed 10 min,35,Critical: panic,Gate B\n" +
	"\n" +
	",Bob,not a date,Early,n/a,Info,Gate C\n"

func TestDecodeRows_CSV(t *testing.T) {
	rows, err := DecodeRows("activity.csv", []byte(activityCSV))
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "G1", rows[0].Get(ColServiceNumber))
	assert.Equal(t, "Gate B", rows[1].Get(ColPostName))
	assert.Equal(t, "", rows[0].Get("Missing Column"))
}

func TestDecodeRows_MalformedCSV(t *testing.T) {
	_, err := DecodeRows("activity.csv", []byte("a,b\n1,\"x\"y\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrMalformedExport)
}

func TestDecodeRows_EmptyInput(t *testing.T) {
	rows, err := DecodeRows("attendance.csv", nil)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestDecodeRows_XLSXMatchesCSV(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := "Sheet1"
	data := [][]interface{}{
		{"Service Number", "Full Name", "Post Name", "Late Hours", "Duty Hours", "Login Date"},
		{"G1", "Ali Khan", "Gate A", "On-time", "8.5", "2024-05-01 07:58"},
		{"G1", "Ali Khan", "Gate B", "00:15", "4", "2024-05-01 16:02"},
	}
	for i, row := range data {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	xlsxRows, err := DecodeRows("attendance.xlsx", buf.Bytes())
	require.NoError(t, err)

	csvRows, err := DecodeRows("attendance.csv", []byte(
		"Service Number,Full Name,Post Name,Late Hours,Duty Hours,Login Date\n"+
			"G1,Ali Khan,Gate A,On-time,8.5,2024-05-01 07:58\n"+
			"G1,Ali Khan,Gate B,00:15,4,2024-05-01 16:02\n"))
	require.NoError(t, err)

	assert.Equal(t, ParseAttendance(csvRows), ParseAttendance(xlsxRows))
}

func TestDecodeRows_BrokenXLSX(t *testing.T) {
	_, err := DecodeRows("attendance.xlsx", []byte("definitely not a zip"))
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrMalformedExport)
}

func TestParseActivity(t *testing.T) {
	rows, err := DecodeRows("activity.csv", []byte(activityCSV))
	require.NoError(t, err)

	records := ParseActivity(rows)
	require.Len(t, records, 3)

	first := records[0]
	assert.Equal(t, "G1", first.GuardID)
	assert.True(t, first.Timestamp.Valid)
	assert.Equal(t, 8, first.Timestamp.Time.Hour())
	assert.True(t, first.LocationAccuracy.Valid)
	assert.InDelta(t, 12.5, first.LocationAccuracy.Float64, 1e-9)
	assert.Equal(t, entities.TimeAccuracyOnTime, first.TimeAccuracy)
	assert.Equal(t, entities.AlertNone, first.Alert)

	second := records[1]
	assert.Equal(t, "G2", second.GuardID)
	assert.Equal(t, "", second.GuardName)
	assert.Equal(t, 9, second.Timestamp.Time.Hour())
	assert.Equal(t, entities.TimeAccuracyDelayed, second.TimeAccuracy)
	assert.Equal(t, entities.AlertCritical, second.Alert)

	third := records[2]
	assert.Equal(t, "", third.GuardID)
	assert.False(t, third.Timestamp.Valid)
	assert.False(t, third.LocationAccuracy.Valid)
	assert.Equal(t, entities.TimeAccuracyOther, third.TimeAccuracy)
	assert.Equal(t, entities.AlertInformational, third.Alert)
}

func TestParseActivity_UserNameFallback(t *testing.T) {
	records := ParseActivity([]Row{{ColUserName: "guard.one", ColDateTime: "2024-05-01T23:59:00Z"}})
	require.Len(t, records, 1)
	assert.Equal(t, "guard.one", records[0].GuardID)
	assert.Equal(t, "guard.one", records[0].GuardName)
	assert.Equal(t, 23, records[0].Timestamp.Time.Hour())
}

func TestParseAttendance(t *testing.T) {
	records := ParseAttendance([]Row{
		{ColServiceNumber: "G1", ColFullName: "Ali", ColPostName: "Gate A", ColLateHours: "On-time", ColDutyHours: "8.25"},
		{ColServiceNumber: "G1", ColFullName: "Ali", ColPostName: "Gate B", ColLateHours: "On time", ColDutyHours: "eight"},
		{ColPostName: "Gate C"},
	})
	require.Len(t, records, 3)

	assert.Equal(t, entities.LatenessOnTime, records[0].Lateness)
	assert.True(t, records[0].HasDutyHours)
	assert.True(t, decimal.RequireFromString("8.25").Equal(records[0].DutyHours))

	assert.Equal(t, entities.LatenessLate, records[1].Lateness)
	assert.False(t, records[1].HasDutyHours)
	assert.True(t, records[1].DutyHours.IsZero())

	assert.Equal(t, "", records[2].GuardName)
	assert.Equal(t, "Gate C", records[2].PostName)
}
