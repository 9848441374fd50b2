package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pmrs/internal/calendar"
	"pmrs/internal/domain/patient"
)

func validCreateCommand() *patient.CreatePatientCommand {
	return &patient.CreatePatientCommand{
		FirstName:  "Maria",
		MiddleName: "Clara",
		LastName:   "Santos",
		BirthYear:  1990,
		BirthMonth: 6,
		BirthDay:   15,
		Gender:     patient.GenderFemale,
		Contact:    "0917-555-0101",
		Address:    "123 Mabini St",
		Diagnosis:  "Hypertension",
		Notes:      "Follow up in 2 weeks",
	}
}

func TestCreatePatient(t *testing.T) {
	svc, _ := newTestPatientService()
	caller := testCaller()

	p, err := svc.CreatePatient(context.Background(), validCreateCommand(), caller, "127.0.0.1")
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "Maria", p.FirstName)
	assert.Equal(t, "1990-06-15", p.BirthDateString())
	assert.Equal(t, caller.UserID, p.CreatedBy)
}

func TestCreatePatient_TrimsWhitespace(t *testing.T) {
	svc, _ := newTestPatientService()
	cmd := validCreateCommand()
	cmd.FirstName = "  Maria "
	cmd.LastName = " Santos  "

	p, err := svc.CreatePatient(context.Background(), cmd, testCaller(), "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, "Maria", p.FirstName)
	assert.Equal(t, "Santos", p.LastName)
}

func TestCreatePatient_MissingRequiredFields(t *testing.T) {
	svc, _ := newTestPatientService()
	cmd := validCreateCommand()
	cmd.FirstName = "  "
	cmd.LastName = ""
	cmd.Gender = "banana"

	_, err := svc.CreatePatient(context.Background(), cmd, testCaller(), "127.0.0.1")
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Len(t, vErr.Fields, 3)
}

func TestCreatePatient_InvalidBirthMonth(t *testing.T) {
	svc, _ := newTestPatientService()
	cmd := validCreateCommand()
	cmd.BirthMonth = 13

	_, err := svc.CreatePatient(context.Background(), cmd, testCaller(), "127.0.0.1")
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Fields[0], calendar.ErrInvalidMonth.Error())
}

func TestCreatePatient_DayOutOfMonthBounds(t *testing.T) {
	svc, _ := newTestPatientService()

	// February 29th of a non-leap year must be rejected.
	cmd := validCreateCommand()
	cmd.BirthYear, cmd.BirthMonth, cmd.BirthDay = 2023, 2, 29
	_, err := svc.CreatePatient(context.Background(), cmd, testCaller(), "127.0.0.1")
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)

	// The same day in a leap year is accepted.
	cmd = validCreateCommand()
	cmd.BirthYear, cmd.BirthMonth, cmd.BirthDay = 2020, 2, 29
	_, err = svc.CreatePatient(context.Background(), cmd, testCaller(), "127.0.0.1")
	require.NoError(t, err)
}

func TestCreatePatient_FutureBirthDate(t *testing.T) {
	svc, _ := newTestPatientService()
	cmd := validCreateCommand()
	cmd.BirthYear = 3000

	_, err := svc.CreatePatient(context.Background(), cmd, testCaller(), "127.0.0.1")
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Fields[0], patient.ErrBirthDateInFuture.Error())
}

func TestCreatePatient_Duplicate(t *testing.T) {
	svc, _ := newTestPatientService()
	ctx := context.Background()

	_, err := svc.CreatePatient(ctx, validCreateCommand(), testCaller(), "127.0.0.1")
	require.NoError(t, err)

	_, err = svc.CreatePatient(ctx, validCreateCommand(), testCaller(), "127.0.0.1")
	assert.ErrorIs(t, err, patient.ErrPatientAlreadyExists)

	// Same name with a different birth date is a different person.
	cmd := validCreateCommand()
	cmd.BirthDay = 16
	_, err = svc.CreatePatient(ctx, cmd, testCaller(), "127.0.0.1")
	assert.NoError(t, err)
}

func TestGetPatient_NotFound(t *testing.T) {
	svc, _ := newTestPatientService()
	_, err := svc.GetPatient(context.Background(), uuid.New(), testCaller(), "127.0.0.1")
	assert.ErrorIs(t, err, patient.ErrPatientNotFound)
}

func TestUpdatePatient_PartialFields(t *testing.T) {
	svc, _ := newTestPatientService()
	ctx := context.Background()

	p, err := svc.CreatePatient(ctx, validCreateCommand(), testCaller(), "127.0.0.1")
	require.NoError(t, err)

	diagnosis := "Resolved"
	updated, err := svc.UpdatePatient(ctx, p.ID, &patient.UpdatePatientCommand{
		Diagnosis: &diagnosis,
	}, testCaller(), "127.0.0.1")
	require.NoError(t, err)

	assert.Equal(t, "Resolved", updated.Diagnosis)
	// Untouched fields keep their values.
	assert.Equal(t, p.FirstName, updated.FirstName)
	assert.Equal(t, p.BirthDate, updated.BirthDate)
}

func TestUpdatePatient_MonthChangeInvalidatesDay(t *testing.T) {
	svc, _ := newTestPatientService()
	ctx := context.Background()

	cmd := validCreateCommand()
	cmd.BirthMonth, cmd.BirthDay = 3, 31
	p, err := svc.CreatePatient(ctx, cmd, testCaller(), "127.0.0.1")
	require.NoError(t, err)

	// Changing only the month to April leaves the stored 31st out of
	// bounds; the merged triple must be rejected as a whole.
	month := 4
	_, err = svc.UpdatePatient(ctx, p.ID, &patient.UpdatePatientCommand{
		BirthMonth: &month,
	}, testCaller(), "127.0.0.1")
	assert.ErrorIs(t, err, patient.ErrInvalidBirthDate)

	// Supplying a valid day together with the month succeeds.
	day := 30
	updated, err := svc.UpdatePatient(ctx, p.ID, &patient.UpdatePatientCommand{
		BirthMonth: &month,
		BirthDay:   &day,
	}, testCaller(), "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, "1990-04-30", updated.BirthDateString())
}

func TestUpdatePatient_DuplicateRejected(t *testing.T) {
	svc, _ := newTestPatientService()
	ctx := context.Background()

	_, err := svc.CreatePatient(ctx, validCreateCommand(), testCaller(), "127.0.0.1")
	require.NoError(t, err)

	other := validCreateCommand()
	other.FirstName = "Ana"
	p2, err := svc.CreatePatient(ctx, other, testCaller(), "127.0.0.1")
	require.NoError(t, err)

	// Renaming p2 to collide with the first patient is a conflict.
	name := "Maria"
	_, err = svc.UpdatePatient(ctx, p2.ID, &patient.UpdatePatientCommand{
		FirstName: &name,
	}, testCaller(), "127.0.0.1")
	assert.ErrorIs(t, err, patient.ErrPatientAlreadyExists)
}

func TestDeletePatient(t *testing.T) {
	svc, _ := newTestPatientService()
	ctx := context.Background()

	p, err := svc.CreatePatient(ctx, validCreateCommand(), testCaller(), "127.0.0.1")
	require.NoError(t, err)

	require.NoError(t, svc.DeletePatient(ctx, p.ID, testCaller(), "127.0.0.1"))

	_, err = svc.GetPatient(ctx, p.ID, testCaller(), "127.0.0.1")
	assert.ErrorIs(t, err, patient.ErrPatientNotFound)

	err = svc.DeletePatient(ctx, p.ID, testCaller(), "127.0.0.1")
	assert.ErrorIs(t, err, patient.ErrPatientNotFound)
}

func TestListPatients_SearchAndPagination(t *testing.T) {
	svc, _ := newTestPatientService()
	ctx := context.Background()

	names := []struct{ first, last string }{
		{"Maria", "Santos"},
		{"Mario", "Reyes"},
		{"Ana", "Marquez"},
		{"Jose", "Cruz"},
	}
	for i, n := range names {
		cmd := validCreateCommand()
		cmd.FirstName = n.first
		cmd.LastName = n.last
		cmd.BirthDay = i + 1 // avoid the duplicate rule
		_, err := svc.CreatePatient(ctx, cmd, testCaller(), "127.0.0.1")
		require.NoError(t, err)
	}

	// Substring match is case-insensitive and spans name parts.
	paged, err := svc.ListPatients(ctx, &patient.ListPatientsQuery{Search: "mar"})
	require.NoError(t, err)
	assert.EqualValues(t, 3, paged.TotalCount)

	// Page size defaults kick in for out-of-range values.
	paged, err = svc.ListPatients(ctx, &patient.ListPatientsQuery{PageSize: -5})
	require.NoError(t, err)
	assert.Equal(t, 20, paged.PageSize)
	assert.Equal(t, 1, paged.Page)
	assert.EqualValues(t, 4, paged.TotalCount)
}
