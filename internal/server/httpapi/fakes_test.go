package httpapi

import (
	"context"
	"io"
	"time"

	"github.com/dmitrijs2005/hrkeeper/internal/server/models"
	"github.com/dmitrijs2005/hrkeeper/internal/server/services"
)

type fakeUsers struct {
	login    func(userName, password, ip string) (*services.LoginResult, error)
	register func(in services.EmployeeInput) (string, error)
}

func (f *fakeUsers) Login(_ context.Context, userName, password, ip string) (*services.LoginResult, error) {
	return f.login(userName, password, ip)
}

func (f *fakeUsers) Register(_ context.Context, in services.EmployeeInput) (string, error) {
	return f.register(in)
}

type uploadCall struct {
	id          string
	contentType string
	size        int64
	body        []byte
}

type fakeEmployees struct {
	listQuery services.ListQuery
	page      models.Page[models.User]
	users     map[string]*models.User
	created   services.EmployeeInput
	createErr error
	updated   services.EmployeeUpdate
	updateErr error
	deleteErr error
	uploads   []uploadCall
	uploadErr error
	sigURL    string
}

func (f *fakeEmployees) List(_ context.Context, q services.ListQuery) (models.Page[models.User], error) {
	f.listQuery = q
	return f.page, nil
}

func (f *fakeEmployees) Get(_ context.Context, id string) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, errNotFound
	}
	return u, nil
}

func (f *fakeEmployees) Create(_ context.Context, in services.EmployeeInput) (*models.User, error) {
	f.created = in
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &models.User{ID: "new-id", UserName: in.UserName}, nil
}

func (f *fakeEmployees) Update(_ context.Context, id string, in services.EmployeeUpdate) error {
	f.updated = in
	if f.updateErr != nil {
		return f.updateErr
	}
	u, ok := f.users[id]
	if !ok {
		return errNotFound
	}
	if in.FirstName != "" {
		u.FirstName = in.FirstName
	}
	return nil
}

func (f *fakeEmployees) Delete(_ context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.users[id]; !ok {
		return errNotFound
	}
	delete(f.users, id)
	return nil
}

func (f *fakeEmployees) UploadSignature(_ context.Context, id string, file *services.SignatureFile) (string, error) {
	b, err := io.ReadAll(file.Body)
	if err != nil {
		return "", err
	}
	f.uploads = append(f.uploads, uploadCall{id: id, contentType: file.ContentType, size: file.Size, body: b})
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	return "/signatures/" + id + ".png", nil
}

func (f *fakeEmployees) Signature(_ context.Context, id string) (string, error) {
	if f.sigURL == "" {
		return "", errNotFound
	}
	return f.sigURL, nil
}

type fakeAttendance struct {
	checkInErr error
	checkedIn  []string
	dailyDate  time.Time
	weekStart  time.Time
	weeklyFor  string
	allCalled  bool
	hoursFor   string
	hours      int
}

func (f *fakeAttendance) CheckIn(_ context.Context, id string) (*models.Attendance, error) {
	if f.checkInErr != nil {
		return nil, f.checkInErr
	}
	f.checkedIn = append(f.checkedIn, id)
	ts := time.Date(2024, 5, 6, 8, 5, 0, 0, time.UTC)
	return &models.Attendance{ID: 1, EmployeeID: id, CheckInTime: ts, CheckInDate: ts.Truncate(24 * time.Hour)}, nil
}

func (f *fakeAttendance) Daily(_ context.Context, date time.Time) ([]models.AttendanceView, error) {
	f.dailyDate = date
	return []models.AttendanceView{{ID: 1, EmployeeID: "e1", FirstName: "Bob"}}, nil
}

func (f *fakeAttendance) History(_ context.Context, id string) ([]models.AttendanceView, error) {
	return []models.AttendanceView{{ID: 2, EmployeeID: id}, {ID: 1, EmployeeID: id}}, nil
}

func (f *fakeAttendance) WeeklySummary(_ context.Context, id string, weekStart time.Time) (*models.WeeklySummary, error) {
	f.weeklyFor, f.weekStart = id, weekStart
	return &models.WeeklySummary{EmployeeID: id, DaysAttended: 2, TotalHours: 16}, nil
}

func (f *fakeAttendance) WeeklySummaryAll(_ context.Context, weekStart time.Time) ([]models.WeeklySummary, error) {
	f.allCalled, f.weekStart = true, weekStart
	return []models.WeeklySummary{{EmployeeID: "a", DaysAttended: 1}, {EmployeeID: "b", DaysAttended: 3}}, nil
}

func (f *fakeAttendance) HoursLastWeek(_ context.Context, id string) (int, error) {
	f.hoursFor = id
	return f.hours, nil
}

type fakePinger struct{ err error }

func (p fakePinger) PingContext(context.Context) error { return p.err }
