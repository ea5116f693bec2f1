package services

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/hrkeeper/internal/common"
	"github.com/dmitrijs2005/hrkeeper/internal/dbx"
	"github.com/dmitrijs2005/hrkeeper/internal/server/models"
	attendancerepo "github.com/dmitrijs2005/hrkeeper/internal/server/repositories/attendance"
	"github.com/dmitrijs2005/hrkeeper/internal/server/repositories/employees"
	usersrepo "github.com/dmitrijs2005/hrkeeper/internal/server/repositories/users"
	"github.com/google/uuid"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

// --- users ---

type fakeUsersRepo struct {
	mu     sync.Mutex
	byID   map[string]*models.User
	getErr error
	addErr error
}

func newFakeUsersRepo(users ...*models.User) *fakeUsersRepo {
	f := &fakeUsersRepo{byID: map[string]*models.User{}}
	for _, u := range users {
		f.byID[u.ID] = u
	}
	return f
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.addErr != nil {
		return nil, f.addErr
	}
	for _, existing := range f.byID {
		if existing.UserName == u.UserName {
			return nil, common.ErrUsernameTaken
		}
		if u.NationalID != "" && existing.NationalID == u.NationalID {
			return nil, common.ErrNationalIDTaken
		}
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	f.byID[u.ID] = u
	return u, nil
}

func (f *fakeUsersRepo) GetUserByLogin(ctx context.Context, login string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, u := range f.byID {
		if u.UserName == login {
			return u, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

func (f *fakeUsersRepo) UpdateSignature(ctx context.Context, id string, key *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.Signature = key
	return nil
}

// --- attendance ---

type fakeAttendanceRepo struct {
	mu      sync.Mutex
	users   *fakeUsersRepo
	records []models.Attendance
	err     error
	nextID  int64
}

func sameDay(a, b time.Time) bool {
	return a.Format(time.DateOnly) == b.Format(time.DateOnly)
}

func (f *fakeAttendanceRepo) HasCheckedIn(ctx context.Context, employeeID string, day time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	for _, r := range f.records {
		if r.EmployeeID == employeeID && sameDay(r.CheckInDate, day) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeAttendanceRepo) Create(ctx context.Context, a *models.Attendance) (*models.Attendance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, r := range f.records {
		if r.EmployeeID == a.EmployeeID && sameDay(r.CheckInDate, a.CheckInDate) {
			return nil, common.ErrAlreadyCheckedIn
		}
	}
	f.nextID++
	a.ID = f.nextID
	f.records = append(f.records, *a)
	return a, nil
}

func (f *fakeAttendanceRepo) view(r models.Attendance) models.AttendanceView {
	v := models.AttendanceView{ID: r.ID, EmployeeID: r.EmployeeID, CheckInTime: r.CheckInTime}
	if u, ok := f.users.byID[r.EmployeeID]; ok {
		v.FirstName, v.LastName, v.NationalID, v.Age = u.FirstName, u.LastName, u.NationalID, u.Age
	}
	return v
}

func (f *fakeAttendanceRepo) ListByDate(ctx context.Context, day time.Time) ([]models.AttendanceView, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := []models.AttendanceView{}
	for _, r := range f.records {
		if sameDay(r.CheckInDate, day) {
			out = append(out, f.view(r))
		}
	}
	return out, nil
}

func (f *fakeAttendanceRepo) ListByEmployeeBetween(ctx context.Context, employeeID string, from, to time.Time) ([]models.AttendanceView, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := []models.AttendanceView{}
	for _, r := range f.records {
		if r.EmployeeID == employeeID && !r.CheckInTime.Before(from) && !r.CheckInTime.After(to) {
			out = append(out, f.view(r))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CheckInTime.After(out[j].CheckInTime) })
	return out, nil
}

func (f *fakeAttendanceRepo) CountByEmployeeBetween(ctx context.Context, employeeID string, from, to time.Time) (int, error) {
	list, err := f.ListByEmployeeBetween(ctx, employeeID, from, to)
	return len(list), err
}

func (f *fakeAttendanceRepo) countInDays(employeeID string, fromDay, toDay time.Time) int {
	n := 0
	for _, r := range f.records {
		d := r.CheckInDate.Format(time.DateOnly)
		if r.EmployeeID == employeeID && d >= fromDay.Format(time.DateOnly) && d < toDay.Format(time.DateOnly) {
			n++
		}
	}
	return n
}

func (f *fakeAttendanceRepo) CountByEmployeeInDays(ctx context.Context, employeeID string, fromDay, toDay time.Time) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.countInDays(employeeID, fromDay, toDay), nil
}

func (f *fakeAttendanceRepo) CountPerEmployeeInDays(ctx context.Context, fromDay, toDay time.Time) ([]models.EmployeeCount, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := []models.EmployeeCount{}
	for _, u := range f.users.byID {
		if u.Role != common.RoleEmployee {
			continue
		}
		out = append(out, models.EmployeeCount{
			EmployeeID: u.ID, FirstName: u.FirstName, LastName: u.LastName,
			Days: f.countInDays(u.ID, fromDay, toDay),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FirstName < out[j].FirstName })
	return out, nil
}

// --- employees ---

type fakeEmployeesRepo struct {
	users     *fakeUsersRepo
	lastQuery employees.ListQuery
	lastPatch map[string]any
	listErr   error
	updateErr error
	deleted   []string
}

func (f *fakeEmployeesRepo) List(ctx context.Context, q employees.ListQuery) ([]models.User, int64, error) {
	f.lastQuery = q
	if f.listErr != nil {
		return nil, 0, f.listErr
	}
	var all []models.User
	for _, u := range f.users.byID {
		if u.Role == common.RoleEmployee {
			all = append(all, *u)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].FirstName < all[j].FirstName })
	total := int64(len(all))
	if q.Offset >= len(all) {
		return []models.User{}, total, nil
	}
	end := q.Offset + q.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[q.Offset:end], total, nil
}

func (f *fakeEmployeesRepo) Get(ctx context.Context, id string) (*models.User, error) {
	u, err := f.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.Role != common.RoleEmployee {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

func (f *fakeEmployeesRepo) Update(ctx context.Context, id string, fields map[string]any) error {
	f.lastPatch = fields
	if f.updateErr != nil {
		return f.updateErr
	}
	_, err := f.Get(ctx, id)
	return err
}

func (f *fakeEmployeesRepo) Delete(ctx context.Context, id string) error {
	if _, err := f.Get(ctx, id); err != nil {
		return err
	}
	delete(f.users.byID, id)
	f.deleted = append(f.deleted, id)
	return nil
}

// --- manager ---

type fakeRepoManager struct {
	u *fakeUsersRepo
	a *fakeAttendanceRepo
	e *fakeEmployeesRepo
}

func newFakeRepoManager(users ...*models.User) *fakeRepoManager {
	u := newFakeUsersRepo(users...)
	return &fakeRepoManager{
		u: u,
		a: &fakeAttendanceRepo{users: u},
		e: &fakeEmployeesRepo{users: u},
	}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error     { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository           { return m.u }
func (m *fakeRepoManager) Attendance(db dbx.DBTX) attendancerepo.Repository { return m.a }
func (m *fakeRepoManager) Employees() employees.Repository                  { return m.e }

// --- storage ---

type fakeStore struct {
	objects   map[string][]byte
	types     map[string]string
	deleted   []string
	lastBody  io.Reader
	saveErr   error
	deleteErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: map[string][]byte{}, types: map[string]string{}}
}

func (s *fakeStore) Save(ctx context.Context, key, contentType string, r io.Reader) error {
	s.lastBody = r
	if s.saveErr != nil {
		return s.saveErr
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	s.objects[key] = b
	s.types[key] = contentType
	return nil
}

func (s *fakeStore) Delete(ctx context.Context, key string) error {
	s.deleted = append(s.deleted, key)
	if s.deleteErr != nil {
		return s.deleteErr
	}
	delete(s.objects, key)
	return nil
}

func (s *fakeStore) URL(ctx context.Context, key string) (string, error) {
	return "/" + key, nil
}

// --- throttle ---

type fakeLimiter struct {
	blocked  bool
	allowErr error
	fails    int
	resets   int
}

func (l *fakeLimiter) Allow(context.Context, string) (bool, error) {
	return !l.blocked, l.allowErr
}
func (l *fakeLimiter) Fail(context.Context, string) error  { l.fails++; return nil }
func (l *fakeLimiter) Reset(context.Context, string) error { l.resets++; return nil }
