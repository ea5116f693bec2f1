package services

import (
	"bufio"
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/hrkeeper/internal/common"
	"github.com/dmitrijs2005/hrkeeper/internal/logging"
	"github.com/dmitrijs2005/hrkeeper/internal/server/models"
	"github.com/dmitrijs2005/hrkeeper/internal/server/repositories/employees"
	"github.com/dmitrijs2005/hrkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/hrkeeper/internal/server/storage"
	"github.com/google/uuid"
)

const DefaultPageSize = 10

// signatureTypes maps accepted content types to file extensions.
var signatureTypes = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
}

// ListQuery is a directory listing request; Page is 1-based.
type ListQuery struct {
	Search    string
	SortBy    string
	Ascending bool
	Page      int
	PageSize  int
}

func (q ListQuery) normalize() ListQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = DefaultPageSize
	}
	return q
}

// SignatureFile is an uploaded signature image.
type SignatureFile struct {
	ContentType string
	Size        int64
	Body        io.Reader
}

type EmployeeService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	store       storage.SignatureStore
	maxBytes    int64
	logger      logging.Logger
}

func NewEmployeeService(db *sql.DB, m repomanager.RepositoryManager, store storage.SignatureStore,
	maxSignatureBytes int64, logger logging.Logger) *EmployeeService {
	return &EmployeeService{
		db:          db,
		repomanager: m,
		store:       store,
		maxBytes:    maxSignatureBytes,
		logger:      logger.With("module", "employee_service"),
	}
}

// List returns one page of Employee-role users.
func (s *EmployeeService) List(ctx context.Context, q ListQuery) (models.Page[models.User], error) {
	q = q.normalize()

	list, total, err := s.repomanager.Employees().List(ctx, employees.ListQuery{
		Search:    q.Search,
		SortBy:    q.SortBy,
		Ascending: q.Ascending,
		Offset:    (q.Page - 1) * q.PageSize,
		Limit:     q.PageSize,
	})
	if err != nil {
		return models.Page[models.User]{}, fmt.Errorf("error listing employees: %w", err)
	}

	return models.NewPage(list, total, q.Page, q.PageSize), nil
}

func (s *EmployeeService) Get(ctx context.Context, id string) (*models.User, error) {
	if !validID(id) {
		return nil, common.ErrorNotFound
	}
	return s.repomanager.Employees().Get(ctx, id)
}

// Create adds an Employee. Duplicate usernames or national ids are reported
// as common.ErrUsernameTaken / common.ErrNationalIDTaken.
func (s *EmployeeService) Create(ctx context.Context, in EmployeeInput) (*models.User, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	user, err := newEmployee(in)
	if err != nil {
		return nil, common.ErrorInternal
	}

	u, err := s.repomanager.Users(s.db).Create(ctx, user)
	if err != nil {
		if common.IsConflict(err) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating employee: %w", err)
	}

	s.logger.Info(ctx, "employee created", "employee_id", u.ID)
	return u, nil
}

func (s *EmployeeService) Update(ctx context.Context, id string, in EmployeeUpdate) error {
	if !validID(id) {
		return common.ErrorNotFound
	}

	fields, err := in.fields()
	if err != nil {
		if errors.Is(err, common.ErrorValidation) {
			return err
		}
		return common.ErrorInternal
	}

	repo := s.repomanager.Employees()
	if len(fields) == 0 {
		_, err := repo.Get(ctx, id)
		return err
	}

	if err := repo.Update(ctx, id, fields); err != nil {
		return err
	}

	s.logger.Info(ctx, "employee updated", "employee_id", id)
	return nil
}

// Delete removes the employee, their check-ins and, best-effort, their
// signature object.
func (s *EmployeeService) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return common.ErrorNotFound
	}

	repo := s.repomanager.Employees()
	u, err := repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := repo.Delete(ctx, id); err != nil {
		return err
	}

	if u.Signature != nil {
		s.deleteObject(ctx, *u.Signature)
	}

	s.logger.Info(ctx, "employee deleted", "employee_id", id)
	return nil
}

// UploadSignature stores a PNG or JPEG signature for the user and returns
// its URL. The declared type and the sniffed content must agree.
func (s *EmployeeService) UploadSignature(ctx context.Context, id string, f *SignatureFile) (string, error) {
	if f == nil || f.Body == nil || f.Size == 0 {
		return "", common.ErrSignatureRequired
	}
	if f.Size > s.maxBytes {
		return "", common.ErrSignatureTooLarge
	}

	declared, _, err := mime.ParseMediaType(f.ContentType)
	if err != nil {
		return "", common.ErrSignatureType
	}
	ext, ok := signatureTypes[strings.ToLower(declared)]
	if !ok {
		return "", common.ErrSignatureType
	}

	body := bufio.NewReaderSize(f.Body, 512)
	head, err := body.Peek(512)
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("error reading signature: %w", err)
	}
	if len(head) == 0 {
		return "", common.ErrSignatureRequired
	}
	if http.DetectContentType(head) != strings.ToLower(declared) {
		return "", common.ErrSignatureType
	}
	data, err := io.ReadAll(&capReader{r: body, left: s.maxBytes})
	if err != nil {
		if errors.Is(err, common.ErrSignatureTooLarge) {
			return "", common.ErrSignatureTooLarge
		}
		return "", fmt.Errorf("error reading signature: %w", err)
	}

	if !validID(id) {
		return "", common.ErrorNotFound
	}
	users := s.repomanager.Users(s.db)
	u, err := users.GetByID(ctx, id)
	if err != nil {
		return "", err
	}

	key := storage.SignaturePrefix + "/" + uuid.NewString() + ext
	if err := s.store.Save(ctx, key, declared, bytes.NewReader(data)); err != nil {
		return "", fmt.Errorf("error saving signature: %w", err)
	}

	if err := users.UpdateSignature(ctx, id, &key); err != nil {
		s.deleteObject(ctx, key)
		return "", err
	}

	if u.Signature != nil && *u.Signature != key {
		s.deleteObject(ctx, *u.Signature)
	}

	s.logger.Info(ctx, "signature uploaded", "user_id", id, "key", key)
	return s.store.URL(ctx, key)
}

// Signature returns the URL of the user's signature, or common.ErrorNotFound
// when none was uploaded.
func (s *EmployeeService) Signature(ctx context.Context, id string) (string, error) {
	if !validID(id) {
		return "", common.ErrorNotFound
	}
	u, err := s.repomanager.Users(s.db).GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if u.Signature == nil || *u.Signature == "" {
		return "", common.ErrorNotFound
	}
	return s.store.URL(ctx, *u.Signature)
}

func (s *EmployeeService) deleteObject(ctx context.Context, key string) {
	if err := s.store.Delete(ctx, key); err != nil {
		s.logger.Warn(ctx, "signature cleanup failed", "key", key, logging.Err(err))
	}
}

func validID(id string) bool {
	return uuid.Validate(id) == nil
}

// capReader fails with common.ErrSignatureTooLarge once more than left bytes
// have been read, whatever the declared size said.
type capReader struct {
	r    io.Reader
	left int64
}

func (c *capReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.left -= int64(n)
	if c.left < 0 {
		return n, common.ErrSignatureTooLarge
	}
	return n, err
}
