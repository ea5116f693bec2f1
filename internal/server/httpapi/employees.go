package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/hrkeeper/internal/common"
	"github.com/dmitrijs2005/hrkeeper/internal/logging"
	"github.com/dmitrijs2005/hrkeeper/internal/server/services"
	"github.com/gin-gonic/gin"
)

type listRequest struct {
	Search    string `form:"search"`
	SortBy    string `form:"sortBy"`
	Ascending *bool  `form:"ascending"`
	Page      int    `form:"page"`
	PageSize  int    `form:"pageSize"`
}

type updateEmployeeRequest struct {
	UserName    string `json:"userName" binding:"omitempty,min=4"`
	Password    string `json:"password" binding:"omitempty,password"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	PhoneNumber string `json:"phoneNumber" binding:"omitempty,max=20"`
	NationalID  string `json:"nationalId" binding:"omitempty,numeric,len=14"`
	Age         *int   `json:"age" binding:"omitempty,min=18,max=120"`
}

func (s *Server) listEmployees(c *gin.Context) {
	var req listRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}

	ascending := true
	if req.Ascending != nil {
		ascending = *req.Ascending
	}

	page, err := s.deps.Employees.List(c.Request.Context(), services.ListQuery{
		Search:    req.Search,
		SortBy:    req.SortBy,
		Ascending: ascending,
		Page:      req.Page,
		PageSize:  req.PageSize,
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (s *Server) createEmployee(c *gin.Context) {
	var req employeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	u, err := s.deps.Employees.Create(c.Request.Context(), req.input())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": u.ID})
}

func (s *Server) getEmployee(c *gin.Context) {
	u, err := s.deps.Employees.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// updateEmployee applies the non-empty fields and answers with the stored
// record.
func (s *Server) updateEmployee(c *gin.Context) {
	var req updateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	ctx := c.Request.Context()
	id := c.Param("id")
	err := s.deps.Employees.Update(ctx, id, services.EmployeeUpdate{
		UserName:    req.UserName,
		Password:    req.Password,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
		NationalID:  req.NationalID,
		Age:         req.Age,
	})
	if err != nil {
		s.fail(c, err)
		return
	}

	u, err := s.deps.Employees.Get(ctx, id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (s *Server) deleteEmployee(c *gin.Context) {
	if err := s.deps.Employees.Delete(c.Request.Context(), c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	message(c, http.StatusOK, "Deleted successfully")
}

// signature returns the caller's own signature URL.
func (s *Server) signature(c *gin.Context) {
	url, err := s.deps.Employees.Signature(c.Request.Context(), claimsFrom(c).UserID())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"electronicSignature": url})
}

// uploadSignature stores the multipart "file" field. Admins may target any
// id; everyone else always uploads for themselves, whatever the path says.
func (s *Server) uploadSignature(c *gin.Context) {
	claims := claimsFrom(c)
	id := c.Param("id")
	if claims.Role != common.RoleAdmin {
		id = claims.UserID()
	}

	fh, err := c.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			s.fail(c, common.ErrSignatureRequired)
			return
		}
		s.failWith(c, http.StatusBadRequest, err)
		return
	}

	f, err := fh.Open()
	if err != nil {
		s.fail(c, err)
		return
	}
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.Warn(c.Request.Context(), "closing upload failed", logging.Err(err))
		}
	}()

	url, err := s.deps.Employees.UploadSignature(c.Request.Context(), id, &services.SignatureFile{
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Body:        f,
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Signature uploaded successfully", "electronicSignature": url})
}
