package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/hrkeeper/internal/common"
	"github.com/dmitrijs2005/hrkeeper/internal/server/services"
	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	UserName string `json:"userName" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	ID                  string      `json:"id"`
	UserName            string      `json:"userName"`
	FirstName           string      `json:"firstName"`
	LastName            string      `json:"lastName"`
	NationalID          string      `json:"nationalId"`
	Age                 int         `json:"age"`
	PhoneNumber         string      `json:"phoneNumber"`
	ElectronicSignature *string     `json:"electronicSignature"`
	Role                common.Role `json:"role"`
	Token               string      `json:"token"`
}

// employeeRequest is the body of registration and of directory create.
type employeeRequest struct {
	UserName    string `json:"userName" binding:"required,min=4"`
	Password    string `json:"password" binding:"required,password"`
	FirstName   string `json:"firstName" binding:"required"`
	LastName    string `json:"lastName" binding:"required"`
	PhoneNumber string `json:"phoneNumber" binding:"required,max=20"`
	NationalID  string `json:"nationalId" binding:"required,numeric,len=14"`
	Age         int    `json:"age" binding:"required,min=18,max=120"`
}

func (r employeeRequest) input() services.EmployeeInput {
	return services.EmployeeInput{
		UserName:    r.UserName,
		Password:    r.Password,
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		PhoneNumber: r.PhoneNumber,
		NationalID:  r.NationalID,
		Age:         r.Age,
	}
}

func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	res, err := s.deps.Users.Login(c.Request.Context(), req.UserName, req.Password, c.ClientIP())
	if err != nil {
		s.fail(c, err)
		return
	}

	u := res.User
	c.JSON(http.StatusOK, loginResponse{
		ID:                  u.ID,
		UserName:            u.UserName,
		FirstName:           u.FirstName,
		LastName:            u.LastName,
		NationalID:          u.NationalID,
		Age:                 u.Age,
		PhoneNumber:         u.PhoneNumber,
		ElectronicSignature: u.Signature,
		Role:                u.Role,
		Token:               res.Token,
	})
}

// register creates an Employee account. Taken usernames or national ids are
// a bad request here, not a conflict.
func (s *Server) register(c *gin.Context) {
	var req employeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	token, err := s.deps.Users.Register(c.Request.Context(), req.input())
	if err != nil {
		if common.IsConflict(err) {
			s.failWith(c, http.StatusBadRequest, err)
			return
		}
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}
