package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/suite"

	"github.com/jameszsun/dummy-ecommerce/internal/domain"
	"github.com/jameszsun/dummy-ecommerce/internal/logger"
	"github.com/jameszsun/dummy-ecommerce/internal/service"
	"github.com/jameszsun/dummy-ecommerce/internal/service/tokens"
	"github.com/jameszsun/dummy-ecommerce/internal/transport/api/mocks"
	"github.com/jameszsun/dummy-ecommerce/internal/transport/api/testutils"
)

type AuthHandlerTestSuite struct {
	suite.Suite
	router          *gin.Engine
	mockUserService *mocks.MockUserServicer
	jwtSecret       []byte
}

func TestAuthHandlerSuite(t *testing.T) {
	suite.Run(t, new(AuthHandlerTestSuite))
}

func (s *AuthHandlerTestSuite) SetupTest() {
	mockCtrl := gomock.NewController(s.T())

	s.mockUserService = mocks.NewMockUserServicer(mockCtrl)
	s.jwtSecret = []byte("super secret key")

	s.router = New(RouterArgs{
		Logger:       logger.New(os.Stdout),
		UserService:  s.mockUserService,
		JWTSecretKey: s.jwtSecret,
	})
}

func (s *AuthHandlerTestSuite) TestRegister() {
	validEmail := gofakeit.Email()
	takenEmail := gofakeit.Email()
	userName := gofakeit.Name()
	password := "<PASSWORD>"

	createdUser := domain.User{
		ID:        1,
		CreatedAt: time.Now(),
		Email:     validEmail,
		Name:      userName,
	}

	s.mockUserService.EXPECT().
		Register(gomock.Any(), service.RegisterUserArgs{
			Email:    validEmail,
			Password: password,
			Name:     userName,
		}).
		Return(&createdUser, "jwt-token", nil)

	s.mockUserService.EXPECT().
		Register(gomock.Any(), service.RegisterUserArgs{
			Email:    takenEmail,
			Password: password,
		}).
		Return(nil, "", domain.ErrDuplicateKey)

	cases := []struct {
		name       string
		payload    gin.H
		wantStatus int
		wantUser   bool
	}{
		{
			name:       "ok",
			payload:    gin.H{"email": validEmail, "password": password, "name": userName},
			wantStatus: http.StatusCreated,
			wantUser:   true,
		}, {
			name:       "duplicate email",
			payload:    gin.H{"email": takenEmail, "password": password},
			wantStatus: http.StatusConflict,
		}, {
			name:       "invalid email",
			payload:    gin.H{"email": "not-an-email", "password": password},
			wantStatus: http.StatusBadRequest,
		}, {
			name:       "short password",
			payload:    gin.H{"email": validEmail, "password": "123"},
			wantStatus: http.StatusBadRequest,
		}, {
			name:       "missing password",
			payload:    gin.H{"email": validEmail},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, t := range cases {
		s.Run(t.name, func() {
			body, marshalErr := json.Marshal(t.payload)
			s.Require().NoError(marshalErr)

			res, err := testutils.MakeRequest(testutils.RequestArgs{
				Router: s.router,
				Method: http.MethodPost,
				URL:    RouteGroup + RegisterRoute,
				Body:   bytes.NewReader(body),
			}, testutils.WithHeader("Content-Type", "application/json"))
			s.Require().NoError(err)
			defer func() {
				s.Require().NoError(res.Body.Close())
			}()

			s.Equal(t.wantStatus, res.StatusCode)

			if t.wantUser {
				var parsed struct {
					Token string       `json:"token"`
					User  UserResponse `json:"user"`
				}
				s.Require().NoError(json.NewDecoder(res.Body).Decode(&parsed))
				s.Equal("jwt-token", parsed.Token)
				s.Equal(createdUser.ID, parsed.User.ID)
				s.Equal(createdUser.Email, parsed.User.Email)
				s.Equal(createdUser.Name, parsed.User.Name)
			}
		})
	}
}

func (s *AuthHandlerTestSuite) TestLogin() {
	validEmail := gofakeit.Email()
	password := "<PASSWORD>"

	savedUser := domain.User{
		ID:        1,
		CreatedAt: time.Now(),
		Email:     validEmail,
	}

	s.mockUserService.EXPECT().
		Login(gomock.Any(), service.LoginUserArgs{Email: validEmail, Password: password}).
		Return(&savedUser, "jwt-token", nil)

	s.mockUserService.EXPECT().
		Login(gomock.Any(), service.LoginUserArgs{Email: validEmail, Password: "wrong pass"}).
		Return(nil, "", domain.ErrPasswordMissMatch)

	s.mockUserService.EXPECT().
		Login(gomock.Any(), service.LoginUserArgs{Email: "missing@example.com", Password: password}).
		Return(nil, "", domain.ErrRecordNotFound)

	cases := []struct {
		name       string
		payload    gin.H
		wantStatus int
	}{
		{
			name:       "ok",
			payload:    gin.H{"email": validEmail, "password": password},
			wantStatus: http.StatusOK,
		}, {
			name:       "wrong password",
			payload:    gin.H{"email": validEmail, "password": "wrong pass"},
			wantStatus: http.StatusUnauthorized,
		}, {
			name:       "unknown email",
			payload:    gin.H{"email": "missing@example.com", "password": password},
			wantStatus: http.StatusUnauthorized,
		}, {
			name:       "malformed body",
			payload:    gin.H{"email": validEmail},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, t := range cases {
		s.Run(t.name, func() {
			body, marshalErr := json.Marshal(t.payload)
			s.Require().NoError(marshalErr)

			res, err := testutils.MakeRequest(testutils.RequestArgs{
				Router: s.router,
				Method: http.MethodPost,
				URL:    RouteGroup + LoginRoute,
				Body:   bytes.NewReader(body),
			}, testutils.WithHeader("Content-Type", "application/json"))
			s.Require().NoError(err)
			defer func() {
				s.Require().NoError(res.Body.Close())
			}()

			s.Equal(t.wantStatus, res.StatusCode)
		})
	}
}

func (s *AuthHandlerTestSuite) TestMe() {
	var currentUserID int64 = 1
	var missingUserID int64 = 2

	currentUserJWTToken, cJWTErr := tokens.GenerateUserJWT(currentUserID, time.Hour, s.jwtSecret)
	s.Require().NoError(cJWTErr)
	missingUserJWTToken, mJWTErr := tokens.GenerateUserJWT(missingUserID, time.Hour, s.jwtSecret)
	s.Require().NoError(mJWTErr)

	savedUser := domain.User{
		ID:        currentUserID,
		CreatedAt: time.Now(),
		Email:     gofakeit.Email(),
	}

	s.mockUserService.EXPECT().
		FindByID(gomock.Any(), currentUserID).
		Return(&savedUser, nil)

	// Токен валиден, но юзера уже нет.
	s.mockUserService.EXPECT().
		FindByID(gomock.Any(), missingUserID).
		Return(nil, domain.ErrRecordNotFound)

	cases := []struct {
		name       string
		jwtToken   string
		wantStatus int
	}{
		{
			name:       "ok",
			jwtToken:   currentUserJWTToken,
			wantStatus: http.StatusOK,
		}, {
			name:       "user gone",
			jwtToken:   missingUserJWTToken,
			wantStatus: http.StatusNotFound,
		}, {
			name:       "not authorized",
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, t := range cases {
		s.Run(t.name, func() {
			var reqOpts []func(*testutils.RequestOptions)
			if t.jwtToken != "" {
				reqOpts = append(reqOpts, testutils.WithHeader("Authorization", fmt.Sprintf("Bearer %s", t.jwtToken)))
			}

			res, err := testutils.MakeRequest(testutils.RequestArgs{
				Router: s.router,
				Method: http.MethodGet,
				URL:    RouteGroup + MeRoute,
			}, reqOpts...)
			s.Require().NoError(err)
			defer func() {
				s.Require().NoError(res.Body.Close())
			}()

			s.Equal(t.wantStatus, res.StatusCode)

			if t.wantStatus == http.StatusOK {
				var parsed struct {
					User UserResponse `json:"user"`
				}
				s.Require().NoError(json.NewDecoder(res.Body).Decode(&parsed))
				s.Equal(savedUser.ID, parsed.User.ID)
				s.Equal(savedUser.Email, parsed.User.Email)
			}
		})
	}
}
