package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/ksasaki/traininglog/internal/apperrors"
	"github.com/ksasaki/traininglog/internal/middleware"
	"github.com/ksasaki/traininglog/internal/telemetry/metrics"
	"github.com/ksasaki/traininglog/internal/telemetry/tracing"
	"github.com/ksasaki/traininglog/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=auth_test

type usersRepo interface {
	Add(ctx context.Context, user User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
}

type tokenService interface {
	Generate(userID string) (string, error)
}

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const minPasswordLength = 8

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Success bool   `json:"success"`
	User    *User  `json:"user,omitempty"`
	Token   string `json:"token,omitempty"`
	Error   string `json:"error,omitempty"`
}

type Handler struct {
	repo           usersRepo
	tokens         tokenService
	metricsManager *metrics.Manager
}

func NewHandler(repo usersRepo, tokens tokenService, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		repo:           repo,
		tokens:         tokens,
		metricsManager: metricsManager,
	}
}

func (handler *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.auth.register")
	defer span.End()

	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("register, unmarshal json params: %s", err)
		sendAuthError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	req.Name = strings.TrimSpace(req.Name)
	if err := validateRegisterRequest(req); err != nil {
		sendAuthError(w, apperrors.HTTPStatus(err), err.Error())
		return
	}

	passwordHash, err := pkg.HashPassword(req.Password)
	if err != nil {
		log.Errorf("register, hash password: %s", err)
		sendAuthError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	user := User{
		ID:           uuid.NewString(),
		Email:        req.Email,
		PasswordHash: passwordHash,
		Name:         req.Name,
		CreatedAt:    time.Now(),
	}
	if err := handler.repo.Add(ctx, user); err != nil {
		status := apperrors.HTTPStatus(err)
		if status == http.StatusInternalServerError {
			log.Errorf("register, add user [%s]: %s", user.Email, err)
		}
		sendAuthError(w, status, apperrors.ClientMessage(err))
		return
	}

	token, err := handler.tokens.Generate(user.ID)
	if err != nil {
		log.Errorf("register, generate token for [%s]: %s", user.ID, err)
		sendAuthError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	handler.metricsManager.CounterRegisteredUsers.Inc()
	log.Debugf("new user registered: %s", user.Email)

	sendAuthResponse(w, http.StatusCreated, AuthResponse{
		Success: true,
		User:    &user,
		Token:   token,
	})
}

func (handler *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.auth.login")
	defer span.End()

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("login, unmarshal json params: %s", err)
		sendAuthError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		sendAuthError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	user, err := handler.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		if apperrors.IsNotFound(err) {
			sendAuthError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		log.Errorf("login, get user [%s]: %s", req.Email, err)
		sendAuthError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if !pkg.CheckPasswordHash(req.Password, user.PasswordHash) {
		sendAuthError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := handler.tokens.Generate(user.ID)
	if err != nil {
		log.Errorf("login, generate token for [%s]: %s", user.ID, err)
		sendAuthError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	handler.metricsManager.CounterLogins.Inc()

	sendAuthResponse(w, http.StatusOK, AuthResponse{
		Success: true,
		User:    user,
		Token:   token,
	})
}

func (handler *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.auth.me")
	defer span.End()

	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		sendAuthError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	user, err := handler.repo.GetByID(ctx, userID)
	if err != nil {
		status := apperrors.HTTPStatus(err)
		if status == http.StatusInternalServerError {
			log.Errorf("me, get user [%s]: %s", userID, err)
		}
		sendAuthError(w, status, apperrors.ClientMessage(err))
		return
	}

	sendAuthResponse(w, http.StatusOK, AuthResponse{
		Success: true,
		User:    user,
	})
}

func validateRegisterRequest(req RegisterRequest) error {
	if !emailRegex.MatchString(req.Email) {
		return apperrors.NewValidation("invalid email format")
	}
	if len(req.Password) < minPasswordLength {
		return apperrors.NewValidation("password must be at least 8 characters")
	}
	if req.Name == "" {
		return apperrors.NewValidation("name is required")
	}
	return nil
}

func sendAuthResponse(w http.ResponseWriter, statusCode int, resp AuthResponse) {
	respBytes, err := json.Marshal(resp)
	if err != nil {
		log.Errorf("marshal auth response: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respBytes, statusCode)
}

func sendAuthError(w http.ResponseWriter, statusCode int, message string) {
	sendAuthResponse(w, statusCode, AuthResponse{Success: false, Error: message})
}
