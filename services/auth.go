package services

import (
	goContext "context"
	"strconv"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/luminax-app/luminax_api/dto"
	"github.com/luminax-app/luminax_api/model"
	"github.com/luminax-app/luminax_api/shared"
)

type AuthService struct {
	context.DefaultService

	sqlSvc   *SqlService
	jwtSvc   *JWTService
	redisSvc *RedisService
}

const AUTH_SVC = "auth_svc"

const (
	revokedTokenKeyPrefix = "auth:revoked:"
	revokedAllKeyPrefix   = "auth:revoked_all:"
)

func (svc AuthService) Id() string {
	return AUTH_SVC
}

func (svc *AuthService) Configure(ctx *context.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *AuthService) Start() error {
	svc.sqlSvc = svc.Service(SQL_SVC).(*SqlService)
	svc.jwtSvc = svc.Service(JWT_SVC).(*JWTService)
	svc.redisSvc = svc.Service(REDIS_SVC).(*RedisService)
	return nil
}

// Register creates the user together with its progress and settings
// rows so first reads never hit a missing-row path.
func (svc *AuthService) Register(req dto.RegisterRequest) (*dto.RegisterResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to hash password")
	}

	userID, _ := uuid.NewV7()
	user := &model.User{
		ID:       userID.String(),
		Email:    req.Email,
		Username: req.Username,
		Password: string(hash),
		Role:     "user",
	}

	err = svc.sqlSvc.Db().Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		progressID, _ := uuid.NewV7()
		if err := tx.Create(&model.UserProgress{
			ID:     progressID.String(),
			UserID: user.ID,
			Level:  1,
		}).Error; err != nil {
			return err
		}
		settingsID, _ := uuid.NewV7()
		return tx.Create(&model.UserSettings{
			ID:                settingsID.String(),
			UserID:            user.ID,
			Theme:             "system",
			Language:          "en",
			Notifications:     true,
			PublicProfile:     true,
			WeeklyGoalMinutes: 300,
			ReminderHour:      18,
		}).Error
	})
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}

	log.WithFields(log.Fields{
		"user_id":  user.ID,
		"username": user.Username,
	}).Info("User registered")

	return &dto.RegisterResponse{UserID: user.ID, Username: user.Username}, nil
}

func (svc *AuthService) Login(req dto.LoginRequest, clientIP, userAgent string) (*dto.LoginResponse, error) {
	user, err := svc.sqlSvc.GetUserByEmailOrUsername(req.EmailOrUsername)
	if err != nil {
		return nil, shared.NewUnauthorizedError("Invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		log.WithFields(log.Fields{
			"user_id":   user.ID,
			"client_ip": clientIP,
		}).Warn("Failed login attempt")
		return nil, shared.NewUnauthorizedError("Invalid credentials")
	}

	pair, err := svc.jwtSvc.GenerateTokenPair(user.ID)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to issue tokens")
	}

	now := time.Now()
	if err := svc.sqlSvc.TouchLastLogin(user.ID, now); err != nil {
		log.WithError(err).WithField("user_id", user.ID).Warn("Failed to update last login")
	}

	log.WithFields(log.Fields{
		"user_id":    user.ID,
		"client_ip":  clientIP,
		"user_agent": userAgent,
	}).Info("User logged in")

	return &dto.LoginResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
		User: dto.UserInfo{
			ID:          user.ID,
			Username:    user.Username,
			Email:       user.Email,
			Role:        user.Role,
			CreatedAt:   user.CreatedAt,
			LastLoginAt: &now,
		},
	}, nil
}

func (svc *AuthService) RefreshToken(req dto.RefreshTokenRequest) (*dto.TokenPair, error) {
	claims, err := svc.jwtSvc.ParseRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, shared.NewUnauthorizedError("Invalid refresh token")
	}

	if svc.isTokenRevoked(claims) {
		return nil, shared.NewUnauthorizedError("Refresh token has been revoked")
	}

	if _, err := svc.sqlSvc.GetUserByID(claims.UserID); err != nil {
		return nil, shared.NewUnauthorizedError("Unknown user")
	}

	pair, err := svc.jwtSvc.GenerateTokenPair(claims.UserID)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to issue tokens")
	}
	return pair, nil
}

// Logout revokes one refresh token. The denylist entry lives exactly as
// long as the token would have; access tokens ride out their short TTL.
func (svc *AuthService) Logout(userID string, req dto.LogoutRequest) error {
	claims, err := svc.jwtSvc.ParseRefreshToken(req.RefreshToken)
	if err != nil {
		return shared.NewUnauthorizedError("Invalid refresh token")
	}
	if claims.UserID != userID {
		return shared.NewUnauthorizedError("Refresh token does not belong to this user")
	}

	svc.revokeToken(claims)

	log.WithField("user_id", userID).Info("User logged out")
	return nil
}

// LogoutAll invalidates every refresh token issued to the user so far
// by recording a revocation watermark; tokens issued before it fail.
func (svc *AuthService) LogoutAll(userID string) error {
	if svc.redisSvc.Available() {
		ctx, cancel := goContext.WithTimeout(goContext.Background(), 2*time.Second)
		defer cancel()

		key := revokedAllKeyPrefix + userID
		value := strconv.FormatInt(time.Now().Unix(), 10)
		if err := svc.redisSvc.Set(ctx, key, value, svc.jwtSvc.RefreshTokenDuration); err != nil {
			return shared.NewInternalError(err, "Failed to revoke sessions")
		}
	}

	log.WithField("user_id", userID).Info("All sessions revoked")
	return nil
}

func (svc *AuthService) revokeToken(claims *CustomClaims) {
	if !svc.redisSvc.Available() || claims.ID == "" {
		return
	}

	ctx, cancel := goContext.WithTimeout(goContext.Background(), 2*time.Second)
	defer cancel()

	ttl := svc.jwtSvc.RefreshTokenDuration
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		ttl = time.Until(exp.Time)
	}
	if ttl <= 0 {
		return
	}

	if err := svc.redisSvc.Set(ctx, revokedTokenKeyPrefix+claims.ID, "1", ttl); err != nil {
		log.WithError(err).WithField("user_id", claims.UserID).Warn("Failed to record token revocation")
	}
}

// isTokenRevoked fails open: without Redis the denylist is empty and
// tokens stand on their signature and expiry alone.
func (svc *AuthService) isTokenRevoked(claims *CustomClaims) bool {
	if !svc.redisSvc.Available() {
		return false
	}

	ctx, cancel := goContext.WithTimeout(goContext.Background(), 2*time.Second)
	defer cancel()

	if claims.ID != "" {
		revoked, err := svc.redisSvc.Exists(ctx, revokedTokenKeyPrefix+claims.ID)
		if err != nil {
			log.WithError(err).Warn("Failed to check token revocation")
			return false
		}
		if revoked {
			return true
		}
	}

	watermark, err := svc.redisSvc.Get(ctx, revokedAllKeyPrefix+claims.UserID)
	if err != nil {
		log.WithError(err).Warn("Failed to check session revocation")
		return false
	}
	if watermark == "" {
		return false
	}

	revokedAt, err := strconv.ParseInt(watermark, 10, 64)
	if err != nil {
		return false
	}
	issuedAt, err := claims.GetIssuedAt()
	if err != nil || issuedAt == nil {
		return true
	}
	return issuedAt.Unix() <= revokedAt
}

func (svc *AuthService) ChangePassword(userID string, req dto.ChangePasswordRequest) error {
	user, err := svc.sqlSvc.GetUserByID(userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
		return shared.NewUnauthorizedError("Current password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return shared.NewInternalError(err, "Failed to hash password")
	}

	user.Password = string(hash)
	return svc.sqlSvc.UpdateUser(user)
}

// VerifyPassword rechecks credentials for destructive operations.
func (svc *AuthService) VerifyPassword(userID, password string) error {
	user, err := svc.sqlSvc.GetUserByID(userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return shared.NewUnauthorizedError("Password is incorrect")
	}
	return nil
}
