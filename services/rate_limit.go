package services

import (
	stdContext "context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"

	"github.com/luminax-app/luminax_api/dto"
	"github.com/luminax-app/luminax_api/shared"
)

// RateLimitService keeps per-identifier request counters in Redis.
// Counters expire with the window, blocks expire with the block time.
// When Redis is not configured every request is allowed.
type RateLimitService struct {
	context.DefaultService

	configs map[string]*RateLimitConfig
	mutex   sync.RWMutex

	redisSvc *RedisService
}

// RateLimitConfig represents rate limiting configuration
type RateLimitConfig struct {
	EndpointType string
	MaxRequests  int
	WindowSize   time.Duration
	BlockTime    time.Duration
	Description  string
	IsActive     bool
}

const RATE_LIMIT_SVC = "rate_limit_svc"

func (svc RateLimitService) Id() string {
	return RATE_LIMIT_SVC
}

func (svc *RateLimitService) Configure(ctx *context.Context) error {
	svc.configs = make(map[string]*RateLimitConfig)
	return svc.DefaultService.Configure(ctx)
}

func (svc *RateLimitService) Start() error {
	svc.redisSvc = svc.Service(REDIS_SVC).(*RedisService)
	svc.initDefaultConfigs()
	return nil
}

// ==================== CONFIGURATION MANAGEMENT ====================

func (svc *RateLimitService) initDefaultConfigs() {
	svc.mutex.Lock()
	defer svc.mutex.Unlock()

	svc.configs = map[string]*RateLimitConfig{
		// Authentication endpoints
		"login": {
			EndpointType: "login",
			MaxRequests:  10,
			WindowSize:   15 * time.Minute,
			BlockTime:    30 * time.Minute,
			Description:  "Login attempts rate limit",
			IsActive:     true,
		},
		"register": {
			EndpointType: "register",
			MaxRequests:  5,
			WindowSize:   15 * time.Minute,
			BlockTime:    60 * time.Minute,
			Description:  "Registration rate limit",
			IsActive:     true,
		},
		"refresh": {
			EndpointType: "refresh",
			MaxRequests:  20,
			WindowSize:   15 * time.Minute,
			BlockTime:    5 * time.Minute,
			Description:  "Token refresh rate limit",
			IsActive:     true,
		},
		"change_password": {
			EndpointType: "change_password",
			MaxRequests:  3,
			WindowSize:   time.Hour,
			BlockTime:    2 * time.Hour,
			Description:  "Password change rate limit",
			IsActive:     true,
		},

		// Activity endpoints
		"record_activity": {
			EndpointType: "record_activity",
			MaxRequests:  60,
			WindowSize:   time.Hour,
			BlockTime:    time.Hour,
			Description:  "Activity recording rate limit",
			IsActive:     true,
		},
		"ai_generate": {
			EndpointType: "ai_generate",
			MaxRequests:  30,
			WindowSize:   time.Hour,
			BlockTime:    time.Hour,
			Description:  "Plan and quiz generation rate limit",
			IsActive:     true,
		},

		// User endpoints
		"profile_update": {
			EndpointType: "profile_update",
			MaxRequests:  10,
			WindowSize:   time.Hour,
			BlockTime:    30 * time.Minute,
			Description:  "Profile update rate limit",
			IsActive:     true,
		},
		"username_check": {
			EndpointType: "username_check",
			MaxRequests:  50,
			WindowSize:   time.Hour,
			BlockTime:    10 * time.Minute,
			Description:  "Username availability check rate limit",
			IsActive:     true,
		},

		// API endpoints
		"api_general": {
			EndpointType: "api_general",
			MaxRequests:  1000,
			WindowSize:   time.Hour,
			BlockTime:    time.Hour,
			Description:  "General API rate limit per IP",
			IsActive:     true,
		},
	}
}

// ==================== CORE RATE LIMITING LOGIC ====================

func (svc *RateLimitService) IsAllowed(identifier, endpointType string) (bool, *dto.RateLimitInfo, error) {
	svc.mutex.RLock()
	config, exists := svc.configs[endpointType]
	svc.mutex.RUnlock()

	if !exists || !config.IsActive || !svc.redisSvc.Available() {
		return true, &dto.RateLimitInfo{
			Allowed:   true,
			Remaining: -1,
		}, nil
	}

	ctx, cancel := stdContext.WithTimeout(stdContext.Background(), 2*time.Second)
	defer cancel()

	now := time.Now()
	blockKey := fmt.Sprintf("ratelimit:block:%s:%s", endpointType, identifier)
	countKey := fmt.Sprintf("ratelimit:count:%s:%s", endpointType, identifier)

	// A live block key means the identifier is still locked out
	blocked, err := svc.redisSvc.Exists(ctx, blockKey)
	if err != nil {
		return false, nil, err
	}
	if blocked {
		ttl, err := svc.redisSvc.TTL(ctx, blockKey)
		if err != nil {
			return false, nil, err
		}
		blockedUntil := now.Add(ttl)
		return false, &dto.RateLimitInfo{
			Allowed:      false,
			Remaining:    0,
			ResetTime:    &blockedUntil,
			BlockedUntil: &blockedUntil,
		}, nil
	}

	count, err := svc.redisSvc.Increment(ctx, countKey)
	if err != nil {
		return false, nil, err
	}

	// First hit in a fresh window starts its expiry clock
	if count == 1 {
		if err := svc.redisSvc.Expire(ctx, countKey, config.WindowSize); err != nil {
			return false, nil, err
		}
	}

	if count > int64(config.MaxRequests) {
		if err := svc.redisSvc.Set(ctx, blockKey, "1", config.BlockTime); err != nil {
			return false, nil, err
		}

		blockedUntil := now.Add(config.BlockTime)
		return false, &dto.RateLimitInfo{
			Allowed:      false,
			Remaining:    0,
			ResetTime:    &blockedUntil,
			BlockedUntil: &blockedUntil,
		}, nil
	}

	ttl, err := svc.redisSvc.TTL(ctx, countKey)
	if err != nil {
		return false, nil, err
	}

	resetTime := now.Add(ttl)
	return true, &dto.RateLimitInfo{
		Allowed:   true,
		Remaining: config.MaxRequests - int(count),
		ResetTime: &resetTime,
	}, nil
}

// ==================== MIDDLEWARE FUNCTIONS ====================

// RateLimit creates a rate limiting middleware for specific endpoint types
func (svc *RateLimitService) RateLimit(endpointType string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identifier := svc.getIdentifier(c, endpointType)

		allowed, info, err := svc.IsAllowed(identifier, endpointType)
		if err != nil {
			log.WithError(err).WithField("endpoint_type", endpointType).Warn("Rate limit check failed")
			// Continue with request on error to avoid blocking users due to system issues
			return c.Next()
		}

		svc.addRateLimitHeaders(c, info)

		if !allowed {
			return svc.handleRateLimitExceeded(c, endpointType, info)
		}

		return c.Next()
	}
}

// IPRateLimit applies general rate limiting by IP address
func (svc *RateLimitService) IPRateLimit() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ip := getClientIP(c)

		allowed, info, err := svc.IsAllowed(ip, "api_general")
		if err != nil {
			log.WithError(err).WithField("ip", ip).Warn("IP rate limit check failed")
			return c.Next()
		}

		svc.addRateLimitHeaders(c, info)

		if !allowed {
			return svc.handleRateLimitExceeded(c, "api_general", info)
		}

		return c.Next()
	}
}

// ==================== HELPER FUNCTIONS ====================

func (svc *RateLimitService) getIdentifier(c *fiber.Ctx, endpointType string) string {
	switch endpointType {
	case "login", "register":
		// For auth endpoints, use IP + email if available
		email := svc.getEmailFromRequest(c)
		if email != "" {
			return fmt.Sprintf("%s:%s", getClientIP(c), email)
		}
		return getClientIP(c)

	case "record_activity", "ai_generate", "change_password", "profile_update":
		userID := c.Locals(shared.UserID)
		if userID != nil {
			if userIDStr, ok := userID.(string); ok && userIDStr != "" {
				return userIDStr
			}
		}
		return getClientIP(c)

	default:
		return getClientIP(c)
	}
}

func (svc *RateLimitService) getEmailFromRequest(c *fiber.Ctx) string {
	var reqBody map[string]interface{}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&reqBody); err == nil {
			if email, exists := reqBody["email"]; exists {
				if emailStr, ok := email.(string); ok {
					return emailStr
				}
			}
			if emailOrUsername, exists := reqBody["email_or_username"]; exists {
				if emailStr, ok := emailOrUsername.(string); ok {
					return emailStr
				}
			}
		}
	}
	return ""
}

func (svc *RateLimitService) addRateLimitHeaders(c *fiber.Ctx, info *dto.RateLimitInfo) {
	if info == nil {
		return
	}

	if info.Remaining >= 0 {
		c.Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
	}

	if info.ResetTime != nil {
		c.Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
	}

	if info.BlockedUntil != nil {
		retryAfter := int(time.Until(*info.BlockedUntil).Seconds())
		if retryAfter > 0 {
			c.Set("Retry-After", strconv.Itoa(retryAfter))
		}
	}
}

func (svc *RateLimitService) handleRateLimitExceeded(c *fiber.Ctx, endpointType string, info *dto.RateLimitInfo) error {
	message := svc.getRateLimitMessage(endpointType)

	response := map[string]interface{}{
		"error":   "Rate limit exceeded",
		"message": message,
	}

	if info.BlockedUntil != nil {
		response["blocked_until"] = info.BlockedUntil.Unix()
		response["retry_after"] = int(time.Until(*info.BlockedUntil).Seconds())
	}

	return shared.ResponseJSON(c, http.StatusTooManyRequests, message, response)
}

func (svc *RateLimitService) getRateLimitMessage(endpointType string) string {
	messages := map[string]string{
		"login":           "Too many login attempts. Please try again later.",
		"register":        "Too many registration attempts. Please try again later.",
		"refresh":         "Too many token refresh requests. Please try again later.",
		"change_password": "Too many password change attempts. Please try again later.",
		"record_activity": "Too many activity submissions. Please slow down.",
		"ai_generate":     "Too many generation requests. Please try again later.",
		"profile_update":  "Too many profile updates. Please try again later.",
		"username_check":  "Too many username checks. Please try again later.",
		"api_general":     "Too many requests. Please slow down.",
	}

	if message, exists := messages[endpointType]; exists {
		return message
	}

	return "Too many requests. Please try again later."
}

// ==================== UTILITY FUNCTIONS ====================

func getClientIP(c *fiber.Ctx) string {
	// Check for forwarded IP first (for load balancers/proxies)
	forwarded := c.Get("X-Forwarded-For")
	if forwarded != "" {
		ips := strings.Split(forwarded, ",")
		if len(ips) > 0 {
			ip := strings.TrimSpace(ips[0])
			if ip != "" {
				return ip
			}
		}
	}

	realIP := c.Get("X-Real-IP")
	if realIP != "" {
		return realIP
	}

	cfIP := c.Get("CF-Connecting-IP")
	if cfIP != "" {
		return cfIP
	}

	ip, _, err := net.SplitHostPort(c.Context().RemoteAddr().String())
	if err != nil {
		return c.Context().RemoteAddr().String()
	}

	return ip
}

// ==================== PUBLIC METHODS ====================

func (svc *RateLimitService) ResetRateLimit(identifier, endpointType string) error {
	if !svc.redisSvc.Available() {
		return nil
	}

	ctx, cancel := stdContext.WithTimeout(stdContext.Background(), 2*time.Second)
	defer cancel()

	return svc.redisSvc.Delete(ctx,
		fmt.Sprintf("ratelimit:count:%s:%s", endpointType, identifier),
		fmt.Sprintf("ratelimit:block:%s:%s", endpointType, identifier),
	)
}
