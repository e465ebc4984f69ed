package auth

import (
	"net/http"
	"net/url"
	"time"

	autherrors "go-tasktracker/internal/auth/errors"
	"go-tasktracker/internal/middleware"
	"go-tasktracker/internal/shared/apperror"
	platform "go-tasktracker/internal/shared/request"
	"go-tasktracker/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	cookieAccess     = "access_token"
	cookieRefresh    = "refresh_token"
	cookieOAuthState = "oauth_state"
	oauthStateTTL    = 10 * time.Minute
)

type HandlerConfig struct {
	ClientURL    string
	SecureCookie bool
	AccessTTL    time.Duration
	RefreshTTL   time.Duration
}

type Handler struct {
	service   Service
	providers map[string]OAuthProvider
	cfg       HandlerConfig
	logger    *zap.Logger
}

func NewHandler(s Service, providers map[string]OAuthProvider, cfg HandlerConfig, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("auth.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.handler")
	}
	return &Handler{service: s, providers: providers, cfg: cfg, logger: l}
}

func (h *Handler) writeError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("auth request failed",
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeError(c, apperror.FromBindError(err))
		return
	}

	sess, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	h.setSessionCookies(c, sess)
	response.Success(c, http.StatusCreated, sess, nil)
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeError(c, apperror.FromBindError(err))
		return
	}

	sess, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	h.setSessionCookies(c, sess)
	response.Success(c, http.StatusOK, sess, nil)
}

// RefreshToken reads the refresh token from the cookie for browsers and from
// the body for everything else.
func (h *Handler) RefreshToken(c *gin.Context) {
	var refreshToken string
	if h.isWeb(c) {
		cookie, err := c.Cookie(cookieRefresh)
		if err != nil || cookie == "" {
			h.writeError(c, autherrors.ErrTokenMissing)
			return
		}
		refreshToken = cookie
	} else {
		var req RefreshRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			h.writeError(c, apperror.FromBindError(err))
			return
		}
		refreshToken = req.RefreshToken
	}

	sess, err := h.service.Refresh(c.Request.Context(), refreshToken)
	if err != nil {
		h.writeError(c, err)
		return
	}

	h.setSessionCookies(c, sess)
	response.Success(c, http.StatusOK, sess, nil)
}

func (h *Handler) Logout(c *gin.Context) {
	h.setCookie(c, cookieAccess, "", -1)
	h.setCookie(c, cookieRefresh, "", -1)
	response.Success(c, http.StatusOK, gin.H{"message": "Logged out"}, nil)
}

func (h *Handler) Me(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)
	if userID == "" {
		h.writeError(c, autherrors.ErrTokenMissing)
		return
	}

	resp, err := h.service.Me(c.Request.Context(), userID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

// OAuthStart redirects the browser to the provider's consent page.
func (h *Handler) OAuthStart(c *gin.Context) {
	provider, ok := h.providers[c.Param("provider")]
	if !ok {
		h.writeError(c, autherrors.ErrUnsupportedProvider)
		return
	}

	state := uuid.NewString()
	h.setCookie(c, cookieOAuthState, state, int(oauthStateTTL.Seconds()))
	c.Redirect(http.StatusTemporaryRedirect, provider.AuthCodeURL(state))
}

// OAuthCallback completes the code exchange and hands the access token to
// the client through its login page.
func (h *Handler) OAuthCallback(c *gin.Context) {
	name := c.Param("provider")
	provider, ok := h.providers[name]
	if !ok {
		h.writeError(c, autherrors.ErrUnsupportedProvider)
		return
	}

	state, err := c.Cookie(cookieOAuthState)
	h.setCookie(c, cookieOAuthState, "", -1)
	if err != nil || state == "" || state != c.Query("state") {
		h.logger.Warn("oauth state mismatch", zap.String("provider", name))
		h.redirectLogin(c, url.Values{"error": {name + "_failed"}})
		return
	}

	identity, err := provider.Exchange(c.Request.Context(), c.Query("code"))
	if err != nil {
		h.logger.Warn("oauth exchange failed", zap.String("provider", name), zap.Error(err))
		h.redirectLogin(c, url.Values{"error": {name + "_failed"}})
		return
	}

	sess, err := h.service.OAuthLogin(c.Request.Context(), name, identity)
	if err != nil {
		h.logger.Warn("oauth login failed", zap.String("provider", name), zap.Error(err))
		h.redirectLogin(c, url.Values{"error": {name + "_failed"}})
		return
	}

	h.redirectLogin(c, url.Values{"token": {sess.AccessToken}})
}

func (h *Handler) redirectLogin(c *gin.Context, q url.Values) {
	c.Redirect(http.StatusFound, h.cfg.ClientURL+"/login?"+q.Encode())
}

func (h *Handler) isWeb(c *gin.Context) bool {
	return platform.IsWebClient(platform.ResolveClientType(c.GetHeader("X-Client-Type"), c.GetHeader("User-Agent")))
}

func (h *Handler) setSessionCookies(c *gin.Context, sess Session) {
	if !h.isWeb(c) {
		return
	}
	h.setCookie(c, cookieAccess, sess.AccessToken, int(h.cfg.AccessTTL.Seconds()))
	h.setCookie(c, cookieRefresh, sess.RefreshToken, int(h.cfg.RefreshTTL.Seconds()))
}

func (h *Handler) setCookie(c *gin.Context, name, value string, maxAge int) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.cfg.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}
