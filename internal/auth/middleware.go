package auth

import (
	"net/http"
	"path"
	"strings"

	"userapi/internal/logger"
	"userapi/internal/metrics"

	"github.com/gin-gonic/gin"
)

const contextKeySubject = "auth_subject"

var (
	defaultPublicExact = []string{
		"/health",
		"/version",
		"/metrics",
		"/swagger",
		"/swagger-doc.json",
		"/swagger-ui.html",
		"/v3/api-docs",
	}
	defaultPublicPrefixes = []string{
		"/swagger/",
		"/swagger-ui/",
		"/v3/api-docs/",
		"/public/",
	}
)

// PublicPaths is the allow-list of paths served without a token.
type PublicPaths struct {
	exact    map[string]struct{}
	prefixes []string
}

// NewPublicPaths returns the documentation, ops and /public/ paths plus any extra prefixes.
func NewPublicPaths(extraPrefixes ...string) PublicPaths {
	p := PublicPaths{exact: make(map[string]struct{}, len(defaultPublicExact))}
	for _, e := range defaultPublicExact {
		p.exact[e] = struct{}{}
	}
	p.prefixes = append(p.prefixes, defaultPublicPrefixes...)
	p.prefixes = append(p.prefixes, extraPrefixes...)
	return p
}

// Match reports whether urlPath bypasses the gate.
func (p PublicPaths) Match(urlPath string) bool {
	clean := path.Clean("/" + urlPath)
	if _, ok := p.exact[clean]; ok {
		return true
	}
	// Clean drops the trailing slash, so "/public/" is checked against "/public" + "/".
	withSlash := clean + "/"
	for _, prefix := range p.prefixes {
		if strings.HasPrefix(clean, prefix) || withSlash == prefix {
			return true
		}
	}
	return false
}

// SubjectFromContext returns the token subject set by RequireBearer. "" if not set.
func SubjectFromContext(c *gin.Context) string {
	return c.GetString(contextKeySubject)
}

// RequireBearer returns a middleware that lets public paths through and
// otherwise requires a valid "Authorization: Bearer" token. If missing or
// invalid, responds with 401.
func RequireBearer(v TokenVerifier, public PublicPaths) gin.HandlerFunc {
	if v == nil {
		panic("RequireBearer: nil verifier")
	}
	return func(c *gin.Context) {
		if public.Match(c.Request.URL.Path) {
			c.Next()
			return
		}
		raw, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			reject(c, "missing bearer token")
			return
		}
		claims, err := v.Verify(c.Request.Context(), raw)
		if err != nil {
			reject(c, err.Error())
			return
		}
		c.Set(contextKeySubject, claims.Subject)
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func reject(c *gin.Context, reason string) {
	metrics.RecordAuthRejection()
	logger.Ctx(c.Request.Context()).Debug().
		Str("path", c.Request.URL.Path).
		Str("reason", reason).
		Msg("unauthorized")
	c.Header("WWW-Authenticate", `Bearer realm="userapi"`)
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
}
