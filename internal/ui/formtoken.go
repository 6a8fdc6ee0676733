package ui

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"mime"
	"net/http"

	gomponents "maragu.dev/gomponents"
	html "maragu.dev/gomponents/html"

	"sqlgen/internal/domain"
)

// Statement forms carry a double-submit token: the same random value is
// stored in a cookie and echoed in a hidden field of the rendered form.
const (
	formTokenCookie = "sqlgen_form"
	formTokenField  = "form_token"
	formTokenBytes  = 32
)

// errStaleForm is returned for a submit whose token does not match the cookie.
var errStaleForm = domain.ErrValidation("this form has expired; review the values and generate again")

// formToken returns the token for the current client, issuing a new cookie
// when the request carries none or a malformed one.
func (h *Handler) formToken(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(formTokenCookie); err == nil && wellFormedToken(c.Value) {
		return c.Value
	}
	return h.issueFormToken(w)
}

func (h *Handler) issueFormToken(w http.ResponseWriter) string {
	token := newFormToken()
	http.SetCookie(w, &http.Cookie{
		Name:     formTokenCookie,
		Value:    token,
		Path:     "/ui/",
		HttpOnly: true,
		Secure:   h.Production,
		SameSite: http.SameSiteStrictMode,
	})
	return token
}

// checkFormToken compares the submitted field against the cookie.
func checkFormToken(r *http.Request, submitted string) error {
	c, err := r.Cookie(formTokenCookie)
	if err != nil || !wellFormedToken(c.Value) {
		return errStaleForm
	}
	if subtle.ConstantTimeCompare([]byte(c.Value), []byte(submitted)) != 1 {
		return errStaleForm
	}
	return nil
}

// isFormPost reports whether the request body is a urlencoded HTML form.
func isFormPost(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "application/x-www-form-urlencoded"
}

func formTokenInput(token string) gomponents.Node {
	return html.Input(html.Type("hidden"), html.Name(formTokenField), html.Value(token))
}

func newFormToken() string {
	b := make([]byte, formTokenBytes)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}

func wellFormedToken(s string) bool {
	b, err := base64.RawURLEncoding.DecodeString(s)
	return err == nil && len(b) == formTokenBytes
}
