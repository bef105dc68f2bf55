package views

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"

	log "github.com/sirupsen/logrus"
)

const flashCookieName = "flash"

const (
	FlashKindSuccess = "success"
	FlashKindError   = "error"
)

// Flash is a one-shot notification shown on the next rendered page.
type Flash struct {
	Kind        string `json:"kind"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

func Success(title, description string) Flash {
	return Flash{Kind: FlashKindSuccess, Title: title, Description: description}
}

func Error(title, description string) Flash {
	return Flash{Kind: FlashKindError, Title: title, Description: description}
}

func SetFlash(w http.ResponseWriter, f Flash) {
	flashBytes, err := json.Marshal(f)
	if err != nil {
		log.Errorf("marshal flash: %s", err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    base64.RawURLEncoding.EncodeToString(flashBytes),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// PopFlash returns the pending flash and removes it, so it shows exactly once.
func PopFlash(w http.ResponseWriter, r *http.Request) *Flash {
	c, err := r.Cookie(flashCookieName)
	if err != nil || c.Value == "" {
		return nil
	}

	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	flashBytes, err := base64.RawURLEncoding.DecodeString(c.Value)
	if err != nil {
		log.Warnf("decode flash: %s", err)
		return nil
	}
	f := &Flash{}
	if err := json.Unmarshal(flashBytes, f); err != nil {
		log.Warnf("unmarshal flash: %s", err)
		return nil
	}
	return f
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
