package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"inkwell/api/internal/apperr"
)

func TestKindOfSurvivesWrapping(t *testing.T) {
	err := apperr.NotFound("no such text")
	wrapped := fmt.Errorf("handling request: %w", err)

	if apperr.KindOf(wrapped) != apperr.KindNotFound {
		t.Errorf("kind lost through wrapping: %v", apperr.KindOf(wrapped))
	}
}

func TestKindOfPlainError(t *testing.T) {
	if apperr.KindOf(errors.New("boom")) != apperr.KindInternal {
		t.Error("plain errors must default to internal")
	}
}

func TestHTTPStatusMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{apperr.Unauthorized("nope"), http.StatusForbidden},
		{apperr.BadRequest("bad"), http.StatusBadRequest},
		{apperr.NotFound("gone"), http.StatusNotFound},
		{apperr.Conflict("dup"), http.StatusConflict},
		{apperr.StaleSession("stale"), http.StatusUnauthorized},
		{apperr.Internal("oops", errors.New("cause")), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
	}

	for _, c := range cases {
		if got := apperr.HTTPStatus(c.err); got != c.want {
			t.Errorf("HTTPStatus(%v) = %d, want %d", c.err, got, c.want)
		}
	}
}

func TestUnwrapExposesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := apperr.Internal("look up creator", cause)

	if !errors.Is(err, cause) {
		t.Error("wrapped cause must be reachable through errors.Is")
	}
}
