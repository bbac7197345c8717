package errors

import (
	stderrors "errors"
	"net/http"
	"testing"

	"github.com/bwmarrin/discordgo"
)

func restError(status int) error {
	return &discordgo.RESTError{
		Response: &http.Response{StatusCode: status},
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
	}{
		{"forbidden", restError(http.StatusForbidden), ErrCapabilityMissing},
		{"not found", restError(http.StatusNotFound), ErrNotFound},
		{"rate limited", restError(http.StatusTooManyRequests), ErrPlatformTransient},
		{"server error", restError(http.StatusInternalServerError), ErrPlatformTransient},
		{"state not found", discordgo.ErrStateNotFound, ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.err)
			if !stderrors.Is(got, tt.target) {
				t.Errorf("Classify(%v) = %v, want wrapped %v", tt.err, got, tt.target)
			}
		})
	}
}

func TestClassifyPassthrough(t *testing.T) {
	if got := Classify(nil); got != nil {
		t.Errorf("Classify(nil) = %v, want nil", got)
	}

	plain := stderrors.New("algo salió mal")
	if got := Classify(plain); got != plain {
		t.Errorf("Classify(plain) = %v, want the same error", got)
	}

	badRequest := Classify(restError(http.StatusBadRequest))
	if IsNotFound(badRequest) || IsTransient(badRequest) || IsCapabilityMissing(badRequest) {
		t.Error("a 400 response should not match any taxonomy class")
	}
}

func TestPredicates(t *testing.T) {
	notFound := Classify(restError(http.StatusNotFound))

	if !IsNotFound(notFound) {
		t.Error("IsNotFound() = false, want true")
	}
	if IsTransient(notFound) {
		t.Error("IsTransient() = true for a not-found error")
	}
	if IsCapabilityMissing(notFound) {
		t.Error("IsCapabilityMissing() = true for a not-found error")
	}
}

func TestHierarchyError(t *testing.T) {
	err := NewHierarchyError("InsufficientRank", "no puedes sancionar a %s", "un moderador")

	if err.Reason != "InsufficientRank" {
		t.Errorf("Reason = %v, want InsufficientRank", err.Reason)
	}
	if err.Error() != "no puedes sancionar a un moderador" {
		t.Errorf("Error() = %v", err.Error())
	}
	if !IsHierarchy(err) {
		t.Error("IsHierarchy() = false, want true")
	}
	if IsHierarchy(stderrors.New("otro error")) {
		t.Error("IsHierarchy() matched a plain error")
	}
}
