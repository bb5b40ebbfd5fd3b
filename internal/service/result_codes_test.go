package service

import (
	"errors"
	"fmt"
	"testing"

	"coffee-reco/internal/repository"
)

func TestCodeOf(t *testing.T) {
	cases := []struct {
		err  error
		want Code
	}{
		{nil, CodeSuccess},
		{invalidParam("aroma is required"), CodeInvalidParameter},
		{ErrMissingName, CodeMissingName},
		{ErrMissingComment, CodeMissingComment},
		{ErrDuplicateName, CodeDuplicateName},
		{fmt.Errorf("save: %w", ErrNotFound), CodeNotFound},
		{ErrNoPermission, CodeNoPermission},
		{errors.New("boom"), CodeError},
		// un fallo de colaborador nunca se interpreta por su contenido
		{storeErr("insert collection", repository.ErrDuplicateName), CodeError},
	}
	for _, tc := range cases {
		if got := CodeOf(tc.err); got != tc.want {
			t.Fatalf("CodeOf(%v): expected %s, got %s", tc.err, tc.want, got)
		}
	}
}

func TestStoreErrorPreservesMessage(t *testing.T) {
	cause := errors.New("connection reset")
	err := storeErr("fetch catalog", cause)
	if err.Error() != "fetch catalog: connection reset" {
		t.Fatalf("unexpected message %q", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause to be unwrapped")
	}
}
