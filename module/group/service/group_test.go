package service

import (
	"context"
	"errors"
	"testing"

	"ChatWave/tools/errs"
)

// The resolver runs inside the socket read loop where no route guard exists;
// without a database it must return an error, never panic.
func TestMemberIDsWithoutDatabase(t *testing.T) {
	s := NewService(nil, nil)
	_, err := s.MemberIDs(context.Background(), "g1")
	if err == nil {
		t.Fatal("resolver must fail while the database is not ready")
	}
	if !errors.Is(err, errs.ErrInternal) {
		t.Fatalf("err = %v, want the internal sentinel", err)
	}
}
