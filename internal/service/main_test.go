package service

import (
	"testing"
	"time"

	"accessfirst/internal/repository/memory"
	"accessfirst/internal/store"
	"accessfirst/internal/testutil"

	"github.com/stretchr/testify/mock"
	"go.uber.org/goleak"
	"golang.org/x/crypto/bcrypt"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestHasher() CredentialHasher {
	return NewBcryptHasher(bcrypt.MinCost)
}

func newTestProfileService() (*ProfileService, *store.Store, *memory.Backend) {
	s, backend := testutil.NewMemoryStore()
	return NewProfileService(s, newTestHasher(), testutil.NewTestLogger()), s, backend
}

// waitFor receives from ch or fails after a second
func waitFor(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for callback")
	}
}

func anyArgs(n int) []interface{} {
	args := make([]interface{}, n)
	for i := range args {
		args[i] = mock.Anything
	}
	return args
}
