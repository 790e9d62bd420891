package directory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeDirectory struct {
	listUsersCalls int
	users          []User
	specialists    []Profile
}

func (f *fakeDirectory) Authenticate(context.Context, string, string) (*Profile, error) {
	return nil, nil
}

func (f *fakeDirectory) ListUsers(context.Context) ([]User, error) {
	f.listUsersCalls++
	return f.users, nil
}

func (f *fakeDirectory) ListSpecialists(context.Context) ([]Profile, error) {
	return f.specialists, nil
}

func TestCachedDirectoryWithoutClientDelegates(t *testing.T) {
	inner := &fakeDirectory{users: []User{{Username: "lperez"}}}
	cached := NewCachedDirectory(inner, nil, 0, zap.NewNop())

	users, err := cached.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "lperez", users[0].Username)

	_, err = cached.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, inner.listUsersCalls)
}

func TestCachedDirectoryAuthenticateNeverCached(t *testing.T) {
	inner := &fakeDirectory{}
	cached := NewCachedDirectory(inner, nil, 0, zap.NewNop())

	profile, err := cached.Authenticate(context.Background(), "lperez", "clave")
	require.NoError(t, err)
	assert.Nil(t, profile)
}
