package usecases

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/notifyd/internal/application/notification/testutil"
	vo "github.com/orris-inc/notifyd/internal/domain/notification/valueobjects"
	"github.com/orris-inc/notifyd/internal/shared/authorization"
)

func directoryFixture() *testutil.MockDirectory {
	return testutil.NewMockDirectory(
		testutil.DirectoryUser{ID: 1, Username: "admin", Role: authorization.RoleAdmin, Active: true},
		testutil.DirectoryUser{ID: 2, Username: "alice", Role: authorization.RoleHR, Active: true},
		testutil.DirectoryUser{ID: 3, Username: "hannah", Role: authorization.RoleHR, Active: true},
		testutil.DirectoryUser{ID: 4, Username: "bob", Role: authorization.RoleEmployee, Active: true},
		testutil.DirectoryUser{ID: 5, Username: "carol", Role: authorization.RoleEmployee, Active: true},
		testutil.DirectoryUser{ID: 6, Username: "dave", Role: authorization.RoleEmployee, Active: false},
	)
}

func mustTarget(t *testing.T, username string, roles ...string) vo.TargetSpec {
	t.Helper()
	spec, err := vo.NewTargetSpec(username, roles)
	require.NoError(t, err)
	return spec
}

func TestFanoutResolver_Resolve(t *testing.T) {
	tests := []struct {
		name     string
		username string
		roles    []string
		want     []uint
	}{
		{name: "everyone is the full active set", roles: []string{"EVERYONE"}, want: []uint{1, 2, 3, 4, 5}},
		{name: "everyone subsumes roles", roles: []string{"HR", "EVERYONE"}, want: []uint{1, 2, 3, 4, 5}},
		{name: "role union", roles: []string{"HR", "ADMIN"}, want: []uint{1, 2, 3}},
		{name: "recipient only", username: "alice", want: []uint{2}},
		{name: "recipient overlapping role", username: "alice", roles: []string{"HR"}, want: []uint{2, 3}},
		{name: "recipient plus other role", username: "bob", roles: []string{"ADMIN"}, want: []uint{1, 4}},
		{name: "unknown recipient contributes nothing", username: "ghost", roles: []string{"ADMIN"}, want: []uint{1}},
		{name: "inactive recipient contributes nothing", username: "dave", want: []uint{}},
		{name: "empty target resolves to nobody", want: []uint{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewFanoutResolver(directoryFixture(), testutil.NewMockLogger())
			got, err := r.Resolve(context.Background(), mustTarget(t, tt.username, tt.roles...))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFanoutResolver_EmptyTargetSkipsDirectory(t *testing.T) {
	dir := directoryFixture()
	r := NewFanoutResolver(dir, testutil.NewMockLogger())

	_, err := r.Resolve(context.Background(), mustTarget(t, ""))
	require.NoError(t, err)
	assert.Zero(t, dir.Calls())
}

func TestFanoutResolver_DirectoryFailure(t *testing.T) {
	dir := directoryFixture()
	cause := errors.New("directory down")
	dir.SetError(cause)
	r := NewFanoutResolver(dir, testutil.NewMockLogger())

	_, err := r.Resolve(context.Background(), mustTarget(t, "", "HR"))
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
}
