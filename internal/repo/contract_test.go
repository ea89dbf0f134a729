package repo

import (
	"context"
	"testing"

	dom "userapi/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testUserRepoContract checks the behaviour every UserRepo must share.
// r must start empty.
func testUserRepoContract(t *testing.T, r UserRepo) {
	t.Helper()
	ctx := context.Background()

	t.Run("empty store", func(t *testing.T) {
		list, err := r.FindAll(ctx)
		require.NoError(t, err)
		assert.NotNil(t, list)
		assert.Len(t, list, 0)

		_, found, err := r.FindByID(ctx, "missing")
		require.NoError(t, err)
		assert.False(t, found)

		ok, err := r.ExistsByID(ctx, "missing")
		require.NoError(t, err)
		assert.False(t, ok)

		assert.NoError(t, r.DeleteByID(ctx, "missing"))
	})

	var alice, bob dom.User
	t.Run("save assigns unique ids", func(t *testing.T) {
		var err error
		alice, err = r.Save(ctx, dom.User{Name: "Alice", Email: "a@x.com"})
		require.NoError(t, err)
		bob, err = r.Save(ctx, dom.User{Name: "Bob", Phone: "555"})
		require.NoError(t, err)

		assert.NotEmpty(t, alice.ID)
		assert.NotEmpty(t, bob.ID)
		assert.NotEqual(t, alice.ID, bob.ID)
	})

	t.Run("find by id", func(t *testing.T) {
		got, found, err := r.FindByID(ctx, alice.ID)
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, alice, got)

		ok, err := r.ExistsByID(ctx, bob.ID)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("save with id replaces", func(t *testing.T) {
		replaced := dom.User{ID: alice.ID, Name: "Alice B", Address: "Earth"}
		saved, err := r.Save(ctx, replaced)
		require.NoError(t, err)
		assert.Equal(t, replaced, saved)

		got, found, err := r.FindByID(ctx, alice.ID)
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, replaced, got)
		alice = got

		list, err := r.FindAll(ctx)
		require.NoError(t, err)
		assert.ElementsMatch(t, []dom.User{alice, bob}, list)
	})

	t.Run("save with unknown id inserts", func(t *testing.T) {
		carol := dom.User{ID: "carol-1", Name: "Carol"}
		saved, err := r.Save(ctx, carol)
		require.NoError(t, err)
		assert.Equal(t, carol, saved)

		got, found, err := r.FindByID(ctx, "carol-1")
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, carol, got)
		require.NoError(t, r.DeleteByID(ctx, "carol-1"))
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, r.DeleteByID(ctx, bob.ID))

		_, found, err := r.FindByID(ctx, bob.ID)
		require.NoError(t, err)
		assert.False(t, found)

		list, err := r.FindAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, []dom.User{alice}, list)
	})
}
