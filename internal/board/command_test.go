package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestIsCommand(t *testing.T) {
	assert.True(t, IsCommand("/clear"))
	assert.False(t, IsCommand("clear"))
	assert.False(t, IsCommand("hello /clear"))
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    Command
	}{
		{"clear", "/clear", Command{Kind: CmdClear, Name: "clear"}},
		{"del keeps valid numbers", "/del 1 x -2 0 3", Command{Kind: CmdDel, Name: "del", Positions: []int{1, 3}}},
		{"del without args", "/del", Command{Kind: CmdDel, Name: "del"}},
		{"destroy joins pattern", "/destroy foo bar", Command{Kind: CmdDestroy, Name: "destroy", Pattern: "foo bar"}},
		{"destroy keeps inner whitespace", "/destroy foo  bar", Command{Kind: CmdDestroy, Name: "destroy", Pattern: "foo  bar"}},
		{"unknown", "/frobnicate now", Command{Kind: CmdUnknown, Name: "frobnicate"}},
		{"bare prefix", "/", Command{Kind: CmdUnknown}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseCommand(tt.content))
		})
	}
}

func newTestInterpreter(t *testing.T) (*Interpreter, *PostStore, *RoleRegistry) {
	t.Helper()
	gdb := newTestDB(t)
	store := NewPostStore(gdb)
	roles := newTestRegistry(t, gdb)
	return NewInterpreter(store, roles, zap.NewNop()), store, roles
}

func TestExecuteClear(t *testing.T) {
	interp, store, roles := newTestInterpreter(t)
	require.NoError(t, roles.Assign("@modmod1", RoleModerator))
	seedPosts(t, store, 4)

	t.Run("moderator clears the board", func(t *testing.T) {
		res, err := interp.Execute(ParseCommand("/clear"), "@modmod1")
		require.NoError(t, err)
		assert.Equal(t, "clear", res.Command)

		n, err := store.Count()
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("default rank is refused", func(t *testing.T) {
		seedPosts(t, store, 2)
		_, err := interp.Execute(ParseCommand("/clear"), "@nobody0")
		assert.ErrorIs(t, err, ErrPermission)

		n, err := store.Count()
		require.NoError(t, err)
		assert.EqualValues(t, 2, n, "refused command leaves the store unchanged")
	})
}

func TestExecuteDel(t *testing.T) {
	interp, store, roles := newTestInterpreter(t)
	require.NoError(t, roles.Assign("@mgrmgr1", RoleManager))
	seedPosts(t, store, 5)

	t.Run("manager deletes by position", func(t *testing.T) {
		res, err := interp.Execute(ParseCommand("/del 1 3 99"), "@mgrmgr1")
		require.NoError(t, err)
		assert.Equal(t, 2, res.Deleted)
		assert.Equal(t, []int{1, 3}, res.Processed)
	})

	t.Run("no valid arguments", func(t *testing.T) {
		_, err := interp.Execute(ParseCommand("/del x -1 zero"), "@mgrmgr1")
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("nothing resolves", func(t *testing.T) {
		_, err := interp.Execute(ParseCommand("/del 99"), "@mgrmgr1")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("speaker rank is refused", func(t *testing.T) {
		require.NoError(t, roles.Assign("@spkspk1", RoleSpeaker))
		_, err := interp.Execute(ParseCommand("/del 1"), "@spkspk1")
		assert.ErrorIs(t, err, ErrPermission)
	})
}

func TestExecuteDestroy(t *testing.T) {
	interp, store, roles := newTestInterpreter(t)
	require.NoError(t, roles.Assign("@modmod1", RoleModerator))
	require.NoError(t, roles.Assign("@mgrmgr1", RoleManager))
	seedPosts(t, store, 3)

	t.Run("manager rank is refused", func(t *testing.T) {
		// destroy wipes by pattern; it needs moderator, not just manager.
		_, err := interp.Execute(ParseCommand("/destroy post"), "@mgrmgr1")
		assert.ErrorIs(t, err, ErrPermission)
	})

	t.Run("reserved qualifier", func(t *testing.T) {
		_, err := interp.Execute(ParseCommand("/destroy (color)red"), "@modmod1")
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("empty pattern", func(t *testing.T) {
		_, err := interp.Execute(ParseCommand("/destroy"), "@modmod1")
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("no matches", func(t *testing.T) {
		_, err := interp.Execute(ParseCommand("/destroy zzz-not-there"), "@modmod1")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("moderator destroys by pattern", func(t *testing.T) {
		res, err := interp.Execute(ParseCommand("/destroy POST 1"), "@modmod1")
		require.NoError(t, err)
		assert.Equal(t, 1, res.Deleted)

		n, err := store.Count()
		require.NoError(t, err)
		assert.EqualValues(t, 2, n)
	})
}

func TestExecuteUnknownCommand(t *testing.T) {
	interp, _, roles := newTestInterpreter(t)
	require.NoError(t, roles.Assign("@admadm1", RoleAdmin))

	// Unknown commands are rejected even for admins, never stored as posts.
	_, err := interp.Execute(ParseCommand("/frobnicate"), "@admadm1")
	assert.ErrorIs(t, err, ErrValidation)
}
