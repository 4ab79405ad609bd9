package store

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"pairplay/backend/internal/game"
	"pairplay/backend/internal/models"
	"pairplay/backend/testing/suite"
)

func createUser(t *testing.T, db *gorm.DB, email string) uuid.UUID {
	t.Helper()

	user := models.User{Email: email, PasswordHash: "x"}
	require.NoError(t, db.Create(&user).Error)
	return user.ID
}

func TestGameRepository_InsertAndFind(t *testing.T) {
	ctx, st := suite.New(t)
	repo := NewGameRepository(st.DB)

	a := createUser(t, st.DB, "a@example.com")
	b := createUser(t, st.DB, "b@example.com")

	// Given: a stored game
	g := game.New(uuid.New(), a, b)
	require.NoError(t, repo.Insert(ctx, g))

	t.Run("FindByPair matches both orders", func(t *testing.T) {
		found, err := repo.FindByPair(ctx, b, a)

		require.NoError(t, err)
		assert.Equal(t, g.ID, found.ID)
		assert.Equal(t, a, found.Player1ID)
		assert.Equal(t, game.X, found.Player1Symbol)
		assert.Equal(t, game.Board{}, found.Board)
	})

	t.Run("FindByID returns the row", func(t *testing.T) {
		found, err := repo.FindByID(ctx, g.ID)

		require.NoError(t, err)
		assert.Equal(t, a, found.CurrentTurn)
		assert.Nil(t, found.WinnerID)
	})

	t.Run("Missing rows map to ErrGameNotFound", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		require.ErrorIs(t, err, game.ErrGameNotFound)

		_, err = repo.FindByPair(ctx, a, uuid.New())
		require.ErrorIs(t, err, game.ErrGameNotFound)
	})

	t.Run("Second insert for the same pair is rejected", func(t *testing.T) {
		err := repo.Insert(ctx, game.New(uuid.New(), b, a))

		require.ErrorIs(t, err, game.ErrPairExists)
	})
}

func TestGameRepository_Update(t *testing.T) {
	ctx, st := suite.New(t)
	repo := NewGameRepository(st.DB)

	a := createUser(t, st.DB, "a@example.com")
	b := createUser(t, st.DB, "b@example.com")
	g := game.New(uuid.New(), a, b)
	require.NoError(t, repo.Insert(ctx, g))

	t.Run("Persists the board and winner", func(t *testing.T) {
		updated, err := repo.Update(ctx, g.ID, func(g *game.Game) error {
			g.Board = game.Board{game.X, game.X, game.X, game.O, game.O}
			g.IsFinished = true
			g.WinnerID = &a
			return nil
		})
		require.NoError(t, err)
		assert.True(t, updated.IsFinished)

		stored, err := repo.FindByID(ctx, g.ID)
		require.NoError(t, err)
		assert.Equal(t, "XXXOO----", stored.Board.String())
		require.NotNil(t, stored.WinnerID)
		assert.Equal(t, a, *stored.WinnerID)
	})

	t.Run("Writes nothing when fn fails", func(t *testing.T) {
		before, err := repo.FindByID(ctx, g.ID)
		require.NoError(t, err)

		_, err = repo.Update(ctx, g.ID, func(g *game.Game) error {
			g.Reset()
			return game.ErrGameFinished
		})
		require.ErrorIs(t, err, game.ErrGameFinished)

		after, err := repo.FindByID(ctx, g.ID)
		require.NoError(t, err)
		assert.Equal(t, before.Board, after.Board)
		assert.Equal(t, before.IsFinished, after.IsFinished)
	})

	t.Run("Unknown ids map to ErrGameNotFound", func(t *testing.T) {
		_, err := repo.Update(ctx, uuid.New(), func(*game.Game) error { return nil })

		require.ErrorIs(t, err, game.ErrGameNotFound)
	})
}

func TestGameRepository_ConcurrentMoves(t *testing.T) {
	ctx, st := suite.New(t)
	repo := NewGameRepository(st.DB)
	svc := game.NewService(NewPlayerStore(st.DB), repo)

	a := createUser(t, st.DB, "a@example.com")
	b := createUser(t, st.DB, "b@example.com")
	g, _, err := svc.CreateOrGet(ctx, a, b)
	require.NoError(t, err)

	// When: player 1 fires moves at every field at once
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for pos := 1; pos <= 9; pos++ {
		wg.Add(1)
		go func(pos int) {
			defer wg.Done()
			if _, err := svc.Move(ctx, g.ID, a, pos); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}(pos)
	}
	wg.Wait()

	// Then: the row lock lets exactly one through
	assert.Equal(t, 1, succeeded)
	stored, err := repo.FindByID(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, b, stored.CurrentTurn)
}

func TestGameRepository_DeleteByPlayer(t *testing.T) {
	ctx, st := suite.New(t)
	repo := NewGameRepository(st.DB)

	a := createUser(t, st.DB, "a@example.com")
	b := createUser(t, st.DB, "b@example.com")
	c := createUser(t, st.DB, "c@example.com")
	require.NoError(t, repo.Insert(ctx, game.New(uuid.New(), a, b)))
	require.NoError(t, repo.Insert(ctx, game.New(uuid.New(), c, a)))
	keep := game.New(uuid.New(), b, c)
	require.NoError(t, repo.Insert(ctx, keep))

	require.NoError(t, repo.DeleteByPlayer(ctx, a))

	var count int64
	require.NoError(t, st.DB.Model(&game.Game{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
	_, err := repo.FindByID(ctx, keep.ID)
	assert.NoError(t, err)
}

func TestPlayerStore_Resolve(t *testing.T) {
	ctx, st := suite.New(t)
	players := NewPlayerStore(st.DB)
	id := createUser(t, st.DB, "someone@example.com")

	t.Run("Resolves a known user", func(t *testing.T) {
		p, err := players.Resolve(ctx, id)

		require.NoError(t, err)
		assert.Equal(t, "someone@example.com", p.Email)
	})

	t.Run("Unknown users map to ErrPlayerNotFound", func(t *testing.T) {
		_, err := players.Resolve(context.Background(), uuid.New())

		require.ErrorIs(t, err, game.ErrPlayerNotFound)
	})
}
