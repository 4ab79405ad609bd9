package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"pairplay/backend/internal/auth"
	"pairplay/backend/internal/game"
	"pairplay/backend/internal/hub"
	"pairplay/backend/internal/logger"
)

// region --- DTOs ---

// CreateGameInput pairs two players.
type CreateGameInput struct {
	Player1ID string `json:"player_1_id" binding:"required" example:"7b1e7a4e-8f0f-4a53-9a55-3e0f6a1c2d11"`
	Player2ID string `json:"player_2_id" binding:"required" example:"0c3a2f5d-6c47-4e0b-8f1d-9b1f2e3d4c55"`
}

// MoveInput places the player's symbol on a field.
type MoveInput struct {
	GameID   string `json:"game_id" binding:"required"`
	PlayerID string `json:"player_id" binding:"required"`
	Field    *int   `json:"field" binding:"required" example:"5"`
}

// RestartInput identifies the game to reset.
type RestartInput struct {
	GameID string `json:"game_id" binding:"required"`
}

// GameResponse is the public view of a game.
type GameResponse struct {
	GameID        string            `json:"game_id"`
	Player1       string            `json:"player_1"`
	Player2       string            `json:"player_2"`
	Player1Symbol string            `json:"player_1_symbol" example:"X"`
	Player2Symbol string            `json:"player_2_symbol" example:"O"`
	CurrentTurn   string            `json:"current_turn"`
	IsFinished    bool              `json:"is_finished"`
	WinnerID      *string           `json:"winner_id"`
	Winner        *string           `json:"winner" example:"alice@example.com"`
	Board         map[string]string `json:"board"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// MoveResponse is the outcome of an accepted move.
type MoveResponse struct {
	Status         string `json:"status" example:"OK"`
	NextTurn       string `json:"next_turn,omitempty"`
	WinnerSymbol   string `json:"winner_symbol,omitempty"`
	WinnerPlayerID string `json:"winner_player_id,omitempty"`
	Winner         string `json:"winner,omitempty"`
}

// GameErrorResponse carries the machine-readable error code.
type GameErrorResponse struct {
	Error string `json:"error" example:"it's not your turn"`
	Code  string `json:"code" example:"NOT_YOUR_TURN"`
}

// endregion

// region --- Events ---

const (
	EventGameCreated   = "game.created"
	EventGameMove      = "game.move"
	EventGameRestarted = "game.restarted"
)

// endregion

var gameErrorStatus = map[error]int{
	game.ErrInvalidRequest:  http.StatusBadRequest,
	game.ErrInvalidField:    http.StatusBadRequest,
	game.ErrSameParticipant: http.StatusBadRequest,
	game.ErrPlayerNotFound:  http.StatusNotFound,
	game.ErrGameNotFound:    http.StatusNotFound,
	game.ErrNotYourTurn:     http.StatusForbidden,
	game.ErrGameFinished:    http.StatusConflict,
	game.ErrFieldTaken:      http.StatusConflict,
}

// GameHandler serves the tic-tac-toe endpoints.
type GameHandler struct {
	games   *game.Service
	players game.PlayerStore
	hub     *hub.Hub
}

func NewGameHandler(games *game.Service, players game.PlayerStore, h *hub.Hub) *GameHandler {
	return &GameHandler{
		games:   games,
		players: players,
		hub:     h,
	}
}

// CreateGame godoc
// @Summary      Create or fetch the game of a pairing
// @Description  Returns the existing game of the two players or creates one. Player 1 gets X and moves first.
// @Tags         game
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body CreateGameInput true "Players"
// @Success      200  {object}  GameResponse "Existing game"
// @Success      201  {object}  GameResponse "New game"
// @Failure      400  {object}  GameErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  GameErrorResponse
// @Failure      404  {object}  GameErrorResponse
// @Failure      503  {object}  GameErrorResponse
// @Router       /game/create [post]
func (h *GameHandler) CreateGame(c *gin.Context) {
	var input CreateGameInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondGameError(c, game.ErrInvalidRequest)
		return
	}

	a, b, ok := parsePair(input.Player1ID, input.Player2ID)
	if !ok {
		respondGameError(c, game.ErrInvalidRequest)
		return
	}
	if !h.authorizeAny(c, a, b) {
		return
	}

	g, created, err := h.games.CreateOrGet(c.Request.Context(), a, b)
	if err != nil {
		respondGameError(c, err)
		return
	}

	view := h.view(c.Request.Context(), g)
	if created {
		logger.Log.Infow("game created", "game_id", g.ID, "player_1", g.Player1ID, "player_2", g.Player2ID)
		h.hub.Broadcast(hub.GameTopic(g.ID.String()), hub.Event{Type: EventGameCreated, Payload: view})
		c.JSON(http.StatusCreated, view)
		return
	}
	c.JSON(http.StatusOK, view)
}

// GetGame godoc
// @Summary      Get the game of a pairing
// @Description  Looks up the game of two players in either order.
// @Tags         game
// @Produce      json
// @Security     BearerAuth
// @Param        player_1_id query string true "First player id"
// @Param        player_2_id query string true "Second player id"
// @Success      200  {object}  GameResponse
// @Failure      400  {object}  GameErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  GameErrorResponse
// @Failure      404  {object}  GameErrorResponse
// @Failure      503  {object}  GameErrorResponse
// @Router       /game [get]
func (h *GameHandler) GetGame(c *gin.Context) {
	a, b, ok := parsePair(c.Query("player_1_id"), c.Query("player_2_id"))
	if !ok {
		respondGameError(c, game.ErrInvalidRequest)
		return
	}
	if !h.authorizeAny(c, a, b) {
		return
	}

	g, err := h.games.Get(c.Request.Context(), a, b)
	if err != nil {
		respondGameError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.view(c.Request.Context(), g))
}

// MakeMove godoc
// @Summary      Make a move
// @Description  Places the player's symbol on a field (1-9, row-major). The caller must be the moving player.
// @Tags         game
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body MoveInput true "Move"
// @Success      200  {object}  MoveResponse
// @Failure      400  {object}  GameErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  GameErrorResponse
// @Failure      404  {object}  GameErrorResponse
// @Failure      409  {object}  GameErrorResponse
// @Failure      503  {object}  GameErrorResponse
// @Router       /game/move [post]
func (h *GameHandler) MakeMove(c *gin.Context) {
	var input MoveInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondGameError(c, moveBindError(err))
		return
	}

	gameID, err := uuid.Parse(input.GameID)
	if err != nil {
		respondGameError(c, game.ErrGameNotFound)
		return
	}
	playerID, err := uuid.Parse(input.PlayerID)
	if err != nil {
		respondGameError(c, game.ErrInvalidRequest)
		return
	}

	if me, _ := auth.UserID(c); me != playerID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only move for yourself", "code": "FORBIDDEN"})
		return
	}

	ctx := c.Request.Context()
	res, err := h.games.Move(ctx, gameID, playerID, *input.Field)
	if err != nil {
		respondGameError(c, err)
		return
	}

	resp := MoveResponse{Status: string(res.Status)}
	switch res.Status {
	case game.StatusOK:
		resp.NextTurn = res.NextTurn.String()
	case game.StatusWin:
		resp.WinnerSymbol = string(res.WinnerSymbol)
		resp.WinnerPlayerID = res.WinnerID.String()
		resp.Winner = h.email(ctx, res.WinnerID)
		logger.Log.Infow("game won", "game_id", gameID, "winner", res.WinnerID)
	case game.StatusDraw:
		logger.Log.Infow("game drawn", "game_id", gameID)
	}

	h.hub.Broadcast(hub.GameTopic(gameID.String()), hub.Event{Type: EventGameMove, Payload: h.view(ctx, res.Game)})
	c.JSON(http.StatusOK, resp)
}

// RestartGame godoc
// @Summary      Restart a game
// @Description  Clears the board. Player 1 moves first again.
// @Tags         game
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body RestartInput true "Game"
// @Success      200  {object}  map[string]string "{"message": "Game restarted", "game_id": "..."}"
// @Failure      400  {object}  GameErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  GameErrorResponse
// @Failure      404  {object}  GameErrorResponse
// @Failure      503  {object}  GameErrorResponse
// @Router       /game/restart [post]
func (h *GameHandler) RestartGame(c *gin.Context) {
	var input RestartInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondGameError(c, game.ErrInvalidRequest)
		return
	}

	g, ok := h.participantGame(c, input.GameID)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	g, err := h.games.Restart(ctx, g.ID)
	if err != nil {
		respondGameError(c, err)
		return
	}

	h.hub.Broadcast(hub.GameTopic(g.ID.String()), hub.Event{Type: EventGameRestarted, Payload: h.view(ctx, g)})
	c.JSON(http.StatusOK, gin.H{"message": "Game restarted", "game_id": g.ID.String()})
}

// StreamGame godoc
// @Summary      Stream game events
// @Description  Server-Sent Events for moves and restarts of a game. Participants only.
// @Tags         game
// @Produce      text/event-stream
// @Security     BearerAuth
// @Param        game_id path string true "Game ID"
// @Success      200
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  GameErrorResponse
// @Failure      404  {object}  GameErrorResponse
// @Router       /game/{game_id}/events [get]
func (h *GameHandler) StreamGame(c *gin.Context) {
	g, ok := h.participantGame(c, c.Param("game_id"))
	if !ok {
		return
	}

	streamTopic(c, h.hub, hub.GameTopic(g.ID.String()))
}

// region --- helpers ---

func respondGameError(c *gin.Context, err error) {
	for sentinel, status := range gameErrorStatus {
		if errors.Is(err, sentinel) {
			c.JSON(status, gin.H{"error": sentinel.Error(), "code": game.Code(sentinel)})
			return
		}
	}

	logger.Log.Errorw("game request failed", "path", c.FullPath(), "error", err)
	c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Service temporarily unavailable", "code": game.Code(err)})
}

// moveBindError reports a non-integer field as an invalid field rather than a
// malformed request.
func moveBindError(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field == "field" {
		return game.ErrInvalidField
	}
	return game.ErrInvalidRequest
}

func parsePair(first, second string) (uuid.UUID, uuid.UUID, bool) {
	a, err := uuid.Parse(first)
	if err != nil {
		return uuid.Nil, uuid.Nil, false
	}
	b, err := uuid.Parse(second)
	if err != nil {
		return uuid.Nil, uuid.Nil, false
	}
	return a, b, true
}

// authorizeAny aborts with 403 unless the caller is one of ids.
func (h *GameHandler) authorizeAny(c *gin.Context, ids ...uuid.UUID) bool {
	me, _ := auth.UserID(c)
	for _, id := range ids {
		if id == me {
			return true
		}
	}
	c.JSON(http.StatusForbidden, gin.H{"error": "You are not a participant of this game", "code": "FORBIDDEN"})
	return false
}

func (h *GameHandler) participantGame(c *gin.Context, rawID string) (*game.Game, bool) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		respondGameError(c, game.ErrGameNotFound)
		return nil, false
	}

	g, err := h.games.Find(c.Request.Context(), id)
	if err != nil {
		respondGameError(c, err)
		return nil, false
	}

	if !h.authorizeAny(c, g.Player1ID, g.Player2ID) {
		return nil, false
	}
	return g, true
}

func (h *GameHandler) email(ctx context.Context, id uuid.UUID) string {
	p, err := h.players.Resolve(ctx, id)
	if err != nil {
		logger.Log.Warnw("failed to resolve player email", "player_id", id, "error", err)
		return id.String()
	}
	return p.Email
}

func (h *GameHandler) view(ctx context.Context, g *game.Game) GameResponse {
	board := make(map[string]string, len(g.Board))
	for i, s := range g.Board {
		board[fmt.Sprintf("field_%d", i+1)] = s.Label()
	}

	resp := GameResponse{
		GameID:        g.ID.String(),
		Player1:       g.Player1ID.String(),
		Player2:       g.Player2ID.String(),
		Player1Symbol: string(g.Player1Symbol),
		Player2Symbol: string(g.Player2Symbol),
		CurrentTurn:   g.CurrentTurn.String(),
		IsFinished:    g.IsFinished,
		Board:         board,
		CreatedAt:     g.CreatedAt,
		UpdatedAt:     g.UpdatedAt,
	}
	if g.WinnerID != nil {
		id := g.WinnerID.String()
		email := h.email(ctx, *g.WinnerID)
		resp.WinnerID = &id
		resp.Winner = &email
	}
	return resp
}

// endregion
