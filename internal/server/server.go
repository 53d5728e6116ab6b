// Package server exposes games to browsers over websockets and reports
// process health over gRPC.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/varunish/Wingspan-online/internal/config"
	"github.com/varunish/Wingspan-online/internal/game"
	"github.com/varunish/Wingspan-online/internal/game/rules"
	"github.com/varunish/Wingspan-online/internal/lobby"
)

// Server routes websocket messages to lobbies and games.
type Server struct {
	hub      *Hub
	lobbies  *lobby.Manager
	games    *GameRegistry
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

// New wires a server. The hub must be running before connections arrive.
func New(cfg config.WebSocketConfig, hub *Hub, lobbies *lobby.Manager, games *GameRegistry, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		hub:     hub,
		lobbies: lobbies,
		games:   games,
		logger:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  cfg.ReadBufferSize,
			WriteBufferSize: cfg.WriteBufferSize,
			CheckOrigin:     originChecker(cfg.AllowedOrigins),
		},
	}
	hub.gone = s.disconnected
	return s
}

// originChecker accepts every origin when allowed is empty.
func originChecker(allowed []string) func(*http.Request) bool {
	if len(allowed) == 0 {
		return func(*http.Request) bool { return true }
	}
	set := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		set[strings.ToLower(strings.TrimRight(o, "/"))] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || set[strings.ToLower(origin)]
	}
}

// ServeHTTP upgrades the request and starts the connection pumps.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := newClient(conn)
	select {
	case s.hub.register <- client:
	case <-s.hub.done:
		conn.Close()
		return
	}

	s.logger.Info("client connected",
		zap.String("conn_id", client.id),
		zap.String("remote_addr", r.RemoteAddr),
	)

	go client.writePump()
	go client.readPump(s.hub, s.handleMessage)
}

// Handler returns an http handler serving the websocket endpoint at path and
// a plain-text health probe at /health.
func (s *Server) Handler(path string) http.Handler {
	mux := http.NewServeMux()
	mux.Handle(path, s)
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	return mux
}

// ListenAndServe serves the websocket endpoint until ctx ends, then shuts the
// listener down within shutdownTimeout.
func (s *Server) ListenAndServe(ctx context.Context, cfg config.WebSocketConfig, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              cfg.Address,
		Handler:           s.Handler(cfg.Path),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting WebSocket server",
			zap.String("address", cfg.Address),
			zap.String("path", cfg.Path),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) send(c *Client, msgType string, data any) {
	msg, err := encode(msgType, data)
	if err != nil {
		s.logger.Error("failed to encode message", zap.String("type", msgType), zap.Error(err))
		return
	}
	s.hub.Send(c, msg)
}

func (s *Server) broadcast(room, msgType string, data any) {
	msg, err := encode(msgType, data)
	if err != nil {
		s.logger.Error("failed to encode message", zap.String("type", msgType), zap.Error(err))
		return
	}
	s.hub.Broadcast(room, msg)
}

func lobbyRoom(code string) string { return "lobby:" + code }

func (s *Server) handleMessage(c *Client, raw []byte) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		s.send(c, MsgActionError, errorPayload{Error: "Malformed message"})
		return
	}

	gameID, playerID := c.seat()
	s.logger.Debug("message received",
		zap.String("conn_id", c.id),
		zap.String("type", env.Type),
		zap.String("game_id", gameID),
		zap.String("player_id", playerID),
	)

	var err error
	switch env.Type {
	case MsgCreateLobby:
		err = s.createLobby(c, env.Data)
	case MsgJoinLobby:
		err = s.joinLobby(c, env.Data)
	case MsgLeaveLobby:
		s.leaveLobby(c)
	case MsgStartGame:
		err = s.startGame(c, env.Data)
	case MsgReconnectToGame:
		s.reconnect(c, env.Data)
	case MsgLeaveGame:
		s.leaveGame(c)
	case MsgConfirmSetup, MsgGainFood, MsgLayEggs, MsgDrawCards, MsgPlayBird,
		MsgExchange, MsgConvertFood, MsgDiscardCards, MsgChooseBonusCard:
		s.gameAction(c, env)
	default:
		s.send(c, MsgActionError, errorPayload{Error: fmt.Sprintf("Unknown message type: %s", env.Type)})
	}

	if err != nil {
		s.send(c, MsgLobbyError, errorPayload{Error: err.Error()})
	}
}

func decode(data json.RawMessage, v any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("Malformed payload")
	}
	return nil
}

func (s *Server) createLobby(c *Client, data json.RawMessage) error {
	var req lobbyRequest
	if err := decode(data, &req); err != nil {
		return err
	}
	s.leaveLobby(c)

	snap, member, err := s.lobbies.Create(req.PlayerName)
	if err != nil {
		return err
	}
	s.enterLobby(c, snap, member)
	return nil
}

func (s *Server) joinLobby(c *Client, data json.RawMessage) error {
	var req lobbyRequest
	if err := decode(data, &req); err != nil {
		return err
	}
	s.leaveLobby(c)

	snap, member, err := s.lobbies.Join(req.LobbyID, req.PlayerName)
	if err != nil {
		return err
	}
	s.enterLobby(c, snap, member)
	return nil
}

func (s *Server) enterLobby(c *Client, snap lobby.Snapshot, member lobby.Member) {
	c.setLobby(snap.ID, member.ID)
	s.hub.Join(lobbyRoom(snap.ID), c)
	s.send(c, MsgLobbyJoined, lobbyJoinedPayload{LobbyID: snap.ID, PlayerID: member.ID})
	s.broadcast(lobbyRoom(snap.ID), MsgLobbyUpdate, snap)
}

// leaveLobby gives up c's seat in a lobby that has not started yet.
func (s *Server) leaveLobby(c *Client) {
	code, memberID := c.lobby()
	if code == "" {
		return
	}
	c.setLobby("", "")
	s.hub.Leave(lobbyRoom(code), c)

	snap, open, err := s.lobbies.Leave(code, memberID)
	if err != nil {
		return
	}
	if open {
		s.broadcast(lobbyRoom(code), MsgLobbyUpdate, snap)
	}
}

func (s *Server) startGame(c *Client, data json.RawMessage) error {
	var req lobbyRequest
	if err := decode(data, &req); err != nil {
		return err
	}
	code, memberID := c.lobby()
	if req.LobbyID != "" && lobby.NormalizeCode(req.LobbyID) != code {
		return lobby.ErrNotMember
	}

	snap, err := s.lobbies.Start(code, memberID)
	if err != nil {
		return err
	}

	seats := make([]game.Seat, len(snap.Players))
	for i, m := range snap.Players {
		seats[i] = game.Seat{ID: m.ID, Name: m.Name}
	}

	// The game takes the lobby's code as its id so players can rejoin by code.
	if _, err := s.games.Create(code, seats); err != nil {
		s.logger.Error("failed to create game", zap.String("game_id", code), zap.Error(err))
		return err
	}

	members := s.hub.Members(lobbyRoom(code))
	for _, m := range members {
		_, id := m.lobby()
		s.hub.Bind(code, id, m)
		s.hub.Leave(lobbyRoom(code), m)
		m.setLobby("", "")
	}

	err = s.games.Do(code, func(g *game.Game) error {
		state := newStatePayload(g.View())
		for _, m := range members {
			_, playerID := m.seat()
			s.send(m, MsgGameStarted, gameStartedPayload{State: state, PlayerID: playerID})
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("game started",
		zap.String("game_id", code),
		zap.Int("players", len(seats)),
	)
	return nil
}

func (s *Server) reconnect(c *Client, data json.RawMessage) {
	var req lobbyRequest
	if err := decode(data, &req); err != nil {
		s.send(c, MsgReconnectError, errorPayload{Error: err.Error()})
		return
	}
	gameID := lobby.NormalizeCode(req.LobbyID)

	err := s.games.Do(gameID, func(g *game.Game) error {
		p, ok := g.PlayerByName(strings.TrimSpace(req.PlayerName))
		if !ok {
			return errors.New("Player not found in game")
		}

		s.leaveLobby(c)
		s.hub.Unbind(c)
		s.hub.Bind(gameID, p.ID, c)
		g.Note("%s reconnected", p.Name)

		state := newStatePayload(g.View())
		s.send(c, MsgReconnectSuccess, reconnectPayload{
			Message:  fmt.Sprintf("Reconnected as %s", p.Name),
			State:    state,
			PlayerID: p.ID,
		})
		s.broadcast(gameID, MsgStateUpdate, state)

		s.logger.Info("player reconnected",
			zap.String("game_id", gameID),
			zap.String("player_id", p.ID),
			zap.String("conn_id", c.id),
		)
		return nil
	})
	if err != nil {
		s.send(c, MsgReconnectError, errorPayload{Error: err.Error()})
	}
}

// leaveGame announces that c's player left and releases the seat. The
// player stays in the game and may reconnect by name.
func (s *Server) leaveGame(c *Client) {
	s.releaseSeat(c, "%s left the game")
}

func (s *Server) disconnected(c *Client) {
	s.leaveLobby(c)
	s.releaseSeat(c, "%s disconnected")
	s.logger.Info("client disconnected", zap.String("conn_id", c.id))
}

func (s *Server) releaseSeat(c *Client, note string) {
	gameID, playerID := c.seat()
	if gameID == "" {
		return
	}
	s.hub.Unbind(c)

	_ = s.games.Do(gameID, func(g *game.Game) error {
		if p, ok := g.Player(playerID); ok {
			g.Note(note, p.Name)
		}
		s.broadcast(gameID, MsgStateUpdate, newStatePayload(g.View()))
		return nil
	})

	if s.hub.RoomSize(gameID) == 0 && s.games.Finished(gameID) {
		s.games.Remove(gameID)
		s.lobbies.Remove(gameID)
	}
}

// gameAction runs one engine call for c's seat. Failures go to c alone;
// success broadcasts the new state, then each power activation.
func (s *Server) gameAction(c *Client, env Envelope) {
	gameID, playerID := c.seat()
	if gameID == "" {
		s.send(c, MsgActionError, errorPayload{Error: "Player not found"})
		return
	}

	var req gameRequest
	if err := decode(env.Data, &req); err != nil {
		s.send(c, MsgActionError, errorPayload{Error: err.Error()})
		return
	}
	if req.GameID != "" && lobby.NormalizeCode(req.GameID) != gameID {
		s.send(c, MsgActionError, errorPayload{Error: "Player not found"})
		return
	}

	logger := s.logger.With(
		zap.String("game_id", gameID),
		zap.String("player_id", playerID),
		zap.String("conn_id", c.ID()),
		zap.String("action", env.Type),
	)

	err := s.games.Do(gameID, func(g *game.Game) error {
		acts, success, err := dispatch(g, playerID, env)
		if err != nil {
			return err
		}

		s.broadcast(gameID, MsgStateUpdate, newStatePayload(g.View()))
		for _, act := range acts {
			s.broadcast(gameID, MsgPowerActivated, act)
		}
		s.send(c, MsgActionSuccess, messagePayload{Message: success})
		return nil
	})
	if err != nil {
		logger.Warn("action rejected",
			zap.String("violation", string(rules.KindOf(err))),
			zap.Error(err),
		)
		s.send(c, MsgActionError, errorPayload{Error: err.Error()})
	}
}

// dispatch decodes env and invokes the matching engine operation. It returns
// the power activations and the message for the acting player.
func dispatch(g *game.Game, playerID string, env Envelope) ([]rules.Activation, string, error) {
	switch env.Type {
	case MsgConfirmSetup:
		var req confirmSetupRequest
		if err := decode(env.Data, &req); err != nil {
			return nil, "", err
		}
		if err := g.ConfirmSetup(playerID, req.KeptBirdIDs, req.BonusCardID); err != nil {
			return nil, "", err
		}
		return nil, "Setup confirmed", nil

	case MsgGainFood:
		var req gainFoodRequest
		if err := decode(env.Data, &req); err != nil {
			return nil, "", err
		}
		acts, err := g.GainFood(playerID, habitatOf(req.Habitat), kindsOf(req.FoodTypes))
		if err != nil {
			return nil, "", err
		}
		return acts, "Gained food successfully!", nil

	case MsgLayEggs:
		var req layEggsRequest
		if err := decode(env.Data, &req); err != nil {
			return nil, "", err
		}
		acts, err := g.LayEggs(playerID, habitatOf(req.Habitat), req.BirdIDs)
		if err != nil {
			return nil, "", err
		}
		return acts, fmt.Sprintf("Laid %d eggs successfully!", len(req.BirdIDs)), nil

	case MsgDrawCards:
		var req drawCardsRequest
		if err := decode(env.Data, &req); err != nil {
			return nil, "", err
		}
		acts, err := g.DrawCards(playerID, habitatOf(req.Habitat), req.Count, req.FromTray)
		if err != nil {
			return nil, "", err
		}
		return acts, fmt.Sprintf("Drew %d cards successfully!", req.Count), nil

	case MsgPlayBird:
		var req playBirdRequest
		if err := decode(env.Data, &req); err != nil {
			return nil, "", err
		}
		habitat := habitatOf(req.Habitat)
		acts, err := g.PlayBird(playerID, req.BirdID, habitat, kindsOf(req.WildFoodChoices))
		if err != nil {
			return nil, "", err
		}
		name := "bird"
		if p, ok := g.Player(playerID); ok {
			if row := p.Habitats[habitat]; len(row) > 0 {
				name = row[len(row)-1].Name
			}
		}
		return acts, fmt.Sprintf("Played %s successfully!", name), nil

	case MsgExchange:
		var req exchangeRequest
		if err := decode(env.Data, &req); err != nil {
			return nil, "", err
		}
		params := req.Params
		params.Food = normalizeOptional(params.Food)
		params.Food2 = normalizeOptional(params.Food2)
		if err := g.ExchangeResource(playerID, game.ExchangeKind(req.ExchangeType), params); err != nil {
			return nil, "", err
		}
		return nil, "Exchange completed successfully!", nil

	case MsgConvertFood:
		var req convertFoodRequest
		if err := decode(env.Data, &req); err != nil {
			return nil, "", err
		}
		if err := g.ConvertFood(playerID, kindsOf(req.GiveFoods), kindOf(req.GetFood)); err != nil {
			return nil, "", err
		}
		return nil, "Food conversion successful!", nil

	case MsgDiscardCards:
		var req discardCardsRequest
		if err := decode(env.Data, &req); err != nil {
			return nil, "", err
		}
		if err := g.DiscardCards(playerID, req.CardIDs); err != nil {
			return nil, "", err
		}
		return nil, "Discarded cards successfully!", nil

	case MsgChooseBonusCard:
		var req chooseBonusRequest
		if err := decode(env.Data, &req); err != nil {
			return nil, "", err
		}
		if err := g.ChooseBonusCard(playerID, req.BonusCardID); err != nil {
			return nil, "", err
		}
		return nil, "Bonus card kept!", nil
	}
	return nil, "", fmt.Errorf("Unknown message type: %s", env.Type)
}
