package server

import (
	"encoding/json"
	"strings"

	"github.com/varunish/Wingspan-online/internal/catalog"
	"github.com/varunish/Wingspan-online/internal/game"
	"github.com/varunish/Wingspan-online/internal/game/food"
)

// Client to server message types.
const (
	MsgCreateLobby     = "createLobby"
	MsgJoinLobby       = "joinLobby"
	MsgLeaveLobby      = "leaveLobby"
	MsgStartGame       = "startGame"
	MsgReconnectToGame = "reconnectToGame"
	MsgConfirmSetup    = "confirmSetup"
	MsgGainFood        = "gainFood"
	MsgLayEggs         = "layEggs"
	MsgDrawCards       = "drawCards"
	MsgPlayBird        = "playBird"
	MsgExchange        = "exchangeResource"
	MsgConvertFood     = "convertFood"
	MsgDiscardCards    = "discardCards"
	MsgChooseBonusCard = "chooseBonusCard"
	MsgLeaveGame       = "leaveGame"
)

// Server to client message types.
const (
	MsgLobbyUpdate      = "lobbyUpdate"
	MsgLobbyJoined      = "lobbyJoined"
	MsgLobbyError       = "lobbyError"
	MsgGameStarted      = "gameStarted"
	MsgStateUpdate      = "stateUpdate"
	MsgPowerActivated   = "powerActivated"
	MsgActionError      = "actionError"
	MsgActionSuccess    = "actionSuccess"
	MsgReconnectSuccess = "reconnectSuccess"
	MsgReconnectError   = "reconnectError"
)

// Envelope frames every websocket message in both directions.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

type outbound struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

func encode(msgType string, data any) ([]byte, error) {
	return json.Marshal(outbound{Type: msgType, Data: data})
}

// StatePayload is a game view with its checksum.
type StatePayload struct {
	game.View
	Checksum string `json:"checksum"`
}

func newStatePayload(v game.View) StatePayload {
	return StatePayload{View: v, Checksum: v.Checksum()}
}

type errorPayload struct {
	Error string `json:"error"`
}

type messagePayload struct {
	Message string `json:"message"`
}

type gameStartedPayload struct {
	State    StatePayload `json:"state"`
	PlayerID string       `json:"playerId"`
}

type reconnectPayload struct {
	Message  string       `json:"message"`
	State    StatePayload `json:"state"`
	PlayerID string       `json:"playerId"`
}

type lobbyJoinedPayload struct {
	LobbyID  string `json:"lobbyId"`
	PlayerID string `json:"playerId"`
}

type lobbyRequest struct {
	LobbyID    string `json:"lobbyId"`
	PlayerName string `json:"playerName"`
}

type confirmSetupRequest struct {
	GameID      string   `json:"gameId"`
	KeptBirdIDs []string `json:"keptBirdIds"`
	BonusCardID string   `json:"bonusCardId"`
}

type gainFoodRequest struct {
	GameID    string   `json:"gameId"`
	Habitat   string   `json:"habitat"`
	FoodTypes []string `json:"foodTypes"`
}

type layEggsRequest struct {
	GameID  string   `json:"gameId"`
	Habitat string   `json:"habitat"`
	BirdIDs []string `json:"birdIds"`
}

type drawCardsRequest struct {
	GameID   string   `json:"gameId"`
	Habitat  string   `json:"habitat"`
	Count    int      `json:"count"`
	FromTray []string `json:"fromTray"`
}

type playBirdRequest struct {
	GameID          string   `json:"gameId"`
	BirdID          string   `json:"birdId"`
	Habitat         string   `json:"habitat"`
	WildFoodChoices []string `json:"wildFoodChoices"`
}

type exchangeRequest struct {
	GameID       string              `json:"gameId"`
	ExchangeType string              `json:"exchangeType"`
	Params       game.ExchangeParams `json:"params"`
}

type convertFoodRequest struct {
	GameID    string   `json:"gameId"`
	GiveFoods []string `json:"giveFoods"`
	GetFood   string   `json:"getFood"`
}

type discardCardsRequest struct {
	GameID  string   `json:"gameId"`
	CardIDs []string `json:"cardIds"`
}

type chooseBonusRequest struct {
	GameID      string `json:"gameId"`
	BonusCardID string `json:"bonusCardId"`
}

type gameRequest struct {
	GameID string `json:"gameId"`
}

// habitatOf normalizes a client habitat name. Unknown names pass through so
// the engine reports which habitat the action needs.
func habitatOf(s string) catalog.Habitat {
	if h, err := catalog.ParseHabitat(s); err == nil {
		return h
	}
	return catalog.Habitat(strings.ToLower(strings.TrimSpace(s)))
}

func kindOf(s string) food.Kind {
	if k, err := food.ParseKind(s); err == nil {
		return k
	}
	return food.Kind(strings.ToLower(strings.TrimSpace(s)))
}

func kindsOf(raw []string) []food.Kind {
	out := make([]food.Kind, 0, len(raw))
	for _, s := range raw {
		out = append(out, kindOf(s))
	}
	return out
}

func normalizeOptional(k food.Kind) food.Kind {
	if k == "" {
		return ""
	}
	return kindOf(string(k))
}
