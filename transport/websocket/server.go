package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rocketscienceinc/tictactoe-history/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-history/internal/entity"
)

const shutdownTimeout = 5 * time.Second

type gameService interface {
	GetGame(ctx context.Context, id string) (*entity.Game, error)
	Play(ctx context.Context, id string, cell int) (*entity.Game, error)
	JumpTo(ctx context.Context, id string, move int) (*entity.Game, error)
}

type subscriber interface {
	Subscribe(ctx context.Context, gameID string) (<-chan *entity.Game, func(), error)
}

type handlerFunc func(ctx context.Context, sess *session, payload *RequestPayload) error

// session is one client connection bound to one game.
type session struct {
	conn    *websocket.Conn
	gameID  string
	order   string
	writeMu sync.Mutex
}

type Server struct {
	logger      *slog.Logger
	gameService gameService
	subscriber  subscriber
	upgrader    websocket.Upgrader

	handlers map[string]handlerFunc
}

func New(logger *slog.Logger, gameService gameService, subscriber subscriber) *Server {
	server := &Server{
		logger:      logger.With("component", "websocket"),
		gameService: gameService,
		subscriber:  subscriber,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},

		handlers: make(map[string]handlerFunc),
	}

	server.handlers[actionState] = server.handleState
	server.handlers[actionPlay] = server.handlePlay
	server.handlers[actionJump] = server.handleJump

	return server
}

func (that *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", that.serveWS)

	return mux
}

// Start - starts WebSocket server.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           that.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shutdown server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// serveWS - upgrades the connection and serves one game until the client leaves.
func (that *Server) serveWS(writer http.ResponseWriter, req *http.Request) {
	gameID := req.URL.Query().Get("game")
	log := that.logger.With("method", "serveWS", "gameID", gameID)

	if gameID == "" {
		http.Error(writer, "game is required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithCancel(req.Context())
	defer cancel()

	// subscribe before reading the snapshot so no change falls in between
	updates, unsubscribe, err := that.subscriber.Subscribe(ctx, gameID)
	if err != nil {
		log.Error("failed to subscribe to game updates", "error", err)
		http.Error(writer, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	defer unsubscribe()

	game, err := that.gameService.GetGame(ctx, gameID)
	if errors.Is(err, apperror.ErrGameNotFound) {
		http.NotFound(writer, req)
		return
	}

	if err != nil {
		log.Error("failed to get game", "error", err)
		http.Error(writer, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	conn, err := that.upgrader.Upgrade(writer, req, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}
	defer conn.Close()

	// unblocks the read loop on server shutdown
	go func() {
		<-ctx.Done()
		_ = conn.Close()
	}()

	sess := &session{conn: conn, gameID: gameID, order: sortOrder(req)}

	log.Info("WebSocket connection established")

	if err = sess.sendGame(actionState, game); err != nil {
		log.Error("failed to send game state", "error", err)
		return
	}

	go that.pushUpdates(ctx, sess, updates)

	if err = that.handleMessages(ctx, sess); err != nil {
		log.Info("WebSocket connection closed", "reason", err)
	}
}

// pushUpdates - forwards every published change of the game to the client.
func (that *Server) pushUpdates(ctx context.Context, sess *session, updates <-chan *entity.Game) {
	log := that.logger.With("method", "pushUpdates", "gameID", sess.gameID)

	for {
		select {
		case <-ctx.Done():
			return
		case game, ok := <-updates:
			if !ok {
				return
			}

			if err := sess.sendGame(actionUpdate, game); err != nil {
				log.Error("failed to push game update", "error", err)
				return
			}
		}
	}
}

// handleMessages - processes messages from the client.
func (that *Server) handleMessages(ctx context.Context, sess *session) error {
	log := that.logger.With("method", "handleMessages", "gameID", sess.gameID)

	for {
		_, data, err := sess.conn.ReadMessage()
		if err != nil {
			return err
		}

		var message Message
		if err = json.Unmarshal(data, &message); err != nil {
			log.Error("failed to unmarshal message", "error", err)
			if err = sess.sendError(actionError, "malformed message"); err != nil {
				return err
			}

			continue
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			log.Error("unknown action", "action", message.Action)
			if err := sess.sendError(message.Action, "unknown action"); err != nil {
				return err
			}

			continue
		}

		var payload RequestPayload
		if len(message.Payload) > 0 {
			if err := json.Unmarshal(message.Payload, &payload); err != nil {
				if err = sess.sendError(message.Action, "malformed payload"); err != nil {
					return err
				}

				continue
			}
		}

		if err := handler(ctx, sess, &payload); err != nil {
			log.Error("error processing message", "action", message.Action, "error", err)
			if err = sess.sendError(message.Action, errorText(err)); err != nil {
				return err
			}
		}
	}
}

func sortOrder(req *http.Request) string {
	if req.URL.Query().Get("order") == entity.SortDescending {
		return entity.SortDescending
	}

	return entity.SortAscending
}

func errorText(err error) string {
	for _, known := range []error{apperror.ErrGameNotFound, apperror.ErrInvalidMove, apperror.ErrGameConflict, errMissingField} {
		if errors.Is(err, known) {
			return known.Error()
		}
	}

	return "internal server error"
}
