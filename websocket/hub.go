package websocket

import (
	"log"
	"sync"
	"time"

	config "github.com/anjiri1684/studio_manager/configs"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

type Client struct {
	UserID   uuid.UUID
	StudioID uuid.UUID
	Conn     *websocket.Conn
}

// Event is pushed to every connected member of the owning studio.
type Event struct {
	StudioID uuid.UUID   `json:"-"`
	Type     string      `json:"type"`
	Payload  interface{} `json:"payload"`
	At       time.Time   `json:"at"`
}

var clients = make(map[uuid.UUID]*Client)
var clientsMu sync.RWMutex
var Register = make(chan *Client)
var Unregister = make(chan *Client)
var Broadcast = make(chan *Event, 64)

// PublishEvent queues an activity event for the studio's connected members.
// The feed is best effort; events are dropped when the buffer is full or the
// hub is not running.
func PublishEvent(studioID uuid.UUID, eventType string, payload interface{}) {
	event := &Event{
		StudioID: studioID,
		Type:     eventType,
		Payload:  payload,
		At:       time.Now(),
	}
	select {
	case Broadcast <- event:
	default:
	}
}

func RunHub() {
	for {
		select {
		case client := <-Register:
			log.Printf("Feed client registered: %s", client.UserID)
			clientsMu.Lock()
			clients[client.UserID] = client
			clientsMu.Unlock()
		case client := <-Unregister:
			log.Printf("Feed client unregistered: %s", client.UserID)
			clientsMu.Lock()
			if existing, ok := clients[client.UserID]; ok && existing.Conn == client.Conn {
				delete(clients, client.UserID)
			}
			clientsMu.Unlock()
		case event := <-Broadcast:
			clientsMu.RLock()
			stale := []*Client{}
			for _, client := range clients {
				if client.StudioID != event.StudioID {
					continue
				}
				if err := client.Conn.WriteJSON(event); err != nil {
					log.Printf("Error pushing event to client %s: %v", client.UserID, err)
					client.Conn.Close()
					stale = append(stale, client)
				}
			}
			clientsMu.RUnlock()

			if len(stale) > 0 {
				clientsMu.Lock()
				for _, client := range stale {
					if existing, ok := clients[client.UserID]; ok && existing.Conn == client.Conn {
						delete(clients, client.UserID)
					}
				}
				clientsMu.Unlock()
			}
		}
	}
}

// UpgradeRequired guards the websocket group against plain HTTP requests.
func UpgradeRequired(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// FeedHandler authenticates the connection from a token query param (browsers
// cannot set headers on websocket upgrades) and keeps it registered until the
// peer goes away.
func FeedHandler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		userID, studioID, err := parseFeedToken(conn.Query("token"))
		if err != nil {
			conn.WriteJSON(fiber.Map{"error": "Invalid or expired token"})
			conn.Close()
			return
		}

		client := &Client{UserID: userID, StudioID: studioID, Conn: conn}
		Register <- client
		defer func() {
			Unregister <- client
		}()

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	})
}

func parseFeedToken(tokenString string) (uuid.UUID, uuid.UUID, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return []byte(config.Config("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, uuid.Nil, jwt.ErrTokenUnverifiable
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, uuid.Nil, jwt.ErrTokenInvalidClaims
	}

	subject, _ := claims["sub"].(string)
	userID, err := uuid.Parse(subject)
	if err != nil {
		return uuid.Nil, uuid.Nil, jwt.ErrTokenInvalidClaims
	}

	studioClaim, _ := claims["studio_id"].(string)
	studioID, err := uuid.Parse(studioClaim)
	if err != nil {
		return uuid.Nil, uuid.Nil, jwt.ErrTokenInvalidClaims
	}

	return userID, studioID, nil
}
