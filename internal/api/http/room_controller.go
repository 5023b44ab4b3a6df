package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/TR404/video-call-app/internal/api/http/converter"
	"github.com/TR404/video-call-app/internal/config"
	"github.com/TR404/video-call-app/internal/repository"
	"github.com/TR404/video-call-app/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pion/webrtc/v3"
)

type RoomController struct {
	rooms  service.RoomInteractor
	webrtc config.WebRTCConfig
}

func NewRoomController(rooms service.RoomInteractor, webrtcCfg config.WebRTCConfig) *RoomController {
	return &RoomController{rooms: rooms, webrtc: webrtcCfg}
}

// CreateRoom mints a fresh room identifier and share link. It reserves the
// name only; nobody is a member until they join over the websocket.
func (c *RoomController) CreateRoom(ctx *gin.Context) {
	type CreateRoomRequest struct {
		Name           string `json:"name" binding:"required"`
		LifetimeMinute int    `json:"lifetime_minutes"`
	}
	var req CreateRoomRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	lifetime := time.Duration(req.LifetimeMinute) * time.Minute
	room, err := c.rooms.CreateRoom(ctx.Request.Context(), req.Name, lifetime)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"room": converter.RoomToApi(room)})
}

func (c *RoomController) GetRoom(ctx *gin.Context) {
	roomID, err := uuid.Parse(ctx.Param("roomID"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid room id"})
		return
	}

	room, err := c.rooms.GetRoom(ctx.Request.Context(), roomID)
	if err != nil {
		ctx.JSON(roomErrStatus(err), gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"room": converter.RoomToApi(room)})
}

func (c *RoomController) GetRoomByLink(ctx *gin.Context) {
	room, err := c.rooms.GetRoomByLink(ctx.Request.Context(), ctx.Param("link"))
	if err != nil {
		ctx.JSON(roomErrStatus(err), gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"room": converter.RoomToApi(room)})
}

// ListParticipants reports live membership straight from the registry. The
// room parameter is the signaling room name, which need not have been created
// through CreateRoom.
func (c *RoomController) ListParticipants(ctx *gin.Context) {
	members := c.rooms.ListParticipants(ctx.Param("roomID"))
	ctx.JSON(http.StatusOK, gin.H{"participants": members})
}

// WebRTCConfig hands clients the ICE servers to use when building their peer
// connections.
func (c *RoomController) WebRTCConfig(ctx *gin.Context) {
	servers := []webrtc.ICEServer{
		{URLs: c.webrtc.STUNServers},
	}
	ctx.JSON(http.StatusOK, gin.H{"iceServers": servers})
}

func roomErrStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrRoomExpired):
		return http.StatusGone
	case errors.Is(err, repository.ErrRoomNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
